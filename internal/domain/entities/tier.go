package entities

// Tier is the privacy classification of a meeting. It drives storage
// namespace routing and the redaction policy; it is never inferred from
// content.
type Tier string

const (
	TierOrdinary  Tier = "ordinary"
	TierSensitive Tier = "sensitive"
)

// AllTiers lists the tiers in their canonical scan order.
var AllTiers = []Tier{TierOrdinary, TierSensitive}

// Valid reports whether the tier is one of the known classifications.
func (t Tier) Valid() bool {
	return t == TierOrdinary || t == TierSensitive
}

func (t Tier) String() string {
	return string(t)
}

// ParseTier converts a string to a Tier, defaulting empty input to
// ordinary. Callers check Valid on the result.
func ParseTier(s string) Tier {
	if s == "" {
		return TierOrdinary
	}
	return Tier(s)
}
