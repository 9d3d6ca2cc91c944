package ai

import (
	"context"
	"fmt"

	"github.com/johnquangdev/meeting-intelligence/internal/domain/entities"
)

// DisabledExtractor is the extraction port wired when no API key is
// configured. Every extraction attempt fails with a configuration error, so
// process requests are rejected while search, listing, and analytics over
// previously stored meetings keep working.
type DisabledExtractor struct{}

// NewDisabledExtractor creates the disabled extraction port.
func NewDisabledExtractor() *DisabledExtractor {
	return &DisabledExtractor{}
}

// Extract always fails; extraction needs a configured API key.
func (DisabledExtractor) Extract(_ context.Context, _ *entities.Transcript) (*entities.Insights, error) {
	return nil, fmt.Errorf("extraction disabled: OPENAI_API_KEY not set")
}

// Model identifies the disabled backend for audit provenance.
func (DisabledExtractor) Model() string {
	return "disabled"
}
