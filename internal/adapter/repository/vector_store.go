package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"sort"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/johnquangdev/meeting-intelligence/internal/domain/entities"
	"github.com/johnquangdev/meeting-intelligence/internal/domain/ports"
	"github.com/johnquangdev/meeting-intelligence/internal/domain/repositories"
)

// embedInputLimit bounds the document prefix fed to the embedder so large
// transcripts do not inflate embedding cost.
const embedInputLimit = 8000

// VectorStore persists processed meetings in Redis, one namespace per tier.
// Each record spans three keys: the JSON document under
// "meeting:{ns}:{id}", its embedding under "emb:{ns}:{id}", and membership
// in the namespace index set "idx:{ns}". Raw transcripts live beside the
// record under "transcript:{ns}:{id}".
//
// Search is a brute-force cosine scan over the namespace. That is fine for
// per-tenant meeting corpora; an ANN index would be needed at larger scale.
type VectorStore struct {
	rdb       redis.UniversalClient
	embedder  ports.Embedder
	namespace string
	logger    *zap.Logger
}

// NewVectorStore creates a store bound to one namespace.
func NewVectorStore(rdb redis.UniversalClient, embedder ports.Embedder, namespace string, logger *zap.Logger) *VectorStore {
	return &VectorStore{
		rdb:       rdb,
		embedder:  embedder,
		namespace: namespace,
		logger:    logger,
	}
}

// NewTieredStores creates one isolated store per tier.
func NewTieredStores(rdb redis.UniversalClient, embedder ports.Embedder, logger *zap.Logger) map[entities.Tier]repositories.MeetingStore {
	stores := make(map[entities.Tier]repositories.MeetingStore, len(entities.AllTiers))
	for _, tier := range entities.AllTiers {
		stores[tier] = NewVectorStore(rdb, embedder, string(tier), logger)
	}
	return stores
}

func (s *VectorStore) dataKey(meetingID string) string {
	return fmt.Sprintf("meeting:%s:%s", s.namespace, meetingID)
}

func (s *VectorStore) embKey(meetingID string) string {
	return fmt.Sprintf("emb:%s:%s", s.namespace, meetingID)
}

func (s *VectorStore) indexKey() string {
	return fmt.Sprintf("idx:%s", s.namespace)
}

func (s *VectorStore) transcriptKey(meetingID string) string {
	return fmt.Sprintf("transcript:%s:%s", s.namespace, meetingID)
}

// Namespace returns the partition this store is bound to.
func (s *VectorStore) Namespace() string {
	return s.namespace
}

// AddMeeting persists the record and index membership atomically, then
// computes and writes the embedding. Overwrites an existing record for the
// same meeting id.
func (s *VectorStore) AddMeeting(ctx context.Context, meeting *entities.ProcessedMeeting) (string, error) {
	vectorID := fmt.Sprintf("%s_%s", s.namespace, meeting.MeetingID)

	if meeting.ProcessedAt.IsZero() {
		meeting.ProcessedAt = time.Now().UTC()
	}
	meeting.VectorID = vectorID

	document := meetingToDocument(meeting)
	record := repositories.StoredMeeting{
		Document: document,
		Metadata: repositories.Metadata{
			MeetingID:   meeting.MeetingID,
			Tier:        string(meeting.Tier),
			Namespace:   s.namespace,
			ProcessedAt: meeting.ProcessedAt.Format(time.RFC3339),
			Title:       meeting.Insights.MeetingTitle,
		},
		VectorID:         vectorID,
		ProcessedMeeting: *meeting,
	}

	payload, err := json.Marshal(record)
	if err != nil {
		return "", fmt.Errorf("marshal meeting record: %w", err)
	}

	_, err = s.rdb.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Set(ctx, s.dataKey(meeting.MeetingID), payload, 0)
		pipe.SAdd(ctx, s.indexKey(), meeting.MeetingID)
		return nil
	})
	if err != nil {
		return "", fmt.Errorf("write meeting record: %w", err)
	}

	embedding, err := s.embedder.Embed(ctx, truncate(document, embedInputLimit))
	if err != nil {
		return "", fmt.Errorf("embed document: %w", err)
	}

	embPayload, err := json.Marshal(embedding)
	if err != nil {
		return "", fmt.Errorf("marshal embedding: %w", err)
	}
	if err := s.rdb.Set(ctx, s.embKey(meeting.MeetingID), embPayload, 0).Err(); err != nil {
		return "", fmt.Errorf("write embedding: %w", err)
	}

	s.logger.Debug("meeting stored",
		zap.String("namespace", s.namespace),
		zap.String("meeting_id", meeting.MeetingID),
		zap.String("vector_id", vectorID),
	)

	return vectorID, nil
}

// GetMeeting returns the stored record, or nil when absent.
func (s *VectorStore) GetMeeting(ctx context.Context, meetingID string) (*repositories.StoredMeeting, error) {
	raw, err := s.rdb.Get(ctx, s.dataKey(meetingID)).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read meeting record: %w", err)
	}

	var record repositories.StoredMeeting
	if err := json.Unmarshal(raw, &record); err != nil {
		return nil, fmt.Errorf("decode meeting record: %w", err)
	}
	return &record, nil
}

// ListMeetings returns metadata for every stored meeting, sorted by meeting
// id ascending. Index entries whose record vanished mid-scan or no longer
// decodes are skipped; one corrupt record must not fail the whole scan.
func (s *VectorStore) ListMeetings(ctx context.Context) ([]repositories.Metadata, error) {
	ids, err := s.rdb.SMembers(ctx, s.indexKey()).Result()
	if err != nil {
		return nil, fmt.Errorf("read namespace index: %w", err)
	}
	sort.Strings(ids)

	metas := make([]repositories.Metadata, 0, len(ids))
	for _, id := range ids {
		record, err := s.scanMeeting(ctx, id)
		if err != nil {
			return nil, err
		}
		if record == nil {
			continue
		}
		metas = append(metas, record.Metadata)
	}
	return metas, nil
}

// scanMeeting is the lenient read used by scans: absent and undecodable
// records both come back nil so the scan continues. Backend errors stay
// fatal.
func (s *VectorStore) scanMeeting(ctx context.Context, meetingID string) (*repositories.StoredMeeting, error) {
	raw, err := s.rdb.Get(ctx, s.dataKey(meetingID)).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read meeting record: %w", err)
	}

	var record repositories.StoredMeeting
	if err := json.Unmarshal(raw, &record); err != nil {
		s.logger.Warn("skipping undecodable record",
			zap.String("namespace", s.namespace),
			zap.String("meeting_id", meetingID),
			zap.Error(err),
		)
		return nil, nil
	}
	return &record, nil
}

// DeleteMeeting removes record, embedding, and index membership as one
// atomic unit. Deleting an absent meeting is a no-op.
func (s *VectorStore) DeleteMeeting(ctx context.Context, meetingID string) error {
	_, err := s.rdb.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Del(ctx, s.dataKey(meetingID))
		pipe.Del(ctx, s.embKey(meetingID))
		pipe.SRem(ctx, s.indexKey(), meetingID)
		return nil
	})
	if err != nil {
		return fmt.Errorf("delete meeting record: %w", err)
	}
	return nil
}

// Search ranks every stored meeting by cosine similarity against the query
// embedding, descending. An empty namespace yields an empty slice. Records
// or embeddings that fail to decode are skipped, not fatal to the scan.
func (s *VectorStore) Search(ctx context.Context, query string, limit int) ([]repositories.SearchResult, error) {
	ids, err := s.rdb.SMembers(ctx, s.indexKey()).Result()
	if err != nil {
		return nil, fmt.Errorf("read namespace index: %w", err)
	}
	if len(ids) == 0 {
		return []repositories.SearchResult{}, nil
	}

	queryEmbedding, err := s.embedder.Embed(ctx, truncate(query, embedInputLimit))
	if err != nil {
		return nil, fmt.Errorf("embed query: %w", err)
	}

	results := make([]repositories.SearchResult, 0, len(ids))
	for _, id := range ids {
		embRaw, err := s.rdb.Get(ctx, s.embKey(id)).Bytes()
		if err == redis.Nil {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("read embedding: %w", err)
		}

		record, err := s.scanMeeting(ctx, id)
		if err != nil {
			return nil, err
		}
		if record == nil {
			continue
		}

		var embedding []float32
		if err := json.Unmarshal(embRaw, &embedding); err != nil {
			s.logger.Warn("skipping undecodable embedding",
				zap.String("namespace", s.namespace),
				zap.String("meeting_id", id),
			)
			continue
		}

		results = append(results, repositories.SearchResult{
			MeetingID: record.Metadata.MeetingID,
			Score:     cosineSimilarity(queryEmbedding, embedding),
			Content:   record.Document,
			Metadata:  record.Metadata,
		})
	}

	sort.Slice(results, func(i, j int) bool { return results[i].Score > results[j].Score })
	if limit > 0 && len(results) > limit {
		results = results[:limit]
	}
	return results, nil
}

// SetTranscript stores the raw source transcript beside the record.
func (s *VectorStore) SetTranscript(ctx context.Context, meetingID, text string) error {
	if err := s.rdb.Set(ctx, s.transcriptKey(meetingID), text, 0).Err(); err != nil {
		return fmt.Errorf("write transcript: %w", err)
	}
	return nil
}

// GetTranscript returns the raw transcript, or "" when absent.
func (s *VectorStore) GetTranscript(ctx context.Context, meetingID string) (string, error) {
	text, err := s.rdb.Get(ctx, s.transcriptKey(meetingID)).Result()
	if err == redis.Nil {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("read transcript: %w", err)
	}
	return text, nil
}

// DeleteTranscript removes the raw transcript if present.
func (s *VectorStore) DeleteTranscript(ctx context.Context, meetingID string) error {
	if err := s.rdb.Del(ctx, s.transcriptKey(meetingID)).Err(); err != nil {
		return fmt.Errorf("delete transcript: %w", err)
	}
	return nil
}

// meetingToDocument flattens insights into the plain-text document used for
// embedding input and search previews.
func meetingToDocument(meeting *entities.ProcessedMeeting) string {
	insights := meeting.Insights

	sections := []string{
		fmt.Sprintf("Meeting: %s", insights.MeetingTitle),
		fmt.Sprintf("Summary: %s", insights.Summary),
		"\nDecisions:",
	}

	for _, d := range insights.Decisions {
		sections = append(sections, fmt.Sprintf("- %s: %s", d.Topic, d.Decision))
	}

	sections = append(sections, "\nAction Items:")
	for _, a := range insights.ActionItems {
		deadline := ""
		if a.Deadline != "" {
			deadline = fmt.Sprintf(" (by %s)", a.Deadline)
		}
		sections = append(sections, fmt.Sprintf("- %s: %s%s", a.Owner, a.Task, deadline))
	}

	sections = append(sections, "\nTopics:")
	for _, t := range insights.KeyTopics {
		sections = append(sections, fmt.Sprintf("- %s (%s)", t.Name, t.Importance))
	}

	if len(insights.OpenQuestions) > 0 {
		sections = append(sections, "\nOpen Questions:")
		for _, q := range insights.OpenQuestions {
			sections = append(sections, fmt.Sprintf("- %s", q.Question))
		}
	}

	return strings.Join(sections, "\n")
}

// cosineSimilarity is dot(a,b) / (||a||*||b||), or 0.0 when either vector
// has zero norm.
func cosineSimilarity(a, b []float32) float64 {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}

	var dot, normA, normB float64
	for i := 0; i < n; i++ {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	for i := n; i < len(a); i++ {
		normA += float64(a[i]) * float64(a[i])
	}
	for i := n; i < len(b); i++ {
		normB += float64(b[i]) * float64(b[i])
	}

	if normA == 0 || normB == 0 {
		return 0.0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}

func truncate(s string, limit int) string {
	if len(s) <= limit {
		return s
	}
	return s[:limit]
}
