package handler

import (
	"context"
	stdErrors "errors"
	"io"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	apperrors "github.com/johnquangdev/meeting-intelligence/errors"
	meetingdto "github.com/johnquangdev/meeting-intelligence/internal/adapter/dto/meeting"
	"github.com/johnquangdev/meeting-intelligence/internal/domain/entities"
	"github.com/johnquangdev/meeting-intelligence/internal/domain/repositories"
	"github.com/johnquangdev/meeting-intelligence/internal/infrastructure/storage"
	"github.com/johnquangdev/meeting-intelligence/internal/usecase/analytics"
	"github.com/johnquangdev/meeting-intelligence/internal/usecase/pipeline"
	"github.com/johnquangdev/meeting-intelligence/pkg/parser"
)

// Version reported by the health endpoint.
const Version = "1.0.0"

const defaultSearchLimit = 10

// Meeting exposes the processing pipeline and stored meetings over HTTP.
// archiver may be nil when object-storage archival is disabled.
type Meeting struct {
	pipeline  pipeline.Service
	analytics analytics.Service
	archiver  *storage.Archiver
	rdb       redis.UniversalClient
	logger    *zap.Logger
}

// NewMeeting creates the meeting handler.
func NewMeeting(
	pipelineSvc pipeline.Service,
	analyticsSvc analytics.Service,
	archiver *storage.Archiver,
	rdb redis.UniversalClient,
	logger *zap.Logger,
) *Meeting {
	return &Meeting{
		pipeline:  pipelineSvc,
		analytics: analyticsSvc,
		archiver:  archiver,
		rdb:       rdb,
		logger:    logger,
	}
}

// Process runs a JSON transcript through the pipeline.
func (h *Meeting) Process(c echo.Context) error {
	var req meetingdto.ProcessRequest
	if err := c.Bind(&req); err != nil {
		return HandleError(h.logger, c, apperrors.ErrInvalidPayload())
	}
	if err := c.Validate(&req); err != nil {
		return HandleError(h.logger, c, apperrors.ErrInvalidArgument(err.Error()))
	}

	meetingID := req.MeetingID
	if meetingID == "" {
		meetingID = generateMeetingID()
	}

	date := time.Now().UTC()
	if req.Date != nil {
		date = req.Date.UTC()
	}

	transcript := &entities.Transcript{
		MeetingID: meetingID,
		Title:     req.Title,
		Date:      date,
		Tier:      entities.ParseTier(req.Tier),
		RawText:   req.Transcript,
	}

	processed, err := h.pipeline.Process(c.Request().Context(), transcript)
	if err != nil {
		return HandleError(h.logger, c, err)
	}

	h.persistTranscript(c.Request().Context(), processed, req.Transcript)

	return HandleSuccess(h.logger, c, processResponse(processed, ""))
}

// Upload accepts a multipart transcript file, parses it, and runs the
// pipeline on the extracted text.
func (h *Meeting) Upload(c echo.Context) error {
	tier := entities.ParseTier(c.FormValue("tier"))
	if !tier.Valid() {
		return HandleError(h.logger, c, apperrors.ErrInvalidTier(c.FormValue("tier")))
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		return HandleError(h.logger, c, apperrors.ErrInvalidPayload())
	}

	src, err := fileHeader.Open()
	if err != nil {
		return HandleError(h.logger, c, apperrors.ErrInternal(err))
	}
	defer src.Close()

	content, err := io.ReadAll(io.LimitReader(src, parser.MaxFileSize+1))
	if err != nil {
		return HandleError(h.logger, c, apperrors.ErrInternal(err))
	}

	result, err := parser.Parse(content, fileHeader.Filename)
	if err != nil {
		return HandleError(h.logger, c, parseError(err, fileHeader.Filename))
	}

	title := strings.TrimSpace(c.FormValue("title"))
	if title == "" {
		title = result.DetectedTitle
	}
	if title == "" {
		title = fileHeader.Filename
	}

	meetingID := generateMeetingID()

	if h.archiver != nil {
		if _, err := h.archiver.ArchiveUpload(c.Request().Context(), meetingID, fileHeader.Filename, content); err != nil {
			h.logger.Warn("upload archival failed",
				zap.String("meeting_id", meetingID),
				zap.Error(err),
			)
		}
	}

	transcript := &entities.Transcript{
		MeetingID: meetingID,
		Title:     title,
		Date:      time.Now().UTC(),
		Tier:      tier,
		RawText:   result.Text,
	}

	processed, err := h.pipeline.Process(c.Request().Context(), transcript)
	if err != nil {
		return HandleError(h.logger, c, err)
	}

	h.persistTranscript(c.Request().Context(), processed, result.Text)

	return HandleSuccess(h.logger, c, processResponse(processed, result.Format))
}

// Search performs tier-scoped semantic search.
func (h *Meeting) Search(c echo.Context) error {
	var req meetingdto.SearchRequest
	if err := c.Bind(&req); err != nil {
		return HandleError(h.logger, c, apperrors.ErrInvalidPayload())
	}
	if err := c.Validate(&req); err != nil {
		return HandleError(h.logger, c, apperrors.ErrInvalidArgument(err.Error()))
	}
	if req.Limit == 0 {
		req.Limit = defaultSearchLimit
	}

	var tier *entities.Tier
	if req.Tier != "" {
		t := entities.Tier(req.Tier)
		tier = &t
	}

	hits, err := h.pipeline.SearchMeetings(c.Request().Context(), req.Query, tier, req.Limit)
	if err != nil {
		return HandleError(h.logger, c, err)
	}

	return HandleSuccess(h.logger, c, meetingdto.SearchResponse{Query: req.Query, Results: hits})
}

// List returns metadata for every meeting in one tier.
func (h *Meeting) List(c echo.Context) error {
	store, appErr := h.storeFromQuery(c)
	if appErr != nil {
		return HandleError(h.logger, c, *appErr)
	}

	metas, err := store.ListMeetings(c.Request().Context())
	if err != nil {
		return HandleError(h.logger, c, apperrors.ErrStorageFailed("list_meetings", err))
	}

	return HandleSuccess(h.logger, c, meetingdto.ListResponse{Tier: store.Namespace(), Meetings: metas})
}

// Get returns one stored meeting record.
func (h *Meeting) Get(c echo.Context) error {
	store, appErr := h.storeFromQuery(c)
	if appErr != nil {
		return HandleError(h.logger, c, *appErr)
	}

	meetingID := c.Param("id")
	record, err := store.GetMeeting(c.Request().Context(), meetingID)
	if err != nil {
		return HandleError(h.logger, c, apperrors.ErrStorageFailed("get_meeting", err))
	}
	if record == nil {
		return HandleError(h.logger, c, apperrors.ErrMeetingNotFound(meetingID))
	}

	return HandleSuccess(h.logger, c, record)
}

// GetTranscript returns the raw transcript stored beside a meeting.
func (h *Meeting) GetTranscript(c echo.Context) error {
	store, appErr := h.storeFromQuery(c)
	if appErr != nil {
		return HandleError(h.logger, c, *appErr)
	}

	meetingID := c.Param("id")
	text, err := store.GetTranscript(c.Request().Context(), meetingID)
	if err != nil {
		return HandleError(h.logger, c, apperrors.ErrStorageFailed("get_transcript", err))
	}
	if text == "" {
		return HandleError(h.logger, c, apperrors.ErrTranscriptNotFound(meetingID))
	}

	return HandleSuccess(h.logger, c, meetingdto.TranscriptResponse{MeetingID: meetingID, Transcript: text})
}

// Delete removes a meeting record, its embedding, its index membership, and
// any side-stored raw transcript.
func (h *Meeting) Delete(c echo.Context) error {
	store, appErr := h.storeFromQuery(c)
	if appErr != nil {
		return HandleError(h.logger, c, *appErr)
	}

	meetingID := c.Param("id")
	ctx := c.Request().Context()
	if err := store.DeleteMeeting(ctx, meetingID); err != nil {
		return HandleError(h.logger, c, apperrors.ErrStorageFailed("delete_meeting", err))
	}
	if err := store.DeleteTranscript(ctx, meetingID); err != nil {
		return HandleError(h.logger, c, apperrors.ErrStorageFailed("delete_transcript", err))
	}

	return HandleSuccess(h.logger, c, meetingdto.DeleteResponse{Status: "deleted", MeetingID: meetingID})
}

// Stats aggregates intelligence across all namespaces.
func (h *Meeting) Stats(c echo.Context) error {
	stats, err := h.analytics.Stats(c.Request().Context())
	if err != nil {
		return HandleError(h.logger, c, err)
	}
	return HandleSuccess(h.logger, c, stats)
}

// Dedup removes duplicate meetings, keeping the most recent per title.
func (h *Meeting) Dedup(c echo.Context) error {
	result, err := h.analytics.Deduplicate(c.Request().Context())
	if err != nil {
		return HandleError(h.logger, c, err)
	}
	return HandleSuccess(h.logger, c, result)
}

// Health reports service status and redis connectivity.
func (h *Meeting) Health(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 2*time.Second)
	defer cancel()

	status := "healthy"
	redisStatus := "connected"
	if err := h.rdb.Ping(ctx).Err(); err != nil {
		status = "degraded"
		redisStatus = "disconnected"
	}

	return c.JSON(http.StatusOK, meetingdto.HealthResponse{
		Status:  status,
		Redis:   redisStatus,
		Version: Version,
	})
}

// persistTranscript stores the raw source text beside the processed record.
// Best effort; a failure here does not fail the request.
func (h *Meeting) persistTranscript(ctx context.Context, processed *entities.ProcessedMeeting, text string) {
	store, ok := h.pipeline.Store(processed.Tier)
	if !ok {
		return
	}
	if err := store.SetTranscript(ctx, processed.MeetingID, text); err != nil {
		h.logger.Warn("transcript persistence failed",
			zap.String("meeting_id", processed.MeetingID),
			zap.Error(err),
		)
	}
}

func (h *Meeting) storeFromQuery(c echo.Context) (repositories.MeetingStore, *apperrors.AppError) {
	tier := entities.ParseTier(c.QueryParam("tier"))
	if !tier.Valid() {
		err := apperrors.ErrInvalidTier(c.QueryParam("tier"))
		return nil, &err
	}
	store, ok := h.pipeline.Store(tier)
	if !ok {
		err := apperrors.ErrInvalidTier(string(tier))
		return nil, &err
	}
	return store, nil
}

func processResponse(processed *entities.ProcessedMeeting, sourceFormat string) meetingdto.ProcessResponse {
	return meetingdto.ProcessResponse{
		MeetingID:    processed.MeetingID,
		Status:       "processed",
		Tier:         string(processed.Tier),
		SourceFormat: sourceFormat,
		Insights:     processed.Insights,
		Sentiments:   processed.Sentiments,
		VectorID:     processed.VectorID,
		AuditLog:     processed.AuditLog,
	}
}

func parseError(err error, filename string) apperrors.AppError {
	switch {
	case stdErrors.Is(err, parser.ErrUnsupportedType):
		return apperrors.ErrUnsupportedFileType(strings.ToLower(filepath.Ext(filename)))
	case stdErrors.Is(err, parser.ErrFileTooLarge):
		return apperrors.ErrFileTooLarge(parser.MaxFileSize / (1024 * 1024))
	case stdErrors.Is(err, parser.ErrEmptyFile):
		return apperrors.ErrEmptyFile()
	default:
		return apperrors.ErrParseFailed(err)
	}
}

func generateMeetingID() string {
	return "meeting_" + strings.ReplaceAll(uuid.NewString(), "-", "")[:12]
}
