package service

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/rs/zerolog"
	"gorm.io/datatypes"

	"github.com/arkield/campus-api/internal/dto"
	"github.com/arkield/campus-api/internal/models"
	"github.com/arkield/campus-api/internal/repository"
)

// ActivityEntry captures the details of one state-changing operation.
type ActivityEntry struct {
	Actor      Actor
	Action     string
	EntityType string
	EntityID   string
	Metadata   map[string]interface{}
}

// ActivityRecorder records audit entries and signals state-changed events.
type ActivityRecorder interface {
	Record(ctx context.Context, entry ActivityEntry)
}

// ActivityService exposes audit recording plus the admin-facing query surface.
type ActivityService interface {
	ActivityRecorder
	List(ctx context.Context, req dto.ActivityListRequest) (dto.ActivityListResponse, error)
}

type activityService struct {
	repo        repository.ActivityLogRepository
	nats        *nats.Conn
	subjectBase string
	logger      zerolog.Logger
	now         func() time.Time
}

type stateChangedEvent struct {
	Action     string                 `json:"action"`
	EntityType string                 `json:"entity_type"`
	EntityID   string                 `json:"entity_id,omitempty"`
	ActorID    string                 `json:"actor_id"`
	ActorRole  string                 `json:"actor_role"`
	Metadata   map[string]interface{} `json:"metadata,omitempty"`
	OccurredAt time.Time              `json:"occurred_at"`
}

// NewActivityService constructs the audit service. The NATS connection may be
// nil; event publication is then skipped.
func NewActivityService(repo repository.ActivityLogRepository, natsConn *nats.Conn, subjectBase string, logger zerolog.Logger) ActivityService {
	base := strings.TrimSpace(subjectBase)
	if base == "" {
		base = "campus.events"
	}

	return &activityService{
		repo:        repo,
		nats:        natsConn,
		subjectBase: base,
		logger:      logger.With().Str("component", "activity_service").Logger(),
		now:         time.Now,
	}
}

// Record persists the audit entry and publishes a state-changed event.
// Failures only log; auditing never blocks the operation that succeeded.
func (s *activityService) Record(ctx context.Context, entry ActivityEntry) {
	action := strings.ToLower(strings.TrimSpace(entry.Action))
	entityType := strings.ToLower(strings.TrimSpace(entry.EntityType))
	if action == "" || entityType == "" {
		s.logger.Warn().Str("action", entry.Action).Str("entity_type", entry.EntityType).Msg("dropping malformed activity entry")
		return
	}

	model := models.ActivityLog{
		ActorID:    entry.Actor.ID,
		ActorRole:  string(entry.Actor.Role),
		Action:     action,
		EntityType: entityType,
		EntityID:   entry.EntityID,
		Metadata:   datatypes.JSONMap(entry.Metadata),
	}
	if err := s.repo.Create(ctx, &model); err != nil {
		s.logger.Error().Err(err).Str("action", action).Msg("failed to persist activity log")
	}

	if s.nats == nil {
		return
	}

	event := stateChangedEvent{
		Action:     action,
		EntityType: entityType,
		EntityID:   entry.EntityID,
		ActorID:    entry.Actor.ID,
		ActorRole:  string(entry.Actor.Role),
		Metadata:   entry.Metadata,
		OccurredAt: s.now(),
	}
	payload, err := json.Marshal(event)
	if err != nil {
		s.logger.Warn().Err(err).Msg("failed to encode state-changed event")
		return
	}

	subject := fmt.Sprintf("%s.%s", s.subjectBase, entityType)
	if err := s.nats.Publish(subject, payload); err != nil {
		s.logger.Warn().Err(err).Str("subject", subject).Msg("failed to publish state-changed event")
	}
}

func (s *activityService) List(ctx context.Context, req dto.ActivityListRequest) (dto.ActivityListResponse, error) {
	entries, total, err := s.repo.List(ctx, repository.ActivityLogFilter{
		Action:     req.Action,
		EntityType: req.EntityType,
		Page:       req.Page,
		PageSize:   req.PageSize,
	})
	if err != nil {
		return dto.ActivityListResponse{}, err
	}

	items := make([]dto.ActivityResponse, 0, len(entries))
	for _, entry := range entries {
		items = append(items, dto.NewActivityResponse(entry))
	}

	return dto.ActivityListResponse{Items: items, Total: total}, nil
}
