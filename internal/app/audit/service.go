package audit

import (
	"context"
	"fmt"

	"taskboard/internal/app/identity"

	"go.uber.org/zap"
)

// Entry describes the mutation being recorded.
type Entry struct {
	EntityID    string
	EntityType  EntityType
	EntityTitle string
	Action      Action
}

type Service interface {
	// Log appends one audit entry. It never returns an error: audit
	// failures must not affect the outcome of the mutation that
	// triggered them.
	Log(ctx context.Context, auth *identity.Auth, entry Entry)
	ListByOrg(ctx context.Context, auth *identity.Auth, page, limit int) ([]*Log, int64, error)
	ListByEntity(ctx context.Context, auth *identity.Auth, entityID string, limit int) ([]*Log, error)
}

type service struct {
	repo        Repository
	identitySvc identity.Service
	logger      *zap.SugaredLogger
}

func NewService(repo Repository, identitySvc identity.Service, logger *zap.Logger) Service {
	return &service{
		repo:        repo,
		identitySvc: identitySvc,
		logger:      logger.Sugar(),
	}
}

func (s *service) Log(ctx context.Context, auth *identity.Auth, entry Entry) {
	if auth == nil {
		s.logger.Warnw("Audit entry dropped: no auth context",
			"entity_id", entry.EntityID,
			"action", entry.Action,
		)
		return
	}

	user, err := s.identitySvc.GetUserByID(auth.UserID)
	if err != nil {
		s.logger.Warnw("Audit entry dropped: user not found",
			"user_id", auth.UserID,
			"error", err,
		)
		return
	}

	log := &Log{
		OrgID:       auth.OrgID,
		UserID:      user.ID,
		UserName:    user.Name,
		UserImage:   user.ImageURL,
		EntityID:    entry.EntityID,
		EntityType:  entry.EntityType,
		EntityTitle: entry.EntityTitle,
		Action:      entry.Action,
	}

	if err := s.repo.Create(log); err != nil {
		s.logger.Warnw("Failed to write audit entry",
			"org_id", auth.OrgID,
			"entity_id", entry.EntityID,
			"entity_type", entry.EntityType,
			"action", entry.Action,
			"error", err,
		)
	}
}

func (s *service) ListByOrg(ctx context.Context, auth *identity.Auth, page, limit int) ([]*Log, int64, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 20
	}
	if limit > 100 {
		limit = 100
	}

	logs, total, err := s.repo.ListByOrg(auth.OrgID, page, limit)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list audit logs: %w", err)
	}
	return logs, total, nil
}

func (s *service) ListByEntity(ctx context.Context, auth *identity.Auth, entityID string, limit int) ([]*Log, error) {
	if limit < 1 {
		limit = 3
	}
	logs, err := s.repo.ListByEntity(auth.OrgID, entityID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list audit logs: %w", err)
	}
	return logs, nil
}
