package board

import (
	"context"
	"errors"
	"fmt"
	"unicode/utf8"

	"taskboard/internal/app/audit"
	"taskboard/internal/app/identity"
	"taskboard/internal/app/orglimit"
	"taskboard/internal/app/result"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Revalidator marks a board's cached view stale after a successful
// mutation.
type Revalidator interface {
	BoardStale(ctx context.Context, boardID string)
}

type Service interface {
	CreateBoard(ctx context.Context, auth *identity.Auth, title, image string) (*Board, error)
	UpdateBoard(ctx context.Context, auth *identity.Auth, id string, title, image *string) (*Board, error)
	DeleteBoard(ctx context.Context, auth *identity.Auth, id string) (*Board, error)
	GetBoards(ctx context.Context, auth *identity.Auth) ([]*Board, error)
	GetBoard(ctx context.Context, auth *identity.Auth, id string) (*Board, error)
}

type service struct {
	repo       Repository
	limits     orglimit.Service
	auditSvc   audit.Service
	revalidate Revalidator
	logger     *zap.SugaredLogger
}

func NewService(
	repo Repository,
	limits orglimit.Service,
	auditSvc audit.Service,
	revalidate Revalidator,
	logger *zap.Logger,
) Service {
	return &service{
		repo:       repo,
		limits:     limits,
		auditSvc:   auditSvc,
		revalidate: revalidate,
		logger:     logger.Sugar(),
	}
}

func validateTitle(title string) error {
	n := utf8.RuneCountInString(title)
	if n == 0 {
		return result.Invalid(map[string][]string{"title": {"Title is required"}})
	}
	if n < 3 {
		return result.Invalid(map[string][]string{"title": {"Title is too short"}})
	}
	if n > 50 {
		return result.Invalid(map[string][]string{"title": {"Title is too long"}})
	}
	return nil
}

func (s *service) CreateBoard(ctx context.Context, auth *identity.Auth, title, image string) (*Board, error) {
	if err := validateTitle(title); err != nil {
		return nil, err
	}

	cover, err := parseCoverImage(image)
	if err != nil {
		return nil, errors.New("Missing fields. Failed to create board")
	}

	available, err := s.limits.HasAvailableCount(auth.OrgID)
	if err != nil {
		s.logger.Errorw("Failed to check board quota", "org_id", auth.OrgID, "error", err)
		return nil, errors.New("Failed to create board")
	}
	if !available {
		return nil, &result.LimitError{
			Message: "You have reached your limit of free boards. Please upgrade to create more.",
		}
	}

	board := &Board{
		OrgID:         auth.OrgID,
		Title:         title,
		ImageID:       cover.ID,
		ImageThumbURL: cover.ThumbURL,
		ImageFullURL:  cover.FullURL,
		ImageLinkHTML: cover.LinkHTML,
		ImageUserName: cover.UserName,
	}
	if err := s.repo.Create(board); err != nil {
		s.logger.Errorw("Failed to create board", "org_id", auth.OrgID, "error", err)
		return nil, errors.New("Failed to create board")
	}

	if err := s.limits.Increment(auth.OrgID); err != nil {
		s.logger.Warnw("Failed to increment board count", "org_id", auth.OrgID, "error", err)
	}

	s.auditSvc.Log(ctx, auth, audit.Entry{
		EntityID:    board.ID,
		EntityType:  audit.EntityBoard,
		EntityTitle: board.Title,
		Action:      audit.ActionCreate,
	})
	s.revalidate.BoardStale(ctx, board.ID)
	return board, nil
}

func (s *service) UpdateBoard(ctx context.Context, auth *identity.Auth, id string, title, image *string) (*Board, error) {
	updates := map[string]interface{}{}

	if title != nil {
		if err := validateTitle(*title); err != nil {
			return nil, err
		}
		updates["title"] = *title
	}

	if image != nil {
		cover, err := parseCoverImage(*image)
		if err != nil {
			return nil, errors.New("Missing image fields. Failed to update board")
		}
		updates["image_id"] = cover.ID
		updates["image_thumb_url"] = cover.ThumbURL
		updates["image_full_url"] = cover.FullURL
		updates["image_link_html"] = cover.LinkHTML
		updates["image_user_name"] = cover.UserName
	}

	if len(updates) == 0 {
		return nil, result.Invalid(map[string][]string{"title": {"Nothing to update"}})
	}

	board, err := s.repo.Update(id, auth.OrgID, updates)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, result.NotFound("Board")
	}
	if err != nil {
		s.logger.Errorw("Failed to update board", "board_id", id, "error", err)
		return nil, errors.New("Failed to update board")
	}

	s.auditSvc.Log(ctx, auth, audit.Entry{
		EntityID:    board.ID,
		EntityType:  audit.EntityBoard,
		EntityTitle: board.Title,
		Action:      audit.ActionUpdate,
	})
	s.revalidate.BoardStale(ctx, board.ID)
	return board, nil
}

func (s *service) DeleteBoard(ctx context.Context, auth *identity.Auth, id string) (*Board, error) {
	board, err := s.repo.GetByID(id, auth.OrgID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, result.NotFound("Board")
	}
	if err != nil {
		s.logger.Errorw("Failed to load board", "board_id", id, "error", err)
		return nil, errors.New("Failed to delete board")
	}

	if err := s.repo.Delete(id, auth.OrgID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, result.NotFound("Board")
		}
		s.logger.Errorw("Failed to delete board", "board_id", id, "error", err)
		return nil, errors.New("Failed to delete board")
	}

	if err := s.limits.Decrement(auth.OrgID); err != nil {
		s.logger.Warnw("Failed to decrement board count", "org_id", auth.OrgID, "error", err)
	}

	s.auditSvc.Log(ctx, auth, audit.Entry{
		EntityID:    board.ID,
		EntityType:  audit.EntityBoard,
		EntityTitle: board.Title,
		Action:      audit.ActionDelete,
	})
	s.revalidate.BoardStale(ctx, board.ID)
	return board, nil
}

func (s *service) GetBoards(ctx context.Context, auth *identity.Auth) ([]*Board, error) {
	boards, err := s.repo.ListByOrg(auth.OrgID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch boards: %w", err)
	}
	return boards, nil
}

func (s *service) GetBoard(ctx context.Context, auth *identity.Auth, id string) (*Board, error) {
	board, err := s.repo.GetByID(id, auth.OrgID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, result.NotFound("Board")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to fetch board: %w", err)
	}
	return board, nil
}
