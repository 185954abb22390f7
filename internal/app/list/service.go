package list

import (
	"context"
	"errors"
	"unicode/utf8"

	"taskboard/internal/app/audit"
	"taskboard/internal/app/card"
	"taskboard/internal/app/identity"
	"taskboard/internal/app/result"
	"taskboard/internal/ordering"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Revalidator marks a board's cached view stale after a successful
// mutation.
type Revalidator interface {
	BoardStale(ctx context.Context, boardID string)
}

type Service interface {
	CreateList(ctx context.Context, auth *identity.Auth, boardID, title string) (*List, error)
	UpdateList(ctx context.Context, auth *identity.Auth, id, title string) (*List, error)
	CloneList(ctx context.Context, auth *identity.Auth, id string) (*List, error)
	// MoveList repositions a list on its board and renumbers every list
	// so positions stay dense.
	MoveList(ctx context.Context, auth *identity.Auth, listID string, toIndex int) (*List, error)
	DeleteList(ctx context.Context, auth *identity.Auth, id string) (*List, error)
}

type service struct {
	repo       Repository
	cards      card.Repository
	auditSvc   audit.Service
	revalidate Revalidator
	logger     *zap.SugaredLogger
}

func NewService(
	repo Repository,
	cards card.Repository,
	auditSvc audit.Service,
	revalidate Revalidator,
	logger *zap.Logger,
) Service {
	return &service{
		repo:       repo,
		cards:      cards,
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
	return nil
}

func (s *service) CreateList(ctx context.Context, auth *identity.Auth, boardID, title string) (*List, error) {
	if err := validateTitle(title); err != nil {
		return nil, err
	}

	exists, err := s.repo.BoardExists(boardID, auth.OrgID)
	if err != nil {
		s.logger.Errorw("Failed to check board", "board_id", boardID, "error", err)
		return nil, errors.New("Failed to create list")
	}
	if !exists {
		return nil, result.NotFound("Board")
	}

	max, err := s.repo.MaxOrder(boardID)
	if err != nil {
		s.logger.Errorw("Failed to read list orders", "board_id", boardID, "error", err)
		return nil, errors.New("Failed to create list")
	}

	newOrder := ordering.ListBase
	if max.Valid {
		newOrder = int(max.Int64) + 1
	}

	list := &List{BoardID: boardID, Title: title, Order: newOrder}
	if err := s.repo.Create(list); err != nil {
		s.logger.Errorw("Failed to create list", "board_id", boardID, "error", err)
		return nil, errors.New("Failed to create list")
	}

	s.auditSvc.Log(ctx, auth, audit.Entry{
		EntityID:    list.ID,
		EntityType:  audit.EntityList,
		EntityTitle: list.Title,
		Action:      audit.ActionCreate,
	})
	s.revalidate.BoardStale(ctx, boardID)
	return list, nil
}

func (s *service) UpdateList(ctx context.Context, auth *identity.Auth, id, title string) (*List, error) {
	if err := validateTitle(title); err != nil {
		return nil, err
	}

	list, err := s.repo.UpdateTitle(id, auth.OrgID, title)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, result.NotFound("List")
	}
	if err != nil {
		s.logger.Errorw("Failed to update list", "list_id", id, "error", err)
		return nil, errors.New("Failed to update list")
	}

	s.auditSvc.Log(ctx, auth, audit.Entry{
		EntityID:    list.ID,
		EntityType:  audit.EntityList,
		EntityTitle: list.Title,
		Action:      audit.ActionUpdate,
	})
	s.revalidate.BoardStale(ctx, list.BoardID)
	return list, nil
}

func (s *service) CloneList(ctx context.Context, auth *identity.Auth, id string) (*List, error) {
	source, err := s.repo.GetByID(id, auth.OrgID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, result.NotFound("List")
	}
	if err != nil {
		s.logger.Errorw("Failed to load list", "list_id", id, "error", err)
		return nil, errors.New("Failed to clone list")
	}

	max, err := s.repo.MaxOrder(source.BoardID)
	if err != nil {
		s.logger.Errorw("Failed to read list orders", "board_id", source.BoardID, "error", err)
		return nil, errors.New("Failed to clone list")
	}

	newOrder := 1
	if max.Valid {
		newOrder = int(max.Int64) + 1
	}

	sourceCards, err := s.cards.ListByList(source.ID)
	if err != nil {
		s.logger.Errorw("Failed to load cards", "list_id", id, "error", err)
		return nil, errors.New("Failed to clone list")
	}

	// Cloned cards keep the source list's order values verbatim instead
	// of being renumbered; later appends to the clone can collide with
	// them. Kept for compatibility with existing board data.
	clone := &List{
		BoardID: source.BoardID,
		Title:   source.Title + " - Clone",
		Order:   newOrder,
	}
	if err := s.repo.CloneWithCards(clone, sourceCards); err != nil {
		s.logger.Errorw("Failed to clone list", "list_id", id, "error", err)
		return nil, errors.New("Failed to clone list")
	}

	// One entry for the whole clone, not one per copied card.
	s.auditSvc.Log(ctx, auth, audit.Entry{
		EntityID:    clone.ID,
		EntityType:  audit.EntityList,
		EntityTitle: clone.Title,
		Action:      audit.ActionCreate,
	})
	s.revalidate.BoardStale(ctx, source.BoardID)
	return clone, nil
}

func (s *service) MoveList(ctx context.Context, auth *identity.Auth, listID string, toIndex int) (*List, error) {
	moved, err := s.repo.GetByID(listID, auth.OrgID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, result.NotFound("List")
	}
	if err != nil {
		s.logger.Errorw("Failed to load list", "list_id", listID, "error", err)
		return nil, errors.New("Failed to reorder")
	}

	lists, err := s.repo.ListByBoard(moved.BoardID)
	if err != nil {
		s.logger.Errorw("Failed to load lists", "board_id", moved.BoardID, "error", err)
		return nil, errors.New("Failed to reorder")
	}

	fromIndex := -1
	for i, l := range lists {
		if l.ID == listID {
			fromIndex = i
			break
		}
	}
	if fromIndex == -1 {
		return nil, result.NotFound("List")
	}

	if toIndex > len(lists)-1 {
		toIndex = len(lists) - 1
	}
	if toIndex < 0 {
		toIndex = 0
	}

	// Dropping a list back where it was is a no-op: no writes, no audit.
	if toIndex == fromIndex {
		return moved, nil
	}

	reordered := ordering.Reorder(lists, fromIndex, toIndex)
	batch := make([]OrderUpdate, 0, len(reordered))
	for i, l := range reordered {
		batch = append(batch, OrderUpdate{ID: l.ID, Order: i})
	}

	if err := s.repo.BatchReorder(auth.OrgID, batch); err != nil {
		s.logger.Errorw("Failed to reorder lists", "board_id", moved.BoardID, "error", err)
		return nil, errors.New("Failed to reorder")
	}

	s.revalidate.BoardStale(ctx, moved.BoardID)

	moved, err = s.repo.GetByID(listID, auth.OrgID)
	if err != nil {
		return nil, errors.New("Failed to reorder")
	}
	return moved, nil
}

func (s *service) DeleteList(ctx context.Context, auth *identity.Auth, id string) (*List, error) {
	list, err := s.repo.GetByID(id, auth.OrgID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, result.NotFound("List")
	}
	if err != nil {
		s.logger.Errorw("Failed to load list", "list_id", id, "error", err)
		return nil, errors.New("Failed to delete list")
	}

	if err := s.repo.Delete(id, auth.OrgID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, result.NotFound("List")
		}
		s.logger.Errorw("Failed to delete list", "list_id", id, "error", err)
		return nil, errors.New("Failed to delete list")
	}

	s.auditSvc.Log(ctx, auth, audit.Entry{
		EntityID:    list.ID,
		EntityType:  audit.EntityList,
		EntityTitle: list.Title,
		Action:      audit.ActionDelete,
	})
	s.revalidate.BoardStale(ctx, list.BoardID)
	return list, nil
}
