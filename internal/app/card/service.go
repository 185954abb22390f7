package card

import (
	"context"
	"errors"
	"time"
	"unicode/utf8"

	"taskboard/internal/app/audit"
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

type CardUpdate struct {
	Title       *string
	Description *string
	DueDate     *time.Time
	ClearDue    bool
}

type Service interface {
	CreateCard(ctx context.Context, auth *identity.Auth, listID, title string) (*Card, error)
	UpdateCard(ctx context.Context, auth *identity.Auth, id string, upd CardUpdate) (*Card, error)
	CloneCard(ctx context.Context, auth *identity.Auth, id string) (*Card, error)
	// MoveCard repositions a card inside its list or moves it to another
	// list on the same board, renumbering every sibling on both sides so
	// positions stay dense.
	MoveCard(ctx context.Context, auth *identity.Auth, cardID, destListID string, destIndex int) (*Card, error)
	DeleteCard(ctx context.Context, auth *identity.Auth, id string) (*Card, error)
	GetCard(ctx context.Context, auth *identity.Auth, id string) (*Card, error)
}

type service struct {
	repo       Repository
	auditSvc   audit.Service
	revalidate Revalidator
	logger     *zap.SugaredLogger
}

func NewService(repo Repository, auditSvc audit.Service, revalidate Revalidator, logger *zap.Logger) Service {
	return &service{
		repo:       repo,
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

func (s *service) CreateCard(ctx context.Context, auth *identity.Auth, listID, title string) (*Card, error) {
	if err := validateTitle(title); err != nil {
		return nil, err
	}

	boardID, err := s.repo.GetListBoard(listID, auth.OrgID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, result.NotFound("List")
	}
	if err != nil {
		s.logger.Errorw("Failed to resolve list", "list_id", listID, "error", err)
		return nil, errors.New("Failed to create card")
	}

	max, err := s.repo.MaxOrder(listID)
	if err != nil {
		s.logger.Errorw("Failed to read card orders", "list_id", listID, "error", err)
		return nil, errors.New("Failed to create card")
	}

	newOrder := ordering.CardBase
	if max.Valid {
		newOrder = int(max.Int64) + 1
	}

	card := &Card{ListID: listID, Title: title, Order: newOrder}
	if err := s.repo.Create(card); err != nil {
		s.logger.Errorw("Failed to create card", "list_id", listID, "error", err)
		return nil, errors.New("Failed to create card")
	}

	s.auditSvc.Log(ctx, auth, audit.Entry{
		EntityID:    card.ID,
		EntityType:  audit.EntityCard,
		EntityTitle: card.Title,
		Action:      audit.ActionCreate,
	})
	s.revalidate.BoardStale(ctx, boardID)
	return card, nil
}

func (s *service) UpdateCard(ctx context.Context, auth *identity.Auth, id string, upd CardUpdate) (*Card, error) {
	updates := map[string]interface{}{}

	if upd.Title != nil {
		if err := validateTitle(*upd.Title); err != nil {
			return nil, err
		}
		updates["title"] = *upd.Title
	}
	if upd.Description != nil {
		updates["description"] = *upd.Description
	}
	if upd.DueDate != nil {
		updates["due_date"] = *upd.DueDate
	} else if upd.ClearDue {
		updates["due_date"] = nil
	}

	if len(updates) == 0 {
		return nil, result.Invalid(map[string][]string{"title": {"Nothing to update"}})
	}

	card, err := s.repo.Update(id, auth.OrgID, updates)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, result.NotFound("Card")
	}
	if err != nil {
		s.logger.Errorw("Failed to update card", "card_id", id, "error", err)
		return nil, errors.New("Failed to update card")
	}

	s.auditSvc.Log(ctx, auth, audit.Entry{
		EntityID:    card.ID,
		EntityType:  audit.EntityCard,
		EntityTitle: card.Title,
		Action:      audit.ActionUpdate,
	})
	if boardID, err := s.repo.GetListBoard(card.ListID, auth.OrgID); err == nil {
		s.revalidate.BoardStale(ctx, boardID)
	}
	return card, nil
}

func (s *service) CloneCard(ctx context.Context, auth *identity.Auth, id string) (*Card, error) {
	source, err := s.repo.GetByID(id, auth.OrgID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, result.NotFound("Card")
	}
	if err != nil {
		s.logger.Errorw("Failed to load card", "card_id", id, "error", err)
		return nil, errors.New("Failed to clone card")
	}

	max, err := s.repo.MaxOrder(source.ListID)
	if err != nil {
		s.logger.Errorw("Failed to read card orders", "list_id", source.ListID, "error", err)
		return nil, errors.New("Failed to clone card")
	}

	newOrder := ordering.CardBase
	if max.Valid {
		newOrder = int(max.Int64) + 1
	}

	clone := &Card{
		ListID:      source.ListID,
		Title:       source.Title + " (Clone)",
		Description: source.Description,
		Order:       newOrder,
	}
	if err := s.repo.CloneWithLabels(clone, source.ID); err != nil {
		s.logger.Errorw("Failed to clone card", "card_id", id, "error", err)
		return nil, errors.New("Failed to clone card")
	}

	s.auditSvc.Log(ctx, auth, audit.Entry{
		EntityID:    clone.ID,
		EntityType:  audit.EntityCard,
		EntityTitle: clone.Title,
		Action:      audit.ActionCreate,
	})
	if boardID, err := s.repo.GetListBoard(clone.ListID, auth.OrgID); err == nil {
		s.revalidate.BoardStale(ctx, boardID)
	}
	return clone, nil
}

func (s *service) MoveCard(ctx context.Context, auth *identity.Auth, cardID, destListID string, destIndex int) (*Card, error) {
	moved, err := s.repo.GetByID(cardID, auth.OrgID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, result.NotFound("Card")
	}
	if err != nil {
		s.logger.Errorw("Failed to load card", "card_id", cardID, "error", err)
		return nil, errors.New("Failed to reorder")
	}

	sourceListID := moved.ListID
	if destListID == "" {
		destListID = sourceListID
	}

	sourceBoard, err := s.repo.GetListBoard(sourceListID, auth.OrgID)
	if err != nil {
		return nil, result.NotFound("List")
	}

	if destListID != sourceListID {
		destBoard, err := s.repo.GetListBoard(destListID, auth.OrgID)
		if err != nil || destBoard != sourceBoard {
			return nil, result.NotFound("List")
		}
	}

	sourceCards, err := s.repo.ListByList(sourceListID)
	if err != nil {
		s.logger.Errorw("Failed to load cards", "list_id", sourceListID, "error", err)
		return nil, errors.New("Failed to reorder")
	}

	sourceIndex := -1
	for i, c := range sourceCards {
		if c.ID == cardID {
			sourceIndex = i
			break
		}
	}
	if sourceIndex == -1 {
		return nil, result.NotFound("Card")
	}

	var batch []OrderUpdate
	if destListID == sourceListID {
		if destIndex > len(sourceCards)-1 {
			destIndex = len(sourceCards) - 1
		}
		if destIndex < 0 {
			destIndex = 0
		}

		// Dropping a card back where it was is a no-op: no writes, no audit.
		if destIndex == sourceIndex {
			return moved, nil
		}

		reordered := ordering.Reorder(sourceCards, sourceIndex, destIndex)
		for i, c := range reordered {
			batch = append(batch, OrderUpdate{ID: c.ID, ListID: sourceListID, Order: i})
		}
	} else {
		destCards, err := s.repo.ListByList(destListID)
		if err != nil {
			s.logger.Errorw("Failed to load cards", "list_id", destListID, "error", err)
			return nil, errors.New("Failed to reorder")
		}

		// Both sides are renumbered and persisted in the same batch so a
		// failure on either list leaves no partial state behind.
		newSource, newDest := ordering.Move(sourceCards, destCards, sourceIndex, destIndex)
		for i, c := range newSource {
			batch = append(batch, OrderUpdate{ID: c.ID, ListID: sourceListID, Order: i})
		}
		for i, c := range newDest {
			batch = append(batch, OrderUpdate{ID: c.ID, ListID: destListID, Order: i})
		}
	}

	if err := s.repo.BatchReorder(auth.OrgID, batch); err != nil {
		s.logger.Errorw("Failed to reorder cards",
			"card_id", cardID,
			"source_list", sourceListID,
			"dest_list", destListID,
			"error", err,
		)
		return nil, errors.New("Failed to reorder")
	}

	s.revalidate.BoardStale(ctx, sourceBoard)

	moved, err = s.repo.GetByID(cardID, auth.OrgID)
	if err != nil {
		return nil, errors.New("Failed to reorder")
	}
	return moved, nil
}

func (s *service) DeleteCard(ctx context.Context, auth *identity.Auth, id string) (*Card, error) {
	card, err := s.repo.GetByID(id, auth.OrgID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, result.NotFound("Card")
	}
	if err != nil {
		s.logger.Errorw("Failed to load card", "card_id", id, "error", err)
		return nil, errors.New("Failed to delete card")
	}

	boardID, _ := s.repo.GetListBoard(card.ListID, auth.OrgID)

	if err := s.repo.Delete(id, auth.OrgID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, result.NotFound("Card")
		}
		s.logger.Errorw("Failed to delete card", "card_id", id, "error", err)
		return nil, errors.New("Failed to delete card")
	}

	s.auditSvc.Log(ctx, auth, audit.Entry{
		EntityID:    card.ID,
		EntityType:  audit.EntityCard,
		EntityTitle: card.Title,
		Action:      audit.ActionDelete,
	})
	if boardID != "" {
		s.revalidate.BoardStale(ctx, boardID)
	}
	return card, nil
}

func (s *service) GetCard(ctx context.Context, auth *identity.Auth, id string) (*Card, error) {
	card, err := s.repo.GetByID(id, auth.OrgID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, result.NotFound("Card")
	}
	if err != nil {
		return nil, errors.New("Failed to fetch card")
	}
	return card, nil
}
