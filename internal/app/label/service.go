package label

import (
	"context"
	"errors"
	"regexp"
	"unicode/utf8"

	"taskboard/internal/app/audit"
	"taskboard/internal/app/identity"
	"taskboard/internal/app/result"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Revalidator marks a board's cached view stale after a successful
// mutation.
type Revalidator interface {
	BoardStale(ctx context.Context, boardID string)
}

var colorPattern = regexp.MustCompile(`^#[0-9A-Fa-f]{6}$`)

type Service interface {
	ListLabels(ctx context.Context, auth *identity.Auth) ([]*Label, error)
	CreateLabel(ctx context.Context, auth *identity.Auth, name, color, boardID string) (*Label, error)
	UpdateLabel(ctx context.Context, auth *identity.Auth, id, name, color, boardID string) (*Label, error)
	DeleteLabel(ctx context.Context, auth *identity.Auth, id, boardID string) (*Label, error)
	AssignLabel(ctx context.Context, auth *identity.Auth, cardID, labelID, boardID string) (*CardLabel, error)
	UnassignLabel(ctx context.Context, auth *identity.Auth, cardID, labelID, boardID string) error
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

func validateLabel(name, color string) error {
	fields := map[string][]string{}
	n := utf8.RuneCountInString(name)
	if n == 0 {
		fields["name"] = append(fields["name"], "Name is required")
	}
	if n > 50 {
		fields["name"] = append(fields["name"], "Name is too long")
	}
	if !colorPattern.MatchString(color) {
		fields["color"] = append(fields["color"], "Invalid color")
	}
	if len(fields) > 0 {
		return result.Invalid(fields)
	}
	return nil
}

func (s *service) ListLabels(ctx context.Context, auth *identity.Auth) ([]*Label, error) {
	labels, err := s.repo.ListByOrg(auth.OrgID)
	if err != nil {
		return nil, errors.New("Failed to fetch labels")
	}
	return labels, nil
}

func (s *service) CreateLabel(ctx context.Context, auth *identity.Auth, name, color, boardID string) (*Label, error) {
	if err := validateLabel(name, color); err != nil {
		return nil, err
	}

	label := &Label{OrgID: auth.OrgID, Name: name, Color: color}
	if err := s.repo.Create(label); err != nil {
		s.logger.Errorw("Failed to create label", "org_id", auth.OrgID, "error", err)
		return nil, errors.New("Failed to create label")
	}

	s.auditSvc.Log(ctx, auth, audit.Entry{
		EntityID:    label.ID,
		EntityType:  audit.EntityLabel,
		EntityTitle: label.Name,
		Action:      audit.ActionCreate,
	})
	if boardID != "" {
		s.revalidate.BoardStale(ctx, boardID)
	}
	return label, nil
}

func (s *service) UpdateLabel(ctx context.Context, auth *identity.Auth, id, name, color, boardID string) (*Label, error) {
	if err := validateLabel(name, color); err != nil {
		return nil, err
	}

	label, err := s.repo.Update(id, auth.OrgID, map[string]interface{}{
		"name":  name,
		"color": color,
	})
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, result.NotFound("Label")
	}
	if err != nil {
		s.logger.Errorw("Failed to update label", "label_id", id, "error", err)
		return nil, errors.New("Failed to update label")
	}

	s.auditSvc.Log(ctx, auth, audit.Entry{
		EntityID:    label.ID,
		EntityType:  audit.EntityLabel,
		EntityTitle: label.Name,
		Action:      audit.ActionUpdate,
	})
	if boardID != "" {
		s.revalidate.BoardStale(ctx, boardID)
	}
	return label, nil
}

func (s *service) DeleteLabel(ctx context.Context, auth *identity.Auth, id, boardID string) (*Label, error) {
	label, err := s.repo.GetByID(id, auth.OrgID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, result.NotFound("Label")
	}
	if err != nil {
		s.logger.Errorw("Failed to load label", "label_id", id, "error", err)
		return nil, errors.New("Failed to delete label")
	}

	if err := s.repo.Delete(id, auth.OrgID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, result.NotFound("Label")
		}
		s.logger.Errorw("Failed to delete label", "label_id", id, "error", err)
		return nil, errors.New("Failed to delete label")
	}

	s.auditSvc.Log(ctx, auth, audit.Entry{
		EntityID:    label.ID,
		EntityType:  audit.EntityLabel,
		EntityTitle: label.Name,
		Action:      audit.ActionDelete,
	})
	if boardID != "" {
		s.revalidate.BoardStale(ctx, boardID)
	}
	return label, nil
}

func (s *service) AssignLabel(ctx context.Context, auth *identity.Auth, cardID, labelID, boardID string) (*CardLabel, error) {
	// Label first, then card: both checks are org scoped so entities in
	// other organizations read as missing, never as forbidden.
	if _, err := s.repo.GetByID(labelID, auth.OrgID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, result.NotFound("Label")
		}
		s.logger.Errorw("Failed to load label", "label_id", labelID, "error", err)
		return nil, errors.New("Failed to assign label")
	}

	exists, err := s.repo.CardExists(cardID, auth.OrgID)
	if err != nil {
		s.logger.Errorw("Failed to check card", "card_id", cardID, "error", err)
		return nil, errors.New("Failed to assign label")
	}
	if !exists {
		return nil, result.NotFound("Card")
	}

	cardLabel := &CardLabel{CardID: cardID, LabelID: labelID}
	if err := s.repo.Assign(cardLabel); err != nil {
		// Unique index on (card_id, label_id): double assignment can
		// never produce a second row.
		s.logger.Warnw("Failed to assign label", "card_id", cardID, "label_id", labelID, "error", err)
		return nil, errors.New("Failed to assign label")
	}

	if boardID != "" {
		s.revalidate.BoardStale(ctx, boardID)
	}
	return cardLabel, nil
}

func (s *service) UnassignLabel(ctx context.Context, auth *identity.Auth, cardID, labelID, boardID string) error {
	if _, err := s.repo.GetByID(labelID, auth.OrgID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return result.NotFound("Label")
		}
		s.logger.Errorw("Failed to load label", "label_id", labelID, "error", err)
		return errors.New("Failed to unassign label")
	}

	exists, err := s.repo.CardExists(cardID, auth.OrgID)
	if err != nil {
		s.logger.Errorw("Failed to check card", "card_id", cardID, "error", err)
		return errors.New("Failed to unassign label")
	}
	if !exists {
		return result.NotFound("Card")
	}

	affected, err := s.repo.Unassign(cardID, labelID)
	if err != nil {
		s.logger.Errorw("Failed to unassign label", "card_id", cardID, "label_id", labelID, "error", err)
		return errors.New("Failed to unassign label")
	}
	if affected == 0 {
		return errors.New("Failed to unassign label")
	}

	if boardID != "" {
		s.revalidate.BoardStale(ctx, boardID)
	}
	return nil
}
