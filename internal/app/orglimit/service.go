package orglimit

import (
	"errors"
	"fmt"

	"gorm.io/gorm"
)

// Service guards the free-tier board quota. Read-then-write on the
// counter row; decrement floors at zero.
type Service interface {
	Increment(orgID string) error
	Decrement(orgID string) error
	HasAvailableCount(orgID string) (bool, error)
	GetAvailableCount(orgID string) (int, error)
}

type service struct {
	repo    Repository
	maxFree int
}

func NewService(repo Repository, maxFreeBoards int) Service {
	return &service{repo: repo, maxFree: maxFreeBoards}
}

func (s *service) Increment(orgID string) error {
	limit, err := s.repo.GetByOrg(orgID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return s.repo.Create(&OrgLimit{OrgID: orgID, Count: 1})
	}
	if err != nil {
		return fmt.Errorf("failed to read org limit: %w", err)
	}
	return s.repo.UpdateCount(orgID, limit.Count+1)
}

func (s *service) Decrement(orgID string) error {
	limit, err := s.repo.GetByOrg(orgID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		// A delete can only follow a create, so a missing row means the
		// create's increment was lost; seed the counter at one.
		return s.repo.Create(&OrgLimit{OrgID: orgID, Count: 1})
	}
	if err != nil {
		return fmt.Errorf("failed to read org limit: %w", err)
	}

	count := limit.Count - 1
	if count < 0 {
		count = 0
	}
	return s.repo.UpdateCount(orgID, count)
}

func (s *service) HasAvailableCount(orgID string) (bool, error) {
	limit, err := s.repo.GetByOrg(orgID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return true, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to read org limit: %w", err)
	}
	return limit.Count < s.maxFree, nil
}

func (s *service) GetAvailableCount(orgID string) (int, error) {
	limit, err := s.repo.GetByOrg(orgID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("failed to read org limit: %w", err)
	}
	return limit.Count, nil
}
