package identity

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"

	"gorm.io/gorm"
)

type Service interface {
	CreateSession(name, userAgent string) (*Session, *User, *Organization, error)
	// GetAuth resolves a session key to the acting user and active
	// organization. Any failure means the caller is unauthorized.
	GetAuth(sessionKey string) (*Auth, error)
	GetUserByID(id string) (*User, error)
	SwitchOrg(sessionKey, orgID string) (*Session, error)
}

type service struct {
	repo Repository
}

func NewService(repo Repository) Service {
	return &service{repo: repo}
}

func (s *service) CreateSession(name, userAgent string) (*Session, *User, *Organization, error) {
	if name == "" {
		name = "Anonymous"
	}

	user, err := s.repo.GetUserByName(name)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		user = &User{Name: name}
		if err := s.repo.CreateUser(user); err != nil {
			return nil, nil, nil, fmt.Errorf("failed to create user: %w", err)
		}

		org := &Organization{Name: name + "'s Workspace"}
		if err := s.repo.CreateOrganization(org); err != nil {
			return nil, nil, nil, fmt.Errorf("failed to create organization: %w", err)
		}
		if err := s.repo.CreateMembership(&OrgMembership{UserID: user.ID, OrgID: org.ID}); err != nil {
			return nil, nil, nil, fmt.Errorf("failed to create membership: %w", err)
		}
	} else if err != nil {
		return nil, nil, nil, fmt.Errorf("failed to look up user: %w", err)
	}

	org, err := s.defaultOrg(user.ID)
	if err != nil {
		return nil, nil, nil, err
	}

	_ = s.repo.CloseUserSessions(user.ID)

	sessionKey, err := generateSessionKey()
	if err != nil {
		return nil, nil, nil, fmt.Errorf("failed to generate session key: %w", err)
	}

	session := &Session{
		SessionKey: sessionKey,
		UserID:     user.ID,
		OrgID:      org.ID,
		UserAgent:  &userAgent,
	}
	if err := s.repo.CreateSession(session); err != nil {
		return nil, nil, nil, fmt.Errorf("failed to create session: %w", err)
	}

	return session, user, org, nil
}

func (s *service) defaultOrg(userID string) (*Organization, error) {
	membership, err := s.repo.GetFirstMembership(userID)
	if err != nil {
		return nil, fmt.Errorf("user has no organization: %w", err)
	}
	return s.repo.GetOrganizationByID(membership.OrgID)
}

func (s *service) GetAuth(sessionKey string) (*Auth, error) {
	if sessionKey == "" {
		return nil, errors.New("session key missing")
	}
	session, err := s.repo.GetSessionByKey(sessionKey)
	if err != nil {
		return nil, fmt.Errorf("session not found: %w", err)
	}
	if session.OrgID == "" {
		return nil, errors.New("no active organization")
	}
	return &Auth{UserID: session.UserID, OrgID: session.OrgID}, nil
}

func (s *service) GetUserByID(id string) (*User, error) {
	return s.repo.GetUserByID(id)
}

func (s *service) SwitchOrg(sessionKey, orgID string) (*Session, error) {
	session, err := s.repo.GetSessionByKey(sessionKey)
	if err != nil {
		return nil, fmt.Errorf("session not found: %w", err)
	}

	member, err := s.repo.IsMember(session.UserID, orgID)
	if err != nil {
		return nil, fmt.Errorf("failed to check membership: %w", err)
	}
	if !member {
		return nil, errors.New("organization not found")
	}

	if err := s.repo.UpdateSessionOrg(session.ID, orgID); err != nil {
		return nil, fmt.Errorf("failed to switch organization: %w", err)
	}
	session.OrgID = orgID
	return session, nil
}

func generateSessionKey() (string, error) {
	bytes := make([]byte, 32)
	if _, err := rand.Read(bytes); err != nil {
		return "", err
	}
	return hex.EncodeToString(bytes), nil
}
