package identity

import (
	"time"

	"gorm.io/gorm"
)

type Repository interface {
	GetUserByName(name string) (*User, error)
	GetUserByID(id string) (*User, error)
	CreateUser(user *User) error
	CreateOrganization(org *Organization) error
	GetOrganizationByID(id string) (*Organization, error)
	CreateMembership(m *OrgMembership) error
	GetFirstMembership(userID string) (*OrgMembership, error)
	IsMember(userID, orgID string) (bool, error)
	CreateSession(session *Session) error
	GetSessionByKey(sessionKey string) (*Session, error)
	CloseUserSessions(userID string) error
	UpdateSessionOrg(sessionID, orgID string) error
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) GetUserByName(name string) (*User, error) {
	var user User
	err := r.db.Where("name = ?", name).First(&user).Error
	return &user, err
}

func (r *repository) GetUserByID(id string) (*User, error) {
	var user User
	err := r.db.Where("id = ?", id).First(&user).Error
	return &user, err
}

func (r *repository) CreateUser(user *User) error {
	return r.db.Create(user).Error
}

func (r *repository) CreateOrganization(org *Organization) error {
	return r.db.Create(org).Error
}

func (r *repository) GetOrganizationByID(id string) (*Organization, error) {
	var org Organization
	err := r.db.Where("id = ?", id).First(&org).Error
	return &org, err
}

func (r *repository) CreateMembership(m *OrgMembership) error {
	return r.db.Create(m).Error
}

func (r *repository) GetFirstMembership(userID string) (*OrgMembership, error) {
	var membership OrgMembership
	err := r.db.Where("user_id = ?", userID).
		Order("created_at ASC").
		First(&membership).Error
	return &membership, err
}

func (r *repository) IsMember(userID, orgID string) (bool, error) {
	var count int64
	err := r.db.Model(&OrgMembership{}).
		Where("user_id = ? AND org_id = ?", userID, orgID).
		Count(&count).Error
	return count > 0, err
}

func (r *repository) CreateSession(session *Session) error {
	return r.db.Create(session).Error
}

func (r *repository) GetSessionByKey(sessionKey string) (*Session, error) {
	var session Session
	err := r.db.Where("session_key = ? AND ended_at IS NULL", sessionKey).First(&session).Error
	return &session, err
}

func (r *repository) CloseUserSessions(userID string) error {
	return r.db.Model(&Session{}).
		Where("user_id = ? AND ended_at IS NULL", userID).
		Update("ended_at", time.Now().UTC()).Error
}

func (r *repository) UpdateSessionOrg(sessionID, orgID string) error {
	return r.db.Model(&Session{}).
		Where("id = ?", sessionID).
		Update("org_id", orgID).Error
}
