package identity

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type User struct {
	ID        string    `json:"id" gorm:"type:uuid;primaryKey"`
	Name      string    `json:"name" gorm:"not null;uniqueIndex"`
	ImageURL  string    `json:"image_url"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type Organization struct {
	ID        string    `json:"id" gorm:"type:uuid;primaryKey"`
	Name      string    `json:"name" gorm:"not null"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type OrgMembership struct {
	ID        string    `json:"id" gorm:"type:uuid;primaryKey"`
	UserID    string    `json:"user_id" gorm:"type:uuid;not null;uniqueIndex:idx_member_org"`
	OrgID     string    `json:"org_id" gorm:"type:uuid;not null;uniqueIndex:idx_member_org"`
	CreatedAt time.Time `json:"created_at"`
}

type Session struct {
	ID         string     `json:"id" gorm:"type:uuid;primaryKey"`
	SessionKey string     `json:"session_key" gorm:"unique;not null"`
	UserID     string     `json:"user_id" gorm:"type:uuid;not null;index"`
	OrgID      string     `json:"org_id" gorm:"type:uuid;not null"`
	UserAgent  *string    `json:"user_agent,omitempty" gorm:"type:text"`
	EndedAt    *time.Time `json:"ended_at,omitempty"`
	CreatedAt  time.Time  `json:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at"`
}

// Auth is the resolved identity every mutation action requires: who is
// acting and which organization is active.
type Auth struct {
	UserID string
	OrgID  string
}

func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	return nil
}

func (o *Organization) BeforeCreate(tx *gorm.DB) error {
	if o.ID == "" {
		o.ID = uuid.NewString()
	}
	return nil
}

func (m *OrgMembership) BeforeCreate(tx *gorm.DB) error {
	if m.ID == "" {
		m.ID = uuid.NewString()
	}
	return nil
}

func (s *Session) BeforeCreate(tx *gorm.DB) error {
	if s.ID == "" {
		s.ID = uuid.NewString()
	}
	return nil
}
