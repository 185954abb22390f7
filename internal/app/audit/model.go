package audit

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Action string

const (
	ActionCreate Action = "CREATE"
	ActionUpdate Action = "UPDATE"
	ActionDelete Action = "DELETE"
)

type EntityType string

const (
	EntityBoard EntityType = "BOARD"
	EntityList  EntityType = "LIST"
	EntityCard  EntityType = "CARD"
	EntityLabel EntityType = "LABEL"
)

// Log is an immutable record of one mutation. EntityTitle is a snapshot
// taken at write time, not a live reference.
type Log struct {
	ID          string     `json:"id" gorm:"type:uuid;primaryKey"`
	OrgID       string     `json:"org_id" gorm:"type:uuid;not null;index"`
	UserID      string     `json:"user_id" gorm:"type:uuid;not null"`
	UserName    string     `json:"user_name" gorm:"not null"`
	UserImage   string     `json:"user_image"`
	EntityID    string     `json:"entity_id" gorm:"type:uuid;not null;index"`
	EntityType  EntityType `json:"entity_type" gorm:"not null"`
	EntityTitle string     `json:"entity_title" gorm:"not null"`
	Action      Action     `json:"action" gorm:"not null"`
	CreatedAt   time.Time  `json:"created_at"`
}

func (Log) TableName() string {
	return "audit_logs"
}

func (l *Log) BeforeCreate(tx *gorm.DB) error {
	if l.ID == "" {
		l.ID = uuid.NewString()
	}
	return nil
}

// Message renders the human-readable line for a log entry. The action
// set is closed; anything else falls through to the final case.
func (l *Log) Message() string {
	entity := strings.ToLower(string(l.EntityType))
	switch l.Action {
	case ActionCreate:
		return fmt.Sprintf("created %s %q", entity, l.EntityTitle)
	case ActionUpdate:
		return fmt.Sprintf("updated %s %q", entity, l.EntityTitle)
	case ActionDelete:
		return fmt.Sprintf("deleted %s %q", entity, l.EntityTitle)
	default:
		return fmt.Sprintf("unknown action %s %q", entity, l.EntityTitle)
	}
}
