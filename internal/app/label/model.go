package label

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Label is scoped to an organization, not a single board, so it can be
// reused across every board in the org.
type Label struct {
	ID        string    `json:"id" gorm:"type:uuid;primaryKey"`
	OrgID     string    `json:"org_id" gorm:"type:uuid;not null;index"`
	Name      string    `json:"name" gorm:"not null"`
	Color     string    `json:"color" gorm:"not null"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// CardLabel assigns a label to a card. The (card_id, label_id) pair is
// unique: a card can never carry the same label twice.
type CardLabel struct {
	ID        string    `json:"id" gorm:"type:uuid;primaryKey"`
	CardID    string    `json:"card_id" gorm:"type:uuid;not null;uniqueIndex:idx_card_label"`
	LabelID   string    `json:"label_id" gorm:"type:uuid;not null;uniqueIndex:idx_card_label"`
	CreatedAt time.Time `json:"created_at"`
}

func (l *Label) BeforeCreate(tx *gorm.DB) error {
	if l.ID == "" {
		l.ID = uuid.NewString()
	}
	return nil
}

func (cl *CardLabel) BeforeCreate(tx *gorm.DB) error {
	if cl.ID == "" {
		cl.ID = uuid.NewString()
	}
	return nil
}
