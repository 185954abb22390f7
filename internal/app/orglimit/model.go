package orglimit

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// OrgLimit counts boards created by an organization under the free tier.
// The counter is best effort: it is not written in the same transaction
// as the board row it tracks.
type OrgLimit struct {
	ID        string    `json:"id" gorm:"type:uuid;primaryKey"`
	OrgID     string    `json:"org_id" gorm:"type:uuid;not null;uniqueIndex"`
	Count     int       `json:"count" gorm:"not null;default:0"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (l *OrgLimit) BeforeCreate(tx *gorm.DB) error {
	if l.ID == "" {
		l.ID = uuid.NewString()
	}
	return nil
}
