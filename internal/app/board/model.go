package board

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Board struct {
	ID            string    `json:"id" gorm:"type:uuid;primaryKey"`
	OrgID         string    `json:"org_id" gorm:"type:uuid;not null;index"`
	Title         string    `json:"title" gorm:"not null"`
	ImageID       string    `json:"image_id"`
	ImageThumbURL string    `json:"image_thumb_url"`
	ImageFullURL  string    `json:"image_full_url"`
	ImageLinkHTML string    `json:"image_link_html"`
	ImageUserName string    `json:"image_user_name"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

func (b *Board) BeforeCreate(tx *gorm.DB) error {
	if b.ID == "" {
		b.ID = uuid.NewString()
	}
	return nil
}
