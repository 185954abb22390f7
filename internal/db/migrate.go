package db

import (
	"taskboard/internal/app/audit"
	"taskboard/internal/app/board"
	"taskboard/internal/app/card"
	"taskboard/internal/app/identity"
	"taskboard/internal/app/label"
	"taskboard/internal/app/list"
	"taskboard/internal/app/orglimit"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

func Migrate(db *gorm.DB, logger *zap.Logger) error {
	err := db.AutoMigrate(
		&identity.User{},
		&identity.Organization{},
		&identity.OrgMembership{},
		&identity.Session{},
		&board.Board{},
		&list.List{},
		&card.Card{},
		&label.Label{},
		&label.CardLabel{},
		&audit.Log{},
		&orglimit.OrgLimit{},
	)
	if err != nil {
		return err
	}

	logger.Info("Database migrated")
	return nil
}
