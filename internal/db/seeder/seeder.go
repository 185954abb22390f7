package seeder

import (
	"taskboard/internal/app/identity"
	"taskboard/internal/app/label"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Seeder struct {
	db     *gorm.DB
	logger *zap.Logger
}

func NewSeeder(db *gorm.DB, logger *zap.Logger) *Seeder {
	return &Seeder{
		db:     db,
		logger: logger,
	}
}

func (s *Seeder) Seed() error {
	s.logger.Info("Running database seeders...")

	if err := s.seedDemoOrg(); err != nil {
		return err
	}

	s.logger.Info("Database seeders completed successfully")
	return nil
}

func (s *Seeder) seedDemoOrg() error {
	var count int64
	s.db.Model(&identity.Organization{}).Count(&count)
	if count > 0 {
		s.logger.Info("Organizations already exist, skipping seed")
		return nil
	}

	org := identity.Organization{Name: "Demo Workspace"}
	if err := s.db.Create(&org).Error; err != nil {
		return err
	}

	user := identity.User{Name: "demo"}
	if err := s.db.Create(&user).Error; err != nil {
		return err
	}

	membership := identity.OrgMembership{UserID: user.ID, OrgID: org.ID}
	if err := s.db.Create(&membership).Error; err != nil {
		return err
	}

	labels := []label.Label{
		{OrgID: org.ID, Name: "Bug", Color: "#EB5A46"},
		{OrgID: org.ID, Name: "Feature", Color: "#61BD4F"},
		{OrgID: org.ID, Name: "Urgent", Color: "#F2D600"},
		{OrgID: org.ID, Name: "Design", Color: "#C377E0"},
	}
	if err := s.db.Create(&labels).Error; err != nil {
		return err
	}

	s.logger.Info("Seeded demo organization",
		zap.String("org_id", org.ID),
		zap.Int("labels", len(labels)),
	)
	return nil
}
