package orglimit

import "gorm.io/gorm"

type Repository interface {
	GetByOrg(orgID string) (*OrgLimit, error)
	Create(limit *OrgLimit) error
	UpdateCount(orgID string, count int) error
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) GetByOrg(orgID string) (*OrgLimit, error) {
	var limit OrgLimit
	err := r.db.Where("org_id = ?", orgID).First(&limit).Error
	return &limit, err
}

func (r *repository) Create(limit *OrgLimit) error {
	return r.db.Create(limit).Error
}

func (r *repository) UpdateCount(orgID string, count int) error {
	return r.db.Model(&OrgLimit{}).
		Where("org_id = ?", orgID).
		Update("count", count).Error
}
