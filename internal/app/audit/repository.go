package audit

import "gorm.io/gorm"

type Repository interface {
	Create(log *Log) error
	ListByOrg(orgID string, page, limit int) ([]*Log, int64, error)
	ListByEntity(orgID, entityID string, limit int) ([]*Log, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(log *Log) error {
	return r.db.Create(log).Error
}

func (r *repository) ListByOrg(orgID string, page, limit int) ([]*Log, int64, error) {
	var logs []*Log
	var total int64
	offset := (page - 1) * limit

	err := r.db.
		Where("org_id = ?", orgID).
		Order("created_at DESC").
		Offset(offset).
		Limit(limit).
		Find(&logs).Error
	if err != nil {
		return nil, 0, err
	}

	err = r.db.Model(&Log{}).Where("org_id = ?", orgID).Count(&total).Error
	if err != nil {
		return nil, 0, err
	}

	return logs, total, nil
}

func (r *repository) ListByEntity(orgID, entityID string, limit int) ([]*Log, error) {
	var logs []*Log
	err := r.db.
		Where("org_id = ? AND entity_id = ?", orgID, entityID).
		Order("created_at DESC").
		Limit(limit).
		Find(&logs).Error
	return logs, err
}
