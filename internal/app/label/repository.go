package label

import "gorm.io/gorm"

type Repository interface {
	GetByID(id, orgID string) (*Label, error)
	ListByOrg(orgID string) ([]*Label, error)
	ListByCard(cardID string) ([]*Label, error)
	Create(label *Label) error
	Update(id, orgID string, updates map[string]interface{}) (*Label, error)
	Delete(id, orgID string) error
	CardExists(cardID, orgID string) (bool, error)
	Assign(cardLabel *CardLabel) error
	Unassign(cardID, labelID string) (int64, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) GetByID(id, orgID string) (*Label, error) {
	var label Label
	err := r.db.Where("id = ? AND org_id = ?", id, orgID).First(&label).Error
	return &label, err
}

func (r *repository) ListByOrg(orgID string) ([]*Label, error) {
	var labels []*Label
	err := r.db.
		Where("org_id = ?", orgID).
		Order("name ASC").
		Find(&labels).Error
	return labels, err
}

func (r *repository) ListByCard(cardID string) ([]*Label, error) {
	var labels []*Label
	err := r.db.
		Joins("JOIN card_labels ON card_labels.label_id = labels.id").
		Where("card_labels.card_id = ?", cardID).
		Order("labels.name ASC").
		Find(&labels).Error
	return labels, err
}

func (r *repository) Create(label *Label) error {
	return r.db.Create(label).Error
}

func (r *repository) Update(id, orgID string, updates map[string]interface{}) (*Label, error) {
	res := r.db.Model(&Label{}).
		Where("id = ? AND org_id = ?", id, orgID).
		Updates(updates)
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, gorm.ErrRecordNotFound
	}
	return r.GetByID(id, orgID)
}

func (r *repository) Delete(id, orgID string) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		var label Label
		if err := tx.Where("id = ? AND org_id = ?", id, orgID).First(&label).Error; err != nil {
			return err
		}
		if err := tx.Exec(`DELETE FROM card_labels WHERE label_id = ?`, id).Error; err != nil {
			return err
		}
		return tx.Where("id = ?", id).Delete(&Label{}).Error
	})
}

// CardExists checks the card through its list and board so cards in
// other organizations stay invisible.
func (r *repository) CardExists(cardID, orgID string) (bool, error) {
	var count int64
	err := r.db.Table("cards").
		Joins("JOIN lists ON lists.id = cards.list_id").
		Joins("JOIN boards ON boards.id = lists.board_id").
		Where("cards.id = ? AND boards.org_id = ?", cardID, orgID).
		Count(&count).Error
	return count > 0, err
}

func (r *repository) Assign(cardLabel *CardLabel) error {
	return r.db.Create(cardLabel).Error
}

func (r *repository) Unassign(cardID, labelID string) (int64, error) {
	res := r.db.
		Where("card_id = ? AND label_id = ?", cardID, labelID).
		Delete(&CardLabel{})
	return res.RowsAffected, res.Error
}
