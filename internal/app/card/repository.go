package card

import (
	"database/sql"

	"gorm.io/gorm"
)

// OrderUpdate is one row of a reorder batch: the card's new position
// and, for cross-list moves, its new list.
type OrderUpdate struct {
	ID     string
	ListID string
	Order  int
}

type Repository interface {
	GetByID(id, orgID string) (*Card, error)
	ListByList(listID string) ([]*Card, error)
	MaxOrder(listID string) (sql.NullInt64, error)
	GetListBoard(listID, orgID string) (string, error)
	Create(card *Card) error
	Update(id, orgID string, updates map[string]interface{}) (*Card, error)
	CloneWithLabels(clone *Card, sourceCardID string) error
	// BatchReorder applies every order update in one transaction. If any
	// row is missing or outside the caller's organization the whole
	// batch fails and nothing is persisted.
	BatchReorder(orgID string, items []OrderUpdate) error
	Delete(id, orgID string) error
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) GetByID(id, orgID string) (*Card, error) {
	var card Card
	err := r.db.
		Joins("JOIN lists ON lists.id = cards.list_id").
		Joins("JOIN boards ON boards.id = lists.board_id").
		Where("cards.id = ? AND boards.org_id = ?", id, orgID).
		First(&card).Error
	return &card, err
}

func (r *repository) ListByList(listID string) ([]*Card, error) {
	var cards []*Card
	err := r.db.
		Where("list_id = ?", listID).
		Order(`"order" ASC`).
		Find(&cards).Error
	return cards, err
}

func (r *repository) MaxOrder(listID string) (sql.NullInt64, error) {
	var max sql.NullInt64
	err := r.db.Model(&Card{}).
		Select(`MAX("order")`).
		Where("list_id = ?", listID).
		Scan(&max).Error
	return max, err
}

// GetListBoard resolves a list to its board id, scoped to the caller's
// organization.
func (r *repository) GetListBoard(listID, orgID string) (string, error) {
	var boardID string
	err := r.db.Raw(`
        SELECT boards.id FROM lists
        JOIN boards ON boards.id = lists.board_id
        WHERE lists.id = ? AND boards.org_id = ?
    `, listID, orgID).Scan(&boardID).Error
	if err != nil {
		return "", err
	}
	if boardID == "" {
		return "", gorm.ErrRecordNotFound
	}
	return boardID, nil
}

func (r *repository) Create(card *Card) error {
	return r.db.Create(card).Error
}

func (r *repository) Update(id, orgID string, updates map[string]interface{}) (*Card, error) {
	res := r.db.Model(&Card{}).
		Where(`cards.id = ? AND EXISTS (
            SELECT 1 FROM lists
            JOIN boards ON boards.id = lists.board_id
            WHERE lists.id = cards.list_id AND boards.org_id = ?
        )`, id, orgID).
		Updates(updates)
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, gorm.ErrRecordNotFound
	}
	return r.GetByID(id, orgID)
}

func (r *repository) CloneWithLabels(clone *Card, sourceCardID string) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(clone).Error; err != nil {
			return err
		}
		return tx.Exec(`
            INSERT INTO card_labels (id, card_id, label_id, created_at)
            SELECT gen_random_uuid(), ?, label_id, NOW()
            FROM card_labels WHERE card_id = ?
        `, clone.ID, sourceCardID).Error
	})
}

func (r *repository) BatchReorder(orgID string, items []OrderUpdate) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		for _, item := range items {
			res := tx.Exec(`
                UPDATE cards SET "order" = ?, list_id = ?, updated_at = NOW()
                WHERE id = ? AND EXISTS (
                    SELECT 1 FROM lists
                    JOIN boards ON boards.id = lists.board_id
                    WHERE lists.id = cards.list_id AND boards.org_id = ?
                )
            `, item.Order, item.ListID, item.ID, orgID)
			if res.Error != nil {
				return res.Error
			}
			if res.RowsAffected == 0 {
				return gorm.ErrRecordNotFound
			}
		}
		return nil
	})
}

func (r *repository) Delete(id, orgID string) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		var card Card
		err := tx.
			Joins("JOIN lists ON lists.id = cards.list_id").
			Joins("JOIN boards ON boards.id = lists.board_id").
			Where("cards.id = ? AND boards.org_id = ?", id, orgID).
			First(&card).Error
		if err != nil {
			return err
		}

		if err := tx.Exec(`DELETE FROM card_labels WHERE card_id = ?`, id).Error; err != nil {
			return err
		}
		return tx.Where("id = ?", id).Delete(&Card{}).Error
	})
}
