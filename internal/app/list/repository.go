package list

import (
	"database/sql"

	"taskboard/internal/app/card"

	"gorm.io/gorm"
)

// OrderUpdate is one row of a board-wide list reorder batch.
type OrderUpdate struct {
	ID    string
	Order int
}

type Repository interface {
	GetByID(id, orgID string) (*List, error)
	ListByBoard(boardID string) ([]*List, error)
	BoardExists(boardID, orgID string) (bool, error)
	MaxOrder(boardID string) (sql.NullInt64, error)
	Create(list *List) error
	UpdateTitle(id, orgID, title string) (*List, error)
	// CloneWithCards creates the clone list and a copy of every source
	// card, keeping each card's original order value and label
	// assignments, in one transaction.
	CloneWithCards(clone *List, sourceCards []*card.Card) error
	// BatchReorder rewrites the order of every list in the batch inside
	// one transaction; a single missing row fails the whole batch.
	BatchReorder(orgID string, items []OrderUpdate) error
	Delete(id, orgID string) error
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) GetByID(id, orgID string) (*List, error) {
	var list List
	err := r.db.
		Joins("JOIN boards ON boards.id = lists.board_id").
		Where("lists.id = ? AND boards.org_id = ?", id, orgID).
		First(&list).Error
	return &list, err
}

func (r *repository) ListByBoard(boardID string) ([]*List, error) {
	var lists []*List
	err := r.db.
		Where("board_id = ?", boardID).
		Order(`"order" ASC`).
		Find(&lists).Error
	return lists, err
}

func (r *repository) BoardExists(boardID, orgID string) (bool, error) {
	var count int64
	err := r.db.Table("boards").
		Where("id = ? AND org_id = ?", boardID, orgID).
		Count(&count).Error
	return count > 0, err
}

func (r *repository) MaxOrder(boardID string) (sql.NullInt64, error) {
	var max sql.NullInt64
	err := r.db.Model(&List{}).
		Select(`MAX("order")`).
		Where("board_id = ?", boardID).
		Scan(&max).Error
	return max, err
}

func (r *repository) Create(list *List) error {
	return r.db.Create(list).Error
}

func (r *repository) UpdateTitle(id, orgID, title string) (*List, error) {
	res := r.db.Model(&List{}).
		Where(`lists.id = ? AND EXISTS (
            SELECT 1 FROM boards
            WHERE boards.id = lists.board_id AND boards.org_id = ?
        )`, id, orgID).
		Update("title", title)
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, gorm.ErrRecordNotFound
	}
	return r.GetByID(id, orgID)
}

func (r *repository) CloneWithCards(clone *List, sourceCards []*card.Card) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(clone).Error; err != nil {
			return err
		}

		for _, src := range sourceCards {
			copy := &card.Card{
				ListID:      clone.ID,
				Title:       src.Title,
				Description: src.Description,
				Order:       src.Order,
				DueDate:     src.DueDate,
			}
			if err := tx.Create(copy).Error; err != nil {
				return err
			}

			if err := tx.Exec(`
                INSERT INTO card_labels (id, card_id, label_id, created_at)
                SELECT gen_random_uuid(), ?, label_id, NOW()
                FROM card_labels WHERE card_id = ?
            `, copy.ID, src.ID).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

func (r *repository) BatchReorder(orgID string, items []OrderUpdate) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		for _, item := range items {
			res := tx.Exec(`
                UPDATE lists SET "order" = ?, updated_at = NOW()
                WHERE id = ? AND EXISTS (
                    SELECT 1 FROM boards
                    WHERE boards.id = lists.board_id AND boards.org_id = ?
                )
            `, item.Order, item.ID, orgID)
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
		var list List
		err := tx.
			Joins("JOIN boards ON boards.id = lists.board_id").
			Where("lists.id = ? AND boards.org_id = ?", id, orgID).
			First(&list).Error
		if err != nil {
			return err
		}

		if err := tx.Exec(`
            DELETE FROM card_labels
            WHERE card_id IN (SELECT id FROM cards WHERE list_id = ?)
        `, id).Error; err != nil {
			return err
		}
		if err := tx.Exec(`DELETE FROM cards WHERE list_id = ?`, id).Error; err != nil {
			return err
		}
		return tx.Where("id = ?", id).Delete(&List{}).Error
	})
}
