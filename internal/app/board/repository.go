package board

import "gorm.io/gorm"

type Repository interface {
	Create(board *Board) error
	GetByID(id, orgID string) (*Board, error)
	ListByOrg(orgID string) ([]*Board, error)
	Update(id, orgID string, updates map[string]interface{}) (*Board, error)
	// Delete removes the board and everything under it: card label
	// assignments, cards, lists, then the board row, in one transaction.
	Delete(id, orgID string) error
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(board *Board) error {
	return r.db.Create(board).Error
}

func (r *repository) GetByID(id, orgID string) (*Board, error) {
	var board Board
	err := r.db.Where("id = ? AND org_id = ?", id, orgID).First(&board).Error
	return &board, err
}

func (r *repository) ListByOrg(orgID string) ([]*Board, error) {
	var boards []*Board
	err := r.db.
		Where("org_id = ?", orgID).
		Order("created_at DESC").
		Find(&boards).Error
	return boards, err
}

func (r *repository) Update(id, orgID string, updates map[string]interface{}) (*Board, error) {
	res := r.db.Model(&Board{}).
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
		var board Board
		if err := tx.Where("id = ? AND org_id = ?", id, orgID).First(&board).Error; err != nil {
			return err
		}

		if err := tx.Exec(`
            DELETE FROM card_labels
            WHERE card_id IN (
                SELECT cards.id FROM cards
                JOIN lists ON lists.id = cards.list_id
                WHERE lists.board_id = ?
            )
        `, id).Error; err != nil {
			return err
		}

		if err := tx.Exec(`
            DELETE FROM cards
            WHERE list_id IN (SELECT id FROM lists WHERE board_id = ?)
        `, id).Error; err != nil {
			return err
		}

		if err := tx.Exec(`DELETE FROM lists WHERE board_id = ?`, id).Error; err != nil {
			return err
		}

		res := tx.Where("id = ? AND org_id = ?", id, orgID).Delete(&Board{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
}
