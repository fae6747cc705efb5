package store

import (
	"database/sql"
	"fmt"

	"github.com/hilalapp/hilal/internal/model"
)

type CustomItemStore struct {
	db *sql.DB
}

func NewCustomItemStore(db *sql.DB) *CustomItemStore {
	return &CustomItemStore{db: db}
}

const customItemCols = `id, member_id, title, description, is_active, created_at`

func scanCustomItem(scanner interface{ Scan(...any) error }) (*model.CustomItem, error) {
	var item model.CustomItem
	var active int
	err := scanner.Scan(&item.ID, &item.MemberID, &item.Title, &item.Description, &active, &item.CreatedAt)
	if err != nil {
		return nil, err
	}
	item.IsActive = active != 0
	return &item, nil
}

func (s *CustomItemStore) Create(memberID int64, title, description string) (*model.CustomItem, error) {
	result, err := s.db.Exec(
		`INSERT INTO custom_checklist_items (member_id, title, description) VALUES (?, ?, ?)`,
		memberID, title, description,
	)
	if err != nil {
		return nil, fmt.Errorf("insert custom item: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("last insert id: %w", err)
	}
	return s.GetByID(id)
}

func (s *CustomItemStore) GetByID(id int64) (*model.CustomItem, error) {
	row := s.db.QueryRow(`SELECT `+customItemCols+` FROM custom_checklist_items WHERE id = ?`, id)
	item, err := scanCustomItem(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get custom item: %w", err)
	}
	return item, nil
}

// ListByMember returns a member's checklist items, optionally restricted to
// the active set used for scoring and "total possible" counts.
func (s *CustomItemStore) ListByMember(memberID int64, activeOnly bool) ([]model.CustomItem, error) {
	query := `SELECT ` + customItemCols + ` FROM custom_checklist_items WHERE member_id = ?`
	if activeOnly {
		query += ` AND is_active = 1`
	}
	query += ` ORDER BY id ASC`

	rows, err := s.db.Query(query, memberID)
	if err != nil {
		return nil, fmt.Errorf("list custom items: %w", err)
	}
	defer rows.Close()

	var items []model.CustomItem
	for rows.Next() {
		item, err := scanCustomItem(rows)
		if err != nil {
			return nil, fmt.Errorf("scan custom item: %w", err)
		}
		items = append(items, *item)
	}
	return items, rows.Err()
}

func (s *CustomItemStore) Update(id int64, title, description string, isActive bool) (*model.CustomItem, error) {
	_, err := s.db.Exec(
		`UPDATE custom_checklist_items SET title = ?, description = ?, is_active = ? WHERE id = ?`,
		title, description, boolInt(isActive), id,
	)
	if err != nil {
		return nil, fmt.Errorf("update custom item: %w", err)
	}
	return s.GetByID(id)
}

// Deactivate soft-deletes an item. The row stays so historical entry maps
// that reference its id remain interpretable.
func (s *CustomItemStore) Deactivate(id int64) error {
	_, err := s.db.Exec(`UPDATE custom_checklist_items SET is_active = 0 WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deactivate custom item: %w", err)
	}
	return nil
}
