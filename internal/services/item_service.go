package services

import (
	"context"
	"database/sql"
	"strings"

	"github.com/google/uuid"

	"github.com/pantryman/pantryman-be/internal/models"
)

// ItemServiceProvider defines the interface for item services. Items are
// scoped to the authenticated user through their parent list's owner.
type ItemServiceProvider interface {
	GetAll(ctx context.Context, listID, userID string) ([]models.Item, error)
	Create(ctx context.Context, listID, userID, name string, quantity int) (models.Item, error)
	Update(ctx context.Context, itemID, userID string, patch models.ItemPatch) error
	Delete(ctx context.Context, itemID, userID string) error
}

// ItemService provides business logic for grocery items.
type ItemService struct {
	db *sql.DB
}

// NewItemService creates a new ItemService.
func NewItemService(db *sql.DB) *ItemService {
	return &ItemService{db: db}
}

// GetAll retrieves the items of a list owned by the user.
func (s *ItemService) GetAll(ctx context.Context, listID, userID string) ([]models.Item, error) {
	if err := s.checkListOwner(ctx, listID, userID); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx,
		"SELECT id, list_id, name, quantity, is_checked, is_favorite, created_at FROM items WHERE list_id = ?", listID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := []models.Item{}
	for rows.Next() {
		var item models.Item
		if err := rows.Scan(&item.ID, &item.ListID, &item.Name, &item.Quantity, &item.IsChecked, &item.IsFavorite, &item.CreatedAt); err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, rows.Err()
}

// Create adds an item to a list owned by the user.
func (s *ItemService) Create(ctx context.Context, listID, userID, name string, quantity int) (models.Item, error) {
	if strings.TrimSpace(name) == "" {
		return models.Item{}, newValidationError("Name cannot be blank")
	}
	if quantity < 1 {
		return models.Item{}, newValidationError("Quantity cannot be below 1")
	}

	if err := s.checkListOwner(ctx, listID, userID); err != nil {
		return models.Item{}, err
	}

	item := models.Item{
		ID:       uuid.NewString(),
		ListID:   listID,
		Name:     name,
		Quantity: quantity,
	}

	_, err := s.db.ExecContext(ctx,
		"INSERT INTO items (id, list_id, name, quantity, is_checked, is_favorite) VALUES (?, ?, ?, ?, 0, 0)",
		item.ID, item.ListID, item.Name, item.Quantity)
	if err != nil {
		return models.Item{}, err
	}
	return item, nil
}

// Update applies a partial update to an item on a list owned by the user.
// Both the read and the write carry the ownership predicate and run inside
// one transaction.
func (s *ItemService) Update(ctx context.Context, itemID, userID string, patch models.ItemPatch) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	var item models.Item
	row := tx.QueryRowContext(ctx,
		`SELECT id, list_id, name, quantity, is_checked, is_favorite FROM items
		 WHERE id = ? AND list_id IN (SELECT id FROM grocery_lists WHERE user_id = ?)`,
		itemID, userID)
	if err := row.Scan(&item.ID, &item.ListID, &item.Name, &item.Quantity, &item.IsChecked, &item.IsFavorite); err != nil {
		if err == sql.ErrNoRows {
			return ErrNotFound
		}
		return err
	}

	if patch.Name != nil {
		item.Name = *patch.Name
	}
	if patch.Quantity != nil {
		item.Quantity = *patch.Quantity
	}
	if patch.IsChecked != nil {
		item.IsChecked = *patch.IsChecked
	}
	if patch.IsFavorite != nil {
		item.IsFavorite = *patch.IsFavorite
	}

	if strings.TrimSpace(item.Name) == "" {
		return newValidationError("Name cannot be blank")
	}
	if item.Quantity < 1 {
		return newValidationError("Quantity cannot be below 1")
	}

	res, err := tx.ExecContext(ctx,
		`UPDATE items SET name = ?, quantity = ?, is_checked = ?, is_favorite = ?
		 WHERE id = ? AND list_id IN (SELECT id FROM grocery_lists WHERE user_id = ?)`,
		item.Name, item.Quantity, item.IsChecked, item.IsFavorite, itemID, userID)
	if err != nil {
		return err
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return ErrNotFound
	}

	return tx.Commit()
}

// Delete removes an item from a list owned by the user.
func (s *ItemService) Delete(ctx context.Context, itemID, userID string) error {
	res, err := s.db.ExecContext(ctx,
		"DELETE FROM items WHERE id = ? AND list_id IN (SELECT id FROM grocery_lists WHERE user_id = ?)",
		itemID, userID)
	if err != nil {
		return err
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return ErrNotFound
	}
	return nil
}

// checkListOwner verifies in a single predicate that the list exists and
// belongs to the user.
func (s *ItemService) checkListOwner(ctx context.Context, listID, userID string) error {
	var one int
	row := s.db.QueryRowContext(ctx,
		"SELECT 1 FROM grocery_lists WHERE id = ? AND user_id = ?", listID, userID)
	if err := row.Scan(&one); err != nil {
		if err == sql.ErrNoRows {
			return ErrNotFound
		}
		return err
	}
	return nil
}
