package services

import (
	"context"
	"database/sql"
	"strings"

	"github.com/google/uuid"

	"github.com/pantryman/pantryman-be/internal/models"
)

// ListServiceProvider defines the interface for grocery list services.
// Every operation is scoped to the owning user; a list that belongs to
// someone else is indistinguishable from one that does not exist.
type ListServiceProvider interface {
	GetAll(ctx context.Context, userID string) ([]models.GroceryList, error)
	GetByID(ctx context.Context, id, userID string) (models.GroceryList, error)
	Create(ctx context.Context, userID, name string) (models.GroceryList, error)
	Update(ctx context.Context, id, userID, name string) error
	Delete(ctx context.Context, id, userID string) error
}

// ListService provides business logic for grocery list management.
type ListService struct {
	db *sql.DB
}

// NewListService creates a new ListService.
func NewListService(db *sql.DB) *ListService {
	return &ListService{db: db}
}

// GetAll retrieves every list owned by the user, items included.
func (s *ListService) GetAll(ctx context.Context, userID string) ([]models.GroceryList, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT id, name, user_id, created_at FROM grocery_lists WHERE user_id = ?", userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	lists := []models.GroceryList{}
	for rows.Next() {
		var list models.GroceryList
		if err := rows.Scan(&list.ID, &list.Name, &list.OwnerID, &list.CreatedAt); err != nil {
			return nil, err
		}
		lists = append(lists, list)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range lists {
		items, err := s.listItems(ctx, lists[i].ID)
		if err != nil {
			return nil, err
		}
		lists[i].Items = items
	}
	return lists, nil
}

// GetByID retrieves a single list owned by the user.
func (s *ListService) GetByID(ctx context.Context, id, userID string) (models.GroceryList, error) {
	var list models.GroceryList
	row := s.db.QueryRowContext(ctx,
		"SELECT id, name, user_id, created_at FROM grocery_lists WHERE id = ? AND user_id = ?", id, userID)
	if err := row.Scan(&list.ID, &list.Name, &list.OwnerID, &list.CreatedAt); err != nil {
		if err == sql.ErrNoRows {
			return models.GroceryList{}, ErrNotFound
		}
		return models.GroceryList{}, err
	}

	items, err := s.listItems(ctx, list.ID)
	if err != nil {
		return models.GroceryList{}, err
	}
	list.Items = items
	return list, nil
}

// Create adds a new empty list for the user.
func (s *ListService) Create(ctx context.Context, userID, name string) (models.GroceryList, error) {
	if strings.TrimSpace(name) == "" {
		return models.GroceryList{}, newValidationError("Name cannot be blank")
	}

	list := models.GroceryList{
		ID:      uuid.NewString(),
		Name:    name,
		Items:   []models.Item{},
		OwnerID: userID,
	}

	_, err := s.db.ExecContext(ctx,
		"INSERT INTO grocery_lists (id, name, user_id) VALUES (?, ?, ?)",
		list.ID, list.Name, list.OwnerID)
	if err != nil {
		return models.GroceryList{}, err
	}
	return list, nil
}

// Update renames a list owned by the user.
func (s *ListService) Update(ctx context.Context, id, userID, name string) error {
	if strings.TrimSpace(name) == "" {
		return newValidationError("Name cannot be blank")
	}

	res, err := s.db.ExecContext(ctx,
		"UPDATE grocery_lists SET name = ? WHERE id = ? AND user_id = ?", name, id, userID)
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

// Delete removes a list owned by the user along with its items, as one
// transaction.
func (s *ListService) Delete(ctx context.Context, id, userID string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	// The item delete carries the ownership predicate too, so nothing is
	// removed when the list is not the caller's.
	if _, err := tx.ExecContext(ctx,
		"DELETE FROM items WHERE list_id IN (SELECT id FROM grocery_lists WHERE id = ? AND user_id = ?)",
		id, userID); err != nil {
		return err
	}

	res, err := tx.ExecContext(ctx,
		"DELETE FROM grocery_lists WHERE id = ? AND user_id = ?", id, userID)
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

func (s *ListService) listItems(ctx context.Context, listID string) ([]models.Item, error) {
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
