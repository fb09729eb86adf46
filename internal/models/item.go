package models

import "time"

// Item represents a single entry on a grocery list.
type Item struct {
	ID         string    `json:"id"`
	ListID     string    `json:"listId"`
	Name       string    `json:"name"`
	Quantity   int       `json:"quantity"`
	IsChecked  bool      `json:"isChecked"`
	IsFavorite bool      `json:"isFavorite"`
	CreatedAt  time.Time `json:"createdAt"`
}

// ItemPatch is a partial update to an item. Nil fields keep their
// current values.
type ItemPatch struct {
	Name       *string `json:"name"`
	Quantity   *int    `json:"quantity"`
	IsChecked  *bool   `json:"isChecked"`
	IsFavorite *bool   `json:"isFavorite"`
}
