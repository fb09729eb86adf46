package models

import "time"

// GroceryList represents a grocery list owned by a single user.
type GroceryList struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Items     []Item    `json:"items"`
	OwnerID   string    `json:"-"` // Internal use
	CreatedAt time.Time `json:"createdAt"`
}
