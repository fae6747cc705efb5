package model

import "time"

// CustomItem is a member-defined checklist item. Deletion is always a
// deactivation so that historical entry maps keyed by item id stay readable.
type CustomItem struct {
	ID          int64     `json:"id"`
	MemberID    int64     `json:"member_id"`
	Title       string    `json:"title"`
	Description string    `json:"description,omitempty"`
	IsActive    bool      `json:"is_active"`
	CreatedAt   time.Time `json:"created_at"`
}
