package models

import "time"

// Event represents one entry in the editorial audit trail.
type Event struct {
	ID        string    `json:"id"`
	Type      string    `json:"type"`  // e.g. "post.create", "editor.delete"
	Actor     string    `json:"actor"` // Email of the account that acted
	Subject   string    `json:"subject"`
	Message   string    `json:"message"`
	CreatedAt time.Time `json:"created_at"`
}
