package models

import "time"

// BlogPost represents a single blog entry. JSON field names are snake_case
// to match the wire format the frontend consumes.
type BlogPost struct {
	ID        string    `json:"id"`
	Slug      string    `json:"slug"` // Immutable after creation
	Title     string    `json:"title"`
	Excerpt   string    `json:"excerpt"`
	Content   string    `json:"content"` // Markdown
	Author    string    `json:"author"`
	ReadTime  string    `json:"read_time"` // Display label, e.g. "4 min read"
	Published bool      `json:"published"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// PostUpdate carries a partial update for a post. Nil fields are left
// untouched; the slug is deliberately absent.
type PostUpdate struct {
	Title     *string `json:"title"`
	Excerpt   *string `json:"excerpt"`
	Content   *string `json:"content"`
	Author    *string `json:"author"`
	ReadTime  *string `json:"read_time"`
	Published *bool   `json:"published"`
}
