// Package post holds the translatable blog post aggregate and its file store.
package post

import "time"

// Post is a blog post with its ordered comments. Body is the source text;
// RenderedMarkup is its display markup and may be empty.
type Post struct {
	ID             int64      `json:"id"`
	Title          string     `json:"title"`
	Body           string     `json:"body"`
	RenderedMarkup string     `json:"rendered_markup,omitempty"`
	IsDraft        bool       `json:"is_draft,omitempty"`
	Language       string     `json:"language,omitempty"`
	UpdatedAt      *time.Time `json:"updated_at,omitempty"`
	Comments       []Comment  `json:"comments"`
}

type Comment struct {
	ID          int64  `json:"id"`
	ParentID    *int64 `json:"parent_id,omitempty"`
	Content     string `json:"content"`
	ContentHTML string `json:"content_html,omitempty"`
}
