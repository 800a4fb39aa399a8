package api

import "time"

type Post struct {
	ID          string     `json:"id"`
	Title       string     `json:"title"`
	Slug        string     `json:"slug"`
	Content     string     `json:"content"`
	Excerpt     string     `json:"excerpt,omitempty"`
	Status      string     `json:"status"`
	Category    string     `json:"category,omitempty"`
	Tags        []string   `json:"tags,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
	PublishedAt *time.Time `json:"published_at,omitempty"`
}

type CreatePostRequest struct {
	Title    string   `json:"title"`
	Slug     string   `json:"slug"`
	Content  string   `json:"content"`
	Excerpt  string   `json:"excerpt"`
	Status   string   `json:"status" binding:"omitempty,oneof=draft published archived"`
	Category string   `json:"category"`
	Tags     []string `json:"tags"`
}

// UpdatePostRequest is a partial update; omitted fields are left unchanged.
type UpdatePostRequest struct {
	Title    *string   `json:"title"`
	Slug     *string   `json:"slug"`
	Content  *string   `json:"content"`
	Excerpt  *string   `json:"excerpt"`
	Status   *string   `json:"status" binding:"omitempty,oneof=draft published archived"`
	Category *string   `json:"category"`
	Tags     *[]string `json:"tags"`
}

type Preview struct {
	ID      string `json:"id"`
	Title   string `json:"title"`
	Excerpt string `json:"excerpt"`
	HTML    string `json:"html"`
}

// ViewState is the studio's transient view state. In a PUT, nil fields are
// left unchanged and an empty SelectedID clears the selection.
type ViewState struct {
	SelectedID   *string `json:"selected_id"`
	SearchQuery  *string `json:"search_query"`
	StatusFilter *string `json:"status_filter"`
}

type Error struct {
	Error string `json:"error"`
}
