package domain

import (
	"context"
	"fmt"
	"slices"
	"time"
)

// Status is the lifecycle stage of a post.
type Status string

const (
	StatusDraft     Status = "draft"
	StatusPublished Status = "published"
	StatusArchived  Status = "archived"
)

// Valid reports whether s is one of the known statuses.
func (s Status) Valid() bool {
	switch s {
	case StatusDraft, StatusPublished, StatusArchived:
		return true
	}
	return false
}

// StatusFilter selects posts by status. FilterAll matches every post.
type StatusFilter string

const FilterAll StatusFilter = "all"

// ParseStatusFilter converts a user-supplied value into a StatusFilter.
// An empty string means FilterAll.
func ParseStatusFilter(s string) (StatusFilter, error) {
	if s == "" || s == string(FilterAll) {
		return FilterAll, nil
	}
	if !Status(s).Valid() {
		return "", fmt.Errorf("unknown status filter %q", s)
	}
	return StatusFilter(s), nil
}

// Matches reports whether a post with the given status passes the filter.
func (f StatusFilter) Matches(s Status) bool {
	return f == FilterAll || f == "" || Status(f) == s
}

// Post represents one content item managed by the studio.
// Content holds raw markdown. Excerpt and Category are empty when absent,
// PublishedAt is nil until the post is published.
type Post struct {
	ID          string
	Title       string
	Slug        string
	Content     string
	Excerpt     string
	Status      Status
	Category    string
	Tags        []string
	CreatedAt   time.Time
	UpdatedAt   time.Time
	PublishedAt *time.Time
}

// Clone returns a deep copy of the post.
func (p Post) Clone() Post {
	c := p
	if p.Tags != nil {
		c.Tags = slices.Clone(p.Tags)
	}
	if p.PublishedAt != nil {
		t := *p.PublishedAt
		c.PublishedAt = &t
	}
	return c
}

// PostInput carries every post field except the ones the repository assigns.
type PostInput struct {
	Title       string
	Slug        string
	Content     string
	Excerpt     string
	Status      Status
	Category    string
	Tags        []string
	PublishedAt *time.Time
}

// PostPatch is a partial update. Nil fields are left unchanged.
type PostPatch struct {
	Title       *string
	Slug        *string
	Content     *string
	Excerpt     *string
	Status      *Status
	Category    *string
	Tags        *[]string
	PublishedAt *time.Time
}

// Apply merges the non-nil fields of the patch into p.
func (pp PostPatch) Apply(p *Post) {
	if pp.Title != nil {
		p.Title = *pp.Title
	}
	if pp.Slug != nil {
		p.Slug = *pp.Slug
	}
	if pp.Content != nil {
		p.Content = *pp.Content
	}
	if pp.Excerpt != nil {
		p.Excerpt = *pp.Excerpt
	}
	if pp.Status != nil {
		p.Status = *pp.Status
	}
	if pp.Category != nil {
		p.Category = *pp.Category
	}
	if pp.Tags != nil {
		p.Tags = slices.Clone(*pp.Tags)
	}
	if pp.PublishedAt != nil {
		t := *pp.PublishedAt
		p.PublishedAt = &t
	}
}

// IDGenerator returns a new post identifier on every call.
type IDGenerator func() string

// Clock returns the current time.
type Clock func() time.Time

// PostRepository holds the authoritative set of posts for a session.
// Lookups report absence with a false flag and mutations on unknown ids are
// silent no-ops that return false.
type PostRepository interface {
	GetPost(ctx context.Context, id string) (Post, bool)
	ListPosts(ctx context.Context) []Post
	CreatePost(ctx context.Context, in PostInput) Post
	UpdatePost(ctx context.Context, id string, patch PostPatch) bool
	DeletePost(ctx context.Context, id string) bool

	Publish(ctx context.Context, id string) bool
	Unpublish(ctx context.Context, id string) bool
}
