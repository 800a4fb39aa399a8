package persistence

import (
	"context"
	"slices"
	"sync"
	"time"

	"github.com/dfryer1193/studio/blog/domain"
	"github.com/google/uuid"
)

var _ domain.PostRepository = (*MemoryPostRepository)(nil)

// MemoryPostRepository implements domain.PostRepository on an in-process
// slice. Posts are kept newest-first by insertion. Nothing is persisted.
type MemoryPostRepository struct {
	mu    sync.RWMutex
	posts []domain.Post

	now   domain.Clock
	newID domain.IDGenerator
}

// Option configures a MemoryPostRepository.
type Option func(*MemoryPostRepository)

// WithClock overrides the time source used for timestamps.
func WithClock(c domain.Clock) Option {
	return func(r *MemoryPostRepository) {
		r.now = c
	}
}

// WithIDGenerator overrides the identifier source used by CreatePost.
func WithIDGenerator(g domain.IDGenerator) Option {
	return func(r *MemoryPostRepository) {
		r.newID = g
	}
}

// WithPosts seeds the repository. Posts are stored in the given order.
func WithPosts(posts ...domain.Post) Option {
	return func(r *MemoryPostRepository) {
		for _, p := range posts {
			r.posts = append(r.posts, p.Clone())
		}
	}
}

// NewPostRepository creates an empty MemoryPostRepository
func NewPostRepository(opts ...Option) *MemoryPostRepository {
	r := &MemoryPostRepository{
		now:   func() time.Time { return time.Now().UTC() },
		newID: uuid.NewString,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// GetPost returns a copy of the post with the given id.
func (r *MemoryPostRepository) GetPost(_ context.Context, id string) (domain.Post, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	i := r.indexOf(id)
	if i < 0 {
		return domain.Post{}, false
	}
	return r.posts[i].Clone(), true
}

// ListPosts returns copies of every post in collection order.
func (r *MemoryPostRepository) ListPosts(_ context.Context) []domain.Post {
	r.mu.RLock()
	defer r.mu.RUnlock()

	posts := make([]domain.Post, 0, len(r.posts))
	for _, p := range r.posts {
		posts = append(posts, p.Clone())
	}
	return posts
}

// CreatePost assigns an id and timestamps and puts the post at the front of
// the collection. Fields are stored as given.
func (r *MemoryPostRepository) CreatePost(_ context.Context, in domain.PostInput) domain.Post {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := r.now()
	post := domain.Post{
		ID:        r.uniqueID(),
		Title:     in.Title,
		Slug:      in.Slug,
		Content:   in.Content,
		Excerpt:   in.Excerpt,
		Status:    in.Status,
		Category:  in.Category,
		Tags:      slices.Clone(in.Tags),
		CreatedAt: now,
		UpdatedAt: now,
	}
	if in.PublishedAt != nil {
		t := *in.PublishedAt
		post.PublishedAt = &t
	}

	r.posts = slices.Insert(r.posts, 0, post)
	return post.Clone()
}

// UpdatePost merges the patch into the stored post and refreshes UpdatedAt.
func (r *MemoryPostRepository) UpdatePost(_ context.Context, id string, patch domain.PostPatch) bool {
	return r.mutate(id, func(p *domain.Post, _ time.Time) {
		patch.Apply(p)
	})
}

// DeletePost removes the post with the given id.
func (r *MemoryPostRepository) DeletePost(_ context.Context, id string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	i := r.indexOf(id)
	if i < 0 {
		return false
	}
	r.posts = slices.Delete(r.posts, i, i+1)
	return true
}

// Publish marks the post published and stamps PublishedAt.
func (r *MemoryPostRepository) Publish(_ context.Context, id string) bool {
	return r.mutate(id, func(p *domain.Post, now time.Time) {
		p.Status = domain.StatusPublished
		p.PublishedAt = &now
	})
}

// Unpublish reverts the post to draft and clears PublishedAt.
func (r *MemoryPostRepository) Unpublish(_ context.Context, id string) bool {
	return r.mutate(id, func(p *domain.Post, _ time.Time) {
		p.Status = domain.StatusDraft
		p.PublishedAt = nil
	})
}

// mutate applies fn to the stored post and refreshes its UpdatedAt.
// UpdatedAt never moves backwards, even if the clock does.
func (r *MemoryPostRepository) mutate(id string, fn func(p *domain.Post, now time.Time)) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	i := r.indexOf(id)
	if i < 0 {
		return false
	}

	p := &r.posts[i]
	now := r.now()
	if now.Before(p.UpdatedAt) {
		now = p.UpdatedAt
	}
	fn(p, now)
	p.UpdatedAt = now
	return true
}

func (r *MemoryPostRepository) indexOf(id string) int {
	return slices.IndexFunc(r.posts, func(p domain.Post) bool {
		return p.ID == id
	})
}

// uniqueID draws ids until one is unused. Caller holds the write lock.
func (r *MemoryPostRepository) uniqueID() string {
	for {
		id := r.newID()
		if r.indexOf(id) < 0 {
			return id
		}
	}
}
