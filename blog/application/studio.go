package application

import (
	"context"
	"fmt"
	"sync"

	"github.com/dfryer1193/studio/blog/domain"
	"github.com/rs/zerolog/log"
)

// Studio is the editing session over a post repository. It owns the transient
// view state (selection, search query, status filter), computes the derived
// post lists on every read and notifies subscribers of changes.
type Studio struct {
	repo     domain.PostRepository
	markdown MarkdownRenderer

	mu           sync.RWMutex
	selected     *domain.Post
	searchQuery  string
	statusFilter domain.StatusFilter

	subs subscribers
}

func NewStudio(repo domain.PostRepository, markdown MarkdownRenderer) *Studio {
	return &Studio{
		repo:         repo,
		markdown:     markdown,
		statusFilter: domain.FilterAll,
	}
}

// Subscribe registers l for every subsequent event. The returned function
// removes the listener and is safe to call more than once.
func (s *Studio) Subscribe(l Listener) (unsubscribe func()) {
	return s.subs.add(l)
}

// Posts returns the full collection in collection order.
func (s *Studio) Posts(ctx context.Context) []domain.Post {
	return s.repo.ListPosts(ctx)
}

func (s *Studio) GetPost(ctx context.Context, id string) (domain.Post, bool) {
	return s.repo.GetPost(ctx, id)
}

// CreatePost stores a new post at the front of the collection. The input is
// not validated.
func (s *Studio) CreatePost(ctx context.Context, in domain.PostInput) domain.Post {
	post := s.repo.CreatePost(ctx, in)
	log.Debug().Str("postID", post.ID).Str("status", string(post.Status)).Msg("Created post")
	s.subs.notify(Event{Kind: EventCreated, PostID: post.ID})
	return post
}

// UpdatePost merges patch into the post. Unknown ids are ignored.
func (s *Studio) UpdatePost(ctx context.Context, id string, patch domain.PostPatch) bool {
	return s.apply(id, EventUpdated, func() bool { return s.repo.UpdatePost(ctx, id, patch) })
}

// DeletePost removes the post. Unknown ids are ignored.
func (s *Studio) DeletePost(ctx context.Context, id string) bool {
	return s.apply(id, EventDeleted, func() bool { return s.repo.DeletePost(ctx, id) })
}

func (s *Studio) PublishPost(ctx context.Context, id string) bool {
	return s.apply(id, EventPublished, func() bool { return s.repo.Publish(ctx, id) })
}

func (s *Studio) UnpublishPost(ctx context.Context, id string) bool {
	return s.apply(id, EventUnpublished, func() bool { return s.repo.Unpublish(ctx, id) })
}

func (s *Studio) apply(id string, kind EventKind, op func() bool) bool {
	if !op() {
		log.Debug().Str("postID", id).Str("op", string(kind)).Msg("Post not found, ignoring")
		return false
	}
	log.Debug().Str("postID", id).Str("op", string(kind)).Msg("Applied post change")
	s.subs.notify(Event{Kind: kind, PostID: id})
	return true
}

// SetSelected sets the post being edited. Nil clears the selection.
func (s *Studio) SetSelected(p *domain.Post) {
	var id string
	s.mu.Lock()
	if p == nil {
		s.selected = nil
	} else {
		c := p.Clone()
		s.selected = &c
		id = c.ID
	}
	s.mu.Unlock()

	s.subs.notify(Event{Kind: EventSelection, PostID: id})
}

// Selected returns the selected post as it was when selected.
func (s *Studio) Selected() (domain.Post, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.selected == nil {
		return domain.Post{}, false
	}
	return s.selected.Clone(), true
}

func (s *Studio) SetSearchQuery(q string) {
	s.mu.Lock()
	s.searchQuery = q
	s.mu.Unlock()

	s.subs.notify(Event{Kind: EventSearch})
}

func (s *Studio) SearchQuery() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.searchQuery
}

func (s *Studio) SetStatusFilter(f domain.StatusFilter) {
	s.mu.Lock()
	s.statusFilter = f
	s.mu.Unlock()

	s.subs.notify(Event{Kind: EventFilter})
}

func (s *Studio) StatusFilter() domain.StatusFilter {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.statusFilter
}

// FilteredPosts applies the current status filter and search query.
func (s *Studio) FilteredPosts(ctx context.Context) []domain.Post {
	s.mu.RLock()
	filter, query := s.statusFilter, s.searchQuery
	s.mu.RUnlock()

	return FilterPosts(s.repo.ListPosts(ctx), filter, query)
}

// PublishedPosts returns published posts in collection order.
func (s *Studio) PublishedPosts(ctx context.Context) []domain.Post {
	return postsWithStatus(s.repo.ListPosts(ctx), domain.StatusPublished)
}

// DraftPosts returns draft posts in collection order.
func (s *Studio) DraftPosts(ctx context.Context) []domain.Post {
	return postsWithStatus(s.repo.ListPosts(ctx), domain.StatusDraft)
}

// Preview renders the post's content. When the post has no excerpt one is
// derived from the first paragraph.
func (s *Studio) Preview(ctx context.Context, id string) (*RenderResult, bool, error) {
	post, ok := s.repo.GetPost(ctx, id)
	if !ok {
		return nil, false, nil
	}

	result, err := s.markdown.Render(post.Content)
	if err != nil {
		return nil, true, fmt.Errorf("failed to render post %s: %w", id, err)
	}

	if post.Excerpt != "" {
		result.Excerpt = post.Excerpt
	}
	if result.Title == "" {
		result.Title = post.Title
	}

	return result, true, nil
}
