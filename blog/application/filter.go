package application

import (
	"slices"
	"strings"

	"github.com/dfryer1193/studio/blog/domain"
)

// FilterPosts returns the posts that pass the status filter and contain query
// in their title, content or any tag (case-insensitive), most recently
// updated first. Posts with equal UpdatedAt keep their relative order.
// The input slice is not modified.
func FilterPosts(posts []domain.Post, filter domain.StatusFilter, query string) []domain.Post {
	q := strings.ToLower(query)

	filtered := make([]domain.Post, 0, len(posts))
	for _, p := range posts {
		if !filter.Matches(p.Status) {
			continue
		}
		if q != "" && !matchesQuery(p, q) {
			continue
		}
		filtered = append(filtered, p)
	}

	slices.SortStableFunc(filtered, func(a, b domain.Post) int {
		return b.UpdatedAt.Compare(a.UpdatedAt)
	})

	return filtered
}

// matchesQuery expects q to be lower-cased already.
func matchesQuery(p domain.Post, q string) bool {
	if strings.Contains(strings.ToLower(p.Title), q) || strings.Contains(strings.ToLower(p.Content), q) {
		return true
	}
	return slices.ContainsFunc(p.Tags, func(tag string) bool {
		return strings.Contains(strings.ToLower(tag), q)
	})
}

// postsWithStatus keeps collection order.
func postsWithStatus(posts []domain.Post, status domain.Status) []domain.Post {
	out := make([]domain.Post, 0, len(posts))
	for _, p := range posts {
		if p.Status == status {
			out = append(out, p)
		}
	}
	return out
}
