package persistence

import (
	"fmt"
	"os"
	"time"

	"github.com/dfryer1193/studio/blog/domain"
	"gopkg.in/yaml.v3"
)

// DefaultSeedPosts returns the sample posts a fresh studio session starts with.
func DefaultSeedPosts() []domain.Post {
	ts := func(s string) time.Time {
		t, err := time.Parse(time.RFC3339, s)
		if err != nil {
			panic(err)
		}
		return t
	}
	ptr := func(t time.Time) *time.Time { return &t }

	return []domain.Post{
		{
			ID:          "1",
			Title:       "Getting Started with Nuxt 4",
			Slug:        "getting-started-nuxt-4",
			Content:     "# Getting Started with Nuxt 4\n\nNuxt 4 brings exciting new features...",
			Excerpt:     "Learn about the new features in Nuxt 4",
			Status:      domain.StatusPublished,
			Category:    "Tutorial",
			Tags:        []string{"nuxt", "vue", "web development"},
			CreatedAt:   ts("2025-01-15T10:00:00Z"),
			UpdatedAt:   ts("2025-01-15T10:00:00Z"),
			PublishedAt: ptr(ts("2025-01-15T10:00:00Z")),
		},
		{
			ID:        "2",
			Title:     "Building Admin Consoles with Vue",
			Slug:      "building-admin-consoles-vue",
			Content:   "# Building Admin Consoles\n\nCreating a modern admin console...",
			Excerpt:   "Best practices for admin consoles",
			Status:    domain.StatusDraft,
			Category:  "Development",
			Tags:      []string{"vue", "admin", "ui"},
			CreatedAt: ts("2025-01-16T14:30:00Z"),
			UpdatedAt: ts("2025-01-17T09:00:00Z"),
		},
		{
			ID:          "3",
			Title:       "Markdown Editing Best Practices",
			Slug:        "markdown-editing-best-practices",
			Content:     "# Markdown Editing\n\nMarkdown is a lightweight markup language...",
			Excerpt:     "Tips for effective markdown writing",
			Status:      domain.StatusPublished,
			Category:    "Writing",
			Tags:        []string{"markdown", "writing", "productivity"},
			CreatedAt:   ts("2025-01-14T08:00:00Z"),
			UpdatedAt:   ts("2025-01-14T08:00:00Z"),
			PublishedAt: ptr(ts("2025-01-14T08:00:00Z")),
		},
	}
}

// seedFile is the YAML layout of a seed file
type seedFile struct {
	Posts []seedPost `yaml:"posts"`
}

type seedPost struct {
	ID          string     `yaml:"id"`
	Title       string     `yaml:"title"`
	Slug        string     `yaml:"slug"`
	Content     string     `yaml:"content"`
	Excerpt     string     `yaml:"excerpt"`
	Status      string     `yaml:"status"`
	Category    string     `yaml:"category"`
	Tags        []string   `yaml:"tags"`
	CreatedAt   time.Time  `yaml:"created_at"`
	UpdatedAt   time.Time  `yaml:"updated_at"`
	PublishedAt *time.Time `yaml:"published_at"`
}

// toDomain converts a seedPost to a domain.Post, filling in defaults
func (sp *seedPost) toDomain() (domain.Post, error) {
	status := domain.Status(sp.Status)
	if sp.Status == "" {
		status = domain.StatusDraft
	}
	if !status.Valid() {
		return domain.Post{}, fmt.Errorf("post %q: unknown status %q", sp.ID, sp.Status)
	}

	post := domain.Post{
		ID:          sp.ID,
		Title:       sp.Title,
		Slug:        sp.Slug,
		Content:     sp.Content,
		Excerpt:     sp.Excerpt,
		Status:      status,
		Category:    sp.Category,
		Tags:        sp.Tags,
		CreatedAt:   sp.CreatedAt,
		UpdatedAt:   sp.UpdatedAt,
		PublishedAt: sp.PublishedAt,
	}
	if post.UpdatedAt.IsZero() {
		post.UpdatedAt = post.CreatedAt
	}
	return post, nil
}

// ParseSeed decodes seed posts from YAML. Ids must be present and unique.
func ParseSeed(data []byte) ([]domain.Post, error) {
	var f seedFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("failed to parse seed: %w", err)
	}

	seen := make(map[string]struct{}, len(f.Posts))
	posts := make([]domain.Post, 0, len(f.Posts))
	for i := range f.Posts {
		sp := &f.Posts[i]
		if sp.ID == "" {
			return nil, fmt.Errorf("seed post %d has no id", i)
		}
		if _, dup := seen[sp.ID]; dup {
			return nil, fmt.Errorf("duplicate seed post id %q", sp.ID)
		}
		seen[sp.ID] = struct{}{}

		post, err := sp.toDomain()
		if err != nil {
			return nil, err
		}
		posts = append(posts, post)
	}

	return posts, nil
}

// LoadSeedFile reads seed posts from a YAML file
func LoadSeedFile(path string) ([]domain.Post, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read seed file: %w", err)
	}
	return ParseSeed(data)
}
