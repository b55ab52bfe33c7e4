package services

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/gosimple/slug"
	"github.com/spiceroute/spiceroute-be/internal/models"
)

// PostServiceProvider defines the interface for blog post services.
type PostServiceProvider interface {
	ListPosts(ctx context.Context, includeUnpublished bool) ([]models.BlogPost, error)
	GetPostBySlug(ctx context.Context, postSlug string, includeUnpublished bool) (models.BlogPost, error)
	CreatePost(ctx context.Context, post models.BlogPost) (models.BlogPost, error)
	UpdatePost(ctx context.Context, postSlug string, update models.PostUpdate) (models.BlogPost, error)
	DeletePost(ctx context.Context, postSlug string) error
}

// PostService provides business logic for blog post management.
type PostService struct {
	db *sql.DB // nil when no database is configured
}

// NewPostService creates a new PostService.
func NewPostService(db *sql.DB) *PostService {
	return &PostService{db: db}
}

const postColumns = "id, slug, title, excerpt, content, author, read_time, published, created_at, updated_at"

func scanPost(row interface{ Scan(...any) error }) (models.BlogPost, error) {
	var post models.BlogPost
	err := row.Scan(&post.ID, &post.Slug, &post.Title, &post.Excerpt, &post.Content,
		&post.Author, &post.ReadTime, &post.Published, &post.CreatedAt, &post.UpdatedAt)
	return post, err
}

// ListPosts retrieves posts, newest first. The elevated variant
// (includeUnpublished) returns every row; the public variant only published
// ones. With no database configured it degrades to an empty list.
func (s *PostService) ListPosts(ctx context.Context, includeUnpublished bool) ([]models.BlogPost, error) {
	posts := []models.BlogPost{}
	if s.db == nil {
		return posts, nil
	}

	query := "SELECT " + postColumns + " FROM posts ORDER BY created_at DESC"
	if !includeUnpublished {
		query = "SELECT " + postColumns + " FROM posts WHERE published = 1 ORDER BY created_at DESC"
	}

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		post, err := scanPost(rows)
		if err != nil {
			return nil, err
		}
		posts = append(posts, post)
	}
	return posts, rows.Err()
}

// GetPostBySlug retrieves a single post. An unpublished post is ErrNotFound
// for the public variant, indistinguishable from a missing row.
func (s *PostService) GetPostBySlug(ctx context.Context, postSlug string, includeUnpublished bool) (models.BlogPost, error) {
	if s.db == nil {
		return models.BlogPost{}, ErrUnavailable
	}

	query := "SELECT " + postColumns + " FROM posts WHERE slug = ?"
	if !includeUnpublished {
		query += " AND published = 1"
	}

	post, err := scanPost(s.db.QueryRowContext(ctx, query, postSlug))
	if err != nil {
		if err == sql.ErrNoRows {
			return models.BlogPost{}, ErrNotFound
		}
		return models.BlogPost{}, err
	}
	return post, nil
}

// CreatePost inserts a new post with a generated ID and timestamps. A missing
// slug is derived from the title; an explicit slug must already be URL-safe.
// The slug is immutable from this point on.
func (s *PostService) CreatePost(ctx context.Context, post models.BlogPost) (models.BlogPost, error) {
	if s.db == nil {
		return models.BlogPost{}, ErrUnavailable
	}

	if post.Slug == "" {
		post.Slug = slug.Make(post.Title)
	}
	if !slug.IsSlug(post.Slug) {
		return models.BlogPost{}, ErrInvalidSlug
	}

	var count int
	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(1) FROM posts WHERE slug = ?", post.Slug).Scan(&count); err != nil {
		return models.BlogPost{}, err
	}
	if count > 0 {
		return models.BlogPost{}, ErrConflict
	}

	now := time.Now().UTC()
	post.ID = uuid.New().String()
	post.CreatedAt = now
	post.UpdatedAt = now

	_, err := s.db.ExecContext(ctx,
		"INSERT INTO posts (id, slug, title, excerpt, content, author, read_time, published, created_at, updated_at) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)",
		post.ID, post.Slug, post.Title, post.Excerpt, post.Content, post.Author, post.ReadTime, post.Published, post.CreatedAt, post.UpdatedAt)
	if err != nil {
		// The UNIQUE column is the backstop for two concurrent creates.
		if strings.Contains(err.Error(), "UNIQUE") {
			return models.BlogPost{}, ErrConflict
		}
		return models.BlogPost{}, err
	}
	return post, nil
}

// UpdatePost applies a partial update to the whitelisted field set. The slug
// never changes; updated_at is always refreshed, even for an empty update.
// Concurrent updates resolve as last-write-wins at the storage layer.
func (s *PostService) UpdatePost(ctx context.Context, postSlug string, update models.PostUpdate) (models.BlogPost, error) {
	if s.db == nil {
		return models.BlogPost{}, ErrUnavailable
	}

	setClauses := []string{"updated_at = ?"}
	args := []any{time.Now().UTC()}

	if update.Title != nil {
		setClauses = append(setClauses, "title = ?")
		args = append(args, *update.Title)
	}
	if update.Excerpt != nil {
		setClauses = append(setClauses, "excerpt = ?")
		args = append(args, *update.Excerpt)
	}
	if update.Content != nil {
		setClauses = append(setClauses, "content = ?")
		args = append(args, *update.Content)
	}
	if update.Author != nil {
		setClauses = append(setClauses, "author = ?")
		args = append(args, *update.Author)
	}
	if update.ReadTime != nil {
		setClauses = append(setClauses, "read_time = ?")
		args = append(args, *update.ReadTime)
	}
	if update.Published != nil {
		setClauses = append(setClauses, "published = ?")
		args = append(args, *update.Published)
	}

	args = append(args, postSlug)
	res, err := s.db.ExecContext(ctx,
		"UPDATE posts SET "+strings.Join(setClauses, ", ")+" WHERE slug = ?", args...)
	if err != nil {
		return models.BlogPost{}, err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return models.BlogPost{}, err
	}
	if affected == 0 {
		return models.BlogPost{}, ErrNotFound
	}
	return s.GetPostBySlug(ctx, postSlug, true)
}

// DeletePost removes a post by slug.
func (s *PostService) DeletePost(ctx context.Context, postSlug string) error {
	if s.db == nil {
		return ErrUnavailable
	}

	res, err := s.db.ExecContext(ctx, "DELETE FROM posts WHERE slug = ?", postSlug)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}
