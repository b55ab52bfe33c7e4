package handlers

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"
	"github.com/spiceroute/spiceroute-be/internal/auth"
	"github.com/spiceroute/spiceroute-be/internal/models"
	"github.com/spiceroute/spiceroute-be/internal/services"
)

// PostHandler handles HTTP requests for blog posts.
type PostHandler struct {
	posts  services.PostServiceProvider
	events services.EventServiceProvider
	guard  *auth.Guard
}

// NewPostHandler creates a new PostHandler.
func NewPostHandler(posts services.PostServiceProvider, events services.EventServiceProvider, guard *auth.Guard) *PostHandler {
	return &PostHandler{posts: posts, events: events, guard: guard}
}

// CreatePostPayload defines the structure for post creation requests.
type CreatePostPayload struct {
	Slug      string `json:"slug"`
	Title     string `json:"title"`
	Excerpt   string `json:"excerpt"`
	Content   string `json:"content"`
	Author    string `json:"author"`
	ReadTime  string `json:"read_time"`
	Published bool   `json:"published"`
}

// List returns posts. Anonymous callers only ever see published rows; an
// authenticated editor or admin gets the elevated variant with drafts.
func (h *PostHandler) List(w http.ResponseWriter, r *http.Request) {
	caller := h.guard.ResolveCaller(r)

	posts, err := h.posts.ListPosts(r.Context(), caller != nil)
	if err != nil {
		log.Error().Err(err).Msg("Failed to list posts")
		respondError(w, http.StatusInternalServerError, "failed to retrieve posts")
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{"posts": posts})
}

// Get returns a single post by slug. For anonymous callers an unpublished
// post is indistinguishable from a missing one.
func (h *PostHandler) Get(w http.ResponseWriter, r *http.Request) {
	postSlug := chi.URLParam(r, "slug")
	caller := h.guard.ResolveCaller(r)

	post, err := h.posts.GetPostBySlug(r.Context(), postSlug, caller != nil)
	if err != nil {
		if !errors.Is(err, services.ErrNotFound) {
			log.Error().Err(err).Str("slug", postSlug).Msg("Failed to get post")
		}
		respondServiceError(w, err, "post not found")
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{"post": post})
}

// Create inserts a new post. Editor tier; the guard runs before this.
func (h *PostHandler) Create(w http.ResponseWriter, r *http.Request) {
	var payload CreatePostPayload
	decodeBody(r, &payload)

	if payload.Title == "" {
		respondError(w, http.StatusBadRequest, "title is required")
		return
	}
	if payload.Content == "" {
		respondError(w, http.StatusBadRequest, "content is required")
		return
	}

	post, err := h.posts.CreatePost(r.Context(), models.BlogPost{
		Slug:      payload.Slug,
		Title:     payload.Title,
		Excerpt:   payload.Excerpt,
		Content:   payload.Content,
		Author:    payload.Author,
		ReadTime:  payload.ReadTime,
		Published: payload.Published,
	})
	if err != nil {
		switch {
		case errors.Is(err, services.ErrInvalidSlug):
			respondError(w, http.StatusBadRequest, "slug must be URL-safe")
		case errors.Is(err, services.ErrConflict):
			respondError(w, http.StatusConflict, "a post with this slug already exists")
		default:
			log.Error().Err(err).Str("slug", payload.Slug).Msg("Failed to create post")
			respondServiceError(w, err, "post not found")
		}
		return
	}

	h.recordEvent(r, "post.create", post.Slug, "created post "+post.Title)
	respondJSON(w, http.StatusCreated, map[string]any{"post": post})
}

// Update applies a partial update to a post. The slug is immutable; any slug
// in the body is ignored because PostUpdate simply has no field for it.
func (h *PostHandler) Update(w http.ResponseWriter, r *http.Request) {
	postSlug := chi.URLParam(r, "slug")

	var update models.PostUpdate
	decodeBody(r, &update)

	post, err := h.posts.UpdatePost(r.Context(), postSlug, update)
	if err != nil {
		if !errors.Is(err, services.ErrNotFound) {
			log.Error().Err(err).Str("slug", postSlug).Msg("Failed to update post")
		}
		respondServiceError(w, err, "post not found")
		return
	}

	h.recordEvent(r, "post.update", postSlug, "updated post "+post.Title)
	respondJSON(w, http.StatusOK, map[string]any{"post": post})
}

// Delete removes a post by slug.
func (h *PostHandler) Delete(w http.ResponseWriter, r *http.Request) {
	postSlug := chi.URLParam(r, "slug")

	if err := h.posts.DeletePost(r.Context(), postSlug); err != nil {
		if !errors.Is(err, services.ErrNotFound) {
			log.Error().Err(err).Str("slug", postSlug).Msg("Failed to delete post")
		}
		respondServiceError(w, err, "post not found")
		return
	}

	h.recordEvent(r, "post.delete", postSlug, "deleted post "+postSlug)
	respondJSON(w, http.StatusOK, map[string]any{"ok": true})
}

func (h *PostHandler) recordEvent(r *http.Request, eventType, subject, message string) {
	actor := ""
	if caller := auth.CallerFrom(r.Context()); caller != nil {
		actor = caller.Email
	}
	h.events.Record(r.Context(), eventType, actor, subject, message)
}
