package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/pliu/unsent/internal/middleware"
	"github.com/pliu/unsent/internal/models"
	"github.com/pliu/unsent/internal/store"
)

type BlogHandler struct {
	Store store.Store
}

// Get serves GET /api/blog, optionally narrowed by ?id= or ?slug=.
// Public callers see published posts only; a valid admin token also
// reveals drafts. Mounted behind OptionalAdmin.
func (h *BlogHandler) Get(w http.ResponseWriter, r *http.Request) {
	isAdmin := middleware.AdminFromContext(r.Context()) != nil

	if idStr := r.URL.Query().Get("id"); idStr != "" {
		id, err := strconv.Atoi(idStr)
		if err != nil {
			respondError(w, http.StatusBadRequest, "Invalid post ID")
			return
		}
		h.getOne(w, func() (*models.BlogPost, error) {
			return h.Store.GetBlogPostByID(id, isAdmin)
		})
		return
	}
	if slug := r.URL.Query().Get("slug"); slug != "" {
		h.getOne(w, func() (*models.BlogPost, error) {
			return h.Store.GetBlogPostBySlug(slug, isAdmin)
		})
		return
	}

	posts, err := h.Store.ListBlogPosts(isAdmin)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to retrieve blog posts")
		return
	}
	if posts == nil {
		posts = []models.BlogPost{}
	}
	respondJSON(w, http.StatusOK, posts)
}

func (h *BlogHandler) getOne(w http.ResponseWriter, get func() (*models.BlogPost, error)) {
	post, err := get()
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			respondError(w, http.StatusNotFound, "Blog post not found")
			return
		}
		respondError(w, http.StatusInternalServerError, "Failed to retrieve blog posts")
		return
	}
	respondJSON(w, http.StatusOK, post)
}

func (h *BlogHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Title     *string `json:"title"`
		Content   *string `json:"content"`
		Published bool    `json:"published"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	if req.Title == nil || req.Content == nil {
		respondError(w, http.StatusBadRequest, "Title and content are required")
		return
	}

	author := middleware.AdminFromContext(r.Context())
	post := &models.BlogPost{
		Title:     *req.Title,
		Content:   *req.Content,
		AuthorID:  author.ID,
		Published: req.Published,
	}
	id, slug, err := h.Store.CreateBlogPost(post)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to create blog post")
		return
	}

	respondJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"id":      id,
		"slug":    slug,
		"message": "Blog post created successfully",
	})
}

func (h *BlogHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ID        *int    `json:"id"`
		Title     *string `json:"title"`
		Content   *string `json:"content"`
		Published *bool   `json:"published"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	if req.ID == nil {
		respondError(w, http.StatusBadRequest, "Post ID is required")
		return
	}
	if req.Title == nil && req.Content == nil && req.Published == nil {
		respondError(w, http.StatusBadRequest, "No fields to update")
		return
	}

	update := store.BlogPostUpdate{
		Title:     req.Title,
		Content:   req.Content,
		Published: req.Published,
	}
	if err := h.Store.UpdateBlogPost(*req.ID, update); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			respondError(w, http.StatusNotFound, "Blog post not found")
			return
		}
		respondError(w, http.StatusInternalServerError, "Failed to update blog post")
		return
	}

	respondJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"message": "Blog post updated successfully",
	})
}

func (h *BlogHandler) Delete(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ID *int `json:"id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	if req.ID == nil {
		respondError(w, http.StatusBadRequest, "Post ID is required")
		return
	}

	if err := h.Store.DeleteBlogPost(*req.ID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			respondError(w, http.StatusNotFound, "Blog post not found")
			return
		}
		respondError(w, http.StatusInternalServerError, "Failed to delete blog post")
		return
	}

	respondJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"message": "Blog post deleted successfully",
	})
}
