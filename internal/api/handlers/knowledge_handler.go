package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/supportdesk/hub/internal/api/response"
	"github.com/supportdesk/hub/internal/api/validation"
	"github.com/supportdesk/hub/internal/apperrors"
	"github.com/supportdesk/hub/internal/models"
)

// KnowledgeService defines the interface for knowledge-base business logic.
type KnowledgeService interface {
	CreateArticle(ctx context.Context, req *models.CreateArticleRequest) (*models.Article, error)
	GetArticle(ctx context.Context, id string) (*models.Article, error)
	ListArticles(ctx context.Context) ([]*models.Article, error)
	UpdateArticleContent(ctx context.Context, id, content string) (*models.Article, error)
}

// UpdateArticleContentRequest is the request to replace an article's content.
type UpdateArticleContentRequest struct {
	Content string `json:"content" validate:"required,min=5"`
}

// ListArticlesQuery holds the query parameters for listing articles.
type ListArticlesQuery struct {
	Category string `form:"category" validate:"omitempty,category"`
}

// KnowledgeHandler handles HTTP requests for knowledge-base articles.
type KnowledgeHandler struct {
	service KnowledgeService
}

// NewKnowledgeHandler creates a new knowledge handler.
func NewKnowledgeHandler(service KnowledgeService) *KnowledgeHandler {
	return &KnowledgeHandler{service: service}
}

// Create handles POST /v1/articles.
func (h *KnowledgeHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req models.CreateArticleRequest
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&req); err != nil {
		response.RespondBadRequest(w, "Invalid request body")
		return
	}

	if err := validation.ValidateStruct(&req); err != nil {
		validation.RespondValidationError(w, err)
		return
	}

	article, err := h.service.CreateArticle(r.Context(), &req)
	if err != nil {
		response.RespondInternalServerError(w, "An unexpected error occurred")
		return
	}

	response.RespondJSON(w, http.StatusCreated, article)
}

// Get handles GET /v1/articles/{id}.
func (h *KnowledgeHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		response.RespondBadRequest(w, "Article ID is required")
		return
	}

	article, err := h.service.GetArticle(r.Context(), id)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			response.RespondNotFound(w, "Article not found")
			return
		}
		response.RespondInternalServerError(w, "An unexpected error occurred")
		return
	}

	response.RespondJSON(w, http.StatusOK, article)
}

// List handles GET /v1/articles. An optional category query parameter
// restricts the listing to a single category.
func (h *KnowledgeHandler) List(w http.ResponseWriter, r *http.Request) {
	var query ListArticlesQuery
	if err := validation.ValidateAndDecodeQueryParams(r, &query); err != nil {
		validation.RespondValidationError(w, err)
		return
	}

	articles, err := h.service.ListArticles(r.Context())
	if err != nil {
		response.RespondInternalServerError(w, "An unexpected error occurred")
		return
	}

	if query.Category != "" {
		category, err := models.ParseCategory(query.Category)
		if err != nil {
			validation.RespondValidationError(w, err)
			return
		}

		filtered := make([]*models.Article, 0, len(articles))
		for _, article := range articles {
			if article.Category == category {
				filtered = append(filtered, article)
			}
		}
		articles = filtered
	}

	response.RespondJSON(w, http.StatusOK, articles)
}

// UpdateContent handles PATCH /v1/articles/{id}.
func (h *KnowledgeHandler) UpdateContent(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		response.RespondBadRequest(w, "Article ID is required")
		return
	}

	var req UpdateArticleContentRequest
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&req); err != nil {
		response.RespondBadRequest(w, "Invalid request body")
		return
	}

	if err := validation.ValidateStruct(&req); err != nil {
		validation.RespondValidationError(w, err)
		return
	}

	article, err := h.service.UpdateArticleContent(r.Context(), id, req.Content)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			response.RespondNotFound(w, "Article not found")
			return
		}
		response.RespondInternalServerError(w, "An unexpected error occurred")
		return
	}

	response.RespondJSON(w, http.StatusOK, article)
}
