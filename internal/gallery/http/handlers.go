package http

import (
	"context"
	"errors"
	"log"
	"math"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/AmlrSF/portfolio-client/internal/gallery/domain"
	"github.com/AmlrSF/portfolio-client/internal/gallery/repository"
)

const (
	defaultLimit    = 12
	maxLimit        = 100
	maxStoredTags   = 12
	defaultTrending = 6
)

// ProjectStore is the persistence surface the handlers need.
type ProjectStore interface {
	List(ctx context.Context, p repository.ListParams) ([]domain.Project, int64, error)
	GetByID(ctx context.Context, id string) (*domain.Project, error)
	Create(ctx context.Context, p *domain.Project) error
	IncrementViews(ctx context.Context, id string) (int64, error)
	ApplyLike(ctx context.Context, id string, liked bool) (int64, error)
}

// TrendTracker records view events and reports the hottest project IDs.
type TrendTracker interface {
	RecordView(ctx context.Context, projectID string) error
	Top(ctx context.Context, limit int) ([]string, error)
}

type Handler struct {
	store  ProjectStore
	trends TrendTracker
}

func NewHandler(store ProjectStore, trends TrendTracker) *Handler {
	return &Handler{store: store, trends: trends}
}

func (h *Handler) list(c *gin.Context) {
	status := domain.Status(c.DefaultQuery("status", string(domain.StatusPublished)))
	page := intQuery(c, "page", 1)
	limit := intQuery(c, "limit", defaultLimit)
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = defaultLimit
	}
	if limit > maxLimit {
		limit = maxLimit
	}

	category := strings.TrimSpace(c.Query("category"))
	if category == "all" {
		category = ""
	}

	sortBy := splitCSV(c.DefaultQuery("sortBy", "featured,createdAt"))
	sortOrder := splitCSV(c.DefaultQuery("sortOrder", "desc"))

	items, total, err := h.store.List(c.Request.Context(), repository.ListParams{
		Status:    status,
		Category:  category,
		Page:      page,
		Limit:     limit,
		SortBy:    sortBy,
		SortOrder: sortOrder,
	})
	if err != nil {
		log.Printf("list projects: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load projects"})
		return
	}

	c.JSON(http.StatusOK, ListResponse{
		Projects: items,
		Pagination: Pagination{
			Page:  page,
			Limit: limit,
			Total: total,
			Pages: int(math.Ceil(float64(total) / float64(limit))),
		},
	})
}

func (h *Handler) get(c *gin.Context) {
	p, err := h.store.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, domain.ErrProjectNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "project not found"})
			return
		}
		log.Printf("get project: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load project"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"project": p})
}

func (h *Handler) create(c *gin.Context) {
	var req createReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid body"})
		return
	}

	// Presence checks only; anything deeper is the client's problem.
	if strings.TrimSpace(req.Title) == "" || strings.TrimSpace(req.Category) == "" ||
		strings.TrimSpace(req.Description) == "" || strings.TrimSpace(req.Image) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "title, category, description and image are required"})
		return
	}

	p := &domain.Project{
		Title:        strings.TrimSpace(req.Title),
		Category:     domain.Category(req.Category),
		Description:  req.Description,
		ImageURL:     req.Image,
		ThumbnailURL: req.Thumbnail,
		Featured:     req.Featured,
		Status:       domain.Status(req.Status),
		Tags:         domain.NormalizeTags(req.Tags, maxStoredTags),
		Client:       req.Client,
		ProjectURL:   req.ProjectURL,
	}

	if err := h.store.Create(c.Request.Context(), p); err != nil {
		log.Printf("create project: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create project"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"project": p})
}

func (h *Handler) recordView(c *gin.Context) {
	id := c.Param("id")
	ctx := c.Request.Context()

	// Existence check and increment are two round trips; a delete landing
	// in between surfaces as a generic failure.
	if _, err := h.store.GetByID(ctx, id); err != nil {
		if errors.Is(err, domain.ErrProjectNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "project not found"})
			return
		}
		log.Printf("view lookup: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to record view"})
		return
	}

	views, err := h.store.IncrementViews(ctx, id)
	if err != nil {
		log.Printf("increment views: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to record view"})
		return
	}

	if h.trends != nil {
		if err := h.trends.RecordView(ctx, id); err != nil {
			log.Printf("trending record view: %v", err)
		}
	}

	c.JSON(http.StatusOK, ViewResponse{Views: views, Message: "view recorded"})
}

func (h *Handler) like(c *gin.Context) {
	id := c.Param("id")
	ctx := c.Request.Context()

	var req likeReq
	if err := c.ShouldBindJSON(&req); err != nil || req.Liked == nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "liked is required"})
		return
	}

	if _, err := h.store.GetByID(ctx, id); err != nil {
		if errors.Is(err, domain.ErrProjectNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "project not found"})
			return
		}
		log.Printf("like lookup: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to record like"})
		return
	}

	likes, err := h.store.ApplyLike(ctx, id, *req.Liked)
	if err != nil {
		log.Printf("apply like: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to record like"})
		return
	}

	msg := "like recorded"
	if !*req.Liked {
		msg = "like removed"
	}
	c.JSON(http.StatusOK, LikeResponse{Likes: likes, Message: msg})
}

func (h *Handler) trending(c *gin.Context) {
	limit := intQuery(c, "limit", defaultTrending)
	if limit < 1 {
		limit = defaultTrending
	}
	ctx := c.Request.Context()

	ids, err := h.trends.Top(ctx, limit)
	if err != nil {
		log.Printf("trending top: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load trending projects"})
		return
	}

	projects := make([]domain.Project, 0, len(ids))
	for _, id := range ids {
		p, err := h.store.GetByID(ctx, id)
		if err != nil {
			// Deleted or unpublished since it was tracked; skip it.
			if !errors.Is(err, domain.ErrProjectNotFound) {
				log.Printf("trending lookup %s: %v", id, err)
			}
			continue
		}
		if p.Status != domain.StatusPublished {
			continue
		}
		projects = append(projects, *p)
	}

	c.JSON(http.StatusOK, gin.H{"projects": projects})
}

func intQuery(c *gin.Context, key string, def int) int {
	v, err := strconv.Atoi(c.Query(key))
	if err != nil {
		return def
	}
	return v
}

func splitCSV(raw string) []string {
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
