package http

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/GoSim-25-26J-441/photogrid-backend/internal/templates/domain"
	"github.com/gin-gonic/gin"
)

// ListTemplates lists the gallery. Query parameters select the view:
// q searches, from/to filter by creation date (with category), sort/order
// sort, and category alone narrows the plain listing.
func (h *Handler) ListTemplates(c *gin.Context) {
	query := c.Query("q")
	category := c.Query("category")
	from := c.Query("from")
	to := c.Query("to")
	sortField := c.Query("sort")
	order := strings.ToLower(c.Query("order"))

	var templates []domain.Template
	switch {
	case strings.TrimSpace(query) != "":
		templates = h.store.Search(query)

	case from != "" || to != "":
		filter := domain.Filter{Category: category}
		var err error
		if filter.DateFrom, err = parseDate(from); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid from date"})
			return
		}
		if filter.DateTo, err = parseDate(to); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid to date"})
			return
		}
		templates = h.store.Filter(filter)

	case sortField != "" || order != "":
		if order != "" && order != domain.OrderAsc && order != domain.OrderDesc {
			c.JSON(http.StatusBadRequest, gin.H{"error": "order must be asc or desc"})
			return
		}
		templates = h.store.Sort(sortField, order)

	default:
		if category == domain.CategoryAll {
			category = ""
		}
		templates = h.store.List(category)
	}

	c.JSON(http.StatusOK, gin.H{"templates": templates, "count": len(templates)})
}

// GetTemplate retrieves a template by ID
func (h *Handler) GetTemplate(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "template ID is required"})
		return
	}

	t, ok := h.store.Get(id)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "template not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"template": t})
}

// ListByCategory groups the gallery by category
func (h *Handler) ListByCategory(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"categories": h.store.ListByCategory()})
}

// Statistics reports collection counts
func (h *Handler) Statistics(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"statistics": h.store.Statistics()})
}

// parseDate accepts RFC 3339 timestamps and plain dates (midnight UTC).
func parseDate(s string) (*time.Time, error) {
	if s == "" {
		return nil, nil
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return &t, nil
	}
	t, err := time.Parse(time.DateOnly, s)
	if err != nil {
		return nil, fmt.Errorf("parse date %q: %w", s, err)
	}
	return &t, nil
}
