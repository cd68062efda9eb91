package domain

import (
	"strings"
	"time"
)

const (
	DefaultCategory   = "portrait"
	DefaultGridConfig = "grid-template-columns: repeat(auto-fit, minmax(250px, 1fr)); gap: 1rem;"

	// CategoryAll disables category filtering.
	CategoryAll = "all"

	// RecentWindow bounds the "recently added" statistic.
	RecentWindow = 7 * 24 * time.Hour
)

// Template is a photo-grid layout record.
type Template struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Category    string    `json:"category"`
	ImageURL    string    `json:"imageUrl"`
	GridConfig  string    `json:"gridConfig"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// TemplateInput carries the editable fields of a template for add and update.
type TemplateInput struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Category    string `json:"category"`
	ImageURL    string `json:"imageUrl"`
	GridConfig  string `json:"gridConfig"`
}

// ApplyDefaults trims the name and fills empty optional fields.
func ApplyDefaults(in TemplateInput) TemplateInput {
	in.Name = strings.TrimSpace(in.Name)
	if in.Category == "" {
		in.Category = DefaultCategory
	}
	if in.GridConfig == "" {
		in.GridConfig = DefaultGridConfig
	}
	return in
}

// Input returns the editable fields of t.
func (t Template) Input() TemplateInput {
	return TemplateInput{
		Name:        t.Name,
		Description: t.Description,
		Category:    t.Category,
		ImageURL:    t.ImageURL,
		GridConfig:  t.GridConfig,
	}
}

// Filter narrows a listing by category and creation date. Nil bounds are open.
type Filter struct {
	Category string
	DateFrom *time.Time
	DateTo   *time.Time
}

// Statistics summarises the collection.
type Statistics struct {
	Total         int            `json:"total"`
	Categories    map[string]int `json:"categories"`
	RecentlyAdded int            `json:"recentlyAdded"`
}

// Sort fields
const (
	SortByID          = "id"
	SortByName        = "name"
	SortByDescription = "description"
	SortByCategory    = "category"
	SortByImageURL    = "imageUrl"
	SortByGridConfig  = "gridConfig"
	SortByCreatedAt   = "createdAt"
	SortByUpdatedAt   = "updatedAt"
)

// Sort orders
const (
	OrderAsc  = "asc"
	OrderDesc = "desc"
)

// ChangeEvent is emitted after a mutation has been persisted.
type ChangeEvent struct {
	Operation string     `json:"operation"`
	Templates []Template `json:"templates"`
}

// Operation names carried by ChangeEvent
const (
	OpAdd    = "add"
	OpUpdate = "update"
	OpDelete = "delete"
	OpClear  = "clear"
	OpReload = "reload"
)

// ExportFileName names an export taken at t.
func ExportFileName(t time.Time) string {
	return "photo-templates-export-" + t.Format(time.DateOnly) + ".json"
}
