// internal/utils/pagination.go
package utils

import (
	"strconv"

	"github.com/gin-gonic/gin"
)

const (
	DefaultPageLimit = 20
	MaxPageLimit     = 100
	defaultSortField = "createdAt"
)

type PaginationParams struct {
	Page   int    `json:"page"`
	Limit  int    `json:"limit"`
	Sort   string `json:"sort"`
	Order  string `json:"order"`
	Search string `json:"search"`
}

type PaginationResult struct {
	Page       int         `json:"page"`
	Limit      int         `json:"limit"`
	Total      int64       `json:"total"`
	TotalPages int         `json:"totalPages"`
	Data       interface{} `json:"data"`
}

// PaginationMeta is rendered under meta.pagination.
type PaginationMeta struct {
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	Total      int64 `json:"total"`
	TotalPages int   `json:"totalPages"`
	HasNext    bool  `json:"hasNext"`
	HasPrev    bool  `json:"hasPrev"`
}

// GetPaginationParams reads page, limit, sort, order and search. Out of range
// values fall back to the defaults.
func GetPaginationParams(c *gin.Context) PaginationParams {
	params := PaginationParams{
		Page:   1,
		Limit:  DefaultPageLimit,
		Sort:   c.DefaultQuery("sort", defaultSortField),
		Order:  "desc",
		Search: c.Query("search"),
	}

	if page, err := strconv.Atoi(c.Query("page")); err == nil && page >= 1 {
		params.Page = page
	}
	if limit, err := strconv.Atoi(c.Query("limit")); err == nil && limit >= 1 && limit <= MaxPageLimit {
		params.Limit = limit
	}
	if c.Query("order") == "asc" {
		params.Order = "asc"
	}
	return params
}

// SortField returns params.Sort if it is allowed, createdAt otherwise.
func (p PaginationParams) SortField(allowedSortFields []string) string {
	for _, field := range allowedSortFields {
		if field == p.Sort {
			return field
		}
	}
	return defaultSortField
}

func (p PaginationParams) Desc() bool {
	return p.Order == "desc"
}

func (p PaginationParams) offset() int {
	return (p.Page - 1) * p.Limit
}

// Paginate returns the page of items selected by params.
func Paginate[T any](items []T, params PaginationParams) []T {
	start := params.offset()
	if start >= len(items) {
		return []T{}
	}
	end := min(start+params.Limit, len(items))
	return items[start:end]
}

func CreatePaginationResult(data interface{}, total int64, params PaginationParams) PaginationResult {
	limit := int64(params.Limit)
	return PaginationResult{
		Page:       params.Page,
		Limit:      params.Limit,
		Total:      total,
		TotalPages: int((total + limit - 1) / limit),
		Data:       data,
	}
}

func (r PaginationResult) Meta() PaginationMeta {
	return PaginationMeta{
		Page:       r.Page,
		Limit:      r.Limit,
		Total:      r.Total,
		TotalPages: r.TotalPages,
		HasNext:    r.Page < r.TotalPages,
		HasPrev:    r.Page > 1,
	}
}

func SetPaginationHeaders(c *gin.Context, result PaginationResult) {
	for header, value := range map[string]string{
		"X-Total-Count": strconv.FormatInt(result.Total, 10),
		"X-Page":        strconv.Itoa(result.Page),
		"X-Per-Page":    strconv.Itoa(result.Limit),
		"X-Total-Pages": strconv.Itoa(result.TotalPages),
	} {
		c.Header(header, value)
	}
}
