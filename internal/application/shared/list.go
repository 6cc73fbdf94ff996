package shared

import "github.com/stockroom/backend/internal/domain/shared"

// ListParams are the common list query parameters bound from the query string
type ListParams struct {
	Page     int    `form:"page" binding:"omitempty,min=1"`
	PageSize int    `form:"page_size" binding:"omitempty,min=1,max=100"`
	SortBy   string `form:"sort_by" binding:"omitempty,max=50"`
	SortDir  string `form:"sort_dir" binding:"omitempty,oneof=asc desc ASC DESC"`
	Search   string `form:"search" binding:"omitempty,max=100"`
}

// Filter converts the params into a normalized domain filter. Repositories
// whitelist the sort field.
func (p ListParams) Filter() shared.Filter {
	f := shared.DefaultFilter()
	f.Page = p.Page
	f.PageSize = p.PageSize
	if p.SortBy != "" {
		f.OrderBy = p.SortBy
	}
	if p.SortDir != "" {
		f.OrderDir = p.SortDir
	}
	f.Search = p.Search
	return f.Normalize()
}
