package params

import (
	"strconv"

	"github.com/labstack/echo/v4"
)

const (
	defaultPageSize = 20
	maxPageSize     = 100
)

// QueryParams carries the common list-endpoint query parameters.
type QueryParams struct {
	PageNumber int
	PageSize   int
	Search     string
}

// NewQueryParams parses page/limit/search from the request, clamping to
// sane bounds.
func NewQueryParams(ctx echo.Context) *QueryParams {
	page, _ := strconv.Atoi(ctx.QueryParam("page"))
	if page < 1 {
		page = 1
	}

	size, _ := strconv.Atoi(ctx.QueryParam("limit"))
	if size < 1 {
		size = defaultPageSize
	}
	if size > maxPageSize {
		size = maxPageSize
	}

	return &QueryParams{
		PageNumber: page,
		PageSize:   size,
		Search:     ctx.QueryParam("search"),
	}
}

// Offset returns the SQL offset for the current page.
func (p QueryParams) Offset() int {
	return (p.PageNumber - 1) * p.PageSize
}
