// Package pagination reads page/page_size query arguments and builds page envelopes
// with absolute links to the neighbouring pages.
package pagination

import (
	"fmt"

	"github.com/gofiber/fiber/v2"
	"github.com/valyala/fasthttp"
)

const (
	DefaultPageSize = 10
	MaxPageSize     = 100
)

// Params is a validated 1-based page request.
type Params struct {
	Page     int
	PageSize int
}

func (p Params) Offset() int {
	return (p.Page - 1) * p.PageSize
}

type Meta struct {
	CurrentPage int     `json:"current_page"`
	PageSize    int     `json:"page_size"`
	TotalPages  int     `json:"total_pages"`
	TotalItems  int64   `json:"total_items"`
	NextPage    *string `json:"next_page"`
	PrevPage    *string `json:"prev_page"`
}

type Page[T any] struct {
	Items      []T  `json:"items"`
	Pagination Meta `json:"pagination"`
}

// Parse reads page and page_size, falling back to page 1 of DefaultPageSize.
func Parse(c *fiber.Ctx) (Params, error) {
	p := Params{
		Page:     c.QueryInt("page", 1),
		PageSize: c.QueryInt("page_size", DefaultPageSize),
	}
	if p.Page < 1 {
		return p, fmt.Errorf("page must be greater than 0")
	}
	if p.PageSize < 1 || p.PageSize > MaxPageSize {
		return p, fmt.Errorf("page size must be between 1 and %d", MaxPageSize)
	}
	return p, nil
}

// TotalPages is zero for an empty result set.
func TotalPages(total int64, pageSize int) int {
	if total <= 0 || pageSize <= 0 {
		return 0
	}
	return int((total + int64(pageSize) - 1) / int64(pageSize))
}

func New[T any](c *fiber.Ctx, items []T, total int64, p Params) Page[T] {
	if items == nil {
		items = []T{}
	}
	meta := Meta{
		CurrentPage: p.Page,
		PageSize:    p.PageSize,
		TotalPages:  TotalPages(total, p.PageSize),
		TotalItems:  total,
	}
	if p.Page < meta.TotalPages {
		meta.NextPage = pageLink(c, p.Page+1)
	}
	if p.Page > 1 {
		meta.PrevPage = pageLink(c, p.Page-1)
	}
	return Page[T]{Items: items, Pagination: meta}
}

// pageLink keeps every other query argument of the current request.
func pageLink(c *fiber.Ctx, page int) *string {
	var args fasthttp.Args
	c.Context().QueryArgs().CopyTo(&args)
	args.SetUint("page", page)
	link := fmt.Sprintf("%s://%s%s?%s", c.Protocol(), c.Hostname(), c.Path(), args.QueryString())
	return &link
}
