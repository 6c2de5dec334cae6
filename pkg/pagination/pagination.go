// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package pagination parses page/limit query parameters and builds the "meta"
// block of paginated list responses.
package pagination

import (
	"net/http"

	"github.com/taibuivan/fruitlog/pkg/convert"
)

const (
	// DefaultLimit applies when ?limit is absent or out of range.
	DefaultLimit = 20
	// MaxLimit is the largest accepted ?limit.
	MaxLimit = 100
	// FirstPage is the 1-indexed first page.
	FirstPage = 1
)

// Params is a validated page request.
type Params struct {
	Page  int
	Limit int
}

// New clamps page and limit into range.
func New(page, limit int) Params {
	if page < FirstPage {
		page = FirstPage
	}
	if limit < 1 || limit > MaxLimit {
		limit = DefaultLimit
	}
	return Params{Page: page, Limit: limit}
}

// Offset is the number of rows before the page.
func (p Params) Offset() int {
	return (max(p.Page, FirstPage) - 1) * p.Limit
}

// Meta is the "meta" block of a paginated response.
type Meta struct {
	Page       int  `json:"page"`
	Limit      int  `json:"limit"`
	Total      int  `json:"total"`
	TotalPages int  `json:"totalPages"`
	HasNext    bool `json:"hasNext"`
}

// NewMeta derives the page count for total rows.
func NewMeta(page, limit, total int) Meta {
	totalPages := 0
	if limit > 0 {
		totalPages = (total + limit - 1) / limit
	}

	return Meta{
		Page:       page,
		Limit:      limit,
		Total:      total,
		TotalPages: totalPages,
		HasNext:    page < totalPages,
	}
}

// FromRequest reads ?page and ?limit. Malformed values fall back to the defaults.
func FromRequest(r *http.Request) Params {
	query := r.URL.Query()
	return New(convert.IntOr(query.Get("page"), FirstPage), convert.IntOr(query.Get("limit"), DefaultLimit))
}

