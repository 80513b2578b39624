package types

import "strconv"

const DefaultPageSize = 10

type PageLink struct {
	Page   int    `json:"page"`
	Label  string `json:"label"`
	Active bool   `json:"active"`
}

// Page is one page of a listing plus the metadata the list views paginate with.
type Page[T any] struct {
	Data        []T        `json:"data"`
	Total       int64      `json:"total"`
	CurrentPage int        `json:"currentPage"`
	PerPage     int        `json:"perPage"`
	LastPage    int        `json:"lastPage"`
	From        int        `json:"from"`
	To          int        `json:"to"`
	Links       []PageLink `json:"links"`
}

// PageRequest is a 1-based page number; Normalize clamps bad input.
type PageRequest struct {
	Page    int
	PerPage int
}

func (p PageRequest) Normalize() PageRequest {
	if p.Page < 1 {
		p.Page = 1
	}
	if p.PerPage < 1 {
		p.PerPage = DefaultPageSize
	}
	return p
}

func (p PageRequest) Offset() int {
	n := p.Normalize()
	return (n.Page - 1) * n.PerPage
}

func NewPage[T any](data []T, total int64, request PageRequest) Page[T] {
	request = request.Normalize()
	if data == nil {
		data = []T{}
	}

	lastPage := int((total + int64(request.PerPage) - 1) / int64(request.PerPage))
	if lastPage < 1 {
		lastPage = 1
	}

	page := Page[T]{
		Data:        data,
		Total:       total,
		CurrentPage: request.Page,
		PerPage:     request.PerPage,
		LastPage:    lastPage,
		Links:       make([]PageLink, 0, lastPage),
	}

	if len(data) > 0 {
		page.From = request.Offset() + 1
		page.To = request.Offset() + len(data)
	}

	for i := 1; i <= lastPage; i++ {
		page.Links = append(page.Links, PageLink{
			Page:   i,
			Label:  strconv.Itoa(i),
			Active: i == request.Page,
		})
	}

	return page
}
