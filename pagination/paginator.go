// Package pagination splits an ordered result set into fixed-size pages,
// folding a short trailing page into the one before it.
package pagination

import (
	"errors"
	"strconv"
	"strings"
)

var (
	ErrNotAnInteger = errors.New("page number is not an integer")
	ErrEmptyPage    = errors.New("page contains no results")
)

type Paginator struct {
	PerPage int
	Orphans int
	Count   int64
}

type Page struct {
	Number      int   `json:"number"`
	NumPages    int   `json:"num_pages"`
	Count       int64 `json:"count"`
	Offset      int   `json:"-"`
	Limit       int   `json:"-"`
	HasNext     bool  `json:"has_next"`
	HasPrevious bool  `json:"has_previous"`
}

func New(perPage, orphans int, count int64) Paginator {
	if perPage < 1 {
		perPage = 1
	}
	if orphans < 0 {
		orphans = 0
	}
	return Paginator{PerPage: perPage, Orphans: orphans, Count: count}
}

// NumPages always reports at least one page so an empty listing still
// renders its first page.
func (p Paginator) NumPages() int {
	if p.Count <= 0 {
		return 1
	}
	hits := p.Count - int64(p.Orphans)
	if hits < 1 {
		hits = 1
	}
	per := int64(p.PerPage)
	return int((hits + per - 1) / per)
}

// Page validates number and returns its window.
func (p Paginator) Page(number int) (Page, error) {
	if number < 1 || number > p.NumPages() {
		return Page{}, ErrEmptyPage
	}
	offset := (number - 1) * p.PerPage
	limit := p.PerPage
	if int64(offset+limit+p.Orphans) >= p.Count {
		limit = int(p.Count) - offset
		if limit < 0 {
			limit = 0
		}
	}
	num := p.NumPages()
	return Page{
		Number:      number,
		NumPages:    num,
		Count:       p.Count,
		Offset:      offset,
		Limit:       limit,
		HasNext:     number < num,
		HasPrevious: number > 1,
	}, nil
}

// ParseNumber reads a page query value; blank means the first page.
func ParseNumber(raw string) (int, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 1, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, ErrNotAnInteger
	}
	return n, nil
}

// Clamp resolves raw to a valid page, falling back to the first page for
// garbage and to the last page past the end.
func (p Paginator) Clamp(raw string) Page {
	n, err := ParseNumber(raw)
	if err != nil || n < 1 {
		n = 1
	}
	if last := p.NumPages(); n > last {
		n = last
	}
	page, _ := p.Page(n)
	return page
}
