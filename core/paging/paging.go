// Package paging drives cursor-based list endpoints to exhaustion.
// It is deliberately not a resilience layer: a failed page aborts the
// whole sequence, because a billing run built on a partial listing would
// silently understate cost.
package paging

import (
	"context"
)

// Page is one response from a list endpoint. A non-empty Cursor means more
// pages remain; an empty one ends iteration.
type Page[T any] struct {
	Items  []T
	Cursor string
}

// FetchFunc retrieves one page. The first call receives an empty cursor;
// subsequent calls receive the cursor from the previous page.
type FetchFunc[T any] func(ctx context.Context, cursor string) (Page[T], error)

// Collect walks the endpoint until the cursor runs out and returns every
// item in page order, plus the number of upstream calls made. Any fetch
// error discards all accumulated items and surfaces unwrapped. An endpoint
// with zero entities and no cursor yields an empty slice, not an error.
func Collect[T any](ctx context.Context, fetch FetchFunc[T]) ([]T, int, error) {
	var (
		items  []T
		cursor string
		pages  int
	)

	for {
		page, err := fetch(ctx, cursor)
		if err != nil {
			return nil, pages, err
		}
		pages++
		items = append(items, page.Items...)

		cursor = page.Cursor
		if cursor == "" {
			return items, pages, nil
		}
	}
}
