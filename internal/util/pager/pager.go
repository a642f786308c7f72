// Package pager walks cursor-paginated list endpoints.
package pager

import (
	"context"
	"fmt"
)

// Request selects one page.
type Request struct {
	Token    string
	PageSize int64
}

// Page is one page of results. An empty NextToken ends the listing.
type Page[T any] struct {
	Items     []T
	NextToken string
}

// FetchFunc returns the page selected by req.
type FetchFunc[T any] func(ctx context.Context, req Request) (Page[T], error)

// Observer receives the per-page and truncation notifications of a listing.
type Observer interface {
	PageFetched(index, items int)
	Truncated(maxPages int)
}

type nopObserver struct{}

func (nopObserver) PageFetched(int, int) {}
func (nopObserver) Truncated(int)        {}

// Config holds listing configuration.
type Config struct {
	MaxPages int
	PageSize int64
	Observer Observer
}

// Option is a functional option for listing configuration.
type Option func(*Config)

// WithMaxPages caps the number of pages fetched.
func WithMaxPages(n int) Option {
	return func(c *Config) {
		c.MaxPages = n
	}
}

// WithPageSize sets the number of items requested per round trip.
func WithPageSize(n int64) Option {
	return func(c *Config) {
		c.PageSize = n
	}
}

// WithObserver sets the receiver of page and truncation notifications.
func WithObserver(o Observer) Option {
	return func(c *Config) {
		if o != nil {
			c.Observer = o
		}
	}
}

// ListAll fetches pages until the next token is empty or MaxPages pages have
// been fetched, and returns the accumulated items.
//
// Hitting the page cap while more pages exist is not an error: the observer
// is told about the truncation and the items gathered so far are returned.
// The returned slice is never nil.
//
// Example:
//
//	disks, err := pager.ListAll(ctx, func(ctx context.Context, req pager.Request) (pager.Page[*compute.Disk], error) {
//	    items, next, err := gw.ListDisks(ctx, project, zone, gce.PageRequest{Token: req.Token, MaxResults: req.PageSize})
//	    return pager.Page[*compute.Disk]{Items: items, NextToken: next}, err
//	}, pager.WithMaxPages(20), pager.WithPageSize(100))
func ListAll[T any](ctx context.Context, fetch FetchFunc[T], opts ...Option) ([]T, error) {
	cfg := &Config{
		MaxPages: 20,
		PageSize: 100,
		Observer: nopObserver{},
	}

	for _, opt := range opts {
		opt(cfg)
	}

	items := make([]T, 0)
	token := ""

	for page := 1; ; page++ {
		res, err := fetch(ctx, Request{Token: token, PageSize: cfg.PageSize})
		if err != nil {
			return nil, fmt.Errorf("failed to fetch page %d: %w", page, err)
		}
		items = append(items, res.Items...)
		cfg.Observer.PageFetched(page, len(res.Items))

		token = res.NextToken
		if token == "" {
			return items, nil
		}

		if page >= cfg.MaxPages {
			cfg.Observer.Truncated(cfg.MaxPages)
			return items, nil
		}
	}
}
