package memstore

import (
	"context"
	"sort"
	"time"

	"github.com/robalyx/warden/internal/database/types"
	"github.com/robalyx/warden/internal/database/types/enum"
)

// ContentStore mirrors models.ContentModel.
type ContentStore struct {
	s    *Store
	rows []*types.ContentItem
}

func cloneContent(c *types.ContentItem) *types.ContentItem {
	out := *c
	if c.ModeratedAt != nil {
		at := *c.ModeratedAt
		out.ModeratedAt = &at
	}
	return &out
}

// Put stores or replaces a content item.
func (c *ContentStore) Put(item *types.ContentItem) {
	c.s.mu.Lock()
	defer c.s.mu.Unlock()
	for i, row := range c.rows {
		if row.ID == item.ID && row.ContentType == item.ContentType {
			c.rows[i] = cloneContent(item)
			return
		}
	}
	c.rows = append(c.rows, cloneContent(item))
}

// Find returns a copy of a content item or nil.
func (c *ContentStore) Find(contentType enum.ContentType, id string) *types.ContentItem {
	c.s.mu.Lock()
	defer c.s.mu.Unlock()
	for _, row := range c.rows {
		if row.ID == id && row.ContentType == contentType {
			return cloneContent(row)
		}
	}
	return nil
}

func (c *ContentStore) ListUnmoderated(_ context.Context, since time.Time, limit int) ([]*types.ContentItem, error) {
	c.s.mu.Lock()
	defer c.s.mu.Unlock()
	if err := c.s.fault("Content.ListUnmoderated"); err != nil {
		return nil, err
	}

	var out []*types.ContentItem
	for _, row := range c.rows {
		if row.ModeratedAt == nil && row.Status == enum.ContentStatusPublished && !row.CreatedAt.Before(since) {
			out = append(out, cloneContent(row))
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.Before(out[j].CreatedAt)
		}
		return out[i].ID < out[j].ID
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (c *ContentStore) IsModerated(_ context.Context, contentType enum.ContentType, id string) (bool, error) {
	c.s.mu.Lock()
	defer c.s.mu.Unlock()
	if err := c.s.fault("Content.IsModerated"); err != nil {
		return false, err
	}

	for _, row := range c.rows {
		if row.ID == id && row.ContentType == contentType {
			return row.ModeratedAt != nil, nil
		}
	}
	return false, nil
}

func (c *ContentStore) MarkModerated(_ context.Context, contentType enum.ContentType, id string, at time.Time) error {
	c.s.mu.Lock()
	defer c.s.mu.Unlock()
	if err := c.s.fault("Content.MarkModerated"); err != nil {
		return err
	}

	for _, row := range c.rows {
		if row.ID == id && row.ContentType == contentType {
			moderatedAt := at
			row.ModeratedAt = &moderatedAt
		}
	}
	return nil
}

func (c *ContentStore) HideByAuthor(_ context.Context, userID string, publishedOnly bool) (int, error) {
	c.s.mu.Lock()
	defer c.s.mu.Unlock()
	if err := c.s.fault("Content.HideByAuthor"); err != nil {
		return 0, err
	}

	count := 0
	for _, row := range c.rows {
		if row.AuthorID != userID || row.Status == enum.ContentStatusHidden {
			continue
		}
		if publishedOnly && row.Status != enum.ContentStatusPublished {
			continue
		}
		row.Status = enum.ContentStatusHidden
		count++
	}
	return count, nil
}
