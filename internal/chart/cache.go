package chart

import (
	"context"
	"fmt"
	"sync"

	"launch-dashboard/internal/model"
)

// Image is a rendered slot.
type Image struct {
	PNG      []byte
	Revision uint64
	State    model.SlotState
}

// Cache renders published slots and keeps the newest image per slot.
// A publish carrying an older revision than the one held is dropped.
type Cache struct {
	renderer *Renderer

	mu        sync.RWMutex
	breakdown Image
	scatter   Image
}

// NewCache returns an empty cache that renders with r.
func NewCache(r *Renderer) *Cache {
	if r == nil {
		r = NewRenderer(0, 0)
	}
	return &Cache{renderer: r}
}

// PublishBreakdown renders slot and stores it unless a newer image is held.
func (c *Cache) PublishBreakdown(_ context.Context, slot model.BreakdownSlot) error {
	if c.isStale(&c.breakdown, slot.Revision) {
		return nil
	}
	data, err := c.renderer.Breakdown(slot)
	if err != nil {
		return fmt.Errorf("breakdown r%d: %w", slot.Revision, err)
	}
	c.store(&c.breakdown, Image{PNG: data, Revision: slot.Revision, State: slot.State})
	return nil
}

// PublishScatter renders slot and stores it unless a newer image is held.
func (c *Cache) PublishScatter(_ context.Context, slot model.ScatterSlot) error {
	if c.isStale(&c.scatter, slot.Revision) {
		return nil
	}
	data, err := c.renderer.Scatter(slot)
	if err != nil {
		return fmt.Errorf("scatter r%d: %w", slot.Revision, err)
	}
	c.store(&c.scatter, Image{PNG: data, Revision: slot.Revision, State: slot.State})
	return nil
}

// Breakdown returns the latest breakdown image, if any.
func (c *Cache) Breakdown() (Image, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.breakdown, c.breakdown.PNG != nil
}

// Scatter returns the latest scatter image, if any.
func (c *Cache) Scatter() (Image, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.scatter, c.scatter.PNG != nil
}

// Renderer exposes the renderer, for placeholders served before the first
// publish.
func (c *Cache) Renderer() *Renderer { return c.renderer }

func (c *Cache) isStale(held *Image, rev uint64) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return held.PNG != nil && rev <= held.Revision
}

func (c *Cache) store(held *Image, img Image) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if held.PNG != nil && img.Revision <= held.Revision {
		return
	}
	*held = img
}
