// Package resource deduplicates GPU textures by source path.
package resource

import (
	"errors"
	"fmt"
	"image"
	"sync"

	"go.uber.org/zap"

	"github.com/Faultbox/pbrview/internal/engine/gpu"
	"github.com/Faultbox/pbrview/internal/engine/texture"
	"github.com/Faultbox/pbrview/internal/logger"
)

var (
	ErrDecode = errors.New("texture decode failed")
	ErrUpload = errors.New("texture upload failed")
)

// Loader decodes an image file into RGBA8 rows, bottom row first.
type Loader func(path string) (*image.RGBA, error)

// Cache owns every texture it uploads. Handles returned by Get stay valid
// until Clear.
type Cache struct {
	dev      gpu.Device
	load     Loader
	log      *zap.Logger
	textures map[string]*gpu.Texture
	fallback *gpu.Texture
	mu       sync.Mutex

	// Stats
	hits   int
	misses int
}

// NewCache creates a cache that decodes with texture.Load.
func NewCache(dev gpu.Device) *Cache {
	return NewCacheWithLoader(dev, texture.Load)
}

// NewCacheWithLoader creates a cache with a custom decoder.
func NewCacheWithLoader(dev gpu.Device, load Loader) *Cache {
	return &Cache{
		dev:      dev,
		load:     load,
		log:      logger.Named("resource"),
		textures: make(map[string]*gpu.Texture),
	}
}

// Get returns the texture for path, decoding and uploading it on first use.
// Failures return gpu.InvalidHandle and cache nothing.
func (c *Cache) Get(path string) gpu.Handle {
	h, err := c.Load(path)
	if err != nil {
		c.log.Warn("texture unavailable", zap.String("path", path), zap.Error(err))
		return gpu.InvalidHandle
	}
	return h
}

// Load is Get with the failure reason. Errors wrap ErrDecode or ErrUpload.
func (c *Cache) Load(path string) (gpu.Handle, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if tex, ok := c.textures[path]; ok {
		c.hits++
		return tex.ID(), nil
	}
	c.misses++

	if path == "" {
		return gpu.InvalidHandle, fmt.Errorf("%w: empty path", ErrDecode)
	}
	img, err := c.load(path)
	if err != nil {
		return gpu.InvalidHandle, fmt.Errorf("%w: %s: %w", ErrDecode, path, err)
	}

	w, h := texture.Size(img)
	tex := gpu.NewTexture(c.dev, w, h, texture.Pixels(img))
	if !tex.Valid() {
		return gpu.InvalidHandle, fmt.Errorf("%w: %s (%dx%d)", ErrUpload, path, w, h)
	}

	c.textures[path] = tex
	c.log.Debug("texture cached", zap.String("path", path), zap.Int("width", w), zap.Int("height", h))
	return tex.ID(), nil
}

// GetOrFallback returns the texture for path, or the shared checkerboard
// when it cannot be loaded.
func (c *Cache) GetOrFallback(path string) gpu.Handle {
	if h := c.Get(path); h != gpu.InvalidHandle {
		return h
	}
	return c.Fallback()
}

// Fallback returns the checkerboard texture, creating it on first use.
func (c *Cache) Fallback() gpu.Handle {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.fallback.Valid() {
		img := texture.DefaultCheckerboard()
		w, h := texture.Size(img)
		c.fallback = gpu.NewTexture(c.dev, w, h, texture.Pixels(img))
	}
	return c.fallback.ID()
}

// Contains reports whether path has a live cached texture.
func (c *Cache) Contains(path string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, ok := c.textures[path]
	return ok
}

// Len returns the number of cached textures, excluding the fallback.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.textures)
}

// Clear releases every cached texture and the fallback. Safe to call twice.
func (c *Cache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()

	for _, tex := range c.textures {
		tex.Release()
	}
	c.fallback.Release()
	c.fallback = nil
	c.textures = make(map[string]*gpu.Texture)
	c.hits = 0
	c.misses = 0
}

// Stats returns cache statistics.
func (c *Cache) Stats() (hits, misses int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.hits, c.misses
}
