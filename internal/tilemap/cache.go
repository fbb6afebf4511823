package tilemap

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/charmbracelet/log"
	"github.com/klauspost/compress/zstd"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"
)

const fileExt = ".raster.zst"

// Cache holds built rasters. Each (world, revision, digest) is built at most
// once; concurrent requests for it wait for the same build.
type Cache struct {
	dir string
	log *log.Logger

	mu  sync.RWMutex
	mem map[Key]*Raster

	group  singleflight.Group
	enc    *zstd.Encoder
	dec    *zstd.Decoder
	builds atomic.Int64
	hits   atomic.Int64
}

// NewCache returns a cache that also persists rasters in dir. An empty dir
// keeps them in memory only.
func NewCache(dir string, logger *log.Logger) (*Cache, error) {
	if logger == nil {
		logger = log.Default()
	}
	enc, err := zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedDefault))
	if err != nil {
		return nil, fmt.Errorf("tilemap: create encoder: %w", err)
	}
	dec, err := zstd.NewReader(nil)
	if err != nil {
		return nil, fmt.Errorf("tilemap: create decoder: %w", err)
	}
	if dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("tilemap: create cache dir: %w", err)
		}
	}
	return &Cache{
		dir: dir,
		log: logger,
		mem: make(map[Key]*Raster),
		enc: enc,
		dec: dec,
	}, nil
}

// Close releases the decoder.
func (c *Cache) Close() {
	c.dec.Close()
}

// Builds returns how many rasters were rendered from tiles.
func (c *Cache) Builds() int64 { return c.builds.Load() }

// Hits returns how many rasters were served from memory or disk.
func (c *Cache) Hits() int64 { return c.hits.Load() }

// Get returns a raster from memory or disk.
func (c *Cache) Get(k Key) (*Raster, bool) {
	c.mu.RLock()
	r, ok := c.mem[k]
	c.mu.RUnlock()
	if ok {
		return r, true
	}

	r, err := c.readFile(k)
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			c.log.Warn("discarding cached raster", "key", k, "err", err)
		}
		return nil, false
	}
	c.put(r)
	return r, true
}

// Rasters returns every variant of the layers, built or cached.
func (c *Cache) Rasters(ctx context.Context, l Layers) ([]*Raster, error) {
	if l.Digest == 0 {
		l.Digest = l.Sum()
	}
	name := fmt.Sprintf("%d-%d-%x", l.World, l.Revision, l.Digest)
	v, err, _ := c.group.Do(name, func() (any, error) {
		return c.rasters(ctx, l)
	})
	if err != nil {
		return nil, err
	}
	return v.([]*Raster), nil
}

func (c *Cache) rasters(ctx context.Context, l Layers) ([]*Raster, error) {
	out := make([]*Raster, Variants)
	g, ctx := errgroup.WithContext(ctx)
	for variant := 0; variant < Variants; variant++ {
		variant := variant
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			k := l.Key(variant)
			if r, ok := c.Get(k); ok {
				c.hits.Add(1)
				out[variant] = r
				return nil
			}

			r := Build(l, variant)
			c.builds.Add(1)
			c.put(r)
			if err := c.writeFile(r); err != nil {
				c.log.Warn("cannot persist raster", "key", k, "err", err)
			}
			out[variant] = r
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("tilemap: build %d rev %d: %w", l.World, l.Revision, err)
	}
	return out, nil
}

func (c *Cache) put(r *Raster) {
	c.mu.Lock()
	c.mem[r.Key] = r
	c.mu.Unlock()
}

// Forget drops the rasters of keep's world that were built from other
// layers than keep, in memory and on disk.
func (c *Cache) Forget(keep Key) {
	c.mu.Lock()
	for k := range c.mem {
		if k.World == keep.World && !k.SameLayers(keep) {
			delete(c.mem, k)
		}
	}
	c.mu.Unlock()

	if c.dir == "" {
		return
	}
	matches, err := filepath.Glob(filepath.Join(c.dir, fmt.Sprintf("%d-*%s", keep.World, fileExt)))
	if err != nil {
		return
	}
	keepPrefix := fmt.Sprintf("%d-%d-%016x-", keep.World, keep.Revision, keep.Digest)
	for _, m := range matches {
		if !strings.HasPrefix(filepath.Base(m), keepPrefix) {
			os.Remove(m) //nolint:errcheck // Best-effort cleanup of stale layers
		}
	}
}

func (c *Cache) path(k Key) string {
	return filepath.Join(c.dir, k.String()+fileExt)
}

func (c *Cache) readFile(k Key) (*Raster, error) {
	if c.dir == "" {
		return nil, os.ErrNotExist
	}
	compressed, err := os.ReadFile(c.path(k))
	if err != nil {
		return nil, err
	}
	data, err := c.dec.DecodeAll(compressed, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorruptRaster, err)
	}
	var r Raster
	if err := r.UnmarshalBinary(data); err != nil {
		return nil, err
	}
	if r.Key != k {
		return nil, fmt.Errorf("%w: key %s in %s", ErrCorruptRaster, r.Key, c.path(k))
	}
	return &r, nil
}

func (c *Cache) writeFile(r *Raster) error {
	if c.dir == "" {
		return nil
	}
	data, err := r.MarshalBinary()
	if err != nil {
		return err
	}
	compressed := c.enc.EncodeAll(data, nil)

	tmp, err := os.CreateTemp(c.dir, ".raster-*")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name()) //nolint:errcheck // Best-effort cleanup after rename
	if _, err := tmp.Write(compressed); err != nil {
		tmp.Close() //nolint:errcheck // Already failing
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), c.path(r.Key))
}
