package symmetry

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/ironsheep/facade-tools-mcp/internal/imaging"
)

// Cache stores computed profiles under an opaque key.
//
// Implementations must be safe for concurrent use. A Lookup miss is reported
// with ok == false and a nil error; errors are reserved for storage failures.
type Cache interface {
	Lookup(key string) (p Profiles, ok bool, err error)
	Store(key string, p Profiles) error
}

// MemoryCache keeps profiles in process memory.
type MemoryCache struct {
	mu      sync.RWMutex
	entries map[string]Profiles
}

// NewMemoryCache creates an empty in-memory cache.
func NewMemoryCache() *MemoryCache {
	return &MemoryCache{entries: make(map[string]Profiles)}
}

// Lookup implements Cache.
func (c *MemoryCache) Lookup(key string) (Profiles, bool, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	p, ok := c.entries[key]
	return p, ok, nil
}

// Store implements Cache.
func (c *MemoryCache) Store(key string, p Profiles) error {
	c.mu.Lock()
	c.entries[key] = p
	c.mu.Unlock()
	return nil
}

// Len returns the number of cached entries.
func (c *MemoryCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

// DirCache persists profiles as JSON files in a directory, one file per key.
//
// File names are the SHA-256 of the key so arbitrary image paths can be used
// as keys.
type DirCache struct {
	dir string
	mu  sync.Mutex
}

// NewDirCache creates the directory if needed and returns a cache rooted there.
func NewDirCache(dir string) (*DirCache, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create cache directory: %w", err)
	}
	return &DirCache{dir: dir}, nil
}

func (c *DirCache) path(key string) string {
	sum := sha256.Sum256([]byte(key))
	return filepath.Join(c.dir, hex.EncodeToString(sum[:])+".json")
}

// Lookup implements Cache.
func (c *DirCache) Lookup(key string) (Profiles, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	data, err := os.ReadFile(c.path(key))
	if errors.Is(err, os.ErrNotExist) {
		return Profiles{}, false, nil
	}
	if err != nil {
		return Profiles{}, false, fmt.Errorf("failed to read cache entry: %w", err)
	}

	var p Profiles
	if err := json.Unmarshal(data, &p); err != nil {
		return Profiles{}, false, fmt.Errorf("failed to decode cache entry: %w", err)
	}
	return p, true, nil
}

// Store implements Cache.
func (c *DirCache) Store(key string, p Profiles) error {
	data, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("failed to encode cache entry: %w", err)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	tmp, err := os.CreateTemp(c.dir, "profile-*.tmp")
	if err != nil {
		return fmt.Errorf("failed to write cache entry: %w", err)
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("failed to write cache entry: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("failed to write cache entry: %w", err)
	}
	return os.Rename(tmp.Name(), c.path(key))
}

// Analyzer computes both symmetry profiles of a raster, consulting a Cache
// first when one is set.
type Analyzer struct {
	// VRange is the range of floor-height offsets for the vertical scan.
	VRange Range
	// HRange is the range of tile-width offsets for the horizontal scan.
	HRange Range
	// K is the similarity decay constant.
	K float64
	// Cache is optional.
	Cache Cache
}

// NewAnalyzer returns an Analyzer with default ranges and no cache.
func NewAnalyzer() *Analyzer {
	return &Analyzer{VRange: DefaultRange, HRange: DefaultRange, K: DefaultK}
}

// CacheKey builds the cache key for an image identifier under this
// analyzer's parameters. Changing any parameter yields a different key.
func (a *Analyzer) CacheKey(id string) string {
	return fmt.Sprintf("%s|v=%d-%d|h=%d-%d|k=%g",
		id, a.VRange.Min, a.VRange.Max, a.HRange.Min, a.HRange.Max, a.K)
}

// Profiles returns both profiles of g. id identifies the raster for caching
// and may be empty to bypass the cache.
func (a *Analyzer) Profiles(id string, g *imaging.Gray) (Profiles, error) {
	var key string
	if a.Cache != nil && id != "" {
		key = a.CacheKey(id)
		p, ok, err := a.Cache.Lookup(key)
		if err != nil {
			return Profiles{}, err
		}
		if ok && p.Vertical.Len() == g.Height && p.Horizontal.Len() == g.Width {
			return p, nil
		}
	}

	v, err := VerticalProfile(g, a.VRange, a.K)
	if err != nil {
		return Profiles{}, err
	}
	h, err := HorizontalProfile(g, a.HRange, a.K)
	if err != nil {
		return Profiles{}, err
	}
	p := Profiles{Vertical: v, Horizontal: h}

	if key != "" {
		if err := a.Cache.Store(key, p); err != nil {
			return Profiles{}, err
		}
	}
	return p, nil
}
