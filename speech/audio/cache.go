package audio

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/klauspost/compress/zstd"
)

// Cache persists synthesized PCM on disk, zstd-compressed, keyed by the
// synthesis inputs. Pronouncing the same word with the same voice and
// prosody is the common case in a review session; caching skips the
// synthesizer subprocess entirely on repeats.
type Cache struct {
	dir      string
	capacity int64

	encoder *zstd.Encoder
	decoder *zstd.Decoder

	mu    sync.Mutex
	size  int64
	index map[string]*cacheEntry
}

type cacheEntry struct {
	path       string
	size       int64
	lastAccess time.Time
}

// NewCache opens (or creates) a cache directory capped at capacity bytes.
func NewCache(dir string, capacity int64) (*Cache, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create cache directory: %w", err)
	}

	encoder, err := zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedDefault))
	if err != nil {
		return nil, fmt.Errorf("create zstd encoder: %w", err)
	}
	decoder, err := zstd.NewReader(nil)
	if err != nil {
		return nil, fmt.Errorf("create zstd decoder: %w", err)
	}

	c := &Cache{
		dir:      dir,
		capacity: capacity,
		encoder:  encoder,
		decoder:  decoder,
		index:    make(map[string]*cacheEntry),
	}
	c.scan()
	return c, nil
}

// scan rebuilds the index from files already on disk. There is no separate
// index file; the directory is the index.
func (c *Cache) scan() {
	entries, err := os.ReadDir(c.dir)
	if err != nil {
		return
	}
	for _, e := range entries {
		if e.IsDir() || filepath.Ext(e.Name()) != ".zst" {
			continue
		}
		info, err := e.Info()
		if err != nil {
			continue
		}
		key := e.Name()[:len(e.Name())-len(".zst")]
		c.index[key] = &cacheEntry{
			path:       filepath.Join(c.dir, e.Name()),
			size:       info.Size(),
			lastAccess: info.ModTime(),
		}
		c.size += info.Size()
	}
}

// Key derives the cache key for one synthesis request.
func Key(text, voice string, rate, pitch float64) string {
	sum := sha256.Sum256(fmt.Appendf(nil, "%s|%s|%.3f|%.3f", text, voice, rate, pitch))
	return hex.EncodeToString(sum[:16])
}

// Get returns the cached PCM for key, or ok=false on a miss. Corrupt
// entries are dropped and count as misses.
func (c *Cache) Get(key string) ([]byte, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	entry, ok := c.index[key]
	if !ok {
		return nil, false
	}
	raw, err := os.ReadFile(entry.path)
	if err != nil {
		c.dropLocked(key)
		return nil, false
	}
	pcm, err := c.decoder.DecodeAll(raw, nil)
	if err != nil {
		c.dropLocked(key)
		return nil, false
	}
	entry.lastAccess = time.Now()
	return pcm, true
}

// Put stores PCM under key, evicting least-recently-used entries if the
// cache would exceed capacity. A clip larger than the whole cache is
// silently skipped.
func (c *Cache) Put(key string, pcm []byte) error {
	compressed := c.encoder.EncodeAll(pcm, nil)
	size := int64(len(compressed))
	if size > c.capacity {
		return nil
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if old, ok := c.index[key]; ok {
		os.Remove(old.path)
		c.size -= old.size
		delete(c.index, key)
	}
	for c.size+size > c.capacity && len(c.index) > 0 {
		c.evictOldestLocked()
	}

	path := filepath.Join(c.dir, key+".zst")
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, compressed, 0o644); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("write cache entry: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("write cache entry: %w", err)
	}

	c.index[key] = &cacheEntry{path: path, size: size, lastAccess: time.Now()}
	c.size += size
	return nil
}

// Len returns the number of cached clips.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.index)
}

// Clear removes every cached clip.
func (c *Cache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	for key := range c.index {
		c.dropLocked(key)
	}
}

func (c *Cache) dropLocked(key string) {
	if entry, ok := c.index[key]; ok {
		os.Remove(entry.path)
		c.size -= entry.size
		delete(c.index, key)
	}
}

func (c *Cache) evictOldestLocked() {
	keys := make([]string, 0, len(c.index))
	for k := range c.index {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		return c.index[keys[i]].lastAccess.Before(c.index[keys[j]].lastAccess)
	})
	if len(keys) > 0 {
		c.dropLocked(keys[0])
	}
}

// Close releases the compressor.
func (c *Cache) Close() error {
	c.encoder.Close()
	c.decoder.Close()
	return nil
}
