package imaging

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"
	_ "image/gif"  // Register GIF format decoder
	_ "image/jpeg" // Register JPEG format decoder
	_ "image/png"  // Register PNG format decoder
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/disintegration/imaging"
	_ "golang.org/x/image/bmp"  // Register BMP format decoder
	_ "golang.org/x/image/tiff" // Register TIFF format decoder
)

// Decode reads an encoded image (PNG, JPEG, GIF, BMP or TIFF) into a new
// TypedImage named name. Failures match ErrDecode.
func Decode(r io.Reader, name string) (*Image, string, error) {
	src, format, err := image.Decode(r)
	if err != nil {
		return nil, "", fmt.Errorf("%w: %v", ErrDecode, err)
	}
	img, err := FromImage(src, name)
	if err != nil {
		return nil, "", err
	}
	return img, format, nil
}

// Encode writes img in the named container format ("png", "jpeg", "gif",
// "bmp", "tiff"). Failures match ErrEncode.
func Encode(w io.Writer, img *Image, format string) error {
	f, err := imaging.FormatFromExtension(format)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrEncode, err)
	}
	if err := imaging.Encode(w, img.ToImage(), f); err != nil {
		return fmt.Errorf("%w: %v", ErrEncode, err)
	}
	return nil
}

// EncodeBase64 encodes img and returns the base64 text together with its
// MIME type, the form MCP image content uses.
func EncodeBase64(img *Image, format string) (string, string, error) {
	if format == "" {
		format = "png"
	}
	var buf bytes.Buffer
	if err := Encode(&buf, img, format); err != nil {
		return "", "", err
	}
	mime := "image/" + strings.ToLower(strings.TrimPrefix(format, "."))
	if mime == "image/jpg" {
		mime = "image/jpeg"
	}
	if mime == "image/tif" {
		mime = "image/tiff"
	}
	return base64.StdEncoding.EncodeToString(buf.Bytes()), mime, nil
}

// Save encodes img to path, choosing the format from the file extension.
func Save(img *Image, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	if err := Encode(f, img, filepath.Ext(path)); err != nil {
		f.Close()
		os.Remove(path)
		return err
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("failed to close %s: %w", path, err)
	}
	return nil
}

// ImageCache provides thread-safe caching of decoded images to avoid
// redundant disk reads.
//
// The cache stores decoded TypedImages keyed by their file path. Images are
// immutable under every pipeline operation, so a cached instance can be
// handed out repeatedly; callers that intend to use the point accessor Set
// must work on a derived image instead.
//
// Cached images remain in memory until explicitly removed via Evict() or
// Clear().
type ImageCache struct {
	mu     sync.RWMutex
	images map[string]cacheEntry
}

type cacheEntry struct {
	img    *Image
	format string
}

// NewImageCache creates and initializes a new empty image cache.
func NewImageCache() *ImageCache {
	return &ImageCache{
		images: make(map[string]cacheEntry),
	}
}

// Load retrieves an image from the cache or decodes it from disk. The image
// is named after the file's base name.
//
// Open failures wrap the os error; undecodable content matches ErrDecode.
func (c *ImageCache) Load(path string) (*Image, error) {
	img, _, err := c.load(path)
	return img, err
}

func (c *ImageCache) load(path string) (*Image, string, error) {
	c.mu.RLock()
	if e, ok := c.images[path]; ok {
		c.mu.RUnlock()
		return e.img, e.format, nil
	}
	c.mu.RUnlock()

	f, err := os.Open(path)
	if err != nil {
		return nil, "", fmt.Errorf("failed to open image: %w", err)
	}
	defer f.Close()

	img, format, err := Decode(f, filepath.Base(path))
	if err != nil {
		return nil, "", fmt.Errorf("failed to decode image %s: %w", path, err)
	}

	c.mu.Lock()
	c.images[path] = cacheEntry{img: img, format: format}
	c.mu.Unlock()

	return img, format, nil
}

// Len returns the number of cached images.
func (c *ImageCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.images)
}

// Clear removes all images from the cache.
func (c *ImageCache) Clear() {
	c.mu.Lock()
	c.images = make(map[string]cacheEntry)
	c.mu.Unlock()
}

// Evict removes a specific image from the cache by its path. If the path is
// not in the cache, this method does nothing.
func (c *ImageCache) Evict(path string) {
	c.mu.Lock()
	delete(c.images, path)
	c.mu.Unlock()
}

// ImageInfo contains metadata about a loaded image file.
type ImageInfo struct {
	// Width is the image width in pixels.
	Width int `json:"width"`

	// Height is the image height in pixels.
	Height int `json:"height"`

	// Format is the container format reported by the decoder: "png", "jpeg",
	// "gif", "bmp" or "tiff".
	Format string `json:"format"`

	// Kind is the TypedImage kind the file decoded to: "color" or "gray".
	Kind string `json:"kind"`

	// FileSizeBytes is the size of the image file on disk in bytes.
	FileSizeBytes int64 `json:"file_size_bytes"`
}

// LoadImageInfo loads an image through the cache and returns its metadata.
func LoadImageInfo(cache *ImageCache, path string) (*ImageInfo, error) {
	img, format, err := cache.load(path)
	if err != nil {
		return nil, err
	}

	stat, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("failed to stat file: %w", err)
	}

	return &ImageInfo{
		Width:         img.Width(),
		Height:        img.Height(),
		Format:        format,
		Kind:          img.Kind().String(),
		FileSizeBytes: stat.Size(),
	}, nil
}
