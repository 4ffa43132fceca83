package imaging

import (
	"bytes"
	"errors"
	"image/color"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
)

// createTestImage saves a solid-color PNG into a temp dir and returns its path.
func createTestImage(t *testing.T, width, height int, c color.Color) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test-image.png")
	if err := Save(solidImage(t, width, height, c), path); err != nil {
		t.Fatalf("failed to save image: %v", err)
	}
	return path
}

func TestImageCache_Load(t *testing.T) {
	path := createTestImage(t, 10, 8, color.RGBA{10, 20, 30, 255})
	cache := NewImageCache()

	img, err := cache.Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if img.Width() != 10 || img.Height() != 8 || img.Kind() != KindColor {
		t.Errorf("got %dx%d %s", img.Width(), img.Height(), img.Kind())
	}
	if img.Name() != "test-image.png" {
		t.Errorf("name: got %q", img.Name())
	}
	if got := bgrAt(t, img, 3, 3); got != (BGR{30, 20, 10}) {
		t.Errorf("pixel: got %v", got)
	}

	again, err := cache.Load(path)
	if err != nil {
		t.Fatalf("second Load failed: %v", err)
	}
	if again != img {
		t.Error("second Load should return the cached instance")
	}
	if cache.Len() != 1 {
		t.Errorf("Len: got %d, want 1", cache.Len())
	}
}

func TestImageCache_Load_Errors(t *testing.T) {
	cache := NewImageCache()

	_, err := cache.Load(filepath.Join(t.TempDir(), "missing.png"))
	if !errors.Is(err, os.ErrNotExist) {
		t.Errorf("missing file: got %v, want os.ErrNotExist", err)
	}

	bad := filepath.Join(t.TempDir(), "bad.png")
	if err := os.WriteFile(bad, []byte("not an image"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := cache.Load(bad); !errors.Is(err, ErrDecode) {
		t.Errorf("garbage file: got %v, want ErrDecode", err)
	}
}

func TestImageCache_EvictClear(t *testing.T) {
	cache := NewImageCache()
	p1 := createTestImage(t, 2, 2, color.White)
	p2 := createTestImage(t, 3, 3, color.Black)
	for _, p := range []string{p1, p2} {
		if _, err := cache.Load(p); err != nil {
			t.Fatalf("Load failed: %v", err)
		}
	}

	cache.Evict(p1)
	cache.Evict("never-loaded.png")
	if cache.Len() != 1 {
		t.Errorf("after Evict: got %d entries, want 1", cache.Len())
	}
	cache.Clear()
	if cache.Len() != 0 {
		t.Errorf("after Clear: got %d entries, want 0", cache.Len())
	}
}

func TestImageCache_ConcurrentAccess(t *testing.T) {
	path := createTestImage(t, 16, 16, color.RGBA{1, 2, 3, 255})
	cache := NewImageCache()

	var wg sync.WaitGroup
	errs := make(chan error, 20)
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := cache.Load(path); err != nil {
				errs <- err
			}
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		t.Errorf("concurrent Load failed: %v", err)
	}
}

func TestLoadImageInfo(t *testing.T) {
	path := createTestImage(t, 12, 7, color.RGBA{255, 0, 0, 255})
	info, err := LoadImageInfo(NewImageCache(), path)
	if err != nil {
		t.Fatalf("LoadImageInfo failed: %v", err)
	}
	if info.Width != 12 || info.Height != 7 || info.Format != "png" || info.Kind != "color" {
		t.Errorf("got %+v", info)
	}
	if info.FileSizeBytes <= 0 {
		t.Errorf("FileSizeBytes: got %d", info.FileSizeBytes)
	}
}

func TestSave_Formats(t *testing.T) {
	src := patternImage(t, 8, 8)
	for _, ext := range []string{".png", ".tiff", ".bmp"} {
		t.Run(ext, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "out"+ext)
			if err := Save(src, path); err != nil {
				t.Fatalf("Save failed: %v", err)
			}
			img, err := NewImageCache().Load(path)
			if err != nil {
				t.Fatalf("Load failed: %v", err)
			}
			if got := bgrAt(t, img, 0, 0); got != (BGR{0, 0, 255}) {
				t.Errorf("top-left pixel: got %v, want red", got)
			}
		})
	}
}

func TestSave_GrayRoundTrip(t *testing.T) {
	src := grayImage(t, [][]uint8{{0, 50}, {100, 250}})
	path := filepath.Join(t.TempDir(), "gray.png")
	if err := Save(src, path); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	img, err := NewImageCache().Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if img.Kind() != KindGray {
		t.Fatalf("kind: got %s, want gray", img.Kind())
	}
	if !bytes.Equal(img.Buffer().Pix, src.Buffer().Pix) {
		t.Errorf("pixels: got %v, want %v", img.Buffer().Pix, src.Buffer().Pix)
	}
}

func TestEncode_Errors(t *testing.T) {
	src := grayImage(t, [][]uint8{{1}})
	var buf bytes.Buffer
	if err := Encode(&buf, src, "webp"); !errors.Is(err, ErrEncode) {
		t.Errorf("unsupported format: got %v, want ErrEncode", err)
	}
	if _, _, err := Decode(strings.NewReader("nope"), "x"); !errors.Is(err, ErrDecode) {
		t.Errorf("Decode garbage: got %v, want ErrDecode", err)
	}
}

func TestEncodeBase64(t *testing.T) {
	src := grayImage(t, [][]uint8{{1, 2}})
	tests := []struct {
		format, mime string
	}{
		{"", "image/png"},
		{"png", "image/png"},
		{"jpg", "image/jpeg"},
		{".tif", "image/tiff"},
	}
	for _, tt := range tests {
		data, mime, err := EncodeBase64(src, tt.format)
		if err != nil {
			t.Fatalf("EncodeBase64(%q) failed: %v", tt.format, err)
		}
		if mime != tt.mime || data == "" {
			t.Errorf("EncodeBase64(%q): got mime %q, %d bytes", tt.format, mime, len(data))
		}
	}
}
