package imaging

import (
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"golang.org/x/image/bmp"
)

// writeImageFile encodes img as PNG at name inside a per-test directory.
func writeImageFile(t *testing.T, name string, img image.Image) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), name)
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("failed to create %s: %v", name, err)
	}
	defer f.Close()

	if err := png.Encode(f, img); err != nil {
		t.Fatalf("failed to encode %s: %v", name, err)
	}
	return path
}

// overwritePNG replaces the file at path with img.
func overwritePNG(t *testing.T, path string, img image.Image) {
	t.Helper()

	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("failed to reopen %s: %v", path, err)
	}
	defer f.Close()

	if err := png.Encode(f, img); err != nil {
		t.Fatalf("failed to encode %s: %v", path, err)
	}
}

func TestImageCache_Load(t *testing.T) {
	cache := NewImageCache()
	path := writeImageFile(t, "solid.png", createInMemoryImage(100, 60, color.RGBA{255, 0, 0, 255}))

	img1, err := cache.Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if b := img1.Bounds(); b.Dx() != 100 || b.Dy() != 60 {
		t.Errorf("dimensions: got %dx%d, want 100x60", b.Dx(), b.Dy())
	}

	img2, err := cache.Load(path)
	if err != nil {
		t.Fatalf("second Load failed: %v", err)
	}
	if img1 != img2 {
		t.Error("second Load did not return cached image")
	}
	if cache.Len() != 1 {
		t.Errorf("Len: got %d, want 1", cache.Len())
	}
}

func TestImageCache_Load_Failures(t *testing.T) {
	dir := t.TempDir()
	garbage := filepath.Join(dir, "garbage.png")
	if err := os.WriteFile(garbage, []byte("not an image"), 0o644); err != nil {
		t.Fatalf("failed to write file: %v", err)
	}

	tests := []struct {
		name string
		path string
	}{
		{"missing file", filepath.Join(dir, "missing.png")},
		{"not an image", garbage},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cache := NewImageCache()
			if _, err := cache.Load(tt.path); err == nil {
				t.Fatal("Load should fail")
			}
			if cache.Len() != 0 {
				t.Errorf("failed Load was cached: Len %d", cache.Len())
			}
		})
	}
}

func TestImageCache_EvictReloadsChangedFile(t *testing.T) {
	cache := NewImageCache()
	path := writeImageFile(t, "picked.png", createInMemoryImage(2, 2, color.RGBA{255, 0, 0, 255}))

	if _, err := cache.Load(path); err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	overwritePNG(t, path, createInMemoryImage(2, 2, color.RGBA{0, 0, 255, 255}))

	// Without eviction the cached raster is served.
	img, _ := cache.Load(path)
	if p, _ := Sample(img, 0, 0); p.Hex() != "#ff0000" {
		t.Errorf("cached pixel: got %s, want #ff0000", p.Hex())
	}

	cache.Evict(path)
	if cache.Len() != 0 {
		t.Errorf("Len after Evict: got %d, want 0", cache.Len())
	}

	img, err := cache.Load(path)
	if err != nil {
		t.Fatalf("Load after Evict failed: %v", err)
	}
	if p, _ := Sample(img, 0, 0); p.Hex() != "#0000ff" {
		t.Errorf("reloaded pixel: got %s, want #0000ff", p.Hex())
	}

	// Evicting an unknown path is a no-op.
	cache.Evict(filepath.Join(t.TempDir(), "never-loaded.png"))
}

func TestImageCache_ConcurrentAccess(t *testing.T) {
	cache := NewImageCache()
	path := writeImageFile(t, "gray.png", createInMemoryImage(50, 50, color.RGBA{128, 128, 128, 255}))

	var wg sync.WaitGroup
	errs := make(chan error, 50)

	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(evict bool) {
			defer wg.Done()
			if evict {
				cache.Evict(path)
			}
			if _, err := cache.Load(path); err != nil {
				errs <- err
			}
		}(i%5 == 0)
	}

	wg.Wait()
	close(errs)

	for err := range errs {
		t.Errorf("concurrent Load error: %v", err)
	}
}

func TestLoadImageInfo(t *testing.T) {
	cache := NewImageCache()
	path := writeImageFile(t, "info.png", createInMemoryImage(200, 150, color.RGBA{255, 128, 64, 255}))

	info, err := LoadImageInfo(cache, path)
	if err != nil {
		t.Fatalf("LoadImageInfo failed: %v", err)
	}
	if info.Width != 200 || info.Height != 150 {
		t.Errorf("dimensions: got %dx%d, want 200x150", info.Width, info.Height)
	}
	if info.Format != "png" {
		t.Errorf("Format: got %s, want png", info.Format)
	}
	if info.FileSizeBytes <= 0 {
		t.Error("FileSizeBytes should be positive")
	}

	if _, err := LoadImageInfo(cache, filepath.Join(t.TempDir(), "missing.png")); err == nil {
		t.Error("LoadImageInfo should fail for a missing file")
	}
}

func TestFormatFromExt(t *testing.T) {
	tests := []struct {
		path   string
		format string
	}{
		{"a.png", "png"},
		{"a.jpg", "jpeg"},
		{"a.JPEG", "jpeg"},
		{"a.GIF", "gif"},
		{"a.bmp", "bmp"},
		{"a.tif", "tiff"},
		{"a.tiff", "tiff"},
		{"a.webp", "webp"},
		{"a.xyz", "unknown"},
		{"noext", "unknown"},
	}

	for _, tt := range tests {
		if got := formatFromExt(tt.path); got != tt.format {
			t.Errorf("formatFromExt(%q): got %s, want %s", tt.path, got, tt.format)
		}
	}
}

func TestGetDimensions(t *testing.T) {
	cache := NewImageCache()
	path := writeImageFile(t, "dims.png", createInMemoryImage(300, 200, color.RGBA{100, 100, 100, 255}))

	dims, err := GetDimensions(cache, path)
	if err != nil {
		t.Fatalf("GetDimensions failed: %v", err)
	}
	if dims.Width != 300 || dims.Height != 200 {
		t.Errorf("dimensions: got %dx%d, want 300x200", dims.Width, dims.Height)
	}
}

func TestImageCache_Load_BMP(t *testing.T) {
	src := image.NewRGBA(image.Rect(0, 0, 3, 2))
	src.Set(2, 1, color.RGBA{12, 34, 56, 255})

	path := filepath.Join(t.TempDir(), "gallery.bmp")
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("failed to create file: %v", err)
	}
	if err := bmp.Encode(f, src); err != nil {
		f.Close()
		t.Fatalf("failed to encode bmp: %v", err)
	}
	f.Close()

	img, err := NewImageCache().Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	p, err := Sample(img, 2, 1)
	if err != nil {
		t.Fatalf("Sample failed: %v", err)
	}
	if p.Hex() != "#0c2238" {
		t.Errorf("pixel: got %s, want #0c2238", p.Hex())
	}
}

func TestImageCache_Load_PreservesPixels(t *testing.T) {
	path := writeImageFile(t, "pattern.png", createPatternImage(40, 40))

	img, err := NewImageCache().Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	tests := []struct {
		x, y int
		hex  string
	}{
		{0, 0, "#ff0000"},
		{39, 0, "#00ff00"},
		{0, 39, "#0000ff"},
		{39, 39, "#ffffff"},
	}
	for _, tt := range tests {
		p, err := Sample(img, tt.x, tt.y)
		if err != nil {
			t.Fatalf("Sample(%d,%d) failed: %v", tt.x, tt.y, err)
		}
		if p.Hex() != tt.hex {
			t.Errorf("Sample(%d,%d): got %s, want %s", tt.x, tt.y, p.Hex(), tt.hex)
		}
	}
}
