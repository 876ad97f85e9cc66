package ioutils

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestSanitizeFileName(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"normal-file", "normal-file"},
		{"file:with:colons", "filewithcolons"},
		{"file<with>brackets", "filewithbrackets"},
		{"AC/DC", "ACDC"},
		{"file|with|pipes", "filewithpipes"},
		{"file?with*wildcards", "filewithwildcards"},
		{`file"with"quotes`, "filewithquotes"},
		{`back\slash`, `back\slash`},
		{"trailing dots...", "trailing dots..."},
		{"", ""},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := SanitizeFileName(tt.input); got != tt.want {
				t.Errorf("SanitizeFileName(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestSanitizeFileName_Idempotent(t *testing.T) {
	inputs := []string{
		`a:b/c"d*e<f>g|h?i`,
		"::::",
		"Señor / Niño?",
		"01",
		"  spaced : out  ",
	}

	for _, in := range inputs {
		once := SanitizeFileName(in)
		twice := SanitizeFileName(once)
		if once != twice {
			t.Errorf("SanitizeFileName not idempotent for %q: %q then %q", in, once, twice)
		}
		if strings.ContainsAny(once, forbiddenChars) {
			t.Errorf("SanitizeFileName(%q) = %q still contains forbidden characters", in, once)
		}
	}
}

func TestEnsureDir(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "Artist", "Album")

	for i := 0; i < 2; i++ {
		if err := EnsureDir(dir); err != nil {
			t.Fatalf("EnsureDir call %d: %v", i+1, err)
		}
	}

	info, err := os.Stat(dir)
	if err != nil {
		t.Fatalf("stat: %v", err)
	}
	if !info.IsDir() {
		t.Errorf("%s is not a directory", dir)
	}
}

func TestWriteFile_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	path := filepath.Join(t.TempDir(), "cover.jpg")
	if err := WriteFile(ctx, path, []byte("x")); err == nil {
		t.Fatal("expected error for cancelled context")
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Errorf("file should not exist, stat err = %v", err)
	}
}

func TestFitWithin(t *testing.T) {
	tests := []struct {
		name         string
		w, h         int
		maxW, maxH   int
		wantW, wantH int
	}{
		{"already fits", 800, 600, 1000, 1000, 800, 600},
		{"wide", 1500, 1000, 1000, 1000, 1000, 666},
		{"tall", 1000, 2000, 1000, 1000, 500, 1000},
		{"square", 3000, 3000, 1200, 1200, 1200, 1200},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, h := fitWithin(tt.w, tt.h, tt.maxW, tt.maxH)
			if w != tt.wantW || h != tt.wantH {
				t.Errorf("fitWithin() = %dx%d, want %dx%d", w, h, tt.wantW, tt.wantH)
			}
		})
	}
}

func TestImageService_PrepareCover(t *testing.T) {
	svc := NewImageService()
	ctx := context.Background()

	pngData := encodeTestImage(t, "png", 40, 20)
	jpegData := encodeTestImage(t, "jpeg", 40, 20)

	t.Run("png converted to jpeg", func(t *testing.T) {
		out, err := svc.PrepareCover(ctx, pngData, 0)
		if err != nil {
			t.Fatalf("PrepareCover: %v", err)
		}
		assertJPEG(t, out, 40, 20)
	})

	t.Run("fitting jpeg unchanged", func(t *testing.T) {
		out, err := svc.PrepareCover(ctx, jpegData, 100)
		if err != nil {
			t.Fatalf("PrepareCover: %v", err)
		}
		if !bytes.Equal(out, jpegData) {
			t.Error("expected original bytes for a JPEG within bounds")
		}
	})

	t.Run("oversized jpeg scaled", func(t *testing.T) {
		out, err := svc.PrepareCover(ctx, jpegData, 10)
		if err != nil {
			t.Fatalf("PrepareCover: %v", err)
		}
		assertJPEG(t, out, 10, 5)
	})

	t.Run("garbage rejected", func(t *testing.T) {
		if _, err := svc.PrepareCover(ctx, []byte("<html>not an image</html>"), 0); err == nil {
			t.Error("expected error for non-image data")
		}
	})
}

func encodeTestImage(t *testing.T, format string, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x++ {
		for y := 0; y < h; y++ {
			img.Set(x, y, color.RGBA{R: uint8(x * 5), G: uint8(y * 10), B: 128, A: 255})
		}
	}

	var buf bytes.Buffer
	var err error
	if format == "png" {
		err = png.Encode(&buf, img)
	} else {
		err = jpeg.Encode(&buf, img, nil)
	}
	if err != nil {
		t.Fatalf("encode %s: %v", format, err)
	}
	return buf.Bytes()
}

func assertJPEG(t *testing.T, data []byte, wantW, wantH int) {
	t.Helper()
	cfg, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("decode result: %v", err)
	}
	if format != "jpeg" {
		t.Errorf("format = %q, want jpeg", format)
	}
	if cfg.Width != wantW || cfg.Height != wantH {
		t.Errorf("size = %dx%d, want %dx%d", cfg.Width, cfg.Height, wantW, wantH)
	}
}
