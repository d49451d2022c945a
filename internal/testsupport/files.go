package testsupport

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// WritePNG writes a small solid PNG to path, creating parent directories.
func WritePNG(t testing.TB, path string, c color.RGBA) {
	t.Helper()

	img := image.NewRGBA(image.Rect(0, 0, 4, 3))
	for y := 0; y < 3; y++ {
		for x := 0; x < 4; x++ {
			img.SetRGBA(x, y, c)
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("encode png: %v", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir for %s: %v", path, err)
	}
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

// WriteManifest writes a YAML manifest in dir with one blurred/clear PNG pair
// per name and returns the manifest path.
func WriteManifest(t testing.TB, dir string, names ...string) string {
	t.Helper()

	var manifest strings.Builder
	manifest.WriteString("sections:\n")
	for i, name := range names {
		slug := strings.ToLower(strings.ReplaceAll(name, " ", "_"))
		shade := uint8(40 * (i + 1))
		WritePNG(t, filepath.Join(dir, "images", slug+"_blurred.png"), color.RGBA{R: shade, G: shade, B: shade, A: 0xff})
		WritePNG(t, filepath.Join(dir, "images", slug+"_clear.png"), color.RGBA{R: shade, A: 0xff})
		fmt.Fprintf(&manifest, "  - name: %q\n    blurred: images/%s_blurred.png\n    clear: images/%s_clear.png\n", name, slug, slug)
	}

	path := filepath.Join(dir, "catalog.yaml")
	if err := os.WriteFile(path, []byte(manifest.String()), 0o644); err != nil {
		t.Fatalf("write manifest: %v", err)
	}
	return path
}
