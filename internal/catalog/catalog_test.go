package catalog_test

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"slideloop/internal/catalog"
)

func TestGetReturnsSectionsInOrder(t *testing.T) {
	cat := catalog.Demo()

	require.Equal(t, 5, cat.Len())
	assert.Equal(t, []string{"Email", "Music App", "Photo", "Website", "Camera"}, cat.Names())

	section, err := cat.Get(3)
	require.NoError(t, err)
	assert.Equal(t, "Website", section.Name)
	assert.NotEqual(t, section.Blurred.Digest, section.Clear.Digest)
}

func TestGetRejectsOutOfRange(t *testing.T) {
	cat := catalog.Demo()

	for _, idx := range []int{-1, 5, 42} {
		_, err := cat.Get(idx)
		var rangeErr *catalog.OutOfRangeError
		require.True(t, errors.As(err, &rangeErr), "index %d", idx)
		assert.Equal(t, idx, rangeErr.Index)
		assert.Equal(t, 5, rangeErr.Len)
	}
}

func TestNewRejectsInvalidSections(t *testing.T) {
	img := catalog.NewImageRef([]byte("x"), "image/png", "mem")

	_, err := catalog.New(nil)
	assert.Error(t, err)

	_, err = catalog.New([]catalog.Section{{Name: "Email", Clear: img}})
	assert.ErrorContains(t, err, "blurred image is required")

	_, err = catalog.New([]catalog.Section{{Blurred: img, Clear: img}})
	assert.ErrorContains(t, err, "name is required")
}

func TestImageRefIsContentAddressed(t *testing.T) {
	data := []byte("same bytes")
	a := catalog.NewImageRef(data, "image/png", "a.png")
	b := catalog.NewImageRef(data, "image/png", "b.png")

	assert.Equal(t, a.Digest, b.Digest)
	assert.Len(t, a.ShortDigest(), 12)

	data[0] = 'X'
	assert.Equal(t, "same bytes", string(a.Bytes()), "ImageRef must own a copy of its data")
}

func TestLoadManifestYAML(t *testing.T) {
	dir := t.TempDir()
	writeAsset(t, dir, "email-blur.png")
	writeAsset(t, dir, "email.png")
	writeAsset(t, dir, "music-app_blur.png")
	writeAsset(t, dir, "music-app_clear.png")

	manifest := `sections:
  - name: Inbox
    blurred: email-blur.png
    clear: email.png
  - blurred: music-app_blur.png
    clear: music-app_clear.png
`
	path := filepath.Join(dir, "catalog.yaml")
	require.NoError(t, os.WriteFile(path, []byte(manifest), 0o644))

	cat, err := catalog.LoadManifest(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"Inbox", "Music App"}, cat.Names())

	section, err := cat.Get(1)
	require.NoError(t, err)
	assert.Equal(t, "image/png", section.Clear.MediaType)
	assert.Equal(t, filepath.Join(dir, "music-app_clear.png"), section.Clear.Source)
}

func TestLoadManifestTOML(t *testing.T) {
	dir := t.TempDir()
	writeAsset(t, dir, "camera-blur.png")
	writeAsset(t, dir, "camera.png")

	manifest := `[[sections]]
blurred = "camera-blur.png"
clear = "camera.png"
`
	path := filepath.Join(dir, "catalog.toml")
	require.NoError(t, os.WriteFile(path, []byte(manifest), 0o644))

	cat, err := catalog.LoadManifest(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"Camera"}, cat.Names())
}

func TestLoadManifestErrors(t *testing.T) {
	dir := t.TempDir()

	missing := filepath.Join(dir, "catalog.yaml")
	require.NoError(t, os.WriteFile(missing, []byte("sections:\n  - blurred: a.png\n    clear: b.png\n"), 0o644))
	_, err := catalog.LoadManifest(missing)
	assert.ErrorContains(t, err, "read image")

	empty := filepath.Join(dir, "empty.yaml")
	require.NoError(t, os.WriteFile(empty, []byte("sections: []\n"), 0o644))
	_, err = catalog.LoadManifest(empty)
	assert.ErrorContains(t, err, "at least one section")

	unknown := filepath.Join(dir, "catalog.json")
	require.NoError(t, os.WriteFile(unknown, []byte("{}"), 0o644))
	_, err = catalog.LoadManifest(unknown)
	assert.ErrorContains(t, err, "unsupported manifest format")
}

func TestDisplayName(t *testing.T) {
	cases := map[string]string{
		"assets/music-app_clear.png": "Music App",
		"website.jpg":                "Website",
		"photo_library.clear.png":    "Photo Library",
		"---.png":                    "Untitled",
	}
	for in, want := range cases {
		assert.Equal(t, want, catalog.DisplayName(in), in)
	}
}

func writeAsset(t *testing.T, dir, name string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte("asset:"+name), 0o644))
}
