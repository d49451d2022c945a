package catalog

import (
	"bytes"
	"errors"
	"fmt"
	"mime"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"gopkg.in/yaml.v3"
)

type manifest struct {
	Sections []manifestSection `yaml:"sections" toml:"sections"`
}

type manifestSection struct {
	Name    string `yaml:"name" toml:"name"`
	Blurred string `yaml:"blurred" toml:"blurred"`
	Clear   string `yaml:"clear" toml:"clear"`
}

// LoadManifest reads a YAML or TOML manifest and resolves every image it
// names. The asset files are fully read before the catalog is returned.
func LoadManifest(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read manifest: %w", err)
	}

	var m manifest
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".yaml", ".yml":
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(&m); err != nil {
			return nil, fmt.Errorf("parse manifest %s: %w", path, err)
		}
	case ".toml":
		dec := toml.NewDecoder(bytes.NewReader(data))
		dec.DisallowUnknownFields()
		if err := dec.Decode(&m); err != nil {
			return nil, fmt.Errorf("parse manifest %s: %w", path, err)
		}
	default:
		return nil, fmt.Errorf("unsupported manifest format %q (supported: .yaml, .yml, .toml)", ext)
	}

	baseDir := filepath.Dir(path)
	sections := make([]Section, 0, len(m.Sections))
	for i, entry := range m.Sections {
		section, err := resolveSection(baseDir, entry)
		if err != nil {
			return nil, fmt.Errorf("manifest section %d: %w", i, err)
		}
		sections = append(sections, section)
	}
	return New(sections)
}

func resolveSection(baseDir string, entry manifestSection) (Section, error) {
	if strings.TrimSpace(entry.Blurred) == "" || strings.TrimSpace(entry.Clear) == "" {
		return Section{}, errors.New("both blurred and clear images are required")
	}
	blurred, err := readImage(baseDir, entry.Blurred)
	if err != nil {
		return Section{}, err
	}
	clearImg, err := readImage(baseDir, entry.Clear)
	if err != nil {
		return Section{}, err
	}
	name := strings.TrimSpace(entry.Name)
	if name == "" {
		name = DisplayName(entry.Clear)
	}
	return Section{Name: name, Blurred: blurred, Clear: clearImg}, nil
}

func readImage(baseDir, rel string) (ImageRef, error) {
	path := rel
	if !filepath.IsAbs(path) {
		path = filepath.Join(baseDir, rel)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return ImageRef{}, fmt.Errorf("read image: %w", err)
	}
	if len(data) == 0 {
		return ImageRef{}, fmt.Errorf("read image %s: file is empty", path)
	}
	mediaType := mime.TypeByExtension(strings.ToLower(filepath.Ext(path)))
	if mediaType == "" {
		mediaType = "application/octet-stream"
	}
	return NewImageRef(data, mediaType, path), nil
}

// DisplayName derives a human-readable section name from an image path:
// "assets/music-app_clear.png" becomes "Music App".
func DisplayName(path string) string {
	stem := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	for _, suffix := range []string{"_clear", "-clear", ".clear"} {
		stem = strings.TrimSuffix(stem, suffix)
	}
	stem = strings.NewReplacer("-", " ", "_", " ", ".", " ").Replace(stem)
	stem = strings.Join(strings.Fields(stem), " ")
	if stem == "" {
		return "Untitled"
	}
	return cases.Title(language.English).String(stem)
}
