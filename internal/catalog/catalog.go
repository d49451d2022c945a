package catalog

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
)

// ImageRef is a content-addressed handle to an encoded image. The bytes are
// shared between copies and must be treated as read-only.
type ImageRef struct {
	Digest    string
	MediaType string
	Source    string
	blob      *blob
}

type blob struct {
	data []byte
}

// NewImageRef copies data and addresses it by its sha256 digest.
func NewImageRef(data []byte, mediaType, source string) ImageRef {
	cp := make([]byte, len(data))
	copy(cp, data)
	sum := sha256.Sum256(cp)
	return ImageRef{
		Digest:    hex.EncodeToString(sum[:]),
		MediaType: strings.TrimSpace(mediaType),
		Source:    source,
		blob:      &blob{data: cp},
	}
}

// Bytes returns the encoded image data.
func (r ImageRef) Bytes() []byte {
	if r.blob == nil {
		return nil
	}
	return r.blob.data
}

// IsZero reports whether the reference points at no image.
func (r ImageRef) IsZero() bool {
	return r.Digest == "" || r.blob == nil
}

// ShortDigest returns an abbreviated digest for logs and tables.
func (r ImageRef) ShortDigest() string {
	if len(r.Digest) <= 12 {
		return r.Digest
	}
	return r.Digest[:12]
}

// Section is one slideshow entry.
type Section struct {
	Name    string
	Blurred ImageRef
	Clear   ImageRef
}

// Catalog is an immutable ordered sequence of sections.
type Catalog struct {
	sections []Section
}

// New validates sections and returns a catalog holding its own copy of them.
func New(sections []Section) (*Catalog, error) {
	if len(sections) == 0 {
		return nil, errors.New("catalog requires at least one section")
	}
	cp := make([]Section, len(sections))
	for i, section := range sections {
		if strings.TrimSpace(section.Name) == "" {
			return nil, fmt.Errorf("section %d: name is required", i)
		}
		if section.Blurred.IsZero() {
			return nil, fmt.Errorf("section %q: blurred image is required", section.Name)
		}
		if section.Clear.IsZero() {
			return nil, fmt.Errorf("section %q: clear image is required", section.Name)
		}
		cp[i] = section
	}
	return &Catalog{sections: cp}, nil
}

// Get returns the section at ordinal i.
func (c *Catalog) Get(i int) (Section, error) {
	if i < 0 || i >= len(c.sections) {
		return Section{}, &OutOfRangeError{Index: i, Len: len(c.sections)}
	}
	return c.sections[i], nil
}

// Len returns the fixed number of sections.
func (c *Catalog) Len() int {
	return len(c.sections)
}

// Names lists section names in order.
func (c *Catalog) Names() []string {
	names := make([]string, len(c.sections))
	for i, section := range c.sections {
		names[i] = section.Name
	}
	return names
}
