// Package catalog holds the immutable, ordered set of slideshow sections.
//
// Each Section pairs a blurred and a clear ImageRef of the same content. A
// Catalog is built once (from a manifest on disk or the built-in demo set) and
// is read-only afterwards, so any number of goroutines may call Get and Len.
//
// Manifests may be YAML or TOML; image paths resolve relative to the manifest
// file and section names default to a title-cased form of the clear image's
// file name.
package catalog
