// Package source locates, loads and caches the configuration reference
// document.
package source

import (
	_ "embed"
	"fmt"
	"os"
	"path/filepath"
)

//go:embed symfony2-config.xml
var bundledXML []byte

// BundledID identifies the reference document shipped with the binary.
const BundledID = "bundled"

// Bundled returns the embedded reference XML.
func Bundled() []byte {
	return bundledXML
}

// Source is where a schema document comes from.
type Source struct {
	// Path is the absolute override file, empty for the bundled document.
	Path    string
	Size    int64
	ModTime int64 // unix nanoseconds
}

// IsBundled reports whether s is the embedded document.
func (s Source) IsBundled() bool {
	return s.Path == ""
}

// ID returns the cache identity of s. An override changes identity whenever
// its size or modification time does.
func (s Source) ID() string {
	if s.IsBundled() {
		return BundledID
	}
	return fmt.Sprintf("%s@%d:%d", s.Path, s.Size, s.ModTime)
}

// String returns the human readable origin.
func (s Source) String() string {
	if s.IsBundled() {
		return BundledID
	}
	return s.Path
}

// Locator picks the project override when it exists, else the bundled
// document.
type Locator struct {
	overridePath string
}

// NewLocator creates a locator. overridePath is relative to the project root
// unless absolute.
func NewLocator(overridePath string) *Locator {
	return &Locator{overridePath: overridePath}
}

// OverrideFile returns the absolute override path for a project root.
func (l *Locator) OverrideFile(projectRoot string) string {
	if filepath.IsAbs(l.overridePath) {
		return filepath.Clean(l.overridePath)
	}
	p := filepath.Join(projectRoot, l.overridePath)
	if abs, err := filepath.Abs(p); err == nil {
		return abs
	}
	return p
}

// Locate returns the source for a completion request in projectRoot.
func (l *Locator) Locate(projectRoot string) Source {
	if l.overridePath == "" {
		return Source{}
	}
	path := l.OverrideFile(projectRoot)
	info, err := os.Stat(path)
	if err != nil || !info.Mode().IsRegular() {
		return Source{}
	}
	return Source{Path: path, Size: info.Size(), ModTime: info.ModTime().UnixNano()}
}
