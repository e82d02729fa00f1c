package catalog

import (
	"path/filepath"
	"time"
)

// Entry is one classified filesystem node. Concrete kinds embed base
// and layer their extra fields on top of the base document; the base
// fields are never removed or renamed by a kind.
type Entry interface {
	Kind() Kind
	Path() string
	Size() int64
	ModTime() time.Time
	// MIME returns the resolved MIME type, empty when undetermined or
	// when the kind does not read content.
	MIME() string
	// SHA256 returns the hex content digest, empty for kinds that do
	// not read content.
	SHA256() string
	// Document renders the entry for the JSON snapshot.
	Document() map[string]any
}

// base carries the fields shared by every entry kind, plus a
// non-owning back-reference to the owning tree used only to render
// the path relative to the tree root.
type base struct {
	kind    Kind
	path    string
	tree    *Tree
	size    int64
	modTime time.Time
	mime    string
	sha256  string
}

func (b *base) Kind() Kind         { return b.kind }
func (b *base) Path() string       { return b.path }
func (b *base) Size() int64        { return b.size }
func (b *base) ModTime() time.Time { return b.modTime }
func (b *base) MIME() string       { return b.mime }
func (b *base) SHA256() string     { return b.sha256 }

func (b *base) Document() map[string]any {
	path := b.path
	if b.tree != nil {
		if rel, err := filepath.Rel(b.tree.Path, b.path); err == nil {
			path = rel
		}
	}
	doc := map[string]any{
		"type":   string(b.kind),
		"path":   path,
		"size":   b.size,
		"mtime":  float64(b.modTime.UnixNano()) / 1e9,
		"mime":   nil,
		"sha256": nil,
	}
	if b.mime != "" {
		doc["mime"] = b.mime
	}
	if b.sha256 != "" {
		doc["sha256"] = b.sha256
	}
	return doc
}

// FileEntry is the generic kind; it has no MIME constraint and every
// regular file can be represented by it.
type FileEntry struct{ base }

// ArchiveEntry is declared for completeness of the kind set; the
// classifier never selects it (archive detection is out of scope).
type ArchiveEntry struct{ base }

// DirEntry represents a directory; content is never read.
type DirEntry struct{ base }

// AudioEntry carries the audio field group, currently empty (tag
// metadata is a future concern).
type AudioEntry struct{ base }

// SymlinkEntry records a symlink and its resolved target without
// following it.
type SymlinkEntry struct {
	base
	Target string
}

func (e *SymlinkEntry) Document() map[string]any {
	doc := e.base.Document()
	doc["target"] = e.Target
	return doc
}

// Camera is the (make, model) pair read from embedded metadata.
// Members are individually nullable.
type Camera struct {
	Make  *string
	Model *string
}

// Resolution is a (width, height) pair in pixels.
type Resolution struct {
	Width  int
	Height int
}

// ImageFields is the image-derived field group shared by the image
// and video kinds. All fields are independently optional.
type ImageFields struct {
	Camera      *Camera
	Resolution  *Resolution
	Orientation string
	// HasThumbnail records whether an embedded preview payload was
	// present. Kept in memory only; the payload itself is dropped to
	// bound output size and the flag is not serialized.
	HasThumbnail bool
}

func (f *ImageFields) document(doc map[string]any) {
	doc["camera"] = nil
	doc["resolution"] = nil
	doc["orientation"] = nil
	if f.Camera != nil {
		doc["camera"] = []any{strOrNil(f.Camera.Make), strOrNil(f.Camera.Model)}
	}
	if f.Resolution != nil {
		doc["resolution"] = []any{f.Resolution.Width, f.Resolution.Height}
	}
	if f.Orientation != "" {
		doc["orientation"] = f.Orientation
	}
}

func strOrNil(s *string) any {
	if s == nil {
		return nil
	}
	return *s
}

// ImageEntry augments the base with metadata derived from the image
// bytes themselves.
type ImageEntry struct {
	base
	Image ImageFields
}

func (e *ImageEntry) Document() map[string]any {
	doc := e.base.Document()
	e.Image.document(doc)
	return doc
}

// VideoEntry is a dual-capability kind: it carries the image field
// group alongside the (currently empty) audio group, rather than
// specializing either.
type VideoEntry struct {
	base
	Image ImageFields
}

func (e *VideoEntry) Document() map[string]any {
	doc := e.base.Document()
	e.Image.document(doc)
	return doc
}
