// Package sniff determines MIME types for paths using two independent
// strategies: content-based magic detection and extension-based guessing.
package sniff

import (
	"bytes"
	"fmt"
	"io"
	"mime"
	"os"
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"
)

// DefaultMaxBytes is how much of a file the content detector reads.
const DefaultMaxBytes uint32 = 3072

// octetStream is mimetype's root type, returned when no magic matched.
const octetStream = "application/octet-stream"

var jpegSignature = []byte{0xFF, 0xD8, 0xFF}

// Sniffer resolves MIME types. Read-only; no call retains a file handle.
type Sniffer struct {
	maxBytes uint32
}

// Option customizes a Sniffer.
type Option func(*Sniffer)

// WithMaxBytes bounds the number of bytes read for content detection.
func WithMaxBytes(n uint32) Option {
	return func(s *Sniffer) {
		if n > 0 {
			s.maxBytes = n
		}
	}
}

func New(opts ...Option) *Sniffer {
	s := &Sniffer{maxBytes: DefaultMaxBytes}
	for _, opt := range opts {
		opt(s)
	}
	mimetype.SetLimit(s.maxBytes)
	return s
}

// Resolve returns the best MIME type for path: content-based detection
// first, falling back to the extension table when the content is not
// recognized. An empty string means both strategies failed.
func (s *Sniffer) Resolve(path string) (string, error) {
	detected, err := mimetype.DetectFile(path)
	if err != nil {
		return "", fmt.Errorf("failed to sniff %s: %w", path, err)
	}
	mt := stripParams(detected.String())
	if mt != "" && mt != octetStream {
		return mt, nil
	}
	return s.ByExtension(path), nil
}

// ByExtension guesses a MIME type from the path's suffix alone, without
// touching the file. Empty string when the extension is unknown.
func (s *Sniffer) ByExtension(path string) string {
	ext := strings.ToLower(filepath.Ext(path))
	if ext == "" {
		return ""
	}
	if mt, ok := mimeByExtension[ext]; ok {
		return mt
	}
	return stripParams(mime.TypeByExtension(ext))
}

// IsJPEG reports whether the file's raw header carries the JPEG
// signature. Any read failure counts as not JPEG.
func IsJPEG(path string) bool {
	f, err := os.Open(path)
	if err != nil {
		return false
	}
	defer f.Close()

	header := make([]byte, len(jpegSignature))
	if _, err := io.ReadFull(f, header); err != nil {
		return false
	}
	return bytes.Equal(header, jpegSignature)
}

// stripParams drops any media-type parameters, e.g.
// "text/plain; charset=utf-8" becomes "text/plain".
func stripParams(mt string) string {
	if i := strings.IndexByte(mt, ';'); i >= 0 {
		mt = mt[:i]
	}
	return strings.TrimSpace(mt)
}

// mimeByExtension maps file extensions to their MIME types.
var mimeByExtension = map[string]string{
	// Images
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".png":  "image/png",
	".gif":  "image/gif",
	".bmp":  "image/bmp",
	".webp": "image/webp",
	".svg":  "image/svg+xml",
	".ico":  "image/x-icon",
	".tiff": "image/tiff",
	".tif":  "image/tiff",
	".heic": "image/heic",
	".heif": "image/heif",

	// Videos
	".mp4":  "video/mp4",
	".mkv":  "video/x-matroska",
	".avi":  "video/x-msvideo",
	".mov":  "video/quicktime",
	".wmv":  "video/x-ms-wmv",
	".flv":  "video/x-flv",
	".webm": "video/webm",
	".m4v":  "video/x-m4v",
	".mpeg": "video/mpeg",
	".mpg":  "video/mpeg",
	".3gp":  "video/3gpp",
	".ts":   "video/mp2t",

	// Audio
	".mp3":  "audio/mpeg",
	".flac": "audio/flac",
	".ogg":  "audio/ogg",
	".oga":  "audio/ogg",
	".wav":  "audio/x-wav",
	".m4a":  "audio/mp4",
	".aac":  "audio/aac",
	".opus": "audio/opus",
	".wma":  "audio/x-ms-wma",

	// Archives
	".zip": "application/zip",
	".tar": "application/x-tar",
	".gz":  "application/gzip",
	".tgz": "application/gzip",
	".bz2": "application/x-bzip2",
	".xz":  "application/x-xz",
	".7z":  "application/x-7z-compressed",
	".rar": "application/vnd.rar",
	".iso": "application/x-iso9660-image",

	// Common documents
	".txt":  "text/plain",
	".md":   "text/markdown",
	".json": "application/json",
	".pdf":  "application/pdf",
	".html": "text/html",
	".htm":  "text/html",
	".xml":  "application/xml",
	".csv":  "text/csv",
}
