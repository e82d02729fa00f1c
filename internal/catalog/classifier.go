package catalog

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"mediacat/internal/digest"
	"mediacat/internal/sniff"

	assert "github.com/ZanzyTHEbar/assert-lib"
	"github.com/rs/zerolog"
)

// MiskindError reports a file whose content-sniffed MIME does not
// start with the prefix declared by the kind it was dispatched to.
// It is recovered inside Classify by demotion to the generic file
// kind and never escapes to callers.
type MiskindError struct {
	Path      string
	Attempted Kind
	Detected  string
}

func (e *MiskindError) Error() string {
	return fmt.Sprintf("%s is not a %s (detected %q)", e.Path, e.Attempted, e.Detected)
}

// Classifier maps a filesystem path to an Entry. Classification is
// conservative: a file can only be demoted to the generic kind, never
// promoted to a wrong specific kind, because dispatch uses the
// extension guess alone and the content sniff validates it.
type Classifier struct {
	sniffer *sniff.Sniffer
	asserts *assert.AssertHandler
	logger  zerolog.Logger
}

func NewClassifier(sniffer *sniff.Sniffer, logger zerolog.Logger) *Classifier {
	if sniffer == nil {
		sniffer = sniff.New()
	}
	return &Classifier{
		sniffer: sniffer,
		asserts: assert.NewAssertHandler(),
		logger:  logger,
	}
}

// Classify determines the kind for path and constructs the entry.
// Special file types (FIFOs, devices, sockets) are outside the
// declared domain and fail a fatal precondition. I/O failures
// propagate; there are no retries.
func (c *Classifier) Classify(ctx context.Context, path string, tree *Tree) (Entry, error) {
	info, err := os.Lstat(path)
	if err != nil {
		return nil, fmt.Errorf("failed to stat %s: %w", path, err)
	}

	kind := c.determineKind(ctx, path, info)

	entry, err := c.construct(kind, path, tree)
	var miskind *MiskindError
	if errors.As(err, &miskind) {
		c.logger.Warn().
			Str("path", miskind.Path).
			Str("attempted", string(miskind.Attempted)).
			Str("detected", miskind.Detected).
			Msg("not my kind of file, demoting to generic file")
		// The generic kind has no MIME constraint and cannot miskind.
		return c.construct(KindFile, path, tree)
	}
	return entry, err
}

// determineKind picks the candidate kind from filesystem metadata and
// the extension-guessed MIME only; no file content is read before the
// entry type is known.
func (c *Classifier) determineKind(ctx context.Context, path string, info os.FileInfo) Kind {
	if info.Mode()&os.ModeSymlink != 0 {
		return KindSymlink
	}
	if info.IsDir() {
		return KindDir
	}
	c.asserts.Assert(ctx, info.Mode().IsRegular(),
		fmt.Sprintf("unsupported special file type at %s (mode %s)", path, info.Mode()))

	mimext := c.sniffer.ByExtension(path)
	if mimext == "" {
		return KindFile
	}
	for _, candidate := range mediaPriority {
		if strings.HasPrefix(mimext, kindSpecs[candidate].MimePrefix) {
			return candidate
		}
	}
	return KindFile
}

// construct builds the entry for an already-chosen kind: stat
// collection, content sniffing with prefix validation, hashing, and
// kind-specific derivation.
func (c *Classifier) construct(kind Kind, path string, tree *Tree) (Entry, error) {
	spec := kindSpecs[kind]

	var info os.FileInfo
	var err error
	if kind == KindSymlink {
		info, err = os.Lstat(path)
	} else {
		info, err = os.Stat(path)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to stat %s: %w", path, err)
	}

	b := base{
		kind:    kind,
		path:    path,
		tree:    tree,
		size:    info.Size(),
		modTime: info.ModTime(),
	}

	if spec.ReadsContent {
		mime, err := c.sniffer.Resolve(path)
		if err != nil {
			return nil, err
		}
		b.mime = mime
		// An unresolved MIME on a prefix-constrained kind is a
		// mismatch, not a crash.
		if spec.MimePrefix != "" && !strings.HasPrefix(mime, spec.MimePrefix) {
			return nil, &MiskindError{Path: path, Attempted: kind, Detected: mime}
		}
		if b.sha256, err = digest.Sum(path); err != nil {
			return nil, err
		}
	}

	switch kind {
	case KindSymlink:
		target, err := resolveTarget(path)
		if err != nil {
			return nil, err
		}
		return &SymlinkEntry{base: b, Target: target}, nil
	case KindDir:
		return &DirEntry{base: b}, nil
	case KindArchive:
		return &ArchiveEntry{base: b}, nil
	case KindImage:
		return &ImageEntry{base: b, Image: deriveImageFields(path)}, nil
	case KindAudio:
		return &AudioEntry{base: b}, nil
	case KindVideo:
		return &VideoEntry{base: b, Image: deriveImageFields(path)}, nil
	default:
		return &FileEntry{base: b}, nil
	}
}

// resolveTarget returns the absolute resolved target of a symlink.
// A broken or cyclic link still resolves textually rather than
// failing.
func resolveTarget(path string) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("failed to absolutize %s: %w", path, err)
	}
	if resolved, err := filepath.EvalSymlinks(abs); err == nil {
		return resolved, nil
	}
	dest, err := os.Readlink(abs)
	if err != nil {
		return "", fmt.Errorf("failed to read link %s: %w", path, err)
	}
	if !filepath.IsAbs(dest) {
		dest = filepath.Join(filepath.Dir(abs), dest)
	}
	return filepath.Clean(dest), nil
}
