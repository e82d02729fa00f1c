package catalog

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"syscall"
	"time"

	internal "mediacat/internal"
	"mediacat/internal/sniff"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	ignore "github.com/sabhiram/go-gitignore"
)

// Tree is one walked, fully-classified directory subtree. It is
// immutable after Walk returns and exclusively owns its entries.
type Tree struct {
	// Path is the root as given to Walk; entry paths are rendered
	// relative to it.
	Path string
	// Resolved is the absolute, symlink-resolved root.
	Resolved string
	ID       uuid.UUID
	// FSRoot is set when the resolved root is a mount point. A
	// classification flag only; traversal is identical either way.
	FSRoot  bool
	Entries []Entry
}

// Document renders the tree for the JSON snapshot.
func (t *Tree) Document() map[string]any {
	files := make([]map[string]any, 0, len(t.Entries))
	for _, entry := range t.Entries {
		files = append(files, entry.Document())
	}
	return map[string]any{
		"root":     t.Resolved,
		"files":    files,
		"treeuuid": t.ID.String(),
		"fs":       t.FSRoot,
	}
}

// Walker enumerates a directory subtree and classifies every node
// into an Entry, strictly sequentially in walk order.
type Walker struct {
	classifier *Classifier
	logger     zerolog.Logger
	ignoreFile string
}

// WalkerOption allows for customization of a Walker.
type WalkerOption func(*Walker)

// WithLogger sets a custom logger.
func WithLogger(logger zerolog.Logger) WalkerOption {
	return func(w *Walker) {
		w.logger = logger
	}
}

// WithClassifier sets a custom classifier.
func WithClassifier(c *Classifier) WalkerOption {
	return func(w *Walker) {
		w.classifier = c
	}
}

// WithIgnoreFile sets the name of the optional ignore file looked up
// at the walk root. Empty disables ignore handling.
func WithIgnoreFile(name string) WalkerOption {
	return func(w *Walker) {
		w.ignoreFile = name
	}
}

func NewWalker(opts ...WalkerOption) *Walker {
	w := &Walker{
		logger:     internal.GetLogger(),
		ignoreFile: internal.DefaultIgnoreFile,
	}
	for _, opt := range opts {
		opt(w)
	}
	if w.classifier == nil {
		w.classifier = NewClassifier(sniff.New(), w.logger)
	}
	return w
}

// Walk enumerates root and every descendant, root first, and returns
// the classified tree. Symlinks are leaves: their targets are
// recorded but never entered, so cyclic links terminate. The tree
// identifier and entry back-references are wired before any entry is
// classified.
func (w *Walker) Walk(ctx context.Context, root string) (*Tree, error) {
	start := time.Now()

	resolved, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("failed to absolutize root %s: %w", root, err)
	}
	if real, err := filepath.EvalSymlinks(resolved); err == nil {
		resolved = real
	}

	fsRoot, err := isMountPoint(resolved)
	if err != nil {
		return nil, err
	}

	tree := &Tree{
		Path:     root,
		Resolved: resolved,
		ID:       newTreeID(),
		FSRoot:   fsRoot,
	}

	matcher, err := w.loadIgnore(root)
	if err != nil {
		return nil, err
	}

	paths, err := w.enumerate(root, matcher)
	if err != nil {
		return nil, err
	}

	tree.Entries = make([]Entry, 0, len(paths))
	for _, path := range paths {
		entry, err := w.classifier.Classify(ctx, path, tree)
		if err != nil {
			return nil, err
		}
		tree.Entries = append(tree.Entries, entry)
	}

	w.logStats(tree, start)
	return tree, nil
}

// enumerate produces the flat ordered path list: the root first, then
// per directory its subdirectories followed by its other children,
// descending only into real directories.
func (w *Walker) enumerate(root string, matcher *ignore.GitIgnore) ([]string, error) {
	paths := []string{root}

	var descend func(dir string) error
	descend = func(dir string) error {
		children, err := os.ReadDir(dir)
		if err != nil {
			return fmt.Errorf("failed to read directory %s: %w", dir, err)
		}

		var subdirs, files []string
		for _, child := range children {
			path := filepath.Join(dir, child.Name())
			if matcher != nil {
				if rel, err := filepath.Rel(root, path); err == nil && matcher.MatchesPath(rel) {
					continue
				}
			}
			// A symlink to a directory is a leaf, not a directory.
			if child.IsDir() && child.Type()&os.ModeSymlink == 0 {
				subdirs = append(subdirs, path)
			} else {
				files = append(files, path)
			}
		}

		paths = append(paths, subdirs...)
		paths = append(paths, files...)

		for _, subdir := range subdirs {
			if err := descend(subdir); err != nil {
				return err
			}
		}
		return nil
	}

	if err := descend(root); err != nil {
		return nil, err
	}
	return paths, nil
}

// loadIgnore compiles the ignore file at the walk root if present.
func (w *Walker) loadIgnore(root string) (*ignore.GitIgnore, error) {
	if w.ignoreFile == "" {
		return nil, nil
	}
	ignorePath := filepath.Join(root, w.ignoreFile)
	if _, err := os.Stat(ignorePath); err == nil {
		matcher, err := ignore.CompileIgnoreFile(ignorePath)
		if err != nil {
			return nil, fmt.Errorf("error reading %s file: %w", w.ignoreFile, err)
		}
		return matcher, nil
	} else if !os.IsNotExist(err) {
		return nil, fmt.Errorf("error checking for %s file: %w", w.ignoreFile, err)
	}
	return nil, nil
}

func (w *Walker) logStats(tree *Tree, start time.Time) {
	var dirs, files, symlinks int
	for _, entry := range tree.Entries {
		switch entry.Kind() {
		case KindDir:
			dirs++
		case KindSymlink:
			symlinks++
		default:
			files++
		}
	}
	w.logger.Info().
		Str("root", tree.Resolved).
		Str("treeuuid", tree.ID.String()).
		Bool("fs", tree.FSRoot).
		Int("entries", len(tree.Entries)).
		Int("dirs", dirs).
		Int("files", files).
		Int("symlinks", symlinks).
		Dur("elapsed", time.Since(start)).
		Msg("walk complete")
}

// newTreeID generates the process-unique tree identifier. Time-based
// v1 preferred, random v4 if the node has no usable hardware address.
func newTreeID() uuid.UUID {
	if id, err := uuid.NewUUID(); err == nil {
		return id
	}
	return uuid.New()
}

// isMountPoint reports whether path sits on a different device than
// its parent (or is its own parent, as "/" is).
func isMountPoint(path string) (bool, error) {
	info, err := os.Stat(path)
	if err != nil {
		return false, fmt.Errorf("failed to stat root %s: %w", path, err)
	}
	parentInfo, err := os.Stat(filepath.Dir(path))
	if err != nil {
		return false, fmt.Errorf("failed to stat parent of %s: %w", path, err)
	}
	stat, ok := info.Sys().(*syscall.Stat_t)
	parentStat, pok := parentInfo.Sys().(*syscall.Stat_t)
	if !ok || !pok {
		return false, nil
	}
	if stat.Dev != parentStat.Dev {
		return true, nil
	}
	return stat.Ino == parentStat.Ino, nil
}
