// Package sink provides output destinations for generated bindings.
package sink

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/cockroachdb/errors"
)

// ErrInvalidPath marks output paths rejected by ValidatePath.
var ErrInvalidPath = errors.New("invalid output path")

// OutputSink receives generated file content.
// Implementations must be safe for concurrent calls.
type OutputSink interface {
	// WriteFile stores content under path, a clean slash-separated relative path.
	WriteFile(ctx context.Context, path string, content []byte) error
}

// FilesystemSink writes files below a root directory.
type FilesystemSink struct {
	Root string

	// Mode is the permission of written files. Zero means 0644.
	Mode os.FileMode

	// SkipUnchanged leaves a file alone when it already holds the content, so
	// build tools watching the output only see real changes.
	SkipUnchanged bool
}

// NewFilesystemSink returns a sink writing below root that skips unchanged files.
func NewFilesystemSink(root string) *FilesystemSink {
	return &FilesystemSink{Root: root, Mode: 0644, SkipUnchanged: true}
}

// WriteFile replaces path below the root with content. Parent directories are
// created as needed. The file is written to a temporary name in the same
// directory and renamed into place, so readers never see a partial file.
func (s *FilesystemSink) WriteFile(ctx context.Context, path string, content []byte) error {
	if err := ValidatePath(path); err != nil {
		return err
	}
	target, err := s.resolve(path)
	if err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	if s.SkipUnchanged {
		if old, err := os.ReadFile(target); err == nil && bytes.Equal(old, content) {
			return nil
		}
	}

	dir := filepath.Dir(target)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return errors.Wrapf(err, "create %s", dir)
	}
	mode := s.Mode
	if mode == 0 {
		mode = 0644
	}
	return replaceFile(ctx, target, content, mode)
}

// resolve joins path to the root and checks the result stays inside it.
func (s *FilesystemSink) resolve(path string) (string, error) {
	root, err := filepath.Abs(s.Root)
	if err != nil {
		return "", errors.Wrap(err, "resolve output root")
	}
	target := filepath.Join(root, filepath.FromSlash(path))
	rel, err := filepath.Rel(root, target)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", errors.Mark(errors.Newf("%q resolves outside %s", path, root), ErrInvalidPath)
	}
	return target, nil
}

func replaceFile(ctx context.Context, target string, content []byte, mode os.FileMode) (err error) {
	tmp, err := os.CreateTemp(filepath.Dir(target), ".ts2rs-*.tmp")
	if err != nil {
		return errors.Wrap(err, "create temporary file")
	}
	defer func() {
		if err != nil {
			_ = os.Remove(tmp.Name())
		}
	}()

	if _, err := tmp.Write(content); err != nil {
		_ = tmp.Close()
		return errors.Wrapf(err, "write %s", tmp.Name())
	}
	if err := tmp.Close(); err != nil {
		return errors.Wrapf(err, "close %s", tmp.Name())
	}
	if err := os.Chmod(tmp.Name(), mode); err != nil {
		return errors.Wrapf(err, "chmod %s", tmp.Name())
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	return errors.Wrapf(os.Rename(tmp.Name(), target), "rename to %s", target)
}

// MemorySink keeps written files in memory. The generator uses it when no
// output directory is needed.
type MemorySink struct {
	mu    sync.RWMutex
	files map[string][]byte
}

func NewMemorySink() *MemorySink {
	return &MemorySink{files: make(map[string][]byte)}
}

func (s *MemorySink) WriteFile(ctx context.Context, path string, content []byte) error {
	if err := ValidatePath(path); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.files[path] = bytes.Clone(content)
	return nil
}

// Get returns a copy of the content written to path, or nil.
func (s *MemorySink) Get(path string) []byte {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return bytes.Clone(s.files[path])
}

// Paths returns the written paths in no particular order.
func (s *MemorySink) Paths() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	paths := make([]string, 0, len(s.files))
	for p := range s.files {
		paths = append(paths, p)
	}
	return paths
}

// WriterSink streams every file to one writer, such as os.Stdout.
// Paths are validated and otherwise ignored.
type WriterSink struct {
	mu sync.Mutex
	w  io.Writer
}

func NewWriterSink(w io.Writer) *WriterSink {
	return &WriterSink{w: w}
}

func (s *WriterSink) WriteFile(ctx context.Context, path string, content []byte) error {
	if err := ValidatePath(path); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	_, err := s.w.Write(content)
	return errors.Wrapf(err, "write %s", path)
}

// ValidatePath rejects paths that are empty, absolute (including Windows drive
// paths), contain a ".." element or are not in clean slash-separated form.
// Errors are marked with ErrInvalidPath.
func ValidatePath(path string) error {
	var reason string
	switch {
	case path == "":
		reason = "empty"
	case strings.HasPrefix(path, "/") || filepath.IsAbs(path) || hasDriveLetter(path):
		reason = "absolute"
	case strings.Contains(path, ".."):
		reason = "contains .."
	case filepath.ToSlash(filepath.Clean(filepath.FromSlash(path))) != path:
		reason = "not clean"
	default:
		return nil
	}
	return errors.Mark(errors.Newf("output path %q: %s", path, reason), ErrInvalidPath)
}

func hasDriveLetter(path string) bool {
	if len(path) < 2 || path[1] != ':' {
		return false
	}
	c := path[0] | 0x20
	return c >= 'a' && c <= 'z'
}
