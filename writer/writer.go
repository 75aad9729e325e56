// Package writer is the filesystem side of generation: it reads the existing
// operation documents the core merges against and persists the core's output,
// atomically per file.
package writer

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"github.com/gqlgo/gqldocgen/docgen"
	"golang.org/x/sync/errgroup"
)

// FragmentsDir is the subdirectory of the output root fragments are
// written to.
const FragmentsDir = "fragments"

const writeConcurrency = 8

type Writer struct {
	root   string
	logger *log.Logger
}

func New(root string, logger *log.Logger) *Writer {
	return &Writer{root: root, logger: logger}
}

// ReadDocuments returns the text of every operation document in the output
// root, keyed by file name. A missing output directory is an empty state,
// not an error.
func (w *Writer) ReadDocuments() (map[string]string, error) {
	entries, err := os.ReadDir(w.root)
	if os.IsNotExist(err) {
		return map[string]string{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to list output directory: %w", err)
	}

	documents := map[string]string{}
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasSuffix(name, ".gql") || strings.HasSuffix(name, ".fragment.gql") {
			continue
		}
		content, err := os.ReadFile(filepath.Join(w.root, name))
		if err != nil {
			return nil, fmt.Errorf("failed to read document %s: %w", name, err)
		}
		documents[name] = string(content)
	}

	return documents, nil
}

// WriteAll persists a generation result. Each file is written to a temporary
// sibling first and renamed into place, so a crash never leaves a half
// written document behind.
func (w *Writer) WriteAll(ctx context.Context, result *docgen.Result) error {
	if err := os.MkdirAll(filepath.Join(w.root, FragmentsDir), 0o755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	files := make(map[string]string, len(result.Documents)+len(result.Fragments))
	for name, content := range result.Documents {
		files[filepath.Join(w.root, name)] = content
	}
	for name, content := range result.Fragments {
		files[filepath.Join(w.root, FragmentsDir, name)] = content
	}

	paths := make([]string, 0, len(files))
	for path := range files {
		paths = append(paths, path)
	}
	sort.Strings(paths)

	group, _ := errgroup.WithContext(ctx)
	group.SetLimit(writeConcurrency)
	for _, path := range paths {
		group.Go(func() error {
			return writeAtomic(path, files[path])
		})
	}
	if err := group.Wait(); err != nil {
		return err
	}

	w.logger.Info("wrote generated files",
		"documents", len(result.Documents), "fragments", len(result.Fragments), "dir", w.root)

	return nil
}

func writeAtomic(path, content string) error {
	tmp := path + "." + uuid.NewString() + ".tmp"
	if err := os.WriteFile(tmp, []byte(content), 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)

		return fmt.Errorf("failed to replace %s: %w", path, err)
	}

	return nil
}
