package writer

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/gqlgo/gqldocgen/docgen"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteAllAndReadDocuments(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	w := New(dir, log.New(io.Discard))

	result := &docgen.Result{
		Documents: map[string]string{
			"user.gql": "query user {\n  user {\n    ...userFragment\n  }\n}\n",
		},
		Fragments: map[string]string{
			"user.fragment.gql": "fragment userFragment on User {\n  id\n}\n",
		},
	}

	require.NoError(t, w.WriteAll(context.Background(), result))

	content, err := os.ReadFile(filepath.Join(dir, "user.gql"))
	require.NoError(t, err)
	assert.Equal(t, result.Documents["user.gql"], string(content))

	content, err = os.ReadFile(filepath.Join(dir, FragmentsDir, "user.fragment.gql"))
	require.NoError(t, err)
	assert.Equal(t, result.Fragments["user.fragment.gql"], string(content))

	// documents only: fragments and subdirectories are not merge inputs
	documents, err := w.ReadDocuments()
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"user.gql": result.Documents["user.gql"]}, documents)

	// no temp files left behind
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	for _, entry := range entries {
		assert.False(t, strings.HasSuffix(entry.Name(), ".tmp"), "leftover temp file %s", entry.Name())
	}
}

func TestReadDocuments_missingDirectory(t *testing.T) {
	t.Parallel()

	w := New(filepath.Join(t.TempDir(), "does-not-exist"), log.New(io.Discard))

	documents, err := w.ReadDocuments()
	require.NoError(t, err)
	assert.Empty(t, documents)
}
