package storage

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestLocalStorage(t *testing.T) *LocalStorage {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	s, err := NewLocalStorage(LocalConfig{BasePath: t.TempDir()}, logger)
	require.NoError(t, err)
	return s
}

func TestLocalStorage_PutGet(t *testing.T) {
	s := newTestLocalStorage(t)
	ctx := context.Background()

	payload := []byte(`{"hello":"world"}`)
	err := s.Put(ctx, "reports/collection.json", bytes.NewReader(payload), PutOptions{
		ContentType: "application/json",
		Overwrite:   true,
	})
	require.NoError(t, err)

	reader, info, err := s.Get(ctx, "reports/collection.json")
	require.NoError(t, err)
	defer reader.Close()

	got, err := io.ReadAll(reader)
	require.NoError(t, err)
	assert.Equal(t, payload, got)
	assert.Equal(t, int64(len(payload)), info.Size)
	assert.Equal(t, "application/json", info.ContentType)
}

func TestLocalStorage_GetMissing(t *testing.T) {
	s := newTestLocalStorage(t)

	_, _, err := s.Get(context.Background(), "reports/missing.json")
	require.Error(t, err)
	assert.True(t, IsNotFound(err))
}

func TestLocalStorage_PutNoOverwrite(t *testing.T) {
	s := newTestLocalStorage(t)
	ctx := context.Background()

	require.NoError(t, s.Put(ctx, "a.txt", strings.NewReader("first"), PutOptions{}))

	err := s.Put(ctx, "a.txt", strings.NewReader("second"), PutOptions{})
	require.Error(t, err)
	assert.True(t, IsKeyExists(err))

	// Overwrite enabled replaces the object
	require.NoError(t, s.Put(ctx, "a.txt", strings.NewReader("second"), PutOptions{Overwrite: true}))

	reader, _, err := s.Get(ctx, "a.txt")
	require.NoError(t, err)
	defer reader.Close()
	got, _ := io.ReadAll(reader)
	assert.Equal(t, "second", string(got))
}

func TestLocalStorage_PutMaxSize(t *testing.T) {
	s := newTestLocalStorage(t)
	ctx := context.Background()

	err := s.Put(ctx, "big.bin", bytes.NewReader(make([]byte, 100)), PutOptions{MaxSize: 50})
	require.Error(t, err)
	assert.True(t, IsTooLarge(err))

	// Nothing visible at the key after a failed write
	exists, err := s.Exists(ctx, "big.bin")
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestLocalStorage_PutLeavesNoTempFiles(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	base := t.TempDir()
	s, err := NewLocalStorage(LocalConfig{BasePath: base}, logger)
	require.NoError(t, err)

	ctx := context.Background()
	require.NoError(t, s.Put(ctx, "reports/collection.json", strings.NewReader("[]"), PutOptions{Overwrite: true}))

	// A rejected oversized write must also clean up after itself
	err = s.Put(ctx, "reports/collection.json", bytes.NewReader(make([]byte, 10)), PutOptions{MaxSize: 5, Overwrite: true})
	require.Error(t, err)

	entries, err := os.ReadDir(filepath.Join(base, "reports"))
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "collection.json", entries[0].Name())
}

func TestLocalStorage_Delete(t *testing.T) {
	s := newTestLocalStorage(t)
	ctx := context.Background()

	require.NoError(t, s.Put(ctx, "doc.pdf", strings.NewReader("pdf"), PutOptions{}))
	require.NoError(t, s.Delete(ctx, "doc.pdf"))

	exists, err := s.Exists(ctx, "doc.pdf")
	require.NoError(t, err)
	assert.False(t, exists)

	// Deleting an absent key is a no-op
	require.NoError(t, s.Delete(ctx, "doc.pdf"))
}

func TestLocalStorage_PathTraversal(t *testing.T) {
	s := newTestLocalStorage(t)
	ctx := context.Background()

	for _, key := range []string{"", "../escape.txt", "reports/../../escape.txt"} {
		err := s.Put(ctx, key, strings.NewReader("x"), PutOptions{})
		assert.Error(t, err, "key %q should be rejected", key)
	}
}

func TestDocumentKey(t *testing.T) {
	id := mustUUID(t, "6f1a2b3c-4d5e-4f60-8a7b-9c0d1e2f3a4b")
	key := DocumentKey(id, "snag-report-12-oakfield-drive.pdf")
	assert.Equal(t, "reports/6f1a2b3c-4d5e-4f60-8a7b-9c0d1e2f3a4b/documents/snag-report-12-oakfield-drive.pdf", key)
}
