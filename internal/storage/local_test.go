package storage

import (
	"bytes"
	"context"
	"mime/multipart"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/githubscientist/jp-backend/internal/config"
)

// fileHeader builds a real multipart.FileHeader by round-tripping a
// form through the HTTP machinery.
func fileHeader(t *testing.T, filename string, content []byte) *multipart.FileHeader {
	t.Helper()

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	part, err := writer.CreateFormFile("file", filename)
	require.NoError(t, err)
	_, err = part.Write(content)
	require.NoError(t, err)
	require.NoError(t, writer.Close())

	req := httptest.NewRequest("POST", "/", &body)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	require.NoError(t, req.ParseMultipartForm(32<<20))

	return req.MultipartForm.File["file"][0]
}

func newTestStorage(t *testing.T) FileStorage {
	t.Helper()
	store, err := New(&config.StorageConfig{
		Provider:    "local",
		UploadDir:   t.TempDir(),
		MaxFileSize: 1 << 20,
	}, zap.NewNop())
	require.NoError(t, err)
	return store
}

func TestLocalUploadResume(t *testing.T) {
	store := newTestStorage(t)

	pdf := append([]byte("%PDF-1.4\n"), bytes.Repeat([]byte("a"), 100)...)
	result, err := store.UploadFile(context.Background(), fileHeader(t, "cv.pdf", pdf), KindResume)
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(result.URL, "/uploads/resumes/"), "got %s", result.URL)
	assert.True(t, strings.HasSuffix(result.URL, ".pdf"))
	assert.EqualValues(t, len(pdf), result.Size)
}

func TestLocalUploadRejectsWrongKind(t *testing.T) {
	store := newTestStorage(t)

	pdf := []byte("%PDF-1.4\n")
	_, err := store.UploadFile(context.Background(), fileHeader(t, "cv.pdf", pdf), KindProfilePicture)
	assert.ErrorIs(t, err, ErrInvalidContentType)
}

func TestLocalUploadRejectsOversizedFile(t *testing.T) {
	store, err := New(&config.StorageConfig{
		Provider:    "local",
		UploadDir:   t.TempDir(),
		MaxFileSize: 64,
	}, zap.NewNop())
	require.NoError(t, err)

	big := append([]byte("%PDF-1.4\n"), bytes.Repeat([]byte("a"), 128)...)
	_, err = store.UploadFile(context.Background(), fileHeader(t, "cv.pdf", big), KindResume)
	assert.ErrorIs(t, err, ErrFileTooLarge)
}

func TestLocalUploadExtensionFallback(t *testing.T) {
	store := newTestStorage(t)

	// DOCX is a zip container, so sniffing alone would reject it.
	docx := append([]byte("PK\x03\x04"), bytes.Repeat([]byte{0}, 100)...)
	result, err := store.UploadFile(context.Background(), fileHeader(t, "cv.docx", docx), KindResume)
	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(result.ID, ".docx"))
}

func TestLocalDelete(t *testing.T) {
	dir := t.TempDir()
	store, err := New(&config.StorageConfig{
		Provider:    "local",
		UploadDir:   dir,
		MaxFileSize: 1 << 20,
	}, zap.NewNop())
	require.NoError(t, err)

	pdf := []byte("%PDF-1.4\n")
	result, err := store.UploadFile(context.Background(), fileHeader(t, "cv.pdf", pdf), KindResume)
	require.NoError(t, err)

	_, statErr := os.Stat(filepath.Join(dir, result.ID))
	require.NoError(t, statErr)

	require.NoError(t, store.DeleteFile(context.Background(), result.ID))
	_, statErr = os.Stat(filepath.Join(dir, result.ID))
	assert.True(t, os.IsNotExist(statErr))

	// Deleting twice is a no-op.
	assert.NoError(t, store.DeleteFile(context.Background(), result.ID))
}

func TestLocalDeleteRejectsEscapingIDs(t *testing.T) {
	store := newTestStorage(t)

	for _, id := range []string{"../outside.txt", "/etc/passwd", "resumes/../../outside.txt"} {
		err := store.DeleteFile(context.Background(), id)
		assert.Error(t, err, "id %q should be rejected", id)
	}
}
