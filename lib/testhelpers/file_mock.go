package testhelpers

import (
	"crypto/md5" //nolint:gosec // Mirrors the checksum the downloader verifies
	"encoding/hex"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
)

// CreateTestFile creates a test file with the specified content in the given directory.
// Returns the full file path.
func CreateTestFile(t *testing.T, dir, filename string, content []byte) string {
	t.Helper()
	filePath := filepath.Join(dir, filename)
	if err := os.WriteFile(filePath, content, 0o600); err != nil {
		t.Fatalf("Failed to create test file: %v", err)
	}
	return filePath
}

// MockDownloadServer creates a test HTTP server that serves the files of baseDir.
// The server is closed when the test ends.
func MockDownloadServer(t *testing.T, baseDir string) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		file, err := os.Open(filepath.Join(baseDir, filepath.Base(r.URL.Path)))
		if err != nil {
			http.Error(w, "File not found", http.StatusNotFound)
			return
		}
		defer file.Close()

		w.Header().Set("Content-Type", "text/csv")
		_, _ = io.Copy(w, file)
	}))

	t.Cleanup(server.Close)

	return server
}

// CalculateTestChecksum returns the hex MD5 checksum of content, the form
// the downloader verifies.
func CalculateTestChecksum(content []byte) string {
	hash := md5.Sum(content) //nolint:gosec // Integrity check only
	return hex.EncodeToString(hash[:])
}
