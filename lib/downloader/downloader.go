// Package downloader fetches remote data files, such as a hash mode name map, with optional checksum verification.
package downloader

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"

	"github.com/duke-git/lancet/v2/cryptor"
	"github.com/duke-git/lancet/v2/fileutil"
	"github.com/duke-git/lancet/v2/strutil"
	"github.com/hashicorp/go-getter"
	"github.com/unclesp1d3r/pwpolicycost/appstate"
	"github.com/unclesp1d3r/pwpolicycost/lib/progress"
)

const (
	defaultUmask = 0o022 // Default umask for file permissions
)

var (
	// ErrInvalidURL is returned when a download source is not an absolute URL.
	ErrInvalidURL = errors.New("invalid URL")
	// ErrChecksumMismatch is returned when a downloaded file does not match its checksum.
	ErrChecksumMismatch = errors.New("downloaded file checksum does not match")
)

// IsRemote reports whether source names a URL rather than a local file.
func IsRemote(source string) bool {
	u, err := url.Parse(source)

	return err == nil && u.Scheme != "" && u.Host != ""
}

// Resolve returns a local path for source. Local paths are returned as they
// are, URLs are downloaded to dest first. An empty source resolves to an
// empty path.
func Resolve(ctx context.Context, source, dest, checksum string) (string, error) {
	if strutil.IsBlank(source) {
		return "", nil
	}

	if !IsRemote(source) {
		return source, nil
	}

	if err := DownloadFile(ctx, source, dest, checksum); err != nil {
		return "", err
	}

	return dest, nil
}

// DownloadFile downloads a file from a given URL and saves it to the specified path with optional checksum verification.
// If the file already exists and the checksum matches, the download is skipped.
func DownloadFile(ctx context.Context, fileURL, filePath, checksum string) error {
	if !IsRemote(fileURL) {
		appstate.Logger.Error("Invalid URL", "url", fileURL)

		return fmt.Errorf("%w: %q", ErrInvalidURL, fileURL)
	}

	if FileExistsAndValid(filePath, checksum) {
		appstate.Logger.Info("Download already exists", "path", filePath)

		return nil
	}

	return downloadAndVerifyFile(ctx, fileURL, filePath, checksum)
}

// FileExistsAndValid checks if a file exists at the given path and, if a checksum is provided, verifies its validity.
// A file failing verification is removed so the next download starts clean.
func FileExistsAndValid(filePath, checksum string) bool {
	if !fileutil.IsExist(filePath) {
		return false
	}

	if strutil.IsBlank(checksum) {
		return true
	}

	fileChecksum, err := cryptor.Md5File(filePath)
	if err != nil {
		appstate.Logger.Error("Error calculating file checksum", "path", filePath, "error", err)

		return false
	}

	if fileChecksum == checksum {
		return true
	}

	appstate.Logger.Warn("Checksums do not match", "path", filePath, "expected", checksum, "actual", fileChecksum)

	if err := os.Remove(filePath); err != nil {
		appstate.Logger.Error("Error removing file with mismatched checksum", "path", filePath, "error", err)
	}

	return false
}

func downloadAndVerifyFile(ctx context.Context, fileURL, filePath, checksum string) error {
	if strutil.IsNotBlank(checksum) {
		var err error

		fileURL, err = appendChecksumToURL(fileURL, checksum)
		if err != nil {
			return err
		}
	}

	client := &getter.Client{
		Ctx:      ctx,
		Dst:      filePath,
		Src:      fileURL,
		Pwd:      filepath.Dir(filePath),
		Insecure: appstate.State.Proxy,
		Mode:     getter.ClientModeFile,
	}

	_ = client.Configure( //nolint:errcheck // Client configuration errors are not critical
		getter.WithProgress(progress.DefaultProgressBar),
		getter.WithUmask(os.FileMode(defaultUmask)),
	)

	appstate.Logger.Debug("Downloading file", "url", fileURL, "path", filePath)

	if err := client.Get(); err != nil {
		appstate.Logger.Debug("Error downloading file", "error", err)

		return fmt.Errorf("failed to download %s: %w", fileURL, err)
	}

	if strutil.IsNotBlank(checksum) && !FileExistsAndValid(filePath, checksum) {
		return ErrChecksumMismatch
	}

	return nil
}

// appendChecksumToURL appends a checksum to the URL query string.
// It returns the modified URL or an error if the URL is invalid.
func appendChecksumToURL(rawURL, checksum string) (string, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", err
	}

	q := u.Query()
	q.Set("checksum", "md5:"+checksum)
	u.RawQuery = q.Encode()

	return u.String(), nil
}
