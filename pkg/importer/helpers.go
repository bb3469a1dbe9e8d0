// CLAUDE:SUMMARY Source fetching for imports: bounded HTTP download with retries, JSON extraction from ZIP bundles, atomic file copy.
package importer

import (
	"archive/zip"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"
)

const downloadAttempts = 3

var (
	// retryBackoff is the base delay; attempt n waits retryBackoff << n.
	retryBackoff = time.Second
	// maxSourceBytes caps a downloaded file or an extracted archive entry.
	maxSourceBytes int64 = 64 << 20

	errTooLarge = errors.New("source exceeds size limit")
)

var httpClient = &http.Client{Timeout: 2 * time.Minute}

// downloadFile fetches url into dest. Network errors and 5xx answers are
// retried with exponential backoff; 4xx answers fail immediately.
func downloadFile(ctx context.Context, url, dest string) error {
	var lastErr error
	for attempt := 0; attempt < downloadAttempts; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(retryBackoff << uint(attempt)):
			}
		}

		retry, err := downloadOnce(ctx, url, dest)
		if err == nil {
			return nil
		}
		if !retry {
			return err
		}
		lastErr = err
	}
	return fmt.Errorf("download %s failed after %d attempts: %w", url, downloadAttempts, lastErr)
}

func downloadOnce(ctx context.Context, url, dest string) (retry bool, err error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return false, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json, application/zip")

	resp, err := httpClient.Do(req)
	if err != nil {
		return ctx.Err() == nil, err
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode >= 500:
		return true, fmt.Errorf("HTTP %d for %s", resp.StatusCode, url)
	case resp.StatusCode != http.StatusOK:
		return false, fmt.Errorf("HTTP %d for %s", resp.StatusCode, url)
	}
	if err := writeBounded(dest, resp.Body); err != nil {
		return !errors.Is(err, errTooLarge), err
	}
	return false, nil
}

// writeBounded writes at most maxSourceBytes from r into path.
func writeBounded(path string, r io.Reader) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	n, err := io.Copy(f, io.LimitReader(r, maxSourceBytes+1))
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err == nil && n > maxSourceBytes {
		err = fmt.Errorf("%s: %w (%d bytes)", path, errTooLarge, maxSourceBytes)
	}
	if err != nil {
		os.Remove(path)
	}
	return err
}

// extractJSON writes the first .json entry of the ZIP archive src into
// destDir and returns its path. Directory structure inside the archive is
// ignored.
func extractJSON(src, destDir string) (string, error) {
	r, err := zip.OpenReader(src)
	if err != nil {
		return "", fmt.Errorf("open zip: %w", err)
	}
	defer r.Close()

	for _, f := range r.File {
		if f.FileInfo().IsDir() || !strings.EqualFold(filepath.Ext(f.Name), ".json") {
			continue
		}
		rc, err := f.Open()
		if err != nil {
			return "", fmt.Errorf("open zip entry %s: %w", f.Name, err)
		}
		dest := filepath.Join(destDir, filepath.Base(f.Name))
		err = writeBounded(dest, rc)
		rc.Close()
		if err != nil {
			return "", fmt.Errorf("extract %s: %w", f.Name, err)
		}
		return dest, nil
	}
	return "", fmt.Errorf("no .json file in archive %s", filepath.Base(src))
}

// copyFile copies src to dest through a temporary file renamed into place.
func copyFile(src, dest string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	tmp := dest + ".tmp"
	out, err := os.Create(tmp)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		os.Remove(tmp)
		return err
	}
	if err := out.Close(); err != nil {
		os.Remove(tmp)
		return err
	}
	return os.Rename(tmp, dest)
}
