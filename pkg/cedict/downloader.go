package cedict

import (
	"compress/gzip"
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"time"
)

const (
	// releaseURL is the gzip-compressed CC-CEDICT export published by MDBG.
	releaseURL = "https://www.mdbg.net/chinese/export/cedict/cedict_1_0_ts_utf-8_mdbg.txt.gz"
	userAgent  = "vocabdeck-cli"
)

// Ensure checks that the dictionary exists at path. If not, it downloads the
// published release and decompresses it into place.
func Ensure(ctx context.Context, path string) error {
	if _, err := os.Stat(path); err == nil {
		// File exists
		return nil
	} else if !os.IsNotExist(err) {
		return err
	}

	fmt.Printf("Dictionary not found at %s. Downloading...\n", path)
	return download(ctx, releaseURL, path)
}

// download fetches a gzip-compressed dictionary from url and writes the
// decompressed text to destPath. The write goes through a temp file in the
// destination directory so a failed download never leaves a partial
// dictionary behind.
func download(ctx context.Context, url, destPath string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return err
	}
	req.Header.Set("User-Agent", userAgent)

	client := &http.Client{Timeout: 5 * time.Minute}
	resp, err := client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("download failed: %s", resp.Status)
	}

	gz, err := gzip.NewReader(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to create gzip reader: %w", err)
	}
	defer gz.Close()

	dir := filepath.Dir(destPath)
	tmp, err := os.CreateTemp(dir, ".cedict-download-*")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())

	if _, err := io.Copy(tmp, gz); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write dictionary: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), destPath)
}
