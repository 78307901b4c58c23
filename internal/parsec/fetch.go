package parsec

import (
	"archive/tar"
	"compress/gzip"
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

const (
	// DefaultBaseURL hosts one tar.gz archive of tracks per metallicity.
	DefaultBaseURL = "https://people.sissa.it/~sbressan/CAF09_V1.2S_M36_LT/no_phase/"

	// DefaultTimeout for the archive download.
	DefaultTimeout = 10 * time.Minute
)

// Fetcher downloads and unpacks track archives.
type Fetcher struct {
	client  *http.Client
	baseURL string
	timeout time.Duration
}

// FetcherOption configures a Fetcher.
type FetcherOption func(*Fetcher)

// WithURL sets the base URL the archives are fetched from.
func WithURL(url string) FetcherOption {
	return func(f *Fetcher) {
		f.baseURL = url
	}
}

// WithTimeout sets the HTTP request timeout.
func WithTimeout(d time.Duration) FetcherOption {
	return func(f *Fetcher) {
		f.timeout = d
	}
}

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(client *http.Client) FetcherOption {
	return func(f *Fetcher) {
		f.client = client
	}
}

// NewFetcher creates a new track archive fetcher.
func NewFetcher(opts ...FetcherOption) *Fetcher {
	f := &Fetcher{
		baseURL: DefaultBaseURL,
		timeout: DefaultTimeout,
	}

	for _, opt := range opts {
		opt(f)
	}

	if f.client == nil {
		f.client = &http.Client{
			Timeout: f.timeout,
		}
	}

	return f
}

// ArchiveURL returns the download URL for a metallicity.
func (f *Fetcher) ArchiveURL(metallicity string) string {
	return strings.TrimSuffix(f.baseURL, "/") + "/" + metallicity + ".tar.gz"
}

// EnsureFiles downloads and unpacks the tracks for metallicity into dataDir
// unless dataDir/metallicity already exists. It returns the track directory.
func (f *Fetcher) EnsureFiles(ctx context.Context, dataDir, metallicity string) (string, error) {
	trackDir := filepath.Join(dataDir, metallicity)
	if _, err := os.Stat(trackDir); err == nil {
		return trackDir, nil
	} else if !errors.Is(err, os.ErrNotExist) {
		return "", &IOError{Op: "stat", Path: trackDir, Err: err}
	}

	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return "", &IOError{Op: "mkdir", Path: dataDir, Err: err}
	}

	if err := f.download(ctx, f.ArchiveURL(metallicity), dataDir); err != nil {
		// Leave nothing behind that would look like a complete download.
		os.RemoveAll(trackDir)
		return "", err
	}

	if _, err := os.Stat(trackDir); err != nil {
		return "", fmt.Errorf("archive did not contain %s: %w", metallicity, ErrDataUnavailable)
	}
	return trackDir, nil
}

func (f *Fetcher) download(ctx context.Context, url, dest string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}

	req.Header.Set("User-Agent", "ls-stellar/1.0 (Stellar Population Tool)")

	resp, err := f.client.Do(req)
	if err != nil {
		return &IOError{Op: "fetch", Path: url, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return &IOError{Op: "fetch", Path: url, Err: fmt.Errorf("unexpected status code: %d", resp.StatusCode)}
	}

	return extractTarGz(resp.Body, dest)
}

// extractTarGz unpacks regular files and directories from r into dest.
// Entries that would land outside dest are rejected.
func extractTarGz(r io.Reader, dest string) error {
	gz, err := gzip.NewReader(r)
	if err != nil {
		return &IOError{Op: "gunzip", Path: dest, Err: err}
	}
	defer gz.Close()

	root, err := filepath.Abs(dest)
	if err != nil {
		return &IOError{Op: "abs", Path: dest, Err: err}
	}

	tr := tar.NewReader(gz)
	for {
		hdr, err := tr.Next()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return &IOError{Op: "untar", Path: dest, Err: err}
		}

		target := filepath.Join(root, filepath.FromSlash(hdr.Name))
		if target != root && !strings.HasPrefix(target, root+string(os.PathSeparator)) {
			return &IOError{Op: "untar", Path: hdr.Name, Err: errors.New("entry escapes target directory")}
		}

		switch hdr.Typeflag {
		case tar.TypeDir:
			if err := os.MkdirAll(target, 0o755); err != nil {
				return &IOError{Op: "mkdir", Path: target, Err: err}
			}
		case tar.TypeReg:
			if err := writeFile(target, tr); err != nil {
				return err
			}
		default:
			// Links and devices are not part of the track archives.
		}
	}
}

func writeFile(path string, r io.Reader) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return &IOError{Op: "mkdir", Path: filepath.Dir(path), Err: err}
	}
	out, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return &IOError{Op: "create", Path: path, Err: err}
	}
	if _, err := io.Copy(out, r); err != nil {
		out.Close()
		return &IOError{Op: "write", Path: path, Err: err}
	}
	if err := out.Close(); err != nil {
		return &IOError{Op: "close", Path: path, Err: err}
	}
	return nil
}
