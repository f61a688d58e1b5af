// Package source turns an input reference into a local PDF path.
//
// Supported references:
//   - plain filesystem paths and file://path (used as given)
//   - http(s):// URLs (downloaded to a temp file)
//   - s3://bucket/key (downloaded to a temp file via AWS SDK v2)
package source

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awscfg "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// ErrUnsupportedScheme is returned for URL schemes Fetch cannot download.
var ErrUnsupportedScheme = errors.New("unsupported input scheme")

// Local is an input available on the local filesystem.
type Local struct {
	Path   string
	Remote bool
}

// Cleanup removes the downloaded copy of a remote input.
func (l *Local) Cleanup() {
	if l == nil || !l.Remote {
		return
	}
	if err := os.Remove(l.Path); err != nil && !os.IsNotExist(err) {
		log.Warn().Err(err).Str("file", l.Path).Msg("failed to remove downloaded input")
	}
}

// Fetcher downloads remote inputs.
type Fetcher struct {
	HTTPClient *http.Client
	// S3 is created from the default AWS config chain on first use when nil.
	S3 manager.DownloadAPIClient
	// TempDir holds downloads, os.TempDir() if empty.
	TempDir string
}

// Fetch resolves ref to a local file. Local paths are returned exactly as
// given; a missing local file is reported by later stages.
func (f *Fetcher) Fetch(ctx context.Context, ref string) (*Local, error) {
	switch {
	case strings.HasPrefix(ref, "s3://"):
		path, err := f.downloadS3(ctx, ref)
		if err != nil {
			return nil, err
		}
		return &Local{Path: path, Remote: true}, nil
	case strings.HasPrefix(ref, "http://") || strings.HasPrefix(ref, "https://"):
		path, err := f.downloadHTTP(ctx, ref)
		if err != nil {
			return nil, err
		}
		return &Local{Path: path, Remote: true}, nil
	case strings.HasPrefix(ref, "file://"):
		return &Local{Path: strings.TrimPrefix(ref, "file://")}, nil
	case strings.Contains(ref, "://"):
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedScheme, ref)
	default:
		return &Local{Path: ref}, nil
	}
}

func (f *Fetcher) tempFile(pattern string) (*os.File, error) {
	dir := f.TempDir
	if dir == "" {
		dir = os.TempDir()
	}
	return os.Create(filepath.Join(dir, fmt.Sprintf(pattern, uuid.NewString())))
}

func (f *Fetcher) downloadHTTP(ctx context.Context, url string) (string, error) {
	client := f.HTTPClient
	if client == nil {
		client = http.DefaultClient
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", fmt.Errorf("build request: %w", err)
	}
	resp, err := client.Do(req)
	if err != nil {
		return "", fmt.Errorf("download %s: %w", url, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("download %s: http %d", url, resp.StatusCode)
	}

	out, err := f.tempFile("pdfnup-http-%s.pdf")
	if err != nil {
		return "", fmt.Errorf("create temp file: %w", err)
	}
	n, err := io.Copy(out, resp.Body)
	if cerr := out.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		os.Remove(out.Name())
		return "", fmt.Errorf("download %s: %w", url, err)
	}
	log.Info().Str("url", url).Int64("bytes", n).Str("file", filepath.Base(out.Name())).Msg("downloaded input")
	return out.Name(), nil
}

// parseS3 splits s3://bucket/key.
func parseS3(ref string) (bucket, key string, err error) {
	path := strings.TrimPrefix(ref, "s3://")
	slash := strings.Index(path, "/")
	if slash <= 0 || slash == len(path)-1 {
		return "", "", fmt.Errorf("invalid s3 url: %s", ref)
	}
	return path[:slash], path[slash+1:], nil
}

func (f *Fetcher) downloadS3(ctx context.Context, ref string) (string, error) {
	bucket, key, err := parseS3(ref)
	if err != nil {
		return "", err
	}

	if f.S3 == nil {
		cfg, err := awscfg.LoadDefaultConfig(ctx)
		if err != nil {
			return "", fmt.Errorf("failed to load AWS config: %w", err)
		}
		f.S3 = s3.NewFromConfig(cfg)
	}

	out, err := f.tempFile("pdfnup-s3-%s.pdf")
	if err != nil {
		return "", fmt.Errorf("create temp file: %w", err)
	}
	n, err := manager.NewDownloader(f.S3).Download(ctx, out, &s3.GetObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
	})
	if cerr := out.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		os.Remove(out.Name())
		return "", fmt.Errorf("failed to download from S3: %w", err)
	}
	log.Info().Str("bucket", bucket).Str("key", key).Int64("bytes", n).Str("file", filepath.Base(out.Name())).Msg("downloaded s3 input")
	return out.Name(), nil
}
