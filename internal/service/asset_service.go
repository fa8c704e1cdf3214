package service

import (
	"bytes"
	"context"
	"encoding/base64"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	config "github.com/Shashank-765/LinkedInAutomation-sub000/configs"
	"github.com/disintegration/imaging"
)

const (
	normalizedSize = 1080

	fetchTimeout = 10 * time.Second

	// Some CDNs reject Go's default client identification outright.
	fetchUserAgent = "Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0 Safari/537.36"
)

// AssetService resolves an image reference (data URI, http(s) URL, or a path
// under the configured assets root) into publish-ready bytes.
type AssetService interface {
	NormalizeImage(ctx context.Context, source string) ([]byte, error)
	FetchRaw(ctx context.Context, source string) ([]byte, error)
}

type assetService struct {
	cfg    config.Config
	client *http.Client
}

func NewAssetService(cfg config.Config) AssetService {
	return &assetService{
		cfg:    cfg,
		client: &http.Client{Timeout: fetchTimeout},
	}
}

// NormalizeImage fetches the source and re-encodes it as a 1080x1080 PNG.
// The crop fills the square, so every asset the publisher uploads has the
// same dimensions regardless of origin. All failures wrap ErrInvalidMedia.
func (s *assetService) NormalizeImage(ctx context.Context, source string) ([]byte, error) {
	raw, err := s.FetchRaw(ctx, source)
	if err != nil {
		return nil, err
	}

	img, err := imaging.Decode(bytes.NewReader(raw))
	if err != nil {
		slog.Info(err.Error())
		return nil, fmt.Errorf("%w: decode: %v", ErrInvalidMedia, err)
	}

	img = imaging.Fill(img, normalizedSize, normalizedSize, imaging.Center, imaging.Lanczos)

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, img, imaging.PNG); err != nil {
		slog.Info(err.Error())
		return nil, fmt.Errorf("%w: encode: %v", ErrInvalidMedia, err)
	}

	return buf.Bytes(), nil
}

// FetchRaw returns the source bytes without re-encoding. Video sources go
// through here; the platform accepts them as-is.
func (s *assetService) FetchRaw(ctx context.Context, source string) ([]byte, error) {
	switch {
	case strings.HasPrefix(source, "data:"):
		return decodeDataURI(source)
	case strings.HasPrefix(source, "http://"), strings.HasPrefix(source, "https://"):
		return s.fetchURL(ctx, source)
	default:
		return s.readLocal(source)
	}
}

func (s *assetService) fetchURL(ctx context.Context, source string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, source, nil)
	if err != nil {
		slog.Info(err.Error())
		return nil, fmt.Errorf("%w: %v", ErrInvalidMedia, err)
	}
	req.Header.Set("User-Agent", fetchUserAgent)
	req.Header.Set("Accept", "image/*,video/*,*/*;q=0.8")

	resp, err := s.client.Do(req)
	if err != nil {
		slog.Info(err.Error())
		return nil, fmt.Errorf("%w: fetch: %v", ErrInvalidMedia, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		slog.Info(fmt.Sprintf("media fetch returned %d for %s", resp.StatusCode, source))
		return nil, fmt.Errorf("%w: fetch returned status %d", ErrInvalidMedia, resp.StatusCode)
	}

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		slog.Info(err.Error())
		return nil, fmt.Errorf("%w: read: %v", ErrInvalidMedia, err)
	}

	return raw, nil
}

// readLocal resolves the path under the assets root and refuses traversal
// outside it.
func (s *assetService) readLocal(source string) ([]byte, error) {
	root, err := filepath.Abs(s.cfg.AssetsRoot)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidMedia, err)
	}

	path := source
	if !filepath.IsAbs(path) {
		path = filepath.Join(root, path)
	}
	path = filepath.Clean(path)
	if path != root && !strings.HasPrefix(path, root+string(filepath.Separator)) {
		return nil, fmt.Errorf("%w: path outside assets root", ErrInvalidMedia)
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		slog.Info(err.Error())
		return nil, fmt.Errorf("%w: %v", ErrInvalidMedia, err)
	}
	return raw, nil
}

func decodeDataURI(source string) ([]byte, error) {
	idx := strings.Index(source, ",")
	if idx < 0 {
		return nil, fmt.Errorf("%w: malformed data uri", ErrInvalidMedia)
	}

	meta, payload := source[:idx], source[idx+1:]
	if !strings.HasSuffix(meta, ";base64") {
		return nil, fmt.Errorf("%w: data uri is not base64", ErrInvalidMedia)
	}

	raw, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		slog.Info(err.Error())
		return nil, fmt.Errorf("%w: %v", ErrInvalidMedia, err)
	}
	return raw, nil
}
