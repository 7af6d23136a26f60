package scaffold

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"net/http"
	"os"
	"path/filepath"
	"strings"
)

// Load reads an OpenAPI document from an http(s) URL, the configured fs.FS,
// or the local filesystem, in that order of precedence.
func (b *Builder) Load(ctx context.Context, location string) ([]byte, error) {
	location = strings.TrimSpace(location)
	if location == "" {
		return nil, errors.New("scaffold: source location is required")
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	switch {
	case strings.HasPrefix(location, "http://") || strings.HasPrefix(location, "https://"):
		if b.http == nil {
			return nil, errors.New("scaffold: http support disabled")
		}
		return loadHTTP(ctx, b.http, location)
	case b.files != nil:
		data, err := fs.ReadFile(b.files, filepath.ToSlash(location))
		if err != nil {
			return nil, fmt.Errorf("scaffold: read %s: %w", location, err)
		}
		return data, nil
	default:
		data, err := os.ReadFile(filepath.Clean(location))
		if err != nil {
			return nil, fmt.Errorf("scaffold: read %s: %w", location, err)
		}
		return data, nil
	}
}

func loadHTTP(ctx context.Context, client *http.Client, location string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, location, nil)
	if err != nil {
		return nil, fmt.Errorf("scaffold: build request: %w", err)
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("scaffold: fetch %s: %w", location, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("scaffold: fetch %s: unexpected status %d", location, resp.StatusCode)
	}
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("scaffold: read body: %w", err)
	}
	return data, nil
}
