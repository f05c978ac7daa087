package textmesh

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
)

// maxFontSize bounds the amount of bytes read from a remote font.
const maxFontSize = 32 << 20

// Fetch returns the contents of the font file at src. src may be an http(s)
// URL, a file path, or empty to select [DefaultTTF].
func Fetch(ctx context.Context, src string) ([]byte, error) {
	switch {
	case src == "":
		return DefaultTTF(), nil
	case strings.HasPrefix(src, "http://") || strings.HasPrefix(src, "https://"):
		return fetchHTTP(ctx, http.DefaultClient, src)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return os.ReadFile(strings.TrimPrefix(src, "file://"))
}

func fetchHTTP(ctx context.Context, client *http.Client, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch %s: %s", url, resp.Status)
	}
	b, err := io.ReadAll(io.LimitReader(resp.Body, maxFontSize+1))
	if err != nil {
		return nil, err
	}
	if len(b) > maxFontSize {
		return nil, fmt.Errorf("fetch %s: font exceeds %d bytes", url, maxFontSize)
	}
	return b, nil
}

// Load fetches and parses the font at src.
func Load(ctx context.Context, src string) (*Font, error) {
	ttf, err := Fetch(ctx, src)
	if err != nil {
		return nil, err
	}
	var f Font
	if err := f.LoadTTFBytes(ttf); err != nil {
		return nil, fmt.Errorf("parse font: %w", err)
	}
	return &f, nil
}
