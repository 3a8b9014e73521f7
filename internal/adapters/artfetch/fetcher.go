// Package artfetch imports theme artwork from a licensed art page. The admin
// pastes the page URL and the fetcher extracts the image candidates, so new
// themes don't require uploading each file by hand.
package artfetch

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/rs/zerolog/log"
)

const maxDownloadBytes = 8 << 20 // 8 MiB per image

type Fetcher struct {
	client *http.Client
}

func New() *Fetcher {
	return &Fetcher{client: &http.Client{Timeout: 20 * time.Second}}
}

// PageImages extracts up to max image URLs from the page, og:image first.
func (f *Fetcher) PageImages(ctx context.Context, pageURL string, max int) ([]string, error) {
	if max <= 0 {
		max = 6
	}
	if max > 20 {
		max = 20
	}
	base, err := url.Parse(pageURL)
	if err != nil || !strings.HasPrefix(base.Scheme, "http") {
		return nil, fmt.Errorf("url inválida: %q", pageURL)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36")
	req.Header.Set("Accept", "text/html,application/xhtml+xml")

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("status code: %d", resp.StatusCode)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, err
	}

	seen := map[string]bool{}
	var out []string
	add := func(raw string) {
		if len(out) >= max || raw == "" {
			return
		}
		u, err := base.Parse(strings.TrimSpace(raw))
		if err != nil || !strings.HasPrefix(u.Scheme, "http") {
			return
		}
		abs := u.String()
		if !looksLikeImage(u.Path) || seen[abs] {
			return
		}
		seen[abs] = true
		out = append(out, abs)
	}

	doc.Find(`meta[property="og:image"]`).Each(func(_ int, s *goquery.Selection) {
		add(s.AttrOr("content", ""))
	})
	doc.Find("img").Each(func(_ int, s *goquery.Selection) {
		add(s.AttrOr("src", ""))
		add(s.AttrOr("data-src", ""))
	})

	if len(out) == 0 {
		return nil, fmt.Errorf("nenhuma imagem encontrada em %s", base.Host)
	}
	log.Info().Str("page", base.Host).Int("found", len(out)).Msg("artes extraídas")
	return out, nil
}

// Download fetches one image, validating that the server really returned one.
func (f *Fetcher) Download(ctx context.Context, imageURL string) ([]byte, string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, imageURL, nil)
	if err != nil {
		return nil, "", err
	}
	req.Header.Set("User-Agent", "Mozilla/5.0 (compatible; duetags/1.0)")
	resp, err := f.client.Do(req)
	if err != nil {
		return nil, "", err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, "", fmt.Errorf("status code: %d", resp.StatusCode)
	}
	ct := resp.Header.Get("Content-Type")
	if !strings.HasPrefix(ct, "image/") {
		return nil, "", fmt.Errorf("conteúdo não é imagem: %s", ct)
	}
	data, err := io.ReadAll(io.LimitReader(resp.Body, maxDownloadBytes+1))
	if err != nil {
		return nil, "", err
	}
	if len(data) > maxDownloadBytes {
		return nil, "", fmt.Errorf("imagem excede %d bytes", maxDownloadBytes)
	}
	return data, ct, nil
}

func looksLikeImage(path string) bool {
	p := strings.ToLower(path)
	for _, ext := range []string{".png", ".jpg", ".jpeg", ".webp", ".gif", ".svg"} {
		if strings.HasSuffix(p, ext) {
			return true
		}
	}
	// many CDNs serve images from extension-less paths
	return strings.Contains(p, "/image") || strings.Contains(p, "/img")
}
