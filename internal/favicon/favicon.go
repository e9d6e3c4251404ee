// Package favicon fetches site icons for bookmarked pages.
package favicon

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/net/html"
	"golang.org/x/time/rate"
)

// maxPageBytes limits how much of a page we read while scanning for icon links.
const maxPageBytes = 256 << 10

// Icon is a fetched favicon.
type Icon struct {
	Data        []byte
	ContentType string
}

// Options configures a Fetcher.
type Options struct {
	Timeout           time.Duration
	MaxSize           int
	RequestsPerSecond int
}

// Fetcher downloads favicons for bookmarked pages.
// Outbound requests are rate limited to stay polite to remote sites.
type Fetcher struct {
	httpClient  *http.Client
	rateLimiter *rate.Limiter
	logger      *slog.Logger
	maxSize     int
}

// NewFetcher creates a favicon fetcher.
func NewFetcher(opts Options, logger *slog.Logger) *Fetcher {
	if opts.Timeout <= 0 {
		opts.Timeout = 10 * time.Second
	}
	if opts.MaxSize <= 0 {
		opts.MaxSize = 1 << 20
	}
	if opts.RequestsPerSecond <= 0 {
		opts.RequestsPerSecond = 2
	}
	return &Fetcher{
		httpClient: &http.Client{
			Timeout: opts.Timeout,
		},
		rateLimiter: rate.NewLimiter(rate.Limit(opts.RequestsPerSecond), opts.RequestsPerSecond),
		logger:      logger,
		maxSize:     opts.MaxSize,
	}
}

// Fetch resolves and downloads the favicon for a page URL.
// It scans the page for icon links and falls back to /favicon.ico.
// Favicon fetching is best effort: failures are reported as ok=false,
// never as an error.
func (f *Fetcher) Fetch(ctx context.Context, pageURL string) (*Icon, bool) {
	base, err := url.Parse(pageURL)
	if err != nil || base.Host == "" {
		f.logger.Debug("favicon: unparseable page url", "url", pageURL)
		return nil, false
	}

	if href := f.scanPageForIcon(ctx, base); href != "" {
		if icon, ok := f.download(ctx, href); ok {
			return icon, true
		}
	}

	// Fallback: conventional /favicon.ico at the site root.
	fallback := &url.URL{Scheme: base.Scheme, Host: base.Host, Path: "/favicon.ico"}
	if icon, ok := f.download(ctx, fallback.String()); ok {
		return icon, true
	}

	f.logger.Debug("favicon: no icon found", "url", pageURL)
	return nil, false
}

// scanPageForIcon fetches the page and returns the first icon link href,
// resolved against the page URL. Returns "" when none is found.
func (f *Fetcher) scanPageForIcon(ctx context.Context, base *url.URL) string {
	if err := f.rateLimiter.Wait(ctx); err != nil {
		return ""
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, base.String(), nil)
	if err != nil {
		return ""
	}

	resp, err := f.httpClient.Do(req)
	if err != nil {
		f.logger.Debug("favicon: page fetch failed", "url", base.String(), "error", err)
		return ""
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return ""
	}

	href := findIconHref(io.LimitReader(resp.Body, maxPageBytes))
	if href == "" {
		return ""
	}

	ref, err := url.Parse(href)
	if err != nil {
		return ""
	}
	return base.ResolveReference(ref).String()
}

// findIconHref scans an HTML document for <link rel="...icon..."> elements.
// The tokenizer tolerates truncated input, so reading a size-capped page
// body is fine.
func findIconHref(r io.Reader) string {
	z := html.NewTokenizer(r)
	for {
		tt := z.Next()
		if tt == html.ErrorToken {
			return ""
		}
		if tt != html.StartTagToken && tt != html.SelfClosingTagToken {
			continue
		}

		name, hasAttr := z.TagName()
		if string(name) != "link" || !hasAttr {
			continue
		}

		var rel, href string
		for {
			key, val, more := z.TagAttr()
			switch string(key) {
			case "rel":
				rel = strings.ToLower(string(val))
			case "href":
				href = string(val)
			}
			if !more {
				break
			}
		}

		// Matches "icon", "shortcut icon", "apple-touch-icon".
		if strings.Contains(rel, "icon") && href != "" {
			return href
		}
	}
}

// download fetches icon bytes, enforcing the size cap.
func (f *Fetcher) download(ctx context.Context, iconURL string) (*Icon, bool) {
	if err := f.rateLimiter.Wait(ctx); err != nil {
		return nil, false
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, iconURL, nil)
	if err != nil {
		return nil, false
	}

	resp, err := f.httpClient.Do(req)
	if err != nil {
		f.logger.Debug("favicon: icon fetch failed", "url", iconURL, "error", err)
		return nil, false
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, false
	}

	// Read one byte past the cap to detect oversized icons.
	data, err := io.ReadAll(io.LimitReader(resp.Body, int64(f.maxSize)+1))
	if err != nil || len(data) == 0 {
		return nil, false
	}
	if len(data) > f.maxSize {
		f.logger.Debug("favicon: icon exceeds size cap", "url", iconURL, "bytes", len(data))
		return nil, false
	}

	contentType := resp.Header.Get("Content-Type")
	if i := strings.Index(contentType, ";"); i >= 0 {
		contentType = strings.TrimSpace(contentType[:i])
	}
	if contentType == "" || contentType == "application/octet-stream" {
		contentType = http.DetectContentType(data)
	}

	return &Icon{Data: data, ContentType: contentType}, true
}
