package favicon

import (
	"context"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"
)

var pngBytes = []byte{0x89, 0x50, 0x4E, 0x47, 0x0D, 0x0A, 0x1A, 0x0A, 0, 0, 0, 0}

func newTestFetcher(t *testing.T) *Fetcher {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))
	return NewFetcher(Options{
		Timeout:           5 * time.Second,
		MaxSize:           1 << 20,
		RequestsPerSecond: 100,
	}, logger)
}

func TestFetch_LinkRelIcon(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		w.Write([]byte(`<html><head><link rel="icon" href="/assets/icon.png"></head><body>hi</body></html>`))
	})
	mux.HandleFunc("/assets/icon.png", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "image/png")
		w.Write(pngBytes)
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	f := newTestFetcher(t)
	icon, ok := f.Fetch(context.Background(), srv.URL+"/")
	if !ok {
		t.Fatal("expected icon, got ok=false")
	}
	if icon.ContentType != "image/png" {
		t.Errorf("expected image/png, got %s", icon.ContentType)
	}
	if len(icon.Data) != len(pngBytes) {
		t.Errorf("expected %d bytes, got %d", len(pngBytes), len(icon.Data))
	}
}

func TestFetch_FallbackToFaviconIco(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		w.Write([]byte(`<html><head><title>no icon link</title></head></html>`))
	})
	mux.HandleFunc("/favicon.ico", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "image/x-icon")
		w.Write([]byte{0x00, 0x00, 0x01, 0x00})
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	f := newTestFetcher(t)
	icon, ok := f.Fetch(context.Background(), srv.URL+"/some/page")
	if !ok {
		t.Fatal("expected fallback icon, got ok=false")
	}
	if icon.ContentType != "image/x-icon" {
		t.Errorf("expected image/x-icon, got %s", icon.ContentType)
	}
}

func TestFetch_NothingFound(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.NotFound(w, nil)
	}))
	defer srv.Close()

	f := newTestFetcher(t)
	if _, ok := f.Fetch(context.Background(), srv.URL+"/"); ok {
		t.Error("expected ok=false when nothing is served")
	}
}

func TestFetch_UnreachableHost(t *testing.T) {
	f := newTestFetcher(t)

	// Closed server: connection refused, must not error outward.
	srv := httptest.NewServer(http.NotFoundHandler())
	srv.Close()

	if _, ok := f.Fetch(context.Background(), srv.URL); ok {
		t.Error("expected ok=false for unreachable host")
	}
}

func TestFetch_BadURL(t *testing.T) {
	f := newTestFetcher(t)
	if _, ok := f.Fetch(context.Background(), "not a url"); ok {
		t.Error("expected ok=false for bad url")
	}
}

func TestFetch_OversizedIconRejected(t *testing.T) {
	big := make([]byte, 2048)
	mux := http.NewServeMux()
	mux.HandleFunc("/", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		w.Write([]byte(`<html><head><link rel="shortcut icon" href="/big.png"></head></html>`))
	})
	mux.HandleFunc("/big.png", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "image/png")
		w.Write(big)
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))
	f := NewFetcher(Options{MaxSize: 1024, RequestsPerSecond: 100}, logger)

	// Icon link rejected for size; /favicon.ico 404s; overall failure.
	if _, ok := f.Fetch(context.Background(), srv.URL+"/"); ok {
		t.Error("expected ok=false for oversized icon")
	}
}

func TestFindIconHref(t *testing.T) {
	tests := []struct {
		name string
		html string
		want string
	}{
		{
			name: "plain icon",
			html: `<html><head><link rel="icon" href="/fav.png"></head></html>`,
			want: "/fav.png",
		},
		{
			name: "shortcut icon",
			html: `<link rel="shortcut icon" href="fav.ico">`,
			want: "fav.ico",
		},
		{
			name: "apple touch icon",
			html: `<link rel="apple-touch-icon" href="/touch.png">`,
			want: "/touch.png",
		},
		{
			name: "stylesheet ignored",
			html: `<link rel="stylesheet" href="/style.css">`,
			want: "",
		},
		{
			name: "no links",
			html: `<html><body><p>hello</p></body></html>`,
			want: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := findIconHref(strings.NewReader(tt.html))
			if got != tt.want {
				t.Errorf("findIconHref: got %q, want %q", got, tt.want)
			}
		})
	}
}
