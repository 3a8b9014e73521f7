package artfetch

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPageImages(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		w.Write([]byte(`<html><head>
			<meta property="og:image" content="/capa.png">
		</head><body>
			<img src="/arte/dino.jpg">
			<img data-src="https://cdn.example.com/fundo.webp">
			<img src="/arte/dino.jpg">
			<img src="/script.js">
		</body></html>`))
	}))
	defer srv.Close()

	f := New()
	urls, err := f.PageImages(context.Background(), srv.URL, 10)
	require.NoError(t, err)

	require.Len(t, urls, 3, "dedupe e filtro de extensão")
	assert.Equal(t, srv.URL+"/capa.png", urls[0], "og:image vem primeiro")
	assert.Contains(t, urls, srv.URL+"/arte/dino.jpg")
	assert.Contains(t, urls, "https://cdn.example.com/fundo.webp")
}

func TestPageImagesRespectsMax(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		w.Write([]byte(`<html><body>
			<img src="/a.png"><img src="/b.png"><img src="/c.png">
		</body></html>`))
	}))
	defer srv.Close()

	urls, err := New().PageImages(context.Background(), srv.URL, 2)
	require.NoError(t, err)
	assert.Len(t, urls, 2)
}

func TestPageImagesRejectsBadURL(t *testing.T) {
	_, err := New().PageImages(context.Background(), "ftp://nope", 5)
	assert.Error(t, err)
}

func TestDownloadValidatesContentType(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/ok.png" {
			w.Header().Set("Content-Type", "image/png")
			w.Write([]byte("png-bytes"))
			return
		}
		w.Header().Set("Content-Type", "text/html")
		w.Write([]byte("<html>"))
	}))
	defer srv.Close()

	f := New()
	data, ct, err := f.Download(context.Background(), srv.URL+"/ok.png")
	require.NoError(t, err)
	assert.Equal(t, "image/png", ct)
	assert.Equal(t, []byte("png-bytes"), data)

	_, _, err = f.Download(context.Background(), srv.URL+"/page.html")
	assert.Error(t, err)
}
