package fetch

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/png"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func pngBytes(t *testing.T) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 10, 10))
	for y := 0; y < 10; y++ {
		for x := 0; x < 10; x++ {
			img.Set(x, y, color.RGBA{R: 255, G: 255, B: 255, A: 255})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func TestFetch_ValidPNG(t *testing.T) {
	data := pngBytes(t)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, userAgent, r.Header.Get("User-Agent"))
		w.Header().Set("Content-Type", "image/png")
		w.Write(data)
	}))
	defer server.Close()

	f := NewHTTPFetcher(5 * time.Second)
	sample, err := f.Fetch(context.Background(), server.URL+"/photo.png")
	require.NoError(t, err)
	require.NotNil(t, sample.Decoded)
	require.Equal(t, "png", sample.Format)
	require.Equal(t, "image/png", sample.MediaType())
	require.Equal(t, data, sample.Raw)
	require.Equal(t, server.URL+"/photo.png", sample.SourceURL)
}

func TestFetch_BadScheme(t *testing.T) {
	f := NewHTTPFetcher(time.Second)

	_, err := f.Fetch(context.Background(), "ftp://example.com/a.png")
	fe, ok := AsFetchError(err)
	require.True(t, ok)
	require.Equal(t, ReasonInvalidURL, fe.Reason)
}

func TestFetch_EmptyHost(t *testing.T) {
	f := NewHTTPFetcher(time.Second)

	_, err := f.Fetch(context.Background(), "https:///a.png")
	fe, ok := AsFetchError(err)
	require.True(t, ok)
	require.Equal(t, ReasonInvalidURL, fe.Reason)
}

func TestFetch_HTTPErrorStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))
	defer server.Close()

	f := NewHTTPFetcher(time.Second)
	_, err := f.Fetch(context.Background(), server.URL)
	fe, ok := AsFetchError(err)
	require.True(t, ok)
	require.Equal(t, ReasonNetwork, fe.Reason)
}

func TestFetch_WrongContentType(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		w.Write([]byte("<html>nope</html>"))
	}))
	defer server.Close()

	f := NewHTTPFetcher(time.Second)
	_, err := f.Fetch(context.Background(), server.URL)
	fe, ok := AsFetchError(err)
	require.True(t, ok)
	require.Equal(t, ReasonNotAnImage, fe.Reason)
}

func TestFetch_UndecodableBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "image/png")
		w.Write([]byte("definitely not a png"))
	}))
	defer server.Close()

	f := NewHTTPFetcher(time.Second)
	_, err := f.Fetch(context.Background(), server.URL)
	fe, ok := AsFetchError(err)
	require.True(t, ok)
	require.Equal(t, ReasonNotAnImage, fe.Reason)
}

func TestFetch_EmptyBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "image/png")
	}))
	defer server.Close()

	f := NewHTTPFetcher(time.Second)
	_, err := f.Fetch(context.Background(), server.URL)
	fe, ok := AsFetchError(err)
	require.True(t, ok)
	require.Equal(t, ReasonNotAnImage, fe.Reason)
}

func TestSample_DecodableBytes(t *testing.T) {
	sample := Sample(pngBytes(t))
	require.NotNil(t, sample.Decoded)
	require.Equal(t, "png", sample.Format)
}

func TestSample_UndecodableBytesTolerated(t *testing.T) {
	sample := Sample([]byte("garbage"))
	require.Nil(t, sample.Decoded)
	require.Equal(t, []byte("garbage"), sample.Raw)
	// По умолчанию считаем png: бэкендам нужен какой-то MIME-тип
	require.Equal(t, "image/png", sample.MediaType())
}
