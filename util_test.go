package peekviz

import (
	"context"
	"image"
	"image/color"
	"image/png"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadImageFromURL(t *testing.T) {
	src := image.NewRGBA(image.Rect(0, 0, 8, 4))
	src.SetRGBA(0, 0, color.RGBA{R: 200, A: 255})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, png.Encode(w, src))
	}))
	defer srv.Close()

	img, err := LoadImageFromURL(context.Background(), srv.URL)
	require.NoError(t, err)
	assert.Equal(t, 8, img.Bounds().Dx())
	assert.Equal(t, 4, img.Bounds().Dy())
	assert.Equal(t, uint8(200), img.RGBAAt(0, 0).R)
}

func TestLoadImageFromURLErrors(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))
	defer srv.Close()

	_, err := LoadImageFromURL(context.Background(), srv.URL)
	assert.Error(t, err)

	_, err = LoadImageFromURL(context.Background(), "http://127.0.0.1:1/nope")
	assert.Error(t, err)
}
