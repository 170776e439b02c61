package render

import (
	"context"
	"encoding/base64"
	"image"
	"image/color"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"LiveSketch/internal/state"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func redLine() []state.Stroke {
	d := state.NewDrawing()
	d.Begin(state.Point{X: 10, Y: 50}, state.Red, 6)
	d.Extend(state.Point{X: 90, Y: 50})
	d.Extend(state.Point{X: 90, Y: 50})
	return d.Strokes()
}

func nrgbaAt(img *image.RGBA, x, y int) color.NRGBA {
	return color.NRGBAModel.Convert(img.At(x, y)).(color.NRGBA)
}

func assertRed(t *testing.T, c color.NRGBA) {
	t.Helper()
	assert.Greater(t, c.R, uint8(220), "red channel of %v", c)
	assert.Less(t, c.G, uint8(60), "green channel of %v", c)
	assert.Less(t, c.B, uint8(60), "blue channel of %v", c)
}

func TestRenderEmptyIsBackground(t *testing.T) {
	img := New().Render(nil, 32, 16, 1)
	require.Equal(t, image.Rect(0, 0, 32, 16), img.Bounds())
	assert.Equal(t, Background, nrgbaAt(img, 0, 0))
	assert.Equal(t, Background, nrgbaAt(img, 31, 15))
}

func TestRenderStroke(t *testing.T) {
	img := New().Render(redLine(), 100, 100, 1)

	assertRed(t, nrgbaAt(img, 40, 50))
	assert.Equal(t, Background, nrgbaAt(img, 40, 10))
	assert.Equal(t, Background, nrgbaAt(img, 95, 95))
}

func TestRenderScales(t *testing.T) {
	img := New().Render(redLine(), 200, 200, 2)
	assertRed(t, nrgbaAt(img, 80, 100))
	assert.Equal(t, Background, nrgbaAt(img, 80, 50))
}

func TestRenderClampsSize(t *testing.T) {
	img := New().Render(nil, 0, -3, 1)
	assert.Equal(t, image.Rect(0, 0, 1, 1), img.Bounds())
}

func TestSnapshotRoundTrip(t *testing.T) {
	uri, err := New().Snapshot(redLine(), 64)
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(uri, "data:image/png;base64,"))

	img, err := DecodeImageURL(context.Background(), uri)
	require.NoError(t, err)
	assert.Equal(t, image.Rect(0, 0, 64, 64), img.Bounds())
}

func TestDecodeImageURLRejectsBadInput(t *testing.T) {
	_, err := DecodeImageURL(context.Background(), "data:image/png,notbase64")
	assert.ErrorIs(t, err, ErrBadDataURI)

	_, err = DecodeImageURL(context.Background(), "data:image/png;base64")
	assert.ErrorIs(t, err, ErrBadDataURI)

	_, err = DecodeImageURL(context.Background(), "ftp://example.com/a.png")
	assert.Error(t, err)
}

func TestDecodeImageURLFetchesHTTP(t *testing.T) {
	data, err := EncodePNG(New().Render(nil, 8, 8, 1))
	require.NoError(t, err)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/out.png" {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "image/png")
		_, _ = w.Write(data)
	}))
	defer srv.Close()

	img, err := DecodeImageURL(context.Background(), srv.URL+"/out.png")
	require.NoError(t, err)
	assert.Equal(t, image.Rect(0, 0, 8, 8), img.Bounds())

	_, err = DecodeImageURL(context.Background(), srv.URL+"/missing.png")
	assert.ErrorContains(t, err, "404")
}

func TestDataURIPayloadIsPNG(t *testing.T) {
	uri, err := DataURI(New().Render(nil, 4, 4, 1))
	require.NoError(t, err)
	raw, err := base64.StdEncoding.DecodeString(strings.TrimPrefix(uri, "data:image/png;base64,"))
	require.NoError(t, err)
	assert.Equal(t, "\x89PNG", string(raw[:4]))
}
