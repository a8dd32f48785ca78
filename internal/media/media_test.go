package media

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/png"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func samplePNG(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x++ {
		for y := 0; y < h; y++ {
			img.Set(x, y, color.RGBA{R: uint8(x), G: uint8(y), B: 128, A: 255})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func decode(t *testing.T, data []byte) image.Image {
	t.Helper()
	img, err := png.Decode(bytes.NewReader(data))
	require.NoError(t, err)
	return img
}

func TestResizeAvatar(t *testing.T) {
	out, err := ResizeAvatar(bytes.NewReader(samplePNG(t, 400, 300)))
	require.NoError(t, err)

	b := decode(t, out).Bounds()
	assert.Equal(t, 250, b.Dx())
	assert.Equal(t, 250, b.Dy())
}

func TestResizePostImage(t *testing.T) {
	out, err := ResizePostImage(bytes.NewReader(samplePNG(t, 1200, 300)))
	require.NoError(t, err)

	b := decode(t, out).Bounds()
	assert.Equal(t, 600, b.Dx())
	assert.Equal(t, 150, b.Dy())
}

func TestResizeRejectsGarbage(t *testing.T) {
	_, err := ResizeAvatar(strings.NewReader("definitely not an image"))
	assert.ErrorIs(t, err, ErrInvalidImage)
}

func TestMemoryStore(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	_, err := s.Get(ctx, AvatarKey("u1"))
	assert.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, s.Put(ctx, AvatarKey("u1"), []byte("png"), ContentTypePNG))
	got, err := s.Get(ctx, AvatarKey("u1"))
	require.NoError(t, err)
	assert.Equal(t, []byte("png"), got)

	require.NoError(t, s.Delete(ctx, AvatarKey("u1")))
	_, err = s.Get(ctx, AvatarKey("u1"))
	assert.ErrorIs(t, err, ErrNotFound)

	assert.Equal(t, "posts/p1.png", PostImageKey("p1"))
}
