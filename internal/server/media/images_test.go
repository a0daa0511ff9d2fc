package media

import (
	"bytes"
	"image"
	"image/color"
	"image/gif"
	"image/jpeg"
	"image/png"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func pngBytes(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x++ {
		img.Set(x, 0, color.RGBA{R: 200, A: 255})
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func TestInspect(t *testing.T) {
	info, err := Inspect(pngBytes(t, 120, 100))
	require.NoError(t, err)
	assert.Equal(t, &Info{Format: "png", ContentType: "image/png", Ext: ".png", Width: 120, Height: 100, Size: info.Size}, info)
	assert.Positive(t, info.Size)

	var buf bytes.Buffer
	require.NoError(t, jpeg.Encode(&buf, image.NewGray(image.Rect(0, 0, 150, 150)), nil))
	info, err = Inspect(buf.Bytes())
	require.NoError(t, err)
	assert.Equal(t, "jpeg", info.Format)
	assert.Equal(t, ".jpg", info.Ext)

	buf.Reset()
	pal := image.NewPaletted(image.Rect(0, 0, 100, 100), color.Palette{color.Black, color.White})
	require.NoError(t, gif.Encode(&buf, pal, nil))
	info, err = Inspect(buf.Bytes())
	require.NoError(t, err)
	assert.Equal(t, "image/gif", info.ContentType)
}

func TestInspect_Rejects(t *testing.T) {
	_, err := Inspect(pngBytes(t, 50, 120))
	assert.ErrorIs(t, err, ErrBadDimensions)

	_, err = Inspect(pngBytes(t, 4001, 100))
	assert.ErrorIs(t, err, ErrBadDimensions)

	_, err = Inspect([]byte("plain text"))
	assert.ErrorIs(t, err, ErrUnsupportedFormat)

	_, err = Inspect([]byte("\x89PNG\r\n\x1a\ngarbage"))
	assert.ErrorIs(t, err, ErrCorrupt)

	_, err = Inspect(make([]byte, MaxUploadSize+1))
	assert.ErrorIs(t, err, ErrTooLarge)
}

func TestSniff_WebP(t *testing.T) {
	assert.Equal(t, "webp", sniff([]byte("RIFF\x00\x00\x00\x00WEBPVP8 ")))
	assert.Equal(t, "", sniff([]byte("RIFF")))
}

func TestVariants(t *testing.T) {
	data := pngBytes(t, 2000, 1000)
	info, err := Inspect(data)
	require.NoError(t, err)

	variants, err := Variants(data, info)
	require.NoError(t, err)
	require.Len(t, variants, 3)

	want := map[string]image.Point{
		SizeLarge:  {X: 1600, Y: 800},
		SizeMedium: {X: 800, Y: 400},
		SizeSmall:  {X: 400, Y: 200},
	}
	for size, dims := range want {
		cfg, err := jpeg.DecodeConfig(bytes.NewReader(variants[size]))
		require.NoError(t, err, size)
		assert.Equal(t, dims, image.Point{X: cfg.Width, Y: cfg.Height}, size)
	}
}

func TestVariants_NoUpscale(t *testing.T) {
	data := pngBytes(t, 300, 120)
	info, err := Inspect(data)
	require.NoError(t, err)

	variants, err := Variants(data, info)
	require.NoError(t, err)

	cfg, err := jpeg.DecodeConfig(bytes.NewReader(variants[SizeLarge]))
	require.NoError(t, err)
	assert.Equal(t, 300, cfg.Width)
	assert.Equal(t, 120, cfg.Height)
}

func TestVariants_Selected(t *testing.T) {
	data := pngBytes(t, 900, 900)
	info, err := Inspect(data)
	require.NoError(t, err)

	variants, err := Variants(data, info, SizeSmall)
	require.NoError(t, err)
	require.Len(t, variants, 1)

	cfg, err := jpeg.DecodeConfig(bytes.NewReader(variants[SizeSmall]))
	require.NoError(t, err)
	assert.Equal(t, image.Point{X: 400, Y: 400}, image.Point{X: cfg.Width, Y: cfg.Height})

	_, err = Variants(data, info, SizeOriginal)
	assert.Error(t, err)
}

func TestKeysAndSizes(t *testing.T) {
	assert.Equal(t, "photos/p1/original.png", OriginalKey("p1", ".png"))
	assert.Equal(t, "photos/p1/small.jpg", VariantKey("p1", SizeSmall))
	assert.Equal(t, "avatars/u1/abc.jpg", AvatarKey("u1", "abc", ".jpg"))

	assert.True(t, IsSize(SizeOriginal))
	assert.True(t, IsSize(SizeMedium))
	assert.False(t, IsSize("huge"))
}

func TestCleanKey(t *testing.T) {
	for raw, want := range map[string]string{
		"photos/p1/small.jpg": "photos/p1/small.jpg",
		"avatars/u/a.png":     "avatars/u/a.png",
	} {
		got, ok := CleanKey(raw)
		assert.True(t, ok, raw)
		assert.Equal(t, want, got)
	}

	for _, raw := range []string{"", "../etc/passwd", "photos/../../x", "a//b", "a\\b", "photos/"} {
		_, ok := CleanKey(raw)
		assert.False(t, ok, raw)
	}
}
