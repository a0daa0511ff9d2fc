package media

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/gif"
	"image/jpeg"
	"image/png"
	"io"

	"golang.org/x/image/draw"
	"golang.org/x/image/webp"
)

const (
	MaxUploadSize = 10 << 20
	MaxDimension  = 4000
	MinDimension  = 100
)

var (
	ErrTooLarge          = errors.New("image file too large. Maximum size is 10MB")
	ErrUnsupportedFormat = errors.New("unsupported image format. Allowed formats: jpeg, jpg, png, gif, webp")
	ErrBadDimensions     = fmt.Errorf("image dimensions must be between %d and %d pixels", MinDimension, MaxDimension)
	ErrCorrupt           = errors.New("upload a valid image. The file you uploaded was either not an image or a corrupted image")
)

// Variant sizes and their bounding boxes. The original is kept untouched.
const (
	SizeOriginal = "original"
	SizeLarge    = "large"
	SizeMedium   = "medium"
	SizeSmall    = "small"
)

var variantBounds = map[string]image.Point{
	SizeLarge:  {X: 1600, Y: 1200},
	SizeMedium: {X: 800, Y: 600},
	SizeSmall:  {X: 400, Y: 400},
}

// VariantSizes lists the derived sizes, largest first.
var VariantSizes = []string{SizeLarge, SizeMedium, SizeSmall}

// IsSize reports whether size is a known download size.
func IsSize(size string) bool {
	_, ok := variantBounds[size]
	return ok || size == SizeOriginal
}

type decoder struct {
	config      func(io.Reader) (image.Config, error)
	decode      func(io.Reader) (image.Image, error)
	contentType string
	ext         string
}

var decoders = map[string]decoder{
	"jpeg": {jpeg.DecodeConfig, jpeg.Decode, "image/jpeg", ".jpg"},
	"png":  {png.DecodeConfig, png.Decode, "image/png", ".png"},
	"gif":  {gif.DecodeConfig, gif.Decode, "image/gif", ".gif"},
	"webp": {webp.DecodeConfig, webp.Decode, "image/webp", ".webp"},
}

// Info describes a validated upload.
type Info struct {
	Format      string
	ContentType string
	Ext         string
	Width       int
	Height      int
	Size        int64
}

// Inspect sniffs the format of data and validates its size and dimensions.
func Inspect(data []byte) (*Info, error) {
	if len(data) > MaxUploadSize {
		return nil, ErrTooLarge
	}

	format := sniff(data)
	d, ok := decoders[format]
	if !ok {
		return nil, ErrUnsupportedFormat
	}

	cfg, err := d.config(bytes.NewReader(data))
	if err != nil {
		return nil, ErrCorrupt
	}
	if cfg.Width < MinDimension || cfg.Height < MinDimension ||
		cfg.Width > MaxDimension || cfg.Height > MaxDimension {
		return nil, ErrBadDimensions
	}

	return &Info{
		Format:      format,
		ContentType: d.contentType,
		Ext:         d.ext,
		Width:       cfg.Width,
		Height:      cfg.Height,
		Size:        int64(len(data)),
	}, nil
}

func sniff(data []byte) string {
	switch {
	case bytes.HasPrefix(data, []byte("\xff\xd8\xff")):
		return "jpeg"
	case bytes.HasPrefix(data, []byte("\x89PNG\r\n\x1a\n")):
		return "png"
	case bytes.HasPrefix(data, []byte("GIF87a")), bytes.HasPrefix(data, []byte("GIF89a")):
		return "gif"
	case len(data) >= 12 && string(data[0:4]) == "RIFF" && string(data[8:12]) == "WEBP":
		return "webp"
	}
	return ""
}

// Variants decodes data and renders the derived sizes as JPEG, scaled to
// fit their bounding boxes. Images already inside a box are re-encoded as
// is. With no sizes given every variant is rendered.
func Variants(data []byte, info *Info, sizes ...string) (map[string][]byte, error) {
	if len(sizes) == 0 {
		sizes = VariantSizes
	}
	src, err := decoders[info.Format].decode(bytes.NewReader(data))
	if err != nil {
		return nil, ErrCorrupt
	}

	out := make(map[string][]byte, len(sizes))
	for _, size := range sizes {
		box, ok := variantBounds[size]
		if !ok {
			return nil, fmt.Errorf("unknown variant %q", size)
		}
		img := fit(src, box)

		var buf bytes.Buffer
		if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: 85}); err != nil {
			return nil, fmt.Errorf("encode %s variant: %w", size, err)
		}
		out[size] = buf.Bytes()
	}
	return out, nil
}

func fit(src image.Image, box image.Point) image.Image {
	b := src.Bounds()
	w, h := b.Dx(), b.Dy()
	if w <= box.X && h <= box.Y {
		return src
	}

	// scale by the tighter side so the result stays within the box
	if w*box.Y > h*box.X {
		h = max(1, h*box.X/w)
		w = box.X
	} else {
		w = max(1, w*box.Y/h)
		h = box.Y
	}

	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.CatmullRom.Scale(dst, dst.Bounds(), src, b, draw.Over, nil)
	return dst
}

// OriginalKey is the storage key of an upload for photoID.
func OriginalKey(photoID, ext string) string {
	return "photos/" + photoID + "/" + SizeOriginal + ext
}

// VariantKey is the storage key of a derived size for photoID.
func VariantKey(photoID, size string) string {
	return "photos/" + photoID + "/" + size + ".jpg"
}

// AvatarKey is the storage key of a profile picture.
func AvatarKey(userID, nonce, ext string) string {
	return "avatars/" + userID + "/" + nonce + ext
}
