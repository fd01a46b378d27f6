package covers

import (
	"fmt"
	"image"
	_ "image/gif"  // Register GIF decoder
	_ "image/jpeg" // Register JPEG decoder
	_ "image/png"  // Register PNG decoder
	"os"

	"github.com/bbrks/go-blurhash"
	"golang.org/x/image/draw"
	_ "golang.org/x/image/webp" // Register WebP decoder
)

const (
	// ThumbnailSize bounds both sides of a rendered thumbnail.
	ThumbnailSize = 200

	// blurHashSize is the side of the image the BlurHash is computed from.
	// A small thumbnail gives nearly the same hash in a fraction of the time.
	blurHashSize = 64
)

// Thumbnail describes a decoded cover scaled down for display.
type Thumbnail struct {
	Width    int
	Height   int
	BlurHash string
}

// String renders "<width>x<height> <blurhash>".
func (t Thumbnail) String() string {
	return fmt.Sprintf("%dx%d %s", t.Width, t.Height, t.BlurHash)
}

// MakeThumbnail decodes the image at path, fits it within ThumbnailSize
// keeping its aspect ratio, and computes its BlurHash.
func MakeThumbnail(path string) (Thumbnail, error) {
	file, err := os.Open(path)
	if err != nil {
		return Thumbnail{}, fmt.Errorf("open image: %w", err)
	}
	defer file.Close()

	img, _, err := image.Decode(file)
	if err != nil {
		return Thumbnail{}, fmt.Errorf("decode image: %w", err)
	}

	thumb := fit(img, ThumbnailSize)

	// 4 horizontal, 3 vertical components
	hash, err := blurhash.Encode(4, 3, fit(thumb, blurHashSize))
	if err != nil {
		return Thumbnail{}, fmt.Errorf("encode blurhash: %w", err)
	}

	b := thumb.Bounds()
	return Thumbnail{Width: b.Dx(), Height: b.Dy(), BlurHash: hash}, nil
}

// fit scales img down so neither side exceeds size. Smaller images are returned as is.
func fit(img image.Image, size int) image.Image {
	bounds := img.Bounds()
	srcWidth := bounds.Dx()
	srcHeight := bounds.Dy()

	if srcWidth <= size && srcHeight <= size {
		return img
	}

	var dstWidth, dstHeight int
	if srcWidth > srcHeight {
		dstWidth = size
		dstHeight = max((srcHeight*size)/srcWidth, 1)
	} else {
		dstHeight = size
		dstWidth = max((srcWidth*size)/srcHeight, 1)
	}

	dst := image.NewRGBA(image.Rect(0, 0, dstWidth, dstHeight))
	draw.ApproxBiLinear.Scale(dst, dst.Bounds(), img, bounds, draw.Src, nil)
	return dst
}
