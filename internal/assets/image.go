package assets

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	_ "image/gif"  // Register decoder
	_ "image/jpeg" // Register decoder
	_ "image/png"  // Register decoder
	"os"

	"golang.org/x/image/draw"
)

// ErrorImage is shown in place of an image that could not be loaded.
var ErrorImage image.Image = errorImage(200, 200)

func errorImage(w, h int) image.Image {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	bg := color.RGBA{R: 0x30, G: 0x30, B: 0x30, A: 0xff}
	fg := color.RGBA{R: 0xd0, G: 0x40, B: 0x40, A: 0xff}
	draw.Draw(img, img.Bounds(), image.NewUniform(bg), image.Point{}, draw.Src)
	for i := 0; i < w && i < h; i++ {
		img.Set(i, i, fg)
		img.Set(w-1-i, i, fg)
	}
	return img
}

// decodeFile reads and decodes the image stored at path.
func decodeFile(path string) (image.Image, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDecode, err)
	}
	if b := img.Bounds(); b.Dx() <= 0 || b.Dy() <= 0 {
		return nil, fmt.Errorf("%w: empty bounds %v", ErrDecode, b)
	}
	return img, nil
}

// Fit shrinks img to fit inside a width x height box, keeping its aspect
// ratio. Images that already fit are returned unchanged; an image with no
// pixels is replaced by ErrorImage.
func Fit(img image.Image, width, height int) image.Image {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	if w <= 0 || h <= 0 {
		return ErrorImage
	}
	if w <= width && h <= height {
		return img
	}

	nw, nh := width, h*width/w
	if nh > height {
		nw, nh = w*height/h, height
	}
	nw, nh = max(nw, 1), max(nh, 1)

	dst := image.NewRGBA(image.Rect(0, 0, nw, nh))
	draw.CatmullRom.Scale(dst, dst.Bounds(), img, b, draw.Over, nil)
	return dst
}
