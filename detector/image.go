package detector

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/draw"
	"image/jpeg"
	_ "image/png"
)

// ErrBadImage marks input that could not be decoded as an image. The HTTP
// layer maps it to a client error.
var ErrBadImage = errors.New("image could not be decoded")

// MinCropSize is the smallest crop edge the validator accepts. Smaller
// crops carry too little detail for a useful second opinion.
const MinCropSize = 32

// DecodeImage decodes JPEG or PNG bytes, wrapping failures in ErrBadImage.
func DecodeImage(data []byte) (image.Image, error) {
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBadImage, err)
	}
	return img, nil
}

// Crop cuts the detection box out of the image and re-encodes it as JPEG
// for the validator. The box is clamped to the image bounds.
func Crop(img image.Image, box Box) ([]byte, error) {
	bounds := img.Bounds()

	x1 := clamp(int(box.X), bounds.Min.X, bounds.Max.X)
	y1 := clamp(int(box.Y), bounds.Min.Y, bounds.Max.Y)
	x2 := clamp(int(box.X+box.Width), bounds.Min.X, bounds.Max.X)
	y2 := clamp(int(box.Y+box.Height), bounds.Min.Y, bounds.Max.Y)
	if x2 <= x1 || y2 <= y1 {
		return nil, fmt.Errorf("empty crop region %v within %v", box, bounds)
	}

	rect := image.Rect(x1, y1, x2, y2)
	out := image.NewRGBA(image.Rect(0, 0, rect.Dx(), rect.Dy()))
	draw.Draw(out, out.Bounds(), img, rect.Min, draw.Src)

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, out, &jpeg.Options{Quality: 90}); err != nil {
		return nil, fmt.Errorf("encode crop: %w", err)
	}
	return buf.Bytes(), nil
}

// CropLargeEnough reports whether the box is big enough to bother the
// validator with.
func CropLargeEnough(box Box) bool {
	return box.Width >= MinCropSize && box.Height >= MinCropSize
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
