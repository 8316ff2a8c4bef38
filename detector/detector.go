// Package detector wraps the YOLO inference runtime. The runtime runs the
// actual model and is reached over HTTP; this package owns the detection
// types, the client, image decoding/cropping and overlap suppression.
package detector

import "context"

// Box is a detection bounding box in pixel coordinates.
type Box struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Area returns the box area, never negative.
func (b Box) Area() float64 {
	if b.Width <= 0 || b.Height <= 0 {
		return 0
	}
	return b.Width * b.Height
}

// IoU computes intersection over union with another box.
func (b Box) IoU(o Box) float64 {
	x1 := max(b.X, o.X)
	y1 := max(b.Y, o.Y)
	x2 := min(b.X+b.Width, o.X+o.Width)
	y2 := min(b.Y+b.Height, o.Y+o.Height)

	iw := x2 - x1
	ih := y2 - y1
	if iw <= 0 || ih <= 0 {
		return 0
	}
	inter := iw * ih
	union := b.Area() + o.Area() - inter
	if union <= 0 {
		return 0
	}
	return inter / union
}

// Detection is one detected object. Immutable once produced by the runtime.
type Detection struct {
	Label      string  `json:"label"`
	Confidence float64 `json:"confidence"`
	Box        Box     `json:"box"`
}

// Detector produces detections for an image.
type Detector interface {
	Detect(ctx context.Context, image []byte) ([]Detection, error)
	// Ping reports whether the runtime is up with its weights loaded.
	Ping(ctx context.Context) error
}
