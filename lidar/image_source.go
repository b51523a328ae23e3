package lidar

import (
	"context"
	"image"
	"image/color"
	"math"

	"github.com/fogleman/gg"
	"github.com/lucasb-eyer/go-colorful"
	"github.com/pkg/errors"
)

// Hits are shaded from nearColor at the device to farColor at the edge of its bounds.
var (
	nearColor = colorful.Color{R: 1, G: 0, B: 0}
	farColor  = colorful.Color{R: 1, G: 1, B: 0}
)

// ImageSource generates images from the current scan of a lidar device. The device sits at the
// center of the image with +Y pointing up.
type ImageSource struct {
	size   image.Point
	device Device
}

// NewImageSource returns an image source producing size sized frames of the given device.
func NewImageSource(size image.Point, device Device) *ImageSource {
	return &ImageSource{size: size, device: device}
}

// Next scans the device once and draws every hit, shaded by its distance.
func (is *ImageSource) Next(ctx context.Context) (image.Image, error) {
	if is.size.X <= 0 || is.size.Y <= 0 {
		return nil, errors.Errorf("invalid image size %v", is.size)
	}
	bounds, err := is.device.Bounds(ctx)
	if err != nil {
		return nil, err
	}
	if bounds.X <= 0 || bounds.Y <= 0 {
		return nil, errors.Errorf("device reported empty bounds %v", bounds)
	}
	scale := math.Min(float64(is.size.X)/bounds.X, float64(is.size.Y)/bounds.Y)
	reach := math.Max(bounds.X, bounds.Y) / 2
	centerX := float64(is.size.X) / 2
	centerY := float64(is.size.Y) / 2

	measurements, err := is.device.Scan(ctx, ScanOptions{HitsOnly: true})
	if err != nil {
		return nil, err
	}

	dc := gg.NewContext(is.size.X, is.size.Y)
	dc.SetColor(color.Black)
	dc.Clear()

	for _, next := range measurements {
		dc.SetColor(nearColor.BlendHcl(farColor, math.Min(1, next.Distance()/reach)).Clamped())
		offset := next.Offset()
		dc.DrawPoint(centerX+offset.X*scale, centerY-offset.Y*scale, 2)
		dc.Fill()
	}

	dc.SetColor(color.RGBA{0, 255, 0, 255})
	dc.DrawPoint(centerX, centerY, 3)
	dc.Fill()

	return dc.Image(), nil
}

// Close does nothing; the device is owned by the caller.
func (is *ImageSource) Close(ctx context.Context) error {
	return nil
}
