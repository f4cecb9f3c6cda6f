package overlay

import (
	"image"
	"math"

	"golang.org/x/image/draw"
	"golang.org/x/image/math/f64"

	"github.com/nidhi-davra/ai-glass-suggestor/internal/faceshape"
)

// Matrix returns the source-to-destination affine transform that scales the
// overlay bounds to the placement size, centers it on the origin, rotates it
// and moves it to the placement center.
func Matrix(p Placement, src image.Rectangle) f64.Aff3 {
	kx := p.Width / float64(src.Dx())
	ky := p.Height / float64(src.Dy())
	sin, cos := math.Sincos(p.Rotation)

	// overlay-local offsets after scaling, before rotation
	tx := -kx*float64(src.Min.X) - p.Width/2
	ty := -ky*float64(src.Min.Y) - p.Height/2

	return f64.Aff3{
		cos * kx, -sin * ky, cos*tx - sin*ty + p.CenterX,
		sin * kx, cos * ky, sin*tx + cos*ty + p.CenterY,
	}
}

// Composite draws photo unscaled onto a canvas of its own size and then the
// overlay transformed by p. The overlay is skipped when either it or p is
// nil, or when the placement has no area.
func Composite(photo, glasses image.Image, p *Placement) *image.RGBA {
	pb := photo.Bounds()
	canvas := image.NewRGBA(image.Rect(0, 0, pb.Dx(), pb.Dy()))
	draw.Copy(canvas, image.Point{}, photo, pb, draw.Src, nil)

	if glasses == nil || p == nil {
		return canvas
	}
	gb := glasses.Bounds()
	if gb.Empty() || !(p.Width > 0) || !(p.Height > 0) {
		return canvas
	}

	draw.BiLinear.Transform(canvas, Matrix(*p, gb), glasses, gb, draw.Over, nil)
	return canvas
}

// Render places glasses over photo using the landmarks and composites the
// result. The canvas takes the photo's pixel size. The returned placement is
// nil when the landmarks lack the eye corners or glasses is nil.
func Render(photo, glasses image.Image, landmarks []faceshape.Point) (*image.RGBA, *Placement) {
	if glasses == nil {
		return Composite(photo, nil, nil), nil
	}
	pb, gb := photo.Bounds(), glasses.Bounds()
	p, ok := Place(landmarks, pb.Dx(), pb.Dy(), gb.Dx(), gb.Dy())
	if !ok {
		return Composite(photo, nil, nil), nil
	}
	return Composite(photo, glasses, &p), &p
}
