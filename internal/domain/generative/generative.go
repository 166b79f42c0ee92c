package generative

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"math"
	"math/rand"
	"strconv"
	"strings"

	"golang.org/x/exp/slices"
)

const (
	StyleCosmic    = "cosmic"
	StyleGeometric = "geometric"
	StyleAbstract  = "abstract"
	StyleGradient  = "gradient"

	DefaultSize = 800
	MaxSize     = 2048

	starCount   = 200
	nebulaCount = 5
	shapeCount  = 40
	strokeCount = 24
)

var (
	Styles         = []string{StyleCosmic, StyleGeometric, StyleAbstract, StyleGradient}
	DefaultPalette = []string{"#FF6B6B", "#4ECDC4", "#45B7D1"}

	spaceColor = color.RGBA{R: 0x0B, G: 0x0B, B: 0x2B, A: 0xFF}
)

type Options struct {
	Style  string
	Width  int
	Height int
	Colors []color.RGBA
	Seed   int64
}

// NewOptions validates the raw request values and fills the defaults.
func NewOptions(style string, width, height int, colors []string, seed int64) (Options, error) {
	style = strings.ToLower(strings.TrimSpace(style))
	if !slices.Contains(Styles, style) {
		style = StyleCosmic
	}

	if width == 0 {
		width = DefaultSize
	}

	if height == 0 {
		height = DefaultSize
	}

	if width < 0 || height < 0 || width > MaxSize || height > MaxSize {
		return Options{}, fmt.Errorf("size must be between 1 and %d", MaxSize)
	}

	if len(colors) == 0 {
		colors = DefaultPalette
	}

	palette, err := ParsePalette(colors)
	if err != nil {
		return Options{}, err
	}

	return Options{Style: style, Width: width, Height: height, Colors: palette, Seed: seed}, nil
}

// ParsePalette parses #RRGGBB or #RGB colors.
func ParsePalette(colors []string) ([]color.RGBA, error) {
	palette := make([]color.RGBA, 0, len(colors))
	for _, c := range colors {
		parsed, err := parseHexColor(c)
		if err != nil {
			return nil, err
		}

		palette = append(palette, parsed)
	}

	return palette, nil
}

func parseHexColor(s string) (color.RGBA, error) {
	hex := strings.TrimPrefix(strings.TrimSpace(s), "#")
	if len(hex) == 3 {
		hex = string([]byte{hex[0], hex[0], hex[1], hex[1], hex[2], hex[2]})
	}

	if len(hex) != 6 {
		return color.RGBA{}, fmt.Errorf("invalid color %q", s)
	}

	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return color.RGBA{}, fmt.Errorf("invalid color %q", s)
	}

	return color.RGBA{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v), A: 0xFF}, nil
}

// Render draws the artwork described by opts. The same options always
// produce the same image.
func Render(opts Options) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, opts.Width, opts.Height))
	r := rand.New(rand.NewSource(opts.Seed))

	palette := opts.Colors
	if len(palette) == 0 {
		palette, _ = ParsePalette(DefaultPalette)
	}

	switch opts.Style {
	case StyleGeometric:
		drawGeometric(img, r, palette)
	case StyleAbstract:
		drawAbstract(img, r, palette)
	case StyleGradient:
		drawGradient(img, palette)
	default:
		drawCosmic(img, r, palette)
	}

	return img
}

func EncodePNG(img image.Image) ([]byte, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, err
	}

	return buf.Bytes(), nil
}

func drawCosmic(img *image.RGBA, r *rand.Rand, palette []color.RGBA) {
	b := img.Bounds()
	cx, cy := float64(b.Dx())/2, float64(b.Dy())/2
	maxDist := math.Hypot(cx, cy)

	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			t := math.Hypot(float64(x)-cx, float64(y)-cy) / maxDist
			img.SetRGBA(x, y, lerp(palette[0], spaceColor, math.Min(1, 0.35+t)))
		}
	}

	minSide := float64(min(b.Dx(), b.Dy()))
	for i := 0; i < nebulaCount; i++ {
		fillSoftCircle(img,
			r.Float64()*float64(b.Dx()), r.Float64()*float64(b.Dy()),
			minSide*(0.1+r.Float64()*0.2),
			palette[r.Intn(len(palette))], 0.5)
	}

	white := color.RGBA{R: 0xFF, G: 0xFF, B: 0xFF, A: 0xFF}
	for i := 0; i < starCount; i++ {
		fillCircle(img,
			r.Float64()*float64(b.Dx()), r.Float64()*float64(b.Dy()),
			0.5+r.Float64()*1.5,
			white, 0.5+r.Float64()*0.5)
	}
}

func drawGeometric(img *image.RGBA, r *rand.Rand, palette []color.RGBA) {
	b := img.Bounds()
	fillRect(img, b, spaceColor, 1)

	w, h := float64(b.Dx()), float64(b.Dy())
	for i := 0; i < shapeCount; i++ {
		c := palette[r.Intn(len(palette))]
		x, y := r.Float64()*w, r.Float64()*h
		size := math.Min(w, h) * (0.05 + r.Float64()*0.2)

		switch r.Intn(3) {
		case 0:
			rect := image.Rect(int(x), int(y), int(x+size), int(y+size*(0.5+r.Float64())))
			fillRect(img, rect, c, 0.7)
		case 1:
			fillCircle(img, x, y, size/2, c, 0.7)
		default:
			fillTriangle(img,
				[2]float64{x, y - size/2},
				[2]float64{x - size/2, y + size/2},
				[2]float64{x + size/2, y + size/2},
				c, 0.7)
		}
	}
}

func drawAbstract(img *image.RGBA, r *rand.Rand, palette []color.RGBA) {
	b := img.Bounds()
	fillRect(img, b, color.RGBA{R: 0xF5, G: 0xF5, B: 0xF0, A: 0xFF}, 1)

	w, h := float64(b.Dx()), float64(b.Dy())
	for i := 0; i < strokeCount; i++ {
		c := palette[r.Intn(len(palette))]
		width := 2 + r.Float64()*10

		// Quadratic curve between two random points.
		x0, y0 := r.Float64()*w, r.Float64()*h
		x1, y1 := r.Float64()*w, r.Float64()*h
		x2, y2 := r.Float64()*w, r.Float64()*h

		steps := int(math.Hypot(x2-x0, y2-y0)) + 1
		for s := 0; s <= steps; s++ {
			t := float64(s) / float64(steps)
			x := (1-t)*(1-t)*x0 + 2*(1-t)*t*x1 + t*t*x2
			y := (1-t)*(1-t)*y0 + 2*(1-t)*t*y1 + t*t*y2
			fillCircle(img, x, y, width/2, c, 0.6)
		}
	}
}

func drawGradient(img *image.RGBA, palette []color.RGBA) {
	b := img.Bounds()
	span := float64(b.Dx() + b.Dy())
	if span == 0 {
		return
	}

	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			img.SetRGBA(x, y, gradientAt(palette, float64(x+y)/span))
		}
	}
}

// gradientAt returns the color at t in [0, 1] of evenly spaced stops.
func gradientAt(stops []color.RGBA, t float64) color.RGBA {
	if len(stops) == 1 {
		return stops[0]
	}

	pos := t * float64(len(stops)-1)
	i := int(pos)
	if i >= len(stops)-1 {
		return stops[len(stops)-1]
	}

	return lerp(stops[i], stops[i+1], pos-float64(i))
}

func lerp(a, b color.RGBA, t float64) color.RGBA {
	mix := func(x, y uint8) uint8 {
		return uint8(math.Round(float64(x) + (float64(y)-float64(x))*t))
	}

	return color.RGBA{R: mix(a.R, b.R), G: mix(a.G, b.G), B: mix(a.B, b.B), A: 0xFF}
}

func blend(img *image.RGBA, x, y int, c color.RGBA, alpha float64) {
	if !(image.Point{X: x, Y: y}.In(img.Bounds())) || alpha <= 0 {
		return
	}

	img.SetRGBA(x, y, lerp(img.RGBAAt(x, y), c, math.Min(alpha, 1)))
}

func fillRect(img *image.RGBA, rect image.Rectangle, c color.RGBA, alpha float64) {
	rect = rect.Intersect(img.Bounds())
	for y := rect.Min.Y; y < rect.Max.Y; y++ {
		for x := rect.Min.X; x < rect.Max.X; x++ {
			blend(img, x, y, c, alpha)
		}
	}
}

func fillCircle(img *image.RGBA, cx, cy, radius float64, c color.RGBA, alpha float64) {
	for y := int(cy - radius); y <= int(cy+radius); y++ {
		for x := int(cx - radius); x <= int(cx+radius); x++ {
			if math.Hypot(float64(x)-cx, float64(y)-cy) <= radius {
				blend(img, x, y, c, alpha)
			}
		}
	}
}

// fillSoftCircle fades alpha to zero at the border.
func fillSoftCircle(img *image.RGBA, cx, cy, radius float64, c color.RGBA, alpha float64) {
	for y := int(cy - radius); y <= int(cy+radius); y++ {
		for x := int(cx - radius); x <= int(cx+radius); x++ {
			d := math.Hypot(float64(x)-cx, float64(y)-cy) / radius
			if d <= 1 {
				blend(img, x, y, c, alpha*(1-d)*(1-d))
			}
		}
	}
}

func fillTriangle(img *image.RGBA, a, b, c [2]float64, col color.RGBA, alpha float64) {
	minX := int(math.Min(a[0], math.Min(b[0], c[0])))
	maxX := int(math.Max(a[0], math.Max(b[0], c[0])))
	minY := int(math.Min(a[1], math.Min(b[1], c[1])))
	maxY := int(math.Max(a[1], math.Max(b[1], c[1])))

	edge := func(p, q [2]float64, x, y float64) float64 {
		return (q[0]-p[0])*(y-p[1]) - (q[1]-p[1])*(x-p[0])
	}

	for y := minY; y <= maxY; y++ {
		for x := minX; x <= maxX; x++ {
			px, py := float64(x)+0.5, float64(y)+0.5
			e0, e1, e2 := edge(a, b, px, py), edge(b, c, px, py), edge(c, a, px, py)
			if (e0 >= 0 && e1 >= 0 && e2 >= 0) || (e0 <= 0 && e1 <= 0 && e2 <= 0) {
				blend(img, x, y, col, alpha)
			}
		}
	}
}

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}
