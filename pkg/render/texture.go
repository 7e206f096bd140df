package render

import (
	"fmt"
	"image"
	"math"
	"os"

	_ "image/jpeg"
	_ "image/png"
)

// FilterMode controls how textures are sampled.
type FilterMode int

const (
	// FilterNearest picks the closest texel.
	FilterNearest FilterMode = iota
	// FilterBilinear blends the four surrounding texels.
	FilterBilinear
)

// WrapMode controls texture coordinate behavior outside [0, 1].
type WrapMode int

const (
	// WrapRepeat tiles the texture.
	WrapRepeat WrapMode = iota
	// WrapClamp clamps coordinates to the edge.
	WrapClamp
)

// Texture is a sampled image used during rasterization. Pixels may be
// owned by the texture or aliased from a framebuffer via TargetTexture.
type Texture struct {
	Width  int
	Height int
	Pixels []Color
	Filter FilterMode
	Wrap   WrapMode
}

// NewTexture creates an empty texture with the given dimensions.
func NewTexture(width, height int) *Texture {
	return &Texture{
		Width:  width,
		Height: height,
		Pixels: make([]Color, width*height),
		Filter: FilterBilinear,
		Wrap:   WrapRepeat,
	}
}

// TargetTexture wraps a framebuffer's color buffer as a texture. The
// texture shares the framebuffer's pixel storage, so anything drawn to
// the framebuffer is immediately visible to samplers. Render-to-texture
// needs no copy step because of this aliasing.
func TargetTexture(fb *Framebuffer) *Texture {
	return &Texture{
		Width:  fb.Width,
		Height: fb.Height,
		Pixels: fb.Pixels,
		Filter: FilterBilinear,
		Wrap:   WrapClamp,
	}
}

// LoadTexture reads an image file (PNG or JPEG) into a texture.
func LoadTexture(path string) (*Texture, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open texture %s: %w", path, err)
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("decode texture %s: %w", path, err)
	}
	return TextureFromImage(img), nil
}

// TextureFromImage converts an image.Image into a texture.
func TextureFromImage(img image.Image) *Texture {
	bounds := img.Bounds()
	tex := NewTexture(bounds.Dx(), bounds.Dy())
	for y := 0; y < tex.Height; y++ {
		for x := 0; x < tex.Width; x++ {
			r, g, b, a := img.At(bounds.Min.X+x, bounds.Min.Y+y).RGBA()
			tex.Pixels[y*tex.Width+x] = Color{
				R: uint8(r >> 8),
				G: uint8(g >> 8),
				B: uint8(b >> 8),
				A: uint8(a >> 8),
			}
		}
	}
	return tex
}

// Sample returns the color at texture coordinate (u, v). V grows upward
// in texture space, so it is flipped before indexing rows.
func (t *Texture) Sample(u, v float64) Color {
	if t.Width == 0 || t.Height == 0 {
		return ColorBlack
	}

	u = t.wrapCoord(u)
	v = t.wrapCoord(v)
	v = 1 - v

	if t.Filter == FilterNearest {
		x := int(u * float64(t.Width))
		y := int(v * float64(t.Height))
		if x >= t.Width {
			x = t.Width - 1
		}
		if y >= t.Height {
			y = t.Height - 1
		}
		return t.Pixels[y*t.Width+x]
	}

	// Bilinear: sample the four neighboring texels and blend.
	fx := u*float64(t.Width) - 0.5
	fy := v*float64(t.Height) - 0.5
	x0 := int(math.Floor(fx))
	y0 := int(math.Floor(fy))
	tx := fx - float64(x0)
	ty := fy - float64(y0)

	c00 := t.texel(x0, y0)
	c10 := t.texel(x0+1, y0)
	c01 := t.texel(x0, y0+1)
	c11 := t.texel(x0+1, y0+1)

	top := lerpColor(c00, c10, tx)
	bottom := lerpColor(c01, c11, tx)
	return lerpColor(top, bottom, ty)
}

func (t *Texture) wrapCoord(c float64) float64 {
	switch t.Wrap {
	case WrapClamp:
		return math.Max(0, math.Min(1, c))
	default:
		c = math.Mod(c, 1)
		if c < 0 {
			c++
		}
		return c
	}
}

// texel reads a texel with edge clamping, used by bilinear filtering.
func (t *Texture) texel(x, y int) Color {
	if x < 0 {
		x = 0
	} else if x >= t.Width {
		x = t.Width - 1
	}
	if y < 0 {
		y = 0
	} else if y >= t.Height {
		y = t.Height - 1
	}
	return t.Pixels[y*t.Width+x]
}
