package catalog

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/png"
)

const (
	demoWidth  = 48
	demoHeight = 27
)

var demoPalette = []struct {
	name string
	tint color.RGBA
}{
	{"Email", color.RGBA{R: 0x3b, G: 0x82, B: 0xf6, A: 0xff}},
	{"Music App", color.RGBA{R: 0xec, G: 0x48, B: 0x99, A: 0xff}},
	{"Photo", color.RGBA{R: 0xf5, G: 0x9e, B: 0x0b, A: 0xff}},
	{"Website", color.RGBA{R: 0x10, G: 0xb9, B: 0x81, A: 0xff}},
	{"Camera", color.RGBA{R: 0x8b, G: 0x5c, B: 0xf6, A: 0xff}},
}

// Demo returns the built-in five-section catalog with generated PNG variants.
func Demo() *Catalog {
	sections := make([]Section, 0, len(demoPalette))
	for _, entry := range demoPalette {
		clearPNG := encodePNG(stripes(entry.tint))
		blurredPNG := encodePNG(flat(entry.tint))
		sections = append(sections, Section{
			Name:    entry.name,
			Blurred: NewImageRef(blurredPNG, "image/png", fmt.Sprintf("builtin:%s/blurred", entry.name)),
			Clear:   NewImageRef(clearPNG, "image/png", fmt.Sprintf("builtin:%s/clear", entry.name)),
		})
	}
	cat, err := New(sections)
	if err != nil {
		panic(fmt.Sprintf("demo catalog: %v", err))
	}
	return cat
}

func stripes(tint color.RGBA) image.Image {
	img := image.NewRGBA(image.Rect(0, 0, demoWidth, demoHeight))
	for y := 0; y < demoHeight; y++ {
		for x := 0; x < demoWidth; x++ {
			c := tint
			if (x/6+y/6)%2 == 0 {
				c = color.RGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff}
			}
			img.SetRGBA(x, y, c)
		}
	}
	return img
}

// flat is the fully blurred limit of stripes: every pixel is the average color.
func flat(tint color.RGBA) image.Image {
	avg := color.RGBA{
		R: uint8((int(tint.R) + 0xff) / 2),
		G: uint8((int(tint.G) + 0xff) / 2),
		B: uint8((int(tint.B) + 0xff) / 2),
		A: 0xff,
	}
	img := image.NewRGBA(image.Rect(0, 0, demoWidth, demoHeight))
	for y := 0; y < demoHeight; y++ {
		for x := 0; x < demoWidth; x++ {
			img.SetRGBA(x, y, avg)
		}
	}
	return img
}

func encodePNG(img image.Image) []byte {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		panic(fmt.Sprintf("encode demo png: %v", err))
	}
	return buf.Bytes()
}
