package diagram

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image/color"

	"github.com/fogleman/gg"
	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gobold"
)

// Geometry is expressed in logical units and multiplied by pixelScale when
// rasterizing, so the PNG stays crisp when shown at small sizes.
const (
	pixelScale = 3.0
	margin     = 4.0

	whiteKeyWidth  = 24.0
	whiteKeyHeight = 120.0
	blackKeyWidth  = whiteKeyWidth * 0.6
	blackKeyHeight = whiteKeyHeight * 0.62

	outlineWidth   = 1.0
	whiteLabelSize = 8.0
	blackLabelSize = 6.0
	whiteLabelLift = 10.0 // distance of the label baseline from the bottom of a white key
	blackLabelDrop = 0.3  // label position as a fraction of the black key height
)

var (
	whiteKeyColor  = color.RGBA{R: 0xFA, G: 0xFA, B: 0xFA, A: 0xFF}
	blackKeyColor  = color.RGBA{R: 0x1E, G: 0x1E, B: 0x1E, A: 0xFF}
	outlineColor   = color.RGBA{R: 0x26, G: 0x26, B: 0x26, A: 0xFF}
	highlightColor = color.RGBA{R: 0xF5, G: 0xA6, B: 0x23, A: 0xFF}
	labelColor     = color.RGBA{R: 0x11, G: 0x11, B: 0x11, A: 0xFF}
)

var labelFont = mustParseFont(gobold.TTF)

func mustParseFont(ttf []byte) *truetype.Font {
	f, err := truetype.Parse(ttf)
	if err != nil {
		panic(fmt.Sprintf("diagram: failed to parse embedded font: %v", err))
	}
	return f
}

func labelFace(size float64) font.Face {
	return truetype.NewFace(labelFont, &truetype.Options{Size: size * pixelScale, Hinting: font.HintingFull})
}

// Render draws the keyboard with the given canonical notes highlighted and
// returns the PNG bytes. An empty highlight set returns nil without drawing.
// Notes that are not on the keyboard are ignored.
func Render(highlight []string) ([]byte, error) {
	if len(highlight) == 0 {
		return nil, nil
	}

	lit := make(map[string]bool, len(highlight))
	for _, note := range highlight {
		lit[note] = true
	}

	width := int((float64(whiteKeyCount())*whiteKeyWidth + 2*margin) * pixelScale)
	height := int((whiteKeyHeight + 2*margin) * pixelScale)
	dc := gg.NewContext(width, height)

	// White keys first so black keys overlap them.
	for _, k := range keyboard {
		if !k.Sharp {
			drawKey(dc, k, lit[k.Note])
		}
	}
	for _, k := range keyboard {
		if k.Sharp {
			drawKey(dc, k, lit[k.Note])
		}
	}

	whiteFace := labelFace(whiteLabelSize)
	defer whiteFace.Close()
	blackFace := labelFace(blackLabelSize)
	defer blackFace.Close()

	dc.SetColor(labelColor)
	for _, k := range keyboard {
		if !lit[k.Note] {
			continue
		}
		x, y, w, h := keyRect(k)
		if k.Sharp {
			dc.SetFontFace(blackFace)
			dc.DrawStringAnchored(k.Note, px(x+w/2), px(y+h*blackLabelDrop), 0.5, 0.5)
		} else {
			dc.SetFontFace(whiteFace)
			dc.DrawStringAnchored(k.Note, px(x+w/2), px(y+h-whiteLabelLift), 0.5, 0.5)
		}
	}

	var buf bytes.Buffer
	if err := dc.EncodePNG(&buf); err != nil {
		return nil, fmt.Errorf("failed to encode keyboard diagram: %w", err)
	}
	return buf.Bytes(), nil
}

// EncodeBase64 encodes diagram bytes for transport inside JSON.
func EncodeBase64(png []byte) string {
	return base64.StdEncoding.EncodeToString(png)
}

func drawKey(dc *gg.Context, k Key, highlighted bool) {
	x, y, w, h := keyRect(k)
	dc.DrawRectangle(px(x), px(y), px(w), px(h))

	switch {
	case highlighted:
		dc.SetColor(highlightColor)
	case k.Sharp:
		dc.SetColor(blackKeyColor)
	default:
		dc.SetColor(whiteKeyColor)
	}
	dc.FillPreserve()

	dc.SetColor(outlineColor)
	dc.SetLineWidth(outlineWidth * pixelScale)
	dc.Stroke()
}

// keyRect returns the key rectangle in logical units.
// Black keys straddle the boundary to the right of their white key.
func keyRect(k Key) (x, y, w, h float64) {
	left := margin + float64(k.White)*whiteKeyWidth
	if k.Sharp {
		return left + whiteKeyWidth - blackKeyWidth/2, margin, blackKeyWidth, blackKeyHeight
	}
	return left, margin, whiteKeyWidth, whiteKeyHeight
}

func px(v float64) float64 {
	return v * pixelScale
}
