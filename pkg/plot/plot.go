// 17 Oct 2026

// Package plot draws a horizontal bar chart of genes per region as a
// PNG. Regions without genes are left out, otherwise a human assembly
// gives a picture that is mostly unplaced scaffolds.
package plot

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"io"
	"os"

	"github.com/golang/freetype"
	"golang.org/x/image/font/gofont/goregular"

	"github.com/andrew-torda/gffscan/pkg/summary"
)

const (
	width    = 800
	rowH     = 18
	margin   = 10
	labelW   = 140 // room for region names
	countW   = 70  // room for the number after a bar
	fontSize = 11
	dpi      = 72
)

var barColour = color.RGBA{R: 0x3b, G: 0x6e, B: 0xa8, A: 0xff}

type row struct {
	name string
	n    int
}

// rows picks out the regions that have at least one gene.
func rows(st *summary.Stats) (r []row, nmax int) {
	for _, name := range st.Names {
		n := st.Total(name)
		if n == 0 {
			continue
		}
		r = append(r, row{name, n})
		if n > nmax {
			nmax = n
		}
	}
	return r, nmax
}

// Bars draws the chart and writes it to w as a PNG.
func Bars(w io.Writer, st *summary.Stats) error {
	ft, err := freetype.ParseFont(goregular.TTF)
	if err != nil {
		return fmt.Errorf("loading font: %w", err)
	}
	r, nmax := rows(st)
	nrow := len(r)
	if nrow == 0 {
		nrow = 1 // room to say there is nothing
	}
	height := 2*margin + nrow*rowH
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.Draw(img, img.Bounds(), image.White, image.Point{}, draw.Src)

	c := freetype.NewContext()
	c.SetDPI(dpi)
	c.SetFont(ft)
	c.SetFontSize(fontSize)
	c.SetClip(img.Bounds())
	c.SetDst(img)
	c.SetSrc(image.Black)

	if len(r) == 0 {
		if _, err := c.DrawString("no genes", freetype.Pt(margin, margin+rowH-5)); err != nil {
			return err
		}
		return png.Encode(w, img)
	}

	barMax := width - labelW - countW - 2*margin
	for i, rr := range r {
		y := margin + i*rowH
		if _, err := c.DrawString(rr.name, freetype.Pt(margin, y+rowH-5)); err != nil {
			return err
		}
		blen := rr.n * barMax / nmax
		if blen < 1 {
			blen = 1
		}
		x0 := margin + labelW
		bar := image.Rect(x0, y+3, x0+blen, y+rowH-3)
		draw.Draw(img, bar, &image.Uniform{C: barColour}, image.Point{}, draw.Src)
		pt := freetype.Pt(x0+blen+4, y+rowH-5)
		if _, err := c.DrawString(fmt.Sprint(rr.n), pt); err != nil {
			return err
		}
	}
	return png.Encode(w, img)
}

// WriteFile is Bars to a named file.
func WriteFile(path string, st *summary.Stats) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := Bars(f, st); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
