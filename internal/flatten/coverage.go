// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package flatten

import (
	"image"
	"math"
	"sort"

	"github.com/gogpu/easel"
)

// coverageSubsamples is the number of vertical sample lines per pixel row.
const coverageSubsamples = 4

// Coverage rasterizes the filled region of the polygons into an 8-bit alpha
// mask over bounds. Horizontal antialiasing comes from fractional span ends,
// vertical antialiasing from subsampled scanlines. Polygon coordinates are
// in the same pixel space as bounds.
func Coverage(polys []Polygon, rule easel.FillRule, bounds image.Rectangle) *image.Alpha {
	mask := image.NewAlpha(bounds)
	edges := buildEdges(polys)
	if len(edges) == 0 || bounds.Empty() {
		return mask
	}

	type crossing struct {
		x   float64
		dir int
	}

	w := bounds.Dx()
	acc := make([]float64, w)
	xs := make([]crossing, 0, 8)

	for row := bounds.Min.Y; row < bounds.Max.Y; row++ {
		for i := range acc {
			acc[i] = 0
		}

		for s := 0; s < coverageSubsamples; s++ {
			y := float64(row) + (float64(s)+0.5)/coverageSubsamples

			xs = xs[:0]
			for i := range edges {
				e := &edges[i]
				if e.y0 <= y && y < e.y1 {
					xs = append(xs, crossing{e.xAt(y), e.dir})
				}
			}
			if len(xs) < 2 {
				continue
			}
			sort.Slice(xs, func(i, j int) bool { return xs[i].x < xs[j].x })

			winding := 0
			for i := 0; i+1 < len(xs); i++ {
				winding += xs[i].dir
				if !inside(winding, rule) {
					continue
				}
				x0 := xs[i].x - float64(bounds.Min.X)
				x1 := xs[i+1].x - float64(bounds.Min.X)
				addSpan(acc, x0, x1, 1.0/coverageSubsamples)
			}
		}

		rowOff := (row - bounds.Min.Y) * mask.Stride
		for x := 0; x < w; x++ {
			v := acc[x]
			if v > 1 {
				v = 1
			}
			mask.Pix[rowOff+x] = uint8(v*255 + 0.5)
		}
	}
	return mask
}

// addSpan accumulates weighted coverage for the horizontal span [x0, x1),
// splitting fractional ends across pixel boundaries.
func addSpan(acc []float64, x0, x1, weight float64) {
	if x0 < 0 {
		x0 = 0
	}
	if x1 > float64(len(acc)) {
		x1 = float64(len(acc))
	}
	if x1 <= x0 {
		return
	}
	ix0 := int(math.Floor(x0))
	ix1 := int(math.Ceil(x1))
	if ix1 > len(acc) {
		ix1 = len(acc)
	}
	for x := ix0; x < ix1; x++ {
		l := math.Max(x0, float64(x))
		r := math.Min(x1, float64(x+1))
		if r > l {
			acc[x] += (r - l) * weight
		}
	}
}
