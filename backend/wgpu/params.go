// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package wgpu

import (
	"encoding/binary"
	"math"

	"github.com/gogpu/easel"
)

// Paint kinds dispatched in the fragment shader. Must match easel.wgsl.
const (
	paintSolid  = 0
	paintLinear = 1
	paintRadial = 2
	paintImage  = 3
)

// paintParamsSize is the byte size of the Params uniform: six vec4<f32>.
const paintParamsSize = 96

// vertexStride is the byte stride per vertex: position (vec2<f32>).
const vertexStride = 8

// paintParams is the per-draw uniform block. Layout per vec4:
//
//	screen   (w, h, 0, 0)             target size in pixels
//	clip     (minx, miny, maxx, maxy) device-space clip rectangle
//	xform    (a, d, b, e)             device-to-paint linear part, columns
//	offset   (c, f, kind, extend)     translation, paint dispatch
//	gradient (g0, g1, g2, g3)         kind-specific geometry
//	color    (r, g, b, a)             premultiplied color or multiplier
type paintParams struct {
	screenW, screenH float64
	clip             easel.Rect
	xform            easel.Matrix
	kind             int
	extend           easel.ExtendMode
	g0, g1, g2, g3   float64
	color            easel.RGBA
}

// pack serializes the params into the uniform buffer layout.
func (p paintParams) pack() []byte {
	buf := make([]byte, paintParamsSize)
	put := func(off int, v float64) {
		binary.LittleEndian.PutUint32(buf[off:], math.Float32bits(float32(v)))
	}

	put(0, p.screenW)
	put(4, p.screenH)

	put(16, p.clip.X)
	put(20, p.clip.Y)
	put(24, p.clip.Right())
	put(28, p.clip.Bottom())

	put(32, p.xform.A)
	put(36, p.xform.D)
	put(40, p.xform.B)
	put(44, p.xform.E)

	put(48, p.xform.C)
	put(52, p.xform.F)
	put(56, float64(p.kind))
	put(60, extendCode(p.extend))

	put(64, p.g0)
	put(68, p.g1)
	put(72, p.g2)
	put(76, p.g3)

	put(80, p.color.R)
	put(84, p.color.G)
	put(88, p.color.B)
	put(92, p.color.A)

	return buf
}

// extendCode maps an extend mode to its shader dispatch value.
func extendCode(m easel.ExtendMode) float64 {
	switch m {
	case easel.ExtendRepeat:
		return 1
	case easel.ExtendReflect:
		return 2
	default:
		return 0
	}
}

// packVertices serializes device-space points into a vertex buffer.
func packVertices(pts []easel.Point) []byte {
	buf := make([]byte, len(pts)*vertexStride)
	for i, pt := range pts {
		off := i * vertexStride
		binary.LittleEndian.PutUint32(buf[off:], math.Float32bits(float32(pt.X)))
		binary.LittleEndian.PutUint32(buf[off+4:], math.Float32bits(float32(pt.Y)))
	}
	return buf
}

// bakeRamp renders a gradient stop list into a premultiplied RGBA ramp of
// the given width. The shader applies the extend mode before sampling, so
// the ramp itself is always the padded [0, 1] span.
func bakeRamp(stops []easel.ColorStop, width int) []byte {
	buf := make([]byte, width*4)
	for i := 0; i < width; i++ {
		t := (float64(i) + 0.5) / float64(width)
		c := easel.ColorAtOffset(stops, easel.ExtendPad, t).Premultiply()
		buf[i*4+0] = clampByte(c.R)
		buf[i*4+1] = clampByte(c.G)
		buf[i*4+2] = clampByte(c.B)
		buf[i*4+3] = clampByte(c.A)
	}
	return buf
}

func clampByte(v float64) byte {
	s := v * 255
	if s <= 0 {
		return 0
	}
	if s >= 255 {
		return 255
	}
	return byte(s + 0.5)
}
