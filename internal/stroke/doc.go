// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package stroke converts stroked paths to filled outlines.
//
// This package implements CPU-side stroke expansion following tiny-skia and
// kurbo patterns. The resulting fill path is suitable for triangulation and
// GPU rasterization.
//
// # Algorithm Overview
//
// Stroke expansion works by building two parallel offset paths:
//   - Forward path: Offset by +width/2 perpendicular to the tangent
//   - Backward path: Offset by -width/2 perpendicular to the tangent
//
// The final filled path is constructed by:
//  1. Forward path goes forward
//  2. End cap connects forward to backward
//  3. Backward path is reversed
//  4. Start cap connects backward to forward and closes
//
// # Line Caps
//
// Line caps define the shape of stroke endpoints:
//   - LineCapButt: Flat cap ending exactly at the endpoint
//   - LineCapRound: Semicircular cap with radius = width/2
//   - LineCapSquare: Square cap extending width/2 beyond the endpoint
//
// # Line Joins
//
// Line joins define how stroke segments connect:
//   - LineJoinMiter: Sharp corner (limited by miter limit)
//   - LineJoinRound: Circular arc at corners
//   - LineJoinBevel: Straight line across the corner
//
// # Usage
//
//	style := stroke.Stroke{
//	    Width:      2.0,
//	    Cap:        stroke.LineCapButt,
//	    Join:       stroke.LineJoinMiter,
//	    MiterLimit: 4.0,
//	}
//
//	outline := stroke.Expand(path, style, 0.25)
//
// # References
//
// The algorithm is based on:
//   - tiny-skia (Rust): path/src/stroker.rs
//   - kurbo (Rust): src/stroke.rs
package stroke
