// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package wgpu provides a GPU-accelerated easel backend using gogpu/wgpu.
//
// The backend renders through the gogpu/wgpu HAL on Vulkan. Shapes are
// tessellated on the CPU into device-space triangles and drawn with a single
// render pipeline whose fragment shader evaluates the paint: solid color,
// linear or radial gradient ramp, or image. Gradient ramps are baked into
// 256x1 textures; geometric clip masks are rasterized on the CPU and sampled
// as coverage.
//
// # Registration
//
// Importing the package registers it with the backend registry:
//
//	import _ "github.com/gogpu/easel/backend/wgpu"
//
//	dev, err := backend.New(backend.BackendWGPU)
//
// Open can also be called directly when the registry is not wanted.
//
// # Swap chain
//
// The swap chain renders into an offscreen BGRA texture. Present reads the
// texture back and scatters the dirty regions into a front image, which
// embedders copy to the screen. A windowing surface is deliberately not
// managed here; the front image is the hand-off point.
//
// # Build tags
//
// Building with the nogpu tag replaces the device with a stub whose factory
// reports the backend as unavailable. CPU-only parts (geometry building,
// paint parameter packing) stay compiled either way.
package wgpu
