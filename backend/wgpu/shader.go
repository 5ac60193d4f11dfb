// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

//go:build !nogpu

package wgpu

import (
	_ "embed"
	"fmt"
	"time"

	"github.com/gogpu/easel"
	"github.com/gogpu/gputypes"
	"github.com/gogpu/naga"
	"github.com/gogpu/wgpu/hal"
)

//go:embed shaders/easel.wgsl
var paintShaderWGSL string

// gpuTimeout bounds every fence wait.
const gpuTimeout = 5 * time.Second

// rampWidth is the resolution of baked gradient ramp textures.
const rampWidth = 256

// pipeline holds the shared render pipeline and the resources every draw
// binds: one uniform slot, a paint texture, a sampler, and a coverage mask.
type pipeline struct {
	shader     hal.ShaderModule
	bindLayout hal.BindGroupLayout
	pipeLayout hal.PipelineLayout
	render     hal.RenderPipeline

	linearSampler  hal.Sampler
	nearestSampler hal.Sampler

	// whiteTex backs draws with no paint texture and no mask: a single
	// opaque white texel.
	whiteTex  hal.Texture
	whiteView hal.TextureView
}

// initPipeline compiles the paint shader and builds the pipeline.
func (d *Device) initPipeline() error {
	p := &pipeline{}
	if err := p.create(d.device, d.queue); err != nil {
		p.destroy(d.device)
		return err
	}
	d.pipe = p
	return nil
}

func (p *pipeline) create(device hal.Device, queue hal.Queue) error {
	// Compile WGSL to SPIR-V.
	spirvBytes, err := naga.Compile(paintShaderWGSL)
	if err != nil {
		return fmt.Errorf("wgpu: compile paint shader: %w", err)
	}
	spirvCode := make([]uint32, len(spirvBytes)/4)
	for i := range spirvCode {
		spirvCode[i] = uint32(spirvBytes[i*4]) |
			uint32(spirvBytes[i*4+1])<<8 |
			uint32(spirvBytes[i*4+2])<<16 |
			uint32(spirvBytes[i*4+3])<<24
	}

	shader, err := device.CreateShaderModule(&hal.ShaderModuleDescriptor{
		Label:  "easel_paint",
		Source: hal.ShaderSource{SPIRV: spirvCode},
	})
	if err != nil {
		return fmt.Errorf("wgpu: create shader module: %w", err)
	}
	p.shader = shader

	bindLayout, err := device.CreateBindGroupLayout(&hal.BindGroupLayoutDescriptor{
		Label: "easel_paint_bind_layout",
		Entries: []gputypes.BindGroupLayoutEntry{
			{
				Binding:    0,
				Visibility: gputypes.ShaderStageVertex | gputypes.ShaderStageFragment,
				Buffer:     &gputypes.BufferBindingLayout{Type: gputypes.BufferBindingTypeUniform},
			},
			{
				Binding:    1,
				Visibility: gputypes.ShaderStageFragment,
				Texture: &gputypes.TextureBindingLayout{
					SampleType:    gputypes.TextureSampleTypeFloat,
					ViewDimension: gputypes.TextureViewDimension2D,
				},
			},
			{
				Binding:    2,
				Visibility: gputypes.ShaderStageFragment,
				Sampler:    &gputypes.SamplerBindingLayout{Type: gputypes.SamplerBindingTypeFiltering},
			},
			{
				Binding:    3,
				Visibility: gputypes.ShaderStageFragment,
				Texture: &gputypes.TextureBindingLayout{
					SampleType:    gputypes.TextureSampleTypeFloat,
					ViewDimension: gputypes.TextureViewDimension2D,
				},
			},
		},
	})
	if err != nil {
		return fmt.Errorf("wgpu: create bind group layout: %w", err)
	}
	p.bindLayout = bindLayout

	pipeLayout, err := device.CreatePipelineLayout(&hal.PipelineLayoutDescriptor{
		Label:            "easel_paint_pipe_layout",
		BindGroupLayouts: []hal.BindGroupLayout{p.bindLayout},
	})
	if err != nil {
		return fmt.Errorf("wgpu: create pipeline layout: %w", err)
	}
	p.pipeLayout = pipeLayout

	premulBlend := gputypes.BlendStatePremultiplied()
	render, err := device.CreateRenderPipeline(&hal.RenderPipelineDescriptor{
		Label:  "easel_paint_pipeline",
		Layout: p.pipeLayout,
		Vertex: hal.VertexState{
			Module:     p.shader,
			EntryPoint: "vs_main",
			Buffers: []gputypes.VertexBufferLayout{
				{
					ArrayStride: vertexStride,
					StepMode:    gputypes.VertexStepModeVertex,
					Attributes: []gputypes.VertexAttribute{
						{Format: gputypes.VertexFormatFloat32x2, Offset: 0, ShaderLocation: 0},
					},
				},
			},
		},
		Fragment: &hal.FragmentState{
			Module:     p.shader,
			EntryPoint: "fs_main",
			Targets: []gputypes.ColorTargetState{
				{
					Format:    gputypes.TextureFormatBGRA8Unorm,
					Blend:     &premulBlend,
					WriteMask: gputypes.ColorWriteMaskAll,
				},
			},
		},
		Primitive: gputypes.PrimitiveState{
			Topology: gputypes.PrimitiveTopologyTriangleList,
			CullMode: gputypes.CullModeNone,
		},
		Multisample: gputypes.MultisampleState{
			Count: 1,
			Mask:  0xFFFFFFFF,
		},
	})
	if err != nil {
		return fmt.Errorf("wgpu: create render pipeline: %w", err)
	}
	p.render = render

	linear, err := device.CreateSampler(&hal.SamplerDescriptor{
		Label:        "easel_sampler_linear",
		AddressModeU: gputypes.AddressModeClampToEdge,
		AddressModeV: gputypes.AddressModeClampToEdge,
		AddressModeW: gputypes.AddressModeClampToEdge,
		MagFilter:    gputypes.FilterModeLinear,
		MinFilter:    gputypes.FilterModeLinear,
		MipmapFilter: gputypes.FilterModeLinear,
	})
	if err != nil {
		return fmt.Errorf("wgpu: create linear sampler: %w", err)
	}
	p.linearSampler = linear

	nearest, err := device.CreateSampler(&hal.SamplerDescriptor{
		Label:        "easel_sampler_nearest",
		AddressModeU: gputypes.AddressModeClampToEdge,
		AddressModeV: gputypes.AddressModeClampToEdge,
		AddressModeW: gputypes.AddressModeClampToEdge,
		MagFilter:    gputypes.FilterModeNearest,
		MinFilter:    gputypes.FilterModeNearest,
		MipmapFilter: gputypes.FilterModeNearest,
	})
	if err != nil {
		return fmt.Errorf("wgpu: create nearest sampler: %w", err)
	}
	p.nearestSampler = nearest

	whiteTex, whiteView, err := createPaintTexture(device, queue, 1, 1, []byte{255, 255, 255, 255}, "easel_white")
	if err != nil {
		return err
	}
	p.whiteTex = whiteTex
	p.whiteView = whiteView

	return nil
}

// sampler picks the sampler for an interpolation mode. Bicubic falls back
// to bilinear.
func (p *pipeline) sampler(mode easel.InterpolationMode) hal.Sampler {
	if mode == easel.InterpNearest {
		return p.nearestSampler
	}
	return p.linearSampler
}

// destroy releases in reverse creation order. Safe on partially built
// pipelines.
func (p *pipeline) destroy(device hal.Device) {
	if p.whiteView != nil {
		device.DestroyTextureView(p.whiteView)
		p.whiteView = nil
	}
	if p.whiteTex != nil {
		device.DestroyTexture(p.whiteTex)
		p.whiteTex = nil
	}
	if p.nearestSampler != nil {
		device.DestroySampler(p.nearestSampler)
		p.nearestSampler = nil
	}
	if p.linearSampler != nil {
		device.DestroySampler(p.linearSampler)
		p.linearSampler = nil
	}
	if p.render != nil {
		device.DestroyRenderPipeline(p.render)
		p.render = nil
	}
	if p.pipeLayout != nil {
		device.DestroyPipelineLayout(p.pipeLayout)
		p.pipeLayout = nil
	}
	if p.bindLayout != nil {
		device.DestroyBindGroupLayout(p.bindLayout)
		p.bindLayout = nil
	}
	if p.shader != nil {
		device.DestroyShaderModule(p.shader)
		p.shader = nil
	}
}

// createPaintTexture creates a sampled RGBA8 texture and uploads its texels.
func createPaintTexture(device hal.Device, queue hal.Queue, w, h int, rgba []byte, label string) (hal.Texture, hal.TextureView, error) {
	tex, err := device.CreateTexture(&hal.TextureDescriptor{
		Label:         label,
		Size:          hal.Extent3D{Width: uint32(w), Height: uint32(h), DepthOrArrayLayers: 1},
		MipLevelCount: 1,
		SampleCount:   1,
		Dimension:     gputypes.TextureDimension2D,
		Format:        gputypes.TextureFormatRGBA8Unorm,
		Usage:         gputypes.TextureUsageTextureBinding | gputypes.TextureUsageCopyDst,
	})
	if err != nil {
		return nil, nil, fmt.Errorf("wgpu: create texture %s: %w", label, err)
	}
	view, err := device.CreateTextureView(tex, &hal.TextureViewDescriptor{
		Label:         label + "_view",
		Format:        gputypes.TextureFormatRGBA8Unorm,
		Dimension:     gputypes.TextureViewDimension2D,
		Aspect:        gputypes.TextureAspectAll,
		MipLevelCount: 1,
	})
	if err != nil {
		device.DestroyTexture(tex)
		return nil, nil, fmt.Errorf("wgpu: create texture view %s: %w", label, err)
	}
	queue.WriteTexture(
		&hal.ImageCopyTexture{Texture: tex, MipLevel: 0},
		rgba,
		&hal.ImageDataLayout{Offset: 0, BytesPerRow: uint32(w * 4), RowsPerImage: uint32(h)},
		&hal.Extent3D{Width: uint32(w), Height: uint32(h), DepthOrArrayLayers: 1},
	)
	return tex, view, nil
}
