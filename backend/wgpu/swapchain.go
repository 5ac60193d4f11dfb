// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

//go:build !nogpu

package wgpu

import (
	"fmt"
	"image"
	"sync"

	"github.com/gogpu/easel"
	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"
)

// swapChain renders into an offscreen BGRA texture and presents by reading
// it back into a CPU front image. Window integrations pick the front image
// up after each Present; partial presents only refresh the dirty rows.
type swapChain struct {
	dev  *Device
	size image.Point

	tex  hal.Texture
	view hal.TextureView

	mu    sync.Mutex
	front *image.RGBA
}

var (
	_ easel.SwapChain    = (*swapChain)(nil)
	_ easel.TargetBuffer = (*targetBuffer)(nil)
)

func newSwapChain(d *Device, size image.Point) (*swapChain, error) {
	sc := &swapChain{dev: d}
	if err := sc.create(size); err != nil {
		return nil, err
	}
	return sc, nil
}

func (sc *swapChain) create(size image.Point) error {
	if size.X < 1 || size.Y < 1 {
		return fmt.Errorf("wgpu: swap chain size %dx%d", size.X, size.Y)
	}
	tex, err := sc.dev.device.CreateTexture(&hal.TextureDescriptor{
		Label: "easel_swapchain",
		Size: hal.Extent3D{
			Width:              uint32(size.X),
			Height:             uint32(size.Y),
			DepthOrArrayLayers: 1,
		},
		MipLevelCount: 1,
		SampleCount:   1,
		Dimension:     gputypes.TextureDimension2D,
		Format:        gputypes.TextureFormatBGRA8Unorm,
		Usage:         gputypes.TextureUsageRenderAttachment | gputypes.TextureUsageCopySrc,
	})
	if err != nil {
		return fmt.Errorf("%w: swap chain texture: %v", easel.ErrDeviceLost, err)
	}
	view, err := sc.dev.device.CreateTextureView(tex, &hal.TextureViewDescriptor{
		Label:         "easel_swapchain_view",
		Format:        gputypes.TextureFormatBGRA8Unorm,
		Dimension:     gputypes.TextureViewDimension2D,
		Aspect:        gputypes.TextureAspectAll,
		MipLevelCount: 1,
	})
	if err != nil {
		sc.dev.device.DestroyTexture(tex)
		return fmt.Errorf("%w: swap chain view: %v", easel.ErrDeviceLost, err)
	}

	sc.tex = tex
	sc.view = view
	sc.mu.Lock()
	sc.size = size
	sc.front = image.NewRGBA(image.Rect(0, 0, size.X, size.Y))
	sc.mu.Unlock()
	return nil
}

// Resize drops the buffers and recreates them at the new size. The caller
// releases any target buffer first, per the SwapChain contract.
func (sc *swapChain) Resize(size image.Point) error {
	sc.destroyTexture()
	return sc.create(size)
}

func (sc *swapChain) Buffer() (easel.TargetBuffer, error) {
	if sc.tex == nil {
		return nil, easel.ErrClosed
	}
	return &targetBuffer{sc: sc}, nil
}

// Present reads the rendered texture back and scatters the dirty regions
// into the front image. A nil dirty list refreshes everything.
func (sc *swapChain) Present(dirty []image.Rectangle) error {
	if sc.tex == nil {
		return easel.ErrClosed
	}
	if dirty != nil && len(dirty) == 0 {
		return nil
	}
	pix, stride, err := sc.readback()
	if err != nil {
		return err
	}

	sc.mu.Lock()
	defer sc.mu.Unlock()
	full := image.Rect(0, 0, sc.size.X, sc.size.Y)
	if dirty == nil {
		dirty = []image.Rectangle{full}
	}
	for _, r := range dirty {
		r = r.Intersect(full)
		for y := r.Min.Y; y < r.Max.Y; y++ {
			src := pix[y*stride+r.Min.X*4 : y*stride+r.Max.X*4]
			dst := sc.front.Pix[y*sc.front.Stride+r.Min.X*4 : y*sc.front.Stride+r.Max.X*4]
			bgraToRGBA(dst, src)
		}
	}
	return nil
}

// Front returns the presented frame. The image is owned by the swap chain
// and stays valid until the next Resize or Release.
func (sc *swapChain) Front() *image.RGBA {
	sc.mu.Lock()
	defer sc.mu.Unlock()
	return sc.front
}

func (sc *swapChain) Release() {
	sc.destroyTexture()
}

func (sc *swapChain) destroyTexture() {
	if sc.view != nil {
		sc.dev.device.DestroyTextureView(sc.view)
		sc.view = nil
	}
	if sc.tex != nil {
		sc.dev.device.DestroyTexture(sc.tex)
		sc.tex = nil
	}
}

// readback copies the swap chain texture into CPU memory. Returns BGRA rows
// with the 256-byte aligned stride the copy requires.
func (sc *swapChain) readback() ([]byte, int, error) {
	w, h := sc.size.X, sc.size.Y
	bytesPerRow := (w*4 + 255) &^ 255
	bufSize := bytesPerRow * h

	staging, err := sc.dev.device.CreateBuffer(&hal.BufferDescriptor{
		Label: "easel_present_staging",
		Size:  uint64(bufSize),
		Usage: gputypes.BufferUsageCopyDst | gputypes.BufferUsageMapRead,
	})
	if err != nil {
		return nil, 0, fmt.Errorf("%w: present staging: %v", easel.ErrDeviceLost, err)
	}
	defer sc.dev.device.DestroyBuffer(staging)

	enc, err := sc.dev.device.CreateCommandEncoder(&hal.CommandEncoderDescriptor{Label: "easel_present"})
	if err != nil {
		return nil, 0, fmt.Errorf("%w: present encoder: %v", easel.ErrDeviceLost, err)
	}
	if err := enc.BeginEncoding("easel_present"); err != nil {
		return nil, 0, fmt.Errorf("%w: present encoding: %v", easel.ErrDeviceLost, err)
	}
	enc.TransitionTextures([]hal.TextureBarrier{{
		Texture: sc.tex,
		Usage: hal.TextureUsageTransition{
			OldUsage: gputypes.TextureUsageRenderAttachment,
			NewUsage: gputypes.TextureUsageCopySrc,
		},
	}})
	enc.CopyTextureToBuffer(sc.tex, staging, []hal.BufferTextureCopy{{
		BufferLayout: hal.ImageDataLayout{
			Offset:       0,
			BytesPerRow:  uint32(bytesPerRow),
			RowsPerImage: uint32(h),
		},
		TextureBase: hal.ImageCopyTexture{Texture: sc.tex, MipLevel: 0},
		Size: hal.Extent3D{
			Width:              uint32(w),
			Height:             uint32(h),
			DepthOrArrayLayers: 1,
		},
	}})
	enc.TransitionTextures([]hal.TextureBarrier{{
		Texture: sc.tex,
		Usage: hal.TextureUsageTransition{
			OldUsage: gputypes.TextureUsageCopySrc,
			NewUsage: gputypes.TextureUsageRenderAttachment,
		},
	}})
	cmdBuf, err := enc.EndEncoding()
	if err != nil {
		return nil, 0, fmt.Errorf("%w: present encoding: %v", easel.ErrDeviceLost, err)
	}
	defer sc.dev.device.FreeCommandBuffer(cmdBuf)

	if err := sc.dev.submit(cmdBuf); err != nil {
		return nil, 0, fmt.Errorf("%w: %v", easel.ErrDeviceLost, err)
	}
	pix := make([]byte, bufSize)
	if err := sc.dev.queue.ReadBuffer(staging, 0, pix); err != nil {
		return nil, 0, fmt.Errorf("%w: present readback: %v", easel.ErrDeviceLost, err)
	}
	return pix, bytesPerRow, nil
}

// bgraToRGBA swizzles BGRA texels into RGBA. dst and src must be the same
// length.
func bgraToRGBA(dst, src []byte) {
	for i := 0; i+3 < len(src); i += 4 {
		dst[i+0] = src[i+2]
		dst[i+1] = src[i+1]
		dst[i+2] = src[i+0]
		dst[i+3] = src[i+3]
	}
}

// targetBuffer binds the swap chain texture as a render target.
type targetBuffer struct {
	sc *swapChain
}

func (tb *targetBuffer) Size() image.Point { return tb.sc.size }

func (tb *targetBuffer) Release() {}

// render exposes the texture to the device context.
func (tb *targetBuffer) render() renderTarget {
	return renderTarget{tex: tb.sc.tex, view: tb.sc.view, size: tb.sc.size}
}
