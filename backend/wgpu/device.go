// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

//go:build !nogpu

package wgpu

import (
	"fmt"
	"image"
	"sync"

	"github.com/gogpu/easel"
	"github.com/gogpu/easel/backend"
	"github.com/gogpu/gpucontext"
	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"

	// Import Vulkan backend so it registers via init().
	_ "github.com/gogpu/wgpu/hal/vulkan"
)

// init registers the backend on package import.
func init() {
	backend.Register(backend.BackendWGPU, func() (easel.Device, error) {
		return Open()
	})
}

// Device is an easel.Device backed by the gogpu/wgpu HAL on Vulkan.
//
// The queue is shared between drawing contexts and swap chain presents, so
// every submit goes through qmu. All other resources are created up front
// and only torn down in Close.
type Device struct {
	qmu sync.Mutex

	instance hal.Instance
	device   hal.Device
	queue    hal.Queue

	// external is set when device and queue came from a provider and must
	// not be destroyed on Close.
	external bool

	pipe *pipeline

	mu     sync.Mutex
	closed bool
}

var (
	_ easel.Device         = (*Device)(nil)
	_ easel.GeometrySource = (*Device)(nil)
)

// Open creates a device on the first available Vulkan adapter, preferring
// discrete over integrated GPUs.
func Open() (*Device, error) {
	vk, ok := hal.GetBackend(gputypes.BackendVulkan)
	if !ok {
		return nil, fmt.Errorf("wgpu: vulkan backend not available")
	}
	instance, err := vk.CreateInstance(&hal.InstanceDescriptor{Flags: 0})
	if err != nil {
		return nil, fmt.Errorf("wgpu: create instance: %w", err)
	}
	adapters := instance.EnumerateAdapters(nil)
	if len(adapters) == 0 {
		instance.Destroy()
		return nil, fmt.Errorf("wgpu: no adapters found")
	}
	var selected *hal.ExposedAdapter
	for i := range adapters {
		if adapters[i].Info.DeviceType == gputypes.DeviceTypeDiscreteGPU ||
			adapters[i].Info.DeviceType == gputypes.DeviceTypeIntegratedGPU {
			selected = &adapters[i]
			break
		}
	}
	if selected == nil {
		selected = &adapters[0]
	}
	openDev, err := selected.Adapter.Open(gputypes.Features(0), gputypes.DefaultLimits())
	if err != nil {
		instance.Destroy()
		return nil, fmt.Errorf("wgpu: open adapter: %w", err)
	}

	d := &Device{
		instance: instance,
		device:   openDev.Device,
		queue:    openDev.Queue,
	}
	if err := d.initPipeline(); err != nil {
		d.device.Destroy()
		instance.Destroy()
		return nil, err
	}
	easel.Logger().Info("wgpu: device ready", "adapter", selected.Info.Name)
	return d, nil
}

// HalSource exposes the gogpu/wgpu HAL handle behind a gpucontext device or
// queue. Providers running on this HAL implement it on the values their
// Device() and Queue() accessors return.
type HalSource interface {
	Hal() any
}

// FromProvider creates a device on an externally owned GPU supplied through a
// gpucontext.DeviceProvider, letting the backend share a device with a host
// renderer instead of opening its own. The provider's device and queue must
// expose hal.Device and hal.Queue handles via HalSource, and its surface
// format must be BGRA8 (or undefined, which defaults to it). Close releases
// the pipeline but leaves the provided device alone.
func FromProvider(p gpucontext.DeviceProvider) (*Device, error) {
	if p == nil {
		return nil, fmt.Errorf("wgpu: nil device provider")
	}
	if f := p.SurfaceFormat(); f != gputypes.TextureFormatUndefined && f != gputypes.TextureFormatBGRA8Unorm {
		return nil, fmt.Errorf("wgpu: unsupported surface format %v", f)
	}
	dsrc, ok := p.Device().(HalSource)
	if !ok {
		return nil, fmt.Errorf("wgpu: provider device does not expose a HAL handle")
	}
	dev, ok := dsrc.Hal().(hal.Device)
	if !ok || dev == nil {
		return nil, fmt.Errorf("wgpu: provider did not supply a hal.Device")
	}
	qsrc, ok := p.Queue().(HalSource)
	if !ok {
		return nil, fmt.Errorf("wgpu: provider queue does not expose a HAL handle")
	}
	queue, ok := qsrc.Hal().(hal.Queue)
	if !ok || queue == nil {
		return nil, fmt.Errorf("wgpu: provider did not supply a hal.Queue")
	}

	d := &Device{
		device:   dev,
		queue:    queue,
		external: true,
	}
	if err := d.initPipeline(); err != nil {
		return nil, err
	}
	easel.Logger().Info("wgpu: device ready", "adapter", "shared")
	return d, nil
}

// NewContext creates a drawing context.
func (d *Device) NewContext() (easel.DeviceContext, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.closed {
		return nil, easel.ErrClosed
	}
	return newContext(d), nil
}

// NewSwapChain creates an offscreen swap chain with the given pixel size.
func (d *Device) NewSwapChain(size image.Point) (easel.SwapChain, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.closed {
		return nil, easel.ErrClosed
	}
	return newSwapChain(d, size)
}

// NewGeometryBuilder returns the CPU geometry builder.
func (d *Device) NewGeometryBuilder() easel.GeometryBuilder {
	return geometryBuilder{}
}

// Close releases the pipeline and, for devices opened here, the HAL device
// and instance.
func (d *Device) Close() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.closed {
		return
	}
	d.closed = true

	if d.pipe != nil {
		d.pipe.destroy(d.device)
		d.pipe = nil
	}
	if !d.external {
		if d.device != nil {
			d.device.Destroy()
		}
		if d.instance != nil {
			d.instance.Destroy()
		}
	}
	d.device = nil
	d.queue = nil
}

// submit serializes queue submission and fence waiting across contexts and
// the presenter goroutine.
func (d *Device) submit(cmdBuf hal.CommandBuffer) error {
	d.qmu.Lock()
	defer d.qmu.Unlock()

	fence, err := d.device.CreateFence()
	if err != nil {
		return fmt.Errorf("create fence: %w", err)
	}
	defer d.device.DestroyFence(fence)

	if err := d.queue.Submit([]hal.CommandBuffer{cmdBuf}, fence, 1); err != nil {
		return fmt.Errorf("submit: %w", err)
	}
	ok, err := d.device.Wait(fence, 1, gpuTimeout)
	if err != nil {
		return fmt.Errorf("wait for GPU: %w", err)
	}
	if !ok {
		return fmt.Errorf("wait for GPU: timeout")
	}
	return nil
}
