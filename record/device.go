package record

import (
	"image"
	"sync"

	"github.com/gogpu/easel"
)

// Device is a recording easel.Device. It hands out recording contexts and
// swap chains and keeps everything it created for later inspection.
//
// The Fail* fields inject an error into the next matching call and are
// cleared once consumed.
type Device struct {
	mu       sync.Mutex
	contexts []*Context
	chains   []*SwapChain
	closed   bool

	// FailNewContext makes the next NewContext fail.
	FailNewContext error

	// FailNewSwapChain makes the next NewSwapChain fail.
	FailNewSwapChain error
}

var (
	_ easel.Device         = (*Device)(nil)
	_ easel.GeometrySource = (*Device)(nil)
)

// NewDevice creates an empty recording device.
func NewDevice() *Device { return &Device{} }

// NewContext implements easel.Device.
func (d *Device) NewContext() (easel.DeviceContext, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if err := d.FailNewContext; err != nil {
		d.FailNewContext = nil
		return nil, err
	}
	ctx := newContext(d)
	d.contexts = append(d.contexts, ctx)
	return ctx, nil
}

// NewSwapChain implements easel.Device.
func (d *Device) NewSwapChain(size image.Point) (easel.SwapChain, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if err := d.FailNewSwapChain; err != nil {
		d.FailNewSwapChain = nil
		return nil, err
	}
	sc := newSwapChain(size)
	d.chains = append(d.chains, sc)
	return sc, nil
}

// NewGeometryBuilder implements easel.GeometrySource.
func (d *Device) NewGeometryBuilder() easel.GeometryBuilder { return GeometryBuilder{} }

// Close implements easel.Device.
func (d *Device) Close() {
	d.mu.Lock()
	d.closed = true
	d.mu.Unlock()
}

// Closed reports whether Close was called.
func (d *Device) Closed() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.closed
}

// Context returns the most recently created context, nil before the first
// NewContext.
func (d *Device) Context() *Context {
	d.mu.Lock()
	defer d.mu.Unlock()
	if len(d.contexts) == 0 {
		return nil
	}
	return d.contexts[len(d.contexts)-1]
}

// Chain returns the most recently created swap chain, nil before the first
// NewSwapChain.
func (d *Device) Chain() *SwapChain {
	d.mu.Lock()
	defer d.mu.Unlock()
	if len(d.chains) == 0 {
		return nil
	}
	return d.chains[len(d.chains)-1]
}

// Contexts returns every context created so far, in creation order.
func (d *Device) Contexts() []*Context {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]*Context(nil), d.contexts...)
}

// Chains returns every swap chain created so far, in creation order.
func (d *Device) Chains() []*SwapChain {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]*SwapChain(nil), d.chains...)
}
