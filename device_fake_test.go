package easel

import (
	"image"
	"sync"
)

// The fakes below implement the device interfaces with plain in-memory
// bookkeeping so the state stack, surface and pipeline can be exercised
// without a GPU. Each fake records the calls the tests assert on; failure
// fields inject a single error and then clear.

type fakeDevice struct {
	contexts []*fakeContext
	chains   []*fakeChain

	failContext error
	failChain   error
	closed      bool
}

func (d *fakeDevice) NewContext() (DeviceContext, error) {
	if err := d.failContext; err != nil {
		d.failContext = nil
		return nil, err
	}
	c := &fakeContext{dpi: 96}
	d.contexts = append(d.contexts, c)
	return c, nil
}

func (d *fakeDevice) NewSwapChain(size image.Point) (SwapChain, error) {
	if err := d.failChain; err != nil {
		d.failChain = nil
		return nil, err
	}
	ch := &fakeChain{size: size}
	d.chains = append(d.chains, ch)
	return ch, nil
}

func (d *fakeDevice) Close() { d.closed = true }

func (d *fakeDevice) NewGeometryBuilder() GeometryBuilder {
	return fakeBuilder{}
}

// context returns the most recently created context.
func (d *fakeDevice) context() *fakeContext {
	if len(d.contexts) == 0 {
		return nil
	}
	return d.contexts[len(d.contexts)-1]
}

// chain returns the most recently created swap chain.
func (d *fakeDevice) chain() *fakeChain {
	if len(d.chains) == 0 {
		return nil
	}
	return d.chains[len(d.chains)-1]
}

type fakeContext struct {
	events     []string
	target     TargetBuffer
	dpi        float64
	began      bool
	released   bool
	transforms []Matrix
	layers     []LayerParams
	clips      []Rect
	solids     []*fakeSolidBrush
	brushes    []*fakeBrush

	failEnd    error
	failSolid  error
	failLinear error
	failRadial error
	failImage  error
}

func (c *fakeContext) log(ev string) { c.events = append(c.events, ev) }

// count returns how many times ev was logged.
func (c *fakeContext) count(ev string) int {
	n := 0
	for _, e := range c.events {
		if e == ev {
			n++
		}
	}
	return n
}

func (c *fakeContext) SetTarget(t TargetBuffer) {
	c.target = t
	c.log("SetTarget")
}

func (c *fakeContext) SetDPI(dpi float64) { c.dpi = dpi }

func (c *fakeContext) Begin() {
	c.began = true
	c.log("Begin")
}

func (c *fakeContext) End() error {
	c.began = false
	c.log("End")
	if err := c.failEnd; err != nil {
		c.failEnd = nil
		return err
	}
	return nil
}

func (c *fakeContext) Clear(RGBA) { c.log("Clear") }

func (c *fakeContext) SetTransform(m Matrix) {
	c.transforms = append(c.transforms, m)
	c.log("SetTransform")
}

func (c *fakeContext) PushAxisAlignedClip(r Rect) {
	c.clips = append(c.clips, r)
	c.log("PushAxisAlignedClip")
}

func (c *fakeContext) PopAxisAlignedClip() { c.log("PopAxisAlignedClip") }

func (c *fakeContext) PushLayer(p LayerParams) {
	c.layers = append(c.layers, p)
	c.log("PushLayer")
}

func (c *fakeContext) PopLayer() { c.log("PopLayer") }

func (c *fakeContext) FillRect(Rect, Brush)                  { c.log("FillRect") }
func (c *fakeContext) DrawRect(Rect, Brush, float64)         { c.log("DrawRect") }
func (c *fakeContext) FillEllipse(Point, float64, float64, Brush) {
	c.log("FillEllipse")
}
func (c *fakeContext) DrawEllipse(Point, float64, float64, Brush, float64) {
	c.log("DrawEllipse")
}
func (c *fakeContext) FillRoundedRect(Rect, float64, Brush) { c.log("FillRoundedRect") }
func (c *fakeContext) DrawRoundedRect(Rect, float64, Brush, float64) {
	c.log("DrawRoundedRect")
}
func (c *fakeContext) DrawLine(Point, Point, Brush, float64) { c.log("DrawLine") }
func (c *fakeContext) FillGeometry(Geometry, Brush)          { c.log("FillGeometry") }
func (c *fakeContext) DrawGeometry(Geometry, Brush, float64) { c.log("DrawGeometry") }
func (c *fakeContext) DrawImage(image.Image, Rect, float64, InterpolationMode) {
	c.log("DrawImage")
}
func (c *fakeContext) DrawGlyphRun(GlyphRun, FontFace, Brush) { c.log("DrawGlyphRun") }

func (c *fakeContext) CreateSolidBrush(col RGBA) (SolidBrush, error) {
	if err := c.failSolid; err != nil {
		c.failSolid = nil
		return nil, err
	}
	b := &fakeSolidBrush{fakeBrush: fakeBrush{kind: "solid"}, colors: []RGBA{col}}
	c.solids = append(c.solids, b)
	return b, nil
}

func (c *fakeContext) CreateLinearGradientBrush(f LinearGradientFill) (Brush, error) {
	return c.createBrush("linear", &c.failLinear)
}

func (c *fakeContext) CreateRadialGradientBrush(f RadialGradientFill) (Brush, error) {
	return c.createBrush("radial", &c.failRadial)
}

func (c *fakeContext) CreateImageBrush(f ImageFill) (Brush, error) {
	return c.createBrush("image", &c.failImage)
}

func (c *fakeContext) createBrush(kind string, fail *error) (Brush, error) {
	if err := *fail; err != nil {
		*fail = nil
		return nil, err
	}
	b := &fakeBrush{kind: kind}
	c.brushes = append(c.brushes, b)
	return b, nil
}

func (c *fakeContext) Release() {
	c.released = true
	c.log("Release")
}

type fakeBrush struct {
	kind       string
	opacities  []float64
	transforms []Matrix
	released   int
}

func (b *fakeBrush) SetOpacity(o float64)  { b.opacities = append(b.opacities, o) }
func (b *fakeBrush) SetTransform(m Matrix) { b.transforms = append(b.transforms, m) }
func (b *fakeBrush) Release()              { b.released++ }

type fakeSolidBrush struct {
	fakeBrush
	colors []RGBA
}

func (b *fakeSolidBrush) SetColor(col RGBA) { b.colors = append(b.colors, col) }

// lastColor returns the most recent color set on the brush.
func (b *fakeSolidBrush) lastColor() RGBA { return b.colors[len(b.colors)-1] }

type fakeChain struct {
	mu       sync.Mutex
	size     image.Point
	resizes  []image.Point
	presents [][]image.Rectangle // nil entry = full present
	released bool

	failResize  error
	failPresent error
}

func (ch *fakeChain) Resize(size image.Point) error {
	ch.mu.Lock()
	defer ch.mu.Unlock()
	if err := ch.failResize; err != nil {
		ch.failResize = nil
		return err
	}
	ch.size = size
	ch.resizes = append(ch.resizes, size)
	return nil
}

func (ch *fakeChain) Buffer() (TargetBuffer, error) {
	ch.mu.Lock()
	defer ch.mu.Unlock()
	return &fakeBuffer{ch: ch}, nil
}

func (ch *fakeChain) Present(dirty []image.Rectangle) error {
	ch.mu.Lock()
	defer ch.mu.Unlock()
	var logged []image.Rectangle
	if dirty != nil {
		logged = append([]image.Rectangle{}, dirty...)
	}
	ch.presents = append(ch.presents, logged)
	if err := ch.failPresent; err != nil {
		ch.failPresent = nil
		return err
	}
	return nil
}

func (ch *fakeChain) Release() {
	ch.mu.Lock()
	defer ch.mu.Unlock()
	ch.released = true
}

// fullPresents counts presents that covered the whole buffer.
func (ch *fakeChain) fullPresents() int {
	ch.mu.Lock()
	defer ch.mu.Unlock()
	n := 0
	for _, d := range ch.presents {
		if d == nil {
			n++
		}
	}
	return n
}

// presentCount returns the number of Present calls.
func (ch *fakeChain) presentCount() int {
	ch.mu.Lock()
	defer ch.mu.Unlock()
	return len(ch.presents)
}

// lastPresent returns the dirty list of the most recent present.
func (ch *fakeChain) lastPresent() []image.Rectangle {
	ch.mu.Lock()
	defer ch.mu.Unlock()
	if len(ch.presents) == 0 {
		return nil
	}
	return ch.presents[len(ch.presents)-1]
}

type fakeBuffer struct {
	ch       *fakeChain
	released bool
}

func (b *fakeBuffer) Size() image.Point {
	b.ch.mu.Lock()
	defer b.ch.mu.Unlock()
	return b.ch.size
}

func (b *fakeBuffer) Release() { b.released = true }

type fakeFace struct{}

func (fakeFace) Metrics(height float64) FontMetrics {
	return FontMetrics{Ascent: height * 0.8, Descent: height * 0.2}
}

type fakeGeometry struct {
	path     *Path
	rects    []Rect
	rule     FillRule
	released int
}

func (g *fakeGeometry) Release() { g.released++ }

type fakeBuilder struct{}

func (fakeBuilder) FromPath(p *Path, rule FillRule) (Geometry, error) {
	return &fakeGeometry{path: p, rule: rule}, nil
}

func (fakeBuilder) FromRects(rects []Rect, rule FillRule) (Geometry, error) {
	return &fakeGeometry{rects: append([]Rect{}, rects...), rule: rule}, nil
}

// Compile-time interface checks for the fakes.
var (
	_ Device          = (*fakeDevice)(nil)
	_ GeometrySource  = (*fakeDevice)(nil)
	_ DeviceContext   = (*fakeContext)(nil)
	_ SolidBrush      = (*fakeSolidBrush)(nil)
	_ SwapChain       = (*fakeChain)(nil)
	_ TargetBuffer    = (*fakeBuffer)(nil)
	_ Geometry        = (*fakeGeometry)(nil)
	_ GeometryBuilder = fakeBuilder{}
	_ FontFace        = fakeFace{}
)
