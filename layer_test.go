package easel

import (
	"image"
	"testing"
)

func TestPushAxisAligned(t *testing.T) {
	dc := &fakeContext{}
	st := newRootState(image.Rect(0, 0, 100, 100), 1)

	st.pushAxisAligned(dc, NewRect(10, 10, 50, 50))
	if len(dc.clips) != 1 || dc.clips[0] != NewRect(10, 10, 50, 50) {
		t.Fatalf("device clips = %v", dc.clips)
	}
	if len(st.layers) != 1 || st.layers[0].kind != layerAxisAligned {
		t.Fatalf("layers = %+v, want one axis-aligned layer", st.layers)
	}
	if st.clip != image.Rect(10, 10, 60, 60) {
		t.Errorf("clip = %v, want (10,10)-(60,60)", st.clip)
	}
}

func TestPushGeometric(t *testing.T) {
	dc := &fakeContext{}
	st := newRootState(image.Rect(0, 0, 100, 100), 1)
	g := &fakeGeometry{}
	m := Scale(2, 2)

	st.pushGeometric(dc, g, m, image.Rect(20, 20, 80, 80))
	if len(dc.layers) != 1 {
		t.Fatalf("device layers = %d, want 1", len(dc.layers))
	}
	params := dc.layers[0]
	if params.Mask != Geometry(g) {
		t.Error("layer mask is not the pushed geometry")
	}
	if params.MaskTransform != m {
		t.Errorf("mask transform = %+v, want %+v", params.MaskTransform, m)
	}
	if params.Opacity != 1 {
		t.Errorf("mask layer opacity = %v, want 1", params.Opacity)
	}
	if st.clip != image.Rect(20, 20, 80, 80) {
		t.Errorf("clip = %v, want (20,20)-(80,80)", st.clip)
	}

	// The state owns the geometry and releases it on pop.
	st.popLayers(dc)
	if g.released != 1 {
		t.Errorf("geometry released %d times, want 1", g.released)
	}
}

func TestPushTransparency(t *testing.T) {
	dc := &fakeContext{}
	st := newRootState(image.Rect(0, 0, 100, 100), 1)
	mask := &fakeBrush{kind: "image"}

	st.pushTransparency(dc, 0.5, mask)
	if len(dc.layers) != 1 {
		t.Fatalf("device layers = %d, want 1", len(dc.layers))
	}
	params := dc.layers[0]
	if params.Opacity != 0.5 {
		t.Errorf("layer opacity = %v, want 0.5", params.Opacity)
	}
	if params.OpacityBrush != Brush(mask) {
		t.Error("layer opacity brush is not the pushed brush")
	}
	// The clip is unchanged: a transparency layer does not restrict area.
	if st.clip != image.Rect(0, 0, 100, 100) {
		t.Errorf("clip = %v changed by transparency layer", st.clip)
	}

	st.popLayers(dc)
	if mask.released != 1 {
		t.Errorf("mask brush released %d times, want 1", mask.released)
	}
}

// Layers pop newest first, and each pops with the matching device call.
func TestPopLayersOrder(t *testing.T) {
	dc := &fakeContext{}
	st := newRootState(image.Rect(0, 0, 100, 100), 1)

	st.pushAxisAligned(dc, NewRect(0, 0, 50, 50))
	st.pushGeometric(dc, &fakeGeometry{}, Identity(), image.Rect(0, 0, 40, 40))
	st.pushTransparency(dc, 0.8, nil)

	dc.events = nil
	st.popLayers(dc)

	want := []string{"PopLayer", "PopLayer", "PopAxisAlignedClip"}
	if len(dc.events) != len(want) {
		t.Fatalf("pop events = %v, want %v", dc.events, want)
	}
	for i, ev := range want {
		if dc.events[i] != ev {
			t.Errorf("event %d = %q, want %q", i, dc.events[i], ev)
		}
	}
	if len(st.layers) != 0 {
		t.Errorf("layers not emptied: %+v", st.layers)
	}
}

func TestClipLayerPopClearsOwnedResources(t *testing.T) {
	dc := &fakeContext{}
	g := &fakeGeometry{}
	b := &fakeBrush{}
	l := clipLayer{kind: layerGeometric, geometry: g, brush: b}

	l.pop(dc)
	if g.released != 1 || b.released != 1 {
		t.Errorf("released geometry %d times, brush %d times, want 1 each",
			g.released, b.released)
	}
	if l.geometry != nil || l.brush != nil {
		t.Error("pop left owned resources bound")
	}

	// Popping a bare transparency layer releases nothing and must not
	// panic.
	bare := clipLayer{kind: layerTransparency}
	bare.pop(dc)
}
