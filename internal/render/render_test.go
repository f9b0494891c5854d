package render

import (
	"bytes"
	"testing"
)

func TestRenderCode128(t *testing.T) {
	var e Engine
	surface := &MemorySurface{}

	data, err := e.Render("SO-100-Widget-abc123", surface, DefaultOptions())
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if len(data) == 0 {
		t.Fatal("empty image")
	}
	if !bytes.HasPrefix(data, []byte("\x89PNG")) {
		t.Error("output is not a PNG")
	}
	if !bytes.Equal(surface.Image(), data) {
		t.Error("surface did not receive the rendered image")
	}
}

func TestRenderQR(t *testing.T) {
	var e Engine
	data, err := e.Render("SO-100", nil, Options{Symbology: SymbologyQR, Width: 128, Height: 128})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if !bytes.HasPrefix(data, []byte("\x89PNG")) {
		t.Error("output is not a PNG")
	}
}

func TestRenderRejectsBadInput(t *testing.T) {
	var e Engine
	if _, err := e.Render("", nil, DefaultOptions()); err == nil {
		t.Error("empty content accepted")
	}
	if _, err := e.Render("SO-100", nil, Options{Symbology: "aztec", Width: 64, Height: 64}); err == nil {
		t.Error("unknown symbology accepted")
	}
}

func TestDataURLRoundTrip(t *testing.T) {
	var e Engine
	data, err := e.Render("SO-100", nil, DefaultOptions())
	if err != nil {
		t.Fatalf("render: %v", err)
	}

	url := EncodeDataURL(data)
	back, err := DecodeDataURL(url)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !bytes.Equal(back, data) {
		t.Error("payload changed across the data URL round trip")
	}

	if _, err := DecodeDataURL("nonsense"); err == nil {
		t.Error("non data URL accepted")
	}
}

func TestMemoryResolverReusesSurfaces(t *testing.T) {
	r := NewMemoryResolver()
	a, err := r.Surface("line-item-li-1")
	if err != nil {
		t.Fatalf("surface: %v", err)
	}
	b, err := r.Surface("line-item-li-1")
	if err != nil {
		t.Fatalf("surface: %v", err)
	}
	if a != b {
		t.Error("same key should resolve to the same surface")
	}
	if _, err := r.Surface(""); err == nil {
		t.Error("empty key accepted")
	}
}
