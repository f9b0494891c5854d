package render

import (
	"bytes"
	"encoding/base64"
	"errors"
	"fmt"
	"image/png"
	"strings"
	"sync"

	"github.com/boombuler/barcode"
	"github.com/boombuler/barcode/code128"
	"github.com/skip2/go-qrcode"
)

// Symbology selects the barcode format
const (
	SymbologyCode128 = "code128"
	SymbologyQR      = "qr"
)

// Options are passed through to the underlying encoder
type Options struct {
	Symbology string `json:"symbology"`
	Width     int    `json:"width"`
	Height    int    `json:"height"`
	Margin    int    `json:"margin"`
}

// DefaultOptions mirrors the label dimensions the print view uses
func DefaultOptions() Options {
	return Options{Symbology: SymbologyCode128, Width: 300, Height: 100, Margin: 10}
}

// Surface is a render target. The engine writes the finished PNG to it
// so the caller's view layer can pick it up by key.
type Surface interface {
	SetImage(pngData []byte)
}

// Resolver maps a surface key to a concrete surface. Keeping this
// injected keeps the workflow independent of any particular UI tree.
type Resolver interface {
	Surface(key string) (Surface, error)
}

// Renderer turns a content string into a barcode image on a surface
type Renderer interface {
	Render(content string, target Surface, opts Options) ([]byte, error)
}

// Engine renders Code128 via boombuler/barcode and QR via go-qrcode
type Engine struct{}

// Render encodes content and writes the PNG to the target surface.
// The same content and options always produce the same image.
func (Engine) Render(content string, target Surface, opts Options) ([]byte, error) {
	if content == "" {
		return nil, errors.New("render: empty content")
	}
	if opts.Width <= 0 || opts.Height <= 0 {
		d := DefaultOptions()
		opts.Width, opts.Height = d.Width, d.Height
	}

	var data []byte
	switch opts.Symbology {
	case SymbologyCode128, "":
		code, err := code128.Encode(content)
		if err != nil {
			return nil, fmt.Errorf("code128 encode: %w", err)
		}
		scaled, err := barcode.Scale(code, opts.Width, opts.Height)
		if err != nil {
			return nil, fmt.Errorf("code128 scale: %w", err)
		}
		var buf bytes.Buffer
		if err := png.Encode(&buf, scaled); err != nil {
			return nil, fmt.Errorf("png encode: %w", err)
		}
		data = buf.Bytes()
	case SymbologyQR:
		size := opts.Width
		if opts.Height < size {
			size = opts.Height
		}
		var err error
		data, err = qrcode.Encode(content, qrcode.Medium, size)
		if err != nil {
			return nil, fmt.Errorf("qr encode: %w", err)
		}
	default:
		return nil, fmt.Errorf("render: unknown symbology %q", opts.Symbology)
	}

	if target != nil {
		target.SetImage(data)
	}
	return data, nil
}

const dataURLPrefix = "data:image/png;base64,"

// EncodeDataURL wraps PNG bytes as a data URL, the round-trippable
// payload format persisted to the platform.
func EncodeDataURL(pngData []byte) string {
	return dataURLPrefix + base64.StdEncoding.EncodeToString(pngData)
}

// DecodeDataURL recovers PNG bytes from a stored data URL
func DecodeDataURL(s string) ([]byte, error) {
	if !strings.HasPrefix(s, dataURLPrefix) {
		return nil, errors.New("not a PNG data URL")
	}
	return base64.StdEncoding.DecodeString(strings.TrimPrefix(s, dataURLPrefix))
}

// MemorySurface holds the latest image rendered onto it
type MemorySurface struct {
	mu  sync.Mutex
	png []byte
}

func (s *MemorySurface) SetImage(pngData []byte) {
	s.mu.Lock()
	s.png = append([]byte(nil), pngData...)
	s.mu.Unlock()
}

// Image returns the last rendered PNG, nil if none
func (s *MemorySurface) Image() []byte {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.png == nil {
		return nil
	}
	return append([]byte(nil), s.png...)
}

// MemoryResolver keeps surfaces addressable by key for the lifetime of
// the process. Rendering twice on the same key reuses the surface.
type MemoryResolver struct {
	mu       sync.Mutex
	surfaces map[string]*MemorySurface
}

func NewMemoryResolver() *MemoryResolver {
	return &MemoryResolver{surfaces: make(map[string]*MemorySurface)}
}

func (r *MemoryResolver) Surface(key string) (Surface, error) {
	if key == "" {
		return nil, errors.New("empty surface key")
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.surfaces[key]
	if !ok {
		s = &MemorySurface{}
		r.surfaces[key] = s
	}
	return s, nil
}

// Lookup returns the surface for a key without creating it
func (r *MemoryResolver) Lookup(key string) (*MemorySurface, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.surfaces[key]
	return s, ok
}
