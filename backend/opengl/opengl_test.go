package opengl

import (
	"testing"

	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/gogpu/fast3d/backend"
	"github.com/gogpu/gputypes"
)

// These tests cover the pure state mappings; everything else needs a
// current context.

func TestWrapMode(t *testing.T) {
	tests := []struct {
		mode backend.WrapMode
		want int32
	}{
		{0, gl.REPEAT},
		{backend.WrapMirror, gl.MIRRORED_REPEAT},
		{backend.WrapClamp, gl.CLAMP_TO_EDGE},
		{backend.WrapMirror | backend.WrapClamp, 0x8743},
	}
	for _, tt := range tests {
		if got := wrapMode(tt.mode); got != tt.want {
			t.Errorf("wrapMode(%v) = %#x, want %#x", tt.mode, got, tt.want)
		}
	}
}

func TestCompareFunc(t *testing.T) {
	tests := []struct {
		f    gputypes.CompareFunction
		want uint32
	}{
		{gputypes.CompareFunctionLessEqual, gl.LEQUAL},
		{gputypes.CompareFunctionAlways, gl.ALWAYS},
		{gputypes.CompareFunctionLess, gl.LESS},
		{gputypes.CompareFunctionNotEqual, gl.NOTEQUAL},
	}
	for _, tt := range tests {
		if got := compareFunc(tt.f); got != tt.want {
			t.Errorf("compareFunc(%v) = %#x, want %#x", tt.f, got, tt.want)
		}
	}
}

func TestUninitialized(t *testing.T) {
	b := New()
	if b.Name() != backend.BackendOpenGL {
		t.Errorf("Name() = %q", b.Name())
	}
	if _, err := b.CompileProgram("", ""); err != backend.ErrNotInitialized {
		t.Errorf("CompileProgram() error = %v, want ErrNotInitialized", err)
	}
	if _, err := b.NewRenderTarget(); err != backend.ErrNotInitialized {
		t.Errorf("NewRenderTarget() error = %v, want ErrNotInitialized", err)
	}
	b.Close()
}

func TestRegistered(t *testing.T) {
	if !backend.IsRegistered(backend.BackendOpenGL) {
		t.Error("opengl backend should be auto-registered")
	}
}

func TestStorageFormat(t *testing.T) {
	tests := []struct {
		f    gputypes.TextureFormat
		want uint32
	}{
		{backend.ColorFormat, gl.RGBA8},
		{backend.DepthFormat, gl.DEPTH24_STENCIL8},
	}
	for _, tt := range tests {
		if got := storageFormat(tt.f); got != tt.want {
			t.Errorf("storageFormat(%v) = %#x, want %#x", tt.f, got, tt.want)
		}
	}
}
