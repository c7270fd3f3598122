package backend_test

import (
	"errors"
	"testing"

	"github.com/gogpu/fast3d/backend"
	"github.com/gogpu/fast3d/backend/headless"
	"github.com/gogpu/gputypes"
)

func TestRegistryRegisterAndGet(t *testing.T) {
	// Headless backend is auto-registered via init()
	if !backend.IsRegistered(backend.BackendHeadless) {
		t.Error("headless backend should be auto-registered")
	}

	b := backend.Get(backend.BackendHeadless)
	if b == nil {
		t.Fatal("Get(headless) returned nil")
	}
	if b.Name() != backend.BackendHeadless {
		t.Errorf("Get(headless).Name() = %q, want %q", b.Name(), backend.BackendHeadless)
	}
}

func TestRegistryGetUnregistered(t *testing.T) {
	if b := backend.Get("nonexistent"); b != nil {
		t.Error("Get(nonexistent) should return nil")
	}
}

func TestRegistryAvailable(t *testing.T) {
	found := false
	for _, name := range backend.Available() {
		if name == backend.BackendHeadless {
			found = true
			break
		}
	}
	if !found {
		t.Error("Available() should include 'headless'")
	}
}

func TestRegistryDefault(t *testing.T) {
	b := backend.Default()
	if b == nil {
		t.Fatal("Default() returned nil")
	}
	// OpenGL is not linked into this test binary.
	if b.Name() != backend.BackendHeadless {
		t.Errorf("Default().Name() = %q, want %q", b.Name(), backend.BackendHeadless)
	}
}

func TestRegistryPriority(t *testing.T) {
	backend.Register(backend.BackendOpenGL, func() backend.Backend {
		return headless.New(headless.WithName(backend.BackendOpenGL))
	})
	t.Cleanup(func() { backend.Unregister(backend.BackendOpenGL) })

	if got := backend.Default().Name(); got != backend.BackendOpenGL {
		t.Errorf("Default().Name() = %q, want %q", got, backend.BackendOpenGL)
	}
}

func TestRegistryMustDefault(t *testing.T) {
	defer func() {
		if r := recover(); r != nil {
			t.Errorf("MustDefault() panicked: %v", r)
		}
	}()
	if b := backend.MustDefault(); b == nil {
		t.Error("MustDefault() returned nil")
	}
}

func TestRegistryInitDefault(t *testing.T) {
	b, err := backend.InitDefault()
	if err != nil {
		t.Fatalf("InitDefault() error = %v", err)
	}
	if b == nil {
		t.Fatal("InitDefault() returned nil backend")
	}
	defer b.Close()

	if b.MaxTextureSize() <= 0 {
		t.Error("Backend from InitDefault() should be usable")
	}
}

func TestRegistryUnregister(t *testing.T) {
	backend.Register("test-backend", func() backend.Backend { return headless.New() })

	if !backend.IsRegistered("test-backend") {
		t.Error("test-backend should be registered")
	}

	backend.Unregister("test-backend")

	if backend.IsRegistered("test-backend") {
		t.Error("test-backend should be unregistered")
	}
}

func TestWrapMode(t *testing.T) {
	tests := []struct {
		mode          backend.WrapMode
		mirror, clamp bool
		want          string
	}{
		{0, false, false, "wrap"},
		{backend.WrapMirror, true, false, "mirror"},
		{backend.WrapClamp, false, true, "clamp"},
		{backend.WrapMirror | backend.WrapClamp, true, true, "mirror-clamp"},
	}
	for _, tt := range tests {
		if tt.mode.Mirror() != tt.mirror || tt.mode.Clamp() != tt.clamp {
			t.Errorf("WrapMode(%d) bits = %v/%v", tt.mode, tt.mode.Mirror(), tt.mode.Clamp())
		}
		if got := tt.mode.String(); got != tt.want {
			t.Errorf("WrapMode(%d).String() = %q, want %q", tt.mode, got, tt.want)
		}
	}
}

func TestVertexAttribFormat(t *testing.T) {
	tests := []struct {
		size int
		want gputypes.VertexFormat
	}{
		{1, gputypes.VertexFormatFloat32},
		{2, gputypes.VertexFormatFloat32x2},
		{3, gputypes.VertexFormatFloat32x3},
		{4, gputypes.VertexFormatFloat32x4},
	}
	for _, tt := range tests {
		if got := (backend.VertexAttrib{Size: tt.size}).Format(); got != tt.want {
			t.Errorf("Format() for size %d = %v, want %v", tt.size, got, tt.want)
		}
	}
}

func TestCompileErrorUnwrap(t *testing.T) {
	err := error(&backend.CompileError{Stage: backend.StageFragment, Log: "0:3: syntax error"})
	if !errors.Is(err, backend.ErrCompile) || errors.Is(err, backend.ErrLink) {
		t.Errorf("compile error unwraps wrong: %v", err)
	}
	if got, want := err.Error(), "backend: fragment shader compile failed: 0:3: syntax error"; got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}

	link := error(&backend.CompileError{Link: true, Log: "varying mismatch"})
	if !errors.Is(link, backend.ErrLink) {
		t.Errorf("link error unwraps wrong: %v", link)
	}
}
