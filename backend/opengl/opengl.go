// Package opengl implements backend.Backend on an OpenGL 4.1 core context.
//
// The package does not create windows or contexts. Make a context current
// on the calling goroutine (and keep that goroutine locked to its thread)
// before Init; every method must then be called from that goroutine.
package opengl

import (
	"fmt"
	"log/slog"
	"strings"
	"unsafe"

	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/gogpu/fast3d/backend"
	"github.com/gogpu/gputypes"
)

func init() {
	backend.Register(backend.BackendOpenGL, func() backend.Backend {
		return New()
	})
}

// Backend drives the current OpenGL context.
type Backend struct {
	initialized bool

	vao uint32
	vbo uint32

	// depthMask mirrors glDepthMask so Clear can restore it.
	depthMask bool

	targets map[backend.RenderTarget]*target
	bound   backend.RenderTarget
	next    backend.RenderTarget
}

// New creates an OpenGL backend. Call Init with a current context.
func New() *Backend {
	return &Backend{}
}

// Name returns the backend identifier.
func (b *Backend) Name() string { return backend.BackendOpenGL }

// SetLogger sets the package logger. fast3d.SetLogger propagates here.
func (b *Backend) SetLogger(l *slog.Logger) { setLogger(l) }

// Init loads the GL entry points and sets up the streaming vertex buffer and
// fixed state.
func (b *Backend) Init() error {
	if err := gl.Init(); err != nil {
		return fmt.Errorf("opengl: init: %w", err)
	}

	gl.GenVertexArrays(1, &b.vao)
	gl.BindVertexArray(b.vao)
	gl.GenBuffers(1, &b.vbo)
	gl.BindBuffer(gl.ARRAY_BUFFER, b.vbo)

	gl.Enable(gl.DEPTH_CLAMP)
	gl.DepthFunc(gl.LEQUAL)
	gl.BlendFunc(gl.SRC_ALPHA, gl.ONE_MINUS_SRC_ALPHA)

	b.depthMask = true
	b.targets = map[backend.RenderTarget]*target{backend.DefaultTarget: {}}
	b.bound = backend.DefaultTarget
	b.initialized = true

	slogger().Info("opengl: initialized",
		slog.String("version", gl.GoStr(gl.GetString(gl.VERSION))),
		slog.String("renderer", gl.GoStr(gl.GetString(gl.RENDERER))),
		slog.Int("max_texture_size", b.MaxTextureSize()))
	return nil
}

// Close deletes every render target and the vertex buffer.
func (b *Backend) Close() {
	if !b.initialized {
		return
	}
	for rt := range b.targets {
		b.DeleteRenderTarget(rt)
	}
	b.targets = nil
	gl.DeleteBuffers(1, &b.vbo)
	gl.DeleteVertexArrays(1, &b.vao)
	b.initialized = false
}

// MaxTextureSize queries GL_MAX_TEXTURE_SIZE.
func (b *Backend) MaxTextureSize() int {
	var n int32
	gl.GetIntegerv(gl.MAX_TEXTURE_SIZE, &n)
	return int(n)
}

// CompileProgram compiles both stages and links them.
func (b *Backend) CompileProgram(vertex, fragment string) (backend.Program, error) {
	if !b.initialized {
		return 0, backend.ErrNotInitialized
	}

	vs, err := compileShader(backend.StageVertex, gl.VERTEX_SHADER, vertex)
	if err != nil {
		return 0, err
	}
	defer gl.DeleteShader(vs)

	fs, err := compileShader(backend.StageFragment, gl.FRAGMENT_SHADER, fragment)
	if err != nil {
		return 0, err
	}
	defer gl.DeleteShader(fs)

	program := gl.CreateProgram()
	gl.AttachShader(program, vs)
	gl.AttachShader(program, fs)
	gl.LinkProgram(program)

	var status int32
	gl.GetProgramiv(program, gl.LINK_STATUS, &status)
	if status == gl.FALSE {
		var logLen int32
		gl.GetProgramiv(program, gl.INFO_LOG_LENGTH, &logLen)
		log := strings.Repeat("\x00", int(logLen+1))
		gl.GetProgramInfoLog(program, logLen, nil, gl.Str(log))
		gl.DeleteProgram(program)
		return 0, &backend.CompileError{Link: true, Log: strings.TrimRight(log, "\x00")}
	}
	return backend.Program(program), nil
}

func compileShader(stage backend.Stage, kind uint32, source string) (uint32, error) {
	shader := gl.CreateShader(kind)
	csource, free := gl.Strs(source + "\x00")
	gl.ShaderSource(shader, 1, csource, nil)
	free()
	gl.CompileShader(shader)

	var status int32
	gl.GetShaderiv(shader, gl.COMPILE_STATUS, &status)
	if status == gl.FALSE {
		var logLen int32
		gl.GetShaderiv(shader, gl.INFO_LOG_LENGTH, &logLen)
		log := strings.Repeat("\x00", int(logLen+1))
		gl.GetShaderInfoLog(shader, logLen, nil, gl.Str(log))
		gl.DeleteShader(shader)
		return 0, &backend.CompileError{Stage: stage, Log: strings.TrimRight(log, "\x00")}
	}
	return shader, nil
}

// DeleteProgram deletes p.
func (b *Backend) DeleteProgram(p backend.Program) { gl.DeleteProgram(uint32(p)) }

// AttribLocation returns the attribute index of name, -1 if inactive.
func (b *Backend) AttribLocation(p backend.Program, name string) int32 {
	return gl.GetAttribLocation(uint32(p), gl.Str(name+"\x00"))
}

// UniformLocation returns the uniform location of name, -1 if inactive.
func (b *Backend) UniformLocation(p backend.Program, name string) int32 {
	return gl.GetUniformLocation(uint32(p), gl.Str(name+"\x00"))
}

// UseProgram makes p current.
func (b *Backend) UseProgram(p backend.Program) { gl.UseProgram(uint32(p)) }

// EnableVertexAttribs points every active attribute into the streaming buffer.
func (b *Backend) EnableVertexAttribs(attrs []backend.VertexAttrib, stride int) {
	const float = int(unsafe.Sizeof(float32(0)))
	for _, a := range attrs {
		if a.Location < 0 {
			continue
		}
		loc := uint32(a.Location)
		gl.EnableVertexAttribArray(loc)
		gl.VertexAttribPointerWithOffset(loc, int32(a.Size), gl.FLOAT, false, int32(stride*float), uintptr(a.Offset*float))
	}
}

// DisableVertexAttribs disables every active attribute.
func (b *Backend) DisableVertexAttribs(attrs []backend.VertexAttrib) {
	for _, a := range attrs {
		if a.Location >= 0 {
			gl.DisableVertexAttribArray(uint32(a.Location))
		}
	}
}

// SetUniform1i sets an int uniform of the current program.
func (b *Backend) SetUniform1i(loc int32, v int32) {
	if loc >= 0 {
		gl.Uniform1i(loc, v)
	}
}

// SetUniform1f sets a float uniform of the current program.
func (b *Backend) SetUniform1f(loc int32, v float32) {
	if loc >= 0 {
		gl.Uniform1f(loc, v)
	}
}

// SetDepthTest enables depth testing with compare, or disables it.
func (b *Backend) SetDepthTest(enabled bool, compare gputypes.CompareFunction) {
	if !enabled {
		gl.Disable(gl.DEPTH_TEST)
		return
	}
	gl.Enable(gl.DEPTH_TEST)
	gl.DepthFunc(compareFunc(compare))
}

// SetDepthMask sets depth writes.
func (b *Backend) SetDepthMask(write bool) {
	gl.DepthMask(write)
	b.depthMask = write
}

// SetPolygonOffset enables a polygon offset on filled primitives, or resets
// and disables it.
func (b *Backend) SetPolygonOffset(enabled bool, factor, units float32) {
	if !enabled {
		gl.PolygonOffset(0, 0)
		gl.Disable(gl.POLYGON_OFFSET_FILL)
		return
	}
	gl.PolygonOffset(factor, units)
	gl.Enable(gl.POLYGON_OFFSET_FILL)
}

// SetViewport sets the viewport.
func (b *Backend) SetViewport(x, y, width, height int) {
	gl.Viewport(int32(x), int32(y), int32(width), int32(height))
}

// SetScissor sets the scissor box.
func (b *Backend) SetScissor(x, y, width, height int) {
	gl.Scissor(int32(x), int32(y), int32(width), int32(height))
}

// SetBlend enables or disables alpha blending.
func (b *Backend) SetBlend(enabled bool) {
	if enabled {
		gl.Enable(gl.BLEND)
	} else {
		gl.Disable(gl.BLEND)
	}
}

// DrawTriangles orphans the streaming buffer with buf and draws it.
func (b *Backend) DrawTriangles(buf []float32, numTris int) {
	if len(buf) == 0 || numTris == 0 {
		return
	}
	gl.BufferData(gl.ARRAY_BUFFER, len(buf)*4, gl.Ptr(buf), gl.STREAM_DRAW)
	gl.DrawArrays(gl.TRIANGLES, 0, int32(3*numTris))
}

// Flush flushes the GL command stream.
func (b *Backend) Flush() { gl.Flush() }

func compareFunc(f gputypes.CompareFunction) uint32 {
	switch f {
	case gputypes.CompareFunctionNever:
		return gl.NEVER
	case gputypes.CompareFunctionLess:
		return gl.LESS
	case gputypes.CompareFunctionEqual:
		return gl.EQUAL
	case gputypes.CompareFunctionGreater:
		return gl.GREATER
	case gputypes.CompareFunctionNotEqual:
		return gl.NOTEQUAL
	case gputypes.CompareFunctionGreaterEqual:
		return gl.GEQUAL
	case gputypes.CompareFunctionAlways:
		return gl.ALWAYS
	default:
		return gl.LEQUAL
	}
}
