package fast3d

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/gogpu/fast3d/backend"
	"github.com/gogpu/fast3d/cc"
	"github.com/gogpu/fast3d/program"
)

// Context is the rendering state shared by the draw stream of one graphics
// context: the backend, the program cache, the framebuffer table, the frame
// counter and the current noise scale.
//
// A Context is not safe for concurrent use. Call every method from the
// goroutine that owns the backend's graphics context.
type Context struct {
	backend  backend.Backend
	programs *program.Cache
	opts     contextOptions

	framebuffers []framebuffer
	current      int

	// scratch is a one-row depth target for batched depth readback. It only
	// ever grows.
	scratch      backend.RenderTarget
	scratchWidth int

	frameCount uint32
	noiseScale float32
	filter     FilterMode
	loaded     *program.Program

	closed bool
}

// Ensure Context implements io.Closer
var _ io.Closer = (*Context)(nil)

// NewContext initializes b and creates the framebuffer table with the
// window framebuffer at index 0.
//
//	b := backend.MustDefault()
//	ctx, err := fast3d.NewContext(b)
func NewContext(b backend.Backend, opts ...ContextOption) (*Context, error) {
	if b == nil {
		return nil, program.ErrNilBackend
	}

	options := defaultOptions()
	for _, opt := range opts {
		opt(&options)
	}

	attachLogger(b)
	if err := b.Init(); err != nil {
		detachLogger(b)
		return nil, fmt.Errorf("fast3d: init backend %s: %w", b.Name(), err)
	}

	c := &Context{
		backend:      b,
		opts:         options,
		framebuffers: []framebuffer{{target: backend.DefaultTarget}},
		noiseScale:   options.noiseScale,
		filter:       options.filter,
	}
	c.programs = program.New(b,
		program.WithDialect(options.dialect),
		program.WithFilter(c.TextureFilter))

	scratch, err := b.NewRenderTarget()
	if err == nil {
		err = b.ResizeDepth(scratch, 1, 1, 1)
	}
	if err != nil {
		b.Close()
		detachLogger(b)
		return nil, fmt.Errorf("fast3d: depth readback target: %w", err)
	}
	b.AttachDepth(scratch, true)
	c.scratch, c.scratchWidth = scratch, 1

	Logger().Info("fast3d: context created",
		slog.String("backend", b.Name()),
		slog.String("dialect", options.dialect.Name),
		slog.String("filter", options.filter.String()))
	return c, nil
}

// Backend returns the backend the context draws with.
func (c *Context) Backend() backend.Backend { return c.backend }

// Programs returns the program cache.
func (c *Context) Programs() *program.Cache { return c.programs }

// MaxTextureSize returns the largest texture dimension of the backend.
func (c *Context) MaxTextureSize() int { return c.backend.MaxTextureSize() }

// StartFrame advances the frame counter seen by the noise function.
func (c *Context) StartFrame() { c.frameCount++ }

// EndFrame submits the frame's work.
func (c *Context) EndFrame() { c.backend.Flush() }

// FrameCount returns the number of frames started.
func (c *Context) FrameCount() uint32 { return c.frameCount }

// NoiseScale returns the current noise_scale uniform value.
func (c *Context) NoiseScale() float32 { return c.noiseScale }

// Program returns the compiled program for id, compiling it on first use.
// Compiling leaves the loaded program in place for DrawTriangles.
// A compile failure means the generator and the backend disagree; hosts
// that have no fallback should use MustProgram.
func (c *Context) Program(id cc.ShaderID) (*program.Program, error) {
	return c.programs.GetOrCreate(id)
}

// MustProgram is like Program but panics when the program cannot be built.
// The backend diagnostic is logged before panicking.
func (c *Context) MustProgram(id cc.ShaderID) *program.Program {
	p, err := c.programs.GetOrCreate(id)
	if err != nil {
		Logger().Error("fast3d: cannot build combiner program",
			slog.String("id", id.String()), slog.String("error", err.Error()))
		panic(err)
	}
	return p
}

// LookupProgram returns the cached program for id without compiling.
func (c *Context) LookupProgram(id cc.ShaderID) (*program.Program, bool) {
	return c.programs.Lookup(id)
}

// LoadProgram makes p current for DrawTriangles and uploads the frame
// counter and noise scale.
func (c *Context) LoadProgram(p *program.Program) {
	c.programs.Load(p, program.Uniforms{
		FrameCount: int32(c.frameCount),
		NoiseScale: c.noiseScale,
	})
	c.loaded = p
}

// UnloadProgram disables the vertex layout of p. A nil p is a no-op.
func (c *Context) UnloadProgram(p *program.Program) {
	c.programs.Unload(p)
	if c.loaded == p {
		c.loaded = nil
	}
}

// ProgramInfo returns the generic input count and texture usage of p.
func (c *Context) ProgramInfo(p *program.Program) (numInputs int, usedTextures [2]bool) {
	return p.Info()
}

// DrawTriangles draws numTris triangles from buf, interleaved in the loaded
// program's layout.
func (c *Context) DrawTriangles(buf []float32, numTris int) error {
	if c.loaded == nil {
		return ErrNoProgram
	}
	stride := 3 * c.loaded.NumFloats
	if numTris < 0 || numTris > len(buf)/stride {
		return fmt.Errorf("%w: %d floats for %d triangles of stride %d",
			ErrVertexDataSize, len(buf), numTris, c.loaded.NumFloats)
	}
	c.backend.DrawTriangles(buf[:numTris*stride], numTris)
	return nil
}

// Reset destroys every cached program, drops all framebuffers but the
// window framebuffer and resets the frame counter and noise scale.
func (c *Context) Reset() {
	if c.loaded != nil {
		c.UnloadProgram(c.loaded)
	}
	c.programs.DestroyAll()
	for _, fb := range c.framebuffers[1:] {
		c.backend.DeleteRenderTarget(fb.target)
	}
	c.framebuffers = []framebuffer{{target: backend.DefaultTarget}}
	c.current = 0
	c.backend.BindRenderTarget(backend.DefaultTarget)
	c.frameCount = 0
	c.noiseScale = c.opts.noiseScale
}

// Close releases every backend object and closes the backend.
// Close is idempotent - multiple calls are safe.
func (c *Context) Close() error {
	if c.closed {
		return nil
	}
	c.closed = true
	c.Reset()
	c.backend.DeleteRenderTarget(c.scratch)
	c.backend.Close()
	detachLogger(c.backend)
	return nil
}
