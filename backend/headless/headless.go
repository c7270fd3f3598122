package headless

import (
	"fmt"
	"image"

	"github.com/gogpu/fast3d/backend"
	"github.com/gogpu/gputypes"
)

func init() {
	backend.Register(backend.BackendHeadless, func() backend.Backend {
		return New()
	})
}

// Stats counts the work a Backend has been asked to do.
type Stats struct {
	Compiles    int
	ColorAllocs int
	DepthAllocs int
	Draws       int
	Clears      int
	Blits       int
	Flushes     int
}

// State is the fixed-function state last set on a Backend.
type State struct {
	DepthTest     bool
	DepthCompare  gputypes.CompareFunction
	DepthMask     bool
	PolygonOffset bool
	OffsetFactor  float32
	OffsetUnits   float32
	Viewport      image.Rectangle
	Scissor       image.Rectangle
	Blend         bool
	DepthClamp    bool
}

// Draw records one DrawTriangles call.
type Draw struct {
	Program  backend.Program
	Target   backend.RenderTarget
	Vertices int
	Stride   int
	Attribs  []backend.VertexAttrib
	Data     []float32
}

type program struct {
	attribs  map[string]int32
	uniforms map[string]int32
	ints     map[int32]int32
	floats   map[int32]float32
}

// Backend is an in-memory implementation of backend.Backend. It validates
// shader sources, assigns attribute and uniform locations from their
// declarations, keeps textures and colour attachments as *image.RGBA and
// records draws. It is not safe for concurrent use.
type Backend struct {
	name        string
	maxTexture  int
	window      image.Point
	compileHook func(vertex, fragment string) error

	initialized bool
	next        uint32

	programs map[backend.Program]*program
	current  backend.Program
	attribs  []backend.VertexAttrib
	stride   int

	textures   map[backend.Texture]*texture
	units      [2]backend.Texture
	activeUnit int

	targets map[backend.RenderTarget]*target
	bound   backend.RenderTarget

	state State
	draws []Draw
	stats Stats
}

// Option configures a Backend.
type Option func(*Backend)

// WithName overrides the reported backend name.
func WithName(name string) Option {
	return func(b *Backend) { b.name = name }
}

// WithWindowSize sets the size of the default render target.
func WithWindowSize(width, height int) Option {
	return func(b *Backend) { b.window = image.Pt(width, height) }
}

// WithMaxTextureSize sets the value reported by MaxTextureSize.
func WithMaxTextureSize(n int) Option {
	return func(b *Backend) { b.maxTexture = n }
}

// WithCompileHook installs a check run after source validation. A non-nil
// error fails the compile with that error.
func WithCompileHook(hook func(vertex, fragment string) error) Option {
	return func(b *Backend) { b.compileHook = hook }
}

// New creates a headless backend. Call Init before use.
func New(opts ...Option) *Backend {
	b := &Backend{
		name:       backend.BackendHeadless,
		maxTexture: 8192,
		window:     image.Pt(320, 240),
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Name returns the backend identifier.
func (b *Backend) Name() string { return b.name }

// Init resets all objects and creates the default render target.
func (b *Backend) Init() error {
	b.programs = make(map[backend.Program]*program)
	b.textures = make(map[backend.Texture]*texture)
	b.targets = make(map[backend.RenderTarget]*target)
	b.next = 0
	b.current = 0
	b.bound = backend.DefaultTarget
	b.draws = nil
	b.stats = Stats{}

	w, h := max(b.window.X, 1), max(b.window.Y, 1)
	b.targets[backend.DefaultTarget] = &target{
		width:         w,
		height:        h,
		msaa:          1,
		color:         image.NewRGBA(image.Rect(0, 0, w, h)),
		depth:         newDepth(w, h),
		depthWidth:    w,
		depthHeight:   h,
		depthAttached: true,
	}
	b.state = State{
		DepthCompare: gputypes.CompareFunctionLessEqual,
		DepthMask:    true,
		Blend:        true,
		DepthClamp:   true,
		Viewport:     image.Rect(0, 0, w, h),
		Scissor:      image.Rect(0, 0, w, h),
	}
	b.initialized = true
	return nil
}

// Close releases all objects.
func (b *Backend) Close() {
	b.programs = nil
	b.textures = nil
	b.targets = nil
	b.draws = nil
	b.initialized = false
}

// MaxTextureSize returns the configured maximum texture dimension.
func (b *Backend) MaxTextureSize() int { return b.maxTexture }

func (b *Backend) handle() uint32 {
	b.next++
	return b.next
}

// CompileProgram validates both stages, checks that every fragment input
// is written by the vertex stage and assigns locations in declaration order.
func (b *Backend) CompileProgram(vertex, fragment string) (backend.Program, error) {
	if !b.initialized {
		return 0, backend.ErrNotInitialized
	}
	b.stats.Compiles++

	if err := validate(backend.StageVertex, vertex); err != nil {
		return 0, err
	}
	if err := validate(backend.StageFragment, fragment); err != nil {
		return 0, err
	}
	if b.compileHook != nil {
		if err := b.compileHook(vertex, fragment); err != nil {
			return 0, err
		}
	}

	vdecls, fdecls := parseDeclarations(vertex), parseDeclarations(fragment)
	vin, vout := stageIO(backend.StageVertex, vdecls)
	fin, _ := stageIO(backend.StageFragment, fdecls)

	written := make(map[string]bool, len(vout))
	for _, name := range vout {
		written[name] = true
	}
	for _, name := range fin {
		if !written[name] {
			return 0, &backend.CompileError{Link: true, Log: fmt.Sprintf("fragment input %q is not written by the vertex stage", name)}
		}
	}

	p := &program{
		attribs:  make(map[string]int32),
		uniforms: make(map[string]int32),
		ints:     make(map[int32]int32),
		floats:   make(map[int32]float32),
	}
	for _, name := range vin {
		if active(vertex, name) {
			p.attribs[name] = int32(len(p.attribs))
		}
	}
	for _, src := range []struct {
		text  string
		decls []declaration
	}{{vertex, vdecls}, {fragment, fdecls}} {
		for _, d := range src.decls {
			if d.qualifier != "uniform" {
				continue
			}
			if _, ok := p.uniforms[d.name]; ok || !active(src.text, d.name) {
				continue
			}
			p.uniforms[d.name] = int32(len(p.uniforms))
		}
	}

	h := backend.Program(b.handle())
	b.programs[h] = p
	return h, nil
}

// DeleteProgram releases p.
func (b *Backend) DeleteProgram(p backend.Program) {
	delete(b.programs, p)
	if b.current == p {
		b.current = 0
	}
}

// AttribLocation returns the location of an active attribute, -1 otherwise.
func (b *Backend) AttribLocation(p backend.Program, name string) int32 {
	if prog, ok := b.programs[p]; ok {
		if loc, ok := prog.attribs[name]; ok {
			return loc
		}
	}
	return -1
}

// UniformLocation returns the location of an active uniform, -1 otherwise.
func (b *Backend) UniformLocation(p backend.Program, name string) int32 {
	if prog, ok := b.programs[p]; ok {
		if loc, ok := prog.uniforms[name]; ok {
			return loc
		}
	}
	return -1
}

// UseProgram makes p current.
func (b *Backend) UseProgram(p backend.Program) { b.current = p }

// EnableVertexAttribs records the active attribute layout.
func (b *Backend) EnableVertexAttribs(attrs []backend.VertexAttrib, stride int) {
	b.attribs = append(b.attribs[:0], attrs...)
	b.stride = stride
}

// DisableVertexAttribs clears the active attribute layout.
func (b *Backend) DisableVertexAttribs(attrs []backend.VertexAttrib) {
	b.attribs = b.attribs[:0]
	b.stride = 0
}

// SetUniform1i sets an int uniform of the current program.
func (b *Backend) SetUniform1i(loc int32, v int32) {
	if prog, ok := b.programs[b.current]; ok && loc >= 0 {
		prog.ints[loc] = v
	}
}

// SetUniform1f sets a float uniform of the current program.
func (b *Backend) SetUniform1f(loc int32, v float32) {
	if prog, ok := b.programs[b.current]; ok && loc >= 0 {
		prog.floats[loc] = v
	}
}

// UniformInt returns the last value set for an int uniform of p.
func (b *Backend) UniformInt(p backend.Program, name string) (int32, bool) {
	prog, ok := b.programs[p]
	if !ok {
		return 0, false
	}
	v, ok := prog.ints[b.UniformLocation(p, name)]
	return v, ok
}

// UniformFloat returns the last value set for a float uniform of p.
func (b *Backend) UniformFloat(p backend.Program, name string) (float32, bool) {
	prog, ok := b.programs[p]
	if !ok {
		return 0, false
	}
	v, ok := prog.floats[b.UniformLocation(p, name)]
	return v, ok
}

// CurrentProgram returns the program in use.
func (b *Backend) CurrentProgram() backend.Program { return b.current }

// Programs returns the number of live programs.
func (b *Backend) Programs() int { return len(b.programs) }

// VertexAttribs returns the enabled attribute layout and its stride.
func (b *Backend) VertexAttribs() ([]backend.VertexAttrib, int) { return b.attribs, b.stride }

// SetDepthTest records the depth test state.
func (b *Backend) SetDepthTest(enabled bool, compare gputypes.CompareFunction) {
	b.state.DepthTest = enabled
	if enabled {
		b.state.DepthCompare = compare
	}
}

// SetDepthMask records the depth write mask.
func (b *Backend) SetDepthMask(write bool) { b.state.DepthMask = write }

// SetPolygonOffset records the depth bias.
func (b *Backend) SetPolygonOffset(enabled bool, factor, units float32) {
	b.state.PolygonOffset = enabled
	if enabled {
		b.state.OffsetFactor, b.state.OffsetUnits = factor, units
	}
}

// SetViewport records the viewport.
func (b *Backend) SetViewport(x, y, width, height int) {
	b.state.Viewport = image.Rect(x, y, x+width, y+height)
}

// SetScissor records the scissor box.
func (b *Backend) SetScissor(x, y, width, height int) {
	b.state.Scissor = image.Rect(x, y, x+width, y+height)
}

// SetBlend records the blend enable.
func (b *Backend) SetBlend(enabled bool) { b.state.Blend = enabled }

// State returns the fixed-function state.
func (b *Backend) State() State { return b.state }

// DrawTriangles records the draw with a copy of the vertex data.
func (b *Backend) DrawTriangles(buf []float32, numTris int) {
	b.stats.Draws++
	b.draws = append(b.draws, Draw{
		Program:  b.current,
		Target:   b.bound,
		Vertices: numTris * 3,
		Stride:   b.stride,
		Attribs:  append([]backend.VertexAttrib(nil), b.attribs...),
		Data:     append([]float32(nil), buf...),
	})
}

// Draws returns the recorded draws.
func (b *Backend) Draws() []Draw { return b.draws }

// Flush counts the submission.
func (b *Backend) Flush() { b.stats.Flushes++ }

// Stats returns the work counters.
func (b *Backend) Stats() Stats { return b.stats }
