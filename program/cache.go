// Package program compiles combiner programs on demand and caches them by
// shader id.
package program

import (
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"

	"github.com/gogpu/fast3d/backend"
	"github.com/gogpu/fast3d/cc"
	"github.com/gogpu/fast3d/shadergen"
)

// Program cache errors.
var (
	// ErrCompile is returned when the backend rejects a generated program.
	// Renderers treat it as fatal: the draw it was needed for cannot happen.
	ErrCompile = errors.New("program: compile failed")

	// ErrNilBackend is returned when a cache has no backend.
	ErrNilBackend = errors.New("program: backend is nil")
)

// Program is a compiled combiner program and its vertex layout.
type Program struct {
	ID     cc.ShaderID
	Handle backend.Program

	NumInputs    int
	UsedTextures [2]bool

	// Attributes follow shadergen.Layout order. Offsets are prefix sums of
	// the sizes; an attribute with Location -1 still occupies its floats.
	Attributes []backend.VertexAttrib

	// NumFloats is the vertex stride in floats.
	NumFloats int

	FrameCountLocation int32
	NoiseScaleLocation int32

	// Filter is the texture filter mode the program was generated with.
	Filter shadergen.Filter

	// Source is kept for diagnostics.
	Source shadergen.Source
}

// Info returns the inputs count and texture usage of p.
func (p *Program) Info() (numInputs int, usedTextures [2]bool) {
	return p.NumInputs, p.UsedTextures
}

// Uniforms are the per-draw values uploaded by Load.
type Uniforms struct {
	FrameCount int32
	NoiseScale float32
}

// Cache maps shader ids to compiled programs.
//
// Each distinct id is compiled at most once for the lifetime of the cache;
// there is no eviction. Cache is safe for concurrent use, but every backend
// call is made under the cache's write lock or by the caller of Load and
// Unload, so the backend itself sees a single user.
type Cache struct {
	// mu protects programs.
	mu       sync.RWMutex
	programs map[cc.ShaderID]*Program

	backend backend.Backend
	dialect shadergen.Dialect
	filter  func() shadergen.Filter

	// inUse is the program of the last Load. Compiling binds the new
	// program for its sampler uniforms and then restores inUse.
	inUse atomic.Uint32

	// Counters are atomic for lock-free reads.
	hits     uint64
	misses   uint64
	compiles uint64
}

// Option configures a Cache.
type Option func(*Cache)

// WithDialect selects the shading-language dialect of generated programs.
// The default is shadergen.GLSL410.
func WithDialect(d shadergen.Dialect) Option {
	return func(c *Cache) { c.dialect = d }
}

// WithFilter sets the provider of the texture filter mode. It is consulted
// once per compile; programs keep the mode they were generated with.
func WithFilter(fn func() shadergen.Filter) Option {
	return func(c *Cache) { c.filter = fn }
}

// New creates an empty cache compiling on b.
func New(b backend.Backend, opts ...Option) *Cache {
	c := &Cache{
		programs: make(map[cc.ShaderID]*Program),
		backend:  b,
		dialect:  shadergen.GLSL410,
		filter:   func() shadergen.Filter { return shadergen.FilterThreePoint },
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// GetOrCreate returns the program for id, compiling it on first use.
//
// Fast path: RLock, check cache, return if found.
// Slow path: Lock, double-check, compile if needed.
//
// Compiling does not change the program in use: the program of the last
// Load stays current for the next draw. Errors wrap
// ErrCompile with the backend diagnostic, or cc.ErrReservedTerm when id
// selects an undefined combiner input; failed ids are not cached.
func (c *Cache) GetOrCreate(id cc.ShaderID) (*Program, error) {
	c.mu.RLock()
	if p, ok := c.programs[id]; ok {
		c.mu.RUnlock()
		atomic.AddUint64(&c.hits, 1)
		return p, nil
	}
	c.mu.RUnlock()

	c.mu.Lock()
	defer c.mu.Unlock()

	if p, ok := c.programs[id]; ok {
		atomic.AddUint64(&c.hits, 1)
		return p, nil
	}

	p, err := c.create(id)
	if err != nil {
		return nil, err
	}
	c.programs[id] = p
	atomic.AddUint64(&c.misses, 1)
	return p, nil
}

func (c *Cache) create(id cc.ShaderID) (*Program, error) {
	if c.backend == nil {
		return nil, ErrNilBackend
	}

	f := cc.Decode(id)
	if err := f.Validate(); err != nil {
		return nil, fmt.Errorf("program %v: %w", id, err)
	}

	filter := c.filter()
	src := shadergen.Synthesize(f, shadergen.Options{Dialect: c.dialect, Filter: filter})
	log := slogger().With(slog.String("id", id.String()))
	log.Debug("program: compiling",
		slog.String("dialect", c.dialect.Name),
		slog.String("filter", filter.String()),
		slog.Int("vertex_bytes", len(src.Vertex)),
		slog.Int("fragment_bytes", len(src.Fragment)))

	atomic.AddUint64(&c.compiles, 1)
	h, err := c.backend.CompileProgram(src.Vertex, src.Fragment)
	if err != nil {
		log.Error("program: compile failed",
			slog.String("error", err.Error()),
			slog.String("vertex", src.Vertex),
			slog.String("fragment", src.Fragment))
		return nil, fmt.Errorf("%w: %v: %w", ErrCompile, id, err)
	}

	p := &Program{
		ID:           id,
		Handle:       h,
		NumInputs:    f.NumInputs,
		UsedTextures: f.UsedTextures,
		Attributes:   make([]backend.VertexAttrib, 0, len(src.Attributes)),
		Filter:       filter,
		Source:       src,
	}
	for _, a := range src.Attributes {
		loc := c.backend.AttribLocation(h, a.Name)
		if loc < 0 {
			log.Warn("program: attribute inactive", slog.String("name", a.Name))
		}
		p.Attributes = append(p.Attributes, backend.VertexAttrib{Location: loc, Size: a.Size, Offset: p.NumFloats})
		p.NumFloats += a.Size
	}

	c.backend.UseProgram(h)
	for unit, used := range f.UsedTextures {
		if used {
			c.backend.SetUniform1i(c.backend.UniformLocation(h, shadergen.UniformSampler(unit)), int32(unit))
		}
	}
	p.FrameCountLocation = c.backend.UniformLocation(h, shadergen.UniformFrameCount)
	p.NoiseScaleLocation = c.backend.UniformLocation(h, shadergen.UniformNoiseScale)
	c.backend.UseProgram(backend.Program(c.inUse.Load()))

	log.Debug("program: compiled", slog.Int("stride", p.NumFloats), slog.Int("inputs", p.NumInputs))
	return p, nil
}

// Lookup returns the cached program for id without compiling.
func (c *Cache) Lookup(id cc.ShaderID) (*Program, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	p, ok := c.programs[id]
	return p, ok
}

// Load makes p current, enables its vertex layout and uploads u. p stays
// current until the next Load, programs compiled in between included.
func (c *Cache) Load(p *Program, u Uniforms) {
	c.inUse.Store(uint32(p.Handle))
	c.backend.UseProgram(p.Handle)
	c.backend.EnableVertexAttribs(p.Attributes, p.NumFloats)
	c.backend.SetUniform1i(p.FrameCountLocation, u.FrameCount)
	c.backend.SetUniform1f(p.NoiseScaleLocation, u.NoiseScale)
}

// Unload disables the vertex layout of p. A nil p is a no-op.
func (c *Cache) Unload(p *Program) {
	if p == nil {
		return
	}
	c.backend.DisableVertexAttribs(p.Attributes)
}

// Stats returns cache statistics.
//
// These values are read atomically and may not be perfectly synchronized.
func (c *Cache) Stats() (hits, misses uint64) {
	return atomic.LoadUint64(&c.hits), atomic.LoadUint64(&c.misses)
}

// HitRate returns the cache hit rate as a fraction (0.0 to 1.0).
//
// Returns 0.0 if no requests have been made.
func (c *Cache) HitRate() float64 {
	hits, misses := c.Stats()
	total := hits + misses
	if total == 0 {
		return 0.0
	}
	return float64(hits) / float64(total)
}

// Len returns the number of cached programs.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.programs)
}

// Compiles returns the number of compile attempts, failed ones included.
func (c *Cache) Compiles() uint64 {
	return atomic.LoadUint64(&c.compiles)
}

// DestroyAll deletes every cached program and resets statistics.
func (c *Cache) DestroyAll() {
	c.mu.Lock()
	defer c.mu.Unlock()

	for _, p := range c.programs {
		c.backend.DeleteProgram(p.Handle)
	}
	c.programs = make(map[cc.ShaderID]*Program)
	c.inUse.Store(0)
	atomic.StoreUint64(&c.hits, 0)
	atomic.StoreUint64(&c.misses, 0)
	atomic.StoreUint64(&c.compiles, 0)
}
