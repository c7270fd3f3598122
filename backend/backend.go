package backend

import (
	"errors"
	"fmt"
	"image"

	"github.com/gogpu/gputypes"
)

// Common backend errors.
var (
	// ErrBackendNotAvailable is returned when a requested backend is not available.
	ErrBackendNotAvailable = errors.New("backend: not available")

	// ErrNotInitialized is returned when operations are called before Init.
	ErrNotInitialized = errors.New("backend: not initialized")

	// ErrCompile is returned when a shader stage fails to compile.
	ErrCompile = errors.New("backend: shader compile failed")

	// ErrLink is returned when a program fails to link.
	ErrLink = errors.New("backend: program link failed")
)

// Stage names a shader stage in compile diagnostics.
type Stage uint8

const (
	StageVertex Stage = iota
	StageFragment
)

// String returns the stage name.
func (s Stage) String() string {
	switch s {
	case StageVertex:
		return "vertex"
	case StageFragment:
		return "fragment"
	default:
		return fmt.Sprintf("Stage(%d)", s)
	}
}

// CompileError carries the driver diagnostic of a failed compile or link.
// It unwraps to ErrCompile or ErrLink.
type CompileError struct {
	Stage Stage
	Link  bool
	Log   string
}

func (e *CompileError) Error() string {
	if e.Link {
		return fmt.Sprintf("backend: program link failed: %s", e.Log)
	}
	return fmt.Sprintf("backend: %s shader compile failed: %s", e.Stage, e.Log)
}

func (e *CompileError) Unwrap() error {
	if e.Link {
		return ErrLink
	}
	return ErrCompile
}

// Program is a linked shader program handle. Zero is never a valid program.
type Program uint32

// Texture is a texture handle. Zero is never a valid texture.
type Texture uint32

// RenderTarget is a framebuffer handle. Zero is the window framebuffer.
type RenderTarget uint32

// DefaultTarget is the window framebuffer.
const DefaultTarget RenderTarget = 0

// VertexAttrib is one attribute of an interleaved float vertex.
type VertexAttrib struct {
	// Location is the attribute index in the program, -1 when the driver
	// optimized the attribute out. Its floats still occupy the vertex.
	Location int32

	// Size is the component count, 1 to 4.
	Size int

	// Offset is the float offset of the attribute within the vertex.
	Offset int
}

// Format returns the vertex format for the attribute's component count.
func (a VertexAttrib) Format() gputypes.VertexFormat {
	switch a.Size {
	case 1:
		return gputypes.VertexFormatFloat32
	case 2:
		return gputypes.VertexFormatFloat32x2
	case 3:
		return gputypes.VertexFormatFloat32x3
	default:
		return gputypes.VertexFormatFloat32x4
	}
}

// WrapMode holds the hardware tile clamp/mirror bits of one texture axis.
type WrapMode uint8

const (
	// WrapMirror mirrors every other repetition.
	WrapMirror WrapMode = 1 << 0

	// WrapClamp clamps to the edge texel past the tile.
	WrapClamp WrapMode = 1 << 1
)

// Mirror reports whether the mirror bit is set.
func (w WrapMode) Mirror() bool { return w&WrapMirror != 0 }

// Clamp reports whether the clamp bit is set.
func (w WrapMode) Clamp() bool { return w&WrapClamp != 0 }

func (w WrapMode) String() string {
	switch {
	case w.Mirror() && w.Clamp():
		return "mirror-clamp"
	case w.Mirror():
		return "mirror"
	case w.Clamp():
		return "clamp"
	default:
		return "wrap"
	}
}

// Formats of render target attachments.
const (
	ColorFormat = gputypes.TextureFormatRGBA8Unorm
	DepthFormat = gputypes.TextureFormatDepth24PlusStencil8
)

// Backend is the graphics API the renderer runs on.
//
// A backend owns a single context and is not safe for concurrent use. It
// tracks the bound program, the selected texture unit and the bound render
// target the way the underlying API does.
//
// Backends must be registered via Register() and are selected via
// Get() or Default().
type Backend interface {
	// Name returns the backend identifier (e.g., "opengl", "headless").
	Name() string

	// Init sets up fixed state: vertex array, streaming buffer, depth clamp,
	// LEQUAL depth compare and source-alpha blending.
	Init() error

	// Close releases all backend resources.
	// The backend should not be used after Close is called.
	Close()

	// MaxTextureSize returns the largest supported texture dimension.
	MaxTextureSize() int

	// CompileProgram compiles and links a vertex and fragment stage. Errors
	// are *CompileError.
	CompileProgram(vertex, fragment string) (Program, error)

	DeleteProgram(p Program)

	// AttribLocation returns the attribute index of name, -1 if inactive.
	AttribLocation(p Program, name string) int32

	// UniformLocation returns the uniform location of name, -1 if inactive.
	UniformLocation(p Program, name string) int32

	UseProgram(p Program)

	// EnableVertexAttribs points every attribute with a valid location at
	// the streaming buffer with the given stride in floats.
	EnableVertexAttribs(attrs []VertexAttrib, stride int)

	DisableVertexAttribs(attrs []VertexAttrib)

	// SetUniform1i and SetUniform1f set uniforms of the program in use.
	// Location -1 is ignored.
	SetUniform1i(loc int32, v int32)
	SetUniform1f(loc int32, v float32)

	NewTexture() Texture
	DeleteTexture(t Texture)

	// SelectTexture activates a texture unit and binds t to it.
	SelectTexture(unit int, t Texture)

	// UploadTexture replaces the image of the texture bound to the active
	// unit with tightly packed RGBA8 rows.
	UploadTexture(rgba []byte, width, height int)

	// SetSamplerParameters sets filtering and wrapping of the texture bound
	// to unit.
	SetSamplerParameters(unit int, filter gputypes.FilterMode, s, t WrapMode)

	// SetDepthTest enables depth testing with the given compare function, or
	// disables it when enabled is false.
	SetDepthTest(enabled bool, compare gputypes.CompareFunction)
	SetDepthMask(write bool)

	// SetPolygonOffset enables a slope-scaled depth bias, or disables it.
	SetPolygonOffset(enabled bool, factor, units float32)

	SetViewport(x, y, width, height int)
	SetScissor(x, y, width, height int)
	SetBlend(enabled bool)

	// DrawTriangles streams buf into the vertex buffer and draws
	// numTris*3 vertices with the enabled attribute layout.
	DrawTriangles(buf []float32, numTris int)

	// Flush submits pending work.
	Flush()

	// NewRenderTarget creates an offscreen framebuffer without storage.
	NewRenderTarget() (RenderTarget, error)

	// ResizeColor (re)allocates the colour attachment. msaa > 1 selects a
	// multisampled renderbuffer instead of a sampleable texture.
	ResizeColor(rt RenderTarget, width, height, msaa int) error

	// ResizeDepth (re)allocates the depth-stencil storage of rt.
	ResizeDepth(rt RenderTarget, width, height, msaa int) error

	// AttachDepth attaches or detaches the depth-stencil storage of rt.
	AttachDepth(rt RenderTarget, attach bool)

	// ColorTexture returns the sampleable colour texture of rt, zero for a
	// multisampled target or the window framebuffer.
	ColorTexture(rt RenderTarget) Texture

	BindRenderTarget(rt RenderTarget)

	// Clear clears the bound target to opaque black and depth 1. It
	// ignores the scissor and the depth mask and restores both.
	Clear()

	// BlitColor copies srcRect of src into dstRect of dst with nearest
	// filtering, resolving multisamples.
	BlitColor(dst, src RenderTarget, dstRect, srcRect image.Rectangle)

	// ReadDepthStencil reads one packed 24/8 depth-stencil value of rt.
	ReadDepthStencil(rt RenderTarget, x, y int) (uint32, error)

	// BlitDepthToScratch copies the depth of each point of src into texel
	// (i, 0) of scratch.
	BlitDepthToScratch(scratch, src RenderTarget, points []image.Point)

	// ReadScratchDepthStencil reads the first n packed depth-stencil values
	// of row 0 of scratch.
	ReadScratchDepthStencil(scratch RenderTarget, n int) ([]uint32, error)

	// DeleteRenderTarget releases rt and its attachments.
	DeleteRenderTarget(rt RenderTarget)
}
