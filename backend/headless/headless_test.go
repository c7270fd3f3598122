package headless

import (
	"errors"
	"image"
	"image/color"
	"testing"

	"github.com/gogpu/fast3d/backend"
	"github.com/gogpu/fast3d/cc"
	"github.com/gogpu/fast3d/shadergen"
	"github.com/gogpu/gputypes"
)

const (
	testVertex = `#version 410 core
in vec4 aVtxPos;
in vec4 aInput1;
out vec4 vInput1;
void main() {
vInput1 = aInput1;
gl_Position = aVtxPos;
}
`
	testFragment = `#version 410 core
in vec4 vInput1;
uniform int frame_count;
uniform float noise_scale;
out vec4 outColor;
void main() {
outColor = vInput1 * float(frame_count);
}
`
)

func newInitialized(t *testing.T, opts ...Option) *Backend {
	t.Helper()
	b := New(opts...)
	if err := b.Init(); err != nil {
		t.Fatalf("Init() error = %v", err)
	}
	t.Cleanup(b.Close)
	return b
}

func TestCompileProgramLocations(t *testing.T) {
	b := newInitialized(t)

	p, err := b.CompileProgram(testVertex, testFragment)
	if err != nil {
		t.Fatalf("CompileProgram() error = %v", err)
	}
	if got := b.AttribLocation(p, "aVtxPos"); got != 0 {
		t.Errorf("AttribLocation(aVtxPos) = %d, want 0", got)
	}
	if got := b.AttribLocation(p, "aInput1"); got != 1 {
		t.Errorf("AttribLocation(aInput1) = %d, want 1", got)
	}
	if got := b.AttribLocation(p, "aFog"); got != -1 {
		t.Errorf("AttribLocation(aFog) = %d, want -1", got)
	}
	if got := b.UniformLocation(p, "frame_count"); got < 0 {
		t.Errorf("UniformLocation(frame_count) = %d, want active", got)
	}
	// Declared but never read: optimized out as a driver would.
	if got := b.UniformLocation(p, "noise_scale"); got != -1 {
		t.Errorf("UniformLocation(noise_scale) = %d, want -1", got)
	}
	if got := b.Stats().Compiles; got != 1 {
		t.Errorf("Compiles = %d, want 1", got)
	}
}

func TestCompileProgramRejects(t *testing.T) {
	tests := []struct {
		name     string
		vertex   string
		fragment string
		stage    backend.Stage
		link     bool
	}{
		{"no version", "void main() {\n}\n", testFragment, backend.StageVertex, false},
		{"unbalanced", testVertex, testFragment + "}\n", backend.StageFragment, false},
		{"unclosed", testVertex + "void f() {\n", testFragment, backend.StageVertex, false},
		{"no main", "#version 410 core\n", testFragment, backend.StageVertex, false},
		{"unwritten input", "#version 410 core\nin vec4 aVtxPos;\nvoid main() {\ngl_Position = aVtxPos;\n}\n", testFragment, 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := newInitialized(t)
			_, err := b.CompileProgram(tt.vertex, tt.fragment)
			var ce *backend.CompileError
			if !errors.As(err, &ce) {
				t.Fatalf("CompileProgram() error = %v, want *CompileError", err)
			}
			if ce.Link != tt.link {
				t.Errorf("Link = %v, want %v (%v)", ce.Link, tt.link, err)
			}
			if !tt.link && ce.Stage != tt.stage {
				t.Errorf("Stage = %v, want %v", ce.Stage, tt.stage)
			}
			if b.Programs() != 0 {
				t.Error("failed compile left a program behind")
			}
		})
	}
}

func TestCompileHook(t *testing.T) {
	boom := errors.New("boom")
	b := newInitialized(t, WithCompileHook(func(string, string) error { return boom }))
	if _, err := b.CompileProgram(testVertex, testFragment); !errors.Is(err, boom) {
		t.Errorf("CompileProgram() error = %v, want %v", err, boom)
	}
}

func TestCompileProgramNotInitialized(t *testing.T) {
	b := New()
	if _, err := b.CompileProgram(testVertex, testFragment); !errors.Is(err, backend.ErrNotInitialized) {
		t.Errorf("CompileProgram() error = %v, want ErrNotInitialized", err)
	}
}

// Every synthesized program must pass the structural checks and link.
func TestCompileSynthesized(t *testing.T) {
	b := newInitialized(t)
	combiners := []cc.Combiner{
		{One: cc.Same(cc.Params{D: cc.TermInput1})},
		{
			One:      cc.Same(cc.Params{A: cc.TermTexel0, B: cc.TermTexel1, C: cc.TermNoise, D: cc.TermInput7}),
			Two:      cc.Same(cc.Params{A: cc.TermCombined, B: cc.TermZero, C: cc.TermInput2, D: cc.TermZero}),
			TwoCycle: true,
			Options:  0xfff,
		},
	}
	for _, d := range shadergen.Dialects() {
		for _, c := range combiners {
			f := cc.Decode(c.Encode())
			src := shadergen.Synthesize(f, shadergen.Options{Dialect: d})
			p, err := b.CompileProgram(src.Vertex, src.Fragment)
			if err != nil {
				t.Fatalf("%s %v: CompileProgram() error = %v", d.Name, c.Encode(), err)
			}
			for i, a := range src.Attributes {
				if got := b.AttribLocation(p, a.Name); got != int32(i) {
					t.Errorf("%s: AttribLocation(%s) = %d, want %d", d.Name, a.Name, got, i)
				}
			}
		}
	}
}

func TestUniforms(t *testing.T) {
	b := newInitialized(t)
	p, err := b.CompileProgram(testVertex, testFragment)
	if err != nil {
		t.Fatal(err)
	}
	b.UseProgram(p)
	b.SetUniform1i(b.UniformLocation(p, "frame_count"), 7)
	b.SetUniform1f(-1, 2)

	if v, ok := b.UniformInt(p, "frame_count"); !ok || v != 7 {
		t.Errorf("UniformInt(frame_count) = %d, %v, want 7", v, ok)
	}
	if _, ok := b.UniformFloat(p, "noise_scale"); ok {
		t.Error("inactive uniform recorded a value")
	}

	b.DeleteProgram(p)
	if b.CurrentProgram() != 0 {
		t.Error("deleted program still current")
	}
}

func TestDrawTrianglesRecords(t *testing.T) {
	b := newInitialized(t)
	attrs := []backend.VertexAttrib{{Location: 0, Size: 4, Offset: 0}, {Location: -1, Size: 3, Offset: 4}}
	b.EnableVertexAttribs(attrs, 7)

	buf := make([]float32, 21)
	b.DrawTriangles(buf, 1)
	buf[0] = 1

	draws := b.Draws()
	if len(draws) != 1 {
		t.Fatalf("Draws() = %d, want 1", len(draws))
	}
	if draws[0].Vertices != 3 || draws[0].Stride != 7 || len(draws[0].Attribs) != 2 {
		t.Errorf("draw = %+v", draws[0])
	}
	if draws[0].Data[0] != 0 {
		t.Error("draw data aliases the caller's buffer")
	}
}

func TestTextures(t *testing.T) {
	b := newInitialized(t)
	tex := b.NewTexture()
	b.SelectTexture(1, tex)
	b.UploadTexture([]byte{1, 2, 3, 4, 5, 6, 7, 8}, 2, 1)
	b.SetSamplerParameters(1, gputypes.FilterModeLinear, backend.WrapClamp, backend.WrapMirror)

	img := b.TextureImage(tex)
	if img == nil || img.Bounds().Dx() != 2 || img.RGBAAt(1, 0) != (color.RGBA{5, 6, 7, 8}) {
		t.Fatalf("TextureImage() = %v", img)
	}
	s, ok := b.TextureSampler(tex)
	if !ok || s.Filter != gputypes.FilterModeLinear || s.WrapS != backend.WrapClamp || s.WrapT != backend.WrapMirror {
		t.Errorf("TextureSampler() = %+v", s)
	}

	b.DeleteTexture(tex)
	if b.BoundTexture(1) != 0 {
		t.Error("deleted texture still bound")
	}
}

func TestRenderTargetStorage(t *testing.T) {
	b := newInitialized(t)
	rt, err := b.NewRenderTarget()
	if err != nil {
		t.Fatal(err)
	}
	if err := b.ResizeColor(rt, 8, 4, 1); err != nil {
		t.Fatal(err)
	}
	if err := b.ResizeDepth(rt, 8, 4, 1); err != nil {
		t.Fatal(err)
	}
	b.AttachDepth(rt, true)

	tex := b.ColorTexture(rt)
	if tex == 0 || b.TextureImage(tex) != b.ColorImage(rt) {
		t.Error("single-sampled colour must back the colour texture")
	}
	if err := b.ResizeColor(rt, 8, 4, 4); err != nil {
		t.Fatal(err)
	}
	if b.ColorTexture(rt) != 0 {
		t.Error("multisampled target exposes a colour texture")
	}
	if st := b.Stats(); st.ColorAllocs != 2 || st.DepthAllocs != 1 {
		t.Errorf("Stats() = %+v", st)
	}
	if err := b.ResizeColor(rt, 0, 4, 1); err == nil {
		t.Error("zero width accepted")
	}
	if err := b.ResizeColor(99, 1, 1, 1); err == nil {
		t.Error("unknown target accepted")
	}
}

func TestClearAndBlit(t *testing.T) {
	b := newInitialized(t, WithWindowSize(4, 4))
	src, _ := b.NewRenderTarget()
	if err := b.ResizeColor(src, 4, 4, 4); err != nil {
		t.Fatal(err)
	}
	b.ColorImage(src).SetRGBA(1, 1, color.RGBA{R: 200, A: 255})

	b.BindRenderTarget(backend.DefaultTarget)
	b.Clear()
	if got := b.ColorImage(backend.DefaultTarget).RGBAAt(0, 0); got != (color.RGBA{A: 255}) {
		t.Errorf("cleared colour = %v", got)
	}

	r := image.Rect(0, 0, 4, 4)
	b.BlitColor(backend.DefaultTarget, src, r, r)
	if got := b.ColorImage(backend.DefaultTarget).RGBAAt(1, 1); got.R != 200 {
		t.Errorf("blitted colour = %v", got)
	}
}

func TestDepthReadback(t *testing.T) {
	b := newInitialized(t, WithWindowSize(16, 16))
	if err := b.StoreDepthStencil(backend.DefaultTarget, 3, 5, 0xABCDEF00); err != nil {
		t.Fatal(err)
	}
	v, err := b.ReadDepthStencil(backend.DefaultTarget, 3, 5)
	if err != nil || v != 0xABCDEF00 {
		t.Errorf("ReadDepthStencil() = %#x, %v", v, err)
	}
	if v, _ := b.ReadDepthStencil(backend.DefaultTarget, 0, 0); v != clearDepth {
		t.Errorf("untouched depth = %#x, want %#x", v, clearDepth)
	}
	if _, err := b.ReadDepthStencil(backend.DefaultTarget, 16, 0); err == nil {
		t.Error("out-of-range read succeeded")
	}

	scratch, _ := b.NewRenderTarget()
	if err := b.ResizeDepth(scratch, 2, 1, 1); err != nil {
		t.Fatal(err)
	}
	b.AttachDepth(scratch, true)
	b.BlitDepthToScratch(scratch, backend.DefaultTarget, []image.Point{{3, 5}, {99, 99}})

	vals, err := b.ReadScratchDepthStencil(scratch, 2)
	if err != nil {
		t.Fatal(err)
	}
	if vals[0] != 0xABCDEF00 || vals[1] != 0 {
		t.Errorf("scratch = %#x", vals)
	}
	if _, err := b.ReadScratchDepthStencil(scratch, 3); err == nil {
		t.Error("read past scratch width succeeded")
	}
}

func TestDeleteRenderTarget(t *testing.T) {
	b := newInitialized(t)
	rt, _ := b.NewRenderTarget()
	b.BindRenderTarget(rt)
	b.DeleteRenderTarget(rt)
	if b.BoundRenderTarget() != backend.DefaultTarget {
		t.Error("deleted target still bound")
	}
	b.DeleteRenderTarget(backend.DefaultTarget)
	if w, _, _, _ := b.TargetSize(backend.DefaultTarget); w == 0 {
		t.Error("default target deleted")
	}
}
