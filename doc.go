// Package fast3d turns N64 colour-combiner configurations into shader
// programs and keeps the rendering state a Fast3D-style renderer needs
// around them.
//
// # Overview
//
// The combiner of the console's RDP is described by a packed cc.ShaderID.
// The cc package decodes it into a feature set, shadergen writes vertex and
// fragment source for it and program compiles and caches the result on a
// backend. Context ties these to the draw stream: it loads programs with
// the frame counter and noise scale, manages the framebuffer table and
// reads back depth for the host's coverage and occlusion queries.
//
// # Quick Start
//
//	b := headless.New() // or opengl.New() with a current GL context
//	ctx, err := fast3d.NewContext(b)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer ctx.Close()
//
//	id := cc.Combiner{One: cc.Same(cc.Params{D: cc.TermInput1})}.Encode()
//	p := ctx.MustProgram(id)
//	ctx.LoadProgram(p)
//	err = ctx.DrawTriangles(vertices, len(vertices)/(3*p.NumFloats))
//
// # Backends
//
// Backends implement backend.Backend and register themselves by name:
//   - backend/opengl: OpenGL 4.1 core through go-gl
//   - backend/headless: in-memory, for tests and tools
//
// # Threading
//
// A Context and its backend belong to the goroutine that owns the graphics
// context. Lookups and statistics of the program cache are safe from other
// goroutines.
package fast3d
