// Command ccdump prints the decoded features and the generated shader
// source of a combiner shader id.
//
//	ccdump -id 0000000000000001:00000000
//	ccdump -id 0x1:0x1 -dialect glsles300 -filter linear -stage fragment
//	ccdump -id 0x1:0 -compile -v
package main

import (
	"flag"
	"fmt"
	"io"
	"log"
	"log/slog"
	"os"

	"github.com/gogpu/fast3d"
	"github.com/gogpu/fast3d/backend/headless"
	"github.com/gogpu/fast3d/cc"
	"github.com/gogpu/fast3d/shadergen"
)

func main() {
	var (
		id      = flag.String("id", "", "shader id as <id0>:<id1> in hex")
		dialect = flag.String("dialect", shadergen.GLSL410.Name, "shading language dialect")
		filter  = flag.String("filter", shadergen.FilterThreePoint.String(), "texture filter: three-point, linear or none")
		stage   = flag.String("stage", "all", "what to print: all, features, vertex or fragment")
		compile = flag.Bool("compile", false, "build the program on the headless backend and print its layout")
		verbose = flag.Bool("v", false, "enable debug logging")
	)
	flag.Parse()

	if *id == "" {
		flag.Usage()
		os.Exit(2)
	}
	if *verbose {
		fast3d.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
			Level: slog.LevelDebug,
		})))
	}

	sid, err := cc.ParseShaderID(*id)
	if err != nil {
		log.Fatal(err)
	}
	d, err := shadergen.DialectByName(*dialect)
	if err != nil {
		log.Fatal(err)
	}
	fm, err := shadergen.ParseFilter(*filter)
	if err != nil {
		log.Fatal(err)
	}

	f := cc.Decode(sid)
	if err := f.Validate(); err != nil {
		log.Fatal(err)
	}
	src := shadergen.Synthesize(f, shadergen.Options{Dialect: d, Filter: fm})

	out := os.Stdout
	switch *stage {
	case "all":
		printFeatures(out, sid, f)
		fmt.Fprintf(out, "\n// vertex\n%s\n// fragment\n%s", src.Vertex, src.Fragment)
	case "features":
		printFeatures(out, sid, f)
	case "vertex":
		fmt.Fprint(out, src.Vertex)
	case "fragment":
		fmt.Fprint(out, src.Fragment)
	default:
		log.Fatalf("unknown stage %q", *stage)
	}

	if *compile {
		if err := compileProgram(out, sid, d, fm); err != nil {
			log.Fatal(err)
		}
	}
}

func printFeatures(w io.Writer, id cc.ShaderID, f cc.Features) {
	fmt.Fprintf(w, "id        %v\n", id)
	fmt.Fprintf(w, "cycles    %d\n", f.Cycles())
	for c := 0; c < f.Cycles(); c++ {
		for ch := 0; ch < 2; ch++ {
			s := f.C[c][ch]
			fmt.Fprintf(w, "cycle %d %-5s (%v - %v) * %v + %v  [%v]\n",
				c, cc.Channel(ch), s[0], s[1], s[2], s[3], f.Shape[c][ch])
		}
		fmt.Fprintf(w, "cycle %d same rgb/alpha: %v\n", c, f.ColorAlphaSame[c])
	}
	fmt.Fprintf(w, "inputs    %d\n", f.NumInputs)
	fmt.Fprintf(w, "textures  %v\n", f.UsedTextures)
	fmt.Fprintf(w, "clamp     %v\n", f.Clamp)
	fmt.Fprintf(w, "options   alpha=%v fog=%v edge=%v noise=%v threshold=%v invisible=%v grayscale=%v\n",
		f.Alpha, f.Fog, f.TextureEdge, f.Noise, f.AlphaThreshold, f.Invisible, f.Grayscale)
}

func compileProgram(w io.Writer, id cc.ShaderID, d shadergen.Dialect, fm shadergen.Filter) error {
	ctx, err := fast3d.NewContext(headless.New(),
		fast3d.WithDialect(d),
		fast3d.WithFilterMode(fm))
	if err != nil {
		return err
	}
	defer ctx.Close()

	p, err := ctx.Program(id)
	if err != nil {
		return err
	}
	fmt.Fprintf(w, "\n// layout (stride %d floats)\n", p.NumFloats)
	for i, a := range p.Attributes {
		fmt.Fprintf(w, "%-18s location %2d  offset %2d  %v\n",
			p.Source.Attributes[i].Name, a.Location, a.Offset, a.Format())
	}
	return nil
}
