package headless

import (
	"fmt"
	"strings"

	"github.com/gogpu/fast3d/backend"
)

// declaration is one stage-level "qualifier type name;" line.
type declaration struct {
	qualifier string
	name      string
}

// parseDeclarations returns the top-level declarations of src in order.
func parseDeclarations(src string) []declaration {
	var decls []declaration
	depth := 0
	for _, l := range strings.Split(src, "\n") {
		l = strings.TrimSpace(l)
		if depth == 0 && strings.HasSuffix(l, ";") {
			fields := strings.Fields(strings.TrimSuffix(l, ";"))
			if len(fields) == 3 {
				switch fields[0] {
				case "in", "out", "attribute", "varying", "uniform":
					decls = append(decls, declaration{qualifier: fields[0], name: fields[2]})
				}
			}
		}
		depth += strings.Count(l, "{") - strings.Count(l, "}")
	}
	return decls
}

// validate performs the structural checks a driver front end would reject
// first: version pragma on the first line, balanced braces and an entry point.
func validate(stage backend.Stage, src string) error {
	fail := func(format string, args ...any) error {
		return &backend.CompileError{Stage: stage, Log: fmt.Sprintf(format, args...)}
	}

	if !strings.HasPrefix(src, "#version ") {
		return fail("0:1: '#version' must be the first line")
	}
	depth := 0
	for i, l := range strings.Split(src, "\n") {
		depth += strings.Count(l, "{") - strings.Count(l, "}")
		if depth < 0 {
			return fail("0:%d: unexpected '}'", i+1)
		}
	}
	if depth != 0 {
		return fail("0:0: unexpected end of file, %d unclosed '{'", depth)
	}
	if !strings.Contains(src, "void main()") {
		return fail("0:0: missing entry point 'main'")
	}
	return nil
}

// stageIO returns the names a stage reads from and writes to the
// neighbouring stage.
func stageIO(stage backend.Stage, decls []declaration) (inputs, outputs []string) {
	for _, d := range decls {
		switch {
		case d.qualifier == "in", d.qualifier == "attribute":
			inputs = append(inputs, d.name)
		case d.qualifier == "out":
			outputs = append(outputs, d.name)
		case d.qualifier == "varying" && stage == backend.StageVertex:
			outputs = append(outputs, d.name)
		case d.qualifier == "varying":
			inputs = append(inputs, d.name)
		}
	}
	return inputs, outputs
}

// active reports whether name is referenced anywhere besides its declaration.
func active(src, name string) bool {
	n := 0
	for i := 0; ; {
		j := strings.Index(src[i:], name)
		if j < 0 {
			break
		}
		start, end := i+j, i+j+len(name)
		if !identByte(src, start-1) && !identByte(src, end) {
			n++
		}
		i = end
	}
	return n > 1
}

func identByte(s string, i int) bool {
	if i < 0 || i >= len(s) {
		return false
	}
	c := s[i]
	return c == '_' || c >= '0' && c <= '9' || c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z'
}
