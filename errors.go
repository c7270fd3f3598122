package fast3d

import "errors"

// Context errors.
var (
	// ErrFramebufferIndex is returned for an index CreateFramebuffer never
	// returned.
	ErrFramebufferIndex = errors.New("fast3d: framebuffer index out of range")

	// ErrVertexDataSize is returned by DrawTriangles when the buffer is too
	// short for the loaded program's stride.
	ErrVertexDataSize = errors.New("fast3d: vertex data size mismatch")

	// ErrNoProgram is returned by DrawTriangles when no program is loaded.
	ErrNoProgram = errors.New("fast3d: no program loaded")
)
