// Package backend abstracts the graphics API the combiner programs run on.
//
// A Backend compiles programs, binds vertex layouts and uniforms, owns
// textures and sampler state, and manages render targets including
// multisample resolve and depth readback. The renderer above it only ever
// talks to this interface.
//
// # Backend Registration
//
// Backends are registered via init() functions and selected at runtime.
// Import the implementation packages for their side effect:
//
//	import (
//		_ "github.com/gogpu/fast3d/backend/headless"
//		_ "github.com/gogpu/fast3d/backend/opengl"
//	)
//
// # Backend Selection
//
// Use Default() to get the best available backend, or Get() to request
// a specific backend by name:
//
//	// Get the default (best available) backend
//	b := backend.Default()
//
//	// Or request a specific backend
//	b := backend.Get(backend.BackendHeadless)
//
// # Available Backends
//
// - "opengl": OpenGL 4.1 core profile via go-gl (needs a current context)
// - "headless": in-memory backend that validates sources and records state
package backend
