package tac

import "fmt"

// scopeArena tracks IR renaming for blocks that can shadow an outer
// variable (currently for-loop initializers). Frames are addressed by
// index into one arena slice rather than by chasing parent pointers,
// and renamed identity is a synthetic slot id, never a comparison of
// concatenated strings.
type scopeArena struct {
	frames  []map[string]string // surface name -> unique IR name
	counter int                 // monotonically increasing slot id
}

// push opens a new renaming frame.
func (a *scopeArena) push() {
	a.frames = append(a.frames, make(map[string]string))
}

// pop discards the innermost frame.
func (a *scopeArena) pop() {
	a.frames = a.frames[:len(a.frames)-1]
}

// declare binds name in the innermost frame and returns its IR name.
// Declarations outside any frame keep their surface name.
func (a *scopeArena) declare(name string) string {
	if len(a.frames) == 0 {
		return name
	}
	a.counter++
	ir := fmt.Sprintf("%s__scope%d_%d", name, len(a.frames), a.counter)
	a.frames[len(a.frames)-1][name] = ir
	return ir
}

// resolve returns the innermost IR name bound for name, falling back
// to the surface name at global scope.
func (a *scopeArena) resolve(name string) string {
	for i := len(a.frames) - 1; i >= 0; i-- {
		if ir, ok := a.frames[i][name]; ok {
			return ir
		}
	}
	return name
}
