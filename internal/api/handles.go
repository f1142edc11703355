package api

import "sync"

// handleRegistry maps the opaque handle stored in a reverse object's
// native block to its Go state, so native memory never holds Go pointers.
type handleRegistry struct {
	mu     sync.RWMutex
	next   uintptr
	states map[uintptr]*framebufferState
}

func newHandleRegistry() *handleRegistry {
	return &handleRegistry{states: make(map[uintptr]*framebufferState)}
}

func (r *handleRegistry) add(st *framebufferState) uintptr {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.next++
	st.handle = r.next
	r.states[r.next] = st
	return r.next
}

func (r *handleRegistry) get(h uintptr) *framebufferState {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.states[h]
}

func (r *handleRegistry) remove(h uintptr) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.states, h)
}

func (r *handleRegistry) len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.states)
}
