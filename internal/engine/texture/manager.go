package texture

// Manager tracks textures whose pixel data arrives asynchronously. Loads
// complete out of band; the frame scheduler consults ConsumeLoadedFlag once
// at the start of a tick to learn whether anything finished since the last
// one. There is no mid-frame blocking wait and no cancellation primitive; an
// abandoned load is simply never marked.
type Manager struct {
	textures   map[string]*Texture
	justLoaded bool
}

// NewManager returns an empty texture registry.
func NewManager() *Manager {
	return &Manager{textures: make(map[string]*Texture)}
}

// Get returns the texture registered under name, creating a placeholder on
// first request.
func (m *Manager) Get(name string) *Texture {
	if t, ok := m.textures[name]; ok {
		return t
	}
	t := NewPlaceholder(name)
	m.textures[name] = t
	return t
}

// MarkLoaded is called by the loading collaborator after it uploaded pixels
// into the texture. The flag feeds the next tick's redraw decision.
func (m *Manager) MarkLoaded(t *Texture) {
	if t.Loaded() {
		m.justLoaded = true
	}
}

// ConsumeLoadedFlag reports whether any texture finished loading since the
// last call, and resets the flag.
func (m *Manager) ConsumeLoadedFlag() bool {
	v := m.justLoaded
	m.justLoaded = false
	return v
}
