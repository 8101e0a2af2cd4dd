package nodeclass

import "sync"

var (
	factoriesMu sync.RWMutex
	factories   = make(map[string]Factory)
)

// Register associates a Go Implementation factory with a node type
// name, mirroring the teacher's registry.RegisterRunner. Node packages
// call this from an init() function; internal/registry.Discover looks
// factories up by the type name declared in a manifest's node block.
func Register(typeName string, factory Factory) {
	factoriesMu.Lock()
	defer factoriesMu.Unlock()
	factories[typeName] = factory
}

// FactoryFor returns the registered factory for typeName, if any.
func FactoryFor(typeName string) (Factory, bool) {
	factoriesMu.RLock()
	defer factoriesMu.RUnlock()
	f, ok := factories[typeName]
	return f, ok
}
