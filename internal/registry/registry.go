// Package registry provides a global registry of playable scenes.
// Scene sources register themselves in init() functions, allowing the
// platform to discover scenes without hardcoded dependencies.
package registry

import (
	"fmt"
	"sort"
	"sync"

	"github.com/vovakirdan/tui-tavern/internal/config"
)

// SceneInfo contains metadata about a registered scene.
type SceneInfo struct {
	ID          string
	Title       string
	Description string
	Entries     int // Dialogue entries in the script
}

// Factory loads a scene. A non-empty customPath overrides the built-in
// search order.
type Factory func(customPath string) (config.Scene, error)

var (
	factories = make(map[string]Factory)
	infos     = make(map[string]SceneInfo)
	mu        sync.RWMutex
)

// Register adds a scene factory to the registry.
// Panics if a scene with the same ID is already registered.
func Register(id string, f Factory) {
	mu.Lock()
	defer mu.Unlock()

	if _, exists := factories[id]; exists {
		panic(fmt.Sprintf("registry: scene %q already registered", id))
	}

	factories[id] = f

	// Get metadata by loading the scene once
	info := SceneInfo{ID: id, Title: id}
	if s, err := f(""); err == nil {
		info.Title = s.Name
		info.Description = s.Description
		info.Entries = len(s.Dialogue)
	}
	infos[id] = info
}

// List returns information about all registered scenes, sorted by ID.
func List() []SceneInfo {
	mu.RLock()
	defer mu.RUnlock()

	result := make([]SceneInfo, 0, len(infos))
	for _, info := range infos {
		result = append(result, info)
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].ID < result[j].ID
	})

	return result
}

// Create loads a scene by its ID.
// Returns an error if the scene ID is not registered.
func Create(id, customPath string) (config.Scene, error) {
	mu.RLock()
	f, ok := factories[id]
	mu.RUnlock()

	if !ok {
		return config.Scene{}, fmt.Errorf("registry: unknown scene %q", id)
	}

	return f(customPath)
}

// Exists checks if a scene with the given ID is registered.
func Exists(id string) bool {
	mu.RLock()
	defer mu.RUnlock()

	_, ok := factories[id]
	return ok
}
