// Package theme defines the colour palettes for the timer view.
package theme

import (
	"sort"
	"strings"
	"sync"
)

// Theme defines the complete color palette for the timer view.
type Theme struct {
	Name string

	// Base colors
	Foreground string // hex color e.g. "#d4d4d4"
	Dim        string // dimmed text
	Accent     string // button highlights
	Border     string // frame around the clock

	// Clock
	Digits string // big digits while the countdown has time left

	// State labels
	Running string
	Paused  string
	Stopped string
	Done    string // running countdown that reached zero

	// Progress bar gradient
	ProgressFrom  string
	ProgressTo    string
	ProgressEmpty string

	// Help line
	HelpKey  string
	HelpDesc string
}

var (
	mu       sync.RWMutex
	registry = map[string]Theme{}
)

func init() {
	thRegisterBuiltins()
}

// Get returns a named theme, falling back to Default if not found.
func Get(name string) Theme {
	mu.RLock()
	defer mu.RUnlock()
	if t, ok := registry[strings.ToLower(name)]; ok {
		return t
	}
	return registry["default"]
}

// Has reports whether a theme with the given name is registered.
func Has(name string) bool {
	mu.RLock()
	defer mu.RUnlock()
	_, ok := registry[strings.ToLower(name)]
	return ok
}

// Names returns all available theme names sorted alphabetically.
func Names() []string {
	mu.RLock()
	defer mu.RUnlock()
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Register adds or replaces a theme, e.g. one read with LoadFromTOML.
func Register(t Theme) {
	mu.Lock()
	defer mu.Unlock()
	registry[strings.ToLower(t.Name)] = t
}
