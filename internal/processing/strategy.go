package processing

import (
	"fmt"
	"image"
	"sort"
	"strings"

	"github.com/iankonradjohnson/BatchImageProcessor/internal/config"
	"github.com/iankonradjohnson/BatchImageProcessor/internal/regions"
)

// Strategy renders one region class.
type Strategy interface {
	// Name returns the registered strategy name.
	Name() string

	// Process returns a copy of g in which the selected pixels were
	// rendered by the strategy. Unselected pixels are passed through
	// unchanged. The selection mask dimensions must match the image.
	Process(g *image.Gray, sel *regions.Mask) (*image.Gray, error)
}

// Factory builds a configured strategy.
type Factory func(cfg *config.Processing) (Strategy, error)

var registry = map[string]Factory{}

// Register adds a strategy factory under a unique name. It panics on a
// duplicate name, which indicates conflicting init registrations.
func Register(name string, f Factory) {
	if _, ok := registry[name]; ok {
		panic(fmt.Sprintf("processing: strategy %q registered twice", name))
	}
	registry[name] = f
}

// New builds the named strategy from the processing configuration.
func New(name string, cfg *config.Processing) (Strategy, error) {
	f, ok := registry[name]
	if !ok {
		return nil, fmt.Errorf("unknown processing strategy %q (registered: %s)",
			name, strings.Join(Names(), ", "))
	}
	return f(cfg)
}

// Names returns the registered strategy names, sorted.
func Names() []string {
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// checkSelection verifies the selection mask matches the image size.
func checkSelection(g *image.Gray, sel *regions.Mask) error {
	if sel == nil {
		return fmt.Errorf("selection mask is nil")
	}
	b := g.Bounds()
	if sel.W != b.Dx() || sel.H != b.Dy() {
		return fmt.Errorf("selection %dx%d does not match image %dx%d",
			sel.W, sel.H, b.Dx(), b.Dy())
	}
	return nil
}

// cloneGray deep-copies a grayscale image.
func cloneGray(g *image.Gray) *image.Gray {
	out := image.NewGray(g.Bounds())
	copy(out.Pix, g.Pix)
	return out
}
