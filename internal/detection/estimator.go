package detection

import (
	"fmt"
	"image"
	"sort"
	"sync"

	"gopkg.in/yaml.v3"
)

// Estimator produces a per-pixel continuous-tone probability map for a
// grayscale image. Implementations are immutable after construction and
// safe for concurrent use across images.
type Estimator interface {
	// Name returns the registry name the estimator was built under.
	Name() string

	// Estimate computes the probability map for g. The returned map has
	// the same dimensions as g.
	Estimate(g *image.Gray) (*Map, error)
}

// Factory builds an estimator from a deferred YAML options node. A nil or
// empty node selects the estimator's defaults.
type Factory func(opts *yaml.Node) (Estimator, error)

var (
	registryMu sync.RWMutex
	registry   = make(map[string]Factory)
)

// Register makes a factory available under name. Registering a duplicate
// name panics; built-in estimators register themselves in init.
func Register(name string, f Factory) {
	registryMu.Lock()
	defer registryMu.Unlock()
	if _, dup := registry[name]; dup {
		panic(fmt.Sprintf("detection: Register called twice for estimator %q", name))
	}
	registry[name] = f
}

// New builds the named estimator with the given options. An unknown name
// is a configuration error and lists the registered names.
func New(name string, opts *yaml.Node) (Estimator, error) {
	registryMu.RLock()
	f, ok := registry[name]
	registryMu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("unknown estimator %q (registered: %v)", name, Names())
	}
	est, err := f(opts)
	if err != nil {
		return nil, &Error{Estimator: name, Err: err}
	}
	return est, nil
}

// Names returns the registered estimator names in sorted order.
func Names() []string {
	registryMu.RLock()
	defer registryMu.RUnlock()
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// decodeOptions fills dst from a deferred YAML node, leaving dst untouched
// when the node is absent. dst arrives pre-populated with defaults.
func decodeOptions(opts *yaml.Node, dst interface{}) error {
	if opts == nil || opts.IsZero() {
		return nil
	}
	if err := opts.Decode(dst); err != nil {
		return fmt.Errorf("invalid options: %w", err)
	}
	return nil
}
