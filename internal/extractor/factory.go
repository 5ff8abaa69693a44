package extractor

import (
	"fmt"
	"sort"

	"rxlens/internal/config"
	"rxlens/internal/port"
)

// ProviderFactory is a function that creates a ModelExtractor from a provider config.
type ProviderFactory func(cfg *config.ProviderConfig) (port.ModelExtractor, error)

// registry of extractor provider factories, populated by init() in each
// provider package or explicitly via RegisterProvider.
var providers = map[string]ProviderFactory{}

// RegisterProvider registers an extractor provider factory by name.
func RegisterProvider(name string, factory ProviderFactory) {
	providers[name] = factory
}

// New creates a ModelExtractor for the named provider using the registered factory.
func New(name string, cfg *config.ProviderConfig) (port.ModelExtractor, error) {
	factory, ok := providers[name]
	if !ok {
		return nil, fmt.Errorf("unknown extractor provider: %s", name)
	}
	return factory(cfg)
}

// Registered returns the registered provider names in sorted order.
func Registered() []string {
	names := make([]string, 0, len(providers))
	for name := range providers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
