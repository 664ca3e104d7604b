package sources

import (
	"fmt"
	"sort"

	"powerts/internal"
	"powerts/ports"
)

// Registry maps configured source names to their parsers.
type Registry struct {
	parsers map[string]ports.SourceParser
}

// NewRegistry builds the registry with every known source wired up.
func NewRegistry(log *internal.Logger) *Registry {
	return &Registry{parsers: map[string]ports.SourceParser{
		"ENTSO-E Data Portal":  NewENTSOE(log),
		"ENTSO-E Transparency": NewAggregated(log),
		"50Hertz":              NewHertz(log),
		"Amprion":              NewAmprion(log),
		"TenneT":               NewTenneT(log),
		"TransnetBW":           NewTransnetBW(log),
		"OPSD":                 NewCapacities(log),
		"Svenska_Kraftnaet":    NewSvenskaKraftnaet(log),
		"PSE":                  NewPSE(log),
		"CEPS":                 NewCEPS(log),
		"Elia":                 NewElia(log),
	}}
}

// Lookup returns the parser for the named source.
func (r *Registry) Lookup(source string) (ports.SourceParser, error) {
	p, ok := r.parsers[source]
	if !ok {
		return nil, fmt.Errorf("no parser registered for source %q", source)
	}
	return p, nil
}

// Sources lists the registered source names, sorted for stable logs.
func (r *Registry) Sources() []string {
	names := make([]string, 0, len(r.parsers))
	for name := range r.parsers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
