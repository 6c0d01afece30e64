package flightvk

import (
	"github.com/pkg/errors"
)

// Capability is a named instance layer, instance extension or device extension.
// Missing required capabilities fail negotiation; missing optional ones are skipped.
type Capability struct {
	Name     string
	Required bool
}

func Required(names ...string) []Capability {
	caps := make([]Capability, len(names))
	for i, n := range names {
		caps[i] = Capability{Name: n, Required: true}
	}
	return caps
}

func Wanted(names ...string) []Capability {
	caps := make([]Capability, len(names))
	for i, n := range names {
		caps[i] = Capability{Name: n}
	}
	return caps
}

// Negotiate intersects requested with available. kind names the capability
// class in logs and errors ("layer", "instance extension", ...). Duplicates
// are enabled once; a name requested both ways counts as required.
func Negotiate(kind string, requested []Capability, available []string) ([]string, error) {
	have := make(map[string]bool, len(available))
	for _, name := range available {
		have[stripNul(name)] = true
	}

	required := make(map[string]bool, len(requested))
	for _, c := range requested {
		if c.Required {
			required[stripNul(c.Name)] = true
		}
	}

	var (
		enabled []string
		missing []string
		seen    = make(map[string]bool, len(requested))
	)
	for _, c := range requested {
		name := stripNul(c.Name)
		if seen[name] {
			continue
		}
		seen[name] = true
		switch {
		case have[name]:
			enabled = append(enabled, name)
		case required[name]:
			missing = append(missing, name)
		default:
			Logger().Warn("vulkan: optional capability not available", "kind", kind, "name", name)
		}
	}
	if len(missing) > 0 {
		return nil, errors.Wrapf(ErrMissingCapability, "%s %v", kind, missing)
	}
	Logger().Debug("vulkan: capabilities enabled", "kind", kind, "count", len(enabled))
	return enabled, nil
}
