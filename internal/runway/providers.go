package runway

import "fmt"

// ConfigurationByName resolves one of the canonical configurations by its
// name (e.g. "19 SPO").
func ConfigurationByName(name string) (Configuration, error) {
	for _, cfg := range Configurations() {
		if cfg.Name == name {
			return cfg, nil
		}
	}
	return Configuration{}, fmt.Errorf("unknown runway configuration %q", name)
}

// StaticProvider resolves every manual selection to one fixed named
// configuration. Used in non-interactive (server) mode.
type StaticProvider struct {
	ConfigurationName string
}

// ResolveConfiguration implements DecisionProvider.
func (p StaticProvider) ResolveConfiguration(string, []string) (Configuration, error) {
	return ConfigurationByName(p.ConfigurationName)
}
