package config

import "sort"

// Presets are named variations of the default configuration.
var Presets = map[string]func(*Config){
	"fibonacci": func(c *Config) {},
	"vacuum": func(c *Config) {
		c.Sources.Zero = true
	},
	"quick": func(c *Config) {
		c.Run.Steps = 500
		c.Run.Stride = 25
	},
	"weak": func(c *Config) {
		c.Params.Scaling = 1e-20
	},
	"uniform": func(c *Config) {
		c.Domain.Uniform = true
		c.Domain.FibTerms = 64
		c.Sources.Zero = true
	},
}

func GetPreset(name string) *Config {
	apply, ok := Presets[name]
	if !ok {
		return nil
	}
	cfg := DefaultConfig()
	cfg.Name = name
	apply(cfg)
	return cfg
}

func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
