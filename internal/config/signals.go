package config

import (
	"os"

	"gopkg.in/yaml.v3"

	"github.com/forrestang/RenkoDiscovery/internal/errs"
)

// SignalDef names one entry predicate for the expression evaluator.
type SignalDef struct {
	Name       string `yaml:"name"`
	Expression string `yaml:"expression"`
}

// LoadSignals reads a YAML list of named predicates from path.
func LoadSignals(path string) ([]SignalDef, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errs.New(errs.InvalidConfig, "reading signals file %q: %v", path, err)
	}
	var defs []SignalDef
	if err := yaml.Unmarshal(data, &defs); err != nil {
		return nil, errs.New(errs.InvalidConfig, "parsing signals file %q: %v", path, err)
	}
	for _, d := range defs {
		if d.Name == "" {
			return nil, errs.New(errs.InvalidConfig, "signal entry missing a name")
		}
	}
	return defs, nil
}
