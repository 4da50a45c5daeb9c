// Package layercontract parses the YAML layer contract consumed by
// "grimpctl check layers".
package layercontract

import (
	"os"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// LevelSpec is one YAML-authored rank in the layer stack. Layers
// lists sibling module names at this rank, top of the file is the
// highest (most dependent) level.
type LevelSpec struct {
	Layers      []string `yaml:"layers"`
	Independent bool     `yaml:"independent"`
	Closed      bool     `yaml:"closed"`
}

// Contract is the top-level document: one ordered list of levels for
// a given root package.
type Contract struct {
	RootPackage string      `yaml:"root_package"`
	Levels      []LevelSpec `yaml:"levels"`
}

// Load reads and parses a layer contract file.
func Load(path string) (Contract, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Contract{}, errors.Wrapf(err, "read layer contract %s", path)
	}
	var c Contract
	if err := yaml.Unmarshal(data, &c); err != nil {
		return Contract{}, errors.Wrapf(err, "parse layer contract %s", path)
	}
	return c, nil
}
