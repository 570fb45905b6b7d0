package config

import (
	"os"
	"path/filepath"

	toml "github.com/pelletier/go-toml/v2"
)

// ManifestDefaults is the optional [zerv] table read out of a project's
// own manifest (Cargo.toml, pyproject.toml) when --directory is given and
// neither --schema nor --schema-ron was supplied on the command line.
type ManifestDefaults struct {
	Schema string `toml:"schema"`
	Major  *uint64
	Minor  *uint64
	Patch  *uint64
}

type zervTable struct {
	Schema string `toml:"schema"`
	Major  *uint64 `toml:"major"`
	Minor  *uint64 `toml:"minor"`
	Patch  *uint64 `toml:"patch"`
}

// manifestCandidates is tried in order inside dir; the first that exists
// and parses wins.
var manifestCandidates = []string{"pyproject.toml", "Cargo.toml", "zerv.toml"}

// LoadManifestDefaults looks for a [zerv] table inside dir's manifest
// file, returning (nil, nil) if no manifest or no [zerv] table is found.
func LoadManifestDefaults(dir string) (*ManifestDefaults, error) {
	for _, name := range manifestCandidates {
		path := filepath.Join(dir, name)
		data, err := os.ReadFile(path)
		if err != nil {
			continue
		}

		var doc struct {
			Zerv *zervTable `toml:"zerv"`
		}
		if err := toml.Unmarshal(data, &doc); err != nil {
			continue
		}
		if doc.Zerv == nil {
			continue
		}
		return &ManifestDefaults{
			Schema: doc.Zerv.Schema,
			Major:  doc.Zerv.Major,
			Minor:  doc.Zerv.Minor,
			Patch:  doc.Zerv.Patch,
		}, nil
	}
	return nil, nil
}
