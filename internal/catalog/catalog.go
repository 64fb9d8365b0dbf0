// Package catalog loads the asset table: the mapping from the names the
// external tool spawns by to host content paths. The table is versioned by
// digest so journals and ledgers can record which mapping a session ran
// against.
package catalog

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"sort"

	"stagelink.dev/internal/scene"
)

// Def maps one external-tool asset name to a host content path. Kind is
// free-form ("StaticMesh", "Blueprint", ...) and only informs tooling; the
// bridge spawns every asset the same way.
type Def struct {
	Name string `json:"name"`
	Path string `json:"path"`
	Kind string `json:"kind,omitempty"`
}

type Table struct {
	Defs map[string]Def
	// Names is the sorted palette of spawnable asset names.
	Names []string

	DefsDigest  string
	NamesDigest string
}

// Load reads an asset table JSON file (a flat array of defs).
func Load(path string) (*Table, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	t := &Table{DefsDigest: sha256Hex(raw)}

	var defs []Def
	if err := json.Unmarshal(raw, &defs); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	t.Defs = make(map[string]Def, len(defs))
	for _, d := range defs {
		if d.Name == "" {
			return nil, fmt.Errorf("%s: empty asset name", path)
		}
		if d.Path == "" || d.Path[0] != '/' {
			return nil, fmt.Errorf("%s: asset %q: path must be absolute, got %q", path, d.Name, d.Path)
		}
		if _, dup := t.Defs[d.Name]; dup {
			return nil, fmt.Errorf("%s: duplicate asset name %q", path, d.Name)
		}
		t.Defs[d.Name] = d
	}

	names := make([]string, 0, len(t.Defs))
	for name := range t.Defs {
		names = append(names, name)
	}
	sort.Strings(names)
	t.Names = names
	namesJSON, _ := json.Marshal(names)
	t.NamesDigest = sha256Hex(namesJSON)
	return t, nil
}

// Resolve looks an asset name up and returns the host reference to spawn.
func (t *Table) Resolve(name string) (scene.AssetRef, bool) {
	if t == nil {
		return scene.AssetRef{}, false
	}
	d, ok := t.Defs[name]
	if !ok {
		return scene.AssetRef{}, false
	}
	return scene.AssetRef{Path: d.Path}, true
}

func (t *Table) Len() int {
	if t == nil {
		return 0
	}
	return len(t.Defs)
}

func sha256Hex(b []byte) string {
	sum := sha256.Sum256(b)
	return hex.EncodeToString(sum[:])
}
