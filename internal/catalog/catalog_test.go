package catalog

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

func writeTable(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "assets.json")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	return path
}

func TestLoadAndResolve(t *testing.T) {
	path := writeTable(t, `[
		{"name":"SM_Chair","path":"/Stage/Props/SM_Chair","kind":"StaticMesh"},
		{"name":"SM_Table","path":"/Stage/Props/SM_Table"}
	]`)
	tab, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if tab.Len() != 2 {
		t.Fatalf("Len=%d want 2", tab.Len())
	}
	ref, ok := tab.Resolve("SM_Chair")
	if !ok || ref.Path != "/Stage/Props/SM_Chair" {
		t.Fatalf("Resolve: %v %v", ref, ok)
	}
	if _, ok := tab.Resolve("SM_Sofa"); ok {
		t.Fatalf("unknown asset must not resolve")
	}
	if len(tab.Names) != 2 || tab.Names[0] != "SM_Chair" {
		t.Fatalf("palette mismatch: %v", tab.Names)
	}
	if tab.DefsDigest == "" || tab.NamesDigest == "" {
		t.Fatalf("digests must be set")
	}
}

func TestLoadDigestsCanonicalizeNames(t *testing.T) {
	a, err := Load(writeTable(t, `[{"name":"A","path":"/Stage/A"},{"name":"B","path":"/Stage/B"}]`))
	if err != nil {
		t.Fatalf("Load a: %v", err)
	}
	b, err := Load(writeTable(t, `[{"name":"B","path":"/Stage/B"},{"name":"A","path":"/Stage/A"}]`))
	if err != nil {
		t.Fatalf("Load b: %v", err)
	}
	if a.NamesDigest != b.NamesDigest {
		t.Fatalf("palette digest must not depend on file order")
	}
	if a.DefsDigest == b.DefsDigest {
		t.Fatalf("raw digest tracks the bytes on disk")
	}
}

func TestLoadRejectsBadTables(t *testing.T) {
	cases := []struct {
		body string
		want string
	}{
		{`[{"name":"","path":"/Stage/A"}]`, "empty asset name"},
		{`[{"name":"A","path":"Stage/A"}]`, "absolute"},
		{`[{"name":"A","path":"/Stage/A"},{"name":"A","path":"/Stage/B"}]`, "duplicate"},
		{`{"name":"A"}`, "cannot unmarshal"},
	}
	for _, tc := range cases {
		_, err := Load(writeTable(t, tc.body))
		if err == nil || !strings.Contains(err.Error(), tc.want) {
			t.Fatalf("body %s: want error containing %q, got %v", tc.body, tc.want, err)
		}
	}
	if _, err := Load(filepath.Join(t.TempDir(), "missing.json")); err == nil {
		t.Fatalf("missing file must error")
	}
}

func TestShippedAssetTableMatchesSchema(t *testing.T) {
	schema, err := jsonschema.Compile(filepath.Join("..", "..", "schemas", "asset-table.schema.json"))
	if err != nil {
		t.Fatalf("compile schema: %v", err)
	}
	raw, err := os.ReadFile(filepath.Join("..", "..", "configs", "assets.json"))
	if err != nil {
		t.Fatalf("read shipped table: %v", err)
	}
	var v any
	if err := json.Unmarshal(raw, &v); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if err := schema.Validate(v); err != nil {
		t.Fatalf("shipped table does not match schema: %v", err)
	}
	if _, err := Load(filepath.Join("..", "..", "configs", "assets.json")); err != nil {
		t.Fatalf("shipped table must load: %v", err)
	}
}
