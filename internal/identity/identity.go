// Package identity keeps external-tool object names and host identifiers in
// agreement. The external tool treats names as unique handles; the host
// splits them into a unique internal identifier and a free-form display
// label. Everything here exists to force those two views back together after
// every operation, without ever aborting the host on a bad name.
package identity

import (
	"strings"

	"github.com/go-gl/mathgl/mgl64"

	"stagelink.dev/internal/scene"
)

// GeneratedName is the reserved fallback base assigned when a candidate
// sanitizes to nothing usable. The host's own "no name" rendering cannot be
// round-tripped through the external tool, so it gets the same substitute.
const GeneratedName = "stagelinkGeneratedName"

// Sanitize strips every character the host refuses in identifiers and
// substitutes GeneratedName when nothing usable remains, including when the
// stripped result collides with the host's "no name" rendering. It is a pure
// string transform; uniqueness is the caller's problem.
func Sanitize(candidate string) string {
	var b strings.Builder
	b.Grow(len(candidate))
	for _, r := range candidate {
		if !strings.ContainsRune(scene.ForbiddenNameChars, r) {
			b.WriteRune(r)
		}
	}
	out := b.String()
	if out == "" || strings.EqualFold(out, scene.NoneString) {
		return GeneratedName
	}
	return out
}

// Rename drives obj's identifier toward candidate and returns the identifier
// the object actually ends up with. The candidate is sanitized first; a
// candidate equal to the current identifier is a no-op beyond re-confirming
// the label. Feasibility is probed with a dry run so a refusal never
// half-applies, and after a commit the identifier is re-read from the object
// because the host may have normalized it. On every path that leaves the
// object renamed, the display label is set to the resulting identifier; when
// the host refuses, the label keeps its previous synced value.
func Rename(scope scene.Scope, obj scene.Object, candidate string) scene.ObjectName {
	want := scene.ParseName(Sanitize(candidate))
	cur := obj.Name()
	if cur.Equal(want) {
		obj.SetLabel(cur.String())
		return cur
	}
	if !obj.Rename(want, scope, true) {
		return cur
	}
	if !obj.Rename(want, scope, false) {
		return cur
	}
	got := obj.Name()
	obj.SetLabel(got.String())
	return got
}

// FreeName returns a sanitized identifier not currently in use within scope,
// found by stepping the candidate's numeric suffix the way the host numbers
// objects: "Chair_5" probes to "Chair_6", a taken suffix-less "Chair" starts
// at "Chair_0". Probing sees destroyed-but-unpurged objects, since their
// identifiers are still unavailable for creation. The scope offers no
// reservation, so the returned name can be claimed between this probe and a
// later create; creation paths handle that by accepting whatever identifier
// the host assigns.
func FreeName(scope scene.Scope, candidate string) scene.ObjectName {
	name := scene.ParseName(Sanitize(candidate))
	for scope.NameInUse(name) {
		name = name.Bump()
	}
	return name
}

// Spawn creates an object for the asset under the requested identifier and
// immediately labels it with the identifier the host really assigned. A none
// name is replaced with GeneratedName rather than letting the host invent
// something the external tool has never heard of.
func Spawn(scope scene.Scope, ref scene.AssetRef, name scene.ObjectName, at mgl64.Vec3) (scene.Object, error) {
	if name.IsNone() {
		name = scene.ParseName(GeneratedName)
	}
	obj, err := scope.CreateForAsset(ref, name, at)
	if err != nil {
		return nil, err
	}
	obj.SetLabel(obj.Name().String())
	return obj, nil
}
