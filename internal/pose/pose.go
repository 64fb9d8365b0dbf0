// Package pose turns transform-text fragments into partial pose updates and
// applies them to host objects. Commands carry an optional tail like
// "T=(0 0 120) R=(0 90 0) S=(1 1 2)"; whichever markers are present update
// exactly those parts of the object's relative transform.
package pose

import (
	"github.com/go-gl/mathgl/mgl64"

	"stagelink.dev/internal/scene"
	"stagelink.dev/internal/textform"
)

// Patch is a partial pose update. Nil fields were not mentioned and must not
// be touched. Rotation payloads are pitch/yaw/roll in degrees; locations and
// scales are plain three-vectors in host units.
type Patch struct {
	Location *mgl64.Vec3
	Rotation *scene.Rotator
	Scale    *mgl64.Vec3
}

// Empty reports whether the patch changes nothing.
func (p Patch) Empty() bool {
	return p.Location == nil && p.Rotation == nil && p.Scale == nil
}

// Decode extracts the optional T=, R= and S= markers from text. Markers may
// appear in any order; each is decoded independently, so a malformed or
// absent marker leaves its field nil without disturbing the others.
func Decode(text string) Patch {
	var p Patch
	if tr, ok := textform.FindMarker(text, "T="); ok {
		loc := mgl64.Vec3{tr[0], tr[1], tr[2]}
		p.Location = &loc
	}
	if tr, ok := textform.FindMarker(text, "R="); ok {
		rot := scene.Rotator{Pitch: tr[0], Yaw: tr[1], Roll: tr[2]}
		p.Rotation = &rot
	}
	if tr, ok := textform.FindMarker(text, "S="); ok {
		scale := mgl64.Vec3{tr[0], tr[1], tr[2]}
		p.Scale = &scale
	}
	return p
}

// Apply writes the present fields onto obj's relative transform, then runs
// the host's post-change bookkeeping: derived visuals are invalidated, the
// move notification fires, default subobjects are checked and the owning
// container is marked dirty. The bookkeeping runs even when the patch is
// empty; external tools rely on a marker-less update still counting as a
// touch.
func Apply(obj scene.Object, p Patch) {
	if p.Location != nil {
		obj.SetRelativeLocation(*p.Location)
	}
	if p.Rotation != nil {
		obj.SetRelativeRotation(*p.Rotation)
	}
	if p.Scale != nil {
		obj.SetRelativeScale(*p.Scale)
	}
	obj.InvalidateDerivedVisuals()
	obj.NotifyTransformChanged()
	obj.CheckDefaultSubobjects()
	obj.MarkContainerModified()
}

// ApplyText decodes text and applies the result in one step.
func ApplyText(obj scene.Object, text string) {
	Apply(obj, Decode(text))
}
