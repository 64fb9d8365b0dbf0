package scene

import "github.com/go-gl/mathgl/mgl64"

// Rotator is the host's editor-facing rotation: pitch, yaw and roll in
// degrees, in the order the host's own tooling displays them.
type Rotator struct {
	Pitch float64
	Yaw   float64
	Roll  float64
}

// Transform is an object's pose relative to its attachment parent. The bridge
// only ever reads and writes relative values; pushing world-space values onto
// parented objects makes them jump.
type Transform struct {
	Location mgl64.Vec3
	Rotation Rotator
	Scale    mgl64.Vec3
}

// IdentityTransform is the pose new objects start from.
func IdentityTransform() Transform {
	return Transform{Scale: mgl64.Vec3{1, 1, 1}}
}
