package scene

import "github.com/go-gl/mathgl/mgl64"

// AssetRef identifies a host asset by its content path, e.g.
// "/Stage/Props/SM_Chair". What the asset spawns is the host's business.
type AssetRef struct {
	Path string
}

// Object is a handle to one editor object. Implementations are editor-side
// objects whose methods run on the host's single editing thread; nothing here
// is safe for concurrent use.
type Object interface {
	// Name returns the current internal identifier.
	Name() ObjectName

	// Rename asks the host to assign name within in. With dryRun set the host
	// only answers feasibility and changes nothing. The host refuses
	// collisions and reserved names, and may normalize the identifier it
	// actually commits, so callers re-query Name after a commit instead of
	// trusting the requested value.
	Rename(name ObjectName, in Scope, dryRun bool) bool

	// Label returns the user-visible display label. Unlike the identifier it
	// is neither unique nor character-restricted.
	Label() string
	SetLabel(text string)

	RelativeTransform() Transform
	SetRelativeLocation(loc mgl64.Vec3)
	SetRelativeRotation(rot Rotator)
	SetRelativeScale(scale mgl64.Vec3)

	// InvalidateDerivedVisuals drops cached visual state derived from the
	// transform, such as baked lighting.
	InvalidateDerivedVisuals()
	// NotifyTransformChanged runs the host's post-move processing so dependent
	// components pick up the new pose.
	NotifyTransformChanged()
	// CheckDefaultSubobjects reports whether the object's default
	// sub-components are still consistent.
	CheckDefaultSubobjects() bool
	// MarkContainerModified marks the owning persisted container dirty so the
	// host knows it needs saving.
	MarkContainerModified()

	// Valid reports whether the handle still resolves to a live object.
	Valid() bool
}

// Scope is the namespace identifiers are unique within: a level, a prefab
// container, or the host's global registry. Every operation that touches
// naming takes its scope explicitly; there is no ambient "current scope".
type Scope interface {
	// ID names the scope for journals and logs.
	ID() string

	// FindByName resolves a live object. Objects the host has destroyed or
	// invalidated report as not found even while their identifier lingers.
	FindByName(name ObjectName) (Object, bool)

	// NameInUse reports whether any object occupies name, including destroyed
	// objects whose identifiers the host has not purged yet. Uniqueness
	// probing must see those, or a "free" name would collide on creation.
	NameInUse(name ObjectName) bool

	// CreateForAsset spawns whatever object the asset implies, under name at
	// the given location. The host may assign a different identifier when
	// name is unavailable. Unresolvable assets return ErrAssetNotFound and
	// leave no partial object behind.
	CreateForAsset(ref AssetRef, name ObjectName, at mgl64.Vec3) (Object, error)
}

// Destroyer is an optional Scope capability for hosts that let the bridge
// destroy objects. A destroyed object's identifier stays in use until the
// host purges it.
type Destroyer interface {
	Destroy(obj Object) bool
}

// Digester is an optional Scope capability: a deterministic digest over the
// scope's content, used by the journal and replay machinery to detect
// divergence.
type Digester interface {
	StateDigest() string
}
