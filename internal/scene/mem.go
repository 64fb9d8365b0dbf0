package scene

import (
	"fmt"
	"path"

	"github.com/go-gl/mathgl/mgl64"
)

// MemScope is the in-memory reference host used by the sandbox daemon, the
// replayer and the tests. It reproduces the host contract deterministically:
// identifiers are unique case-insensitive keys, renames refuse collisions and
// reserved names, and destroyed objects keep their identifier occupied until
// Purge. Like a real host it is single-threaded; callers serialize access.
type MemScope struct {
	id       string
	objects  map[string]*MemObject
	assets   map[string]string
	reserved map[string]struct{}
	modified int
}

func NewMemScope(id string) *MemScope {
	return &MemScope{
		id:       id,
		objects:  make(map[string]*MemObject),
		assets:   make(map[string]string),
		reserved: make(map[string]struct{}),
	}
}

func (s *MemScope) ID() string { return s.id }

// RegisterAsset makes an asset path spawnable. kind is free-form and only
// feeds the digest, standing in for whatever object class the host derives.
func (s *MemScope) RegisterAsset(assetPath, kind string) {
	s.assets[assetPath] = kind
}

// ReserveName marks an identifier the host refuses to assign, mimicking
// class names and other host-internal registrations.
func (s *MemScope) ReserveName(name string) {
	s.reserved[ParseName(name).Key()] = struct{}{}
}

func (s *MemScope) FindByName(name ObjectName) (Object, bool) {
	o, ok := s.objects[name.Key()]
	if !ok || o.destroyed {
		return nil, false
	}
	return o, true
}

func (s *MemScope) NameInUse(name ObjectName) bool {
	_, ok := s.objects[name.Key()]
	return ok
}

func (s *MemScope) CreateForAsset(ref AssetRef, name ObjectName, at mgl64.Vec3) (Object, error) {
	kind, ok := s.assets[ref.Path]
	if !ok {
		return nil, fmt.Errorf("create %q: %w", ref.Path, ErrAssetNotFound)
	}
	if name.IsNone() {
		name = ParseName(path.Base(ref.Path))
	}
	// Hosts keep the spawn alive on collision by picking the next free
	// number themselves, so the requested identifier is best-effort.
	for s.NameInUse(name) {
		name = name.Bump()
	}
	// Fresh objects get a class-derived label, not the identifier.
	o := &MemObject{
		scope:        s,
		name:         name,
		label:        path.Base(ref.Path),
		asset:        ref,
		kind:         kind,
		xform:        Transform{Location: at, Scale: mgl64.Vec3{1, 1, 1}},
		SubobjectsOK: true,
	}
	s.objects[name.Key()] = o
	return o, nil
}

// Destroy marks obj destroyed. Its identifier stays occupied until Purge,
// matching hosts that defer actual deletion.
func (s *MemScope) Destroy(obj Object) bool {
	o, ok := obj.(*MemObject)
	if !ok || o.scope != s || o.destroyed {
		return false
	}
	o.destroyed = true
	return true
}

// Purge drops destroyed objects and frees their identifiers, the way a host
// garbage pass would. It returns how many entries were released.
func (s *MemScope) Purge() int {
	n := 0
	for k, o := range s.objects {
		if o.destroyed {
			delete(s.objects, k)
			n++
		}
	}
	return n
}

// Len counts live objects.
func (s *MemScope) Len() int {
	n := 0
	for _, o := range s.objects {
		if !o.destroyed {
			n++
		}
	}
	return n
}

// ModifiedMarks counts MarkContainerModified calls across all objects.
func (s *MemScope) ModifiedMarks() int { return s.modified }

// MemObject is MemScope's object handle. The exported counters record host
// bookkeeping calls so tests can assert the side effects contractually tied
// to transform application.
type MemObject struct {
	scope     *MemScope
	name      ObjectName
	label     string
	asset     AssetRef
	kind      string
	xform     Transform
	destroyed bool

	Invalidations   int
	MoveNotices     int
	SubobjectChecks int
	SubobjectsOK    bool
}

func (o *MemObject) Name() ObjectName { return o.name }

func (o *MemObject) Rename(name ObjectName, in Scope, dryRun bool) bool {
	ms, ok := in.(*MemScope)
	if !ok || ms != o.scope {
		return false
	}
	if o.destroyed || name.IsNone() {
		return false
	}
	if o.name.Equal(name) {
		return true
	}
	if _, reserved := o.scope.reserved[name.Key()]; reserved {
		return false
	}
	if o.scope.NameInUse(name) {
		return false
	}
	if dryRun {
		return true
	}
	delete(o.scope.objects, o.name.Key())
	o.name = name
	o.scope.objects[name.Key()] = o
	return true
}

func (o *MemObject) Label() string        { return o.label }
func (o *MemObject) SetLabel(text string) { o.label = text }

func (o *MemObject) RelativeTransform() Transform { return o.xform }

func (o *MemObject) SetRelativeLocation(loc mgl64.Vec3) { o.xform.Location = loc }
func (o *MemObject) SetRelativeRotation(rot Rotator)    { o.xform.Rotation = rot }
func (o *MemObject) SetRelativeScale(scale mgl64.Vec3)  { o.xform.Scale = scale }

func (o *MemObject) InvalidateDerivedVisuals() { o.Invalidations++ }
func (o *MemObject) NotifyTransformChanged()   { o.MoveNotices++ }

func (o *MemObject) CheckDefaultSubobjects() bool {
	o.SubobjectChecks++
	return o.SubobjectsOK
}

func (o *MemObject) MarkContainerModified() { o.scope.modified++ }

func (o *MemObject) Valid() bool { return !o.destroyed }

// Asset returns the asset the object was spawned from.
func (o *MemObject) Asset() AssetRef { return o.asset }
