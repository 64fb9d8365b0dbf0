package pose

import (
	"testing"

	"github.com/go-gl/mathgl/mgl64"

	"stagelink.dev/internal/scene"
)

func testObject(t *testing.T) *scene.MemObject {
	t.Helper()
	s := scene.NewMemScope("PersistentLevel")
	s.RegisterAsset("/Stage/Props/SM_Chair", "StaticMesh")
	obj, err := s.CreateForAsset(scene.AssetRef{Path: "/Stage/Props/SM_Chair"}, scene.ParseName("Chair"), mgl64.Vec3{})
	if err != nil {
		t.Fatalf("CreateForAsset: %v", err)
	}
	return obj.(*scene.MemObject)
}

func TestDecodeFieldsIndependent(t *testing.T) {
	p := Decode("S=(1 1 2)")
	if p.Location != nil || p.Rotation != nil {
		t.Fatalf("only the scale marker was given: %+v", p)
	}
	if p.Scale == nil || *p.Scale != (mgl64.Vec3{1, 1, 2}) {
		t.Fatalf("scale not decoded: %+v", p.Scale)
	}
}

func TestDecodeOrderIndependent(t *testing.T) {
	a := Decode("T=(1 2 3) R=(10 20 30) S=(2 2 2)")
	b := Decode("S=(2 2 2) T=(1 2 3) R=(10 20 30)")
	if *a.Location != *b.Location || *a.Rotation != *b.Rotation || *a.Scale != *b.Scale {
		t.Fatalf("marker order must not matter:\n%+v\n%+v", a, b)
	}
	if a.Rotation.Pitch != 10 || a.Rotation.Yaw != 20 || a.Rotation.Roll != 30 {
		t.Fatalf("rotation components out of order: %+v", a.Rotation)
	}
}

func TestDecodeNoMarkers(t *testing.T) {
	for _, tc := range []string{"", "nothing here", "T=(broken"} {
		if p := Decode(tc); !p.Empty() {
			t.Fatalf("Decode(%q) should be empty, got %+v", tc, p)
		}
	}
}

func TestApplyOnlyTouchesPresentFields(t *testing.T) {
	obj := testObject(t)
	obj.SetRelativeLocation(mgl64.Vec3{5, 5, 5})
	ApplyText(obj, "S=(1 1 2)")
	x := obj.RelativeTransform()
	if x.Location != (mgl64.Vec3{5, 5, 5}) {
		t.Fatalf("location must survive a scale-only update: %v", x.Location)
	}
	if x.Scale != (mgl64.Vec3{1, 1, 2}) {
		t.Fatalf("scale=%v want (1 1 2)", x.Scale)
	}
}

func TestApplyFullTransform(t *testing.T) {
	obj := testObject(t)
	ApplyText(obj, "T=(0 0 120) R=(0 90 0) S=(1 1 2)")
	x := obj.RelativeTransform()
	if x.Location != (mgl64.Vec3{0, 0, 120}) {
		t.Fatalf("location=%v", x.Location)
	}
	if x.Rotation != (scene.Rotator{Pitch: 0, Yaw: 90, Roll: 0}) {
		t.Fatalf("rotation=%+v", x.Rotation)
	}
	if x.Scale != (mgl64.Vec3{1, 1, 2}) {
		t.Fatalf("scale=%v", x.Scale)
	}
}

func TestApplyRunsHostBookkeepingUnconditionally(t *testing.T) {
	obj := testObject(t)
	before := obj.RelativeTransform()
	ApplyText(obj, "no markers in this text")
	if obj.RelativeTransform() != before {
		t.Fatalf("marker-less text must not change the transform")
	}
	if obj.Invalidations != 1 || obj.MoveNotices != 1 || obj.SubobjectChecks != 1 {
		t.Fatalf("bookkeeping must run even without markers: %d %d %d",
			obj.Invalidations, obj.MoveNotices, obj.SubobjectChecks)
	}
	ApplyText(obj, "T=(1 2 3)")
	if obj.Invalidations != 2 || obj.MoveNotices != 2 || obj.SubobjectChecks != 2 {
		t.Fatalf("bookkeeping must run once per update: %d %d %d",
			obj.Invalidations, obj.MoveNotices, obj.SubobjectChecks)
	}
}
