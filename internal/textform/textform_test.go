package textform

import "testing"

func TestParseListKeepsEmptySegments(t *testing.T) {
	got := ParseList("[a,b,,d]")
	want := []string{"a", "b", "", "d"}
	if len(got) != len(want) {
		t.Fatalf("len=%d want=%d (%q)", len(got), len(want), got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("element %d: %q want %q", i, got[i], want[i])
		}
	}
}

func TestParseListEdges(t *testing.T) {
	if got := ParseList("[]"); len(got) != 0 {
		t.Fatalf("empty body should yield nothing, got %q", got)
	}
	if got := ParseList("[only]"); len(got) != 1 || got[0] != "only" {
		t.Fatalf("single element list: %q", got)
	}
	if got := ParseList("a,b"); len(got) != 2 {
		t.Fatalf("brackets are optional, got %q", got)
	}
}

func TestFindMarker(t *testing.T) {
	tr, ok := FindMarker("move T=(10 -20.5 3e2) done", "T=")
	if !ok {
		t.Fatalf("marker not found")
	}
	if tr != (Triple{10, -20.5, 300}) {
		t.Fatalf("unexpected payload: %v", tr)
	}
	if _, ok := FindMarker("T=( 1  2   3 )", "T="); !ok {
		t.Fatalf("extra payload whitespace should be accepted")
	}
}

func TestFindMarkerOrderIrrelevant(t *testing.T) {
	text := "S=(2 2 2) R=(0 90 0) T=(1 2 3)"
	for _, tc := range []struct {
		marker string
		want   Triple
	}{
		{"T=", Triple{1, 2, 3}},
		{"R=", Triple{0, 90, 0}},
		{"S=", Triple{2, 2, 2}},
	} {
		got, ok := FindMarker(text, tc.marker)
		if !ok || got != tc.want {
			t.Fatalf("marker %q: got %v,%v want %v", tc.marker, got, ok, tc.want)
		}
	}
}

func TestFindMarkerMalformedCountsAsAbsent(t *testing.T) {
	cases := []string{
		"no markers here",
		"T=1 2 3)",
		"T=(1 2 3",
		"T=(1 2)",
		"T=(1 2 3 4)",
		"T=(1 2 x)",
		"T = (1 2 3)",
	}
	for _, tc := range cases {
		if _, ok := FindMarker(tc, "T="); ok {
			t.Fatalf("expected absent marker for %q", tc)
		}
	}
}
