package scene

import "testing"

func TestParseNameSuffixSplit(t *testing.T) {
	cases := []struct {
		in     string
		base   string
		suffix int32
		has    bool
	}{
		{"Chair", "Chair", 0, false},
		{"Chair_5", "Chair", 5, true},
		{"Chair_0", "Chair", 0, true},
		{"Wall_Section_12", "Wall_Section", 12, true},
		{"Chair_", "Chair_", 0, false},
		{"_5", "_5", 0, false},
		{"Chair_05", "Chair_05", 0, false},
		{"Chair_5a", "Chair_5a", 0, false},
	}
	for _, tc := range cases {
		n := ParseName(tc.in)
		if n.Base() != tc.base {
			t.Fatalf("ParseName(%q) base=%q want=%q", tc.in, n.Base(), tc.base)
		}
		suffix, has := n.Suffix()
		if has != tc.has || (has && suffix != tc.suffix) {
			t.Fatalf("ParseName(%q) suffix=%d,%v want=%d,%v", tc.in, suffix, has, tc.suffix, tc.has)
		}
	}
}

func TestObjectNameStringRoundTrip(t *testing.T) {
	cases := []string{"Chair", "Chair_5", "Chair_0", "Chair_05", "Wall_Section_12", "x"}
	for _, tc := range cases {
		if got := ParseName(tc).String(); got != tc {
			t.Fatalf("round trip %q -> %q", tc, got)
		}
	}
}

func TestBumpFollowsHostNumbering(t *testing.T) {
	n := ParseName("Chair")
	n = n.Bump()
	if n.String() != "Chair_0" {
		t.Fatalf("first bump of suffix-less name: got %q want Chair_0", n)
	}
	n = n.Bump()
	if n.String() != "Chair_1" {
		t.Fatalf("second bump: got %q want Chair_1", n)
	}
	if got := ParseName("Chair_5").Bump().String(); got != "Chair_6" {
		t.Fatalf("bump Chair_5: got %q want Chair_6", got)
	}
}

func TestNoneSentinel(t *testing.T) {
	var zero ObjectName
	if !zero.IsNone() || zero.String() != NoneString {
		t.Fatalf("zero value should render as None, got %q", zero)
	}
	for _, tc := range []string{"", "None", "none", "NONE"} {
		if !ParseName(tc).IsNone() {
			t.Fatalf("ParseName(%q) should be the none sentinel", tc)
		}
	}
	if ParseName("None_2").IsNone() {
		t.Fatalf("a suffixed None is a real identifier, not the sentinel")
	}
	if got := zero.Bump(); !got.IsNone() {
		t.Fatalf("bumping none should stay none, got %q", got)
	}
}

func TestEqualIgnoresCase(t *testing.T) {
	if !ParseName("Chair_3").Equal(ParseName("chair_3")) {
		t.Fatalf("identifier comparison must ignore case")
	}
	if ParseName("Chair_3").Equal(ParseName("Chair_4")) {
		t.Fatalf("different suffixes must not compare equal")
	}
	if ParseName("Chair").Key() != "chair" {
		t.Fatalf("Key should lower-case the rendering")
	}
}

func TestNewNumberedName(t *testing.T) {
	if got := NewNumberedName("Chair", 7).String(); got != "Chair_7" {
		t.Fatalf("got %q want Chair_7", got)
	}
	if got := NewNumberedName("Chair", -1).String(); got != "Chair" {
		t.Fatalf("negative suffix means none, got %q", got)
	}
}
