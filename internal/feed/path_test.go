package feed

import "testing"

func sampleTree() *Node {
	return Map(map[string]*Node{
		"rss": Map(map[string]*Node{
			"channel": Map(map[string]*Node{
				"title": Scalar("Catalog"),
				"item": List(
					Map(map[string]*Node{
						"name":  Scalar("Drone A"),
						"price": CharData("2999 TRY", map[string]*Node{"@currency": Scalar("TRY")}),
					}),
					Map(map[string]*Node{
						"name": Scalar("Drone B"),
					}),
				),
			}),
		}),
	})
}

func TestLookup(t *testing.T) {
	root := sampleTree()

	testCases := []struct {
		name string
		path string
		want string
		ok   bool
	}{
		{name: "nested scalar", path: "rss.channel.title", want: "Catalog", ok: true},
		{name: "list index", path: "rss.channel.item.0.name", want: "Drone A", ok: true},
		{name: "second item", path: "rss.channel.item.1.name", want: "Drone B", ok: true},
		{name: "chardata unwraps", path: "rss.channel.item.0.price", want: "2999 TRY", ok: true},
		{name: "attribute of chardata", path: "rss.channel.item.0.price.@currency", want: "TRY", ok: true},
		{name: "missing key", path: "rss.channel.nope", ok: false},
		{name: "missing intermediate", path: "rss.nothere.title", ok: false},
		{name: "index out of range", path: "rss.channel.item.9.name", ok: false},
		{name: "non-numeric index into list", path: "rss.channel.item.first", ok: false},
		{name: "descend into scalar", path: "rss.channel.title.deeper", ok: false},
		{name: "empty path", path: "", ok: false},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got, ok := LookupText(root, tc.path)
			if ok != tc.ok {
				t.Fatalf("LookupText(%q) ok = %v, want %v", tc.path, ok, tc.ok)
			}
			if ok && got != tc.want {
				t.Errorf("LookupText(%q) = %q, want %q", tc.path, got, tc.want)
			}
		})
	}
}

func TestLookupNeverPanicsOnAbsent(t *testing.T) {
	// Absence is a representable outcome, not a failure.
	if n := Lookup(nil, "a.b"); !n.IsAbsent() {
		t.Errorf("Lookup on nil root should be absent")
	}
	if n := Lookup(Absent, "a"); !n.IsAbsent() {
		t.Errorf("Lookup on absent node should be absent")
	}
}

func TestItemsCoercion(t *testing.T) {
	single := Map(map[string]*Node{"name": Scalar("only")})
	items, ok := single.Items()
	if !ok || len(items) != 1 {
		t.Fatalf("Single map should coerce to one-element list: ok=%v, len=%d", ok, len(items))
	}

	if _, ok := Absent.Items(); ok {
		t.Errorf("Absent node must not coerce to a list")
	}
}
