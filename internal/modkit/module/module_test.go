package module

import (
	"reflect"
	"testing"

	phttp "bazaar/internal/platform/net/http"
	"bazaar/internal/platform/testkit"
)

type counter interface{ Count() int }

type fixed int

func (f fixed) Count() int { return int(f) }

type stub struct {
	name  string
	ports any
}

func (s stub) MountRoutes(phttp.Router) {}
func (s stub) Ports() any               { return s.ports }
func (s stub) Name() string             { return s.name }

type bundle struct {
	Label   string
	Counter counter
	hidden  counter
}

func TestPortsOf(t *testing.T) {
	cases := []struct {
		name  string
		ports any
		want  int
		ok    bool
	}{
		{"nil ports", nil, 0, false},
		{"direct", fixed(3), 3, true},
		{"struct field", bundle{Label: "x", Counter: fixed(5)}, 5, true},
		{"pointer to struct", &bundle{Counter: fixed(9)}, 9, true},
		{"unexported only", bundle{hidden: fixed(1)}, 0, false},
		{"nil pointer", (*bundle)(nil), 0, false},
		{"wrong type", "tally", 0, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, ok := PortsOf[counter](stub{name: "m", ports: tc.ports})
			if ok != tc.ok {
				t.Fatalf("ok = %v, want %v", ok, tc.ok)
			}
			if ok && got.Count() != tc.want {
				t.Fatalf("count = %d, want %d", got.Count(), tc.want)
			}
		})
	}
}

func TestPortsOf_NilModule(t *testing.T) {
	if _, ok := PortsOf[counter](nil); ok {
		t.Fatal("nil module yielded a port")
	}
}

func TestMustPortsOf(t *testing.T) {
	if got := MustPortsOf[counter](stub{ports: bundle{Counter: fixed(2)}}); got.Count() != 2 {
		t.Fatalf("count = %d", got.Count())
	}
	testkit.MustPanic(t, func() { MustPortsOf[counter](stub{name: "feed"}) })
}

func TestRegistry(t *testing.T) {
	Reset()
	t.Cleanup(Reset)

	Register("tally", fixed(4))
	Register("feed", bundle{})

	if got, ok := PortsAs[counter]("tally"); !ok || got.Count() != 4 {
		t.Fatalf("PortsAs tally = %v %v", got, ok)
	}
	if _, ok := PortsAs[counter]("feed"); ok {
		t.Fatal("bundle is not a counter")
	}
	if _, ok := PortsAs[counter]("missing"); ok {
		t.Fatal("missing name resolved")
	}
	if got := Names(); !reflect.DeepEqual(got, []string{"feed", "tally"}) {
		t.Fatalf("Names = %v", got)
	}
}
