package hash

import (
	"testing"

	"github.com/pkg/errors"
)

type fnvTestCase struct {
	Input  string
	Seed   uint32
	Output uint32
}

// Reference values from the FNV-1a test vectors
var fnvGoldenTests = []fnvTestCase{
	{Input: "", Seed: fnvOffsetBasis, Output: 0x811c9dc5},
	{Input: "a", Seed: fnvOffsetBasis, Output: 0xe40c292c},
	{Input: "foobar", Seed: fnvOffsetBasis, Output: 0xbf9cf968},
	{Input: "", Seed: 0, Output: 0},
}

func TestFNV1a(t *testing.T) {
	for _, test := range fnvGoldenTests {
		if res := FNV1a([]byte(test.Input), test.Seed); res != test.Output {
			t.Errorf("failed on input (%q, %d), returned %#x but expected %#x", test.Input, test.Seed, res, test.Output)
		}
	}
}

type murmurTestCase struct {
	Input  string
	Seed   uint32
	Output uint32
}

// Reference values from the canonical MurmurHash3_x86_32 implementation
var murmurGoldenTests = []murmurTestCase{
	{Input: "", Seed: 0, Output: 0},
	{Input: "", Seed: 1, Output: 0x514e28b7},
	{Input: "test", Seed: 0, Output: 0xba6bd213},
	{Input: "Hello, world!", Seed: 1234, Output: 0xfaf6cdb3},
}

func TestMurmurHash3(t *testing.T) {
	for _, test := range murmurGoldenTests {
		if res := MurmurHash3([]byte(test.Input), test.Seed); res != test.Output {
			t.Errorf("failed on input (%q, %d), returned %#x but expected %#x", test.Input, test.Seed, res, test.Output)
		}
	}
}

var universalGoldenTests = []struct {
	Input  string
	Seed   uint32
	Output uint32
}{
	{Input: "", Seed: 0, Output: 0},
	{Input: "a", Seed: 0, Output: 97},
	{Input: "a", Seed: 7, Output: 1896},
	{Input: "abc", Seed: 0, Output: 6432038},
	// these overflow 32 bits part way through
	{Input: "alligator", Seed: 0, Output: 765808988},
	{Input: "crocodile", Seed: 0, Output: 933700451},
}

func TestUniversal(t *testing.T) {
	for _, test := range universalGoldenTests {
		if res := Universal([]byte(test.Input), test.Seed); res != test.Output {
			t.Errorf("failed on input (%q, %d), returned %d but expected %d", test.Input, test.Seed, res, test.Output)
		}
	}
}

func TestStringIsDeterministic(t *testing.T) {
	if String("alligator") != String("alligator") {
		t.Fatalf("expected hashing the same name twice to match")
	}
	if String("alligator") == String("crocodile") {
		t.Fatalf("expected different names to hash differently")
	}
}

func TestCombine(t *testing.T) {
	// FNV-1a is a running hash, so combining continues where the prefix left off
	if got, want := String("board").Combine("select"), String("boardselect"); got != want {
		t.Fatalf("got %v, want %v", got, want)
	}
}

func TestRegistryRoundTrip(t *testing.T) {
	r := NewRegistry()
	for _, name := range []string{"alligator", "crocodile", "global"} {
		v, err := r.Register(name)
		if err != nil {
			t.Fatalf("register %q: %v", name, err)
		}
		if v != String(name) {
			t.Errorf("register %q returned %v, expected %v", name, v, String(name))
		}
		got, ok := r.Resolve(v)
		if !ok || got != name {
			t.Errorf("resolve %v returned (%q, %v), expected (%q, true)", v, got, ok, name)
		}
	}
	if _, err := r.Register("alligator"); err != nil {
		t.Fatalf("registering the same name twice should succeed: %v", err)
	}
	if r.Len() != 3 {
		t.Fatalf("expected 3 names, got %d", r.Len())
	}
	if _, ok := r.Resolve(String("unknown")); ok {
		t.Fatalf("expected unregistered value to not resolve")
	}
}

func TestRegistryCollision(t *testing.T) {
	r := NewRegistry()
	// force a collision by planting a different name on the value
	r.names[String("alligator")] = "not-an-alligator"
	_, err := r.Register("alligator")
	if !errors.Is(err, ErrCollision) {
		t.Fatalf("expected ErrCollision, got %v", err)
	}
}

func TestZeroRegistry(t *testing.T) {
	var r Registry
	v, err := r.Register("mosquito")
	if err != nil {
		t.Fatal(err)
	}
	if name, ok := r.Resolve(v); !ok || name != "mosquito" {
		t.Fatalf("got (%q, %v)", name, ok)
	}
}
