package packbuf

import (
	"bytes"
	"reflect"
	"testing"

	"github.com/pkg/errors"
)

type inner struct {
	Name  string
	Index uint8
}

type everything struct {
	Flag    bool
	Byte    uint8
	Short   uint16
	Word    uint32
	Long    uint64
	Signed  int16
	Int32   int32
	Int     int
	Float   float32
	Double  float64
	Text    string
	Bytes   []uint8
	Shorts  []uint16
	Structs []inner
	Ptrs    []*inner
	Nested  inner
}

func TestRoundTrip(t *testing.T) {
	in := everything{
		Flag:    true,
		Byte:    0xAB,
		Short:   0xBEEF,
		Word:    0xDEADBEEF,
		Long:    1 << 40,
		Signed:  -12,
		Int32:   -70000,
		Int:     -1 << 40,
		Float:   1.5,
		Double:  -2.25,
		Text:    "alligator",
		Bytes:   []uint8{1, 5, 3, 7},
		Shorts:  []uint16{1, 65535},
		Structs: []inner{{"a", 1}, {"", 2}},
		Ptrs:    []*inner{{"crocodile", 63}},
		Nested:  inner{"nested", 9},
	}
	var buf bytes.Buffer
	if err := Write(&buf, &in); err != nil {
		t.Fatalf("Write: %v", err)
	}
	var out everything
	if err := Read(&buf, &out); err != nil {
		t.Fatalf("Read: %v", err)
	}
	if !reflect.DeepEqual(in, out) {
		t.Fatalf("round trip mismatch\nwant %+v\ngot  %+v", in, out)
	}
	if buf.Len() != 0 {
		t.Fatalf("expected every byte to be consumed, %d left", buf.Len())
	}
}

func TestEmptySliceStaysNil(t *testing.T) {
	var buf bytes.Buffer
	if err := Write(&buf, &everything{}); err != nil {
		t.Fatalf("Write: %v", err)
	}
	var out everything
	if err := Read(&buf, &out); err != nil {
		t.Fatalf("Read: %v", err)
	}
	if out.Bytes != nil || out.Structs != nil {
		t.Fatalf("expected empty slices to be read back as nil")
	}
}

func TestWireLayout(t *testing.T) {
	in := struct {
		Byte  uint8
		Short uint16
		Bytes []uint8
	}{7, 0x0102, []uint8{9}}
	var buf bytes.Buffer
	if err := Write(&buf, &in); err != nil {
		t.Fatalf("Write: %v", err)
	}
	want := []byte{
		7,
		0x02, 0x01,
		1, 0, 0, 0,
		9,
	}
	if !bytes.Equal(buf.Bytes(), want) {
		t.Fatalf("got % x, want % x", buf.Bytes(), want)
	}
}

func TestShortRead(t *testing.T) {
	var buf bytes.Buffer
	if err := Write(&buf, &inner{Name: "alligator", Index: 1}); err != nil {
		t.Fatalf("Write: %v", err)
	}
	truncated := buf.Bytes()[:4]
	var out inner
	if err := Read(bytes.NewReader(truncated), &out); err == nil {
		t.Fatalf("expected an error reading a truncated string")
	}
}

func TestSliceTooLarge(t *testing.T) {
	// slice length prefix of maxSliceLen+1
	n := maxSliceLen + 1
	data := []byte{byte(n), byte(n >> 8), byte(n >> 16), byte(n >> 24)}
	var out struct{ Bytes []uint8 }
	if err := Read(bytes.NewReader(data), &out); !errors.Is(err, ErrSliceTooLarge) {
		t.Fatalf("expected ErrSliceTooLarge, got %v", err)
	}
}

func TestUnsupported(t *testing.T) {
	in := struct{ M map[string]int }{}
	if err := Write(&bytes.Buffer{}, &in); !errors.Is(err, ErrUnsupported) {
		t.Fatalf("expected ErrUnsupported, got %v", err)
	}
}
