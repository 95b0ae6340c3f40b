package types

import (
	"math"
	"testing"
)

func TestPackABGR(t *testing.T) {
	type spec struct {
		in  Vec4
		exp uint32
	}
	nan := float32(math.NaN())
	specs := []spec{
		{XYZW(1, 0, 0, 1), 0xff0000ff},
		{XYZW(0, 1, 0, 1), 0xff00ff00},
		{XYZW(0, 0, 1, 0), 0x00ff0000},
		// Out of range values are clamped.
		{XYZW(2, -1, 0.5, 1), 0xff7f00ff},
		// NaN never reaches the buffer.
		{XYZW(nan, nan, nan, 1), 0xff000000},
	}

	for index, s := range specs {
		if got := PackABGR(s.in); got != s.exp {
			t.Fatalf("[spec %d] expected %v to pack to 0x%08x; got 0x%08x", index, s.in, s.exp, got)
		}
	}
}

func TestUnpackABGR(t *testing.T) {
	c := UnpackABGR(0xff0000ff)
	if c != XYZW(1, 0, 0, 1) {
		t.Fatalf("expected opaque red; got %v", c)
	}
}
