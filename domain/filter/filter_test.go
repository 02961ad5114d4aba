package filter

import (
	"image"
	"testing"
)

func pixel(r, g, b, a uint8) []uint8 { return []uint8{r, g, b, a} }

func TestInvert_IsInvolution(t *testing.T) {
	for v := 0; v <= 255; v++ {
		c := uint8(v)
		buf := pixel(c, c, c, 200)
		Apply(Invert, buf)
		if buf[0] != 255-c || buf[3] != 200 {
			t.Fatalf("invert(%d) = %v", v, buf)
		}
		Apply(Invert, buf)
		if buf[0] != c || buf[1] != c || buf[2] != c || buf[3] != 200 {
			t.Fatalf("invert(invert(%d)) = %v", v, buf)
		}
	}
}

func TestPosterize_Endpoints(t *testing.T) {
	cases := []struct{ in, want uint8 }{
		{0, 0},
		{255, 255},
		{127, 128}, // nearest step is 127.5
		{63, 0},
		{64, 128},
		{191, 128},
		{192, 255},
	}
	for _, c := range cases {
		buf := pixel(c.in, c.in, c.in, 255)
		Apply(Posterize, buf)
		if buf[0] != c.want || buf[1] != c.want || buf[2] != c.want {
			t.Fatalf("posterize(%d) = %d, want %d", c.in, buf[0], c.want)
		}
		if buf[3] != 255 {
			t.Fatalf("alpha modified: %d", buf[3])
		}
	}
}

func TestPosterize_Idempotent(t *testing.T) {
	for v := 0; v <= 255; v++ {
		once := pixel(uint8(v), uint8(v), uint8(v), 255)
		Apply(Posterize, once)
		twice := append([]uint8(nil), once...)
		Apply(Posterize, twice)
		for i := range once {
			if once[i] != twice[i] {
				t.Fatalf("posterize not idempotent at %d: %v vs %v", v, once, twice)
			}
		}
	}
}

func TestPosterize_LevelsBelowTwoNoop(t *testing.T) {
	buf := pixel(10, 20, 30, 40)
	ApplyPosterize(buf, 1)
	if buf[0] != 10 || buf[1] != 20 || buf[2] != 30 {
		t.Fatalf("expected no-op, got %v", buf)
	}
}

func TestSepia_KnownValues(t *testing.T) {
	buf := pixel(100, 100, 100, 7)
	Apply(Sepia, buf)
	// 100*(0.393+0.769+0.189)=135.1, 100*(1.203)=120.3, 100*0.937=93.7
	if buf[0] != 135 || buf[1] != 120 || buf[2] != 94 || buf[3] != 7 {
		t.Fatalf("unexpected sepia output %v", buf)
	}
	white := pixel(255, 255, 255, 255)
	Apply(Sepia, white)
	if white[0] != 255 || white[1] != 255 {
		t.Fatalf("sepia should clamp to 255, got %v", white)
	}
	if white[2] != 239 { // 255*0.937=238.935
		t.Fatalf("unexpected blue channel %d", white[2])
	}
}

func TestDramatic_IsGray(t *testing.T) {
	buf := pixel(200, 40, 90, 128)
	Apply(Dramatic, buf)
	if buf[0] != buf[1] || buf[1] != buf[2] {
		t.Fatalf("dramatic output not gray: %v", buf)
	}
	if buf[3] != 128 {
		t.Fatalf("alpha modified: %d", buf[3])
	}
}

func TestIdentity_Unchanged(t *testing.T) {
	buf := pixel(1, 2, 3, 4)
	Apply(None, buf)
	if buf[0] != 1 || buf[1] != 2 || buf[2] != 3 || buf[3] != 4 {
		t.Fatalf("identity changed buffer: %v", buf)
	}
}

func TestApply_EmptyAndPartialBuffers(t *testing.T) {
	Apply(Invert, nil)
	Apply(Invert, []uint8{})
	partial := []uint8{10, 20, 30, 40, 50, 60}
	Apply(Invert, partial)
	if partial[0] != 245 || partial[4] != 50 || partial[5] != 60 {
		t.Fatalf("partial pixel handling wrong: %v", partial)
	}
}

func TestApplyImage_SubImageHonoursStride(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 4, 4))
	sub := img.SubImage(image.Rect(1, 1, 3, 3)).(*image.RGBA)
	ApplyImage(Invert, sub)
	for y := 0; y < 4; y++ {
		for x := 0; x < 4; x++ {
			got := img.RGBAAt(x, y).R
			inside := x >= 1 && x < 3 && y >= 1 && y < 3
			if inside && got != 255 {
				t.Fatalf("pixel (%d,%d) not inverted", x, y)
			}
			if !inside && got != 0 {
				t.Fatalf("pixel (%d,%d) outside sub-image modified", x, y)
			}
		}
	}
}

func TestParseAndAll(t *testing.T) {
	defs := All()
	if len(defs) != 5 || defs[0].Kind != None {
		t.Fatalf("unexpected definitions %v", defs)
	}
	for _, d := range defs {
		k, ok := Parse(d.ID)
		if !ok || k != d.Kind {
			t.Fatalf("parse(%q) = %v,%v", d.ID, k, ok)
		}
	}
	if _, ok := Parse("vaporwave"); ok {
		t.Fatalf("expected unknown id to fail")
	}
}
