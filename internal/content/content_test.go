package content

import (
	"math"
	"testing"

	"github.com/1broseidon/tbsim/internal/geometry"
)

func TestFrame_WideWindowLimitedByHeight(t *testing.T) {
	got := Frame(geometry.Size{Width: 2000, Height: 40})
	if got.Height() != 30 {
		t.Fatalf("expected content height 30, got %v", got.Height())
	}
	if math.Abs(got.Width()-1004) > 1e-9 {
		t.Fatalf("expected content width 1004, got %v", got.Width())
	}
	if math.Abs(got.MidX()-1000) > 1e-9 || math.Abs(got.MidY()-20) > 1e-9 {
		t.Fatalf("expected content centered, got %v", got)
	}
}

func TestFrame_NarrowWindowLimitedByWidth(t *testing.T) {
	got := Frame(geometry.Size{Width: 512, Height: 60})
	if got.Width() != 502 {
		t.Fatalf("expected inset width 502, got %v", got.Width())
	}
	if ratio := got.Width() / got.Height(); math.Abs(ratio-AspectRatio()) > 1e-9 {
		t.Fatalf("expected aspect %v, got %v", AspectRatio(), ratio)
	}
}

func TestFrame_TooSmall(t *testing.T) {
	if got := Frame(geometry.Size{Width: 8, Height: 8}); got.Area() != 0 {
		t.Fatalf("expected empty frame, got %v", got)
	}
}

func TestPlaceholder_Lifecycle(t *testing.T) {
	p := NewPlaceholder(nil)
	if p.Mounted() {
		t.Fatalf("expected unmounted initially")
	}
	if err := p.Mount(); err != nil {
		t.Fatalf("mount: %v", err)
	}
	_ = p.Mount()
	if !p.Mounted() || p.mounts != 1 {
		t.Fatalf("expected a single mount, got %d", p.mounts)
	}
	p.Unmount()
	p.Unmount()
	if p.Mounted() {
		t.Fatalf("expected unmounted")
	}
}
