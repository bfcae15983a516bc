package dock

import (
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
)

func TestPlan(t *testing.T) {
	timing := DefaultTiming()
	move := timing.Move

	tests := []struct {
		name string
		old  State
		next State
		ctx  PlanContext
		want []Effect
	}{
		{
			name: "floating to top",
			old:  State{Docking: Floating},
			next: State{Docking: DockedToTop},
			want: []Effect{
				SaveFloatingOrigin{},
				SetChrome{On: false},
				Animate{Kind: AnimateMove, Duration: move, Target: TargetMouseMonitor},
				RenewDeadline{},
				PersistDocking{Docking: DockedToTop},
			},
		},
		{
			name: "docked to floating",
			old:  State{Docking: DockedToBottom, Hiding: Hidden},
			next: State{Docking: Floating},
			want: []Effect{
				SetChrome{On: true},
				Animate{Kind: AnimateMoveFadeIn, Duration: move, Target: TargetMouseMonitor},
				RenewDeadline{Infinite: true},
				PersistDocking{Docking: Floating},
			},
		},
		{
			name: "top to bottom",
			old:  State{Docking: DockedToTop},
			next: State{Docking: DockedToBottom},
			want: []Effect{
				SetChrome{On: false},
				Animate{Kind: AnimateMoveFadeIn, Duration: move, Target: TargetMouseMonitor},
				RenewDeadline{},
				PersistDocking{Docking: DockedToBottom},
			},
		},
		{
			name: "hide",
			old:  State{Docking: DockedToTop, Hiding: Shown},
			next: State{Docking: DockedToTop, Hiding: Hidden},
			want: []Effect{
				Animate{Kind: AnimateMoveFadeOut, Duration: move, Target: TargetCurrentMonitor},
			},
		},
		{
			name: "show",
			old:  State{Docking: DockedToBottom, Hiding: Hidden},
			next: State{Docking: DockedToBottom, Hiding: Shown},
			want: []Effect{
				Snap{Hiding: Hidden, Target: TargetMouseMonitor},
				Animate{Kind: AnimateMoveFadeIn, Duration: move, Target: TargetMouseMonitor},
			},
		},
		{
			name: "teleport",
			old:  State{Docking: DockedToTop},
			next: State{Docking: DockedToTop},
			ctx:  PlanContext{MonitorChanged: true},
			want: []Effect{
				Animate{Kind: AnimateTeleport, Duration: timing.Teleport, Target: TargetMouseMonitor},
			},
		},
		{
			name: "no teleport while hidden",
			old:  State{Docking: DockedToTop, Hiding: Hidden},
			next: State{Docking: DockedToTop, Hiding: Hidden},
			ctx:  PlanContext{MonitorChanged: true},
			want: nil,
		},
		{
			name: "resize ended",
			old:  State{Docking: DockedToBottom},
			next: State{Docking: DockedToBottom},
			ctx:  PlanContext{ResizeEnded: true},
			want: []Effect{
				Animate{Kind: AnimateMove, Duration: move, Target: TargetCurrentMonitor},
				ClearResizePending{},
			},
		},
		{
			name: "floating hidden self-corrects",
			old:  State{Docking: Floating},
			next: State{Docking: Floating, Hiding: Hidden},
			want: nil,
		},
	}

	for _, tt := range tests {
		ctx := tt.ctx
		ctx.Timing = timing
		got := Plan(tt.old, tt.next, ctx)
		if diff := cmp.Diff(tt.want, got); diff != "" {
			t.Fatalf("%s: effects mismatch (-want +got):\n%s", tt.name, diff)
		}
	}
}

func TestNormalize_FloatingForcesShown(t *testing.T) {
	got := State{Docking: Floating, Hiding: Hidden}.Normalize()
	if got.Hiding != Shown {
		t.Fatalf("expected floating to force shown, got %v", got)
	}
	if got := (State{Docking: "sideways", Hiding: Hidden}).Normalize(); got != (State{Docking: Floating}) {
		t.Fatalf("expected unknown docking to normalize to floating, got %v", got)
	}
	docked := State{Docking: DockedToTop, Hiding: Hidden}
	if got := docked.Normalize(); got != docked {
		t.Fatalf("expected docked hidden to be kept, got %v", got)
	}
}

func TestParseDocking(t *testing.T) {
	for in, want := range map[string]Docking{
		"top":              DockedToTop,
		"docked-to-bottom": DockedToBottom,
		"Undock":           Floating,
		" floating ":       Floating,
	} {
		got, err := ParseDocking(in)
		if err != nil || got != want {
			t.Fatalf("ParseDocking(%q) = %q, %v; want %q", in, got, err, want)
		}
	}
	if _, err := ParseDocking("left"); err == nil {
		t.Fatalf("expected error for unknown mode")
	}
}

func TestDeadline(t *testing.T) {
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	if InfiniteDeadline().Passed(now) {
		t.Fatalf("infinite deadline must never pass")
	}
	if (Deadline{}).Passed(now) {
		t.Fatalf("zero deadline must never pass")
	}
	d := DeadlineAt(now.Add(time.Second))
	if d.Passed(now) {
		t.Fatalf("deadline passed too early")
	}
	if !d.Passed(now.Add(2 * time.Second)) {
		t.Fatalf("expected deadline to pass")
	}
}
