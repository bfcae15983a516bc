package settings

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/1broseidon/tbsim/internal/dock"
	"github.com/1broseidon/tbsim/internal/geometry"
)

var _ dock.Settings = (*Store)(nil)

func TestStore_DefaultsWhenEmpty(t *testing.T) {
	s := NewStore(NewMemoryBackend(), nil)

	if got := s.Docking(); got != dock.Floating {
		t.Fatalf("expected floating default, got %q", got)
	}
	if _, ok := s.LastFloatingOrigin(); ok {
		t.Fatalf("expected no saved floating origin")
	}
	if got := s.LastFrame(); got != geometry.NewRect(0, 0, 1014, 60) {
		t.Fatalf("expected default frame, got %v", got)
	}
	if got := s.DetectionTimeout(); got != 1500*time.Millisecond {
		t.Fatalf("expected 1.5s default timeout, got %v", got)
	}
}

func TestStore_RoundTrip(t *testing.T) {
	s := NewStore(NewMemoryBackend(), nil)

	s.SetDocking(dock.DockedToBottom)
	s.SetLastFloatingOrigin(geometry.Point{X: 120.5, Y: 44})
	s.SetLastFrame(geometry.NewRect(10, 20, 900, 50))
	s.SetDetectionTimeout(2500 * time.Millisecond)

	if got := s.Docking(); got != dock.DockedToBottom {
		t.Fatalf("expected docked-to-bottom, got %q", got)
	}
	if p, ok := s.LastFloatingOrigin(); !ok || p != (geometry.Point{X: 120.5, Y: 44}) {
		t.Fatalf("unexpected floating origin %v (ok=%v)", p, ok)
	}
	if got := s.LastFrame(); got != geometry.NewRect(10, 20, 900, 50) {
		t.Fatalf("unexpected frame %v", got)
	}
	if got := s.DetectionTimeout(); got != 2500*time.Millisecond {
		t.Fatalf("unexpected timeout %v", got)
	}
}

func TestStore_UnavailableFallsBackToDefaults(t *testing.T) {
	backend := NewMemoryBackend()
	s := NewStore(backend, nil)
	s.SetDocking(dock.DockedToTop)

	backend.Fail(errors.New("disk gone"))

	if got := s.Docking(); got != dock.Floating {
		t.Fatalf("expected floating fallback, got %q", got)
	}
	if got := s.DetectionTimeout(); got != DefaultDetectionTimeout {
		t.Fatalf("expected default timeout, got %v", got)
	}
	s.SetDocking(dock.DockedToBottom)

	v, err := s.Snapshot(context.Background())
	if !errors.Is(err, ErrUnavailable) {
		t.Fatalf("expected ErrUnavailable, got %v", err)
	}
	if v.Docking != dock.Floating {
		t.Fatalf("expected default snapshot, got %+v", v)
	}
}

func TestStore_InvalidValuesIgnored(t *testing.T) {
	backend := NewMemoryBackend()
	_ = backend.Save(context.Background(), map[string]string{
		KeyDocking:              "sideways",
		KeyLastFloatingPosition: "not json",
		KeyLastWindowFrame:      `{"x":1,"y":2,"width":0,"height":10}`,
		KeyDetectionTimeout:     "-3",
	})
	s := NewStore(backend, nil)

	if got := s.Docking(); got != dock.Floating {
		t.Fatalf("expected floating for invalid docking, got %q", got)
	}
	if _, ok := s.LastFloatingOrigin(); ok {
		t.Fatalf("expected invalid origin to be ignored")
	}
	if got := s.LastFrame(); got != DefaultFrame() {
		t.Fatalf("expected default frame, got %v", got)
	}
	if got := s.DetectionTimeout(); got != DefaultDetectionTimeout {
		t.Fatalf("expected default timeout, got %v", got)
	}
}

func TestStore_SnapshotAndApply(t *testing.T) {
	s := NewStore(NewMemoryBackend(), nil)
	ctx := context.Background()

	want := Values{
		Docking:          dock.DockedToTop,
		FloatingOrigin:   &Point{X: 5, Y: 6},
		LastFrame:        Frame{X: 1, Y: 2, Width: 800, Height: 40},
		DetectionTimeout: 3,
	}
	if err := s.Apply(ctx, want); err != nil {
		t.Fatalf("Apply: %v", err)
	}
	got, err := s.Snapshot(ctx)
	if err != nil {
		t.Fatalf("Snapshot: %v", err)
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("snapshot mismatch (-want +got):\n%s", diff)
	}

	bad := want
	bad.DetectionTimeout = 0
	if err := s.Apply(ctx, bad); err == nil {
		t.Fatalf("expected validation error")
	}
}

func TestFileBackend_ReadsCommentsAndPersists(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "settings.json")
	content := `{
  // hand edited
  "window_docking": "docked-to-top",
  "window_detection_timeout": "2",
}
`
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("write: %v", err)
	}

	s := NewStore(NewFileBackend(path), nil)
	if got := s.Docking(); got != dock.DockedToTop {
		t.Fatalf("expected docked-to-top from JSONC, got %q", got)
	}
	if got := s.DetectionTimeout(); got != 2*time.Second {
		t.Fatalf("expected 2s timeout, got %v", got)
	}

	s.SetLastFrame(geometry.NewRect(3, 4, 500, 30))

	reopened := NewStore(NewFileBackend(path), nil)
	if got := reopened.LastFrame(); got != geometry.NewRect(3, 4, 500, 30) {
		t.Fatalf("expected frame persisted, got %v", got)
	}
	if got := reopened.Docking(); got != dock.DockedToTop {
		t.Fatalf("expected existing keys kept, got %q", got)
	}
}

func TestFileBackend_MissingFileIsEmpty(t *testing.T) {
	b := NewFileBackend(filepath.Join(t.TempDir(), "absent.json"))
	values, err := b.Load(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(values) != 0 {
		t.Fatalf("expected no values, got %v", values)
	}
}

func TestFileBackend_CorruptFileIsUnavailable(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.json")
	if err := os.WriteFile(path, []byte("{not json"), 0644); err != nil {
		t.Fatalf("write: %v", err)
	}
	s := NewStore(NewFileBackend(path), nil)
	if _, err := s.Snapshot(context.Background()); !errors.Is(err, ErrUnavailable) {
		t.Fatalf("expected ErrUnavailable for corrupt file, got %v", err)
	}
	if got := s.Docking(); got != dock.Floating {
		t.Fatalf("expected default docking, got %q", got)
	}
}

func TestSQLiteBackend_Upsert(t *testing.T) {
	b, err := OpenSQLite(filepath.Join(t.TempDir(), "settings.db"))
	if err != nil {
		t.Fatalf("OpenSQLite: %v", err)
	}
	defer b.Close()

	ctx := context.Background()
	if err := b.Save(ctx, map[string]string{KeyDocking: "floating", KeyDetectionTimeout: "1.5"}); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if err := b.Save(ctx, map[string]string{KeyDocking: "docked-to-bottom"}); err != nil {
		t.Fatalf("Save: %v", err)
	}

	got, err := b.Load(ctx, KeyDocking)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if diff := cmp.Diff(map[string]string{KeyDocking: "docked-to-bottom"}, got); diff != "" {
		t.Fatalf("load mismatch (-want +got):\n%s", diff)
	}

	all, err := b.Load(ctx)
	if err != nil || len(all) != 2 {
		t.Fatalf("expected 2 keys, got %v (%v)", all, err)
	}
}

func TestOpenBackend_UnknownKind(t *testing.T) {
	if _, err := OpenBackend("etcd", ""); err == nil {
		t.Fatalf("expected error for unknown backend")
	}
}
