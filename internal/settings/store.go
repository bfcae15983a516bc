package settings

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/1broseidon/tbsim/internal/dock"
	"github.com/1broseidon/tbsim/internal/geometry"
)

// ErrUnavailable wraps every backend failure seen by the Store.
var ErrUnavailable = errors.New("settings store unavailable")

const (
	KeyDocking              = "window_docking"
	KeyLastFloatingPosition = "last_floating_position"
	KeyLastWindowFrame      = "last_window_frame"
	KeyDetectionTimeout     = "window_detection_timeout"
)

// AllKeys lists every persisted key.
var AllKeys = []string{KeyDocking, KeyLastFloatingPosition, KeyLastWindowFrame, KeyDetectionTimeout}

const (
	DefaultDocking          = dock.Floating
	DefaultDetectionTimeout = 1500 * time.Millisecond

	opTimeout = 2 * time.Second
)

// DefaultFrame is the stock window frame.
func DefaultFrame() geometry.Rect {
	return geometry.NewRect(0, 0, 1014, 60)
}

// Point is the JSON form of a floating origin.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Frame is the JSON form of a window frame.
type Frame struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

func frameOf(r geometry.Rect) Frame {
	return Frame{X: r.MinX(), Y: r.MinY(), Width: r.Width(), Height: r.Height()}
}

func (f Frame) Rect() geometry.Rect {
	return geometry.NewRect(f.X, f.Y, f.Width, f.Height)
}

// Values is every persisted setting at once.
type Values struct {
	Docking          dock.Docking `json:"docking"`
	FloatingOrigin   *Point       `json:"last_floating_position,omitempty"`
	LastFrame        Frame        `json:"last_window_frame"`
	DetectionTimeout float64      `json:"detection_timeout_seconds"`
}

// Validate rejects values the window could not use.
func (v Values) Validate() error {
	if _, err := dock.ParseDocking(string(v.Docking)); err != nil {
		return err
	}
	if v.DetectionTimeout <= 0 {
		return fmt.Errorf("detection timeout must be positive, got %v", v.DetectionTimeout)
	}
	if v.LastFrame.Width <= 0 || v.LastFrame.Height <= 0 {
		return fmt.Errorf("last frame must have a positive size, got %vx%v", v.LastFrame.Width, v.LastFrame.Height)
	}
	return nil
}

// Store is a typed view over a Backend. Failures are logged and reads fall
// back to defaults, so the window never blocks on storage.
type Store struct {
	backend Backend
	logger  *slog.Logger

	// Frame returned when none was saved.
	DefaultFrame geometry.Rect
}

func NewStore(backend Backend, logger *slog.Logger) *Store {
	if logger == nil {
		logger = slog.Default()
	}
	return &Store{backend: backend, logger: logger, DefaultFrame: DefaultFrame()}
}

// Close closes the backend.
func (s *Store) Close() error {
	return s.backend.Close()
}

func (s *Store) Docking() dock.Docking {
	raw, ok := s.get(KeyDocking)
	if !ok {
		return DefaultDocking
	}
	d, err := dock.ParseDocking(raw)
	if err != nil {
		s.logger.Warn("ignoring invalid docking setting", "value", raw)
		return DefaultDocking
	}
	return d
}

func (s *Store) SetDocking(d dock.Docking) {
	s.set(map[string]string{KeyDocking: string(d)})
}

func (s *Store) LastFloatingOrigin() (geometry.Point, bool) {
	raw, ok := s.get(KeyLastFloatingPosition)
	if !ok {
		return geometry.Point{}, false
	}
	var p Point
	if err := json.Unmarshal([]byte(raw), &p); err != nil {
		s.logger.Warn("ignoring invalid floating position", "value", raw, "error", err)
		return geometry.Point{}, false
	}
	return geometry.Point{X: p.X, Y: p.Y}, true
}

func (s *Store) SetLastFloatingOrigin(p geometry.Point) {
	data, _ := json.Marshal(Point{X: p.X, Y: p.Y})
	s.set(map[string]string{KeyLastFloatingPosition: string(data)})
}

func (s *Store) LastFrame() geometry.Rect {
	raw, ok := s.get(KeyLastWindowFrame)
	if !ok {
		return s.DefaultFrame
	}
	var f Frame
	if err := json.Unmarshal([]byte(raw), &f); err != nil || f.Width <= 0 || f.Height <= 0 {
		s.logger.Warn("ignoring invalid window frame", "value", raw)
		return s.DefaultFrame
	}
	return f.Rect()
}

func (s *Store) SetLastFrame(r geometry.Rect) {
	data, _ := json.Marshal(frameOf(r))
	s.set(map[string]string{KeyLastWindowFrame: string(data)})
}

func (s *Store) DetectionTimeout() time.Duration {
	raw, ok := s.get(KeyDetectionTimeout)
	if !ok {
		return DefaultDetectionTimeout
	}
	secs, err := strconv.ParseFloat(raw, 64)
	if err != nil || secs <= 0 {
		s.logger.Warn("ignoring invalid detection timeout", "value", raw)
		return DefaultDetectionTimeout
	}
	return time.Duration(secs * float64(time.Second))
}

func (s *Store) SetDetectionTimeout(d time.Duration) {
	s.set(map[string]string{KeyDetectionTimeout: formatSeconds(d)})
}

// Snapshot reads every setting. Missing keys get defaults. The error wraps
// ErrUnavailable when the backend failed; the returned values are then the
// defaults.
func (s *Store) Snapshot(ctx context.Context) (Values, error) {
	v := Values{
		Docking:          DefaultDocking,
		LastFrame:        frameOf(s.DefaultFrame),
		DetectionTimeout: DefaultDetectionTimeout.Seconds(),
	}

	raw, err := s.backend.Load(ctx, AllKeys...)
	if err != nil {
		return v, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	if d, err := dock.ParseDocking(raw[KeyDocking]); err == nil {
		v.Docking = d
	}
	if p, ok := raw[KeyLastFloatingPosition]; ok {
		var pt Point
		if err := json.Unmarshal([]byte(p), &pt); err == nil {
			v.FloatingOrigin = &pt
		}
	}
	if f, ok := raw[KeyLastWindowFrame]; ok {
		var fr Frame
		if err := json.Unmarshal([]byte(f), &fr); err == nil && fr.Width > 0 && fr.Height > 0 {
			v.LastFrame = fr
		}
	}
	if t, ok := raw[KeyDetectionTimeout]; ok {
		if secs, err := strconv.ParseFloat(t, 64); err == nil && secs > 0 {
			v.DetectionTimeout = secs
		}
	}
	return v, nil
}

// Apply validates and writes every setting in one save.
func (s *Store) Apply(ctx context.Context, v Values) error {
	if err := v.Validate(); err != nil {
		return fmt.Errorf("invalid settings: %w", err)
	}

	frame, _ := json.Marshal(v.LastFrame)
	values := map[string]string{
		KeyDocking:          string(v.Docking),
		KeyLastWindowFrame:  string(frame),
		KeyDetectionTimeout: strconv.FormatFloat(v.DetectionTimeout, 'f', -1, 64),
	}
	if v.FloatingOrigin != nil {
		origin, _ := json.Marshal(v.FloatingOrigin)
		values[KeyLastFloatingPosition] = string(origin)
	}

	if err := s.backend.Save(ctx, values); err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return nil
}

func (s *Store) get(key string) (string, bool) {
	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()

	values, err := s.backend.Load(ctx, key)
	if err != nil {
		s.logger.Warn("settings unavailable, using default", "key", key, "error", err)
		return "", false
	}
	v, ok := values[key]
	return v, ok
}

func (s *Store) set(values map[string]string) {
	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()

	if err := s.backend.Save(ctx, values); err != nil {
		s.logger.Warn("failed to persist settings", "error", err)
	}
}

func formatSeconds(d time.Duration) string {
	return strconv.FormatFloat(d.Seconds(), 'f', -1, 64)
}
