package ipc

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/1broseidon/tbsim/internal/geometry"
)

// CommandType represents different IPC command types
type CommandType string

const (
	CommandDock        CommandType = "DOCK"
	CommandUndock      CommandType = "UNDOCK"
	CommandToggle      CommandType = "TOGGLE"
	CommandClose       CommandType = "CLOSE"
	CommandOpen        CommandType = "OPEN"
	CommandReload      CommandType = "RELOAD"
	CommandGetStatus   CommandType = "GET_STATUS"
	CommandGetMonitors CommandType = "GET_MONITORS"
	CommandGetRects    CommandType = "GET_RECTS"
	CommandGetSettings CommandType = "GET_SETTINGS"
	CommandSetSettings CommandType = "SET_SETTINGS"
)

// Request represents an IPC request from client to server
type Request struct {
	Command CommandType     `json:"command"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// Response represents an IPC response from server to client
type Response struct {
	Status string          `json:"status"` // "OK" or "ERROR"
	Data   json.RawMessage `json:"data,omitempty"`
	Error  string          `json:"error,omitempty"`
}

// Rect is the wire form of a rectangle, y growing upward.
type Rect struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

func RectOf(r geometry.Rect) Rect {
	return Rect{X: r.MinX(), Y: r.MinY(), Width: r.Width(), Height: r.Height()}
}

func (r Rect) Geometry() geometry.Rect {
	return geometry.NewRect(r.X, r.Y, r.Width, r.Height)
}

// DockPayload is the payload of DOCK.
type DockPayload struct {
	Docking string `json:"docking"`
}

// StatusData represents the data returned by GET_STATUS
type StatusData struct {
	Docking        string     `json:"docking"`
	Hiding         string     `json:"hiding"`
	Frame          Rect       `json:"frame"`
	Alpha          float64    `json:"alpha"`
	Monitor        string     `json:"monitor,omitempty"`
	Chrome         bool       `json:"chrome"`
	Animating      bool       `json:"animating"`
	Closed         bool       `json:"closed"`
	HideDeadline   *time.Time `json:"hide_deadline,omitempty"`
	ContentMounted bool       `json:"content_mounted"`
	UptimeSeconds  int64      `json:"uptime_seconds"`
	DaemonRunning  bool       `json:"daemon_running"`
}

// MonitorInfo represents information about a single monitor
type MonitorInfo struct {
	ID           int    `json:"id"`
	Name         string `json:"name"`
	Frame        Rect   `json:"frame"`
	VisibleFrame Rect   `json:"visible_frame"`
	UnderMouse   bool   `json:"under_mouse"`
}

// MonitorsData represents the data returned by GET_MONITORS
type MonitorsData struct {
	Monitors []MonitorInfo `json:"monitors"`
	MouseX   float64       `json:"mouse_x"`
	MouseY   float64       `json:"mouse_y"`
}

// RectsData is the placement the poller currently works with.
type RectsData struct {
	Docking     string `json:"docking"`
	Hiding      string `json:"hiding"`
	Frame       Rect   `json:"frame"`
	Destination Rect   `json:"destination"`
	Detection   Rect   `json:"detection"`
	// Content is where the Touch Bar content sits inside Frame.
	Content Rect `json:"content"`
	// Infinite is set when detection covers everything (floating).
	Infinite bool `json:"infinite"`
}

// NewOKResponse creates a successful response with optional data
func NewOKResponse(data interface{}) (*Response, error) {
	var dataBytes json.RawMessage
	if data != nil {
		bytes, err := json.Marshal(data)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal response data: %w", err)
		}
		dataBytes = bytes
	}

	return &Response{
		Status: "OK",
		Data:   dataBytes,
	}, nil
}

// NewErrorResponse creates an error response with a message
func NewErrorResponse(errMsg string) *Response {
	return &Response{
		Status: "ERROR",
		Error:  errMsg,
	}
}

// ParseRequest parses a request from JSON bytes
func ParseRequest(data []byte) (*Request, error) {
	var req Request
	if err := json.Unmarshal(data, &req); err != nil {
		return nil, fmt.Errorf("failed to parse request: %w", err)
	}
	return &req, nil
}

// Marshal converts a response to JSON bytes
func (r *Response) Marshal() ([]byte, error) {
	return json.Marshal(r)
}
