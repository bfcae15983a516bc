package mcp

import "github.com/1broseidon/tbsim/internal/ipc"

// DockInput is the input for the dock tool.
type DockInput struct {
	Docking string `json:"docking" jsonschema:"required,Where to put the window: top, bottom or floating"`
}

// DockOutput reports the docking mode after the command.
type DockOutput struct {
	Docking string `json:"docking"`
	Hiding  string `json:"hiding"`
}

// EmptyInput is used by tools that take no arguments.
type EmptyInput struct{}

// StatusOutput is the output for the status tool.
type StatusOutput struct {
	Docking   string   `json:"docking"`
	Hiding    string   `json:"hiding"`
	Frame     ipc.Rect `json:"frame"`
	Alpha     float64  `json:"alpha"`
	Monitor   string   `json:"monitor,omitempty"`
	Chrome    bool     `json:"chrome"`
	Animating bool     `json:"animating"`
	Closed    bool     `json:"closed"`
	// HideDeadline is RFC 3339, empty while the window never hides.
	HideDeadline   string `json:"hide_deadline,omitempty"`
	ContentMounted bool   `json:"content_mounted"`
	UptimeSeconds  int64  `json:"uptime_seconds"`
}

// MonitorsOutput is the output for the list_monitors tool.
type MonitorsOutput struct {
	Monitors []ipc.MonitorInfo `json:"monitors"`
	MouseX   float64           `json:"mouse_x"`
	MouseY   float64           `json:"mouse_y"`
}

// SetSettingsInput changes persisted settings. Omitted fields keep their
// current value.
type SetSettingsInput struct {
	Docking          *string  `json:"docking,omitempty" jsonschema:"Docking mode to remember: top, bottom or floating"`
	DetectionTimeout *float64 `json:"detection_timeout,omitempty" jsonschema:"Seconds the docked window stays shown after the mouse leaves it"`
}
