// Package mcp exposes the running simulator's dock commands as MCP tools.
package mcp

import (
	"context"
	"log/slog"

	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/1broseidon/tbsim/internal/ipc"
	"github.com/1broseidon/tbsim/internal/settings"
)

const (
	ServerName    = "tbsim"
	ServerVersion = "0.1.0"
)

// Daemon is the part of the IPC client the tools call. *ipc.Client
// implements it.
type Daemon interface {
	Dock(docking string) error
	Toggle() error
	Close() error
	Open() error
	GetStatus() (*ipc.StatusData, error)
	GetMonitors() (*ipc.MonitorsData, error)
	GetSettings() (*settings.Values, error)
	SetSettings(v settings.Values) error
}

var _ Daemon = (*ipc.Client)(nil)

// Server is the MCP server for the simulator daemon.
type Server struct {
	mcpServer *mcpsdk.Server
	daemon    Daemon
	logger    *slog.Logger
}

// NewServer creates an MCP server forwarding to daemon.
func NewServer(daemon Daemon, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Server{daemon: daemon, logger: logger}

	s.mcpServer = mcpsdk.NewServer(
		&mcpsdk.Implementation{
			Name:    ServerName,
			Version: ServerVersion,
		},
		nil,
	)

	s.registerTools()
	return s
}

// Run starts the MCP server on stdio transport, blocking until done.
func (s *Server) Run(ctx context.Context) error {
	return s.mcpServer.Run(ctx, &mcpsdk.StdioTransport{})
}

func (s *Server) registerTools() {
	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "dock",
		Description: "Dock the Touch Bar window to the top or bottom edge of the monitor under the mouse, or make it floating again. Docked windows hide after the detection timeout and reappear when the mouse reaches the screen edge.",
	}, s.handleDock)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "toggle_docking",
		Description: "Cycle the docking mode: floating, then docked to top, then docked to bottom.",
	}, s.handleToggle)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "close_window",
		Description: "Close the Touch Bar window. Pending animations finish immediately. The daemon keeps running; use open_window to show it again.",
	}, s.handleClose)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "open_window",
		Description: "Show the Touch Bar window again after it was closed.",
	}, s.handleOpen)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "status",
		Description: "Report the window's docking mode, hidden or shown state, frame (y grows upward), alpha, current monitor and hide deadline.",
	}, s.handleStatus)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "list_monitors",
		Description: "List monitors with their full and visible frames and mark the one under the mouse.",
	}, s.handleMonitors)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "get_settings",
		Description: "Read the persisted settings: docking mode, last floating origin, last window frame and detection timeout in seconds.",
	}, s.handleGetSettings)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "set_settings",
		Description: "Change persisted settings. Changing docking also moves the window.",
	}, s.handleSetSettings)
}
