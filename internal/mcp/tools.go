package mcp

import (
	"context"
	"fmt"
	"time"

	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/1broseidon/tbsim/internal/dock"
	"github.com/1broseidon/tbsim/internal/settings"
)

func (s *Server) handleDock(_ context.Context, _ *mcpsdk.CallToolRequest, args DockInput) (*mcpsdk.CallToolResult, DockOutput, error) {
	d, err := dock.ParseDocking(args.Docking)
	if err != nil {
		return nil, DockOutput{}, err
	}
	if err := s.daemon.Dock(string(d)); err != nil {
		s.logger.Warn("dock tool failed", "docking", d, "error", err)
		return nil, DockOutput{}, fmt.Errorf("dock %s: %w", d, err)
	}
	return s.dockResult()
}

func (s *Server) handleToggle(_ context.Context, _ *mcpsdk.CallToolRequest, _ EmptyInput) (*mcpsdk.CallToolResult, DockOutput, error) {
	if err := s.daemon.Toggle(); err != nil {
		return nil, DockOutput{}, fmt.Errorf("toggle docking: %w", err)
	}
	return s.dockResult()
}

func (s *Server) dockResult() (*mcpsdk.CallToolResult, DockOutput, error) {
	status, err := s.daemon.GetStatus()
	if err != nil {
		return nil, DockOutput{}, fmt.Errorf("read status: %w", err)
	}
	return nil, DockOutput{Docking: status.Docking, Hiding: status.Hiding}, nil
}

func (s *Server) handleClose(_ context.Context, _ *mcpsdk.CallToolRequest, _ EmptyInput) (*mcpsdk.CallToolResult, any, error) {
	if err := s.daemon.Close(); err != nil {
		return nil, nil, fmt.Errorf("close window: %w", err)
	}
	return nil, nil, nil
}

func (s *Server) handleOpen(_ context.Context, _ *mcpsdk.CallToolRequest, _ EmptyInput) (*mcpsdk.CallToolResult, any, error) {
	if err := s.daemon.Open(); err != nil {
		return nil, nil, fmt.Errorf("open window: %w", err)
	}
	return nil, nil, nil
}

func (s *Server) handleStatus(_ context.Context, _ *mcpsdk.CallToolRequest, _ EmptyInput) (*mcpsdk.CallToolResult, StatusOutput, error) {
	st, err := s.daemon.GetStatus()
	if err != nil {
		return nil, StatusOutput{}, err
	}
	out := StatusOutput{
		Docking:        st.Docking,
		Hiding:         st.Hiding,
		Frame:          st.Frame,
		Alpha:          st.Alpha,
		Monitor:        st.Monitor,
		Chrome:         st.Chrome,
		Animating:      st.Animating,
		Closed:         st.Closed,
		ContentMounted: st.ContentMounted,
		UptimeSeconds:  st.UptimeSeconds,
	}
	if st.HideDeadline != nil {
		out.HideDeadline = st.HideDeadline.Format(time.RFC3339)
	}
	return nil, out, nil
}

func (s *Server) handleMonitors(_ context.Context, _ *mcpsdk.CallToolRequest, _ EmptyInput) (*mcpsdk.CallToolResult, MonitorsOutput, error) {
	m, err := s.daemon.GetMonitors()
	if err != nil {
		return nil, MonitorsOutput{}, err
	}
	return nil, MonitorsOutput{Monitors: m.Monitors, MouseX: m.MouseX, MouseY: m.MouseY}, nil
}

func (s *Server) handleGetSettings(_ context.Context, _ *mcpsdk.CallToolRequest, _ EmptyInput) (*mcpsdk.CallToolResult, settings.Values, error) {
	v, err := s.daemon.GetSettings()
	if err != nil {
		return nil, settings.Values{}, err
	}
	return nil, *v, nil
}

func (s *Server) handleSetSettings(_ context.Context, _ *mcpsdk.CallToolRequest, args SetSettingsInput) (*mcpsdk.CallToolResult, settings.Values, error) {
	v, err := s.daemon.GetSettings()
	if err != nil {
		return nil, settings.Values{}, err
	}
	next := *v
	if args.Docking != nil {
		d, err := dock.ParseDocking(*args.Docking)
		if err != nil {
			return nil, settings.Values{}, err
		}
		next.Docking = d
	}
	if args.DetectionTimeout != nil {
		next.DetectionTimeout = *args.DetectionTimeout
	}
	if err := next.Validate(); err != nil {
		return nil, settings.Values{}, err
	}
	if err := s.daemon.SetSettings(next); err != nil {
		return nil, settings.Values{}, fmt.Errorf("save settings: %w", err)
	}
	return nil, next, nil
}
