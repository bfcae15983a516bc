package ipc

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net"
	"os"
	"sync"
	"time"

	"github.com/1broseidon/tbsim/internal/dock"
	"github.com/1broseidon/tbsim/internal/runtimepath"
	"github.com/1broseidon/tbsim/internal/settings"
)

// Controller is what the server drives. Implementations are called from
// connection goroutines and must hand the work to the main loop.
type Controller interface {
	SetDocking(d dock.Docking) error
	Toggle() error
	Close() error
	Open() error
	Reload() error
	Status() (StatusData, error)
	Monitors() (MonitorsData, error)
	Rects() (RectsData, error)
	Settings() (settings.Values, error)
	ApplySettings(v settings.Values) error
}

// Server handles IPC requests from clients
type Server struct {
	socketPath   string
	listener     net.Listener
	ctrl         Controller
	logger       *slog.Logger
	startTime    time.Time
	shuttingDown bool
	shutdownMu   sync.Mutex
	wg           sync.WaitGroup
}

// NewServer creates a server on socketPath, or on the runtime socket path
// when empty.
func NewServer(socketPath string, ctrl Controller, logger *slog.Logger) (*Server, error) {
	if socketPath == "" {
		var err error
		socketPath, err = runtimepath.SocketPath()
		if err != nil {
			return nil, fmt.Errorf("failed to resolve IPC socket path: %w", err)
		}
	}
	if logger == nil {
		logger = slog.Default()
	}

	// Remove existing socket if present
	os.Remove(socketPath)

	return &Server{
		socketPath: socketPath,
		ctrl:       ctrl,
		logger:     logger,
		startTime:  time.Now(),
	}, nil
}

// SocketPath returns the path the server listens on.
func (s *Server) SocketPath() string { return s.socketPath }

// Start begins listening for IPC connections
func (s *Server) Start() error {
	listener, err := net.Listen("unix", s.socketPath)
	if err != nil {
		return fmt.Errorf("failed to create IPC socket: %w", err)
	}
	s.listener = listener

	// Set socket permissions
	if err := os.Chmod(s.socketPath, 0600); err != nil {
		listener.Close()
		return fmt.Errorf("failed to set socket permissions: %w", err)
	}

	s.logger.Info("IPC server listening", "socket", s.socketPath)

	s.wg.Add(1)
	go s.acceptLoop()
	return nil
}

func (s *Server) acceptLoop() {
	defer s.wg.Done()
	for {
		conn, err := s.listener.Accept()
		if err != nil {
			s.shutdownMu.Lock()
			shuttingDown := s.shuttingDown
			s.shutdownMu.Unlock()
			if shuttingDown {
				return
			}
			s.logger.Warn("IPC accept error", "error", err)
			continue
		}

		go s.handleConnection(conn)
	}
}

func (s *Server) handleConnection(conn net.Conn) {
	defer conn.Close()
	conn.SetDeadline(time.Now().Add(10 * time.Second))

	reader := bufio.NewReader(conn)

	// Read the request (expect JSON on a single line)
	data, err := reader.ReadBytes('\n')
	if err != nil && err != io.EOF {
		s.logger.Warn("IPC read error", "error", err)
		return
	}

	req, err := ParseRequest(data)
	if err != nil {
		s.sendError(conn, fmt.Sprintf("Invalid request: %v", err))
		return
	}

	resp := s.handleCommand(req)

	respData, err := resp.Marshal()
	if err != nil {
		s.logger.Warn("failed to marshal response", "error", err)
		return
	}

	respData = append(respData, '\n')
	if _, err := conn.Write(respData); err != nil {
		s.logger.Warn("failed to send response", "error", err)
	}
}

// handleCommand processes an IPC command and returns a response
func (s *Server) handleCommand(req *Request) *Response {
	s.logger.Debug("IPC command", "command", req.Command)

	switch req.Command {
	case CommandDock:
		return s.handleDock(req.Payload)
	case CommandUndock:
		return s.result(nil, s.ctrl.SetDocking(dock.Floating))
	case CommandToggle:
		return s.result(nil, s.ctrl.Toggle())
	case CommandClose:
		return s.result(nil, s.ctrl.Close())
	case CommandOpen:
		return s.result(nil, s.ctrl.Open())
	case CommandReload:
		return s.result(nil, s.ctrl.Reload())
	case CommandGetStatus:
		return s.handleGetStatus()
	case CommandGetMonitors:
		data, err := s.ctrl.Monitors()
		return s.result(data, err)
	case CommandGetRects:
		data, err := s.ctrl.Rects()
		return s.result(data, err)
	case CommandGetSettings:
		data, err := s.ctrl.Settings()
		return s.result(data, err)
	case CommandSetSettings:
		return s.handleSetSettings(req.Payload)
	default:
		return NewErrorResponse(fmt.Sprintf("Unknown command: %s", req.Command))
	}
}

func (s *Server) handleDock(payload json.RawMessage) *Response {
	var p DockPayload
	if err := json.Unmarshal(payload, &p); err != nil {
		return NewErrorResponse(fmt.Sprintf("Invalid payload: %v", err))
	}
	d, err := dock.ParseDocking(p.Docking)
	if err != nil {
		return NewErrorResponse(err.Error())
	}
	return s.result(nil, s.ctrl.SetDocking(d))
}

func (s *Server) handleGetStatus() *Response {
	status, err := s.ctrl.Status()
	if err != nil {
		return NewErrorResponse(fmt.Sprintf("Failed to get status: %v", err))
	}
	status.UptimeSeconds = int64(time.Since(s.startTime).Seconds())
	status.DaemonRunning = true
	return s.result(status, nil)
}

func (s *Server) handleSetSettings(payload json.RawMessage) *Response {
	var v settings.Values
	if err := json.Unmarshal(payload, &v); err != nil {
		return NewErrorResponse(fmt.Sprintf("Invalid payload: %v", err))
	}
	return s.result(nil, s.ctrl.ApplySettings(v))
}

func (s *Server) result(data any, err error) *Response {
	if err != nil {
		return NewErrorResponse(err.Error())
	}
	resp, err := NewOKResponse(data)
	if err != nil {
		return NewErrorResponse(err.Error())
	}
	return resp
}

// sendError sends an error response
func (s *Server) sendError(conn net.Conn, errMsg string) {
	resp := NewErrorResponse(errMsg)
	data, _ := resp.Marshal()
	data = append(data, '\n')
	conn.Write(data)
}

// Stop gracefully shuts down the IPC server
func (s *Server) Stop() {
	s.shutdownMu.Lock()
	s.shuttingDown = true
	s.shutdownMu.Unlock()

	if s.listener != nil {
		s.listener.Close()
		s.wg.Wait()
	}
	os.Remove(s.socketPath)
}
