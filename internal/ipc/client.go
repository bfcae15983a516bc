package ipc

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"time"

	"github.com/1broseidon/tbsim/internal/runtimepath"
	"github.com/1broseidon/tbsim/internal/settings"
)

// Client handles IPC communication with the daemon
type Client struct {
	socketPath string
	timeout    time.Duration
}

// ErrDaemonUnreachable means no daemon accepted the connection.
var ErrDaemonUnreachable = errors.New("failed to connect to daemon")

// NewClient creates a new IPC client
func NewClient() *Client {
	socketPath, err := runtimepath.SocketPath()
	if err != nil {
		// Keep constructor non-failing; sendRequest surfaces connection errors.
		socketPath = ""
	}
	return NewClientAt(socketPath)
}

// NewClientAt creates a client for an explicit socket path.
func NewClientAt(socketPath string) *Client {
	return &Client{
		socketPath: socketPath,
		timeout:    5 * time.Second,
	}
}

// sendRequest sends a request and waits for a response
func (c *Client) sendRequest(req *Request) (*Response, error) {
	conn, err := net.DialTimeout("unix", c.socketPath, c.timeout)
	if err != nil {
		return nil, fmt.Errorf("%w: %v (is the daemon running?)", ErrDaemonUnreachable, err)
	}
	defer conn.Close()

	conn.SetDeadline(time.Now().Add(c.timeout))

	reqData, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	reqData = append(reqData, '\n')
	if _, err := conn.Write(reqData); err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}

	reader := bufio.NewReader(conn)
	respData, err := reader.ReadBytes('\n')
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	var resp Response
	if err := json.Unmarshal(respData, &resp); err != nil {
		return nil, fmt.Errorf("failed to parse response: %w", err)
	}

	// Check for error response
	if resp.Status == "ERROR" {
		return nil, fmt.Errorf("daemon error: %s", resp.Error)
	}

	return &resp, nil
}

func (c *Client) send(cmd CommandType, payload any) (*Response, error) {
	req := &Request{Command: cmd}
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal payload: %w", err)
		}
		req.Payload = data
	}
	return c.sendRequest(req)
}

func (c *Client) fetch(cmd CommandType, out any) error {
	resp, err := c.send(cmd, nil)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(resp.Data, out); err != nil {
		return fmt.Errorf("failed to parse %s data: %w", cmd, err)
	}
	return nil
}

// Dock docks the window to "top" or "bottom", or undocks it with "floating".
func (c *Client) Dock(docking string) error {
	_, err := c.send(CommandDock, DockPayload{Docking: docking})
	return err
}

func (c *Client) Undock() error {
	_, err := c.send(CommandUndock, nil)
	return err
}

// Toggle cycles floating, top and bottom.
func (c *Client) Toggle() error {
	_, err := c.send(CommandToggle, nil)
	return err
}

func (c *Client) Close() error {
	_, err := c.send(CommandClose, nil)
	return err
}

func (c *Client) Open() error {
	_, err := c.send(CommandOpen, nil)
	return err
}

// Reload sends a RELOAD command to the daemon
func (c *Client) Reload() error {
	_, err := c.send(CommandReload, nil)
	return err
}

// GetStatus retrieves daemon status
func (c *Client) GetStatus() (*StatusData, error) {
	var status StatusData
	if err := c.fetch(CommandGetStatus, &status); err != nil {
		return nil, err
	}
	return &status, nil
}

// GetMonitors retrieves monitor information
func (c *Client) GetMonitors() (*MonitorsData, error) {
	var monitors MonitorsData
	if err := c.fetch(CommandGetMonitors, &monitors); err != nil {
		return nil, err
	}
	return &monitors, nil
}

// GetRects retrieves the current destination and detection rectangles.
func (c *Client) GetRects() (*RectsData, error) {
	var rects RectsData
	if err := c.fetch(CommandGetRects, &rects); err != nil {
		return nil, err
	}
	return &rects, nil
}

func (c *Client) GetSettings() (*settings.Values, error) {
	var v settings.Values
	if err := c.fetch(CommandGetSettings, &v); err != nil {
		return nil, err
	}
	return &v, nil
}

func (c *Client) SetSettings(v settings.Values) error {
	_, err := c.send(CommandSetSettings, v)
	return err
}

// Ping checks if the daemon is responding
func (c *Client) Ping() error {
	_, err := c.GetStatus()
	return err
}
