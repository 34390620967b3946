package ipc

import (
	"bufio"
	"encoding/json"
	"fmt"
	"net"
	"time"

	"github.com/1broseidon/termdesk/internal/runtimepath"
)

// Client handles IPC communication with a running desktop
type Client struct {
	socketPath string
	timeout    time.Duration
}

// NewClient creates a client for the default socket path.
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
		return nil, fmt.Errorf("failed to connect to desktop: %w (is termdesk running?)", err)
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

	if resp.Status == "ERROR" {
		return nil, fmt.Errorf("desktop error: %s", resp.Error)
	}

	return &resp, nil
}

func (c *Client) call(cmd CommandType, payload any, out any) error {
	req := &Request{Command: cmd}
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("failed to marshal payload: %w", err)
		}
		req.Payload = data
	}

	resp, err := c.sendRequest(req)
	if err != nil {
		return err
	}
	if out == nil {
		return nil
	}
	if err := json.Unmarshal(resp.Data, out); err != nil {
		return fmt.Errorf("failed to parse %s data: %w", cmd, err)
	}
	return nil
}

// GetStatus retrieves desktop status
func (c *Client) GetStatus() (*StatusData, error) {
	var status StatusData
	if err := c.call(CommandGetStatus, nil, &status); err != nil {
		return nil, err
	}
	return &status, nil
}

// ListWindows lists the live windows in creation order.
func (c *Client) ListWindows() (*WindowsData, error) {
	var data WindowsData
	if err := c.call(CommandListWindows, nil, &data); err != nil {
		return nil, err
	}
	return &data, nil
}

// ListCatalog lists the launcher catalog.
func (c *Client) ListCatalog() (*CatalogData, error) {
	var data CatalogData
	if err := c.call(CommandListCatalog, nil, &data); err != nil {
		return nil, err
	}
	return &data, nil
}

// CreateWindow creates a window and returns it as registered.
func (c *Client) CreateWindow(p CreateWindowPayload) (*WindowData, error) {
	var data WindowData
	if err := c.call(CommandCreateWindow, p, &data); err != nil {
		return nil, err
	}
	return &data, nil
}

// Command runs a menu command or a per-window action.
func (c *Client) Command(action, title string) error {
	return c.call(CommandWindow, CommandPayload{Action: action, Title: title}, nil)
}

// ToggleLauncher shows or hides the launcher.
func (c *Client) ToggleLauncher() (*LauncherData, error) {
	return c.launcher(CommandToggleLauncher)
}

// OpenLauncher shows the launcher.
func (c *Client) OpenLauncher() (*LauncherData, error) {
	return c.launcher(CommandOpenLauncher)
}

// CloseLauncher hides the launcher.
func (c *Client) CloseLauncher() (*LauncherData, error) {
	return c.launcher(CommandCloseLauncher)
}

func (c *Client) launcher(cmd CommandType) (*LauncherData, error) {
	var data LauncherData
	if err := c.call(cmd, nil, &data); err != nil {
		return nil, err
	}
	return &data, nil
}

// Launch creates a window from the catalog entry with the given title.
func (c *Client) Launch(title string) (*WindowData, error) {
	var data WindowData
	if err := c.call(CommandLaunch, LaunchPayload{Title: title}, &data); err != nil {
		return nil, err
	}
	return &data, nil
}

// Key forwards a key transition to the launcher trigger.
func (c *Client) Key(key string, down bool) error {
	return c.call(CommandKey, KeyPayload{Key: key, Down: down}, nil)
}

// Ping checks if the desktop is responding
func (c *Client) Ping() error {
	_, err := c.GetStatus()
	return err
}
