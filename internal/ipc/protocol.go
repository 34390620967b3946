package ipc

import (
	"encoding/json"
	"fmt"

	"github.com/1broseidon/termdesk/internal/desktop"
	"github.com/1broseidon/termdesk/internal/focus"
	"github.com/1broseidon/termdesk/internal/launcher"
)

// CommandType represents different IPC command types
type CommandType string

const (
	CommandGetStatus      CommandType = "GET_STATUS"
	CommandListWindows    CommandType = "LIST_WINDOWS"
	CommandListCatalog    CommandType = "LIST_CATALOG"
	CommandCreateWindow   CommandType = "CREATE_WINDOW"
	CommandWindow         CommandType = "COMMAND"
	CommandToggleLauncher CommandType = "TOGGLE_LAUNCHER"
	CommandOpenLauncher   CommandType = "OPEN_LAUNCHER"
	CommandCloseLauncher  CommandType = "CLOSE_LAUNCHER"
	CommandLaunch         CommandType = "LAUNCH"
	CommandKey            CommandType = "KEY"
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

// StatusData represents the data returned by GET_STATUS
type StatusData struct {
	WindowCount     int          `json:"window_count"`
	MinimizedCount  int          `json:"minimized_count"`
	ActiveTitle     string       `json:"active_title,omitempty"`
	Label           string       `json:"label"`
	LauncherVisible bool         `json:"launcher_visible"`
	Dock            []string     `json:"dock"`
	Host            desktop.Rect `json:"host"`
	UptimeSeconds   int64        `json:"uptime_seconds"`
	Running         bool         `json:"running"`
}

// WindowsData represents the data returned by LIST_WINDOWS
type WindowsData struct {
	Windows []desktop.WindowInfo `json:"windows"`
	Active  string               `json:"active,omitempty"`
}

// CatalogData represents the data returned by LIST_CATALOG
type CatalogData struct {
	Entries []launcher.Definition `json:"entries"`
}

// CreateWindowPayload is the payload for CREATE_WINDOW. Zero width or
// height uses the default frame; a nil position is placed like a launcher
// selection.
type CreateWindowPayload struct {
	Title  string `json:"title"`
	Width  int    `json:"width,omitempty"`
	Height int    `json:"height,omitempty"`
	Left   *int   `json:"left,omitempty"`
	Top    *int   `json:"top,omitempty"`
	Color  string `json:"color,omitempty"`
	Icon   string `json:"icon,omitempty"`
}

// WindowAction names a COMMAND action. The six menu commands act on the
// whole desktop; the rest target Title.
type WindowAction string

const (
	ActionFocus    WindowAction = "focus"
	ActionMinimize WindowAction = "minimize"
	ActionRestore  WindowAction = "restore"
	ActionMaximize WindowAction = "maximize"
	ActionCloseOne WindowAction = "close-window"
	ActionClear    WindowAction = "clear-focus"
	ActionResetZ   WindowAction = "reset-z"
)

// WindowActions lists the per-window and housekeeping actions accepted
// besides the menu commands.
var WindowActions = []WindowAction{
	ActionFocus,
	ActionMinimize,
	ActionRestore,
	ActionMaximize,
	ActionCloseOne,
	ActionClear,
	ActionResetZ,
}

// CommandPayload is the payload for COMMAND.
type CommandPayload struct {
	Action string `json:"action"`
	Title  string `json:"title,omitempty"`
}

// IsMenuCommand reports whether action is one of the menu commands.
func (p CommandPayload) IsMenuCommand() bool {
	_, err := focus.ParseCommand(p.Action)
	return err == nil
}

// LaunchPayload is the payload for LAUNCH.
type LaunchPayload struct {
	Title string `json:"title"`
}

// KeyPayload is the payload for KEY: a key transition observed outside the
// host surface, fed to the launcher trigger.
type KeyPayload struct {
	Key  string `json:"key"`
	Down bool   `json:"down"`
}

// WindowData wraps a single window in responses.
type WindowData struct {
	Window desktop.WindowInfo `json:"window"`
}

// LauncherData reports launcher visibility after a launcher command.
type LauncherData struct {
	Visible bool `json:"visible"`
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
