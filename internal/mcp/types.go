package mcp

import (
	"github.com/1broseidon/termdesk/internal/desktop"
	"github.com/1broseidon/termdesk/internal/launcher"
)

// GetStatusInput is the input for the get_status tool.
type GetStatusInput struct{}

// GetStatusOutput is the output for the get_status tool.
type GetStatusOutput struct {
	WindowCount     int      `json:"window_count"`
	MinimizedCount  int      `json:"minimized_count"`
	ActiveTitle     string   `json:"active_title,omitempty"`
	Label           string   `json:"label"`
	LauncherVisible bool     `json:"launcher_visible"`
	Dock            []string `json:"dock"`
}

// ListWindowsInput is the input for the list_windows tool.
type ListWindowsInput struct{}

// ListWindowsOutput is the output for the list_windows tool.
type ListWindowsOutput struct {
	Windows []desktop.WindowInfo `json:"windows"`
	Active  string               `json:"active,omitempty"`
}

// CreateWindowInput is the input for the create_window tool.
type CreateWindowInput struct {
	Title  string `json:"title" jsonschema:"required,Window title; must be unique unless the desktop suffixes duplicates"`
	Width  int    `json:"width,omitempty" jsonschema:"Width in host units (default 600, minimum 300)"`
	Height int    `json:"height,omitempty" jsonschema:"Height in host units (default 400, minimum 200)"`
	Left   *int   `json:"left,omitempty" jsonschema:"Left edge; omitted means a random placement inside the host"`
	Top    *int   `json:"top,omitempty" jsonschema:"Top edge; omitted means a random placement inside the host"`
	Color  string `json:"color,omitempty" jsonschema:"Accent color name or #rrggbb"`
	Icon   string `json:"icon,omitempty" jsonschema:"Short icon glyph shown in tabs and the dock"`
}

// WindowOutput wraps a single window snapshot.
type WindowOutput struct {
	Window desktop.WindowInfo `json:"window"`
}

// WindowCommandInput is the input for the window_command tool.
type WindowCommandInput struct {
	Action string `json:"action" jsonschema:"required,One of new close minimize-all restore-all bring-to-front close-all focus minimize restore maximize close-window clear-focus reset-z"`
	Title  string `json:"title,omitempty" jsonschema:"Target window title for per-window actions"`
}

// WindowCommandOutput is the output for the window_command tool.
type WindowCommandOutput struct {
	Action string `json:"action"`
	Title  string `json:"title,omitempty"`
	OK     bool   `json:"ok"`
}

// ListCatalogInput is the input for the list_catalog tool.
type ListCatalogInput struct{}

// ListCatalogOutput is the output for the list_catalog tool.
type ListCatalogOutput struct {
	Entries []launcher.Definition `json:"entries"`
}

// LaunchInput is the input for the launch tool.
type LaunchInput struct {
	Title string `json:"title" jsonschema:"required,Exact catalog entry title"`
}

// LauncherInput is the input for the launcher tool.
type LauncherInput struct {
	Action string `json:"action,omitempty" jsonschema:"toggle (default), open or close"`
}

// LauncherOutput is the output for the launcher tool.
type LauncherOutput struct {
	Visible bool `json:"visible"`
}
