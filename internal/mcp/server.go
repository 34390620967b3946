// Package mcp exposes a running desktop as Model Context Protocol tools.
// Every tool forwards to the desktop over its IPC socket.
package mcp

import (
	"context"
	"log/slog"

	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/1broseidon/termdesk/internal/ipc"
	"github.com/1broseidon/termdesk/internal/logging"
)

const (
	ServerName    = "termdesk"
	ServerVersion = "0.1.0"
)

// Desktop is the subset of the IPC client the tools use.
type Desktop interface {
	GetStatus() (*ipc.StatusData, error)
	ListWindows() (*ipc.WindowsData, error)
	ListCatalog() (*ipc.CatalogData, error)
	CreateWindow(p ipc.CreateWindowPayload) (*ipc.WindowData, error)
	Command(action, title string) error
	ToggleLauncher() (*ipc.LauncherData, error)
	OpenLauncher() (*ipc.LauncherData, error)
	CloseLauncher() (*ipc.LauncherData, error)
	Launch(title string) (*ipc.WindowData, error)
}

var _ Desktop = (*ipc.Client)(nil)

// Server is the MCP server for desktop automation.
type Server struct {
	mcpServer *mcpsdk.Server
	desk      Desktop
	logger    *slog.Logger
}

// NewServer creates an MCP server that drives desk.
func NewServer(desk Desktop, logger *slog.Logger) *Server {
	if logger == nil {
		logger = logging.Discard()
	}
	s := &Server{desk: desk, logger: logger}
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

// Run serves on stdio until the client disconnects or ctx is done.
func (s *Server) Run(ctx context.Context) error {
	return s.mcpServer.Run(ctx, &mcpsdk.StdioTransport{})
}

func (s *Server) registerTools() {
	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "get_status",
		Description: "Summarize the desktop: window counts, the active window, the title bar label, whether the launcher is open and the docked (minimized) titles.",
	}, s.handleGetStatus)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "list_windows",
		Description: "List every live window in creation order with geometry, state (normal/minimized/maximized), z-index and whether it is active.",
	}, s.handleListWindows)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "create_window",
		Description: "Create and focus a window. Sizes below 300x200 are raised to the minimum. Omit left/top for a random placement inside the host.",
	}, s.handleCreateWindow)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "window_command",
		Description: "Run a window menu command (new, close, minimize-all, restore-all, bring-to-front, close-all) or a per-window action (focus, minimize, restore, maximize, close-window) on a title. Unknown titles are ignored.",
	}, s.handleWindowCommand)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "list_catalog",
		Description: "List the launcher catalog templates in order.",
	}, s.handleListCatalog)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "launch",
		Description: "Open a window from the catalog entry with the exact title, as if it were picked in the launcher.",
	}, s.handleLaunch)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "launcher",
		Description: "Toggle, open or close the launcher overlay.",
	}, s.handleLauncher)
}
