package mcp

import (
	"context"
	"fmt"
	"strings"

	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/1broseidon/termdesk/internal/ipc"
)

func (s *Server) handleGetStatus(_ context.Context, _ *mcpsdk.CallToolRequest, _ GetStatusInput) (*mcpsdk.CallToolResult, GetStatusOutput, error) {
	st, err := s.desk.GetStatus()
	if err != nil {
		return nil, GetStatusOutput{}, err
	}
	return nil, GetStatusOutput{
		WindowCount:     st.WindowCount,
		MinimizedCount:  st.MinimizedCount,
		ActiveTitle:     st.ActiveTitle,
		Label:           st.Label,
		LauncherVisible: st.LauncherVisible,
		Dock:            st.Dock,
	}, nil
}

func (s *Server) handleListWindows(_ context.Context, _ *mcpsdk.CallToolRequest, _ ListWindowsInput) (*mcpsdk.CallToolResult, ListWindowsOutput, error) {
	data, err := s.desk.ListWindows()
	if err != nil {
		return nil, ListWindowsOutput{}, err
	}
	return nil, ListWindowsOutput{Windows: data.Windows, Active: data.Active}, nil
}

func (s *Server) handleCreateWindow(_ context.Context, _ *mcpsdk.CallToolRequest, args CreateWindowInput) (*mcpsdk.CallToolResult, WindowOutput, error) {
	title := strings.TrimSpace(args.Title)
	if title == "" {
		return nil, WindowOutput{}, fmt.Errorf("title is required")
	}
	if args.Width < 0 || args.Height < 0 {
		return nil, WindowOutput{}, fmt.Errorf("width and height must not be negative")
	}
	data, err := s.desk.CreateWindow(ipc.CreateWindowPayload{
		Title:  title,
		Width:  args.Width,
		Height: args.Height,
		Left:   args.Left,
		Top:    args.Top,
		Color:  args.Color,
		Icon:   args.Icon,
	})
	if err != nil {
		s.logger.Warn("create_window failed", "title", title, "error", err)
		return nil, WindowOutput{}, err
	}
	s.logger.Info("create_window", "title", data.Window.Title)
	return nil, WindowOutput{Window: data.Window}, nil
}

func (s *Server) handleWindowCommand(_ context.Context, _ *mcpsdk.CallToolRequest, args WindowCommandInput) (*mcpsdk.CallToolResult, WindowCommandOutput, error) {
	action := strings.ToLower(strings.TrimSpace(args.Action))
	if action == "" {
		return nil, WindowCommandOutput{}, fmt.Errorf("action is required")
	}
	p := ipc.CommandPayload{Action: action, Title: args.Title}
	if !p.IsMenuCommand() && requiresTitle(ipc.WindowAction(action)) && strings.TrimSpace(args.Title) == "" {
		return nil, WindowCommandOutput{}, fmt.Errorf("action %q requires a title", action)
	}
	if err := s.desk.Command(action, args.Title); err != nil {
		return nil, WindowCommandOutput{Action: action, Title: args.Title}, err
	}
	s.logger.Info("window_command", "action", action, "title", args.Title)
	return nil, WindowCommandOutput{Action: action, Title: args.Title, OK: true}, nil
}

// requiresTitle reports whether a window action targets a single window.
func requiresTitle(a ipc.WindowAction) bool {
	switch a {
	case ipc.ActionFocus, ipc.ActionMinimize, ipc.ActionRestore, ipc.ActionMaximize, ipc.ActionCloseOne:
		return true
	}
	return false
}

func (s *Server) handleListCatalog(_ context.Context, _ *mcpsdk.CallToolRequest, _ ListCatalogInput) (*mcpsdk.CallToolResult, ListCatalogOutput, error) {
	data, err := s.desk.ListCatalog()
	if err != nil {
		return nil, ListCatalogOutput{}, err
	}
	return nil, ListCatalogOutput{Entries: data.Entries}, nil
}

func (s *Server) handleLaunch(_ context.Context, _ *mcpsdk.CallToolRequest, args LaunchInput) (*mcpsdk.CallToolResult, WindowOutput, error) {
	if strings.TrimSpace(args.Title) == "" {
		return nil, WindowOutput{}, fmt.Errorf("title is required")
	}
	data, err := s.desk.Launch(args.Title)
	if err != nil {
		return nil, WindowOutput{}, err
	}
	s.logger.Info("launch", "entry", args.Title, "title", data.Window.Title)
	return nil, WindowOutput{Window: data.Window}, nil
}

func (s *Server) handleLauncher(_ context.Context, _ *mcpsdk.CallToolRequest, args LauncherInput) (*mcpsdk.CallToolResult, LauncherOutput, error) {
	var (
		data *ipc.LauncherData
		err  error
	)
	switch ipc.LauncherAction(strings.ToLower(strings.TrimSpace(args.Action))) {
	case "", ipc.LauncherToggle:
		data, err = s.desk.ToggleLauncher()
	case ipc.LauncherOpen:
		data, err = s.desk.OpenLauncher()
	case ipc.LauncherClose:
		data, err = s.desk.CloseLauncher()
	default:
		return nil, LauncherOutput{}, fmt.Errorf("unknown launcher action %q (want toggle, open or close)", args.Action)
	}
	if err != nil {
		return nil, LauncherOutput{}, err
	}
	return nil, LauncherOutput{Visible: data.Visible}, nil
}
