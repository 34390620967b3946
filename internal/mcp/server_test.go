package mcp

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/1broseidon/termdesk/internal/desktop"
	"github.com/1broseidon/termdesk/internal/ipc"
	"github.com/1broseidon/termdesk/internal/launcher"
)

type fakeDesktop struct {
	windows  []desktop.WindowInfo
	commands []ipc.CommandPayload
	created  []ipc.CreateWindowPayload
	visible  bool
	err      error
}

func (f *fakeDesktop) GetStatus() (*ipc.StatusData, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &ipc.StatusData{WindowCount: len(f.windows), Label: "termdesk", Dock: []string{"Notes"}}, nil
}

func (f *fakeDesktop) ListWindows() (*ipc.WindowsData, error) {
	return &ipc.WindowsData{Windows: f.windows}, f.err
}

func (f *fakeDesktop) ListCatalog() (*ipc.CatalogData, error) {
	return &ipc.CatalogData{Entries: []launcher.Definition{{Title: "Clock", Width: 300, Height: 200}}}, nil
}

func (f *fakeDesktop) CreateWindow(p ipc.CreateWindowPayload) (*ipc.WindowData, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.created = append(f.created, p)
	info := desktop.WindowInfo{Title: p.Title, Geometry: desktop.Rect{Width: p.Width, Height: p.Height}}
	f.windows = append(f.windows, info)
	return &ipc.WindowData{Window: info}, nil
}

func (f *fakeDesktop) Command(action, title string) error {
	if f.err != nil {
		return f.err
	}
	f.commands = append(f.commands, ipc.CommandPayload{Action: action, Title: title})
	return nil
}

func (f *fakeDesktop) ToggleLauncher() (*ipc.LauncherData, error) {
	f.visible = !f.visible
	return &ipc.LauncherData{Visible: f.visible}, nil
}

func (f *fakeDesktop) OpenLauncher() (*ipc.LauncherData, error) {
	f.visible = true
	return &ipc.LauncherData{Visible: true}, nil
}

func (f *fakeDesktop) CloseLauncher() (*ipc.LauncherData, error) {
	f.visible = false
	return &ipc.LauncherData{Visible: false}, nil
}

func (f *fakeDesktop) Launch(title string) (*ipc.WindowData, error) {
	if title != "Clock" {
		return nil, launcher.ErrUnknownEntry
	}
	return f.CreateWindow(ipc.CreateWindowPayload{Title: title, Width: 300, Height: 200})
}

func intPtr(v int) *int { return &v }

func TestHandleCreateWindow(t *testing.T) {
	desk := &fakeDesktop{}
	s := NewServer(desk, nil)
	ctx := context.Background()

	_, out, err := s.handleCreateWindow(ctx, nil, CreateWindowInput{Title: " Alpha ", Width: 400, Height: 300, Left: intPtr(5)})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if out.Window.Title != "Alpha" {
		t.Fatalf("expected trimmed title, got %q", out.Window.Title)
	}
	if len(desk.created) != 1 || desk.created[0].Left == nil || *desk.created[0].Left != 5 || desk.created[0].Top != nil {
		t.Fatalf("unexpected payload %+v", desk.created)
	}

	tests := []struct {
		name string
		in   CreateWindowInput
	}{
		{"empty title", CreateWindowInput{Title: "  "}},
		{"negative width", CreateWindowInput{Title: "B", Width: -1}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, _, err := s.handleCreateWindow(ctx, nil, tt.in); err == nil {
				t.Fatal("expected validation error")
			}
		})
	}
}

func TestHandleWindowCommand(t *testing.T) {
	desk := &fakeDesktop{}
	s := NewServer(desk, nil)
	ctx := context.Background()

	tests := []struct {
		name    string
		in      WindowCommandInput
		wantErr string
	}{
		{"menu command without title", WindowCommandInput{Action: "Close-All"}, ""},
		{"window action with title", WindowCommandInput{Action: "minimize", Title: "Alpha"}, ""},
		{"clear focus without title", WindowCommandInput{Action: "clear-focus"}, ""},
		{"window action without title", WindowCommandInput{Action: "focus"}, "requires a title"},
		{"missing action", WindowCommandInput{}, "action is required"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, out, err := s.handleWindowCommand(ctx, nil, tt.in)
			if tt.wantErr != "" {
				if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
					t.Fatalf("expected error containing %q, got %v", tt.wantErr, err)
				}
				return
			}
			if err != nil || !out.OK {
				t.Fatalf("expected ok, got %+v %v", out, err)
			}
		})
	}

	if len(desk.commands) != 3 || desk.commands[0].Action != "close-all" {
		t.Fatalf("unexpected forwarded commands %+v", desk.commands)
	}
}

func TestHandleLaunchAndCatalog(t *testing.T) {
	desk := &fakeDesktop{}
	s := NewServer(desk, nil)
	ctx := context.Background()

	_, catalog, err := s.handleListCatalog(ctx, nil, ListCatalogInput{})
	if err != nil || len(catalog.Entries) != 1 {
		t.Fatalf("unexpected catalog %+v %v", catalog, err)
	}

	if _, _, err := s.handleLaunch(ctx, nil, LaunchInput{Title: "Nope"}); !errors.Is(err, launcher.ErrUnknownEntry) {
		t.Fatalf("expected ErrUnknownEntry, got %v", err)
	}
	_, out, err := s.handleLaunch(ctx, nil, LaunchInput{Title: "Clock"})
	if err != nil || out.Window.Geometry.Width != 300 {
		t.Fatalf("unexpected launch %+v %v", out, err)
	}

	_, list, err := s.handleListWindows(ctx, nil, ListWindowsInput{})
	if err != nil || len(list.Windows) != 1 {
		t.Fatalf("unexpected windows %+v %v", list, err)
	}
}

func TestHandleLauncher(t *testing.T) {
	desk := &fakeDesktop{}
	s := NewServer(desk, nil)
	ctx := context.Background()

	steps := []struct {
		action string
		want   bool
	}{
		{"", true},
		{"toggle", false},
		{"open", true},
		{"OPEN", true},
		{"close", false},
	}
	for _, st := range steps {
		_, out, err := s.handleLauncher(ctx, nil, LauncherInput{Action: st.action})
		if err != nil || out.Visible != st.want {
			t.Fatalf("action %q: expected visible=%v, got %+v %v", st.action, st.want, out, err)
		}
	}
	if _, _, err := s.handleLauncher(ctx, nil, LauncherInput{Action: "spin"}); err == nil {
		t.Fatal("expected unknown action error")
	}
}

func TestHandleGetStatusPropagatesErrors(t *testing.T) {
	desk := &fakeDesktop{err: errors.New("failed to connect to desktop")}
	s := NewServer(desk, nil)
	if _, _, err := s.handleGetStatus(context.Background(), nil, GetStatusInput{}); err == nil {
		t.Fatal("expected connection error")
	}

	desk.err = nil
	_, out, err := s.handleGetStatus(context.Background(), nil, GetStatusInput{})
	if err != nil || out.Label != "termdesk" || len(out.Dock) != 1 {
		t.Fatalf("unexpected status %+v %v", out, err)
	}
}
