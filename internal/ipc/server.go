package ipc

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net"
	"os"
	"strings"
	"sync"
	"time"
)

// requestTimeout bounds how long one request may wait on the desktop loop.
const requestTimeout = 5 * time.Second

// LauncherAction selects what a launcher command does.
type LauncherAction string

const (
	LauncherToggle LauncherAction = "toggle"
	LauncherOpen   LauncherAction = "open"
	LauncherClose  LauncherAction = "close"
)

// Desktop is the running desktop as seen by the IPC server. Every method
// runs on the desktop loop and returns once the operation has been applied.
type Desktop interface {
	Status(ctx context.Context) (StatusData, error)
	ListWindows(ctx context.Context) (WindowsData, error)
	ListCatalog(ctx context.Context) (CatalogData, error)
	CreateWindow(ctx context.Context, p CreateWindowPayload) (WindowData, error)
	Command(ctx context.Context, p CommandPayload) error
	LauncherCommand(ctx context.Context, action LauncherAction) (LauncherData, error)
	Launch(ctx context.Context, title string) (WindowData, error)
	Key(ctx context.Context, p KeyPayload) error
}

// Server handles IPC requests from clients
type Server struct {
	socketPath   string
	listener     net.Listener
	desk         Desktop
	logger       *slog.Logger
	startTime    time.Time
	shuttingDown bool
	shutdownMu   sync.Mutex
	wg           sync.WaitGroup
}

// NewServer creates a new IPC server bound to socketPath. A stale socket
// left by a previous run is removed.
func NewServer(socketPath string, desk Desktop, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	os.Remove(socketPath)

	return &Server{
		socketPath: socketPath,
		desk:       desk,
		logger:     logger,
		startTime:  time.Now(),
	}
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
			if s.shuttingDown {
				s.shutdownMu.Unlock()
				return
			}
			s.shutdownMu.Unlock()
			s.logger.Warn("IPC accept error", "err", err)
			continue
		}

		go s.handleConnection(conn)
	}
}

// handleConnection serves a single request/response exchange.
func (s *Server) handleConnection(conn net.Conn) {
	defer conn.Close()
	conn.SetDeadline(time.Now().Add(requestTimeout + time.Second))

	reader := bufio.NewReader(conn)

	data, err := reader.ReadBytes('\n')
	if err != nil && err != io.EOF {
		s.logger.Warn("IPC read error", "err", err)
		return
	}

	req, err := ParseRequest(data)
	if err != nil {
		s.sendError(conn, fmt.Sprintf("Invalid request: %v", err))
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
	defer cancel()
	resp := s.handleCommand(ctx, req)

	respData, err := resp.Marshal()
	if err != nil {
		s.logger.Error("failed to marshal response", "err", err)
		return
	}

	respData = append(respData, '\n')
	if _, err := conn.Write(respData); err != nil {
		s.logger.Warn("failed to send response", "err", err)
	}
}

// handleCommand processes an IPC command and returns a response
func (s *Server) handleCommand(ctx context.Context, req *Request) *Response {
	s.logger.Debug("IPC request", "command", string(req.Command))
	switch req.Command {
	case CommandGetStatus:
		return s.handleGetStatus(ctx)
	case CommandListWindows:
		return respond(s.desk.ListWindows(ctx))
	case CommandListCatalog:
		return respond(s.desk.ListCatalog(ctx))
	case CommandCreateWindow:
		return s.handleCreateWindow(ctx, req.Payload)
	case CommandWindow:
		return s.handleWindowCommand(ctx, req.Payload)
	case CommandToggleLauncher:
		return respond(s.desk.LauncherCommand(ctx, LauncherToggle))
	case CommandOpenLauncher:
		return respond(s.desk.LauncherCommand(ctx, LauncherOpen))
	case CommandCloseLauncher:
		return respond(s.desk.LauncherCommand(ctx, LauncherClose))
	case CommandLaunch:
		return s.handleLaunch(ctx, req.Payload)
	case CommandKey:
		return s.handleKey(ctx, req.Payload)
	default:
		return NewErrorResponse(fmt.Sprintf("Unknown command: %s", req.Command))
	}
}

func respond[T any](data T, err error) *Response {
	if err != nil {
		return NewErrorResponse(err.Error())
	}
	resp, err := NewOKResponse(data)
	if err != nil {
		return NewErrorResponse(err.Error())
	}
	return resp
}

func (s *Server) handleGetStatus(ctx context.Context) *Response {
	status, err := s.desk.Status(ctx)
	if err != nil {
		return NewErrorResponse(fmt.Sprintf("Failed to get status: %v", err))
	}
	status.UptimeSeconds = int64(time.Since(s.startTime).Seconds())
	status.Running = true
	return respond(status, nil)
}

func (s *Server) handleCreateWindow(ctx context.Context, payload json.RawMessage) *Response {
	var req CreateWindowPayload
	if err := json.Unmarshal(payload, &req); err != nil {
		return NewErrorResponse(fmt.Sprintf("Invalid create payload: %v", err))
	}
	if strings.TrimSpace(req.Title) == "" {
		return NewErrorResponse("title is required")
	}
	return respond(s.desk.CreateWindow(ctx, req))
}

func (s *Server) handleWindowCommand(ctx context.Context, payload json.RawMessage) *Response {
	var req CommandPayload
	if err := json.Unmarshal(payload, &req); err != nil {
		return NewErrorResponse(fmt.Sprintf("Invalid command payload: %v", err))
	}
	if req.Action == "" {
		return NewErrorResponse("action is required")
	}
	if err := s.desk.Command(ctx, req); err != nil {
		return NewErrorResponse(err.Error())
	}
	resp, _ := NewOKResponse(nil)
	return resp
}

func (s *Server) handleLaunch(ctx context.Context, payload json.RawMessage) *Response {
	var req LaunchPayload
	if err := json.Unmarshal(payload, &req); err != nil {
		return NewErrorResponse(fmt.Sprintf("Invalid launch payload: %v", err))
	}
	if req.Title == "" {
		return NewErrorResponse("title is required")
	}
	return respond(s.desk.Launch(ctx, req.Title))
}

func (s *Server) handleKey(ctx context.Context, payload json.RawMessage) *Response {
	var req KeyPayload
	if err := json.Unmarshal(payload, &req); err != nil {
		return NewErrorResponse(fmt.Sprintf("Invalid key payload: %v", err))
	}
	if req.Key == "" {
		return NewErrorResponse("key is required")
	}
	if err := s.desk.Key(ctx, req); err != nil {
		return NewErrorResponse(err.Error())
	}
	resp, _ := NewOKResponse(nil)
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
	if s.shuttingDown {
		s.shutdownMu.Unlock()
		return
	}
	s.shuttingDown = true
	s.shutdownMu.Unlock()

	if s.listener != nil {
		s.listener.Close()
		s.wg.Wait()
	}
	os.Remove(s.socketPath)
	s.logger.Info("IPC server stopped")
}
