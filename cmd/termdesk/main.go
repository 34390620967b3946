package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/1broseidon/termdesk/internal/app"
	"github.com/1broseidon/termdesk/internal/config"
	"github.com/1broseidon/termdesk/internal/ipc"
	"github.com/1broseidon/termdesk/internal/logging"
	"github.com/1broseidon/termdesk/internal/runtimepath"
	"github.com/1broseidon/termdesk/internal/tui"
)

func main() {
	if len(os.Args) < 2 {
		printMainUsage(os.Stdout)
		os.Exit(0)
	}

	switch os.Args[1] {
	case "run":
		os.Exit(runDesktop(os.Args[2:]))
	case "status":
		os.Exit(runStatus(os.Args[2:]))
	case "windows":
		os.Exit(runWindows(os.Args[2:]))
	case "new":
		os.Exit(runNew(os.Args[2:]))
	case "cmd":
		os.Exit(runCmd(os.Args[2:]))
	case "launcher":
		os.Exit(runLauncher(os.Args[2:]))
	case "launch":
		os.Exit(runLaunch(os.Args[2:]))
	case "config":
		os.Exit(runConfig(os.Args[2:]))
	case "mcp":
		os.Exit(runMCP(os.Args[2:]))
	case "hotkeys":
		os.Exit(runHotkeys(os.Args[2:]))
	case "help", "-h", "--help":
		printMainUsage(os.Stdout)
		os.Exit(0)
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", os.Args[1])
		printMainUsage(os.Stderr)
		os.Exit(2)
	}
}

func printMainUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: termdesk <command> [options]")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "Commands:")
	fmt.Fprintln(w, "  run                 Start the desktop in this terminal")
	fmt.Fprintln(w, "  status              Show desktop status")
	fmt.Fprintln(w, "  windows             List windows")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "  new                 Create a window")
	fmt.Fprintln(w, "  cmd <action> [title]")
	fmt.Fprintln(w, "                      Run a menu command or window action")
	fmt.Fprintln(w, "  launcher [toggle|open|close]")
	fmt.Fprintln(w, "                      Show or hide the launcher")
	fmt.Fprintln(w, "  launch <title>      Open a catalog entry")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "  config validate     Validate configuration")
	fmt.Fprintln(w, "  config print        Print configuration")
	fmt.Fprintln(w, "  config explain      Explain a config value")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "  mcp serve           Start MCP server (stdio transport)")
	fmt.Fprintln(w, "  hotkeys             Grab global launcher keys (X11)")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "Run 'termdesk <command> --help' for command-specific options.")
}

// loadConfig loads path, or the default location when path is empty.
func loadConfig(path string) (*config.LoadResult, error) {
	if path == "" {
		return config.LoadWithSources()
	}
	return config.LoadFromPath(path)
}

func runDesktop(args []string) int {
	fs := flag.NewFlagSet("run", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	path := fs.String("path", "", "Config file path (default: ~/.config/termdesk/config.yaml)")
	socket := fs.String("socket", "", "IPC socket path (default: $XDG_RUNTIME_DIR/termdesk.sock)")
	fs.Usage = func() {
		fmt.Fprintln(os.Stderr, "Usage: termdesk run [--path PATH] [--socket PATH]")
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "Start the desktop in this terminal and serve IPC on the socket.")
		fs.PrintDefaults()
	}
	if err := fs.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return 0
		}
		return 2
	}
	if fs.NArg() != 0 {
		fmt.Fprintln(os.Stderr, "run takes no arguments")
		return 2
	}

	res, err := loadConfig(*path)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	cfg := res.Config

	socketPath := *socket
	if socketPath == "" {
		if socketPath, err = runtimepath.SocketPath(); err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 1
		}
	}
	if err := ipc.NewClientAt(socketPath).Ping(); err == nil {
		fmt.Fprintf(os.Stderr, "termdesk is already running (socket %s)\n", socketPath)
		return 1
	}

	logger, closer, err := logging.New(cfg.Logging)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to open log: %v\n", err)
		return 1
	}
	defer closer.Close()

	sess := app.New(app.Options{Config: cfg, Logger: logger})
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	done := make(chan struct{})
	go func() {
		defer close(done)
		sess.Run(ctx)
	}()
	defer func() {
		sess.Close()
		<-done
	}()

	server := ipc.NewServer(socketPath, sess, logger.With("component", "ipc"))
	if err := server.Start(); err != nil {
		fmt.Fprintf(os.Stderr, "failed to start IPC server: %v\n", err)
		return 1
	}
	defer server.Stop()
	logger.Info("termdesk started", "socket", socketPath, "config_files", res.Files)

	if err := tui.Run(sess); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	return 0
}

func runStatus(args []string) int {
	fs := flag.NewFlagSet("status", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	asJSON := fs.Bool("json", false, "Print JSON")
	fs.Usage = func() {
		fmt.Fprintln(os.Stderr, "Usage: termdesk status [--json]")
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "Show desktop status via IPC.")
	}
	if err := fs.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return 0
		}
		return 2
	}
	if fs.NArg() != 0 {
		fmt.Fprintln(os.Stderr, "status takes no arguments")
		fs.Usage()
		return 2
	}

	status, err := ipc.NewClient().GetStatus()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	if *asJSON {
		return printJSON(status)
	}
	printStatus(os.Stdout, status)
	return 0
}

func printStatus(w io.Writer, status *ipc.StatusData) {
	fmt.Fprintf(w, "running:          %v\n", status.Running)
	fmt.Fprintf(w, "label:            %s\n", status.Label)
	fmt.Fprintf(w, "active:           %s\n", status.ActiveTitle)
	fmt.Fprintf(w, "windows:          %d (%d minimized)\n", status.WindowCount, status.MinimizedCount)
	fmt.Fprintf(w, "dock:             %s\n", strings.Join(status.Dock, ", "))
	fmt.Fprintf(w, "launcher_visible: %v\n", status.LauncherVisible)
	fmt.Fprintf(w, "host:             %dx%d\n", status.Host.Width, status.Host.Height)
	fmt.Fprintf(w, "uptime_seconds:   %d\n", status.UptimeSeconds)
}

func runWindows(args []string) int {
	fs := flag.NewFlagSet("windows", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	asJSON := fs.Bool("json", false, "Print JSON")
	if err := fs.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return 0
		}
		return 2
	}

	data, err := ipc.NewClient().ListWindows()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	if *asJSON {
		return printJSON(data)
	}
	fmt.Println(windowsTable(data))
	return 0
}

// windowsTable renders windows in creation order, marking the active one.
func windowsTable(data *ipc.WindowsData) string {
	if len(data.Windows) == 0 {
		return "no windows"
	}
	rows := make([][]string, 0, len(data.Windows))
	for _, w := range data.Windows {
		mark := ""
		if w.Title == data.Active {
			mark = "*"
		}
		g := w.Geometry
		rows = append(rows, []string{
			mark,
			w.Title,
			w.StateName,
			fmt.Sprintf("%dx%d", g.Width, g.Height),
			fmt.Sprintf("%d,%d", g.Left, g.Top),
			fmt.Sprint(w.ZIndex),
		})
	}
	return table.New().
		Border(lipgloss.NormalBorder()).
		Headers("", "TITLE", "STATE", "SIZE", "POSITION", "Z").
		Rows(rows...).
		String()
}

func printJSON(v any) int {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	fmt.Println(string(out))
	return 0
}

func formatSource(src config.Source) string {
	switch src.Kind {
	case config.SourceFile:
		if src.File == "" {
			return "file"
		}
		if src.Line > 0 {
			return fmt.Sprintf("file:%s:%d:%d", src.File, src.Line, src.Column)
		}
		return "file:" + src.File
	case config.SourceBuiltin:
		if src.Name != "" {
			return "builtin:" + src.Name
		}
		return "builtin"
	case config.SourceDefault:
		if src.Name != "" {
			return "default:" + src.Name
		}
		return "default"
	default:
		return string(src.Kind)
	}
}
