package main

import (
	"flag"
	"fmt"
	"os"
	"os/signal"
	"runtime"
	"syscall"

	"github.com/1broseidon/termdesk/internal/hotkeys"
	"github.com/1broseidon/termdesk/internal/ipc"
	"github.com/1broseidon/termdesk/internal/logging"
	"github.com/1broseidon/termdesk/internal/x11"
)

// runHotkeys grabs the global launcher keys on the X display and forwards
// them to the running desktop. Terminals cannot report a bare modifier
// press, so the dwell trigger needs this helper.
func runHotkeys(args []string) int {
	fs := flag.NewFlagSet("hotkeys", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	path := fs.String("path", "", "Config file path (default: ~/.config/termdesk/config.yaml)")
	noModifier := fs.Bool("no-modifier", false, "Only grab the toggle key, not the dwell modifier")
	fs.Usage = func() {
		fmt.Fprintln(os.Stderr, "Usage: termdesk hotkeys [--path PATH] [--no-modifier]")
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "Grab launcher.global_toggle_key and launcher.modifier_key on X11.")
		fs.PrintDefaults()
	}
	if err := fs.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return 0
		}
		return 2
	}

	res, err := loadConfig(*path)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	cfg := res.Config

	logger, closer, err := logging.New(cfg.Logging)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to open log: %v\n", err)
		return 1
	}
	defer closer.Close()

	client := ipc.NewClient()
	if err := client.Ping(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}

	conn, err := x11.NewConnection(x11.Options{Display: cfg.Display, XAuthority: cfg.XAuthority})
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to connect to X11: %v\n", err)
		return 1
	}
	defer conn.Close()

	handler := hotkeys.NewHandler(conn, client, logger.With("component", "hotkeys"))
	if cfg.Launcher.GlobalToggleKey != "" {
		if err := handler.RegisterToggle(cfg.Launcher.GlobalToggleKey); err != nil {
			fmt.Fprintf(os.Stderr, "failed to grab %s: %v\n", cfg.Launcher.GlobalToggleKey, err)
			return 1
		}
	}
	if !*noModifier && cfg.Launcher.ModifierKey != "" {
		if err := handler.RegisterModifier(cfg.Launcher.ModifierKey, runtime.GOOS); err != nil {
			fmt.Fprintf(os.Stderr, "failed to grab modifier %s: %v\n", cfg.Launcher.ModifierKey, err)
			return 1
		}
	}

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		conn.Quit()
	}()

	logger.Info("hotkeys active", "toggle", cfg.Launcher.GlobalToggleKey, "modifier", cfg.Launcher.ModifierKey)
	fmt.Fprintf(os.Stderr, "termdesk hotkeys active (toggle %s). Ctrl+C to stop.\n", cfg.Launcher.GlobalToggleKey)
	conn.EventLoop()
	return 0
}
