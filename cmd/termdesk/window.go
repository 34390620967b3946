package main

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/charmbracelet/huh"
	"golang.org/x/term"

	"github.com/1broseidon/termdesk/internal/focus"
	"github.com/1broseidon/termdesk/internal/ipc"
)

func runNew(args []string) int {
	fs := flag.NewFlagSet("new", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	title := fs.String("title", "", "Window title (prompted when omitted on a terminal)")
	width := fs.Int("width", 0, "Width in host units (default 600)")
	height := fs.Int("height", 0, "Height in host units (default 400)")
	left := fs.Int("left", 0, "Left edge (default: random placement)")
	top := fs.Int("top", 0, "Top edge (default: random placement)")
	color := fs.String("color", "", "Accent color name or #rrggbb")
	icon := fs.String("icon", "", "Icon glyph for tabs and the dock")
	asJSON := fs.Bool("json", false, "Print the created window as JSON")
	fs.Usage = func() {
		fmt.Fprintln(os.Stderr, "Usage: termdesk new [--title T] [--width W --height H] [--left X --top Y] [--color C] [--icon I]")
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "Create a window on the running desktop and focus it.")
		fs.PrintDefaults()
	}
	if err := fs.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return 0
		}
		return 2
	}
	if fs.NArg() != 0 {
		fs.Usage()
		return 2
	}

	p := ipc.CreateWindowPayload{
		Title:  strings.TrimSpace(*title),
		Width:  *width,
		Height: *height,
		Color:  *color,
		Icon:   *icon,
	}
	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "left":
			p.Left = left
		case "top":
			p.Top = top
		}
	})

	if p.Title == "" {
		if !term.IsTerminal(int(os.Stdin.Fd())) {
			fmt.Fprintln(os.Stderr, "new: --title is required")
			return 2
		}
		if err := promptWindow(&p); err != nil {
			if errors.Is(err, huh.ErrUserAborted) {
				return 1
			}
			fmt.Fprintln(os.Stderr, err)
			return 1
		}
	}
	if p.Width < 0 || p.Height < 0 {
		fmt.Fprintln(os.Stderr, "new: width and height must not be negative")
		return 2
	}

	data, err := ipc.NewClient().CreateWindow(p)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	if *asJSON {
		return printJSON(data)
	}
	g := data.Window.Geometry
	fmt.Printf("created %q %dx%d at %d,%d\n", data.Window.Title, g.Width, g.Height, g.Left, g.Top)
	return 0
}

// promptWindow asks for the fields of p that flags left empty.
func promptWindow(p *ipc.CreateWindowPayload) error {
	size := "600x400"
	if p.Width > 0 && p.Height > 0 {
		size = fmt.Sprintf("%dx%d", p.Width, p.Height)
	}
	color := p.Color
	if color == "" {
		color = "blue"
	}

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Key("title").
				Title("Title").
				Description("Shown in the title bar, tabs and the dock").
				Value(&p.Title).
				Validate(func(s string) error {
					if strings.TrimSpace(s) == "" {
						return errors.New("title is required")
					}
					return nil
				}),
			huh.NewInput().
				Key("size").
				Title("Size").
				Description("WIDTHxHEIGHT in host units; minimum 300x200").
				Value(&size).
				Validate(func(s string) error {
					_, _, err := parseSize(s)
					return err
				}),
			huh.NewSelect[string]().
				Key("color").
				Title("Color").
				Options(
					huh.NewOption("Blue", "blue"),
					huh.NewOption("Green", "green"),
					huh.NewOption("Cyan", "cyan"),
					huh.NewOption("Magenta", "magenta"),
					huh.NewOption("Yellow", "yellow"),
					huh.NewOption("Red", "red"),
				).
				Value(&color),
		),
	)
	if err := form.Run(); err != nil {
		return err
	}

	w, h, err := parseSize(size)
	if err != nil {
		return err
	}
	p.Title = strings.TrimSpace(p.Title)
	p.Width, p.Height = w, h
	p.Color = color
	return nil
}

// parseSize parses "WIDTHxHEIGHT".
func parseSize(s string) (int, int, error) {
	ws, hs, ok := strings.Cut(strings.ToLower(strings.TrimSpace(s)), "x")
	if !ok {
		return 0, 0, fmt.Errorf("invalid size %q (want WIDTHxHEIGHT)", s)
	}
	w, err := strconv.Atoi(strings.TrimSpace(ws))
	if err != nil {
		return 0, 0, fmt.Errorf("invalid width in %q", s)
	}
	h, err := strconv.Atoi(strings.TrimSpace(hs))
	if err != nil {
		return 0, 0, fmt.Errorf("invalid height in %q", s)
	}
	if w <= 0 || h <= 0 {
		return 0, 0, fmt.Errorf("size must be positive, got %q", s)
	}
	return w, h, nil
}

func runCmd(args []string) int {
	usage := func() {
		fmt.Fprintln(os.Stderr, "Usage: termdesk cmd <action> [title]")
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintf(os.Stderr, "Menu commands: %s\n", strings.Join(menuCommandNames(), ", "))
		names := make([]string, 0, len(ipc.WindowActions))
		for _, a := range ipc.WindowActions {
			names = append(names, string(a))
		}
		fmt.Fprintf(os.Stderr, "Window actions: %s\n", strings.Join(names, ", "))
	}
	if len(args) == 0 {
		usage()
		return 2
	}
	if args[0] == "-h" || args[0] == "--help" {
		usage()
		return 0
	}
	if len(args) > 2 {
		usage()
		return 2
	}

	action := strings.ToLower(strings.TrimSpace(args[0]))
	title := ""
	if len(args) == 2 {
		title = args[1]
	}
	if err := validateCommand(action, title); err != nil {
		fmt.Fprintln(os.Stderr, err)
		usage()
		return 2
	}

	if err := ipc.NewClient().Command(action, title); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	return 0
}

func menuCommandNames() []string {
	names := make([]string, 0, len(focus.Commands))
	for _, c := range focus.Commands {
		names = append(names, string(c))
	}
	return names
}

// validateCommand checks action locally so typos fail before touching the
// socket.
func validateCommand(action, title string) error {
	p := ipc.CommandPayload{Action: action, Title: title}
	if p.IsMenuCommand() {
		return nil
	}
	for _, a := range ipc.WindowActions {
		if ipc.WindowAction(action) != a {
			continue
		}
		switch a {
		case ipc.ActionClear, ipc.ActionResetZ:
			return nil
		}
		if strings.TrimSpace(title) == "" {
			return fmt.Errorf("action %q requires a title", action)
		}
		return nil
	}
	return fmt.Errorf("unknown action %q", action)
}

func runLauncher(args []string) int {
	action := ipc.LauncherToggle
	if len(args) > 1 {
		fmt.Fprintln(os.Stderr, "Usage: termdesk launcher [toggle|open|close]")
		return 2
	}
	if len(args) == 1 {
		action = ipc.LauncherAction(strings.ToLower(args[0]))
	}

	client := ipc.NewClient()
	var (
		data *ipc.LauncherData
		err  error
	)
	switch action {
	case ipc.LauncherToggle:
		data, err = client.ToggleLauncher()
	case ipc.LauncherOpen:
		data, err = client.OpenLauncher()
	case ipc.LauncherClose:
		data, err = client.CloseLauncher()
	case "-h", "--help":
		fmt.Fprintln(os.Stderr, "Usage: termdesk launcher [toggle|open|close]")
		return 0
	default:
		fmt.Fprintf(os.Stderr, "unknown launcher action %q\n", action)
		return 2
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	if data.Visible {
		fmt.Println("launcher: visible")
	} else {
		fmt.Println("launcher: hidden")
	}
	return 0
}

func runLaunch(args []string) int {
	if len(args) != 1 || strings.TrimSpace(args[0]) == "" {
		fmt.Fprintln(os.Stderr, "Usage: termdesk launch <title>")
		return 2
	}
	if args[0] == "-h" || args[0] == "--help" {
		fmt.Fprintln(os.Stderr, "Usage: termdesk launch <title>")
		return 0
	}
	data, err := ipc.NewClient().Launch(args[0])
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	fmt.Printf("launched %q\n", data.Window.Title)
	return 0
}
