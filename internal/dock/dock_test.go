package dock

import (
	"math/rand/v2"
	"sort"
	"testing"

	"github.com/1broseidon/termdesk/internal/desktop"
)

type fakeOpener struct{ shown int }

func (f *fakeOpener) Show() { f.shown++ }

func newRegistry(t *testing.T) *desktop.Registry {
	t.Helper()
	return desktop.NewRegistry(desktop.Options{Host: desktop.Rect{Width: 1280, Height: 800}})
}

func create(t *testing.T, reg *desktop.Registry, title string) *desktop.Window {
	t.Helper()
	w, err := reg.CreateWindow(title, 400, 300, 50, 50, "")
	if err != nil {
		t.Fatalf("CreateWindow(%q): %v", title, err)
	}
	return w
}

// assertMirrors checks that the dock holds exactly the minimized windows.
func assertMirrors(t *testing.T, reg *desktop.Registry, d *Dock) {
	t.Helper()
	var want, got []string
	for _, w := range reg.Windows() {
		if w.State() == desktop.StateMinimized {
			want = append(want, w.Title())
		}
	}
	for _, e := range d.Entries() {
		got = append(got, e.Title)
	}
	sort.Strings(want)
	sort.Strings(got)
	if len(want) != len(got) {
		t.Fatalf("dock %v does not match minimized set %v", got, want)
	}
	for i := range want {
		if want[i] != got[i] {
			t.Fatalf("dock %v does not match minimized set %v", got, want)
		}
	}
}

func TestMinimizeAndRestoreThroughDock(t *testing.T) {
	reg := newRegistry(t)
	d, detach := Attach(reg, nil, nil)
	defer detach()

	alpha := create(t, reg, "Alpha")
	alpha.SetIcon("A")
	create(t, reg, "Beta")

	reg.Minimize(alpha)
	if !d.Has("Alpha") || d.Len() != 1 {
		t.Fatalf("expected dock to contain only Alpha, got %v", d.Entries())
	}
	if d.Entries()[0].Icon != "A" {
		t.Fatalf("expected icon to travel with the entry, got %q", d.Entries()[0].Icon)
	}

	d.Activate("Alpha")
	if reg.ActiveTitle() != "Alpha" {
		t.Fatalf("expected Alpha active, got %q", reg.ActiveTitle())
	}
	if d.Len() != 0 {
		t.Fatalf("expected empty dock, got %v", d.Entries())
	}
}

func TestDockMirrorsMinimizedSet(t *testing.T) {
	reg := newRegistry(t)
	d, detach := Attach(reg, nil, nil)
	defer detach()

	titles := []string{"A", "B", "C", "D"}
	for _, title := range titles {
		create(t, reg, title)
	}

	rng := rand.New(rand.NewPCG(1, 2))
	for i := 0; i < 200; i++ {
		title := titles[rng.IntN(len(titles))]
		w, ok := reg.Window(title)
		switch op := rng.IntN(7); {
		case !ok:
			create(t, reg, title)
		case op == 0:
			reg.Minimize(w)
		case op == 1:
			reg.Restore(w)
		case op == 2:
			d.Activate(title)
		case op == 3:
			_ = reg.ToggleMaximize(w)
		case op == 4:
			reg.Close(w)
		case op == 5:
			reg.MinimizeAll()
		default:
			reg.RestoreAll()
		}
		assertMirrors(t, reg, d)
	}
}

func TestCloseAllEmptiesDock(t *testing.T) {
	reg := newRegistry(t)
	d, detach := Attach(reg, nil, nil)
	defer detach()

	create(t, reg, "A")
	create(t, reg, "B")
	reg.MinimizeAll()
	if d.Len() != 2 {
		t.Fatalf("expected 2 entries, got %d", d.Len())
	}
	reg.CloseAll()
	if d.Len() != 0 || reg.Len() != 0 {
		t.Fatalf("expected registry and dock empty, got %d windows and %d entries", reg.Len(), d.Len())
	}
}

func TestAttachPicksUpExistingMinimized(t *testing.T) {
	reg := newRegistry(t)
	w := create(t, reg, "Early")
	reg.Minimize(w)

	d, detach := Attach(reg, nil, nil)
	defer detach()
	if !d.Has("Early") {
		t.Fatal("expected dock to start with already minimized windows")
	}
}

func TestEntriesAreIdempotentAndOrdered(t *testing.T) {
	d := New(nil, nil, nil)
	d.AddEntry("A", "1")
	d.AddEntry("B", "2")
	d.AddEntry("A", "3")
	d.RemoveEntry("missing")

	entries := d.Entries()
	if len(entries) != 2 || entries[0].Title != "A" || entries[1].Title != "B" {
		t.Fatalf("unexpected entries %v", entries)
	}
	if entries[0].Icon != "3" {
		t.Fatalf("expected updated icon, got %q", entries[0].Icon)
	}

	d.RemoveEntry("A")
	d.RemoveEntry("A")
	if d.Len() != 1 {
		t.Fatalf("expected 1 entry, got %d", d.Len())
	}
}

func TestCreateOpensLauncher(t *testing.T) {
	reg := newRegistry(t)
	opener := &fakeOpener{}
	d, detach := Attach(reg, opener, nil)
	defer detach()

	d.Create()
	if opener.shown != 1 {
		t.Fatalf("expected launcher to open once, got %d", opener.shown)
	}
	if reg.Len() != 0 {
		t.Fatal("create action must not create a window by itself")
	}
	if !d.Visible() {
		t.Fatal("expected dock to stay visible with no windows")
	}
}

func TestActivateUnknownIsNoop(t *testing.T) {
	reg := newRegistry(t)
	d, detach := Attach(reg, nil, nil)
	defer detach()

	a := create(t, reg, "A")
	d.Activate("ghost")
	d.ActivateIndex(3)
	d.ActivateIndex(-1)
	if !a.Active() {
		t.Fatal("unknown activation changed focus")
	}
}

func TestActivateIndex(t *testing.T) {
	reg := newRegistry(t)
	d, detach := Attach(reg, nil, nil)
	defer detach()

	a := create(t, reg, "A")
	b := create(t, reg, "B")
	reg.Minimize(a)
	reg.Minimize(b)

	d.ActivateIndex(1)
	if b.State() != desktop.StateNormal || !b.Active() {
		t.Fatal("expected second entry (B) to be restored and focused")
	}
	if !d.Has("A") || d.Has("B") {
		t.Fatalf("unexpected dock entries %v", d.Entries())
	}
}
