package tui

import (
	"context"
	"errors"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/bubbledive/sparkmap/internal/dive"
	"github.com/bubbledive/sparkmap/internal/graph"
	"github.com/bubbledive/sparkmap/internal/insight"
	"github.com/bubbledive/sparkmap/internal/session"
)

type fakeBuilder struct {
	m   *session.Map
	err error

	buildCalls int
	diveCalls  int
	lastFresh  bool
}

func (f *fakeBuilder) BuildMap(ctx context.Context, topic string, fresh bool) (*session.Map, error) {
	f.buildCalls++
	f.lastFresh = fresh
	return f.m, f.err
}

func (f *fakeBuilder) Dive(ctx context.Context, dctx dive.Context) (*session.Map, error) {
	f.diveCalls++
	return f.m, f.err
}

func testMap(t *testing.T) *session.Map {
	t.Helper()
	tree := insight.Normalize(&insight.RawNode{
		Name:    "Tides",
		Tooltip: "Gravity moves the oceans.",
		Children: []*insight.RawNode{
			{Name: "Spring tides"},
			{Name: "Neap tides"},
		},
	}, 0)
	return &session.Map{
		Topic: "Tides",
		Tree:  tree,
		Graph: graph.Flatten(tree),
	}
}

func TestModelStartsLoading(t *testing.T) {
	m := New(&fakeBuilder{m: testMap(t)}, "Tides", false, dive.Options{})
	if m.state != stateLoading {
		t.Errorf("initial state = %v, want loading", m.state)
	}
	if !strings.Contains(m.View(), "Tides") {
		t.Errorf("loading view does not name the topic: %q", m.View())
	}
}

func TestModelShowsMapOnReady(t *testing.T) {
	m := New(&fakeBuilder{m: testMap(t)}, "Tides", false, dive.Options{})
	next, _ := m.Update(mapReadyMsg{m: testMap(t)})
	m = next.(Model)

	if m.state != stateMap {
		t.Fatalf("state = %v, want map", m.state)
	}
	view := m.View()
	for _, label := range []string{"Tides", "Spring", "Neap"} {
		if !strings.Contains(view, label) {
			t.Errorf("map view missing %q", label)
		}
	}
	if !strings.Contains(view, "dive") {
		t.Errorf("map view missing help footer")
	}
}

func TestModelShowsError(t *testing.T) {
	m := New(&fakeBuilder{}, "Tides", false, dive.Options{})
	next, _ := m.Update(mapErrMsg{err: errors.New("boom")})
	m = next.(Model)

	if m.state != stateError {
		t.Fatalf("state = %v, want error", m.state)
	}
	if !strings.Contains(m.View(), "boom") {
		t.Errorf("error view = %q", m.View())
	}
}

func TestFrameTicksSimulation(t *testing.T) {
	m := New(&fakeBuilder{}, "Tides", false, dive.Options{})
	next, _ := m.Update(mapReadyMsg{m: testMap(t)})
	m = next.(Model)

	before := m.sim.Alpha()
	next, cmd := m.Update(frameMsg{})
	m = next.(Model)
	if m.sim.Alpha() >= before {
		t.Errorf("alpha did not decay: %v -> %v", before, m.sim.Alpha())
	}
	if cmd == nil {
		t.Error("frame did not reschedule")
	}
}

func TestRegenerateKeyRequestsFreshBuild(t *testing.T) {
	builder := &fakeBuilder{m: testMap(t)}
	m := New(builder, "Tides", false, dive.Options{})
	next, _ := m.Update(mapReadyMsg{m: testMap(t)})
	m = next.(Model)

	next, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'g'}})
	m = next.(Model)
	if m.state != stateLoading {
		t.Fatalf("state = %v, want loading", m.state)
	}
	if cmd == nil {
		t.Fatal("no build command issued")
	}
}

func TestQuitKey(t *testing.T) {
	m := New(&fakeBuilder{}, "Tides", false, dive.Options{})
	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'q'}})
	if cmd == nil {
		t.Fatal("q produced no command")
	}
	if msg := cmd(); msg != tea.Quit() {
		t.Errorf("q produced %v, want quit", msg)
	}
}

func TestBackKeyPopsHistory(t *testing.T) {
	builder := &fakeBuilder{m: testMap(t)}
	m := New(builder, "Tides", false, dive.Options{})
	next, _ := m.Update(mapReadyMsg{m: testMap(t)})
	m = next.(Model)
	m.history = []string{"Oceans"}

	next, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'b'}})
	m = next.(Model)
	if m.state != stateLoading || len(m.history) != 0 {
		t.Fatalf("state = %v, history = %v", m.state, m.history)
	}
	if cmd == nil {
		t.Fatal("no build command issued")
	}
}

func TestCanvasDrawLabelCenters(t *testing.T) {
	cv := newCanvas(11, 5)
	cv.drawLabel(5, 2, []string{"abc"}, styleRoot)
	out := cv.String()
	lines := strings.Split(out, "\n")
	if !strings.Contains(lines[2], "abc") {
		t.Errorf("label not on center row: %q", lines[2])
	}
}

func TestCanvasDrawLineStaysInBounds(t *testing.T) {
	cv := newCanvas(10, 10)
	cv.drawLine(-5, -5, 20, 20)
	if !strings.Contains(cv.String(), "·") {
		t.Error("line drew nothing inside the grid")
	}
}

func TestCanvasBoxClampsToGrid(t *testing.T) {
	cv := newCanvas(20, 6)
	cv.drawBox(18, 5, []string{"tooltip text"}, styleTooltip)
	if !strings.Contains(cv.String(), "tooltip text") {
		t.Error("box content clipped instead of clamped")
	}
}
