package session

import (
	"context"
	"errors"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/bubbledive/sparkmap/internal/dive"
	"github.com/bubbledive/sparkmap/internal/insight"
	"github.com/bubbledive/sparkmap/internal/layout"
	"github.com/bubbledive/sparkmap/internal/openai"
	"github.com/bubbledive/sparkmap/internal/outline"
)

// fakeGenerator returns canned text and records calls.
type fakeGenerator struct {
	text      string
	citations []insight.Citation
	condensed string
	err       error

	generateCalls int
	condenseCalls int
	lastTopic     string
}

func (f *fakeGenerator) GenerateMap(ctx context.Context, topic, extra string) (*openai.MapResult, error) {
	f.generateCalls++
	f.lastTopic = topic
	if f.err != nil {
		return nil, f.err
	}
	return &openai.MapResult{Text: f.text, Citations: f.citations}, nil
}

func (f *fakeGenerator) CondenseTopic(ctx context.Context, dctx dive.Context) (string, error) {
	f.condenseCalls++
	if f.err != nil {
		return "", f.err
	}
	return f.condensed, nil
}

const treeText = "Here is your map.\n```json\n" +
	`{"name": "Tides", "tooltip": "Gravity moves the oceans.", "children": [
		{"name": "Spring tides", "children": [{"name": "Alignment"}]},
		{"name": "Neap tides", "children": [{"name": "Right angles"}]}
	]}` + "\n```"

func newTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := OpenStore(filepath.Join(t.TempDir(), "cache.db"))
	if err != nil {
		t.Fatalf("OpenStore failed: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func TestTopicKeyNormalizes(t *testing.T) {
	if NormalizeTopic("  How Tides Work  ") != "how tides work" {
		t.Errorf("NormalizeTopic = %q", NormalizeTopic("  How Tides Work  "))
	}
	if TopicKey("Tides") != TopicKey("  tides ") {
		t.Error("keys for equivalent topics differ")
	}
	if TopicKey("tides") == TopicKey("waves") {
		t.Error("keys for different topics collide")
	}
	if len(TopicKey("tides")) != 64 {
		t.Errorf("key length = %d, want 64 hex chars", len(TopicKey("tides")))
	}
}

func TestStoreRoundTrip(t *testing.T) {
	store := newTestStore(t)

	tree := insight.Normalize(&insight.RawNode{Name: "Tides", Tooltip: "Gravity."}, 0)
	citations := []insight.Citation{{URL: "https://example.org", Title: "Source"}}

	rec, err := store.Put("Tides", tree, citations, 1500*time.Millisecond)
	if err != nil {
		t.Fatalf("Put failed: %v", err)
	}
	if rec.ID == "" {
		t.Error("record has no ID")
	}

	got, err := store.Get("  tides ")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if got == nil {
		t.Fatal("cache miss for equivalent topic")
	}
	if got.Topic != "Tides" || got.Tree.Name != "Tides" || got.Tree.Tooltip != "Gravity." {
		t.Errorf("record = %+v", got)
	}
	if got.Duration != 1500*time.Millisecond {
		t.Errorf("duration = %v", got.Duration)
	}
	if len(got.Citations) != 1 || got.Citations[0].URL != "https://example.org" {
		t.Errorf("citations = %+v", got.Citations)
	}

	miss, err := store.Get("waves")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if miss != nil {
		t.Errorf("expected miss, got %+v", miss)
	}
}

func TestStoreReplacesSameTopic(t *testing.T) {
	store := newTestStore(t)

	first := insight.Normalize(&insight.RawNode{Name: "Old"}, 0)
	second := insight.Normalize(&insight.RawNode{Name: "New"}, 0)

	if _, err := store.Put("Tides", first, nil, 0); err != nil {
		t.Fatalf("Put failed: %v", err)
	}
	if _, err := store.Put("TIDES", second, nil, 0); err != nil {
		t.Fatalf("Put failed: %v", err)
	}

	got, err := store.Get("tides")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if got.Tree.Name != "New" {
		t.Errorf("tree root = %q, want replacement", got.Tree.Name)
	}
	count, err := store.Count()
	if err != nil {
		t.Fatalf("Count failed: %v", err)
	}
	if count != 1 {
		t.Errorf("count = %d, want 1", count)
	}
}

func TestStoreTopicsDeleteClear(t *testing.T) {
	store := newTestStore(t)

	tree := insight.Normalize(&insight.RawNode{
		Name:     "Tides",
		Children: []*insight.RawNode{{Name: "Spring"}, {Name: "Neap"}},
	}, 0)
	if _, err := store.Put("Tides", tree, nil, 0); err != nil {
		t.Fatalf("Put failed: %v", err)
	}
	if _, err := store.Put("Waves", insight.Normalize(&insight.RawNode{Name: "Waves"}, 0), nil, 0); err != nil {
		t.Fatalf("Put failed: %v", err)
	}

	topics, err := store.Topics()
	if err != nil {
		t.Fatalf("Topics failed: %v", err)
	}
	if len(topics) != 2 {
		t.Fatalf("topics = %+v, want 2", topics)
	}
	for _, info := range topics {
		if info.Topic == "Tides" && info.Nodes != 3 {
			t.Errorf("Tides node count = %d, want 3", info.Nodes)
		}
	}

	removed, err := store.Delete("tides")
	if err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if !removed {
		t.Error("Delete reported no removal")
	}
	removed, err = store.Delete("tides")
	if err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if removed {
		t.Error("second Delete reported a removal")
	}

	n, err := store.Clear()
	if err != nil {
		t.Fatalf("Clear failed: %v", err)
	}
	if n != 1 {
		t.Errorf("Clear removed %d, want 1", n)
	}
}

func TestBuildMapGeneratesAndCaches(t *testing.T) {
	gen := &fakeGenerator{text: treeText, citations: []insight.Citation{{URL: "https://example.org"}}}
	sess := New(gen, newTestStore(t), Options{})

	m, err := sess.BuildMap(context.Background(), "Tides", false)
	if err != nil {
		t.Fatalf("BuildMap failed: %v", err)
	}
	if m.FromCache {
		t.Error("first build claims cache hit")
	}
	if len(m.Graph.Nodes) != 5 || len(m.Graph.Edges) != 4 {
		t.Errorf("graph = %d nodes / %d edges, want 5/4", len(m.Graph.Nodes), len(m.Graph.Edges))
	}
	if len(m.Citations) != 1 {
		t.Errorf("citations = %+v", m.Citations)
	}

	m2, err := sess.BuildMap(context.Background(), "tides", false)
	if err != nil {
		t.Fatalf("cached BuildMap failed: %v", err)
	}
	if !m2.FromCache {
		t.Error("second build missed the cache")
	}
	if gen.generateCalls != 1 {
		t.Errorf("generator called %d times, want 1", gen.generateCalls)
	}
	if len(m2.Graph.Nodes) != 5 {
		t.Errorf("cached graph has %d nodes", len(m2.Graph.Nodes))
	}
}

func TestBuildMapFreshBypassesCache(t *testing.T) {
	gen := &fakeGenerator{text: treeText}
	sess := New(gen, newTestStore(t), Options{})

	if _, err := sess.BuildMap(context.Background(), "Tides", false); err != nil {
		t.Fatalf("BuildMap failed: %v", err)
	}
	m, err := sess.BuildMap(context.Background(), "Tides", true)
	if err != nil {
		t.Fatalf("fresh BuildMap failed: %v", err)
	}
	if m.FromCache {
		t.Error("fresh build claims cache hit")
	}
	if gen.generateCalls != 2 {
		t.Errorf("generator called %d times, want 2", gen.generateCalls)
	}
}

func TestBuildMapRejectsEmptyTopic(t *testing.T) {
	sess := New(&fakeGenerator{text: treeText}, nil, Options{})
	_, err := sess.BuildMap(context.Background(), "   ", false)
	if !errors.Is(err, ErrEmptyTopic) {
		t.Errorf("err = %v, want ErrEmptyTopic", err)
	}
}

func TestBuildMapMalformedOutputLeavesCacheUntouched(t *testing.T) {
	store := newTestStore(t)
	gen := &fakeGenerator{text: "no tree here, sorry"}
	sess := New(gen, store, Options{})

	_, err := sess.BuildMap(context.Background(), "Tides", false)
	var malformed *insight.MalformedTreeError
	if !errors.As(err, &malformed) {
		t.Fatalf("err = %v, want MalformedTreeError", err)
	}

	count, err := store.Count()
	if err != nil {
		t.Fatalf("Count failed: %v", err)
	}
	if count != 0 {
		t.Errorf("cache has %d entries after failed generation", count)
	}
}

func TestBuildMapWithoutStore(t *testing.T) {
	sess := New(&fakeGenerator{text: treeText}, nil, Options{})
	m, err := sess.BuildMap(context.Background(), "Tides", false)
	if err != nil {
		t.Fatalf("BuildMap failed: %v", err)
	}
	if m.Graph.IsEmpty() {
		t.Error("graph is empty")
	}
}

func TestDiveCondensesThenBuilds(t *testing.T) {
	gen := &fakeGenerator{text: treeText, condensed: "Neap tide amplitude cycles"}
	sess := New(gen, newTestStore(t), Options{})

	m, err := sess.Dive(context.Background(), dive.Context{
		ClickedLabel: "Neap tides",
		RootLabel:    "Tides",
	})
	if err != nil {
		t.Fatalf("Dive failed: %v", err)
	}
	if gen.condenseCalls != 1 {
		t.Errorf("condense called %d times", gen.condenseCalls)
	}
	if m.Topic != "Neap tide amplitude cycles" || gen.lastTopic != "Neap tide amplitude cycles" {
		t.Errorf("dive topic = %q (generated for %q)", m.Topic, gen.lastTopic)
	}
}

// TestFullPipeline runs generation, normalization, flattening, layout, and
// outline rendering on one tree with an over-budget root tooltip.
func TestFullPipeline(t *testing.T) {
	long := strings.TrimSpace(strings.Repeat("the moon pulls the water ", 8)) // 199 chars
	gen := &fakeGenerator{text: "```json\n" +
		`{"name": "Tides", "tooltip": "` + long + `", "children": [
			{"name": "Spring tides", "children": [{"name": "Alignment"}]},
			{"name": "Neap tides", "children": [{"name": "Right angles"}]}
		]}` + "\n```"}
	sess := New(gen, newTestStore(t), Options{})

	m, err := sess.BuildMap(context.Background(), "Tides", false)
	if err != nil {
		t.Fatalf("BuildMap failed: %v", err)
	}

	if got := len(m.Tree.Tooltip); got > insight.DefaultMaxTooltipLen+len(insight.Ellipsis) {
		t.Errorf("root tooltip length = %d, want <= 123", got)
	}
	if len(m.Graph.Nodes) != 5 || len(m.Graph.Edges) != 4 {
		t.Fatalf("graph = %d nodes / %d edges, want 5/4", len(m.Graph.Nodes), len(m.Graph.Edges))
	}

	sim := layout.New(m.Graph, layout.DefaultWidth, layout.DefaultHeight, layout.DefaultParams())
	if ticks := sim.Run(1000); !sim.Converged() {
		t.Errorf("layout did not converge in %d ticks", ticks)
	}

	lines := strings.Split(strings.TrimRight(outline.Render(m.Tree), "\n"), "\n")
	if len(lines) != 5 {
		t.Fatalf("outline has %d lines, want 5:\n%s", len(lines), outline.Render(m.Tree))
	}
	for i, line := range lines {
		if strings.TrimSpace(line) == "" {
			t.Errorf("outline line %d is empty", i)
		}
	}
}

// TestBuildMapTruncatesLongTooltips covers the full pipeline: a 200-char
// tooltip comes out word-truncated with the ellipsis budget.
func TestBuildMapTruncatesLongTooltips(t *testing.T) {
	long := strings.Repeat("gravity pulls water ", 10) // 200 chars
	gen := &fakeGenerator{text: "```json\n" +
		`{"name": "Tides", "tooltip": "` + long + `"}` + "\n```"}
	sess := New(gen, nil, Options{})

	m, err := sess.BuildMap(context.Background(), "Tides", false)
	if err != nil {
		t.Fatalf("BuildMap failed: %v", err)
	}
	tip := m.Tree.Tooltip
	if len(tip) > insight.DefaultMaxTooltipLen+len(insight.Ellipsis) {
		t.Errorf("tooltip length = %d, want <= %d", len(tip), insight.DefaultMaxTooltipLen+3)
	}
	if !strings.HasSuffix(tip, insight.Ellipsis) {
		t.Errorf("tooltip = %q, want ellipsis suffix", tip)
	}
	if strings.Contains(strings.TrimSuffix(tip, insight.Ellipsis), "  ") {
		t.Errorf("tooltip has collapsed whitespace artifacts: %q", tip)
	}
}
