package export

import (
	"strings"
	"testing"

	"github.com/bubbledive/sparkmap/internal/graph"
	"github.com/bubbledive/sparkmap/internal/insight"
)

func buildTestTree(t *testing.T) *insight.Node {
	t.Helper()
	raw := &insight.RawNode{
		Name:    "Tides",
		Tooltip: "Gravity from the moon and sun moves the oceans.",
		Children: []*insight.RawNode{
			{Name: "Spring tides", Tooltip: "Sun and moon aligned."},
			{Name: "Neap tides", Tooltip: "Sun and moon at right angles."},
		},
	}
	return insight.Normalize(raw, insight.DefaultMaxTooltipLen)
}

func TestSafeFilename(t *testing.T) {
	tests := []struct {
		topic string
		want  string
	}{
		{"Tides", "Tides"},
		{"How do tides work?", "How_do_tides_work_"},
		{"a/b\\c:d", "a_b_c_d"},
		{"", ""},
	}
	for _, tt := range tests {
		if got := SafeFilename(tt.topic); got != tt.want {
			t.Errorf("SafeFilename(%q) = %q, want %q", tt.topic, got, tt.want)
		}
	}

	if got := HTMLFilename("deep sea"); got != "deep_sea_SparkMap.html" {
		t.Errorf("HTMLFilename = %q", got)
	}
	if got := TextFilename("deep sea"); got != "deep_sea_SparkMap.txt" {
		t.Errorf("TextFilename = %q", got)
	}
}

func TestHTMLRejectsInvalidMode(t *testing.T) {
	g := graph.Flatten(buildTestTree(t))
	_, err := HTML(g, "Tides", nil, Options{Mode: "fancy"})
	if err == nil || !strings.Contains(err.Error(), "invalid mode") {
		t.Errorf("err = %v, want invalid mode error", err)
	}
}

func TestHTMLEmptyGraph(t *testing.T) {
	out, err := HTML(&graph.Graph{}, "Tides", nil, DefaultOptions())
	if err != nil {
		t.Fatalf("HTML failed: %v", err)
	}
	if !strings.Contains(out, "No map data") {
		t.Errorf("empty-state document missing message")
	}
}

func TestHTMLInteractiveEmbedsGraph(t *testing.T) {
	g := graph.Flatten(buildTestTree(t))
	out, err := HTML(g, "Tides", nil, DefaultOptions())
	if err != nil {
		t.Fatalf("HTML failed: %v", err)
	}

	for _, want := range []string{
		"<title>BubbleDive SparkMap - Tides</title>",
		"d3.v7.min.js",
		`"label":"Spring tides"`,
		`"source":"n1"`,
		"scaleExtent([0.3, 3])",
		".strength(-1200)",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("document missing %q", want)
		}
	}
}

func TestHTMLStaticEmbedsSVG(t *testing.T) {
	g := graph.Flatten(buildTestTree(t))
	out, err := HTML(g, "Tides", nil, Options{Mode: ModeStatic, Width: 1200, Height: 880})
	if err != nil {
		t.Fatalf("HTML failed: %v", err)
	}

	if strings.Contains(out, "d3.v7.min.js") {
		t.Errorf("static document must not load scripts")
	}
	if !strings.Contains(out, "<svg") {
		t.Fatalf("static document missing SVG")
	}
	for _, label := range []string{"Tides", "Spring tides", "Neap tides"} {
		if !strings.Contains(out, ">"+label+"<") {
			t.Errorf("SVG missing label %q", label)
		}
	}
	if got := strings.Count(out, "<line "); got != len(g.Edges) {
		t.Errorf("SVG has %d lines, want %d", got, len(g.Edges))
	}
	if got := strings.Count(out, "<circle "); got != len(g.Nodes) {
		t.Errorf("SVG has %d circles, want %d", got, len(g.Nodes))
	}
}

func TestHTMLReferencesSection(t *testing.T) {
	g := graph.Flatten(buildTestTree(t))
	citations := []insight.Citation{
		{URL: "https://example.org/tides", Title: "Tides explained", Snippet: "A primer."},
		{URL: "https://example.org/moon"},
	}

	out, err := HTML(g, "Tides", citations, DefaultOptions())
	if err != nil {
		t.Fatalf("HTML failed: %v", err)
	}
	for _, want := range []string{
		"<h3>References</h3>",
		`href="https://example.org/tides"`,
		"Tides explained",
		"A primer.",
		">Source</a>",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("references missing %q", want)
		}
	}

	out, err = HTML(g, "Tides", nil, DefaultOptions())
	if err != nil {
		t.Fatalf("HTML failed: %v", err)
	}
	if strings.Contains(out, "<h3>References</h3>") {
		t.Errorf("references section rendered with no citations")
	}
}

func TestText(t *testing.T) {
	root := buildTestTree(t)
	out := Text(root)
	want := "- Tides - Gravity from the moon and sun moves the oceans.\n" +
		"    - Spring tides - Sun and moon aligned.\n" +
		"    - Neap tides - Sun and moon at right angles.\n"
	if out != want {
		t.Errorf("Text() = %q, want %q", out, want)
	}
}
