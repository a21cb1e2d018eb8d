package export

import (
	"bytes"
	"encoding/json"
	"fmt"
	"html/template"

	"github.com/bubbledive/sparkmap/internal/graph"
	"github.com/bubbledive/sparkmap/internal/insight"
	"github.com/bubbledive/sparkmap/internal/layout"
	"github.com/bubbledive/sparkmap/internal/scene"
)

// Diagram palette, shared by both modes.
const (
	backgroundColor = "#f7faff"
	rootNodeColor   = "#93c5fd"
	childNodeColor  = "#ffffff"
	linkColor       = "#b8cfff"
	nodeBorderColor = "#528fff"
)

// Templates are parsed at init time to fail fast on template errors.
var (
	documentTemplate    *template.Template
	interactiveTemplate *template.Template
	staticTemplate      *template.Template
)

func init() {
	documentTemplate = template.Must(template.New("document").Parse(documentHTML))
	interactiveTemplate = template.Must(template.New("interactive").Parse(interactiveHTML))
	staticTemplate = template.Must(template.New("static").Parse(staticSVG))
}

// HTML generates a standalone document embedding the rendered diagram and a
// references list. The graph must come from a flattened normalized tree.
func HTML(g *graph.Graph, topic string, citations []insight.Citation, opts Options) (string, error) {
	if g == nil {
		return "", fmt.Errorf("graph cannot be nil")
	}
	if err := validateMode(opts.Mode); err != nil {
		return "", err
	}
	if opts.Width <= 0 {
		opts.Width = DefaultOptions().Width
	}
	if opts.Height <= 0 {
		opts.Height = DefaultOptions().Height
	}

	if g.IsEmpty() {
		return generateEmptyHTML(), nil
	}

	var diagram template.HTML
	var err error
	if opts.Mode == ModeStatic {
		diagram, err = renderStaticDiagram(g, opts)
	} else {
		diagram, err = renderInteractiveDiagram(g, opts)
	}
	if err != nil {
		return "", err
	}

	data := documentData{
		Topic:      topic,
		Diagram:    diagram,
		References: citations,
	}
	var buf bytes.Buffer
	if err := documentTemplate.Execute(&buf, data); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// documentData holds data for the outer document template.
type documentData struct {
	Topic      string
	Diagram    template.HTML
	References []insight.Citation
}

// interactiveData holds data for the browser-side simulation fragment.
type interactiveData struct {
	NodesJSON template.JS
	LinksJSON template.JS
	RootID    template.JS
	Width     float64
	Height    float64
}

// renderInteractiveDiagram embeds the flattened graph for a browser-side
// force simulation with pan/zoom, drag, hover tooltips, and click dives.
func renderInteractiveDiagram(g *graph.Graph, opts Options) (template.HTML, error) {
	nodesJSON, err := json.Marshal(g.Nodes)
	if err != nil {
		return "", fmt.Errorf("encoding nodes: %w", err)
	}
	linksJSON, err := json.Marshal(g.Edges)
	if err != nil {
		return "", fmt.Errorf("encoding edges: %w", err)
	}
	rootJSON, err := json.Marshal(g.Root().ID)
	if err != nil {
		return "", fmt.Errorf("encoding root id: %w", err)
	}

	data := interactiveData{
		NodesJSON: template.JS(nodesJSON),
		LinksJSON: template.JS(linksJSON),
		RootID:    template.JS(rootJSON),
		Width:     opts.Width,
		Height:    opts.Height,
	}
	var buf bytes.Buffer
	if err := interactiveTemplate.Execute(&buf, data); err != nil {
		return "", err
	}
	return template.HTML(buf.String()), nil
}

// Static diagram shapes.
type svgEdge struct {
	X1, Y1, X2, Y2 float64
}

type svgLabelLine struct {
	Dy   string
	Text string
}

type svgNode struct {
	X, Y, R  float64
	Fill     string
	FontSize int
	Tooltip  string
	Lines    []svgLabelLine
}

type staticData struct {
	Width, Height float64
	Edges         []svgEdge
	Nodes         []svgNode
}

// renderStaticDiagram runs the force layout to convergence and embeds the
// result as SVG, so the document needs no scripts.
func renderStaticDiagram(g *graph.Graph, opts Options) (template.HTML, error) {
	sim := layout.New(g, opts.Width, opts.Height, layout.DefaultParams())
	sim.Run(600)

	positions := make(map[string]layout.Position, len(g.Nodes))
	for _, p := range sim.Positions() {
		positions[p.ID] = p
	}

	data := staticData{Width: opts.Width, Height: opts.Height}
	for _, e := range g.Edges {
		s, t := positions[e.Source], positions[e.Target]
		data.Edges = append(data.Edges, svgEdge{X1: s.X, Y1: s.Y, X2: t.X, Y2: t.Y})
	}
	for _, n := range g.Nodes {
		p := positions[n.ID]
		fill, fontSize := childNodeColor, 16
		if n.IsRoot {
			fill, fontSize = rootNodeColor, 22
		}
		data.Nodes = append(data.Nodes, svgNode{
			X:        p.X,
			Y:        p.Y,
			R:        p.Radius,
			Fill:     fill,
			FontSize: fontSize,
			Tooltip:  n.Tooltip,
			Lines:    labelLines(n.Label, n.IsRoot),
		})
	}

	var buf bytes.Buffer
	if err := staticTemplate.Execute(&buf, data); err != nil {
		return "", err
	}
	return template.HTML(buf.String()), nil
}

// labelLines wraps a node label and computes the tspan offsets that center
// the block vertically on the bubble.
func labelLines(label string, isRoot bool) []svgLabelLine {
	wrapped := scene.WrapNodeLabel(label, isRoot)
	lines := make([]svgLabelLine, len(wrapped))
	for i, text := range wrapped {
		dy := -(0.5*float64(len(wrapped)-1) - float64(i)) * 1.1
		lines[i] = svgLabelLine{
			Dy:   fmt.Sprintf("%.2fem", dy),
			Text: text,
		}
	}
	return lines
}

// generateEmptyHTML returns a document for an empty map.
func generateEmptyHTML() string {
	return `<!DOCTYPE html>
<html>
<head>
  <meta charset="UTF-8">
  <title>SparkMap - Empty</title>
  <style>
    body {
      font-family: -apple-system, BlinkMacSystemFont, "Segoe UI", Roboto, Helvetica, Arial, sans-serif;
      display: flex;
      justify-content: center;
      align-items: center;
      height: 100vh;
      margin: 0;
      background: ` + backgroundColor + `;
    }
    .empty-state { text-align: center; color: #666; }
  </style>
</head>
<body>
  <div class="empty-state">
    <h2>No map data</h2>
    <p>Generate a map with <code>sparkmap map "your topic"</code></p>
  </div>
</body>
</html>`
}

const documentHTML = `<!DOCTYPE html>
<html lang="en">
<head>
  <meta charset="utf-8">
  <title>BubbleDive SparkMap - {{.Topic}}</title>
  <style>
    body { font-family: sans-serif; margin: 0; background: ` + backgroundColor + `; }
    .container { max-width: 1400px; margin: 2rem auto; padding: 1rem; background: #fff; border-radius: 10px; }
    #mindmap-container { width: 100%; height: 880px; min-height: 700px; background: ` + backgroundColor + `; border-radius: 18px; border: 1px solid #e0e0e0; }
    .mindmap-tooltip {
      position: absolute; pointer-events: none; z-index: 10;
      background: #fff; border: 1.5px solid ` + nodeBorderColor + `; border-radius: 8px;
      padding: 10px 13px; font-size: 1em; color: #2c4274;
      box-shadow: 0 2px 12px rgba(60,100,180,0.15); opacity: 0;
      transition: opacity 0.18s; max-width: 280px; word-break: break-word; white-space: pre-line;
    }
    .references li { margin: 0.3em 0; }
    .references .snippet { color: #666; font-size: 0.9em; }
  </style>
</head>
<body>
  <div class="container">
    <h1>BubbleDive SparkMap: {{.Topic}}</h1>
    {{.Diagram}}
    <hr>
    {{if .References}}
    <div class="references">
      <h3>References</h3>
      <ul>
        {{range .References}}
        <li><a href="{{.URL}}" target="_blank">{{if .Title}}{{.Title}}{{else}}Source{{end}}</a>{{if .Snippet}}<div class="snippet">{{.Snippet}}</div>{{end}}</li>
        {{end}}
      </ul>
    </div>
    {{end}}
  </div>
</body>
</html>`

const interactiveHTML = `<div id="mindmap-container"></div>
<script src="https://d3js.org/d3.v7.min.js"></script>
<script>
(() => {
  const nodes = {{.NodesJSON}};
  const links = {{.LinksJSON}};
  const rootID = {{.RootID}};
  const container = document.getElementById("mindmap-container");
  const width = container.clientWidth || {{.Width}};
  const height = container.clientHeight || {{.Height}};

  const svg = d3.select(container).append("svg")
    .attr("width", "100%").attr("height", "100%")
    .attr("viewBox", "0 0 " + width + " " + height);
  const scene = svg.append("g");
  svg.call(d3.zoom().scaleExtent([0.3, 3]).on("zoom", e => scene.attr("transform", e.transform)));

  const link = scene.append("g").selectAll("line").data(links).enter().append("line")
    .attr("stroke", "` + linkColor + `").attr("stroke-width", 2.5);
  const node = scene.append("g").selectAll("g").data(nodes).enter().append("g")
    .style("cursor", "pointer");
  node.append("circle")
    .attr("r", d => d.isRoot ? 120 : 70)
    .attr("fill", d => d.isRoot ? "` + rootNodeColor + `" : "` + childNodeColor + `")
    .attr("stroke", "` + nodeBorderColor + `").attr("stroke-width", 3);

  node.append("text")
    .attr("text-anchor", "middle").attr("dominant-baseline", "central")
    .style("font-size", d => d.isRoot ? "22px" : "16px")
    .style("font-weight", "bold").style("pointer-events", "none")
    .each(function(d) {
      const text = d3.select(this);
      const words = d.label.split(/\s+/);
      const budget = d.isRoot ? 20 : 15;
      let line = [];
      let tspan = text.append("tspan").attr("x", 0).attr("y", 0);
      for (const word of words) {
        line.push(word);
        tspan.text(line.join(" "));
        if (line.join(" ").length > budget && line.length > 1) {
          line.pop();
          tspan.text(line.join(" "));
          line = [word];
          tspan = text.append("tspan").attr("x", 0).attr("dy", "1.1em").text(word);
        }
      }
      const count = text.selectAll("tspan").size();
      text.selectAll("tspan").attr("y", (_, i) => (-(0.5 * (count - 1) - i) * 1.1) + "em");
    });

  const tooltip = d3.select("body").append("div").attr("class", "mindmap-tooltip");
  node.on("mouseover", (event, d) => {
      if (!d.tooltip) return;
      tooltip.style("opacity", 1)
        .html("<b>" + d.label + "</b><br>" + d.tooltip)
        .style("left", (event.pageX + 15) + "px").style("top", event.pageY + "px");
    })
    .on("mousemove", event => {
      tooltip.style("left", (event.pageX + 15) + "px").style("top", event.pageY + "px");
    })
    .on("mouseout", () => tooltip.style("opacity", 0));

  node.on("click", (event, d) => {
    if (d.id === rootID) return;
    const root = nodes.find(n => n.id === rootID);
    const context = {
      clicked_label: d.label, clicked_tooltip: d.tooltip || "",
      parent_label: d.parentLabel || "", parent_tooltip: d.parentTooltip || "",
      root_label: root.label, root_tooltip: root.tooltip || ""
    };
    window.location.href = "?context=" + encodeURIComponent(JSON.stringify(context));
  });

  const simulation = d3.forceSimulation(nodes)
    .force("link", d3.forceLink(links).id(d => d.id)
      .distance(l => l.source.isRoot ? 250 : 160).strength(1.2))
    .force("charge", d3.forceManyBody().strength(-1200))
    .force("center", d3.forceCenter(width / 2, height / 2))
    .force("collision", d3.forceCollide().radius(d => (d.isRoot ? 120 : 70) + 10));

  simulation.on("tick", () => {
    link.attr("x1", l => l.source.x).attr("y1", l => l.source.y)
        .attr("x2", l => l.target.x).attr("y2", l => l.target.y);
    node.attr("transform", d => "translate(" + d.x + "," + d.y + ")");
  });

  node.call(d3.drag()
    .on("start", (event, d) => {
      if (!event.active) simulation.alphaTarget(0.3).restart();
      d.fx = d.x; d.fy = d.y;
    })
    .on("drag", (event, d) => { d.fx = event.x; d.fy = event.y; })
    .on("end", (event, d) => {
      if (!event.active) simulation.alphaTarget(0);
      d.fx = null; d.fy = null;
    }));
})();
</script>`

const staticSVG = `<div id="mindmap-container">
<svg xmlns="http://www.w3.org/2000/svg" width="100%" height="100%" viewBox="0 0 {{.Width}} {{.Height}}">
  <g>
    {{range .Edges}}<line x1="{{.X1}}" y1="{{.Y1}}" x2="{{.X2}}" y2="{{.Y2}}" stroke="` + linkColor + `" stroke-width="2.5"/>
    {{end}}
  </g>
  <g>
    {{range .Nodes}}<g transform="translate({{.X}},{{.Y}})">
      <circle r="{{.R}}" fill="{{.Fill}}" stroke="` + nodeBorderColor + `" stroke-width="3">{{if .Tooltip}}<title>{{.Tooltip}}</title>{{end}}</circle>
      <text text-anchor="middle" dominant-baseline="central" font-size="{{.FontSize}}" font-weight="bold">
        {{range .Lines}}<tspan x="0" dy="{{.Dy}}">{{.Text}}</tspan>{{end}}
      </text>
    </g>
    {{end}}
  </g>
</svg>
</div>`
