package inspector

import (
	"encoding/json"

	"github.com/go-rod/rod"
	"github.com/use-agent/dashprobe/models"
	"github.com/ysmood/gson"
)

// Encoded-length thresholds for the canvas content heuristics. The values
// are empirical and renderer-version-dependent; they are frozen because
// report consumers compare results across runs.
const (
	threeJSEncodedLengthMin = 1000
	chartEncodedLengthMin   = 2000
)

// ProbeSelectors lists every selector the in-page probe battery queries.
// Exposed so the static preflight can report which of them already exist
// in the target's markup before the browser launches.
func ProbeSelectors() []string {
	return []string{
		".sidebar",
		".content-area",
		"#quantum-interface",
		".control-panel",
		".metric-panel",
		"#ai-console",
		"#quantum-canvas",
		"#neural-visualization",
		"#metrics-chart",
	}
}

// metricElementIDs lists the six metric element IDs read by each snapshot:
// three logical metrics, each rendered in the sidebar and in the panel.
var metricElementIDs = []string{
	"semantic-depth",
	"panel-semantic-depth",
	"coherence-level",
	"panel-coherence-level",
	"reasoning-status",
	"panel-reasoning-status",
}

// snapshotJS reads the text content of the six metric elements, yielding
// null for any that are missing.
const snapshotJS = `() => {
	const read = (id) => {
		const el = document.getElementById(id);
		return el ? el.textContent.trim() : null;
	};
	return JSON.stringify({
		semanticDepthSidebar:   read('semantic-depth'),
		semanticDepthPanel:     read('panel-semantic-depth'),
		coherenceSidebar:       read('coherence-level'),
		coherencePanel:         read('panel-coherence-level'),
		reasoningStatusSidebar: read('reasoning-status'),
		reasoningStatusPanel:   read('panel-reasoning-status'),
	});
}`

// probeJS is the single atomic probe pass. It only gathers raw facts
// (visibility flags, context presence, encoded lengths); the threshold
// classification happens Go-side so it stays unit-testable.
//
// The visibility check is a cheap heuristic, not a layout-accurate one:
// an element counts as visible when it exists and either has a client
// rect or its computed display is not "none".
const probeJS = `() => {
	const vis = (el) => {
		if (!el) return false;
		if (el.getClientRects().length > 0) return true;
		return window.getComputedStyle(el).display !== 'none';
	};
	const q = (sel) => document.querySelector(sel);

	const facts = {
		ui: {
			sidebarVisible:             vis(q('.sidebar')),
			contentAreaVisible:         vis(q('.content-area')),
			quantumInterfaceVisible:    vis(q('#quantum-interface')),
			controlPanelVisible:        vis(q('.control-panel')),
			metricPanelVisible:         vis(q('.metric-panel')),
			aiConsoleVisible:           vis(q('#ai-console')),
			quantumCanvasVisible:       vis(q('#quantum-canvas')),
			neuralVisualizationVisible: vis(q('#neural-visualization')),
			metricsChartVisible:        vis(q('#metrics-chart')),
		},
		d3CirclePresent: false,
		neural: {
			containerVisible: false,
			canvasFound:      false,
			canvasVisible:    false,
			hasGlContext:     false,
			width:            0,
			height:           0,
			dataUrlLength:    0,
		},
		chart: {
			visible:       false,
			canEncode:     false,
			dataUrlLength: 0,
		},
	};

	if (facts.ui.quantumCanvasVisible) {
		facts.d3CirclePresent = !!q('#quantum-canvas circle');
	}

	const container = q('#neural-visualization');
	facts.neural.containerVisible = vis(container);
	if (facts.neural.containerVisible) {
		const canvas = container.querySelector('canvas');
		facts.neural.canvasFound = !!canvas;
		if (canvas && vis(canvas)) {
			facts.neural.canvasVisible = true;
			facts.neural.width = canvas.width;
			facts.neural.height = canvas.height;
			try {
				const gl = canvas.getContext('webgl') ||
					canvas.getContext('webgl2') ||
					canvas.getContext('experimental-webgl');
				facts.neural.hasGlContext = !!gl;
			} catch (e) {}
			try {
				facts.neural.dataUrlLength = canvas.toDataURL().length;
			} catch (e) {}
		}
	}

	const chart = q('#metrics-chart');
	facts.chart.visible = vis(chart);
	if (facts.chart.visible && typeof chart.toDataURL === 'function') {
		facts.chart.canEncode = true;
		try {
			facts.chart.dataUrlLength = chart.toDataURL().length;
		} catch (e) {}
	}

	return JSON.stringify(facts);
}`

// probeFacts is the raw result of the atomic probe pass.
type probeFacts struct {
	UI              models.UICheckResult `json:"ui"`
	D3CirclePresent bool                 `json:"d3CirclePresent"`
	Neural          neuralFacts          `json:"neural"`
	Chart           chartFacts           `json:"chart"`
}

type neuralFacts struct {
	ContainerVisible bool `json:"containerVisible"`
	CanvasFound      bool `json:"canvasFound"`
	CanvasVisible    bool `json:"canvasVisible"`
	HasGLContext     bool `json:"hasGlContext"`
	Width            int  `json:"width"`
	Height           int  `json:"height"`
	DataURLLength    int  `json:"dataUrlLength"`
}

type chartFacts struct {
	Visible       bool `json:"visible"`
	CanEncode     bool `json:"canEncode"`
	DataURLLength int  `json:"dataUrlLength"`
}

// runProbes executes the probe battery as one in-page evaluation.
func runProbes(p *rod.Page) (*probeFacts, error) {
	res, err := p.Eval(probeJS)
	if err != nil {
		return nil, models.NewInspectError(
			models.ErrCodeEvaluation,
			"probe evaluation failed",
			err,
		)
	}
	var facts probeFacts
	if err := decodeEval(res.Value, &facts); err != nil {
		return nil, models.NewInspectError(
			models.ErrCodeEvaluation,
			"failed to decode probe result",
			err,
		)
	}
	return &facts, nil
}

// captureSnapshot reads the six metric elements, tolerating missing ones.
func captureSnapshot(p *rod.Page) (*models.MetricSnapshot, error) {
	res, err := p.Eval(snapshotJS)
	if err != nil {
		return nil, models.NewInspectError(
			models.ErrCodeEvaluation,
			"metric snapshot evaluation failed",
			err,
		)
	}
	var snap models.MetricSnapshot
	if err := decodeEval(res.Value, &snap); err != nil {
		return nil, models.NewInspectError(
			models.ErrCodeEvaluation,
			"failed to decode metric snapshot",
			err,
		)
	}
	return &snap, nil
}

// decodeEval unmarshals an in-page evaluation result into a typed struct.
// The probe scripts return JSON.stringify-ed objects, so the value is a
// plain JSON string.
func decodeEval(v gson.JSON, out any) error {
	return json.Unmarshal([]byte(v.Str()), out)
}

// classifyNeuralCanvas buckets the 3D canvas's rendering state. Priority
// order matters: a live GL context with positive dimensions wins over the
// pixel-content heuristic, which wins over the blank verdict.
func classifyNeuralCanvas(f neuralFacts) string {
	switch {
	case !f.ContainerVisible:
		return "Container #neural-visualization not found or not visible."
	case !f.CanvasFound || !f.CanvasVisible:
		return "Canvas element not found or not visible within #neural-visualization."
	case f.HasGLContext && f.Width > 0 && f.Height > 0:
		return "Canvas has an active WebGL context with positive dimensions."
	case f.DataURLLength > threeJSEncodedLengthMin:
		return "Canvas has rendered pixel content."
	default:
		return "Canvas is present but appears blank."
	}
}

// chartInitialized applies the chart canvas content heuristic: a visible,
// encodable canvas whose encoded length clears the threshold.
func chartInitialized(f chartFacts) bool {
	return f.Visible && f.CanEncode && f.DataURLLength > chartEncodedLengthMin
}
