package models

// Load statuses reported in the "loadStatus" field. Downstream tooling
// greps for these exact strings, so they are frozen, including the
// legacy "Puppeteer" wording carried over from the first generation of
// this check.
const (
	LoadStatusSuccess  = "Successfully loaded and evaluated."
	LoadStatusNotFound = "HTML file not found."
	LoadStatusError    = "Error during Puppeteer script execution."
)

// ConsoleEvent is one intercepted page event: a console call (type is the
// console level, e.g. "log", "warning", "error"), an uncaught exception
// (type "pageerror"), or a failed network request (type "requestfailed").
type ConsoleEvent struct {
	Type  string `json:"type"`
	Text  string `json:"text"`
	Stack string `json:"stack,omitempty"`
}

// MetricSnapshot is a point-in-time read of the six metric elements the
// dashboard renders in two locations. A nil field means the element was
// missing when the snapshot was taken.
type MetricSnapshot struct {
	SemanticDepthSidebar   *string `json:"semanticDepthSidebar,omitempty"`
	SemanticDepthPanel     *string `json:"semanticDepthPanel,omitempty"`
	CoherenceSidebar       *string `json:"coherenceSidebar,omitempty"`
	CoherencePanel         *string `json:"coherencePanel,omitempty"`
	ReasoningStatusSidebar *string `json:"reasoningStatusSidebar,omitempty"`
	ReasoningStatusPanel   *string `json:"reasoningStatusPanel,omitempty"`
}

// UICheckResult holds the visibility flags for the dashboard's layout
// regions and its three visualization canvases.
type UICheckResult struct {
	SidebarVisible             bool `json:"sidebarVisible"`
	ContentAreaVisible         bool `json:"contentAreaVisible"`
	QuantumInterfaceVisible    bool `json:"quantumInterfaceVisible"`
	ControlPanelVisible        bool `json:"controlPanelVisible"`
	MetricPanelVisible         bool `json:"metricPanelVisible"`
	AIConsoleVisible           bool `json:"aiConsoleVisible"`
	QuantumCanvasVisible       bool `json:"quantumCanvasVisible"`
	NeuralVisualizationVisible bool `json:"neuralVisualizationVisible"`
	MetricsChartVisible        bool `json:"metricsChartVisible"`
}

// DynamicContentResult summarizes the dynamic-content probes plus both
// metric snapshots taken during the settle windows.
type DynamicContentResult struct {
	MetricComparison   string          `json:"metricComparison"`
	D3CirclePresent    bool            `json:"d3CirclePresent"`
	ThreeJSContent     string          `json:"threeJsContent"`
	ChartJSInitialized bool            `json:"chartJsInitialized"`
	InitialMetrics     *MetricSnapshot `json:"initialMetrics"`
	FinalMetrics       *MetricSnapshot `json:"finalMetrics"`
}

// ErrorSection replaces UICheck/DynamicContent when the run fails before
// the probes complete.
type ErrorSection struct {
	Error string `json:"error"`
}

// ErrorDetail carries the failure's message, stack, and name on the
// error-path report.
type ErrorDetail struct {
	Message string `json:"message"`
	Stack   string `json:"stack,omitempty"`
	Name    string `json:"name"`
}

// Report is the single output artifact of a run. UICheck and
// DynamicContent are dynamically shaped: UICheckResult /
// DynamicContentResult on success, ErrorSection on failure, and an empty
// object on the not-found path.
type Report struct {
	LoadStatus      string         `json:"loadStatus"`
	UICheck         any            `json:"uiCheck"`
	DynamicContent  any            `json:"dynamicContent"`
	Stability       string         `json:"stability,omitempty"`
	ConsoleMessages []ConsoleEvent `json:"consoleMessages"`
	Error           *ErrorDetail   `json:"error,omitempty"`
}
