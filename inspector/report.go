package inspector

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"runtime/debug"
	"time"

	"github.com/use-agent/dashprobe/models"
)

// Stability verdicts. Free text for humans, but stable across runs so
// reports stay diffable.
const (
	stabilityUnstable = "Page may be unstable or failed to load properly; inspection aborted before completion."
)

func stabilityStable(totalSettle time.Duration) string {
	return fmt.Sprintf("Page remained stable through the %s settle window.", totalSettle)
}

// successReport merges the probe facts, both metric snapshots, and the
// drained event sequence into the final report.
func successReport(facts *probeFacts, initial, final *models.MetricSnapshot, totalSettle time.Duration, events []models.ConsoleEvent) *models.Report {
	dyn := models.DynamicContentResult{
		MetricComparison:   formatMetricComparison(initial, final),
		D3CirclePresent:    facts.D3CirclePresent,
		ThreeJSContent:     classifyNeuralCanvas(facts.Neural),
		ChartJSInitialized: chartInitialized(facts.Chart),
		InitialMetrics:     initial,
		FinalMetrics:       final,
	}
	return &models.Report{
		LoadStatus:      models.LoadStatusSuccess,
		UICheck:         facts.UI,
		DynamicContent:  dyn,
		Stability:       stabilityStable(totalSettle),
		ConsoleMessages: events,
	}
}

// notFoundReport is the minimal report written when the target document
// does not exist (or, for remote targets, is not reachable). Its single
// console event is synthetic.
func notFoundReport(display string, remote bool) *models.Report {
	text := display + " does not exist."
	if remote {
		text = display + " is not reachable."
	}
	return &models.Report{
		LoadStatus:     models.LoadStatusNotFound,
		UICheck:        struct{}{},
		DynamicContent: struct{}{},
		ConsoleMessages: []models.ConsoleEvent{
			{Type: "error", Text: text},
		},
	}
}

// errorReport is the catch-all report: both check sections collapse to the
// error message, and the failure's message, stack, and name ride along.
// Events collected before the failure are still attached, so an uncaught
// page exception during load survives into the report even when the run
// as a whole fails.
func errorReport(err error, events []models.ConsoleEvent) *models.Report {
	name := models.ErrCodeInternal
	var ie *models.InspectError
	if errors.As(err, &ie) {
		name = ie.Code
	}
	section := models.ErrorSection{Error: err.Error()}
	return &models.Report{
		LoadStatus:      models.LoadStatusError,
		UICheck:         section,
		DynamicContent:  section,
		Stability:       stabilityUnstable,
		ConsoleMessages: events,
		Error: &models.ErrorDetail{
			Message: err.Error(),
			Stack:   string(debug.Stack()),
			Name:    name,
		},
	}
}

// formatMetricComparison renders the initial→final metric transition for
// both locations as one human-readable line. No automated equality check
// is performed; the report surfaces both snapshots for human comparison.
func formatMetricComparison(initial, final *models.MetricSnapshot) string {
	return fmt.Sprintf(
		"Sidebar: semantic depth %s -> %s, coherence %s -> %s, reasoning %s -> %s. "+
			"Panel: semantic depth %s -> %s, coherence %s -> %s, reasoning %s -> %s.",
		metricOrMissing(initial.SemanticDepthSidebar), metricOrMissing(final.SemanticDepthSidebar),
		metricOrMissing(initial.CoherenceSidebar), metricOrMissing(final.CoherenceSidebar),
		metricOrMissing(initial.ReasoningStatusSidebar), metricOrMissing(final.ReasoningStatusSidebar),
		metricOrMissing(initial.SemanticDepthPanel), metricOrMissing(final.SemanticDepthPanel),
		metricOrMissing(initial.CoherencePanel), metricOrMissing(final.CoherencePanel),
		metricOrMissing(initial.ReasoningStatusPanel), metricOrMissing(final.ReasoningStatusPanel),
	)
}

func metricOrMissing(v *string) string {
	if v == nil {
		return "(missing)"
	}
	return "'" + *v + "'"
}

// writeReport serializes the report as pretty-printed UTF-8 JSON (2-space
// indentation) and overwrites the output file.
func writeReport(path string, rep *models.Report) error {
	data, err := json.MarshalIndent(rep, "", "  ")
	if err != nil {
		return models.NewInspectError(models.ErrCodeReportWrite, "failed to serialize report", err)
	}
	data = append(data, '\n')
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return models.NewInspectError(models.ErrCodeReportWrite, "failed to write report file", err)
	}
	return nil
}
