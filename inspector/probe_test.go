package inspector

import (
	"strings"
	"testing"
)

func TestProbeSelectors_CoverTheProbeScript(t *testing.T) {
	sels := ProbeSelectors()
	if len(sels) != 9 {
		t.Fatalf("expected 9 probe selectors, got %d", len(sels))
	}
	for _, sel := range sels {
		if !strings.Contains(probeJS, "'"+sel+"'") {
			t.Errorf("selector %q is not queried by the probe script", sel)
		}
	}
}

func TestMetricElementIDs_CoverTheSnapshotScript(t *testing.T) {
	if len(metricElementIDs) != 6 {
		t.Fatalf("expected 6 metric element IDs, got %d", len(metricElementIDs))
	}
	for _, id := range metricElementIDs {
		if !strings.Contains(snapshotJS, "'"+id+"'") {
			t.Errorf("metric element %q is not read by the snapshot script", id)
		}
	}
}

func TestClassifyNeuralCanvas_PriorityOrder(t *testing.T) {
	// GL context with positive dimensions wins even when the encoded
	// length is tiny (WebGL buffers encode blank without preserveDrawingBuffer).
	got := classifyNeuralCanvas(neuralFacts{
		ContainerVisible: true, CanvasFound: true, CanvasVisible: true,
		HasGLContext: true, Width: 800, Height: 600, DataURLLength: 10,
	})
	if got != "Canvas has an active WebGL context with positive dimensions." {
		t.Errorf("GL verdict = %q", got)
	}

	// No GL context: fall through to the encoded-length heuristic.
	got = classifyNeuralCanvas(neuralFacts{
		ContainerVisible: true, CanvasFound: true, CanvasVisible: true,
		DataURLLength: 1001,
	})
	if got != "Canvas has rendered pixel content." {
		t.Errorf("pixel-content verdict = %q", got)
	}

	// Exactly at the threshold is still blank: the check is strictly greater.
	got = classifyNeuralCanvas(neuralFacts{
		ContainerVisible: true, CanvasFound: true, CanvasVisible: true,
		DataURLLength: 1000,
	})
	if got != "Canvas is present but appears blank." {
		t.Errorf("blank verdict = %q", got)
	}

	// GL context but zero dimensions does not count as usable.
	got = classifyNeuralCanvas(neuralFacts{
		ContainerVisible: true, CanvasFound: true, CanvasVisible: true,
		HasGLContext: true, Width: 0, Height: 0, DataURLLength: 1500,
	})
	if got != "Canvas has rendered pixel content." {
		t.Errorf("zero-dimension GL should fall to pixel heuristic, got %q", got)
	}
}

func TestClassifyNeuralCanvas_MissingBranches(t *testing.T) {
	got := classifyNeuralCanvas(neuralFacts{})
	if got != "Container #neural-visualization not found or not visible." {
		t.Errorf("missing-container verdict = %q", got)
	}

	got = classifyNeuralCanvas(neuralFacts{ContainerVisible: true})
	if got != "Canvas element not found or not visible within #neural-visualization." {
		t.Errorf("missing-canvas verdict = %q", got)
	}

	got = classifyNeuralCanvas(neuralFacts{ContainerVisible: true, CanvasFound: true, CanvasVisible: false})
	if got != "Canvas element not found or not visible within #neural-visualization." {
		t.Errorf("invisible-canvas verdict = %q", got)
	}
}

func TestChartInitialized_Threshold(t *testing.T) {
	base := chartFacts{Visible: true, CanEncode: true}

	f := base
	f.DataURLLength = 2500
	if !chartInitialized(f) {
		t.Error("encoded length 2500 should count as initialized")
	}

	f.DataURLLength = 1500
	if chartInitialized(f) {
		t.Error("encoded length 1500 should not count as initialized")
	}

	f.DataURLLength = 2000
	if chartInitialized(f) {
		t.Error("threshold is strictly greater than 2000")
	}

	f.DataURLLength = 2001
	if !chartInitialized(f) {
		t.Error("encoded length 2001 should count as initialized")
	}
}

func TestChartInitialized_RequiresVisibleEncodableCanvas(t *testing.T) {
	if chartInitialized(chartFacts{Visible: false, CanEncode: true, DataURLLength: 9999}) {
		t.Error("invisible chart canvas can never count as initialized")
	}
	if chartInitialized(chartFacts{Visible: true, CanEncode: false, DataURLLength: 9999}) {
		t.Error("canvas without encoding capability can never count as initialized")
	}
}
