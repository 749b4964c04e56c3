package simulation

import (
	"context"
	"reflect"
	"testing"

	"promptlab/domain/core"
)

func newTestGenerator(seed int64) *Generator {
	return NewGenerator(NewRNGAdapter(), seed)
}

// TestSample_Deterministic verifies identical seeds replay identical draws
func TestSample_Deterministic(t *testing.T) {
	ctx := context.Background()

	first, err := newTestGenerator(42).Sample(ctx, MetricTokens, "control", 50)
	if err != nil {
		t.Fatalf("sample: %v", err)
	}
	second, err := newTestGenerator(42).Sample(ctx, MetricTokens, "control", 50)
	if err != nil {
		t.Fatalf("sample replay: %v", err)
	}

	if !reflect.DeepEqual(first, second) {
		t.Error("Same seed, metric, and variant must replay bit-identical samples")
	}
}

func TestSample_VariantStreamsIndependent(t *testing.T) {
	ctx := context.Background()
	gen := newTestGenerator(42)

	control, err := gen.Sample(ctx, MetricTokens, "control", 50)
	if err != nil {
		t.Fatalf("sample control: %v", err)
	}
	treatment, err := gen.Sample(ctx, MetricTokens, "treatment", 50)
	if err != nil {
		t.Fatalf("sample treatment: %v", err)
	}

	if reflect.DeepEqual(control, treatment) {
		t.Error("Different variants must not share a stream")
	}
}

func TestSample_SeedPartitionsStreams(t *testing.T) {
	ctx := context.Background()

	first, _ := newTestGenerator(1).Sample(ctx, MetricQuality, "control", 20)
	second, _ := newTestGenerator(2).Sample(ctx, MetricQuality, "control", 20)

	if reflect.DeepEqual(first, second) {
		t.Error("Different seeds must not replay the same draws")
	}
}

// TestSampleGroups_ShiftAppliedExactly verifies the arm shift is a pure
// post-draw addition on the same underlying stream
func TestSampleGroups_ShiftAppliedExactly(t *testing.T) {
	ctx := context.Background()
	gen := newTestGenerator(42)

	base, err := gen.Sample(ctx, MetricTokens, "x", 300)
	if err != nil {
		t.Fatalf("sample: %v", err)
	}
	names, groups, err := gen.SampleGroups(ctx, MetricTokens, []Variant{{Name: "x", Shift: 5}}, 300)
	if err != nil {
		t.Fatalf("sample groups: %v", err)
	}
	if len(names) != 1 || names[0] != "x" {
		t.Fatalf("Expected single group x, got %v", names)
	}

	shifted := groups["x"]
	for i := range base {
		if shifted[i] != base[i]+5 {
			t.Fatalf("Draw %d: expected %v, got %v", i, base[i]+5, shifted[i])
		}
	}
}

func TestSampleGroups_OrderFollowsVariants(t *testing.T) {
	ctx := context.Background()
	gen := newTestGenerator(7)

	variants := []Variant{{Name: "c"}, {Name: "a"}, {Name: "b"}}
	names, groups, err := gen.SampleGroups(ctx, MetricMemory, variants, 10)
	if err != nil {
		t.Fatalf("sample groups: %v", err)
	}

	expected := []string{"c", "a", "b"}
	if !reflect.DeepEqual(names, expected) {
		t.Errorf("Expected declaration order %v, got %v", expected, names)
	}
	for _, name := range expected {
		if len(groups[name]) != 10 {
			t.Errorf("Group %s has %d samples, want 10", name, len(groups[name]))
		}
	}
}

func TestSample_ProfileBounds(t *testing.T) {
	ctx := context.Background()
	gen := newTestGenerator(99)

	quality, err := gen.Sample(ctx, MetricQuality, "control", 500)
	if err != nil {
		t.Fatalf("sample quality: %v", err)
	}
	for i, v := range quality {
		if v < 0 || v > 100 {
			t.Fatalf("quality[%d] = %v outside [0,100]", i, v)
		}
	}

	latency, _ := gen.Sample(ctx, MetricLatency, "control", 500)
	for i, v := range latency {
		if v < 1 {
			t.Fatalf("latency[%d] = %v below floor", i, v)
		}
	}

	memory, _ := gen.Sample(ctx, MetricMemory, "control", 500)
	for i, v := range memory {
		if v < 64 {
			t.Fatalf("memory[%d] = %v below floor", i, v)
		}
	}
}

func TestSample_UnknownMetric(t *testing.T) {
	_, err := newTestGenerator(1).Sample(context.Background(), "throughput_qps", "control", 10)
	if !core.IsUnsupportedOptionError(err) {
		t.Fatalf("Expected unsupported option error, got %v", err)
	}
}

func TestSample_NoObservations(t *testing.T) {
	_, err := newTestGenerator(1).Sample(context.Background(), MetricTokens, "control", 0)
	if !core.IsInsufficientDataError(err) {
		t.Fatalf("Expected insufficient data error, got %v", err)
	}
}

func TestMetrics_SortedNames(t *testing.T) {
	expected := []string{MetricLatency, MetricMemory, MetricQuality, MetricTokens}
	if got := Metrics(); !reflect.DeepEqual(got, expected) {
		t.Errorf("Expected %v, got %v", expected, got)
	}
}

// TestValidateSeed_DetectsDrift verifies drift detection against a
// recorded prefix of the stream
func TestValidateSeed_DetectsDrift(t *testing.T) {
	ctx := context.Background()
	adapter := NewRNGAdapter()

	stream, err := adapter.SeededStream(ctx, "latency_ms/control", 7)
	if err != nil {
		t.Fatalf("stream: %v", err)
	}
	recorded := make([]float64, 5)
	for i := range recorded {
		recorded[i] = stream.Float64()
	}

	if err := adapter.ValidateSeed(ctx, "latency_ms/control", 7, recorded); err != nil {
		t.Errorf("Recorded prefix should validate, got %v", err)
	}

	recorded[3] += 1e-6
	if err := adapter.ValidateSeed(ctx, "latency_ms/control", 7, recorded); err == nil {
		t.Error("Perturbed prefix should fail validation")
	}
}

func TestSeededStream_RequiresName(t *testing.T) {
	_, err := NewRNGAdapter().SeededStream(context.Background(), "", 1)
	if err == nil {
		t.Fatal("Expected error for empty stream name")
	}
}
