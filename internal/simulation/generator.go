package simulation

import (
	"context"
	"math"
	"sort"

	"promptlab/domain/core"
	"promptlab/ports"
)

// Metric names the generator can synthesize
const (
	MetricLatency = "latency_ms"
	MetricTokens  = "tokens_per_sec"
	MetricMemory  = "memory_mb"
	MetricQuality = "quality"
)

// profile describes one synthetic metric stream. LogNormal profiles
// interpret Mean as the median of the resulting distribution.
type profile struct {
	Mean      float64
	SD        float64
	LogNormal bool
	Floor     float64
	Ceil      float64 // zero means unbounded above
}

var profiles = map[string]profile{
	MetricLatency: {Mean: 120, SD: 0.35, LogNormal: true, Floor: 1},
	MetricTokens:  {Mean: 38, SD: 7, Floor: 1},
	MetricMemory:  {Mean: 512, SD: 48, Floor: 64},
	MetricQuality: {Mean: 72, SD: 9, Floor: 0, Ceil: 100},
}

// Metrics returns the supported metric names, sorted
func Metrics() []string {
	names := make([]string, 0, len(profiles))
	for name := range profiles {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Variant names one simulated arm of an experiment and the additive
// shift applied to its draws, in metric units
type Variant struct {
	Name  string
	Shift float64
}

// Generator synthesizes metric samples from seeded streams so demo
// experiments replay bit-identically
type Generator struct {
	rng  ports.RNGPort
	seed int64
}

// NewGenerator creates a generator over the given stream factory
func NewGenerator(rng ports.RNGPort, seed int64) *Generator {
	return &Generator{rng: rng, seed: seed}
}

// Sample draws n observations of metric for the named variant. The
// stream is keyed by metric and variant so arms never share draws.
func (g *Generator) Sample(ctx context.Context, metric, variant string, n int) ([]float64, error) {
	prof, ok := profiles[metric]
	if !ok {
		return nil, core.NewUnsupportedOptionError("metric", metric)
	}
	if n < 1 {
		return nil, core.NewInsufficientDataError("simulation", n, 1)
	}

	stream, err := g.rng.SeededStream(ctx, metric+"/"+variant, g.seed)
	if err != nil {
		return nil, err
	}

	samples := make([]float64, n)
	for i := range samples {
		var v float64
		if prof.LogNormal {
			v = math.Exp(stream.NormFloat64()*prof.SD + math.Log(prof.Mean))
		} else {
			v = prof.Mean + stream.NormFloat64()*prof.SD
		}
		if v < prof.Floor {
			v = prof.Floor
		}
		if prof.Ceil > 0 && v > prof.Ceil {
			v = prof.Ceil
		}
		samples[i] = v
	}
	return samples, nil
}

// SampleGroups draws one group per variant, applying each variant's
// shift after the draw. Group order follows the variants.
func (g *Generator) SampleGroups(ctx context.Context, metric string, variants []Variant, n int) ([]string, map[string][]float64, error) {
	if len(variants) == 0 {
		return nil, nil, core.NewInsufficientDataError("simulation variants", 0, 1)
	}

	names := make([]string, 0, len(variants))
	groups := make(map[string][]float64, len(variants))
	for _, variant := range variants {
		samples, err := g.Sample(ctx, metric, variant.Name, n)
		if err != nil {
			return nil, nil, err
		}
		for i := range samples {
			samples[i] += variant.Shift
		}
		names = append(names, variant.Name)
		groups[variant.Name] = samples
	}
	return names, groups, nil
}
