package heuristics

import (
	"math"
	"regexp"
	"strings"
)

// Metric names produced by the scorer, stable across runs so stored
// reports stay comparable
const (
	MetricStructure = "structure"
	MetricClarity   = "clarity"
	MetricVerbosity = "verbosity"
)

var (
	numberedItem = regexp.MustCompile(`^\d+[.)] `)
	sentenceEnd  = regexp.MustCompile(`[.!?]+`)

	hedgeWords = map[string]struct{}{
		"maybe": {}, "perhaps": {}, "possibly": {}, "might": {},
		"somewhat": {}, "arguably": {}, "likely": {}, "probably": {},
	}
	fillerWords = map[string]struct{}{
		"very": {}, "really": {}, "basically": {}, "actually": {},
		"just": {}, "quite": {}, "rather": {},
	}
)

// Verbosity band in words. Inside the band responses score full marks;
// outside they decay toward zero.
const (
	verbosityFloor = 80
	verbosityCeil  = 200
)

// Scorer grades prompt responses with algorithmic text rules. Every
// score lands in [0,100] so samples from different metrics share a
// scale.
type Scorer struct{}

// NewScorer creates a new heuristic response scorer
func NewScorer() *Scorer {
	return &Scorer{}
}

// Metrics returns the metric names in render order
func (s *Scorer) Metrics() []string {
	return []string{MetricStructure, MetricClarity, MetricVerbosity}
}

// ScoreStructure rewards visible organization: headings, list items,
// code fences, and paragraph breaks
func (s *Scorer) ScoreStructure(text string) float64 {
	if strings.TrimSpace(text) == "" {
		return 0
	}

	var headings, bullets, fences, breaks int
	for _, line := range strings.Split(text, "\n") {
		trimmed := strings.TrimSpace(line)
		switch {
		case strings.HasPrefix(trimmed, "#"):
			headings++
		case strings.HasPrefix(trimmed, "- "), strings.HasPrefix(trimmed, "* "), numberedItem.MatchString(trimmed):
			bullets++
		case strings.HasPrefix(trimmed, "```"):
			fences++
		case trimmed == "":
			breaks++
		}
	}

	// Weight the components, each capped so one device cannot max the score
	score := math.Min(float64(headings)*10, 30)
	score += math.Min(float64(bullets)*5, 30)
	score += math.Min(float64(fences)*10, 20)
	score += math.Min(float64(breaks)*4, 20)
	return clampScore(score)
}

// ScoreClarity starts from full marks and charges for run-on
// sentences, hedging, and filler
func (s *Scorer) ScoreClarity(text string) float64 {
	words := strings.Fields(text)
	if len(words) == 0 {
		return 0
	}

	sentences := 0
	for _, part := range sentenceEnd.Split(text, -1) {
		if strings.TrimSpace(part) != "" {
			sentences++
		}
	}
	if sentences == 0 {
		sentences = 1
	}
	meanLen := float64(len(words)) / float64(sentences)

	score := 100.0
	if meanLen > 22 {
		score -= math.Min((meanLen-22)*3, 40)
	}
	if meanLen < 5 {
		score -= 15
	}
	score -= math.Min(float64(countVocab(words, hedgeWords))*6, 30)
	score -= math.Min(float64(countVocab(words, fillerWords))*4, 20)
	return clampScore(score)
}

// ScoreVerbosity scores length against the target band
func (s *Scorer) ScoreVerbosity(text string) float64 {
	n := len(strings.Fields(text))
	switch {
	case n == 0:
		return 0
	case n < verbosityFloor:
		return clampScore(100 * float64(n) / verbosityFloor)
	case n <= verbosityCeil:
		return 100
	default:
		return clampScore(100 - float64(n-verbosityCeil)*0.25)
	}
}

// ScoreAll grades every response on every metric. Sample order follows
// response order so scores stay pairable with their source texts.
func (s *Scorer) ScoreAll(responses []string) map[string][]float64 {
	samples := map[string][]float64{
		MetricStructure: make([]float64, 0, len(responses)),
		MetricClarity:   make([]float64, 0, len(responses)),
		MetricVerbosity: make([]float64, 0, len(responses)),
	}
	for _, text := range responses {
		samples[MetricStructure] = append(samples[MetricStructure], s.ScoreStructure(text))
		samples[MetricClarity] = append(samples[MetricClarity], s.ScoreClarity(text))
		samples[MetricVerbosity] = append(samples[MetricVerbosity], s.ScoreVerbosity(text))
	}
	return samples
}

// countVocab counts words present in vocab, ignoring case and
// surrounding punctuation
func countVocab(words []string, vocab map[string]struct{}) int {
	hits := 0
	for _, w := range words {
		cleaned := strings.Trim(strings.ToLower(w), ".,;:!?\"'()")
		if _, ok := vocab[cleaned]; ok {
			hits++
		}
	}
	return hits
}

func clampScore(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}
