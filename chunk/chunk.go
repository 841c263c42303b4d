// Package chunk implements length-bounded orchestration for model
// calls: long inputs are split into chunks or sliding windows so each
// call stays inside a fixed budget.
package chunk

import (
	"context"
	"strings"
)

const (
	// DefaultChunkSize is the summarization chunk budget in runes.
	DefaultChunkSize = 1000
	// DefaultWindowSize is the question answering window budget in
	// runes.
	DefaultWindowSize = 2000
)

// SummarizeFunc produces a summary of text between minLength and
// maxLength characters.
type SummarizeFunc func(ctx context.Context, text string, maxLength, minLength int) (string, error)

// AnswerFunc answers a question against a context window, returning the
// answer and a relevance score.
type AnswerFunc func(ctx context.Context, question, window string) (string, float64, error)

// Summarizer splits long inputs into disjoint chunks before
// summarizing.
type Summarizer struct {
	ChunkSize int
}

// NewSummarizer returns a Summarizer with the default chunk budget.
func NewSummarizer() *Summarizer {
	return &Summarizer{ChunkSize: DefaultChunkSize}
}

// Summarize summarizes text to between minLength and maxLength
// characters. Inputs within the chunk budget go through a single call.
// Longer inputs are split into disjoint chunks, each summarized toward
// an equal share of both length budgets; if the concatenation still
// overflows twice the target, a final pass condenses it. For N chunks
// this makes at most N+1 calls.
func (s *Summarizer) Summarize(ctx context.Context, text string, maxLength, minLength int, fn SummarizeFunc) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	size := s.ChunkSize
	if size <= 0 {
		size = DefaultChunkSize
	}

	runes := []rune(text)
	if len(runes) <= size {
		return fn(ctx, text, maxLength, minLength)
	}

	chunks := splitRunes(runes, size)
	perChunkMax := maxLength / len(chunks)
	if perChunkMax < 1 {
		perChunkMax = 1
	}
	perChunkMin := minLength / len(chunks)
	if perChunkMin > perChunkMax {
		perChunkMin = perChunkMax
	}

	parts := make([]string, 0, len(chunks))
	for _, c := range chunks {
		if err := ctx.Err(); err != nil {
			return "", err
		}
		part, err := fn(ctx, c, perChunkMax, perChunkMin)
		if err != nil {
			return "", err
		}
		parts = append(parts, part)
	}

	combined := strings.Join(parts, " ")
	if len([]rune(combined)) > 2*maxLength {
		return fn(ctx, combined, maxLength, minLength)
	}
	return combined, nil
}

// splitRunes cuts runes into consecutive disjoint chunks of at most
// size runes.
func splitRunes(runes []rune, size int) []string {
	chunks := make([]string, 0, (len(runes)+size-1)/size)
	for start := 0; start < len(runes); start += size {
		end := start + size
		if end > len(runes) {
			end = len(runes)
		}
		chunks = append(chunks, string(runes[start:end]))
	}
	return chunks
}

// Answer is a scored question answering result.
type Answer struct {
	Text  string
	Score float64
	Start int // Window start offset in runes
}

// Windower runs question answering over a sliding window.
type Windower struct {
	WindowSize int
}

// NewWindower returns a Windower with the default window budget.
func NewWindower() *Windower {
	return &Windower{WindowSize: DefaultWindowSize}
}

// Answer runs fn over docText with a sliding window at 50% stride and
// returns the highest scoring answer. Earlier windows win ties, so the
// result is deterministic for a given input. Inputs within the window
// budget go through a single call.
func (w *Windower) Answer(ctx context.Context, question, docText string, fn AnswerFunc) (Answer, error) {
	if err := ctx.Err(); err != nil {
		return Answer{}, err
	}

	size := w.WindowSize
	if size <= 0 {
		size = DefaultWindowSize
	}

	runes := []rune(docText)
	if len(runes) <= size {
		text, score, err := fn(ctx, question, docText)
		if err != nil {
			return Answer{}, err
		}
		return Answer{Text: text, Score: score}, nil
	}

	stride := size / 2
	best := Answer{}
	found := false

	for start := 0; start < len(runes); start += stride {
		if err := ctx.Err(); err != nil {
			return Answer{}, err
		}

		end := start + size
		if end > len(runes) {
			end = len(runes)
		}

		text, score, err := fn(ctx, question, string(runes[start:end]))
		if err != nil {
			return Answer{}, err
		}
		if !found || score > best.Score {
			best = Answer{Text: text, Score: score, Start: start}
			found = true
		}

		if end == len(runes) {
			break
		}
	}

	return best, nil
}
