package ai

import (
	"context"
	"hash/fnv"
	"math"
	"regexp"
	"sort"
	"strings"
)

// Local inference backends. These run entirely in-process and exist so
// a pipeline works out of the box; callers with real model servers
// plug their own implementations into the Manager instead.

var sentenceRe = regexp.MustCompile(`[.!?]+\s*`)

// splitSentences splits text into trimmed non-empty sentences.
func splitSentences(text string) []string {
	parts := sentenceRe.Split(text, -1)
	sentences := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			sentences = append(sentences, p)
		}
	}
	return sentences
}

// tokenize lowercases text and returns its word tokens.
func tokenize(text string) []string {
	var tokens []string
	for _, f := range strings.Fields(strings.ToLower(text)) {
		f = strings.Trim(f, ".,;:!?()[]{}\"'")
		if len(f) >= 2 {
			tokens = append(tokens, f)
		}
	}
	return tokens
}

// ExtractiveSummarizer summarizes by selecting the highest scoring
// sentences, ranked by word frequency, and emitting them in original
// order.
type ExtractiveSummarizer struct{}

func (ExtractiveSummarizer) Summarize(ctx context.Context, text string, maxLength, minLength int) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	sentences := splitSentences(text)
	if len(sentences) == 0 {
		return "", nil
	}

	freq := make(map[string]int)
	for _, s := range sentences {
		for _, tok := range tokenize(s) {
			freq[tok]++
		}
	}

	type scored struct {
		idx   int
		score float64
	}
	ranked := make([]scored, 0, len(sentences))
	for i, s := range sentences {
		tokens := tokenize(s)
		if len(tokens) == 0 {
			continue
		}
		sum := 0
		for _, tok := range tokens {
			sum += freq[tok]
		}
		ranked = append(ranked, scored{idx: i, score: float64(sum) / float64(len(tokens))})
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].score > ranked[j].score
	})

	// Greedily take top sentences while they fit, then restore
	// document order. The minimum budget keeps short summaries growing
	// past the first overflow.
	var picked []int
	used := 0
	for _, r := range ranked {
		n := len([]rune(sentences[r.idx])) + 2
		if used+n > maxLength && used >= minLength && used > 0 {
			continue
		}
		picked = append(picked, r.idx)
		used += n
		if used >= maxLength {
			break
		}
	}
	sort.Ints(picked)

	parts := make([]string, 0, len(picked))
	for _, idx := range picked {
		parts = append(parts, sentences[idx])
	}
	out := strings.Join(parts, ". ")
	if out != "" {
		out += "."
	}

	runes := []rune(out)
	if len(runes) > maxLength && maxLength > 0 {
		out = string(runes[:maxLength])
	}
	return out, nil
}

// OverlapAnswerer answers by returning the sentence with the highest
// word overlap with the question.
type OverlapAnswerer struct{}

func (OverlapAnswerer) Answer(ctx context.Context, question, window string) (string, float64, error) {
	if err := ctx.Err(); err != nil {
		return "", 0, err
	}

	qTokens := tokenize(question)
	if len(qTokens) == 0 {
		return "", 0, nil
	}
	qSet := make(map[string]bool, len(qTokens))
	for _, t := range qTokens {
		qSet[t] = true
	}

	best := ""
	bestScore := 0.0
	for _, s := range splitSentences(window) {
		matched := 0
		seen := make(map[string]bool)
		for _, tok := range tokenize(s) {
			if qSet[tok] && !seen[tok] {
				matched++
				seen[tok] = true
			}
		}
		score := float64(matched) / float64(len(qSet))
		if score > bestScore {
			best = s
			bestScore = score
		}
	}

	return best, bestScore, nil
}

// HashingEmbedder embeds text with the hashing trick: tokens are FNV
// hashed into a fixed-size vector which is then L2 normalized.
type HashingEmbedder struct {
	Dim int
}

// DefaultEmbeddingDim matches common sentence embedding widths.
const DefaultEmbeddingDim = 384

func (h HashingEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	dim := h.Dim
	if dim <= 0 {
		dim = DefaultEmbeddingDim
	}

	vec := make([]float32, dim)
	for _, tok := range tokenize(text) {
		hash := fnv.New32a()
		hash.Write([]byte(tok))
		sum := hash.Sum32()
		idx := int(sum % uint32(dim))
		// Second hash bit picks the sign to reduce collisions bias.
		if sum&0x80000000 != 0 {
			vec[idx]--
		} else {
			vec[idx]++
		}
	}

	var norm float64
	for _, v := range vec {
		norm += float64(v) * float64(v)
	}
	if norm > 0 {
		scale := float32(1 / math.Sqrt(norm))
		for i := range vec {
			vec[i] *= scale
		}
	}
	return vec, nil
}

// LexiconSentiment classifies sentiment from small positive and
// negative word lists.
type LexiconSentiment struct{}

var positiveWords = map[string]bool{
	"good": true, "great": true, "excellent": true, "positive": true,
	"success": true, "successful": true, "improve": true, "improved": true,
	"growth": true, "strong": true, "best": true, "happy": true,
	"gain": true, "profit": true, "win": true, "benefit": true,
}

var negativeWords = map[string]bool{
	"bad": true, "poor": true, "negative": true, "fail": true,
	"failure": true, "failed": true, "decline": true, "weak": true,
	"worst": true, "loss": true, "problem": true, "risk": true,
	"concern": true, "drop": true, "deficit": true, "unhappy": true,
}

func (LexiconSentiment) Classify(ctx context.Context, text string) (string, float64, error) {
	if err := ctx.Err(); err != nil {
		return "", 0, err
	}

	pos, neg := 0, 0
	for _, tok := range tokenize(text) {
		if positiveWords[tok] {
			pos++
		}
		if negativeWords[tok] {
			neg++
		}
	}

	total := pos + neg
	if total == 0 {
		return "neutral", 0.5, nil
	}

	if pos > neg {
		return "positive", float64(pos) / float64(total), nil
	}
	if neg > pos {
		return "negative", float64(neg) / float64(total), nil
	}
	return "neutral", 0.5, nil
}
