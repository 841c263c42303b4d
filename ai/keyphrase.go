package ai

import (
	"context"
	"math"
	"sort"
	"strings"
)

const (
	// maxFeatures caps the TF-IDF vocabulary size.
	maxFeatures = 100
	// maxDocFreq drops terms appearing in more than this share of
	// sentences.
	maxDocFreq = 0.7
	// maxNGram is the longest phrase length in words.
	maxNGram = 3
)

// KeyPhrase is a scored phrase extracted from text.
type KeyPhrase struct {
	Text  string  `json:"text"`
	Score float64 `json:"score"`
}

var stopwords = map[string]bool{
	"the": true, "and": true, "for": true, "are": true, "but": true,
	"not": true, "you": true, "all": true, "can": true, "had": true,
	"her": true, "was": true, "one": true, "our": true, "out": true,
	"has": true, "his": true, "how": true, "its": true, "may": true,
	"new": true, "now": true, "old": true, "any": true, "this": true,
	"that": true, "with": true, "from": true, "they": true, "will": true,
	"have": true, "been": true, "were": true, "their": true, "which": true,
	"there": true, "would": true, "could": true, "should": true,
	"about": true, "into": true, "than": true, "them": true, "then": true,
	"these": true, "those": true, "when": true, "where": true, "while": true,
	"also": true, "such": true, "only": true, "other": true, "some": true,
	"more": true, "most": true, "over": true, "after": true, "before": true,
	"between": true, "each": true, "under": true, "both": true, "during": true,
	"very": true, "once": true, "here": true, "why": true, "what": true,
	"who": true, "whom": true, "does": true, "did": true, "doing": true,
	"being": true, "because": true, "until": true, "against": true,
	"through": true, "above": true, "below": true, "again": true,
	"further": true, "same": true, "own": true, "too": true,
	"just": true, "few": true, "nor": true, "off": true, "down": true,
}

// ExtractKeyPhrases runs TF-IDF over the text's sentences and returns
// the topK highest scoring phrases of one to three words. A text with
// fewer than two sentences carries too little signal and yields no
// phrases. Results are deterministic: ties break lexicographically.
func (m *Manager) ExtractKeyPhrases(ctx context.Context, text string, topK int) ([]KeyPhrase, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if topK <= 0 {
		return nil, nil
	}

	sentences := splitSentences(text)
	if len(sentences) < 2 {
		return nil, nil
	}

	// Tokenize each sentence and build n-gram counts.
	docs := make([]map[string]int, len(sentences))
	for i, s := range sentences {
		docs[i] = ngramCounts(s)
	}

	// Document frequency per term, with the frequency ceiling applied.
	df := make(map[string]int)
	totalCount := make(map[string]int)
	for _, doc := range docs {
		for term, n := range doc {
			df[term]++
			totalCount[term] += n
		}
	}
	n := len(docs)
	for term, d := range df {
		if float64(d)/float64(n) > maxDocFreq {
			delete(df, term)
			delete(totalCount, term)
		}
	}
	if len(df) == 0 {
		return nil, nil
	}

	// Cap the vocabulary at the most frequent terms.
	vocab := make([]string, 0, len(df))
	for term := range df {
		vocab = append(vocab, term)
	}
	sort.Slice(vocab, func(i, j int) bool {
		if totalCount[vocab[i]] != totalCount[vocab[j]] {
			return totalCount[vocab[i]] > totalCount[vocab[j]]
		}
		return vocab[i] < vocab[j]
	})
	if len(vocab) > maxFeatures {
		vocab = vocab[:maxFeatures]
	}

	idf := make(map[string]float64, len(vocab))
	for _, term := range vocab {
		idf[term] = math.Log(float64(1+n)/float64(1+df[term])) + 1
	}

	// Mean TF-IDF per term across l2-normalized sentence vectors.
	mean := make(map[string]float64, len(vocab))
	for _, doc := range docs {
		var norm float64
		weights := make(map[string]float64)
		for _, term := range vocab {
			if tf := doc[term]; tf > 0 {
				w := float64(tf) * idf[term]
				weights[term] = w
				norm += w * w
			}
		}
		if norm == 0 {
			continue
		}
		norm = math.Sqrt(norm)
		for term, w := range weights {
			mean[term] += w / norm
		}
	}
	for term := range mean {
		mean[term] /= float64(n)
	}

	phrases := make([]KeyPhrase, 0, len(mean))
	for term, score := range mean {
		phrases = append(phrases, KeyPhrase{Text: term, Score: score})
	}
	sort.Slice(phrases, func(i, j int) bool {
		if phrases[i].Score != phrases[j].Score {
			return phrases[i].Score > phrases[j].Score
		}
		return phrases[i].Text < phrases[j].Text
	})

	if len(phrases) > topK {
		phrases = phrases[:topK]
	}
	return phrases, nil
}

// ngramCounts tokenizes a sentence and counts its 1..3-grams,
// excluding stopword-only candidates.
func ngramCounts(sentence string) map[string]int {
	tokens := tokenize(sentence)
	filtered := make([]string, 0, len(tokens))
	for _, t := range tokens {
		if !stopwords[t] {
			filtered = append(filtered, t)
		}
	}

	counts := make(map[string]int)
	for size := 1; size <= maxNGram; size++ {
		for i := 0; i+size <= len(filtered); i++ {
			counts[strings.Join(filtered[i:i+size], " ")]++
		}
	}
	return counts
}
