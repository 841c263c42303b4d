package ai

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/polydocai/polydoc/config"
)

func newTestManager(t *testing.T, opts ...Option) *Manager {
	t.Helper()
	m, err := New(HashingEmbedder{Dim: 64}, nil, opts...)
	require.NoError(t, err)
	return m
}

func TestNew_RequiresEmbedder(t *testing.T) {
	_, err := New(nil, nil)
	assert.ErrorIs(t, err, ErrEmbedderRequired)
}

func TestCapabilities(t *testing.T) {
	m := newTestManager(t)
	caps := m.Capabilities()
	assert.True(t, caps.Embeddings)
	assert.False(t, caps.Summarization)
	assert.False(t, caps.QuestionAnswering)
	assert.False(t, caps.Sentiment)

	full := newTestManager(t,
		WithSummarizer(ExtractiveSummarizer{}),
		WithAnswerer(OverlapAnswerer{}),
		WithSentiment(LexiconSentiment{}),
	)
	caps = full.Capabilities()
	assert.True(t, caps.Summarization)
	assert.True(t, caps.QuestionAnswering)
	assert.True(t, caps.Sentiment)
}

func TestFromConfig(t *testing.T) {
	cfg := config.InferenceConfig{ChunkSize: 500, WindowSize: 800, Concurrency: 2, EmbeddingDim: 32}

	m, err := FromConfig(cfg, nil, nil, WithSummarizer(ExtractiveSummarizer{}))
	require.NoError(t, err)

	vec, err := m.Embed(context.Background(), "configured embedder")
	require.NoError(t, err)
	assert.Len(t, vec, 32)

	assert.Equal(t, 500, m.chunker.ChunkSize)
	assert.Equal(t, 800, m.windower.WindowSize)
	assert.Equal(t, 2, cap(m.sem))
	assert.True(t, m.Capabilities().Summarization)
}

func TestSummarize_FallbackWithoutBackend(t *testing.T) {
	m := newTestManager(t)

	long := strings.Repeat("alpha beta gamma ", 50)
	resp, err := m.Summarize(context.Background(), long, 100, 10, "en")
	require.NoError(t, err)

	assert.Equal(t, 0.0, resp.Confidence)
	assert.Equal(t, true, resp.Metadata["fallback"])
	assert.Equal(t, "en", resp.Metadata["language"])
	assert.True(t, strings.HasSuffix(resp.Content, "..."))
	assert.LessOrEqual(t, len([]rune(resp.Content)), summaryPreviewLen+3)
}

func TestSummarize_WithBackend(t *testing.T) {
	m := newTestManager(t, WithSummarizer(ExtractiveSummarizer{}))

	text := "The project shipped on time. The team celebrated the launch. Budgets were met across the board."
	resp, err := m.Summarize(context.Background(), text, 80, 20, "en")
	require.NoError(t, err)

	assert.NotEmpty(t, resp.Content)
	assert.Equal(t, 1.0, resp.Confidence)
	assert.Equal(t, 80, resp.Metadata["max_length"])
	assert.Equal(t, 20, resp.Metadata["min_length"])
	assert.Equal(t, "en", resp.Metadata["language"])
	assert.NotContains(t, resp.Metadata, "fallback")
}

func TestSummarize_LongInputChunks(t *testing.T) {
	calls := 0
	counting := summarizeFn(func(ctx context.Context, text string, maxLength, minLength int) (string, error) {
		calls++
		runes := []rune(text)
		if len(runes) > maxLength {
			runes = runes[:maxLength]
		}
		return string(runes), nil
	})

	m := newTestManager(t, WithSummarizer(counting), WithChunkSize(500))

	_, err := m.Summarize(context.Background(), strings.Repeat("x", 1600), 90, 0, "")
	require.NoError(t, err)

	// Four chunks of at most 500 runes, no collapse pass needed.
	assert.Equal(t, 4, calls)
}

func TestSummarize_BackendErrorRecovers(t *testing.T) {
	failing := summarizeFn(func(ctx context.Context, text string, maxLength, minLength int) (string, error) {
		return "", errors.New("model unavailable")
	})
	m := newTestManager(t, WithSummarizer(failing))

	resp, err := m.Summarize(context.Background(), "Some document text to summarize.", 50, 0, "")
	require.NoError(t, err)

	assert.Equal(t, 0.0, resp.Confidence)
	assert.Equal(t, true, resp.Metadata["fallback"])
	assert.NotEmpty(t, resp.Content)
}

// summarizeFn adapts a function to the Summarizer interface.
type summarizeFn func(ctx context.Context, text string, maxLength, minLength int) (string, error)

func (f summarizeFn) Summarize(ctx context.Context, text string, maxLength, minLength int) (string, error) {
	return f(ctx, text, maxLength, minLength)
}

func TestAnswerQuestion_FallbackWithoutBackend(t *testing.T) {
	m := newTestManager(t)

	resp, err := m.AnswerQuestion(context.Background(), "what happened?", strings.Repeat("c", 500), "")
	require.NoError(t, err)

	assert.Equal(t, 0.0, resp.Confidence)
	assert.Equal(t, true, resp.Metadata["fallback"])
	assert.Len(t, resp.Content, answerPreviewLen+3)
}

func TestAnswerQuestion_SlidingWindow(t *testing.T) {
	m := newTestManager(t, WithAnswerer(OverlapAnswerer{}), WithWindowSize(200))

	doc := strings.Repeat("Nothing relevant here. ", 20) +
		"The warehouse relocation finished in March. " +
		strings.Repeat("More irrelevant filler text. ", 20)

	resp, err := m.AnswerQuestion(context.Background(), "When did the warehouse relocation finish?", doc, "en")
	require.NoError(t, err)

	assert.Contains(t, resp.Content, "warehouse relocation finished in March")
	assert.Greater(t, resp.Confidence, 0.3)
	assert.Contains(t, resp.Metadata, "window_start")
	assert.Equal(t, "en", resp.Metadata["language"])
}

func TestAnswerQuestion_NoAnswerPlaceholder(t *testing.T) {
	silent := answerFn(func(ctx context.Context, question, window string) (string, float64, error) {
		return "", 0, nil
	})
	m := newTestManager(t, WithAnswerer(silent), WithWindowSize(200))

	resp, err := m.AnswerQuestion(context.Background(), "anything?", strings.Repeat("d", 600), "")
	require.NoError(t, err)

	assert.Equal(t, noAnswerContent, resp.Content)
	assert.Equal(t, 0.0, resp.Confidence)
}

// answerFn adapts a function to the Answerer interface.
type answerFn func(ctx context.Context, question, window string) (string, float64, error)

func (f answerFn) Answer(ctx context.Context, question, window string) (string, float64, error) {
	return f(ctx, question, window)
}

func TestAnalyzeSentiment(t *testing.T) {
	m := newTestManager(t, WithSentiment(LexiconSentiment{}))

	resp, err := m.AnalyzeSentiment(context.Background(), "Great results and strong growth this quarter.")
	require.NoError(t, err)
	assert.Equal(t, "positive", resp.Content)
	assert.Greater(t, resp.Confidence, 0.5)

	resp, err = m.AnalyzeSentiment(context.Background(), "Poor performance, weak margins, rising risk.")
	require.NoError(t, err)
	assert.Equal(t, "negative", resp.Content)

	resp, err = m.AnalyzeSentiment(context.Background(), "The meeting is on Tuesday.")
	require.NoError(t, err)
	assert.Equal(t, "neutral", resp.Content)
}

func TestAnalyzeSentiment_FallbackWithoutBackend(t *testing.T) {
	m := newTestManager(t)

	resp, err := m.AnalyzeSentiment(context.Background(), "anything")
	require.NoError(t, err)
	assert.Equal(t, "neutral", resp.Content)
	assert.Equal(t, 0.0, resp.Confidence)
	assert.Equal(t, true, resp.Metadata["fallback"])
}

func TestEmbed(t *testing.T) {
	m := newTestManager(t)

	vec, err := m.Embed(context.Background(), "the quick brown fox")
	require.NoError(t, err)
	assert.Len(t, vec, 64)

	// Same input, same vector.
	again, err := m.Embed(context.Background(), "the quick brown fox")
	require.NoError(t, err)
	assert.Equal(t, vec, again)

	// Unit norm.
	var norm float64
	for _, v := range vec {
		norm += float64(v) * float64(v)
	}
	assert.InDelta(t, 1.0, norm, 1e-5)
}

func TestDetectLanguage(t *testing.T) {
	m := newTestManager(t)

	tests := []struct {
		name string
		text string
		want string
	}{
		{"english", "The quick brown fox jumps over the lazy dog", "en"},
		{"arabic", "مرحبا بكم في هذا المستند الطويل", "ar"},
		{"hindi", "यह एक लंबा दस्तावेज़ है", "hi"},
		{"chinese", "这是一个很长的文档内容", "zh"},
		{"russian", "Это документ на русском языке", "ru"},
		{"spanish", "El niño está en España mañana", "es"},
		{"french", "Là où ça se passe, c'est très drôle", "fr"},
		{"empty", "", "en"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, m.DetectLanguage(tt.text))
		})
	}
}

func TestExtractKeyPhrases(t *testing.T) {
	m := newTestManager(t)

	text := "Machine learning drives the product roadmap. " +
		"The machine learning team trains models weekly. " +
		"Customers praised the search feature. " +
		"Search quality depends on model freshness."

	phrases, err := m.ExtractKeyPhrases(context.Background(), text, 10)
	require.NoError(t, err)
	require.NotEmpty(t, phrases)

	assert.LessOrEqual(t, len(phrases), 10)
	for i := 1; i < len(phrases); i++ {
		assert.GreaterOrEqual(t, phrases[i-1].Score, phrases[i].Score)
	}

	joined := make([]string, 0, len(phrases))
	for _, p := range phrases {
		joined = append(joined, p.Text)
	}
	assert.Contains(t, strings.Join(joined, "|"), "machine learning")
}

func TestExtractKeyPhrases_TooFewSentences(t *testing.T) {
	m := newTestManager(t)

	phrases, err := m.ExtractKeyPhrases(context.Background(), "Just one sentence here.", 5)
	require.NoError(t, err)
	assert.Empty(t, phrases)
}

func TestExtractKeyPhrases_Deterministic(t *testing.T) {
	m := newTestManager(t)

	text := "Solar panels cut energy costs. Energy storage complements solar panels. " +
		"Grid operators track energy demand. Storage capacity keeps growing."

	first, err := m.ExtractKeyPhrases(context.Background(), text, 8)
	require.NoError(t, err)

	for i := 0; i < 5; i++ {
		again, err := m.ExtractKeyPhrases(context.Background(), text, 8)
		require.NoError(t, err)
		assert.Equal(t, first, again)
	}
}
