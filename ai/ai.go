// Package ai orchestrates inference over extracted documents:
// summarization, question answering, sentiment, embeddings and key
// phrase extraction. Model backends are pluggable; every operation
// degrades to a deterministic fallback response when its backend is
// missing, except embeddings, which are required.
package ai

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/polydocai/polydoc/chunk"
	"github.com/polydocai/polydoc/config"
	"github.com/polydocai/polydoc/lang"
)

// ErrEmbedderRequired is returned by New when no embedder is supplied.
// Embeddings back retrieval, so a manager without one is unusable.
var ErrEmbedderRequired = errors.New("ai: embedder is required")

const (
	summaryPreviewLen = 200
	answerPreviewLen  = 300

	defaultConcurrency = 4

	// noAnswerContent is returned when no window produces an answer.
	noAnswerContent = "No answer found"
)

// ModelResponse is the result of a single inference operation.
type ModelResponse struct {
	Content        string         `json:"content"`
	Confidence     float64        `json:"confidence"`
	Metadata       map[string]any `json:"metadata"`
	ProcessingTime time.Duration  `json:"processing_time"`
}

// Capabilities records which backends a Manager was built with.
type Capabilities struct {
	Summarization     bool `json:"summarization"`
	QuestionAnswering bool `json:"question_answering"`
	Sentiment         bool `json:"sentiment"`
	Embeddings        bool `json:"embeddings"`
}

// Embedder turns text into a dense vector.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
}

// Summarizer produces a summary of text between minLength and
// maxLength characters.
type Summarizer interface {
	Summarize(ctx context.Context, text string, maxLength, minLength int) (string, error)
}

// Answerer answers a question against a context window, returning the
// answer and a relevance score in [0, 1].
type Answerer interface {
	Answer(ctx context.Context, question, window string) (string, float64, error)
}

// SentimentClassifier labels text with a sentiment and score.
type SentimentClassifier interface {
	Classify(ctx context.Context, text string) (label string, score float64, err error)
}

// Manager coordinates model backends and enforces length budgets.
type Manager struct {
	embedder   Embedder
	summarizer Summarizer
	answerer   Answerer
	sentiment  SentimentClassifier

	chunker  *chunk.Summarizer
	windower *chunk.Windower

	sem    chan struct{}
	logger *zap.Logger
}

// Option configures a Manager.
type Option func(*Manager)

// WithSummarizer sets the summarization backend.
func WithSummarizer(s Summarizer) Option {
	return func(m *Manager) { m.summarizer = s }
}

// WithAnswerer sets the question answering backend.
func WithAnswerer(a Answerer) Option {
	return func(m *Manager) { m.answerer = a }
}

// WithSentiment sets the sentiment backend.
func WithSentiment(s SentimentClassifier) Option {
	return func(m *Manager) { m.sentiment = s }
}

// WithChunkSize overrides the summarization chunk budget.
func WithChunkSize(n int) Option {
	return func(m *Manager) { m.chunker = &chunk.Summarizer{ChunkSize: n} }
}

// WithWindowSize overrides the question answering window budget.
func WithWindowSize(n int) Option {
	return func(m *Manager) { m.windower = &chunk.Windower{WindowSize: n} }
}

// WithConcurrency bounds the number of in-flight inference calls.
func WithConcurrency(n int) Option {
	return func(m *Manager) {
		if n > 0 {
			m.sem = make(chan struct{}, n)
		}
	}
}

// FromConfig builds a Manager from inference settings. A nil embedder
// defaults to the in-process hashing embedder at the configured
// dimension; further options apply on top of the configured budgets.
func FromConfig(cfg config.InferenceConfig, embedder Embedder, logger *zap.Logger, opts ...Option) (*Manager, error) {
	if embedder == nil {
		embedder = HashingEmbedder{Dim: cfg.EmbeddingDim}
	}
	base := []Option{
		WithChunkSize(cfg.ChunkSize),
		WithWindowSize(cfg.WindowSize),
		WithConcurrency(cfg.Concurrency),
	}
	return New(embedder, logger, append(base, opts...)...)
}

// New creates a Manager. The embedder is mandatory; all other backends
// are optional and their operations fall back when absent.
func New(embedder Embedder, logger *zap.Logger, opts ...Option) (*Manager, error) {
	if embedder == nil {
		return nil, ErrEmbedderRequired
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	m := &Manager{
		embedder: embedder,
		chunker:  chunk.NewSummarizer(),
		windower: chunk.NewWindower(),
		sem:      make(chan struct{}, defaultConcurrency),
		logger:   logger,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m, nil
}

// Capabilities reports which backends are configured.
func (m *Manager) Capabilities() Capabilities {
	return Capabilities{
		Summarization:     m.summarizer != nil,
		QuestionAnswering: m.answerer != nil,
		Sentiment:         m.sentiment != nil,
		Embeddings:        true,
	}
}

// acquire takes a slot on the inference semaphore.
func (m *Manager) acquire(ctx context.Context) error {
	select {
	case m.sem <- struct{}{}:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (m *Manager) release() {
	<-m.sem
}

// fallback builds the degraded response used when a backend is
// missing.
func fallback(content string) ModelResponse {
	return ModelResponse{
		Content:    content,
		Confidence: 0.0,
		Metadata:   map[string]any{"fallback": true},
	}
}

// preview returns the first n runes of text with an ellipsis when
// truncated.
func preview(text string, n int) string {
	runes := []rune(text)
	if len(runes) <= n {
		return text
	}
	return string(runes[:n]) + "..."
}

// Summarize produces a summary of text between minLength and maxLength
// characters. Long inputs are chunked so each backend call stays
// inside the chunk budget, with both length budgets divided across the
// chunks. Without a summarization backend the response is a truncated
// preview flagged as a fallback.
func (m *Manager) Summarize(ctx context.Context, text string, maxLength, minLength int, language string) (ModelResponse, error) {
	start := time.Now()

	if m.summarizer == nil {
		m.logger.Debug("summarization backend missing, using fallback")
		resp := fallback(preview(text, summaryPreviewLen))
		annotateLanguage(&resp, language)
		resp.ProcessingTime = time.Since(start)
		return resp, nil
	}

	if err := m.acquire(ctx); err != nil {
		return ModelResponse{}, err
	}
	defer m.release()

	summary, err := m.chunker.Summarize(ctx, text, maxLength, minLength, m.summarizer.Summarize)
	if err != nil {
		if ctx.Err() != nil {
			return ModelResponse{}, err
		}
		m.logger.Warn("summarization backend failed, using fallback", zap.Error(err))
		resp := fallback(preview(text, summaryPreviewLen))
		annotateLanguage(&resp, language)
		resp.ProcessingTime = time.Since(start)
		return resp, nil
	}

	resp := ModelResponse{
		Content:    summary,
		Confidence: 1.0,
		Metadata: map[string]any{
			"max_length": maxLength,
			"min_length": minLength,
		},
		ProcessingTime: time.Since(start),
	}
	annotateLanguage(&resp, language)
	return resp, nil
}

// annotateLanguage records the requested language in the response
// metadata when one was given.
func annotateLanguage(resp *ModelResponse, language string) {
	if language == "" {
		return
	}
	if resp.Metadata == nil {
		resp.Metadata = make(map[string]any)
	}
	resp.Metadata["language"] = language
}

// AnswerQuestion answers a question against document text. The text is
// scanned with a sliding window at half-window stride and the best
// scoring window's answer wins, earlier windows breaking ties. When no
// window produces an answer the response is a deterministic
// zero-confidence placeholder. Without a question answering backend
// the response is a truncated preview flagged as a fallback.
func (m *Manager) AnswerQuestion(ctx context.Context, question, docText, language string) (ModelResponse, error) {
	start := time.Now()

	if m.answerer == nil {
		m.logger.Debug("question answering backend missing, using fallback")
		resp := fallback(preview(docText, answerPreviewLen))
		annotateLanguage(&resp, language)
		resp.ProcessingTime = time.Since(start)
		return resp, nil
	}

	if err := m.acquire(ctx); err != nil {
		return ModelResponse{}, err
	}
	defer m.release()

	ans, err := m.windower.Answer(ctx, question, docText, m.answerer.Answer)
	if err != nil {
		if ctx.Err() != nil {
			return ModelResponse{}, err
		}
		m.logger.Warn("question answering backend failed, using fallback", zap.Error(err))
		resp := fallback(preview(docText, answerPreviewLen))
		annotateLanguage(&resp, language)
		resp.ProcessingTime = time.Since(start)
		return resp, nil
	}

	content, confidence := ans.Text, ans.Score
	if content == "" {
		content, confidence = noAnswerContent, 0.0
	}

	resp := ModelResponse{
		Content:    content,
		Confidence: confidence,
		Metadata: map[string]any{
			"question":     question,
			"window_start": ans.Start,
		},
		ProcessingTime: time.Since(start),
	}
	annotateLanguage(&resp, language)
	return resp, nil
}

// AnalyzeSentiment labels text with a sentiment. Without a sentiment
// backend the response is neutral, flagged as a fallback.
func (m *Manager) AnalyzeSentiment(ctx context.Context, text string) (ModelResponse, error) {
	start := time.Now()

	if m.sentiment == nil {
		resp := fallback("neutral")
		resp.ProcessingTime = time.Since(start)
		return resp, nil
	}

	if err := m.acquire(ctx); err != nil {
		return ModelResponse{}, err
	}
	defer m.release()

	label, score, err := m.sentiment.Classify(ctx, text)
	if err != nil {
		if ctx.Err() != nil {
			return ModelResponse{}, err
		}
		m.logger.Warn("sentiment backend failed, using fallback", zap.Error(err))
		resp := fallback("neutral")
		resp.ProcessingTime = time.Since(start)
		return resp, nil
	}

	return ModelResponse{
		Content:        label,
		Confidence:     score,
		Metadata:       map[string]any{"label": label},
		ProcessingTime: time.Since(start),
	}, nil
}

// Embed turns text into a dense vector.
func (m *Manager) Embed(ctx context.Context, text string) ([]float32, error) {
	if err := m.acquire(ctx); err != nil {
		return nil, err
	}
	defer m.release()

	return m.embedder.Embed(ctx, text)
}

// DetectLanguage classifies the dominant language of text. Script
// counting runs first; when it is inconclusive, character-class
// regexes take over, defaulting to English. The result is a normalized
// BCP 47 base code.
func (m *Manager) DetectLanguage(text string) string {
	code := lang.Classify(text)
	if code != lang.Unknown && code != "en" {
		return lang.Normalize(code)
	}

	if fb := lang.DetectFallback(text); fb != "" {
		return lang.Normalize(fb)
	}
	return "en"
}
