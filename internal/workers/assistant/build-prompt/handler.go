// internal/workers/assistant/build-prompt/handler.go
package buildprompt

import (
	"context"
	"errors"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"

	apperrors "dealer-assistant/internal/common/errors"
	"dealer-assistant/internal/common/llm"
	"dealer-assistant/internal/common/metrics"
	"dealer-assistant/internal/common/observability"
	"dealer-assistant/internal/common/turnlog"
	classifyintent "dealer-assistant/internal/workers/assistant/classify-intent"
	formatcontext "dealer-assistant/internal/workers/assistant/format-context"
	retrieverecords "dealer-assistant/internal/workers/assistant/retrieve-records"
)

const (
	TaskType = "build-prompt"

	outcomeSuccess  = "success"
	outcomeFallback = "fallback"
)

// Logger interface definition
type Logger interface {
	Debug(msg string, fields map[string]interface{})
	Info(msg string, fields map[string]interface{})
	Warn(msg string, fields map[string]interface{})
	Error(msg string, fields map[string]interface{})
	With(fields map[string]interface{}) Logger
}

type Handler struct {
	config     *Config
	classifier *classifyintent.Handler
	retriever  *retrieverecords.Handler
	formatter  *formatcontext.Handler
	gateway    llm.Gateway
	turns      turnlog.Log
	cache      *lru.Cache[string, cachedBlock]
	errHandler *apperrors.ErrorHandler
	obs        *observability.Observability
	now        func() time.Time
	logger     Logger
}

func NewHandler(config *Config, records retrieverecords.Records, gateway llm.Gateway, turns turnlog.Log, log Logger) *Handler {
	if config == nil {
		config = LoadConfig()
	}

	log = log.With(map[string]interface{}{
		"taskType": TaskType,
	})

	h := &Handler{
		config:     config,
		classifier: classifyintent.NewHandler(nil),
		retriever:  retrieverecords.NewHandler(records),
		formatter:  formatcontext.NewHandler(nil),
		gateway:    gateway,
		turns:      turns,
		errHandler: apperrors.NewErrorHandler(log),
		now:        time.Now,
		logger:     log,
	}

	if config.CacheSize > 0 {
		cache, err := lru.New[string, cachedBlock](config.CacheSize)
		if err != nil {
			log.Warn("context cache disabled", map[string]interface{}{
				"error": err.Error(),
			})
		} else {
			h.cache = cache
		}
	}

	return h
}

// WithClock replaces the clock used to decide what "today" is.
func (h *Handler) WithClock(now func() time.Time) *Handler {
	h.now = now
	return h
}

func (h *Handler) WithObservability(obs *observability.Observability) *Handler {
	h.obs = obs
	return h
}

// BuildPrompt classifies text, retrieves the matching records and appends
// their formatted block to text. It touches neither the model nor the turn
// log.
func (h *Handler) BuildPrompt(text string) *Prompt {
	intent := h.classifier.Execute(&classifyintent.Input{Text: text}).Intent
	date := retrieverecords.Today(h.now())

	kind, block := h.contextBlock(intent.Key()+"|"+date, func() (retrieverecords.Kind, string) {
		result := h.retriever.Execute(&retrieverecords.Input{Intent: intent, Date: date}).Result
		return result.Kind, h.formatter.Execute(&formatcontext.Input{Result: result}).Text
	})

	user := text
	if block != "" {
		user = text + "\n\n" + block
	}

	h.logger.Debug("prompt built", map[string]interface{}{
		"dataType":   intent.DataType,
		"focus":      intent.LeadTypeFocus,
		"dateFilter": intent.DateFilter,
		"queryType":  intent.LastQueryType,
		"retrieval":  kind,
		"contextLen": len(block),
	})

	return &Prompt{
		System:    h.config.SystemInstruction,
		User:      user,
		Intent:    intent,
		Retrieval: kind,
		Context:   block,
	}
}

type cachedBlock struct {
	kind  retrieverecords.Kind
	block string
}

// contextBlock memoizes the formatted block per intent and date. The store
// never changes after load, so a cached block stays valid all day.
func (h *Handler) contextBlock(key string, build func() (retrieverecords.Kind, string)) (retrieverecords.Kind, string) {
	if h.cache == nil {
		return build()
	}

	if c, ok := h.cache.Get(key); ok {
		metrics.ContextCacheLookups.WithLabelValues("hit").Inc()
		return c.kind, c.block
	}

	metrics.ContextCacheLookups.WithLabelValues("miss").Inc()
	kind, block := build()
	h.cache.Add(key, cachedBlock{kind: kind, block: block})
	return kind, block
}

// Execute runs one full turn. Model failures never escape: the caller gets
// the fallback message and the turn log is left untouched.
func (h *Handler) Execute(ctx context.Context, input *Input) *Output {
	start := h.now()
	prompt := h.BuildPrompt(input.Message)

	ctx, cancel := context.WithTimeout(ctx, h.config.Timeout)
	defer cancel()

	llmStart := time.Now()
	reply, err := h.gateway.Complete(ctx, prompt.System, prompt.User)
	if err != nil {
		metrics.LLMRequestDuration.WithLabelValues(outcomeFallback).Observe(time.Since(llmStart).Seconds())
		stdErr := h.errHandler.Handle("llm call failed", classifyGatewayError(err), map[string]interface{}{
			"retrieval": prompt.Retrieval,
		})
		metrics.LLMFailures.WithLabelValues(string(stdErr.Code)).Inc()
		h.recordTurn(ctx, start, outcomeFallback)

		return &Output{
			Reply:     h.config.FallbackMessage,
			Fallback:  true,
			ErrorCode: string(stdErr.Code),
		}
	}
	metrics.LLMRequestDuration.WithLabelValues(outcomeSuccess).Observe(time.Since(llmStart).Seconds())

	// Append failures are logged; the reply still goes out.
	entry := turnlog.NewEntry(input.Message, reply, h.now())
	if err := h.turns.Append(context.WithoutCancel(ctx), entry); err != nil {
		h.errHandler.Handle("turn log append failed", apperrors.NewTurnLogAppendFailedError(err), map[string]interface{}{
			"turnId": entry.ID,
		})
	}

	h.recordTurn(ctx, start, outcomeSuccess)
	h.logger.Info("turn completed", map[string]interface{}{
		"turnId":    entry.ID,
		"retrieval": prompt.Retrieval,
		"replyLen":  len(reply),
	})

	return &Output{Reply: reply}
}

// Respond is Execute for callers that only want the reply text.
func (h *Handler) Respond(ctx context.Context, text string) string {
	return h.Execute(ctx, &Input{Message: text}).Reply
}

func (h *Handler) recordTurn(ctx context.Context, start time.Time, outcome string) {
	metrics.TurnsTotal.WithLabelValues(outcome).Inc()
	ctx = context.WithoutCancel(ctx)
	h.obs.RecordTurnProcessed(ctx, outcome)
	h.obs.RecordTurnDuration(ctx, h.now().Sub(start), outcome)
}

func classifyGatewayError(err error) *apperrors.StandardError {
	switch {
	case errors.Is(err, llm.ErrRateLimited):
		return apperrors.NewLLMRateLimitedError(err)
	case errors.Is(err, llm.ErrTimeout), errors.Is(err, context.DeadlineExceeded), errors.Is(err, context.Canceled):
		return apperrors.NewLLMTimeoutError(err)
	case errors.Is(err, llm.ErrEmptyResponse):
		return apperrors.NewLLMEmptyResponseError(err)
	default:
		return apperrors.NewLLMTransportFailedError(err)
	}
}
