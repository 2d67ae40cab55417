package openai

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"net/http"
	"os"
	"strings"
	"time"

	goopenai "github.com/sashabaranov/go-openai"

	"github.com/gravamen/contractgraph-backend/internal/pkg/httpx"
	"github.com/gravamen/contractgraph-backend/internal/platform/envutil"
	"github.com/gravamen/contractgraph-backend/internal/platform/logger"
)

// Client is the OpenAI surface the backend depends on: JSON-mode chat
// completions for clause extraction and embeddings for the excerpt
// vector index.
type Client interface {
	GenerateJSON(ctx context.Context, system string, user string) (Completion, error)
	Embed(ctx context.Context, inputs []string) ([][]float32, error)
}

// Completion carries the assistant output together with the raw API
// payload so extraction can write per-file response dumps.
type Completion struct {
	Content string
	Raw     json.RawMessage
}

type client struct {
	log         *logger.Logger
	api         *goopenai.Client
	model       string
	embedModel  string
	temperature float32
	maxTokens   int
	maxRetries  int
}

func NewClient(log *logger.Logger) (Client, error) {
	if log == nil {
		return nil, fmt.Errorf("logger required")
	}
	apiKey := strings.TrimSpace(os.Getenv("OPENAI_API_KEY"))
	if apiKey == "" {
		return nil, fmt.Errorf("missing OPENAI_API_KEY")
	}

	model := envutil.Str("OPENAI_MODEL", "gpt-4o")
	embedModel := envutil.Str("OPENAI_EMBED_MODEL", "text-embedding-3-small")
	timeoutSec := envutil.Int("OPENAI_TIMEOUT_SECONDS", 180)
	maxRetries := envutil.Int("OPENAI_MAX_RETRIES", 2)
	maxTokens := envutil.Int("OPENAI_MAX_OUTPUT_TOKENS", 20000)

	temp := float32(envutil.Float("OPENAI_TEMPERATURE", 0))
	if temp == 0 {
		// The SDK drops a zero temperature field entirely; the smallest
		// nonzero value keeps completions effectively deterministic.
		temp = math.SmallestNonzeroFloat32
	}

	cfg := goopenai.DefaultConfig(apiKey)
	if baseURL := strings.TrimSpace(os.Getenv("OPENAI_BASE_URL")); baseURL != "" {
		cfg.BaseURL = strings.TrimRight(baseURL, "/")
	}
	cfg.HTTPClient = &http.Client{Timeout: time.Duration(timeoutSec) * time.Second}

	return &client{
		log:         log.With("service", "OpenAIClient"),
		api:         goopenai.NewClientWithConfig(cfg),
		model:       model,
		embedModel:  embedModel,
		temperature: temp,
		maxTokens:   maxTokens,
		maxRetries:  maxRetries,
	}, nil
}

// NewClientWithModel returns a client configured with the provided model
// override. It uses the same env configuration as NewClient, replacing
// the model if non-empty.
func NewClientWithModel(log *logger.Logger, modelOverride string) (Client, error) {
	c, err := NewClient(log)
	if err != nil {
		return nil, err
	}
	if modelOverride = strings.TrimSpace(modelOverride); modelOverride == "" {
		return c, nil
	}
	if cc, ok := c.(*client); ok {
		cc.model = modelOverride
	}
	return c, nil
}

func (c *client) GenerateJSON(ctx context.Context, system string, user string) (Completion, error) {
	req := goopenai.ChatCompletionRequest{
		Model: c.model,
		Messages: []goopenai.ChatCompletionMessage{
			{Role: goopenai.ChatMessageRoleSystem, Content: system},
			{Role: goopenai.ChatMessageRoleUser, Content: user},
		},
		Temperature:         c.temperature,
		MaxCompletionTokens: c.maxTokens,
		ResponseFormat: &goopenai.ChatCompletionResponseFormat{
			Type: goopenai.ChatCompletionResponseFormatTypeJSONObject,
		},
	}

	var out Completion
	err := c.withRetry(ctx, "chat.completions", func(ctx context.Context) error {
		resp, err := c.api.CreateChatCompletion(ctx, req)
		if err != nil {
			return statusError(err)
		}
		if len(resp.Choices) == 0 {
			return fmt.Errorf("openai chat completion returned no choices")
		}
		raw, err := json.Marshal(resp)
		if err != nil {
			return fmt.Errorf("encode chat completion: %w", err)
		}
		out = Completion{Content: resp.Choices[0].Message.Content, Raw: raw}
		return nil
	})
	if err != nil {
		return Completion{}, err
	}
	return out, nil
}

func (c *client) Embed(ctx context.Context, inputs []string) ([][]float32, error) {
	if len(inputs) == 0 {
		return nil, nil
	}
	req := goopenai.EmbeddingRequest{
		Input: inputs,
		Model: goopenai.EmbeddingModel(c.embedModel),
	}

	var vectors [][]float32
	err := c.withRetry(ctx, "embeddings", func(ctx context.Context) error {
		resp, err := c.api.CreateEmbeddings(ctx, req)
		if err != nil {
			return statusError(err)
		}
		if len(resp.Data) != len(inputs) {
			return fmt.Errorf("openai embeddings: requested=%d returned=%d model=%s", len(inputs), len(resp.Data), c.embedModel)
		}
		vectors = make([][]float32, len(inputs))
		for _, d := range resp.Data {
			if d.Index < 0 || d.Index >= len(vectors) {
				return fmt.Errorf("openai embeddings: index %d out of range", d.Index)
			}
			vectors[d.Index] = d.Embedding
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return vectors, nil
}

func (c *client) withRetry(ctx context.Context, op string, fn func(ctx context.Context) error) error {
	backoff := 2 * time.Second
	var err error

	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if err = fn(ctx); err == nil {
			return nil
		}
		if !httpx.IsRetryableError(err) {
			return err
		}
		if attempt == c.maxRetries {
			return err
		}

		sleepFor := httpx.JitterSleep(backoff)
		c.log.Warn("OpenAI request retrying",
			"op", op,
			"attempt", attempt+1,
			"max_retries", c.maxRetries,
			"sleep", sleepFor.String(),
			"error", err.Error(),
		)
		time.Sleep(sleepFor)
		backoff *= 2
	}

	return err
}

// apiStatusError surfaces the SDK's status code through
// httpx.HTTPStatusCoder so retry classification can read it.
type apiStatusError struct {
	code int
	err  error
}

func (e *apiStatusError) Error() string       { return e.err.Error() }
func (e *apiStatusError) Unwrap() error       { return e.err }
func (e *apiStatusError) HTTPStatusCode() int { return e.code }

func statusError(err error) error {
	if err == nil {
		return nil
	}
	var apiErr *goopenai.APIError
	if errors.As(err, &apiErr) {
		return &apiStatusError{code: apiErr.HTTPStatusCode, err: err}
	}
	var reqErr *goopenai.RequestError
	if errors.As(err, &reqErr) {
		return &apiStatusError{code: reqErr.HTTPStatusCode, err: err}
	}
	return err
}
