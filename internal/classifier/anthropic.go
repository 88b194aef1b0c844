package classifier

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"regexp"
	"strings"
	"time"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"golang.org/x/sync/semaphore"
	"golang.org/x/time/rate"

	"github.com/mindweek/mw/internal/types"
)

// DefaultModel is the model used for classification. Categorizing a
// one-line task description is a simple task; the cheap tier is
// plenty.
const DefaultModel = "claude-3-5-haiku-20241022"

// Config holds classifier configuration
type Config struct {
	APIKey  string        // Anthropic API key (if empty, reads from ANTHROPIC_API_KEY env var)
	Model   string        // Model to use (default: DefaultModel)
	Timeout time.Duration // Per-attempt timeout (default: 15s)

	// MaxRetries is the number of additional attempts after a failed
	// call (default: 2). Backoff doubles from InitialBackoff.
	MaxRetries     int
	InitialBackoff time.Duration // default: 1s

	// RequestsPerMinute caps outbound API calls (default: 20).
	RequestsPerMinute int
}

func (c *Config) applyDefaults() {
	if c.Model == "" {
		c.Model = DefaultModel
	}
	if c.Timeout == 0 {
		c.Timeout = 15 * time.Second
	}
	if c.MaxRetries == 0 {
		c.MaxRetries = 2
	}
	if c.InitialBackoff == 0 {
		c.InitialBackoff = time.Second
	}
	if c.RequestsPerMinute == 0 {
		c.RequestsPerMinute = 20
	}
}

// Anthropic classifies task descriptions with the Anthropic API.
//
// A weight-1 semaphore serializes calls: the add-task path allows a
// single in-flight classification at a time, so concurrent adds do
// not queue up API requests behind a slow response.
type Anthropic struct {
	client  *anthropic.Client
	model   string
	timeout time.Duration
	retries int
	backoff time.Duration
	limiter *rate.Limiter
	sem     *semaphore.Weighted
}

var _ Classifier = (*Anthropic)(nil)

// NewAnthropic creates the API-backed classifier.
func NewAnthropic(cfg Config) *Anthropic {
	cfg.applyDefaults()

	var opts []option.RequestOption
	if cfg.APIKey != "" {
		opts = append(opts, option.WithAPIKey(cfg.APIKey))
	}
	client := anthropic.NewClient(opts...)

	return &Anthropic{
		client:  &client,
		model:   cfg.Model,
		timeout: cfg.Timeout,
		retries: cfg.MaxRetries,
		backoff: cfg.InitialBackoff,
		limiter: rate.NewLimiter(rate.Limit(float64(cfg.RequestsPerMinute)/60.0), 1),
		sem:     semaphore.NewWeighted(1),
	}
}

// Classify returns the best-guess category for the description. On
// any failure it logs and returns CategoryUnassigned.
func (a *Anthropic) Classify(ctx context.Context, description string) types.Category {
	if strings.TrimSpace(description) == "" {
		return types.CategoryUnassigned
	}

	if err := a.sem.Acquire(ctx, 1); err != nil {
		return types.CategoryUnassigned
	}
	defer a.sem.Release(1)

	prompt := buildPrompt(description)

	var lastErr error
	backoff := a.backoff
	for attempt := 0; attempt <= a.retries; attempt++ {
		if attempt > 0 {
			select {
			case <-time.After(backoff):
			case <-ctx.Done():
				return types.CategoryUnassigned
			}
			backoff *= 2
		}

		if err := a.limiter.Wait(ctx); err != nil {
			return types.CategoryUnassigned
		}

		attemptCtx, cancel := context.WithTimeout(ctx, a.timeout)
		resp, err := a.client.Messages.New(attemptCtx, anthropic.MessageNewParams{
			Model:     anthropic.Model(a.model),
			MaxTokens: 64,
			Messages: []anthropic.MessageParam{
				anthropic.NewUserMessage(anthropic.NewTextBlock(prompt)),
			},
		})
		cancel()
		if err != nil {
			lastErr = err
			continue
		}

		var text string
		for _, block := range resp.Content {
			if block.Type == "text" {
				text += block.Text
			}
		}

		if cat, ok := parseCategoryResponse(text); ok {
			return cat
		}
		lastErr = fmt.Errorf("unrecognized response: %q", truncate(text, 120))
	}

	slog.Warn("task classification failed, falling back to Allgemein", "error", lastErr)
	return types.CategoryUnassigned
}

// buildPrompt builds the classification prompt: the category rules
// from the app, plus a strict JSON response contract.
func buildPrompt(description string) string {
	var b strings.Builder
	b.WriteString("Kategorisiere diese Aufgabe in genau eine Kategorie: Fokus, Kreativ, Körper, Mental, Freizeit.\n\n")
	b.WriteString("Regeln:\n")
	b.WriteString("- Fokus: Arbeit, Studium, Konzentration, Orga.\n")
	b.WriteString("- Kreativ: Malen, Design, Schreiben, Kunst, Erschaffen.\n")
	b.WriteString("- Körper: Sport, Bewegung, Gesundheit, Ernährung.\n")
	b.WriteString("- Mental: Therapie, Meditation, Journaling, Self-care, Nachdenken.\n")
	b.WriteString("- Freizeit: Gaming, Freunde treffen, Spaß, Entspannung.\n\n")
	fmt.Fprintf(&b, "Aufgabe: %q\n\n", description)
	b.WriteString(`Antworte ausschließlich mit JSON: {"category": "<Kategorie>"}`)
	return b.String()
}

var codeFenceRegex = regexp.MustCompile("(?s)```(?:json)?\\s*\\n?(.*?)\\n?```")

// parseCategoryResponse extracts the category from a model response.
// It tolerates code fences and surrounding prose, and accepts a bare
// category label as a last resort.
func parseCategoryResponse(text string) (types.Category, bool) {
	candidates := []string{strings.TrimSpace(text)}
	if m := codeFenceRegex.FindStringSubmatch(text); m != nil {
		candidates = append(candidates, strings.TrimSpace(m[1]))
	}
	if start, end := strings.Index(text, "{"), strings.LastIndex(text, "}"); start != -1 && end > start {
		candidates = append(candidates, text[start:end+1])
	}

	for _, c := range candidates {
		var parsed struct {
			Category string `json:"category"`
		}
		if err := json.Unmarshal([]byte(c), &parsed); err != nil {
			continue
		}
		cat := types.Category(parsed.Category)
		for _, allowed := range types.ClassifiableCategories {
			if cat == allowed {
				return cat, true
			}
		}
	}

	// Bare label without JSON wrapping
	trimmed := types.Category(strings.Trim(strings.TrimSpace(text), `"`))
	for _, allowed := range types.ClassifiableCategories {
		if trimmed == allowed {
			return trimmed, true
		}
	}
	return types.CategoryUnassigned, false
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max] + "..."
}
