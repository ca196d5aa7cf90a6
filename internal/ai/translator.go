package ai

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/sony/gobreaker"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"golang.org/x/time/rate"
	"google.golang.org/api/option"

	genai "github.com/google/generative-ai-go/genai"

	"realty-marketing-platform/internal/logger"
)

// Language is a two-letter content language code.
type Language string

const (
	LangEnglish Language = "en"
	LangSpanish Language = "es"
)

// Translator is the gateway the content pipeline depends on. The Gemini
// implementation below is the only production one; tests substitute fakes.
type Translator interface {
	// Translate returns text rendered in the target language. HTML markup
	// in the input is preserved.
	Translate(ctx context.Context, text string, target Language) (string, error)
	// DetectLanguage classifies text as English or Spanish. A response the
	// model mangles is mapped to English; a transport/API failure is
	// returned as an error so the caller can apply its own fallback.
	DetectLanguage(ctx context.Context, text string) (Language, error)
	// FormatContent normalizes raw or plain text into restricted HTML.
	FormatContent(ctx context.Context, raw string) (string, error)
}

type GeminiTranslator struct {
	client      *genai.Client
	model       string
	breaker     *gobreaker.CircuitBreaker
	rateLimiter *rate.Limiter
}

const geminiCallTimeout = 30 * time.Second

func NewGeminiTranslator(apiKey, model string) (*GeminiTranslator, error) {
	ctx := context.Background()
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, err
	}

	breaker := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "GeminiTranslation",
		MaxRequests: 5,
		Interval:    10 * time.Second,
		Timeout:     60 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
			return counts.Requests >= 3 && failureRatio >= 0.6
		},
		OnStateChange: func(name string, from gobreaker.State, to gobreaker.State) {
			logger.Warn("Circuit breaker state change", "breaker", name, "from", from.String(), "to", to.String())
		},
	})

	// Stay under the free-tier 10 RPM with some buffer
	rateLimiter := rate.NewLimiter(rate.Limit(9.0/60.0), 2)

	return &GeminiTranslator{
		client:      client,
		model:       model,
		breaker:     breaker,
		rateLimiter: rateLimiter,
	}, nil
}

func (g *GeminiTranslator) Translate(ctx context.Context, text string, target Language) (string, error) {
	if strings.TrimSpace(text) == "" {
		return "", nil
	}

	targetName := "Spanish"
	if target == LangEnglish {
		targetName = "English"
	}

	prompt := fmt.Sprintf(`Translate the following text to %s.
The text may contain HTML markup; keep every tag and attribute exactly as it is and translate only the human-readable text.
Return only the translation with no explanation, no quotes and no markdown fences.

%s`, targetName, text)

	out, err := g.generate(ctx, "translate", prompt)
	if err != nil {
		return "", err
	}

	translated := stripMarkdownFences(out)
	if strings.TrimSpace(translated) == "" {
		return "", errors.New("translation returned empty response")
	}
	return translated, nil
}

func (g *GeminiTranslator) DetectLanguage(ctx context.Context, text string) (Language, error) {
	sample := text
	if len(sample) > 1500 {
		sample = sample[:1500]
	}

	prompt := fmt.Sprintf(`Identify the language of the following text.
Answer with exactly one word: "en" if it is English, "es" if it is Spanish.

%s`, sample)

	out, err := g.generate(ctx, "detect_language", prompt)
	if err != nil {
		return "", err
	}

	answer := strings.ToLower(strings.TrimSpace(stripMarkdownFences(out)))
	switch {
	case strings.HasPrefix(answer, "es"):
		return LangSpanish, nil
	case strings.HasPrefix(answer, "en"):
		return LangEnglish, nil
	default:
		// Anything the model mangles counts as English
		return LangEnglish, nil
	}
}

func (g *GeminiTranslator) FormatContent(ctx context.Context, raw string) (string, error) {
	if strings.TrimSpace(raw) == "" {
		return "", nil
	}

	prompt := fmt.Sprintf(`Format the following article text as clean semantic HTML.
Rules:
- Use only these tags: <h2>, <h3>, <p>, <ul>, <li>, <strong>, <em>, <a>, <br>.
- Do not add a top-level <h1>; the page supplies the title.
- Do not wrap the output in markdown code fences.
- Do not add commentary, preamble or notes. Output the HTML and nothing else.
- Keep the wording of the text unchanged; only add structure.

%s`, raw)

	out, err := g.generate(ctx, "format_content", prompt)
	if err != nil {
		return "", err
	}

	return SanitizeFormattedHTML(out)
}

// generate runs one prompt through the rate limiter and circuit breaker and
// returns the first candidate's text.
func (g *GeminiTranslator) generate(ctx context.Context, op, prompt string) (string, error) {
	tracer := otel.Tracer("gemini-translator")
	ctx, span := tracer.Start(ctx, "gemini."+op)
	defer span.End()

	span.SetAttributes(
		attribute.String("gemini.model", g.model),
		attribute.Int("gemini.prompt_chars", len(prompt)),
	)

	if err := g.rateLimiter.Wait(ctx); err != nil {
		span.SetAttributes(attribute.Bool("gemini.rate_limited", true))
		return "", err
	}

	ctx, cancel := context.WithTimeout(ctx, geminiCallTimeout)
	defer cancel()

	result, err := g.breaker.Execute(func() (interface{}, error) {
		model := g.client.GenerativeModel(g.model)
		model.SetTemperature(0.2)
		model.SetMaxOutputTokens(8192)

		resp, err := model.GenerateContent(ctx, genai.Text(prompt))
		if err != nil {
			return nil, err
		}
		return resp, nil
	})
	if err != nil {
		span.SetAttributes(attribute.Bool("gemini.error", true))
		span.SetAttributes(attribute.String("gemini.error_message", err.Error()))
		return "", err
	}

	text := extractResponseText(result.(*genai.GenerateContentResponse))
	if text == "" {
		span.SetAttributes(attribute.Bool("gemini.empty_response", true))
		return "", errors.New("no text in model response")
	}

	span.SetAttributes(attribute.Int("gemini.response_chars", len(text)))
	return text, nil
}

func extractResponseText(resp *genai.GenerateContentResponse) string {
	var sb strings.Builder
	for _, candidate := range resp.Candidates {
		if candidate.Content == nil {
			continue
		}
		for _, part := range candidate.Content.Parts {
			if text, ok := part.(genai.Text); ok {
				sb.WriteString(string(text))
			}
		}
		// First candidate only
		break
	}
	return strings.TrimSpace(sb.String())
}

// stripMarkdownFences removes a ``` or ```html wrapper the model sometimes
// adds despite instructions.
func stripMarkdownFences(s string) string {
	trimmed := strings.TrimSpace(s)
	if !strings.HasPrefix(trimmed, "```") {
		return trimmed
	}

	trimmed = strings.TrimPrefix(trimmed, "```")
	if idx := strings.Index(trimmed, "\n"); idx >= 0 {
		// Drop the language hint on the opening fence line
		first := strings.TrimSpace(trimmed[:idx])
		if first == "" || len(first) <= 10 && !strings.Contains(first, " ") {
			trimmed = trimmed[idx+1:]
		}
	}
	trimmed = strings.TrimSuffix(strings.TrimSpace(trimmed), "```")
	return strings.TrimSpace(trimmed)
}

// Close the client
func (g *GeminiTranslator) Close() error {
	if g.client != nil {
		return g.client.Close()
	}
	return nil
}
