package textcomplete

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"time"

	"agora-backend/lib/extract"
	"agora-backend/lib/telemetry"

	"github.com/go-resty/resty/v2"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
)

var tracer = otel.Tracer("lib/textcomplete")

// Client is an opaque, possibly-slow, possibly-unavailable text-completion
// collaborator. Implementations are subject to the same timeout discipline
// as page fetches.
type Client interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

type Config struct {
	Endpoint string `json:"endpoint"`
	Model    string `json:"model"`
	ApiKey   string `json:"api_key"`
}

// HTTPClient talks to an OpenAI-compatible completion endpoint.
type HTTPClient struct {
	config Config
	http   *resty.Client
}

var _ Client = (*HTTPClient)(nil)

func NewHTTPClient(config Config) *HTTPClient {
	client := resty.New()
	client.SetTimeout(time.Second * 30)
	telemetry.InstrumentResty(client, "lib/textcomplete/http")

	return &HTTPClient{config: config, http: client}
}

func (c *HTTPClient) Complete(ctx context.Context, prompt string) (string, error) {
	ctx, span := tracer.Start(ctx, "Complete")
	defer span.End()

	if c.config.Endpoint == "" || c.config.Model == "" {
		return "", fmt.Errorf("completion client misconfigured")
	}

	var reply struct {
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
	}

	res, err := c.http.R().
		SetContext(ctx).
		SetHeader("Authorization", "Bearer "+c.config.ApiKey).
		SetBody(map[string]any{
			"model": c.config.Model,
			"messages": []map[string]string{
				{"role": "user", "content": prompt},
			},
		}).
		SetResult(&reply).
		Post(c.config.Endpoint)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "completion request failed")
		return "", err
	}
	if res.IsError() {
		span.SetStatus(codes.Error, res.Status())
		return "", fmt.Errorf("completion endpoint returned %s", res.Status())
	}
	if len(reply.Choices) == 0 {
		return "", fmt.Errorf("completion endpoint returned no choices")
	}

	return strings.TrimSpace(reply.Choices[0].Message.Content), nil
}

const excerptLimit = 500

// TimePrompt builds the bounded excerpt handed to the collaborator when
// HTML extraction failed to find a start time.
func TimePrompt(title, date, description, url string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Event Title: %s\n\nDate: %s\n\nURL: %s\n", title, date, url)
	if description != "" {
		if runes := []rune(description); len(runes) > excerptLimit {
			description = string(runes[:excerptLimit])
		}
		fmt.Fprintf(&b, "\nDescription:\n%s\n", description)
	}
	b.WriteString(`
TASK: Extract the event start time from the information above.

INSTRUCTIONS:
1. Look for explicit time mentions in Greek or English (e.g., "ώρα έναρξης 20:30", "starts at 9pm", "21:00")
2. Common Greek patterns: "Ώρα:", "ώρες", "αναχώρηση", "έναρξη"
3. If this is an all-day event (workshop, exhibition, excursion with no specific time), respond with "ALL_DAY"
4. If no time information is found, respond with "NOT_FOUND"

RESPONSE FORMAT:
- Return ONLY the time in HH:MM format (24-hour, e.g., "20:30", "14:00")
- OR return "ALL_DAY" for all-day events
- OR return "NOT_FOUND" if genuinely no time information exists

Do NOT include explanations, just the time or status.`)
	return b.String()
}

var timeReply = regexp.MustCompile(`\d{1,2}:\d{2}`)

// ParseTimeReply maps the collaborator's fixed response vocabulary onto
// an extraction result. Anything outside the vocabulary is a miss.
func ParseTimeReply(reply string) extract.Field {
	if strings.Contains(reply, "ALL_DAY") {
		return extract.Field{Kind: extract.KindTime, Outcome: extract.OutcomeAllDay}
	}
	if strings.Contains(reply, "NOT_FOUND") {
		return extract.Field{Kind: extract.KindTime, Outcome: extract.OutcomeNotFound}
	}
	if match := timeReply.FindString(reply); match != "" {
		if normalized, ok := extract.ValidateTime(match); ok {
			return extract.Field{
				Kind:    extract.KindTime,
				Outcome: extract.OutcomeFound,
				Value:   normalized,
			}
		}
	}
	return extract.Field{Kind: extract.KindTime, Outcome: extract.OutcomeNotFound}
}
