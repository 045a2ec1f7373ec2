package openrouter

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/randomtoy/arcano/internal/domain"
	"github.com/randomtoy/arcano/internal/ports"
)

// Client implements ports.Narrator via the OpenRouter API.
type Client struct {
	httpClient     *http.Client
	apiKey         string
	baseURL        string
	model          string
	fallbackModels []string
	logger         *slog.Logger
}

func NewClient(httpClient *http.Client, apiKey, baseURL, model string, fallbackModels []string, logger *slog.Logger) *Client {
	return &Client{
		httpClient:     httpClient,
		apiKey:         apiKey,
		baseURL:        strings.TrimRight(baseURL, "/"),
		model:          model,
		fallbackModels: fallbackModels,
		logger:         logger,
	}
}

// chatRequest / chatResponse mirror the OpenAI-compatible API shapes.
type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model    string        `json:"model"`
	Messages []chatMessage `json:"messages"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

// Narrate tries the primary model and then each fallback model in order.
func (c *Client) Narrate(ctx context.Context, in ports.NarrateInput) (ports.NarrateOutput, error) {
	models := make([]string, 0, 1+len(c.fallbackModels))
	models = append(models, c.model)
	models = append(models, c.fallbackModels...)

	var lastErr error
	for _, model := range models {
		out, err := c.narrateWithModel(ctx, in, model)
		if err == nil {
			return out, nil
		}
		lastErr = err
		if len(models) > 1 {
			c.logger.WarnContext(ctx, "model failed, trying next", "model", model, "error", err)
		}
	}

	return ports.NarrateOutput{}, lastErr
}

func (c *Client) narrateWithModel(ctx context.Context, in ports.NarrateInput, model string) (ports.NarrateOutput, error) {
	systemPrompt := buildSystemPrompt(in.Lang)
	userPrompt := buildUserPrompt(in)

	content, err := c.callLLM(ctx, model, systemPrompt, userPrompt)
	if err != nil {
		return ports.NarrateOutput{}, fmt.Errorf("%w: %w", domain.ErrUpstreamLLM, err)
	}

	var out ports.NarrateOutput
	if err := json.Unmarshal([]byte(content), &out); err != nil {
		c.logger.WarnContext(ctx, "LLM returned invalid JSON, retrying", "model", model, "error", err)
		content, err = c.callLLM(ctx, model, systemPrompt, retryPrompt(content))
		if err != nil {
			return ports.NarrateOutput{}, fmt.Errorf("%w: %w", domain.ErrUpstreamLLM, err)
		}
		if err := json.Unmarshal([]byte(content), &out); err != nil {
			return ports.NarrateOutput{}, fmt.Errorf("%w: %w", domain.ErrInvalidLLMJSON, err)
		}
	}

	if strings.TrimSpace(out.Text) == "" {
		return ports.NarrateOutput{}, fmt.Errorf("%w: empty text", domain.ErrInvalidLLMJSON)
	}
	if out.Disclaimer == "" {
		out.Disclaimer = "For reflection/entertainment; not medical/legal/financial advice."
	}
	out.Model = model

	return out, nil
}

func (c *Client) callLLM(ctx context.Context, model, system, user string) (string, error) {
	reqBody := chatRequest{
		Model: model,
		Messages: []chatMessage{
			{Role: "system", Content: system},
			{Role: "user", Content: user},
		},
	}

	body, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("marshal request: %w", err)
	}

	url := c.baseURL + "/chat/completions"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("http call: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("upstream status %d: %s", resp.StatusCode, string(respBody))
	}

	var chatResp chatResponse
	if err := json.Unmarshal(respBody, &chatResp); err != nil {
		return "", fmt.Errorf("decode response: %w", err)
	}

	if len(chatResp.Choices) == 0 {
		return "", fmt.Errorf("no choices in response")
	}

	return stripCodeFence(chatResp.Choices[0].Message.Content), nil
}

// stripCodeFence removes a surrounding markdown fence some models add despite the prompt.
func stripCodeFence(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```")
	if nl := strings.IndexByte(s, '\n'); nl >= 0 {
		s = s[nl+1:]
	}
	return strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(s), "```"))
}

// langNames maps common BCP 47 codes to human-readable language names.
var langNames = map[string]string{
	"en": "English",
	"ru": "Russian",
	"es": "Spanish",
	"fr": "French",
	"de": "German",
	"it": "Italian",
	"pt": "Portuguese",
	"ja": "Japanese",
	"ko": "Korean",
	"zh": "Chinese",
	"ar": "Arabic",
	"hi": "Hindi",
	"tr": "Turkish",
	"uk": "Ukrainian",
	"pl": "Polish",
}

func buildSystemPrompt(lang string) string {
	langInstruction := ""
	if lang != "" && lang != "en" {
		name, ok := langNames[lang]
		if !ok {
			name = lang
		}
		langInstruction = fmt.Sprintf("\n- Respond entirely in %s.", name)
	}

	return fmt.Sprintf(`You are a tarot reader turning a structured reading into a short, flowing narrative.

Rules:
- Elaborate on the interpretation you are given; do not contradict it or invent other cards.
- Keep the position of every card and whether it is upright or reversed.
- Be balanced and reflective; never predict specific outcomes or disasters.
- Never provide medical, legal, or financial advice.
- If a question is provided, address it without guaranteeing outcomes.%s

Respond with ONLY a JSON object (no markdown, no code fences, no extra text) matching this exact schema:
{
  "text": "<your narrative>",
  "disclaimer": "For reflection/entertainment; not medical/legal/financial advice."
}`, langInstruction)
}

func buildUserPrompt(in ports.NarrateInput) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Spread: %s\n\nCards drawn:\n", in.Spread)

	for _, card := range in.Cards {
		fmt.Fprintf(&b, "  %d. %s: %s (%s)\n", card.Index, card.Position, card.Name, card.Orientation)
		fmt.Fprintf(&b, "    Keywords: %s\n", strings.Join(card.Keywords, ", "))
		fmt.Fprintf(&b, "    Meaning: %s\n", card.Meaning)
	}

	if in.Question != "" {
		fmt.Fprintf(&b, "\nThe querent asks: %q\n", in.Question)
	}

	fmt.Fprintf(&b, "\nRule-based interpretation:\n%s\n", in.Interpretation)
	b.WriteString("\nProvide a cohesive narrative as a single JSON object.")
	return b.String()
}

func retryPrompt(badJSON string) string {
	return fmt.Sprintf(`Your previous response was not valid JSON. Here is what you returned:
%s

Return ONLY the corrected JSON object matching this schema (no markdown, no code fences):
{
  "text": "<your narrative>",
  "disclaimer": "For reflection/entertainment; not medical/legal/financial advice."
}`, badJSON)
}
