// Package assistant implements the storefront's AI operations: the chat
// advisor, the two fridge vision flows, the web-grounded sommelier, and
// voice chat. Every model call goes through the credential rotator, so any
// single exhausted or revoked key is invisible to callers.
package assistant

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/mimart/storefront/pkg/api"
	"github.com/mimart/storefront/pkg/catalog"
	"github.com/mimart/storefront/pkg/observability"
	"github.com/mimart/storefront/pkg/provider"
	"github.com/mimart/storefront/pkg/rag"
	"github.com/mimart/storefront/pkg/rotation"
	"github.com/mimart/storefront/pkg/search"
)

// Runner executes one generation operation with credential rotation.
// *rotation.Rotator is the production implementation.
type Runner interface {
	Do(ctx context.Context, model string, op rotation.Operation) error
}

// ContextAssembler builds a bounded retrieval context from search results.
// *rag.Assembler is the production implementation.
type ContextAssembler interface {
	Assemble(ctx context.Context, query string, results []api.SearchResult) api.RAGContext
}

var _ ContextAssembler = (*rag.Assembler)(nil)

// Models names the model used for each kind of operation.
type Models struct {
	// Chat serves text conversations, fridge scan, sommelier, and the
	// text mode of voice chat.
	Chat string

	// Vision serves structured fridge analysis.
	Vision string

	// Audio serves the audio understanding mode of voice chat.
	Audio string
}

// Config holds assistant settings.
type Config struct {
	Models Models

	// SearchResults is how many web search hits the sommelier requests
	// before assembly narrows them down (default: 5).
	SearchResults int

	// Logger may be nil.
	Logger *slog.Logger
}

// Service implements the AI operations.
type Service struct {
	runner        Runner
	searcher      search.Searcher
	assembler     ContextAssembler
	catalog       *catalog.Catalog
	models        Models
	searchResults int
	logger        *slog.Logger
}

// New creates a Service.
func New(runner Runner, searcher search.Searcher, assembler ContextAssembler, cat *catalog.Catalog, cfg Config) *Service {
	if cfg.Models.Vision == "" {
		cfg.Models.Vision = cfg.Models.Chat
	}
	if cfg.Models.Audio == "" {
		cfg.Models.Audio = cfg.Models.Chat
	}
	if cfg.SearchResults == 0 {
		cfg.SearchResults = 5
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	return &Service{
		runner:        runner,
		searcher:      searcher,
		assembler:     assembler,
		catalog:       cat,
		models:        cfg.Models,
		searchResults: cfg.SearchResults,
		logger:        cfg.Logger,
	}
}

// voiceSafetySettings enable medium-and-above blocking for the voice
// flows, which take unmoderated microphone input.
var voiceSafetySettings = []provider.SafetySetting{
	{Category: "HARM_CATEGORY_HARASSMENT", Threshold: "BLOCK_MEDIUM_AND_ABOVE"},
	{Category: "HARM_CATEGORY_HATE_SPEECH", Threshold: "BLOCK_MEDIUM_AND_ABOVE"},
	{Category: "HARM_CATEGORY_SEXUALLY_EXPLICIT", Threshold: "BLOCK_MEDIUM_AND_ABOVE"},
	{Category: "HARM_CATEGORY_DANGEROUS_CONTENT", Threshold: "BLOCK_MEDIUM_AND_ABOVE"},
}

// generate runs one rotated generation call and returns the response text.
func (s *Service) generate(ctx context.Context, model string, req *provider.GenerateRequest) (string, error) {
	start := time.Now()
	var text string
	err := s.runner.Do(ctx, model, func(ctx context.Context, client provider.Client) error {
		resp, err := client.GenerateContent(ctx, req)
		if err != nil {
			return err
		}
		text = resp.Text
		return nil
	})
	observability.ObserveProviderRequest(model, time.Since(start), err)
	return text, err
}

// Chat answers one turn of a text conversation with the shop advisor.
func (s *Service) Chat(ctx context.Context, req *api.ChatRequest) (*api.ChatResponse, error) {
	if strings.TrimSpace(req.Message) == "" {
		return nil, api.NewInvalidRequestError("message", "message is required")
	}

	messages := historyMessages(req.History)
	prompt := fmt.Sprintf("%s\n\nKhách hàng: %s", chatSystemPrompt, req.Message)
	messages = append(messages, provider.TextMessage("user", prompt))

	text, err := s.generate(ctx, s.models.Chat, &provider.GenerateRequest{
		Messages: messages,
		GenerationConfig: provider.GenerationConfig{
			MaxOutputTokens: provider.Int(1000),
		},
	})
	if err != nil {
		return nil, err
	}
	return &api.ChatResponse{Response: text}, nil
}

// historyMessages converts prior turns to provider messages, dropping
// leading turns until the first user turn. The backend rejects histories
// that open with a model turn.
func historyMessages(history []api.HistoryEntry) []provider.Message {
	start := 0
	for start < len(history) && history[start].Role != "user" {
		start++
	}

	var messages []provider.Message
	for _, h := range history[start:] {
		parts := make([]provider.Part, 0, len(h.Parts))
		for _, p := range h.Parts {
			parts = append(parts, provider.Part{Text: p})
		}
		messages = append(messages, provider.Message{Role: h.Role, Parts: parts})
	}
	return messages
}

// AnalyzeFridge recognizes ingredients in a fridge photo and proposes
// dishes. When the model's output is not the requested JSON shape, the
// raw text is returned instead of an error so the client can still show
// something.
func (s *Service) AnalyzeFridge(ctx context.Context, req *api.AnalyzeFridgeRequest) (*api.FridgeAnalysis, error) {
	if req.ImageBase64 == "" || req.MIMEType == "" {
		return nil, api.NewInvalidRequestError("imageBase64", "imageBase64 and mimeType are required")
	}

	text, err := s.generate(ctx, s.models.Vision, &provider.GenerateRequest{
		Messages: []provider.Message{{
			Role: "user",
			Parts: []provider.Part{
				{Text: analyzeFridgePrompt},
				{InlineData: &provider.Blob{MIMEType: req.MIMEType, Data: req.ImageBase64}},
			},
		}},
	})
	if err != nil {
		return nil, err
	}

	raw := strings.TrimSpace(text)
	analysis := parseFridgeJSON(raw)
	if analysis == nil {
		s.logger.Warn("fridge analysis output was not valid JSON", "length", len(raw))
		return &api.FridgeAnalysis{
			Ingredients: []string{},
			Suggestions: []api.DishSuggestion{},
			RawText:     raw,
		}, nil
	}
	return analysis, nil
}

// parseFridgeJSON parses the model's JSON answer, tolerating a markdown
// code fence the model sometimes adds despite being told not to. Returns
// nil when the text does not parse.
func parseFridgeJSON(raw string) *api.FridgeAnalysis {
	cleaned := strings.TrimPrefix(raw, "```json")
	cleaned = strings.TrimPrefix(cleaned, "```")
	cleaned = strings.TrimSuffix(strings.TrimSpace(cleaned), "```")

	var parsed struct {
		Ingredients []string             `json:"ingredients"`
		Suggestions []api.DishSuggestion `json:"suggestions"`
	}
	if err := json.Unmarshal([]byte(cleaned), &parsed); err != nil {
		return nil
	}

	analysis := &api.FridgeAnalysis{
		Ingredients: parsed.Ingredients,
		Suggestions: parsed.Suggestions,
	}
	if analysis.Ingredients == nil {
		analysis.Ingredients = []string{}
	}
	if analysis.Suggestions == nil {
		analysis.Suggestions = []api.DishSuggestion{}
	}
	return analysis
}

// ScanFridge turns a fridge photo into a free-form cooking suggestion.
func (s *Service) ScanFridge(ctx context.Context, req *api.FridgeScanRequest) (*api.FridgeScanResponse, error) {
	if req.Image == "" {
		return nil, api.NewInvalidRequestError("image", "image is required")
	}

	// Accept a data URL and strip its header.
	data := req.Image
	if _, rest, ok := strings.Cut(data, ","); ok {
		data = rest
	}

	text, err := s.generate(ctx, s.models.Chat, &provider.GenerateRequest{
		Messages: []provider.Message{{
			Role: "user",
			Parts: []provider.Part{
				{Text: fridgeScanPrompt},
				{InlineData: &provider.Blob{MIMEType: "image/jpeg", Data: data}},
			},
		}},
	})
	if err != nil {
		return nil, err
	}
	return &api.FridgeScanResponse{Suggestion: text}, nil
}

// Sommelier answers a noodle question grounded in fresh web content: it
// searches the web, assembles a bounded context from the fetched pages,
// and generates an answer citing those sources alongside the store's
// own catalog.
func (s *Service) Sommelier(ctx context.Context, req *api.SommelierRequest) (*api.SommelierResponse, error) {
	if strings.TrimSpace(req.Query) == "" {
		return nil, api.NewInvalidRequestError("query", "query is required")
	}

	s.logger.Info("processing sommelier query", "query", req.Query)

	results := s.searcher.Search(ctx, req.Query, s.searchResults)
	ragCtx := s.assembler.Assemble(ctx, req.Query, results)

	prompt := fmt.Sprintf(sommelierPromptFormat, s.catalog.PromptContext(), ragCtx.Text, req.Query)

	answer, err := s.generate(ctx, s.models.Chat, &provider.GenerateRequest{
		Messages: []provider.Message{provider.TextMessage("user", prompt)},
		GenerationConfig: provider.GenerationConfig{
			Temperature: provider.Float64(0.7),
		},
	})
	if err != nil {
		return nil, err
	}

	citations := ragCtx.Citations
	if citations == nil {
		citations = []api.Citation{}
	}
	return &api.SommelierResponse{Answer: answer, Citations: citations}, nil
}

// VoiceChat handles a voice conversation turn. Provider failures degrade
// to an apologetic reply rather than an error, so the voice UI always has
// something to speak.
func (s *Service) VoiceChat(ctx context.Context, req *api.VoiceChatRequest) (*api.VoiceChatResponse, error) {
	switch req.Mode {
	case api.VoiceModeSTT:
		if strings.TrimSpace(req.Text) == "" {
			return nil, api.NewInvalidRequestError("text", `missing or invalid "text" for STT mode`)
		}
		return s.voiceText(ctx, req.Text), nil

	case api.VoiceModeAudio:
		if strings.TrimSpace(req.AudioData) == "" {
			return nil, api.NewInvalidRequestError("audioData", `missing or invalid "audioData" for audio mode`)
		}
		if req.MIMEType == "" {
			return nil, api.NewInvalidRequestError("mimeType", `missing or invalid "mimeType" for audio mode`)
		}
		return s.voiceAudio(ctx, req), nil

	default:
		return nil, api.NewInvalidRequestError("mode", `invalid or missing "mode" in request body`)
	}
}

func (s *Service) voiceText(ctx context.Context, input string) *api.VoiceChatResponse {
	text, err := s.generate(ctx, s.models.Chat, &provider.GenerateRequest{
		Messages: []provider.Message{provider.TextMessage("user", input)},
		GenerationConfig: provider.GenerationConfig{
			Temperature:     provider.Float64(0.8),
			TopK:            provider.Int(1),
			TopP:            provider.Float64(1),
			MaxOutputTokens: provider.Int(256),
		},
		SafetySettings: voiceSafetySettings,
	})
	if err != nil {
		s.logger.Error("voice chat text generation failed", "error", err)
		return &api.VoiceChatResponse{
			Response: fmt.Sprintf("Đã xảy ra lỗi khi kết nối với AI (Text Mode): %s", err),
		}
	}
	return &api.VoiceChatResponse{Response: text}
}

func (s *Service) voiceAudio(ctx context.Context, req *api.VoiceChatRequest) *api.VoiceChatResponse {
	prompt := req.Prompt
	if prompt == "" {
		prompt = defaultAudioPrompt
	}

	text, err := s.generate(ctx, s.models.Audio, &provider.GenerateRequest{
		Messages: []provider.Message{{
			Role: "user",
			Parts: []provider.Part{
				{InlineData: &provider.Blob{MIMEType: req.MIMEType, Data: req.AudioData}},
				{Text: prompt},
			},
		}},
		GenerationConfig: provider.GenerationConfig{
			Temperature:     provider.Float64(0.7),
			TopK:            provider.Int(1),
			TopP:            provider.Float64(1),
			MaxOutputTokens: provider.Int(512),
		},
		SafetySettings: voiceSafetySettings,
	})
	if err != nil {
		s.logger.Error("voice chat audio generation failed", "error", err)
		return &api.VoiceChatResponse{
			Response: fmt.Sprintf("Đã xảy ra lỗi khi kết nối với AI (Audio Mode): %s", err),
		}
	}
	return &api.VoiceChatResponse{Response: text}
}
