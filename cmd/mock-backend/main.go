// Command mock-backend runs a deterministic Generative Language API
// server for local development. It implements the generateContent
// endpoint with canned responses keyed on the request content, so the
// storefront can be exercised end to end without real credentials.
//
// Configuration:
//
//	MOCK_PORT      - Listen port (default: 9090)
//	MOCK_BAD_KEYS  - Comma-separated API keys rejected with 429, to
//	                 exercise credential rotation
package main

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"
)

func main() {
	port := os.Getenv("MOCK_PORT")
	if port == "" {
		port = "9090"
	}

	badKeys := map[string]bool{}
	for _, k := range strings.Split(os.Getenv("MOCK_BAD_KEYS"), ",") {
		if k = strings.TrimSpace(k); k != "" {
			badKeys[k] = true
		}
	}

	mux := http.NewServeMux()
	mux.HandleFunc("POST /v1beta/models/{model}", handleGenerate(badKeys))
	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok\n"))
	})

	srv := &http.Server{Addr: ":" + port, Handler: mux}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		slog.Info("mock backend starting", "port", port, "bad_keys", len(badKeys))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("mock backend failed", "error", err)
			os.Exit(1)
		}
	}()

	<-ctx.Done()
	slog.Info("mock backend shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	srv.Shutdown(shutdownCtx)
}

// --- Wire types ---

type generateRequest struct {
	Contents []content `json:"contents"`
}

type content struct {
	Role  string `json:"role"`
	Parts []part `json:"parts"`
}

type part struct {
	Text       string `json:"text,omitempty"`
	InlineData *blob  `json:"inlineData,omitempty"`
}

type blob struct {
	MIMEType string `json:"mimeType"`
	Data     string `json:"data"`
}

type generateResponse struct {
	Candidates   []candidate `json:"candidates"`
	ModelVersion string      `json:"modelVersion"`
}

type candidate struct {
	Content      content `json:"content"`
	FinishReason string  `json:"finishReason"`
}

// --- Handler ---

func handleGenerate(badKeys map[string]bool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		// The path value is "<model>:generateContent"; anything else is
		// not a method we serve.
		model, method, ok := strings.Cut(r.PathValue("model"), ":")
		if !ok || method != "generateContent" {
			writeGoogleError(w, http.StatusNotFound, "NOT_FOUND", "unknown method")
			return
		}

		key := r.Header.Get("x-goog-api-key")
		if key == "" {
			writeGoogleError(w, http.StatusForbidden, "PERMISSION_DENIED", "API key not valid. Please pass a valid API key.")
			return
		}
		if badKeys[key] {
			writeGoogleError(w, http.StatusTooManyRequests, "RESOURCE_EXHAUSTED", "Quota exceeded for quota metric 'Generate Content API requests'")
			return
		}

		var req generateRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeGoogleError(w, http.StatusBadRequest, "INVALID_ARGUMENT", "invalid JSON payload")
			return
		}
		if len(req.Contents) == 0 {
			writeGoogleError(w, http.StatusBadRequest, "INVALID_ARGUMENT", "contents is required")
			return
		}

		text := classify(&req)

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(generateResponse{
			Candidates: []candidate{{
				Content:      content{Role: "model", Parts: []part{{Text: text}}},
				FinishReason: "STOP",
			}},
			ModelVersion: model,
		})
	}
}

// classify picks a canned response matching the kind of request the
// storefront sends: vision requests get a fridge-analysis JSON payload,
// audio requests a transcription, everything else a short chat reply.
func classify(req *generateRequest) string {
	switch {
	case hasInlineData(req, "image/"):
		return "```json\n" +
			`{"ingredients":["trứng","cà chua","hành lá"],` +
			`"suggestions":[{"id":"mock-goi-y","name":"Mì xào trứng cà chua","matchedIngredients":["trứng","cà chua"]}],` +
			`"advice":"Nguyên liệu còn tươi, nên dùng trong 2 ngày."}` + "\n```"
	case hasInlineData(req, "audio/"):
		return "Cho tôi xem các loại mì cay."
	default:
		return "Chào bạn! MìMart có nhiều loại mì ngon, bạn muốn thử vị nào?"
	}
}

func hasInlineData(req *generateRequest, mimePrefix string) bool {
	for _, c := range req.Contents {
		for _, p := range c.Parts {
			if p.InlineData != nil && strings.HasPrefix(p.InlineData.MIMEType, mimePrefix) {
				return true
			}
		}
	}
	return false
}

func writeGoogleError(w http.ResponseWriter, status int, code, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]any{
		"error": map[string]any{
			"code":    status,
			"status":  code,
			"message": message,
		},
	})
}
