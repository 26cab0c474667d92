// Package integration provides integration tests for the storefront API.
//
// Tests run against a real storefront HTTP server backed by a mock
// Generative Language API and a mock content site for retrieval, all
// started in-process using net/http/httptest.
package integration

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"github.com/mimart/storefront/pkg/api"
	"github.com/mimart/storefront/pkg/assistant"
	"github.com/mimart/storefront/pkg/cart/memory"
	"github.com/mimart/storefront/pkg/catalog"
	"github.com/mimart/storefront/pkg/provider/gemini"
	"github.com/mimart/storefront/pkg/rag"
	"github.com/mimart/storefront/pkg/rotation"
	transporthttp "github.com/mimart/storefront/pkg/transport/http"
)

const (
	goodKey      = "good-key"
	exhaustedKey = "exhausted-key"

	mockChatReply       = "Chào bạn! MìMart có nhiều loại mì ngon."
	mockSommelierReply  = "Mì cay Hàn Quốc hợp với kim chi."
	mockTranscript      = "Cho tôi xem các loại mì cay."
	mockFridgeAnalysis  = `{"ingredients":["trứng","cà chua"],"suggestions":[{"name":"Mì xào trứng","description":"Xào nhanh với trứng và cà chua."}]}`
	mockFridgeSuggested = "Bạn có thể nấu mì xào trứng cà chua."
)

// testEnv holds the shared servers for all integration tests.
var testEnv *TestEnvironment

// TestEnvironment holds the storefront server and its mock dependencies.
type TestEnvironment struct {
	Storefront  *httptest.Server
	MockBackend *httptest.Server
	MockSite    *httptest.Server
}

// TestMain starts the mock servers and the storefront before running tests.
func TestMain(m *testing.M) {
	testEnv = setupTestEnvironment()
	code := m.Run()
	testEnv.Teardown()
	os.Exit(code)
}

// setupTestEnvironment wires a storefront server to a mock generation
// backend and a mock content site.
func setupTestEnvironment() *TestEnvironment {
	mockBackend := startMockBackend()
	mockSite := startMockSite()

	cat, err := catalog.Load()
	if err != nil {
		panic(fmt.Sprintf("loading catalog: %v", err))
	}

	// Two keys, one of them rate limited, so every request also
	// exercises credential rotation.
	rot := rotation.New(
		[]string{exhaustedKey, goodKey},
		gemini.Factory(mockBackend.URL, 0),
	)

	assembler := rag.NewAssembler(rag.NewExtractor(), rag.AssemblerConfig{})

	assist := assistant.New(rot, &siteSearcher{baseURL: mockSite.URL}, assembler, cat, assistant.Config{
		Models: assistant.Models{
			Chat:   "mock-chat",
			Vision: "mock-vision",
			Audio:  "mock-audio",
		},
	})

	adapter := transporthttp.NewAdapter(assist, cat, memory.New(), transporthttp.DefaultConfig())
	srv := transporthttp.NewServer(adapter, transporthttp.DefaultServerConfig())

	return &TestEnvironment{
		Storefront:  httptest.NewServer(srv.Handler()),
		MockBackend: mockBackend,
		MockSite:    mockSite,
	}
}

// Teardown stops all servers.
func (env *TestEnvironment) Teardown() {
	if env.Storefront != nil {
		env.Storefront.Close()
	}
	if env.MockBackend != nil {
		env.MockBackend.Close()
	}
	if env.MockSite != nil {
		env.MockSite.Close()
	}
}

// BaseURL returns the storefront base URL.
func (env *TestEnvironment) BaseURL() string {
	return env.Storefront.URL
}

// --- HTTP helpers ---

// postJSON sends a POST request with JSON body and returns the response.
func postJSON(t *testing.T, url string, body any) *http.Response {
	t.Helper()
	data, err := json.Marshal(body)
	if err != nil {
		t.Fatalf("marshaling request: %v", err)
	}
	resp, err := http.Post(url, "application/json", bytes.NewReader(data))
	if err != nil {
		t.Fatalf("POST %s: %v", url, err)
	}
	return resp
}

// getURL sends a GET request and returns the response.
func getURL(t *testing.T, url string) *http.Response {
	t.Helper()
	resp, err := http.Get(url)
	if err != nil {
		t.Fatalf("GET %s: %v", url, err)
	}
	return resp
}

// doMethod sends a bodyless request with the given method.
func doMethod(t *testing.T, method, url string) *http.Response {
	t.Helper()
	req, err := http.NewRequest(method, url, nil)
	if err != nil {
		t.Fatalf("creating %s request: %v", method, err)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("%s %s: %v", method, url, err)
	}
	return resp
}

// patchJSON sends a PATCH request with JSON body.
func patchJSON(t *testing.T, url string, body any) *http.Response {
	t.Helper()
	data, err := json.Marshal(body)
	if err != nil {
		t.Fatalf("marshaling request: %v", err)
	}
	req, err := http.NewRequest(http.MethodPatch, url, bytes.NewReader(data))
	if err != nil {
		t.Fatalf("creating PATCH request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("PATCH %s: %v", url, err)
	}
	return resp
}

// readBody reads and returns the response body as a string.
func readBody(t *testing.T, resp *http.Response) string {
	t.Helper()
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("reading response body: %v", err)
	}
	return string(body)
}

// decodeJSON reads the response body and decodes it into the target.
func decodeJSON(t *testing.T, resp *http.Response, target any) {
	t.Helper()
	defer resp.Body.Close()
	if err := json.NewDecoder(resp.Body).Decode(target); err != nil {
		t.Fatalf("decoding JSON: %v", err)
	}
}

// --- Mock generation backend ---

// startMockBackend creates an httptest server that mimics the Generative
// Language generateContent endpoint. The exhausted key is rejected with
// 429 so the rotator has to advance to the good key.
func startMockBackend() *httptest.Server {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /v1beta/models/{model}", handleMockGenerate)
	return httptest.NewServer(mux)
}

func handleMockGenerate(w http.ResponseWriter, r *http.Request) {
	switch r.Header.Get("x-goog-api-key") {
	case goodKey:
	case exhaustedKey:
		writeMockError(w, http.StatusTooManyRequests, "RESOURCE_EXHAUSTED", "Quota exceeded")
		return
	default:
		writeMockError(w, http.StatusForbidden, "PERMISSION_DENIED", "API key not valid")
		return
	}

	var req struct {
		Contents []struct {
			Role  string `json:"role"`
			Parts []struct {
				Text       string `json:"text"`
				InlineData *struct {
					MIMEType string `json:"mimeType"`
				} `json:"inlineData"`
			} `json:"parts"`
		} `json:"contents"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeMockError(w, http.StatusBadRequest, "INVALID_ARGUMENT", "invalid JSON payload")
		return
	}

	// Pick the reply from the request shape the assistant sends.
	text := mockChatReply
	var allText strings.Builder
	for _, c := range req.Contents {
		for _, p := range c.Parts {
			allText.WriteString(p.Text)
			if p.InlineData == nil {
				continue
			}
			switch {
			case strings.HasPrefix(p.InlineData.MIMEType, "image/"):
				if strings.Contains(r.PathValue("model"), "vision") {
					text = "```json\n" + mockFridgeAnalysis + "\n```"
				} else {
					text = mockFridgeSuggested
				}
			case strings.HasPrefix(p.InlineData.MIMEType, "audio/"):
				text = mockTranscript
			}
		}
	}
	if text == mockChatReply && strings.Contains(allText.String(), "Noodle Sommelier") {
		text = mockSommelierReply
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{
		"candidates": []map[string]any{
			{
				"content": map[string]any{
					"role":  "model",
					"parts": []map[string]any{{"text": text}},
				},
				"finishReason": "STOP",
			},
		},
		"modelVersion": strings.TrimSuffix(r.PathValue("model"), ":generateContent"),
	})
}

func writeMockError(w http.ResponseWriter, status int, code, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]any{
		"error": map[string]any{"code": status, "status": code, "message": message},
	})
}

// --- Mock content site and searcher ---

// startMockSite serves simple article pages for the retrieval pipeline.
func startMockSite() *httptest.Server {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /articles/{slug}", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		fmt.Fprintf(w, `<html><head><title>%s</title></head><body>
<h1>Mì ăn liền và sức khỏe</h1>
<p>Mì ăn liền nên được kết hợp với rau xanh và trứng để cân bằng dinh dưỡng.
Người lớn không nên ăn quá ba gói mỗi tuần.</p>
</body></html>`, r.PathValue("slug"))
	})
	return httptest.NewServer(mux)
}

// siteSearcher returns results pointing at the mock content site.
type siteSearcher struct {
	baseURL string
}

func (s *siteSearcher) Search(ctx context.Context, query string, maxResults int) []api.SearchResult {
	results := []api.SearchResult{
		{
			Title:   "Mì ăn liền và sức khỏe",
			Link:    s.baseURL + "/articles/mi-an-lien-va-suc-khoe",
			Snippet: "Kết hợp mì với rau xanh và trứng.",
		},
		{
			Title:   "Cách chọn mì ngon",
			Link:    s.baseURL + "/articles/cach-chon-mi-ngon",
			Snippet: "Chọn mì theo khẩu vị và độ cay.",
		},
	}
	if maxResults < len(results) {
		results = results[:maxResults]
	}
	return results
}
