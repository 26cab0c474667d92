package api

// Product is an immutable catalog entry. Prices are in Vietnamese đồng.
type Product struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Price       int64   `json:"price"`
	Category    string  `json:"category"`
	Image       string  `json:"image"`
	Rating      float64 `json:"rating"`
	SpicyLevel  int     `json:"spicyLevel"`
}

// CartLine is a single line in a cart: a product reference plus a quantity.
// Quantity is at least 1 while the line exists; a line whose quantity would
// drop to zero is removed instead.
type CartLine struct {
	ProductID string `json:"productId"`
	Name      string `json:"name"`
	Price     int64  `json:"price"`
	Image     string `json:"image"`
	Quantity  int    `json:"quantity"`
}

// Cart is the wire representation of a cart with derived totals.
type Cart struct {
	ID         string     `json:"id"`
	Items      []CartLine `json:"items"`
	TotalItems int        `json:"totalItems"`
	TotalPrice int64      `json:"totalPrice"`
}

// SearchResult is a single web search hit.
type SearchResult struct {
	Title   string `json:"title"`
	Link    string `json:"link"`
	Snippet string `json:"snippet"`
}

// Citation identifies a fetched source page that contributed to a generated
// answer. Source is a short display name derived from the page's domain.
type Citation struct {
	Source string `json:"source"`
	URL    string `json:"url"`
	Title  string `json:"title"`
}

// RAGContext is the bounded retrieval context assembled for one query.
// Citations are ordered by processing order.
type RAGContext struct {
	Text      string     `json:"text"`
	Citations []Citation `json:"citations"`
}

// HistoryEntry is one turn of a chat conversation.
type HistoryEntry struct {
	Role  string   `json:"role"`
	Parts []string `json:"parts"`
}

// ChatRequest is the body of POST /chat.
type ChatRequest struct {
	Message string         `json:"message"`
	History []HistoryEntry `json:"history,omitempty"`
}

// ChatResponse is the body of a successful POST /chat.
type ChatResponse struct {
	Response string `json:"response"`
}

// AnalyzeFridgeRequest is the body of POST /analyze-fridge.
type AnalyzeFridgeRequest struct {
	ImageBase64 string `json:"imageBase64"`
	MIMEType    string `json:"mimeType"`
}

// DishSuggestion is one dish the vision model proposes from the ingredients
// it recognized.
type DishSuggestion struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

// FridgeAnalysis is the body of a successful POST /analyze-fridge. When the
// model's output is not parseable JSON, Ingredients and Suggestions are empty
// and RawText carries the unparsed output.
type FridgeAnalysis struct {
	Ingredients []string         `json:"ingredients"`
	Suggestions []DishSuggestion `json:"suggestions"`
	RawText     string           `json:"rawText,omitempty"`
}

// FridgeScanRequest is the body of POST /fridge-scan. Image is either a
// data URL or raw base64.
type FridgeScanRequest struct {
	Image string `json:"image"`
}

// FridgeScanResponse is the body of a successful POST /fridge-scan.
type FridgeScanResponse struct {
	Suggestion string `json:"suggestion"`
}

// SommelierRequest is the body of POST /sommelier.
type SommelierRequest struct {
	Query string `json:"query"`
}

// SommelierResponse is the body of a successful POST /sommelier.
type SommelierResponse struct {
	Answer    string     `json:"answer"`
	Citations []Citation `json:"citations"`
}

// Voice chat modes.
const (
	VoiceModeSTT   = "stt"
	VoiceModeAudio = "audio_understanding"
)

// VoiceChatRequest is the body of POST /voice-chat. Mode selects between
// plain text ("stt") and audio understanding ("audio_understanding").
type VoiceChatRequest struct {
	Mode      string `json:"mode"`
	Text      string `json:"text,omitempty"`
	AudioData string `json:"audioData,omitempty"`
	MIMEType  string `json:"mimeType,omitempty"`
	Prompt    string `json:"prompt,omitempty"`
}

// VoiceChatResponse is the body of a successful POST /voice-chat.
type VoiceChatResponse struct {
	Response string `json:"response"`
}

// AddItemRequest is the body of POST /cart/{cartID}/items.
type AddItemRequest struct {
	ProductID string `json:"productId"`
}

// UpdateQuantityRequest is the body of PATCH /cart/{cartID}/items/{productID}.
type UpdateQuantityRequest struct {
	Quantity int `json:"quantity"`
}

// CheckoutResponse is the body of a successful POST /cart/{cartID}/checkout.
// Checkout is simulated: the cart is cleared and a confirmation is returned;
// no payment or order persistence happens.
type CheckoutResponse struct {
	OrderID    string `json:"orderId"`
	TotalItems int    `json:"totalItems"`
	TotalPrice int64  `json:"totalPrice"`
}
