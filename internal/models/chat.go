package models

// Chat roles as posted by the browser UI.
const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Message is one turn of the conversation. POST /api/chat receives the whole
// history as a JSON array of these.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// SearchRequest is the payload for GET /professors/search (query parameters).
type SearchRequest struct {
	Query string `json:"q" query:"q"` // free-text query
	TopK  int    `json:"k" query:"k"` // optional; default handled in handler
}
