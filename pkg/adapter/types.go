package adapter

// Role values for chat messages.
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Message is a single chat turn sent to the completion service.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Request is a provider-neutral completion request.
type Request struct {
	System   string
	Messages []Message
	// JSONMode asks the provider for a JSON object response where the
	// provider supports enforcing it, and via prompt otherwise.
	JSONMode bool
}

// Usage captures normalized token usage.
type Usage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`
}

// Response wraps a completion output and optional usage data.
type Response struct {
	Content string
	Usage   *Usage
}

// UserRequest builds a single-turn request.
func UserRequest(system, content string, jsonMode bool) Request {
	return Request{
		System:   system,
		Messages: []Message{{Role: RoleUser, Content: content}},
		JSONMode: jsonMode,
	}
}
