package openai

// request is the Responses API payload.
type request struct {
	Model string `json:"model"`
	Input string `json:"input"`
	Tools []tool `json:"tools,omitempty"`
}

// tool enables built-in model tools; only web search is used here.
type tool struct {
	Type              string `json:"type"`
	SearchContextSize string `json:"search_context_size,omitempty"`
}

// response mirrors the subset of the Responses API output that sparkmap
// consumes: message items carrying output text and URL-citation annotations.
type response struct {
	Output []outputItem `json:"output"`
	Error  *apiError    `json:"error,omitempty"`
}

type outputItem struct {
	Type    string        `json:"type"`
	Content []contentItem `json:"content,omitempty"`
}

type contentItem struct {
	Type        string       `json:"type"`
	Text        string       `json:"text,omitempty"`
	Annotations []annotation `json:"annotations,omitempty"`
}

type annotation struct {
	Type    string `json:"type"`
	URL     string `json:"url,omitempty"`
	Title   string `json:"title,omitempty"`
	Snippet string `json:"snippet,omitempty"`
}

type apiError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}
