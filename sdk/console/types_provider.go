package console

// Provider is an LLM provider configuration.
type Provider struct {
	ID       string  `json:"id"`
	Name     string  `json:"name"`
	Kind     string  `json:"kind"` // "anthropic", "openai", "local", ...
	Model    string  `json:"model"`
	Endpoint string  `json:"endpoint,omitempty"`
	Enabled  bool    `json:"enabled"`
	Updated  float64 `json:"updated"`
}

// UpdateProviderRequest is the request body for updating a provider.
type UpdateProviderRequest struct {
	Model    *string `json:"model,omitempty"`
	Endpoint *string `json:"endpoint,omitempty"`
	APIKey   *string `json:"api_key,omitempty"`
	Enabled  *bool   `json:"enabled,omitempty"`
}

// ProviderTestResult is the result of a provider connectivity probe.
type ProviderTestResult struct {
	OK        bool   `json:"ok"`
	LatencyMS int    `json:"latency_ms"`
	Error     string `json:"error,omitempty"`
}
