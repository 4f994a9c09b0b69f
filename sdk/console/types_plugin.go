package console

// Plugin is one entry in the plugin registry.
type Plugin struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Version     string  `json:"version"`
	Description string  `json:"description,omitempty"`
	Endpoint    string  `json:"endpoint"`
	Enabled     bool    `json:"enabled"`
	Registered  float64 `json:"registered"`
}

// RegisterPluginRequest is the request body for registering a plugin.
type RegisterPluginRequest struct {
	Name        string  `json:"name"`
	Version     string  `json:"version"`
	Endpoint    string  `json:"endpoint"`
	Description *string `json:"description,omitempty"`
}
