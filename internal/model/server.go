package model

// ServerConfig is one saved WebDAV server. The ID is assigned by the registry
// on add and never changes afterwards.
type ServerConfig struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	URL       string `json:"url"`
	Username  string `json:"username,omitempty"`
	Password  string `json:"password,omitempty"`
	IsDefault bool   `json:"isDefault,omitempty"`
}
