// ABOUTME: Wire types shared by the channel and knowledge-base services.
// ABOUTME: Field names follow the backend's JSON contract exactly.

package api

// ChannelConfig is a chat-bot configuration as stored by the channel
// service. ID is assigned by the backend and is absent until the create
// request succeeds; a config without an ID has never been persisted.
type ChannelConfig struct {
	ID               string      `json:"uuid,omitempty"`
	Name             string      `json:"name"`
	Model            string      `json:"model"`
	MaxTokens        int         `json:"max_tokens"`
	Temperature      float64     `json:"temperature"`
	MaxContextLength int         `json:"max_context_length"`
	SystemPrompt     string      `json:"system_prompt"`
	InitialMessage   string      `json:"initial_message,omitempty"`
	Bindings         []KbBinding `json:"kbs"`
}

// KbBinding pairs a knowledge-base collection with the access key that
// grants the channel query access to it.
type KbBinding struct {
	Collection string `json:"collection"`
	AccessKey  string `json:"api_key"`
}

// Collection is a named document store in the knowledge-base service.
type Collection struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

// Clone returns a deep copy of the config, including its binding list.
// The editor clones cached entities into working copies so that edits
// never mutate the cache before the server confirms them.
func (c *ChannelConfig) Clone() *ChannelConfig {
	dup := *c
	dup.Bindings = make([]KbBinding, len(c.Bindings))
	copy(dup.Bindings, c.Bindings)
	return &dup
}
