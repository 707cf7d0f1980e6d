package discord

// InteractionType discriminates inbound interaction payloads.
type InteractionType int

const (
	InteractionTypePing               InteractionType = 1
	InteractionTypeApplicationCommand InteractionType = 2
)

// Interaction is the subset of Discord's interaction payload this
// application consumes.
type Interaction struct {
	Type           InteractionType  `json:"type"`
	GuildID        string           `json:"guild_id,omitempty"`
	AppPermissions string           `json:"app_permissions,omitempty"`
	Data           *InteractionData `json:"data,omitempty"`
}

// InteractionData carries the invoked command and its resolved context.
type InteractionData struct {
	Name     string        `json:"name"`
	TargetID string        `json:"target_id,omitempty"`
	Resolved *ResolvedData `json:"resolved,omitempty"`
}

// ResolvedData maps snowflakes to the entities a context command targeted.
type ResolvedData struct {
	Messages map[string]Message `json:"messages,omitempty"`
}

// Message is a Discord message with its attachments.
type Message struct {
	ID          string       `json:"id"`
	Attachments []Attachment `json:"attachments"`
}

// Attachment is a single file attached to a message.
type Attachment struct {
	URL         string `json:"url"`
	ContentType string `json:"content_type,omitempty"`
}

// ResponseType discriminates outbound interaction responses.
type ResponseType int

const (
	ResponseTypePong           ResponseType = 1
	ResponseTypeChannelMessage ResponseType = 4
)

// MessageFlagEphemeral makes a response visible only to the invoking user.
const MessageFlagEphemeral = 1 << 6

// InteractionResponse is the JSON body returned from the webhook endpoint.
type InteractionResponse struct {
	Type ResponseType  `json:"type"`
	Data *ResponseData `json:"data,omitempty"`
}

// ResponseData is the message content of a ChannelMessage response.
type ResponseData struct {
	Flags  int     `json:"flags,omitempty"`
	Embeds []Embed `json:"embeds,omitempty"`
}

// Embed is a rich message block.
type Embed struct {
	Description string       `json:"description,omitempty"`
	Fields      []EmbedField `json:"fields,omitempty"`
}

// EmbedField is a titled entry inside an embed.
type EmbedField struct {
	Name   string `json:"name"`
	Value  string `json:"value"`
	Inline bool   `json:"inline,omitempty"`
}

// Pong is the canned response to a Ping interaction.
func Pong() *InteractionResponse {
	return &InteractionResponse{Type: ResponseTypePong}
}

// EphemeralMessage builds a ChannelMessage response holding a single
// ephemeral embed with the given description and fields.
func EphemeralMessage(description string, fields ...EmbedField) *InteractionResponse {
	return &InteractionResponse{
		Type: ResponseTypeChannelMessage,
		Data: &ResponseData{
			Flags:  MessageFlagEphemeral,
			Embeds: []Embed{{Description: description, Fields: fields}},
		},
	}
}
