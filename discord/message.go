package discord

// MaxMessageLength is the longest content Discord accepts in one message.
const MaxMessageLength = 2000

type Attachment struct {
	ID       Snowflake `json:"id"`
	Filename string    `json:"filename"`
	Size     uint64    `json:"size"`
	URL      string    `json:"url"`
	Proxy    string    `json:"proxy_url"`
	Height   int       `json:"height,omitempty"`
	Width    int       `json:"width,omitempty"`
}

type Message struct {
	ID        Snowflake `json:"id"`
	ChannelID Snowflake `json:"channel_id"`
	Author    User      `json:"author"`
	Content   string    `json:"content"`
	Timestamp string    `json:"timestamp,omitempty"`

	Mentions    []User       `json:"mentions,omitempty"`
	Attachments []Attachment `json:"attachments,omitempty"`
	TTS         bool         `json:"tts"`
}

// MentionsUser reports whether the message explicitly mentions the user ID.
func (m Message) MentionsUser(id Snowflake) bool {
	for _, u := range m.Mentions {
		if u.ID == id {
			return true
		}
	}
	return false
}
