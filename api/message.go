package api

import (
	"io"
	"mime/multipart"

	"github.com/pkg/errors"

	"github.com/kagerou/hibiki/discord"
	"github.com/kagerou/hibiki/utils/httputil"
)

// ErrMessageTooLong is returned before the API is hit when the content
// exceeds the wire limit.
var ErrMessageTooLong = errors.New("message content exceeds 2000 characters")

// SendMessage posts content to the channel.
func (c *Client) SendMessage(
	channelID discord.Snowflake, content string, tts bool) (*discord.Message, error) {

	if len([]rune(content)) > discord.MaxMessageLength {
		return nil, ErrMessageTooLong
	}

	var param struct {
		Content string `json:"content"`
		TTS     bool   `json:"tts,omitempty"`
	}
	param.Content = content
	param.TTS = tts

	var m *discord.Message
	return m, c.doJSON(&m, "POST", c.Endpoint+"channels/"+channelID.String()+"/messages",
		httputil.WithJSONBody(c.Driver, param))
}

// SendFile uploads a file to the channel as a streamed multipart request.
func (c *Client) SendFile(
	channelID discord.Snowflake, filename string, src io.Reader) (*discord.Message, error) {

	resp, err := c.MeanwhileMultipart(
		func(w *multipart.Writer) error {
			part, err := w.CreateFormFile("file", filename)
			if err != nil {
				return errors.Wrap(err, "failed to create form file")
			}

			_, err = io.Copy(part, src)
			return errors.Wrap(err, "failed to copy file")
		},
		"POST", c.Endpoint+"channels/"+channelID.String()+"/messages",
	)
	if err != nil {
		return nil, mapError(err)
	}
	defer resp.Body.Close()

	var m *discord.Message
	if err := c.DecodeStream(resp.Body, &m); err != nil {
		return nil, errors.Wrap(err, "failed to decode message")
	}

	return m, nil
}
