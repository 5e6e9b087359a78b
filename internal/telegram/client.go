package telegram

import (
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// Client implements API over the Bot API HTTP transport.
type Client struct {
	bot *tgbotapi.BotAPI
}

// NewClient wraps an authorized Bot API connection.
func NewClient(bot *tgbotapi.BotAPI) *Client {
	return &Client{bot: bot}
}

func baseChat(chat ChatRef) tgbotapi.BaseChat {
	return tgbotapi.BaseChat{ChatID: chat.ID, ChannelUsername: chat.Username}
}

// SendText sends a plain text message.
func (c *Client) SendText(chat ChatRef, text string, markup any) (int, error) {
	msg := tgbotapi.MessageConfig{
		BaseChat: baseChat(chat),
		Text:     text,
	}
	msg.ReplyMarkup = markup
	sent, err := c.bot.Send(msg)
	if err != nil {
		return 0, err
	}
	return sent.MessageID, nil
}

// SendPhoto sends a photo by its Telegram file id.
func (c *Client) SendPhoto(chat ChatRef, fileID, caption string, markup any) (int, error) {
	msg := tgbotapi.PhotoConfig{
		BaseFile: tgbotapi.BaseFile{
			BaseChat: baseChat(chat),
			File:     tgbotapi.FileID(fileID),
		},
	}
	msg.Caption = caption
	msg.ReplyMarkup = markup
	sent, err := c.bot.Send(msg)
	if err != nil {
		return 0, err
	}
	return sent.MessageID, nil
}

// SendVideo sends a video by its Telegram file id.
func (c *Client) SendVideo(chat ChatRef, fileID, caption string) (int, error) {
	msg := tgbotapi.VideoConfig{
		BaseFile: tgbotapi.BaseFile{
			BaseChat: baseChat(chat),
			File:     tgbotapi.FileID(fileID),
		},
	}
	msg.Caption = caption
	sent, err := c.bot.Send(msg)
	if err != nil {
		return 0, err
	}
	return sent.MessageID, nil
}

// CopyMessage re-sends a stored message without a forward header.
// The typed CopyMessageConfig predates protect_content, so the call
// goes through the raw endpoint.
func (c *Client) CopyMessage(to ChatRef, from ChatRef, messageID int, protect bool) error {
	params := make(tgbotapi.Params)
	if err := params.AddFirstValid("chat_id", to.ID, to.Username); err != nil {
		return err
	}
	if err := params.AddFirstValid("from_chat_id", from.ID, from.Username); err != nil {
		return err
	}
	params.AddNonZero("message_id", messageID)
	params.AddBool("protect_content", protect)
	_, err := c.bot.MakeRequest("copyMessage", params)
	return err
}

// EditCaption rewrites a published post's caption in place.
func (c *Client) EditCaption(chat ChatRef, messageID int, caption string, markup any) error {
	cfg := tgbotapi.EditMessageCaptionConfig{
		BaseEdit: tgbotapi.BaseEdit{
			ChatID:          chat.ID,
			ChannelUsername: chat.Username,
			MessageID:       messageID,
		},
		Caption: caption,
	}
	if kb, ok := markup.(*tgbotapi.InlineKeyboardMarkup); ok {
		cfg.ReplyMarkup = kb
	}
	_, err := c.bot.Send(cfg)
	return err
}

// MemberStatus looks up the user's membership status in a chat.
func (c *Client) MemberStatus(chat ChatRef, userID int64) (string, error) {
	member, err := c.bot.GetChatMember(tgbotapi.GetChatMemberConfig{
		ChatConfigWithUser: tgbotapi.ChatConfigWithUser{
			ChatID:             chat.ID,
			SuperGroupUsername: chat.Username,
			UserID:             userID,
		},
	})
	if err != nil {
		return "", err
	}
	return member.Status, nil
}

// AnswerCallback acknowledges an inline-button press.
func (c *Client) AnswerCallback(callbackID, text string) error {
	_, err := c.bot.Request(tgbotapi.NewCallback(callbackID, text))
	return err
}
