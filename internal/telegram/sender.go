package telegram

import tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

// Sender delivers plain text messages. It satisfies dispatch.Sender.
type Sender struct {
	bot BotAPI
}

// NewSender wraps a bot API client.
func NewSender(bot BotAPI) *Sender {
	return &Sender{bot: bot}
}

// SendMessage sends a plain text message to the given chat.
func (s *Sender) SendMessage(chatID int64, text string) error {
	_, err := s.bot.Send(tgbotapi.NewMessage(chatID, text))
	return err
}

// sendText is SendMessage for replies where the error is not actionable.
func (s *Sender) sendText(chatID int64, text string) {
	_ = s.SendMessage(chatID, text)
}

func (s *Sender) answerCallback(id, text string) error {
	_, err := s.bot.Request(tgbotapi.NewCallback(id, text))
	return err
}
