package services

import (
	"fmt"
	"time"

	tele "gopkg.in/telebot.v3"
)

type Bot struct {
	token string
}

func NewBot(token string) (*Bot, error) {
	return &Bot{token}, nil
}

func (bot *Bot) SendMsg(chatID int64, text string) error {
	pref := tele.Settings{
		Token:  bot.token,
		Poller: &tele.LongPoller{Timeout: 10 * time.Second},
	}

	b, err := tele.NewBot(pref)
	if err != nil {
		return err
	}

	_, err = b.Send(&tele.Chat{ID: chatID}, text, &tele.SendOptions{
		ParseMode: tele.ModeHTML,
	})
	if err != nil {
		return err
	}

	return nil
}

func (bot *Bot) AnnounceFirstBlood(chatID int64, nickname string, challengeName string) error {
	text := fmt.Sprintf("🩸 First blood! <b>%s</b> was the first to solve <b>%s</b>.", nickname, challengeName)
	return bot.SendMsg(chatID, text)
}
