package producer

import (
	"context"
	"fmt"
	"sort"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/sirupsen/logrus"
)

//go:generate mockery --name=Alerter

// Alerter reports failures to whoever operates the jobs
type Alerter interface {
	Capture(ctx context.Context, err error, tags map[string]string)
}

type LogAlerter struct{}

func NewLogAlerter() *LogAlerter {
	return &LogAlerter{}
}

func (LogAlerter) Capture(_ context.Context, err error, tags map[string]string) {
	fields := logrus.Fields{}
	for k, v := range tags {
		fields[k] = v
	}
	logrus.WithFields(fields).WithError(err).Error("captured error")
}

type telegramSender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
}

// TelegramAlerter posts captured errors to an ops chat
type TelegramAlerter struct {
	bot    telegramSender
	chatID int64
	next   Alerter
}

func NewTelegramAlerter(bot *tgbotapi.BotAPI, chatID int64) *TelegramAlerter {
	return &TelegramAlerter{
		bot:    bot,
		chatID: chatID,
		next:   NewLogAlerter(),
	}
}

func (t *TelegramAlerter) Capture(ctx context.Context, err error, tags map[string]string) {
	t.next.Capture(ctx, err, tags)

	msg := tgbotapi.NewMessage(t.chatID, formatAlert(err, tags))
	if _, sendErr := t.bot.Send(msg); sendErr != nil {
		logrus.Errorf("telegram alerter couldn't send alert: %v", sendErr)
	}
}

func formatAlert(err error, tags map[string]string) string {
	keys := make([]string, 0, len(tags))
	for k := range tags {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var b strings.Builder
	b.WriteString(fmt.Sprintf("Error: %v\n", err))
	for _, k := range keys {
		b.WriteString(fmt.Sprintf("%s - %s\n", k, tags[k]))
	}
	return strings.TrimSuffix(b.String(), "\n")
}
