package notify

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/bwmarrin/discordgo"

	"tether-news-scraper/internal/normalize"
	"tether-news-scraper/internal/outcome"
)

const (
	ColorSuccess = 0x00ff00
	ColorFailure = 0xff0000

	// Discord ограничивает значение поля embed 1024 символами
	maxFieldValue = 1024
)

// WebhookExecutor: часть discordgo.Session, которая нужна для отправки
type WebhookExecutor interface {
	WebhookExecute(webhookID, token string, wait bool, data *discordgo.WebhookParams, options ...discordgo.RequestOption) (*discordgo.Message, error)
}

// Report: итог одного прогона
type Report struct {
	Success      bool
	Count        int
	ErrorMessage string
	Timestamp    time.Time
}

type Notifier struct {
	session   WebhookExecutor
	webhookID string
	token     string
	username  string
}

// New разбирает URL вебхука вида https://discord.com/api/webhooks/{id}/{token}
func New(session WebhookExecutor, webhookURL, username string) (*Notifier, error) {
	id, token, err := ParseWebhookURL(webhookURL)
	if err != nil {
		return nil, err
	}
	return &Notifier{session: session, webhookID: id, token: token, username: username}, nil
}

// NewFromURL создаёт сессию без токена бота: вебхуку он не нужен
func NewFromURL(webhookURL, username string) (*Notifier, error) {
	session, err := discordgo.New("")
	if err != nil {
		return nil, fmt.Errorf("failed to create discord session: %w", err)
	}
	return New(session, webhookURL, username)
}

func ParseWebhookURL(webhookURL string) (id, token string, err error) {
	u, err := url.Parse(webhookURL)
	if err != nil {
		return "", "", fmt.Errorf("invalid webhook URL: %w", err)
	}

	parts := strings.Split(strings.Trim(u.Path, "/"), "/")
	for i := 0; i+2 < len(parts); i++ {
		if parts[i] == "webhooks" && parts[i+1] != "" && parts[i+2] != "" {
			return parts[i+1], parts[i+2], nil
		}
	}
	return "", "", fmt.Errorf("invalid webhook URL: expected .../webhooks/{id}/{token}")
}

// Notify отправляет одно сообщение. Ошибка доставки возвращается как Failed, не паникует
func (n *Notifier) Notify(ctx context.Context, report Report) outcome.Result {
	params := &discordgo.WebhookParams{
		Username: n.username,
		Embeds:   []*discordgo.MessageEmbed{BuildEmbed(report)},
	}

	if _, err := n.session.WebhookExecute(n.webhookID, n.token, true, params, discordgo.WithContext(ctx)); err != nil {
		return outcome.Failed(fmt.Errorf("webhook execute: %w", err))
	}
	return outcome.OK()
}

func BuildEmbed(report Report) *discordgo.MessageEmbed {
	ts := report.Timestamp.UTC().Format(time.RFC3339)

	embed := &discordgo.MessageEmbed{
		Title:     "✅ Tether News Scraper Success",
		Color:     ColorSuccess,
		Timestamp: ts,
		Fields: []*discordgo.MessageEmbedField{
			{Name: "Status", Value: "Success", Inline: true},
			{Name: "Articles", Value: strconv.Itoa(report.Count), Inline: true},
			{Name: "Timestamp", Value: ts, Inline: false},
		},
	}

	if !report.Success {
		embed.Title = "❌ Tether News Scraper Failed"
		embed.Color = ColorFailure
		embed.Fields[0].Value = "Failed"

		msg := report.ErrorMessage
		if msg == "" {
			msg = "unknown error"
		}
		embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{
			Name:  "Error",
			Value: normalize.Truncate(msg, maxFieldValue),
		})
	}

	return embed
}
