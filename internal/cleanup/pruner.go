package cleanup

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/bwmarrin/discordgo"

	"tether-news-scraper/internal/observability"
	"tether-news-scraper/internal/outcome"
)

const pageSize = 100

// Ключевые слова в имени канала, если channel id не задан
var channelKeywords = []string{"news", "scraper"}

// ChannelAPI описывает методы discordgo.Session, нужные для чистки
type ChannelAPI interface {
	User(userID string, options ...discordgo.RequestOption) (*discordgo.User, error)
	UserGuilds(limit int, beforeID, afterID string, withCounts bool, options ...discordgo.RequestOption) ([]*discordgo.UserGuild, error)
	GuildChannels(guildID string, options ...discordgo.RequestOption) ([]*discordgo.Channel, error)
	UserChannelPermissions(userID, channelID string, fetchOptions ...discordgo.RequestOption) (int64, error)
	ChannelMessages(channelID string, limit int, beforeID, afterID, aroundID string, options ...discordgo.RequestOption) ([]*discordgo.Message, error)
	ChannelMessageDelete(channelID, messageID string, options ...discordgo.RequestOption) error
}

type Pruner struct {
	api         ChannelAPI
	channelID   string
	deleteAfter time.Duration
	delay       time.Duration
	logger      *observability.Logger
	now         func() time.Time
}

// NewPruner. Пустой channelID означает поиск каналов news/scraper во всех гильдиях бота
func NewPruner(api ChannelAPI, channelID string, deleteAfter, delay time.Duration, logger *observability.Logger) *Pruner {
	return &Pruner{
		api:         api,
		channelID:   channelID,
		deleteAfter: deleteAfter,
		delay:       delay,
		logger:      logger,
		now:         time.Now,
	}
}

// NewBotPruner открывает REST-сессию бота без gateway
func NewBotPruner(botToken, channelID string, deleteAfter, delay time.Duration, logger *observability.Logger) (*Pruner, error) {
	session, err := discordgo.New("Bot " + botToken)
	if err != nil {
		return nil, fmt.Errorf("failed to create discord session: %w", err)
	}
	return NewPruner(session, channelID, deleteAfter, delay, logger), nil
}

// Prune удаляет сообщения бота старше порога в каждом доступном канале.
// Каналы без права ManageMessages пропускаются
func (p *Pruner) Prune(ctx context.Context) (int, outcome.Result) {
	me, err := p.api.User("@me", discordgo.WithContext(ctx))
	if err != nil {
		return 0, outcome.Failed(fmt.Errorf("get bot user: %w", err))
	}

	channels, err := p.targets(ctx)
	if err != nil {
		return 0, outcome.Failed(err)
	}
	if len(channels) == 0 {
		return 0, outcome.Skipped("no matching channel")
	}

	cutoff := p.now().Add(-p.deleteAfter)
	deleted := 0

	for _, channelID := range channels {
		if !p.canManage(ctx, me.ID, channelID) {
			p.logger.Warn("No permission to manage messages", "channel_id", channelID)
			continue
		}

		n, err := p.pruneChannel(ctx, channelID, cutoff)
		deleted += n
		if err != nil {
			return deleted, outcome.Failed(err)
		}
	}

	p.logger.Info("Cleanup completed", "channels", len(channels), "deleted", deleted)
	return deleted, outcome.OK()
}

// targets возвращает заданный канал или по одному подходящему текстовому каналу на гильдию
func (p *Pruner) targets(ctx context.Context) ([]string, error) {
	if p.channelID != "" {
		return []string{p.channelID}, nil
	}

	guilds, err := p.api.UserGuilds(200, "", "", false, discordgo.WithContext(ctx))
	if err != nil {
		return nil, fmt.Errorf("list guilds: %w", err)
	}

	var out []string
	for _, g := range guilds {
		channels, err := p.api.GuildChannels(g.ID, discordgo.WithContext(ctx))
		if err != nil {
			return nil, fmt.Errorf("list channels of guild %s: %w", g.ID, err)
		}
		for _, ch := range channels {
			if isTextChannel(ch) && matchesKeyword(ch.Name) {
				out = append(out, ch.ID)
				break
			}
		}
	}
	return out, nil
}

func (p *Pruner) canManage(ctx context.Context, userID, channelID string) bool {
	perms, err := p.api.UserChannelPermissions(userID, channelID, discordgo.WithContext(ctx))
	if err != nil {
		p.logger.Warn("Failed to read channel permissions", "channel_id", channelID, "error", err.Error())
		return false
	}
	return perms&(discordgo.PermissionManageMessages|discordgo.PermissionAdministrator) != 0
}

// pruneChannel идёт от новых к старым и останавливается на первой странице без старых сообщений
func (p *Pruner) pruneChannel(ctx context.Context, channelID string, cutoff time.Time) (int, error) {
	deleted := 0
	before := ""

	for {
		if err := ctx.Err(); err != nil {
			return deleted, err
		}

		messages, err := p.api.ChannelMessages(channelID, pageSize, before, "", "", discordgo.WithContext(ctx))
		if err != nil {
			return deleted, fmt.Errorf("list messages: %w", err)
		}
		if len(messages) == 0 {
			return deleted, nil
		}

		var old []*discordgo.Message
		for _, msg := range messages {
			if msg.Author != nil && msg.Author.Bot && msg.Timestamp.Before(cutoff) {
				old = append(old, msg)
			}
		}
		if len(old) == 0 {
			return deleted, nil
		}

		for _, msg := range old {
			err := p.api.ChannelMessageDelete(channelID, msg.ID, discordgo.WithContext(ctx))
			switch {
			case err == nil:
				deleted++
			case isUnknownMessage(err):
				// уже удалено
			default:
				p.logger.Warn("Delete error", "channel_id", channelID, "message_id", msg.ID, "error", err.Error())
			}

			if err := p.sleep(ctx); err != nil {
				return deleted, err
			}
		}

		before = messages[len(messages)-1].ID
	}
}

func (p *Pruner) sleep(ctx context.Context) error {
	if p.delay <= 0 {
		return nil
	}
	select {
	case <-time.After(p.delay):
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func isTextChannel(ch *discordgo.Channel) bool {
	return ch.Type == discordgo.ChannelTypeGuildText || ch.Type == discordgo.ChannelTypeGuildNews
}

func matchesKeyword(name string) bool {
	name = strings.ToLower(name)
	for _, kw := range channelKeywords {
		if strings.Contains(name, kw) {
			return true
		}
	}
	return false
}

func isUnknownMessage(err error) bool {
	var restErr *discordgo.RESTError
	return errors.As(err, &restErr) && restErr.Message != nil && restErr.Message.Code == discordgo.ErrCodeUnknownMessage
}
