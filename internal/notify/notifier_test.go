package notify

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeWebhook struct {
	calls []*discordgo.WebhookParams
	id    string
	token string
	err   error
}

func (f *fakeWebhook) WebhookExecute(webhookID, token string, wait bool, data *discordgo.WebhookParams, options ...discordgo.RequestOption) (*discordgo.Message, error) {
	f.calls = append(f.calls, data)
	f.id, f.token = webhookID, token
	if f.err != nil {
		return nil, f.err
	}
	return &discordgo.Message{ID: "1"}, nil
}

var ts = time.Date(2025, 7, 24, 12, 0, 0, 0, time.UTC)

func TestParseWebhookURL(t *testing.T) {
	id, token, err := ParseWebhookURL("https://discord.com/api/webhooks/123456/abc-DEF_tok")
	require.NoError(t, err)
	assert.Equal(t, "123456", id)
	assert.Equal(t, "abc-DEF_tok", token)

	_, _, err = ParseWebhookURL("https://discord.com/api/channels/1")
	assert.Error(t, err)

	_, _, err = ParseWebhookURL("https://discord.com/api/webhooks/123/")
	assert.Error(t, err)
}

func TestNotifySuccess(t *testing.T) {
	fake := &fakeWebhook{}
	n, err := New(fake, "https://discord.com/api/webhooks/42/secret", "Scraper")
	require.NoError(t, err)

	res := n.Notify(context.Background(), Report{Success: true, Count: 2, Timestamp: ts})
	require.True(t, res.IsOK())
	require.Len(t, fake.calls, 1)
	assert.Equal(t, "42", fake.id)
	assert.Equal(t, "secret", fake.token)

	embed := fake.calls[0].Embeds[0]
	assert.Equal(t, ColorSuccess, embed.Color)
	assert.Contains(t, embed.Title, "Success")
	require.Len(t, embed.Fields, 3)
	assert.Equal(t, "2", embed.Fields[1].Value)
	assert.Equal(t, "2025-07-24T12:00:00Z", embed.Fields[2].Value)
}

func TestBuildEmbedFailure(t *testing.T) {
	embed := BuildEmbed(Report{Success: false, Count: 0, ErrorMessage: "no articles found", Timestamp: ts})

	assert.Equal(t, ColorFailure, embed.Color)
	assert.Contains(t, embed.Title, "Failed")
	require.Len(t, embed.Fields, 4)
	assert.Equal(t, "Failed", embed.Fields[0].Value)
	assert.Equal(t, "0", embed.Fields[1].Value)
	assert.Equal(t, "no articles found", embed.Fields[3].Value)
}

func TestBuildEmbedTruncatesError(t *testing.T) {
	embed := BuildEmbed(Report{ErrorMessage: strings.Repeat("x ", 1000), Timestamp: ts})
	assert.LessOrEqual(t, len([]rune(embed.Fields[3].Value)), maxFieldValue)
}

func TestNotifyDeliveryFailure(t *testing.T) {
	fake := &fakeWebhook{err: errors.New("HTTP 401 Unauthorized")}
	n, err := New(fake, "https://discord.com/api/webhooks/42/secret", "Scraper")
	require.NoError(t, err)

	res := n.Notify(context.Background(), Report{Success: true, Count: 1, Timestamp: ts})
	assert.True(t, res.IsFailed())
	assert.Contains(t, res.Err.Error(), "401")
}
