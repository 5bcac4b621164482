package whatsapp

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mamadbah2/flockwatch/internal/config"
	"github.com/mamadbah2/flockwatch/internal/domain/models"
	"github.com/mamadbah2/flockwatch/internal/service/commands"
	"github.com/mamadbah2/flockwatch/internal/service/reporting"
	"github.com/mamadbah2/flockwatch/pkg/clients/anthropic"
	client "github.com/mamadbah2/flockwatch/pkg/clients/whatsapp"
)

type fakeClient struct {
	sent []client.SendTextMessageRequest
	err  error
}

func (f *fakeClient) SendTextMessage(_ context.Context, req client.SendTextMessageRequest) (*client.SendTextMessageResponse, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.sent = append(f.sent, req)
	return &client.SendTextMessageResponse{}, nil
}

type fakeDispatcher struct {
	got   []models.Command
	reply string
	err   error
}

func (f *fakeDispatcher) HandleCommand(_ context.Context, cmd models.Command, _ string) (string, error) {
	f.got = append(f.got, cmd)
	return f.reply, f.err
}

type fakeAI struct {
	out   string
	err   error
	calls int
}

func (f *fakeAI) TranslateToCommand(context.Context, string) (string, error) {
	f.calls++
	return f.out, f.err
}

func textPayload(from, body string) models.WebhookPayload {
	return models.WebhookPayload{
		Object: "whatsapp_business_account",
		Entry: []models.WebhookEntry{{
			Changes: []models.WebhookChange{{
				Field: "messages",
				Value: models.WebhookValue{
					Messages: []models.InboundMessage{{From: from, ID: "wamid.in", Type: "text", Text: &models.TextContent{Body: body}}},
				},
			}},
		}},
	}
}

func newTestService(c client.Client, d commands.Dispatcher, ai anthropic.Client) *MetaWhatsAppService {
	return NewMetaWhatsAppService(config.WhatsAppConfig{VerifyToken: "verify"}, c, d, ai, nil)
}

func TestVerifyWebhookToken(t *testing.T) {
	svc := newTestService(&fakeClient{}, &fakeDispatcher{}, nil)

	challenge, err := svc.VerifyWebhookToken("subscribe", "verify", "42")
	require.NoError(t, err)
	assert.Equal(t, "42", challenge)

	_, err = svc.VerifyWebhookToken("", "verify", "42")
	assert.Error(t, err)
	_, err = svc.VerifyWebhookToken("unsubscribe", "verify", "42")
	assert.Error(t, err)
	_, err = svc.VerifyWebhookToken("subscribe", "wrong", "42")
	assert.Error(t, err)
}

func TestHandleWebhook_DispatchesAndReplies(t *testing.T) {
	wa := &fakeClient{}
	d := &fakeDispatcher{reply: "Egg record saved"}
	svc := newTestService(wa, d, nil)

	require.NoError(t, svc.HandleWebhook(context.Background(), textPayload("22460", " eggs L1 410 ")))

	require.Len(t, d.got, 1)
	assert.Equal(t, models.CommandEggs, d.got[0].Type)
	assert.Equal(t, []string{"L1", "410"}, d.got[0].Args)

	require.Len(t, wa.sent, 1)
	assert.Equal(t, "22460", wa.sent[0].To)
	assert.Equal(t, "Egg record saved", wa.sent[0].Body)
}

func TestHandleWebhook_InteractiveReply(t *testing.T) {
	wa := &fakeClient{}
	d := &fakeDispatcher{reply: "ok"}
	svc := newTestService(wa, d, nil)

	payload := textPayload("22460", "")
	payload.Entry[0].Changes[0].Value.Messages[0] = models.InboundMessage{
		From:        "22460",
		Type:        "interactive",
		Interactive: &models.InteractiveContent{Type: "button_reply", ButtonReply: &models.ReplyOption{ID: "kpi", Title: "KPIs"}},
	}

	require.NoError(t, svc.HandleWebhook(context.Background(), payload))
	require.Len(t, d.got, 1)
	assert.Equal(t, models.CommandKPI, d.got[0].Type)
}

func TestHandleWebhook_IgnoresEmptyMessages(t *testing.T) {
	wa := &fakeClient{}
	d := &fakeDispatcher{}
	svc := newTestService(wa, d, nil)

	payload := textPayload("22460", "")
	payload.Entry[0].Changes[0].Value.Messages[0] = models.InboundMessage{From: "22460", Type: "image"}
	payload.Entry[0].Changes[0].Value.Statuses = []models.MessageStatus{{ID: "wamid.out", Status: models.StatusFailed}}

	require.NoError(t, svc.HandleWebhook(context.Background(), payload))
	assert.Empty(t, d.got)
	assert.Empty(t, wa.sent)
}

func TestHandleWebhook_ErrorReplies(t *testing.T) {
	tests := []struct {
		name string
		text string
		err  error
		want string
	}{
		{"invalid arguments", "eggs L1", commands.ErrInvalidArguments, "Could not read the eggs command.\n" + commands.HelpText},
		{"unsupported", "dance", commands.ErrUnsupportedCommand, "Unknown command.\n" + commands.HelpText},
		{"unknown flock", "health L9", reporting.ErrUnknownFlock, `Unknown flock "L9".`},
		{"internal failure", "kpi", errors.New("sheets down"), replyFailure},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			wa := &fakeClient{}
			svc := newTestService(wa, &fakeDispatcher{err: tc.err}, nil)

			require.NoError(t, svc.HandleWebhook(context.Background(), textPayload("22460", tc.text)))
			require.Len(t, wa.sent, 1)
			assert.Equal(t, tc.want, wa.sent[0].Body)
		})
	}
}

func TestHandleWebhook_SendFailure(t *testing.T) {
	boom := errors.New("meta down")
	svc := newTestService(&fakeClient{err: boom}, &fakeDispatcher{reply: "ok"}, nil)

	err := svc.HandleWebhook(context.Background(), textPayload("22460", "kpi"))
	assert.ErrorIs(t, err, boom)
}

func TestHandleWebhook_AITranslation(t *testing.T) {
	t.Run("translated", func(t *testing.T) {
		ai := &fakeAI{out: "eggs L1 410"}
		d := &fakeDispatcher{reply: "ok"}
		svc := newTestService(&fakeClient{}, d, ai)

		require.NoError(t, svc.HandleWebhook(context.Background(), textPayload("22460", "410 oeufs ramassés dans L1")))
		require.Len(t, d.got, 1)
		assert.Equal(t, models.CommandEggs, d.got[0].Type)
		assert.Equal(t, []string{"L1", "410"}, d.got[0].Args)
		assert.Equal(t, "410 oeufs ramassés dans L1", d.got[0].Raw)
	})

	t.Run("known commands skip the model", func(t *testing.T) {
		ai := &fakeAI{out: "kpi"}
		svc := newTestService(&fakeClient{}, &fakeDispatcher{reply: "ok"}, ai)

		require.NoError(t, svc.HandleWebhook(context.Background(), textPayload("22460", "feed L1 20")))
		assert.Zero(t, ai.calls)
	})

	t.Run("model failure keeps original", func(t *testing.T) {
		ai := &fakeAI{err: errors.New("timeout")}
		d := &fakeDispatcher{err: commands.ErrUnsupportedCommand}
		svc := newTestService(&fakeClient{}, d, ai)

		require.NoError(t, svc.HandleWebhook(context.Background(), textPayload("22460", "bonjour")))
		require.Len(t, d.got, 1)
		assert.Equal(t, models.CommandUnknown, d.got[0].Type)
	})

	t.Run("model finds nothing", func(t *testing.T) {
		ai := &fakeAI{out: anthropic.UnknownCommand}
		d := &fakeDispatcher{err: commands.ErrUnsupportedCommand}
		svc := newTestService(&fakeClient{}, d, ai)

		require.NoError(t, svc.HandleWebhook(context.Background(), textPayload("22460", "merci")))
		assert.Equal(t, models.CommandUnknown, d.got[0].Type)
	})
}

func TestSendOutbound_SplitsLongMessages(t *testing.T) {
	wa := &fakeClient{}
	svc := newTestService(wa, &fakeDispatcher{}, nil)

	body := strings.Repeat(strings.Repeat("x", 99)+"\n", 60)
	require.NoError(t, svc.SendOutbound(context.Background(), models.OutboundMessageRequest{To: "group", Message: body}))

	require.Len(t, wa.sent, 2)
	for _, req := range wa.sent {
		assert.Equal(t, "group", req.To)
		assert.LessOrEqual(t, len(req.Body), client.MaxTextLength)
	}
}
