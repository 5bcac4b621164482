package whatsapp

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/mamadbah2/flockwatch/internal/config"
	"github.com/mamadbah2/flockwatch/internal/domain/models"
	"github.com/mamadbah2/flockwatch/internal/service/commands"
	"github.com/mamadbah2/flockwatch/internal/service/reporting"
	"github.com/mamadbah2/flockwatch/pkg/clients/anthropic"
	client "github.com/mamadbah2/flockwatch/pkg/clients/whatsapp"
)

const (
	sendTimeout      = 10 * time.Second
	translateTimeout = 8 * time.Second

	replyFailure = "Sorry, something went wrong. Please try again later."
)

// MessagingService describes the operations the HTTP layer can perform.
type MessagingService interface {
	VerifyWebhookToken(mode, verifyToken, challenge string) (string, error)
	HandleWebhook(ctx context.Context, payload models.WebhookPayload) error
	SendOutbound(ctx context.Context, req models.OutboundMessageRequest) error
}

// MetaWhatsAppService is the production implementation backed by WhatsApp Cloud API.
type MetaWhatsAppService struct {
	cfg        config.WhatsAppConfig
	client     client.Client
	dispatcher commands.Dispatcher
	ai         anthropic.Client
	logger     *zap.Logger
}

// NewMetaWhatsAppService wires a new service instance. ai may be nil, in which case
// free text that is not a command gets the help text.
func NewMetaWhatsAppService(cfg config.WhatsAppConfig, client client.Client, dispatcher commands.Dispatcher, ai anthropic.Client, logger *zap.Logger) *MetaWhatsAppService {
	svc := &MetaWhatsAppService{
		cfg:        cfg,
		client:     client,
		dispatcher: dispatcher,
		ai:         ai,
		logger:     logger,
	}
	if svc.logger == nil {
		svc.logger = zap.NewNop()
	}
	return svc
}

// VerifyWebhookToken validates the callback verification token.
func (s *MetaWhatsAppService) VerifyWebhookToken(mode, verifyToken, challenge string) (string, error) {
	if mode == "" || verifyToken == "" {
		return "", errors.New("missing mode or verify token")
	}

	if !strings.EqualFold(mode, "subscribe") {
		return "", fmt.Errorf("unsupported hub.mode %s", mode)
	}

	if verifyToken != s.cfg.VerifyToken {
		return "", errors.New("invalid verify token")
	}

	return challenge, nil
}

// HandleWebhook processes inbound webhook payloads. Only reply delivery failures are returned.
func (s *MetaWhatsAppService) HandleWebhook(ctx context.Context, payload models.WebhookPayload) error {
	var firstErr error

	for _, entry := range payload.Entry {
		for _, change := range entry.Changes {
			for _, status := range change.Value.Statuses {
				s.logStatus(status)
			}

			for _, msg := range change.Value.Messages {
				if err := s.handleInboundMessage(ctx, msg); err != nil {
					s.logger.Error("failed to handle inbound message", zap.Error(err), zap.String("message_id", msg.ID))
					if firstErr == nil {
						firstErr = err
					}
				}
			}
		}
	}

	return firstErr
}

func (s *MetaWhatsAppService) handleInboundMessage(ctx context.Context, msg models.InboundMessage) error {
	text := extractMessageText(msg)
	if text == "" {
		s.logger.Debug("ignoring message without text", zap.String("type", msg.Type), zap.String("message_id", msg.ID))
		return nil
	}

	cmd := s.resolveCommand(ctx, text)

	s.logger.Info("parsed inbound command",
		zap.String("from", msg.From),
		zap.String("command", string(cmd.Type)),
		zap.Strings("args", cmd.Args))

	reply, err := s.dispatcher.HandleCommand(ctx, cmd, msg.From)
	if err != nil {
		reply = s.errorReply(cmd, err)
	}

	return s.send(ctx, msg.From, reply, false)
}

// resolveCommand parses text, asking the AI client to translate free text when configured.
func (s *MetaWhatsAppService) resolveCommand(ctx context.Context, text string) models.Command {
	cmd := models.ParseCommand(text)
	if cmd.Type != models.CommandUnknown || s.ai == nil {
		return cmd
	}

	aiCtx, cancel := context.WithTimeout(ctx, translateTimeout)
	defer cancel()

	translated, err := s.ai.TranslateToCommand(aiCtx, text)
	if err != nil {
		s.logger.Warn("ai translation failed", zap.Error(err))
		return cmd
	}
	if translated == anthropic.UnknownCommand {
		return cmd
	}

	s.logger.Debug("ai translated message", zap.String("input", text), zap.String("command", translated))
	resolved := models.ParseCommand(translated)
	resolved.Raw = text
	return resolved
}

func (s *MetaWhatsAppService) errorReply(cmd models.Command, err error) string {
	switch {
	case errors.Is(err, commands.ErrInvalidArguments):
		return fmt.Sprintf("Could not read the %s command.\n%s", cmd.Type, commands.HelpText)
	case errors.Is(err, commands.ErrUnsupportedCommand):
		return "Unknown command.\n" + commands.HelpText
	case errors.Is(err, reporting.ErrUnknownFlock):
		return fmt.Sprintf("Unknown flock %q.", firstArg(cmd))
	default:
		s.logger.Error("command failed", zap.String("command", string(cmd.Type)), zap.Error(err))
		return replyFailure
	}
}

// SendOutbound lets internal operators push notifications. Long bodies go out in several messages.
func (s *MetaWhatsAppService) SendOutbound(ctx context.Context, req models.OutboundMessageRequest) error {
	return s.send(ctx, req.To, req.Message, req.PreviewURL)
}

func (s *MetaWhatsAppService) send(ctx context.Context, to, body string, preview bool) error {
	for _, chunk := range client.SplitMessage(body, client.MaxTextLength) {
		ctxWithTimeout, cancel := context.WithTimeout(ctx, sendTimeout)
		_, err := s.client.SendTextMessage(ctxWithTimeout, client.SendTextMessageRequest{
			To:         to,
			Body:       chunk,
			PreviewURL: preview,
		})
		cancel()
		if err != nil {
			return fmt.Errorf("send message to %s: %w", to, err)
		}
	}
	return nil
}

func (s *MetaWhatsAppService) logStatus(status models.MessageStatus) {
	if status.Status != models.StatusFailed {
		s.logger.Debug("message status", zap.String("message_id", status.ID), zap.String("status", status.Status))
		return
	}

	fields := []zap.Field{zap.String("message_id", status.ID), zap.String("recipient", status.RecipientID)}
	if len(status.Errors) > 0 {
		fields = append(fields, zap.Int("code", status.Errors[0].Code), zap.String("title", status.Errors[0].Title))
	}
	s.logger.Warn("message delivery failed", fields...)
}

func firstArg(cmd models.Command) string {
	if len(cmd.Args) == 0 {
		return ""
	}
	return cmd.Args[0]
}

func extractMessageText(msg models.InboundMessage) string {
	if msg.Text != nil {
		return strings.TrimSpace(msg.Text.Body)
	}

	if msg.Interactive != nil {
		if msg.Interactive.ButtonReply != nil {
			return msg.Interactive.ButtonReply.ID
		}
		if msg.Interactive.ListReply != nil {
			return msg.Interactive.ListReply.ID
		}
	}

	return ""
}
