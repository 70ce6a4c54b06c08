// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package bot is the chat front end: it receives Telegram messages,
// runs each question through the query pipeline in its own goroutine,
// and replies with the answer or a fixed user-safe failure string.
// A failure handling one message never crashes the service or blocks
// the next message.
package bot

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"
	"unicode/utf16"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/pdiddy/graphchat/internal/history"
	"github.com/pdiddy/graphchat/internal/httputil"
	"github.com/pdiddy/graphchat/pkg/types"
)

// User-visible fixed strings. Internal error detail goes to logs only;
// the user always gets an acknowledgment followed by either an answer
// or FailureMessage, never silence.
const (
	WelcomeMessage = "Welcome! Ask me any question about the documentation."
	AckMessage     = "Processing your question, please wait..."
	FailureMessage = "There was an error processing your question. Please try again later."
)

const defaultPollTimeout = 60 * time.Second

// Answerer answers one question. *query.Router satisfies it.
type Answerer interface {
	Query(ctx context.Context, q types.Question) (types.Answer, error)
}

// Recorder persists handled interactions. *history.Store satisfies it;
// a nil Recorder disables recording.
type Recorder interface {
	Record(ctx context.Context, in history.Interaction) error
}

// client is the slice of the Telegram API the service consumes.
type client interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
	GetUpdatesChan(cfg tgbotapi.UpdateConfig) tgbotapi.UpdatesChannel
	StopReceivingUpdates()
}

// Service polls for inbound messages and mediates the query pipeline.
type Service struct {
	api      client
	username string
	answerer Answerer
	recorder Recorder
	cfg      types.BotConfig
	logger   *slog.Logger
}

// New authenticates against the Telegram API with cfg.Token and returns
// a Service. The API client uses the retrying HTTP transport so rate
// limiting is absorbed below the message handlers.
func New(cfg types.BotConfig, answerer Answerer, recorder Recorder, logger *slog.Logger) (*Service, error) {
	if cfg.Token == "" {
		return nil, fmt.Errorf("bot token is not set")
	}

	api, err := tgbotapi.NewBotAPIWithClient(cfg.Token, tgbotapi.APIEndpoint, httputil.NewRetryClient(0))
	if err != nil {
		return nil, fmt.Errorf("authenticating bot: %w", err)
	}

	logger.Info("bot authenticated", "username", api.Self.UserName)
	return &Service{
		api:      api,
		username: api.Self.UserName,
		answerer: answerer,
		recorder: recorder,
		cfg:      cfg,
		logger:   logger,
	}, nil
}

// newWithClient wires a Service around a fake client for tests.
func newWithClient(api client, username string, cfg types.BotConfig, answerer Answerer, recorder Recorder, logger *slog.Logger) *Service {
	return &Service{
		api:      api,
		username: username,
		answerer: answerer,
		recorder: recorder,
		cfg:      cfg,
		logger:   logger,
	}
}

// Run polls for updates until ctx is cancelled or the update channel
// closes. Each inbound question is handled in its own goroutine.
func (s *Service) Run(ctx context.Context) error {
	timeout := s.cfg.PollTimeout
	if timeout <= 0 {
		timeout = defaultPollTimeout
	}

	u := tgbotapi.NewUpdate(0)
	u.Timeout = int(timeout.Seconds())
	updates := s.api.GetUpdatesChan(u)

	for {
		select {
		case <-ctx.Done():
			s.api.StopReceivingUpdates()
			return ctx.Err()
		case update, ok := <-updates:
			if !ok {
				return nil
			}
			s.dispatch(ctx, update)
		}
	}
}

// dispatch filters one update and, for questions, acknowledges receipt
// immediately before handing the slow pipeline work to a goroutine.
func (s *Service) dispatch(ctx context.Context, update tgbotapi.Update) {
	msg := update.Message
	if msg == nil || msg.Text == "" {
		return
	}

	if msg.IsCommand() {
		if msg.Command() == "start" {
			s.reply(msg.Chat.ID, WelcomeMessage, false)
		}
		return
	}

	text := msg.Text
	if s.cfg.MentionOnly {
		stripped, mentioned := s.mentionOf(msg)
		if !mentioned {
			return
		}
		text = stripped
	}
	if text == "" {
		return
	}

	s.reply(msg.Chat.ID, AckMessage, false)
	go s.handle(ctx, msg.Chat.ID, text)
}

// handle runs the query pipeline for one question. Panics and pipeline
// errors are contained here; the user sees either the answer or the
// fixed failure string.
func (s *Service) handle(ctx context.Context, chatID int64, text string) {
	defer func() {
		if r := recover(); r != nil {
			s.logger.Error("panic handling message", "chat_id", chatID, "panic", r)
			s.reply(chatID, FailureMessage, false)
		}
	}()

	q := types.Question{Text: text, Mode: types.SearchLocal}
	answer, err := s.answerer.Query(ctx, q)
	if err != nil {
		s.logger.Error("query failed", "chat_id", chatID, "error", err)
		s.reply(chatID, FailureMessage, false)
		s.record(ctx, chatID, q, "", history.StatusFailed)
		return
	}

	s.logger.Info("question answered", "chat_id", chatID, "context", answer.Context)
	s.reply(chatID, answer.Text, true)
	s.record(ctx, chatID, q, answer.Text, history.StatusAnswered)
}

// reply sends one outbound message. Markdown replies are rendered in
// the transport's MarkdownV2 dialect; if the transport rejects the
// formatting, the text is resent plain so the user is never left
// without a reply.
func (s *Service) reply(chatID int64, text string, markdown bool) {
	msg := tgbotapi.NewMessage(chatID, text)
	if markdown {
		msg.Text = FormatMarkdownV2(text)
		msg.ParseMode = tgbotapi.ModeMarkdownV2
	}

	if _, err := s.api.Send(msg); err != nil {
		if !markdown {
			s.logger.Error("sending reply", "chat_id", chatID, "error", err)
			return
		}
		s.logger.Warn("formatted reply rejected, resending plain", "chat_id", chatID, "error", err)
		plain := tgbotapi.NewMessage(chatID, text)
		if _, err := s.api.Send(plain); err != nil {
			s.logger.Error("sending plain reply", "chat_id", chatID, "error", err)
		}
	}
}

func (s *Service) record(ctx context.Context, chatID int64, q types.Question, answer string, status history.Status) {
	if s.recorder == nil {
		return
	}
	err := s.recorder.Record(ctx, history.Interaction{
		ChatID:   chatID,
		Question: q.Text,
		Mode:     string(q.Mode),
		Answer:   answer,
		Status:   status,
	})
	if err != nil {
		s.logger.Warn("recording interaction", "error", err)
	}
}

// mentionOf reports whether msg mentions the bot by username and
// returns the text with that mention removed. Detection goes through
// the message's mention entities rather than a substring search, so a
// mention of another bot whose name merely extends ours does not
// match. Entity offsets count UTF-16 code units.
func (s *Service) mentionOf(msg *tgbotapi.Message) (string, bool) {
	if s.username == "" {
		return "", false
	}
	target := "@" + s.username
	u16 := utf16.Encode([]rune(msg.Text))
	for _, e := range msg.Entities {
		if e.Type != "mention" {
			continue
		}
		if e.Offset < 0 || e.Length < 0 || e.Offset+e.Length > len(u16) {
			continue
		}
		if string(utf16.Decode(u16[e.Offset:e.Offset+e.Length])) != target {
			continue
		}
		rest := string(utf16.Decode(u16[:e.Offset])) + string(utf16.Decode(u16[e.Offset+e.Length:]))
		return strings.TrimSpace(rest), true
	}
	return "", false
}
