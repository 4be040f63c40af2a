package notifier

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"golang.org/x/time/rate"

	"github.com/Vodeneev/hoopsedge/internal/pkg/config"
	"github.com/Vodeneev/hoopsedge/internal/pkg/metrics"
)

// Telegram rejects messages longer than this.
const telegramMessageLimit = 4096

// Sender delivers one chat message.
type Sender interface {
	Send(ctx context.Context, text string) error
}

// TelegramSender queues messages and sends them from a background goroutine,
// paced so the chat stays under Telegram's per-chat limits.
type TelegramSender struct {
	bot     *tgbotapi.BotAPI
	chatID  int64
	limiter *rate.Limiter
	metrics *metrics.Recorder
	logger  *slog.Logger

	queue    chan string
	stopping chan struct{}
	done     chan struct{}
	stopOnce sync.Once
}

// NewTelegramSender connects to the Bot API and starts the send loop
func NewTelegramSender(cfg *config.NotifierConfig, recorder *metrics.Recorder, logger *slog.Logger) (*TelegramSender, error) {
	return newTelegramSender(cfg, tgbotapi.APIEndpoint, recorder, logger)
}

func newTelegramSender(cfg *config.NotifierConfig, endpoint string, recorder *metrics.Recorder, logger *slog.Logger) (*TelegramSender, error) {
	if cfg.TelegramBotToken == "" || cfg.TelegramChatID == 0 {
		return nil, fmt.Errorf("telegram token and chat id are required")
	}
	if logger == nil {
		logger = slog.Default()
	}

	bot, err := tgbotapi.NewBotAPIWithAPIEndpoint(cfg.TelegramBotToken, endpoint)
	if err != nil {
		return nil, fmt.Errorf("failed to create telegram bot: %w", err)
	}
	bot.Debug = false

	interval := cfg.SendInterval
	if interval <= 0 {
		interval = 2 * time.Second
	}
	queueSize := cfg.QueueSize
	if queueSize <= 0 {
		queueSize = 100
	}

	s := &TelegramSender{
		bot:      bot,
		chatID:   cfg.TelegramChatID,
		limiter:  rate.NewLimiter(rate.Every(interval), 1),
		metrics:  recorder,
		logger:   logger,
		queue:    make(chan string, queueSize),
		stopping: make(chan struct{}),
		done:     make(chan struct{}),
	}
	go s.messageSender()

	logger.Info("Telegram notifier initialized", "chat_id", cfg.TelegramChatID, "bot", bot.Self.UserName)
	return s, nil
}

// Send queues text without blocking; long texts are split into several messages.
func (s *TelegramSender) Send(ctx context.Context, text string) error {
	for _, chunk := range SplitMessage(text, telegramMessageLimit) {
		select {
		case <-s.stopping:
			return fmt.Errorf("notifier stopped")
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		select {
		case s.queue <- chunk:
		default:
			s.logger.Warn("Telegram message queue is full, dropping message", "preview", truncateString(chunk, 50))
			s.metrics.Notification(fmt.Errorf("queue full"))
			return fmt.Errorf("message queue is full")
		}
	}
	return nil
}

// QueueLen returns current number of messages in the send queue.
func (s *TelegramSender) QueueLen() int {
	return len(s.queue)
}

// Stop refuses new messages, sends what is queued and waits for the loop to exit.
func (s *TelegramSender) Stop() {
	s.stopOnce.Do(func() { close(s.stopping) })
	<-s.done
}

// messageSender runs in background and sends queued messages at the configured pace
func (s *TelegramSender) messageSender() {
	defer close(s.done)

	for {
		select {
		case text := <-s.queue:
			s.sendOne(text)
		case <-s.stopping:
			// Drain remaining messages before exit
			for {
				select {
				case text := <-s.queue:
					s.sendOne(text)
				default:
					return
				}
			}
		}
	}
}

func (s *TelegramSender) sendOne(text string) {
	waitStart := time.Now()
	if err := s.limiter.Wait(context.Background()); err != nil {
		s.logger.Error("Telegram send: rate limiter failed", "error", err)
		return
	}

	msg := tgbotapi.NewMessage(s.chatID, text)
	msg.ParseMode = tgbotapi.ModeHTML
	msg.DisableWebPagePreview = true

	sendStart := time.Now()
	_, err := s.bot.Send(msg)
	s.metrics.Notification(err)
	if err != nil {
		s.logger.Error("Telegram send: failed", "error", err, "preview", truncateString(text, 50))
		return
	}
	s.logger.Info("Telegram send: success",
		"wait_duration", sendStart.Sub(waitStart),
		"send_duration", time.Since(sendStart),
		"queue_length", len(s.queue))
}

// LogSender writes messages to the log instead of a chat; used for dry runs.
type LogSender struct {
	logger  *slog.Logger
	metrics *metrics.Recorder

	mu   sync.Mutex
	sent []string
}

func NewLogSender(recorder *metrics.Recorder, logger *slog.Logger) *LogSender {
	if logger == nil {
		logger = slog.Default()
	}
	return &LogSender{logger: logger, metrics: recorder}
}

func (l *LogSender) Send(_ context.Context, text string) error {
	l.mu.Lock()
	l.sent = append(l.sent, text)
	l.mu.Unlock()

	l.metrics.Notification(nil)
	l.logger.Info("dry run message", "text", text)
	return nil
}

// Sent returns every message passed to Send.
func (l *LogSender) Sent() []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]string, len(l.sent))
	copy(out, l.sent)
	return out
}

// truncateString truncates a string to maxLen bytes
func truncateString(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen] + "..."
}
