package publish

// Telegram delivery of rendered charts
// Every send passes the rate limiter, the circuit breaker and the retry loop

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"synthetic-charts/internal/infra/log"
	"synthetic-charts/internal/infra/retry"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/sony/gobreaker"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// Sender is the part of *tgbotapi.BotAPI the publisher needs.
type Sender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
}

type Options struct {
	RequestsPerSecond float64
	MaxRetries        int
	BaseDelay         time.Duration
	MaxDelay          time.Duration
	RunID             string
}

// Photo is one chart to send.
type Photo struct {
	Path    string
	Caption string // HTML
}

type Publisher struct {
	sender  Sender
	chatID  int64
	limiter *rate.Limiter
	breaker *gobreaker.CircuitBreaker
	retry   retry.Options
	runID   string
}

func NewPublisher(sender Sender, chatID int64, opts Options) *Publisher {
	if opts.RequestsPerSecond <= 0 {
		opts.RequestsPerSecond = 1
	}
	if opts.BaseDelay <= 0 {
		opts.BaseDelay = 500 * time.Millisecond
	}
	if opts.MaxDelay <= 0 {
		opts.MaxDelay = 30 * time.Second
	}

	p := &Publisher{
		sender:  sender,
		chatID:  chatID,
		limiter: rate.NewLimiter(rate.Limit(opts.RequestsPerSecond), 1),
		breaker: gobreaker.NewCircuitBreaker(gobreaker.Settings{
			Name:        "TelegramSend",
			MaxRequests: 1,
			Interval:    60 * time.Second,
			Timeout:     30 * time.Second,
			ReadyToTrip: func(counts gobreaker.Counts) bool {
				return counts.ConsecutiveFailures >= 3
			},
			// a rejected request says nothing about the API's health
			IsSuccessful: func(err error) bool {
				return err == nil || !retry.IsRetryable(err)
			},
		}),
		runID: opts.RunID,
	}

	p.retry = retry.Options{
		MaxRetries: opts.MaxRetries,
		BaseDelay:  opts.BaseDelay,
		MaxDelay:   opts.MaxDelay,
		OnRetry: func(attempt int, err error, sleep time.Duration) {
			log.LogWarn("Retrying Telegram send",
				zap.Int("attempt", attempt),
				zap.Duration("sleep", sleep),
				zap.Error(err),
				log.RunID(p.runID))
		},
	}
	return p
}

// PublishPhoto sends one chart with its caption.
func (p *Publisher) PublishPhoto(ctx context.Context, photo Photo) error {
	if _, err := os.Stat(photo.Path); err != nil {
		return fmt.Errorf("chart file is not readable: %w", err)
	}

	msg := tgbotapi.NewPhoto(p.chatID, tgbotapi.FilePath(photo.Path))
	msg.Caption = photo.Caption
	msg.ParseMode = tgbotapi.ModeHTML

	start := time.Now()
	if err := p.send(ctx, msg); err != nil {
		return fmt.Errorf("failed to send %s: %w", photo.Path, err)
	}

	log.LogInfo("Chart sent",
		zap.String("path", photo.Path),
		zap.Int64("chat_id", p.chatID),
		zap.Int64("duration_ms", time.Since(start).Milliseconds()),
		log.RunID(p.runID))
	return nil
}

// PublishAll sends photos in order and stops at the first failure.
func (p *Publisher) PublishAll(ctx context.Context, photos []Photo) (int, error) {
	sent := 0
	for _, photo := range photos {
		if err := p.PublishPhoto(ctx, photo); err != nil {
			return sent, err
		}
		sent++
	}
	return sent, nil
}

func (p *Publisher) send(ctx context.Context, c tgbotapi.Chattable) error {
	return retry.Do(ctx, p.retry, func() error {
		if err := p.limiter.Wait(ctx); err != nil {
			return fmt.Errorf("rate limiter wait failed: %w", err)
		}
		_, err := p.breaker.Execute(func() (interface{}, error) {
			_, err := p.sender.Send(c)
			return nil, classify(err)
		})
		return err
	})
}

// classify maps Telegram API errors onto retry.HTTPError. Upload responses
// carry no error code, so a retry_after hint alone marks a 429.
func classify(err error) error {
	if err == nil {
		return nil
	}
	var apiErr *tgbotapi.Error
	if !errors.As(err, &apiErr) {
		return err
	}
	code := apiErr.Code
	if code == 0 && apiErr.RetryAfter > 0 {
		code = 429
	}
	if code == 0 {
		code = 400
	}
	return &retry.HTTPError{
		StatusCode: code,
		Body:       []byte(apiErr.Message),
		RetryAfter: time.Duration(apiErr.RetryAfter) * time.Second,
	}
}
