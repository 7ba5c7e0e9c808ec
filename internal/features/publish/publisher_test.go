package publish

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"synthetic-charts/internal/infra/retry"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSender struct {
	errs  []error // returned in order, then success
	calls int
	sent  []tgbotapi.Chattable
}

func (f *fakeSender) Send(c tgbotapi.Chattable) (tgbotapi.Message, error) {
	f.calls++
	f.sent = append(f.sent, c)
	if len(f.errs) > 0 {
		err := f.errs[0]
		f.errs = f.errs[1:]
		return tgbotapi.Message{}, err
	}
	return tgbotapi.Message{MessageID: f.calls}, nil
}

func writePNG(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "chart.png")
	require.NoError(t, os.WriteFile(path, []byte("\x89PNG"), 0644))
	return path
}

func fastOptions(maxRetries int) Options {
	return Options{
		RequestsPerSecond: 1000,
		MaxRetries:        maxRetries,
		BaseDelay:         time.Millisecond,
		MaxDelay:          5 * time.Millisecond,
	}
}

func TestPublishPhoto_RetriesTooManyRequests(t *testing.T) {
	sender := &fakeSender{errs: []error{
		&tgbotapi.Error{Message: "Too Many Requests: retry after 1", ResponseParameters: tgbotapi.ResponseParameters{RetryAfter: 1}},
		&tgbotapi.Error{Code: 502, Message: "Bad Gateway"},
	}}
	p := NewPublisher(sender, -100123, fastOptions(3))

	err := p.PublishPhoto(context.Background(), Photo{Path: writePNG(t), Caption: "<b>revenue</b>"})
	require.NoError(t, err)
	assert.Equal(t, 3, sender.calls)

	photo, ok := sender.sent[2].(tgbotapi.PhotoConfig)
	require.True(t, ok)
	assert.Equal(t, int64(-100123), photo.ChatID)
	assert.Equal(t, "<b>revenue</b>", photo.Caption)
	assert.Equal(t, tgbotapi.ModeHTML, photo.ParseMode)
}

func TestPublishPhoto_GivesUpOnBadRequest(t *testing.T) {
	sender := &fakeSender{errs: []error{
		&tgbotapi.Error{Code: 400, Message: "Bad Request: chat not found"},
	}}
	p := NewPublisher(sender, 1, fastOptions(3))

	err := p.PublishPhoto(context.Background(), Photo{Path: writePNG(t)})
	var he *retry.HTTPError
	require.ErrorAs(t, err, &he)
	assert.Equal(t, 400, he.StatusCode)
	assert.Equal(t, 1, sender.calls)
}

func TestPublishPhoto_MissingFile(t *testing.T) {
	sender := &fakeSender{}
	p := NewPublisher(sender, 1, fastOptions(0))

	err := p.PublishPhoto(context.Background(), Photo{Path: filepath.Join(t.TempDir(), "none.png")})
	require.Error(t, err)
	assert.Zero(t, sender.calls)
}

func TestPublishAll_StopsAtFirstFailure(t *testing.T) {
	path := writePNG(t)
	sender := &fakeSender{errs: []error{nil, &tgbotapi.Error{Code: 403, Message: "Forbidden"}}}
	p := NewPublisher(sender, 1, fastOptions(2))

	sent, err := p.PublishAll(context.Background(), []Photo{{Path: path}, {Path: path}, {Path: path}})
	require.Error(t, err)
	assert.Equal(t, 1, sent)
	assert.Equal(t, 2, sender.calls)
}

func TestPublish_BreakerOpensAfterServerErrors(t *testing.T) {
	serverErr := &tgbotapi.Error{Code: 500, Message: "Internal Server Error"}
	sender := &fakeSender{errs: []error{serverErr, serverErr, serverErr, serverErr}}
	p := NewPublisher(sender, 1, fastOptions(5))

	err := p.PublishPhoto(context.Background(), Photo{Path: writePNG(t)})
	require.Error(t, err)
	// three failures trip the breaker; later attempts are rejected without a send
	assert.Equal(t, 3, sender.calls)
}

func TestPublish_CancelledContext(t *testing.T) {
	sender := &fakeSender{}
	p := NewPublisher(sender, 1, fastOptions(0))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := p.PublishPhoto(ctx, Photo{Path: writePNG(t)})
	require.ErrorIs(t, err, context.Canceled)
	assert.Zero(t, sender.calls)
}

func TestClassify(t *testing.T) {
	assert.NoError(t, classify(nil))

	plain := errors.New("connection reset")
	assert.Equal(t, plain, classify(plain))

	var he *retry.HTTPError
	require.ErrorAs(t, classify(&tgbotapi.Error{ResponseParameters: tgbotapi.ResponseParameters{RetryAfter: 7}}), &he)
	assert.Equal(t, 429, he.StatusCode)
	assert.Equal(t, 7*time.Second, he.RetryAfter)

	require.ErrorAs(t, classify(&tgbotapi.Error{Message: "upload failed"}), &he)
	assert.Equal(t, 400, he.StatusCode)
}
