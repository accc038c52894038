package notifying

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/contre95/photoimport/src/features/config"
	"github.com/stretchr/testify/assert"
)

type recordingSender struct {
	recipient string
	messages  []string
	err       error
	panics    bool
	ctxErr    error
}

func (s *recordingSender) Name() string { return "recording" }

func (s *recordingSender) Send(ctx context.Context, recipient, message string) error {
	if s.panics {
		panic("osascript exploded")
	}
	s.recipient = recipient
	s.messages = append(s.messages, message)
	s.ctxErr = ctx.Err()
	return s.err
}

func TestNotify_DeliversToRecipient(t *testing.T) {
	sender := &recordingSender{}
	svc := NewService(sender, config.Notify{Recipient: "me@icloud.com", Timeout: time.Second})

	svc.Notify(context.Background(), "Importing resumes now.")
	assert.Equal(t, "me@icloud.com", sender.recipient)
	assert.Equal(t, []string{"Importing resumes now."}, sender.messages)
}

func TestNotify_SwallowsFailures(t *testing.T) {
	sender := &recordingSender{err: errors.New("no network")}
	svc := NewService(sender, config.Notify{Recipient: "me"})

	assert.NotPanics(t, func() { svc.Notify(context.Background(), "hello") })
	assert.Len(t, sender.messages, 1)

	panicking := NewService(&recordingSender{panics: true}, config.Notify{Recipient: "me"})
	assert.NotPanics(t, func() { panicking.Notify(context.Background(), "hello") })
}

func TestNotify_SentAfterCancellation(t *testing.T) {
	sender := &recordingSender{}
	svc := NewService(sender, config.Notify{Recipient: "me", Timeout: time.Second})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	svc.Notify(ctx, "Import stopped.")
	assert.Len(t, sender.messages, 1)
	assert.NoError(t, sender.ctxErr)
}

func TestNotify_NilService(t *testing.T) {
	var svc *Service
	assert.NotPanics(t, func() { svc.Notify(context.Background(), "hello") })
}
