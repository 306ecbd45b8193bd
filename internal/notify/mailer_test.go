package notify

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/gomail.v2"

	"github.com/parentchild/account-service/internal/config"
)

type fakeDialer struct {
	failures int
	calls    int
	sent     []*gomail.Message
}

func (f *fakeDialer) DialAndSend(m ...*gomail.Message) error {
	f.calls++
	if f.calls <= f.failures {
		return errors.New("connection refused")
	}
	f.sent = append(f.sent, m...)
	return nil
}

func smtpConfig() config.EmailConfig {
	return config.EmailConfig{Host: "smtp.test", Port: 587, From: "info@parentchildmanagement.com"}
}

func TestSendRetriesUntilSuccess(t *testing.T) {
	dialer := &fakeDialer{failures: 2}
	m := NewMailer(smtpConfig(), 3, nil, WithDialer(dialer))

	err := m.Send(context.Background(), Message{To: "ada@example.com", Subject: "Activate your account", HTML: "<p>hi</p>"})
	require.NoError(t, err)
	assert.Equal(t, 3, dialer.calls)
	require.Len(t, dialer.sent, 1)
	assert.Equal(t, []string{"ada@example.com"}, dialer.sent[0].GetHeader("To"))
	assert.Equal(t, []string{"info@parentchildmanagement.com"}, dialer.sent[0].GetHeader("From"))
}

func TestSendGivesUpAfterAttempts(t *testing.T) {
	dialer := &fakeDialer{failures: 10}
	m := NewMailer(smtpConfig(), 3, nil, WithDialer(dialer))

	err := m.Send(context.Background(), Message{To: "ada@example.com"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "after 3 attempts")
	assert.Equal(t, 3, dialer.calls)
}

func TestSendStopsOnCancelledContext(t *testing.T) {
	dialer := &fakeDialer{failures: 10}
	m := NewMailer(smtpConfig(), 3, nil, WithDialer(dialer))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := m.Send(ctx, Message{To: "ada@example.com"})
	assert.ErrorIs(t, err, context.Canceled)
	assert.Zero(t, dialer.calls)
}

func TestSendSkipsWithoutHost(t *testing.T) {
	m := NewMailer(config.EmailConfig{}, 3, nil)
	assert.NoError(t, m.Send(context.Background(), Message{To: "ada@example.com"}))
}

func TestSendRequiresRecipient(t *testing.T) {
	m := NewMailer(smtpConfig(), 3, nil, WithDialer(&fakeDialer{}))
	assert.ErrorIs(t, m.Send(context.Background(), Message{}), ErrNoRecipient)
}

func TestRenderTemplates(t *testing.T) {
	body, err := Render(TemplateActivate, ActivateData{FirstName: "Ada", Token: "tok.en.value"})
	require.NoError(t, err)
	assert.Contains(t, body, "Hi Ada,")
	assert.Contains(t, body, "tok.en.value")

	body, err = Render(TemplateChildAdded, ChildAddedData{Name: "<Tom>", ParentName: "Ada Lovelace"})
	require.NoError(t, err)
	assert.Contains(t, body, "&lt;Tom&gt;")
	assert.Contains(t, body, "Ada Lovelace")

	_, err = Render("missing.html", nil)
	assert.Error(t, err)
}
