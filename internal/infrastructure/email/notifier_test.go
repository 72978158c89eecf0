package email

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wneessen/go-mail"
)

type fakeSender struct {
	messages []*mail.Msg
	err      error
}

func (f *fakeSender) DialAndSendWithContext(_ context.Context, messages ...*mail.Msg) error {
	if f.err != nil {
		return f.err
	}
	f.messages = append(f.messages, messages...)
	return nil
}

func TestRender(t *testing.T) {
	t.Run("code message", func(t *testing.T) {
		body, err := render(messageData{Title: "Verify", Name: "Alice", Intro: "intro", Code: "123456", ExpiresIn: "20 minutes"})
		require.NoError(t, err)
		assert.Contains(t, body, "123456")
		assert.Contains(t, body, "Hello Alice")
		assert.Contains(t, body, "20 minutes")
		assert.NotContains(t, body, "<a href")
	})

	t.Run("link message escapes input", func(t *testing.T) {
		body, err := render(messageData{Name: "<script>", Intro: "intro", Link: "http://frontend.test/verify-email/abc"})
		require.NoError(t, err)
		assert.Contains(t, body, `href="http://frontend.test/verify-email/abc"`)
		assert.NotContains(t, body, "<script>")
	})

	t.Run("defaults the greeting", func(t *testing.T) {
		body, err := render(messageData{Code: "1"})
		require.NoError(t, err)
		assert.Contains(t, body, "Hello there")
	})
}

func TestNotifierSend(t *testing.T) {
	fake := &fakeSender{}
	n := &Notifier{client: fake, from: "noreply@estate.test"}

	require.NoError(t, n.SendVerificationOTP(context.Background(), "a@x.com", "Alice", "123456", 20*time.Minute))
	require.Len(t, fake.messages, 1)

	recipients, err := fake.messages[0].GetRecipients()
	require.NoError(t, err)
	assert.Equal(t, []string{"a@x.com"}, recipients)
	assert.Equal(t, []string{"Your verification code"}, fake.messages[0].GetGenHeader(mail.HeaderSubject))

	require.NoError(t, n.SendPasswordResetCode(context.Background(), "a@x.com", "Alice", "654321", 10*time.Minute))
	require.NoError(t, n.SendVerificationLink(context.Background(), "a@x.com", "Alice", "http://frontend.test/verify-email/t"))
	assert.Len(t, fake.messages, 3)
}

func TestNotifierErrors(t *testing.T) {
	n := &Notifier{client: &fakeSender{err: errors.New("connection refused")}, from: "noreply@estate.test"}
	err := n.SendVerificationOTP(context.Background(), "a@x.com", "Alice", "123456", time.Minute)
	assert.ErrorContains(t, err, "connection refused")

	n = &Notifier{client: &fakeSender{}, from: "noreply@estate.test"}
	err = n.SendVerificationOTP(context.Background(), "not an address", "Alice", "123456", time.Minute)
	assert.Error(t, err)
}

func TestFormatTTL(t *testing.T) {
	assert.Equal(t, "20 minutes", formatTTL(20*time.Minute))
	assert.Equal(t, "1 minute", formatTTL(time.Minute))
	assert.Equal(t, "", formatTTL(0))
}
