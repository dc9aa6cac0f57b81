package mail

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeTransport struct {
	name      string
	verifyErr error
	verified  int
}

func (f *fakeTransport) Send(context.Context, string, string, string) (string, error) {
	return "<id@test>", nil
}

func (f *fakeTransport) Verify(context.Context) error {
	f.verified++
	return f.verifyErr
}

func (f *fakeTransport) Name() string { return f.name }

func TestSelectTransport(t *testing.T) {
	t.Run("first working candidate wins", func(t *testing.T) {
		primary := &fakeTransport{name: "587", verifyErr: errors.New("refused")}
		fallback := &fakeTransport{name: "465"}
		unused := &fakeTransport{name: "other"}

		got, err := SelectTransport(context.Background(), primary, fallback, unused)
		require.NoError(t, err)
		assert.Same(t, fallback, got)
		assert.Equal(t, 1, primary.verified)
		assert.Equal(t, 0, unused.verified)
	})

	t.Run("none working", func(t *testing.T) {
		_, err := SelectTransport(context.Background(),
			&fakeTransport{name: "a", verifyErr: errors.New("x")},
			nil,
		)
		assert.ErrorIs(t, err, ErrNoTransport)
	})
}

func TestSMTPTransportName(t *testing.T) {
	tr := NewSMTPTransport(SMTPOptions{Host: "smtp.example.com", Port: 465, Security: ImplicitTLS})
	assert.Equal(t, "smtp.example.com:465/ssl", tr.Name())
}

func TestNewMessageID(t *testing.T) {
	assert.Regexp(t, `^<[0-9a-f-]{36}@example\.com>$`, newMessageID("bot@example.com"))
	assert.Regexp(t, `^<[0-9a-f-]{36}@localhost>$`, newMessageID(""))
}

func TestMailer(t *testing.T) {
	_, err := NewMailer(nil, "", "").Welcome(context.Background(), "A", "a@example.com")
	assert.ErrorIs(t, err, ErrNoTransport)

	fake := &fakeTransport{name: "fake"}
	m := NewMailer(fake, "Ledger", "https://app.example.com")
	id, err := m.Welcome(context.Background(), "A", "a@example.com")
	require.NoError(t, err)
	assert.Equal(t, "<id@test>", id)

	id, err = m.Test(context.Background(), "a@example.com")
	require.NoError(t, err)
	assert.Equal(t, "<id@test>", id)
}
