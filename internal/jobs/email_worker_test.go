package jobs

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/Skotchmaster/shop_api/internal/handler"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sentMail struct {
	Kind   string
	To     string
	UserID uint
	Token  string
}

type fakeSender struct {
	sent []sentMail
}

func (f *fakeSender) SendWelcome(_ context.Context, to string, userID uint, token string) error {
	f.sent = append(f.sent, sentMail{Kind: "welcome", To: to, UserID: userID, Token: token})
	return nil
}

func (f *fakeSender) SendUpdateConfirmation(_ context.Context, to string, userID uint, token string) error {
	f.sent = append(f.sent, sentMail{Kind: "update", To: to, UserID: userID, Token: token})
	return nil
}

func (f *fakeSender) SendDeleteConfirmation(_ context.Context, to string, userID uint, token string) error {
	f.sent = append(f.sent, sentMail{Kind: "delete", To: to, UserID: userID, Token: token})
	return nil
}

func TestHandleDispatchesByTaskType(t *testing.T) {
	t.Parallel()

	sender := &fakeSender{}
	w := &EmailWorker{Sender: sender}

	for _, taskType := range []string{
		handler.TaskWelcomeEmail,
		handler.TaskUpdateConfirmation,
		handler.TaskDeleteConfirmation,
	} {
		payload, err := json.Marshal(handler.EmailTask{
			Type:   taskType,
			To:     "a@x.com",
			UserID: 7,
			Token:  "tok",
		})
		require.NoError(t, err)
		require.NoError(t, w.handle(context.Background(), payload))
	}

	require.Len(t, sender.sent, 3)
	assert.Equal(t, "welcome", sender.sent[0].Kind)
	assert.Equal(t, "update", sender.sent[1].Kind)
	assert.Equal(t, "delete", sender.sent[2].Kind)
	assert.Equal(t, "a@x.com", sender.sent[0].To)
	assert.EqualValues(t, 7, sender.sent[0].UserID)
	assert.Equal(t, "tok", sender.sent[0].Token)
}

func TestHandleRejectsUnknownTypeAndBadPayload(t *testing.T) {
	t.Parallel()

	w := &EmailWorker{Sender: &fakeSender{}}

	payload, err := json.Marshal(handler.EmailTask{Type: "carrier_pigeon"})
	require.NoError(t, err)
	require.Error(t, w.handle(context.Background(), payload))

	require.Error(t, w.handle(context.Background(), []byte("{not json")))
}
