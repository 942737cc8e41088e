package telegram

import (
	"context"
	"sync"
	"testing"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"factory-chatbot-backend/internal/chatbot"
)

type fakeAPI struct {
	mu      sync.Mutex
	updates chan tgbotapi.Update
	sent    []tgbotapi.Chattable
	stopped bool
}

func (f *fakeAPI) GetUpdatesChan(tgbotapi.UpdateConfig) tgbotapi.UpdatesChannel { return f.updates }

func (f *fakeAPI) Send(c tgbotapi.Chattable) (tgbotapi.Message, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sent = append(f.sent, c)
	return tgbotapi.Message{}, nil
}

func (f *fakeAPI) StopReceivingUpdates() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.stopped = true
}

func (f *fakeAPI) messages() []tgbotapi.Chattable {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]tgbotapi.Chattable(nil), f.sent...)
}

type fakeDispatcher struct {
	got  []string
	resp chatbot.Response
}

func (d *fakeDispatcher) Dispatch(ctx context.Context, message string) chatbot.Response {
	d.got = append(d.got, message)
	return d.resp
}

func textMessage(text string) *tgbotapi.Message {
	return &tgbotapi.Message{Text: text, Chat: &tgbotapi.Chat{ID: 42}, From: &tgbotapi.User{UserName: "operator"}}
}

func command(text string, length int) *tgbotapi.Message {
	m := textMessage(text)
	m.Entities = []tgbotapi.MessageEntity{{Type: "bot_command", Offset: 0, Length: length}}
	return m
}

func TestHandle_TextWithAlertsAndChart(t *testing.T) {
	chart := "data:image/png;base64,iVBORw0K"
	d := &fakeDispatcher{resp: chatbot.Response{Text: "📊 Today's Production:", Alerts: []string{"a1", "a2"}, Chart: &chart}}
	api := &fakeAPI{}
	b := newBot(api, 60, d, zap.NewNop())

	b.handle(context.Background(), textMessage("Today production"))

	assert.Equal(t, []string{"Today production"}, d.got)
	sent := api.messages()
	require.Len(t, sent, 3)
	assert.Equal(t, "📊 Today's Production:", sent[0].(tgbotapi.MessageConfig).Text)
	assert.Equal(t, "a1\na2", sent[1].(tgbotapi.MessageConfig).Text)
	photo := sent[2].(tgbotapi.PhotoConfig)
	assert.Equal(t, int64(42), photo.ChatID)
	assert.Equal(t, []byte{0x89, 'P', 'N', 'G', '\r', '\n'}, photo.File.(tgbotapi.FileBytes).Bytes)
}

func TestHandle_Commands(t *testing.T) {
	d := &fakeDispatcher{resp: chatbot.Response{Text: "ok", Alerts: []string{}}}
	api := &fakeAPI{}
	b := newBot(api, 60, d, zap.NewNop())

	b.handle(context.Background(), command("/start", 6))
	b.handle(context.Background(), command("/downtime line 2", 9))

	assert.Equal(t, []string{"downtime line 2"}, d.got)
	sent := api.messages()
	require.Len(t, sent, 2)
	assert.Equal(t, welcomeText, sent[0].(tgbotapi.MessageConfig).Text)
	assert.Equal(t, "ok", sent[1].(tgbotapi.MessageConfig).Text)
}

func TestHandle_BadChartIsDropped(t *testing.T) {
	chart := "not a data uri"
	d := &fakeDispatcher{resp: chatbot.Response{Text: "t", Chart: &chart}}
	api := &fakeAPI{}
	newBot(api, 60, d, zap.NewNop()).handle(context.Background(), textMessage("x"))

	assert.Len(t, api.messages(), 1)
}

func TestRun_StopsWithContext(t *testing.T) {
	api := &fakeAPI{updates: make(chan tgbotapi.Update, 2)}
	d := &fakeDispatcher{resp: chatbot.Response{Text: "hi"}}
	b := newBot(api, 1, d, zap.NewNop())

	api.updates <- tgbotapi.Update{}
	api.updates <- tgbotapi.Update{Message: textMessage("help")}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- b.Run(ctx) }()

	assert.Eventually(t, func() bool { return len(api.messages()) == 1 }, time.Second, 10*time.Millisecond)
	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("bot did not stop")
	}
	assert.True(t, api.stopped)
}
