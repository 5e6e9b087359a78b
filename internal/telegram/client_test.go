package telegram

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	bot := &tgbotapi.BotAPI{Token: "test-token", Client: srv.Client()}
	bot.SetAPIEndpoint(srv.URL + "/bot%s/%s")
	return NewClient(bot)
}

func TestCopyMessageSendsProtectContent(t *testing.T) {
	var path string
	var form url.Values
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		path = r.URL.Path
		if err := r.ParseForm(); err != nil {
			t.Errorf("parse form: %v", err)
		}
		form = r.PostForm
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"ok":true,"result":{"message_id":1}}`))
	})

	err := c.CopyMessage(ChatID(200), ChatRef{Username: "@storage"}, 42, true)
	if err != nil {
		t.Fatalf("copy: %v", err)
	}
	if !strings.HasSuffix(path, "/copyMessage") {
		t.Fatalf("wrong method path %q", path)
	}
	if got := form.Get("chat_id"); got != "200" {
		t.Fatalf("chat_id = %q", got)
	}
	if got := form.Get("from_chat_id"); got != "@storage" {
		t.Fatalf("from_chat_id = %q", got)
	}
	if got := form.Get("message_id"); got != "42" {
		t.Fatalf("message_id = %q", got)
	}
	if got := form.Get("protect_content"); got != "true" {
		t.Fatalf("protect_content = %q", got)
	}
}

func TestCopyMessageUnprotectedOmitsFlag(t *testing.T) {
	var form url.Values
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			t.Errorf("parse form: %v", err)
		}
		form = r.PostForm
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"ok":true,"result":{"message_id":1}}`))
	})

	if err := c.CopyMessage(ChatID(200), ChatID(-100500), 7, false); err != nil {
		t.Fatalf("copy: %v", err)
	}
	if _, ok := form["protect_content"]; ok {
		t.Fatalf("protect_content sent for an unprotected copy")
	}
	if got := form.Get("from_chat_id"); got != "-100500" {
		t.Fatalf("from_chat_id = %q", got)
	}
}
