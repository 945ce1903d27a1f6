package telegram

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func TestGetUpdates_ParsesMessages(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/getUpdates" {
			http.NotFound(w, r)
			return
		}
		if got := r.URL.Query().Get("offset"); got != "42" {
			t.Errorf("unexpected offset: %q", got)
		}
		_, _ = io.WriteString(w, `{"ok":true,"result":[
			{"update_id":42,"message":{"message_id":1,"from":{"id":123456789,"first_name":"Alice","username":"alice"},"chat":{"id":123456789},"date":1700000000,"text":"Hello"}}
		]}`)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, 2*time.Second)
	updates, err := c.GetUpdates(42, 0)
	if err != nil {
		t.Fatalf("GetUpdates failed: %v", err)
	}
	if len(updates) != 1 {
		t.Fatalf("expected 1 update, got %d", len(updates))
	}
	msg := updates[0].Message
	if msg == nil || msg.From == nil {
		t.Fatalf("unexpected update shape: %#v", updates[0])
	}
	if msg.From.ID != 123456789 || msg.From.FirstName != "Alice" || msg.Text != "Hello" {
		t.Fatalf("unexpected message: %#v", msg)
	}
}

func TestGetUpdates_APIRejection(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `{"ok":false,"description":"Unauthorized"}`)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, 2*time.Second)
	if _, err := c.GetUpdates(0, 0); err == nil {
		t.Fatal("expected error for rejected getUpdates")
	}
}

func TestSendMessage_SendsPayload(t *testing.T) {
	var gotBody string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/sendMessage" {
			http.NotFound(w, r)
			return
		}
		body, _ := io.ReadAll(r.Body)
		gotBody = string(body)
		_, _ = io.WriteString(w, `{"ok":true,"result":{}}`)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, 2*time.Second)
	if err := c.SendMessage(123, "Hi!"); err != nil {
		t.Fatalf("SendMessage failed: %v", err)
	}

	var payload map[string]interface{}
	if err := json.Unmarshal([]byte(gotBody), &payload); err != nil {
		t.Fatalf("payload is not valid JSON: %s", gotBody)
	}
	if payload["chat_id"].(float64) != 123 || payload["text"] != "Hi!" {
		t.Fatalf("unexpected payload: %s", gotBody)
	}
}

func TestSendMessage_TruncatesLongText(t *testing.T) {
	var gotText string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var payload struct {
			Text string `json:"text"`
		}
		body, _ := io.ReadAll(r.Body)
		_ = json.Unmarshal(body, &payload)
		gotText = payload.Text
		_, _ = io.WriteString(w, `{"ok":true,"result":{}}`)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, 2*time.Second)
	if err := c.SendMessage(123, strings.Repeat("x", 5000)); err != nil {
		t.Fatalf("SendMessage failed: %v", err)
	}
	if len(gotText) != maxOutboundLength {
		t.Fatalf("expected text truncated to %d, got %d", maxOutboundLength, len(gotText))
	}
}
