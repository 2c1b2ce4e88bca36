package assistant_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"zovida/internal/assistant"
)

func completionBody(content string) map[string]any {
	return map[string]any{
		"choices": []map[string]any{
			{"message": map[string]string{"content": content}},
		},
	}
}

func newClient(url string, opts ...assistant.Option) *assistant.Client {
	return assistant.NewClient(assistant.Config{
		APIKey:  "test-key",
		BaseURL: url,
		Model:   "llama-3.3-70b-versatile",
	}, opts...)
}

func TestChatSendsHistoryAndParams(t *testing.T) {
	var received struct {
		Model       string `json:"model"`
		Temperature float64
		MaxTokens   int `json:"max_tokens"`
		Messages    []struct {
			Role    string `json:"role"`
			Content string `json:"content"`
		} `json:"messages"`
	}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Authorization"); got != "Bearer test-key" {
			t.Errorf("authorization = %q", got)
		}
		var raw map[string]json.RawMessage
		if err := json.NewDecoder(r.Body).Decode(&raw); err != nil {
			t.Fatalf("decode request: %v", err)
		}
		json.Unmarshal(raw["model"], &received.Model)
		json.Unmarshal(raw["temperature"], &received.Temperature)
		json.Unmarshal(raw["max_tokens"], &received.MaxTokens)
		json.Unmarshal(raw["messages"], &received.Messages)
		json.NewEncoder(w).Encode(completionBody("Take aspirin with food."))
	}))
	defer server.Close()

	reply, err := newClient(server.URL).Chat(context.Background(), "How should I take aspirin?", []assistant.Message{
		{Role: "user", Content: "Hi"},
		{Role: "assistant", Content: "Hello! How can I help?"},
		{Role: "tool", Content: "ignored"},
	})
	if err != nil {
		t.Fatalf("Chat: %v", err)
	}
	if reply.Text != "Take aspirin with food." {
		t.Errorf("text = %q", reply.Text)
	}
	if received.Model != "llama-3.3-70b-versatile" {
		t.Errorf("model = %q", received.Model)
	}
	if received.Temperature != 0.5 {
		t.Errorf("temperature = %v", received.Temperature)
	}
	if received.MaxTokens != 1024 {
		t.Errorf("max_tokens = %d", received.MaxTokens)
	}
	// system + 2 history turns + current message; unknown roles dropped.
	if len(received.Messages) != 4 {
		t.Fatalf("expected 4 messages, got %d", len(received.Messages))
	}
	if received.Messages[0].Role != "system" {
		t.Errorf("first role = %q", received.Messages[0].Role)
	}
	if received.Messages[3].Content != "How should I take aspirin?" {
		t.Errorf("last message = %q", received.Messages[3].Content)
	}
}

func TestChatRequiresMessageAndKey(t *testing.T) {
	client := newClient("http://localhost:0")
	if _, err := client.Chat(context.Background(), "  ", nil); err == nil {
		t.Fatal("expected empty message to be rejected")
	}

	noKey := assistant.NewClient(assistant.Config{BaseURL: "http://localhost:0"})
	if _, err := noKey.Chat(context.Background(), "hi", nil); err == nil {
		t.Fatal("expected missing api key to be rejected")
	}
}

func TestChatRetriesOnServerError(t *testing.T) {
	attempts := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts++
		if attempts == 1 {
			http.Error(w, "overloaded", http.StatusServiceUnavailable)
			return
		}
		json.NewEncoder(w).Encode(completionBody("All good."))
	}))
	defer server.Close()

	var slept []time.Duration
	client := newClient(server.URL,
		assistant.WithRetryBackoff(time.Millisecond, 10*time.Millisecond),
		assistant.WithSleeper(func(d time.Duration) { slept = append(slept, d) }))

	reply, err := client.Chat(context.Background(), "hi", nil)
	if err != nil {
		t.Fatalf("Chat: %v", err)
	}
	if reply.Text != "All good." {
		t.Errorf("text = %q", reply.Text)
	}
	if attempts != 2 {
		t.Errorf("attempts = %d, want 2", attempts)
	}
	if len(slept) != 1 {
		t.Errorf("expected one backoff sleep, got %v", slept)
	}
}

func TestChatHonorsRetryAfter(t *testing.T) {
	attempts := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts++
		if attempts == 1 {
			w.Header().Set("Retry-After", "2")
			http.Error(w, "rate limited", http.StatusTooManyRequests)
			return
		}
		json.NewEncoder(w).Encode(completionBody("Done."))
	}))
	defer server.Close()

	var slept []time.Duration
	client := newClient(server.URL,
		assistant.WithSleeper(func(d time.Duration) { slept = append(slept, d) }))

	if _, err := client.Chat(context.Background(), "hi", nil); err != nil {
		t.Fatalf("Chat: %v", err)
	}
	if len(slept) != 1 || slept[0] != 2*time.Second {
		t.Errorf("expected Retry-After sleep of 2s, got %v", slept)
	}
}

func TestChatDoesNotRetryClientErrors(t *testing.T) {
	attempts := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts++
		http.Error(w, "bad request", http.StatusBadRequest)
	}))
	defer server.Close()

	client := newClient(server.URL, assistant.WithSleeper(func(time.Duration) {}))
	if _, err := client.Chat(context.Background(), "hi", nil); err == nil {
		t.Fatal("expected error")
	}
	if attempts != 1 {
		t.Errorf("attempts = %d, want 1", attempts)
	}
}

func TestParseReply(t *testing.T) {
	tests := []struct {
		name         string
		content      string
		wantText     string
		wantNavigate []string
	}{
		{
			name:     "plain reply",
			content:  "Drink plenty of water.",
			wantText: "Drink plenty of water.",
		},
		{
			name:         "doctors token",
			content:      "You should see a cardiologist. [navigate:doctors]",
			wantText:     "You should see a cardiologist.",
			wantNavigate: []string{"doctors"},
		},
		{
			name:         "sos token mid-sentence",
			content:      "Call emergency services now [navigate:sos] and stay calm.",
			wantText:     "Call emergency services now and stay calm.",
			wantNavigate: []string{"sos"},
		},
		{
			name:         "duplicate and unknown tokens",
			content:      "See a doctor [navigate:doctors] soon [navigate:doctors] [navigate:settings]",
			wantText:     "See a doctor soon [navigate:settings]",
			wantNavigate: []string{"doctors"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			reply := assistant.ParseReply(tt.content)
			if reply.Text != tt.wantText {
				t.Errorf("text = %q, want %q", reply.Text, tt.wantText)
			}
			if len(reply.Navigate) != len(tt.wantNavigate) {
				t.Fatalf("navigate = %v, want %v", reply.Navigate, tt.wantNavigate)
			}
			for i := range tt.wantNavigate {
				if reply.Navigate[i] != tt.wantNavigate[i] {
					t.Errorf("navigate = %v, want %v", reply.Navigate, tt.wantNavigate)
				}
			}
		})
	}
}
