package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"portfolio-backend/internal/domain"
)

const DefaultTelegramAPI = "https://api.telegram.org"

// ErrTelegramNotConfigured is returned when the bot token or chat id is missing
var ErrTelegramNotConfigured = errors.New("telegram bot token or chat id not configured")

// TelegramNotifier posts notifications to a chat through the Bot API sendMessage method.
type TelegramNotifier struct {
	apiBase    string
	token      string
	chatID     string
	parseMode  string
	httpClient *http.Client
}

// sendMessageRequest is the JSON body sent to /bot<token>/sendMessage.
type sendMessageRequest struct {
	ChatID    string `json:"chat_id"`
	Text      string `json:"text"`
	ParseMode string `json:"parse_mode,omitempty"`
}

// sendMessageResponse captures the fields needed for error reporting.
type sendMessageResponse struct {
	OK          bool   `json:"ok"`
	ErrorCode   int    `json:"error_code"`
	Description string `json:"description"`
}

// NewTelegramNotifier creates a notifier with its own bounded HTTP client.
// An empty apiBase selects the public Bot API.
func NewTelegramNotifier(apiBase, token, chatID, parseMode string, timeout time.Duration) *TelegramNotifier {
	if apiBase == "" {
		apiBase = DefaultTelegramAPI
	}
	return &TelegramNotifier{
		apiBase:    strings.TrimRight(apiBase, "/"),
		token:      token,
		chatID:     chatID,
		parseMode:  parseMode,
		httpClient: &http.Client{Timeout: timeout},
	}
}

func (t *TelegramNotifier) Name() string {
	return "telegram"
}

func (t *TelegramNotifier) IsConfigured() bool {
	return t.token != "" && t.chatID != ""
}

// Notify sends one sendMessage request; any non-2xx status is a failure.
func (t *TelegramNotifier) Notify(ctx context.Context, n domain.Notification) error {
	if !t.IsConfigured() {
		return ErrTelegramNotConfigured
	}

	text := n.Text
	if strings.EqualFold(t.parseMode, "Markdown") {
		text = EscapeMarkdown(text)
	}

	body, err := json.Marshal(sendMessageRequest{
		ChatID:    t.chatID,
		Text:      text,
		ParseMode: t.parseMode,
	})
	if err != nil {
		return fmt.Errorf("telegram: marshal request: %w", err)
	}

	endpoint := fmt.Sprintf("%s/bot%s/sendMessage", t.apiBase, t.token)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("telegram: build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := t.httpClient.Do(req)
	if err != nil {
		// the URL embeds the token; report only the cause
		var uerr *url.Error
		if errors.As(err, &uerr) {
			err = uerr.Err
		}
		return fmt.Errorf("telegram: request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var apiResp sendMessageResponse
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		if json.Unmarshal(raw, &apiResp) == nil && apiResp.Description != "" {
			return fmt.Errorf("telegram: status %d: %s", resp.StatusCode, apiResp.Description)
		}
		return fmt.Errorf("telegram: status %d", resp.StatusCode)
	}

	_, _ = io.Copy(io.Discard, resp.Body)
	return nil
}

var markdownEscaper = strings.NewReplacer(
	"_", `\_`,
	"*", `\*`,
	"`", "\\`",
	"[", `\[`,
)

// EscapeMarkdown escapes the control characters of legacy Telegram Markdown
// so user text cannot break message parsing.
func EscapeMarkdown(s string) string {
	return markdownEscaper.Replace(s)
}
