// Package notify broadcasts decision-cycle outcomes to subscribers.
// Notifications are advisory: failures are logged and never fail the cycle.
package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/yourusername/value-parlay/internal/models"
)

const (
	defaultTelegramAPI     = "https://api.telegram.org"
	defaultTelegramTimeout = 10 * time.Second
)

// Notifier broadcasts messages about placed bets
type Notifier interface {
	NotifyParlay(ctx context.Context, parlay *models.Parlay, rec *models.StakeRecommendation) error
	NotifyText(ctx context.Context, text string) error
}

// TelegramNotifier broadcasts to a set of Telegram chats. It uses a plain
// short-timeout client without retries: a recommendation that failed to
// send must not show up minutes later, after the odds have moved.
type TelegramNotifier struct {
	client  *http.Client
	baseURL string
	token   string
	chatIDs []string
	logger  *logrus.Logger
}

// TelegramConfig holds notifier configuration
type TelegramConfig struct {
	BotToken string
	ChatIDs  []string
	Timeout  time.Duration
	// BaseURL overrides the Telegram API endpoint, used in tests
	BaseURL string
}

// NewTelegramNotifier creates a Telegram broadcast notifier
func NewTelegramNotifier(cfg TelegramConfig, logger *logrus.Logger) *TelegramNotifier {
	if logger == nil {
		logger = logrus.New()
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTelegramTimeout
	}

	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = defaultTelegramAPI
	}

	return &TelegramNotifier{
		client:  &http.Client{Timeout: timeout},
		baseURL: baseURL,
		token:   cfg.BotToken,
		chatIDs: cfg.ChatIDs,
		logger:  logger,
	}
}

// NotifyParlay broadcasts a formatted bet recommendation
func (n *TelegramNotifier) NotifyParlay(ctx context.Context, parlay *models.Parlay, rec *models.StakeRecommendation) error {
	return n.NotifyText(ctx, FormatParlayMessage(parlay, rec))
}

// NotifyText broadcasts a plain text message to every configured chat.
// Per-chat failures are logged and counted, only a total failure errors.
func (n *TelegramNotifier) NotifyText(ctx context.Context, text string) error {
	if len(n.chatIDs) == 0 {
		return nil
	}

	endpoint := fmt.Sprintf("%s/bot%s/sendMessage", n.baseURL, n.token)
	failures := 0
	for _, chatID := range n.chatIDs {
		if err := n.sendOne(ctx, endpoint, chatID, text); err != nil {
			failures++
			n.logger.WithFields(logrus.Fields{
				"chat_id": chatID,
				"error":   err,
			}).Warn("Failed to send Telegram notification")
		}
	}

	if failures == len(n.chatIDs) {
		return fmt.Errorf("all %d telegram broadcasts failed", failures)
	}
	return nil
}

func (n *TelegramNotifier) sendOne(ctx context.Context, endpoint, chatID, text string) error {
	payload, err := json.Marshal(map[string]string{
		"chat_id":    chatID,
		"text":       text,
		"parse_mode": "Markdown",
	})
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := n.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("telegram API returned status %d", resp.StatusCode)
	}
	return nil
}

// FormatParlayMessage renders a parlay and its stake as a broadcast message
func FormatParlayMessage(parlay *models.Parlay, rec *models.StakeRecommendation) string {
	var b strings.Builder
	b.WriteString("*Value Parlay of the Day*\n\n")
	for i, leg := range parlay.Picks {
		b.WriteString(fmt.Sprintf("%d. %s vs %s (%s): %s @ %.2f\n",
			i+1, leg.HomeTeam, leg.AwayTeam, leg.League,
			leg.PredictedOutcome, leg.SelectedOdds()))
	}
	b.WriteString(fmt.Sprintf("\nTotal odds: %.2f\n", parlay.TotalOdds))
	b.WriteString(fmt.Sprintf("Win probability: %.1f%%\n", parlay.CombinedProbability*100))
	b.WriteString(fmt.Sprintf("Edge: %.1f%%\n", parlay.EdgePercentage))
	b.WriteString(fmt.Sprintf("Recommended stake: %.2f (%.1f%% of bankroll)\n",
		rec.RecommendedStake, rec.StakePercentage))
	b.WriteString(fmt.Sprintf("Potential return: %.2f\n", rec.PotentialReturn))
	return b.String()
}

// NoopNotifier is used when notifications are disabled
type NoopNotifier struct{}

// NotifyParlay does nothing
func (NoopNotifier) NotifyParlay(context.Context, *models.Parlay, *models.StakeRecommendation) error {
	return nil
}

// NotifyText does nothing
func (NoopNotifier) NotifyText(context.Context, string) error {
	return nil
}
