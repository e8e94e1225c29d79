package notifications

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/soletta-dev/postpilot/config"
	"github.com/soletta-dev/postpilot/logger"
	"github.com/gen2brain/beeep"
)

type NotificationService struct {
	config *config.Config
}

func NewNotificationService(cfg *config.Config) *NotificationService {
	return &NotificationService{
		config: cfg,
	}
}

// NotifyPublished announces a successful publish. Delivery problems are
// logged and never surfaced; a missed notification must not fail a publish.
func (ns *NotificationService) NotifyPublished(kind, draftID, threadURL string, postCount int) {
	if !ns.config.Notifications.Enabled || !ns.config.Notifications.NotifyOnPublish {
		return
	}

	message := fmt.Sprintf("Published %s content (%d posts): %s", kind, postCount, draftID)

	if ns.config.Notifications.SystemNotify {
		ns.sendSystemNotification(message, "Content Published")
	}

	if ns.config.Notifications.DiscordWebhook != "" {
		ns.sendDiscordNotification(message, "Content Published", 3066993, threadURL)
	}

	if ns.config.Notifications.TelegramBotToken != "" && ns.config.Notifications.TelegramChatID != "" {
		ns.sendTelegramNotification(message)
	}
}

// NotifyFailure announces a failed publish task.
func (ns *NotificationService) NotifyFailure(task string, taskErr error) {
	if !ns.config.Notifications.Enabled || !ns.config.Notifications.NotifyOnFailure {
		return
	}

	message := fmt.Sprintf("Task %s failed: %v", task, taskErr)

	if ns.config.Notifications.SystemNotify {
		ns.sendSystemNotification(message, "Publish Failed")
	}

	if ns.config.Notifications.DiscordWebhook != "" {
		ns.sendDiscordNotification(message, "Publish Failed", 15158332, "")
	}

	if ns.config.Notifications.TelegramBotToken != "" && ns.config.Notifications.TelegramChatID != "" {
		ns.sendTelegramNotification(message)
	}
}

func (ns *NotificationService) sendSystemNotification(message, title string) {
	err := beeep.Notify(title, message, "")
	if err != nil {
		logger.Logger.Printf("Failed to send system notification: %v", err)
	}
}

func (ns *NotificationService) sendDiscordNotification(message, title string, color int, link string) {
	type DiscordEmbed struct {
		Title       string `json:"title"`
		Description string `json:"description"`
		Color       int    `json:"color"`
		Timestamp   string `json:"timestamp"`
		URL         string `json:"url,omitempty"`
	}

	type DiscordWebhookPayload struct {
		Embeds []DiscordEmbed `json:"embeds"`
	}

	payload := DiscordWebhookPayload{
		Embeds: []DiscordEmbed{{
			Title:       title,
			Description: message,
			Color:       color,
			Timestamp:   time.Now().Format(time.RFC3339),
			URL:         link,
		}},
	}

	jsonPayload, err := json.Marshal(payload)
	if err != nil {
		logger.Logger.Printf("Failed to marshal Discord payload: %v", err)
		return
	}

	resp, err := http.Post(ns.config.Notifications.DiscordWebhook, "application/json", bytes.NewBuffer(jsonPayload))
	if err != nil {
		logger.Logger.Printf("Failed to send Discord notification: %v", err)
		return
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		logger.Logger.Printf("Discord webhook returned status: %d", resp.StatusCode)
	}
}

func (ns *NotificationService) sendTelegramNotification(message string) {
	url := fmt.Sprintf("https://api.telegram.org/bot%s/sendMessage", ns.config.Notifications.TelegramBotToken)
	type TelegramPayload struct {
		ChatID    string `json:"chat_id"`
		Text      string `json:"text"`
		ParseMode string `json:"parse_mode"`
	}
	payload := TelegramPayload{
		ChatID:    ns.config.Notifications.TelegramChatID,
		Text:      message,
		ParseMode: "HTML",
	}
	jsonPayload, _ := json.Marshal(payload)

	resp, err := http.Post(url, "application/json", bytes.NewBuffer(jsonPayload))
	if err != nil {
		logger.Logger.Printf("Failed to send Telegram notification: %v", err)
		return
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		logger.Logger.Printf("Telegram API returned status: %d", resp.StatusCode)
	}
}
