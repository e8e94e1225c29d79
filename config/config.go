package config

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"runtime"
	"time"

	"github.com/BurntSushi/toml"
)

type Config struct {
	Options       OptionsConfig       `toml:"options"`
	Platform      PlatformConfig      `toml:"platform"`
	Schedule      ScheduleConfig      `toml:"schedule"`
	Notifications NotificationsConfig `toml:"notifications"`
}

type OptionsConfig struct {
	DataDir          string `toml:"data_dir"`
	ReviewMode       bool   `toml:"review_mode"`
	PostDelaySeconds int    `toml:"post_delay_seconds"`
	ProfileURL       string `toml:"profile_url"`
}

type PlatformConfig struct {
	Backends              []BackendConfig `toml:"backends"`
	RequestTimeoutSeconds int             `toml:"request_timeout_seconds"`
	MaxConcurrentRequests int             `toml:"max_concurrent_requests"`
	MinRequestInterval    string          `toml:"min_request_interval"` // e.g. "3s"
	GeneratorURL          string          `toml:"generator_url"`        // optional remote content backend
}

type BackendConfig struct {
	Name string `toml:"name"`
	URL  string `toml:"url"`
}

// ScheduleConfig holds the daily timetable as "HH:MM" wall-clock times (UTC).
type ScheduleConfig struct {
	DraftCreation        string `toml:"draft_creation"`
	MorningHeadlines     string `toml:"morning_headlines"`
	MiddayThread         string `toml:"midday_thread"`
	AfternoonFocus       string `toml:"afternoon_focus"`
	CuratedRetweet       string `toml:"curated_retweet"`
	WeeklyRecap          string `toml:"weekly_recap"`
	PublishIntervalHours int    `toml:"publish_interval_hours"`
}

type NotificationsConfig struct {
	Enabled          bool   `toml:"enabled"`
	SystemNotify     bool   `toml:"system_notify"`
	DiscordWebhook   string `toml:"discord_webhook"`
	TelegramBotToken string `toml:"telegram_bot_token"`
	TelegramChatID   string `toml:"telegram_chat_id"`
	NotifyOnPublish  bool   `toml:"notify_on_publish"`
	NotifyOnFailure  bool   `toml:"notify_on_failure"`
}

func GetConfigPath() string {
	currentDirConfig := "config.toml"
	if _, err := os.Stat(currentDirConfig); err == nil {
		return currentDirConfig
	}
	return filepath.Join(GetConfigDir(), "config.toml")
}

func GetConfigDir() string {
	var configDir string
	var err error

	if runtime.GOOS == "darwin" {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			log.Fatal(err)
		}
		configDir = filepath.Join(homeDir, ".config")
	} else {
		configDir, err = os.UserConfigDir()
		if err != nil {
			log.Fatal(err)
		}
	}

	return filepath.Join(configDir, "postpilot")
}

func SaveConfig(cfg *Config, configPath string) error {
	if err := os.MkdirAll(filepath.Dir(configPath), 0755); err != nil {
		return err
	}

	file, err := os.Create(configPath)
	if err != nil {
		return err
	}
	defer file.Close()

	encoder := toml.NewEncoder(file)
	return encoder.Encode(cfg)
}

func EnsureConfigExists(configPath string) error {
	if _, err := os.Stat(filepath.Dir(configPath)); os.IsNotExist(err) {
		if err := os.MkdirAll(filepath.Dir(configPath), os.ModePerm); err != nil {
			return err
		}
	}

	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		if err := SaveConfig(CreateDefaultConfig(), configPath); err != nil {
			return fmt.Errorf("failed to create default config: %w", err)
		}
	}

	return nil
}

func LoadConfig(configPath string) (*Config, error) {
	var config Config
	_, err := toml.DecodeFile(configPath, &config)
	if err != nil {
		return nil, err
	}

	if config.Options.DataDir == "" {
		return nil, fmt.Errorf("data_dir is empty in %v", configPath)
	}
	if len(config.Platform.Backends) == 0 {
		return nil, fmt.Errorf("no platform backends configured in %v", configPath)
	}
	if config.Options.PostDelaySeconds <= 0 {
		config.Options.PostDelaySeconds = 2
	}
	if config.Platform.RequestTimeoutSeconds <= 0 {
		config.Platform.RequestTimeoutSeconds = 30
	}
	if config.Platform.MaxConcurrentRequests <= 0 {
		config.Platform.MaxConcurrentRequests = 4
	}
	if config.Schedule.PublishIntervalHours <= 0 {
		config.Schedule.PublishIntervalHours = 1
	}

	defaults := CreateDefaultConfig().Schedule
	if config.Schedule.DraftCreation == "" {
		config.Schedule.DraftCreation = defaults.DraftCreation
	}
	if config.Schedule.MorningHeadlines == "" {
		config.Schedule.MorningHeadlines = defaults.MorningHeadlines
	}
	if config.Schedule.MiddayThread == "" {
		config.Schedule.MiddayThread = defaults.MiddayThread
	}
	if config.Schedule.AfternoonFocus == "" {
		config.Schedule.AfternoonFocus = defaults.AfternoonFocus
	}
	if config.Schedule.CuratedRetweet == "" {
		config.Schedule.CuratedRetweet = defaults.CuratedRetweet
	}
	if config.Schedule.WeeklyRecap == "" {
		config.Schedule.WeeklyRecap = defaults.WeeklyRecap
	}

	config.Options.DataDir = filepath.ToSlash(config.Options.DataDir)

	return &config, nil
}

func (p PlatformConfig) RequestTimeout() time.Duration {
	return time.Duration(p.RequestTimeoutSeconds) * time.Second
}

func (p PlatformConfig) RequestInterval() time.Duration {
	if p.MinRequestInterval == "" {
		return 3 * time.Second
	}
	d, err := time.ParseDuration(p.MinRequestInterval)
	if err != nil || d <= 0 {
		return 3 * time.Second
	}
	return d
}

// ParseClock splits an "HH:MM" timetable entry.
func ParseClock(s string) (hour, minute int, err error) {
	if _, err := fmt.Sscanf(s, "%d:%d", &hour, &minute); err != nil {
		return 0, 0, fmt.Errorf("invalid schedule time %q: %w", s, err)
	}
	if hour < 0 || hour > 23 || minute < 0 || minute > 59 {
		return 0, 0, fmt.Errorf("invalid schedule time %q", s)
	}
	return hour, minute, nil
}

func (o OptionsConfig) PostDelay() time.Duration {
	return time.Duration(o.PostDelaySeconds) * time.Second
}

func CreateDefaultConfig() *Config {
	return &Config{
		Options: OptionsConfig{
			DataDir:          "/path/to/postpilot/data",
			ReviewMode:       true,
			PostDelaySeconds: 2,
			ProfileURL:       "https://twitter.com/user",
		},
		Platform: PlatformConfig{
			Backends: []BackendConfig{
				{Name: "primary", URL: "https://api.example.com"},
			},
			RequestTimeoutSeconds: 30,
			MaxConcurrentRequests: 4,
			MinRequestInterval:    "3s",
		},
		Schedule: ScheduleConfig{
			DraftCreation:        "06:30",
			MorningHeadlines:     "08:00",
			MiddayThread:         "12:00",
			AfternoonFocus:       "14:00",
			CuratedRetweet:       "16:00",
			WeeklyRecap:          "20:00",
			PublishIntervalHours: 1,
		},
		Notifications: NotificationsConfig{
			Enabled:         false,
			SystemNotify:    true,
			NotifyOnPublish: true,
			NotifyOnFailure: true,
		},
	}
}
