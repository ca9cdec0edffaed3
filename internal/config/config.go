package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config holds the application's configuration.
type Config struct {
	Database struct {
		URL string `yaml:"url"`
	} `yaml:"database"`
	Telegram struct {
		BotToken     string  `yaml:"bot_token"`
		Admins       []int64 `yaml:"admins"`
		AllowedChats []int64 `yaml:"allowed_chats"`
		LogChatID    int64   `yaml:"log_chat_id"`
	} `yaml:"telegram"`
	Classifier struct {
		URL            string `yaml:"url"`
		Model          string `yaml:"model"`
		TimeoutSeconds int64  `yaml:"timeout_seconds"`
	} `yaml:"classifier"`
	Filters struct {
		Profanity   bool `yaml:"profanity"`
		Advertising bool `yaml:"advertising"`
		Semantic    bool `yaml:"semantic"`
	} `yaml:"filters"`
	SeedWords struct {
		Profanity   []string `yaml:"profanity"`
		Advertising []string `yaml:"advertising"`
	} `yaml:"seed_words"`
	Server struct {
		Port string `yaml:"port"`
	} `yaml:"server"`
}

// LoadConfig reads configuration from the specified YAML file.
func LoadConfig(configPath string) (*Config, error) {
	config := &Config{}

	file, err := os.Open(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open config file: %w", err)
	}
	defer file.Close()

	decoder := yaml.NewDecoder(file)
	if err := decoder.Decode(config); err != nil {
		return nil, fmt.Errorf("failed to decode config file: %w", err)
	}

	if config.Telegram.BotToken == "" {
		return nil, fmt.Errorf("telegram.bot_token is not set")
	}
	if config.Classifier.TimeoutSeconds <= 0 {
		config.Classifier.TimeoutSeconds = 15
	}

	return config, nil
}

// IsAdmin reports whether the given Telegram user ID belongs to an admin.
func (c *Config) IsAdmin(userID int64) bool {
	for _, id := range c.Telegram.Admins {
		if id == userID {
			return true
		}
	}
	return false
}

// ChatAllowed reports whether moderation is enabled for the given chat.
// An empty allow-list means every chat is moderated.
func (c *Config) ChatAllowed(chatID int64) bool {
	if len(c.Telegram.AllowedChats) == 0 {
		return true
	}
	for _, id := range c.Telegram.AllowedChats {
		if id == chatID {
			return true
		}
	}
	return false
}
