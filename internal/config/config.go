package config

import (
	"os"
	"strconv"
	"time"
)

// Config holds all application configuration.
type Config struct {
	Server ServerConfig
	Game   GameConfig
	Timing TimingConfig
	Cards  CardConfig
}

// ServerConfig holds server-related configuration.
type ServerConfig struct {
	Host      string
	Port      string
	AdminPass string
	Env       string // "development" or "production"
}

// GameConfig holds the table rules.
type GameConfig struct {
	HandSize      int
	MinPlayers    int
	WinThreshold  int
	NameMax       int
	CustomTextMax int
	ChatMax       int
	BlankChance   float64
	RequireReady  bool
}

// TimingConfig holds every timer the room arms.
type TimingConfig struct {
	BotDelayMin       time.Duration
	BotDelayMax       time.Duration
	AFKDeadline       time.Duration
	NextRoundDelay    time.Duration
	GameOverReset     time.Duration
	KeepAliveInterval time.Duration
}

// CardConfig points at the card pool files. Empty paths use the built-in pools.
type CardConfig struct {
	PromptFile   string
	ResponseFile string
}

// Load reads configuration from environment variables with defaults.
func Load() *Config {
	return &Config{
		Server: ServerConfig{
			Host:      getEnv("HOST", "0.0.0.0"),
			Port:      getEnv("PORT", "8080"),
			AdminPass: getEnv("ADMIN_PASS", "Firesluts"),
			Env:       getEnv("ENV", "development"),
		},
		Game: GameConfig{
			HandSize:      getEnvInt("HAND_SIZE", 10),
			MinPlayers:    getEnvInt("MIN_PLAYERS", 3),
			WinThreshold:  getEnvInt("WIN_THRESHOLD", 10),
			NameMax:       getEnvInt("NAME_MAX_RUNES", 15),
			CustomTextMax: getEnvInt("CUSTOM_TEXT_MAX_RUNES", 140),
			ChatMax:       getEnvInt("CHAT_MAX_RUNES", 200),
			BlankChance:   getEnvFloat("BLANK_CHANCE", 0.1),
			RequireReady:  getEnvBool("REQUIRE_READY", true),
		},
		Timing: TimingConfig{
			BotDelayMin:       getEnvDuration("BOT_DELAY_MIN", 2*time.Second),
			BotDelayMax:       getEnvDuration("BOT_DELAY_MAX", 4*time.Second),
			AFKDeadline:       getEnvDuration("AFK_DEADLINE", 125*time.Second),
			NextRoundDelay:    getEnvDuration("NEXT_ROUND_DELAY", 4*time.Second),
			GameOverReset:     getEnvDuration("GAME_OVER_RESET", 15*time.Second),
			KeepAliveInterval: getEnvDuration("KEEP_ALIVE_INTERVAL", 5*time.Minute),
		},
		Cards: CardConfig{
			PromptFile:   getEnv("PROMPT_CARDS_FILE", "black_cards.txt"),
			ResponseFile: getEnv("RESPONSE_CARDS_FILE", "white_cards.txt"),
		},
	}
}

// IsDevelopment returns true if running in development mode.
func (c *Config) IsDevelopment() bool {
	return c.Server.Env == "development"
}

// GetAddr returns the server address in host:port format.
func (c *Config) GetAddr() string {
	return c.Server.Host + ":" + c.Server.Port
}

func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value, exists := os.LookupEnv(key); exists {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvFloat(key string, defaultValue float64) float64 {
	if value, exists := os.LookupEnv(key); exists {
		if f, err := strconv.ParseFloat(value, 64); err == nil {
			return f
		}
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value, exists := os.LookupEnv(key); exists {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value, exists := os.LookupEnv(key); exists {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
