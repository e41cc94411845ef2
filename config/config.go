// Package config loads runtime settings through viper
package config

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/mitchellh/go-homedir"
	"github.com/spf13/viper"
)

const (
	EnvPrefix = "COSMOS"
	AppName   = "living-cosmos"
)

// Config is the full runtime configuration
type Config struct {
	Logger LoggerConfig `mapstructure:"logger" yaml:"logger"`
	Server ServerConfig `mapstructure:"server" yaml:"server"`
	Relay  RelayConfig  `mapstructure:"relay" yaml:"relay"`
	Feed   FeedConfig   `mapstructure:"feed" yaml:"feed"`
	Scene  SceneConfig  `mapstructure:"scene" yaml:"scene"`
	Audio  AudioConfig  `mapstructure:"audio" yaml:"audio"`
	Player PlayerConfig `mapstructure:"player" yaml:"player"`
}

// LoggerConfig drives observability.Initialize
type LoggerConfig struct {
	Level       string `mapstructure:"level" yaml:"level"`
	Format      string `mapstructure:"format" yaml:"format"`
	AddSource   bool   `mapstructure:"add_source" yaml:"add_source"`
	ServiceName string `mapstructure:"service_name" yaml:"service_name"`
	LogFile     string `mapstructure:"log_file" yaml:"log_file"`
	MaxSize     int    `mapstructure:"max_size" yaml:"max_size"`
	MaxBackups  int    `mapstructure:"max_backups" yaml:"max_backups"`
	MaxAge      int    `mapstructure:"max_age" yaml:"max_age"`
	Compress    bool   `mapstructure:"compress" yaml:"compress"`
}

type ServerConfig struct {
	Addr              string        `mapstructure:"addr" yaml:"addr"`
	ReadHeaderTimeout time.Duration `mapstructure:"read_header_timeout" yaml:"read_header_timeout"`
	// MessageRate is accepted messages per second; MessageBurst the bucket size
	MessageRate  float64 `mapstructure:"message_rate" yaml:"message_rate"`
	MessageBurst int     `mapstructure:"message_burst" yaml:"message_burst"`
}

type RelayConfig struct {
	WebhookURL string        `mapstructure:"webhook_url" yaml:"webhook_url"`
	Username   string        `mapstructure:"username" yaml:"username"`
	AvatarURL  string        `mapstructure:"avatar_url" yaml:"avatar_url"`
	DevMode    bool          `mapstructure:"dev_mode" yaml:"dev_mode"`
	DevDelay   time.Duration `mapstructure:"dev_delay" yaml:"dev_delay"`
	Timeout    time.Duration `mapstructure:"timeout" yaml:"timeout"`
}

type FeedConfig struct {
	ChannelID   string        `mapstructure:"channel_id" yaml:"channel_id"`
	BaseURL     string        `mapstructure:"base_url" yaml:"base_url"`
	Limit       int           `mapstructure:"limit" yaml:"limit"`
	Artist      string        `mapstructure:"artist" yaml:"artist"`
	Description string        `mapstructure:"description" yaml:"description"`
	OriginalURL string        `mapstructure:"original_url" yaml:"original_url"`
	CacheTTL    time.Duration `mapstructure:"cache_ttl" yaml:"cache_ttl"`
	Timeout     time.Duration `mapstructure:"timeout" yaml:"timeout"`
}

type SceneConfig struct {
	FPS      int     `mapstructure:"fps" yaml:"fps"`
	MaxDelta float64 `mapstructure:"max_delta" yaml:"max_delta"`
	Seed     int64   `mapstructure:"seed" yaml:"seed"`
	// APIBaseURL points at a running serve command; empty uses the built-in list
	APIBaseURL     string        `mapstructure:"api_base_url" yaml:"api_base_url"`
	APITimeout     time.Duration `mapstructure:"api_timeout" yaml:"api_timeout"`
	Stars          int           `mapstructure:"stars" yaml:"stars"`
	StarsSmall     int           `mapstructure:"stars_small" yaml:"stars_small"`
	ShootingStars  bool          `mapstructure:"shooting_stars" yaml:"shooting_stars"`
	Intro          bool          `mapstructure:"intro" yaml:"intro"`
	AtmosphereTick time.Duration `mapstructure:"atmosphere_tick" yaml:"atmosphere_tick"`
}

type AudioConfig struct {
	Enabled bool    `mapstructure:"enabled" yaml:"enabled"`
	Volume  float64 `mapstructure:"volume" yaml:"volume"`
	// Backend is "speaker" or "pipe" (an external PCM player such as pacat or aplay)
	Backend string `mapstructure:"backend" yaml:"backend"`
}

type PlayerConfig struct {
	Command     []string      `mapstructure:"command" yaml:"command"`
	LoadTimeout time.Duration `mapstructure:"load_timeout" yaml:"load_timeout"`
}

// SetDefaults registers every default on v
func SetDefaults(v *viper.Viper) {
	v.SetDefault("logger.level", "info")
	v.SetDefault("logger.format", "console")
	v.SetDefault("logger.add_source", false)
	v.SetDefault("logger.service_name", AppName)
	v.SetDefault("logger.log_file", filepath.Join(DefaultDir(), AppName+".log"))
	v.SetDefault("logger.max_size", 10)
	v.SetDefault("logger.max_backups", 3)
	v.SetDefault("logger.max_age", 28)
	v.SetDefault("logger.compress", true)

	v.SetDefault("server.addr", ":8080")
	v.SetDefault("server.read_header_timeout", 5*time.Second)
	v.SetDefault("server.message_rate", 0.5)
	v.SetDefault("server.message_burst", 3)

	v.SetDefault("relay.webhook_url", "")
	v.SetDefault("relay.username", "Tsumu's Universe")
	v.SetDefault("relay.avatar_url", "https://cdn-icons-png.flaticon.com/512/3112/3112946.png")
	v.SetDefault("relay.dev_mode", false)
	v.SetDefault("relay.dev_delay", time.Second)
	v.SetDefault("relay.timeout", 10*time.Second)

	v.SetDefault("feed.channel_id", "UCiWwCOCTHfUe_V_-Pqknz-w")
	v.SetDefault("feed.base_url", "https://www.youtube.com/feeds/videos.xml")
	v.SetDefault("feed.limit", 20)
	v.SetDefault("feed.artist", "つむ (Tsumu)")
	v.SetDefault("feed.description", "Piano cover")
	v.SetDefault("feed.original_url", "https://www.tiktok.com/@uta.uta_p")
	v.SetDefault("feed.cache_ttl", time.Hour)
	v.SetDefault("feed.timeout", 10*time.Second)

	v.SetDefault("scene.fps", 60)
	v.SetDefault("scene.max_delta", 1.5)
	v.SetDefault("scene.seed", 12345)
	v.SetDefault("scene.api_base_url", "")
	v.SetDefault("scene.api_timeout", 10*time.Second)
	v.SetDefault("scene.stars", 150)
	v.SetDefault("scene.stars_small", 80)
	v.SetDefault("scene.shooting_stars", true)
	v.SetDefault("scene.intro", true)
	v.SetDefault("scene.atmosphere_tick", 30*time.Second)

	v.SetDefault("audio.enabled", true)
	v.SetDefault("audio.volume", 0.8)
	v.SetDefault("audio.backend", "speaker")

	v.SetDefault("player.command", []string{"mpv", "--no-video", "--really-quiet"})
	v.SetDefault("player.load_timeout", 8*time.Second)
}

// DefaultDir is ~/.config/living-cosmos, or the working directory if home is unknown
func DefaultDir() string {
	home, err := homedir.Dir()
	if err != nil {
		return "."
	}
	return filepath.Join(home, ".config", AppName)
}

// Prepare applies defaults, env binding and the optional config file to v
func Prepare(v *viper.Viper, file string) error {
	SetDefaults(v)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if file != "" {
		path, err := homedir.Expand(file)
		if err != nil {
			return fmt.Errorf("expand config path: %w", err)
		}
		v.SetConfigFile(path)
	} else {
		v.AddConfigPath(".")
		v.AddConfigPath(DefaultDir())
		v.SetConfigName("config")
		v.SetConfigType("yaml")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return fmt.Errorf("error reading config file: %w", err)
		}
	}
	return nil
}

// NewConfigFromViper unmarshals and validates
func NewConfigFromViper(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}
	if cfg.Logger.LogFile != "" {
		path, err := homedir.Expand(cfg.Logger.LogFile)
		if err != nil {
			return nil, fmt.Errorf("expand log file: %w", err)
		}
		cfg.Logger.LogFile = path
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return &cfg, nil
}

// Validate checks ranges
func (c *Config) Validate() error {
	if c.Scene.FPS <= 0 || c.Scene.FPS > 240 {
		return fmt.Errorf("scene.fps must be between 1 and 240")
	}
	if c.Scene.MaxDelta <= 0 {
		return fmt.Errorf("scene.max_delta must be positive")
	}
	if c.Scene.Stars <= 0 || c.Scene.StarsSmall <= 0 {
		return fmt.Errorf("scene.stars and scene.stars_small must be positive")
	}
	if c.Audio.Volume < 0 || c.Audio.Volume > 1 {
		return fmt.Errorf("audio.volume must be between 0 and 1")
	}
	if c.Audio.Backend != "speaker" && c.Audio.Backend != "pipe" {
		return fmt.Errorf("audio.backend must be speaker or pipe")
	}
	if c.Feed.Limit <= 0 {
		return fmt.Errorf("feed.limit must be positive")
	}
	if c.Server.MessageRate < 0 {
		return fmt.Errorf("server.message_rate must not be negative")
	}
	if len(c.Player.Command) == 0 || c.Player.Command[0] == "" {
		return fmt.Errorf("player.command must name an executable")
	}
	return nil
}

// FrameInterval is the loop period for the configured fps
func (s SceneConfig) FrameInterval() time.Duration {
	return time.Second / time.Duration(s.FPS)
}
