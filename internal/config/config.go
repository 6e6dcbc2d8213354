package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
)

const EnvProduction = "production"

type Config struct {
	Server    ServerConfig
	Redis     RedisConfig
	Storage   StorageConfig
	Retention RetentionConfig
	Braille   BrailleConfig
	OCR       OCRConfig
	TTS       TTSConfig `envPrefix:"TTS_"`
	RateLimit RateLimitConfig
}

type ServerConfig struct {
	Host        string   `env:"HOST" envDefault:"0.0.0.0"`
	Port        int      `env:"PORT" envDefault:"5000"`
	Env         string   `env:"APP_ENV" envDefault:"development"`
	CORSOrigins []string `env:"CORS_ORIGINS" envDefault:"*" envSeparator:","`
}

// RedisConfig points at the optional audio cache. An empty URL disables caching.
type RedisConfig struct {
	URL string `env:"REDIS_URL"`
}

type StorageConfig struct {
	StaticDir      string `env:"STATIC_DIR" envDefault:"static"`
	UploadBucket   string `env:"UPLOAD_BUCKET" envDefault:"uploads"`
	AudioBucket    string `env:"AUDIO_BUCKET" envDefault:"audio"`
	MaxUploadBytes int64  `env:"MAX_UPLOAD_BYTES" envDefault:"10485760"`
}

type RetentionConfig struct {
	Window   time.Duration `env:"RETENTION_WINDOW" envDefault:"1h"`
	Schedule string        `env:"SWEEP_SCHEDULE" envDefault:"@every 1h"`
}

type BrailleConfig struct {
	MemoSize int `env:"BRAILLE_MEMO_SIZE" envDefault:"128"`
}

type OCRConfig struct {
	Languages []string `env:"OCR_LANGUAGES" envDefault:"hin+eng+tam+spa" envSeparator:"+"`
}

type TTSConfig struct {
	OnlineBackend  string        `env:"ONLINE_BACKEND" envDefault:"gtts"`    // "gtts" or "openai"
	OfflineBackend string        `env:"OFFLINE_BACKEND" envDefault:"espeak"` // "espeak" or "piper"
	MaxAttempts    int           `env:"MAX_ATTEMPTS" envDefault:"3"`
	RetryBackoff   time.Duration `env:"RETRY_BACKOFF" envDefault:"1s"`
	AttemptTimeout time.Duration `env:"ATTEMPT_TIMEOUT" envDefault:"20s"`
	CacheTTL       time.Duration `env:"CACHE_TTL" envDefault:"1h"`

	GTTSBaseURL string `env:"GTTS_BASE_URL" envDefault:"https://translate.google.com"`
	GTTSRPM     int    `env:"GTTS_RPM" envDefault:"50"`

	OpenAIKey     string `env:"OPENAI_API_KEY,unset"`
	OpenAIBaseURL string `env:"OPENAI_BASE_URL"`
	OpenAIModel   string `env:"OPENAI_MODEL" envDefault:"tts-1"`
	OpenAIVoice   string `env:"OPENAI_VOICE" envDefault:"alloy"`

	EspeakBin  string `env:"ESPEAK_BIN" envDefault:"espeak-ng"`
	PiperBin   string `env:"PIPER_BIN" envDefault:"piper"`
	PiperModel string `env:"PIPER_MODEL"`
	FFmpegBin  string `env:"FFMPEG_BIN" envDefault:"ffmpeg"`
}

type RateLimitConfig struct {
	RPS   float64 `env:"RATE_LIMIT_RPS" envDefault:"5"`
	Burst int     `env:"RATE_LIMIT_BURST" envDefault:"10"`
}

func Load() (*Config, error) {
	cfg, err := env.ParseAs[Config]()
	if err != nil {
		return nil, fmt.Errorf("parse environment: %w", err)
	}
	return &cfg, nil
}

func (c *Config) Addr() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}

// Production reports whether the in-process sweeper should stay off.
func (c *Config) Production() bool {
	return strings.EqualFold(c.Server.Env, EnvProduction)
}

func (c *Config) Validate() error {
	var problems []string
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		problems = append(problems, fmt.Sprintf("PORT out of range: %d", c.Server.Port))
	}
	if c.Storage.MaxUploadBytes <= 0 {
		problems = append(problems, "MAX_UPLOAD_BYTES must be positive")
	}
	if c.TTS.MaxAttempts < 1 {
		problems = append(problems, "TTS_MAX_ATTEMPTS must be at least 1")
	}
	if c.Braille.MemoSize < 1 {
		problems = append(problems, "BRAILLE_MEMO_SIZE must be at least 1")
	}
	switch c.TTS.OnlineBackend {
	case "gtts":
	case "openai":
		if c.TTS.OpenAIKey == "" {
			problems = append(problems, "TTS_OPENAI_API_KEY is required for TTS_ONLINE_BACKEND=openai")
		}
	default:
		problems = append(problems, fmt.Sprintf("unknown TTS_ONLINE_BACKEND %q", c.TTS.OnlineBackend))
	}
	switch c.TTS.OfflineBackend {
	case "espeak":
	case "piper":
		if c.TTS.PiperModel == "" {
			problems = append(problems, "TTS_PIPER_MODEL is required for TTS_OFFLINE_BACKEND=piper")
		}
	default:
		problems = append(problems, fmt.Sprintf("unknown TTS_OFFLINE_BACKEND %q", c.TTS.OfflineBackend))
	}
	if len(problems) > 0 {
		return fmt.Errorf("invalid configuration: %s", strings.Join(problems, "; "))
	}
	return nil
}
