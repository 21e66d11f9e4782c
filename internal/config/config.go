package config

import (
	"errors"
	"fmt"
	"time"

	"quiz_duel/internal/duel"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

type Config struct {
	AppPort       string   `env:"APP_PORT" envDefault:"8080"`
	DatabaseURL   string   `env:"DATABASE_URL"`
	RedisURL      string   `env:"REDIS_URL"`
	JWTSecret     string   `env:"JWT_SECRET,required,notEmpty"`
	LobbyKey      string   `env:"LOBBY_KEY"`
	AllowedOrigin string   `env:"ALLOWED_ORIGIN"`
	QuestionsFile string   `env:"QUESTIONS_FILE"`
	Subjects      []string `env:"SUBJECTS" envSeparator:","`
	LogLevel      string   `env:"LOG_LEVEL" envDefault:"info"`
	LogFormat     string   `env:"LOG_FORMAT" envDefault:"text"`

	PoolCacheTTL time.Duration `env:"POOL_CACHE_TTL" envDefault:"10m"`
	PoolTimeout  time.Duration `env:"POOL_TIMEOUT" envDefault:"5s"`

	Duel DuelConfig
}

// политика дуэли, все значения фиксированы на время жизни процесса
type DuelConfig struct {
	MaxHP          int `env:"MAX_HP" envDefault:"100"`
	Damage         int `env:"DAMAGE" envDefault:"20"`
	HandSize       int `env:"HAND_SIZE" envDefault:"5"`
	DeckSize       int `env:"DECK_SIZE" envDefault:"15"`
	MaxDiceTies    int `env:"MAX_DICE_TIES" envDefault:"5"`
	MaxIdleStrikes int `env:"MAX_IDLE_STRIKES" envDefault:"3"`

	RPSCountdown    time.Duration `env:"RPS_COUNTDOWN" envDefault:"3s"`
	RPSWindow       time.Duration `env:"RPS_WINDOW" envDefault:"10s"`
	SubjectWindow   time.Duration `env:"SUBJECT_WINDOW" envDefault:"30s"`
	DeckWindow      time.Duration `env:"DECK_WINDOW" envDefault:"90s"`
	DiceWindow      time.Duration `env:"DICE_WINDOW" envDefault:"15s"`
	SummonWindow    time.Duration `env:"SUMMON_WINDOW" envDefault:"30s"`
	AnswerWindow    time.Duration `env:"ANSWER_WINDOW" envDefault:"20s"`
	DisconnectGrace time.Duration `env:"DISCONNECT_GRACE" envDefault:"30s"`
	IdleTimeout     time.Duration `env:"IDLE_TIMEOUT" envDefault:"120s"`
	LingerTimeout   time.Duration `env:"LINGER_TIMEOUT" envDefault:"30s"`
}

// Load читает .env (если есть) и переменные окружения
func Load() (*Config, error) {
	// .env не обязателен, в проде всё приходит из окружения
	_ = godotenv.Load()

	cfg, err := env.ParseAs[Config]()
	if err != nil {
		return nil, fmt.Errorf("parsing environment: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) Validate() error {
	if c.DatabaseURL == "" && c.QuestionsFile == "" {
		return errors.New("config: DATABASE_URL or QUESTIONS_FILE is required")
	}
	d := c.Duel
	if d.MaxHP <= 0 || d.Damage <= 0 {
		return errors.New("config: MAX_HP and DAMAGE must be positive")
	}
	if d.HandSize <= 0 || d.DeckSize < d.HandSize {
		return fmt.Errorf("config: DECK_SIZE (%d) must be at least HAND_SIZE (%d)", d.DeckSize, d.HandSize)
	}
	if d.AnswerWindow <= 0 || d.SummonWindow <= 0 || d.DisconnectGrace <= 0 {
		return errors.New("config: answer, summon and grace windows must be positive")
	}
	if longest := c.Policy().LongestWindow(); d.IdleTimeout <= longest {
		return fmt.Errorf("config: IDLE_TIMEOUT (%s) must be longer than the longest phase window (%s)", d.IdleTimeout, longest)
	}
	return nil
}

// Policy переводит конфиг в политику автомата
func (c *Config) Policy() duel.Policy {
	d := c.Duel
	return duel.Policy{
		MaxHP:           d.MaxHP,
		Damage:          d.Damage,
		HandSize:        d.HandSize,
		DeckSize:        d.DeckSize,
		MaxDiceTies:     d.MaxDiceTies,
		MaxIdleStrikes:  d.MaxIdleStrikes,
		RPSCountdown:    d.RPSCountdown,
		RPSWindow:       d.RPSWindow,
		SubjectWindow:   d.SubjectWindow,
		DeckWindow:      d.DeckWindow,
		DiceWindow:      d.DiceWindow,
		SummonWindow:    d.SummonWindow,
		AnswerWindow:    d.AnswerWindow,
		DisconnectGrace: d.DisconnectGrace,
		IdleTimeout:     d.IdleTimeout,
		LingerTimeout:   d.LingerTimeout,
		Subjects:        append([]string(nil), c.Subjects...),
	}
}
