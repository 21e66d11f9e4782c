package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("JWT_SECRET", "secret")
	t.Setenv("QUESTIONS_FILE", "questions.json")
	t.Setenv("SUBJECTS", "geo,math")
	t.Setenv("ANSWER_WINDOW", "12s")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.AppPort != "8080" || cfg.Duel.Damage != 20 || cfg.Duel.DeckSize != 15 {
		t.Fatalf("неверные значения по умолчанию: %+v", cfg)
	}
	if cfg.Duel.IdleTimeout != 120*time.Second {
		t.Fatalf("IDLE_TIMEOUT по умолчанию: %v", cfg.Duel.IdleTimeout)
	}
	if cfg.Duel.AnswerWindow != 12*time.Second {
		t.Fatalf("ANSWER_WINDOW не прочитан: %v", cfg.Duel.AnswerWindow)
	}

	p := cfg.Policy()
	if p.MaxHP != 100 || p.HandSize != 5 || len(p.Subjects) != 2 || p.Subjects[1] != "math" {
		t.Fatalf("неверная политика: %+v", p)
	}
}

func TestLoadRequiresSecret(t *testing.T) {
	t.Setenv("JWT_SECRET", "")
	t.Setenv("QUESTIONS_FILE", "questions.json")
	if _, err := Load(); err == nil {
		t.Fatalf("без JWT_SECRET конфиг невалиден")
	}
}

func TestValidate(t *testing.T) {
	t.Setenv("JWT_SECRET", "secret")
	t.Setenv("QUESTIONS_FILE", "questions.json")
	t.Setenv("DECK_SIZE", "3")
	if _, err := Load(); err == nil {
		t.Fatalf("колода меньше руки должна быть отклонена")
	}
}

func TestValidateIdleTimeout(t *testing.T) {
	t.Setenv("JWT_SECRET", "secret")
	t.Setenv("QUESTIONS_FILE", "questions.json")

	// окно колоды по умолчанию 90s
	t.Setenv("IDLE_TIMEOUT", "60s")
	if _, err := Load(); err == nil {
		t.Fatalf("простой короче окна колоды должен быть отклонён")
	}
	t.Setenv("IDLE_TIMEOUT", "90s")
	if _, err := Load(); err == nil {
		t.Fatalf("простой, равный окну колоды, должен быть отклонён")
	}

	t.Setenv("IDLE_TIMEOUT", "91s")
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Duel.IdleTimeout != 91*time.Second {
		t.Fatalf("IDLE_TIMEOUT не прочитан: %v", cfg.Duel.IdleTimeout)
	}
}
