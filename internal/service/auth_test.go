package service

import (
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

func TestAuthRoundTrip(t *testing.T) {
	a := NewAuth("secret")
	token, err := a.IssueToken("alice", "Alice", time.Minute)
	if err != nil {
		t.Fatalf("IssueToken: %v", err)
	}
	claims, err := a.ParseToken(token)
	if err != nil {
		t.Fatalf("ParseToken: %v", err)
	}
	if claims.Subject != "alice" || claims.Name != "Alice" {
		t.Fatalf("неверные claims: %+v", claims)
	}
}

func TestAuthRejects(t *testing.T) {
	a := NewAuth("secret")

	expired, _ := a.IssueToken("alice", "", -time.Minute)
	foreign, _ := NewAuth("other").IssueToken("alice", "", time.Minute)
	noSubject, _ := a.IssueToken("", "", time.Minute)
	noExpiry, _ := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{Subject: "alice"}).SignedString([]byte("secret"))

	cases := map[string]string{
		"мусор":       "not-a-token",
		"просрочен":   expired,
		"чужой ключ":  foreign,
		"без subject": noSubject,
		"без exp":     noExpiry,
	}
	for name, token := range cases {
		t.Run(name, func(t *testing.T) {
			if _, err := a.ParseToken(token); !errors.Is(err, ErrInvalidToken) {
				t.Fatalf("ожидали ErrInvalidToken, получили %v", err)
			}
		})
	}
}
