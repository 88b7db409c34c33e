package security

import (
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

func TestAward_缺少JWT_SECRET应失败(t *testing.T) {
	t.Setenv("JWT_SECRET", "")
	if _, err := Award(1, false); err == nil {
		t.Fatalf("期望 JWT_SECRET 为空时 Award 返回错误")
	}
}

func TestAwardParse_正常签发并解析(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret-123")

	token, err := Award(42, true)
	if err != nil {
		t.Fatalf("Award err=%v", err)
	}
	if token == "" {
		t.Fatalf("期望 token 非空")
	}

	_, claims, err := ParseToken(token)
	if err != nil {
		t.Fatalf("ParseToken err=%v", err)
	}
	if claims == nil || claims.Pid != 42 || !claims.Bot {
		t.Fatalf("期望 claims.Pid==42 且 Bot, got=%v", claims)
	}
}

func TestParseToken_密钥不同应失败(t *testing.T) {
	t.Setenv("JWT_SECRET", "a")
	token, err := Award(7, false)
	if err != nil {
		t.Fatalf("Award err=%v", err)
	}
	t.Setenv("JWT_SECRET", "b")
	if _, _, err := ParseToken(token); err == nil {
		t.Fatalf("期望签名校验失败")
	}
}

func TestParseToken_玩家id非法(t *testing.T) {
	t.Setenv("JWT_SECRET", "x")
	token, _ := Award(0, false)
	if _, _, err := ParseToken(token); !errors.Is(err, ErrInvalidPlayer) {
		t.Fatalf("期望 pid<=0 被拒，实际 %v", err)
	}
}

func TestParseToken_过期与签发方(t *testing.T) {
	t.Setenv("JWT_SECRET", "k")
	expired, err := AwardFor(3, false, -time.Hour)
	if err != nil {
		t.Fatalf("AwardFor err=%v", err)
	}
	// ttl<=0 走默认值，不会过期
	if _, _, err := ParseToken(expired); err != nil {
		t.Fatalf("默认 ttl 令牌应有效: %v", err)
	}

	past := jwt.NewWithClaims(jwt.SigningMethodHS256, &Claims{
		Pid: 3,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    Issuer,
			Subject:   "3",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Minute)),
		},
	})
	s, _ := past.SignedString([]byte("k"))
	if _, _, err := ParseToken(s); !errors.Is(err, jwt.ErrTokenExpired) {
		t.Fatalf("期望过期错误，实际 %v", err)
	}

	other := jwt.NewWithClaims(jwt.SigningMethodHS256, &Claims{
		Pid: 3,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    "someone-else",
			Subject:   "3",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Minute)),
		},
	})
	s, _ = other.SignedString([]byte("k"))
	if _, _, err := ParseToken(s); err == nil {
		t.Fatalf("期望签发方不符被拒")
	}
}
