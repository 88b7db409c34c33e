package security

import (
	"errors"
	"os"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var (
	ErrJWTSecretMissing = errors.New("JWT_SECRET is not set")
	ErrInvalidPlayer    = errors.New("token carries no valid player id")
)

const (
	Issuer          = "navalwar"
	DefaultTokenTTL = 7 * 24 * time.Hour
)

// Claims 会话令牌，Pid 是进入世界后的玩家 id，Subject 与之相同。
type Claims struct {
	Pid int  `json:"pid"`
	Bot bool `json:"bot,omitempty"`
	jwt.RegisteredClaims
}

func jwtSecret() ([]byte, error) {
	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		return nil, ErrJWTSecretMissing
	}
	return []byte(secret), nil
}

func Award(pid int, bot bool) (string, error) {
	return AwardFor(pid, bot, DefaultTokenTTL)
}

// AwardFor ttl<=0 时用默认 7 天。
func AwardFor(pid int, bot bool, ttl time.Duration) (string, error) {
	key, err := jwtSecret()
	if err != nil {
		return "", err
	}
	if ttl <= 0 {
		ttl = DefaultTokenTTL
	}

	now := time.Now()
	claims := &Claims{
		Pid: pid,
		Bot: bot,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    Issuer,
			Subject:   strconv.Itoa(pid),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(key)
}

// ParseToken 只接受 HS256 且 issuer 为 navalwar 的令牌。
func ParseToken(tokenStr string) (*jwt.Token, *Claims, error) {
	key, err := jwtSecret()
	if err != nil {
		return nil, nil, err
	}

	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenStr, claims,
		func(*jwt.Token) (any, error) { return key, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(Issuer),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		return nil, nil, err
	}
	if claims.Pid <= 0 || claims.Subject != strconv.Itoa(claims.Pid) {
		return nil, nil, ErrInvalidPlayer
	}
	return token, claims, nil
}
