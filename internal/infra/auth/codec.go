package auth

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/xela07ax/crm-backend/internal/domain"
)

const tokenIssuer = "crm-backend"

// TokenCodec подписывает и проверяет access-токены симметричным ключом.
// Ключ и алгоритм фиксируются при создании и не меняются в рантайме.
type TokenCodec struct {
	secret []byte
	method *jwt.SigningMethodHMAC
}

// NewTokenCodec принимает имя алгоритма из семейства HMAC (HS256/HS384/HS512).
// Любой другой алгоритм — ошибка конфигурации, падаем сразу на старте.
func NewTokenCodec(secret, algorithm string) (*TokenCodec, error) {
	method, ok := jwt.GetSigningMethod(algorithm).(*jwt.SigningMethodHMAC)
	if !ok || method == nil {
		return nil, fmt.Errorf("unsupported signing algorithm: %q", algorithm)
	}
	if secret == "" {
		return nil, fmt.Errorf("signing secret is empty")
	}
	return &TokenCodec{secret: []byte(secret), method: method}, nil
}

// Encode проставляет служебные клеймы (exp/iat/iss/jti) и подписывает токен.
// exp = now(UTC) + ttlMinutes; срок жизни выставляется всегда.
func (c *TokenCodec) Encode(claims *domain.AccessClaims, ttlMinutes int) (string, error) {
	now := time.Now().UTC()
	claims.ExpiresAt = jwt.NewNumericDate(now.Add(time.Duration(ttlMinutes) * time.Minute))
	claims.IssuedAt = jwt.NewNumericDate(now)
	claims.Issuer = tokenIssuer
	claims.RegisteredClaims.ID = uuid.NewString()

	token := jwt.NewWithClaims(c.method, claims)
	signed, err := token.SignedString(c.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}

// Decode проверяет подпись, алгоритм и срок жизни токена.
// Любой отказ схлопывается в ErrInvalidToken — причину наружу не отдаем.
func (c *TokenCodec) Decode(tokenStr string) (*domain.AccessClaims, error) {
	token, err := jwt.ParseWithClaims(tokenStr, &domain.AccessClaims{}, func(token *jwt.Token) (interface{}, error) {
		// Защита от подмены алгоритма: принимаем строго сконфигурированный метод
		if token.Method.Alg() != c.method.Alg() {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return c.secret, nil
	})
	if err != nil || !token.Valid {
		return nil, domain.ErrInvalidToken
	}

	claims, ok := token.Claims.(*domain.AccessClaims)
	if !ok {
		return nil, domain.ErrInvalidToken
	}
	return claims, nil
}
