package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v4"
)

var ErrNotJWT = errors.New("access key is not a JWT")

// KeyInfo - то, что видно в access key Supabase без проверки подписи.
type KeyInfo struct {
	Role      string
	Issuer    string
	ExpiresAt time.Time
}

func (k KeyInfo) Expired(now time.Time) bool {
	return !k.ExpiresAt.IsZero() && now.After(k.ExpiresAt)
}

// InspectAccessKey decodes the key's claims without verifying the signature.
// The server never trusts these values; they are only logged at startup.
func InspectAccessKey(key string) (KeyInfo, error) {
	if key == "" {
		return KeyInfo{}, ErrNotJWT
	}

	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(key, claims); err != nil {
		return KeyInfo{}, fmt.Errorf("%w: %v", ErrNotJWT, err)
	}

	info := KeyInfo{}
	info.Role, _ = claims["role"].(string)
	info.Issuer, _ = claims["iss"].(string)
	if exp, ok := claims["exp"].(float64); ok {
		info.ExpiresAt = time.Unix(int64(exp), 0)
	}
	return info, nil
}
