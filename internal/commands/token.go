package commands

import (
	"crypto/rsa"
	"os"
	"time"

	"github.com/dgrijalva/jwt-go"
	"github.com/pkg/errors"

	"intelliface/backend/internal/auth"
)

// Token lifetimes. The refresh token only buys a new pair, it is never
// accepted by the middleware directly.
const (
	AccessTokenTTL  = 24 * time.Hour
	RefreshTokenTTL = 7 * 24 * time.Hour
)

// GenToken issues an RS256 signed access/refresh pair for the user.
func GenToken(userID int, role string, privateKeyPath string) (string, string, error) {
	key, err := loadKey(privateKeyPath)
	if err != nil {
		return "", "", err
	}

	now := time.Now()

	accessClaims := auth.Claims{
		UserId: userID,
		Role:   role,
		StandardClaims: jwt.StandardClaims{
			IssuedAt:  now.Unix(),
			ExpiresAt: now.Add(AccessTokenTTL).Unix(),
		},
	}
	access, err := jwt.NewWithClaims(jwt.SigningMethodRS256, accessClaims).SignedString(key)
	if err != nil {
		return "", "", errors.Wrap(err, "signing access token")
	}

	refreshClaims := auth.Claims{
		UserId: userID,
		Role:   role,
		StandardClaims: jwt.StandardClaims{
			IssuedAt:  now.Unix(),
			ExpiresAt: now.Add(RefreshTokenTTL).Unix(),
			Subject:   "refresh",
		},
	}
	refresh, err := jwt.NewWithClaims(jwt.SigningMethodRS256, refreshClaims).SignedString(key)
	if err != nil {
		return "", "", errors.Wrap(err, "signing refresh token")
	}

	return access, refresh, nil
}

// VerifyRefreshToken checks the refresh token's signature and expiry and
// returns its claims for reissuing a pair.
func VerifyRefreshToken(refreshToken, privateKeyPath string) (auth.Claims, error) {
	key, err := loadKey(privateKeyPath)
	if err != nil {
		return auth.Claims{}, err
	}

	var claims auth.Claims

	token, err := jwt.ParseWithClaims(refreshToken, &claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodRSA); !ok {
			return nil, errors.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return &key.PublicKey, nil
	})
	if err != nil {
		return auth.Claims{}, errors.Wrap(err, "parsing refresh token")
	}
	if !token.Valid {
		return auth.Claims{}, errors.New("invalid refresh token")
	}
	if claims.Subject != "refresh" {
		return auth.Claims{}, errors.New("not a refresh token")
	}

	return claims, nil
}

func loadKey(privateKeyPath string) (*rsa.PrivateKey, error) {
	pem, err := os.ReadFile(privateKeyPath)
	if err != nil {
		return nil, errors.Wrap(err, "reading private key")
	}

	key, err := jwt.ParseRSAPrivateKeyFromPEM(pem)
	if err != nil {
		return nil, errors.Wrap(err, "parsing private key")
	}

	return key, nil
}
