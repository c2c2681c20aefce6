package auth

import (
	"errors"

	"github.com/golang-jwt/jwt/v5"
)

const tokenIssuer = "contactdesk"

var errNoSecret = errors.New("token signing secret is not configured")

// Claims is what an admin token carries
type Claims struct {
	Username string `json:"username"`
	jwt.RegisteredClaims
}

func (a *Authenticator) IssueToken(subject string) (string, error) {
	if len(a.secret) == 0 {
		return "", errNoSecret
	}

	now := a.now()
	claims := &Claims{
		Username: subject,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			Issuer:    tokenIssuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(a.ttl)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)

	return token.SignedString(a.secret)
}

// ParseToken validates signature, issuer and expiry and returns the claims.
func (a *Authenticator) ParseToken(tokenString string) (*Claims, error) {
	if len(a.secret) == 0 {
		return nil, errNoSecret
	}

	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return a.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(tokenIssuer),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(a.now),
	)
	if err != nil {
		return nil, err
	}

	if claims, ok := token.Claims.(*Claims); ok && token.Valid {
		return claims, nil
	}
	return nil, errors.New("invalid token")
}

// VerifyToken is a yes/no predicate; malformed, tampered and expired tokens
// all come back false.
func (a *Authenticator) VerifyToken(tokenString string) bool {
	if tokenString == "" {
		return false
	}
	_, err := a.ParseToken(tokenString)
	return err == nil
}
