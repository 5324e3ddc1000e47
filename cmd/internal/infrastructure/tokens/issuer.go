package tokens

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

type Type string

const (
	TypeAccess  Type = "access"
	TypeRefresh Type = "refresh"
)

var (
	ErrInvalidToken   = errors.New("token is invalid")
	ErrWrongTokenType = errors.New("token has the wrong type")
)

// Claims are the registered JWT claims plus the token type.
// "sub" carries the user ID and "jti" identifies the token for blacklisting.
type Claims struct {
	Type Type `json:"typ"`
	jwt.RegisteredClaims
}

// UserID decodes the subject claim.
func (c *Claims) UserID() (int64, error) {
	id, err := strconv.ParseInt(c.Subject, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid subject %q: %w", c.Subject, ErrInvalidToken)
	}
	return id, nil
}

// ExpiresAtMillis returns the expiration in epoch milliseconds, 0 if absent.
func (c *Claims) ExpiresAtMillis() int64 {
	if c.ExpiresAt == nil {
		return 0
	}
	return c.ExpiresAt.UnixMilli()
}

type Pair struct {
	Access  string
	Refresh string
}

// Issuer signs and verifies HS256 access/refresh tokens.
type Issuer struct {
	secret     []byte
	accessTTL  time.Duration
	refreshTTL time.Duration
	now        func() time.Time
}

func NewIssuer(secret string, accessTTL, refreshTTL time.Duration) *Issuer {
	return &Issuer{
		secret:     []byte(secret),
		accessTTL:  accessTTL,
		refreshTTL: refreshTTL,
		now:        time.Now,
	}
}

func (i *Issuer) IssuePair(userID int64) (*Pair, error) {
	access, err := i.IssueAccess(userID)
	if err != nil {
		return nil, err
	}

	refresh, err := i.sign(userID, TypeRefresh, i.refreshTTL)
	if err != nil {
		return nil, err
	}
	return &Pair{Access: access, Refresh: refresh}, nil
}

func (i *Issuer) IssueAccess(userID int64) (string, error) {
	return i.sign(userID, TypeAccess, i.accessTTL)
}

// Parse verifies the signature and expiration of 'raw' and checks it is of type 'want'.
func (i *Issuer) Parse(raw string, want Type) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(raw, claims, i.keyFunc,
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(i.now),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidToken, err)
	}

	if !token.Valid || claims.ID == "" {
		return nil, ErrInvalidToken
	}

	if claims.Type != want {
		return nil, ErrWrongTokenType
	}
	return claims, nil
}

func (i *Issuer) sign(userID int64, typ Type, ttl time.Duration) (string, error) {
	now := i.now()
	claims := &Claims{
		Type: typ,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Subject:   strconv.FormatInt(userID, 10),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(i.secret)
	if err != nil {
		return "", fmt.Errorf("sign %s token: %w", typ, err)
	}
	return signed, nil
}

func (i *Issuer) keyFunc(token *jwt.Token) (any, error) {
	if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
		return nil, fmt.Errorf("unexpected signing method %v", token.Header["alg"])
	}
	return i.secret, nil
}
