// Package auth implements the stateless bearer-token scheme: a signed
// JSON payload carrying identity and expiry, validated against the live
// admin row so permission changes and deletions take effect immediately.
package auth

import (
	"encoding/base64"
	"encoding/hex"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/pliu/unsent/internal/crypto"
	"github.com/pliu/unsent/internal/models"
)

const tokenTTL = 24 * time.Hour

var (
	ErrInvalidToken = errors.New("auth: invalid token")
	ErrTokenExpired = errors.New("auth: token expired")
)

// tokenPayload is the signed token body. The nonce decorrelates tokens
// issued in the same second for the same user; there is no server-side
// session table.
type tokenPayload struct {
	Username string `json:"username"`
	AdminID  int    `json:"admin_id"`
	Nonce    string `json:"nonce"`
	Exp      int64  `json:"exp"`
}

// AdminSource resolves admin ids to live rows at validation time.
type AdminSource interface {
	GetAdminByID(id int) (*models.Admin, error)
}

type TokenService struct {
	codec *crypto.Codec
	store AdminSource

	// now is a test seam.
	now func() time.Time
}

func NewTokenService(codec *crypto.Codec, store AdminSource) *TokenService {
	return &TokenService{codec: codec, store: store, now: time.Now}
}

// Issue returns a self-contained bearer token for the admin, valid for
// 24 hours: base64 of the payload JSON, a dot, and the hex signature.
func (s *TokenService) Issue(username string, adminID int) (string, error) {
	payload, err := json.Marshal(tokenPayload{
		Username: username,
		AdminID:  adminID,
		Nonce:    uuid.NewString(),
		Exp:      s.now().Add(tokenTTL).Unix(),
	})
	if err != nil {
		return "", err
	}

	signature := hex.EncodeToString(s.codec.Sign(payload))
	return base64.StdEncoding.EncodeToString(append(append(payload, '.'), signature...)), nil
}

// Validate checks the signature and expiry, then re-resolves the admin
// against the store. A deleted or renamed admin invalidates all of its
// outstanding tokens.
func (s *TokenService) Validate(token string) (*models.Admin, error) {
	decoded, err := base64.StdEncoding.DecodeString(token)
	if err != nil {
		return nil, ErrInvalidToken
	}

	// Split at the last dot: the payload JSON may contain dots (a
	// username like "j.doe"), the hex signature never does.
	dot := strings.LastIndex(string(decoded), ".")
	if dot < 0 {
		return nil, ErrInvalidToken
	}
	payload, sigHex := string(decoded[:dot]), string(decoded[dot+1:])
	signature, err := hex.DecodeString(sigHex)
	if err != nil {
		return nil, ErrInvalidToken
	}
	if !s.codec.Verify([]byte(payload), signature) {
		return nil, ErrInvalidToken
	}

	var p tokenPayload
	if err := json.Unmarshal([]byte(payload), &p); err != nil {
		return nil, ErrInvalidToken
	}
	if s.now().Unix() >= p.Exp {
		return nil, ErrTokenExpired
	}

	admin, err := s.store.GetAdminByID(p.AdminID)
	if err != nil {
		return nil, ErrInvalidToken
	}
	if admin.Username != p.Username {
		return nil, ErrInvalidToken
	}
	return admin, nil
}
