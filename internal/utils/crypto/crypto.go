package crypto

import (
	"crypto/hmac"
	"crypto/sha1"
	"encoding/hex"
	"errors"
	"strconv"
	"time"

	"github.com/google/uuid"

	"storefront/internal/utils/logger"
)

var log = logger.New("crypto")

var ErrMissingPrivateKey = errors.New("image private key not configured")

// ImageAuth is handed to the browser so it can upload straight to the image service.
type ImageAuth struct {
	Token     string `json:"token"`
	Expire    int64  `json:"expire"`
	Signature string `json:"signature"`
	PublicKey string `json:"publicKey,omitempty"`
}

// ImageAuthSigner signs upload tokens with the image service private key:
// signature = hex(HMAC-SHA1(privateKey, token + expire)).
type ImageAuthSigner struct {
	publicKey  string
	privateKey []byte
	ttl        time.Duration
	now        func() time.Time
	newToken   func() string
}

func NewImageAuthSigner(publicKey, privateKey string, ttl time.Duration) (*ImageAuthSigner, error) {
	if privateKey == "" {
		return nil, ErrMissingPrivateKey
	}
	if ttl <= 0 {
		ttl = 30 * time.Minute
	}
	log.Info("Image auth signer ready (ttl %s)", ttl)
	return &ImageAuthSigner{
		publicKey:  publicKey,
		privateKey: []byte(privateKey),
		ttl:        ttl,
		now:        time.Now,
		newToken:   uuid.NewString,
	}, nil
}

func (s *ImageAuthSigner) signature(token string, expire int64) string {
	h := hmac.New(sha1.New, s.privateKey)
	h.Write([]byte(token + strconv.FormatInt(expire, 10)))
	return hex.EncodeToString(h.Sum(nil))
}

// Sign issues a fresh token valid for the signer's ttl.
func (s *ImageAuthSigner) Sign() ImageAuth {
	token := s.newToken()
	expire := s.now().Add(s.ttl).Unix()
	return ImageAuth{
		Token:     token,
		Expire:    expire,
		Signature: s.signature(token, expire),
		PublicKey: s.publicKey,
	}
}
