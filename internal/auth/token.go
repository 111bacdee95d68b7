package auth

import (
    "crypto/hmac"
    "crypto/sha256"
    "encoding/base64"
    "encoding/hex"
    "errors"
    "strconv"
    "strings"
    "time"
)

var (
    ErrTokenFormat = errors.New("invalid token format")
    ErrTokenSig    = errors.New("invalid token signature")
    ErrTokenExp    = errors.New("token expired")
    ErrTokenKiosk  = errors.New("kiosk id mismatch")
    ErrNoSecret    = errors.New("token secret not configured")
)

// Claims are the fields carried by a kiosk token.
type Claims struct {
    KioskID string
    Exp     int64
}

func (c Claims) ExpiresAt() time.Time { return time.Unix(c.Exp, 0) }

// GenerateKioskToken signs a token for one kiosk.
// Format: base64url(kiosk_id + "." + exp_unix + "." + hex(hmac_sha256(secret, kiosk_id+"."+exp)))
// The kiosk id may itself contain dots.
func GenerateKioskToken(secret, kioskID string, expUnix int64) (string, error) {
    if secret == "" {
        return "", ErrNoSecret
    }
    if kioskID == "" {
        return "", ErrTokenFormat
    }
    msg := kioskID + "." + strconv.FormatInt(expUnix, 10)
    raw := msg + "." + sign(secret, msg)
    return base64.RawURLEncoding.EncodeToString([]byte(raw)), nil
}

// IssueKioskToken signs a token valid for ttl from now.
func IssueKioskToken(secret, kioskID string, now time.Time, ttl time.Duration) (string, error) {
    return GenerateKioskToken(secret, kioskID, now.Add(ttl).Unix())
}

// ValidateKioskToken checks signature and expiry. An empty expectKioskID
// accepts any kiosk. A token stays valid until exp plus skewSeconds.
func ValidateKioskToken(secret, token, expectKioskID string, now time.Time, skewSeconds int) (Claims, error) {
    if secret == "" {
        return Claims{}, ErrNoSecret
    }
    b, err := base64.RawURLEncoding.DecodeString(token)
    if err != nil {
        return Claims{}, ErrTokenFormat
    }
    s := string(b)
    sigAt := strings.LastIndexByte(s, '.')
    if sigAt <= 0 {
        return Claims{}, ErrTokenFormat
    }
    msg, sigHex := s[:sigAt], s[sigAt+1:]
    expAt := strings.LastIndexByte(msg, '.')
    if expAt <= 0 {
        return Claims{}, ErrTokenFormat
    }
    kiosk, expStr := msg[:expAt], msg[expAt+1:]
    exp, err := strconv.ParseInt(expStr, 10, 64)
    if err != nil {
        return Claims{}, ErrTokenFormat
    }
    got, err := hex.DecodeString(sigHex)
    if err != nil {
        return Claims{}, ErrTokenFormat
    }
    want, _ := hex.DecodeString(sign(secret, msg))
    // constant-time compare
    if !hmac.Equal(want, got) {
        return Claims{}, ErrTokenSig
    }
    if expectKioskID != "" && kiosk != expectKioskID {
        return Claims{}, ErrTokenKiosk
    }
    if now.Unix() > exp+int64(skewSeconds) {
        return Claims{}, ErrTokenExp
    }
    return Claims{KioskID: kiosk, Exp: exp}, nil
}

func sign(secret, msg string) string {
    mac := hmac.New(sha256.New, []byte(secret))
    mac.Write([]byte(msg))
    return hex.EncodeToString(mac.Sum(nil))
}
