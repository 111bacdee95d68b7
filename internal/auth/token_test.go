package auth

import (
    "errors"
    "testing"
    "time"
)

func TestGenerateAndValidateToken(t *testing.T) {
    sec := "secret123"
    kid := "lane-1.north"
    exp := time.Now().Add(5 * time.Minute).Unix()

    tok, err := GenerateKioskToken(sec, kid, exp)
    if err != nil { t.Fatalf("gen: %v", err) }

    c, err := ValidateKioskToken(sec, tok, kid, time.Now(), 60)
    if err != nil { t.Fatalf("validate: %v", err) }
    if c.KioskID != kid || c.Exp != exp {
        t.Fatalf("mismatch: %+v", c)
    }

    // any kiosk accepted when none is expected
    if _, err := ValidateKioskToken(sec, tok, "", time.Now(), 60); err != nil {
        t.Fatalf("validate any: %v", err)
    }
}

func TestBadSignature(t *testing.T) {
    sec := "secret123"
    exp := time.Now().Add(5 * time.Minute).Unix()
    tok, _ := GenerateKioskToken(sec, "abc", exp)

    if _, err := ValidateKioskToken("other", tok, "abc", time.Now(), 60); !errors.Is(err, ErrTokenSig) {
        t.Fatalf("expected signature error, got %v", err)
    }

    // flip a char
    if tok[0] == 'A' {
        tok = "B" + tok[1:]
    } else {
        tok = "A" + tok[1:]
    }
    if _, err := ValidateKioskToken(sec, tok, "abc", time.Now(), 60); err == nil {
        t.Fatalf("expected error for bad token")
    }
}

func TestExpiryAndSkew(t *testing.T) {
    sec := "s"
    now := time.Unix(1_700_000_000, 0)
    tok, _ := IssueKioskToken(sec, "k", now, time.Minute)

    if _, err := ValidateKioskToken(sec, tok, "k", now.Add(90*time.Second), 60); err != nil {
        t.Fatalf("within skew: %v", err)
    }
    if _, err := ValidateKioskToken(sec, tok, "k", now.Add(3*time.Minute), 60); !errors.Is(err, ErrTokenExp) {
        t.Fatalf("expected expiry, got %v", err)
    }
}

func TestKioskMismatchAndFormat(t *testing.T) {
    sec := "s"
    tok, _ := GenerateKioskToken(sec, "k1", time.Now().Add(time.Minute).Unix())
    if _, err := ValidateKioskToken(sec, tok, "k2", time.Now(), 0); !errors.Is(err, ErrTokenKiosk) {
        t.Fatalf("expected kiosk mismatch, got %v", err)
    }
    for _, bad := range []string{"", "!!!", "bm9kb3Rz"} {
        if _, err := ValidateKioskToken(sec, bad, "", time.Now(), 0); !errors.Is(err, ErrTokenFormat) {
            t.Fatalf("%q: expected format error, got %v", bad, err)
        }
    }
    if _, err := GenerateKioskToken("", "k", 0); !errors.Is(err, ErrNoSecret) {
        t.Fatalf("expected missing secret")
    }
}
