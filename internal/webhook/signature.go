package webhook

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"strconv"
	"strings"
	"time"
)

var (
	ErrMalformedSignature = errors.New("malformed signature header")
	ErrSignatureMismatch  = errors.New("signature mismatch")
	ErrSignatureExpired   = errors.New("signature timestamp outside tolerance")
)

// DefaultTolerance bounds how old a signed delivery may be when verified
const DefaultTolerance = 5 * time.Minute

// Sign produces the value of SignatureHeader: "t=<unix>,v1=<hex hmac>".
// The MAC covers "<unix>." followed by the raw payload.
func Sign(secret string, at time.Time, payload []byte) string {
	ts := strconv.FormatInt(at.Unix(), 10)
	return "t=" + ts + ",v1=" + hex.EncodeToString(mac(secret, ts, payload))
}

// Verify checks a SignatureHeader value against payload. A zero tolerance
// skips the timestamp check.
func Verify(secret string, payload []byte, header string, tolerance time.Duration, now time.Time) error {
	ts, sig, err := parseSignature(header)
	if err != nil {
		return err
	}

	got, err := hex.DecodeString(sig)
	if err != nil {
		return ErrMalformedSignature
	}
	if !hmac.Equal(got, mac(secret, ts, payload)) {
		return ErrSignatureMismatch
	}

	if tolerance > 0 {
		unix, _ := strconv.ParseInt(ts, 10, 64)
		age := now.Sub(time.Unix(unix, 0))
		if age > tolerance || age < -tolerance {
			return ErrSignatureExpired
		}
	}
	return nil
}

func mac(secret, ts string, payload []byte) []byte {
	h := hmac.New(sha256.New, []byte(secret))
	h.Write([]byte(ts))
	h.Write([]byte{'.'})
	h.Write(payload)
	return h.Sum(nil)
}

func parseSignature(header string) (ts, sig string, err error) {
	for _, part := range strings.Split(header, ",") {
		k, v, ok := strings.Cut(strings.TrimSpace(part), "=")
		if !ok {
			return "", "", ErrMalformedSignature
		}
		switch k {
		case "t":
			ts = v
		case "v1":
			sig = v
		}
	}
	if ts == "" || sig == "" {
		return "", "", ErrMalformedSignature
	}
	if _, err := strconv.ParseInt(ts, 10, 64); err != nil {
		return "", "", ErrMalformedSignature
	}
	return ts, sig, nil
}
