package common

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strconv"
	"strings"
)

var ErrMalformedAuthorization = fmt.Errorf("malformed authorization")

// Authorization is the parsed form of the Authorization header sent with
// every judge request.
type Authorization struct {
	AccountID string
	Timestamp int64
	Path      string
	Method    string
	Signature string
}

func (a *Authorization) String() string {
	return a.AccountID + " " + strconv.FormatInt(a.Timestamp, 10) + " " +
		a.Path + " " + a.Method + " " + a.Signature
}

// SignMessage returns the lowercase hex HMAC-SHA256 of
// accountID ++ timestamp ++ path ++ method keyed by secretKey.
func SignMessage(accountID string, timestamp int64, path string, method string, secretKey []byte) string {
	h := hmac.New(sha256.New, secretKey)
	h.Write([]byte(accountID))
	h.Write([]byte(strconv.FormatInt(timestamp, 10)))
	h.Write([]byte(path))
	h.Write([]byte(method))
	return hex.EncodeToString(h.Sum(nil))
}

func SignAuthorization(accountID string, timestamp int64, path string, method string, secretKey []byte) *Authorization {
	return &Authorization{
		AccountID: accountID,
		Timestamp: timestamp,
		Path:      path,
		Method:    method,
		Signature: SignMessage(accountID, timestamp, path, method, secretKey),
	}
}

func ParseAuthorization(header string) (*Authorization, error) {
	fields := strings.Split(header, " ")
	if len(fields) != 5 {
		return nil, ErrMalformedAuthorization
	}
	ts, err := strconv.ParseInt(fields[1], 10, 64)
	if err != nil {
		return nil, fmt.Errorf("%w: bad timestamp %q", ErrMalformedAuthorization, fields[1])
	}
	return &Authorization{
		AccountID: fields[0],
		Timestamp: ts,
		Path:      fields[2],
		Method:    fields[3],
		Signature: fields[4],
	}, nil
}

// CheckAuthorization reports whether the signature of a matches the one
// recomputed with secretKey. Freshness of the timestamp is up to the caller.
func CheckAuthorization(a *Authorization, secretKey []byte) bool {
	expected := SignMessage(a.AccountID, a.Timestamp, a.Path, a.Method, secretKey)
	return hmac.Equal([]byte(expected), []byte(a.Signature))
}
