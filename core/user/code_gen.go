package user

import (
	"bytes"
	"crypto/hmac"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/binary"
	"fmt"
	"strconv"
	"time"

	"github.com/jaymarkubaran15-svg/memotrace/core"
)

const codeDigits = 6

var (
	salt    = []byte("memotrace.core.user.code_gen")
	NowFunc = time.Now // mockable
)

// MakeCode derives the 6-digit password reset verification code for a User.
// The code is HMAC-bound to the user's current password hash and last login,
// so it is invalidated by a successful reset, and to a time bucket the size
// of the configured reset timeout, so it expires on its own.
func MakeCode(usr User, conf *core.Config) (string, error) {
	return makeCodeWithBucket(usr, currentBucket(conf), conf)
}

// verifyCode checks a password reset verification code for a given User.
// The current and the immediately preceding time bucket are accepted, so a
// code stays usable for at least the configured timeout after issuance.
func verifyCode(usr User, code string, conf *core.Config) error {
	if len(code) != codeDigits {
		return ErrInvalidCode
	}
	if _, err := strconv.Atoi(code); err != nil {
		return ErrInvalidCode
	}

	bucket := currentBucket(conf)
	for _, b := range []int64{bucket, bucket - 1} {
		expected, err := makeCodeWithBucket(usr, b, conf)
		if err != nil {
			return err
		}
		if subtle.ConstantTimeCompare([]byte(expected), []byte(code)) == 1 {
			return nil
		}
	}
	return ErrInvalidCode
}

func currentBucket(conf *core.Config) int64 {
	timeout := conf.PasswordResetTimeout
	if timeout <= 0 {
		timeout = 15 * time.Minute
	}
	return NowFunc().Unix() / int64(timeout.Seconds())
}

func makeCodeWithBucket(usr User, bucket int64, conf *core.Config) (string, error) {
	key := sha256.Sum256(append(salt, conf.SecretKey...))
	h := hmac.New(sha256.New, key[:])
	if _, err := h.Write(hashValue(usr, bucket)); err != nil {
		return "", err
	}
	sum := h.Sum(nil)
	n := binary.BigEndian.Uint32(sum[:4]) % 1_000_000
	return fmt.Sprintf("%0*d", codeDigits, n), nil
}

func hashValue(usr User, bucket int64) []byte {
	var val bytes.Buffer
	val.WriteString(usr.ID)
	val.Write(usr.PasswordHash)
	if !usr.LastLogin.IsZero() {
		val.WriteString(usr.LastLogin.String())
	}
	val.WriteString(strconv.FormatInt(bucket, 10))
	return val.Bytes()
}
