// Package password wraps bcrypt behind the two operations the auth core
// needs. The digest is self-describing (algorithm id, cost, salt), so the
// work factor can be raised later without breaking stored records.
package password

import (
	"golang.org/x/crypto/bcrypt"
)

// Cost matches the work factor used for every stored credential.
const Cost = 10

// Hash produces a salted bcrypt digest of plaintext.
func Hash(plaintext string) (string, error) {
	h, err := bcrypt.GenerateFromPassword([]byte(plaintext), Cost)
	if err != nil {
		return "", err
	}
	return string(h), nil
}

// Verify reports whether plaintext matches digest.
func Verify(plaintext, digest string) bool {
	return bcrypt.CompareHashAndPassword([]byte(digest), []byte(plaintext)) == nil
}

// dummyDigest is a valid digest of an unguessable input. Comparing against it
// keeps credential checks doing bcrypt work even when no account matched, so
// response timing does not reveal whether an email exists.
var dummyDigest string

func init() {
	var err error
	dummyDigest, err = Hash("expenso-dummy-credential-4f1c9b")
	if err != nil {
		panic(err)
	}
}

// VerifyDummy burns the same bcrypt work as a real comparison and always
// reports false.
func VerifyDummy(plaintext string) bool {
	bcrypt.CompareHashAndPassword([]byte(dummyDigest), []byte(plaintext))
	return false
}
