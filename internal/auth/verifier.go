// Package auth holds the pluggable credential verification used by
// the registration and login finish-steps. The identity handlers only
// see the Verifier capability; which implementation runs is a config
// choice, so the placeholder check is never hard-coded into the
// ceremony's control flow.
package auth

import (
	"errors"

	"github.com/golang-jwt/jwt/v5"
)

// ErrCredentialMismatch is returned when a finish-step credential does
// not prove possession of the session's challenge.
var ErrCredentialMismatch = errors.New("credential mismatch")

// Verifier checks the credential presented by a finish-step against
// the challenge issued by the matching begin-step.
type Verifier interface {
	VerifyRegistration(challenge, credential string) error
	VerifyLogin(challenge, credential string) error
}

// Verifier mode names accepted by New.
const (
	ModeEcho      = "echo"
	ModeAssertion = "assertion"
)

// New selects a verifier implementation by name. Unknown modes fall
// back to the echo placeholder so a misconfigured dev environment
// still boots.
func New(mode, secret string) Verifier {
	if mode == ModeAssertion {
		return &AssertionVerifier{Secret: secret}
	}
	return &EchoVerifier{}
}

// EchoVerifier is the test/placeholder implementation: the credential
// must echo the server-issued challenge verbatim. It stands in for
// real signature verification.
type EchoVerifier struct{}

func (v *EchoVerifier) VerifyRegistration(challenge, credential string) error {
	return v.verify(challenge, credential)
}

func (v *EchoVerifier) VerifyLogin(challenge, credential string) error {
	return v.verify(challenge, credential)
}

func (v *EchoVerifier) verify(challenge, credential string) error {
	if credential == "" || credential != challenge {
		return ErrCredentialMismatch
	}
	return nil
}

// AssertionVerifier is the production-shaped implementation: the
// credential is a compact signed assertion (HS256 JWT) whose
// "challenge" claim must equal the session challenge. Swapping in a
// public-key WebAuthn check later only means replacing this type.
type AssertionVerifier struct {
	Secret string
}

func (v *AssertionVerifier) VerifyRegistration(challenge, credential string) error {
	return v.verify(challenge, credential)
}

func (v *AssertionVerifier) VerifyLogin(challenge, credential string) error {
	return v.verify(challenge, credential)
}

func (v *AssertionVerifier) verify(challenge, credential string) error {
	tok, err := jwt.Parse(credential, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrCredentialMismatch
		}
		return []byte(v.Secret), nil
	})
	if err != nil || !tok.Valid {
		return ErrCredentialMismatch
	}
	claims, ok := tok.Claims.(jwt.MapClaims)
	if !ok {
		return ErrCredentialMismatch
	}
	got, _ := claims["challenge"].(string)
	if got == "" || got != challenge {
		return ErrCredentialMismatch
	}
	return nil
}
