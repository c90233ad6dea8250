package entity

import (
	"errors"
	"fmt"
	"math/rand"
	"strings"
	"unicode"
)

const MaxNameLength = 16

var ErrInvalidName = errors.New("display name must contain letters or digits")

type PlayerIdentity struct {
	ID          string `json:"id"`
	DisplayName string `json:"name"`
}

// SanitizeName keeps ASCII letters and digits and cuts the result to MaxNameLength.
func SanitizeName(raw string) string {
	var b strings.Builder
	for _, r := range raw {
		if r > unicode.MaxASCII || !(unicode.IsLetter(r) || unicode.IsDigit(r)) {
			continue
		}

		b.WriteRune(r)
		if b.Len() == MaxNameLength {
			break
		}
	}

	return b.String()
}

// NewPlayerIdentity derives the peer id as the sanitized name plus three random digits.
func NewPlayerIdentity(rawName string, rnd *rand.Rand) (PlayerIdentity, error) {
	name := SanitizeName(rawName)
	if name == "" {
		return PlayerIdentity{}, ErrInvalidName
	}

	suffix := 100 + rnd.Intn(900)

	return PlayerIdentity{
		ID:          fmt.Sprintf("%s%d", name, suffix),
		DisplayName: name,
	}, nil
}
