package utils

import (
	"crypto/rand"
	"errors"
	"math/big"
	"strings"
)

const reservationCharset = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"

// GenerateReservationCode builds a human-readable reservation id such as
// "RES-7KQ2M9XT". crypto/rand with rand.Int avoids modulo bias; the charset
// drops easily confused characters (0/O, 1/I).
func GenerateReservationCode() (string, error) {
	code, err := randomCode(8)
	if err != nil {
		return "", err
	}
	return "RES-" + code, nil
}

func randomCode(n int) (string, error) {
	if n <= 0 {
		return "", errors.New("invalid code length")
	}
	var sb strings.Builder
	alphaLen := big.NewInt(int64(len(reservationCharset)))
	for i := 0; i < n; i++ {
		num, err := rand.Int(rand.Reader, alphaLen)
		if err != nil {
			return "", err
		}
		sb.WriteByte(reservationCharset[num.Int64()])
	}
	return sb.String(), nil
}
