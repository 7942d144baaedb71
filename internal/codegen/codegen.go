// Package codegen produces random grant codes like "7K2F-QX91-AB3D-Z8M4".
package codegen

import (
	"crypto/rand"
	"math/big"
	"strings"
)

const alphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

const groupLen = 4

// Generate returns a random code of the given number of dash-separated
// four-character groups.
func Generate(groups int) string {
	if groups <= 0 {
		groups = 4
	}
	parts := make([]string, groups)
	for i := range parts {
		parts[i] = randomGroup()
	}
	return strings.Join(parts, "-")
}

func randomGroup() string {
	b := make([]byte, groupLen)
	limit := big.NewInt(int64(len(alphabet)))
	for i := range b {
		n, err := rand.Int(rand.Reader, limit)
		if err != nil {
			// crypto/rand only fails when the OS entropy source is broken.
			panic(err)
		}
		b[i] = alphabet[n.Int64()]
	}
	return string(b)
}
