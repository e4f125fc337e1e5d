package service

import (
	"crypto/rand"
	"fmt"
	"math/big"
)

const (
	groupRefAlphabet = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZ"
	groupRefLength   = 9
)

// NewGroupRef returns a short uppercase base-36 reference shared by every
// reservation of one request. It is the human-facing prefix of all sequence
// IDs, so it stays short enough to read out loud.
func NewGroupRef() string {
	buf := make([]byte, groupRefLength)
	max := big.NewInt(int64(len(groupRefAlphabet)))
	for i := range buf {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			// crypto/rand only fails when the platform source is broken;
			// there is no reasonable recovery mid-request.
			panic(fmt.Sprintf("group ref generation: %v", err))
		}
		buf[i] = groupRefAlphabet[n.Int64()]
	}
	return string(buf)
}

// SequenceID derives the per-slot reference from a group reference and a
// zero-based slot index. The ordinal suffix is 1-based.
func SequenceID(groupRef string, index int) string {
	return fmt.Sprintf("%s-%d", groupRef, index+1)
}
