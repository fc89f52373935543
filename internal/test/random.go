package test

import (
	"math/rand"
	"sync"
	"time"
)

const nameAlphabet = "abcdefghijklmnopqrstuvwxyz"

var (
	rngMu sync.Mutex
	rng   = rand.New(rand.NewSource(time.Now().UnixNano()))
)

// RandomName returns a capitalised lowercase word of length in [minLen, maxLen].
func RandomName(minLen, maxLen int) string {
	if minLen <= 0 {
		minLen = 1
	}
	if maxLen < minLen {
		maxLen = minLen
	}
	buf := make([]byte, minLen+intn(maxLen-minLen+1))
	for i := range buf {
		buf[i] = nameAlphabet[intn(len(nameAlphabet))]
	}
	buf[0] -= 'a' - 'A'
	return string(buf)
}

// RandomSubject mimics an identity provider subject such as "google-oauth2|4821...".
func RandomSubject() string {
	digits := make([]byte, 12)
	for i := range digits {
		digits[i] = byte('0' + intn(10))
	}
	return "oauth2|" + string(digits)
}

func intn(n int) int {
	rngMu.Lock()
	defer rngMu.Unlock()
	return rng.Intn(n)
}
