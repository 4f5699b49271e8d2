// Package util holds random input generators for tests.
package util

import (
	"math"
	"math/rand"
	"strings"
)

const alphabet = "abcdefghijklmnopqrstuvwxyz"

// RandomInt generates a random integer between min and max
func RandomInt(min, max int) int {
	return min + rand.Intn(max-min+1)
}

// RandomFloat generates a random float in [min, max)
func RandomFloat(min, max float64) float64 {
	return min + rand.Float64()*(max-min)
}

// RandomString generates a random string of length n
func RandomString(n int) string {
	var sb strings.Builder
	k := len(alphabet)

	for i := 0; i < n; i++ {
		c := alphabet[rand.Intn(k)]
		sb.WriteByte(c)
	}

	return sb.String()
}

// RandomScenario generates a random scenario name
func RandomScenario() string {
	return RandomString(8)
}

// RandomSeed generates a random generator seed
func RandomSeed() uint64 {
	return rand.Uint64()
}

// RandomPath generates a positive price path of n steps starting at s0
func RandomPath(s0 float64, n int) []float64 {
	path := make([]float64, n+1)
	path[0] = s0
	for i := 1; i <= n; i++ {
		path[i] = path[i-1] * math.Exp(0.1*rand.NormFloat64())
	}
	return path
}
