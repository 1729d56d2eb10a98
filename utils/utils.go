package utils

import (
	"bytes"
	"encoding/json"
	"math/rand"
	"sort"
	"time"
)

// NewRand returns a time seeded rand. The result is not safe for concurrent use.
func NewRand() *rand.Rand {
	return rand.New(rand.NewSource(time.Now().UnixNano()))
}

// NewSeededRand returns a deterministic rand, mostly useful in tests.
func NewSeededRand(seed int64) *rand.Rand {
	return rand.New(rand.NewSource(seed))
}

func ProcessWithError(processors []func() error) (err error) {
	for _, processor := range processors {
		if err = processor(); err != nil {
			return
		}
	}
	return
}

// ProcessWithErrors runs funcs in order and stops at the first error.
func ProcessWithErrors(funcs ...func() error) error {
	return ProcessWithError(funcs)
}

// StringMapToJSON encodes a flat string map as a JSON object with sorted keys.
func StringMapToJSON(s map[string]string) string {
	keys := make([]string, 0, len(s))
	for k := range s {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	var buffer bytes.Buffer
	buffer.WriteRune('{')
	for i, k := range keys {
		if i > 0 {
			buffer.WriteRune(',')
		}
		ks, _ := json.Marshal(k)
		buffer.Write(ks)
		buffer.WriteRune(':')
		vs, _ := json.Marshal(s[k])
		buffer.Write(vs)
	}
	buffer.WriteRune('}')
	return buffer.String()
}
