package kafka

import "encoding/json"

// MustMarshal panics on marshal failure; envelopes are built from plain
// structs, so a failure is a programming error.
func MustMarshal(v any) []byte {
	b, err := json.Marshal(v)
	if err != nil {
		panic(err)
	}
	return b
}
