package index

import (
	"strconv"
	"strings"
)

// vectorParam serializes an embedding into pgvector's textual form
// "[f1,f2,...]". A nil or empty vector becomes SQL NULL, which tells
// the store function to zero out the semantic signal.
func vectorParam(vec []float32) any {
	if len(vec) == 0 {
		return nil
	}
	var b strings.Builder
	b.Grow(len(vec) * 10)
	b.WriteByte('[')
	for i, f := range vec {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteString(strconv.FormatFloat(float64(f), 'f', -1, 32))
	}
	b.WriteByte(']')
	return b.String()
}
