package expect

import (
	"errors"
	"strings"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
)

func TestFormatValue(t *testing.T) {
	n := 5
	var nilPtr *point

	tests := []struct {
		name  string
		value any
		want  string
	}{
		{"nil", nil, "nil"},
		{"typed nil pointer", nilPtr, "nil"},
		{"string", "abc", `"abc"`},
		{"int", 3, "3"},
		{"float", 1.5, "1.5"},
		{"bool", true, "true"},
		{"error", errors.New("bad"), `error("bad")`},
		{"stringer", 1500 * time.Millisecond, "1.5s"},
		{"map", map[string]int{"a": 1, "b": 2}, "{map with 2 entries}"},
		{"func", func() {}, "func"},
		{"struct", point{X: 1}, "expect.point"},
		{"struct pointer", &point{X: 1}, "*expect.point"},
		{"scalar pointer", &n, "5"},
		{"slice", []string{"a", "b"}, "[a b]"},
		{"long string", strings.Repeat("a", 100), `"` + strings.Repeat("a", MaxValueLen-1) + "..."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, FormatValue(tt.value))
		})
	}
}

func TestFormatValue_TruncatesAtRuneBoundary(t *testing.T) {
	out := FormatValue(strings.Repeat("é", 60))

	assert.True(t, utf8.ValidString(out))
	assert.True(t, strings.HasSuffix(out, "..."))
	assert.LessOrEqual(t, len(out), MaxValueLen+len("..."))
	// The opening quote leaves an odd byte count, so one byte is dropped.
	assert.Equal(t, `"`+strings.Repeat("é", (MaxValueLen-1)/2)+"...", out)
}

func TestOperator_String(t *testing.T) {
	assert.Equal(t, "==", OpEq.String())
	assert.Equal(t, "&&", OpAnd.String())
	assert.Equal(t, "!contains", OpNotContains.String())
	assert.Equal(t, "unknown", Operator(99).String())
}
