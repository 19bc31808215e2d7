package spec

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestUnit(t *testing.T) {
	m := Member{Type: "Calculator", Name: "Adds", Kind: MemberMethod}

	t.Run("runnable", func(t *testing.T) {
		s := &ActionSpec[int]{Title: "adds"}
		u := NewRunnable(s, m)

		assert.True(t, u.IsRunnable())
		assert.Same(t, s, u.Specification())
		assert.Empty(t, u.Reason())
		assert.NoError(t, u.Err())
		assert.Equal(t, m, u.Member())
	})

	t.Run("failed", func(t *testing.T) {
		err := errors.New("boom")
		u := NewFailed("Exception when creating specification", err, m)

		assert.False(t, u.IsRunnable())
		assert.Nil(t, u.Specification())
		assert.Equal(t, "Exception when creating specification", u.Reason())
		assert.Same(t, err, u.Err())
		assert.Equal(t, m, u.Member())
	})
}

func TestMember_String(t *testing.T) {
	assert.Equal(t, "Calculator.Adds", Member{Type: "Calculator", Name: "Adds"}.String())
	assert.Equal(t, "Adds", Member{Name: "Adds"}.String())
	assert.Equal(t, "static", MemberStatic.String())
	assert.Equal(t, "field", MemberField.String())
	assert.Equal(t, "unknown", MemberKind(7).String())
}
