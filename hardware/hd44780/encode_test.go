package hd44780

import (
	"testing"
	"unicode/utf8"

	"github.com/juju/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncodeASCII(t *testing.T) {
	t.Parallel()

	for c := rune(0); c <= 127; c++ {
		hi, lo, ok := Encode(c)
		require.True(t, ok, "c=%d", c)
		assert.True(t, hi < 16 && lo < 16)
		assert.Equal(t, byte(c), byte(hi)<<4|byte(lo))
		assert.Equal(t, int(c), int(hi)*16+int(lo))
	}
}

func TestEncodeUnsupported(t *testing.T) {
	t.Parallel()

	for _, c := range []rune{128, 0xff, 'Ж', '€', utf8.RuneError, -1, utf8.MaxRune} {
		hi, lo, ok := Encode(c)
		assert.False(t, ok, "c=%q", c)
		assert.Equal(t, Nibble(0), hi)
		assert.Equal(t, Nibble(0), lo)
	}
}

func TestEncodeExamples(t *testing.T) {
	t.Parallel()

	hi, lo, _ := Encode('H')
	assert.Equal(t, "0100", hi.String())
	assert.Equal(t, "1000", lo.String())
	hi, lo, _ = Encode('i')
	assert.Equal(t, [4]bool{false, true, true, false}, hi.Bits())
	assert.Equal(t, [4]bool{true, false, false, true}, lo.Bits())
}

func TestParseCharPolicy(t *testing.T) {
	t.Parallel()

	for _, p := range []CharPolicy{PolicySkip, PolicySubstitute, PolicyFail} {
		got, err := ParseCharPolicy(p.String())
		require.NoError(t, err)
		assert.Equal(t, p, got)
	}
	got, err := ParseCharPolicy("")
	require.NoError(t, err)
	assert.Equal(t, PolicySkip, got)
	_, err = ParseCharPolicy("ignore")
	assert.True(t, errors.IsNotValid(err))
}
