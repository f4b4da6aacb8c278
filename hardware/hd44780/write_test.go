package hd44780

import (
	"testing"

	"github.com/juju/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteHi(t *testing.T) {
	t.Parallel()

	lcd, m := newTestLCD(t, 4, Config{})
	n, err := lcd.WriteString("Hi")
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	assert.Equal(t, RegisterData, lcd.Register())

	ss := m.Strobes()
	require.Len(t, ss, 4)
	for i, expect := range []Nibble{0x4, 0x8, 0x6, 0x9} {
		assert.True(t, ss[i].RS)
		assert.Equal(t, expect, ss[i].Nibble)
		assert.Equal(t, DefaultDelay, ss[i].Wait)
	}
	assert.Equal(t, MockEvent{Op: MockSet, Pin: "RS", Value: true}, m.Events[0])
	assert.Equal(t, 1, m.Count(MockSet, "RS"))
}

func TestWriteAfterInit(t *testing.T) {
	t.Parallel()

	lcd, m := newTestLCD(t, 3, Config{Sync: BusyPoll()})
	require.NoError(t, lcd.Init())
	before := len(m.Strobes())
	_, err := lcd.Write([]byte("Hello, World!"))
	require.NoError(t, err)
	ss := m.Strobes()[before:]
	require.Len(t, ss, 2*len("Hello, World!"))
	for i, c := range []byte("Hello, World!") {
		assert.Equal(t, c, byte(ss[2*i].Nibble)<<4|byte(ss[2*i+1].Nibble))
	}
	assert.Equal(t, len("Hello, World!"), m.Count(MockInput, "D7"))
}

func TestWritePolicy(t *testing.T) {
	t.Parallel()

	cases := []struct {
		policy CharPolicy
		expect []byte
		n      int
		fail   bool
	}{
		{PolicySkip, []byte("ab"), len("aЖb"), false},
		{PolicySubstitute, []byte("a?b"), len("aЖb"), false},
		{PolicyFail, []byte("a"), 1, true},
	}
	for _, c := range cases {
		lcd, m := newTestLCD(t, 4, Config{Policy: c.policy})
		n, err := lcd.WriteString("aЖb")
		if c.fail {
			require.Error(t, err)
			assert.True(t, errors.Is(err, errors.NotSupported), err.Error())
		} else {
			require.NoError(t, err)
		}
		assert.Equal(t, c.n, n, "policy=%s", c.policy)
		assert.Equal(t, c.expect, latchedBytes(m), "policy=%s", c.policy)
	}
}

func TestWriteAbort(t *testing.T) {
	t.Parallel()

	for fail := 1; fail <= 4; fail++ {
		lcd, m := newTestLCD(t, 4, Config{})
		m.Fail = failNthStrobe(fail)
		n, err := lcd.WriteString("Hi")
		require.Error(t, err)
		assert.Equal(t, (fail-1)/2, n, "fail=%d", fail)
		assert.Len(t, m.Strobes(), fail-1)
		assert.Equal(t, MockBus, m.Events[len(m.Events)-1].Op)
	}
}

func TestWriteSelectDataFail(t *testing.T) {
	t.Parallel()

	lcd, m := newTestLCD(t, 4, Config{})
	m.Fail = func(e MockEvent) error {
		if e.Pin == "RS" {
			return errors.New("simulated")
		}
		return nil
	}
	n, err := lcd.WriteString("Hi")
	require.Error(t, err)
	assert.Equal(t, 0, n)
	assert.Empty(t, m.Events)
	assert.Equal(t, RegisterUnknown, lcd.Register())
}

func latchedBytes(m *Mock) []byte {
	ss := m.Strobes()
	bs := make([]byte, 0, len(ss)/2)
	for i := 0; i+1 < len(ss); i += 2 {
		bs = append(bs, byte(ss[i].Nibble)<<4|byte(ss[i+1].Nibble))
	}
	return bs
}

func TestWriteCodepage(t *testing.T) {
	t.Parallel()

	const text = "aЖ😀?b"
	cases := []struct {
		name   string
		policy CharPolicy
		subst  byte
		expect []byte
		n      int
		fail   bool
	}{
		{"skip", PolicySkip, 0, []byte{'a', 0xc6, '?', 'b'}, len(text), false},
		{"substitute", PolicySubstitute, '#', []byte{'a', 0xc6, '#', '?', 'b'}, len(text), false},
		{"fail", PolicyFail, 0, []byte{'a', 0xc6}, len("aЖ"), true},
	}
	for _, c := range cases {
		c := c
		t.Run(c.name, func(t *testing.T) {
			lcd, m := newTestLCD(t, 4, Config{Codepage: "windows-1251", Policy: c.policy, Substitute: c.subst})
			n, err := lcd.WriteString(text)
			if c.fail {
				require.Error(t, err)
				assert.True(t, errors.Is(err, errors.NotSupported), err.Error())
			} else {
				require.NoError(t, err)
			}
			assert.Equal(t, c.n, n)
			assert.Equal(t, c.expect, latchedBytes(m))
		})
	}
}
