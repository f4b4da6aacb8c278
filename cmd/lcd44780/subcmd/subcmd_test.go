package subcmd

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	t.Parallel()

	noop := func(context.Context, ...[]string) error { return nil }
	mods := []Mod{{Name: "text", Main: noop}, {Name: "console", Main: noop}}

	m, err := Parse("", mods)
	require.NoError(t, err)
	assert.Equal(t, "text", m.Name)

	m, err = Parse("console", mods)
	require.NoError(t, err)
	assert.Equal(t, "console", m.Name)

	_, err = Parse("vmc", mods)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "valid: text console")
}

func TestSdNotifyOutsideSystemd(t *testing.T) {
	t.Setenv("NOTIFY_SOCKET", "")
	assert.False(t, SdNotify("READY=1"))
}
