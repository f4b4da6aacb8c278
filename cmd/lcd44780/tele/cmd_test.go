package tele

import (
	"testing"

	"github.com/AlexTransit/lcd44780/hardware/hd44780"
	config_global "github.com/AlexTransit/lcd44780/internal/config"
	"github.com/AlexTransit/lcd44780/internal/state"
	"github.com/AlexTransit/lcd44780/log2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Not parallel, replaces state.OpenPins.
func TestMainInvalidMqtt(t *testing.T) {
	m := hd44780.NewMock(t, 4)
	saved := state.OpenPins
	defer func() { state.OpenPins = saved }()
	state.OpenPins = func(*config_global.HD44780Struct) (*hd44780.Pins, error) {
		p := m.Pins()
		return &p, nil
	}
	ctx, g := state.NewContext(log2.NewTest(t, log2.LDebug))
	g.Config.Hardware.HD44780.PowerOnMs = -1
	g.Config.Text = "boot"
	g.Config.Mqtt.Broker = ""

	err := Main(ctx, []string{modName})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "mqtt.broker")

	ss := m.Strobes()[len(hd44780.InitSequence):]
	var got []byte
	for i := 0; i+1 < len(ss); i += 2 {
		got = append(got, byte(ss[i].Nibble)<<4|byte(ss[i+1].Nibble))
	}
	assert.Equal(t, []byte("boot"), got)
	assert.False(t, g.Alive.IsRunning())
}
