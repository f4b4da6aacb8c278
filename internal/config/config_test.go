package config_global

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/AlexTransit/lcd44780/log2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	p := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(p, []byte(content), 0o644))
	return p
}

func TestReadConfigDefaults(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	p := writeFile(t, dir, "empty.hcl", ``)
	c, err := ReadConfig(log2.NewTest(t, log2.LDebug), p)
	require.NoError(t, err)
	assert.Equal(t, Default(), c)
}

func TestReadConfigInclude(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeFile(t, dir, "local.hcl", `
hardware {
  hd44780 {
    sync = "busy"
    busy_wired = true
    pinmap {
      rs = "20"
      rw = "12"
      e  = "21"
      d4 = "25"
      d5 = "8"
      d6 = "7"
      d7 = "1"
    }
  }
}
`)
	p := writeFile(t, dir, "main.hcl", `
include "local.hcl" {}
include "missing.hcl" { optional = true }
text = "Hi"
hardware {
  hd44780 {
    pin_chip = "/dev/gpiochip4"
    sync = "delay"
    char_policy = "substitute"
  }
}
mqtt {
  topic = "shop/display"
}
`)
	c, err := ReadConfig(log2.NewTest(t, log2.LDebug), p)
	require.NoError(t, err)
	assert.Equal(t, "Hi", c.Text)
	hd := c.Hardware.HD44780
	assert.Equal(t, "/dev/gpiochip4", hd.PinChip)
	assert.Equal(t, "busy", hd.Sync, "include overrides")
	assert.True(t, hd.BusyWired)
	assert.Equal(t, "substitute", hd.CharPolicy)
	assert.Equal(t, "12", hd.Pinmap.RW)
	assert.Equal(t, "cdev", hd.Backend, "default kept")
	assert.Equal(t, 2000, hd.DelayUs)
	assert.Equal(t, "shop/display", c.Mqtt.Topic)
	assert.Equal(t, "tcp://localhost:1883", c.Mqtt.Broker)
	assert.Nil(t, c.Include)
}

func TestReadConfigErrors(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	lg := log2.NewTest(t, log2.LDebug)

	_, err := ReadConfig(lg, filepath.Join(dir, "nope.hcl"))
	assert.Error(t, err)

	p := writeFile(t, dir, "required.hcl", `include "gone.hcl" {}`)
	_, err = ReadConfig(lg, p)
	assert.Error(t, err)

	p = writeFile(t, dir, "syntax.hcl", `hardware {`)
	_, err = ReadConfig(lg, p)
	assert.Error(t, err)

	p = writeFile(t, dir, "unknown.hcl", `colour = "red"`)
	_, err = ReadConfig(lg, p)
	assert.Error(t, err)

	writeFile(t, dir, "a.hcl", `include "b.hcl" {}`)
	p = writeFile(t, dir, "b.hcl", `include "a.hcl" {}`)
	_, err = ReadConfig(lg, p)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "loop")
}

func TestWriteDefault(t *testing.T) {
	t.Parallel()

	p := filepath.Join(t.TempDir(), "default.hcl")
	require.NoError(t, WriteDefault(p))
	c, err := ReadConfig(log2.NewTest(t, log2.LDebug), p)
	require.NoError(t, err)
	assert.Equal(t, Default(), c)
}
