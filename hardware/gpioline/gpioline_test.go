package gpioline

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/AlexTransit/lcd44780/hardware/hd44780"
	"github.com/juju/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testPinMap() hd44780.PinMap {
	return hd44780.PinMap{RS: "20", E: "21", D4: "25", D5: "8", D6: "7", D7: "1"}
}

func TestRoles(t *testing.T) {
	t.Parallel()

	control, data := roles(testPinMap())
	assert.Equal(t, []role{{"RS", "20"}, {"E", "21"}}, control)
	assert.Equal(t, []role{{"D7", "1"}, {"D6", "7"}, {"D5", "8"}, {"D4", "25"}}, data)

	pm := testPinMap()
	pm.RW = "16"
	control, _ = roles(pm)
	assert.Equal(t, role{"RW", "16"}, control[2])
}

func TestOffsets(t *testing.T) {
	t.Parallel()

	_, data := roles(testPinMap())
	nums, err := offsets(data)
	require.NoError(t, err)
	assert.Equal(t, []uint32{1, 7, 8, 25}, nums)

	_, err = offsets([]role{{"RS", ""}, {"E", "x"}, {"D4", "3"}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "RS pin is not configured")
	assert.Contains(t, err.Error(), "E pin=x")
}

func TestCheckDuplicates(t *testing.T) {
	t.Parallel()

	require.NoError(t, checkDuplicates([]role{{"RS", "1"}, {"RW", ""}, {"E", "2"}, {"D4", ""}}))

	err := checkDuplicates([]role{{"RS", "1"}, {"E", "2"}, {"D7", "1"}})
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.NotValid))
	assert.Contains(t, err.Error(), "used by RS and D7")
}

func TestCheckChip(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	err := checkChip(filepath.Join(dir, "gpiochip9"))
	require.Error(t, err)
	assert.False(t, errors.Is(err, errors.NotValid))

	regular := filepath.Join(dir, "regular")
	require.NoError(t, os.WriteFile(regular, nil, 0o600))
	err = checkChip(regular)
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.NotValid), err.Error())

	if _, statErr := os.Stat("/dev/null"); statErr == nil {
		assert.NoError(t, checkChip("/dev/null"))
	}
}

func TestOpenCdevInvalidPinMap(t *testing.T) {
	t.Parallel()

	pm := testPinMap()
	pm.D5 = pm.RS
	_, err := OpenCdev("/dev/null", pm, false)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "used by RS and D5")
}

func TestB2u(t *testing.T) {
	t.Parallel()
	assert.Equal(t, byte(1), b2u(true))
	assert.Equal(t, byte(0), b2u(false))
}
