package hd44780

import (
	"time"

	"github.com/juju/errors"
)

type InitStep struct {
	Step   int
	Nibble Nibble
	Wait   time.Duration
	Note   string
}

const (
	waitResetA = 4100 * time.Microsecond
	waitResetB = 100 * time.Microsecond
	waitInit   = 40 * time.Millisecond
)

// InitSequence takes the controller from any state into 4-bit, 2 lines, 5x8,
// display on, cursor and blink off, cleared, home, increment without shift.
// The three 0011 nibbles are read as 8-bit "function set" whatever the
// previous interface width was. Reset waits are datasheet minimums.
var InitSequence = []InitStep{
	{1, 0x3, waitResetA, "reset A"},
	{2, 0x3, waitResetB, "reset B"},
	{3, 0x3, waitInit, "reset C"},
	{4, 0x2, waitInit, "4-bit interface"},
	{5, 0x2, waitInit, "function set 4-bit 2 lines 5x8"},
	{5, 0x8, waitInit, "function set 4-bit 2 lines 5x8"},
	{6, 0x0, waitInit, "display on cursor off blink off"},
	{6, 0xc, waitInit, "display on cursor off blink off"},
	{7, 0x0, waitInit, "clear"},
	{7, 0x1, waitInit, "clear"},
	{8, 0x0, waitInit, "return home"},
	{8, 0x2, waitInit, "return home"},
	{9, 0x0, waitInit, "entry mode increment no shift"},
	{9, 0x6, waitInit, "entry mode increment no shift"},
}

// Init runs the reset sequence. Busy flag is not available until the
// interface width is set, so the script always uses its own fixed waits.
// Any failure leaves the controller in undefined state, no retry.
func (lcd *LCD) Init() error {
	if err := lcd.selectInstruction(); err != nil {
		return errors.Annotate(err, "hd44780 init")
	}
	if err := lcd.pins.E.Set(false); err != nil {
		return errors.Annotate(err, "hd44780 init")
	}
	if lcd.powerOn > 0 {
		lcd.sleep(lcd.powerOn)
	}
	for _, s := range InitSequence {
		lcd.log.Debugf("hd44780 init step=%d nibble=%s wait=%s %s", s.Step, s.Nibble, s.Wait, s.Note)
		if err := lcd.send(s.Nibble, FixedDelay(s.Wait)); err != nil {
			return errors.Annotatef(err, "hd44780 init step=%d %s", s.Step, s.Note)
		}
	}
	return nil
}
