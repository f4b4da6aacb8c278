package hd44780

import (
	"fmt"
	"time"

	"github.com/juju/errors"
)

// Nibble is the low 4 bits of a byte, sent as one bus transfer.
type Nibble byte

// Bits returns the nibble most significant bit first.
func (n Nibble) Bits() [4]bool {
	return [4]bool{n&0x8 != 0, n&0x4 != 0, n&0x2 != 0, n&0x1 != 0}
}

func (n Nibble) String() string { return fmt.Sprintf("%04b", byte(n)&0x0f) }

func splitByte(b byte) (hi, lo Nibble) {
	return Nibble(b >> 4), Nibble(b & 0x0f)
}

type SyncKind uint8

const (
	syncUnset SyncKind = iota
	SyncFixedDelay
	SyncBusyPoll
)

// SyncStrategy is how the driver waits for the controller after a strobe.
// Zero value means "driver default".
type SyncStrategy struct {
	kind  SyncKind
	delay time.Duration
}

func FixedDelay(d time.Duration) SyncStrategy { return SyncStrategy{kind: SyncFixedDelay, delay: d} }
func BusyPoll() SyncStrategy                  { return SyncStrategy{kind: SyncBusyPoll} }

func (s SyncStrategy) Kind() SyncKind       { return s.kind }
func (s SyncStrategy) Delay() time.Duration { return s.delay }

func (s SyncStrategy) String() string {
	switch s.kind {
	case SyncFixedDelay:
		return "delay(" + s.delay.String() + ")"
	case SyncBusyPoll:
		return "busy"
	}
	return "default"
}

func ParseSync(name string, delay time.Duration) (SyncStrategy, error) {
	switch name {
	case "", "delay":
		if delay == 0 {
			return SyncStrategy{}, nil
		}
		return FixedDelay(delay), nil
	case "busy":
		return BusyPoll(), nil
	}
	return SyncStrategy{}, errors.NotValidf("sync=%s (valid: delay, busy)", name)
}

// strobe pulses E so the controller latches the bus.
func (lcd *LCD) strobe(hold time.Duration) error {
	if err := lcd.pins.E.Set(true); err != nil {
		return errors.Annotate(err, "strobe")
	}
	lcd.sleep(hold)
	return errors.Annotate(lcd.pins.E.Set(false), "strobe")
}

func (lcd *LCD) putNibble(n Nibble) error {
	bits := n.Bits()
	if lcd.pins.Data.Width() == 3 {
		if err := lcd.pins.D7.Set(bits[0]); err != nil {
			return errors.Annotatef(err, "nibble=%s", n)
		}
		return errors.Annotatef(lcd.pins.Data.SetValues(bits[1:]...), "nibble=%s", n)
	}
	return errors.Annotatef(lcd.pins.Data.SetValues(bits[:]...), "nibble=%s", n)
}

// send puts one nibble on the bus, strobes it and waits according to sync.
func (lcd *LCD) send(n Nibble, sync SyncStrategy) error {
	if err := lcd.putNibble(n); err != nil {
		return err
	}
	if err := lcd.strobe(lcd.hold); err != nil {
		return errors.Annotatef(err, "nibble=%s", n)
	}
	if sync.kind == SyncBusyPoll {
		return lcd.pollBusy()
	}
	if sync.delay > 0 {
		lcd.sleep(sync.delay)
	}
	return nil
}

// sendByte sends high then low nibble. Busy flag is only valid after
// the whole byte, so the high nibble never polls.
func (lcd *LCD) sendByte(b byte, sync SyncStrategy) error {
	hi, lo := splitByte(b)
	first := sync
	if sync.kind == SyncBusyPoll {
		first = FixedDelay(0)
	}
	if err := lcd.send(hi, first); err != nil {
		return err
	}
	return lcd.send(lo, sync)
}

// pollBusy reads D7 until the controller reports not busy. There is no
// timeout: a controller that never gets ready blocks forever.
// D7 is back in output mode and RW in write mode on return, also on error.
func (lcd *LCD) pollBusy() (err error) {
	d7 := lcd.pins.D7
	defer func() {
		if e := d7.Output(); e != nil && err == nil {
			err = errors.Annotate(e, "busy poll restore D7")
		}
	}()
	if err = d7.Input(); err != nil {
		return errors.Annotate(err, "busy poll")
	}
	if rw := lcd.pins.RW; rw != nil {
		defer func() {
			if e := rw.Set(false); e != nil && err == nil {
				err = errors.Annotate(e, "busy poll restore RW")
			}
		}()
		if err = rw.Set(true); err != nil {
			return errors.Annotate(err, "busy poll")
		}
	}

	reads := 0
	for {
		busy, e := d7.Get()
		reads++
		if e != nil {
			return errors.Annotatef(e, "busy poll read=%d", reads)
		}
		if !busy {
			break
		}
	}
	lcd.log.Debugf("hd44780 busy poll reads=%d", reads)
	return nil
}
