// Package hd44780 drives HD44780U compatible character LCD in 4-bit mode.
//
// Datasheet: https://www.sparkfun.com/datasheets/LCD/HD44780.pdf
package hd44780

import (
	"time"

	"github.com/AlexTransit/lcd44780/log2"
	"github.com/juju/errors"
	"github.com/paulrosania/go-charset/charset"
	_ "github.com/paulrosania/go-charset/data"
)

type Command byte

const (
	CommandClear     Command = 0x01
	CommandReturn    Command = 0x02
	CommandEntryMode Command = 0x04
	CommandControl   Command = 0x08
	CommandFunction  Command = 0x20
)

type RegisterMode uint8

const (
	RegisterUnknown RegisterMode = iota
	RegisterInstruction
	RegisterData
)

func (m RegisterMode) String() string {
	switch m {
	case RegisterInstruction:
		return "instruction"
	case RegisterData:
		return "data"
	}
	return "unknown"
}

const (
	// Clear and Return are the slowest instructions, 1.52 ms at 270 kHz.
	WorstCaseExec = 1520 * time.Microsecond

	DefaultDelay        = 2 * time.Millisecond
	DefaultEnableHold   = 1 * time.Microsecond
	DefaultPowerOnDelay = 15 * time.Millisecond
	DefaultSubstitute   = '?'
)

type Config struct {
	// E high time per strobe, controller minimum is 450 ns
	EnableHold time.Duration
	// settle time before the reset sequence, negative disables
	PowerOnDelay time.Duration
	Sync         SyncStrategy
	Policy       CharPolicy
	Substitute   byte
	// optional character ROM code page, e.g. "windows-1251"
	Codepage string

	Log   *log2.Log
	Sleep func(time.Duration)
}

type LCD struct {
	pins    Pins
	hold    time.Duration
	powerOn time.Duration
	sync    SyncStrategy
	policy  CharPolicy
	subst   byte
	tr      charset.Translator
	mode    RegisterMode
	log     *log2.Log
	sleep   func(time.Duration)
}

// New validates pin wiring against the config. It does not touch the
// display, call Init for that.
func New(pins Pins, c Config) (*LCD, error) {
	if pins.RS == nil || pins.E == nil || pins.Data == nil {
		return nil, errors.NotValidf("hd44780 pins RS, E and data bus are required")
	}
	switch pins.Data.Width() {
	case 3:
		if pins.D7 == nil {
			return nil, errors.NotValidf("hd44780 3-line data bus without D7")
		}
	case 4:
	default:
		return nil, errors.NotValidf("hd44780 data bus width=%d", pins.Data.Width())
	}

	lcd := &LCD{
		pins:    pins,
		hold:    c.EnableHold,
		powerOn: c.PowerOnDelay,
		sync:    c.Sync,
		policy:  c.Policy,
		subst:   c.Substitute,
		log:     c.Log,
		sleep:   c.Sleep,
	}
	if lcd.hold <= 0 {
		lcd.hold = DefaultEnableHold
	}
	if lcd.powerOn == 0 {
		lcd.powerOn = DefaultPowerOnDelay
	}
	if lcd.subst == 0 {
		lcd.subst = DefaultSubstitute
	}
	if lcd.sleep == nil {
		lcd.sleep = time.Sleep
	}
	switch lcd.sync.kind {
	case syncUnset:
		lcd.sync = FixedDelay(DefaultDelay)
	case SyncFixedDelay:
		if lcd.sync.delay < WorstCaseExec {
			return nil, errors.NotValidf("hd44780 sync=%s shorter than %s", lcd.sync, WorstCaseExec)
		}
	case SyncBusyPoll:
		if pins.Data.Width() != 3 {
			return nil, errors.NotSupportedf("hd44780 busy poll needs D7 wired apart from data bus")
		}
		if pins.RW == nil {
			return nil, errors.NotSupportedf("hd44780 busy poll needs RW line")
		}
	}
	if c.Codepage != "" {
		tr, err := charset.TranslatorTo(c.Codepage)
		if err != nil {
			return nil, errors.Annotatef(err, "hd44780 codepage=%s", c.Codepage)
		}
		lcd.tr = tr
	}
	return lcd, nil
}

// Register returns last selected register, the controller can not be asked.
func (lcd *LCD) Register() RegisterMode { return lcd.mode }

func (lcd *LCD) Sync() SyncStrategy { return lcd.sync }

func (lcd *LCD) selectInstruction() error {
	if err := lcd.pins.RS.Set(false); err != nil {
		return errors.Annotate(err, "select instruction register")
	}
	lcd.mode = RegisterInstruction
	return nil
}

func (lcd *LCD) selectData() error {
	if err := lcd.pins.RS.Set(true); err != nil {
		return errors.Annotate(err, "select data register")
	}
	lcd.mode = RegisterData
	return nil
}

// Command sends one instruction byte using configured sync.
func (lcd *LCD) Command(c Command) error {
	if err := lcd.selectInstruction(); err != nil {
		return errors.Annotatef(err, "hd44780 command=%02x", byte(c))
	}
	return errors.Annotatef(lcd.sendByte(byte(c), lcd.sync), "hd44780 command=%02x", byte(c))
}

func (lcd *LCD) Clear() error { return lcd.Command(CommandClear) }
func (lcd *LCD) Home() error  { return lcd.Command(CommandReturn) }

func (lcd *LCD) Close() error {
	if lcd.pins.Close == nil {
		return nil
	}
	return errors.Annotate(lcd.pins.Close(), "hd44780 close")
}
