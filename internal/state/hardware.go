package state

import (
	"sync"
	"sync/atomic"

	"github.com/AlexTransit/lcd44780/hardware/gpioline"
	"github.com/AlexTransit/lcd44780/hardware/hd44780"
	"github.com/AlexTransit/lcd44780/helpers"
	config_global "github.com/AlexTransit/lcd44780/internal/config"
	"github.com/AlexTransit/lcd44780/log2"
	"github.com/juju/errors"
)

type hardware struct {
	HD44780 struct {
		once
		Device *hd44780.LCD
	}
}

// OpenPins is replaced in tests.
var OpenPins = openPins

func openPins(c *config_global.HD44780Struct) (*hd44780.Pins, error) {
	if c.Pinmap == nil {
		return nil, errors.NotValidf("config: hardware.hd44780.pinmap is not set")
	}
	switch c.Backend {
	case "", "cdev":
		return gpioline.OpenCdev(helpers.ConfigDefaultStr(c.PinChip, "/dev/gpiochip0"), *c.Pinmap, c.BusyWired)
	case "periph":
		return gpioline.OpenPeriph(*c.Pinmap, c.BusyWired)
	}
	return nil, errors.NotValidf("config: hardware.hd44780.backend=%s (valid: cdev, periph)", c.Backend)
}

// LCDConfig maps config block to driver options.
func LCDConfig(c *config_global.HD44780Struct, log *log2.Log) (hd44780.Config, error) {
	errs := make([]error, 0, 3)
	syncStrategy, err := hd44780.ParseSync(c.Sync, helpers.IntMicrosecond(c.DelayUs))
	if err != nil {
		errs = append(errs, errors.Annotate(err, "config: hardware.hd44780.sync"))
	}
	policy, err := hd44780.ParseCharPolicy(c.CharPolicy)
	if err != nil {
		errs = append(errs, errors.Annotate(err, "config: hardware.hd44780.char_policy"))
	}
	var subst byte
	switch len(c.Substitute) {
	case 0:
	case 1:
		subst = c.Substitute[0]
	default:
		errs = append(errs, errors.NotValidf("config: hardware.hd44780.substitute=%q must be one character", c.Substitute))
	}
	if c.Codepage == "" && subst > 0x7f {
		errs = append(errs, errors.NotValidf("config: hardware.hd44780.substitute=%q without codepage", c.Substitute))
	}
	if err = helpers.FoldErrors(errs); err != nil {
		return hd44780.Config{}, err
	}

	powerOn := helpers.IntMillisecond(c.PowerOnMs)
	if c.PowerOnMs < 0 {
		powerOn = -1
	}
	return hd44780.Config{
		EnableHold:   helpers.IntMicrosecond(c.EnableHoldUs),
		PowerOnDelay: powerOn,
		Sync:         syncStrategy,
		Policy:       policy,
		Substitute:   subst,
		Codepage:     c.Codepage,
		Log:          log,
	}, nil
}

// LCD opens and initializes display once, later calls return the same result.
func (g *Global) LCD() (*hd44780.LCD, error) {
	x := &g.Hardware.HD44780
	_ = x.do(func() error {
		if x.Device != nil { // testing mode
			return nil
		}
		if g.Config.Hardware == nil || g.Config.Hardware.HD44780 == nil {
			return errors.NotFoundf("config: hardware.hd44780")
		}
		devConfig := g.Config.Hardware.HD44780
		log := g.Log.Clone(log2.LInfo)
		if devConfig.LogDebug {
			log.SetLevel(log2.LDebug)
		}
		lcdConfig, err := LCDConfig(devConfig, log)
		if err != nil {
			return err
		}
		pins, err := OpenPins(devConfig)
		if err != nil {
			return errors.Annotatef(err, "hd44780 backend=%s", devConfig.Backend)
		}
		dev, err := hd44780.New(*pins, lcdConfig)
		if err != nil {
			if pins.Close != nil {
				_ = pins.Close()
			}
			return err
		}
		if err = dev.Init(); err != nil {
			_ = dev.Close()
			return errors.Annotate(err, "hd44780.Init")
		}
		g.Log.Debugf("hd44780 ready sync=%s", dev.Sync())
		x.Device = dev
		return nil
	})
	return x.Device, x.err
}

func (g *Global) CloseLCD() error {
	x := &g.Hardware.HD44780
	if !x.done() || x.Device == nil {
		return nil
	}
	return x.Device.Close()
}

type once struct {
	sync.Mutex
	called uint32 // atomic bool
	err    error
}

func (o *once) done() bool {
	return atomic.LoadUint32(&o.called) == 1
}

func (o *once) do(f func() error) error {
	if o.done() { // fast path
		return o.err
	}
	o.Lock()
	defer o.Unlock()
	if o.done() {
		return o.err
	}
	o.err = f()
	atomic.StoreUint32(&o.called, 1)
	return o.err
}
