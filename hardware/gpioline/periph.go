package gpioline

import (
	"github.com/AlexTransit/lcd44780/hardware/hd44780"
	"github.com/AlexTransit/lcd44780/helpers"
	"github.com/juju/errors"
	"periph.io/x/periph/conn/gpio"
	"periph.io/x/periph/conn/gpio/gpioreg"
	"periph.io/x/periph/host"
)

// OpenPeriph finds LCD pins by name ("GPIO20", "20", board aliases) in
// periph registry. Data bus writes are sequential, periph legacy has no
// pin groups.
func OpenPeriph(pm hd44780.PinMap, busyWired bool) (*hd44780.Pins, error) {
	if _, err := host.Init(); err != nil {
		return nil, errors.Annotate(err, "periph/init")
	}
	controlRoles, dataRoles := roles(pm)
	if err := checkDuplicates(append(append([]role(nil), controlRoles...), dataRoles...)); err != nil {
		return nil, err
	}

	errs := make([]error, 0, 8)
	opened := make(map[string]gpio.PinIO, 7)
	for _, r := range append(append([]role(nil), controlRoles...), dataRoles...) {
		opened[r.tag] = openPin(r.tag, r.name, &errs)
	}
	if err := helpers.FoldErrors(errs); err != nil {
		return nil, err
	}

	all := make([]gpio.PinIO, 0, len(opened))
	for _, p := range opened {
		all = append(all, p)
	}
	pins := &hd44780.Pins{
		RS:    periphLine{"RS", opened["RS"]},
		E:     periphLine{"E", opened["E"]},
		Close: func() error { return haltAll(all) },
	}
	if p, ok := opened["RW"]; ok {
		pins.RW = periphLine{"RW", p}
	}
	bus := periphBus{}
	for _, r := range dataRoles {
		if busyWired && r.tag == "D7" {
			continue
		}
		bus.lines = append(bus.lines, periphLine{r.tag, opened[r.tag]})
	}
	pins.Data = bus
	if busyWired {
		pins.D7 = &periphBusy{periphLine: periphLine{"D7", opened["D7"]}}
	}
	return pins, nil
}

func openPin(tag, name string, errs *[]error) gpio.PinIO {
	if name == "" {
		*errs = append(*errs, errors.Errorf("LCD/init %s pin is not configured", tag))
		return nil
	}
	p := gpioreg.ByName(name)
	if p == nil {
		*errs = append(*errs, errors.Errorf("LCD/init %s pin=%s invalid", tag, name))
		return nil
	}
	if err := p.Out(gpio.Low); err != nil {
		*errs = append(*errs, errors.Annotatef(err, "LCD/init pin.Out() %s pin=%s", tag, name))
		return nil
	}
	return p
}

func haltAll(ps []gpio.PinIO) error {
	errs := make([]error, 0, len(ps))
	for _, p := range ps {
		if err := p.Halt(); err != nil {
			errs = append(errs, errors.Annotatef(err, "halt pin=%s", p.Name()))
		}
	}
	return helpers.FoldErrors(errs)
}

type periphLine struct {
	tag string
	pin gpio.PinIO
}

func (l periphLine) Set(v bool) error {
	return errors.Annotatef(l.pin.Out(gpio.Level(v)), "pin=%s(%s) set=%t", l.tag, l.pin.Name(), v)
}

type periphBus struct{ lines []periphLine }

func (b periphBus) Width() int { return len(b.lines) }

func (b periphBus) SetValues(vs ...bool) error {
	if len(vs) != len(b.lines) {
		return errors.NotValidf("bus values=%d width=%d", len(vs), len(b.lines))
	}
	for i, v := range vs {
		if err := b.lines[i].Set(v); err != nil {
			return err
		}
	}
	return nil
}

type periphBusy struct {
	periphLine
}

func (l *periphBusy) Input() error {
	return errors.Annotatef(l.pin.In(gpio.PullNoChange, gpio.NoEdge), "pin=D7(%s) input", l.pin.Name())
}

func (l *periphBusy) Get() (bool, error) {
	return l.pin.Read() == gpio.High, nil
}

func (l *periphBusy) Output() error {
	return errors.Annotatef(l.pin.Out(gpio.Low), "pin=D7(%s) output", l.pin.Name())
}
