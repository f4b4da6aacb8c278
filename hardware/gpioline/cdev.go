package gpioline

import (
	"github.com/AlexTransit/lcd44780/hardware/hd44780"
	"github.com/juju/errors"
	"github.com/temoto/gpio-cdev-go"
	"golang.org/x/sys/unix"
)

// OpenCdev requests LCD lines from Linux GPIO character device.
// Control lines share one handle, data lines are written through another
// handle as one vector. With busyWired D7 gets its own handle so it can be
// re-requested as input for busy flag reads.
func OpenCdev(chipPath string, pm hd44780.PinMap, busyWired bool) (*hd44780.Pins, error) {
	if err := checkChip(chipPath); err != nil {
		return nil, err
	}
	controlRoles, dataRoles := roles(pm)
	control, err := offsets(controlRoles)
	if err != nil {
		return nil, err
	}
	data, err := offsets(dataRoles)
	if err != nil {
		return nil, err
	}
	if err = checkDuplicates(append(append([]role(nil), controlRoles...), dataRoles...)); err != nil {
		return nil, err
	}

	chip, err := gpio.Open(chipPath, ConsumerLabel)
	if err != nil {
		return nil, errors.Annotatef(err, "gpio open chip=%s", chipPath)
	}
	c := &cdev{chip: chip}
	if err = c.open(controlRoles, control, data, busyWired); err != nil {
		_ = c.close()
		return nil, errors.Annotatef(err, "gpio chip=%s", chipPath)
	}

	pins := &hd44780.Pins{
		RS:    c.lineFor(controlRoles, control, "RS"),
		E:     c.lineFor(controlRoles, control, "E"),
		Data:  c.bus,
		Close: c.close,
	}
	if pm.RW != "" {
		pins.RW = c.lineFor(controlRoles, control, "RW")
	}
	if c.d7 != nil {
		pins.D7 = c.d7
	}
	return pins, nil
}

// checkChip tells missing device path apart from line request failures.
func checkChip(path string) error {
	var st unix.Stat_t
	if err := unix.Stat(path, &st); err != nil {
		return errors.Annotatef(err, "gpio chip=%s", path)
	}
	if st.Mode&unix.S_IFMT != unix.S_IFCHR {
		return errors.NotValidf("gpio chip=%s is not a character device", path)
	}
	return nil
}

type cdev struct {
	chip    gpio.Chiper
	control gpio.Lineser
	data    gpio.Lineser
	bus     *cdevBus
	d7      *cdevBusy
}

func (c *cdev) open(controlRoles []role, control, data []uint32, busyWired bool) error {
	var err error
	c.control, err = c.chip.OpenLines(gpio.GPIOHANDLE_REQUEST_OUTPUT, ConsumerLabel, control...)
	if err != nil {
		return errors.Annotatef(err, "request control lines=%v", control)
	}
	busLines := data
	if busyWired {
		busLines = data[1:]
		c.d7 = &cdevBusy{chip: c.chip, offset: data[0]}
		if err = c.d7.Output(); err != nil {
			return err
		}
	}
	c.data, err = c.chip.OpenLines(gpio.GPIOHANDLE_REQUEST_OUTPUT, ConsumerLabel, busLines...)
	if err != nil {
		return errors.Annotatef(err, "request data lines=%v", busLines)
	}
	c.bus = &cdevBus{lines: c.data, offsets: busLines, set: make([]gpio.LineSetFunc, len(busLines))}
	for i, o := range busLines {
		c.bus.set[i] = c.data.SetFunc(o)
	}
	return nil
}

func (c *cdev) lineFor(rs []role, offsets []uint32, tag string) hd44780.Line {
	for i, r := range rs {
		if r.tag == tag {
			return &cdevLine{tag: tag, offset: offsets[i], lines: c.control, set: c.control.SetFunc(offsets[i])}
		}
	}
	return nil
}

func (c *cdev) close() error {
	errs := make([]error, 0, 4)
	if c.control != nil {
		errs = append(errs, c.control.Close())
	}
	if c.data != nil {
		errs = append(errs, c.data.Close())
	}
	if c.d7 != nil {
		errs = append(errs, c.d7.release())
	}
	errs = append(errs, c.chip.Close())
	for _, e := range errs {
		if e != nil {
			return errors.Annotate(e, "gpio close")
		}
	}
	return nil
}

type cdevLine struct {
	tag    string
	offset uint32
	lines  gpio.Lineser
	set    gpio.LineSetFunc
}

func (l *cdevLine) Set(v bool) error {
	l.set(b2u(v))
	return errors.Annotatef(l.lines.Flush(), "pin=%s(%d) set=%d", l.tag, l.offset, b2u(v))
}

type cdevBus struct {
	lines   gpio.Lineser
	offsets []uint32
	set     []gpio.LineSetFunc
}

func (b *cdevBus) Width() int { return len(b.set) }

func (b *cdevBus) SetValues(vs ...bool) error {
	if len(vs) != len(b.set) {
		return errors.NotValidf("bus values=%d width=%d", len(vs), len(b.set))
	}
	for i, v := range vs {
		b.set[i](b2u(v))
	}
	return errors.Annotatef(b.lines.Flush(), "pins=%v set=%v", b.offsets, vs)
}

// cdevBusy is D7 as its own line request. Direction of a requested line
// can not be changed, so the handle is released and requested again.
type cdevBusy struct {
	chip   gpio.Chiper
	offset uint32
	lines  gpio.Lineser
	set    gpio.LineSetFunc
	input  bool
}

func (l *cdevBusy) request(flag gpio.RequestFlag) error {
	if err := l.release(); err != nil {
		return err
	}
	lines, err := l.chip.OpenLines(flag, ConsumerLabel, l.offset)
	if err != nil {
		return errors.Annotatef(err, "request pin=D7(%d)", l.offset)
	}
	l.lines = lines
	l.set = lines.SetFunc(l.offset)
	return nil
}

func (l *cdevBusy) release() error {
	if l.lines == nil {
		return nil
	}
	err := l.lines.Close()
	l.lines, l.set = nil, nil
	return errors.Annotatef(err, "release pin=D7(%d)", l.offset)
}

func (l *cdevBusy) Set(v bool) error {
	if l.input || l.lines == nil {
		return errors.Errorf("code error pin=D7(%d) set while not output", l.offset)
	}
	l.set(b2u(v))
	return errors.Annotatef(l.lines.Flush(), "pin=D7(%d) set=%d", l.offset, b2u(v))
}

func (l *cdevBusy) Input() error {
	if err := l.request(gpio.GPIOHANDLE_REQUEST_INPUT); err != nil {
		return err
	}
	l.input = true
	return nil
}

func (l *cdevBusy) Get() (bool, error) {
	if !l.input {
		return false, errors.Errorf("code error pin=D7(%d) get while not input", l.offset)
	}
	data, err := l.lines.Read()
	if err != nil {
		return false, errors.Annotatef(err, "pin=D7(%d) get", l.offset)
	}
	return data.Values[0] != 0, nil
}

func (l *cdevBusy) Output() error {
	if err := l.request(gpio.GPIOHANDLE_REQUEST_OUTPUT); err != nil {
		return err
	}
	l.input = false
	return nil
}
