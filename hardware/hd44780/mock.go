// Public API to record and inspect pin activity in test code.

package hd44780

import (
	"fmt"
	"testing"
	"time"

	"github.com/juju/errors"
)

type MockOp uint8

const (
	MockSet MockOp = iota + 1
	MockBus
	MockInput
	MockGet
	MockOutput
	MockSleep
)

type MockEvent struct {
	Op     MockOp
	Pin    string
	Value  bool
	Values []bool
	D      time.Duration
}

func (e MockEvent) String() string {
	switch e.Op {
	case MockSet:
		return fmt.Sprintf("%s=%t", e.Pin, e.Value)
	case MockBus:
		return fmt.Sprintf("bus=%v", e.Values)
	case MockInput:
		return e.Pin + " input"
	case MockGet:
		return fmt.Sprintf("%s get=%t", e.Pin, e.Value)
	case MockOutput:
		return e.Pin + " output"
	case MockSleep:
		return "sleep " + e.D.String()
	}
	return "?"
}

// MockStrobe is one latched nibble as the controller would see it.
type MockStrobe struct {
	RS     bool
	Nibble Nibble
	Hold   time.Duration
	// sum of sleeps after E went low, before next pin activity
	Wait time.Duration
}

// Mock records every line operation and sleep in one ordered log.
type Mock struct {
	t      testing.TB
	width  int
	Events []MockEvent

	// D7 reports busy for this many reads
	BusyReads int
	// returning error from Fail makes the operation fail
	Fail func(e MockEvent) error

	d7input bool
}

func NewMock(t testing.TB, width int) *Mock {
	return &Mock{t: t, width: width}
}

func (m *Mock) Pins() Pins {
	p := Pins{
		RS:   mockLine{m, "RS"},
		RW:   mockLine{m, "RW"},
		E:    mockLine{m, "E"},
		Data: mockBus{m},
	}
	if m.width == 3 {
		p.D7 = mockBusy{mockLine{m, "D7"}}
	}
	return p
}

func (m *Mock) Sleep(d time.Duration) {
	_ = m.record(MockEvent{Op: MockSleep, D: d})
}

func (m *Mock) record(e MockEvent) error {
	if m.Fail != nil {
		if err := m.Fail(e); err != nil {
			m.t.Logf("hd44780-mock: inject error op=%s err=%v", e, err)
			return err
		}
	}
	m.Events = append(m.Events, e)
	return nil
}

// Count returns number of recorded events matching op and pin ("" = any pin).
func (m *Mock) Count(op MockOp, pin string) int {
	n := 0
	for _, e := range m.Events {
		if e.Op == op && (pin == "" || e.Pin == pin) {
			n++
		}
	}
	return n
}

// Strobes replays the log and returns what was latched on each E pulse.
func (m *Mock) Strobes() []MockStrobe {
	var (
		rs, d7, e bool
		bus       = make([]bool, m.width)
		ss        []MockStrobe
		open      = -1 // strobe collecting sleeps
	)
	for _, ev := range m.Events {
		switch ev.Op {
		case MockSleep:
			if open >= 0 {
				if e {
					ss[open].Hold += ev.D
				} else {
					ss[open].Wait += ev.D
				}
			}
			continue
		case MockSet:
			switch ev.Pin {
			case "RS":
				rs = ev.Value
			case "D7":
				d7 = ev.Value
			case "E":
				rising, falling := ev.Value && !e, !ev.Value && e
				e = ev.Value
				if rising {
					ss = append(ss, MockStrobe{RS: rs, Nibble: m.latch(d7, bus)})
					open = len(ss) - 1
					continue
				}
				if falling {
					continue
				}
			}
		case MockBus:
			copy(bus, ev.Values)
		}
		open = -1
	}
	return ss
}

func (m *Mock) latch(d7 bool, bus []bool) Nibble {
	bits := bus
	if m.width == 3 {
		bits = append([]bool{d7}, bus...)
	}
	var n Nibble
	for _, b := range bits {
		n <<= 1
		if b {
			n |= 1
		}
	}
	return n
}

type mockLine struct {
	m    *Mock
	name string
}

func (l mockLine) Set(v bool) error {
	if err := l.m.record(MockEvent{Op: MockSet, Pin: l.name, Value: v}); err != nil {
		return errors.Annotatef(err, "pin=%s set=%t", l.name, v)
	}
	return nil
}

type mockBus struct{ m *Mock }

func (b mockBus) Width() int { return b.m.width }

func (b mockBus) SetValues(vs ...bool) error {
	if len(vs) != b.m.width {
		return errors.NotValidf("mock bus values=%d width=%d", len(vs), b.m.width)
	}
	if err := b.m.record(MockEvent{Op: MockBus, Values: append([]bool(nil), vs...)}); err != nil {
		return errors.Annotatef(err, "bus set=%v", vs)
	}
	return nil
}

type mockBusy struct{ mockLine }

func (l mockBusy) Set(v bool) error {
	if l.m.d7input {
		l.m.t.Errorf("hd44780-mock: D7 set=%t while configured as input", v)
	}
	return l.mockLine.Set(v)
}

func (l mockBusy) Input() error {
	if err := l.m.record(MockEvent{Op: MockInput, Pin: l.name}); err != nil {
		return errors.Annotatef(err, "pin=%s input", l.name)
	}
	l.m.d7input = true
	return nil
}

func (l mockBusy) Get() (bool, error) {
	if !l.m.d7input {
		l.m.t.Errorf("hd44780-mock: D7 get while configured as output")
	}
	busy := l.m.BusyReads > 0
	if err := l.m.record(MockEvent{Op: MockGet, Pin: l.name, Value: busy}); err != nil {
		return false, errors.Annotatef(err, "pin=%s get", l.name)
	}
	if busy {
		l.m.BusyReads--
	}
	return busy, nil
}

func (l mockBusy) Output() error {
	if err := l.m.record(MockEvent{Op: MockOutput, Pin: l.name}); err != nil {
		return errors.Annotatef(err, "pin=%s output", l.name)
	}
	l.m.d7input = false
	return nil
}
