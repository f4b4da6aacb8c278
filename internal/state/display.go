package state

import (
	"github.com/AlexTransit/lcd44780/hardware/hd44780"
	"github.com/juju/errors"
)

// DisplayFunc runs on display goroutine with initialized LCD.
type DisplayFunc func(lcd *hd44780.LCD) error

// ShowText replaces whole display content with text.
func ShowText(text string) DisplayFunc {
	return func(lcd *hd44780.LCD) error {
		if err := lcd.Clear(); err != nil {
			return err
		}
		n, err := lcd.WriteString(text)
		return errors.Annotatef(err, "text=%q written=%d", text, n)
	}
}

// RunDisplay is the only goroutine touching LCD in long running modes.
// Returns when jobs is closed or g is stopping.
func (g *Global) RunDisplay(jobs <-chan DisplayFunc) {
	if !g.Alive.Add(1) {
		return
	}
	defer g.Alive.Done()
	stopCh := g.Alive.StopChan()
	for {
		select {
		case <-stopCh:
			return
		case f, ok := <-jobs:
			if !ok {
				return
			}
			lcd, err := g.LCD()
			if err != nil {
				g.Error(err, "display")
				continue
			}
			g.Error(f(lcd), "display")
		}
	}
}

// Display queues f, false if g is stopping.
func (g *Global) Display(jobs chan<- DisplayFunc, f DisplayFunc) bool {
	stopCh := g.Alive.StopChan()
	select {
	case <-stopCh:
		return false
	default:
	}
	select {
	case <-stopCh:
		return false
	case jobs <- f:
		return true
	}
}
