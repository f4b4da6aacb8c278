// Package gpioline acquires HD44780 signal lines from a GPIO backend.
package gpioline

import (
	"strconv"

	"github.com/AlexTransit/lcd44780/hardware/hd44780"
	"github.com/AlexTransit/lcd44780/helpers"
	"github.com/juju/errors"
)

const ConsumerLabel = "lcd44780"

type role struct {
	tag  string
	name string
}

// roles returns pin roles in bus order, D7 first.
func roles(pm hd44780.PinMap) (control, data []role) {
	control = []role{{"RS", pm.RS}, {"E", pm.E}}
	if pm.RW != "" {
		control = append(control, role{"RW", pm.RW})
	}
	data = []role{{"D7", pm.D7}, {"D6", pm.D6}, {"D5", pm.D5}, {"D4", pm.D4}}
	return control, data
}

// offsets parses line numbers for the chardev backend, all errors at once.
func offsets(rs []role) ([]uint32, error) {
	errs := make([]error, 0, len(rs))
	result := make([]uint32, len(rs))
	for i, r := range rs {
		if r.name == "" {
			errs = append(errs, errors.NotValidf("LCD/init %s pin is not configured", r.tag))
			continue
		}
		x, err := strconv.ParseUint(r.name, 10, 32)
		if err != nil {
			errs = append(errs, errors.NotValidf("LCD/init %s pin=%s", r.tag, r.name))
			continue
		}
		result[i] = uint32(x)
	}
	return result, helpers.FoldErrors(errs)
}

func checkDuplicates(rs []role) error {
	seen := make(map[string]string, len(rs))
	for _, r := range rs {
		if r.name == "" {
			continue
		}
		if prev, ok := seen[r.name]; ok {
			return errors.NotValidf("LCD/init pin=%s used by %s and %s", r.name, prev, r.tag)
		}
		seen[r.name] = r.tag
	}
	return nil
}

func b2u(b bool) byte {
	if b {
		return 1
	}
	return 0
}
