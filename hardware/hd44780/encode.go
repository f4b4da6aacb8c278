package hd44780

import (
	"strings"
	"unicode"

	"github.com/juju/errors"
)

// Encode splits 7-bit ASCII character into high and low nibble.
// ok=false for anything else.
func Encode(r rune) (hi, lo Nibble, ok bool) {
	if r < 0 || r > unicode.MaxASCII {
		return 0, 0, false
	}
	hi, lo = splitByte(byte(r))
	return hi, lo, true
}

// CharPolicy is what to do with characters Encode does not support.
type CharPolicy uint8

const (
	PolicySkip CharPolicy = iota
	PolicySubstitute
	PolicyFail
)

func (p CharPolicy) String() string {
	switch p {
	case PolicySkip:
		return "skip"
	case PolicySubstitute:
		return "substitute"
	case PolicyFail:
		return "fail"
	}
	return "unknown"
}

func ParseCharPolicy(s string) (CharPolicy, error) {
	switch strings.ToLower(s) {
	case "", "skip":
		return PolicySkip, nil
	case "substitute":
		return PolicySubstitute, nil
	case "fail":
		return PolicyFail, nil
	}
	return PolicySkip, errors.NotValidf("char policy=%s (valid: skip, substitute, fail)", s)
}

// charBytes returns controller character codes for r, possibly none.
// buf is reused.
func (lcd *LCD) charBytes(buf []byte, r rune) ([]byte, error) {
	buf = buf[:0]
	if lcd.tr != nil {
		_, tb, err := lcd.tr.Translate([]byte(string(r)), true)
		if err != nil {
			return nil, errors.Annotatef(err, "hd44780 codepage character=%q", r)
		}
		// translator writes '?' for runes missing in the code page
		if len(tb) != 0 && !(r != '?' && len(tb) == 1 && tb[0] == '?') {
			// translator reuses single internal buffer
			return append(buf, tb...), nil
		}
	} else if hi, lo, ok := Encode(r); ok {
		return append(buf, byte(hi)<<4|byte(lo)), nil
	}
	switch lcd.policy {
	case PolicySubstitute:
		return append(buf, lcd.subst), nil
	case PolicyFail:
		return nil, errors.NotSupportedf("hd44780 character=%q", r)
	}
	lcd.log.Debugf("hd44780 skip character=%q", r)
	return buf, nil
}
