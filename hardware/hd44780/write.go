package hd44780

import (
	"github.com/juju/errors"
)

// WriteString selects data register once and sends s character by character
// from the current cursor position. Returns byte offset in s of the first
// character not written. Text already on the display stays there on error.
func (lcd *LCD) WriteString(s string) (int, error) {
	if err := lcd.selectData(); err != nil {
		return 0, errors.Annotate(err, "hd44780 write")
	}
	var buf [4]byte
	for i, r := range s {
		bs, err := lcd.charBytes(buf[:0], r)
		if err != nil {
			return i, err
		}
		for _, b := range bs {
			if err = lcd.sendByte(b, lcd.sync); err != nil {
				return i, errors.Annotatef(err, "hd44780 write offset=%d character=%q", i, r)
			}
		}
	}
	return len(s), nil
}

// Write implements io.Writer, p is text in UTF-8.
func (lcd *LCD) Write(p []byte) (int, error) {
	return lcd.WriteString(string(p))
}
