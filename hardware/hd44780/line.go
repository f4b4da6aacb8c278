package hd44780

// Line is one output signal. true drives the line high (asserted).
type Line interface {
	Set(v bool) error
}

// BusyLine is D7 wired so it can be turned around to read the busy flag.
// Get is only valid between Input and Output.
type BusyLine interface {
	Line
	Input() error
	Get() (bool, error)
	Output() error
}

// Bus writes a group of data lines as one vector.
// Index 0 is the most significant line (D7 or D6).
type Bus interface {
	Width() int
	SetValues(vs ...bool) error
}

// Pins is the set of lines the driver owns for its whole lifetime.
type Pins struct {
	RS   Line // command/data, aliases: A0, RS
	RW   Line // read/write, nil when tied to ground
	E    Line // enable
	Data Bus  // D7..D4 (width 4) or D6..D4 (width 3)
	D7   BusyLine

	// Close releases the lines, may be nil
	Close func() error
}

type PinMap struct {
	RS string `hcl:"rs"`
	RW string `hcl:"rw,optional"`
	E  string `hcl:"e"`
	D4 string `hcl:"d4"`
	D5 string `hcl:"d5"`
	D6 string `hcl:"d6"`
	D7 string `hcl:"d7"`
}
