package config_global

import (
	"github.com/AlexTransit/lcd44780/hardware/hd44780"
)

// Every block is optional, missing values come from Default().
type Config struct {
	Include  []IncludeStruct `hcl:"include,block"`
	Text     string          `hcl:"text,optional"`
	LogDebug bool            `hcl:"log_debug,optional"`
	Hardware *HardwareStruct `hcl:"hardware,block"`
	Mqtt     *MqttStruct     `hcl:"mqtt,block"`
}

type IncludeStruct struct {
	Name     string `hcl:"name,label"`
	Optional bool   `hcl:"optional,optional"`
}

type HardwareStruct struct {
	HD44780 *HD44780Struct `hcl:"hd44780,block"`
}

type HD44780Struct struct { //nolint:maligned
	Backend      string          `hcl:"backend,optional"` // cdev, periph
	PinChip      string          `hcl:"pin_chip,optional"`
	Pinmap       *hd44780.PinMap `hcl:"pinmap,block"`
	BusyWired    bool            `hcl:"busy_wired,optional"`
	Sync         string          `hcl:"sync,optional"` // delay, busy
	DelayUs      int             `hcl:"delay_us,optional"`
	EnableHoldUs int             `hcl:"enable_hold_us,optional"`
	PowerOnMs    int             `hcl:"power_on_ms,optional"`
	CharPolicy   string          `hcl:"char_policy,optional"` // skip, substitute, fail
	Substitute   string          `hcl:"substitute,optional"`
	Codepage     string          `hcl:"codepage,optional"`
	LogDebug     bool            `hcl:"log_debug,optional"`
}

type MqttStruct struct { //nolint:maligned
	Broker         string `hcl:"broker,optional"`
	ClientID       string `hcl:"client_id,optional"`
	Username       string `hcl:"username,optional"`
	Password       string `hcl:"password,optional"` // secret
	Topic          string `hcl:"topic,optional"`
	Qos            int    `hcl:"qos,optional"`
	Payload        string `hcl:"payload,optional"` // text, proto
	KeepaliveSec   int    `hcl:"keepalive_sec,optional"`
	PingTimeoutSec int    `hcl:"ping_timeout_sec,optional"`
	StorePath      string `hcl:"store_path,optional"`
	LogDebug       bool   `hcl:"log_debug,optional"`
}

// Default wiring is the one from Raspberry Pi header used in development:
// RS=GPIO20 (pin 38), E=GPIO21 (pin 40), D4..D7=GPIO25,8,7,1 (pins 22,24,26,28).
// RW is optional, busy polling needs it (GPIO12, pin 32).
func Default() *Config {
	return &Config{
		Text: "Hello, World!",
		Hardware: &HardwareStruct{
			HD44780: &HD44780Struct{
				Backend: "cdev",
				PinChip: "/dev/gpiochip0",
				Pinmap: &hd44780.PinMap{
					RS: "20",
					E:  "21",
					D4: "25",
					D5: "8",
					D6: "7",
					D7: "1",
				},
				Sync:         "delay",
				DelayUs:      int(hd44780.DefaultDelay.Microseconds()),
				EnableHoldUs: int(hd44780.DefaultEnableHold.Microseconds()),
				PowerOnMs:    int(hd44780.DefaultPowerOnDelay.Milliseconds()),
				CharPolicy:   "skip",
				Substitute:   string(rune(hd44780.DefaultSubstitute)),
			},
		},
		Mqtt: &MqttStruct{
			Broker:         "tcp://localhost:1883",
			ClientID:       "lcd44780",
			Topic:          "lcd44780/text",
			Qos:            1,
			Payload:        "text",
			KeepaliveSec:   60,
			PingTimeoutSec: 30,
		},
	}
}
