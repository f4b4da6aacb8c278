package helpers

import "time"

func ConfigDefaultInt(InInt int, valueIfIntZero int) int {
	if InInt == 0 {
		return valueIfIntZero
	}
	return InInt
}

func ConfigDefaultStr(inString string, valueIfStringBlank string) string {
	if inString == "" {
		return valueIfStringBlank
	}
	return inString
}

func IntSecondConfigDefault(sec int, def int) time.Duration {
	return time.Duration(ConfigDefaultInt(sec, def)) * time.Second
}

func IntMicrosecond(us int) time.Duration { return time.Duration(us) * time.Microsecond }
func IntMillisecond(ms int) time.Duration { return time.Duration(ms) * time.Millisecond }
