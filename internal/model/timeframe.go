package model

import (
	"fmt"
	"strconv"
	"strings"
)

// Timeframe is a bar interval such as 1m, 5m, 1h.
type Timeframe struct {
	Multiplier int
	Timespan   string // minute, hour, day
}

// DefaultTimeframe is one-minute bars, the resolution every detector assumes.
var DefaultTimeframe = Timeframe{Multiplier: 1, Timespan: "minute"}

// ParseTimeframe parses compact notation: 1m, 5m, 15m, 1h, 1d.
func ParseTimeframe(s string) (Timeframe, error) {
	s = strings.TrimSpace(strings.ToLower(s))
	if len(s) < 2 {
		return Timeframe{}, fmt.Errorf("invalid timeframe %q", s)
	}
	mult, err := strconv.Atoi(s[:len(s)-1])
	if err != nil || mult < 1 {
		return Timeframe{}, fmt.Errorf("invalid timeframe %q", s)
	}
	var span string
	switch s[len(s)-1] {
	case 'm':
		span = "minute"
	case 'h':
		span = "hour"
	case 'd':
		span = "day"
	default:
		return Timeframe{}, fmt.Errorf("invalid timeframe %q (use m, h or d suffix)", s)
	}
	return Timeframe{Multiplier: mult, Timespan: span}, nil
}

func (tf Timeframe) String() string {
	if tf.Multiplier == 0 {
		return "1m"
	}
	return fmt.Sprintf("%d%c", tf.Multiplier, tf.Timespan[0])
}

// OrDefault returns the timeframe, or DefaultTimeframe for the zero value.
func (tf Timeframe) OrDefault() Timeframe {
	if tf.Multiplier == 0 || tf.Timespan == "" {
		return DefaultTimeframe
	}
	return tf
}
