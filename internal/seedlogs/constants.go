package seedlogs

import "time"

// Defaults used by the command line.
const (
	DefaultBaseURL = "http://localhost:9080"
	DefaultRunners = 30
	DefaultDays    = 28
	DefaultTimeout = 30 * time.Second
	DefaultSettle  = 30 * time.Second
)

const (
	restDayChance    = 0.15
	doubleDayChance  = 0.2
	replayEvery      = 20
	pollInterval     = 250 * time.Millisecond
	percentageFactor = 100
)

var categories = []string{"jog", "tempo", "interval", "long_run", "recovery"}
