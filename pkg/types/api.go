package types

import (
	"time"

	"github.com/seasonx/seasonx/pkg/market"
)

// Options are the dropdown choices and the theme a renderer starts with.
// This struct is shared between the daemon and client packages.
type Options struct {
	Markets   []string `json:"markets"`
	Seasons   []string `json:"seasons"`
	Sectors   []string `json:"sectors"`
	ColorMode string   `json:"colorMode"`
}

// IndicatorReadout is the indicator panel content for the selected date.
type IndicatorReadout struct {
	market.Indicators
	RSISignal string `json:"rsiSignal"`
	MASignal  string `json:"maSignal"`
}

func NewIndicatorReadout(i market.Indicators) IndicatorReadout {
	return IndicatorReadout{
		Indicators: i,
		RSISignal:  i.RSILabel(),
		MASignal:   i.MALabel(),
	}
}

// RefreshStatus describes the background data refresh.
type RefreshStatus struct {
	Schedule  string     `json:"schedule"`
	Running   bool       `json:"running"`
	NextRun   *time.Time `json:"nextRun,omitempty"`
	LastRun   *time.Time `json:"lastRun,omitempty"`
	LastError string     `json:"lastError,omitempty"`
}
