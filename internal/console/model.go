package console

import (
	"fmt"
	"path/filepath"
	"strconv"

	lscp "github.com/noisegate/go-lscp"
)

// ChannelState is one row of the console's channel model: the last polled
// setup and activity counters of a sampler channel
type ChannelState struct {
	ID      int
	Info    lscp.ChannelInfo
	Voices  int
	Streams int
}

// EngineLabel renders the deployed engine name, "-" when none is loaded
func (s ChannelState) EngineLabel() string {
	if s.Info.EngineName == "" {
		return "-"
	}
	return s.Info.EngineName
}

// InstrumentLabel renders the loaded instrument as name[index], "-" when
// the channel has no instrument
func (s ChannelState) InstrumentLabel() string {
	if s.Info.InstrumentFile == "" {
		return "-"
	}
	return fmt.Sprintf("%s[%d]", filepath.Base(s.Info.InstrumentFile), s.Info.InstrumentNr)
}

// MIDIChannelLabel renders the listening MIDI channel, "ALL" for omni
func (s ChannelState) MIDIChannelLabel() string {
	if s.Info.MIDIChannel == 0 {
		return "ALL"
	}
	return strconv.Itoa(s.Info.MIDIChannel)
}
