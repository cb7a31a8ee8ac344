package lscp

import (
	"strings"

	"github.com/go-logr/logr"
)

// DriverInfo describes an audio output or MIDI input driver
type DriverInfo struct {
	Description string
	Version     string
	Parameters  []string
}

// EngineInfo describes a sampler engine
type EngineInfo struct {
	Description string
	Version     string
}

// ChannelInfo describes the current setup of one sampler channel
type ChannelInfo struct {
	EngineName     string
	AudioDevice    int
	AudioChannels  int
	AudioRouting   []string
	InstrumentFile string
	InstrumentNr   int
	MIDIDevice     int
	MIDIPort       int
	MIDIChannel    int
	Volume         float32
}

// BufferFill reports the fill level of one disk stream buffer. Usage is in
// bytes or percent depending on the mode the fill state was requested in
type BufferFill struct {
	StreamID uint32
	Usage    uint64
}

// UsageMode selects the unit buffer fill levels are reported in
type UsageMode int

const (
	UsageBytes UsageMode = iota
	UsagePercentage
)

// String returns the wire spelling of the usage mode
func (u UsageMode) String() string {
	if u == UsageBytes {
		return "BYTES"
	}
	return "PERCENTAGE"
}

// decodeDriverInfo fills a driver info snapshot from a multi-line reply of
// colon-separated key/value pairs. Unknown keys are skipped with their
// values so a newer server does not derail the fields that follow.
func decodeDriverInfo(body string, log logr.Logger) DriverInfo {
	var info DriverInfo
	tok := &tokenizer{s: body}
	for {
		key, ok := tok.next(":")
		if !ok {
			break
		}
		value, _ := tok.next("\r\n")
		switch {
		case strings.EqualFold(key, "DESCRIPTION"):
			info.Description = unquote(value)
		case strings.EqualFold(key, "VERSION"):
			info.Version = unquote(value)
		case strings.EqualFold(key, "PARAMETERS"):
			info.Parameters = splitList(value, ",")
		default:
			log.V(1).Info("skipping unknown driver info field", "key", strings.TrimSpace(key))
		}
	}
	return info
}

// decodeEngineInfo fills an engine info snapshot from a multi-line reply
func decodeEngineInfo(body string, log logr.Logger) EngineInfo {
	var info EngineInfo
	tok := &tokenizer{s: body}
	for {
		key, ok := tok.next(":")
		if !ok {
			break
		}
		value, _ := tok.next("\r\n")
		switch {
		case strings.EqualFold(key, "DESCRIPTION"):
			info.Description = unquote(value)
		case strings.EqualFold(key, "VERSION"):
			info.Version = unquote(value)
		default:
			log.V(1).Info("skipping unknown engine info field", "key", strings.TrimSpace(key))
		}
	}
	return info
}

// decodeChannelInfo fills a channel info snapshot from a multi-line reply
func decodeChannelInfo(body string, log logr.Logger) ChannelInfo {
	var info ChannelInfo
	tok := &tokenizer{s: body}
	for {
		key, ok := tok.next(":")
		if !ok {
			break
		}
		value, _ := tok.next("\r\n")
		switch {
		case strings.EqualFold(key, "ENGINE_NAME"):
			info.EngineName = unquote(value)
		case strings.EqualFold(key, "AUDIO_OUTPUT_DEVICE"):
			info.AudioDevice = atoi(value)
		case strings.EqualFold(key, "AUDIO_OUTPUT_CHANNELS"):
			info.AudioChannels = atoi(value)
		case strings.EqualFold(key, "AUDIO_OUTPUT_ROUTING"):
			info.AudioRouting = splitList(value, ",")
		case strings.EqualFold(key, "INSTRUMENT_FILE"):
			info.InstrumentFile = unquote(value)
		case strings.EqualFold(key, "INSTRUMENT_NR"):
			info.InstrumentNr = atoi(value)
		case strings.EqualFold(key, "MIDI_INPUT_DEVICE"):
			info.MIDIDevice = atoi(value)
		case strings.EqualFold(key, "MIDI_INPUT_PORT"):
			info.MIDIPort = atoi(value)
		case strings.EqualFold(key, "MIDI_INPUT_CHANNEL"):
			info.MIDIChannel = atoi(value)
		case strings.EqualFold(key, "VOLUME"):
			info.Volume = atof(value)
		default:
			log.V(1).Info("skipping unknown channel info field", "key", strings.TrimSpace(key))
		}
	}
	return info
}

// decodeBufferFill decodes "[<id>]<usage>" pairs into fill, which retains
// its previous contents past the pairs actually present in the reply.
// Pairs beyond the capacity of fill are dropped.
func decodeBufferFill(body string, fill []BufferFill, log logr.Logger) {
	const seps = "[]%,"
	tok := &tokenizer{s: body}
	for i := range fill {
		id, ok := tok.next(seps)
		if !ok {
			return
		}
		usage, ok := tok.next(seps)
		if !ok {
			return
		}
		fill[i] = BufferFill{StreamID: uint32(atou(id)), Usage: atou(usage)}
	}
	if _, ok := tok.next(seps); ok {
		log.V(1).Info("buffer fill reply longer than stream count", "streams", len(fill))
	}
}
