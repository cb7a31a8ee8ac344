package lscp

import (
	"fmt"
)

// command runs a status-only transaction; server errors and warnings both
// come back as a *ProtocolError
func (c *Client) command(line string) error {
	resp, err := c.Query(line)
	if err != nil {
		return err
	}
	return resp.Err()
}

// queryResult runs a transaction and returns its result text on success
func (c *Client) queryResult(line string) (string, error) {
	resp, err := c.Query(line)
	if err != nil {
		return "", err
	}
	if err := resp.Err(); err != nil {
		return "", err
	}
	return resp.Text, nil
}

// queryInt runs a transaction whose result is a bare number
func (c *Client) queryInt(line string) (int, error) {
	text, err := c.queryResult(line)
	if err != nil {
		return -1, err
	}
	return atoi(text), nil
}

// GetAvailableAudioDrivers lists the audio output drivers the server
// supports: GET AVAILABLE_AUDIO_OUTPUT_DRIVERS
func (c *Client) GetAvailableAudioDrivers() ([]string, error) {
	text, err := c.queryResult("GET AVAILABLE_AUDIO_OUTPUT_DRIVERS")
	if err != nil {
		return nil, err
	}
	return splitList(text, ","), nil
}

// GetAvailableMIDIDrivers lists the MIDI input drivers the server
// supports: GET AVAILABLE_MIDI_INPUT_DRIVERS
func (c *Client) GetAvailableMIDIDrivers() ([]string, error) {
	text, err := c.queryResult("GET AVAILABLE_MIDI_INPUT_DRIVERS")
	if err != nil {
		return nil, err
	}
	return splitList(text, ","), nil
}

// GetAudioDriverInfo describes one audio output driver:
// GET AUDIO_OUTPUT_DRIVER INFO <driver>
func (c *Client) GetAudioDriverInfo(driver string) (DriverInfo, error) {
	if driver == "" {
		return DriverInfo{}, fmt.Errorf("%w: empty audio driver name", ErrInvalidArg)
	}
	text, err := c.queryResult("GET AUDIO_OUTPUT_DRIVER INFO " + driver)
	if err != nil {
		return DriverInfo{}, err
	}
	return decodeDriverInfo(text, c.log), nil
}

// GetMIDIDriverInfo describes one MIDI input driver:
// GET MIDI_INPUT_DRIVER INFO <driver>
func (c *Client) GetMIDIDriverInfo(driver string) (DriverInfo, error) {
	if driver == "" {
		return DriverInfo{}, fmt.Errorf("%w: empty MIDI driver name", ErrInvalidArg)
	}
	text, err := c.queryResult("GET MIDI_INPUT_DRIVER INFO " + driver)
	if err != nil {
		return DriverInfo{}, err
	}
	return decodeDriverInfo(text, c.log), nil
}

// GetAvailableEngines lists the sampler engines the server was built
// with: GET AVAILABLE_ENGINES
func (c *Client) GetAvailableEngines() ([]string, error) {
	text, err := c.queryResult("GET AVAILABLE_ENGINES")
	if err != nil {
		return nil, err
	}
	return splitList(text, ","), nil
}

// GetEngineInfo describes one sampler engine: GET ENGINE INFO <engine>
func (c *Client) GetEngineInfo(engine string) (EngineInfo, error) {
	if engine == "" {
		return EngineInfo{}, fmt.Errorf("%w: empty engine name", ErrInvalidArg)
	}
	text, err := c.queryResult("GET ENGINE INFO " + engine)
	if err != nil {
		return EngineInfo{}, err
	}
	return decodeEngineInfo(text, c.log), nil
}

// LoadInstrument loads an instrument from file into a sampler channel:
// LOAD INSTRUMENT <file> <instr-index> <channel>
func (c *Client) LoadInstrument(file string, instrIndex, channel int) error {
	if file == "" || channel < 0 {
		return fmt.Errorf("%w: instrument file %q on channel %d", ErrInvalidArg, file, channel)
	}
	return c.command(fmt.Sprintf("LOAD INSTRUMENT %s %d %d", file, instrIndex, channel))
}

// LoadEngine deploys a sampler engine on a channel:
// LOAD ENGINE <engine> <channel>
func (c *Client) LoadEngine(engine string, channel int) error {
	if engine == "" || channel < 0 {
		return fmt.Errorf("%w: engine %q on channel %d", ErrInvalidArg, engine, channel)
	}
	return c.command(fmt.Sprintf("LOAD ENGINE %s %d", engine, channel))
}

// GetChannels returns the current number of sampler channels: GET CHANNELS
func (c *Client) GetChannels() (int, error) {
	return c.queryInt("GET CHANNELS")
}

// AddChannel creates a sampler channel and returns its number, answered
// as OK[<number>]: ADD CHANNEL
func (c *Client) AddChannel() (int, error) {
	return c.queryInt("ADD CHANNEL")
}

// RemoveChannel removes a sampler channel: REMOVE CHANNEL <channel>
func (c *Client) RemoveChannel(channel int) error {
	if channel < 0 {
		return fmt.Errorf("%w: channel %d", ErrInvalidArg, channel)
	}
	return c.command(fmt.Sprintf("REMOVE CHANNEL %d", channel))
}

// GetChannelInfo returns a snapshot of one channel's setup:
// GET CHANNEL INFO <channel>
func (c *Client) GetChannelInfo(channel int) (ChannelInfo, error) {
	if channel < 0 {
		return ChannelInfo{}, fmt.Errorf("%w: channel %d", ErrInvalidArg, channel)
	}
	text, err := c.queryResult(fmt.Sprintf("GET CHANNEL INFO %d", channel))
	if err != nil {
		return ChannelInfo{}, err
	}
	return decodeChannelInfo(text, c.log), nil
}

// GetChannelVoiceCount returns the number of active voices on a channel:
// GET CHANNEL VOICE_COUNT <channel>
func (c *Client) GetChannelVoiceCount(channel int) (int, error) {
	if channel < 0 {
		return -1, fmt.Errorf("%w: channel %d", ErrInvalidArg, channel)
	}
	return c.queryInt(fmt.Sprintf("GET CHANNEL VOICE_COUNT %d", channel))
}

// GetChannelStreamCount returns the number of active disk streams on a
// channel and sizes the buffer-fill cache accordingly:
// GET CHANNEL STREAM_COUNT <channel>
func (c *Client) GetChannelStreamCount(channel int) (int, error) {
	if channel < 0 {
		return -1, fmt.Errorf("%w: channel %d", ErrInvalidArg, channel)
	}
	n, err := c.queryInt(fmt.Sprintf("GET CHANNEL STREAM_COUNT %d", channel))
	if err != nil {
		return -1, err
	}
	c.setStreamCount(n)
	return n, nil
}

// setStreamCount records the stream count the buffer-fill cache sizes to
func (c *Client) setStreamCount(n int) {
	c.fillMu.Lock()
	c.streamCount = n
	c.fillMu.Unlock()
}

// GetChannelBufferFill reports the fill state of a channel's disk stream
// buffers: GET CHANNEL BUFFER_FILL {BYTES|PERCENTAGE} <channel>. The
// returned slice is the client's internal cache — valid until the next
// call, reallocated only when the stream count changes. The count comes
// from the last GetChannelStreamCount; if none is known, one is queried
// first.
func (c *Client) GetChannelBufferFill(mode UsageMode, channel int) ([]BufferFill, error) {
	if channel < 0 {
		return nil, fmt.Errorf("%w: channel %d", ErrInvalidArg, channel)
	}

	c.fillMu.Lock()
	count := c.streamCount
	c.fillMu.Unlock()
	if count < 1 {
		var err error
		count, err = c.GetChannelStreamCount(channel)
		if err != nil {
			return nil, err
		}
		if count < 1 {
			return nil, fmt.Errorf("channel %d has no disk streams", channel)
		}
	}

	c.fillMu.Lock()
	defer c.fillMu.Unlock()
	if len(c.bufferFill) != count {
		c.bufferFill = make([]BufferFill, count)
	}

	text, err := c.queryResult(fmt.Sprintf("GET CHANNEL BUFFER_FILL %s %d", mode, channel))
	if err != nil {
		return nil, err
	}
	decodeBufferFill(text, c.bufferFill, c.log)
	return c.bufferFill, nil
}

// SetChannelAudioType routes a channel to an audio output driver:
// SET CHANNEL AUDIO_OUTPUT_TYPE <channel> <driver>
func (c *Client) SetChannelAudioType(channel int, driver string) error {
	if channel < 0 || driver == "" {
		return fmt.Errorf("%w: audio driver %q on channel %d", ErrInvalidArg, driver, channel)
	}
	return c.command(fmt.Sprintf("SET CHANNEL AUDIO_OUTPUT_TYPE %d %s", channel, driver))
}

// SetChannelAudioChannel routes one audio output channel into a device
// channel: SET CHANNEL AUDIO_OUTPUT_CHANNELS <channel> <out> <in>
func (c *Client) SetChannelAudioChannel(channel, audioOut, audioIn int) error {
	if channel < 0 || audioOut < 0 || audioIn < 0 {
		return fmt.Errorf("%w: audio routing %d->%d on channel %d", ErrInvalidArg, audioOut, audioIn, channel)
	}
	return c.command(fmt.Sprintf("SET CHANNEL AUDIO_OUTPUT_CHANNELS %d %d %d", channel, audioOut, audioIn))
}

// SetChannelMIDIType routes a channel to a MIDI input driver:
// SET CHANNEL MIDI_INPUT_TYPE <channel> <driver>
func (c *Client) SetChannelMIDIType(channel int, driver string) error {
	if channel < 0 || driver == "" {
		return fmt.Errorf("%w: MIDI driver %q on channel %d", ErrInvalidArg, driver, channel)
	}
	return c.command(fmt.Sprintf("SET CHANNEL MIDI_INPUT_TYPE %d %s", channel, driver))
}

// SetChannelMIDIPort selects the MIDI input port of a channel:
// SET CHANNEL MIDI_INPUT_PORT <channel> <port>
func (c *Client) SetChannelMIDIPort(channel, port int) error {
	if channel < 0 || port < 0 {
		return fmt.Errorf("%w: MIDI port %d on channel %d", ErrInvalidArg, port, channel)
	}
	return c.command(fmt.Sprintf("SET CHANNEL MIDI_INPUT_PORT %d %d", channel, port))
}

// SetChannelMIDIChannel selects the MIDI channel a sampler channel listens
// on, 1-16, or 0 to listen on all sixteen (sent as ALL):
// SET CHANNEL MIDI_INPUT_CHANNEL <channel> <midi-channel>
func (c *Client) SetChannelMIDIChannel(channel, midiChannel int) error {
	if channel < 0 || midiChannel < 0 || midiChannel > 16 {
		return fmt.Errorf("%w: MIDI channel %d on channel %d", ErrInvalidArg, midiChannel, channel)
	}
	if midiChannel == 0 {
		return c.command(fmt.Sprintf("SET CHANNEL MIDI_INPUT_CHANNEL %d ALL", channel))
	}
	return c.command(fmt.Sprintf("SET CHANNEL MIDI_INPUT_CHANNEL %d %d", channel, midiChannel))
}

// SetChannelVolume scales a channel's volume; values below 1.0 attenuate,
// above 1.0 amplify: SET CHANNEL VOLUME <channel> <volume>
func (c *Client) SetChannelVolume(channel int, volume float32) error {
	if channel < 0 || volume < 0 {
		return fmt.Errorf("%w: volume %g on channel %d", ErrInvalidArg, volume, channel)
	}
	return c.command(fmt.Sprintf("SET CHANNEL VOLUME %d %g", channel, volume))
}

// ResetChannel resets a sampler channel: RESET CHANNEL <channel>
func (c *Client) ResetChannel(channel int) error {
	if channel < 0 {
		return fmt.Errorf("%w: channel %d", ErrInvalidArg, channel)
	}
	return c.command(fmt.Sprintf("RESET CHANNEL %d", channel))
}
