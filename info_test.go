package lscp

import (
	"strings"
	"sync/atomic"
	"testing"

	"github.com/go-logr/logr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeDriverInfo(t *testing.T) {
	body := "DESCRIPTION: 'Advanced Linux Sound Architecture'\r\n" +
		"VERSION: '1.0'\r\n" +
		"PARAMETERS: DEVICE,CARD,BUFFERS"
	info := decodeDriverInfo(body, logr.Discard())

	assert.Equal(t, "Advanced Linux Sound Architecture", info.Description)
	assert.Equal(t, "1.0", info.Version)
	assert.Equal(t, []string{"DEVICE", "CARD", "BUFFERS"}, info.Parameters)
}

func TestDecodeDriverInfoSkipsUnknownKeys(t *testing.T) {
	body := "NOVELTY: something new\r\nVERSION: '2.1'"
	info := decodeDriverInfo(body, logr.Discard())

	assert.Empty(t, info.Description)
	assert.Equal(t, "2.1", info.Version, "an unknown pair must not derail the next one")
}

func TestDecodeEngineInfo(t *testing.T) {
	body := "DESCRIPTION: GigaSampler Engine\r\nVERSION: 0.3"
	info := decodeEngineInfo(body, logr.Discard())

	assert.Equal(t, "GigaSampler Engine", info.Description)
	assert.Equal(t, "0.3", info.Version)
}

func TestDecodeChannelInfo(t *testing.T) {
	body := "ENGINE_NAME: GigEngine\r\n" +
		"AUDIO_OUTPUT_DEVICE: 0\r\n" +
		"AUDIO_OUTPUT_CHANNELS: 2\r\n" +
		"AUDIO_OUTPUT_ROUTING: 0,1\r\n" +
		"INSTRUMENT_FILE: '/opt/samples/grand piano.gig'\r\n" +
		"INSTRUMENT_NR: 3\r\n" +
		"MIDI_INPUT_DEVICE: 1\r\n" +
		"MIDI_INPUT_PORT: 0\r\n" +
		"MIDI_INPUT_CHANNEL: 0\r\n" +
		"VOLUME: 0.75"
	info := decodeChannelInfo(body, logr.Discard())

	assert.Equal(t, "GigEngine", info.EngineName)
	assert.Equal(t, 0, info.AudioDevice)
	assert.Equal(t, 2, info.AudioChannels)
	assert.Equal(t, []string{"0", "1"}, info.AudioRouting)
	assert.Equal(t, "/opt/samples/grand piano.gig", info.InstrumentFile)
	assert.Equal(t, 3, info.InstrumentNr)
	assert.Equal(t, 1, info.MIDIDevice)
	assert.Equal(t, 0, info.MIDIPort)
	assert.Equal(t, 0, info.MIDIChannel)
	assert.InDelta(t, 0.75, info.Volume, 1e-6)
}

func TestDecodeBufferFill(t *testing.T) {
	fill := make([]BufferFill, 3)
	decodeBufferFill("[0]25%,[1]70%,[2]100%", fill, logr.Discard())

	assert.Equal(t, []BufferFill{
		{StreamID: 0, Usage: 25},
		{StreamID: 1, Usage: 70},
		{StreamID: 2, Usage: 100},
	}, fill)
}

func TestDecodeBufferFillKeepsStaleTail(t *testing.T) {
	fill := []BufferFill{
		{StreamID: 9, Usage: 9},
		{StreamID: 8, Usage: 8},
	}
	decodeBufferFill("[4]40%", fill, logr.Discard())

	assert.Equal(t, BufferFill{StreamID: 4, Usage: 40}, fill[0])
	assert.Equal(t, BufferFill{StreamID: 8, Usage: 8}, fill[1], "slots past the reply keep their previous contents")
}

func TestDecodeBufferFillDropsOverflow(t *testing.T) {
	fill := make([]BufferFill, 1)
	decodeBufferFill("[0]10%,[1]20%", fill, logr.Discard())

	assert.Equal(t, []BufferFill{{StreamID: 0, Usage: 10}}, fill)
}

func TestUsageModeWireSpelling(t *testing.T) {
	assert.Equal(t, "BYTES", UsageBytes.String())
	assert.Equal(t, "PERCENTAGE", UsagePercentage.String())
}

func TestBufferFillCacheReuse(t *testing.T) {
	ms := startMockServer(t, func(line string) string {
		switch {
		case strings.HasPrefix(line, "GET CHANNEL STREAM_COUNT"):
			return "2\r\n"
		case strings.HasPrefix(line, "GET CHANNEL BUFFER_FILL"):
			return "[0]30%,[1]55%\r\n"
		default:
			return "OK\r\n"
		}
	})
	c := dialTestClient(t, ms, nil)

	first, err := c.GetChannelBufferFill(UsagePercentage, 0)
	require.NoError(t, err)
	require.Len(t, first, 2)
	assert.Equal(t, BufferFill{StreamID: 0, Usage: 30}, first[0])
	assert.Equal(t, BufferFill{StreamID: 1, Usage: 55}, first[1])

	second, err := c.GetChannelBufferFill(UsagePercentage, 0)
	require.NoError(t, err)
	assert.Same(t, &first[0], &second[0], "unchanged stream count must reuse the cache")

	// the stream count was queried once; afterwards the cached count serves
	counts := 0
	for _, line := range ms.requests() {
		if strings.HasPrefix(line, "GET CHANNEL STREAM_COUNT") {
			counts++
		}
	}
	assert.Equal(t, 1, counts)
}

func TestBufferFillCacheReallocatesOnCountChange(t *testing.T) {
	var countQueries atomic.Int32
	ms := startMockServer(t, func(line string) string {
		switch {
		case strings.HasPrefix(line, "GET CHANNEL STREAM_COUNT"):
			if countQueries.Add(1) == 1 {
				return "2\r\n"
			}
			return "3\r\n"
		case strings.HasPrefix(line, "GET CHANNEL BUFFER_FILL"):
			return "[0]10%,[1]20%,[2]30%\r\n"
		default:
			return "OK\r\n"
		}
	})
	c := dialTestClient(t, ms, nil)

	first, err := c.GetChannelBufferFill(UsagePercentage, 0)
	require.NoError(t, err)
	require.Len(t, first, 2, "third reply pair exceeds the cache and is dropped")

	n, err := c.GetChannelStreamCount(0)
	require.NoError(t, err)
	require.Equal(t, 3, n)

	second, err := c.GetChannelBufferFill(UsagePercentage, 0)
	require.NoError(t, err)
	require.Len(t, second, 3, "cache must resize to the new stream count")
	assert.Equal(t, BufferFill{StreamID: 2, Usage: 30}, second[2])
	assert.NotSame(t, &first[0], &second[0])
}

func TestBufferFillWithoutStreams(t *testing.T) {
	ms := startMockServer(t, func(line string) string {
		if strings.HasPrefix(line, "GET CHANNEL STREAM_COUNT") {
			return "0\r\n"
		}
		return "OK\r\n"
	})
	c := dialTestClient(t, ms, nil)

	_, err := c.GetChannelBufferFill(UsageBytes, 1)
	require.Error(t, err)
}
