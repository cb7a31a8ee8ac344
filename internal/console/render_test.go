package console

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	lscp "github.com/noisegate/go-lscp"
)

func TestChannelTablePlainOutput(t *testing.T) {
	var buf bytes.Buffer
	r := NewRenderer(&buf, "plain")

	states := []ChannelState{
		{
			ID: 0,
			Info: lscp.ChannelInfo{
				EngineName:     "GIG",
				InstrumentFile: "/opt/samples/piano.gig",
				InstrumentNr:   2,
				Volume:         0.75,
			},
			Voices:  4,
			Streams: 1,
		},
		{ID: 1},
	}
	r.ChannelTable(states)

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "CH\tENGINE\tINSTRUMENT\tVOICES\tSTREAMS\tVOLUME", lines[0])
	assert.Equal(t, "0\tGIG\tpiano.gig[2]\t4\t1\t0.75", lines[1])
	assert.Equal(t, "1\t-\t-\t0\t0\t0", lines[2])
}

func TestDriverInfoRendering(t *testing.T) {
	var buf bytes.Buffer
	r := NewRenderer(&buf, "plain")

	r.DriverInfo("ALSA", lscp.DriverInfo{
		Description: "ALSA driver",
		Version:     "1.0",
		Parameters:  []string{"CARD", "CHANNELS"},
	})

	out := buf.String()
	assert.Contains(t, out, "DRIVER\tALSA")
	assert.Contains(t, out, "DESCRIPTION\tALSA driver")
	assert.Contains(t, out, "PARAMETERS\tCARD, CHANNELS")
}

func TestBufferFillRendering(t *testing.T) {
	var buf bytes.Buffer
	r := NewRenderer(&buf, "plain")

	r.BufferFill(lscp.UsagePercentage, []lscp.BufferFill{{StreamID: 4, Usage: 85}})
	assert.Contains(t, buf.String(), "4\t85%")

	buf.Reset()
	r.BufferFill(lscp.UsageBytes, []lscp.BufferFill{{StreamID: 4, Usage: 131072}})
	assert.Contains(t, buf.String(), "4\t131072")
	assert.NotContains(t, buf.String(), "%")
}

func TestModelLabels(t *testing.T) {
	st := ChannelState{}
	assert.Equal(t, "-", st.EngineLabel())
	assert.Equal(t, "-", st.InstrumentLabel())
	assert.Equal(t, "ALL", st.MIDIChannelLabel())

	st.Info.EngineName = "GIG"
	st.Info.InstrumentFile = "/a/b/grand piano.gig"
	st.Info.InstrumentNr = 1
	st.Info.MIDIChannel = 9
	assert.Equal(t, "GIG", st.EngineLabel())
	assert.Equal(t, "grand piano.gig[1]", st.InstrumentLabel())
	assert.Equal(t, "9", st.MIDIChannelLabel())
}
