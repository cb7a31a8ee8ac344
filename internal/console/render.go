package console

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/mattn/go-isatty"

	lscp "github.com/noisegate/go-lscp"
)

// Renderer writes console views: go-pretty tables on a terminal,
// tab-separated lines when output is piped
type Renderer struct {
	out    io.Writer
	pretty bool
	style  table.Style
}

// NewRenderer builds a renderer for out, choosing table or plain output by
// whether out is a terminal
func NewRenderer(out io.Writer, styleName string) *Renderer {
	return &Renderer{out: out, pretty: isTerminal(out), style: tableStyle(styleName)}
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	fd := f.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

func tableStyle(name string) table.Style {
	switch strings.ToLower(name) {
	case "light":
		return table.StyleLight
	case "plain":
		return table.StyleDefault
	default:
		return table.StyleRounded
	}
}

func (r *Renderer) table(header []string, rows [][]string) {
	if !r.pretty {
		fmt.Fprintln(r.out, strings.Join(header, "\t"))
		for _, row := range rows {
			fmt.Fprintln(r.out, strings.Join(row, "\t"))
		}
		return
	}

	tw := table.NewWriter()
	tw.SetOutputMirror(r.out)
	tw.SetStyle(r.style)
	h := make(table.Row, len(header))
	for i, col := range header {
		h[i] = col
	}
	tw.AppendHeader(h)
	for _, row := range rows {
		tr := make(table.Row, len(row))
		for i, cell := range row {
			tr[i] = cell
		}
		tw.AppendRow(tr)
	}
	tw.Render()
}

// ChannelTable renders the channel model overview
func (r *Renderer) ChannelTable(states []ChannelState) {
	rows := make([][]string, 0, len(states))
	for _, st := range states {
		rows = append(rows, []string{
			strconv.Itoa(st.ID),
			st.EngineLabel(),
			st.InstrumentLabel(),
			strconv.Itoa(st.Voices),
			strconv.Itoa(st.Streams),
			fmt.Sprintf("%g", st.Info.Volume),
		})
	}
	r.table([]string{"CH", "ENGINE", "INSTRUMENT", "VOICES", "STREAMS", "VOLUME"}, rows)
}

// StringList renders a numbered single-column listing
func (r *Renderer) StringList(title string, items []string) {
	rows := make([][]string, 0, len(items))
	for i, item := range items {
		rows = append(rows, []string{strconv.Itoa(i), item})
	}
	r.table([]string{"#", title}, rows)
}

// DriverInfo renders a driver descriptor
func (r *Renderer) DriverInfo(name string, info lscp.DriverInfo) {
	r.table([]string{"FIELD", "VALUE"}, [][]string{
		{"DRIVER", name},
		{"DESCRIPTION", info.Description},
		{"VERSION", info.Version},
		{"PARAMETERS", strings.Join(info.Parameters, ", ")},
	})
}

// EngineInfo renders an engine descriptor
func (r *Renderer) EngineInfo(name string, info lscp.EngineInfo) {
	r.table([]string{"FIELD", "VALUE"}, [][]string{
		{"ENGINE", name},
		{"DESCRIPTION", info.Description},
		{"VERSION", info.Version},
	})
}

// ChannelDetail renders the full setup of one channel
func (r *Renderer) ChannelDetail(st ChannelState) {
	r.table([]string{"FIELD", "VALUE"}, [][]string{
		{"CHANNEL", strconv.Itoa(st.ID)},
		{"ENGINE", st.EngineLabel()},
		{"INSTRUMENT", st.InstrumentLabel()},
		{"AUDIO DEVICE", strconv.Itoa(st.Info.AudioDevice)},
		{"AUDIO CHANNELS", strconv.Itoa(st.Info.AudioChannels)},
		{"AUDIO ROUTING", strings.Join(st.Info.AudioRouting, ", ")},
		{"MIDI DEVICE", strconv.Itoa(st.Info.MIDIDevice)},
		{"MIDI PORT", strconv.Itoa(st.Info.MIDIPort)},
		{"MIDI CHANNEL", st.MIDIChannelLabel()},
		{"VOLUME", fmt.Sprintf("%g", st.Info.Volume)},
		{"VOICES", strconv.Itoa(st.Voices)},
		{"STREAMS", strconv.Itoa(st.Streams)},
	})
}

// BufferFill renders per-stream buffer occupancy
func (r *Renderer) BufferFill(mode lscp.UsageMode, fills []lscp.BufferFill) {
	rows := make([][]string, 0, len(fills))
	for _, f := range fills {
		usage := strconv.FormatUint(f.Usage, 10)
		if mode == lscp.UsagePercentage {
			usage += "%"
		}
		rows = append(rows, []string{strconv.FormatUint(uint64(f.StreamID), 10), usage})
	}
	r.table([]string{"STREAM", "USAGE"}, rows)
}
