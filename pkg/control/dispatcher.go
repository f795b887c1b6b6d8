package control

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/minirds/minirds/pkg/logger"
	"github.com/minirds/minirds/pkg/metrics"
	"github.com/minirds/minirds/pkg/mpx"
	"github.com/minirds/minirds/pkg/notify"
	"github.com/minirds/minirds/pkg/station"
)

// ImageLoader reads an RFT image from wherever the RFT command's path
// argument points. Reading image files is an external collaborator
// (the encoder core only accepts already-decoded bytes); callers wire
// in a real filesystem-backed implementation.
type ImageLoader interface {
	Load(path string) ([]byte, error)
}

// Logger is the minimal interface Dispatcher needs to report a
// rejected command; pkg/logger.Logger satisfies it.
type Logger interface {
	Warn(msg string, fields ...logger.Field)
}

// Monitor is the minimal interface Dispatcher needs to push dashboard
// broadcast events; pkg/monitor.Hub satisfies it.
type Monitor interface {
	BroadcastStationUpdate(params interface{})
	BroadcastCommandRejected(command, arg, reason string)
}

// Notifier is the minimal interface Dispatcher needs to publish
// station-change events; pkg/notify.Publisher satisfies it.
type Notifier interface {
	PublishStationChange(event notify.StationChangeEvent) error
	PublishCommandRejected(event notify.CommandRejectedEvent) error
}

// Dispatcher applies parsed Commands to a Program Information Store
// under the mutation discipline of spec section 5: every Apply call
// is all-or-nothing at the field level, and a rejected command never
// touches previously-accepted state.
type Dispatcher struct {
	Store   *station.Store
	Mixer   *mpx.Mixer
	Images  ImageLoader
	Log     Logger
	Metrics  *metrics.Collector
	Monitor  Monitor
	Notifier Notifier
	OnStop   func()
}

// Apply parses and applies every line in payload, in textual order.
// A parse or validation error on one line is logged and that line is
// skipped; subsequent lines still process.
func (d *Dispatcher) Apply(payload string) {
	for _, line := range SplitLines(payload) {
		cmd, ok := ParseLine(line)
		if !ok {
			continue
		}
		if err := d.apply(cmd); err != nil {
			if d.Log != nil {
				d.Log.Warn("control: command rejected",
					logger.String("command", cmd.Name),
					logger.String("arg", cmd.Arg),
					logger.Error(err))
			}
			if d.Metrics != nil {
				d.Metrics.CommandRejected()
			}
			if d.Monitor != nil {
				d.Monitor.BroadcastCommandRejected(cmd.Name, cmd.Arg, err.Error())
			}
			if d.Notifier != nil {
				d.Notifier.PublishCommandRejected(notify.CommandRejectedEvent{
					Command:   cmd.Name,
					Arg:       cmd.Arg,
					Reason:    err.Error(),
					Timestamp: time.Now(),
				})
			}
			continue
		}
		if d.Metrics != nil {
			d.Metrics.CommandApplied()
		}
		if d.Monitor != nil {
			d.Monitor.BroadcastStationUpdate(d.Store.Params())
		}
		if d.Notifier != nil {
			d.Notifier.PublishStationChange(notify.StationChangeEvent{
				Field:     cmd.Name,
				Value:     cmd.Arg,
				Timestamp: time.Now(),
			})
		}
	}
}

func (d *Dispatcher) apply(cmd Command) error {
	switch cmd.Name {
	case "PI":
		v, err := strconv.ParseUint(cmd.Arg, 16, 16)
		if err != nil {
			return fmt.Errorf("control: PI: %w", err)
		}
		d.Store.SetPI(uint16(v))
		return nil

	case "PS":
		return d.Store.SetPS(cmd.Arg)

	case "RT":
		return d.Store.SetRT(cmd.Arg)

	case "PTY":
		n, err := strconv.Atoi(cmd.Arg)
		if err != nil {
			return fmt.Errorf("control: PTY: %w", err)
		}
		return d.Store.SetPTY(n)

	case "PTYN":
		return d.Store.SetPTYN(cmd.Arg)

	case "TP":
		v, err := parseFlag(cmd.Arg)
		if err != nil {
			return fmt.Errorf("control: TP: %w", err)
		}
		d.Store.SetTP(v)
		return nil

	case "TA":
		v, err := parseFlag(cmd.Arg)
		if err != nil {
			return fmt.Errorf("control: TA: %w", err)
		}
		d.Store.SetTA(v)
		return nil

	case "MS":
		v, err := parseMusicSpeech(cmd.Arg)
		if err != nil {
			return fmt.Errorf("control: MS: %w", err)
		}
		d.Store.SetMS(v)
		return nil

	case "DI":
		v, err := parseFlag(cmd.Arg)
		if err != nil {
			return fmt.Errorf("control: DI: %w", err)
		}
		d.Store.SetDI(v)
		return nil

	case "AF":
		f, err := strconv.ParseFloat(cmd.Arg, 64)
		if err != nil {
			return fmt.Errorf("control: AF: %w", err)
		}
		return d.Store.AddAF(f)

	case "AFC":
		d.Store.ClearAF()
		return nil

	case "LPS":
		return d.Store.SetLPS(cmd.Arg)

	case "ERT":
		return d.Store.SetERT(cmd.Arg, 0)

	case "RTP+":
		tags, err := parseRTPlusTags(cmd.Arg)
		if err != nil {
			return fmt.Errorf("control: RTP+: %w", err)
		}
		return d.Store.SetRTPlusTags(tags)

	case "RTPF":
		run, toggle, err := parseRTPlusFlags(cmd.Arg)
		if err != nil {
			return fmt.Errorf("control: RTPF: %w", err)
		}
		d.Store.SetRTPlusFlags(run, toggle)
		return nil

	case "RFT":
		if d.Images == nil {
			return fmt.Errorf("control: RFT: no image loader configured")
		}
		data, err := d.Images.Load(cmd.Arg)
		if err != nil {
			return fmt.Errorf("control: RFT: %w", err)
		}
		return d.Store.SetRFTImage(data)

	case "VOL":
		n, err := strconv.Atoi(cmd.Arg)
		if err != nil {
			return fmt.Errorf("control: VOL: %w", err)
		}
		if n < 0 || n > 100 {
			return fmt.Errorf("control: VOL: %d out of range 0..100", n)
		}
		if d.Mixer != nil {
			d.Mixer.SetVolume(n)
		}
		if d.Metrics != nil {
			d.Metrics.SetVolume(n)
		}
		return nil

	case "RESET":
		if d.OnStop != nil {
			d.OnStop()
		}
		return nil

	default:
		return fmt.Errorf("control: unknown command %q", cmd.Name)
	}
}

func parseFlag(arg string) (bool, error) {
	switch strings.ToUpper(arg) {
	case "ON", "1":
		return true, nil
	case "OFF", "0":
		return false, nil
	default:
		return false, fmt.Errorf("expected ON/OFF/0/1, got %q", arg)
	}
}

func parseMusicSpeech(arg string) (bool, error) {
	switch strings.ToUpper(arg) {
	case "MUSIC", "1":
		return true, nil
	case "SPEECH", "0":
		return false, nil
	default:
		return false, fmt.Errorf("expected Music/Speech/0/1, got %q", arg)
	}
}

func parseRTPlusTags(arg string) (station.RTPlusTags, error) {
	fields := strings.Fields(arg)
	if len(fields) != 6 {
		return station.RTPlusTags{}, fmt.Errorf("expected 6 fields, got %d", len(fields))
	}
	vals := make([]byte, 6)
	for i, f := range fields {
		n, err := strconv.Atoi(f)
		if err != nil || n < 0 || n > 255 {
			return station.RTPlusTags{}, fmt.Errorf("field %d: invalid byte value %q", i, f)
		}
		vals[i] = byte(n)
	}
	return station.RTPlusTags{
		Type1: vals[0], Start1: vals[1], Len1: vals[2],
		Type2: vals[3], Start2: vals[4], Len2: vals[5],
	}, nil
}

func parseRTPlusFlags(arg string) (running, toggle bool, err error) {
	fields := strings.Fields(arg)
	if len(fields) != 2 {
		return false, false, fmt.Errorf("expected 2 fields, got %d", len(fields))
	}
	running, err = parseFlag(fields[0])
	if err != nil {
		return false, false, err
	}
	toggle, err = parseFlag(fields[1])
	if err != nil {
		return false, false, err
	}
	return running, toggle, nil
}
