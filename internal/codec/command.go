package codec

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
)

// CommandKind selects the single key a control write carries.
type CommandKind int

const (
	CommandArm CommandKind = iota + 1
	CommandLaser
	CommandAuto
)

var errUnknownCommand = errors.New("unknown command")

// Command is one control write to the beacon.
type Command struct {
	Kind CommandKind
	On   bool
}

func Arm() Command          { return Command{Kind: CommandArm, On: true} }
func Laser(on bool) Command { return Command{Kind: CommandLaser, On: on} }
func Auto(on bool) Command  { return Command{Kind: CommandAuto, On: on} }

func (c Command) String() string {
	switch c.Kind {
	case CommandArm:
		return "arm"
	case CommandLaser:
		return fmt.Sprintf("laser=%t", c.On)
	case CommandAuto:
		return fmt.Sprintf("auto=%t", c.On)
	default:
		return "unknown"
	}
}

// EncodeCommand renders {"arm":1}, {"laser":bool} or {"auto":bool}.
func EncodeCommand(c Command) ([]byte, error) {
	switch c.Kind {
	case CommandArm:
		return json.Marshal(map[string]int{"arm": 1})
	case CommandLaser:
		return json.Marshal(map[string]bool{"laser": c.On})
	case CommandAuto:
		return json.Marshal(map[string]bool{"auto": c.On})
	default:
		return nil, errUnknownCommand
	}
}

// DecodeCommand is the firmware side of EncodeCommand. The simulated beacon
// uses it to react to control writes.
func DecodeCommand(b []byte) (Command, error) {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(bytes.TrimSpace(b), &raw); err != nil {
		return Command{}, fmt.Errorf("decode command: %w", err)
	}
	if v, ok := raw["arm"]; ok {
		var n float64
		if err := json.Unmarshal(v, &n); err != nil || n == 0 {
			return Command{}, errUnknownCommand
		}
		return Arm(), nil
	}
	for _, key := range []struct {
		name string
		kind CommandKind
	}{{"laser", CommandLaser}, {"auto", CommandAuto}} {
		v, ok := raw[key.name]
		if !ok {
			continue
		}
		var on bool
		if err := json.Unmarshal(v, &on); err != nil {
			return Command{}, fmt.Errorf("decode %s: %w", key.name, err)
		}
		return Command{Kind: key.kind, On: on}, nil
	}
	return Command{}, errUnknownCommand
}
