// maple-font - a builder and optimizer for the Maple Mono font family
// Copyright (C) 2024  The maple-font authors
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with this program.  If not, see <https://www.gnu.org/licenses/>.

package freeze

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// State says what to do with one feature tag.
type State int

const (
	Ignore State = iota
	Enable
	Disable
)

func (s State) String() string {
	switch s {
	case Ignore:
		return "ignore"
	case Enable:
		return "enable"
	case Disable:
		return "disable"
	}
	return fmt.Sprintf("State(%d)", int(s))
}

// MarshalText implements encoding.TextMarshaler.
func (s State) MarshalText() ([]byte, error) {
	switch s {
	case Ignore, Enable, Disable:
		return []byte(s.String()), nil
	}
	return nil, fmt.Errorf("freeze: invalid state %d", int(s))
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (s *State) UnmarshalText(text []byte) error {
	switch string(text) {
	case "ignore":
		*s = Ignore
	case "enable":
		*s = Enable
	case "disable":
		*s = Disable
	default:
		return fmt.Errorf("freeze: unknown state %q", text)
	}
	return nil
}

// TagState pairs a feature tag with its policy state.
type TagState struct {
	Tag   string
	State State
}

// Policy maps feature tags to states.  Declared order is preserved: the
// unique-identifier suffix lists tags in this order.  Unknown tags are
// ignored, not errors.
type Policy []TagState

// Get returns the state for the given tag, Ignore if absent.
func (p Policy) Get(tag string) State {
	for _, ts := range p {
		if ts.Tag == tag {
			return ts.State
		}
	}
	return Ignore
}

// MarshalJSON writes the policy as a JSON object in declared order.
func (p Policy) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, ts := range p {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(ts.Tag)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		val, err := ts.State.MarshalText()
		if err != nil {
			return nil, err
		}
		value, err := json.Marshal(string(val))
		if err != nil {
			return nil, err
		}
		buf.Write(value)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON reads a JSON object, keeping the declared key order.
func (p *Policy) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if tok != json.Delim('{') {
		return fmt.Errorf("freeze: policy must be a JSON object")
	}

	var res Policy
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return err
		}
		tag, ok := keyTok.(string)
		if !ok {
			return fmt.Errorf("freeze: policy key must be a string")
		}
		var stateStr string
		if err := dec.Decode(&stateStr); err != nil {
			return err
		}
		var state State
		if err := state.UnmarshalText([]byte(stateStr)); err != nil {
			return err
		}
		res = append(res, TagState{Tag: tag, State: state})
	}
	if _, err := dec.Token(); err != nil {
		return err
	}
	*p = res
	return nil
}
