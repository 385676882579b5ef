package command

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"

	"github.com/footron/foowm/internal/policy"
)

// MessageType discriminates control messages on the wire.
type MessageType string

const (
	MessageLayout        MessageType = "layout"
	MessageClearViewport MessageType = "clear_viewport"
)

// Command is a validated control message ready to be applied.
type Command interface {
	Type() MessageType
}

// SetLayout switches the display layout. Only viewport clients created
// after After are resized; a zero After resizes all of them.
type SetLayout struct {
	Layout policy.Layout
	After  time.Time
}

func (SetLayout) Type() MessageType { return MessageLayout }

// ClearViewport asks every client of an included type created at or before
// Before to close. A nil Include selects the configured default types.
type ClearViewport struct {
	Before  time.Time
	Include []policy.ClientType
}

func (ClearViewport) Type() MessageType { return MessageClearViewport }

// ValidationError describes why a control message was rejected.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %q: %s", e.Field, e.Reason)
}

// LayoutMessage is the wire form of a layout command.
type LayoutMessage struct {
	Type   MessageType `json:"type"`
	Layout string      `json:"layout"`
	After  *int64      `json:"after,omitempty"`
}

// ClearViewportMessage is the wire form of a clear_viewport command.
type ClearViewportMessage struct {
	Type    MessageType `json:"type"`
	Before  int64       `json:"before"`
	Include []string    `json:"include,omitempty"`
}

// Decode parses and validates one control message. Nothing is returned
// unless every field is valid.
func Decode(data []byte) (Command, error) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return nil, fmt.Errorf("failed to parse message: %w", err)
	}
	if fields == nil {
		return nil, &ValidationError{Field: "type", Reason: "message is not an object"}
	}

	typ, ok, err := stringField(fields, "type")
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, &ValidationError{Field: "type", Reason: "required field missing"}
	}

	switch MessageType(typ) {
	case MessageLayout:
		return decodeLayout(fields)
	case MessageClearViewport:
		return decodeClearViewport(fields)
	default:
		return nil, &ValidationError{Field: "type", Reason: fmt.Sprintf("unknown message type %q", typ)}
	}
}

func decodeLayout(fields map[string]json.RawMessage) (Command, error) {
	name, ok, err := stringField(fields, "layout")
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, &ValidationError{Field: "layout", Reason: "required field missing"}
	}
	layout, err := policy.ParseLayout(name)
	if err != nil {
		return nil, &ValidationError{Field: "layout", Reason: err.Error()}
	}

	cmd := SetLayout{Layout: layout}
	after, ok, err := intField(fields, "after")
	if err != nil {
		return nil, err
	}
	if ok {
		cmd.After = time.UnixMilli(after)
	}
	return cmd, nil
}

func decodeClearViewport(fields map[string]json.RawMessage) (Command, error) {
	before, ok, err := intField(fields, "before")
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, &ValidationError{Field: "before", Reason: "required field missing"}
	}

	cmd := ClearViewport{Before: time.UnixMilli(before)}

	raw, ok := fields["include"]
	if !ok || isNull(raw) {
		return cmd, nil
	}
	var names []string
	if err := json.Unmarshal(raw, &names); err != nil {
		return nil, &ValidationError{Field: "include", Reason: "expected a list of strings"}
	}
	cmd.Include = make([]policy.ClientType, 0, len(names))
	for _, name := range names {
		typ, err := policy.ParseClientType(name)
		if err != nil {
			return nil, &ValidationError{Field: "include", Reason: err.Error()}
		}
		cmd.Include = append(cmd.Include, typ)
	}
	return cmd, nil
}

// stringField reads a string field. A null value counts as absent.
func stringField(fields map[string]json.RawMessage, name string) (string, bool, error) {
	raw, ok := fields[name]
	if !ok || isNull(raw) {
		return "", false, nil
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return "", false, &ValidationError{Field: name, Reason: "expected a string"}
	}
	return s, true, nil
}

// intField reads an integer field, rejecting fractional numbers. A null
// value counts as absent.
func intField(fields map[string]json.RawMessage, name string) (int64, bool, error) {
	raw, ok := fields[name]
	if !ok || isNull(raw) {
		return 0, false, nil
	}

	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil {
		return 0, false, &ValidationError{Field: name, Reason: "expected an integer"}
	}
	num, isNum := v.(json.Number)
	if !isNum {
		return 0, false, &ValidationError{Field: name, Reason: "expected an integer"}
	}
	n, err := num.Int64()
	if err != nil {
		return 0, false, &ValidationError{Field: name, Reason: "expected an integer"}
	}
	return n, true, nil
}

func isNull(raw json.RawMessage) bool {
	return bytes.Equal(bytes.TrimSpace(raw), []byte("null"))
}
