package cpmm

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
)

// Outcome selects one side of a binary market.
type Outcome uint8

const (
	Yes Outcome = iota
	No
)

// OutcomeFromBool maps the wire convention true=YES, false=NO.
func OutcomeFromBool(b bool) Outcome {
	if b {
		return Yes
	}
	return No
}

// Bool is the inverse of OutcomeFromBool.
func (o Outcome) Bool() bool { return o == Yes }

func (o Outcome) String() string {
	if o == No {
		return "no"
	}
	return "yes"
}

// ParseOutcome accepts "yes"/"no" and "true"/"false", case-insensitively.
func ParseOutcome(s string) (Outcome, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "yes", "true":
		return Yes, nil
	case "no", "false":
		return No, nil
	}
	return Yes, fmt.Errorf("cpmm: unknown outcome %q", s)
}

// MarshalText implements encoding.TextMarshaler.
func (o Outcome) MarshalText() ([]byte, error) {
	return []byte(o.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (o *Outcome) UnmarshalText(text []byte) error {
	v, err := ParseOutcome(string(text))
	if err != nil {
		return err
	}
	*o = v
	return nil
}

// UnmarshalJSON accepts a JSON boolean (true=YES) or any string ParseOutcome
// understands.
func (o *Outcome) UnmarshalJSON(b []byte) error {
	switch string(bytes.TrimSpace(b)) {
	case "true":
		*o = Yes
		return nil
	case "false":
		*o = No
		return nil
	case "null":
		return nil
	}
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return fmt.Errorf("cpmm: outcome must be a boolean or string: %w", err)
	}
	return o.UnmarshalText([]byte(s))
}
