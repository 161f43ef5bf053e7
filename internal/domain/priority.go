package domain

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

// Priority ranks engagement notifications. Higher values win conflicts.
type Priority int

const (
	PriorityLow      Priority = 1
	PriorityNormal   Priority = 2
	PriorityHigh     Priority = 3
	PriorityCritical Priority = 4
)

func (p Priority) String() string {
	switch p {
	case PriorityLow:
		return "low"
	case PriorityNormal:
		return "normal"
	case PriorityHigh:
		return "high"
	case PriorityCritical:
		return "critical"
	default:
		return "unknown"
	}
}

func (p Priority) IsValid() bool {
	return p >= PriorityLow && p <= PriorityCritical
}

// ParsePriority recovers a priority from a loosely typed metadata value.
// Integers, whole floats (as produced by JSON decoding), json.Number, numeric
// strings and level names are accepted. Values outside 1..4 are rejected.
func ParsePriority(v any) (Priority, bool) {
	var p Priority

	switch val := v.(type) {
	case Priority:
		p = val
	case int:
		p = Priority(val)
	case int32:
		p = Priority(val)
	case int64:
		p = Priority(val)
	case float64:
		if val != math.Trunc(val) {
			return 0, false
		}
		p = Priority(int(val))
	case json.Number:
		n, err := val.Int64()
		if err != nil {
			return 0, false
		}
		p = Priority(n)
	case string:
		s := strings.TrimSpace(strings.ToLower(val))
		if named, ok := priorityNames[s]; ok {
			return named, true
		}
		n, err := strconv.Atoi(s)
		if err != nil {
			return 0, false
		}
		p = Priority(n)
	default:
		return 0, false
	}

	if !p.IsValid() {
		return 0, false
	}

	return p, true
}

var priorityNames = map[string]Priority{
	"low":      PriorityLow,
	"normal":   PriorityNormal,
	"high":     PriorityHigh,
	"critical": PriorityCritical,
}

func (p Priority) MarshalJSON() ([]byte, error) {
	return json.Marshal(int(p))
}

func (p *Priority) UnmarshalJSON(data []byte) error {
	var raw any
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	parsed, ok := ParsePriority(raw)
	if !ok {
		return ErrInvalidPriority
	}

	*p = parsed

	return nil
}
