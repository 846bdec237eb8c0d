package planner

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// Activity is one scheduled stop in a generated day. Unknown or missing
// fields are tolerated; absent values stay at their zero value.
type Activity struct {
	Time          string `json:"time"`
	Name          string `json:"name"`
	Description   string `json:"description"`
	Duration      string `json:"duration"`
	CostEstimate  string `json:"cost_estimate"`
	MustDo        bool   `json:"must_do"`
	PlaceQuery    string `json:"place_query"`
	RequiresPlace bool   `json:"requires_place"`
}

// Day is one generated itinerary day.
type Day struct {
	DayNumber  int        `json:"day_number"`
	Title      string     `json:"title"`
	Activities []Activity `json:"activities"`
}

// Payload is the canonical stored itinerary shape: an accommodation value
// (possibly null) plus the list of days.
type Payload struct {
	Accommodation interface{} `json:"accommodation"`
	Days          []Day       `json:"days"`
}

var (
	ErrEmptyResponse = errors.New("response contains no JSON payload")
	ErrMissingDays   = errors.New("payload has no days list")
)

// Normalize folds the response variants the model is known to produce into
// the canonical payload shape: the full {accommodation, days} object, a bare
// days list, or a {days}-only object. Canonical input passes through
// unchanged, so normalizing an already stored payload is safe. Responses
// whose days value is absent or not a list are rejected.
func Normalize(raw []byte) (Payload, error) {
	text := ExtractJSON(string(raw))
	if text == "" {
		return Payload{}, ErrEmptyResponse
	}
	if strings.HasPrefix(text, "[") {
		var days []Day
		if err := json.Unmarshal([]byte(text), &days); err != nil {
			return Payload{}, fmt.Errorf("parse days list: %w", err)
		}
		return Payload{Days: days}, nil
	}
	var envelope map[string]json.RawMessage
	if err := json.Unmarshal([]byte(text), &envelope); err != nil {
		return Payload{}, fmt.Errorf("parse response object: %w", err)
	}
	rawDays, ok := envelope["days"]
	if !ok || string(rawDays) == "null" {
		return Payload{}, ErrMissingDays
	}
	var days []Day
	if err := json.Unmarshal(rawDays, &days); err != nil {
		return Payload{}, fmt.Errorf("parse days list: %w", err)
	}
	var accommodation interface{}
	if rawAcc, ok := envelope["accommodation"]; ok {
		if err := json.Unmarshal(rawAcc, &accommodation); err != nil {
			return Payload{}, fmt.Errorf("parse accommodation: %w", err)
		}
	}
	return Payload{Accommodation: accommodation, Days: days}, nil
}

// ExtractJSON returns the first JSON object or array embedded in text.
// Markdown fences and trailing commas, which models sometimes emit despite
// instructions, are stripped along the way.
func ExtractJSON(text string) string {
	trimmed := strings.TrimSpace(text)
	if strings.HasPrefix(trimmed, "```") {
		trimmed = strings.TrimPrefix(trimmed, "```json")
		trimmed = strings.TrimPrefix(trimmed, "```")
		if idx := strings.LastIndex(trimmed, "```"); idx >= 0 {
			trimmed = trimmed[:idx]
		}
		trimmed = strings.TrimSpace(trimmed)
	}
	objStart := strings.Index(trimmed, "{")
	arrStart := strings.Index(trimmed, "[")
	start := objStart
	end := strings.LastIndex(trimmed, "}")
	if objStart == -1 || (arrStart != -1 && arrStart < objStart) {
		start = arrStart
		end = strings.LastIndex(trimmed, "]")
	}
	if start == -1 || end == -1 || end < start {
		return ""
	}
	return cleanTrailingCommas(trimmed[start : end+1])
}

func cleanTrailingCommas(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	inString := false
	escaped := false
	for i := 0; i < len(s); i++ {
		ch := s[i]
		if inString {
			b.WriteByte(ch)
			switch {
			case escaped:
				escaped = false
			case ch == '\\':
				escaped = true
			case ch == '"':
				inString = false
			}
			continue
		}
		switch ch {
		case '"':
			inString = true
			b.WriteByte(ch)
		case ',':
			j := i + 1
			for j < len(s) && (s[j] == ' ' || s[j] == '\t' || s[j] == '\n' || s[j] == '\r') {
				j++
			}
			if j < len(s) && (s[j] == '}' || s[j] == ']') {
				continue
			}
			b.WriteByte(ch)
		default:
			b.WriteByte(ch)
		}
	}
	return b.String()
}
