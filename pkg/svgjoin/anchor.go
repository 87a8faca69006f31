package svgjoin

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"

	json "github.com/goccy/go-json"
)

// Anchor is a vertical position relative to the first image: 0 is its top
// edge, 1 its bottom edge. Values outside [0, 1] extend the canvas. The
// zero Anchor is unset and lets the image size decide.
type Anchor struct {
	Name  string // "top", "center" or "bottom"; empty for numeric anchors
	Value float64
	Set   bool
}

// Named anchors.
var (
	Top    = Anchor{Name: "top", Set: true}
	Center = Anchor{Name: "center", Set: true}
	Bottom = Anchor{Name: "bottom", Set: true}
)

var anchorPositions = map[string]float64{
	"top":    0,
	"center": 0.5,
	"bottom": 1,
	"inf":    0,
}

// At returns a numeric anchor.
func At(v float64) Anchor { return Anchor{Value: v, Set: true} }

// ParseAnchor parses "top", "center", "bottom", a number, or "" and "none"
// for an unset anchor.
func ParseAnchor(s string) (Anchor, error) {
	s = strings.TrimSpace(s)
	switch strings.ToLower(s) {
	case "", "none", "null":
		return Anchor{}, nil
	}
	if _, ok := anchorPositions[strings.ToLower(s)]; ok {
		return Anchor{Name: strings.ToLower(s), Set: true}, nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return Anchor{}, fmt.Errorf("anchor %q: want top, center, bottom or a number", s)
	}
	return At(v), nil
}

// position returns the anchor as a fraction of the first image height.
func (a Anchor) position() (float64, bool) {
	if !a.Set {
		return 0, false
	}
	if a.Name != "" {
		return anchorPositions[a.Name], true
	}
	return a.Value, true
}

func (a Anchor) String() string {
	switch {
	case !a.Set:
		return "none"
	case a.Name != "":
		return a.Name
	default:
		return strconv.FormatFloat(a.Value, 'g', -1, 64)
	}
}

// UnmarshalJSON accepts null, a number or an anchor name.
func (a *Anchor) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*a = Anchor{}
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		name := strings.ToLower(s)
		if _, ok := anchorPositions[name]; !ok {
			return fmt.Errorf("anchor %q: want top, center or bottom", s)
		}
		*a = Anchor{Name: name, Set: true}
		return nil
	}
	var v float64
	if err := json.Unmarshal(data, &v); err != nil {
		return fmt.Errorf("anchor: %w", err)
	}
	*a = At(v)
	return nil
}

// MarshalJSON writes null, the anchor name or its value.
func (a Anchor) MarshalJSON() ([]byte, error) {
	switch {
	case !a.Set:
		return []byte("null"), nil
	case a.Name != "":
		return json.Marshal(a.Name)
	default:
		return json.Marshal(a.Value)
	}
}
