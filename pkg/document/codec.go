package document

import (
	"bytes"
	"fmt"

	json "github.com/goccy/go-json"
)

// blocks holds the auxiliary diagram blocks, which may be false, null, one
// object or a list.
type blocks struct {
	Incidence json.RawMessage `json:"incidenceGraph"`
	General   json.RawMessage `json:"generalGraph"`
	SvgJoin   json.RawMessage `json:"svgJoin"`
	SvgJoinPy json.RawMessage `json:"svg_join"`
}

// UnmarshalJSON decodes a document over the default settings.
func (d *Document) UnmarshalJSON(data []byte) error {
	type plain Document
	v := (*plain)(New())
	if err := json.Unmarshal(data, v); err != nil {
		return err
	}

	var b blocks
	if err := json.Unmarshal(data, &b); err != nil {
		return err
	}
	if err := decodeBlocks(b.Incidence, &v.IncidenceGraphs); err != nil {
		return fmt.Errorf("incidenceGraph: %w", err)
	}
	if err := decodeBlocks(b.General, &v.GeneralGraphs); err != nil {
		return fmt.Errorf("generalGraph: %w", err)
	}
	join := b.SvgJoin
	if absent(join) {
		join = b.SvgJoinPy
	}
	if !absent(join) {
		v.SvgJoin = new(SvgJoin)
		if err := json.Unmarshal(join, v.SvgJoin); err != nil {
			return fmt.Errorf("svgJoin: %w", err)
		}
	}

	*d = Document(*v)
	return nil
}

// MarshalJSON writes single auxiliary blocks as objects and missing ones as
// false.
func (d Document) MarshalJSON() ([]byte, error) {
	type plain Document
	return json.Marshal(struct {
		plain
		Incidence any      `json:"incidenceGraph"`
		General   any      `json:"generalGraph"`
		SvgJoin   *SvgJoin `json:"svgJoin,omitempty"`
	}{
		plain:     plain(d),
		Incidence: encodeBlocks(d.IncidenceGraphs),
		General:   encodeBlocks(d.GeneralGraphs),
		SvgJoin:   d.SvgJoin,
	})
}

func decodeBlocks[T any](raw json.RawMessage, out *[]T) error {
	raw = bytes.TrimSpace(raw)
	if absent(raw) {
		*out = nil
		return nil
	}
	if raw[0] == '[' {
		return json.Unmarshal(raw, out)
	}
	var one T
	if err := json.Unmarshal(raw, &one); err != nil {
		return err
	}
	*out = []T{one}
	return nil
}

func encodeBlocks[T any](blocks []T) any {
	switch len(blocks) {
	case 0:
		return false
	case 1:
		return blocks[0]
	default:
		return blocks
	}
}

func absent(raw json.RawMessage) bool {
	raw = bytes.TrimSpace(raw)
	return len(raw) == 0 || bytes.Equal(raw, []byte("null")) || bytes.Equal(raw, []byte("false"))
}
