package document

import (
	"bytes"
	"strconv"

	json "github.com/goccy/go-json"

	"github.com/matzehuels/tdvisu/pkg/svgjoin"
)

// ClauseEdge is one clause of the incidence graph with signed literals.
type ClauseEdge struct {
	ID   int   `json:"id"`
	List []int `json:"list"`
}

// IncidenceGraph configures the clause/variable diagram and the primal and
// dual graphs inferred from it.
type IncidenceGraph struct {
	Edges           []ClauseEdge `json:"edges"`
	SubgraphNameOne string       `json:"subgraph_name_one"`
	SubgraphNameTwo string       `json:"subgraph_name_two"`
	VarNameOne      string       `json:"var_name_one"`
	VarNameTwo      string       `json:"var_name_two"`
	InferPrimal     bool         `json:"infer_primal"`
	InferDual       bool         `json:"infer_dual"`
	PrimalFile      string       `json:"primal_file"`
	IncFile         string       `json:"inc_file"`
	DualFile        string       `json:"dual_file"`
	FontSize        int          `json:"fontsize"`
	PenWidth        float64      `json:"penwidth"`
	SecondShape     string       `json:"second_shape"`
	ColumnDistance  float64      `json:"column_distance"`
}

// NewIncidenceGraph returns an incidence graph block with default settings.
func NewIncidenceGraph(edges []ClauseEdge) IncidenceGraph {
	return IncidenceGraph{
		Edges:           edges,
		SubgraphNameOne: "clauses",
		SubgraphNameTwo: "variables",
		PrimalFile:      "PrimalGraphStep",
		IncFile:         "IncidenceGraphStep",
		DualFile:        "DualGraphStep",
		FontSize:        16,
		PenWidth:        2.2,
		SecondShape:     "diamond",
		ColumnDistance:  0.5,
	}
}

// UnmarshalJSON applies defaults before decoding.
func (g *IncidenceGraph) UnmarshalJSON(data []byte) error {
	type plain IncidenceGraph
	v := plain(NewIncidenceGraph(nil))
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	*g = IncidenceGraph(v)
	return nil
}

// GeneralGraph configures a plain graph diagram over the variables.
type GeneralGraph struct {
	Edges        [][2]int `json:"edges"`
	ExtraNodes   []int    `json:"extra_nodes"`
	GraphName    string   `json:"graph_name"`
	FileBasename string   `json:"file_basename"`
	VarName      string   `json:"var_name"`
	DoSortNodes  bool     `json:"do_sort_nodes"`
	DoAdjNodes   bool     `json:"do_adj_nodes"`
	FontSize     int      `json:"fontsize"`
	FirstColor   string   `json:"first_color"`
	FirstStyle   string   `json:"first_style"`
	SecondColor  string   `json:"second_color"`
	SecondStyle  string   `json:"second_style"`
	ThirdColor   string   `json:"third_color"`
}

// NewGeneralGraph returns a general graph block with default settings.
func NewGeneralGraph(edges [][2]int) GeneralGraph {
	return GeneralGraph{
		Edges:        edges,
		ExtraNodes:   []int{},
		GraphName:    "graph",
		FileBasename: "graph",
		FontSize:     20,
		FirstColor:   "yellow",
		FirstStyle:   "filled",
		SecondColor:  "green",
		SecondStyle:  "dotted,filled",
		ThirdColor:   "red",
	}
}

// UnmarshalJSON applies defaults before decoding.
func (g *GeneralGraph) UnmarshalJSON(data []byte) error {
	type plain GeneralGraph
	v := plain(NewGeneralGraph(nil))
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	if v.ExtraNodes == nil {
		v.ExtraNodes = []int{}
	}
	*g = GeneralGraph(v)
	return nil
}

// SvgJoin configures the horizontal join of per-step images.
type SvgJoin struct {
	BaseNames           Series[string]         `json:"base_names"`
	Folder              *string                `json:"folder,omitempty"`
	OutName             string                 `json:"outname"`
	Suffix              string                 `json:"suffix"`
	PreserveAspectRatio string                 `json:"preserve_aspectratio"`
	NumImages           int                    `json:"num_images"`
	Padding             Series[float64]        `json:"padding"`
	Scale2              Series[float64]        `json:"scale2"`
	VTop                Series[svgjoin.Anchor] `json:"v_top"`
	VBottom             Series[svgjoin.Anchor] `json:"v_bottom"`
}

// NewSvgJoin returns a join block with default settings.
func NewSvgJoin(names ...string) SvgJoin {
	return SvgJoin{
		BaseNames:           names,
		OutName:             "combined",
		Suffix:              "%d.svg",
		PreserveAspectRatio: "xMinYMin",
		NumImages:           1,
		Padding:             Series[float64]{0},
		Scale2:              Series[float64]{1},
	}
}

// UnmarshalJSON applies defaults before decoding.
func (j *SvgJoin) UnmarshalJSON(data []byte) error {
	type plain SvgJoin
	v := plain(NewSvgJoin())
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	*j = SvgJoin(v)
	return nil
}

// Options converts the block into join options. Images are read from
// outFolder unless the block names its own folder.
func (j SvgJoin) Options(outFolder string) svgjoin.Options {
	folder := outFolder
	if j.Folder != nil {
		folder = *j.Folder
	}
	return svgjoin.Options{
		BaseNames:           j.BaseNames,
		Folder:              folder,
		OutName:             j.OutName,
		Suffix:              j.Suffix,
		PreserveAspectRatio: j.PreserveAspectRatio,
		NumImages:           j.NumImages,
		Padding:             j.Padding,
		Scale2:              j.Scale2,
		VTop:                j.VTop,
		VBottom:             j.VBottom,
	}
}

// Series is a list that may be written as a single scalar in JSON.
type Series[T any] []T

// UnmarshalJSON accepts a scalar or a list. null leaves the series unchanged.
func (s *Series[T]) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if isFalsy(data) {
		return nil
	}
	if len(data) > 0 && data[0] == '[' {
		var list []T
		if err := json.Unmarshal(data, &list); err != nil {
			return err
		}
		*s = list
		return nil
	}
	var one T
	if err := json.Unmarshal(data, &one); err != nil {
		return err
	}
	*s = Series[T]{one}
	return nil
}

// MarshalJSON writes a single element as a scalar.
func (s Series[T]) MarshalJSON() ([]byte, error) {
	if len(s) == 1 {
		return json.Marshal(s[0])
	}
	return json.Marshal([]T(s))
}

// Labels are the text lines shown under a bag. A single string is accepted.
type Labels []string

// UnmarshalJSON accepts a string or a list of strings.
func (l *Labels) UnmarshalJSON(data []byte) error {
	var s Series[string]
	if err := s.UnmarshalJSON(data); err != nil {
		return err
	}
	*l = Labels(s)
	return nil
}

func isFalsy(data []byte) bool {
	return bytes.Equal(data, []byte("null"))
}

func itoa(i int) string { return strconv.Itoa(i) }
