package document

import (
	"strings"

	"github.com/matzehuels/tdvisu/pkg/timeline"
)

// Default visualization settings.
const (
	DefaultTDFile      = "TDStep"
	DefaultOrientation = "BT"
	DefaultLinesMax    = 100
	DefaultColumnsMax  = 20
	DefaultBagColor    = "white"
	DefaultFontSize    = 20
	DefaultPenWidth    = 2.2
	DefaultFontColor   = "black"

	DefaultBagPre     = "bag %s"
	DefaultJoinPre    = "Join %d~%d"
	DefaultSolPre     = "sol%d"
	DefaultSolJoinPre = "solJoin%d~%d"
)

// DefaultColors is the palette variables and clauses are colored from.
var DefaultColors = []string{
	"#0073a1", "#b14923", "#244320", "#b1740f", "#a682ff",
	"#004066", "#0d1321", "#da1167", "#604909",
	"#0073a1", "#b14923", "#244320", "#b1740f", "#a682ff",
}

// Bag is one entry of the label dictionary.
type Bag struct {
	ID     int    `json:"id"`
	Items  []int  `json:"items"`
	Labels Labels `json:"labels"`
}

// TreeDec describes the tree decomposition and how its nodes are named.
type TreeDec struct {
	BagPre     string   `json:"bagpre"`
	EdgeArray  [][2]int `json:"edgearray"`
	LabelDict  []Bag    `json:"labeldict"`
	NumVars    int      `json:"num_vars"`
	JoinPre    string   `json:"joinpre,omitempty"`
	SolPre     string   `json:"solpre,omitempty"`
	SolJoinPre string   `json:"soljoinpre,omitempty"`
}

// Emphasis holds the highlight colors and styles.
type Emphasis struct {
	FirstColor  string `json:"firstcolor"`
	SecondColor string `json:"secondcolor"`
	FirstStyle  string `json:"firststyle"`
	SecondStyle string `json:"secondstyle"`
}

// Document is a decoded interchange document.
type Document struct {
	TreeDec  TreeDec         `json:"treeDecJson"`
	Timeline []timeline.Step `json:"tdTimeline"`

	IncidenceGraphs []IncidenceGraph `json:"-"`
	GeneralGraphs   []GeneralGraph   `json:"-"`
	SvgJoin         *SvgJoin         `json:"-"`

	TDFile      string   `json:"td_file"`
	Colors      []string `json:"colors"`
	Orientation string   `json:"orientation"`
	LinesMax    int      `json:"linesmax"`
	ColumnsMax  int      `json:"columnsmax"`
	BagColor    string   `json:"bagcolor"`
	FontSize    int      `json:"fontsize"`
	PenWidth    float64  `json:"penwidth"`
	FontColor   string   `json:"fontcolor"`
	Emphasis    Emphasis `json:"emphasis"`
}

// New returns a document with default settings and an empty decomposition.
func New() *Document {
	return &Document{
		TreeDec:     TreeDec{BagPre: DefaultBagPre},
		TDFile:      DefaultTDFile,
		Colors:      append([]string(nil), DefaultColors...),
		Orientation: DefaultOrientation,
		LinesMax:    DefaultLinesMax,
		ColumnsMax:  DefaultColumnsMax,
		BagColor:    DefaultBagColor,
		FontSize:    DefaultFontSize,
		PenWidth:    DefaultPenWidth,
		FontColor:   DefaultFontColor,
		Emphasis: Emphasis{
			FirstColor:  "yellow",
			SecondColor: "green",
			FirstStyle:  "filled",
			SecondStyle: "dotted,filled",
		},
	}
}

// Bags returns the set of bag IDs in the label dictionary.
func (d *Document) Bags() map[int]bool {
	set := make(map[int]bool, len(d.TreeDec.LabelDict))
	for _, b := range d.TreeDec.LabelDict {
		set[b.ID] = true
	}
	return set
}

// Bag returns the label dictionary entry of id.
func (d *Document) Bag(id int) (Bag, bool) {
	for _, b := range d.TreeDec.LabelDict {
		if b.ID == id {
			return b, true
		}
	}
	return Bag{}, false
}

// BagName returns the diagram node name of a bag.
func (t TreeDec) BagName(id int) string { return format(t.BagPre, DefaultBagPre, id) }

// JoinName returns the diagram node name of the join of a and b.
func (t TreeDec) JoinName(a, b int) string { return format(t.JoinPre, DefaultJoinPre, a, b) }

// SolName returns the diagram node name of a bag's solution.
func (t TreeDec) SolName(id int) string { return format(t.SolPre, DefaultSolPre, id) }

// SolJoinName returns the diagram node name of a join's solution.
func (t TreeDec) SolJoinName(a, b int) string {
	return format(t.SolJoinPre, DefaultSolJoinPre, a, b)
}

// format fills a name pattern with bag IDs. %s and %d both print the
// decimal ID.
func format(pattern, fallback string, ids ...int) string {
	if pattern == "" {
		pattern = fallback
	}
	var b strings.Builder
	next := 0
	for i := 0; i < len(pattern); i++ {
		c := pattern[i]
		if c != '%' || i+1 == len(pattern) {
			b.WriteByte(c)
			continue
		}
		i++
		switch pattern[i] {
		case '%':
			b.WriteByte('%')
		case 'd', 's':
			if next < len(ids) {
				b.WriteString(itoa(ids[next]))
				next++
			}
		default:
			b.WriteByte('%')
			b.WriteByte(pattern[i])
		}
	}
	return b.String()
}
