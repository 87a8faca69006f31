// Package document reads and writes the JSON interchange document that
// connects trace extraction to rendering.
//
// # Format
//
// A document describes the tree decomposition, the timeline replayed over
// it and optional auxiliary diagrams:
//
//	{
//	  "treeDecJson": {
//	    "bagpre": "bag %s",
//	    "edgearray": [[2, 1], [3, 2]],
//	    "labeldict": [{"id": 1, "items": [1, 2], "labels": ["[1, 2]", "dtime=0.0051s"]}],
//	    "num_vars": 4
//	  },
//	  "tdTimeline": [[1], [1, [[["v1", "n"], [0, 1]], "sol bag 1", "sum: 1", true]]],
//	  "incidenceGraph": {"edges": [{"id": 1, "list": [1, -2]}]},
//	  "generalGraph": false,
//	  "svgJoin": {"base_names": ["TDStep", "IncidenceGraphStep"]}
//	}
//
// incidenceGraph and generalGraph may be false, null, one object or a list of
// objects. The join block is read from "svgJoin" or "svg_join". Every
// visualization option (td_file, colors, orientation, linesmax, columnsmax,
// bagcolor, fontsize, penwidth, fontcolor, emphasis) has a default, so a
// minimal document only needs treeDecJson and tdTimeline.
//
// # Import and export
//
// Use [ImportJSON] or [ReadJSON] to decode and validate a document, and
// [ExportJSON] or [WriteJSON] to encode one. Decoding goes through
// github.com/goccy/go-json.
package document
