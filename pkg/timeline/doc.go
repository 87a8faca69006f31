// Package timeline turns the order in which a solver processed the bags of a
// tree decomposition into the sequence of steps a visualization replays.
//
// A [Step] is either a plain visit of one bag, a visit carrying the solution
// table computed for that bag, or a join of two bags. Steps are encoded in
// the positional JSON form used by tdvisu documents:
//
//	[3]                                                    plain visit
//	[3, [[["v1","v2"],[0,1]], "sol bag 3", "sum: 2", true]] solution
//	[[2,3], [...]]                                         join
//
// The [Builder] reads solution tables from a [TableSource] and, when asked
// to interpolate, inserts the bags on the shortest tree path between two
// consecutively solved bags so the animation moves along the decomposition
// instead of jumping.
package timeline
