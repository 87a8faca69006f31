// Package pkg provides the libraries behind tdvisu, a visualizer for
// dynamic programming on tree decompositions.
//
// # Overview
//
// A solver working on a tree decomposition solves one bag at a time and
// writes its progress into a database. tdvisu reads that trace and turns
// it into a series of images, one per solver step, showing which bag is
// being worked on and which solution table it produced.
//
// # Architecture
//
// The typical data flow through tdvisu:
//
//	Solver database (PostgreSQL or SQLite)
//	         ↓
//	    [trace] package (read bags, edges, solve order, solution tables)
//	         ↓
//	    [construct] package (timeline via [timeline], document via [document])
//	         ↓
//	    interchange JSON document
//	         ↓
//	    [pipeline] package ([render/tdstep], [render/auxgraph], [svgjoin])
//	         ↓
//	    TDStep1.svg, TDStep2.svg, ... combined1.svg, ...
//
// # Main Packages
//
// ## Core
//
// [dijkstra] - Bidirectional shortest paths over generic adjacency maps.
// Used to walk the tree between two consecutively solved bags.
//
// [timeline] - Turns the solve order into timeline steps and solution
// tables, with a footer per problem kind.
//
// [render/tdstep] - The highlight state machine: one tree decomposition
// diagram per timeline step.
//
// ## Data
//
// [trace] - Read access to solver runs, with PostgreSQL and SQLite stores.
//
// [document] - The interchange document between construct and visualize.
//
// [dimacs] - Readers for the tw and cnf input formats.
//
// ## Infrastructure
//
// [cache] - Render cache keyed by the hash of each frame's DOT source.
//
// [config] - TOML or YAML configuration of the database and logging.
//
// [errors] - Structured errors with machine-readable codes.
//
// [observability] - Hooks for render and cache events.
//
// [watch] - Re-runs a build when the input document changes.
package pkg
