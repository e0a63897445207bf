// Package crawler implements URL discovery and the adaptive per-URL
// collection loop.
//
// Discovery walks a target domain breadth-first from its roots and a set
// of high-value conventional paths, bounded by the URL cap. The crawler
// then runs each discovered URL through a decide-execute loop: the
// decision engine picks a tool, the executor runs it, the result feeds
// back into the page context, and the loop continues until a stop
// condition fires. URL loops run in parallel; one URL's loop is always
// sequential.
package crawler
