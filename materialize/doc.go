// Package materialize turns a fully downloaded segment directory into a
// queryable in-memory representation.
//
// Each segment directory carries a small factory.json descriptor naming the
// strategy that knows how to open it. The default strategy memory-maps the
// column files for zero-copy reads. Engines register additional strategies
// for their own on-disk formats.
package materialize
