// Package partition splits a field graph into contiguous regions
// ("continents") that each fit the printable volume.
//
// # Growth
//
// [Partition] runs many randomized trials and keeps the best. A trial seeds
// a region at a random unassigned field (after the first region, only at
// fields bordering already placed material), then grows it layer by layer:
// every unassigned neighbor of the current region is tested against the
// [Fitter] with the region as it stood before the layer, and all that pass
// join at once. A region is sealed when no neighbor passes, and the trial
// ends when every field is assigned.
//
// Candidates admitted in the same layer are not tested against each other,
// so a region grown with [LayersIndependent] can overflow the volume even
// though every admission passed. [Result.Verify] re-checks finished regions.
// [LayersIncremental] closes the gap: when a layer's candidates overflow
// together they are admitted one at a time instead.
//
// # Selection
//
// Each trial is scored by its region count and the size of its smallest
// region. A trial wins when smallest−regions is larger, then when it has
// more regions at an equal score, then when its index is lower. No trial in
// the pool can have fewer regions and a smallest region at least as large as
// the winner's. A trial made only of single-field regions is discarded;
// when every trial is discarded the run fails with DEGENERATE_FIT.
//
// # Concurrency
//
// Trials run on a bounded worker pool. The graph and fitter are shared
// read-only; each trial owns its assignment slice and a PCG generator seeded
// from ([Options.Seed], trial index), so results do not depend on the number
// of workers or on scheduling.
//
// # Strands
//
// [Strands] is a deterministic alternative that chunks fields in id order,
// ignoring fit. Its result should be checked with [Result.Verify].
package partition
