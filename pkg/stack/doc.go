// Package stack packs finished regions into print batches along one axis.
//
// A [Stacker] walks the regions in the order given and appends each to the
// open stack if the stack still fits the printable volume along the stacking
// axis; otherwise it closes the stack and retries the region in a fresh one.
// This is first-fit online packing: regions are never reordered or sorted by
// size, so the output is a pure function of the input order and the offset
// policy.
//
// Every member is measured in its own print orientation (its summed normal
// turned onto +Z) and then shifted along the stacking axis by its offset.
// Offsets start at zero and grow by the gap an [Offsetter] computes between
// each member and its predecessor:
//
//   - [FixedOffset] adds a constant clearance plus gap.
//   - [CurvatureOffset] nests spherical caps: with D the smaller of the
//     predecessor's outer-surface reach and the candidate's inner-surface
//     reach from the axis (at most the inner radius), the step is
//     gap + √(R²−D²) − √(r²−D²) for outer radius R and inner radius r.
//
// A region that does not fit even alone in an empty stack is reported as
// DEGENERATE_FIT.
package stack
