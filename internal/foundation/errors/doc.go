// Package errors provides classified errors for the edgebuilder pipeline.
//
// Every failure inside the build carries a category (what subsystem it
// belongs to) and a severity (what the pipeline does about it). The
// propagation policy is fixed: fatal errors abort the build before any
// output is written, everything else skips the smallest affected unit
// (page, image directive, single variant) and the build continues. The
// pipeline never retries, so no retry classification exists.
package errors
