// SPDX-License-Identifier: MPL-2.0

// Package benchmark holds benchmarks for the appshelf hot paths, used to
// generate PGO profiles and to catch regressions:
//   - config loading and CUE schema validation
//   - scanning a synthetic application tree
//   - catalog batch inserts and searches
//
// To generate a profile, run:
//
//	go test ./internal/benchmark -run '^$' -bench . -cpuprofile default.pgo
package benchmark
