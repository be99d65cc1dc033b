// Package economics scores balancing-area import congestion: how often
// and how hard a balancing area leans on its import capability, and
// what that stress is worth when an interface price series is
// available.
//
// The calculator is a pure reduction over an hourly operational series
// (demand, net generation, total interchange) against a pre-computed
// transfer limit. Utilization is never clipped; stress-hour counts use
// strict greater-than comparisons against the configured thresholds,
// which intentionally differs from the zone classifier's inclusive
// thresholds. A missing transfer limit degrades to a flagged result
// rather than an error.
package economics
