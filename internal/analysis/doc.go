// Package analysis summarizes recorded carry traces.
//
//   - [Grabs]: split a trace into contiguous held intervals
//   - [Analyze]: settle time, peak and RMS error and oscillation per grab
//   - [PowerSpectrum] and [DominantFrequency]: windowed spectrum of a series
//
// A grab that never settles under the threshold usually means the pickup
// force is too low for the held damping, or the object is pinned against
// scenery:
//
//	for _, g := range analysis.Analyze(samples, 0.05) {
//	    if !g.Settled {
//	        // tune carry.pickup_force
//	    }
//	}
package analysis
