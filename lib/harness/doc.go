// Package harness times how long two archives take to save and load a
// payload and how large the saved encoding is.
//
// Run executes a fixed number of iterations. Every iteration saves the
// payload with the baseline archive into a fresh buffer, loads it back into
// an empty payload of the same kind and then does the same with the
// candidate. Totals are divided by the iteration count, and the candidate's
// averages and size are reported relative to the baseline. A ratio is nil
// when the baseline measurement is zero.
//
// The encoded size is taken from the first iteration. With validation
// enabled every loaded payload is compared with the original and every
// iteration's size with the first one.
package harness
