// Package medsafety defines the core domain types for medication-safety
// analysis: medicines, pairwise interactions, risk classification, and the
// deterministic merge used to reconcile local and backend scan history.
package medsafety
