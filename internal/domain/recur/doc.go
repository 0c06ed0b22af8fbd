// Package recur implements recurrence expansion and next-occurrence
// computation for todos. All functions are pure date arithmetic over a
// domain.RecurrenceSpec: no I/O, no shared state, safe for concurrent use.
//
// All calendar math is performed at UTC midnight and all dates are
// exchanged as YYYY-MM-DD strings. Malformed or unknown specs degrade to
// "no further occurrences" rather than erroring; recurrence is a
// best-effort convenience and must never fail a creation outright.
package recur
