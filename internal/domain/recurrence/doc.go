// Package recurrence decides which recurring task templates come due on a
// calendar date and assembles the initial "what I did" items of a new
// activity card.
//
// Everything here is pure: no I/O, no clock reads, no mutation of inputs.
// Dates are interpreted by their calendar fields only, so callers should
// pass values produced by domain.DateOf or domain.ParseDate.
package recurrence
