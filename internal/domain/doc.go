// Package domain contains the core business entities of the standup log:
// users, clients, recurring task definitions and daily activity cards.
// It is independent of any storage or delivery mechanism.
//
// Calendar dates are represented as time.Time values at midnight UTC.
// Use DateOf and ParseDate to produce them.
package domain
