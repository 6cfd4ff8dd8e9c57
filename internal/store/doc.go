// Package store defines the persistence interfaces for users, clients,
// recurring tasks and activity cards, along with the error vocabulary and
// transaction helper shared by every implementation.
package store
