// Package api contains the HTTP handlers for the standup API. Handlers
// decode and validate requests, resolve the caller from the request
// context, delegate to the service layer and map service errors to
// status codes and safe messages.
package api
