// Package service contains the application use cases. It orchestrates
// domain objects and store interfaces (defined in internal/store) to
// fulfill the API's operations: creating activity cards from recurring
// tasks and yesterday's plan, editing cards with ownership checks, the
// weekly team summary, and the scheduled auto-creation run.
//
// Services receive their dependencies through constructor injection and
// never depend on a specific store implementation. Operations that span
// more than one store run inside store.RunInTransaction using the
// transaction-bound stores returned by WithTx.
package service
