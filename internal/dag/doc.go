// Package dag is the "Execution Layer" of the application. It holds the task
// graph produced by internal/builder and executes it concurrently on a
// bounded worker pool, honouring dependency edges and stopping early when a
// task fails.
package dag
