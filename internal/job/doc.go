// Package job manages background job queuing, processing, and lifecycle.
// It provides mechanisms for asynchronous execution of long-running operations
// like generating quiz items from notes and dispatching task reminders,
// ensuring they don't block HTTP request handling and can recover from
// application restarts.
package job
