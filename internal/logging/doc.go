// Package logging provides a unified logging interface for workerlab.
// It abstracts the underlying logging implementation, allowing consistent logging
// across workers, the coordinator and the CLI while supporting multiple backends.
package logging
