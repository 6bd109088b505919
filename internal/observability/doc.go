// Package observability owns the process logger and prometheus collectors.
package observability
