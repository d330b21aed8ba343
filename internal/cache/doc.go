// Package cache holds the console's local mirror of server entities.
// The mirror is rebuilt wholesale from API responses and mutated only
// after confirmed success responses; the server remains the source of
// truth at all times.
package cache
