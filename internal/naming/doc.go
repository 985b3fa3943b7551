// Package naming derives thumbnail file paths from video identifiers.
package naming
