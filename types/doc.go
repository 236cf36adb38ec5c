// Package types provides unified type definitions for the opsmith kernel:
// the configuration mapping shared by every subsystem and the structured
// error type used across package boundaries.
package types
