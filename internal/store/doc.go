// Package store provides abstractions and sentinel errors for data
// persistence. Implementations live under internal/platform.
package store
