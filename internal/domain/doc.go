// Package domain defines the core business entities of the marketplace
// and their validation rules.
package domain
