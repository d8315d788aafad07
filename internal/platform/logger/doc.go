// Package logger provides structured logging setup and context helpers.
package logger
