//go:build windows

package main

import (
	"context"
	"os"
	"os/signal"
)

// shutdownContext is cancelled on Ctrl+C.
func shutdownContext(parent context.Context) (context.Context, context.CancelFunc) {
	return signal.NotifyContext(parent, os.Interrupt)
}
