//go:build !integration

package cmsblocks

import (
	"testing"

	"go.uber.org/goleak"
)

// Renderers never launch a browser in unit tests, so nothing may outlive them.
func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}
