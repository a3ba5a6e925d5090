// ABOUTME: Test entry point for the sync package.
// ABOUTME: Fails the run if any test leaves a watcher or drain goroutine behind.
package sync

import (
	"testing"

	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m,
		// glog starts its flush daemon at init; it arrives through badger.
		goleak.IgnoreTopFunction("github.com/golang/glog.(*fileSink).flushDaemon"),
	)
}
