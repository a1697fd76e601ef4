// Package testing flags the process as a test run so binaries with a main
// guard exit early. Blank-import it from _test files.
package testing

import (
	"os"
	"sync"
)

var once sync.Once

func init() {
	once.Do(func() {
		if os.Getenv("CQTRAILS_TEST_MODE") == "" {
			_ = os.Setenv("CQTRAILS_TEST_MODE", "1")
		}
	})
}
