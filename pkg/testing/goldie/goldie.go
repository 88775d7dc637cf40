// Package goldie wraps sebdah/goldie with the fixture layout used in this
// repository: golden files live in the testdata directory of the package
// under test and carry the .golden suffix.
//
// Run the tests with -update to rewrite the golden files.
package goldie

import (
	"testing"

	"github.com/sebdah/goldie/v2"
)

func New(t *testing.T) *goldie.Goldie {
	t.Helper()

	return goldie.New(t,
		goldie.WithFixtureDir("testdata"),
		goldie.WithNameSuffix(".golden"),
		goldie.WithDiffEngine(goldie.ColoredDiff),
	)
}

// Assert compares actual with the golden file testdata/<name>.golden.
func Assert(t *testing.T, name string, actual []byte) {
	t.Helper()

	New(t).Assert(t, name, normalize(actual))
}
