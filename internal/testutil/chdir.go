package testutil

import (
	"os"
	"testing"
)

// Chdir changes the working directory to dir for the duration of the test,
// restoring the previous directory on cleanup (pre-Go 1.24 testing.T.Chdir).
func Chdir(t testing.TB, dir string) {
	t.Helper()
	prev, err := os.Getwd()
	if err != nil {
		t.Fatalf("Chdir: %v", err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatalf("Chdir: %v", err)
	}
	t.Cleanup(func() {
		if err := os.Chdir(prev); err != nil {
			t.Fatalf("Chdir restore: %v", err)
		}
	})
}
