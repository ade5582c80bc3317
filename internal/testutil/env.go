// Package testutil holds helpers shared by package tests.
package testutil

import (
	"os"
	"testing"
)

// Env applies vars for the rest of the test; an empty value unsets the
// variable. Previous values are restored by t.Cleanup, so tests using it
// must not call t.Parallel.
func Env(t *testing.T, vars map[string]string) {
	t.Helper()
	for key, val := range vars {
		old, had := os.LookupEnv(key)
		if val == "" {
			_ = os.Unsetenv(key)
		} else {
			_ = os.Setenv(key, val)
		}
		t.Cleanup(func() {
			if had {
				_ = os.Setenv(key, old)
			} else {
				_ = os.Unsetenv(key)
			}
		})
	}
}
