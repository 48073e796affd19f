package main

import (
	"os"
	"testing"

	"github.com/rogpeppe/go-internal/testscript"
)

func TestMain(m *testing.M) {
	os.Exit(testscript.RunMain(m, map[string]func() int{
		"mocktools": run,
	}))
}

func TestScripts(t *testing.T) {
	testscript.Run(t, testscript.Params{
		Dir: "testdata",
		Setup: func(env *testscript.Env) error {
			for _, name := range []string{"MOCKTOOLS_SEED", "MOCKTOOLS_LENGTH", "MOCKTOOLS_LOG_LEVEL", "MOCKTOOLS_LOG_FORMAT"} {
				env.Setenv(name, "")
			}
			return nil
		},
	})
}
