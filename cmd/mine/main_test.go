package main

import (
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"

	"github.com/thanhnp/pow-ledger/internal/chain"
)

func TestRun(t *testing.T) {
	log, hook := test.NewNullLogger()
	log.SetLevel(logrus.DebugLevel)

	if err := run(chain.Miner{Difficulty: 1, MaxIterations: chain.DefaultMaxIterations}, log); err != nil {
		t.Fatal(err)
	}
	if len(hook.AllEntries()) != len(messages) {
		t.Errorf("logged %d blocks, want %d", len(hook.AllEntries()), len(messages))
	}
}

func TestRunIterationLimit(t *testing.T) {
	log, _ := test.NewNullLogger()
	if err := run(chain.Miner{Difficulty: 1, MaxIterations: 0}, log); err == nil {
		t.Fatal("expected mining failure")
	}
}
