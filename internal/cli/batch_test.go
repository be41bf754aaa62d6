package cli

import (
	"testing"

	"github.com/skepticlab/skeptic/internal/model"
)

func TestResolveWorkers(t *testing.T) {
	cases := []struct {
		name        string
		pc          model.ProcessingConfig
		flagSet     bool
		flagWorkers int
		want        int
	}{
		{"parallel disabled forces one worker", model.ProcessingConfig{ParallelEnabled: false, Workers: 3}, false, 3, 1},
		{"parallel enabled uses configured count", model.ProcessingConfig{ParallelEnabled: true, Workers: 3}, false, 3, 3},
		{"explicit flag overrides disabled parallel", model.ProcessingConfig{ParallelEnabled: false, Workers: 3}, true, 5, 5},
		{"explicit flag overrides configured count", model.ProcessingConfig{ParallelEnabled: true, Workers: 3}, true, 2, 2},
		{"zero configured count falls back to one", model.ProcessingConfig{ParallelEnabled: true}, false, 3, 1},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := resolveWorkers(tc.pc, tc.flagSet, tc.flagWorkers); got != tc.want {
				t.Errorf("resolveWorkers = %d, want %d", got, tc.want)
			}
		})
	}
}

func TestSplitMapping(t *testing.T) {
	agent, backend, ok := splitMapping("oracle=claude")
	if !ok || agent != "oracle" || backend != "claude" {
		t.Errorf("splitMapping = %q, %q, %v", agent, backend, ok)
	}

	for _, bad := range []string{"oracle", "=claude", "oracle=", ""} {
		if _, _, ok := splitMapping(bad); ok {
			t.Errorf("splitMapping(%q) should be rejected", bad)
		}
	}
}
