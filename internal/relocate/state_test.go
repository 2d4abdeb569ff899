package relocate

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStateStrings(t *testing.T) {
	assert.Equal(t, "copying", Copying.String())
	assert.Equal(t, "rolling back", RollingBack.String())
	assert.Equal(t, "unknown", State(99).String())

	assert.Equal(t, "success", Success.String())
	assert.Equal(t, "failed unrecoverable", FailedUnrecoverable.String())
	assert.Equal(t, "unknown", Outcome(-1).String())

	assert.Equal(t, "original directory", SourceOriginal.String())
	assert.Equal(t, "link", SourceLink.String())
	assert.Equal(t, "unknown", SourceState(7).String())
}

func TestStepError(t *testing.T) {
	err := &StepError{State: Linking, Op: "create link", Path: "/data/Tool", Err: errInjected}
	assert.Equal(t, "linking: create link /data/Tool: injected failure", err.Error())
	assert.True(t, errors.Is(err, errInjected))
}

func TestResultMessage(t *testing.T) {
	p := Plan{Source: "/a/Tool", Destination: "/d/Tool", Backup: "/a/Tool.offload-bak-1234abcd"}

	tests := []struct {
		name string
		res  Result
		want []string
	}{
		{
			name: "success",
			res:  Result{Plan: p, Outcome: Success, LinkTarget: p.Destination},
			want: []string{"moved /a/Tool to /d/Tool", "now a link"},
		},
		{
			name: "rolled back",
			res:  Result{Plan: p, Outcome: RolledBack, FailedState: Linking, Err: errInjected},
			want: []string{"failed while linking", "injected failure", "intact at /a/Tool"},
		},
		{
			name: "unrecoverable",
			res: Result{
				Plan: p, Outcome: FailedUnrecoverable, FailedState: Verifying,
				FinalSourceState: SourceMissing, Err: ErrUnrecoverable,
			},
			want: []string{"could not be rolled back", "now missing", p.Backup, p.Destination},
		},
		{
			name: "rejected",
			res:  Result{Plan: p, Outcome: Rejected, Err: ErrBusy},
			want: []string{"not started", "overlapping"},
		},
		{
			name: "warnings",
			res:  Result{Plan: p, Outcome: Success, LinkTarget: p.Destination, Warnings: []string{"left a backup"}},
			want: []string{"\nwarning: left a backup"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			msg := tt.res.Message()
			for _, w := range tt.want {
				assert.Contains(t, msg, w)
			}
		})
	}
}

func TestOverlap(t *testing.T) {
	a := Plan{Source: "/x/Tool", Destination: "/d/Tool", Backup: "/x/Tool.offload-bak-1"}
	tests := []struct {
		name string
		b    Plan
		want bool
	}{
		{"disjoint", Plan{Source: "/x/Other", Destination: "/d/Other"}, false},
		{"same source", Plan{Source: "/x/Tool", Destination: "/e/Tool"}, true},
		{"source inside", Plan{Source: "/x/Tool/cache", Destination: "/e/cache"}, true},
		{"destination above", Plan{Source: "/y/Tool", Destination: "/d"}, true},
		{"sibling prefix", Plan{Source: "/x/Toolbox", Destination: "/d/Toolbox"}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, got := overlap(a, tt.b)
			assert.Equal(t, tt.want, got)
		})
	}
}
