package saga

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunAllStepsSucceed(t *testing.T) {
	var order []string
	steps := []Step{
		{Name: "a", Run: func(context.Context) error { order = append(order, "a"); return nil }},
		{Name: "b", Run: func(context.Context) error { order = append(order, "b"); return nil }},
		{Name: "c", Run: func(context.Context) error { order = append(order, "c"); return nil }},
	}

	err := Run(context.Background(), steps)
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b", "c"}, order)
}

func TestRunCompensatesInReverseOrder(t *testing.T) {
	boom := errors.New("boom")
	var order []string
	steps := []Step{
		{
			Name:       "upload",
			Run:        func(context.Context) error { order = append(order, "upload"); return nil },
			Compensate: func(context.Context) error { order = append(order, "undo-upload"); return nil },
		},
		{
			Name:       "derive",
			Run:        func(context.Context) error { order = append(order, "derive"); return nil },
			Compensate: func(context.Context) error { order = append(order, "undo-derive"); return nil },
		},
		{
			Name: "create",
			Run:  func(context.Context) error { return boom },
		},
	}

	err := Run(context.Background(), steps)
	require.Error(t, err)

	var serr *Error
	require.ErrorAs(t, err, &serr)
	assert.Equal(t, "create", serr.Step)
	assert.Equal(t, 2, serr.Compensated)
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, []string{"upload", "derive", "undo-derive", "undo-upload"}, order)
}

func TestRunCompensationRunsExactlyOnce(t *testing.T) {
	undos := 0
	steps := []Step{
		{
			Name:       "upload",
			Run:        func(context.Context) error { return nil },
			Compensate: func(context.Context) error { undos++; return nil },
		},
		{
			Name: "create",
			Run:  func(context.Context) error { return errors.New("rejected") },
		},
	}

	_ = Run(context.Background(), steps)
	assert.Equal(t, 1, undos)
}

func TestRunFirstStepFailureCompensatesNothing(t *testing.T) {
	steps := []Step{
		{
			Name: "upload",
			Run:  func(context.Context) error { return errors.New("no network") },
			Compensate: func(context.Context) error {
				t.Fatal("compensation of the failed step must not run")
				return nil
			},
		},
	}

	err := Run(context.Background(), steps)
	var serr *Error
	require.ErrorAs(t, err, &serr)
	assert.Equal(t, 0, serr.Compensated)
}

func TestRunCompensationFailureKeepsOriginalCause(t *testing.T) {
	cause := errors.New("create failed")
	steps := []Step{
		{
			Name:       "upload",
			Run:        func(context.Context) error { return nil },
			Compensate: func(context.Context) error { return errors.New("delete failed too") },
		},
		{
			Name: "create",
			Run:  func(context.Context) error { return cause },
		},
	}

	err := Run(context.Background(), steps)
	assert.ErrorIs(t, err, cause)
}
