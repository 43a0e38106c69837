package main_test

import (
	"bytes"
	"context"
	"testing"

	"github.com/fwojciec/uvdocs"
	main "github.com/fwojciec/uvdocs/cmd/uvdocs"
	"github.com/fwojciec/uvdocs/mock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAskCmd_Run(t *testing.T) {
	t.Parallel()

	t.Run("asks question and prints answer", func(t *testing.T) {
		t.Parallel()

		asker := &mock.Asker{
			AskFn: func(_ context.Context, question string) (string, error) {
				if question == "how do I pin python?" {
					return "Use uv python pin.", nil
				}
				return "", nil
			},
		}
		stdout := &bytes.Buffer{}
		deps := &main.Dependencies{Ctx: context.Background(), Stdout: stdout, Stderr: &bytes.Buffer{}, Asker: asker}

		err := (&main.AskCmd{Question: []string{"how", "do", "I", "pin", "python?"}}).Run(deps)

		require.NoError(t, err)
		assert.Equal(t, "Use uv python pin.\n", stdout.String())
	})

	t.Run("prints error message", func(t *testing.T) {
		t.Parallel()

		asker := &mock.Asker{
			AskFn: func(context.Context, string) (string, error) {
				return "", uvdocs.Errorf(uvdocs.ENOTFOUND, "no documentation matches %q", "zzz")
			},
		}
		stderr := &bytes.Buffer{}
		deps := &main.Dependencies{Ctx: context.Background(), Stdout: &bytes.Buffer{}, Stderr: stderr, Asker: asker}

		err := (&main.AskCmd{Question: []string{"zzz"}}).Run(deps)

		require.Error(t, err)
		assert.Contains(t, stderr.String(), `error: no documentation matches "zzz"`)
	})
}
