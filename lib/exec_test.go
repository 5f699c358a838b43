package lib

import (
	"context"
	"runtime"
	"testing"

	"github.com/friendsofgo/errors"
	"github.com/stretchr/testify/require"
)

func skipWithoutShell(t *testing.T) {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("requires /bin/sh")
	}
}

func TestExecuteJSON(t *testing.T) {
	skipWithoutShell(t)

	testCases := []struct {
		name      string
		script    string
		expected  string
		isNil     bool
		failed    bool
		errorsOut bool
	}{
		{
			name:     "object",
			script:   `echo '{"isCustomerInitiatedMaintenanceAllowed": true}'`,
			expected: `{"isCustomerInitiatedMaintenanceAllowed": true}`,
		},
		{
			name:   "empty output",
			script: `true`,
			isNil:  true,
		},
		{
			name:   "whitespace only",
			script: `printf '\n  \n'`,
			isNil:  true,
		},
		{
			name:      "non-zero exit",
			script:    `echo "ERROR: (ResourceNotFound) vm not found" >&2; exit 3`,
			failed:    true,
			errorsOut: true,
		},
		{
			name:      "invalid json",
			script:    `echo 'not json'`,
			errorsOut: true,
		},
		{
			name:     "pkg_resources warning stripped",
			script:   `echo "/opt/az/lib/python3.12/site-packages/pkg_resources is deprecated as an API"; echo 'null'`,
			expected: `null`,
		},
		{
			name:     "stderr ignored on success",
			script:   `echo "WARNING: something" >&2; echo '[]'`,
			expected: `[]`,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			out, err := ExecuteJSON(context.Background(), "sh", "-c", tc.script)
			if tc.errorsOut {
				require.Error(t, err)
				require.Equal(t, tc.failed, errors.Is(err, ErrCommandFailed))
				return
			}

			require.NoError(t, err)
			if tc.isNil {
				require.Nil(t, out)
			} else {
				require.JSONEq(t, tc.expected, string(out))
			}
		})
	}
}

func TestExecuteJSON_StderrInError(t *testing.T) {
	skipWithoutShell(t)

	_, err := ExecuteJSON(context.Background(), "sh", "-c", `echo "not logged in" >&2; exit 1`)
	require.ErrorIs(t, err, ErrCommandFailed)
	require.Contains(t, err.Error(), "not logged in")
}

func TestExecuteAsParseAsJSON(t *testing.T) {
	skipWithoutShell(t)

	accounts, err := ExecuteAsParseAsJSON[[]AzAccount](context.Background(), "sh", "-c", `echo '[{"id": "sub-1", "name": "Production", "tenantId": "tenant"}]'`)
	require.NoError(t, err)
	require.Len(t, accounts, 1)
	require.Equal(t, "sub-1", accounts[0].SubscriptionId)
	require.Equal(t, "Production", accounts[0].Name)

	_, err = ExecuteAsParseAsJSON[[]AzAccount](context.Background(), "sh", "-c", `echo 'nope'`)
	require.Error(t, err)
}
