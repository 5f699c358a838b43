package lib

import (
	"bytes"
	"context"
	"encoding/json"
	"os/exec"
	"regexp"
	"strings"

	"github.com/friendsofgo/errors"
)

var jsonParseFixRegex = regexp.MustCompile(`(?m)^.*(?:pkg_resources is deprecated as an API|__import__\('pkg_resources'\)).*\n?`)

// ErrCommandFailed is returned when the command exits with a non-zero exit code
var ErrCommandFailed = errors.New("command failed")

// ExecuteAsParseAsJSON runs the command and parses its combined output as JSON into T
func ExecuteAsParseAsJSON[T any](ctx context.Context, cmd string, args ...string) (t T, err error) {
	command := exec.CommandContext(ctx, cmd, args...)

	out, err := command.CombinedOutput()
	if err != nil {
		return t, errors.Wrapf(err, "failed to execute %s %s: %s", cmd, strings.Join(args, " "), string(out))
	}

	out = stripAzureCLIWarnings(out)

	if err := json.Unmarshal(out, &t); err != nil {
		return t, errors.Wrapf(err, "failed to parse output of %s %s: %s", cmd, strings.Join(args, " "), string(out))
	}

	return t, nil
}

// ExecuteJSON runs the command and returns its stdout as raw JSON.
// Stdout and stderr are kept apart, so warnings on stderr never end up in the document.
// returns nil without an error if the command printed nothing
func ExecuteJSON(ctx context.Context, cmd string, args ...string) (json.RawMessage, error) {
	var stdout, stderr bytes.Buffer
	command := exec.CommandContext(ctx, cmd, args...)
	command.Stdout = &stdout
	command.Stderr = &stderr

	if err := command.Run(); err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return nil, errors.Wrapf(ErrCommandFailed, "%s (exit code %d)", strings.TrimSpace(stderr.String()), exitErr.ExitCode())
		}
		return nil, errors.Wrapf(err, "failed to execute %s %s", cmd, strings.Join(args, " "))
	}

	out := bytes.TrimSpace(stripAzureCLIWarnings(stdout.Bytes()))
	if len(out) == 0 {
		return nil, nil
	}

	if !json.Valid(out) {
		return nil, errors.Errorf("failed to parse output of %s %s: %s", cmd, strings.Join(args, " "), string(out))
	}

	return out, nil
}

// fix for: https://github.com/azure/azure-cli/issues/31591
// Azure CLI may output this, which messes with the JSON parsing
func stripAzureCLIWarnings(out []byte) []byte {
	return jsonParseFixRegex.ReplaceAll(out, []byte{})
}
