package azure

import (
	"context"
	"os/exec"
	"time"

	"github.com/friendsofgo/errors"
	"github.com/schoolyear/vm-maintenance-cli/cloud"
	"github.com/schoolyear/vm-maintenance-cli/lib"
)

const (
	DefaultCLICommand = "az"
	DefaultCLITimeout = 2 * time.Minute

	maintenanceRedeployStatusQuery = "instanceView.maintenanceRedeployStatus"
)

// CLIFetcher reads the maintenance status of a VM using the Azure CLI.
// see: https://learn.microsoft.com/en-us/azure/virtual-machines/maintenance-notifications-cli
type CLIFetcher struct {
	// Command defaults to "az"
	Command string
	// Timeout per invocation, 0 means no timeout
	Timeout time.Duration
}

func (f *CLIFetcher) command() string {
	if f.Command == "" {
		return DefaultCLICommand
	}
	return f.Command
}

func maintenanceStatusArgs(subscriptionID, resourceGroup, vmName string) []string {
	return []string{
		"vm", "get-instance-view",
		"-g", resourceGroup,
		"-n", vmName,
		"--subscription", subscriptionID,
		"--query", maintenanceRedeployStatusQuery,
		"-o", "json",
	}
}

func (f *CLIFetcher) FetchMaintenanceStatus(ctx context.Context, subscriptionID, resourceGroup, vmName string) (cloud.MaintenanceDetails, error) {
	if f.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, f.Timeout)
		defer cancel()
	}

	out, err := lib.ExecuteJSON(ctx, f.command(), maintenanceStatusArgs(subscriptionID, resourceGroup, vmName)...)
	if err != nil {
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return nil, errors.Wrapf(ctx.Err(), "%s did not respond within %s", f.command(), f.Timeout)
		}
		return nil, err
	}

	if out == nil {
		return nil, nil
	}

	return cloud.MaintenanceDetails(out), nil
}

// CheckCLI verifies the Azure CLI can be found
func CheckCLI(command string) error {
	if _, err := exec.LookPath(command); err != nil {
		return errors.Wrapf(err, "%s command not found. Install the Azure CLI and restart this terminal: https://learn.microsoft.com/en-us/cli/azure/install-azure-cli", command)
	}
	return nil
}

// SubscriptionNames maps the ids of the subscriptions the Azure CLI is logged into to their display name
func SubscriptionNames(ctx context.Context, command string) (map[string]string, error) {
	accounts, err := lib.ExecuteAsParseAsJSON[[]lib.AzAccount](ctx, command, "account", "list", "--only-show-errors")
	if err != nil {
		return nil, errors.Wrap(err, "failed to list Azure CLI accounts. Make sure you are logged in. You can run 'az login'")
	}

	names := make(map[string]string, len(accounts))
	for _, account := range accounts {
		names[account.SubscriptionId] = account.Name
	}
	return names, nil
}
