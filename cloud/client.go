package cloud

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/fatih/color"
	"github.com/schoolyear/vm-maintenance-cli/inventory"
)

// Client walks the subscriptions of a single provider and reports the maintenance status of every VM
type Client struct {
	provider      Provider
	subscriptions []inventory.Subscription
	backend       Backend
	out           io.Writer
	now           func() time.Time
}

type Option func(*Client)

// WithOutput redirects all progress and results, defaults to stdout
func WithOutput(w io.Writer) Option {
	return func(c *Client) {
		c.out = w
	}
}

func withClock(now func() time.Time) Option {
	return func(c *Client) {
		c.now = now
	}
}

func NewClient(provider Provider, subscriptions []inventory.Subscription, backend Backend, opts ...Option) *Client {
	c := &Client{
		provider:      provider,
		subscriptions: subscriptions,
		backend:       backend,
		out:           os.Stdout,
		now:           time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Client) Subscriptions() []inventory.Subscription {
	return c.subscriptions
}

// ListVMs returns the VMs of the subscription.
// Failures are reported and result in an empty list.
func (c *Client) ListVMs(ctx context.Context, subscriptionID string) []VM {
	vms, err := c.backend.Lister.ListVMs(ctx, subscriptionID)
	if err != nil {
		c.printError("Error listing VMs in subscription %s: %v\n", subscriptionID, err)
		return []VM{}
	}
	if vms == nil {
		return []VM{}
	}
	return vms
}

// GetMaintenanceDetails returns the maintenance redeploy status of the VM.
// returns nil if the status could not be retrieved or is empty
func (c *Client) GetMaintenanceDetails(ctx context.Context, subscriptionID, resourceGroup, vmName string) MaintenanceDetails {
	details, err := c.backend.Fetcher.FetchMaintenanceStatus(ctx, subscriptionID, resourceGroup, vmName)
	if err != nil {
		c.printError("Error retrieving maintenance details for VM '%s': %v\n", vmName, err)
		return nil
	}
	if details.IsEmpty() {
		return nil
	}
	return details
}

// ProcessAll checks every VM in every subscription, one at a time, in inventory order.
// Nothing fails the run: every problem is printed and the item is skipped.
func (c *Client) ProcessAll(ctx context.Context) *Report {
	report := &Report{
		GeneratedAt:   c.now().UTC(),
		Provider:      c.provider,
		Subscriptions: make([]SubscriptionReport, 0, len(c.subscriptions)),
	}

	for _, subscription := range c.subscriptions {
		if err := subscription.Validate(); err != nil {
			fmt.Fprintln(c.out, "Skipping invalid subscription entry (missing subscription_id).")
			report.Subscriptions = append(report.Subscriptions, SubscriptionReport{
				Skipped: SkipReasonInvalidEntry,
			})
			continue
		}

		subscriptionReport := c.processSubscription(ctx, subscription.SubscriptionID)
		report.Subscriptions = append(report.Subscriptions, subscriptionReport)
	}

	return report
}

func (c *Client) processSubscription(ctx context.Context, subscriptionID string) SubscriptionReport {
	subscriptionReport := SubscriptionReport{
		SubscriptionID: subscriptionID,
		Name:           c.backend.SubscriptionNames[subscriptionID],
		VMs:            []VMReport{},
	}

	fmt.Fprintln(c.out)
	if subscriptionReport.Name != "" {
		fmt.Fprintf(c.out, "Processing subscription: %s (%s)\n", subscriptionID, color.GreenString(subscriptionReport.Name))
	} else {
		fmt.Fprintf(c.out, "Processing subscription: %s\n", subscriptionID)
	}

	vms := c.ListVMs(ctx, subscriptionID)
	if len(vms) == 0 {
		fmt.Fprintf(c.out, "No VMs found in subscription: %s\n", subscriptionID)
		subscriptionReport.Skipped = SkipReasonNoVMs
		return subscriptionReport
	}

	for _, vm := range vms {
		fmt.Fprintln(c.out)
		fmt.Fprintf(c.out, "Checking maintenance status for VM: %s (Resource Group: %s)\n", vm.Name, vm.ResourceGroup)

		vmReport := VMReport{
			Name:          vm.Name,
			ResourceGroup: vm.ResourceGroup,
		}

		details := c.GetMaintenanceDetails(ctx, subscriptionID, vm.ResourceGroup, vm.Name)
		if details != nil {
			fmt.Fprintln(c.out, "Maintenance Details:", details.Indent())
			vmReport.Maintenance = details
			vmReport.Summary = details.Summary()
			if vmReport.Summary != nil {
				if summary := vmReport.Summary.String(); summary != "" {
					color.New(color.FgYellow).Fprintf(c.out, "Summary: %s\n", summary)
				}
			}
		} else {
			fmt.Fprintf(c.out, "The VM `%s` is not marked for maintenance\n", vm.Name)
		}

		subscriptionReport.VMs = append(subscriptionReport.VMs, vmReport)
	}

	return subscriptionReport
}

func (c *Client) printError(format string, a ...any) {
	color.New(color.FgRed).Fprintf(c.out, format, a...)
}
