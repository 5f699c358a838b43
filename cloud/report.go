package cloud

import (
	"encoding/json"
	"time"
)

type SkipReason string

const (
	SkipReasonInvalidEntry SkipReason = "missing subscription_id"
	SkipReasonNoVMs        SkipReason = "no VMs found"
)

// Report mirrors what ProcessAll printed
type Report struct {
	GeneratedAt   time.Time            `json:"generatedAt"`
	Provider      Provider             `json:"provider"`
	Subscriptions []SubscriptionReport `json:"subscriptions"`
}

type SubscriptionReport struct {
	SubscriptionID string     `json:"subscriptionId,omitempty"`
	Name           string     `json:"name,omitempty"`
	Skipped        SkipReason `json:"skipped,omitempty"`
	VMs            []VMReport `json:"vms,omitempty"`
}

type VMReport struct {
	Name          string              `json:"name"`
	ResourceGroup string              `json:"resourceGroup"`
	Maintenance   MaintenanceDetails  `json:"maintenance,omitempty"`
	Summary       *MaintenanceSummary `json:"summary,omitempty"`
}

// MarkedForMaintenance returns the VMs that reported a maintenance status
func (r *Report) MarkedForMaintenance() []VMReport {
	var marked []VMReport
	for _, subscription := range r.Subscriptions {
		for _, vm := range subscription.VMs {
			if vm.Maintenance != nil {
				marked = append(marked, vm)
			}
		}
	}
	return marked
}

func (r *Report) VMCount() int {
	count := 0
	for _, subscription := range r.Subscriptions {
		count += len(subscription.VMs)
	}
	return count
}

func (r *Report) MarshalIndent() ([]byte, error) {
	return json.MarshalIndent(r, "", "    ")
}
