package azure

import (
	"context"
	"fmt"
	"io"

	"github.com/Azure/azure-sdk-for-go/sdk/azcore"
	"github.com/Azure/azure-sdk-for-go/sdk/azcore/arm"
	"github.com/Azure/azure-sdk-for-go/sdk/resourcemanager/compute/armcompute/v5"
	"github.com/friendsofgo/errors"
	"github.com/schollz/progressbar/v3"
	"github.com/schoolyear/vm-maintenance-cli/cloud"
)

// ComputeLister lists virtual machines through the Azure Resource Manager compute API
type ComputeLister struct {
	credential    azcore.TokenCredential
	clientOptions *arm.ClientOptions
	progress      io.Writer
}

type ComputeListerOptions struct {
	// ClientOptions are passed to the armcompute client, nil for defaults
	ClientOptions *arm.ClientOptions

	// Progress receives a spinner while listing, nil to disable
	Progress io.Writer
}

func NewComputeLister(credential azcore.TokenCredential, options *ComputeListerOptions) *ComputeLister {
	lister := &ComputeLister{credential: credential}
	if options != nil {
		lister.clientOptions = options.ClientOptions
		lister.progress = options.Progress
	}
	return lister
}

func (l *ComputeLister) ListVMs(ctx context.Context, subscriptionID string) ([]cloud.VM, error) {
	client, err := armcompute.NewVirtualMachinesClient(subscriptionID, l.credential, l.clientOptions)
	if err != nil {
		return nil, errors.Wrap(err, "failed to initialize Azure SDK")
	}

	bar := l.newSpinner(fmt.Sprintf("Listing VMs in %s", subscriptionID))
	defer bar.Finish()

	var vms []cloud.VM
	pager := client.NewListAllPager(nil)
	for pager.More() {
		page, err := pager.NextPage(ctx)
		if err != nil {
			return nil, errors.Wrap(err, "failed to list virtual machines")
		}

		for _, vm := range page.Value {
			parsed, err := vmFromResource(vm)
			if err != nil {
				return nil, err
			}
			vms = append(vms, parsed)
			_ = bar.Add(1)
		}
	}

	return vms, nil
}

func (l *ComputeLister) newSpinner(description string) *progressbar.ProgressBar {
	writer := l.progress
	if writer == nil {
		writer = io.Discard
	}
	return progressbar.NewOptions(-1,
		progressbar.OptionSetWriter(writer),
		progressbar.OptionSetDescription(description),
		progressbar.OptionSpinnerType(14),
		progressbar.OptionShowCount(),
		progressbar.OptionClearOnFinish(),
	)
}

// vmFromResource takes the resource group from the VM's resource ID,
// e.g. /subscriptions/<id>/resourceGroups/<rg>/providers/Microsoft.Compute/virtualMachines/<name>
func vmFromResource(vm *armcompute.VirtualMachine) (cloud.VM, error) {
	if vm == nil || vm.ID == nil {
		return cloud.VM{}, errors.New("virtual machine without a resource ID")
	}

	resourceID, err := arm.ParseResourceID(*vm.ID)
	if err != nil {
		return cloud.VM{}, errors.Wrapf(err, "failed to parse resource ID %s", *vm.ID)
	}

	if resourceID.ResourceGroupName == "" {
		return cloud.VM{}, errors.Errorf("resource ID %s does not contain a resource group", *vm.ID)
	}

	name := resourceID.Name
	if vm.Name != nil {
		name = *vm.Name
	}

	return cloud.VM{
		Name:          name,
		ResourceGroup: resourceID.ResourceGroupName,
	}, nil
}
