package cloud

import (
	"context"
	"strings"

	"github.com/friendsofgo/errors"
	"github.com/schoolyear/vm-maintenance-cli/inventory"
)

type Provider string

const (
	ProviderAzure Provider = "azure"
)

var SupportedProviders = []Provider{ProviderAzure}

var ErrUnsupportedProvider = errors.New("unsupported cloud provider")

func ParseProvider(name string) (Provider, error) {
	provider := Provider(strings.ToLower(strings.TrimSpace(name)))
	switch provider {
	case ProviderAzure:
		return provider, nil
	default:
		return "", errors.Wrapf(ErrUnsupportedProvider, "%q (supported: %s)", name, SupportedProviderNames())
	}
}

// SupportedProviderNames returns the supported providers as a comma separated list
func SupportedProviderNames() string {
	names := make([]string, len(SupportedProviders))
	for i, provider := range SupportedProviders {
		names[i] = string(provider)
	}
	return strings.Join(names, ", ")
}

// VM is a virtual machine found in a subscription
type VM struct {
	Name          string
	ResourceGroup string
}

type VMLister interface {
	ListVMs(ctx context.Context, subscriptionID string) ([]VM, error)
}

// MaintenanceFetcher fetches the maintenance redeploy status of a single VM.
// A nil document without an error means the provider reported nothing.
type MaintenanceFetcher interface {
	FetchMaintenanceStatus(ctx context.Context, subscriptionID, resourceGroup, vmName string) (MaintenanceDetails, error)
}

// Backend is the provider specific implementation used by the Client
type Backend struct {
	Lister  VMLister
	Fetcher MaintenanceFetcher

	// SubscriptionNames is optional and only used to label output
	SubscriptionNames map[string]string
}

// Select creates the client for the provider's section of the inventory
func Select(provider Provider, inv inventory.Inventory, backend Backend, opts ...Option) (*Client, error) {
	switch provider {
	case ProviderAzure:
		if backend.Lister == nil || backend.Fetcher == nil {
			return nil, errors.Errorf("%s backend is not configured", provider)
		}
		subscriptions, err := inv.Subscriptions(string(provider))
		if err != nil {
			return nil, err
		}
		return NewClient(provider, subscriptions, backend, opts...), nil
	default:
		return nil, errors.Wrapf(ErrUnsupportedProvider, "%q", provider)
	}
}
