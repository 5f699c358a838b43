package cloud

import (
	"context"
	"testing"

	"github.com/schoolyear/vm-maintenance-cli/inventory"
	"github.com/stretchr/testify/require"
)

func TestParseProvider(t *testing.T) {
	testCases := []struct {
		input    string
		provider Provider
		valid    bool
	}{
		{input: "azure", provider: ProviderAzure, valid: true},
		{input: "Azure", provider: ProviderAzure, valid: true},
		{input: " azure ", provider: ProviderAzure, valid: true},
		{input: "aws", valid: false},
		{input: "gcp", valid: false},
		{input: "", valid: false},
	}

	for _, tc := range testCases {
		provider, err := ParseProvider(tc.input)
		if tc.valid {
			require.NoError(t, err)
			require.Equal(t, tc.provider, provider)
		} else {
			require.ErrorIs(t, err, ErrUnsupportedProvider)
		}
	}
}

func TestSelect(t *testing.T) {
	inv, err := inventory.Parse([]byte("azure:\n  - subscription_id: sub-1\n  - subscription_id: sub-2\naws:\n  - subscription_id: account-1\n"))
	require.NoError(t, err)
	fake := &fakeBackend{}

	client, err := Select(ProviderAzure, inv, fake.backend())
	require.NoError(t, err)
	require.Equal(t, []inventory.Subscription{{SubscriptionID: "sub-1"}, {SubscriptionID: "sub-2"}}, client.Subscriptions())

	_, err = Select(Provider("aws"), inv, fake.backend())
	require.ErrorIs(t, err, ErrUnsupportedProvider)

	_, err = Select(ProviderAzure, inv, Backend{})
	require.Error(t, err)
}

func TestSelect_MissingProviderSection(t *testing.T) {
	inv, err := inventory.Parse([]byte("aws:\n  region: eu-west-1\n"))
	require.NoError(t, err)

	fake := &fakeBackend{}
	client, err := Select(ProviderAzure, inv, fake.backend())
	require.NoError(t, err)
	require.Empty(t, client.Subscriptions())

	report := client.ProcessAll(context.Background())
	require.Empty(t, report.Subscriptions)
	require.Empty(t, fake.calls)
}

func TestSelect_WrongShapeProviderSection(t *testing.T) {
	inv, err := inventory.Parse([]byte("azure:\n  subscription_id: sub-1\n"))
	require.NoError(t, err)

	fake := &fakeBackend{}
	client, err := Select(ProviderAzure, inv, fake.backend())
	require.Error(t, err)
	require.Nil(t, client)
}
