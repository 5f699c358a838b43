package azure

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseBlobURI(t *testing.T) {
	testCases := []struct {
		uri      string
		valid    bool
		expected StorageAccountBlob
	}{
		{
			uri:      "https://account.blob.core.windows.net/reports",
			valid:    true,
			expected: StorageAccountBlob{Service: "account.blob.core.windows.net", Container: "reports", Path: "report.json"},
		},
		{
			uri:      "https://account.blob.core.windows.net/reports/",
			valid:    true,
			expected: StorageAccountBlob{Service: "account.blob.core.windows.net", Container: "reports", Path: "report.json"},
		},
		{
			uri:      "https://account.blob.core.windows.net/reports/maintenance/latest.json",
			valid:    true,
			expected: StorageAccountBlob{Service: "account.blob.core.windows.net", Container: "reports", Path: "maintenance/latest.json"},
		},
		{
			uri:      "https://account.blob.core.windows.net/reports/maintenance/",
			valid:    true,
			expected: StorageAccountBlob{Service: "account.blob.core.windows.net", Container: "reports", Path: "maintenance/report.json"},
		},
		{uri: "https://account.blob.core.windows.net", valid: false},
		{uri: "https://account.blob.core.windows.net/", valid: false},
		{uri: "http://account.blob.core.windows.net/reports", valid: false},
		{uri: "reports/latest.json", valid: false},
	}

	for _, tc := range testCases {
		blob, err := ParseBlobURI(tc.uri, "report.json")
		if tc.valid {
			require.NoError(t, err, tc.uri)
			require.Equal(t, tc.expected, *blob)
		} else {
			require.Error(t, err, tc.uri)
		}
	}
}

func TestStorageAccountBlob_URL(t *testing.T) {
	blob := StorageAccountBlob{Service: "account.blob.core.windows.net", Container: "reports", Path: "a/b.json"}
	require.Equal(t, "https://account.blob.core.windows.net/reports/a/b.json", blob.URL())
}

func TestParseBlobURI_ErrorsCarryStack(t *testing.T) {
	for _, uri := range []string{
		"http://account.blob.core.windows.net/reports",
		"https://account.blob.core.windows.net/",
	} {
		_, err := ParseBlobURI(uri, "report.json")
		require.Error(t, err, uri)
		require.Contains(t, fmt.Sprintf("%+v", err), "azure.ParseBlobURI", uri)
	}
}
