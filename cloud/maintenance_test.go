package cloud

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestMaintenanceDetails_IsEmpty(t *testing.T) {
	testCases := []struct {
		document string
		empty    bool
	}{
		{document: "", empty: true},
		{document: "  \n", empty: true},
		{document: "null", empty: true},
		{document: "{}", empty: true},
		{document: "[]", empty: true},
		{document: `""`, empty: true},
		{document: "false", empty: true},
		{document: "0", empty: true},
		{document: "true", empty: false},
		{document: `"Pending"`, empty: false},
		{document: `{"isCustomerInitiatedMaintenanceAllowed": false}`, empty: false},
		{document: `[{}]`, empty: false},
	}

	for _, tc := range testCases {
		require.Equal(t, tc.empty, MaintenanceDetails(tc.document).IsEmpty(), tc.document)
	}
}

func TestMaintenanceDetails_IndentKeepsKeyOrder(t *testing.T) {
	details := MaintenanceDetails(`{"z":1,"a":{"b":[1,2]}}`)
	require.Equal(t, "{\n    \"z\": 1,\n    \"a\": {\n        \"b\": [\n            1,\n            2\n        ]\n    }\n}", details.Indent())
}

func TestMaintenanceDetails_Summary(t *testing.T) {
	require.Nil(t, MaintenanceDetails(`{"unrelated": true}`).Summary())
	require.Nil(t, MaintenanceDetails(`"text"`).Summary())

	summary := MaintenanceDetails(`{
		"isCustomerInitiatedMaintenanceAllowed": false,
		"maintenanceWindowStartTime": "2024-05-20T00:00:00Z",
		"maintenanceWindowEndTime": "2024-05-21T00:00:00Z",
		"preMaintenanceWindowEndTime": "2024-05-19T00:00:00Z"
	}`).Summary()
	require.NotNil(t, summary)
	require.False(t, *summary.CustomerInitiatedMaintenanceAllowed)
	require.Nil(t, summary.PreMaintenanceWindowStartTime)
	require.Nil(t, summary.LastOperationResultCode)
	require.Equal(t, "self-service redeploy allowed: no; self-service window: until 2024-05-19T00:00:00Z; scheduled window: 2024-05-20T00:00:00Z - 2024-05-21T00:00:00Z", summary.String())
}
