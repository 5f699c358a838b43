package cloud

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/buger/jsonparser"
)

// MaintenanceDetails is the maintenance redeploy status document as returned by the provider.
// It is passed through as-is.
type MaintenanceDetails json.RawMessage

func (m MaintenanceDetails) MarshalJSON() ([]byte, error) {
	if len(m) == 0 {
		return []byte("null"), nil
	}
	return m, nil
}

func (m *MaintenanceDetails) UnmarshalJSON(data []byte) error {
	*m = append((*m)[0:0], data...)
	return nil
}

// IsEmpty reports whether the document carries no information:
// no data, null, false, 0, an empty string, an empty object or an empty array
func (m MaintenanceDetails) IsEmpty() bool {
	if len(bytes.TrimSpace(m)) == 0 {
		return true
	}

	var v any
	if err := json.Unmarshal(m, &v); err != nil {
		return false
	}

	switch value := v.(type) {
	case nil:
		return true
	case bool:
		return !value
	case float64:
		return value == 0
	case string:
		return value == ""
	case map[string]any:
		return len(value) == 0
	case []any:
		return len(value) == 0
	default:
		return false
	}
}

// Indent re-serializes the document with four space indentation.
// Key order is kept as returned by the provider.
func (m MaintenanceDetails) Indent() string {
	var buf bytes.Buffer
	if err := json.Indent(&buf, m, "", "    "); err != nil {
		return string(m)
	}
	return buf.String()
}

type MaintenanceSummary struct {
	CustomerInitiatedMaintenanceAllowed *bool   `json:"isCustomerInitiatedMaintenanceAllowed,omitempty"`
	PreMaintenanceWindowStartTime       *string `json:"preMaintenanceWindowStartTime,omitempty"`
	PreMaintenanceWindowEndTime         *string `json:"preMaintenanceWindowEndTime,omitempty"`
	MaintenanceWindowStartTime          *string `json:"maintenanceWindowStartTime,omitempty"`
	MaintenanceWindowEndTime            *string `json:"maintenanceWindowEndTime,omitempty"`
	LastOperationResultCode             *string `json:"lastOperationResultCode,omitempty"`
}

// Summary extracts the well-known maintenance fields.
// returns nil if the document contains none of them
func (m MaintenanceDetails) Summary() *MaintenanceSummary {
	var summary MaintenanceSummary
	found := false

	if allowed, err := jsonparser.GetBoolean(m, "isCustomerInitiatedMaintenanceAllowed"); err == nil {
		summary.CustomerInitiatedMaintenanceAllowed = &allowed
		found = true
	}

	stringFields := []struct {
		key    string
		target **string
	}{
		{"preMaintenanceWindowStartTime", &summary.PreMaintenanceWindowStartTime},
		{"preMaintenanceWindowEndTime", &summary.PreMaintenanceWindowEndTime},
		{"maintenanceWindowStartTime", &summary.MaintenanceWindowStartTime},
		{"maintenanceWindowEndTime", &summary.MaintenanceWindowEndTime},
		{"lastOperationResultCode", &summary.LastOperationResultCode},
	}
	for _, field := range stringFields {
		value, err := jsonparser.GetString(m, field.key)
		if err != nil || value == "" {
			continue
		}
		*field.target = &value
		found = true
	}

	if !found {
		return nil
	}
	return &summary
}

func (s MaintenanceSummary) String() string {
	var parts []string
	if s.CustomerInitiatedMaintenanceAllowed != nil {
		allowed := "no"
		if *s.CustomerInitiatedMaintenanceAllowed {
			allowed = "yes"
		}
		parts = append(parts, "self-service redeploy allowed: "+allowed)
	}
	if window := formatWindow(s.PreMaintenanceWindowStartTime, s.PreMaintenanceWindowEndTime); window != "" {
		parts = append(parts, "self-service window: "+window)
	}
	if window := formatWindow(s.MaintenanceWindowStartTime, s.MaintenanceWindowEndTime); window != "" {
		parts = append(parts, "scheduled window: "+window)
	}
	if s.LastOperationResultCode != nil {
		parts = append(parts, "last operation: "+*s.LastOperationResultCode)
	}
	return strings.Join(parts, "; ")
}

func formatWindow(start, end *string) string {
	switch {
	case start == nil && end == nil:
		return ""
	case start == nil:
		return fmt.Sprintf("until %s", *end)
	case end == nil:
		return fmt.Sprintf("from %s", *start)
	default:
		return fmt.Sprintf("%s - %s", *start, *end)
	}
}
