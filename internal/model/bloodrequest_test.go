package model

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNeedsJustification(t *testing.T) {
	long := strings.Repeat("a", 50)
	short := strings.Repeat("a", 49)

	cases := []struct {
		name          string
		requestType   RequestType
		justification string
		want          bool
	}{
		{"normal never needs one", RequestNormal, "", false},
		{"normal with short text", RequestNormal, short, false},
		{"emergency empty", RequestEmergency, "", true},
		{"emergency too short", RequestEmergency, short, true},
		{"emergency long enough", RequestEmergency, long, false},
		{"disaster too short", RequestDisaster, short, true},
		{"disaster long enough", RequestDisaster, long, false},
		{"whitespace does not count", RequestEmergency, short + strings.Repeat(" ", 10), true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := &CreateBloodRequestRequest{
				RequestType:            tc.requestType,
				EmergencyJustification: tc.justification,
			}
			assert.Equal(t, tc.want, req.NeedsJustification())
		})
	}
}

func TestRequiresAdminApproval(t *testing.T) {
	assert.False(t, (&BloodRequest{RequestType: RequestNormal}).RequiresAdminApproval())
	assert.True(t, (&BloodRequest{RequestType: RequestEmergency}).RequiresAdminApproval())
	assert.True(t, (&BloodRequest{RequestType: RequestDisaster}).RequiresAdminApproval())
}
