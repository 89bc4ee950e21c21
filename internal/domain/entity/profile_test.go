package entity

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestProfile_DisplayName(t *testing.T) {
	tests := []struct {
		name    string
		profile *Profile
		want    string
	}{
		{
			name:    "full name wins",
			profile: &Profile{FullName: "Aziza Karimova", FirstName: "Aziza"},
			want:    "Aziza Karimova",
		},
		{
			name:    "first name when full name empty",
			profile: &Profile{FirstName: "Aziza"},
			want:    "Aziza",
		},
		{
			name:    "whitespace-only names fall through",
			profile: &Profile{FullName: "  ", FirstName: " "},
			want:    "aziza@example.com",
		},
		{
			name:    "nil profile falls back",
			profile: nil,
			want:    "aziza@example.com",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.profile.DisplayName("aziza@example.com"))
		})
	}
}

func TestRole_IsValid(t *testing.T) {
	for _, role := range []Role{RoleOwner, RoleTeacher, RoleStudent, RoleParent} {
		assert.True(t, role.IsValid(), role)
	}
	assert.False(t, Role("admin").IsValid())
	assert.False(t, Role("").IsValid())
}

func TestStatusFromString(t *testing.T) {
	status, ok := StatusFromString("approved")
	assert.True(t, ok)
	assert.Equal(t, StatusApproved, status)

	_, ok = StatusFromString("blocked")
	assert.False(t, ok)
}

func TestEnrichedSession_Approved(t *testing.T) {
	assert.True(t, (&EnrichedSession{Role: RoleOwner, Status: StatusRejected}).Approved())
	assert.True(t, (&EnrichedSession{Role: RoleTeacher, Status: StatusApproved}).Approved())
	assert.False(t, (&EnrichedSession{Role: RoleTeacher, Status: StatusPending}).Approved())
	assert.False(t, (&EnrichedSession{Role: RoleStudent, Status: StatusRejected}).Approved())

	var nilSession *EnrichedSession
	assert.False(t, nilSession.Approved())
}
