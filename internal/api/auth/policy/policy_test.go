package policy

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCan_AdminCanDoEverything(t *testing.T) {
	for _, action := range Actions() {
		assert.True(t, Can(RoleAdmin, action), action)
	}
}

func TestCan_UnknownRoleOrActionDenied(t *testing.T) {
	assert.False(t, Can("guest", ActIdeaReview))
	assert.False(t, Can(RoleAdmin, "Idea.Delete"))
	assert.False(t, Can("", ""))
}

func TestCan_Table(t *testing.T) {
	cases := []struct {
		role   string
		action string
		want   bool
	}{
		{RoleInnovationManager, ActIdeaReview, true},
		{RoleEmployee, ActIdeaReview, false},
		{RoleMarketing, ActIdeaMarketing, true},
		{RoleHR, ActTrainingManage, true},
		{RoleEmployee, ActTrainingManage, false},
		{RoleHR, ActTrainingStats, true},
		{RoleMarketing, ActCampaignManage, true},
		{RoleITSupport, ActCampaignManage, false},
		{RoleITSupport, ActSupportManage, true},
		{RoleITSupport, ActSystemUpdate, true},
		{RoleHR, ActActivityViewAny, true},
		{RoleEmployee, ActActivityViewAny, false},
		{RoleHR, ActUserManage, false},
		{RoleAdmin, ActUserManage, true},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, Can(tc.role, tc.action), "%s/%s", tc.role, tc.action)
	}
}

func TestCan_Deterministic(t *testing.T) {
	for _, role := range Roles() {
		for _, action := range Actions() {
			first := Can(role, action)
			for i := 0; i < 5; i++ {
				assert.Equal(t, first, Can(role, action))
			}
		}
	}
}

func TestCanActOn(t *testing.T) {
	assert.True(t, CanActOn(RoleEmployee, "u1", "u1", ActActivityViewAny))
	assert.False(t, CanActOn(RoleEmployee, "u1", "u2", ActActivityViewAny))
	assert.True(t, CanActOn(RoleHR, "u1", "u2", ActActivityViewAny))
	assert.False(t, CanActOn(RoleEmployee, "", "", ActActivityViewAny))
}
