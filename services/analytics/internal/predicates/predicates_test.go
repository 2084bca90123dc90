package predicates

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"shenanigigs/services/analytics/internal/errors"
	"shenanigigs/services/analytics/internal/models"
)

func salary(v float64) *float64 { return &v }

func TestRolePredicates(t *testing.T) {
	analyst := &models.JobPosting{JobTitleShort: "Data Analyst", JobLocation: "Anywhere", SalaryYearAvg: salary(90000)}
	scientist := &models.JobPosting{JobTitleShort: "Data Scientist", JobLocation: "New York, NY", JobWorkFromHome: true}

	assert.True(t, IsDataAnalystRole(analyst))
	assert.False(t, IsDataAnalystRole(scientist))
	assert.True(t, IsFullyRemoteLocation(analyst))
	assert.False(t, IsFullyRemoteLocation(scientist))
	assert.True(t, HasKnownSalary(analyst))
	assert.False(t, HasKnownSalary(scientist))
	assert.False(t, IsRemoteCapable(analyst))
	assert.True(t, IsRemoteCapable(scientist))
}

func TestFullyRemoteIsNotRemoteCapable(t *testing.T) {
	anywhereOnSite := &models.JobPosting{JobLocation: "Anywhere", JobWorkFromHome: false}
	homeInBoston := &models.JobPosting{JobLocation: "Boston, MA", JobWorkFromHome: true}

	assert.True(t, IsFullyRemoteLocation(anywhereOnSite))
	assert.False(t, IsRemoteCapable(anywhereOnSite))
	assert.False(t, IsFullyRemoteLocation(homeInBoston))
	assert.True(t, IsRemoteCapable(homeInBoston))
}

func TestAll(t *testing.T) {
	p := All(IsDataAnalystRole, IsRemoteCapable, HasKnownSalary)

	assert.True(t, p(&models.JobPosting{JobTitleShort: "Data Analyst", JobWorkFromHome: true, SalaryYearAvg: salary(1)}))
	assert.False(t, p(&models.JobPosting{JobTitleShort: "Data Analyst", JobWorkFromHome: true}))
	assert.True(t, All()(&models.JobPosting{}))
}

func TestCoerceWorkFromHome(t *testing.T) {
	truthy := true
	tests := []struct {
		in   any
		want bool
	}{
		{true, true},
		{false, false},
		{&truthy, true},
		{1, true},
		{0, false},
		{int64(1), true},
		{uint8(0), false},
		{uint64(1), true},
		{"1", true},
		{"0", false},
		{"TRUE", true},
		{" false ", false},
		{[]byte("true"), true},
	}
	for _, tt := range tests {
		got, err := CoerceWorkFromHome(tt.in)
		require.NoError(t, err, "input %#v", tt.in)
		assert.Equal(t, tt.want, got, "input %#v", tt.in)
	}
}

func TestCoerceWorkFromHome_Malformed(t *testing.T) {
	var nilBool *bool
	for _, in := range []any{2, int64(-1), uint64(7), "yes", "", "t", 1.0, nil, nilBool} {
		_, err := CoerceWorkFromHome(in)
		require.Error(t, err, "input %#v", in)
		assert.True(t, errors.IsType(err, errors.ErrTypeTypeCoercion))
	}
}
