package aggregate

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"shenanigigs/services/analytics/internal/models"
)

func pair(jobID int64, salary *float64, skillID int64) Pair {
	return Pair{
		Posting: models.JobPosting{JobID: jobID, SalaryYearAvg: salary},
		Skill:   models.Skill{SkillID: skillID},
	}
}

func money(v float64) *float64 { return &v }

func TestCountPerSkill(t *testing.T) {
	pairs := []Pair{
		pair(1, nil, 0),
		pair(2, nil, 0),
		pair(2, nil, 1),
		pair(2, nil, 0), // duplicate link row counts again
	}
	assert.Equal(t, map[int64]int{0: 3, 1: 1}, CountPerSkill(pairs))
	assert.Empty(t, CountPerSkill(nil))
}

func TestAverageSalaryPerSkill(t *testing.T) {
	pairs := []Pair{
		pair(1, money(100000), 0),
		pair(2, money(100001), 0),
		pair(3, money(90000), 1),
		pair(4, nil, 1),
		pair(5, nil, 2),
	}
	avgs, err := AverageSalaryPerSkill(pairs)
	require.NoError(t, err)

	// 100000.5 rounds up.
	assert.Equal(t, map[int64]int64{0: 100001, 1: 90000}, avgs)
}

func TestAverageSalaryPerSkill_Empty(t *testing.T) {
	avgs, err := AverageSalaryPerSkill(nil)
	require.NoError(t, err)
	assert.Empty(t, avgs)
}

func TestRoundHalfUp(t *testing.T) {
	tests := map[float64]int64{
		0:        0,
		0.49:     0,
		0.5:      1,
		1.5:      2,
		2.5:      3,
		99999.5:  100000,
		99999.49: 99999,
		-2.5:     -3,
	}
	for in, want := range tests {
		assert.Equal(t, want, RoundHalfUp(in), "RoundHalfUp(%v)", in)
	}
}
