// Package aggregate groups joined (posting, skill) pairs by skill and computes
// demand counts and average salaries.
package aggregate

import (
	"fmt"
	"math"

	"shenanigigs/services/analytics/internal/errors"
	"shenanigigs/services/analytics/internal/models"
)

// Pair is one row of postings joined with skills through the job-skill link.
type Pair struct {
	Posting models.JobPosting
	Skill   models.Skill
}

// CountPerSkill counts pair rows per skill_id. A job linked to the same skill
// twice is counted twice, as a SQL join would.
func CountPerSkill(pairs []Pair) map[int64]int {
	counts := make(map[int64]int)
	for _, p := range pairs {
		counts[p.Skill.SkillID]++
	}
	return counts
}

// AverageSalaryPerSkill returns the mean salary_year_avg per skill_id, rounded
// half up. Pairs without a salary are ignored.
func AverageSalaryPerSkill(pairs []Pair) (map[int64]int64, error) {
	type acc struct {
		sum float64
		n   int
	}
	groups := make(map[int64]*acc)
	for _, p := range pairs {
		if p.Posting.SalaryYearAvg == nil {
			continue
		}
		g, ok := groups[p.Skill.SkillID]
		if !ok {
			g = &acc{}
			groups[p.Skill.SkillID] = g
		}
		g.sum += *p.Posting.SalaryYearAvg
		g.n++
	}

	avgs := make(map[int64]int64, len(groups))
	for skillID, g := range groups {
		if g.n == 0 {
			return nil, errors.EmptyGroup(fmt.Sprintf("no salaries for skill_id %d", skillID), nil)
		}
		avgs[skillID] = RoundHalfUp(g.sum / float64(g.n))
	}
	return avgs, nil
}

// RoundHalfUp rounds to the nearest integer, ties away from zero.
func RoundHalfUp(x float64) int64 {
	if x < 0 {
		return -int64(math.Floor(-x + 0.5))
	}
	return int64(math.Floor(x + 0.5))
}
