// Package queries implements the five job market reports over a relations
// snapshot. Each function is pure and deterministic: ties on the sort key are
// broken by ascending job_id and then skill_id.
package queries

import (
	"cmp"
	"fmt"
	"slices"

	"shenanigigs/services/analytics/internal/aggregate"
	"shenanigigs/services/analytics/internal/errors"
	"shenanigigs/services/analytics/internal/models"
	"shenanigigs/services/analytics/internal/predicates"
	"shenanigigs/services/analytics/internal/relations"
)

const (
	TopPayingRolesLimit    = 10
	TopDemandedSkillsLimit = 5
	TopPayingSkillsLimit   = 25
	OptimalSkillsLimit     = 25

	// OptimalSkillsMinDemand is exclusive: a skill needs strictly more
	// postings than this to qualify.
	OptimalSkillsMinDemand = 10
)

var (
	topPayingFilter = predicates.All(
		predicates.IsDataAnalystRole,
		predicates.IsFullyRemoteLocation,
		predicates.HasKnownSalary,
	)
	remoteDemandFilter = predicates.All(
		predicates.IsDataAnalystRole,
		predicates.IsRemoteCapable,
	)
	remoteSalaryFilter = predicates.All(
		predicates.IsDataAnalystRole,
		predicates.IsRemoteCapable,
		predicates.HasKnownSalary,
	)
)

// TopPayingRoles returns the highest paid Data Analyst postings located
// "Anywhere", at most TopPayingRolesLimit of them. Postings whose company is
// missing keep a nil CompanyName.
func TopPayingRoles(s *relations.Store) []models.TopPayingRole {
	top := topPayingPostings(s)

	rows := make([]models.TopPayingRole, 0, len(top))
	for _, p := range top {
		rows = append(rows, models.TopPayingRole{
			JobID:           p.JobID,
			JobTitle:        p.JobTitle,
			JobLocation:     p.JobLocation,
			JobScheduleType: p.JobScheduleType,
			SalaryYearAvg:   *p.SalaryYearAvg,
			JobPostedDate:   p.JobPostedDate,
			CompanyName:     companyName(s, p),
		})
	}
	return rows
}

// TopPayingRoleSkills lists one row per (job, skill) link for the postings
// returned by TopPayingRoles.
func TopPayingRoleSkills(s *relations.Store) ([]models.RoleSkill, error) {
	pairs, err := joinSkills(s, topPayingPostings(s))
	if err != nil {
		return nil, err
	}

	rows := make([]models.RoleSkill, 0, len(pairs))
	for _, pr := range pairs {
		rows = append(rows, models.RoleSkill{
			JobID:         pr.Posting.JobID,
			JobTitle:      pr.Posting.JobTitle,
			SalaryYearAvg: *pr.Posting.SalaryYearAvg,
			CompanyName:   companyName(s, pr.Posting),
			SkillID:       pr.Skill.SkillID,
			Skills:        pr.Skill.Skills,
		})
	}
	slices.SortStableFunc(rows, func(a, b models.RoleSkill) int {
		return cmp.Or(
			cmp.Compare(b.SalaryYearAvg, a.SalaryYearAvg),
			cmp.Compare(a.JobID, b.JobID),
			cmp.Compare(a.SkillID, b.SkillID),
		)
	})
	return rows, nil
}

// TopDemandedSkills counts skill mentions across remote-capable Data Analyst
// postings and returns the TopDemandedSkillsLimit most demanded.
func TopDemandedSkills(s *relations.Store) ([]models.SkillDemand, error) {
	pairs, err := joinSkills(s, s.Select(remoteDemandFilter))
	if err != nil {
		return nil, err
	}

	counts := aggregate.CountPerSkill(pairs)
	rows := make([]models.SkillDemand, 0, len(counts))
	for skillID, n := range counts {
		sk, _ := s.Skill(skillID)
		rows = append(rows, models.SkillDemand{SkillID: skillID, Skills: sk.Skills, DemandCount: n})
	}
	slices.SortFunc(rows, func(a, b models.SkillDemand) int {
		return cmp.Or(
			cmp.Compare(b.DemandCount, a.DemandCount),
			cmp.Compare(a.SkillID, b.SkillID),
		)
	})
	return limit(rows, TopDemandedSkillsLimit), nil
}

// TopPayingSkills averages the salary of remote-capable Data Analyst
// postings per skill and returns the TopPayingSkillsLimit best paid.
func TopPayingSkills(s *relations.Store) ([]models.SkillSalary, error) {
	pairs, err := joinSkills(s, s.Select(remoteSalaryFilter))
	if err != nil {
		return nil, err
	}

	avgs, err := aggregate.AverageSalaryPerSkill(pairs)
	if err != nil {
		return nil, err
	}
	rows := make([]models.SkillSalary, 0, len(avgs))
	for skillID, avg := range avgs {
		sk, _ := s.Skill(skillID)
		rows = append(rows, models.SkillSalary{SkillID: skillID, Skills: sk.Skills, AvgSalary: avg})
	}
	slices.SortFunc(rows, func(a, b models.SkillSalary) int {
		return cmp.Or(
			cmp.Compare(b.AvgSalary, a.AvgSalary),
			cmp.Compare(a.SkillID, b.SkillID),
		)
	})
	return limit(rows, TopPayingSkillsLimit), nil
}

// OptimalSkills combines demand and average salary for remote-capable Data
// Analyst postings with a known salary. Only skills demanded more than
// OptimalSkillsMinDemand times are kept.
func OptimalSkills(s *relations.Store) ([]models.OptimalSkill, error) {
	pairs, err := joinSkills(s, s.Select(remoteSalaryFilter))
	if err != nil {
		return nil, err
	}

	demand := aggregate.CountPerSkill(pairs)
	avgs, err := aggregate.AverageSalaryPerSkill(pairs)
	if err != nil {
		return nil, err
	}

	rows := []models.OptimalSkill{}
	for skillID, n := range demand {
		avg, ok := avgs[skillID]
		if !ok || n <= OptimalSkillsMinDemand {
			continue
		}
		sk, _ := s.Skill(skillID)
		rows = append(rows, models.OptimalSkill{
			SkillID:     skillID,
			Skills:      sk.Skills,
			DemandCount: n,
			AvgSalary:   avg,
		})
	}
	slices.SortFunc(rows, func(a, b models.OptimalSkill) int {
		return cmp.Or(
			cmp.Compare(b.DemandCount, a.DemandCount),
			cmp.Compare(b.AvgSalary, a.AvgSalary),
			cmp.Compare(a.SkillID, b.SkillID),
		)
	})
	return limit(rows, OptimalSkillsLimit), nil
}

func topPayingPostings(s *relations.Store) []models.JobPosting {
	postings := s.Select(topPayingFilter)
	slices.SortFunc(postings, func(a, b models.JobPosting) int {
		return cmp.Or(
			cmp.Compare(*b.SalaryYearAvg, *a.SalaryYearAvg),
			cmp.Compare(a.JobID, b.JobID),
		)
	})
	return limit(postings, TopPayingRolesLimit)
}

// joinSkills is the inner join postings ⋈ skills_job ⋈ skills.
func joinSkills(s *relations.Store, postings []models.JobPosting) ([]aggregate.Pair, error) {
	pairs := []aggregate.Pair{}
	for _, p := range postings {
		for _, skillID := range s.SkillIDsOf(p.JobID) {
			sk, ok := s.Skill(skillID)
			if !ok {
				return nil, errors.SchemaViolation(fmt.Sprintf("job_id %d links unknown skill_id %d", p.JobID, skillID), nil)
			}
			pairs = append(pairs, aggregate.Pair{Posting: p, Skill: sk})
		}
	}
	return pairs, nil
}

func companyName(s *relations.Store, p models.JobPosting) *string {
	if p.CompanyID == nil {
		return nil
	}
	c, ok := s.Company(*p.CompanyID)
	if !ok {
		return nil
	}
	name := c.Name
	return &name
}

func limit[T any](rows []T, n int) []T {
	if len(rows) > n {
		return rows[:n]
	}
	return rows
}
