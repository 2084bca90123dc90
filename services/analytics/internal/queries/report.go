package queries

import (
	"fmt"

	"shenanigigs/services/analytics/internal/errors"
	"shenanigigs/services/analytics/internal/relations"
)

type Report string

const (
	ReportTopPayingJobs      Report = "top-paying-jobs"
	ReportTopPayingJobSkills Report = "top-paying-job-skills"
	ReportTopDemandedSkills  Report = "top-demanded-skills"
	ReportTopPayingSkills    Report = "top-paying-skills"
	ReportOptimalSkills      Report = "optimal-skills"
)

// AllReports is the canonical report order.
var AllReports = []Report{
	ReportTopPayingJobs,
	ReportTopPayingJobSkills,
	ReportTopDemandedSkills,
	ReportTopPayingSkills,
	ReportOptimalSkills,
}

var descriptions = map[Report]string{
	ReportTopPayingJobs:      "Top paying remote Data Analyst jobs",
	ReportTopPayingJobSkills: "Skills required by the top paying Data Analyst jobs",
	ReportTopDemandedSkills:  "Most in-demand skills for remote Data Analysts",
	ReportTopPayingSkills:    "Highest paying skills for remote Data Analysts",
	ReportOptimalSkills:      "Skills with both high demand and high salary",
}

func (r Report) Description() string {
	return descriptions[r]
}

// Index is the position of r in AllReports, or -1.
func (r Report) Index() int {
	for i, known := range AllReports {
		if known == r {
			return i
		}
	}
	return -1
}

func ParseReport(name string) (Report, error) {
	r := Report(name)
	if r.Index() < 0 {
		return "", errors.InvalidInput(fmt.Sprintf("unknown report %q", name), nil)
	}
	return r, nil
}

// Run executes r against s. The returned value is the report's row slice,
// e.g. []models.SkillDemand for ReportTopDemandedSkills.
func Run(s *relations.Store, r Report) (any, error) {
	switch r {
	case ReportTopPayingJobs:
		return TopPayingRoles(s), nil
	case ReportTopPayingJobSkills:
		return TopPayingRoleSkills(s)
	case ReportTopDemandedSkills:
		return TopDemandedSkills(s)
	case ReportTopPayingSkills:
		return TopPayingSkills(s)
	case ReportOptimalSkills:
		return OptimalSkills(s)
	}
	return nil, errors.InvalidInput(fmt.Sprintf("unknown report %q", r), nil)
}
