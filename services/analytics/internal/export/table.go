package export

import (
	"fmt"

	"shenanigigs/services/analytics/internal/errors"
	"shenanigigs/services/analytics/internal/models"
	"shenanigigs/services/analytics/internal/processor"
)

type table struct {
	header []string
	rows   [][]any
}

func tableOf(res processor.Result) (table, error) {
	switch rows := res.Rows.(type) {
	case []models.TopPayingRole:
		t := table{header: []string{"job_id", "job_title", "job_location", "job_schedule_type", "salary_year_avg", "job_posted_date", "company_name"}}
		for _, r := range rows {
			t.rows = append(t.rows, []any{r.JobID, r.JobTitle, r.JobLocation, r.JobScheduleType, r.SalaryYearAvg, r.JobPostedDate, r.CompanyName})
		}
		return t, nil
	case []models.RoleSkill:
		t := table{header: []string{"job_id", "job_title", "salary_year_avg", "company_name", "skill_id", "skills"}}
		for _, r := range rows {
			t.rows = append(t.rows, []any{r.JobID, r.JobTitle, r.SalaryYearAvg, r.CompanyName, r.SkillID, r.Skills})
		}
		return t, nil
	case []models.SkillDemand:
		t := table{header: []string{"skill_id", "skills", "demand_count"}}
		for _, r := range rows {
			t.rows = append(t.rows, []any{r.SkillID, r.Skills, r.DemandCount})
		}
		return t, nil
	case []models.SkillSalary:
		t := table{header: []string{"skill_id", "skills", "avg_salary"}}
		for _, r := range rows {
			t.rows = append(t.rows, []any{r.SkillID, r.Skills, r.AvgSalary})
		}
		return t, nil
	case []models.OptimalSkill:
		t := table{header: []string{"skill_id", "skills", "demand_count", "avg_salary"}}
		for _, r := range rows {
			t.rows = append(t.rows, []any{r.SkillID, r.Skills, r.DemandCount, r.AvgSalary})
		}
		return t, nil
	default:
		return table{}, errors.Internal(fmt.Sprintf("report %s has unsupported rows %T", res.Report, res.Rows), nil)
	}
}
