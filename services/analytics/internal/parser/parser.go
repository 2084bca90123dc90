package parser

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"shenanigigs/services/analytics/internal/errors"
	"shenanigigs/services/analytics/internal/models"
	"shenanigigs/services/analytics/internal/predicates"
)

// RawJobPosting is a job_postings_fact row as scanned from a source, before
// the posted date and work-from-home flag are normalized.
type RawJobPosting struct {
	JobID           int64
	JobTitle        string
	JobTitleShort   string
	JobLocation     string
	JobScheduleType string
	SalaryYearAvg   *float64
	JobPostedDate   string
	JobWorkFromHome any
	CompanyID       *int64
}

// Record is one CSV row keyed by header name.
type Record map[string]string

var timestampLayouts = []string{
	"2006-01-02 15:04:05",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02 15:04:05.999999999-07:00",
	"2006-01-02 15:04:05-07",
	"2006-01-02 15:04:05Z07:00",
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02",
}

func ParseJobPosting(raw RawJobPosting) (models.JobPosting, error) {
	postedAt, err := ParseTimestamp(raw.JobPostedDate)
	if err != nil {
		return models.JobPosting{}, fmt.Errorf("job_id %d: %w", raw.JobID, err)
	}

	wfh, err := predicates.CoerceWorkFromHome(raw.JobWorkFromHome)
	if err != nil {
		return models.JobPosting{}, fmt.Errorf("job_id %d: %w", raw.JobID, err)
	}

	return models.JobPosting{
		JobID:           raw.JobID,
		JobTitle:        raw.JobTitle,
		JobTitleShort:   raw.JobTitleShort,
		JobLocation:     raw.JobLocation,
		JobScheduleType: raw.JobScheduleType,
		SalaryYearAvg:   raw.SalaryYearAvg,
		JobPostedDate:   postedAt,
		JobWorkFromHome: wfh,
		CompanyID:       raw.CompanyID,
	}, nil
}

func JobPostingFromRecord(rec Record) (models.JobPosting, error) {
	jobID, err := ParseInt(rec["job_id"])
	if err != nil {
		return models.JobPosting{}, fmt.Errorf("job_id: %w", err)
	}
	salary, err := ParseNullableFloat(rec["salary_year_avg"])
	if err != nil {
		return models.JobPosting{}, fmt.Errorf("job_id %d: salary_year_avg: %w", jobID, err)
	}
	companyID, err := ParseNullableInt(rec["company_id"])
	if err != nil {
		return models.JobPosting{}, fmt.Errorf("job_id %d: company_id: %w", jobID, err)
	}

	return ParseJobPosting(RawJobPosting{
		JobID:           jobID,
		JobTitle:        rec["job_title"],
		JobTitleShort:   rec["job_title_short"],
		JobLocation:     rec["job_location"],
		JobScheduleType: rec["job_schedule_type"],
		SalaryYearAvg:   salary,
		JobPostedDate:   rec["job_posted_date"],
		JobWorkFromHome: rec["job_work_from_home"],
		CompanyID:       companyID,
	})
}

func CompanyFromRecord(rec Record) (models.Company, error) {
	id, err := ParseInt(rec["company_id"])
	if err != nil {
		return models.Company{}, fmt.Errorf("company_id: %w", err)
	}
	return models.Company{CompanyID: id, Name: rec["name"]}, nil
}

func SkillFromRecord(rec Record) (models.Skill, error) {
	id, err := ParseInt(rec["skill_id"])
	if err != nil {
		return models.Skill{}, fmt.Errorf("skill_id: %w", err)
	}
	return models.Skill{SkillID: id, Skills: rec["skills"]}, nil
}

func LinkFromRecord(rec Record) (models.JobSkillLink, error) {
	jobID, err := ParseInt(rec["job_id"])
	if err != nil {
		return models.JobSkillLink{}, fmt.Errorf("job_id: %w", err)
	}
	skillID, err := ParseInt(rec["skill_id"])
	if err != nil {
		return models.JobSkillLink{}, fmt.Errorf("skill_id: %w", err)
	}
	return models.JobSkillLink{JobID: jobID, SkillID: skillID}, nil
}

func ParseTimestamp(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, errors.TypeCoercion(fmt.Sprintf("job_posted_date %q is not a timestamp", s), nil)
}

func ParseInt(s string) (int64, error) {
	v, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	if err != nil {
		return 0, errors.TypeCoercion(fmt.Sprintf("%q is not an integer", s), err)
	}
	return v, nil
}

func ParseNullableInt(s string) (*int64, error) {
	if isNull(s) {
		return nil, nil
	}
	v, err := ParseInt(s)
	if err != nil {
		return nil, err
	}
	return &v, nil
}

// ParseNullableFloat accepts plain decimals and integral floats such as
// "85000.0". Empty strings and NULL markers map to nil.
func ParseNullableFloat(s string) (*float64, error) {
	if isNull(s) {
		return nil, nil
	}
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return nil, errors.TypeCoercion(fmt.Sprintf("%q is not a number", s), err)
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return nil, errors.TypeCoercion(fmt.Sprintf("%q is not a finite number", s), nil)
	}
	return &v, nil
}

func isNull(s string) bool {
	switch strings.TrimSpace(s) {
	case "", "NULL", "null", `\N`:
		return true
	}
	return false
}
