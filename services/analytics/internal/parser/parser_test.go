package parser

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"shenanigigs/services/analytics/internal/errors"
)

func TestParseTimestamp(t *testing.T) {
	want := time.Date(2023, 6, 16, 13, 44, 15, 0, time.UTC)
	for _, in := range []string{
		"2023-06-16 13:44:15",
		"2023-06-16 13:44:15.000",
		"2023-06-16T13:44:15Z",
		"2023-06-16 15:44:15+02:00",
		" 2023-06-16T13:44:15 ",
	} {
		got, err := ParseTimestamp(in)
		require.NoError(t, err, in)
		assert.True(t, want.Equal(got), "%q parsed as %v", in, got)
	}

	day, err := ParseTimestamp("2023-01-02")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2023, 1, 2, 0, 0, 0, 0, time.UTC), day)

	_, err = ParseTimestamp("last tuesday")
	require.Error(t, err)
	assert.True(t, errors.IsType(err, errors.ErrTypeTypeCoercion))
}

func TestParseNullableFloat(t *testing.T) {
	v, err := ParseNullableFloat("85000.0")
	require.NoError(t, err)
	require.NotNil(t, v)
	assert.Equal(t, 85000.0, *v)

	for _, null := range []string{"", "  ", "NULL", `\N`} {
		v, err := ParseNullableFloat(null)
		require.NoError(t, err)
		assert.Nil(t, v)
	}

	_, err = ParseNullableFloat("85k")
	assert.True(t, errors.IsType(err, errors.ErrTypeTypeCoercion))

	for _, in := range []string{"NaN", "Inf", "-Inf", "+Infinity"} {
		_, err := ParseNullableFloat(in)
		require.Error(t, err, in)
		assert.True(t, errors.IsType(err, errors.ErrTypeTypeCoercion), in)
	}
}

func TestParseNullableInt(t *testing.T) {
	v, err := ParseNullableInt("4593")
	require.NoError(t, err)
	assert.Equal(t, int64(4593), *v)

	v, err = ParseNullableInt("")
	require.NoError(t, err)
	assert.Nil(t, v)

	_, err = ParseNullableInt("12.5")
	assert.Error(t, err)
}

func TestJobPostingFromRecord(t *testing.T) {
	rec := Record{
		"job_id":             "1581",
		"company_id":         "4593",
		"job_title_short":    "Data Analyst",
		"job_title":          "Data Analyst (Remote)",
		"job_location":       "Anywhere",
		"job_via":            "via LinkedIn",
		"job_schedule_type":  "Full-time",
		"job_work_from_home": "True",
		"job_posted_date":    "2023-01-05 13:01:26",
		"salary_year_avg":    "111175.0",
	}

	p, err := JobPostingFromRecord(rec)
	require.NoError(t, err)
	assert.Equal(t, int64(1581), p.JobID)
	assert.Equal(t, "Data Analyst", p.JobTitleShort)
	assert.Equal(t, "Data Analyst (Remote)", p.JobTitle)
	assert.Equal(t, "Anywhere", p.JobLocation)
	assert.Equal(t, "Full-time", p.JobScheduleType)
	assert.True(t, p.JobWorkFromHome)
	assert.Equal(t, time.Date(2023, 1, 5, 13, 1, 26, 0, time.UTC), p.JobPostedDate)
	require.NotNil(t, p.SalaryYearAvg)
	assert.Equal(t, 111175.0, *p.SalaryYearAvg)
	require.NotNil(t, p.CompanyID)
	assert.Equal(t, int64(4593), *p.CompanyID)
}

func TestJobPostingFromRecord_Nulls(t *testing.T) {
	p, err := JobPostingFromRecord(Record{
		"job_id":             "7",
		"job_work_from_home": "0",
		"job_posted_date":    "2023-01-05",
	})
	require.NoError(t, err)
	assert.Nil(t, p.SalaryYearAvg)
	assert.Nil(t, p.CompanyID)
	assert.False(t, p.JobWorkFromHome)
}

func TestJobPostingFromRecord_MalformedWorkFromHome(t *testing.T) {
	_, err := JobPostingFromRecord(Record{
		"job_id":             "7",
		"job_work_from_home": "sometimes",
		"job_posted_date":    "2023-01-05",
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "job_id 7")
	assert.True(t, errors.IsType(err, errors.ErrTypeTypeCoercion))
}

func TestParseJobPosting_TypedFlag(t *testing.T) {
	p, err := ParseJobPosting(RawJobPosting{JobID: 3, JobPostedDate: "2023-02-01 00:00:00", JobWorkFromHome: int64(1)})
	require.NoError(t, err)
	assert.True(t, p.JobWorkFromHome)

	_, err = ParseJobPosting(RawJobPosting{JobID: 3, JobPostedDate: "2023-02-01 00:00:00", JobWorkFromHome: int64(2)})
	assert.True(t, errors.IsType(err, errors.ErrTypeTypeCoercion))
}

func TestDimensionRecords(t *testing.T) {
	c, err := CompanyFromRecord(Record{"company_id": "9", "name": "Get It Recruit"})
	require.NoError(t, err)
	assert.Equal(t, int64(9), c.CompanyID)
	assert.Equal(t, "Get It Recruit", c.Name)

	s, err := SkillFromRecord(Record{"skill_id": "0", "skills": "sql", "type": "programming"})
	require.NoError(t, err)
	assert.Equal(t, int64(0), s.SkillID)
	assert.Equal(t, "sql", s.Skills)

	l, err := LinkFromRecord(Record{"job_id": "4", "skill_id": "0"})
	require.NoError(t, err)
	assert.Equal(t, int64(4), l.JobID)
	assert.Equal(t, int64(0), l.SkillID)

	_, err = LinkFromRecord(Record{"job_id": "4"})
	assert.Error(t, err)
}
