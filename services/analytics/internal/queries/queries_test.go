package queries

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"shenanigigs/services/analytics/internal/errors"
	"shenanigigs/services/analytics/internal/models"
	"shenanigigs/services/analytics/internal/relations"
)

type fixture struct {
	postings  []models.JobPosting
	companies []models.Company
	skills    []models.Skill
	links     []models.JobSkillLink
}

func ptr[T any](v T) *T { return &v }

// remoteAnalyst is a fully remote, remote-capable Data Analyst posting.
func remoteAnalyst(jobID int64, salary *float64) models.JobPosting {
	return models.JobPosting{
		JobID:           jobID,
		JobTitle:        "Data Analyst",
		JobTitleShort:   "Data Analyst",
		JobLocation:     "Anywhere",
		JobScheduleType: "Full-time",
		SalaryYearAvg:   salary,
		JobPostedDate:   time.Date(2023, 1, int(jobID%28)+1, 9, 0, 0, 0, time.UTC),
		JobWorkFromHome: true,
	}
}

func (f *fixture) add(p models.JobPosting, skillIDs ...int64) {
	f.postings = append(f.postings, p)
	for _, id := range skillIDs {
		f.links = append(f.links, models.JobSkillLink{JobID: p.JobID, SkillID: id})
	}
}

func (f *fixture) store(t *testing.T) *relations.Store {
	t.Helper()
	s, err := relations.New(f.postings, f.companies, f.skills, f.links)
	require.NoError(t, err)
	return s
}

func defaultSkills() []models.Skill {
	return []models.Skill{
		{SkillID: 0, Skills: "sql"},
		{SkillID: 1, Skills: "excel"},
		{SkillID: 2, Skills: "python"},
		{SkillID: 3, Skills: "tableau"},
		{SkillID: 4, Skills: "power bi"},
		{SkillID: 5, Skills: "r"},
		{SkillID: 6, Skills: "go"},
	}
}

func TestTopPayingRoles_ExcludesUnknownSalary(t *testing.T) {
	f := &fixture{}
	f.add(remoteAnalyst(1, ptr(100000.0)))
	f.add(remoteAnalyst(2, ptr(150000.0)))
	f.add(remoteAnalyst(3, nil))

	rows := TopPayingRoles(f.store(t))
	require.Len(t, rows, 2)
	assert.Equal(t, 150000.0, rows[0].SalaryYearAvg)
	assert.Equal(t, 100000.0, rows[1].SalaryYearAvg)
}

func TestTopPayingRoles_Filters(t *testing.T) {
	f := &fixture{companies: []models.Company{{CompanyID: 7, Name: "Mantys"}}}

	withCompany := remoteAnalyst(1, ptr(120000.0))
	withCompany.CompanyID = ptr(int64(7))
	f.add(withCompany)

	danglingCompany := remoteAnalyst(2, ptr(110000.0))
	danglingCompany.CompanyID = ptr(int64(99))
	f.add(danglingCompany)

	notAnywhere := remoteAnalyst(3, ptr(500000.0))
	notAnywhere.JobLocation = "Austin, TX"
	f.add(notAnywhere)

	scientist := remoteAnalyst(4, ptr(400000.0))
	scientist.JobTitleShort = "Data Scientist"
	f.add(scientist)

	// Location decides, not the work from home flag.
	onSiteAnywhere := remoteAnalyst(5, ptr(90000.0))
	onSiteAnywhere.JobWorkFromHome = false
	f.add(onSiteAnywhere)

	rows := TopPayingRoles(f.store(t))
	require.Len(t, rows, 3)

	assert.Equal(t, int64(1), rows[0].JobID)
	require.NotNil(t, rows[0].CompanyName)
	assert.Equal(t, "Mantys", *rows[0].CompanyName)
	assert.Equal(t, "Anywhere", rows[0].JobLocation)
	assert.Equal(t, "Full-time", rows[0].JobScheduleType)
	assert.Equal(t, time.Date(2023, 1, 2, 9, 0, 0, 0, time.UTC), rows[0].JobPostedDate)

	assert.Equal(t, int64(2), rows[1].JobID)
	assert.Nil(t, rows[1].CompanyName)

	assert.Equal(t, int64(5), rows[2].JobID)
	assert.Nil(t, rows[2].CompanyName)
}

func TestTopPayingRoles_LimitAndTieBreak(t *testing.T) {
	f := &fixture{}
	for id := int64(20); id >= 1; id-- {
		salary := 50000.0 + float64(id/2)*1000
		f.add(remoteAnalyst(id, ptr(salary)))
	}

	rows := TopPayingRoles(f.store(t))
	require.Len(t, rows, TopPayingRolesLimit)

	var ids []int64
	for i, r := range rows {
		ids = append(ids, r.JobID)
		if i > 0 {
			assert.GreaterOrEqual(t, rows[i-1].SalaryYearAvg, r.SalaryYearAvg)
		}
	}
	assert.Equal(t, []int64{20, 18, 19, 16, 17, 14, 15, 12, 13, 10}, ids)
}

func TestTopPayingRoleSkills(t *testing.T) {
	f := &fixture{
		skills:    defaultSkills(),
		companies: []models.Company{{CompanyID: 1, Name: "Acme"}},
	}
	top := remoteAnalyst(1, ptr(200000.0))
	top.CompanyID = ptr(int64(1))
	f.add(top, 2, 0)
	f.add(remoteAnalyst(2, ptr(180000.0)), 1)
	onSite := remoteAnalyst(3, ptr(300000.0))
	onSite.JobLocation = "Berlin"
	f.add(onSite, 6)
	for id := int64(10); id < 22; id++ {
		f.add(remoteAnalyst(id, ptr(100000.0)), 3)
	}

	s := f.store(t)
	rows, err := TopPayingRoleSkills(s)
	require.NoError(t, err)

	topIDs := map[int64]bool{}
	for _, r := range TopPayingRoles(s) {
		topIDs[r.JobID] = true
	}
	gotIDs := map[int64]bool{}
	for _, r := range rows {
		gotIDs[r.JobID] = true
		assert.Contains(t, s.SkillIDsOf(r.JobID), r.SkillID)
	}
	assert.Equal(t, topIDs, gotIDs)

	require.Len(t, rows, 2+1+8)
	assert.Equal(t, models.RoleSkill{JobID: 1, JobTitle: "Data Analyst", SalaryYearAvg: 200000, CompanyName: ptr("Acme"), SkillID: 0, Skills: "sql"}, rows[0])
	assert.Equal(t, models.RoleSkill{JobID: 1, JobTitle: "Data Analyst", SalaryYearAvg: 200000, CompanyName: ptr("Acme"), SkillID: 2, Skills: "python"}, rows[1])
	assert.Equal(t, int64(2), rows[2].JobID)
	assert.Nil(t, rows[2].CompanyName)
	assert.Equal(t, int64(10), rows[3].JobID)
	assert.Equal(t, int64(17), rows[10].JobID)
}

func TestTopDemandedSkills(t *testing.T) {
	f := &fixture{skills: defaultSkills()}
	var id int64
	addN := func(n int, skillIDs ...int64) {
		for i := 0; i < n; i++ {
			id++
			p := remoteAnalyst(id, nil)
			p.JobLocation = "Remote-ish"
			f.add(p, skillIDs...)
		}
	}
	addN(6, 0, 1)
	addN(3, 2)
	addN(2, 3, 4)
	addN(2, 5)

	notRemote := remoteAnalyst(100, nil)
	notRemote.JobWorkFromHome = false
	f.add(notRemote, 6, 6, 6)
	engineer := remoteAnalyst(101, nil)
	engineer.JobTitleShort = "Data Engineer"
	f.add(engineer, 6)

	rows, err := TopDemandedSkills(f.store(t))
	require.NoError(t, err)
	assert.Equal(t, []models.SkillDemand{
		{SkillID: 0, Skills: "sql", DemandCount: 6},
		{SkillID: 1, Skills: "excel", DemandCount: 6},
		{SkillID: 2, Skills: "python", DemandCount: 3},
		{SkillID: 3, Skills: "tableau", DemandCount: 2},
		{SkillID: 4, Skills: "power bi", DemandCount: 2},
	}, rows)
}

func TestTopPayingSkills(t *testing.T) {
	f := &fixture{skills: defaultSkills()}
	f.add(remoteAnalyst(1, ptr(100000.0)), 0, 2)
	f.add(remoteAnalyst(2, ptr(100001.0)), 0)
	f.add(remoteAnalyst(3, ptr(150000.0)), 2, 6)
	f.add(remoteAnalyst(4, nil), 6)

	offsite := remoteAnalyst(5, ptr(900000.0))
	offsite.JobWorkFromHome = false
	f.add(offsite, 1)

	rows, err := TopPayingSkills(f.store(t))
	require.NoError(t, err)
	assert.Equal(t, []models.SkillSalary{
		{SkillID: 6, Skills: "go", AvgSalary: 150000},
		{SkillID: 2, Skills: "python", AvgSalary: 125000},
		{SkillID: 0, Skills: "sql", AvgSalary: 100001},
	}, rows)
}

func TestTopPayingSkills_Limit(t *testing.T) {
	f := &fixture{}
	for id := int64(0); id < 30; id++ {
		f.skills = append(f.skills, models.Skill{SkillID: id, Skills: "skill"})
		f.add(remoteAnalyst(id, ptr(float64(1000*(id+1)))), id)
	}

	rows, err := TopPayingSkills(f.store(t))
	require.NoError(t, err)
	require.Len(t, rows, TopPayingSkillsLimit)
	assert.Equal(t, int64(30000), rows[0].AvgSalary)
	assert.Equal(t, int64(6000), rows[24].AvgSalary)
}

func TestOptimalSkills_DemandThreshold(t *testing.T) {
	f := &fixture{skills: defaultSkills()}
	var id int64
	// sql: 12 postings averaging 95000.
	for i := 0; i < 12; i++ {
		id++
		salary := 90000.0
		if i%2 == 1 {
			salary = 100000.0
		}
		f.add(remoteAnalyst(id, ptr(salary)), 0)
	}
	// excel: 8 postings.
	for i := 0; i < 8; i++ {
		id++
		f.add(remoteAnalyst(id, ptr(70000.0)), 1)
	}
	// python: exactly 10 postings.
	for i := 0; i < 10; i++ {
		id++
		f.add(remoteAnalyst(id, ptr(130000.0)), 2)
	}
	// tableau: 14 postings, 3 without a salary, so 11 count.
	for i := 0; i < 14; i++ {
		id++
		var salary *float64
		if i >= 3 {
			salary = ptr(80000.0)
		}
		f.add(remoteAnalyst(id, salary), 3)
	}

	rows, err := OptimalSkills(f.store(t))
	require.NoError(t, err)
	assert.Equal(t, []models.OptimalSkill{
		{SkillID: 0, Skills: "sql", DemandCount: 12, AvgSalary: 95000},
		{SkillID: 3, Skills: "tableau", DemandCount: 11, AvgSalary: 80000},
	}, rows)
}

func TestOptimalSkills_OrderAndConsistency(t *testing.T) {
	f := &fixture{skills: defaultSkills()}
	var id int64
	add := func(n int, salary float64, skillIDs ...int64) {
		for i := 0; i < n; i++ {
			id++
			f.add(remoteAnalyst(id, ptr(salary)), skillIDs...)
		}
	}
	add(15, 100000, 0, 1)
	add(15, 120000, 2)
	add(11, 90000, 3)
	add(4, 60000, 1)

	s := f.store(t)
	rows, err := OptimalSkills(s)
	require.NoError(t, err)
	require.Len(t, rows, 4)

	// excel: 19 postings, sql and python tie on 15 and split by salary.
	assert.Equal(t, []int64{1, 2, 0, 3}, []int64{rows[0].SkillID, rows[1].SkillID, rows[2].SkillID, rows[3].SkillID})

	demand, err := TopDemandedSkills(s)
	require.NoError(t, err)
	demandBySkill := map[int64]int{}
	for _, d := range demand {
		demandBySkill[d.SkillID] = d.DemandCount
	}
	salaries, err := TopPayingSkills(s)
	require.NoError(t, err)
	salaryBySkill := map[int64]int64{}
	for _, sal := range salaries {
		salaryBySkill[sal.SkillID] = sal.AvgSalary
	}

	for _, r := range rows {
		assert.Greater(t, r.DemandCount, OptimalSkillsMinDemand)
		assert.Equal(t, demandBySkill[r.SkillID], r.DemandCount, "skill %d", r.SkillID)
		assert.Equal(t, salaryBySkill[r.SkillID], r.AvgSalary, "skill %d", r.SkillID)
	}
}

func TestQueries_EmptyStore(t *testing.T) {
	s := (&fixture{}).store(t)

	assert.Empty(t, TopPayingRoles(s))
	assert.NotNil(t, TopPayingRoles(s))

	for _, r := range AllReports {
		rows, err := Run(s, r)
		require.NoError(t, err, r)
		assert.NotNil(t, rows, r)
		assert.Empty(t, rows, r)
	}
}

func TestQueries_Idempotent(t *testing.T) {
	f := &fixture{skills: defaultSkills()}
	for id := int64(1); id <= 40; id++ {
		f.add(remoteAnalyst(id, ptr(float64(60000+id*1000))), id%7, (id+3)%7)
	}
	s := f.store(t)

	for _, r := range AllReports {
		first, err := Run(s, r)
		require.NoError(t, err)
		second, err := Run(s, r)
		require.NoError(t, err)
		assert.Equal(t, first, second, r)
	}
}

func TestParseReport(t *testing.T) {
	for i, r := range AllReports {
		got, err := ParseReport(string(r))
		require.NoError(t, err)
		assert.Equal(t, r, got)
		assert.Equal(t, i, got.Index())
		assert.NotEmpty(t, got.Description())
	}

	_, err := ParseReport("top-paying-managers")
	require.Error(t, err)
	assert.True(t, errors.IsType(err, errors.ErrTypeInvalidInput))

	_, err = Run((&fixture{}).store(t), Report("nope"))
	assert.True(t, errors.IsType(err, errors.ErrTypeInvalidInput))
}
