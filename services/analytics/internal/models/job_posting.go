package models

import (
	"time"
)

type JobPosting struct {
	JobID           int64
	JobTitle        string
	JobTitleShort   string
	JobLocation     string
	JobScheduleType string
	SalaryYearAvg   *float64
	JobPostedDate   time.Time
	JobWorkFromHome bool
	CompanyID       *int64
}

type Company struct {
	CompanyID int64
	Name      string
}

type Skill struct {
	SkillID int64
	Skills  string
}

type JobSkillLink struct {
	JobID   int64
	SkillID int64
}
