package models

import (
	"time"
)

// Row field order is the column order used by every exporter.

type TopPayingRole struct {
	JobID           int64     `json:"job_id" yaml:"job_id"`
	JobTitle        string    `json:"job_title" yaml:"job_title"`
	JobLocation     string    `json:"job_location" yaml:"job_location"`
	JobScheduleType string    `json:"job_schedule_type" yaml:"job_schedule_type"`
	SalaryYearAvg   float64   `json:"salary_year_avg" yaml:"salary_year_avg"`
	JobPostedDate   time.Time `json:"job_posted_date" yaml:"job_posted_date"`
	CompanyName     *string   `json:"company_name" yaml:"company_name"`
}

type RoleSkill struct {
	JobID         int64   `json:"job_id" yaml:"job_id"`
	JobTitle      string  `json:"job_title" yaml:"job_title"`
	SalaryYearAvg float64 `json:"salary_year_avg" yaml:"salary_year_avg"`
	CompanyName   *string `json:"company_name" yaml:"company_name"`
	SkillID       int64   `json:"skill_id" yaml:"skill_id"`
	Skills        string  `json:"skills" yaml:"skills"`
}

type SkillDemand struct {
	SkillID     int64  `json:"skill_id" yaml:"skill_id"`
	Skills      string `json:"skills" yaml:"skills"`
	DemandCount int    `json:"demand_count" yaml:"demand_count"`
}

type SkillSalary struct {
	SkillID   int64  `json:"skill_id" yaml:"skill_id"`
	Skills    string `json:"skills" yaml:"skills"`
	AvgSalary int64  `json:"avg_salary" yaml:"avg_salary"`
}

type OptimalSkill struct {
	SkillID     int64  `json:"skill_id" yaml:"skill_id"`
	Skills      string `json:"skills" yaml:"skills"`
	DemandCount int    `json:"demand_count" yaml:"demand_count"`
	AvgSalary   int64  `json:"avg_salary" yaml:"avg_salary"`
}
