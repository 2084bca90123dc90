// Package relations holds the read-only snapshot every report runs against:
// job postings, companies, skills and the job-skill association, indexed by
// their keys.
package relations

import (
	"fmt"
	"math"

	"shenanigigs/services/analytics/internal/errors"
	"shenanigigs/services/analytics/internal/models"
)

// Store is immutable after New and safe for concurrent readers.
type Store struct {
	postings  []models.JobPosting
	companies []models.Company
	skills    []models.Skill
	links     []models.JobSkillLink

	postingByID  map[int64]int
	companyByID  map[int64]int
	skillByID    map[int64]int
	skillsPerJob map[int64][]int64
}

type Stats struct {
	Postings  int
	Companies int
	Skills    int
	Links     int
}

// New copies the given relations and indexes them. Duplicate primary keys,
// negative salaries and links to unknown jobs or skills are reported as
// schema violations. Postings may reference a company that does not exist;
// reports treat that as a missing company name.
func New(postings []models.JobPosting, companies []models.Company, skills []models.Skill, links []models.JobSkillLink) (*Store, error) {
	s := &Store{
		postings:     append([]models.JobPosting(nil), postings...),
		companies:    append([]models.Company(nil), companies...),
		skills:       append([]models.Skill(nil), skills...),
		links:        append([]models.JobSkillLink(nil), links...),
		postingByID:  make(map[int64]int, len(postings)),
		companyByID:  make(map[int64]int, len(companies)),
		skillByID:    make(map[int64]int, len(skills)),
		skillsPerJob: make(map[int64][]int64),
	}

	for i := range s.postings {
		p := &s.postings[i]
		if _, dup := s.postingByID[p.JobID]; dup {
			return nil, errors.SchemaViolation(fmt.Sprintf("duplicate job_id %d", p.JobID), nil)
		}
		if p.SalaryYearAvg != nil && !validSalary(*p.SalaryYearAvg) {
			return nil, errors.SchemaViolation(fmt.Sprintf("job_id %d has invalid salary_year_avg %v", p.JobID, *p.SalaryYearAvg), nil)
		}
		*p = clonePosting(*p)
		s.postingByID[p.JobID] = i
	}

	for i, c := range s.companies {
		if _, dup := s.companyByID[c.CompanyID]; dup {
			return nil, errors.SchemaViolation(fmt.Sprintf("duplicate company_id %d", c.CompanyID), nil)
		}
		s.companyByID[c.CompanyID] = i
	}

	for i, sk := range s.skills {
		if _, dup := s.skillByID[sk.SkillID]; dup {
			return nil, errors.SchemaViolation(fmt.Sprintf("duplicate skill_id %d", sk.SkillID), nil)
		}
		s.skillByID[sk.SkillID] = i
	}

	for _, l := range s.links {
		if _, ok := s.postingByID[l.JobID]; !ok {
			return nil, errors.SchemaViolation(fmt.Sprintf("skills_job link references unknown job_id %d", l.JobID), nil)
		}
		if _, ok := s.skillByID[l.SkillID]; !ok {
			return nil, errors.SchemaViolation(fmt.Sprintf("skills_job link references unknown skill_id %d", l.SkillID), nil)
		}
		s.skillsPerJob[l.JobID] = append(s.skillsPerJob[l.JobID], l.SkillID)
	}

	return s, nil
}

// Select returns copies of the postings matching pred, in load order.
func (s *Store) Select(pred func(*models.JobPosting) bool) []models.JobPosting {
	out := []models.JobPosting{}
	for i := range s.postings {
		if pred(&s.postings[i]) {
			out = append(out, clonePosting(s.postings[i]))
		}
	}
	return out
}

func (s *Store) Posting(jobID int64) (models.JobPosting, bool) {
	i, ok := s.postingByID[jobID]
	if !ok {
		return models.JobPosting{}, false
	}
	return clonePosting(s.postings[i]), true
}

func (s *Store) Company(companyID int64) (models.Company, bool) {
	i, ok := s.companyByID[companyID]
	if !ok {
		return models.Company{}, false
	}
	return s.companies[i], true
}

func (s *Store) Skill(skillID int64) (models.Skill, bool) {
	i, ok := s.skillByID[skillID]
	if !ok {
		return models.Skill{}, false
	}
	return s.skills[i], true
}

// SkillIDsOf returns the skill ids linked to jobID, one entry per link row.
func (s *Store) SkillIDsOf(jobID int64) []int64 {
	return append([]int64(nil), s.skillsPerJob[jobID]...)
}

func (s *Store) Stats() Stats {
	return Stats{
		Postings:  len(s.postings),
		Companies: len(s.companies),
		Skills:    len(s.skills),
		Links:     len(s.links),
	}
}

func clonePosting(p models.JobPosting) models.JobPosting {
	if p.SalaryYearAvg != nil {
		v := *p.SalaryYearAvg
		p.SalaryYearAvg = &v
	}
	if p.CompanyID != nil {
		v := *p.CompanyID
		p.CompanyID = &v
	}
	return p
}

// validSalary reports whether v is a finite, non-negative amount.
func validSalary(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0) && v >= 0
}
