// Package predicates holds the posting filters the reports are built from.
//
// A fully remote location ("Anywhere") and a remote-capable posting (work from
// home flag set) are different filters. Reports 1 and 2 use the former,
// reports 3 to 5 the latter.
package predicates

import (
	"fmt"
	"strings"

	"shenanigigs/services/analytics/internal/errors"
	"shenanigigs/services/analytics/internal/models"
)

const (
	DataAnalystTitle       = "Data Analyst"
	FullyRemoteLocationTag = "Anywhere"
)

type Predicate func(posting *models.JobPosting) bool

func IsDataAnalystRole(posting *models.JobPosting) bool {
	return posting.JobTitleShort == DataAnalystTitle
}

func IsFullyRemoteLocation(posting *models.JobPosting) bool {
	return posting.JobLocation == FullyRemoteLocationTag
}

func IsRemoteCapable(posting *models.JobPosting) bool {
	return posting.JobWorkFromHome
}

func HasKnownSalary(posting *models.JobPosting) bool {
	return posting.SalaryYearAvg != nil
}

// All is the logical AND of preds. With no predicates it matches everything.
func All(preds ...Predicate) Predicate {
	return func(posting *models.JobPosting) bool {
		for _, p := range preds {
			if !p(posting) {
				return false
			}
		}
		return true
	}
}

// CoerceWorkFromHome normalizes a raw job_work_from_home value. Booleans,
// the integers 0 and 1, and their textual forms are accepted.
func CoerceWorkFromHome(v any) (bool, error) {
	switch val := v.(type) {
	case bool:
		return val, nil
	case *bool:
		if val != nil {
			return *val, nil
		}
	case int:
		return coerceInt(int64(val))
	case int8:
		return coerceInt(int64(val))
	case int16:
		return coerceInt(int64(val))
	case int32:
		return coerceInt(int64(val))
	case int64:
		return coerceInt(val)
	case uint8:
		return coerceInt(int64(val))
	case uint16:
		return coerceInt(int64(val))
	case uint32:
		return coerceInt(int64(val))
	case uint64:
		if val <= 1 {
			return val == 1, nil
		}
	case []byte:
		return coerceText(string(val))
	case string:
		return coerceText(val)
	}
	return false, malformed(v)
}

func coerceInt(v int64) (bool, error) {
	switch v {
	case 0:
		return false, nil
	case 1:
		return true, nil
	}
	return false, malformed(v)
}

func coerceText(s string) (bool, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "true", "1":
		return true, nil
	case "false", "0":
		return false, nil
	}
	return false, malformed(s)
}

func malformed(v any) error {
	return errors.TypeCoercion(fmt.Sprintf("job_work_from_home value %#v is not one of true, false, 0, 1", v), nil)
}
