// Package events publishes finished reports to NATS and the report cache.
package events

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"

	"shenanigigs/common/cache"
	"shenanigigs/services/analytics/internal/processor"
	"shenanigigs/services/analytics/internal/queries"
)

const latestSuffix = "latest"

// ReportEnvelope is the message body for one report of one run.
type ReportEnvelope struct {
	RunID       uuid.UUID      `json:"run_id"`
	Report      queries.Report `json:"report"`
	Source      string         `json:"source"`
	GeneratedAt time.Time      `json:"generated_at"`
	Rows        any            `json:"rows"`
}

func NewEnvelope(run *processor.Run, res processor.Result) ReportEnvelope {
	return ReportEnvelope{
		RunID:       run.ID,
		Report:      res.Report,
		Source:      run.Source,
		GeneratedAt: run.GeneratedAt,
		Rows:        res.Rows,
	}
}

func (e ReportEnvelope) Marshal() ([]byte, error) {
	return json.Marshal(e)
}

// Subject is the NATS subject a report is published on, e.g.
// "reports.top-paying-jobs".
func Subject(prefix string, report queries.Report) string {
	return prefix + "." + string(report)
}

// LatestKey is the cache key holding the most recent envelope of a report.
func LatestKey(prefix string, report queries.Report) (string, error) {
	return cache.Key(prefix, string(report), latestSuffix)
}
