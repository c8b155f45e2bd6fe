package history

import (
	"strings"
	"time"
)

type runModel struct {
	ID         int64     `gorm:"primaryKey;autoIncrement"`
	Talker     string    `gorm:"column:talker;index;size:255"`
	Source     string    `gorm:"column:source;size:32"`
	DateRange  string    `gorm:"column:date_range;size:64"`
	Day        string    `gorm:"column:day;index;size:10"`
	Status     string    `gorm:"column:status;index;size:32"`
	Segments   int       `gorm:"column:segments;default:0"`
	Failed     int       `gorm:"column:failed;default:0"`
	Reports    string    `gorm:"column:reports;type:text"`
	Error      string    `gorm:"column:error;type:text"`
	StartedAt  time.Time `gorm:"column:started_at"`
	FinishedAt time.Time `gorm:"column:finished_at"`
	CreatedAt  time.Time `gorm:"column:created_at"`
}

func (runModel) TableName() string {
	return "runs"
}

func dayKey(t time.Time) string {
	return t.Format("2006-01-02")
}

func toModel(r Run) runModel {
	return runModel{
		ID:         r.ID,
		Talker:     r.Talker,
		Source:     r.Source,
		DateRange:  r.DateRange,
		Day:        dayKey(r.StartedAt),
		Status:     r.Status,
		Segments:   r.Segments,
		Failed:     r.Failed,
		Reports:    strings.Join(r.Reports, "\n"),
		Error:      r.Error,
		StartedAt:  r.StartedAt,
		FinishedAt: r.FinishedAt,
	}
}

func fromModel(m runModel) Run {
	var reports []string
	if m.Reports != "" {
		reports = strings.Split(m.Reports, "\n")
	}
	return Run{
		ID:         m.ID,
		Talker:     m.Talker,
		Source:     m.Source,
		DateRange:  m.DateRange,
		Status:     m.Status,
		Segments:   m.Segments,
		Failed:     m.Failed,
		Reports:    reports,
		Error:      m.Error,
		StartedAt:  m.StartedAt,
		FinishedAt: m.FinishedAt,
	}
}
