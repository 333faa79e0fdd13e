package internal

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rm-hull/nl-fuel-prices/internal/models"
)

func TestRefreshSchedules(t *testing.T) {
	specs, err := RefreshSchedules(models.ScheduleConfig{
		Interval: time.Hour,
		Times:    []string{"06:00", "12:30", "18:05"},
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"@every 1h0m0s", "0 6 * * *", "30 12 * * *", "5 18 * * *"}, specs)

	for _, spec := range specs {
		_, err := cron.ParseStandard(spec)
		assert.NoError(t, err, spec)
	}

	_, err = RefreshSchedules(models.ScheduleConfig{Times: []string{"noon"}})
	assert.Error(t, err)
}

func TestDailyReportSchedule(t *testing.T) {
	spec, err := DailyReportSchedule(models.ScheduleConfig{
		DailyReportTime: "08:00",
		DailyReportDays: []string{"mon", "tue", "wed", "thu", "fri", "sat", "sun"},
	})
	require.NoError(t, err)
	assert.Equal(t, "0 8 * * *", spec)

	spec, err = DailyReportSchedule(models.ScheduleConfig{DailyReportTime: "07:45", DailyReportDays: []string{"Mon", "fri"}})
	require.NoError(t, err)
	assert.Equal(t, "45 7 * * mon,fri", spec)

	schedule, err := cron.ParseStandard(spec)
	require.NoError(t, err)
	next := schedule.Next(thursday)
	assert.Equal(t, time.Friday, next.Weekday())
	assert.Equal(t, 7, next.Hour())
	assert.Equal(t, 45, next.Minute())
}

type recordingReporter struct {
	mu      sync.Mutex
	reports []string
}

func (r *recordingReporter) DailyReport(ctx context.Context, loc models.LocationConfig, cycle *models.CycleResult) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.reports = append(r.reports, loc.Name+":"+cycle.Result.Cheapest.Price.String())
}

func TestSendDailyReports(t *testing.T) {
	svc := newTankService(t)
	svc.setDetail("3", 1899)
	engine, _ := newTestEngine(svc.client(0), nil)

	reporting := utrecht()
	reporting.DailyReport = true

	silent := utrecht()
	silent.Name = "Silent"
	silent.FuelType = models.FuelDiesel

	neverRun := utrecht()
	neverRun.Name = "Never run"
	neverRun.FuelType = models.FuelLPG
	neverRun.DailyReport = true

	for _, loc := range []models.LocationConfig{reporting, silent} {
		_, err := engine.RunCycle(context.Background(), loc)
		require.NoError(t, err)
	}

	reporter := &recordingReporter{}
	sent := SendDailyReports(context.Background(), engine, []models.LocationConfig{reporting, silent, neverRun}, reporter)

	assert.Equal(t, 1, sent)
	assert.Equal(t, []string{"Utrecht Centrum:1.899"}, reporter.reports)
}

func TestStartCron(t *testing.T) {
	svc := newTankService(t)
	engine, _ := newTestEngine(svc.client(0), nil)

	c, err := StartCron(engine, []models.LocationConfig{utrecht()}, models.ScheduleConfig{
		Interval:        time.Hour,
		Times:           []string{"06:00"},
		DailyReportTime: "08:00",
		Timezone:        "Europe/Amsterdam",
	}, &recordingReporter{})
	require.NoError(t, err)
	defer c.Stop()

	assert.Len(t, c.Entries(), 3)

	_, err = StartCron(engine, nil, models.ScheduleConfig{Timezone: "Mars/Olympus"}, nil)
	assert.Error(t, err)
}

func TestRefresh(t *testing.T) {
	svc := newTankService(t)
	svc.setDetail("7", 1859)
	engine, _ := newTestEngine(svc.client(0), nil)

	Refresh(engine, utrecht())

	cycle, ok := engine.Latest(utrecht().Key())
	require.True(t, ok)
	assert.Equal(t, "7", cycle.Result.Cheapest.ID)
}
