package internal

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"
	_ "time/tzdata"

	"github.com/robfig/cron/v3"

	"github.com/rm-hull/nl-fuel-prices/internal/models"
)

const REFRESH_TIMEOUT = 2 * time.Minute

type DailyReporter interface {
	DailyReport(ctx context.Context, loc models.LocationConfig, cycle *models.CycleResult)
}

// RefreshSchedules turns the refresh interval and times of day into cron specs.
func RefreshSchedules(schedule models.ScheduleConfig) ([]string, error) {
	specs := make([]string, 0, len(schedule.Times)+1)
	if schedule.Interval > 0 {
		specs = append(specs, fmt.Sprintf("@every %s", schedule.Interval))
	}

	for _, at := range schedule.Times {
		spec, err := dailyAt(at, "*")
		if err != nil {
			return nil, err
		}
		specs = append(specs, spec)
	}
	return specs, nil
}

func DailyReportSchedule(schedule models.ScheduleConfig) (string, error) {
	days := "*"
	if len(schedule.DailyReportDays) > 0 && len(schedule.DailyReportDays) < 7 {
		days = strings.ToLower(strings.Join(schedule.DailyReportDays, ","))
	}
	return dailyAt(schedule.DailyReportTime, days)
}

func dailyAt(at, days string) (string, error) {
	t, err := time.Parse("15:04", at)
	if err != nil {
		return "", fmt.Errorf("invalid time of day '%s': %w", at, err)
	}
	return fmt.Sprintf("%d %d * * %s", t.Minute(), t.Hour(), days), nil
}

func StartCron(engine *Engine, locations []models.LocationConfig, schedule models.ScheduleConfig, reporter DailyReporter) (*cron.Cron, error) {
	tz := time.Local
	if schedule.Timezone != "" {
		var err error
		if tz, err = time.LoadLocation(schedule.Timezone); err != nil {
			return nil, fmt.Errorf("failed to load timezone: %w", err)
		}
	}

	specs, err := RefreshSchedules(schedule)
	if err != nil {
		return nil, err
	}

	c := cron.New(cron.WithLocation(tz))

	log.Printf("Starting CRON jobs to refresh fuel prices for %d locations (%s)", len(locations), strings.Join(specs, ", "))

	for _, loc := range locations {
		for _, spec := range specs {
			if _, err := c.AddFunc(spec, func() { Refresh(engine, loc) }); err != nil {
				return nil, fmt.Errorf("failed to schedule refresh of %s: %w", loc.DisplayName(), err)
			}
		}
	}

	if reporter != nil {
		spec, err := DailyReportSchedule(schedule)
		if err != nil {
			return nil, err
		}
		if _, err := c.AddFunc(spec, func() {
			ctx, cancel := context.WithTimeout(context.Background(), REFRESH_TIMEOUT)
			defer cancel()
			sent := SendDailyReports(ctx, engine, locations, reporter)
			log.Printf("Sent %d daily reports", sent)
		}); err != nil {
			return nil, fmt.Errorf("failed to schedule daily report: %w", err)
		}
	}

	c.Start()
	return c, nil
}

// Refresh runs one bounded cycle for a location, logging rather than returning failures.
func Refresh(engine *Engine, loc models.LocationConfig) {
	ctx, cancel := context.WithTimeout(context.Background(), REFRESH_TIMEOUT)
	defer cancel()

	if _, err := engine.RunCycle(ctx, loc); err != nil {
		log.Printf("Error refreshing %s: %v", loc.DisplayName(), err)
	}
}

// SendDailyReports reports on every location that asked for it and has a cheapest station.
func SendDailyReports(ctx context.Context, engine *Engine, locations []models.LocationConfig, reporter DailyReporter) int {
	sent := 0
	for _, loc := range locations {
		if !loc.DailyReport {
			continue
		}

		cycle, ok := engine.Latest(loc.Key())
		if !ok || cycle.Result.Cheapest == nil {
			log.Printf("No data for daily report of %s", loc.DisplayName())
			continue
		}

		reporter.DailyReport(ctx, loc, cycle)
		sent++
	}
	return sent
}
