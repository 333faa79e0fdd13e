package models

import "time"

type ScheduleConfig struct {
	Interval        time.Duration `yaml:"interval"`
	Times           []string      `yaml:"times"`
	DailyReportTime string        `yaml:"daily_report_time"`
	DailyReportDays []string      `yaml:"daily_report_days"`
	Timezone        string        `yaml:"timezone"`
}
