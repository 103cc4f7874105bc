package main

import (
	"fmt"
	"io"
	"runtime"
	"text/template"
	"time"

	"github.com/google/uuid"

	"github.com/plus3/engineless/ecs"
)

type Report struct {
	RunID  uuid.UUID
	Config Config

	// Results
	TotalTime     time.Duration
	Scheduler     *ecs.SchedulerStats
	Storage       ecs.StorageStats
	Counters      Counters
	PeakHeapAlloc uint64
	MemStatsStart runtime.MemStats
	MemStatsEnd   runtime.MemStats
}

// Counters are the totals accumulated by the simulation's systems.
type Counters struct {
	Spawned int64
	Moved   int64
	Wounded int64
	Aged    int64
}

// TicksPerSecond is the achieved update rate.
func (r *Report) TicksPerSecond() float64 {
	if r.Scheduler == nil || r.TotalTime <= 0 {
		return 0
	}
	return float64(r.Scheduler.Ticks) / r.TotalTime.Seconds()
}

const reportTemplate = `
# ECS Stress Test Report

Run **{{.RunID}}**

## Test Configuration
- **Run Duration:** {{.Config.Duration}}
- **Initial Entities:** {{.Config.Entities}}
- **Tick Interval:** {{.Config.TickInterval}}
- **Spawn Per Tick:** {{.Config.SpawnPerTick}}
- **Seed:** {{.Config.Seed}}

## Performance Results
- **Total Test Time:** {{.TotalTime}}
- **Ticks:** {{.Scheduler.Ticks}} ({{printf "%.1f" .TicksPerSecond}}/s)
- **System Executions:** {{.Scheduler.TotalExecutions}}

| System | Phase | Runs | Avg | Min | Max | Total |
|---|---|---|---|---|---|---|
{{- range .Scheduler.Systems}}
| {{.Name}} | {{.Phase}} | {{.ExecutionCount}} | {{.AvgDuration}} | {{runmin .}} | {{.MaxDuration}} | {{.TotalDuration}} |
{{- end}}

## Simulation Counters
- **Spawned:** {{.Counters.Spawned}}
- **Moving Rows Seen:** {{.Counters.Moved}}
- **Wounded Rows Seen:** {{.Counters.Wounded}}
- **Aged Rows Seen:** {{.Counters.Aged}}

## Storage
- **Entities:** {{.Storage.EntityCount}}
- **Columns:** {{.Storage.ColumnCount}}

| Component | Id | Rows |
|---|---|---|
{{- range .Storage.Columns}}
| {{.TypeName}} | {{printf "%016x" .Id}} | {{.Rows}} |
{{- end}}

## Memory Usage
- Heap Alloc:     {{mb .MemStatsStart.HeapAlloc}} MB (start) -> {{mb .MemStatsEnd.HeapAlloc}} MB (end) -> delta: {{bsub .MemStatsEnd.HeapAlloc .MemStatsStart.HeapAlloc}} bytes
- Peak Heap:      {{mb .PeakHeapAlloc}} MB
- Total Alloc:    {{.MemStatsStart.TotalAlloc}} (start) -> {{.MemStatsEnd.TotalAlloc}} (end) -> delta: {{bsub .MemStatsEnd.TotalAlloc .MemStatsStart.TotalAlloc}}
- Sys Memory:     {{.MemStatsStart.Sys}} (start) -> {{.MemStatsEnd.Sys}} (end) -> delta: {{bsub .MemStatsEnd.Sys .MemStatsStart.Sys}}
- Num GC:         {{.MemStatsStart.NumGC}} (start) -> {{.MemStatsEnd.NumGC}} (end) -> delta: {{usub .MemStatsEnd.NumGC .MemStatsStart.NumGC}}
{{if .Config.GCPauseMetrics}}
## GC Pause Durations
- **Total GC Pause:** {{ns (nsub .MemStatsEnd.PauseTotalNs .MemStatsStart.PauseTotalNs)}}
- **Num GC Cycles:** {{usub .MemStatsEnd.NumGC .MemStatsStart.NumGC}}
{{end}}`

var reportFuncs = template.FuncMap{
	"mb": func(v uint64) string {
		return fmt.Sprintf("%.2f", float64(v)/1024/1024)
	},
	"bsub": func(a, b uint64) int64 {
		return int64(a) - int64(b)
	},
	"usub": func(a, b uint32) uint32 {
		return a - b
	},
	"nsub": func(a, b uint64) uint64 {
		return a - b
	},
	"ns": func(ns uint64) string {
		return time.Duration(ns).String()
	},
	// A system that never ran still carries the sentinel minimum.
	"runmin": func(s ecs.SystemStats) time.Duration {
		if s.ExecutionCount == 0 {
			return 0
		}
		return s.MinDuration
	},
}

var reportTmpl = template.Must(template.New("report").Funcs(reportFuncs).Parse(reportTemplate))

func (r *Report) Generate(w io.Writer) error {
	if r.Scheduler == nil {
		r.Scheduler = &ecs.SchedulerStats{}
	}
	return reportTmpl.Execute(w, r)
}
