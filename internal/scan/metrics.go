package scan

import (
	"runtime"
	"time"

	"github.com/vibecheck/vibecheck/internal/model"
)

// FileMetrics summarizes file-loading outcomes
type FileMetrics struct {
	Total   int     `json:"total"`
	Scanned int     `json:"scanned"`
	Cached  int     `json:"cached"`
	HitRate float64 `json:"hit_rate"`
}

// Metrics is the per-scan measurement block
type Metrics struct {
	Files         FileMetrics `json:"files"`
	Workers       int         `json:"workers"`
	AvgEngineMS   float64     `json:"avg_engine_ms"`
	FilesPerSec   float64     `json:"files_per_sec"`
	PeakHeapBytes uint64      `json:"peak_heap_bytes,omitempty"`
}

func computeMetrics(stats LoadStats, engineResults []model.EngineResult, workers int, elapsed time.Duration) Metrics {
	m := Metrics{
		Files: FileMetrics{
			Total:   stats.Total,
			Scanned: stats.Scanned,
			Cached:  stats.Cached,
		},
		Workers: workers,
	}

	if stats.Total > 0 {
		m.Files.HitRate = float64(stats.Cached) / float64(stats.Total)
	}

	if len(engineResults) > 0 {
		var totalMS int64
		for _, er := range engineResults {
			totalMS += er.DurationMS
		}
		m.AvgEngineMS = float64(totalMS) / float64(len(engineResults))
	}

	if secs := elapsed.Seconds(); secs > 0 {
		m.FilesPerSec = float64(stats.Total) / secs
	}

	var memStats runtime.MemStats
	runtime.ReadMemStats(&memStats)
	m.PeakHeapBytes = memStats.HeapAlloc

	return m
}
