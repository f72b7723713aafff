package metrics

import (
	"fmt"
	"os"
	"runtime"
)

// SysHealth represents real-time process metrics for the info endpoint.
type SysHealth struct {
	AllocMB      uint64 `json:"alloc_mb"`
	TotalAllocMB uint64 `json:"total_alloc_mb"`
	SysMB        uint64 `json:"sys_mb"`
	NumGC        uint32 `json:"num_gc"`
	Goroutines   int    `json:"goroutines"`
	MetricsDB    string `json:"metrics_db_size"`
}

// GetSysHealth collects real-time health data.
func GetSysHealth(metricsDBPath string) SysHealth {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)

	return SysHealth{
		AllocMB:      m.Alloc / 1024 / 1024,
		TotalAllocMB: m.TotalAlloc / 1024 / 1024,
		SysMB:        m.Sys / 1024 / 1024,
		NumGC:        m.NumGC,
		Goroutines:   runtime.NumGoroutine(),
		MetricsDB:    fileSize(metricsDBPath),
	}
}

func fileSize(path string) string {
	info, err := os.Stat(path)
	if err != nil {
		return "0 B"
	}
	size := info.Size()

	const unit = 1024
	if size < unit {
		return fmt.Sprintf("%d B", size)
	}
	div, exp := int64(unit), 0
	for n := size / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %cB", float64(size)/float64(div), "KMGTPE"[exp])
}
