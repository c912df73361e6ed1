package stats

import (
	"os"
	"runtime"
	"time"

	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/disk"
	"github.com/shirou/gopsutil/v3/host"
	"github.com/shirou/gopsutil/v3/mem"
	"github.com/shirou/gopsutil/v3/process"
)

type SystemInfo struct {
	OS           string        `json:"os"`
	Hostname     string        `json:"hostname"`
	SystemUptime time.Duration `json:"-"`

	CPUCores int     `json:"cpu_cores"`
	CPUUsage float64 `json:"cpu_usage"`

	MemUsed    uint64  `json:"mem_used"`
	MemTotal   uint64  `json:"mem_total"`
	MemPercent float64 `json:"mem_percent"`

	// TempFree is free space on the volume holding downloads.
	TempFree uint64 `json:"temp_free"`

	ProcessPID int     `json:"pid"`
	ProcessCPU float64 `json:"process_cpu"`
	ProcessMem uint64  `json:"process_rss"`

	GoVersion  string `json:"go_version"`
	Goroutines int    `json:"goroutines"`
	HeapAlloc  uint64 `json:"heap_alloc"`
}

// GetSystemInfo collects host and process figures. Missing figures are left
// zero; only the Go runtime numbers are always present.
// cpuSample is how long to sample host CPU, zero skips it.
func GetSystemInfo(tempDir string, cpuSample time.Duration) SystemInfo {
	info := SystemInfo{}

	if hostInfo, err := host.Info(); err == nil {
		info.OS = hostInfo.OS
		info.Hostname = hostInfo.Hostname
		info.SystemUptime = time.Duration(hostInfo.Uptime) * time.Second
	}

	info.CPUCores = runtime.NumCPU()
	if cpuSample > 0 {
		if percent, err := cpu.Percent(cpuSample, false); err == nil && len(percent) > 0 {
			info.CPUUsage = percent[0]
		}
	}

	if memInfo, err := mem.VirtualMemory(); err == nil {
		info.MemUsed = memInfo.Used
		info.MemTotal = memInfo.Total
		info.MemPercent = memInfo.UsedPercent
	}

	if tempDir == "" {
		tempDir = os.TempDir()
	}
	if usage, err := disk.Usage(tempDir); err == nil {
		info.TempFree = usage.Free
	}

	info.ProcessPID = os.Getpid()
	if proc, err := process.NewProcess(int32(info.ProcessPID)); err == nil {
		if percent, err := proc.CPUPercent(); err == nil {
			info.ProcessCPU = percent
		}
		if memInfo, err := proc.MemoryInfo(); err == nil {
			info.ProcessMem = memInfo.RSS
		}
	}

	var m runtime.MemStats
	runtime.ReadMemStats(&m)
	info.GoVersion = runtime.Version()
	info.Goroutines = runtime.NumGoroutine()
	info.HeapAlloc = m.Alloc

	return info
}
