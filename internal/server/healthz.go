package server

import (
	"net/http"
	"os"
	"runtime"
	"time"

	"github.com/gin-gonic/gin"
	gopsproc "github.com/shirou/gopsutil/v4/process"
)

type healthResp struct {
	Status        string  `json:"status"`
	PID           int     `json:"pid"`
	GOOS          string  `json:"goos"`
	UptimeSeconds float64 `json:"uptime_seconds"`
	CPUPercent    float64 `json:"cpu_percent,omitempty"`
	MemoryRSS     uint64  `json:"memory_rss_bytes,omitempty"`
}

// handleHealthz reports the agent's own vitals. The resource fields are
// best-effort samples of this process; on platforms where sampling
// fails they are simply omitted and the probe still answers ok.
func (r *Router) handleHealthz(c *gin.Context) {
	resp := healthResp{
		Status:        "ok",
		PID:           os.Getpid(),
		GOOS:          runtime.GOOS,
		UptimeSeconds: time.Since(r.started).Seconds(),
	}
	if p, err := gopsproc.NewProcess(int32(os.Getpid())); err == nil {
		if cpu, err := p.CPUPercent(); err == nil {
			resp.CPUPercent = cpu
		}
		if mi, err := p.MemoryInfo(); err == nil && mi != nil {
			resp.MemoryRSS = mi.RSS
		}
	}
	writeJSON(c, http.StatusOK, resp)
}
