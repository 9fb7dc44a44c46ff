package server

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/loykin/procguard/internal/actuator"
	"github.com/loykin/procguard/internal/agent"
	"github.com/loykin/procguard/internal/config"
	"github.com/loykin/procguard/internal/metrics"
)

// Router provides embeddable HTTP handlers for remote process
// forensics and response.
// Endpoints:
//   GET  {basePath}/processes/:pid             inspect a live process
//   POST {basePath}/processes/:pid/terminate   forced kill
//   POST {basePath}/processes/:pid/quarantine  move exe + strip permissions
//   GET  {basePath}/healthz                    agent self-report
//   GET  {basePath}/metrics                    prometheus exposition
// The :pid segment must be a plain decimal; anything else is 400.
// Environment capture is returned only when ?environ=1 is set.
// When cfg.AuthToken is non-empty the /processes routes require
// "Authorization: Bearer <token>"; healthz and metrics stay open for
// probes and scrapes.
// basePath may be empty or start with '/'; no trailing slash.

type Router struct {
	agent    *agent.Agent
	basePath string
	token    string
	started  time.Time
}

// NewRouter constructs a Router serving the given agent. Only BasePath
// and AuthToken are read from cfg; Listen belongs to NewServer.
func NewRouter(a *agent.Agent, cfg config.ServerConfig) *Router {
	return &Router{
		agent:    a,
		basePath: sanitizeBase(cfg.BasePath),
		token:    cfg.AuthToken,
		started:  time.Now(),
	}
}

// Handler returns an http.Handler powered by gin that can be mounted in any server/mux.
func (r *Router) Handler() http.Handler {
	g := gin.New()
	g.Use(gin.Recovery())
	group := g.Group(r.basePath)
	group.GET("/healthz", r.handleHealthz)
	group.GET("/metrics", gin.WrapH(metrics.Handler()))

	procs := group.Group("/processes", requireToken(r.token))
	procs.GET("/:pid", r.handleInspect)
	procs.POST("/:pid/terminate", r.handleTerminate)
	procs.POST("/:pid/quarantine", r.handleQuarantine)
	return g
}

// NewServer starts a standalone HTTP server using this router. The
// listen address comes from cfg.Listen, defaulting to
// config.DefaultListen. The returned server can be shut down via Close
// or Shutdown.
func NewServer(a *agent.Agent, cfg config.ServerConfig) (*http.Server, error) {
	addr := cfg.Listen
	if addr == "" {
		addr = config.DefaultListen
	}
	r := NewRouter(a, cfg)
	server := &http.Server{
		Addr:              addr,
		Handler:           r.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
	go func() { _ = server.ListenAndServe() }()
	return server, nil
}

// --- Handlers ---

type errorResp struct {
	Error string `json:"error"`
}

// processResp is the wire form of a record. Environ is withheld unless
// explicitly requested: environments routinely carry secrets, and a
// forensics API should not ship them on every GET.
type processResp struct {
	PID     uint64 `json:"pid"`
	Exe     string `json:"exe"`
	Root    string `json:"root"`
	Cwd     string `json:"cwd"`
	Cmdline string `json:"cmdline"`
	Environ string `json:"environ,omitempty"`
}

type terminateResp struct {
	PID     uint64           `json:"pid"`
	Exe     string           `json:"exe"`
	Outcome actuator.Outcome `json:"outcome"`
}

type quarantineResp struct {
	PID uint64 `json:"pid"`
	Exe string `json:"exe"`
	OK  bool   `json:"ok"`
	actuator.QuarantineOutcome
}

func (r *Router) handleInspect(c *gin.Context) {
	pid, err := parsePID(c.Param("pid"))
	if err != nil {
		writeJSON(c, http.StatusBadRequest, errorResp{Error: err.Error()})
		return
	}
	rec, err := r.agent.Inspect(c.Request.Context(), pid)
	if err != nil {
		writeJSON(c, lookupStatus(err), errorResp{Error: err.Error()})
		return
	}
	resp := processResp{PID: rec.PID, Exe: rec.Exe, Root: rec.Root, Cwd: rec.Cwd, Cmdline: rec.Cmdline}
	if c.Query("environ") == "1" {
		resp.Environ = rec.Environ
	}
	writeJSON(c, http.StatusOK, resp)
}

func (r *Router) handleTerminate(c *gin.Context) {
	pid, err := parsePID(c.Param("pid"))
	if err != nil {
		writeJSON(c, http.StatusBadRequest, errorResp{Error: err.Error()})
		return
	}
	rec, out, err := r.agent.TerminatePID(c.Request.Context(), pid)
	if err != nil {
		writeJSON(c, lookupStatus(err), errorResp{Error: err.Error()})
		return
	}
	writeJSON(c, http.StatusOK, terminateResp{PID: rec.PID, Exe: rec.Exe, Outcome: out})
}

func (r *Router) handleQuarantine(c *gin.Context) {
	pid, err := parsePID(c.Param("pid"))
	if err != nil {
		writeJSON(c, http.StatusBadRequest, errorResp{Error: err.Error()})
		return
	}
	rec, out, err := r.agent.QuarantinePID(c.Request.Context(), pid)
	if err != nil {
		writeJSON(c, lookupStatus(err), errorResp{Error: err.Error()})
		return
	}
	writeJSON(c, http.StatusOK, quarantineResp{
		PID: rec.PID, Exe: rec.Exe, OK: out.OK(), QuarantineOutcome: out,
	})
}
