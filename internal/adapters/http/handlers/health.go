// Package handlers holds the gin handlers for the quote API and the
// operational endpoints mounted under /-/.
package handlers

import (
	"context"
	"net/http"
	"runtime"
	"runtime/debug"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/jsamuelsen/quote-service/internal/ports"
)

// OpsPrefix is where the operational endpoints live.
const OpsPrefix = "/-"

const defaultReadinessTimeout = 5 * time.Second

// BuildInfo is served on /-/build.
type BuildInfo struct {
	Version   string `json:"version"`
	Commit    string `json:"commit"`
	BuildTime string `json:"buildTime"`
	GoVersion string `json:"goVersion"`
}

// NewBuildInfo records the ldflags values. A commit left empty or "unknown"
// falls back to the VCS revision stamped by the toolchain, when there is one.
func NewBuildInfo(version, commit, buildTime string) BuildInfo {
	if commit == "" || commit == "unknown" {
		commit = vcsRevision(commit)
	}

	return BuildInfo{
		Version:   version,
		Commit:    commit,
		BuildTime: buildTime,
		GoVersion: runtime.Version(),
	}
}

func vcsRevision(fallback string) string {
	info, ok := debug.ReadBuildInfo()
	if !ok {
		return fallback
	}

	for _, s := range info.Settings {
		if s.Key == "vcs.revision" && s.Value != "" {
			return s.Value
		}
	}

	return fallback
}

// HealthHandler serves liveness, readiness, build info and metrics.
type HealthHandler struct {
	checks   ports.HealthRegistry
	deps     ports.HealthRegistry
	build    BuildInfo
	deadline time.Duration
}

// NewHealthHandler gates readiness on checks, normally the quote store.
func NewHealthHandler(checks ports.HealthRegistry, build BuildInfo) *HealthHandler {
	return &HealthHandler{checks: checks, build: build, deadline: defaultReadinessTimeout}
}

// WithReadinessTimeout bounds one readiness evaluation. Non-positive keeps the default.
func (h *HealthHandler) WithReadinessTimeout(d time.Duration) *HealthHandler {
	if d > 0 {
		h.deadline = d
	}

	return h
}

// WithDependencies reports deps on /-/ready without letting them fail it.
// The remote quote provider belongs here: while it is down the API still
// serves stored quotes and answers 204 for exhausted selections.
func (h *HealthHandler) WithDependencies(deps ports.HealthRegistry) *HealthHandler {
	h.deps = deps
	return h
}

type statusBody struct {
	Status       string                        `json:"status"`
	Checks       map[string]*ports.CheckResult `json:"checks,omitempty"`
	Dependencies map[string]*ports.CheckResult `json:"dependencies,omitempty"`
}

// Liveness answers 200 for as long as the process can serve.
func (h *HealthHandler) Liveness(c *gin.Context) {
	c.JSON(http.StatusOK, statusBody{Status: "ok"})
}

// Readiness answers 503 when any gating check fails. Dependencies are
// listed with their own results but never change the status.
func (h *HealthHandler) Readiness(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), h.deadline)
	defer cancel()

	report := h.checks.CheckAll(ctx)
	body := statusBody{Status: string(report.Status), Checks: report.Checks}

	if h.deps != nil {
		body.Dependencies = h.deps.CheckAll(ctx).Checks
	}

	code := http.StatusOK
	if report.Status == ports.HealthStatusUnhealthy {
		code = http.StatusServiceUnavailable
	}

	c.JSON(code, body)
}

// Build serves the BuildInfo.
func (h *HealthHandler) Build(c *gin.Context) {
	c.JSON(http.StatusOK, h.build)
}

// Mount registers the operational routes under OpsPrefix.
func (h *HealthHandler) Mount(r gin.IRouter) {
	ops := r.Group(OpsPrefix)

	ops.GET("/live", h.Liveness)
	ops.GET("/ready", h.Readiness)
	ops.GET("/build", h.Build)
	ops.GET("/metrics", gin.WrapH(promhttp.Handler()))
}
