package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/voyahq/tripdesk/internal/common/dto"
	"github.com/voyahq/tripdesk/internal/common/errorx"
)

// ReportKPIs returns the aggregate figures for a date window.
func (h *Handler) ReportKPIs(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}

	var q dto.ReportQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		errorx.Send(c, errorx.Validation(err))
		return
	}

	kpis, err := h.reports.KPIs(c.Request.Context(), p, &q)
	if err != nil {
		errorx.Send(c, err)
		return
	}
	c.JSON(http.StatusOK, kpis)
}

// ReportOutstanding lists bookings with an unpaid balance.
func (h *Handler) ReportOutstanding(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}

	var q dto.OutstandingQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		errorx.Send(c, errorx.Validation(err))
		return
	}

	report, err := h.reports.Outstanding(c.Request.Context(), p, &q)
	if err != nil {
		errorx.Send(c, err)
		return
	}
	c.JSON(http.StatusOK, report)
}

// ReportAgents lists active agents for the per-agent report. Admin only.
func (h *Handler) ReportAgents(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}

	agents, err := h.reports.AgentsOverview(c.Request.Context(), p)
	if err != nil {
		errorx.Send(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"agents": agents})
}

// ReportAgent returns one agent's figures. Admin only.
func (h *Handler) ReportAgent(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}
	id, ok := pathID(c)
	if !ok {
		return
	}

	var q dto.ReportQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		errorx.Send(c, errorx.Validation(err))
		return
	}

	agent, kpis, err := h.reports.AgentReport(c.Request.Context(), p, id, &q)
	if err != nil {
		errorx.Send(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"agent": agent, "kpis": kpis})
}

// Dashboard returns the landing-page snapshot.
func (h *Handler) Dashboard(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}

	summary, err := h.reports.Dashboard(c.Request.Context(), p)
	if err != nil {
		errorx.Send(c, err)
		return
	}
	c.JSON(http.StatusOK, summary)
}

// RecentActivity returns the latest audit entries in the principal's scope.
func (h *Handler) RecentActivity(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}

	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "30"))
	entries, err := h.activity.Recent(c.Request.Context(), p, limit)
	if err != nil {
		errorx.Send(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"activity": entries})
}
