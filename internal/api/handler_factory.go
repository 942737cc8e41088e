package api

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"factory-chatbot-backend/internal/chatbot"
	"factory-chatbot-backend/internal/model"
	"factory-chatbot-backend/internal/store"
)

const maxRows = 100

// GetMachines handles GET /api/machines.
func (h *Handler) GetMachines(c *gin.Context) {
	var machines []model.Machine
	err := h.store.Session(c.Request.Context(), func(q store.Querier) error {
		var err error
		machines, err = q.Machines()
		return err
	})
	if err != nil {
		h.fail(c, err)
		return
	}
	if machines == nil {
		machines = []model.Machine{}
	}
	c.JSON(http.StatusOK, machines)
}

// GetAlerts handles GET /api/alerts.
func (h *Handler) GetAlerts(c *gin.Context) {
	alerts, err := h.alerts.Check(c.Request.Context())
	if err != nil {
		h.fail(c, err)
		return
	}
	if alerts == nil {
		alerts = []chatbot.Alert{}
	}
	c.JSON(http.StatusOK, alerts)
}

type lineDowntimeResponse struct {
	LineID     int                      `json:"line_id"`
	Production []store.LineDowntime     `json:"production"`
	Incidents  []model.DowntimeIncident `json:"incidents"`
}

// GetLineDowntime handles GET /api/lines/{line_id}/downtime.
func (h *Handler) GetLineDowntime(c *gin.Context) {
	lineID, err := strconv.Atoi(c.Param("line_id"))
	if err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid line ID"})
		return
	}
	limit, ok := intQuery(c, "limit", h.recentRows)
	if !ok {
		return
	}

	resp := lineDowntimeResponse{LineID: lineID}
	err = h.store.Session(c.Request.Context(), func(q store.Querier) error {
		var err error
		if resp.Production, err = q.RecentLineProduction(lineID, limit); err != nil {
			return err
		}
		resp.Incidents, err = q.DowntimeIncidents(lineID, limit)
		return err
	})
	if err != nil {
		h.fail(c, err)
		return
	}
	if resp.Production == nil {
		resp.Production = []store.LineDowntime{}
	}
	if resp.Incidents == nil {
		resp.Incidents = []model.DowntimeIncident{}
	}
	c.JSON(http.StatusOK, resp)
}

// GetProductionTrend handles GET /api/production/trend, the data behind the chat chart.
func (h *Handler) GetProductionTrend(c *gin.Context) {
	days, ok := intQuery(c, "days", h.chartDays)
	if !ok {
		return
	}

	var totals []store.DailyTotal
	err := h.store.Session(c.Request.Context(), func(q store.Querier) error {
		var err error
		totals, err = q.DailyTotals(days)
		return err
	})
	if err != nil {
		h.fail(c, err)
		return
	}
	if totals == nil {
		totals = []store.DailyTotal{}
	}
	c.JSON(http.StatusOK, totals)
}

// Healthz handles GET /healthz.
func (h *Handler) Healthz(c *gin.Context) {
	if err := h.store.Ping(c.Request.Context()); err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// intQuery reads a positive integer query parameter capped at maxRows. It
// writes the 400 itself and reports false on bad input.
func intQuery(c *gin.Context, key string, def int) (int, bool) {
	raw := c.Query(key)
	if raw == "" {
		return def, true
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n <= 0 {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "invalid " + key})
		return 0, false
	}
	return min(n, maxRows), true
}
