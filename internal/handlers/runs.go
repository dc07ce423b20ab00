package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"sprint_beacon/internal/service"
)

const maxRunLimit = 1000

var errBadNumber = errors.New("must be a number")

// runQuery reads the history filters shared by /runs and /runs/stats.
func runQuery(c *gin.Context) (service.RunQuery, string) {
	q := service.RunQuery{Runner: c.Query("runner")}

	from, to, dateOnlyTo, msg := parseWindow(c)
	if msg != "" {
		return q, msg
	}
	if !from.IsZero() {
		q.From = &from
	}
	if !to.IsZero() {
		q.To = &to
		q.DateOnlyTo = dateOnlyTo
	}

	var err error
	if q.MinYards, err = optionalFloat(c, "min_yards"); err != nil {
		return q, "invalid 'min_yards': " + err.Error()
	}
	if q.MaxYards, err = optionalFloat(c, "max_yards"); err != nil {
		return q, "invalid 'max_yards': " + err.Error()
	}
	if s := c.Query("limit"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil || n < 0 || n > maxRunLimit {
			return q, "invalid 'limit': use 0-1000"
		}
		q.Limit = n
	}
	if s := c.Query("top"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil || n <= 0 || n > maxRunLimit {
			return q, "invalid 'top': use 1-1000"
		}
		q.Top = n
	}
	q.All, _ = strconv.ParseBool(c.Query("all"))
	q.SelectedOnly, _ = strconv.ParseBool(c.Query("mine"))
	return q, ""
}

func optionalFloat(c *gin.Context, key string) (*float64, error) {
	s := c.Query(key)
	if s == "" {
		return nil, nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil, errBadNumber
	}
	return &v, nil
}

// @Summary      List runs
// @Description  Newest first. Outliers are dropped unless all=true.
// @Tags         runs
// @Produce      json
// @Param        runner     query  string  false  "Runner name; All or empty for everyone"
// @Param        min_yards  query  number  false  "Minimum range in yards"
// @Param        max_yards  query  number  false  "Maximum range in yards"
// @Param        from       query  string  false  "Start of range"  example(2026-10-01)
// @Param        to         query  string  false  "End of range; date-only is end of day"  example(2026-10-18)
// @Param        limit      query  int     false  "Maximum number of runs"
// @Param        all        query  bool    false  "Keep implausible runs"
// @Success      200  {object}  map[string]interface{}  "count, runs"
// @Failure      400  {object}  map[string]string
// @Failure      401  {object}  map[string]string
// @Failure      500  {object}  map[string]string
// @Router       /api/v1/runs [get]
// @Security     BearerAuth
func (h *Handler) listRuns(c *gin.Context) {
	q, msg := runQuery(c)
	if msg != "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": msg})
		return
	}
	runs, err := h.services.RunLog.List(c.Request.Context(), q)
	if err != nil {
		h.runLogError(c, "runs_list_failed", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"count": len(runs), "runs": runs})
}

// @Summary      Run statistics
// @Description  Leaderboard, 2 mph speed bins, consistency and speed series over the filtered runs.
// @Tags         runs
// @Produce      json
// @Param        runner     query  string  false  "Runner name; All or empty for everyone"
// @Param        min_yards  query  number  false  "Minimum range in yards"
// @Param        max_yards  query  number  false  "Maximum range in yards"
// @Param        from       query  string  false  "Start of range"
// @Param        to         query  string  false  "End of range; date-only is end of day"
// @Param        all        query  bool    false  "Keep implausible runs"
// @Param        top        query  int     false  "Leaderboard size (default 10)"
// @Param        mine       query  bool    false  "Leaderboard for the selected runner only"
// @Success      200  {object}  models.RunStats
// @Failure      400  {object}  map[string]string
// @Failure      401  {object}  map[string]string
// @Failure      500  {object}  map[string]string
// @Router       /api/v1/runs/stats [get]
// @Security     BearerAuth
func (h *Handler) runStats(c *gin.Context) {
	q, msg := runQuery(c)
	if msg != "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": msg})
		return
	}
	st, err := h.services.RunLog.Stats(c.Request.Context(), q)
	if err != nil {
		h.runLogError(c, "runs_stats_failed", err)
		return
	}
	c.JSON(http.StatusOK, st)
}

// runLogError treats filter validation failures as bad requests.
func (h *Handler) runLogError(c *gin.Context, logKey string, err error) {
	if errors.Is(err, service.ErrInvalidRunFilter) {
		h.logAndJSONError(c, http.StatusBadRequest, err.Error(), logKey, err)
		return
	}
	h.logAndJSONError(c, http.StatusInternalServerError, "failed to load runs", logKey, err)
}
