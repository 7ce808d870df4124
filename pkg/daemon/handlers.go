package daemon

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/seasonx/seasonx/pkg/config"
	"github.com/seasonx/seasonx/pkg/events"
	"github.com/seasonx/seasonx/pkg/market"
	"github.com/seasonx/seasonx/pkg/metrics"
	"github.com/seasonx/seasonx/pkg/types"
	"github.com/seasonx/seasonx/pkg/version"
)

func getVersion(c *gin.Context) {
	c.IndentedJSON(http.StatusOK, version.Version)
}

func getConfig(c *gin.Context) {
	fc, err := config.NewRawFileConfigFromConfig(conf)
	if err != nil {
		_ = c.AbortWithError(http.StatusInternalServerError, err)
		return
	}
	c.IndentedJSON(http.StatusOK, fc)
}

func getOptions(c *gin.Context) {
	c.IndentedJSON(http.StatusOK, types.Options{
		Markets:   market.Markets,
		Seasons:   market.Seasons,
		Sectors:   market.Sectors,
		ColorMode: string(conf.ColorMode()),
	})
}

func setColorMode(c *gin.Context) {
	var s string
	if err := c.BindJSON(&s); err != nil {
		abortWithError(c, http.StatusBadRequest, err)
		return
	}

	m, err := config.ParseColorMode(s)
	if err != nil {
		abortWithError(c, http.StatusBadRequest, err)
		return
	}

	conf.SetColorMode(m)
	if err := conf.Save(); err != nil {
		logrus.Errorf("saveConfig failed: %v", err)
		abortWithError(c, http.StatusInternalServerError, err)
		return
	}

	logrus.Infof("set color mode to %s", m)
	publishConfig()

	c.IndentedJSON(http.StatusCreated, m)
}

func setDefaultSector(c *gin.Context) {
	var sector string
	if err := c.BindJSON(&sector); err != nil {
		abortWithError(c, http.StatusBadRequest, err)
		return
	}

	if err := market.ValidateSector(sector); err != nil {
		abortWithError(c, http.StatusBadRequest, err)
		return
	}

	conf.SetDefaultSector(sector)
	if err := conf.Save(); err != nil {
		logrus.Errorf("saveConfig failed: %v", err)
		abortWithError(c, http.StatusInternalServerError, err)
		return
	}
	store.SetDefaults(conf.DefaultSector(), conf.Location())

	logrus.Infof("set default sector to %s", sector)

	c.IndentedJSON(http.StatusCreated, sector)
}

// setRefreshSchedule takes a cron expression; an empty one disables
// scheduled refreshes.
func setRefreshSchedule(c *gin.Context) {
	var expr string
	if err := c.BindJSON(&expr); err != nil {
		abortWithError(c, http.StatusBadRequest, err)
		return
	}

	if err := refresher.Schedule(expr); err != nil {
		abortWithError(c, http.StatusBadRequest, err)
		return
	}

	conf.SetRefreshSchedule(expr)
	if err := conf.Save(); err != nil {
		logrus.Errorf("saveConfig failed: %v", err)
		abortWithError(c, http.StatusInternalServerError, err)
		return
	}

	logrus.Infof("set refresh schedule to %q", expr)

	c.IndentedJSON(http.StatusCreated, refreshStatus())
}

func getRefresh(c *gin.Context) {
	c.IndentedJSON(http.StatusOK, refreshStatus())
}

func postRefresh(c *gin.Context) {
	if err := refresher.RunNow(c.Request.Context()); err != nil {
		abortWithError(c, http.StatusInternalServerError, err)
		return
	}
	c.IndentedJSON(http.StatusCreated, refreshStatus())
}

func refreshStatus() types.RefreshStatus {
	st := types.RefreshStatus{Schedule: refresher.Expr()}

	next, running := refresher.Status()
	st.Running = running
	if !next.IsZero() {
		st.NextRun = &next
	}
	last, err := refresher.LastRun()
	if !last.IsZero() {
		st.LastRun = &last
	}
	if err != nil {
		st.LastError = err.Error()
	}
	return st
}

// refreshTask reloads the rows of every session and tells subscribers.
func refreshTask(ctx context.Context) error {
	err := store.RefreshAll(ctx)
	collector.Refreshes.WithLabelValues(metrics.Result(err)).Inc()
	for _, id := range store.IDs() {
		publishSession(id, "refresh")
	}
	return err
}

func onRefreshError(data any) {
	logrus.Warnf("scheduled refresh: %v", data)
}

func publishConfig() {
	sseHub.Publish(events.ConfigUpdated, events.ConfigEvent{
		ColorMode: string(conf.ColorMode()),
		Ts:        time.Now().Unix(),
	})
}

func publishSession(id, reason string) {
	sseHub.Publish(events.SessionUpdated, events.SessionEvent{
		Session: id,
		Reason:  reason,
		Ts:      time.Now().Unix(),
	})
}
