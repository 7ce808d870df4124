package daemon

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/seasonx/seasonx/pkg/calendar"
	"github.com/seasonx/seasonx/pkg/dashboard"
	"github.com/seasonx/seasonx/pkg/events"
	"github.com/seasonx/seasonx/pkg/export"
	"github.com/seasonx/seasonx/pkg/metrics"
	"github.com/seasonx/seasonx/pkg/types"
)

const sessionKey = "session"

var errInvalidZoom = errors.New("zoom direction must be in or out")

// withSession resolves the :id path parameter for every session route.
func withSession(c *gin.Context) {
	s, err := store.Get(c.Param("id"))
	if err != nil {
		abortWithError(c, http.StatusNotFound, err)
		return
	}
	c.Set(sessionKey, s)
	c.Next()
}

func sessionFrom(c *gin.Context) *dashboard.Session {
	return c.MustGet(sessionKey).(*dashboard.Session)
}

func getSessions(c *gin.Context) {
	c.IndentedJSON(http.StatusOK, store.IDs())
}

func createSession(c *gin.Context) {
	s, err := store.Create(c.Request.Context())
	if err != nil {
		abortWithError(c, statusFor(err), err)
		return
	}
	collector.Sessions.Set(float64(len(store.IDs())))

	c.IndentedJSON(http.StatusCreated, s.Snapshot())
}

func deleteSession(c *gin.Context) {
	id := sessionFrom(c).ID()
	if err := store.Delete(id); err != nil {
		abortWithError(c, statusFor(err), err)
		return
	}
	collector.Sessions.Set(float64(len(store.IDs())))
	sseHub.Publish(events.SessionRemoved, events.SessionEvent{
		Session: id,
		Reason:  "removed",
		Ts:      time.Now().Unix(),
	})

	c.IndentedJSON(http.StatusOK, "ok")
}

func getSession(c *gin.Context) {
	c.IndentedJSON(http.StatusOK, sessionFrom(c).Snapshot())
}

func getView(c *gin.Context) {
	s := sessionFrom(c)

	ref := time.Now().In(s.Location())
	if q := c.Query("date"); q != "" {
		d, err := calendar.ParseDay(q, s.Location())
		if err != nil {
			abortWithError(c, http.StatusBadRequest, err)
			return
		}
		ref = d
	}

	c.IndentedJSON(http.StatusOK, s.View(ref))
}

func selectDate(c *gin.Context) {
	s := sessionFrom(c)

	var q string
	if err := c.BindJSON(&q); err != nil {
		abortWithError(c, http.StatusBadRequest, err)
		return
	}
	d, err := calendar.ParseDay(q, s.Location())
	if err != nil {
		abortWithError(c, http.StatusBadRequest, err)
		return
	}

	r := s.SelectDate(d)
	phase := selectionPhase(r)
	collector.Selections.WithLabelValues(phase).Inc()
	logrus.WithFields(logrus.Fields{
		"session": s.ID(),
		"date":    q,
		"phase":   phase,
	}).Debug("date selected")
	publishSession(s.ID(), "select")

	c.IndentedJSON(http.StatusCreated, s.Snapshot())
}

// selectionPhase names what a click did to the range.
func selectionPhase(r calendar.DateRange) string {
	switch {
	case r.Complete():
		return "end"
	case r.Start != nil:
		return "start"
	default:
		return "reset"
	}
}

func setZoom(c *gin.Context) {
	s := sessionFrom(c)

	var dir string
	if err := c.BindJSON(&dir); err != nil {
		abortWithError(c, http.StatusBadRequest, err)
		return
	}

	var l calendar.Level
	switch strings.ToLower(dir) {
	case "in":
		l = s.ZoomIn()
	case "out":
		l = s.ZoomOut()
	default:
		abortWithError(c, http.StatusBadRequest, fmt.Errorf("%w, got %q", errInvalidZoom, dir))
		return
	}
	collector.Zooms.WithLabelValues(strings.ToLower(dir), string(l)).Inc()
	publishSession(s.ID(), "zoom")

	c.IndentedJSON(http.StatusCreated, l)
}

func clearRange(c *gin.Context) {
	s := sessionFrom(c)
	s.ClearRange()
	publishSession(s.ID(), "clear")

	c.IndentedJSON(http.StatusOK, s.Snapshot())
}

func setFilters(c *gin.Context) {
	s := sessionFrom(c)

	var f dashboard.Filters
	if err := c.BindJSON(&f); err != nil {
		abortWithError(c, http.StatusBadRequest, err)
		return
	}

	if err := s.SetFilters(c.Request.Context(), f); err != nil {
		abortWithError(c, statusFor(err), err)
		return
	}
	logrus.WithField("session", s.ID()).Infof("filters set to %+v", f)
	publishSession(s.ID(), "filters")

	c.IndentedJSON(http.StatusCreated, s.Snapshot())
}

func setSector(c *gin.Context) {
	s := sessionFrom(c)

	var sector string
	if err := c.BindJSON(&sector); err != nil {
		abortWithError(c, http.StatusBadRequest, err)
		return
	}

	if err := s.SetSector(c.Request.Context(), sector); err != nil {
		abortWithError(c, statusFor(err), err)
		return
	}
	publishSession(s.ID(), "filters")

	c.IndentedJSON(http.StatusCreated, s.Snapshot())
}

// setCompareSector stops comparing when given an empty sector.
func setCompareSector(c *gin.Context) {
	s := sessionFrom(c)

	var sector string
	if err := c.BindJSON(&sector); err != nil {
		abortWithError(c, http.StatusBadRequest, err)
		return
	}

	if err := s.SetCompareSector(c.Request.Context(), sector); err != nil {
		abortWithError(c, statusFor(err), err)
		return
	}
	publishSession(s.ID(), "filters")

	c.IndentedJSON(http.StatusCreated, s.Snapshot())
}

// getIndicators answers 204 until a date has been clicked.
func getIndicators(c *gin.Context) {
	ind, ok := sessionFrom(c).Indicators()
	if !ok {
		c.Status(http.StatusNoContent)
		return
	}
	c.IndentedJSON(http.StatusOK, types.NewIndicatorReadout(ind))
}

func getChart(c *gin.Context) {
	c.IndentedJSON(http.StatusOK, sessionFrom(c).Chart())
}

// getExport answers 204 when there are no rows to export.
func getExport(c *gin.Context) {
	s := sessionFrom(c)
	format := strings.ToLower(c.DefaultQuery("format", "csv"))

	var (
		b           []byte
		err         error
		name        string
		contentType string
	)
	switch format {
	case "csv":
		b, err = s.ExportCSV()
		name, contentType = export.CSVFileName, export.CSVContentType
	case "xlsx":
		b, err = s.ExportXLSX()
		name, contentType = export.XLSXFileName, export.XLSXContentType
	default:
		abortWithError(c, http.StatusBadRequest, fmt.Errorf("unknown export format %q, expected csv or xlsx", format))
		return
	}

	if errors.Is(err, export.ErrNoData) {
		collector.Exports.WithLabelValues(format, "empty").Inc()
		c.Status(http.StatusNoContent)
		return
	}
	collector.Exports.WithLabelValues(format, metrics.Result(err)).Inc()
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, err)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", name))
	c.Data(http.StatusOK, contentType, b)
}

// streamEvents relays the hub's events about this session, plus config
// changes, until the client leaves or the hub closes.
func streamEvents(c *gin.Context) {
	id := sessionFrom(c).ID()

	ch := sseHub.Subscribe()
	defer sseHub.Unsubscribe(ch)

	c.Header("Content-Type", "text/event-stream")
	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")
	c.Header("X-Accel-Buffering", "no")
	// Send the headers now so clients see the stream open before any event.
	c.Status(http.StatusOK)
	c.Writer.Flush()

	c.Stream(func(_ io.Writer) bool {
		select {
		case ev, ok := <-ch:
			if !ok {
				return false
			}
			if !concerns(ev, id) {
				return true
			}
			c.SSEvent(ev.Name, string(ev.Data))
			return true
		case <-c.Request.Context().Done():
			return false
		}
	})
}

func concerns(ev events.Event, id string) bool {
	switch ev.Name {
	case events.SessionUpdated, events.SessionRemoved:
		p, err := events.DecodeAs[events.SessionEvent](ev)
		return err == nil && p.Session == id
	default:
		return true
	}
}
