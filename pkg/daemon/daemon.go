package daemon

import (
	"context"
	"errors"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/seasonx/seasonx/pkg/config"
	"github.com/seasonx/seasonx/pkg/dashboard"
	"github.com/seasonx/seasonx/pkg/events"
	"github.com/seasonx/seasonx/pkg/market"
	"github.com/seasonx/seasonx/pkg/metrics"
)

var (
	conf      config.Config
	store     *dashboard.Store
	sseHub    *events.EventHub
	collector *metrics.Metrics
	refresher *Scheduler

	// startup holds the settings that only take effect on restart.
	startup startupSettings
)

type startupSettings struct {
	provider   string
	mockDelay  time.Duration
	clickhouse config.ClickHouse
}

func setupRoutes() *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(ginLogger(logrus.StandardLogger()))
	router.GET("/version", getVersion)
	router.GET("/config", getConfig)
	router.PUT("/color-mode", setColorMode)
	router.PUT("/default-sector", setDefaultSector)
	router.PUT("/refresh-schedule", setRefreshSchedule)
	router.GET("/options", getOptions)
	router.GET("/refresh", getRefresh)
	router.POST("/refresh", postRefresh)
	router.GET("/metrics", gin.WrapH(collector.Handler()))

	router.GET("/sessions", getSessions)
	router.POST("/sessions", createSession)

	session := router.Group("/sessions/:id", withSession)
	session.GET("", getSession)
	session.DELETE("", deleteSession)
	session.GET("/view", getView)
	session.PUT("/select", selectDate)
	session.PUT("/zoom", setZoom)
	session.DELETE("/range", clearRange)
	session.PUT("/filters", setFilters)
	session.PUT("/sector", setSector)
	session.PUT("/compare", setCompareSector)
	session.GET("/indicators", getIndicators)
	session.GET("/chart", getChart)
	session.GET("/export", getExport)
	session.GET("/events", streamEvents)

	return router
}

// setup wires the package state around c. It is shared by Run and tests.
func setup(c config.Config, provider market.Provider) {
	conf = c
	startup = startupSettings{
		provider:   c.Provider(),
		mockDelay:  c.MockDelay(),
		clickhouse: c.ClickHouse(),
	}
	sseHub = events.NewEventHub()
	collector = metrics.New(sseHub.Subscribers)
	store = dashboard.NewStore(provider, conf.DefaultSector(), conf.Location())
	collector.Sessions.Set(1)
	refresher = NewScheduler(refreshTask, onRefreshError)
}

// reloadConfig re-reads the config and applies what can change at runtime:
// the refresh schedule, and the sector and time zone of new sessions. The
// data provider is only built at startup, so changes to it are reported.
func reloadConfig() error {
	if err := conf.Load(); err != nil {
		return err
	}

	if err := refresher.Schedule(conf.RefreshSchedule()); err != nil {
		logrus.Errorf("invalid refresh schedule %q, keeping %q: %v", conf.RefreshSchedule(), refresher.Expr(), err)
	}
	store.SetDefaults(conf.DefaultSector(), conf.Location())
	logrus.WithFields(logrus.Fields{
		"defaultSector": conf.DefaultSector(),
		"timezone":      conf.Location().String(),
	}).Info("new sessions use the reloaded sector and time zone, live sessions keep theirs")

	if conf.Provider() != startup.provider || conf.MockDelay() != startup.mockDelay || conf.ClickHouse() != startup.clickhouse {
		logrus.WithFields(logrus.Fields{
			"provider":  startup.provider,
			"mockDelay": startup.mockDelay.String(),
		}).Warn("data provider settings changed, restart the daemon to apply them")
	}

	publishConfig()
	return nil
}

func newProvider(ctx context.Context, c config.Config) (market.Provider, func(), error) {
	switch c.Provider() {
	case config.ProviderMock:
		return market.NewMockProvider(c.MockDelay()), func() {}, nil
	case config.ProviderClickHouse:
		ch := c.ClickHouse()
		p, err := market.NewClickHouseProvider(ctx, market.ClickHouseOptions{
			Addr:     ch.Addr,
			Database: ch.Database,
			Table:    ch.Table,
			Username: ch.Username,
			Password: ch.Password,
		})
		if err != nil {
			return nil, nil, err
		}
		return p, func() {
			if err := p.Close(); err != nil {
				logrus.Errorf("failed to close clickhouse connection: %v", err)
			}
		}, nil
	default:
		return nil, nil, errors.New("unknown provider " + c.Provider())
	}
}

func Run(configPath string, unixSocketPath string, allowNonRoot bool) error {
	c, err := config.NewFile(configPath)
	if err != nil {
		logrus.Fatalf("failed to parse config during startup: %v", err)
	}
	logrus.WithFields(c.LogrusFields()).Infof("config loaded")

	provider, closeProvider, err := newProvider(context.Background(), c)
	if err != nil {
		logrus.Fatalf("failed to set up %s provider: %v", c.Provider(), err)
	}
	defer closeProvider()

	setup(c, provider)
	router := setupRoutes()

	// Load the default session before accepting requests.
	initCtx, initCancel := context.WithTimeout(context.Background(), 30*time.Second)
	if err := refreshTask(initCtx); err != nil {
		logrus.Errorf("initial data load failed: %v", err)
	}
	initCancel()

	if err := refresher.Schedule(conf.RefreshSchedule()); err != nil {
		logrus.Errorf("invalid refresh schedule %q: %v", conf.RefreshSchedule(), err)
	}
	refresher.Start()

	// Receive SIGHUP to reload config
	go func() {
		sigc := make(chan os.Signal, 1)
		signal.Notify(sigc, syscall.SIGHUP)
		for range sigc {
			if err := reloadConfig(); err != nil {
				logrus.Errorf("failed to reload config: %v", err)
				continue
			}
			logrus.Infof("config reloaded")
		}
	}()

	srv := &http.Server{
		Handler: router,
	}

	// Create the socket to listen on:
	l, err := net.Listen("unix", unixSocketPath)
	if err != nil {
		logrus.Fatal(err)
	}

	if conf.AllowNonRootAccess() || allowNonRoot {
		logrus.Infof("non-root access is allowed, changing permissions of %s to 0777", unixSocketPath)
		err = os.Chmod(unixSocketPath, 0777)
		if err != nil {
			logrus.Fatal(err)
		}
	}

	// Serve HTTP on unix socket
	go func() {
		logrus.Infof("http server listening on %s", l.Addr().String())
		if err := srv.Serve(l); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logrus.Fatal(err)
		}
	}()

	var tcpSrv *http.Server
	if addr := conf.HTTPAddr(); addr != "" {
		tcpSrv = &http.Server{
			Addr:              addr,
			Handler:           router,
			ReadHeaderTimeout: 10 * time.Second,
		}
		go func() {
			logrus.Infof("http server listening on %s", addr)
			if err := tcpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				logrus.Fatal(err)
			}
		}()
	}

	// Handle common process-killing signals, so we can gracefully shut down:
	sigc := make(chan os.Signal, 1)
	signal.Notify(sigc, syscall.SIGINT, syscall.SIGTERM)
	// Wait for a SIGINT or SIGTERM:
	sig := <-sigc
	logrus.Infof("caught signal \"%s\": shutting down.", sig)

	logrus.Info("stopping refresh scheduler")
	refresher.Stop()

	// Streaming handlers only return once their channel is closed.
	logrus.Info("disconnecting event subscribers")
	sseHub.Close()

	logrus.Info("shutting down http server")
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	err = srv.Shutdown(ctx)
	if err != nil {
		logrus.Errorf("failed to shutdown http server: %v", err)
	}
	if tcpSrv != nil {
		if err := tcpSrv.Shutdown(ctx); err != nil {
			logrus.Errorf("failed to shutdown tcp http server: %v", err)
		}
	}
	cancel()

	logrus.Info("exiting")
	return nil
}
