package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	betwallet "betwallet_client"
	"betwallet_client/pkg/auth"
	"betwallet_client/pkg/client"
	"betwallet_client/pkg/clock"
	"betwallet_client/pkg/config"
	"betwallet_client/pkg/handler"
	"betwallet_client/pkg/repository"
	"betwallet_client/pkg/service"
)

func main() {
	logrus.SetFormatter(new(logrus.JSONFormatter))
	logrus.Infoln("starting betwallet client gateway")
	if err := godotenv.Load(); err != nil {
		logrus.Infof("no .env loaded: %s", err)
	}

	cfg, err := config.Load(configDir())
	if err != nil {
		logrus.Fatalf("load config: %s", err.Error())
	}
	if level, err := logrus.ParseLevel(cfg.Log.Level); err == nil {
		logrus.SetLevel(level)
	}
	log := logrus.StandardLogger()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, err := repository.Open(ctx, cfg.RepositoryConfig())
	if err != nil {
		logrus.Fatalf("open %s storage: %s", cfg.Storage.Driver, err.Error())
	}
	defer store.Close()
	logrus.Infof("%s storage ready", cfg.Storage.Driver)

	clk := clock.Real()
	tr := client.NewTransport(client.Config{
		BaseURL:   cfg.Backend.BaseURL,
		Timeout:   cfg.Backend.Timeout,
		UserAgent: cfg.Backend.UserAgent,
	}, log)
	mgr := auth.NewManager(tr, store, clk, auth.Options{
		RefreshInterval: cfg.Auth.RefreshInterval,
		ExpiryLead:      cfg.Auth.ExpiryLead,
	}, log)
	defer mgr.Stop()

	api := client.NewAPIWithTransport(tr, mgr)
	svc := service.NewService(api, mgr, clk, log)

	restored, err := mgr.Restore(ctx)
	if err != nil {
		logrus.Warnf("restore session: %s", err)
	}
	if restored {
		report, err := svc.Bootstrap(ctx)
		switch {
		case err != nil:
			logrus.Warnf("bootstrap: %s", err)
		case !report.OK():
			logrus.WithField("failed", report.Sections()).Warn("bootstrap finished with errors")
		default:
			logrus.Info("session restored")
		}
	}

	h := handler.NewHandler(mgr, svc, api, store, handler.Options{
		AllowOrigins:       cfg.CORS.AllowOrigins,
		NavigateDelay:      cfg.Flow.NavigateDelay,
		SettlementInterval: cfg.Flow.SettlementInterval,
		SettlementTimeout:  cfg.Flow.SettlementTimeout,
		Clock:              clk,
	}, log)

	srv := new(betwallet.Server)
	go func() {
		if err := srv.Run(cfg.Port, h.InitRoute()); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logrus.Fatalf("run server: %s", err)
		}
	}()
	logrus.Infof("listening on :%s", cfg.Port)

	<-ctx.Done()
	logrus.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logrus.Errorf("shutdown: %s", err)
	}
}

func configDir() string {
	if dir := os.Getenv("BETWALLET_CONFIG_DIR"); dir != "" {
		return dir
	}
	return "configs"
}
