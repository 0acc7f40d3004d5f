package main

import (
	"fmt"
	"net/http"
	"time"

	"github.com/magic-lib/go-plat-hotcache/cache"
	"github.com/magic-lib/go-plat-hotcache/config"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// app 子命令共享的运行环境
type app struct {
	cfg      *config.Config
	logger   *zap.Logger
	registry *prometheus.Registry
	metrics  *cache.Metrics
	server   *http.Server
}

func newRootCmd() (*cobra.Command, *app) {
	var cfgFile string
	v := config.NewViper()
	a := &app{}

	root := &cobra.Command{
		Use:           "hotcache",
		Short:         "Hot ranking cache and bulk link processing for the analytics dashboard",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.init(v, cfgFile)
		},
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
	}

	flags := root.PersistentFlags()
	flags.StringVar(&cfgFile, "config", "", "config file (yaml)")
	flags.String("metrics-addr", "", "serve prometheus metrics on this address, e.g. :9090")
	flags.String("log-level", "info", "debug, info, warn or error")
	_ = v.BindPFlag("metrics_addr", flags.Lookup("metrics-addr"))
	_ = v.BindPFlag("log_level", flags.Lookup("log-level"))

	root.AddCommand(newBulkCmd(a), newRankCmd(a))
	return root, a
}

func (a *app) init(v *viper.Viper, cfgFile string) error {
	cfg, err := config.Load(v, cfgFile)
	if err != nil {
		return err
	}
	a.cfg = cfg

	level, err := zapcore.ParseLevel(cfg.LogLevel)
	if err != nil {
		return fmt.Errorf("log level: %w", err)
	}
	zcfg := zap.NewDevelopmentConfig()
	zcfg.Level = zap.NewAtomicLevelAt(level)
	if a.logger, err = zcfg.Build(); err != nil {
		return err
	}

	a.registry = prometheus.NewRegistry()
	a.registry.MustRegister(collectors.NewGoCollector())
	a.metrics = cache.NewMetrics("hotcache", a.registry)

	if cfg.MetricsAddr != "" {
		mux := http.NewServeMux()
		mux.Handle("/metrics", promhttp.HandlerFor(a.registry, promhttp.HandlerOpts{}))
		mux.HandleFunc("/health", func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusOK)
			_, _ = w.Write([]byte("OK"))
		})
		a.server = &http.Server{Addr: cfg.MetricsAddr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}
		go func() {
			if err := a.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				a.logger.Error("metrics server stopped", zap.Error(err))
			}
		}()
		a.logger.Info("metrics server started", zap.String("addr", cfg.MetricsAddr))
	}
	return nil
}

// close 命令执行失败时同样需要调用
func (a *app) close() {
	if a.server != nil {
		_ = a.server.Close()
	}
	if a.logger != nil {
		_ = a.logger.Sync()
	}
}
