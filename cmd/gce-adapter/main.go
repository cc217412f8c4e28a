// Copyright 2025 The Nanobox GCE Adapter Authors
//
//    Licensed under the Apache License, Version 2.0 (the "License"); you may
//    not use this file except in compliance with the License. You may obtain
//    a copy of the License at
//
//         http://www.apache.org/licenses/LICENSE-2.0
//
//    Unless required by applicable law or agreed to in writing, software
//    distributed under the License is distributed on an "AS IS" BASIS, WITHOUT
//    WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied. See the
//    License for the specific language governing permissions and limitations
//    under the License.

package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"time"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/nanobox-io/gce-adapter/apiserver/controllers"
	"github.com/nanobox-io/gce-adapter/apiserver/routers"
	"github.com/nanobox-io/gce-adapter/auth"
	"github.com/nanobox-io/gce-adapter/catalog"
	"github.com/nanobox-io/gce-adapter/config"
	"github.com/nanobox-io/gce-adapter/database"
	"github.com/nanobox-io/gce-adapter/metrics"
	"github.com/nanobox-io/gce-adapter/providers"
	"github.com/nanobox-io/gce-adapter/util"
)

var (
	conf    = flag.String("config", config.DefaultConfigFilePath, "gce-adapter config file")
	version = flag.Bool("version", false, "prints version")
)

var Version string

func main() {
	flag.Parse()
	if *version {
		fmt.Println(Version)
		return
	}
	ctx, stop := signal.NotifyContext(context.Background(), signals...)
	defer stop()

	cfg, err := config.NewConfig(*conf)
	if err != nil {
		log.Fatalf("Fetching config: %+v", err)
	}

	logWriter, err := util.GetLoggingWriter(cfg.Logging.LogFile)
	if err != nil {
		log.Fatalf("fetching log writer: %+v", err)
	}
	slog.SetDefault(util.NewLogger(cfg.Logging, logWriter))

	store, err := database.NewCatalogStore(ctx, cfg.Database)
	if err != nil {
		log.Fatalf("opening catalog store: %+v", err)
	}
	defer store.Close() //nolint

	synchronizer := catalog.NewSynchronizer(store, cfg.Catalog.PriceList)
	controller, err := controllers.NewAPIController(synchronizer)
	if err != nil {
		log.Fatalf("failed to create controller: %+v", err)
	}

	authMiddleware, err := auth.NewServiceAccountMiddleware(providers.NewFactory(cfg.GCE))
	if err != nil {
		log.Fatal(err)
	}

	var metricsHandler http.Handler
	if cfg.Metrics.Enable {
		slog.InfoContext(ctx, "registering prometheus metrics collectors")
		if err := metrics.RegisterMetrics(); err != nil {
			log.Fatal(err)
		}
		metricsHandler = promhttp.Handler()
	}

	router := routers.NewAPIRouter(controller, logWriter, authMiddleware, metricsHandler)

	corsMw := mux.CORSMethodMiddleware(router)
	router.Use(corsMw)

	allowedOrigins := handlers.AllowedOrigins(cfg.APIServer.CORSOrigins)
	methodsOk := handlers.AllowedMethods([]string{"GET", "HEAD", "POST", "PATCH", "OPTIONS", "DELETE"})
	headersOk := handlers.AllowedHeaders([]string{"X-Requested-With", "Content-Type", auth.ServiceAccountHeader})

	srv := &http.Server{
		Addr:              cfg.APIServer.BindAddress(),
		Handler:           handlers.CORS(methodsOk, headersOk, allowedOrigins)(router),
		ReadHeaderTimeout: 30 * time.Second,
	}

	listener, err := net.Listen("tcp", srv.Addr)
	if err != nil {
		log.Fatalf("creating listener: %q", err)
	}

	go func() {
		slog.InfoContext(ctx, "starting api server", "address", srv.Addr, "tls", cfg.APIServer.UseTLS)
		if cfg.APIServer.UseTLS {
			tlsCfg, err := cfg.APIServer.APITLSConfig()
			if err != nil {
				slog.With(slog.Any("error", err)).ErrorContext(ctx, "loading TLS config")
				stop()
				return
			}
			srv.TLSConfig = tlsCfg
			if err := srv.ServeTLS(listener, "", ""); err != http.ErrServerClosed {
				slog.With(slog.Any("error", err)).ErrorContext(ctx, "listening")
			}
		} else {
			if err := srv.Serve(listener); err != http.ErrServerClosed {
				slog.With(slog.Any("error", err)).ErrorContext(ctx, "listening")
			}
		}
	}()

	<-ctx.Done()
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.With(slog.Any("error", err)).Error("graceful api server shutdown failed")
		os.Exit(1)
	}
}
