package main

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"go.uber.org/zap"
	"golang.org/x/crypto/acme/autocert"

	"github.com/akulikov/go-shortlink/internal/app/server"
	"github.com/akulikov/go-shortlink/internal/app/service"
	"github.com/akulikov/go-shortlink/internal/config"
	"github.com/akulikov/go-shortlink/internal/logger"
	"github.com/akulikov/go-shortlink/internal/repository"
	"github.com/akulikov/go-shortlink/internal/storage"

	_ "net/http/pprof"
)

var buildVersion string
var buildDate string
var buildCommit string

func main() {
	options := config.Parse()
	hostname := options.Port
	resultHostname := options.ResultHostname
	dbName := options.DatabaseDSN
	useTLS := options.EnableHTTPS

	fmt.Printf("Build version: %s\n", buildVersion)
	fmt.Printf("Build date: %s\n", buildDate)
	fmt.Printf("Build commit: %s\n", buildCommit)

	log := logger.New()
	defer func() {
		_ = log.Log.Sync()
	}()

	err := log.Init("Info")
	zapLogger := log.Log
	if err != nil {
		panic(err)
	}

	if options.EnablePprof {
		go func() {
			zapLogger.Info("Starting pprof server", zap.String("addr", "localhost:6060"))
			if err := http.ListenAndServe("localhost:6060", nil); err != nil {
				zapLogger.Error("pprof server error", zap.Error(err))
			}
		}()
	}

	var links service.LinkStorage
	var users service.UserStorage

	if dbName != "" {
		zapLogger.Info("using db", zap.String("dbName", dbName))
		db := repository.InitDB(dbName, zapLogger)
		defer db.Close()
		links = repository.CreateLinkRepository(db, zapLogger)
		users = repository.CreateUserRepository(db, zapLogger)
		zapLogger.Info("Database connected and tables ready.")
	} else {
		zapLogger.Info("using in memory storage")

		memory, err := storage.CreateMemoryStorage()
		if err != nil {
			panic(err)
		}
		links = memory
		users = memory
	}

	auth := service.NewAuth(users, zapLogger)

	if options.AdminUsername != "" && options.AdminPassword != "" {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		if err := auth.EnsureAdmin(ctx, options.AdminUsername, options.AdminPassword); err != nil {
			cancel()
			panic(err)
		}
		cancel()
		zapLogger.Info("admin account ready", zap.String("username", options.AdminUsername))
	}

	generator := service.NewCodeGenerator(service.DefaultCodeLength)
	urlService := service.NewURL(links, generator, zapLogger, resultHostname)

	r := server.Init(zapLogger, urlService, auth, useTLS)

	if useTLS {
		manager := &autocert.Manager{
			Cache:  autocert.DirCache("cache-dir"),
			Prompt: autocert.AcceptTOS,
		}
		srv := &http.Server{
			Addr:      ":443",
			Handler:   r,
			TLSConfig: manager.TLSConfig(),
		}
		zapLogger.Info("Server is running with TLS", zap.String("hostname", hostname))
		if err := srv.ListenAndServeTLS("", ""); err != nil {
			panic(err)
		}
	} else {
		zapLogger.Info("Server is running", zap.String("hostname", hostname))
		err = http.ListenAndServe(hostname, r)

		if err != nil {
			panic(err)
		}
	}
}
