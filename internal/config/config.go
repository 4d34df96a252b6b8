// Package config provides functionality for managing configuration options
// for the application using command-line flags, environment variables and an
// optional JSON configuration file.
package config

import (
	"encoding/json"
	"flag"
	"os"
	"strconv"
)

// Options holds the configuration values for the application.
type Options struct {
	// Port defines the server's listening address (ip:port).
	Port string `json:"server_address"`

	// ResultHostname is the base URL used to compose short links.
	ResultHostname string `json:"base_url"`

	// DatabaseDSN holds the database connection string. When empty the
	// server falls back to in-memory storage.
	DatabaseDSN string `json:"database_dsn"`

	// AdminUsername and AdminPassword describe the admin account seeded
	// at startup when both are set.
	AdminUsername string `json:"admin_username"`
	AdminPassword string `json:"admin_password"`

	// EnablePprof indicates whether to enable pprof for performance profiling.
	EnablePprof bool `json:"enable_pprof"`

	// EnableHTTPS indicates whether to enable https. Session cookies are
	// marked Secure when it is set.
	EnableHTTPS bool `json:"enable_https"`

	// Config is the path to a JSON configuration file.
	Config string `json:"-"`
}

// options holds the current configuration values.
var options = &Options{}

// init initializes command-line flags and sets default values.
func init() {
	flag.StringVar(&options.Port, "a", "localhost:8080", "run on ip:port server")
	flag.StringVar(&options.ResultHostname, "b", "http://localhost:8080", "result base url")
	flag.StringVar(&options.DatabaseDSN, "d", "", "db address")
	flag.BoolVar(&options.EnablePprof, "p", false, "enable pprof")
	flag.BoolVar(&options.EnableHTTPS, "s", false, "enable https")
	flag.StringVar(&options.Config, "c", "", "path to a json config file")
}

// Parse parses the command-line flags, the optional config file and the
// environment to produce the effective configuration. Environment variables
// take precedence over the config file, which takes precedence over flags.
func Parse() *Options {
	flag.Parse()

	if configPath := os.Getenv("CONFIG"); configPath != "" {
		options.Config = configPath
	}

	if options.Config != "" {
		if err := applyConfigFile(options.Config); err != nil {
			panic(err)
		}
	}

	if serverAddress := os.Getenv("SERVER_ADDRESS"); serverAddress != "" {
		options.Port = serverAddress
	}

	if baseURL := os.Getenv("BASE_URL"); baseURL != "" {
		options.ResultHostname = baseURL
	}

	if dsn := os.Getenv("DATABASE_DSN"); dsn != "" {
		options.DatabaseDSN = dsn
	}

	if adminUsername := os.Getenv("ADMIN_USERNAME"); adminUsername != "" {
		options.AdminUsername = adminUsername
	}

	if adminPassword := os.Getenv("ADMIN_PASSWORD"); adminPassword != "" {
		options.AdminPassword = adminPassword
	}

	if enableHTTPS := os.Getenv("ENABLE_HTTPS"); enableHTTPS != "" {
		httpsMode, err := strconv.ParseBool(enableHTTPS)
		if err != nil {
			httpsMode = false
		}

		options.EnableHTTPS = httpsMode
	}

	return options
}

// applyConfigFile overlays non-empty values from a JSON file onto the
// current options.
func applyConfigFile(path string) error {
	content, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	var fileOptions Options
	if err := json.Unmarshal(content, &fileOptions); err != nil {
		return err
	}

	if fileOptions.Port != "" {
		options.Port = fileOptions.Port
	}
	if fileOptions.ResultHostname != "" {
		options.ResultHostname = fileOptions.ResultHostname
	}
	if fileOptions.DatabaseDSN != "" {
		options.DatabaseDSN = fileOptions.DatabaseDSN
	}
	if fileOptions.AdminUsername != "" {
		options.AdminUsername = fileOptions.AdminUsername
	}
	if fileOptions.AdminPassword != "" {
		options.AdminPassword = fileOptions.AdminPassword
	}
	if fileOptions.EnablePprof {
		options.EnablePprof = true
	}
	if fileOptions.EnableHTTPS {
		options.EnableHTTPS = true
	}

	return nil
}
