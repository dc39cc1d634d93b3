// Package config handles process settings: which environment we are, where
// the rules file lives, and where to listen.  This is used by both robotsd
// and robotsadmin.
package config

import (
	"log"
	"os"
	"strings"

	"github.com/spf13/viper"
)

const (
	keyAppEnv         = "app.env"
	keyAppURL         = "app_url"
	keyListenAddress  = "listen_address"
	keyRulesFile      = "rules_file"
	keyAllowedOrigins = "allowed_origins"
)

// Viper-based config loader
func Init() {
	home, err := os.UserHomeDir()
	if err != nil {
		home = "."
	}
	viper.SetConfigType("yaml")
	viper.SetConfigName(".robotstxt")
	viper.AddConfigPath(home)
	viper.AddConfigPath(".")
	viper.AutomaticEnv()
	viper.BindEnv(keyAppEnv, "APP_ENV")
	viper.BindEnv(keyAppURL, "ROBOTS_APP_URL")
	viper.BindEnv(keyListenAddress, "ROBOTS_LISTEN_ADDRESS")
	viper.BindEnv(keyRulesFile, "ROBOTS_RULES_FILE")
	viper.BindEnv(keyAllowedOrigins, "ROBOTS_ALLOWED_ORIGINS")
	viper.SetDefault(keyAppEnv, "production")
	viper.SetDefault(keyAppURL, "")
	viper.SetDefault(keyListenAddress, ":8080")
	viper.SetDefault(keyRulesFile, "robots-txt.yaml")
	viper.SetDefault(keyAllowedOrigins, []string{})
	err = viper.ReadInConfig() // ignore error if config file missing
	if err != nil {
		log.Printf("viper can't read config file: %v", err)
	}
	log.Printf("Using environment: %s", AppEnv())
	log.Printf("Using rules file: %s", RulesFile())
	log.Printf("Using listen address: %s", ListenAddress())
}

// AppEnv is the current environment, the key into the rules file.
func AppEnv() string {
	return viper.GetString(keyAppEnv)
}

// AppURL is the base for absolute sitemap URLs.  Empty means use the
// request's host.
func AppURL() string {
	return viper.GetString(keyAppURL)
}

func ListenAddress() string {
	return viper.GetString(keyListenAddress)
}

func RulesFile() string {
	return viper.GetString(keyRulesFile)
}

// AllowedOrigins accepts a YAML list or a comma-separated string (from the
// environment).
func AllowedOrigins() []string {
	origins := []string{}
	for _, o := range viper.GetStringSlice(keyAllowedOrigins) {
		for _, part := range strings.Split(o, ",") {
			if part = strings.TrimSpace(part); part != "" {
				origins = append(origins, part)
			}
		}
	}
	return origins
}
