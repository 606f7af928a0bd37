package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/vengy/folio"
	"github.com/vengy/folio/logger"
)

var (
	cfgFile string
	logMode string
	siteCfg folio.SiteConfig
	log     *logger.Logger
)

var v = viper.New()

var rootCmd = &cobra.Command{
	Use:   "folio",
	Short: "folio - a small portfolio site with a blog",
	Long: `folio serves a home page, a blog with expandable posts and a contact page.
Posts come from a content directory (an index plus one Markdown file per
post), a SQLite file, or the built-in demo set.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		l, err := logger.New(logMode)
		if err != nil {
			return fmt.Errorf("create logger: %w", err)
		}
		log = l
		return initializeConfig(cmd)
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if log != nil {
			log.Sync()
		}
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./config.yaml)")
	rootCmd.PersistentFlags().StringVar(&logMode, "log", "development", "log mode: development or production")
	rootCmd.PersistentFlags().String("source", "", "post source: files, sqlite or demo")
	rootCmd.PersistentFlags().String("content", "", "content directory")
	rootCmd.PersistentFlags().String("db", "", "sqlite database path")
	_ = v.BindPFlag("source", rootCmd.PersistentFlags().Lookup("source"))
	_ = v.BindPFlag("contentDir", rootCmd.PersistentFlags().Lookup("content"))
	_ = v.BindPFlag("databasePath", rootCmd.PersistentFlags().Lookup("db"))
}

func initializeConfig(_ *cobra.Command) error {
	// Defaults register every key with viper so FOLIO_* variables apply
	// even when config.yaml doesn't mention them.
	defaults := folio.Defaults()
	v.SetDefault("profile.name", defaults.Profile.Name)
	v.SetDefault("profile.tagline", "")
	v.SetDefault("profile.githubURL", "")
	v.SetDefault("profile.email", "")
	v.SetDefault("profile.htmxPath", "")
	v.SetDefault("url", defaults.URL)
	v.SetDefault("description", "")
	v.SetDefault("addr", defaults.Addr)
	v.SetDefault("source", defaults.Source)
	v.SetDefault("contentDir", defaults.ContentDir)
	v.SetDefault("indexFile", defaults.IndexFile)
	v.SetDefault("databasePath", defaults.DatabasePath)
	v.SetDefault("staticDir", defaults.StaticDir)
	v.SetDefault("sessionSecret", "")
	v.SetDefault("cookieSecure", false)
	v.SetDefault("sessionTTL", defaults.SessionTTL)
	v.SetDefault("sessionsPerMinute", defaults.SessionsPerMinute)
	v.SetDefault("toggleWait", defaults.ToggleWait)
	v.SetDefault("watch", false)
	v.SetDefault("watchIgnore", defaults.WatchIgnore)

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		v.AddConfigPath(".")
		v.SetConfigName("config")
		v.SetConfigType("yaml")
	}

	v.SetEnvPrefix("FOLIO")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return fmt.Errorf("failed to read config file: %w", err)
		}
		if cfgFile != "" {
			return fmt.Errorf("config file %s not found: %w", cfgFile, err)
		}
		log.Debug("no config file found, using defaults and environment")
	} else {
		log.Info("using config file", "path", v.ConfigFileUsed())
	}

	if err := v.Unmarshal(&siteCfg); err != nil {
		return fmt.Errorf("unable to decode config into struct: %w", err)
	}
	return nil
}
