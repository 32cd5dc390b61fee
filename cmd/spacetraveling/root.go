package main

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"

	"github.com/joho/godotenv"
	"github.com/labstack/gommon/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/eringen/spacetraveling"
)

// contentConfig configures the local content API and importer.
type contentConfig struct {
	Dir      string `mapstructure:"dir"`
	Database string `mapstructure:"database"`
	Addr     string `mapstructure:"addr"`
}

type config struct {
	Site    spacetraveling.SiteConfig `mapstructure:",squash"`
	Content contentConfig             `mapstructure:"content"`
}

var (
	cfgFile   string
	appConfig config
	logger    = newLogger()
)

var rootCmd = &cobra.Command{
	Use:   "spacetraveling",
	Short: "A blog front-end for Prismic-style content APIs",
	Long: `spacetraveling renders a blog from a headless content API, either as a live
server or as a pre-rendered static site. It ships a local content API backed by
SQLite and fed from markdown files for development.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return initializeConfig(cmd)
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./config.yaml)")
}

func newLogger() *log.Logger {
	l := log.New("spacetraveling")
	l.SetLevel(log.INFO)
	l.SetHeader("${time_rfc3339} ${level} ${prefix}")
	return l
}

// initializeConfig loads .env, then config.yaml, then SPACETRAVELING_*
// environment variables, then flags bound to config keys.
func initializeConfig(cmd *cobra.Command) error {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("load .env: %w", err)
	}

	v := viper.New()
	setDefaults(v)

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		v.AddConfigPath(".")
		v.SetConfigName("config")
		v.SetConfigType("yaml")
	}

	v.SetEnvPrefix("SPACETRAVELING")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) || cfgFile != "" {
			return fmt.Errorf("read config: %w", err)
		}
		logger.Info("no config file found, using defaults and environment")
	} else {
		logger.Infof("using config file %s", v.ConfigFileUsed())
	}

	if err := bindFlags(cmd, v); err != nil {
		return err
	}

	if err := v.Unmarshal(&appConfig); err != nil {
		return fmt.Errorf("decode config: %w", err)
	}
	return nil
}

// setDefaults registers every key so environment variables can override
// keys absent from the config file.
func setDefaults(v *viper.Viper) {
	v.SetDefault("name", "spacetraveling")
	v.SetDefault("url", "http://localhost:3000")
	v.SetDefault("description", "")
	v.SetDefault("author", "")
	v.SetDefault("locale", "pt-BR")
	v.SetDefault("addr", ":3000")
	v.SetDefault("api_endpoint", "http://localhost:4000/api/v2")
	v.SetDefault("access_token", "")
	v.SetDefault("document_type", "posts")
	v.SetDefault("page_size", 2)
	v.SetDefault("orderings", "")
	v.SetDefault("request_timeout", "10s")
	v.SetDefault("retry_after", 5)
	v.SetDefault("session_secret", "")
	v.SetDefault("cookie_secure", false)
	v.SetDefault("preview_rate_limit", 10)
	v.SetDefault("output_dir", "dist")
	v.SetDefault("prerender_limit", 0)
	v.SetDefault("optimize_banners", false)
	v.SetDefault("content.dir", "content")
	v.SetDefault("content.database", "data/content.db")
	v.SetDefault("content.addr", ":4000")
}

// flagKeys maps command flags onto config keys.
var flagKeys = map[string]string{
	"addr":     "addr",
	"out":      "output_dir",
	"content":  "content.dir",
	"database": "content.database",
	"api-addr": "content.addr",
}

func bindFlags(cmd *cobra.Command, v *viper.Viper) error {
	for name, key := range flagKeys {
		if f := cmd.Flags().Lookup(name); f != nil {
			if err := v.BindPFlag(key, f); err != nil {
				return fmt.Errorf("bind flag %s: %w", name, err)
			}
		}
	}
	return nil
}
