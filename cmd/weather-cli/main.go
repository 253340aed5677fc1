package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"weather-lookup/config"
	"weather-lookup/internal/models"
	"weather-lookup/internal/repositories"
	"weather-lookup/internal/services/weather"
	"weather-lookup/pkg/logger"
)

var errLookupFailed = errors.New("lookup failed")

type cliOptions struct {
	configPath string
	provider   string
	baseURL    string
	lang       string
	verbose    bool
}

func main() {
	if err := newRootCmd(os.Stdout, os.Stderr).Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd(stdout, stderr io.Writer) *cobra.Command {
	opts := &cliOptions{}

	cmd := &cobra.Command{
		Use:           "weather-cli [city...]",
		Short:         "Show the current weather for a city",
		Example:       "  weather-cli Madrid\n  weather-cli --lang en San Francisco",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cnf, err := loadConfig(cmd, opts)
			if err != nil {
				fmt.Fprintln(stderr, err)
				return err
			}

			l := logger.NewZapLogger(cnf.App.Name, stderr)
			l.SetEnv(cnf.App.Env)
			level := "warn"
			if opts.verbose {
				level = "debug"
			}
			_ = l.SetLevel(level)
			defer l.Stop()

			repo, err := repositories.InitWeatherRepository(cnf, l)
			if err != nil {
				fmt.Fprintln(stderr, err)
				return err
			}

			return runLookup(cmd.Context(), weather.NewController(repo, l), strings.Join(args, " "), stdout, stderr)
		},
	}

	cmd.Flags().StringVar(&opts.configPath, "config", config.DefaultConfigPath, "path to the YAML config file")
	cmd.Flags().StringVar(&opts.provider, "provider", "", "weather provider (openweathermap, open-meteo)")
	cmd.Flags().StringVar(&opts.baseURL, "base-url", "", "override the provider endpoint")
	cmd.Flags().StringVar(&opts.lang, "lang", "", "language of the condition description")
	cmd.Flags().BoolVarP(&opts.verbose, "verbose", "v", false, "log requests to stderr")

	return cmd
}

func loadConfig(cmd *cobra.Command, opts *cliOptions) (*config.Config, error) {
	provider := config.NewFileConfigProvider(opts.configPath)

	cnf, err := provider.Load()
	if err != nil {
		return nil, err
	}

	flags := cmd.Flags()
	if flags.Changed("provider") {
		cnf.Weather.Provider = opts.provider
	}
	if flags.Changed("base-url") {
		cnf.Weather.BaseURL = opts.baseURL
	}
	if flags.Changed("lang") {
		cnf.Weather.Lang = opts.lang
	}

	if err := provider.Validate(cnf); err != nil {
		return nil, err
	}

	return cnf, nil
}

// runLookup drives one lookup and renders the controller's state as text.
func runLookup(ctx context.Context, c *weather.Controller, query string, stdout, stderr io.Writer) error {
	c.Subscribe(func(s models.State) {
		if s.Busy {
			fmt.Fprintf(stderr, "Buscando %s...\n", strings.TrimSpace(s.Query))
		}
	})

	c.FetchWeather(ctx, query)

	s := c.State()
	if s.Result == nil {
		fmt.Fprintln(stderr, s.ErrorMessage)
		return errLookupFailed
	}

	w := s.Result
	fmt.Fprintln(stdout, w.LocationName)
	fmt.Fprintf(stdout, "🌡️ %.1f°C\n", w.TemperatureCelsius)
	fmt.Fprintf(stdout, "🌤️ %s\n", w.ConditionDescription)
	if w.IconURL != "" {
		fmt.Fprintln(stdout, w.IconURL)
	}

	return nil
}
