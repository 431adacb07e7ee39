package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/nerdwave-nick/pokedex/internal/api"
	"github.com/nerdwave-nick/pokedex/internal/api/health"
	pokemonapi "github.com/nerdwave-nick/pokedex/internal/api/pokemon"
	"github.com/nerdwave-nick/pokedex/internal/pokeapi"
	"github.com/nerdwave-nick/pokedex/internal/pokedex"
	"github.com/nerdwave-nick/pokedex/internal/web"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

type RootOptions struct {
	LogLevel      string
	APIURL        string
	DBPath        string
	GCInterval    int
	L2CacheTTL    int
	L1CacheTTL    int
	L1CacheSize   int
	RedisAddr     string
	RedisPassword string
	RedisDB       int
	Concurrency   int
	HTTPTimeout   int
	Port          int
	CORSOrigins   []string
}

func (o *RootOptions) Validate() error {
	concatErr := func(err error, olderr error) error {
		if olderr != nil {
			return fmt.Errorf("%s\n%w", err.Error(), olderr)
		}
		return err
	}
	var err error
	if o.APIURL == "" {
		err = concatErr(fmt.Errorf("api-url can't be empty"), err)
	}
	if o.DBPath == "" {
		err = concatErr(fmt.Errorf("db-path can't be empty"), err)
	}
	if o.L2CacheTTL <= 0 {
		err = concatErr(fmt.Errorf("l2-ttl must be greater than 0"), err)
	}
	if o.L1CacheTTL <= 0 {
		err = concatErr(fmt.Errorf("l1-ttl must be greater than 0"), err)
	}
	if o.L1CacheSize <= 0 {
		err = concatErr(fmt.Errorf("l1-size must be greater than 0"), err)
	}
	if o.GCInterval <= 0 {
		err = concatErr(fmt.Errorf("gc-interval must be greater than 0"), err)
	}
	if o.RedisDB < 0 {
		err = concatErr(fmt.Errorf("redis-db can't be negative"), err)
	}
	if o.Concurrency <= 0 {
		err = concatErr(fmt.Errorf("concurrency must be greater than 0"), err)
	}
	if o.HTTPTimeout <= 0 {
		err = concatErr(fmt.Errorf("http-timeout must be greater than 0"), err)
	}
	if o.Port <= 0 || o.Port > 65535 {
		err = concatErr(fmt.Errorf("port must be between 1 and 65535"), err)
	}
	return err
}

var rootOpts = &RootOptions{}

func Execute(ctx context.Context) {
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVarP(&rootOpts.LogLevel, "level", "l", "info", "The log level. Valid levels are debug, info, warn, and error.")
	pf.StringVar(&rootOpts.APIURL, "api-url", pokeapi.DefaultBaseURL, "The base url of the pokeapi.")
	pf.StringVar(&rootOpts.DBPath, "db-path", ".badger", "The path of the badger db folder. Will be created when it doesn't exist.")
	pf.IntVar(&rootOpts.L2CacheTTL, "l2-ttl", 86400, "The ttl of the larger l2 cache in seconds. Needs to be greater than 0.")
	pf.IntVar(&rootOpts.L1CacheTTL, "l1-ttl", 7200, "The ttl of the smaller l1 cache in seconds. Needs to be greater than 0.")
	pf.IntVar(&rootOpts.L1CacheSize, "l1-size", 2000, "The size of the smaller l1 cache in number of items. Needs to be greater than 0.")
	pf.StringVar(&rootOpts.RedisAddr, "redis-addr", "", "Address of an optional shared redis cache layer, e.g. localhost:6379. Disabled when empty.")
	pf.StringVar(&rootOpts.RedisPassword, "redis-password", "", "Password of the redis cache layer.")
	pf.IntVar(&rootOpts.RedisDB, "redis-db", 0, "Database number of the redis cache layer.")
	pf.IntVar(&rootOpts.Concurrency, "concurrency", 10, "How many pokemon details are fetched at once when loading a page.")
	pf.IntVar(&rootOpts.HTTPTimeout, "http-timeout", 15, "Timeout of a single pokeapi request in seconds.")

	rootCmd.Flags().IntVar(&rootOpts.GCInterval, "gc-interval", 600, "The garbage collection interval of the badger db in seconds. Needs to be greater than 0.")
	rootCmd.Flags().IntVarP(&rootOpts.Port, "port", "p", 8080, "The port to listen on")
	rootCmd.Flags().StringSliceVar(&rootOpts.CORSOrigins, "cors-origins", nil, "Origins allowed to call the json api. All origins are allowed when empty.")

	rootCmd.AddCommand(listCmd, showCmd)
}

// bindEnv fills every flag that was not set on the command line from POKEDEX_* environment
// variables, after loading an optional .env file.
func bindEnv(cmd *cobra.Command) error {
	_ = godotenv.Load()
	v := viper.New()
	v.SetEnvPrefix("POKEDEX")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()
	if err := v.BindPFlags(cmd.Flags()); err != nil {
		return err
	}
	var err error
	cmd.Flags().VisitAll(func(f *pflag.Flag) {
		if err != nil || f.Changed || !v.IsSet(f.Name) {
			return
		}
		if setErr := cmd.Flags().Set(f.Name, v.GetString(f.Name)); setErr != nil {
			err = fmt.Errorf("%s from environment: %w", f.Name, setErr)
		}
	})
	return err
}

func setLogLevel(level string) {
	switch strings.ToLower(level) {
	case "debug":
		slog.SetLogLoggerLevel(slog.LevelDebug)
	case "info":
		slog.SetLogLoggerLevel(slog.LevelInfo)
	case "warn":
		slog.SetLogLoggerLevel(slog.LevelWarn)
	case "error":
		slog.SetLogLoggerLevel(slog.LevelError)
	default:
		slog.Warn("no/invalid log level provided, setting to info")
		slog.SetLogLoggerLevel(slog.LevelInfo)
	}
}

var rootCmd = &cobra.Command{
	Use:   "pokedex",
	Short: "pokedex - list, search and inspect pokemon from pokeapi",
	Long:  "pokedex - list, search and inspect pokemon from pokeapi\n\nServes a sortable, searchable pokemon table with a detail view, a json api mirroring it, and caches every pokeapi response in memory and in a persistent K/V database",
	PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
		if err := bindEnv(cmd); err != nil {
			return fmt.Errorf("incorrect configuration:\n%w\n", err)
		}
		if err := rootOpts.Validate(); err != nil {
			return fmt.Errorf("incorrect command usage:\n%w\n", err)
		}
		setLogLevel(rootOpts.LogLevel)
		return nil
	},
	Run: func(cmd *cobra.Command, _ []string) {
		err := rootMain(cmd.Context())
		if err != nil {
			slog.Error("server stopped", slog.Any("error", err))
			os.Exit(1)
		}
	},
}

func stopServerWithTimeout(server *http.Server) error {
	slog.Debug("shutting down server...")
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	err := server.Shutdown(ctx)
	if err != nil {
		slog.Error("shutting down http server", slog.Any("error", err))
		return err
	}
	return nil
}

func rootMain(parentCtx context.Context) error {
	ctx, cancel := context.WithCancel(parentCtx)
	defer cancel()

	stack, err := openCacheStack(ctx, rootOpts, true)
	if err != nil {
		return err
	}
	defer stack.Close()

	papiClient := newPokeapiClient(stack.cache, rootOpts)
	service := pokedex.NewService(papiClient, rootOpts.Concurrency, rootOpts.APIURL)

	page, err := web.NewHandler(service)
	if err != nil {
		return err
	}

	mux := http.NewServeMux()
	page.Register(mux)

	healthController := health.MakeController()
	pokemonController := pokemonapi.MakeController(service)

	router := api.MakeRouter(
		mux,
		[]api.Controller{
			healthController,
			pokemonController,
		},
		rootOpts.CORSOrigins,
	)
	slog.Debug("router created, proceeding to start backend...")

	server := &http.Server{
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 30 * time.Second,
		Addr:         fmt.Sprintf(":%d", rootOpts.Port),
		Handler:      web.RequestLogger(router),
	}

	stack.startGC(ctx, time.Duration(rootOpts.GCInterval)*time.Second)
	go func() {
		defer cancel()
		slog.Info("server ready to listen...", slog.String("address", server.Addr))
		if err := server.ListenAndServe(); err != nil {
			if errors.Is(err, http.ErrServerClosed) {
				return
			}
			slog.Error("error in listen and serve", slog.Any("error", err))
		}
	}()

	<-ctx.Done()
	return stopServerWithTimeout(server)
}
