// Command addons-mock runs the in-process add-on platform simulation as
// a standalone HTTP server, so a CLI pointed at it behaves as if it were
// talking to the real service.
package main

import (
	"context"
	"fmt"
	nethttp "net/http"
	"os"
	"os/signal"
	"os/user"
	"path/filepath"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/dynohub/addons/logger"
	"github.com/dynohub/addons/mock"
)

func main() {
	if err := mockCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var (
	httpBindAddress string
	boltPath        string
	logFormat       string
)

func addonsDir() (string, error) {
	var dir string
	u, err := user.Current()
	if err == nil {
		dir = u.HomeDir
	} else if home := os.Getenv("HOME"); home != "" {
		dir = home
	} else {
		wd, err := os.Getwd()
		if err != nil {
			return "", err
		}
		dir = wd
	}
	return filepath.Join(dir, ".addons"), nil
}

func init() {
	dir, err := addonsDir()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to determine addons directory: %v", err)
		os.Exit(1)
	}

	viper.SetEnvPrefix("ADDONS")

	mockCmd.Flags().StringVar(&httpBindAddress, "http-bind-address", ":8700", "bind address for the mock http api")
	viper.BindEnv("HTTP_BIND_ADDRESS")
	if h := viper.GetString("HTTP_BIND_ADDRESS"); h != "" {
		httpBindAddress = h
	}

	mockCmd.Flags().StringVar(&boltPath, "bolt-path", filepath.Join(dir, "mock.bolt"), "path to the durable mock state")
	viper.BindEnv("BOLT_PATH")
	if h := viper.GetString("BOLT_PATH"); h != "" {
		boltPath = h
	}

	mockCmd.Flags().StringVar(&logFormat, "log-format", "console", "log format (console or logfmt)")
	viper.BindEnv("LOG_FORMAT")
	if h := viper.GetString("LOG_FORMAT"); h != "" {
		logFormat = h
	}
}

var mockCmd = &cobra.Command{
	Use:   "addons-mock",
	Short: "in-process mock of the add-on platform api",
	Run:   mockF,
}

func mockF(cmd *cobra.Command, args []string) {
	ctx := context.Background()

	var log *zap.Logger
	if logFormat == "logfmt" {
		log = logger.NewLogfmt(os.Stdout)
	} else {
		log = logger.New(os.Stdout)
	}

	if err := os.MkdirAll(filepath.Dir(boltPath), 0700); err != nil {
		log.Error("failed to create state directory", zap.Error(err))
		os.Exit(1)
	}

	store := mock.NewStore(boltPath, mock.WithStoreLogger(log))
	if err := store.Open(ctx); err != nil {
		// Corrupt durable state aborts: continuing would present an
		// empty store as the tester's real prior state.
		log.Error("failed to open mock state", zap.Error(err))
		os.Exit(1)
	}
	defer store.Close()

	svc := mock.NewService(mock.WithServiceLogger(log))
	handler := mock.NewHandler(log, svc, store)

	srv := &nethttp.Server{Addr: httpBindAddress, Handler: handler}

	done := make(chan struct{})
	go func() {
		defer close(done)
		log.Info("serving mock api", zap.String("addr", httpBindAddress), zap.String("state", boltPath))
		if err := srv.ListenAndServe(); err != nil && err != nethttp.ErrServerClosed {
			log.Error("mock api server failed", zap.Error(err))
		}
	}()

	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)
	select {
	case <-sigs:
		srv.Shutdown(ctx)
	case <-done:
	}

	// The deferred store.Close flushes every tenant bundle on this and
	// every other exit path.
	log.Info("flushing mock state", zap.String("path", boltPath))
}
