package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/pitchline/pitchline"
	fileadapter "github.com/pitchline/pitchline/pkg/adapters/file"
	httpadapter "github.com/pitchline/pitchline/pkg/adapters/http"
	"github.com/pitchline/pitchline/pkg/adapters/memory"
	redisadapter "github.com/pitchline/pitchline/pkg/adapters/redis"
	"github.com/pitchline/pitchline/pkg/persistence/middleware"
	"github.com/pitchline/pitchline/pkg/ports"
	"github.com/pitchline/pitchline/pkg/session"
)

// encryptionKeyEnv holds the AES-256 key for session state at rest.
const encryptionKeyEnv = "PITCHLINE_ENCRYPTION_KEY"

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP call server",
	Long:  `Starts the engine in server mode, exposing call sessions over a JSON API with SSE state updates.`,
	Run: func(cmd *cobra.Command, args []string) {
		port, _ := cmd.Flags().GetString("port")

		logger := slog.New(slog.NewTextHandler(os.Stderr, nil))

		engine, err := pitchline.New(flowPath(cmd, args), pitchline.WithLogger(logger))
		if err != nil {
			fmt.Printf("Error loading flow: %v\n", err)
			os.Exit(1)
		}

		store, locker, err := buildStore(cmd)
		if err != nil {
			fmt.Printf("Error configuring store: %v\n", err)
			os.Exit(1)
		}

		managerOpts := []session.Option{session.WithLogger(logger)}
		if locker != nil {
			managerOpts = append(managerOpts, session.WithLocker(locker))
		}
		sessions := session.NewManager(store, managerOpts...)

		handler := httpadapter.NewHandler(engine, sessions,
			httpadapter.WithLogger(logger),
			httpadapter.WithMetrics(httpadapter.NewMetrics()),
		)

		srv := &http.Server{
			Addr:    ":" + port,
			Handler: handler,
		}

		serverErrors := make(chan error, 1)

		go func() {
			fmt.Printf("Starting Pitchline server on %s\n", srv.Addr)
			fmt.Printf("Serving flow: %s\n", engine.Name())
			serverErrors <- srv.ListenAndServe()
		}()

		shutdown := make(chan os.Signal, 1)
		signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

		select {
		case err := <-serverErrors:
			fmt.Printf("Server error: %v\n", err)
			os.Exit(1)

		case sig := <-shutdown:
			fmt.Printf("\nStart shutdown... Signal: %v\n", sig)

			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()

			if err := srv.Shutdown(ctx); err != nil {
				fmt.Printf("Graceful shutdown did not complete in %v: %v\n", 5*time.Second, err)
				if err := srv.Close(); err != nil {
					fmt.Printf("Error killing server: %v\n", err)
				}
			}
			fmt.Println("Pitchline server stopped gracefully")
		}
	},
}

// buildStore assembles the state store from flags: backend selection first,
// then the persistence middleware chain (PII scrub outermost so encrypted
// records are already masked).
func buildStore(cmd *cobra.Command) (ports.StateStore, ports.DistributedLocker, error) {
	backend, _ := cmd.Flags().GetString("store")
	storePath, _ := cmd.Flags().GetString("store-path")

	var store ports.StateStore
	var locker ports.DistributedLocker

	switch backend {
	case "memory":
		store = memory.NewStore()
	case "file":
		store = fileadapter.NewStore(storePath)
	case "redis":
		addr, _ := cmd.Flags().GetString("redis-addr")
		password, _ := cmd.Flags().GetString("redis-password")
		db, _ := cmd.Flags().GetInt("redis-db")
		ttl, _ := cmd.Flags().GetDuration("redis-ttl")

		redisStore := redisadapter.New(addr, password, db, redisadapter.WithTTL(ttl))
		store = redisStore
		locker = redisadapter.NewLocker(redisStore.Client(), "pitchline:lock:")
	default:
		return nil, nil, fmt.Errorf("unknown store backend %q (supported: memory, file, redis)", backend)
	}

	var mws []middleware.Middleware

	if maskPII, _ := cmd.Flags().GetBool("mask-pii"); maskPII {
		mws = append(mws, middleware.NewPIIMiddleware(middleware.DefaultPIIFields))
	}

	if encrypt, _ := cmd.Flags().GetBool("encrypt"); encrypt {
		key := os.Getenv(encryptionKeyEnv)
		if len(key) != 32 {
			return nil, nil, fmt.Errorf("%s must hold a 32-byte key", encryptionKeyEnv)
		}
		mws = append(mws, middleware.NewEncryptionMiddleware(middleware.EncryptionConfig{
			ActiveKey: []byte(key),
		}))
	}

	return middleware.Chain(store, mws...), locker, nil
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().StringP("port", "p", "8080", "Port to listen on")
	serveCmd.Flags().String("store", "memory", "Session store backend: memory, file or redis")
	serveCmd.Flags().String("store-path", ".pitchline/sessions", "Directory for the file store")
	serveCmd.Flags().String("redis-addr", "localhost:6379", "Redis address (redis store only)")
	serveCmd.Flags().String("redis-password", "", "Redis password (redis store only)")
	serveCmd.Flags().Int("redis-db", 0, "Redis database (redis store only)")
	serveCmd.Flags().Duration("redis-ttl", 24*time.Hour, "Session TTL in Redis (0 keeps sessions forever)")
	serveCmd.Flags().Bool("mask-pii", false, "Mask prospect-identifying fields before persisting")
	serveCmd.Flags().Bool("encrypt", false, "Encrypt session state at rest ("+encryptionKeyEnv+")")
}
