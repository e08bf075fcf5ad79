package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"golang.org/x/sync/errgroup"

	"github.com/nickyhof/GridDB"
	"github.com/nickyhof/GridDB/core"
	"github.com/nickyhof/GridDB/logging"
	"github.com/nickyhof/GridDB/op"
	"github.com/nickyhof/GridDB/query"
)

// Version is set at build time via -ldflags
var Version = "dev"

func main() {
	port := flag.Int("port", 4242, "TCP port to listen on")
	baseDir := flag.String("baseDir", "", "Base directory for persistence (memory if empty)")
	gitUrl := flag.String("gitUrl", "", "Git URL to clone from")
	evaluator := flag.String("evaluator", "interp", "Criteria evaluator: interp, sqlite or duckdb")
	ids := flag.String("ids", "rowcount", "Id policy: rowcount or max")
	debug := flag.Bool("debug", false, "Log operation timings")
	logLevel := flag.String("logLevel", "info", "Log level: debug, info, warn or error")
	jwtSecret := flag.String("jwtSecret", "", "Require AUTH JWT tokens signed with this secret")
	jwtIssuer := flag.String("jwtIssuer", "", "Expected JWT issuer")
	jwtAudience := flag.String("jwtAudience", "", "Expected JWT audience")
	tlsCert := flag.String("tlsCert", "", "TLS certificate file")
	tlsKey := flag.String("tlsKey", "", "TLS key file")
	showVersion := flag.Bool("version", false, "Show version and exit")
	flag.Parse()

	if *showVersion {
		fmt.Printf("GridDB Server v%s\n", Version)
		return
	}

	level := logging.ParseLevel(*logLevel)
	if *debug {
		level = slog.LevelDebug
	}
	logging.Init(level, os.Stderr)
	log := logging.WithComponent("server")

	err := run(config{
		port:      *port,
		baseDir:   *baseDir,
		gitUrl:    *gitUrl,
		evaluator: *evaluator,
		ids:       *ids,
		debug:     *debug,
		tlsCert:   *tlsCert,
		tlsKey:    *tlsKey,
		auth: &AuthConfig{
			Enabled:   *jwtSecret != "",
			JWTSecret: *jwtSecret,
			Issuer:    *jwtIssuer,
			Audience:  *jwtAudience,
		},
	})
	if err != nil {
		log.Error("server failed", "error", err)
		os.Exit(1)
	}
}

type config struct {
	port            int
	baseDir, gitUrl string
	evaluator, ids  string
	debug           bool
	tlsCert, tlsKey string
	auth            *AuthConfig
}

func run(cfg config) error {
	log := logging.WithComponent("server")

	var (
		instance *GridDB.Instance
		err      error
	)
	if cfg.baseDir == "" {
		log.Info("using memory persistence")
		instance, err = GridDB.OpenMemory()
	} else {
		log.Info("using file persistence", "baseDir", cfg.baseDir)
		var gitUrlPtr *string
		if cfg.gitUrl != "" {
			gitUrlPtr = &cfg.gitUrl
		}
		instance, err = GridDB.OpenFile(cfg.baseDir, gitUrlPtr)
	}
	if err != nil {
		return fmt.Errorf("failed to initialize persistence: %w", err)
	}

	evaluator, closeEvaluator, err := query.Open(cfg.evaluator)
	if err != nil {
		return err
	}
	defer closeEvaluator()

	idPolicy, ok := op.ParseIDPolicy(cfg.ids)
	if !ok {
		return fmt.Errorf("unknown id policy %q", cfg.ids)
	}
	opts := op.Options{Evaluator: evaluator, IDs: idPolicy, Debug: cfg.debug}

	var server *Server
	if cfg.auth.Enabled {
		server = NewServerWithAuth(instance, cfg.auth, opts)
	} else {
		server = NewServer(instance, core.Identity{Name: "GridDB Server", Email: "server@griddb.local"}, opts)
	}

	addr := fmt.Sprintf(":%d", cfg.port)
	if cfg.tlsCert != "" {
		err = server.ListenTLS(addr, cfg.tlsCert, cfg.tlsKey)
	} else {
		err = server.Listen(addr)
	}
	if err != nil {
		return err
	}

	fmt.Println()
	fmt.Printf("GridDB Server v%s\n", Version)
	fmt.Printf("Listening on port %d\n", cfg.port)
	fmt.Println("Send JSON commands (one per line), 'quit' to disconnect")
	fmt.Println()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, ctx := errgroup.WithContext(ctx)
	g.Go(server.Serve)
	g.Go(func() error {
		<-ctx.Done()
		log.Info("shutting down")
		return server.Stop()
	})
	if err := g.Wait(); err != nil {
		return err
	}
	log.Info("server stopped")
	return nil
}
