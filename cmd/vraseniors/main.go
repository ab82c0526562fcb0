package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/alecthomas/kong"
	"go.uber.org/zap"

	vraseniors "github.com/CLAYYO/VRASeniors"
	"github.com/CLAYYO/VRASeniors/secrets"
)

// version is set at build time via ldflags.
var version = "dev"

type globals struct {
	EnvFile  string `name:"env-file" help:"Environment file to load." default:".env"`
	SiteFile string `name:"site-file" help:"YAML file with site name, emails and navigation." default:"site.yaml"`
	Dev      bool   `help:"Human-readable debug logging."`
}

var cli struct {
	globals

	Serve   serveCmd   `cmd:"" default:"1" help:"Run the website."`
	Check   checkCmd   `cmd:"" help:"Validate a content document."`
	Publish publishCmd `cmd:"" help:"Commit and push the working tree."`
	Version versionCmd `cmd:"" help:"Print the version."`
}

func main() {
	ctx := kong.Parse(&cli,
		kong.Name("vraseniors"),
		kong.Description("VRA Golf Club seniors section website."),
		kong.UsageOnError(),
	)
	logger, err := newLogger(cli.Dev)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = logger.Sync() }()

	ctx.FatalIfErrorf(ctx.Run(&cli.globals, logger))
}

func newLogger(dev bool) (*zap.Logger, error) {
	if dev {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}

// loadConfig reads the environment, the site file and any secret references.
func (g *globals) loadConfig(ctx context.Context, logger *zap.Logger) (vraseniors.SiteConfig, error) {
	resolver := secrets.NewResolver(secrets.WithLogger(logger))
	defer func() {
		if err := resolver.Close(); err != nil {
			logger.Warn("close secret resolver", zap.Error(err))
		}
	}()
	return vraseniors.LoadConfig(ctx, g.EnvFile, g.SiteFile, resolver)
}

type serveCmd struct {
	Static          string        `help:"Directory served under /public." default:"public"`
	ShutdownTimeout time.Duration `name:"shutdown-timeout" help:"Grace period for in-flight requests." default:"10s"`
}

func (s *serveCmd) Run(g *globals, logger *zap.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := g.loadConfig(ctx, logger)
	if err != nil {
		return err
	}
	app := vraseniors.New(cfg, vraseniors.DefaultViews(),
		vraseniors.WithStaticDir(s.Static),
		vraseniors.WithLogger(logger),
	)
	defer func() {
		if err := app.Close(); err != nil {
			logger.Warn("close app", zap.Error(err))
		}
	}()

	errc := make(chan error, 1)
	go func() { errc <- app.Start() }()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.ShutdownTimeout)
	defer cancel()
	if err := app.Shutdown(shutdownCtx); err != nil && !errors.Is(err, context.DeadlineExceeded) {
		return err
	}
	return <-errc
}

type publishCmd struct {
	Message string `short:"m" help:"Commit message."`
}

func (p *publishCmd) Run(g *globals, logger *zap.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := g.loadConfig(ctx, logger)
	if err != nil {
		return err
	}
	// New fills the git defaults; the publisher needs nothing else.
	app := vraseniors.New(cfg, vraseniors.ViewFuncs{}, vraseniors.WithLogger(logger))
	out, err := vraseniors.NewPublisher(app.Config, logger).Publish(ctx, p.Message)
	if err != nil {
		return err
	}
	if !out.Committed {
		fmt.Println(out.Message)
		return nil
	}
	fmt.Printf("committed %s: %s\n", out.Hash, out.Message)
	return nil
}

type versionCmd struct{}

func (versionCmd) Run() error {
	fmt.Printf("vraseniors %s\n", version)
	return nil
}
