package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/google/uuid"

	"github.com/okian/resirank/internal/adapters/console"
	"github.com/okian/resirank/internal/adapters/repository"
	service "github.com/okian/resirank/internal/app"
	"github.com/okian/resirank/internal/config"
	"github.com/okian/resirank/internal/domain/ranking"
	"github.com/okian/resirank/internal/domain/rating"
	"github.com/okian/resirank/pkg/logger"
	"github.com/okian/resirank/pkg/metrics"
)

// Mirror flag values.
const (
	mirrorAsk = "ask"
	mirrorYes = "yes"
	mirrorNo  = "no"
)

const rankingTitle = "Current Residency Program Rankings"

func main() {
	if err := run(context.Background(), os.Args[1:], os.Stdin, os.Stdout, os.Stderr); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return
		}
		os.Stderr.WriteString("resirank: " + err.Error() + "\n")
		os.Exit(1)
	}
}

// flags holds command line overrides applied on top of the loaded config.
type flags struct {
	configPath string
	local      string
	global     string
	weights    string
	mirror     string
	granular   string
}

func parseFlags(args []string, stderr io.Writer) (*flags, error) {
	fs := flag.NewFlagSet("resirank", flag.ContinueOnError)
	fs.SetOutput(stderr)
	f := &flags{}
	fs.StringVar(&f.configPath, "config", "", "YAML config file (default $RESIRANK_CONFIG)")
	fs.StringVar(&f.local, "local", "", "local scores snapshot file")
	fs.StringVar(&f.global, "global", "", "global scores snapshot file")
	fs.StringVar(&f.weights, "weights", "", "ranking weights, e.g. prestige=0.5,vibes=0.3,location=0.2")
	fs.StringVar(&f.mirror, "mirror", mirrorAsk, "update global scores: ask, yes or no")
	fs.StringVar(&f.granular, "mirror-mode", "", "mirror granularity: comparison or registration")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	switch f.mirror {
	case mirrorAsk, mirrorYes, mirrorNo:
	default:
		return nil, fmt.Errorf("-mirror must be ask, yes or no, got %q", f.mirror)
	}
	return f, nil
}

func loadConfig(ctx context.Context, f *flags) (*config.Config, error) {
	cfg, err := config.Load(ctx, f.configPath)
	if err != nil {
		return nil, err
	}
	if f.local != "" {
		cfg.LocalSnapshot = f.local
	}
	if f.global != "" {
		cfg.GlobalSnapshot = f.global
	}
	if f.granular != "" {
		cfg.Mirror = f.granular
	}
	if err := cfg.Validate(ctx); err != nil {
		return nil, err
	}
	return cfg, nil
}

func run(ctx context.Context, args []string, stdin io.Reader, stdout, stderr io.Writer) error {
	f, err := parseFlags(args, stderr)
	if err != nil {
		return err
	}
	cfg, err := loadConfig(ctx, f)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	if err := logger.Init(logger.WithWriter(stderr), logger.WithFormat(cfg.LogFormat)); err != nil {
		return fmt.Errorf("initialize logging: %w", err)
	}
	defer func() { _ = logger.Sync() }()
	log := logger.Named("resirank")
	if err := logger.SetLevelString(cfg.LogLevel); err != nil {
		log.Warn(ctx, "invalid log_level; falling back to info", logger.String("log_level", cfg.LogLevel), logger.Error(err))
		_ = logger.SetLevelString("info")
	}

	dims, err := rating.ParseDimensions(cfg.Dimensions)
	if err != nil {
		return err
	}
	weights, err := ranking.NewWeights(dims, cfg.Weights)
	if f.weights != "" {
		weights, err = ranking.ParseWeights(dims, f.weights)
	}
	if err != nil {
		return fmt.Errorf("weights: %w", err)
	}

	sessionID := uuid.NewString()
	localSnap := repository.NewFileSnapshot(cfg.LocalSnapshot, repository.WithBaseRating(cfg.BaseRating))
	globalSnap := repository.NewFileSnapshot(cfg.GlobalSnapshot, repository.WithBaseRating(cfg.BaseRating))
	local, err := loadStore(ctx, log, localSnap, repository.ScopeLocal, dims)
	if err != nil {
		return err
	}
	global, err := loadStore(ctx, log, globalSnap, repository.ScopeGlobal, dims)
	if err != nil {
		return err
	}

	svc := service.New(local,
		service.WithLogger(log),
		service.WithSessionID(sessionID),
		service.WithKFactor(cfg.KFactor),
		service.WithBaseRating(cfg.BaseRating),
		service.WithMirrorGranularity(service.Granularity(cfg.Mirror)),
		service.WithLocalSnapshot(localSnap),
		service.WithGlobalStore(global, globalSnap),
	)
	con := console.New(stdin, stdout, cfg.DoneSentinel)

	mirror := f.mirror == mirrorYes
	if f.mirror == mirrorAsk {
		if mirror, err = con.ConfirmMirror(ctx); err != nil {
			return err
		}
	}
	if err := svc.SetMirroring(mirror); err != nil {
		return err
	}
	log.Info(ctx, "session started",
		logger.String("session", sessionID),
		logger.Bool("mirror", mirror),
		logger.String("mirror_mode", cfg.Mirror),
		logger.String("weights", weights.String()))

	if err := loop(ctx, svc, con, dims, weights); err != nil {
		return err
	}

	if err := svc.Save(ctx); err != nil {
		return fmt.Errorf("save scores: %w", err)
	}
	if cfg.MetricsTextfile != "" {
		if err := metrics.WriteTextfile(cfg.MetricsTextfile); err != nil {
			log.Warn(ctx, "metrics textfile not written", logger.Error(err))
		}
	}
	return nil
}

// loop reads commands until the sentinel or end of input.
func loop(ctx context.Context, svc *service.Service, con *console.Console, dims rating.Dimensions, weights ranking.Weights) error {
	for {
		cmd, err := con.Next(ctx)
		if err != nil {
			return err
		}

		switch cmd.Kind {
		case console.CommandDone:
			return nil
		case console.CommandWeights:
			weights, err = con.AskWeights(ctx, dims, weights)
			if errors.Is(err, io.EOF) {
				return nil
			}
			if err != nil {
				return err
			}
		case console.CommandAdd:
			report, err := svc.Introduce(ctx, cmd.Name, con)
			if errors.Is(err, io.EOF) {
				return nil
			}
			if err != nil {
				return err
			}
			if report.Existing {
				con.Println(cmd.Name + " already exists.")
			}
		}

		entries, err := svc.Rank(ctx, weights)
		if err != nil {
			return err
		}
		con.PrintRanking(rankingTitle, entries)
	}
}

func loadStore(ctx context.Context, log logger.Logger, snap *repository.FileSnapshot, scope repository.Scope, dims rating.Dimensions) (*repository.Store, error) {
	s, err := snap.Load(ctx, scope, dims)
	if err != nil {
		return nil, fmt.Errorf("load %s scores: %w", scope, err)
	}
	if s.Len() == 0 {
		log.Info(ctx, "no saved scores; starting empty", logger.String("scope", string(scope)), logger.String("path", snap.Path()))
	} else {
		log.Info(ctx, "scores loaded", logger.String("scope", string(scope)), logger.Int("entities", s.Len()))
	}
	return s, nil
}
