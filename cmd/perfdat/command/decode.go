package command

import (
	"context"
	"path/filepath"
	"slices"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/arloliu/perfdat"
	"github.com/arloliu/perfdat/container"
)

// decodeFlags are the decoding flags shared by the sub-commands.
// Flags that are set override the config file.
type decodeFlags struct {
	resources    []string
	metrics      []string
	layout       string
	valueKind    string
	schemaLength string
	readToEOF    bool
}

func (f *decodeFlags) register(cmd *cobra.Command) {
	flags := cmd.Flags()
	flags.StringSliceVar(&f.resources, "resources", nil, "resource ids to decode, others are skipped")
	flags.StringSliceVar(&f.metrics, "metrics", nil, "metric ids to keep")
	flags.StringVar(&f.layout, "layout", "", "matrix layout: per-resource or interleaved")
	flags.StringVar(&f.valueKind, "value-kind", "", "cell type: float32 or int32")
	flags.StringVar(&f.schemaLength, "schema-length", "", "schema length field: exclusive or inclusive of the block prefix")
	flags.BoolVar(&f.readToEOF, "read-to-eof", false, "ignore the declared data length and decode until the end of the file")
}

// session is the resolved state a sub-command runs with.
type session struct {
	cfg    *Config
	names  NameMap
	logger *zap.Logger
}

func newSession(cmd *cobra.Command, df *decodeFlags) (*session, error) {
	cfg, err := LoadConfig(globalFlags.ConfigFile)
	if err != nil {
		return nil, err
	}

	flags := cmd.Flags()
	if flags.Changed("resources") {
		cfg.Resources = df.resources
	}
	if flags.Changed("metrics") {
		cfg.Metrics = df.metrics
	}
	if flags.Changed("layout") {
		cfg.Layout = df.layout
	}
	if flags.Changed("value-kind") {
		cfg.ValueKind = df.valueKind
	}
	if flags.Changed("schema-length") {
		cfg.SchemaLength = df.schemaLength
	}
	if flags.Changed("read-to-eof") {
		cfg.ReadToEOF = df.readToEOF
	}
	if globalFlags.Workers > 0 {
		cfg.Workers = globalFlags.Workers
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	names := cfg.Names
	if globalFlags.NamesFile != "" {
		extra, err := LoadNames(globalFlags.NamesFile)
		if err != nil {
			return nil, err
		}
		names.merge(extra)
	}

	logger, err := newLogger(globalFlags.Debug)
	if err != nil {
		return nil, err
	}

	return &session{cfg: cfg, names: names, logger: logger}, nil
}

func (s *session) close() {
	_ = s.logger.Sync()
}

func (s *session) sampleFilter() container.SampleFilter {
	return container.SampleFilter{Resources: s.cfg.Resources, Metrics: s.cfg.Metrics}
}

// archive is the outcome of decoding one file.
type archive struct {
	Path   string
	Result container.Result
	Err    error
}

// decodeArchives decodes paths concurrently, at most workers at a time.
//
// A failing archive does not stop the others; its error and partial blocks are
// kept in its entry. Results are returned in the order of paths.
func decodeArchives(ctx context.Context, paths []string, workers int, logger *zap.Logger, opts []container.DecoderOption) ([]archive, error) {
	out := make([]archive, len(paths))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(max(workers, 1))

	for i, path := range paths {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}

			log := logger.With(zap.String("archive", filepath.Base(path)))
			res, err := perfdat.DecodeFile(path, append(slices.Clip(opts), container.WithLogger(log))...)
			if err != nil {
				log.Warn("archive decoded with errors", zap.Int("blocks", len(res.Blocks)), zap.Error(err))
			} else {
				log.Debug("archive decoded", zap.Int("blocks", len(res.Blocks)))
			}

			out[i] = archive{Path: path, Result: res, Err: err}

			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return out, err
	}

	return out, nil
}

func (s *session) decode(cmd *cobra.Command, paths []string, extra ...container.DecoderOption) ([]archive, error) {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	return decodeArchives(ctx, paths, s.cfg.Workers, s.logger, append(s.cfg.DecoderOptions(s.logger), extra...))
}

func errString(err error) string {
	if err == nil {
		return ""
	}

	return err.Error()
}
