package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"

	"convertflow/internal/adapters/eventbroker/nats"
	"convertflow/internal/adapters/filesource"
	"convertflow/internal/adapters/repository/postgres"
	"convertflow/internal/adapters/transport/httpapi"
	"convertflow/internal/config"
	"convertflow/internal/core/domain"
	"convertflow/internal/core/locale"
	"convertflow/internal/core/port"
	"convertflow/internal/core/service/job"
	"convertflow/internal/core/service/queue"

	"github.com/spf13/cobra"
)

type runFlags struct {
	format     string
	tool       string
	lang       string
	codec      string
	resolution string
	aspect     string
	fps        int
	publish    bool
	record     bool
}

// encodeSettings returns nil when no encode flag was given
func (f runFlags) encodeSettings(cmd *cobra.Command) *domain.EncodeSettings {
	changed := false
	for _, name := range []string{"codec", "resolution", "aspect", "fps"} {
		changed = changed || cmd.Flags().Changed(name)
	}
	if !changed {
		return nil
	}
	return &domain.EncodeSettings{
		Codec:       domain.Codec(f.codec),
		Resolution:  domain.Resolution(f.resolution),
		AspectRatio: domain.AspectRatio(f.aspect),
		FrameRate:   f.fps,
	}
}

func newRunCmd() *cobra.Command {
	var flags runFlags
	defaults := domain.DefaultEncodeSettings()

	cmd := &cobra.Command{
		Use:   "run FILE...",
		Short: "Convert files and wait for every job to finish",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			logger := newLogger()

			cfg, err := config.LoadClient()
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			lang := cfg.Client.Language
			if cmd.Flags().Changed("lang") {
				lang = flags.lang
			}
			loc, err := locale.Parse(lang)
			if err != nil {
				return err
			}

			client, err := httpapi.NewClient(cfg.Client.APIBaseURL, httpapi.Options{
				Timeout:         cfg.Client.HTTPTimeout,
				TransferTimeout: cfg.Client.TransferTimeout,
			}, logger)
			if err != nil {
				return err
			}
			runner := job.NewRunner(client, job.Options{
				Schedule: job.Schedule{
					Interval:    cfg.Client.PollInterval,
					MaxAttempts: cfg.Client.PollMaxAttempts,
					MaxDuration: cfg.Client.PollMaxDuration,
				},
				PollFailure: job.PolicyForRetries(cfg.Client.PollErrorRetries),
				Locale:      loc,
			}, logger)

			opts := queue.Options{
				AllowedTypes: cfg.Upload.AllowedTypes,
				MaxSize:      cfg.Upload.MaxSize,
				Locale:       loc,
			}
			if flags.publish {
				natsCfg, err := config.LoadNATS()
				if err != nil {
					return fmt.Errorf("load nats config: %w", err)
				}
				publisher, err := nats.NewNATSPublisher(ctx, *natsCfg, logger)
				if err != nil {
					return err
				}
				defer publisher.Close()
				opts.Publisher = publisher
			}
			if flags.record {
				dbCfg, err := config.LoadDatabase()
				if err != nil {
					return fmt.Errorf("load database config: %w", err)
				}
				db, err := postgres.Open(ctx, *dbCfg)
				if err != nil {
					return err
				}
				defer db.Close()
				opts.History = postgres.NewSqlHistoryRepository(db)
			}

			files, openErrs := openFiles(args)
			svc := queue.NewQueueService(runner, opts, logger)
			req := runRequest{
				Target:   domain.ConversionTarget{Format: flags.format, ToolSlug: flags.tool},
				Settings: flags.encodeSettings(cmd),
			}
			summary, err := runConversions(ctx, svc, files, req, cmd.OutOrStdout())
			for _, openErr := range openErrs {
				fmt.Fprintf(cmd.ErrOrStderr(), "rejected  %v\n", openErr)
			}
			if err != nil {
				return err
			}
			if len(openErrs) > 0 {
				return fmt.Errorf("%d of %d files could not be read", len(openErrs), len(args))
			}
			logger.Debug("run finished", "done", summary.Done)
			return nil
		},
	}

	cmd.Flags().StringVar(&flags.format, "format", "", "Target format, e.g. webp, pdf, mp4")
	cmd.Flags().StringVar(&flags.tool, "tool", "", "Conversion tool slug")
	cmd.Flags().StringVar(&flags.lang, "lang", "en", "Language of user facing messages")
	cmd.Flags().StringVar(&flags.codec, "codec", string(defaults.Codec), "Video codec")
	cmd.Flags().StringVar(&flags.resolution, "resolution", string(defaults.Resolution), "Video resolution")
	cmd.Flags().StringVar(&flags.aspect, "aspect", string(defaults.AspectRatio), "Video aspect ratio")
	cmd.Flags().IntVar(&flags.fps, "fps", defaults.FrameRate, "Video frame rate")
	cmd.Flags().BoolVar(&flags.publish, "publish", false, "Publish item events to NATS")
	cmd.Flags().BoolVar(&flags.record, "record", false, "Record finished conversions in the history database")
	cmd.MarkFlagRequired("format")
	return cmd
}

func openFiles(paths []string) ([]domain.FileHandle, []error) {
	files := make([]domain.FileHandle, 0, len(paths))
	var errs []error
	for _, p := range paths {
		f, err := filesource.Open(p)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		files = append(files, f)
	}
	return files, errs
}

type runRequest struct {
	Target domain.ConversionTarget
	// Settings overrides the default encode settings of every video. Nil keeps the defaults.
	Settings *domain.EncodeSettings
}

type runSummary struct {
	Done     int
	Failed   int
	Rejected int
}

// runConversions queues files, starts them all and blocks until every item is terminal.
// Progress lines and the final summary are written to out.
func runConversions(ctx context.Context, svc port.QueueService, files []domain.FileHandle, req runRequest, out io.Writer) (runSummary, error) {
	var (
		summary runSummary
		outMu   sync.Mutex
	)
	printf := func(format string, args ...any) {
		outMu.Lock()
		defer outMu.Unlock()
		fmt.Fprintf(out, format, args...)
	}

	unsubscribe := svc.Subscribe(func(event domain.ItemEvent) {
		printf("%-10s %5.1f%%  %s\n", event.Status, event.Progress, event.FileName)
	})
	defer unsubscribe()

	items, err := svc.AddFiles(ctx, files)
	if err != nil {
		for _, rejected := range splitErrors(err) {
			var verr *domain.ValidationError
			if errors.As(rejected, &verr) {
				printf("rejected   %s: %s\n", verr.FileName, verr.Message)
			} else {
				printf("rejected   %v\n", rejected)
			}
			summary.Rejected++
		}
	}
	if len(items) == 0 {
		return summary, errors.New("no file was accepted")
	}

	if req.Settings != nil {
		if err := applySettings(svc, items, *req.Settings); err != nil {
			return summary, err
		}
	}

	if _, err := svc.StartAll(ctx, req.Target); err != nil {
		return summary, err
	}
	svc.Wait()

	printf("\n")
	for _, item := range svc.List() {
		switch item.Status {
		case domain.ItemStatusDone:
			summary.Done++
			ref := item.DownloadURL
			if ref == "" {
				ref = item.OutputKey
			}
			printf("done       %s -> %s\n", item.FileName, ref)
		case domain.ItemStatusError:
			summary.Failed++
			printf("error      %s: %s\n", item.FileName, item.Error)
		}
	}

	if failed := summary.Failed + summary.Rejected; failed > 0 {
		return summary, fmt.Errorf("%d of %d files failed", failed, summary.Done+failed)
	}
	return summary, nil
}

func applySettings(svc port.QueueService, items []domain.UploadItem, settings domain.EncodeSettings) error {
	for _, item := range items {
		if !item.IsVideo {
			continue
		}
		if _, err := svc.OpenSettings(item.ID); err != nil {
			return fmt.Errorf("%s: %w", item.FileName, err)
		}
		if err := svc.SaveSettings(item.ID, settings); err != nil {
			svc.CloseSettings(item.ID)
			return fmt.Errorf("%s: %w", item.FileName, err)
		}
	}
	return nil
}

func splitErrors(err error) []error {
	if joined, ok := err.(interface{ Unwrap() []error }); ok {
		return joined.Unwrap()
	}
	return []error{err}
}

