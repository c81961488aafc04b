// MIT License
//
// Copyright (c) 2022-2026 GoAkt Team
//
// Permission is hereby granted, free of charge, to any person obtaining a copy
// of this software and associated documentation files (the "Software"), to deal
// in the Software without restriction, including without limitation the rights
// to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
// copies of the Software, and to permit persons to whom the Software is
// furnished to do so, subject to the following conditions:
//
// The above copyright notice and this permission notice shall be included in all
// copies or substantial portions of the Software.
//
// THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
// IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
// FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
// AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
// LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
// OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
// SOFTWARE.

package cmd

import (
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/tochemey/mailbox/internal/config"
	"github.com/tochemey/mailbox/mailbox"
)

func newRunCommand(v *viper.Viper) *cobra.Command {
	runCmd := &cobra.Command{
		Use:   "run",
		Short: "Run an engine fed by the line protocol read from stdin",
		Long: `run starts a mailbox engine and reads one command per line from stdin:

  STORE <address> <sender> <subject> [body...]
  QUERY <address>
  MAILBOX-SIZE-LIMIT <max|bytes>
  VERBOSE
  STATS
  $TERM

QUERY and STATS answers are written to stdout, logs go to stderr.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := config.Bind(v, v.GetString("config")); err != nil {
				return fmt.Errorf("failed to read configuration: %w", err)
			}

			cfg, err := config.Load(v)
			if err != nil {
				return err
			}

			logger, err := cfg.Logger(cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			defer func() { _ = logger.Flush() }()

			opts, err := cfg.Options(logger)
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			engine, err := mailbox.Spawn(ctx, opts...)
			if err != nil {
				return err
			}

			return newSession(engine, cmd.InOrStdin(), cmd.OutOrStdout()).Run(ctx)
		},
	}

	flags := runCmd.Flags()
	flags.String("size-limit", "", `per queue size limit in bytes, or "max"`)
	flags.Bool("unbounded", false, "never evict messages")
	flags.Int("inbox-size", mailbox.DefaultInboxSize, "number of buffered engine requests")
	flags.String("sizer", config.ContentSizer, `message size measure: "content" or "encoded"`)
	flags.BoolP("verbose", "v", false, "verbose engine logging")
	flags.String("log-level", "", "log level: debug, info, warn, error")
	flags.String("dump-dir", "", "enable the debug dump into this directory")
	flags.Duration("dump-interval", 0, "interval between two debug dumps")
	flags.Bool("metrics", false, "enable the otel metrics")

	_ = v.BindPFlag("mailbox.size_limit", flags.Lookup("size-limit"))
	_ = v.BindPFlag("mailbox.unbounded", flags.Lookup("unbounded"))
	_ = v.BindPFlag("mailbox.inbox_size", flags.Lookup("inbox-size"))
	_ = v.BindPFlag("mailbox.sizer", flags.Lookup("sizer"))
	_ = v.BindPFlag("mailbox.verbose", flags.Lookup("verbose"))
	_ = v.BindPFlag("logging.level", flags.Lookup("log-level"))
	_ = v.BindPFlag("dump.dir", flags.Lookup("dump-dir"))
	_ = v.BindPFlag("dump.interval", flags.Lookup("dump-interval"))
	_ = v.BindPFlag("metrics.enabled", flags.Lookup("metrics"))

	// a dump directory given on the command line turns the dump on
	runCmd.PreRun = func(cmd *cobra.Command, _ []string) {
		if cmd.Flags().Changed("dump-dir") {
			v.Set("dump.enabled", true)
		}
	}

	return runCmd
}
