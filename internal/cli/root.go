package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"pipepeek/internal/app"
	"pipepeek/internal/config"
	"pipepeek/internal/session"
	"pipepeek/internal/shell"
	"pipepeek/internal/system"
)

// exitCancelled is the conventional status for a run ended by Ctrl+C.
const exitCancelled = 130

var rootCmd = newRootCmd()

// startHost runs the interactive session; replaced in tests.
var startHost = app.Start

func newRootCmd() *cobra.Command {
	opts := config.Defaults()
	cmd := &cobra.Command{
		Use:   "pipepeek [file]",
		Short: "pipepeek – live preview for shell pipelines",
		Long: "pipepeek reads stdin (or a file), lets you type a shell command and shows its\n" +
			"output on every keystroke. Enter prints the command to stderr.",
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 1 {
				opts.InputFile = args[0]
			}
			return run(cmd, opts)
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	bindFlags(cmd, &opts)
	cmd.AddCommand(newVersionCmd())
	return cmd
}

func bindFlags(cmd *cobra.Command, opts *config.Options) {
	f := cmd.Flags()
	f.StringVarP(&opts.Shell, "shell", "s", opts.Shell, "shell used to run commands (env "+config.EnvShell+")")
	f.StringVarP(&opts.Prompt, "prompt", "p", opts.Prompt, "prompt shown before the command (env "+config.EnvPrompt+")")
	f.StringVar(&opts.Placeholder, "placeholder", opts.Placeholder, "text shown when the input is empty")
	f.StringVar((*string)(&opts.Host), "ui", string(opts.Host), "terminal host: tea or raw (env "+config.EnvHost+")")
	f.BoolVarP(&opts.Copy, "copy", "c", false, "also copy the confirmed command to the clipboard")
	f.BoolVar(&opts.Debug, "debug", false, "log evaluations at debug level")
	f.StringVar(&opts.LogFile, "log-file", opts.LogFile, "append logs to this file (env "+config.EnvLogFile+")")
	f.StringVar(&opts.LogLevel, "log-level", opts.LogLevel, "log level: debug, info, warn, error (env "+config.EnvLogLevel+")")
}

func run(cmd *cobra.Command, opts config.Options) error {
	if err := opts.Validate(); err != nil {
		return err
	}
	closeLog, err := system.SetupLogger(opts.LogFile, opts.LogLevel)
	if err != nil {
		return err
	}
	defer closeLog()

	input, err := loadInput(opts)
	if err != nil {
		return err
	}
	path, err := shell.Resolve(opts.Shell)
	if err != nil {
		return err
	}
	system.Logger.Info("start", "shell", path, "ui", opts.Host, "input_bytes", len(input))

	sess := session.New(session.Config{
		Evaluator:   shell.New(path),
		Input:       input,
		Prompt:      opts.Prompt,
		Placeholder: opts.Placeholder,
		Logger:      system.Logger,
	})
	result, err := startHost(cmd.Context(), opts.Host, sess)
	if err != nil {
		return err
	}
	system.Logger.Info("confirmed", "command", result, "evaluations", sess.Evaluations())
	return emit(cmd.ErrOrStderr(), result, opts.Copy)
}

// emit writes the confirmed command to w with no trailing newline, so it can
// be captured verbatim, and optionally copies it to the clipboard.
func emit(w io.Writer, result string, toClipboard bool) error {
	if _, err := io.WriteString(w, result); err != nil {
		return fmt.Errorf("emit command: %w", err)
	}
	if toClipboard {
		if err := system.CopyToClipboard(result); err != nil {
			system.Logger.Warn("copy to clipboard", "err", err)
		}
	}
	return nil
}

func loadInput(opts config.Options) ([]byte, error) {
	if opts.InputFile != "" {
		return system.ReadInputFile(opts.InputFile)
	}
	return system.CaptureInput(os.Stdin)
}

// Execute runs the CLI.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	switch {
	case err == nil:
	case errors.Is(err, session.ErrCancelled), errors.Is(err, context.Canceled):
		// Ctrl+C in the UI, or SIGINT/SIGTERM ending the context
		os.Exit(exitCancelled)
	default:
		fmt.Fprintln(os.Stderr, "pipepeek:", err)
		os.Exit(1)
	}
}
