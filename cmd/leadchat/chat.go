package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"sync"

	"github.com/mattn/go-isatty"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"leadchat-backend/internal/config"
	"leadchat-backend/internal/logging"
	"leadchat-backend/internal/terminal"
	"leadchat-backend/internal/widget"
)

const chatHelp = `Commands: /open /close /min /restore /lead /help /quit
Anything else is sent to the assistant.`

func newChatCmd() *cobra.Command {
	var (
		relayURL string
		demo     bool
	)
	cmd := &cobra.Command{
		Use:   "chat",
		Short: "Talk to the relay through the chat widget in the terminal",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.LoadClient()
			if relayURL != "" {
				cfg.RelayURL = strings.TrimRight(relayURL, "/")
			}
			if demo {
				cfg.Demo = true
			}
			logger := logging.Setup(cfg.LogLevel, cfg.LogFormat)
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
			defer stop()
			return runChat(ctx, cfg, logger, os.Stdin, os.Stdout)
		},
	}
	cmd.Flags().StringVar(&relayURL, "relay", "", "relay base URL, overrides RELAY_URL")
	cmd.Flags().BoolVar(&demo, "demo", false, "use the offline demo playlist instead of the relay")
	return cmd
}

func runChat(ctx context.Context, cfg config.ClientConfig, logger zerolog.Logger, in *os.File, out io.Writer) error {
	classifier, err := widget.LoadClassifier(cfg.LeadPhrasesFile)
	if err != nil {
		return err
	}

	var (
		relay     widget.Relay
		submitter widget.LeadSubmitter
	)
	if cfg.Demo {
		relay = widget.NewDemoRelay(nil, cfg.DemoDelay)
		submitter = widget.DemoLeadSubmitter{Logger: logger}
	} else {
		relay = widget.NewHTTPRelay(cfg.RelayURL, nil)
		submitter = widget.NewHTTPLeadClient(cfg.RelayURL, nil)
	}

	var rendererOpts []terminal.Option
	if isatty.IsTerminal(in.Fd()) {
		rendererOpts = append(rendererOpts, terminal.WithMarkdown(80))
	}
	renderer, err := terminal.NewRenderer(out, rendererOpts...)
	if err != nil {
		return err
	}

	ctrl := widget.NewController(relay, submitter,
		widget.WithClassifier(classifier),
		widget.WithRenderer(renderer),
		widget.WithGreeting(cfg.Greeting),
		widget.WithLogger(logger),
	)
	fmt.Fprintln(out, chatHelp)
	ctrl.ToggleLauncher()

	// Deferred in reverse: stop drawing, cancel sends in flight, wait for them.
	ctx, cancel := context.WithCancel(ctx)
	var pending sync.WaitGroup
	defer pending.Wait()
	defer cancel()
	defer renderer.Hold()

	next := make(chan struct{}, 1)
	lines := make(chan string)
	eof := make(chan error, 1)
	go scanLines(ctx, in, next, lines, eof)

	for {
		next <- struct{}{}
		var line string
		select {
		case <-ctx.Done():
			return nil
		case err := <-eof:
			// Piped input: let the last replies land before exiting.
			pending.Wait()
			return err
		case line = <-lines:
		}

		switch line = strings.TrimSpace(line); line {
		case "":
			continue
		case "/quit", "/exit":
			return nil
		case "/help":
			fmt.Fprintln(out, chatHelp)
		case "/open":
			if ctrl.State() == widget.StateClosed {
				ctrl.ToggleLauncher()
			}
		case "/close":
			if ctrl.State() != widget.StateClosed {
				ctrl.ToggleLauncher()
			}
		case "/min":
			report(out, ctrl.Minimize())
		case "/restore":
			report(out, ctrl.Restore())
		case "/lead":
			if !ctrl.LeadFormVisible() {
				report(out, widget.ErrLeadFormHidden)
				continue
			}
			// The form owns the terminal until it closes.
			renderer.Hold()
			rec, err := terminal.PromptLead(ctx, in, out)
			renderer.Release()
			if errors.Is(err, terminal.ErrLeadFormAborted) {
				continue
			}
			if ctx.Err() != nil {
				return nil
			}
			if err != nil {
				return err
			}
			report(out, ctrl.SubmitLead(ctx, rec))
		default:
			// Replies arrive in the background so /min and /close keep working
			// while the relay is busy.
			pending.Add(1)
			go func(text string) {
				defer pending.Done()
				report(out, ctrl.SubmitUserText(ctx, text))
			}(line)
		}
	}
}

// scanLines reads one line from in per token on next, so nothing reads the
// terminal while the lead form has it. eof gets the scanner error on EOF.
func scanLines(ctx context.Context, in io.Reader, next <-chan struct{}, lines chan<- string, eof chan<- error) {
	sc := bufio.NewScanner(in)
	for {
		select {
		case <-ctx.Done():
			return
		case <-next:
		}
		if !sc.Scan() {
			eof <- sc.Err()
			return
		}
		select {
		case lines <- sc.Text():
		case <-ctx.Done():
			return
		}
	}
}

func report(out io.Writer, err error) {
	if err == nil {
		return
	}
	if widget.KindOf(err) == widget.KindValidation {
		fmt.Fprintln(out, "!", err)
		return
	}
	fmt.Fprintln(out, "error:", err)
}
