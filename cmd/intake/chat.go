package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/aretw0/intake/internal/logging"
	"github.com/aretw0/intake/internal/presentation/tui"
	"github.com/aretw0/intake/pkg/intake"
	"github.com/spf13/cobra"
)

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Talk to the application flow from the terminal",
	Long: `Runs the conversation locally without WhatsApp. Every line typed is one inbound message
from the address given with --as. Type /quit to leave.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		address, _ := cmd.Flags().GetString("as")
		plain, _ := cmd.Flags().GetBool("plain")

		// Logs would interleave with the conversation, so they stay off unless asked for.
		logger := logging.NewNop()
		if cmd.Flags().Changed("log-level") {
			logger = logging.New(logging.ParseLevel(cfg.Log.Level))
		}

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		c, err := newCore(ctx, cfg, logger, nil)
		if err != nil {
			return fmt.Errorf("error initializing intake: %w", err)
		}
		defer c.close()

		out := cmd.OutOrStdout()
		styled := !plain && tui.IsTerminal(os.Stdout)
		if styled {
			tui.PrintBanner(out, Version)
		}

		return runChat(ctx, c.newService(cfg, logger, nil), address, cmd.InOrStdin(), out, tui.NewRenderer(styled), logger)
	},
}

// runChat feeds each input line to h as one turn from address and prints the replies.
func runChat(ctx context.Context, h intake.TurnHandler, address string, in io.Reader, out io.Writer, render func(string) (string, error), logger *slog.Logger) error {
	scanner := bufio.NewScanner(in)

	fmt.Fprint(out, "> ")
	for scanner.Scan() {
		line := scanner.Text()
		if strings.TrimSpace(line) == "/quit" {
			return nil
		}

		reply, err := h.Handle(ctx, address, line)
		if err != nil {
			logger.Error("Turn failed", "err", err)
		}

		text, err := render(reply.Text)
		if err != nil {
			text = reply.Text + "\n"
		}
		fmt.Fprint(out, text)

		if ctx.Err() != nil {
			return nil
		}
		if reply.Ended {
			fmt.Fprintln(out, "(application submitted, type anything to start again)")
		}
		fmt.Fprint(out, "> ")
	}
	return scanner.Err()
}

func init() {
	rootCmd.AddCommand(chatCmd)
	chatCmd.Flags().String("as", "27820000000", "Address the messages appear to come from")
	chatCmd.Flags().Bool("plain", false, "Print replies without terminal styling")
}
