package main

import (
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/diarioapp/diario/internal/config"
	"github.com/diarioapp/diario/internal/speech"
	"github.com/diarioapp/diario/internal/tui"
)

func dictateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "dictate",
		Short: "Dictate a journal entry from the terminal",
		Long: `Start the terminal dictation client. Speech is captured through the
configured transcription command (speech.command); without one the
client still works as a plain text editor.`,
		RunE: runDictate,
	}
	cmd.Flags().String("server", "http://localhost:8080", "diario server base URL")
	cmd.Flags().String("token", "", "bearer token for the server (if auth is enabled)")
	return cmd
}

func runDictate(cmd *cobra.Command, _ []string) error {
	cfg := config.Load()

	var factory speech.RecognizerFactory
	if cfg.Speech.Command != "" {
		factory = speech.NewCommandFactory(cfg.Speech.Command, cfg.Speech.Args...)
	}

	var wakeLock speech.WakeLock = speech.NopWakeLock{}
	if cfg.Speech.WakeLockCommand != "" {
		wakeLock = speech.NewCommandWakeLock(cfg.Speech.WakeLockCommand)
	}

	session := speech.NewSession(speech.Config{
		Factory:  factory,
		WakeLock: wakeLock,
		Logger:   slog.Default(),
	})
	defer session.Close()

	server, _ := cmd.Flags().GetString("server")
	token, _ := cmd.Flags().GetString("token")
	if token == "" {
		token = cfg.Server.AuthToken
	}

	return tui.Run(tui.Config{
		Session:   session,
		Submitter: tui.NewAPIClient(server, token),
	})
}
