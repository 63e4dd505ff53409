package main

import (
	"context"
	"flag"
	"io"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/zond/escaperoom"
	"github.com/zond/escaperoom/game"
	"github.com/zond/escaperoom/storage"
	"github.com/zond/escaperoom/structs"
	"github.com/zond/escaperoom/termio"
	"github.com/zond/escaperoom/transcript"
)

// relocate moves path into dir if it still points into the default data directory.
func relocate(path, from, dir string) string {
	if filepath.Dir(path) == filepath.Clean(from) {
		return filepath.Join(dir, filepath.Base(path))
	}
	return path
}

func run() error {
	defaults := structs.DefaultConfig()

	configPath := flag.String("config", "", "YAML file with settings, flags override it.")
	dataDir := flag.String("data", defaults.DataDir, "Where the evidence files are.")
	start := flag.String("start", defaults.Start, "Room to start in, or intro.")
	transcriptPath := flag.String("transcript", defaults.TranscriptPath, "Where to write the transcript.")
	scriptPath := flag.String("script", "", "File with commands to run instead of reading the terminal.")
	auditPath := flag.String("audit", "", "Where to write the JSON audit log, empty disables it.")
	intro := flag.Bool("intro", defaults.Intro, "Whether to print the intro banner.")

	flag.Parse()

	config := defaults
	if *configPath != "" {
		var err error
		if config, err = structs.LoadConfig(*configPath); err != nil {
			return err
		}
	}
	// Visit goes in lexical order, so -transcript is applied after -data relocated the paths.
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "data":
			from := config.DataDir
			config.DataDir = *dataDir
			config.ChronologicalPath = relocate(config.ChronologicalPath, from, *dataDir)
			config.SavePath = relocate(config.SavePath, from, *dataDir)
			config.TranscriptPath = relocate(config.TranscriptPath, from, *dataDir)
		case "transcript":
			config.TranscriptPath = *transcriptPath
		case "start":
			config.Start = *start
		case "script":
			config.ScriptPath = *scriptPath
		case "audit":
			config.AuditPath = *auditPath
		case "intro":
			config.Intro = *intro
		}
	})
	if err := config.Validate(); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var lines termio.LineReader
	var out io.Writer = os.Stdout
	switch {
	case config.ScriptPath != "":
		f, err := os.Open(config.ScriptPath)
		if err != nil {
			return escaperoom.WithStack(err)
		}
		defer f.Close()
		lines = termio.NewScanner(f, nil, "")
	case termio.IsTerminal(os.Stdin):
		terminal, err := termio.NewTerminal(os.Stdin, os.Stdout, termio.DefaultPrompt)
		if err != nil {
			return err
		}
		defer terminal.Close()
		lines, out = terminal, terminal
	default:
		lines = termio.NewScanner(os.Stdin, os.Stdout, termio.DefaultPrompt)
	}

	var audit *storage.AuditLogger
	if config.AuditPath != "" {
		audit = storage.NewAuditLogger(config.AuditPath, config.AuditMaxSizeMB, config.AuditBackups)
		defer audit.Close()
	}

	engine, err := game.New(ctx, config, transcript.New(out), audit)
	if err != nil {
		return err
	}
	if config.Intro || config.Start == structs.StartIntro {
		engine.Intro()
	}
	return engine.Run(ctx, lines)
}

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}
