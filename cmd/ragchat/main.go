package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/joho/godotenv"

	"ragchat/internal/api"
	"ragchat/internal/config"
	"ragchat/internal/console"
	"ragchat/internal/controller"
	"ragchat/internal/tui"
	"ragchat/internal/watch"
)

const usage = `Usage: ragchat [--config=config.yaml] [command] [args]

Commands:
  tui               interactive terminal UI (default)
  docs              list indexed documents
  upload <paths...> upload and index files
  ask [message]     ask one question, or chat line by line when no message is given
  history           show the server-side history of this session
  watch <dir>       upload files as they appear in dir
  serve             run the reference backend
`

func main() {
	_ = godotenv.Load()

	var cfgPath string
	flag.StringVar(&cfgPath, "config", "", "Path to YAML config file (optional; uses ~/.config/ragchat/config.yaml if not provided)")
	flag.Usage = func() { fmt.Fprint(flag.CommandLine.Output(), usage) }
	flag.Parse()

	var cfg *config.AppConfig
	var err error
	if cfgPath == "" {
		cfg, _, err = config.LoadDefault()
	} else {
		cfg, err = config.Load(cfgPath)
	}
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cmd, args := "tui", flag.Args()
	if len(args) > 0 {
		cmd, args = args[0], args[1:]
	}

	switch cmd {
	case "tui":
		err = runTUI(ctx, cfg)
	case "serve":
		err = runServe(ctx, cfg)
	case "docs", "upload", "ask", "history", "watch":
		err = runConsole(ctx, cfg, cmd, args)
	case "help":
		flag.Usage()
	default:
		fmt.Fprintf(os.Stderr, "unknown command %q\n\n", cmd)
		flag.Usage()
		os.Exit(2)
	}
	if err != nil {
		console.NewView(os.Stderr).Error(err)
		os.Exit(1)
	}
}

func newClient(cfg *config.AppConfig) *api.Client {
	return api.New(api.Config{
		BaseURL:   cfg.Server.BaseURL,
		SessionID: cfg.Server.SessionID,
		Timeout:   cfg.Server.Timeout(),
	})
}

func runTUI(ctx context.Context, cfg *config.AppConfig) error {
	logPath := cfg.Log.File
	if logPath == "" {
		logPath = config.DefaultLogPath()
	}
	if err := os.MkdirAll(filepath.Dir(logPath), 0o755); err != nil {
		return err
	}
	f, err := tea.LogToFile(logPath, "ragchat")
	if err != nil {
		return fmt.Errorf("open log file: %w", err)
	}
	defer f.Close()

	client := newClient(cfg)
	log.Printf("Starting TUI against %s (session %s)", cfg.Server.BaseURL, client.SessionID())
	m := tui.New(ctx, tui.Options{
		Index:   client,
		Chat:    client,
		Variant: cfg.Chat.Variant,
		Server:  cfg.Server.BaseURL,
	})
	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx))
	m.Connect(p.Send)
	_, err = p.Run()
	if ctx.Err() != nil {
		return nil
	}
	return err
}

func runConsole(ctx context.Context, cfg *config.AppConfig, cmd string, args []string) error {
	client := newClient(cfg)
	view := console.NewView(os.Stdout)
	docs := controller.NewDocumentList(client, view)

	switch cmd {
	case "docs":
		return docs.Refresh(ctx)
	case "upload":
		return docs.SubmitUpload(ctx, args)
	case "ask":
		send := chatSender(cfg, client, view)
		if len(args) > 0 {
			return send(ctx, strings.Join(args, " "))
		}
		return view.Loop(ctx, os.Stdin, send)
	case "history":
		msgs, err := client.History(ctx)
		if err != nil {
			return err
		}
		for _, msg := range msgs {
			view.Append(msg)
		}
		return nil
	case "watch":
		if len(args) != 1 {
			return fmt.Errorf("watch needs exactly one directory")
		}
		return runWatch(ctx, cfg, docs, view, args[0])
	}
	return fmt.Errorf("unknown command %q", cmd)
}

// chatSender picks the chat controller for the configured variant.
func chatSender(cfg *config.AppConfig, client *api.Client, view *console.View) console.SendFunc {
	if cfg.Chat.Variant == config.VariantText {
		c := controller.NewTextChat(client, view)
		return func(ctx context.Context, input string) error {
			c.Send(ctx, input)
			return nil
		}
	}
	c := controller.NewImageChat(client, view)
	return func(ctx context.Context, input string) error {
		_, err := c.Send(ctx, input)
		return err
	}
}

func runWatch(ctx context.Context, cfg *config.AppConfig, docs *controller.DocumentList, view *console.View, dir string) error {
	w, err := watch.New(cfg.Upload.Extensions, time.Duration(cfg.Upload.DebounceMS)*time.Millisecond)
	if err != nil {
		return err
	}
	defer w.Close()

	if err := docs.Refresh(ctx); err != nil {
		return err
	}
	log.Printf("Watching %s for %v", dir, cfg.Upload.Extensions)
	err = w.Run(ctx, dir, func(ctx context.Context, paths []string) {
		if err := docs.SubmitUpload(ctx, paths); err != nil {
			view.Error(err)
		}
	})
	if ctx.Err() != nil {
		return nil
	}
	return err
}
