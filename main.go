package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"

	"go-flash/internal/clock"
	"go-flash/internal/config"
	"go-flash/internal/content"
	"go-flash/internal/game"
	"go-flash/internal/logging"
	"go-flash/internal/scoring"
	"go-flash/internal/state"
	"go-flash/internal/timer"
	"go-flash/internal/validation"
)

// sessionMsg carries a session event into the update loop.
type sessionMsg struct{ event game.Event }

type feedbackMsg struct{ feedback validation.Feedback }

type keyMap struct {
	Answer key.Binding
	Swipe  key.Binding
	Submit key.Binding
	Quit   key.Binding
	Again  key.Binding
	Exit   key.Binding
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Answer, k.Swipe, k.Submit, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{k.ShortHelp(), {k.Again, k.Exit}}
}

var keys = keyMap{
	Answer: key.NewBinding(key.WithKeys("1", "2", "3", "4", "5", "6", "7", "8", "9"), key.WithHelp("1-9", "pick option")),
	Swipe:  key.NewBinding(key.WithKeys("y", "n", "left", "right"), key.WithHelp("y/n", "right pair / wrong pair")),
	Submit: key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "submit")),
	Quit:   key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "give up")),
	Again:  key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "play again")),
	Exit:   key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "exit")),
}

type LocalState struct {
	Game    *game.Game
	Session *game.Session
	Mode    game.Mode
	Deck    content.Deck
	History *scoring.History // nil when results are not stored

	events   chan tea.Msg
	input    textinput.Model
	help     help.Model
	feedback *validation.Feedback
	err      error
	log      zerolog.Logger
}

// forward queues msg for the update loop without blocking the session.
func (s *LocalState) forward(msg tea.Msg) {
	select {
	case s.events <- msg:
	default:
		s.log.Warn().Msg("ui event queue full, dropping event")
	}
}

func waitForEvent(ch <-chan tea.Msg) tea.Cmd {
	return func() tea.Msg { return <-ch }
}

func (s *LocalState) Init() tea.Cmd {
	return tea.Batch(waitForEvent(s.events), textinput.Blink)
}

func (s *LocalState) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case sessionMsg:
		if _, ok := msg.event.(game.RoundChanged); ok {
			s.input.Reset()
		}
		return s, waitForEvent(s.events)
	case feedbackMsg:
		s.feedback = &msg.feedback
		return s, waitForEvent(s.events)
	case tea.KeyMsg:
		return s.handleKey(msg)
	}

	var cmd tea.Cmd
	s.input, cmd = s.input.Update(msg)
	return s, cmd
}

func (s *LocalState) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+c" {
		s.Session.Quit()
		return s, tea.Quit
	}

	if s.Session.Phase() != state.Active {
		switch {
		case key.Matches(msg, keys.Again):
			s.feedback = nil
			s.Session.ResetStats()
			s.err = s.Session.Start(s.Mode)
		case key.Matches(msg, keys.Exit):
			return s, tea.Quit
		}
		return s, nil
	}

	if s.Mode.Variant == content.Match && !game.IsExitRequested(msg.String()) {
		if key.Matches(msg, keys.Submit) {
			s.err = s.Game.HandleText(s.input.Value())
			s.input.Reset()
			return s, nil
		}
		var cmd tea.Cmd
		s.input, cmd = s.input.Update(msg)
		return s, cmd
	}

	_, s.err = s.Game.HandleKeyPress(msg.String())
	return s, nil
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

// speechLog stands in for a text-to-speech engine.
type speechLog struct{ log zerolog.Logger }

func (s speechLog) Speak(text, locale string) {
	s.log.Debug().Str("text", text).Str("locale", locale).Msg("speak")
}

func openStorage(cfg config.Config) (scoring.ScoreStorage, io.Closer, error) {
	switch cfg.Storage {
	case "sqlite":
		path := cfg.ScorePath
		if path == "" {
			var err error
			if path, err = scoring.DefaultScorePath("scores.db"); err != nil {
				return nil, nil, err
			}
		}
		st, err := scoring.OpenSQLiteStorage(path)
		if err != nil {
			return nil, nil, err
		}
		return st, st, nil
	case "json":
		st, err := scoring.NewJSONFileStorage(cfg.ScorePath)
		if err != nil {
			return nil, nil, err
		}
		return st, nopCloser{}, nil
	}
	return nil, nopCloser{}, nil
}

func initialModel(ctx context.Context, cfg config.Config, paths []string, logger zerolog.Logger) (*LocalState, io.Closer, error) {
	mode, err := cfg.GameMode()
	if err != nil {
		return nil, nil, err
	}

	provider := &content.FileProvider{}
	scope := content.Scope(paths)
	words, err := provider.Pool(ctx, scope)
	if err != nil {
		var insufficient *content.InsufficientContentError
		if errors.As(err, &insufficient) {
			return nil, nil, fmt.Errorf("no cards found in provided paths")
		}
		return nil, nil, err
	}
	deck, _ := provider.Deck(scope)

	storage, closer, err := openStorage(cfg)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create score storage: %w", err)
	}

	clk := clock.Real{}
	gen := content.NewGenerator(words, cfg.GeneratorOptions(), nil, clk)

	s := &LocalState{
		Mode:   mode,
		Deck:   deck,
		events: make(chan tea.Msg, 256),
		help:   help.New(),
		log:    logger,
	}

	sink := validation.Multi{
		validation.LogSink{Logger: logger},
		validation.FeedbackFunc(func(_ context.Context, f validation.Feedback) { s.forward(feedbackMsg{f}) }),
	}
	deps := game.NewDeps(clk, gen, cfg.Scoring, sink)
	deps.Timer = timer.New(clk, cfg.Tick)
	deps.Logger = &logger

	if storage != nil {
		s.History, err = scoring.LoadHistory(words.Hash(), mode.String(), storage)
		if err != nil {
			closer.Close()
			return nil, nil, err
		}
		deps.Recorder = game.HistoryRecorder{History: s.History, Title: deck.Title}
	}

	s.Session = game.NewSession(deps, game.WithSpeech(speechLog{logger}), game.WithContext(ctx))
	s.Game = game.NewGame(s.Session)
	s.Session.Subscribe(func(e game.Event) { s.forward(sessionMsg{e}) })

	s.input = textinput.New()
	s.input.Placeholder = "type the answer"
	s.input.Focus()

	if err := s.Session.Start(mode); err != nil {
		closer.Close()
		var insufficient *content.InsufficientContentError
		if errors.As(err, &insufficient) {
			return nil, nil, fmt.Errorf("this deck cannot be played as %s: %w", mode.Variant, err)
		}
		return nil, nil, err
	}
	return s, closer, nil
}

func main() {
	cfg, err := config.Load(".env")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(2)
	}

	config.BindFlags(flag.CommandLine, &cfg)
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s [options] <deck file or dir> [more...]\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "\nOptions:\n")
		fmt.Fprintf(os.Stderr, "   -m, --mode=MODE         practice, survival or time\n")
		fmt.Fprintf(os.Stderr, "   -g, --game=GAME         quiz, match or swipe\n")
		fmt.Fprintf(os.Stderr, "   -l, --lives=N           Lives in survival mode\n")
		fmt.Fprintf(os.Stderr, "   -t, --timer=value       Countdown in time mode (e.g. 60 or 1:30)\n")
		fmt.Fprintf(os.Stderr, "       --choices=N         Options per quiz round\n")
		fmt.Fprintf(os.Stderr, "       --direction=SIDE    front, back or mixed\n")
		fmt.Fprintf(os.Stderr, "       --storage=KIND      json, sqlite or none\n")
		fmt.Fprintf(os.Stderr, "       --scores=PATH       Result storage path\n")
		fmt.Fprintf(os.Stderr, "       --log-file=PATH     Write logs to PATH\n")
		fmt.Fprintf(os.Stderr, "       --log-level=LEVEL   Log level (default info)\n")
		fmt.Fprintf(os.Stderr, "    -h, --help             Show this help message\n")
		fmt.Fprintf(os.Stderr, "\nEvery option can also be set with a %s* environment variable.\n", config.EnvPrefix)
	}
	flag.Parse()

	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(2)
	}

	paths := flag.Args()
	if len(paths) == 0 {
		paths = cfg.Decks
	}
	if len(paths) == 0 {
		flag.Usage()
		return
	}

	logger, logCloser, err := logging.New(cfg.LogLevel, cfg.LogFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(2)
	}
	defer logCloser.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	model, closer, err := initialModel(ctx, cfg, paths, logger)
	if err != nil {
		fmt.Printf("Error initializing model: %v\n", err)
		os.Exit(1)
	}
	defer closer.Close()

	p := tea.NewProgram(model, tea.WithContext(ctx))
	if _, err := p.Run(); err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		fmt.Printf("Error starting the program: %v\n", err)
	}
	model.Session.Quit()
}
