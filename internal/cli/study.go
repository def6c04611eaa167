package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/studykit/studykit/internal/session"
	"github.com/studykit/studykit/internal/storage"
	"github.com/studykit/studykit/internal/timer"
)

var (
	studyDeckID int64
	studyMode   string
	studyAll    bool
)

func init() {
	cmd := &cobra.Command{
		Use:   "study",
		Short: "Run a study session in the terminal",
		Long: "Modes:\n" +
			"  revision  time-boxed review of a deck's due cards (default)\n" +
			"  pomodoro  focus/break cycle; completed focus phases are recorded\n" +
			"  timer     plain count-up timer, recorded on stop",
		Run: runStudy,
	}
	cmd.Flags().Int64Var(&studyDeckID, "deck", 0, "Deck ID (required for revision mode)")
	cmd.Flags().StringVar(&studyMode, "mode", "revision", "Session mode: revision, pomodoro, or timer")
	cmd.Flags().BoolVar(&studyAll, "all", false, "Study every card, not just the due ones")
	RootCmd.AddCommand(cmd)
}

func runStudy(cmd *cobra.Command, _ []string) {
	db, err := openDB()
	if err != nil {
		exitErr("open database", err)
	}
	defer db.Close()

	switch studyMode {
	case "revision":
		runRevision(cmd.Context(), db)
	case "pomodoro":
		runPomodoro(cmd.Context(), db)
	case "timer":
		runPlainTimer(cmd.Context(), db)
	default:
		exitErr("study", fmt.Errorf("unknown mode %q", studyMode))
	}
}

func runRevision(ctx context.Context, db *storage.DB) {
	if studyDeckID == 0 {
		exitErr("study", errors.New("revision mode needs --deck"))
	}
	deck, err := db.FindDeck(ctx, studyDeckID)
	if err != nil {
		exitErr("find deck", err)
	}
	if deck == nil {
		exitErr("study", fmt.Errorf("no deck with id %d", studyDeckID))
	}
	cards, err := db.ListCards(ctx, deck.ID)
	if err != nil {
		exitErr("list cards", err)
	}

	rev, err := session.NewRevision(db, deck.ID, cards, session.RevisionConfig{
		BudgetSeconds: cfg.Budget,
		IncludeAll:    studyAll,
	})
	if err != nil {
		exitErr("start session", err)
	}

	tickCtx, cancel := context.WithCancel(ctx)
	defer cancel()
	go timer.Drive(tickCtx, rev)

	fmt.Printf("revision: %s, %d seconds on the clock\n", deck.Name, rev.Budget())
	in := bufio.NewScanner(os.Stdin)
	for {
		card, ok := rev.Current()
		if !ok {
			break
		}
		fmt.Printf("\n[%ds left]\nQ: %s\n(enter to reveal) ", rev.Remaining(), card.Front)
		if !in.Scan() {
			break
		}
		fmt.Printf("A: %s\nknew it? [y/N] ", card.Back)
		if !in.Scan() {
			break
		}
		answer := strings.EqualFold(strings.TrimSpace(in.Text()), "y")
		if _, err := rev.Answer(ctx, answer); err != nil {
			if errors.Is(err, session.ErrSessionOver) {
				break
			}
			exitErr("record answer", err)
		}
	}
	cancel()

	rec, err := rev.Close(context.Background())
	if err != nil {
		exitErr("close session", err)
	}
	fmt.Printf("\nsession %s: %d reviewed, %d correct in %ds\n",
		rev.State(), rec.Reviewed, rec.Correct, rec.Seconds)
}

func runPomodoro(ctx context.Context, db *storage.DB) {
	recorder := session.NewRecorder(db, studyDeckID, nil)
	pom := timer.NewPomodoro(timer.PomodoroConfig{
		FocusSeconds: cfg.Focus,
		BreakSeconds: cfg.Break,
	}, func(ev timer.PhaseEvent) {
		recorder.OnPhaseEnd(ev)
		fmt.Printf("\n%s phase finished (cycle %d)\n", ev.Phase, ev.Cycle)
	})
	if err := pom.Start(); err != nil {
		exitErr("start pomodoro", err)
	}

	sigCtx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	go timer.Drive(sigCtx, pom)

	fmt.Printf("pomodoro started: %ds focus / %ds break (ctrl-c to stop)\n", cfg.Focus, cfg.Break)
	<-sigCtx.Done()

	snap, err := pom.Stop()
	if err != nil {
		exitErr("stop pomodoro", err)
	}
	if snap.Phase == timer.PhaseFocus {
		if err := recorder.RecordPartialFocus(snap.PhaseElapsed); err != nil {
			exitErr("record partial focus", err)
		}
	}
	fmt.Printf("\nstopped after %d completed cycles\n", snap.Cycles)
}

func runPlainTimer(ctx context.Context, db *storage.DB) {
	recorder := session.NewRecorder(db, studyDeckID, nil)
	sw := timer.NewStopwatch()
	if err := sw.Start(); err != nil {
		exitErr("start timer", err)
	}

	sigCtx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	go timer.Drive(sigCtx, sw)

	fmt.Println("timer running (ctrl-c to stop)")
	<-sigCtx.Done()

	elapsed, err := sw.Stop()
	if err != nil {
		exitErr("stop timer", err)
	}
	if err := recorder.RecordManual(elapsed); err != nil {
		exitErr("record session", err)
	}
	fmt.Printf("\nstudied for %ds\n", elapsed)
}
