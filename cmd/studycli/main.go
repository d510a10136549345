package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/domino14/srs_engine/config"
	"github.com/domino14/srs_engine/internal/session"
	"github.com/domino14/srs_engine/internal/srs"
	"github.com/domino14/srs_engine/internal/stores"
)

type studyStateManager struct {
	runtime  *session.Runtime
	store    *stores.Store
	content  map[string]stores.StoredCard
	showBack bool
	shownAt  time.Time
	lastMsg  string
	summary  string
}

func (m *studyStateManager) View() string {
	if m.summary != "" {
		return m.summary
	}
	card, ok := m.runtime.CurrentQuestion()
	if !ok {
		return "No more cards in this session. Hit (Q) to finish and see your summary.\n"
	}
	sc := m.content[card.ID]

	body := strings.Repeat("-", 25)
	body += "\n\n  " + sc.Front + "\n\n"
	if m.showBack {
		body += "  " + sc.Back + "\n\n"
	}
	footer := "(1) Missed    (2) Hard    (3) Good    (4) Easy\n\n      (F) Flip   (S) Skip   (Q) End session"
	if m.lastMsg != "" {
		footer += "\n\n" + m.lastMsg
	}
	return body + strings.Repeat("-", 25) + "\n" + footer + "\n"
}

// grade scores the current card and persists the update.
func (m *studyStateManager) grade(g srs.Grade) {
	now := time.Now()
	result := srs.ReviewResult{
		Grade:          g,
		ResponseTimeMs: now.Sub(m.shownAt).Milliseconds(),
	}
	updated, err := m.runtime.SubmitAnswer(result, now)
	if err != nil {
		m.lastMsg = "error: " + err.Error()
		return
	}
	if err := m.store.UpdateCard(updated, result, now); err != nil {
		log.Err(err).Str("card", updated.ID).Msg("persist-failed")
	}
	m.lastMsg = fmt.Sprintf("Scored %s; next review in %d day(s)", g, updated.Interval)
	m.showBack = false
	m.shownAt = now
}

func (m *studyStateManager) finish() {
	now := time.Now()
	sess, err := m.runtime.EndSession("", "", now)
	if err != nil {
		m.lastMsg = "error: " + err.Error()
		return
	}
	if err := m.store.AppendSession(sess); err != nil {
		log.Err(err).Msg("session-persist-failed")
	}
	rec := session.Recommend(m.runtime.Stats(now))
	var b strings.Builder
	fmt.Fprintf(&b, "Session over. Reviewed %d cards, %d correct.\n",
		sess.QuestionsReviewed, sess.CorrectAnswers)
	fmt.Fprintf(&b, "Focus time: %.1f min\n\n", sess.FocusTimeMinutes)
	fmt.Fprintf(&b, "Next session: %d minutes, difficulty: %s\n",
		rec.NextSessionMinutes, rec.Difficulty)
	fmt.Fprintf(&b, "Burnout risk: %s\n", rec.BurnoutRisk)
	for _, a := range rec.Advice {
		fmt.Fprintf(&b, "  - %s\n", a)
	}
	b.WriteString("\nHit ctrl-c to exit.\n")
	m.summary = b.String()
}

type model struct {
	textInput textinput.Model
	mgr       *studyStateManager
}

func initialModel(mgr *studyStateManager) model {
	ti := textinput.New()
	ti.Placeholder = "1-4 to grade"
	ti.Focus()
	ti.CharLimit = 20
	ti.Width = 20
	return model{textInput: ti, mgr: mgr}
}

func (m model) Init() tea.Cmd {
	return textinput.Blink
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC:
			return m, tea.Quit
		}
		if m.mgr.summary != "" {
			return m, nil
		}
		switch strings.ToLower(msg.String()) {
		case "1":
			m.mgr.grade(srs.GradeAgain)
		case "2":
			m.mgr.grade(srs.GradeHard)
		case "3":
			m.mgr.grade(srs.GradeGood)
		case "4":
			m.mgr.grade(srs.GradeEasy)
		case "f":
			m.mgr.showBack = !m.mgr.showBack
		case "s":
			if err := m.mgr.runtime.SkipQuestion(); err != nil {
				m.mgr.lastMsg = "error: " + err.Error()
			} else {
				m.mgr.showBack = false
				m.mgr.shownAt = time.Now()
				m.mgr.lastMsg = "Skipped"
			}
		case "q":
			m.mgr.finish()
		}
	}
	m.textInput, cmd = m.textInput.Update(msg)
	return m, cmd
}

func (m model) View() string {
	prog := m.mgr.runtime.Progress(time.Now())
	header := fmt.Sprintf("Cards done: %d   remaining: %d   accuracy: %.0f%%",
		prog.CardsCompleted, prog.CardsRemaining, prog.AccuracyPct)
	return fmt.Sprintf("%s\n\n%s\n\n%s\n\n", header, m.mgr.View(), m.textInput.View())
}

type importedCard struct {
	ID    string `json:"id"`
	Front string `json:"front"`
	Back  string `json:"back"`
}

// importFile loads cards from a JSON array of {id, front, back}.
func importFile(store *stores.Store, path string, now time.Time) error {
	bts, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	var in []importedCard
	if err := json.Unmarshal(bts, &in); err != nil {
		return err
	}
	cards := make([]stores.StoredCard, len(in))
	for i, c := range in {
		cards[i] = stores.StoredCard{
			Card:  srs.NewCard(c.ID, now),
			Front: c.Front,
			Back:  c.Back,
		}
	}
	n, err := store.AddCards(cards)
	if err != nil {
		return err
	}
	fmt.Printf("Imported %d new cards\n", n)
	return nil
}

// importFSRSVault migrates a go-fsrs JSON vault export. The card IDs double
// as the front text; edit them in the store afterwards.
func importFSRSVault(store *stores.Store, path string, now time.Time) error {
	bts, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	converted, err := srs.ImportFSRSJSON(bts, now)
	if err != nil {
		return err
	}
	cards := make([]stores.StoredCard, len(converted))
	for i, c := range converted {
		cards[i] = stores.StoredCard{Card: c, Front: c.ID}
	}
	n, err := store.AddCards(cards)
	if err != nil {
		return err
	}
	fmt.Printf("Migrated %d cards from fsrs vault\n", n)
	return nil
}

func main() {
	cfg := &config.Config{}
	args := os.Args[1:]

	// Import subcommands run before flag parsing so they can share flags.
	var importPath, importFSRSPath string
	rest := args[:0:0]
	for i := 0; i < len(args); i++ {
		switch {
		case args[i] == "-import" && i+1 < len(args):
			i++
			importPath = args[i]
		case args[i] == "-import-fsrs" && i+1 < len(args):
			i++
			importFSRSPath = args[i]
		default:
			rest = append(rest, args[i])
		}
	}
	if err := cfg.Load(rest); err != nil {
		fmt.Println("config error:", err)
		os.Exit(1)
	}
	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)

	store, err := stores.Open(cfg.DBPath)
	if err != nil {
		fmt.Println("could not open store:", err)
		os.Exit(1)
	}
	defer store.Close()

	now := time.Now()
	if importPath != "" {
		if err := importFile(store, importPath, now); err != nil {
			fmt.Println("import failed:", err)
			os.Exit(1)
		}
		return
	}
	if importFSRSPath != "" {
		if err := importFSRSVault(store, importFSRSPath, now); err != nil {
			fmt.Println("import failed:", err)
			os.Exit(1)
		}
		return
	}

	params := srs.DefaultParams()
	if cfg.ParamsFile != "" {
		params, err = srs.LoadParams(cfg.ParamsFile)
		if err != nil {
			fmt.Println("bad params file:", err)
			os.Exit(1)
		}
	}
	strategy, err := srs.NewStrategy(srs.StrategyName(cfg.Strategy), params)
	if err != nil {
		fmt.Println(err)
		os.Exit(1)
	}

	stored, err := store.LoadPool()
	if err != nil {
		fmt.Println("could not load pool:", err)
		os.Exit(1)
	}
	content := make(map[string]stores.StoredCard, len(stored))
	pool := make([]srs.Card, len(stored))
	for i, sc := range stored {
		content[sc.Card.ID] = sc
		pool[i] = sc.Card
	}

	runtime := session.NewRuntime(strategy)
	if err := runtime.StartSession(pool, cfg.SessionConfig(), now); err != nil {
		fmt.Println("could not start session:", err)
		os.Exit(1)
	}

	mgr := &studyStateManager{
		runtime: runtime,
		store:   store,
		content: content,
		shownAt: now,
	}
	p := tea.NewProgram(initialModel(mgr))
	if _, err := p.Run(); err != nil {
		fmt.Printf("Alas, there's been an error: %v", err)
		os.Exit(1)
	}
}
