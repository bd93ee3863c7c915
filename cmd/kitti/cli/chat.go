package cli

import (
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/pocketkitti/companion/internal/analyzer"
	"github.com/pocketkitti/companion/internal/journal"
	"github.com/pocketkitti/companion/internal/session"
	"github.com/pocketkitti/companion/internal/ui/tui"
	"github.com/pocketkitti/companion/internal/vibe"
)

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Talk to your companion",
	Long: `Opens an interactive chat session. When you end the session (esc), the
conversation is analyzed and saved: the mood snippet merges into today's
journal entry and a vibe record is appended to your history.`,
	Run: func(cmd *cobra.Command, args []string) {
		runChat()
	},
}

func init() {
	RootCmd.AddCommand(chatCmd)
}

func runChat() {
	obs := newObserver()
	defer obs.Close()

	backend := openBackend()
	defer backend.Close()

	p, err := buildProvider(backend)
	if err != nil {
		obs.Log().Fatal().Err(err).Msg("Failed to initialize provider")
	}

	pers, err := loadPersona()
	if err != nil {
		obs.Log().Fatal().Err(err).Msg("Failed to load persona")
	}

	a := analyzer.New(p, analyzer.WithPersona(pers), analyzer.WithObserver(obs))
	sess := session.New(
		a,
		journal.New(backend, journal.WithObserver(obs)),
		vibe.New(backend, vibe.WithObserver(obs)),
		backend,
		session.WithObserver(obs),
	)

	model := tui.NewModel(pers.Name, sess)
	program := tea.NewProgram(model, tea.WithAltScreen())

	final, err := program.Run()
	if err != nil {
		fmt.Printf("Alas, there's been an error: %v\n", err)
		os.Exit(1)
	}

	m, ok := final.(tui.Model)
	if !ok {
		return
	}
	if m.Err() != nil {
		obs.Log().Error().Err(m.Err()).Msg("Failed to save session")
	}
	fmt.Println(tui.Summary(m.Mood()))
}
