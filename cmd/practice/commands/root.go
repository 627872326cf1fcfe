package commands

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"go-practice/audio"
	"go-practice/config"
	"go-practice/debug"
	"go-practice/loop"
	"go-practice/practice"
	"go-practice/tempo"
	"go-practice/theme"
	"go-practice/tui"
)

// flags shared by the root and click commands
type flags struct {
	configPath string
	tempo      int
	timeSig    string
	notes      int
	palette    string
	debug      bool
	mute       bool
}

// NewRootCmd builds the command tree
func NewRootCmd() *cobra.Command {
	return newRootCmd(&flags{})
}

func newRootCmd(f *flags) *cobra.Command {
	root := &cobra.Command{
		Use:   "practice",
		Short: "Metronome, speed trainer and loop section in the terminal",
		Long: `practice runs three practice aids side by side: a metronome with tap
tempo, a speed trainer that steps the tempo up a schedule, and a loop
section that picks a range of notes to repeat.

Configuration is read from ~/.config/go-practice/config.yaml; flags
override it for one run.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := f.load(cmd)
			if err != nil {
				return err
			}
			return runTUI(cfg, f.mute)
		},
	}

	pf := root.PersistentFlags()
	pf.StringVar(&f.configPath, "config", "", "config file (default is ~/.config/go-practice/config.yaml)")
	pf.IntVar(&f.tempo, "tempo", tempo.DefaultBPM, "tempo in bpm")
	pf.StringVar(&f.timeSig, "timesig", tempo.CommonTime.String(), "time signature, one of 2/4 3/4 4/4 5/4 6/8 7/8 9/8 12/8")
	pf.BoolVar(&f.debug, "debug", false, "write a debug log")
	pf.BoolVar(&f.mute, "mute", false, "no audio")
	root.Flags().IntVar(&f.notes, "notes", 64, "notes in the score the loop section picks from")
	root.Flags().StringVar(&f.palette, "palette", "", "GIMP .gpl palette file")

	root.AddCommand(newClickCmd(f))
	root.AddCommand(newConfigCmd(f))
	return root
}

// Execute runs the root command.
func Execute() error {
	return NewRootCmd().Execute()
}

// load reads the config file and applies any flags the user set
func (f *flags) load(cmd *cobra.Command) (*config.Config, error) {
	cfg, err := config.Load(f.configPath)
	if err != nil {
		return nil, err
	}

	changed := func(name string) bool {
		fl := cmd.Flags().Lookup(name)
		return fl != nil && fl.Changed
	}
	if changed("tempo") {
		cfg.Metronome.Tempo = f.tempo
	}
	if changed("timesig") {
		if _, err := tempo.ParseTimeSignature(f.timeSig); err != nil {
			return nil, err
		}
		cfg.Metronome.TimeSignature = f.timeSig
	}
	if changed("notes") {
		cfg.Session.TotalNotes = f.notes
	}
	if changed("palette") {
		cfg.UI.Palette = f.palette
	}
	if changed("debug") {
		cfg.Debug.Enabled = f.debug
	}
	cfg.Normalize()

	if cfg.Debug.Enabled {
		path := cfg.Debug.Path
		if path == "" {
			path = debug.DefaultPath()
		}
		if err := debug.Enable(path); err != nil {
			return nil, errors.Wrap(err, "enabling debug log")
		}
	}
	return cfg, nil
}

func clicker(mute bool) audio.Clicker {
	if mute {
		return audio.Silent{}
	}
	return audio.Shared()
}

// playerCallbacks stand in for the score player, which is not part of this
// program. They only record what the player would be told.
func playerCallbacks() practice.Callbacks {
	return practice.Callbacks{
		OnBPMChange: func(bpm int) {
			debug.Log("player", "tempo -> %d", bpm)
		},
		OnTimeSignatureChange: func(ts tempo.TimeSignature) {
			debug.Log("player", "meter -> %s", ts)
		},
		OnComplete: func() {
			debug.Log("player", "speed trainer complete")
		},
		OnLoopChange: func(s loop.Snapshot) {
			debug.Log("player", "loop enabled=%v start=%v end=%v laps=%d/%d",
				s.Enabled, s.LoopStart, s.LoopEnd, s.LoopCount, s.MaxLoops)
		},
	}
}

func runTUI(cfg *config.Config, mute bool) error {
	defer debug.Disable()

	palette, err := theme.LoadOrDefault(cfg.UI.Palette)
	if err != nil {
		debug.Warn("theme", err, "using built-in palette")
	}

	shell := practice.New(clicker(mute), cfg.Options())
	defer shell.Close()
	shell.SetCallbacks(playerCallbacks())

	m := tui.NewModel(shell, theme.New(palette))
	p := tea.NewProgram(m, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return errors.Wrap(err, "running ui")
	}
	return nil
}
