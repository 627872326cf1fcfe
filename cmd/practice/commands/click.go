package commands

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/eiannone/keyboard"
	"github.com/gosuri/uilive"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"go-practice/debug"
	"go-practice/metronome"
	"go-practice/tempo"
	"go-practice/theme"
	"go-practice/widgets"
)

// clickKeys mirrors handleClickKey
var clickKeys = [][]key.Binding{
	{
		key.NewBinding(key.WithKeys(" "), key.WithHelp("space", "start/stop")),
		key.NewBinding(key.WithKeys("t"), key.WithHelp("t", "tap tempo")),
		key.NewBinding(key.WithKeys("+", "="), key.WithHelp("+/-", "tempo ±5")),
	},
	{
		key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "accent")),
		key.NewBinding(key.WithKeys("m"), key.WithHelp("m", "next meter")),
		key.NewBinding(key.WithKeys("q", "esc"), key.WithHelp("q", "quit")),
	},
}

func keyLegend() string {
	return help.New().FullHelpView(clickKeys)
}

func newClickCmd(f *flags) *cobra.Command {
	var bars int
	cmd := &cobra.Command{
		Use:   "click",
		Short: "Run the metronome without the UI",
		Long: `click runs only the metronome and prints a live beat line. It uses the
same config file and flags as the UI.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := f.load(cmd)
			if err != nil {
				return err
			}
			defer debug.Disable()

			ts, err := tempo.ParseTimeSignature(cfg.Metronome.TimeSignature)
			if err != nil {
				return err
			}
			m := metronome.New(clicker(f.mute),
				metronome.WithBPM(cfg.Metronome.Tempo),
				metronome.WithTimeSignature(ts),
				metronome.WithAccent(cfg.Metronome.Accent),
				metronome.WithVolume(cfg.Metronome.Volume),
			)
			defer m.Close()

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return runClick(ctx, m, bars, cmd.OutOrStdout())
		},
	}
	cmd.Flags().IntVar(&bars, "bars", 0, "stop after this many bars, 0 runs until quit")
	return cmd
}

func runClick(ctx context.Context, m *metronome.Metronome, bars int, out io.Writer) error {
	keys, err := keyboard.GetKeys(10)
	if err != nil {
		return errors.Wrap(err, "opening keyboard")
	}
	defer keyboard.Close()

	fmt.Fprintln(out, keyLegend())
	fmt.Fprintln(out)

	w := uilive.New()
	w.Out = out
	w.Start()
	defer w.Stop()

	th := theme.New(nil)
	done := stopAfterBars(m, bars)
	m.Start()
	fmt.Fprintln(w, statusLine(th, m.State()))

	for {
		select {
		case <-ctx.Done():
			return nil

		case <-done:
			fmt.Fprintln(w, statusLine(th, m.State()))
			return nil

		case <-m.Beats():

		case ev := <-keys:
			if ev.Err != nil {
				return errors.Wrap(ev.Err, "reading keyboard")
			}
			if quit := handleClickKey(m, ev); quit {
				return nil
			}
		}
		fmt.Fprintln(w, statusLine(th, m.State()))
	}
}

// stopAfterBars stops m after the last beat of bar number bars and closes the
// returned channel. With bars <= 0 the channel never closes.
func stopAfterBars(m *metronome.Metronome, bars int) <-chan struct{} {
	done := make(chan struct{})
	if bars <= 0 {
		return done
	}
	measures := 0
	m.OnBeat(func(b metronome.Beat) {
		if measures >= bars || b.Index != b.Beats-1 {
			return
		}
		measures++
		if measures == bars {
			m.Stop()
			close(done)
		}
	})
	return done
}

func handleClickKey(m *metronome.Metronome, ev keyboard.KeyEvent) (quit bool) {
	switch {
	case ev.Key == keyboard.KeyEsc || ev.Key == keyboard.KeyCtrlC || ev.Rune == 'q':
		return true
	case ev.Key == keyboard.KeySpace:
		m.Toggle()
	case ev.Rune == 't':
		m.TapTempo()
	case ev.Rune == '+' || ev.Rune == '=':
		m.SetBPM(m.BPM() + 5)
	case ev.Rune == '-':
		m.SetBPM(m.BPM() - 5)
	case ev.Rune == 'a':
		m.SetAccentEnabled(!m.AccentEnabled())
	case ev.Rune == 'm':
		m.SetTimeSignature(m.TimeSignature().Next())
	}
	return false
}

func statusLine(th *theme.Theme, st metronome.State) string {
	play := "■"
	if st.Running {
		play = "▶"
	}
	beats := widgets.RenderBeats(th, widgets.BeatState{
		Beats:   st.TimeSignature.Beats,
		Current: st.CurrentBeat,
		Running: st.Running,
		Accent:  st.Accent,
	})
	return fmt.Sprintf("%s %3d bpm %-11s %-4s %s", play, st.BPM, tempo.Marking(st.BPM), st.TimeSignature, beats)
}
