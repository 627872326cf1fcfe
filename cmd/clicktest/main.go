package main

import (
	"bufio"
	"fmt"
	"os"
	"time"

	"github.com/eiannone/keyboard"
	"github.com/gosuri/uilive"

	"go-practice/audio"
	"go-practice/metronome"
	"go-practice/tempo"
)

func main() {
	if len(os.Args) < 2 {
		usage()
		return
	}

	switch os.Args[1] {
	case "accent":
		playOne(true)
	case "normal":
		playOne(false)
	case "bar":
		playBar()
	case "volume":
		volumeSweep()
	case "suspend":
		testSuspend()
	case "tap":
		tapTempo()
	default:
		usage()
	}
}

func usage() {
	fmt.Println("Click Test Scripts")
	fmt.Println("")
	fmt.Println("Commands:")
	fmt.Println("  accent  - Play one accented click (1200 Hz)")
	fmt.Println("  normal  - Play one normal click (800 Hz)")
	fmt.Println("  bar     - Play one 4/4 bar at 120 bpm")
	fmt.Println("  volume  - Sweep click volume 0 to 1")
	fmt.Println("  suspend - Click, release the device, click again")
	fmt.Println("  tap     - Tap tempo with the space bar")
}

func click(c audio.Click) {
	if err := audio.Shared().Click(c); err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}
}

func playOne(accent bool) {
	c := audio.BeatClick(accent, 1)
	fmt.Printf("Playing %.0f Hz for %v\n", c.Frequency, c.Duration)
	click(c)
	// let the streamer drain before exit
	time.Sleep(200 * time.Millisecond)
}

func playBar() {
	interval := tempo.Interval(tempo.DefaultBPM)
	fmt.Printf("One bar of 4/4 at %d bpm (%v per beat)\n", tempo.DefaultBPM, interval)

	m := metronome.New(audio.Shared(), metronome.WithVolume(1))
	defer m.Close()

	m.OnBeat(func(b metronome.Beat) {
		fmt.Printf("  beat %d accent=%v\n", b.Index+1, b.Accent)
	})
	m.Start()
	time.Sleep(4*interval - interval/2)
	m.Stop()
	time.Sleep(200 * time.Millisecond)
	fmt.Println("Done!")
}

func volumeSweep() {
	w := uilive.New()
	w.Start()
	defer w.Stop()

	for v := 0.0; v <= 1.0001; v += 0.1 {
		fmt.Fprintf(w, "volume %.1f\n", v)
		click(audio.BeatClick(false, v))
		time.Sleep(400 * time.Millisecond)
	}
}

func testSuspend() {
	spkr := audio.Shared()

	fmt.Println("Click...")
	click(audio.BeatClick(true, 1))
	time.Sleep(300 * time.Millisecond)

	spkr.Suspend()
	fmt.Printf("Suspended: %v\n", spkr.Suspended())

	fmt.Println("Press Enter to click again...")
	bufio.NewReader(os.Stdin).ReadBytes('\n')

	click(audio.BeatClick(true, 1))
	time.Sleep(300 * time.Millisecond)
	fmt.Printf("Suspended: %v\n", spkr.Suspended())
}

func tapTempo() {
	keys, err := keyboard.GetKeys(10)
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}
	defer keyboard.Close()

	fmt.Println("Tap space in time. q or esc to exit.")

	m := metronome.New(audio.Shared(), metronome.WithVolume(1))
	defer m.Close()

	w := uilive.New()
	w.Start()
	defer w.Stop()
	fmt.Fprintf(w, "taps: waiting\n")

	for ev := range keys {
		if ev.Err != nil {
			fmt.Printf("Error: %v\n", ev.Err)
			return
		}
		if ev.Key == keyboard.KeyEsc || ev.Key == keyboard.KeyCtrlC || ev.Rune == 'q' {
			return
		}
		if ev.Key != keyboard.KeySpace {
			continue
		}
		click(audio.BeatClick(false, 1))
		if bpm, ok := m.TapTempo(); ok {
			fmt.Fprintf(w, "taps: %d bpm (%s)\n", bpm, tempo.Marking(bpm))
		} else {
			fmt.Fprintf(w, "taps: keep going\n")
		}
	}
}
