// Command pdjl-listen joins the Pro DJ Link network as a passive observer
// and prints every beat and status packet it sees.
package main

import (
	"fmt"
	"os"

	"github.com/urfave/cli"

	"github.com/grantHarris/pdjl"
	"github.com/grantHarris/pdjl/internal/wire"
)

func main() {
	app := cli.NewApp()
	app.Name = "pdjl-listen"
	app.Usage = "listen for Pro DJ Link beat and status traffic"
	app.Flags = []cli.Flag{
		cli.StringFlag{Name: "name", Value: "pdjl-listen", Usage: "virtual device name"},
		cli.IntFlag{Name: "device-number", Value: 0x21, Usage: "virtual device number"},
		cli.StringFlag{Name: "bind", Value: "", Usage: "local interface address to bind to"},
	}
	app.Action = run

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, "pdjl-listen:", err)
		os.Exit(1)
	}
}

func run(c *cli.Context) error {
	cfg := pdjl.DefaultConfig()
	cfg.DeviceName = c.String("name")
	cfg.DeviceNumber = uint8(c.Int("device-number"))
	cfg.BindAddress = c.String("bind")
	cfg.SendBeats = false
	cfg.SendStatus = false
	cfg.SendAnnounces = false
	cfg.LogCallback = func(msg string) { fmt.Fprintln(os.Stderr, msg) }

	session := pdjl.NewSession(cfg)

	session.SetBeatCallback(func(beat wire.BeatInfo) {
		pitchPercent := (wire.PitchToMultiplier(beat.Pitch) - 1.0) * 100.0
		fmt.Printf("beat  from %-20s (%3d) bpm=%.2f pitch=%+.2f%% beat_in_bar=%d\n",
			beat.DeviceName, beat.DeviceNumber, float64(beat.BPM)/100.0, pitchPercent, beat.BeatWithinBar)
	})

	session.SetStatusCallback(func(status wire.StatusInfo) {
		pitchPercent := (wire.PitchToMultiplier(status.Pitch) - 1.0) * 100.0
		bpm := "n/a"
		if status.HasBPM {
			bpm = fmt.Sprintf("%.2f", float64(status.BPM)/100.0)
		}
		fmt.Printf("status from %-20s (%3d) master=%v synced=%v playing=%v bpm=%s pitch=%+.2f%%\n",
			status.DeviceName, status.DeviceNumber, status.Master, status.Synced, status.Playing,
			bpm, pitchPercent)
	})

	session.SetDeviceEventCallback(func(evt pdjl.DeviceEvent) {
		fmt.Printf("device event kind=%d number=%d name=%s\n", evt.Kind, evt.Info.DeviceNumber, evt.Info.DeviceName)
	})

	if err := session.Start(); err != nil {
		return fmt.Errorf("start session: %w", err)
	}
	defer session.Stop()

	fmt.Println("listening, press enter to stop")
	var line string
	fmt.Scanln(&line)
	return nil
}
