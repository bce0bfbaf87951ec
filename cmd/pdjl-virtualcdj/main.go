// Command pdjl-virtualcdj joins the Pro DJ Link network as a virtual CDJ:
// it announces itself, emits beats and status at the configured tempo, and
// can request the tempo master role.
package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/urfave/cli"

	"github.com/grantHarris/pdjl"
)

func main() {
	app := cli.NewApp()
	app.Name = "pdjl-virtualcdj"
	app.Usage = "run a virtual CDJ on the Pro DJ Link network"
	app.Flags = []cli.Flag{
		cli.StringFlag{Name: "name", Value: "pdjl-virtualcdj", Usage: "virtual device name"},
		cli.IntFlag{Name: "device-number", Value: 0x21, Usage: "virtual device number"},
		cli.Float64Flag{Name: "tempo", Value: 128.0, Usage: "initial tempo in BPM"},
		cli.BoolFlag{Name: "playing", Usage: "start in the playing state"},
		cli.BoolFlag{Name: "request-master", Usage: "request the tempo master role on startup"},
		cli.StringFlag{Name: "bind", Value: "", Usage: "local interface address to bind to"},
		cli.StringFlag{Name: "capture", Value: "", Usage: "capture received packets to this file"},
		cli.StringFlag{Name: "replay", Value: "", Usage: "replay packets from this file instead of listening live"},
		cli.StringFlag{Name: "config", Value: "", Usage: "load a YAML config file, overridden by any other flags given"},
	}
	app.Action = run

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, "pdjl-virtualcdj:", err)
		os.Exit(1)
	}
}

func run(c *cli.Context) error {
	cfg := pdjl.DefaultConfig()
	if path := c.String("config"); path != "" {
		loaded, err := pdjl.LoadConfigFile(path)
		if err != nil {
			return err
		}
		cfg = loaded
	}

	if cfg.DeviceName == "" || c.IsSet("name") {
		cfg.DeviceName = c.String("name")
	}
	if cfg.DeviceNumber == 0 || c.IsSet("device-number") {
		cfg.DeviceNumber = uint8(c.Int("device-number"))
	}
	if c.IsSet("tempo") {
		cfg.TempoBPM = c.Float64("tempo")
	}
	if c.IsSet("bind") {
		cfg.BindAddress = c.String("bind")
	}
	if c.IsSet("capture") {
		cfg.CaptureFile = c.String("capture")
	}
	if c.IsSet("replay") {
		cfg.ReplayFile = c.String("replay")
	}
	cfg.LogCallback = func(msg string) { fmt.Fprintln(os.Stderr, msg) }

	session := pdjl.NewSession(cfg)
	session.SetPlaying(c.Bool("playing"))

	session.SetDeviceEventCallback(func(evt pdjl.DeviceEvent) {
		fmt.Printf("device %d: %s (%s)\n", evt.Info.DeviceNumber, evt.Info.DeviceName, evt.Info.DeviceType)
	})

	if err := session.Start(); err != nil {
		return fmt.Errorf("start session: %w", err)
	}
	defer session.Stop()

	if c.Bool("request-master") {
		session.RequestMasterRole()
	}

	ticker := time.NewTicker(5 * time.Second)
	defer ticker.Stop()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

	for {
		select {
		case <-sigCh:
			return nil
		case <-ticker.C:
			m := session.GetMetrics()
			master, ok := session.GetTempoMaster()
			fmt.Printf("sent=%d recv=%d parse_errors=%d master=%v(%v)\n",
				m.PacketsSent, m.PacketsReceived, m.ParseErrors, master, ok)
		}
	}
}
