// Command vboxinfo prints what the local VirtualBox installation reports
// and can capture the screen of a running machine.
package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/rs/zerolog"

	vboxapi "github.com/vboxgo/vboxapi"
	"github.com/vboxgo/vboxapi/types"
)

// frameTimeout bounds the wait for the first image after attaching.
const frameTimeout = 5 * time.Second

func main() {
	configPath := flag.String("config", "", "YAML config file")
	libPath := flag.String("lib", "", "path of VBoxXPCOMC (searched for when empty)")
	apiVersion := flag.String("api", "", "API generation: 6.1, 7.0 or 7.1")
	logLevel := flag.String("log-level", "info", "zerolog level")
	screenshot := flag.String("screenshot", "", "write a PNG of screen 0 of this running machine")
	flag.Parse()

	logger := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen}).
		With().Timestamp().Logger()

	cfg, err := types.LoadConfig(*configPath)
	if err != nil {
		logger.Fatal().Err(err).Msg("load config")
	}
	if *libPath != "" {
		cfg.LibraryPath = *libPath
	}
	if *apiVersion != "" {
		if cfg.APIVersion, err = types.ParseAPIVersion(*apiVersion); err != nil {
			logger.Fatal().Err(err).Msg("parse -api")
		}
	}
	cfg.LogLevel = *logLevel
	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil {
		logger.Fatal().Err(err).Msg("parse -log-level")
	}
	logger = logger.Level(level)

	client, err := vboxapi.NewClientWithLogger(cfg, logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("init client")
	}
	defer client.Close()

	if err := run(client, *screenshot, logger); err != nil {
		logger.Error().Err(err).Msg("vboxinfo")
		client.Close()
		os.Exit(1)
	}
}

func run(client *vboxapi.Client, screenshot string, logger zerolog.Logger) error {
	vbox, err := client.VirtualBox()
	if err != nil {
		return err
	}
	defer vbox.Release()

	release, apiVersion := client.LibraryVersion()
	version, err := vbox.Version()
	if err != nil {
		return err
	}
	fmt.Printf("VirtualBox %s (library %d, api %d, layouts %s)\n", version, release, apiVersion, client.APIVersion())

	machines, err := vbox.Machines()
	if err != nil {
		return err
	}
	for _, m := range machines {
		name, err := m.Name()
		if err != nil {
			return err
		}
		state, err := m.State()
		if err != nil {
			return err
		}
		fmt.Printf("  %-32s %s\n", name, state)
		m.Release()
	}

	if screenshot == "" {
		return nil
	}
	return capture(client, vbox, screenshot, logger)
}

func capture(client *vboxapi.Client, vbox *vboxapi.VirtualBox, name string, logger zerolog.Logger) error {
	machine, err := vbox.FindMachine(name)
	if err != nil {
		return err
	}
	defer machine.Release()
	session, err := client.Session()
	if err != nil {
		return err
	}
	defer session.Release()

	if err := machine.LockMachine(session, types.LockTypeShared); err != nil {
		return err
	}
	defer session.UnlockMachine()

	console, err := session.Console()
	if err != nil {
		return err
	}
	defer console.Release()
	display, err := console.Display()
	if err != nil {
		return err
	}
	defer display.Release()

	res, err := display.ScreenResolution(0)
	if err != nil {
		return err
	}
	logger.Info().Uint32("width", res.Width).Uint32("height", res.Height).Msg("screen 0")

	frames := make(chan struct{}, 1)
	opts := vboxapi.DefaultFramebufferOptions()
	opts.Width, opts.Height = res.Width, res.Height
	opts.Handler = func(vboxapi.Frame) {
		select {
		case frames <- struct{}{}:
		default:
		}
	}
	fb, err := client.NewHostFramebuffer(opts)
	if err != nil {
		return err
	}
	defer fb.Release()

	id, err := display.AttachFramebuffer(0, fb)
	if err != nil {
		return err
	}
	defer display.DetachFramebuffer(0, id)
	if err := display.InvalidateAndUpdate(); err != nil {
		return err
	}

	deadline := time.Now().Add(frameTimeout)
	for {
		select {
		case <-frames:
			bz, err := fb.PNG()
			if err != nil {
				return err
			}
			out := name + ".png"
			if err := os.WriteFile(out, bz, 0o644); err != nil {
				return err
			}
			fmt.Printf("wrote %s\n", out)
			return nil
		default:
		}
		if time.Now().After(deadline) {
			return fmt.Errorf("no image from %s within %s", name, frameTimeout)
		}
		if err := client.ProcessEventQueue(100); err != nil {
			return err
		}
	}
}
