package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gekko3d/lumen"
	"github.com/gekko3d/lumen/pipeline/app"
	"github.com/gekko3d/lumen/pipeline/gpu"
	"github.com/gekko3d/lumen/pipeline/render"
	"github.com/spf13/cobra"
)

type options struct {
	config   string
	atlas    string
	save     string
	frames   int
	objects  int
	lights   int
	width    int
	height   int
	watch    bool
	interval time.Duration
	debug    bool
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	opts := options{}
	cmd := &cobra.Command{
		Use:   "lumen-headless",
		Short: "Render a generated scene on the recording device and print frame statistics",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return run(ctx, opts)
		},
		SilenceUsage: true,
	}
	f := cmd.Flags()
	f.StringVarP(&opts.config, "config", "c", "", "settings file (.toml, .yaml)")
	f.StringVar(&opts.atlas, "atlas", "", "shader atlas file; all pipeline shaders when empty")
	f.StringVar(&opts.save, "save", "", "write the effective settings to this file and exit")
	f.IntVarP(&opts.frames, "frames", "n", 3, "frames to render, 0 renders until interrupted")
	f.IntVar(&opts.objects, "objects", 16, "objects in the generated scene")
	f.IntVar(&opts.lights, "lights", 3, "lights in the generated scene")
	f.IntVar(&opts.width, "width", 1280, "viewport width")
	f.IntVar(&opts.height, "height", 720, "viewport height")
	f.BoolVarP(&opts.watch, "watch", "w", false, "reload the settings file when it changes")
	f.DurationVar(&opts.interval, "interval", 16*time.Millisecond, "delay between frames")
	f.BoolVarP(&opts.debug, "debug", "d", false, "debug logging")
	return cmd
}

func run(ctx context.Context, opts options) error {
	log := lumen.NewDefaultLogger("lumen", opts.debug)

	settings := lumen.DefaultSettings()
	if opts.config != "" {
		s, err := lumen.LoadSettings(opts.config)
		if err != nil {
			return err
		}
		settings = s
	}
	if opts.save != "" {
		if err := lumen.SaveSettings(opts.save, settings); err != nil {
			return err
		}
		log.Infof("settings written to %s", opts.save)
		return nil
	}

	controls := lumen.NewControls(settings, log.Named("controls"))
	if opts.watch {
		if opts.config == "" {
			return errors.New("--watch needs --config")
		}
		go func() {
			if err := lumen.WatchSettings(ctx, opts.config, controls, log.Named("watch")); err != nil {
				log.Errorf("%v", err)
			}
		}()
	}

	dev := gpu.NewHeadless(opts.width, opts.height)
	cfg := app.Config{AtlasPath: opts.atlas, Logger: log.Named("render"), Controls: controls}
	if opts.atlas == "" {
		cfg.Atlas = dev.NewAtlas(render.ShaderNames...)
	}
	r, err := app.NewRenderer(dev, cfg)
	if err != nil {
		return err
	}
	defer r.Release()

	demo := newDemoScene(dev, opts.objects, opts.lights, float32(opts.width)/float32(opts.height))

	if opts.interval <= 0 {
		opts.interval = time.Millisecond
	}
	ticker := time.NewTicker(opts.interval)
	defer ticker.Stop()
	for frame := 0; opts.frames == 0 || frame < opts.frames; frame++ {
		dev.Reset()
		demo.step(frame)
		stats, err := r.RenderScene(demo.scene, demo.camera)
		if err != nil {
			return err
		}
		log.Debugf("frame %d: %s draws=%d culled=%d shadowed=%d presented=%s commands=%d",
			frame, stats.Path, stats.Draws, stats.Culled, stats.Shadowed, stats.Presented, len(dev.Commands()))
		for _, v := range dev.Violations() {
			log.Warnf("frame %d: %s", frame, v)
		}

		if opts.frames != 0 && frame == opts.frames-1 {
			break
		}
		select {
		case <-ctx.Done():
			fmt.Print(r.Profiler().GetStatsString())
			return nil
		case <-ticker.C:
		}
	}

	fmt.Print(r.Profiler().GetStatsString())
	return nil
}
