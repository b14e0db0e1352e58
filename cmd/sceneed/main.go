// Command sceneed validates, converts, creates and simulates scene files
// without the editor UI.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"scene2d/internal/config"
	"scene2d/internal/engine"
	"scene2d/internal/log"
	"scene2d/internal/world"

	"go.uber.org/zap"
)

const usage = `Usage: sceneed [-config file] [-log-level level] <command> [args]

Commands:
  new <path>                 create an empty scene file
  validate <path>...         load scene files and report their contents
  convert <in> <out>         rewrite a scene in the format of <out>
  run [-frames n | -duration d] [path]
                             play a scene headless
  watch <path>               reload a scene whenever its file changes
  components                 list registered component types
`

var errUsage = errors.New("bad usage")

func main() {
	if err := run(os.Args[1:], os.Stdout); err != nil {
		if err != errUsage {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
		os.Exit(1)
	}
}

type app struct {
	cfg config.Config
	log *zap.Logger
	out io.Writer
}

func run(args []string, out io.Writer) error {
	fs := flag.NewFlagSet("sceneed", flag.ContinueOnError)
	fs.SetOutput(out)
	fs.Usage = func() { fmt.Fprint(out, usage) }
	configPath := fs.String("config", "", "config file (yaml or toml)")
	level := fs.String("log-level", "", "override the configured log level")
	if err := fs.Parse(args); err != nil {
		return errUsage
	}
	if fs.NArg() == 0 {
		fs.Usage()
		return errUsage
	}

	cfg := config.Default()
	if *configPath != "" {
		var err error
		if cfg, err = config.Load(*configPath); err != nil {
			return err
		}
	}
	if *level != "" {
		cfg.LogLevel = *level
	}
	logger, err := log.New(cfg.LogLevel, log.Format(cfg.LogFormat))
	if err != nil {
		return err
	}
	defer logger.Sync()

	a := &app{cfg: cfg, log: logger, out: out}
	cmd, rest := fs.Arg(0), fs.Args()[1:]
	switch cmd {
	case "new":
		return a.newScene(rest)
	case "validate":
		return a.validate(rest)
	case "convert":
		return a.convert(rest)
	case "run":
		return a.play(rest)
	case "watch":
		return a.watch(rest)
	case "components":
		return a.components()
	default:
		fmt.Fprintf(out, "unknown command %q\n\n", cmd)
		fs.Usage()
		return errUsage
	}
}

func (a *app) world() *world.World {
	return world.New(a.cfg, a.log)
}

func (a *app) newScene(args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("%w: new <path>", errUsage)
	}
	path := args[0]
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("%s already exists", path)
	}
	name := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))

	w := a.world()
	w.NewScene(name)
	root := engine.NewEntity("Root")
	if err := w.Spawn(root, nil); err != nil {
		return err
	}
	if err := w.Save(path); err != nil {
		return err
	}
	fmt.Fprintf(a.out, "created %s\n", path)
	return nil
}

func (a *app) validate(args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("%w: validate <path>...", errUsage)
	}
	w := a.world()
	scenes, err := w.Scenes.LoadFiles(context.Background(), args)
	if err != nil {
		return err
	}
	for i, scene := range scenes {
		components := 0
		scene.Walk(func(e *engine.Entity) bool {
			components += len(e.Components())
			return true
		})
		fmt.Fprintf(a.out, "%s: %q %d entities, %d roots, %d components\n",
			args[i], scene.Name, scene.Len(), len(scene.Roots()), components)
	}
	return nil
}

func (a *app) convert(args []string) error {
	if len(args) != 2 {
		return fmt.Errorf("%w: convert <in> <out>", errUsage)
	}
	doc, err := world.ReadFile(args[0])
	if err != nil {
		return err
	}
	// make sure the document loads before writing it anywhere
	w := a.world()
	if _, err := w.Serializer.Load(doc); err != nil {
		return fmt.Errorf("load scene %s: %w", args[0], err)
	}
	doc.Version = world.FormatVersion
	if err := world.WriteFile(doc, args[1]); err != nil {
		return err
	}
	fmt.Fprintf(a.out, "converted %s -> %s\n", args[0], args[1])
	return nil
}

func (a *app) play(args []string) error {
	fs := flag.NewFlagSet("run", flag.ContinueOnError)
	fs.SetOutput(a.out)
	frames := fs.Int("frames", 0, "number of fixed-delta frames to simulate")
	duration := fs.Duration("duration", 0, "run in real time for this long (0 runs until interrupted)")
	if err := fs.Parse(args); err != nil {
		return errUsage
	}
	path := a.cfg.ScenePath
	if fs.NArg() > 0 {
		path = fs.Arg(0)
	}

	w := a.world()
	if _, err := w.Open(path); err != nil {
		return err
	}
	if err := w.Play(); err != nil {
		return err
	}

	start := time.Now()
	if *frames > 0 {
		dt := w.Time().FixedDelta
		for i := 0; i < *frames; i++ {
			w.Frame(dt)
		}
	} else {
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
		defer stop()
		if *duration > 0 {
			var cancel context.CancelFunc
			ctx, cancel = context.WithTimeout(ctx, *duration)
			defer cancel()
		}
		if err := w.Run(ctx); err != nil {
			return err
		}
	}

	scene := w.Scenes.Active()
	fmt.Fprintf(a.out, "%s: %d frames in %s, %d entities, %d contacts\n",
		scene.Name, w.Time().FrameCount, time.Since(start).Round(time.Millisecond),
		scene.Len(), w.Contacts().Active())
	return w.Stop()
}

func (a *app) watch(args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("%w: watch <path>", errUsage)
	}
	w := a.world()
	if _, err := w.Open(args[0]); err != nil {
		return err
	}
	w.Scenes.ActiveChanged.AddListener(func(scene *engine.Scene) {
		if scene != nil {
			fmt.Fprintf(a.out, "reloaded %s: %d entities\n", scene.Name, scene.Len())
		}
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	if err := w.WatchFiles(ctx); err != nil {
		return err
	}
	return w.Run(ctx)
}

func (a *app) components() error {
	w := a.world()
	names := w.Registry.Names()
	sort.Strings(names)
	for _, name := range names {
		c, err := w.Registry.Create(name)
		if err != nil {
			return err
		}
		var fields []string
		for _, f := range c.Schema().Visible() {
			fields = append(fields, fmt.Sprintf("%s=%v", f.Name, f.Default()))
		}
		fmt.Fprintf(a.out, "%s\t%s\n", name, strings.Join(fields, " "))
	}
	return nil
}
