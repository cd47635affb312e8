package main

import (
	"bytes"
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/go-errors/errors"
	"github.com/micro-editor/tcell/v2"
	lua "github.com/yuin/gopher-lua"

	"github.com/helmutkemper/tabform/internal/action"
	"github.com/helmutkemper/tabform/internal/config"
	"github.com/helmutkemper/tabform/internal/plugin"
	"github.com/helmutkemper/tabform/internal/screen"
	"github.com/helmutkemper/tabform/internal/util"
)

var (
	flagVersion     = flag.Bool("version", false, "Show the version number and information")
	flagConfigDir   = flag.String("config-dir", "", "Specify a custom location for the configuration directory")
	flagDebug       = flag.Bool("debug", false, "Enable debug mode (prints debug info to ./log.txt)")
	flagColorscheme = flag.String("colorscheme", "", "Use this colorscheme instead of the configured one")
	flagCommand     = flag.String("c", "", "Run a command line, e.g. -c 'open \"team retro\"'")
	flagOutput      = flag.String("o", "", "Also write the transcript to this file")
	flagClip        = flag.Bool("clip", false, "Copy the transcript to the clipboard")
)

func InitFlags() {
	flag.Usage = func() {
		fmt.Println("Usage: tabform [OPTION]... [FORM]")
		fmt.Println("FORM is a YAML form file, a form in <config-dir>/forms or a form registered by a plugin.")
		fmt.Println("Without FORM the available forms and commands are listed.")
		fmt.Println("The transcript of a submitted form is printed on stdout.")
		fmt.Println()
		flag.PrintDefaults()
	}

	flag.Parse()

	if *flagVersion {
		fmt.Println("Version:", util.Version)
		fmt.Println("Commit hash:", util.CommitHash)
		fmt.Println("Compiled on", util.CompileDate)
		os.Exit(0)
	}
	if util.Debug == "OFF" && *flagDebug {
		util.Debug = "ON"
	}
}

func openScreen() (tcell.Screen, error) {
	if !screen.Interactive() {
		return nil, action.ErrNotInteractive
	}
	return screen.Init()
}

func main() {
	InitFlags()
	InitLog()
	os.Exit(run(flag.Args()))
}

func run(args []string) (rc int) {
	paths, err := config.InitConfigDir(*flagConfigDir)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}

	cfg, err := config.ReadSettings(paths)
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error reading settings.json:", err)
		cfg = &config.Config{Global: config.DefaultSettings()}
	}

	action.InitCommands()
	plugins, err := plugin.LoadAll(paths.Plugins())
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
	}
	defer plugins.Close()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM, syscall.SIGHUP)
	defer stop()

	// The transcript is held back until the screen is gone.
	var stdout bytes.Buffer
	host := action.NewHost(openScreen)
	defer func() {
		if err := recover(); err != nil {
			host.Fini()
			if e, ok := err.(*lua.ApiError); ok {
				fmt.Println("Lua API error:", e)
			} else {
				fmt.Println("tabform encountered an error:", errors.Wrap(err, 2).ErrorStack())
			}
			rc = 1
			return
		}
		host.Fini()
		if stdout.Len() > 0 {
			fmt.Fprint(os.Stdout, stdout.String())
		}
	}()

	app := &action.App{
		Ctx:         ctx,
		Paths:       paths,
		Config:      cfg,
		Host:        host,
		Stdout:      &stdout,
		Output:      *flagOutput,
		Clip:        *flagClip,
		Colorscheme: *flagColorscheme,
	}

	switch {
	case *flagCommand != "":
		err = app.RunCmdLine(*flagCommand)
	case len(args) == 0:
		err = app.RunCmd("list")
	case len(args) > 1:
		flag.Usage()
		return 2
	default:
		if _, ok := plugins.Form(args[0]); ok {
			err = app.RunCmd(args[0])
		} else {
			err = app.RunCmd("open", args[0])
		}
	}
	if err != nil {
		host.Fini()
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	return 0
}
