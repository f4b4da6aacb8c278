package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"regexp"
	"strings"

	"github.com/AlexTransit/lcd44780/cmd/lcd44780/display"
	"github.com/AlexTransit/lcd44780/cmd/lcd44780/subcmd"
	cmd_tele "github.com/AlexTransit/lcd44780/cmd/lcd44780/tele"
	config_global "github.com/AlexTransit/lcd44780/internal/config"
	"github.com/AlexTransit/lcd44780/internal/state"
	"github.com/AlexTransit/lcd44780/log2"
	"github.com/mattn/go-isatty"
)

var (
	log     = log2.NewStderr(log2.LDebug)
	modules = []subcmd.Mod{
		display.TextMod,
		display.ConsoleMod,
		cmd_tele.Mod,
		{Name: "version", Main: versionMain},
	}
)

var (
	BuildVersion  string = "unknown" // set by ldflags -X
	reFlagVersion        = regexp.MustCompile("-?-?version")
)

func main() {
	flagset := flag.NewFlagSet(os.Args[0], flag.ExitOnError)
	flagset.Usage = func() {
		fmt.Fprint(flagset.Output(), "Usage: [option...] [command] [text...]\n\nOptions:\n")
		flagset.PrintDefaults()
		commandNames := make([]string, len(modules))
		for i, m := range modules {
			commandNames[i] = m.Name
		}
		fmt.Fprintf(flagset.Output(), "Commands: %s (default %s)\n", strings.Join(commandNames, " "), modules[0].Name)
	}
	configPath := flagset.String("config", "/etc/lcd44780.hcl", "")
	writeConfig := flagset.String("write-config", "", "write default config to file and exit")
	onlyVersion := flagset.Bool("version", false, "print build version and exit")
	if err := flagset.Parse(os.Args[1:]); err != nil {
		log.Fatal(err)
	}
	if *onlyVersion || reFlagVersion.MatchString(flagset.Arg(0)) {
		_ = versionMain(context.Background())
		return
	}
	if *writeConfig != "" {
		if err := config_global.WriteDefault(*writeConfig); err != nil {
			log.Fatal(err)
		}
		return
	}

	mod, err := subcmd.Parse(flagset.Arg(0), modules)
	if err != nil {
		fmt.Fprintf(flagset.Output(), "command line error: %v\n\n", err)
		flagset.Usage()
		os.Exit(1)
	}
	log.SetFlags(log2.LServiceFlags)
	if isatty.IsTerminal(os.Stderr.Fd()) {
		// under systemd assume journal logging, no timestamp
		log.SetFlags(log2.LInteractiveFlags)
	}

	ctx, g := state.NewContext(log)
	g.BuildVersion = BuildVersion
	config, err := config_global.ReadConfig(log, *configPath)
	if err != nil {
		log.Fatal(err)
	}
	g.Config = config
	log.SetLevel(log2.ParseLevel(config.LogDebug))
	log.Debugf("starting %s", flagset.Args())

	if err := mod.Main(ctx, flagset.Args()); err != nil {
		g.Log.Errorf("%v", err)
		os.Exit(1)
	}
}

func versionMain(ctx context.Context, _ ...[]string) error {
	fmt.Printf("lcd44780 %s\n", BuildVersion)
	return nil
}
