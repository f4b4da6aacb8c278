// Text output modes: one shot and interactive console.
package display

import (
	"context"
	"os"
	"strings"

	"github.com/AlexTransit/lcd44780/cmd/lcd44780/subcmd"
	"github.com/AlexTransit/lcd44780/hardware/hd44780"
	"github.com/AlexTransit/lcd44780/helpers/cli"
	"github.com/AlexTransit/lcd44780/internal/state"
	"github.com/c-bata/go-prompt"
	"github.com/coreos/go-systemd/daemon"
	"github.com/juju/errors"
)

var (
	TextMod    = subcmd.Mod{Name: "text", Main: TextMain}
	ConsoleMod = subcmd.Mod{Name: "console", Main: ConsoleMain}
)

// TextMain initializes display and writes text from arguments or config once.
func TextMain(ctx context.Context, args ...[]string) error {
	g := state.GetGlobal(ctx)
	text := g.Config.Text
	if len(args) > 0 && len(args[0]) > 1 {
		text = strings.Join(args[0][1:], " ")
	}
	lcd, err := g.LCD()
	if err != nil {
		return errors.Annotate(err, "display init")
	}
	defer func() { g.Error(g.CloseLCD(), "display close") }()
	n, err := lcd.WriteString(text)
	if err != nil {
		return errors.Annotatef(err, "text=%q written=%d", text, n)
	}
	g.Log.Debugf("text=%q written", text)
	return nil
}

const modName = "console"

// ConsoleMain shows every input line on display, lines starting with ':' are commands.
func ConsoleMain(ctx context.Context, args ...[]string) error {
	g := state.GetGlobal(ctx)
	if _, err := g.LCD(); err != nil {
		return errors.Annotate(err, "display init")
	}
	defer func() { g.Error(g.CloseLCD(), "display close") }()

	jobs := make(chan state.DisplayFunc)
	go g.RunDisplay(jobs)
	// prompt can not be interrupted, finish display job and exit
	subcmd.StopOnSignal(ctx, func() {
		g.Alive.Wait()
		g.Error(g.CloseLCD(), "display close")
		os.Exit(0)
	})
	subcmd.SdNotify(daemon.SdNotifyReady)

	err := cli.MainLoop(modName, newExecutor(ctx, jobs), cli.Completer(suggests))
	close(jobs)
	g.Stop()
	g.Alive.Wait()
	return err
}

var suggests = []prompt.Suggest{
	{Text: ":clear", Description: "clear display"},
	{Text: ":home", Description: "return cursor home"},
}

func newExecutor(ctx context.Context, jobs chan<- state.DisplayFunc) func(string) {
	g := state.GetGlobal(ctx)
	return func(line string) {
		var f state.DisplayFunc
		switch line {
		case "":
			return
		case ":clear":
			f = func(lcd *hd44780.LCD) error { return lcd.Clear() }
		case ":home":
			f = func(lcd *hd44780.LCD) error { return lcd.Home() }
		default:
			f = state.ShowText(line)
		}
		if !g.Display(jobs, f) {
			g.Log.Debugf("console stopping, dropped line=%q", line)
		}
	}
}
