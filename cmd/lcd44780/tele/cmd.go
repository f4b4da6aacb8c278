package tele

import (
	"context"

	"github.com/AlexTransit/lcd44780/cmd/lcd44780/subcmd"
	"github.com/AlexTransit/lcd44780/internal/state"
	"github.com/AlexTransit/lcd44780/internal/tele"
	"github.com/AlexTransit/lcd44780/log2"
	"github.com/coreos/go-systemd/daemon"
	"github.com/juju/errors"
)

const modName = "mqtt"

var Mod = subcmd.Mod{Name: modName, Main: Main}

// Main shows every message from configured topic until stopped by signal.
func Main(ctx context.Context, args ...[]string) error {
	g := state.GetGlobal(ctx)
	lcd, err := g.LCD()
	if err != nil {
		return errors.Annotate(err, "display init")
	}
	defer func() { g.Error(g.CloseLCD(), "display close") }()
	if g.Config.Text != "" {
		if _, err = lcd.WriteString(g.Config.Text); err != nil {
			return errors.Annotate(err, "boot text")
		}
	}

	jobs := make(chan state.DisplayFunc, 1)
	go g.RunDisplay(jobs)
	subcmd.StopOnSignal(ctx, nil)

	teleLog := g.Log.Clone(log2.LInfo)
	if g.Config.Mqtt != nil && g.Config.Mqtt.LogDebug {
		teleLog.SetLevel(log2.LDebug)
	}
	var t tele.Tele
	onText := func(ctx context.Context, text string) {
		if !g.Display(jobs, state.ShowText(text)) {
			teleLog.Debugf("stopping, dropped text=%q", text)
		}
	}
	if err = t.Init(ctx, teleLog, g.Config.Mqtt, onText); err != nil {
		g.Stop()
		g.Alive.Wait()
		return errors.Annotate(err, "mqtt init")
	}
	subcmd.SdNotify(daemon.SdNotifyReady)
	g.Log.Debugf("mqtt init complete, running")

	<-g.Alive.StopChan()
	t.Close()
	g.Alive.Wait()
	return nil
}
