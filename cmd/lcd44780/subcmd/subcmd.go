package subcmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/AlexTransit/lcd44780/internal/state"
	"github.com/coreos/go-systemd/daemon"
)

type Mod struct {
	Name string
	Main func(ctx context.Context, args ...[]string) error
}

// Parse finds module by name, empty name selects the first one.
func Parse(name string, mods []Mod) (Mod, error) {
	if name == "" && len(mods) > 0 {
		return mods[0], nil
	}
	for _, m := range mods {
		if m.Name == name {
			return m, nil
		}
	}
	names := make([]string, len(mods))
	for i, m := range mods {
		names[i] = m.Name
	}
	return Mod{}, fmt.Errorf("unknown command=%s valid: %s", name, strings.Join(names, " "))
}

// SdNotify returns true if notification was sent, so process runs under systemd.
func SdNotify(s string) bool {
	ok, err := daemon.SdNotify(false, s)
	if err != nil {
		fmt.Fprintf(os.Stderr, "sd_notify err=%v\n", err)
	}
	return ok
}

// StopOnSignal stops global on first SIGINT/SIGTERM and calls onStop if set,
// second signal kills.
func StopOnSignal(ctx context.Context, onStop func()) {
	g := state.GetGlobal(ctx)
	sigs := make(chan os.Signal, 2)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGHUP)
	go func() {
		sig := <-sigs
		g.Log.Infof("system signal - %v", sig)
		SdNotify(daemon.SdNotifyStopping)
		g.Stop()
		if onStop != nil {
			go onStop()
		}
		sig = <-sigs
		g.Log.Errorf("system signal - %v, exit now", sig)
		os.Exit(1)
	}()
}
