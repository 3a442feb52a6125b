// Package wm contains the window management core: the managed window
// registry, the monitor set, the bound action engine and the event
// dispatcher, tied together by the run loop.
package wm

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/fsnotify/fsnotify"
	"github.com/pkg/errors"

	"panewm/internal/cfg"
	"panewm/internal/log"
	"panewm/internal/x11"
)

// Run connects to the X server, becomes the window manager and processes
// events until the quit action fires, a signal arrives or the connection
// dies.
func Run(conf *cfg.Profile, profile string) error {
	x, err := x11.NewClient()
	if err != nil {
		return errors.Wrap(err, "connect to X server")
	}
	defer x.Close()
	if err := x.BecomeWM(); err != nil {
		return err
	}

	randrBase, err := x.InitRandr()
	if err != nil {
		// Without RandR there are no screen change events and the monitor set
		// stays empty. Everything else still works.
		log.Warn("RandR unavailable: %s", err)
	}
	keys, err := x.GetKeymap()
	if err != nil {
		return err
	}
	monitors := &MonitorSet{}
	if randrBase != 0 {
		outputs, err := x.QueryOutputs()
		if err != nil {
			return errors.Wrap(err, "enumerate outputs")
		}
		monitors.Merge(outputs)
	}

	if err := grabBinds(x, &keys, conf); err != nil {
		return errors.Wrap(err, "grab binds")
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	reg := NewRegistry(x)
	reload := func() {
		next, err := cfg.GetProfile(profile)
		if err != nil {
			log.Error("Failed to reload configuration: %s", err)
			return
		}
		if err := ungrabBinds(x, &keys, conf); err != nil {
			log.Error("Failed to release old binds: %s", err)
		}
		*conf = next
		if err := grabBinds(x, &keys, conf); err != nil {
			log.Error("Failed to grab new binds: %s", err)
		}
		log.Info("Reloaded configuration")
	}
	acts := NewActions(x, reg, monitors, reload, cancel)
	disp := NewDispatcher(x, reg, monitors, acts, conf, &keys, x.QueryOutputs, randrBase)

	evtCh, xErrCh, err := x.Poll(ctx)
	if err != nil {
		return err
	}
	watcher, err := watchProfile(profile)
	if err != nil {
		log.Warn("Not watching configuration: %s", err)
	} else {
		defer func() {
			_ = watcher.Close()
		}()
	}
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	log.Info("Up and running.")
	for {
		select {
		case <-ctx.Done():
			return nil
		case sig := <-sigCh:
			log.Info("Received %s. Shutting down.", sig)
			return nil
		case err := <-xErrCh:
			if errors.Is(err, x11.ErrConnectionDied) {
				return err
			}
			log.Error("X error: %s", err)
		case evt, ok := <-evtCh:
			if !ok {
				return errors.New("event stream closed")
			}
			disp.Dispatch(evt)
		case fsEvt := <-watcherEvents(watcher):
			if fsEvt.Op&(fsnotify.Write|fsnotify.Create) != 0 {
				log.Info("Configuration file changed.")
				reload()
			}
		case fsErr := <-watcherErrors(watcher):
			log.Error("Configuration watcher: %s", fsErr)
		}
	}
}

// watchProfile starts watching the configuration file of the given profile
// for modifications.
func watchProfile(profile string) (*fsnotify.Watcher, error) {
	path, err := cfg.ProfilePath(profile)
	if err != nil {
		return nil, err
	}
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := watcher.Add(path); err != nil {
		_ = watcher.Close()
		return nil, err
	}
	return watcher, nil
}

// watcherEvents returns the watcher's event channel, or nil (blocks forever
// in a select) if there is no watcher.
func watcherEvents(w *fsnotify.Watcher) chan fsnotify.Event {
	if w == nil {
		return nil
	}
	return w.Events
}

func watcherErrors(w *fsnotify.Watcher) chan error {
	if w == nil {
		return nil
	}
	return w.Errors
}

// grabBinds acquires every key and button grab the profile's binding tables
// need. A key symbol with no keycode in the current layout is skipped with a
// warning.
func grabBinds(x *x11.Client, keys *x11.Keymap, conf *cfg.Profile) error {
	for i := range conf.Keyboard.Binds {
		bind := &conf.Keyboard.Binds[i]
		codes := keys.Keycodes(bind.Sym)
		if len(codes) == 0 {
			log.Warn("No keycode for symbol %#x. Bind unreachable.", bind.Sym)
			continue
		}
		for _, code := range codes {
			if err := x.GrabKey(bind.Mods, code, conf.Keyboard.IgnoreMod); err != nil {
				return err
			}
		}
	}
	for i := range conf.Mouse.Binds {
		bind := &conf.Mouse.Binds[i]
		if err := x.GrabButton(bind.Mods, bind.Button, conf.Mouse.IgnoreMod); err != nil {
			return err
		}
	}
	return nil
}

// ungrabBinds releases the grabs acquired for the profile's binding tables.
func ungrabBinds(x *x11.Client, keys *x11.Keymap, conf *cfg.Profile) error {
	for i := range conf.Keyboard.Binds {
		bind := &conf.Keyboard.Binds[i]
		for _, code := range keys.Keycodes(bind.Sym) {
			if err := x.UngrabKey(bind.Mods, code, conf.Keyboard.IgnoreMod); err != nil {
				return err
			}
		}
	}
	for i := range conf.Mouse.Binds {
		bind := &conf.Mouse.Binds[i]
		if err := x.UngrabButton(bind.Mods, bind.Button, conf.Mouse.IgnoreMod); err != nil {
			return err
		}
	}
	return nil
}
