package cfg_test

import (
	"strings"
	"testing"

	"github.com/BurntSushi/toml"

	"panewm/internal/cfg"
	"panewm/internal/x11"
)

const bindsConfig = `
[keyboard]
mod = "mod4"
ignore_mod = "modlock-mod2"

[keyboard.binds]
"ctrl-shift-t" = ["run(alacritty)"]
"mod4-left" = ["resize_by(20, 0, 0)"]
"release-mod4-w" = ["show_window_list"]
"mod4-f" = ["toggle_fullscreen", "resize_by(1,2,3,4)"]

[mouse]
mod = "mod4"

[mouse.binds]
"mod4-mouse1" = ["move_window"]
`

func TestParseBinds(t *testing.T) {
	conf := cfg.Profile{}
	if err := toml.Unmarshal([]byte(bindsConfig), &conf); err != nil {
		t.Fatal(err)
	}
	if conf.Keyboard.Mod != x11.Mod4 {
		t.Errorf("got mod %#x, want mod4", conf.Keyboard.Mod)
	}
	if conf.Keyboard.IgnoreMod != x11.ModLock|x11.Mod2 {
		t.Errorf("got ignore mod %#x, want modlock-mod2", conf.Keyboard.IgnoreMod)
	}

	bind := conf.Keyboard.Binds.Find(x11.ModCtrl|x11.ModShift, x11.KeyT, 0)
	if bind == nil {
		t.Fatal("missing ctrl-shift-t bind")
	}
	if bind.Actions[0].Code != cfg.ActionRun || bind.Actions[0].Param.Str != "alacritty" {
		t.Errorf("got %s(%q), want run(alacritty)", bind.Actions[0].Code, bind.Actions[0].Param.Str)
	}
	if bind.String() != "ctrl-shift-t" {
		t.Errorf("got string %q, want %q", bind.String(), "ctrl-shift-t")
	}

	// Three quad numbers leave the fourth at zero.
	bind = conf.Keyboard.Binds.Find(x11.Mod4, x11.KeyLeft, 0)
	if bind == nil {
		t.Fatal("missing mod4-left bind")
	}
	if bind.Actions[0].Param.Quad != [4]int{20, 0, 0, 0} {
		t.Errorf("got quad %v, want [20 0 0 0]", bind.Actions[0].Param.Quad)
	}

	// The release flag is part of the trigger.
	if conf.Keyboard.Binds.Find(x11.Mod4, x11.KeyW, cfg.FlagRelease) == nil {
		t.Error("missing release-mod4-w bind")
	}
	if conf.Keyboard.Binds.Find(x11.Mod4, x11.KeyW, 0) != nil {
		t.Error("release bind matched without the release flag")
	}

	// A bind can run several actions.
	bind = conf.Keyboard.Binds.Find(x11.Mod4, x11.KeyF, 0)
	if bind == nil || len(bind.Actions) != 2 {
		t.Fatal("missing two-action mod4-f bind")
	}
	if bind.Actions[1].Param.Quad != [4]int{1, 2, 3, 4} {
		t.Errorf("got quad %v, want [1 2 3 4]", bind.Actions[1].Param.Quad)
	}

	button := conf.Mouse.Binds.Find(x11.Mod4, 1, 0)
	if button == nil || button.Actions[0].Code != cfg.ActionMoveWindow {
		t.Fatal("missing mod4-mouse1 move bind")
	}
}

func TestParseBindErrors(t *testing.T) {
	cases := []struct {
		name   string
		config string
		errstr string
	}{
		{
			"duplicate trigger",
			"[keyboard.binds]\n\"ctrl-t\" = [\"quit\"]\n\"t-ctrl\" = [\"quit\"]\n",
			"duplicate",
		},
		{
			"button in keyboard table",
			"[keyboard.binds]\n\"mouse1\" = [\"quit\"]\n",
			"mouse buttons belong",
		},
		{
			"key in mouse table",
			"[mouse.binds]\n\"t\" = [\"quit\"]\n",
			"keys belong",
		},
		{
			"unknown action",
			"[keyboard.binds]\n\"t\" = [\"explode\"]\n",
			"invalid action",
		},
		{
			"wrong quad arity",
			"[keyboard.binds]\n\"t\" = [\"resize_by(1,2)\"]\n",
			"3 or 4 numbers",
		},
		{
			"missing run argument",
			"[keyboard.binds]\n\"t\" = [\"run()\"]\n",
			"needs an argument",
		},
		{
			"argument on bare action",
			"[keyboard.binds]\n\"t\" = [\"quit(now)\"]\n",
			"takes no argument",
		},
		{
			"trigger without key",
			"[keyboard.binds]\n\"ctrl-shift\" = [\"quit\"]\n",
			"no key or button",
		},
		{
			"two keys in one trigger",
			"[keyboard.binds]\n\"t-u\" = [\"quit\"]\n",
			"more than one key",
		},
		{
			"empty action list",
			"[keyboard.binds]\n\"t\" = []\n",
			"empty action list",
		},
	}
	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			conf := cfg.Profile{}
			err := toml.Unmarshal([]byte(tc.config), &conf)
			if err == nil {
				t.Fatal("config accepted")
			}
			if !strings.Contains(err.Error(), tc.errstr) {
				t.Fatalf("got error %q, want %q in it", err, tc.errstr)
			}
		})
	}
}
