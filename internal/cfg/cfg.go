// Package cfg allows for reading the user's configuration.
package cfg

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"

	"panewm/internal/log"
	"panewm/internal/res"
	"panewm/internal/x11"
)

// General contains settings that do not belong to a single input device.
type General struct {
	BorderSize int `toml:"border_size"` // Window border width, in pixels
	Gap        int `toml:"gap"`         // Gap between tiled windows, in pixels
}

// Keyboard contains the keyboard modifier settings and the key binding table.
type Keyboard struct {
	Mod       x11.Keymod `toml:"mod"`        // Main modifier, combined with every default bind
	IgnoreMod x11.Keymod `toml:"ignore_mod"` // Modifiers ignored when matching binds
	Binds     Keybinds   `toml:"binds"`
}

// Mouse contains the pointer modifier settings and the button binding table.
type Mouse struct {
	Mod             x11.Keymod  `toml:"mod"`
	IgnoreMod       x11.Keymod  `toml:"ignore_mod"`
	ResizeTolerance int         `toml:"resize_tolerance"` // Edge distance that turns a drag into a resize
	Binds           Buttonbinds `toml:"binds"`
}

// Profile contains the configuration of a single panewm profile.
type Profile struct {
	General  General  `toml:"general"`
	Keyboard Keyboard `toml:"keyboard"`
	Mouse    Mouse    `toml:"mouse"`
}

// GetDirectory returns the path to the user's configuration directory.
func GetDirectory() (string, error) {
	xdgDir, ok := os.LookupEnv("XDG_CONFIG_HOME")
	if !ok {
		home, ok := os.LookupEnv("HOME")
		if !ok {
			return "", fmt.Errorf("no XDG_CONFIG_HOME or HOME")
		}
		xdgDir = home + "/.config"
	}
	return xdgDir + "/panewm/", nil
}

// ProfilePath returns the path of the configuration file for the given
// profile name.
func ProfilePath(name string) (string, error) {
	dir, err := GetDirectory()
	if err != nil {
		return "", err
	}
	return dir + name + ".toml", nil
}

// GetProfile returns a parsed configuration profile with the built-in
// default binds merged in.
func GetProfile(name string) (Profile, error) {
	path, err := ProfilePath(name)
	if err != nil {
		return Profile{}, fmt.Errorf("get config directory: %w", err)
	}
	file, err := os.ReadFile(path)
	if err != nil {
		return Profile{}, fmt.Errorf("read config file: %w", err)
	}
	profile := Profile{}
	if err = toml.Unmarshal(file, &profile); err != nil {
		return Profile{}, fmt.Errorf("parse config file: %w", err)
	}
	if err = validateProfile(&profile); err != nil {
		return Profile{}, fmt.Errorf("validate config: %w", err)
	}
	MergeDefaultKeybinds(&profile)
	MergeDefaultButtonbinds(&profile)
	return profile, nil
}

// MakeProfile makes a new configuration profile with the given name and the
// default settings.
func MakeProfile(name string) error {
	dir, err := GetDirectory()
	if err != nil {
		return fmt.Errorf("get config directory: %w", err)
	}
	stat, err := os.Stat(dir)
	if err != nil {
		if os.IsNotExist(err) {
			if err := os.MkdirAll(dir, 0755); err != nil {
				return fmt.Errorf("create config directory: %w", err)
			}
		}
	} else {
		if !stat.IsDir() {
			return fmt.Errorf("config directory (%s) is not a directory", dir)
		}
	}
	return os.WriteFile(
		dir+name+".toml",
		res.DefaultConfig,
		0644,
	)
}

// validateProfile ensures that the user's configuration profile does not have
// any illegal or invalid settings, and fills missing options.
func validateProfile(conf *Profile) error {
	if conf.General.BorderSize < 0 {
		return fmt.Errorf("invalid border size %d", conf.General.BorderSize)
	}
	if conf.General.Gap < 0 {
		return fmt.Errorf("invalid gap %d", conf.General.Gap)
	}
	if conf.Mouse.ResizeTolerance < 0 {
		return fmt.Errorf("invalid resize tolerance %d", conf.Mouse.ResizeTolerance)
	}
	if conf.Keyboard.Mod == x11.ModNone {
		log.Warn("No main keyboard modifier set. Default binds will use bare keys.")
	}
	if conf.Mouse.Mod == x11.ModNone {
		log.Warn("No main mouse modifier set. Default mousebinds will fire on bare clicks.")
	}
	return nil
}
