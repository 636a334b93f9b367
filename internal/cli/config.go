package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/causa-hse/causa/internal/config"
)

func runConfig(args []string) error {
	if len(args) == 0 {
		return printResolvedConfig()
	}

	switch args[0] {
	case "list":
		if len(args) != 1 {
			return UsageError{Message: "config list takes no arguments"}
		}
		return listConfig()
	case "set":
		fs := newFlagSet("config set")
		global := fs.Bool("global", false, "write the per-user config")
		pos, err := parseArgs(fs, args[1:])
		if err != nil {
			return err
		}
		if len(pos) != 2 {
			return UsageError{Message: "config set requires exactly 2 arguments: <key> <value>"}
		}
		value, err := config.ParseOptionValue(pos[0], pos[1])
		if err != nil {
			return UsageError{Message: err.Error()}
		}
		return writeConfigValue(pos[0], &value, *global)
	case "unset":
		fs := newFlagSet("config unset")
		global := fs.Bool("global", false, "write the per-user config")
		pos, err := parseArgs(fs, args[1:])
		if err != nil {
			return err
		}
		if len(pos) != 1 {
			return UsageError{Message: "config unset requires exactly 1 argument: <key>"}
		}
		if _, ok := config.LookupOption(pos[0]); !ok {
			return UsageError{Message: fmt.Sprintf("unknown config key %q", pos[0])}
		}
		return writeConfigValue(pos[0], nil, *global)
	default:
		return UsageError{Message: fmt.Sprintf("unknown config subcommand: %q", args[0])}
	}
}

func printResolvedConfig() error {
	rt, err := loadRuntime()
	if err != nil {
		return err
	}
	defer rt.close()
	b, err := json.MarshalIndent(rt.cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("encode config: %w", err)
	}
	fmt.Fprintln(os.Stdout, string(b))
	return nil
}

func listConfig() error {
	root, err := os.Getwd()
	if err != nil {
		root = ""
	}
	res, err := config.ResolveSettings(root)
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 8, 2, ' ', 0)
	fmt.Fprintln(w, "KEY\tVALUE\tSOURCE")
	for _, option := range config.OptionRegistry() {
		applied := res.Applied[option.KeyPath]
		value := applied.Value.Display()
		if value == "" {
			value = "(unset)"
		}
		fmt.Fprintf(w, "%s\t%s\t%s\n", option.KeyPath, value, applied.Source)
	}
	_ = w.Flush()

	for _, lw := range res.LayerWarnings {
		fmt.Fprintf(os.Stdout, "warning: %s config ignored (%s)\n", lw.Source, lw.Kind)
	}
	for _, ow := range res.OptionWarnings {
		if ow.ClampedInt != nil {
			fmt.Fprintf(os.Stdout, "warning: %s %s out of range, using %d\n", ow.Source, ow.KeyPath, *ow.ClampedInt)
			continue
		}
		fmt.Fprintf(os.Stdout, "warning: %s %s has an invalid value (%s)\n", ow.Source, ow.KeyPath, ow.Kind)
	}
	return nil
}

func writeConfigValue(key string, value *config.RawOptionValue, global bool) error {
	var path string
	if global {
		p, ok := config.GlobalConfigPath()
		if !ok {
			return errors.New("cannot determine home directory for the global config")
		}
		path = p
	} else {
		root, err := os.Getwd()
		if err != nil {
			return fmt.Errorf("get working directory: %w", err)
		}
		path = config.ProjectConfigPath(root)
	}

	if err := config.UpdateConfigValue(path, key, value); err != nil {
		return err
	}
	if value == nil {
		fmt.Fprintf(os.Stdout, "unset %s in %s\n", key, path)
		return nil
	}
	fmt.Fprintf(os.Stdout, "set %s = %s in %s\n", key, value.Display(), path)
	return nil
}
