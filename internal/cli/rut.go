package cli

import (
	"errors"
	"fmt"
	"os"

	"github.com/causa-hse/causa/internal/labels"
	"github.com/causa-hse/causa/internal/rut"
)

func runRUT(args []string) error {
	if len(args) != 2 {
		return UsageError{Message: "rut requires exactly 2 arguments: check|format|dv <value>"}
	}
	value := rut.Normalize(args[1])

	switch args[0] {
	case "check":
		rt, err := loadRuntime()
		if err != nil {
			return err
		}
		defer rt.close()
		if msg, bad := rut.ErrorMessageIn(labels.ParseLocale(rt.cfg.Export.Locale).Tag(), value); bad {
			return errors.New(msg)
		}
		formatted, _ := rut.ValidateAndFormat(value)
		fmt.Fprintf(os.Stdout, "OK %s\n", formatted)
		return nil
	case "format":
		fmt.Fprintln(os.Stdout, rut.Format(value))
		return nil
	case "dv":
		dv, err := rut.ComputeVerifier(rut.Clean(value))
		if err != nil {
			return err
		}
		fmt.Fprintf(os.Stdout, "%c\n", dv)
		return nil
	default:
		return UsageError{Message: fmt.Sprintf("unknown rut subcommand: %q", args[0])}
	}
}
