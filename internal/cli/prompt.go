package cli

import (
	"fmt"

	"github.com/charmbracelet/huh"

	goRate "github.com/MrEthical07/goRate"
)

// field is one value a command can take from a flag or from a prompt.
type field struct {
	flag   string
	label  string
	value  *string
	secret bool
}

func runForm(title string, fields ...field) error {
	inputs := make([]huh.Field, 0, len(fields))
	for _, f := range fields {
		in := huh.NewInput().Title(f.label).Value(f.value)
		if f.secret {
			in = in.EchoMode(huh.EchoModePassword)
		}
		inputs = append(inputs, in)
	}
	return huh.NewForm(huh.NewGroup(inputs...).Title(title)).
		WithTheme(huh.ThemeBase()).
		Run()
}

// choice is one entry of a pick list.
type choice struct {
	label string
	value string
}

func runChoice(title string, options []choice, value *string) error {
	opts := make([]huh.Option[string], 0, len(options))
	for _, o := range options {
		opts = append(opts, huh.NewOption(o.label, o.value))
	}
	sel := huh.NewSelect[string]().
		Title(title).
		Options(opts...).
		Value(value)
	return huh.NewForm(huh.NewGroup(sel)).
		WithTheme(huh.ThemeBase()).
		Run()
}

// ask prompts for the fields that are still empty. Without a prompt the
// first missing field is reported as a missing flag.
func (a *app) ask(title string, fields ...field) error {
	var missing []field
	for _, f := range fields {
		if *f.value == "" {
			missing = append(missing, f)
		}
	}
	if len(missing) == 0 {
		return nil
	}
	if a.prompt == nil {
		return fmt.Errorf("%w: missing --%s", goRate.ErrInvalidInput, missing[0].flag)
	}
	return a.prompt(title, missing...)
}
