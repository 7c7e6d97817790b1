package cmd

import (
	"bytes"
	"encoding/json"
	"strings"

	"github.com/spf13/cobra"

	"product_draft_studio/apperr"
	"product_draft_studio/registry"
)

func newSettingsCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "settings",
		Short: "Show or change generation settings",
	}

	show := &cobra.Command{
		Use:   "show",
		Short: "Print the current settings",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			s, err := a.regs().Settings.Get(cmd.Context())
			if err != nil {
				return err
			}
			return a.printJSON(s)
		},
	}

	set := &cobra.Command{
		Use:   "set KEY=VALUE...",
		Short: "Change settings by JSON key",
		Example: `  studio settings set defaultSloganCount=1 titleStyle=seo
  studio settings set defaultSaveToLibrary=false`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store := a.regs().Settings
			s, err := store.Get(cmd.Context())
			if err != nil {
				return err
			}
			if err := applySettings(&s, args); err != nil {
				return err
			}
			if err := store.Save(cmd.Context(), s); err != nil {
				return err
			}
			return a.printJSON(s)
		},
	}

	reset := &cobra.Command{
		Use:   "reset",
		Short: "Restore the default settings",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if !a.confirm("确定要恢复默认设置吗？") {
				return nil
			}
			s, err := a.regs().Settings.Reset(cmd.Context())
			if err != nil {
				return err
			}
			return a.printJSON(s)
		},
	}

	cmd.AddCommand(show, set, reset)
	return cmd
}

// applySettings decodes KEY=VALUE pairs onto s. Values that parse as JSON
// (numbers, booleans) keep their type; anything else is a string.
func applySettings(s *registry.Settings, pairs []string) error {
	patch := make(map[string]any, len(pairs))
	for _, pair := range pairs {
		key, raw, ok := strings.Cut(pair, "=")
		if !ok || key == "" {
			return apperr.Validationf("expected KEY=VALUE, got %q", pair)
		}
		var v any
		if err := json.Unmarshal([]byte(raw), &v); err != nil {
			v = raw
		}
		patch[key] = v
	}
	data, err := json.Marshal(patch)
	if err != nil {
		return err
	}
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(s); err != nil {
		return apperr.Wrap(err, apperr.CodeValidation, "invalid setting")
	}
	return nil
}
