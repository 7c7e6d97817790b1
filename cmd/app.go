package cmd

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"product_draft_studio/config"
	"product_draft_studio/generator"
	"product_draft_studio/logger"
	"product_draft_studio/registry"
	"product_draft_studio/store"
	"product_draft_studio/studio"
)

// app is the per-invocation state shared by every command.
type app struct {
	v       *viper.Viper
	cfgFile string
	yes     bool
	jsonOut bool

	cfg     config.Config
	log     *slog.Logger
	backend *store.Badger
	svc     *studio.Service
	out     io.Writer
	errOut  io.Writer
	in      *bufio.Reader
}

func (a *app) open(cmd *cobra.Command) error {
	cfg, err := config.Load(a.v, a.cfgFile)
	if err != nil {
		return err
	}
	a.cfg = cfg
	lc := cfg.Logger()
	lc.Writer = cmd.ErrOrStderr()
	a.log = logger.New(lc)
	a.out = cmd.OutOrStdout()
	a.errOut = cmd.ErrOrStderr()
	a.in = bufio.NewReader(cmd.InOrStdin())

	if cfg.InMemory {
		a.backend, err = store.OpenInMemory(a.log)
	} else {
		a.backend, err = store.Open(cfg.DataDir, a.log)
	}
	if err != nil {
		return err
	}

	regs := registry.New(a.backend)
	if err := regs.Init(cmd.Context()); err != nil {
		return err
	}

	opts := []studio.Option{studio.WithLogger(a.log), studio.WithSessionTTL(cfg.SessionTTL)}
	llm, err := generator.NewLLM(cfg.LLM.Settings())
	if err != nil {
		return err
	}
	if llm != nil {
		agent, err := generator.NewAgent(llm, nil)
		if err != nil {
			return err
		}
		opts = append(opts, studio.WithAgent(agent))
		a.log.Debug("rewrite enabled", "provider", cfg.LLM.Provider, "model", cfg.LLM.Model)
	}
	a.svc = studio.New(regs, opts...)
	return nil
}

func (a *app) close() error {
	if a.backend == nil {
		return nil
	}
	err := a.backend.Close()
	a.backend = nil
	return err
}

func (a *app) regs() *registry.Registries {
	return a.svc.Registries()
}

func (a *app) printJSON(v any) error {
	enc := json.NewEncoder(a.out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func (a *app) printf(format string, args ...any) {
	fmt.Fprintf(a.out, format, args...)
}

// note reports progress on stderr so stdout stays parseable.
func (a *app) note(format string, args ...any) {
	fmt.Fprintf(a.errOut, format, args...)
}

// confirm asks a yes/no question unless --yes was given.
func (a *app) confirm(question string) bool {
	if a.yes {
		return true
	}
	a.note("%s [y/N]: ", question)
	line, _ := a.in.ReadString('\n')
	switch strings.ToLower(strings.TrimSpace(line)) {
	case "y", "yes":
		return true
	}
	a.note("已取消\n")
	return false
}
