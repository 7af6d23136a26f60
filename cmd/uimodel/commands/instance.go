package commands

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/goliatone/go-uimodel/pkg/inspector"
	"github.com/goliatone/go-uimodel/pkg/model"
	"github.com/goliatone/go-uimodel/pkg/script"
	"github.com/goliatone/go-uimodel/pkg/workflow"
)

// instanceFlags are shared by run and play.
type instanceFlags struct {
	model   string
	data    string
	scripts string
	vars    map[string]string
}

func (f *instanceFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.model, "model", "", "UI model file (markup, JSON or YAML)")
	cmd.Flags().StringVar(&f.data, "data", "", "data model file (JSON or YAML)")
	cmd.Flags().StringVar(&f.scripts, "script", "", "script file or directory of script files")
	cmd.Flags().StringToStringVar(&f.vars, "var", nil, "config var visible to templates as vars.<key>")
	_ = cmd.MarkFlagRequired("model")
}

// start loads the files named by the flags and returns a started engine.
// Alerts and handler failures are written to out.
func (f *instanceFlags) start(cmd *cobra.Command, out io.Writer) (*workflow.Engine, error) {
	ui, err := loadModel(cmd, f.model)
	if err != nil {
		return nil, err
	}

	var data any = map[string]any{}
	if f.data != "" {
		raw, err := os.ReadFile(f.data)
		if err != nil {
			return nil, err
		}
		if data, err = model.DecodeData(raw); err != nil {
			return nil, fmt.Errorf("%s: %w", f.data, err)
		}
	}

	source, err := loadScripts(f.scripts)
	if err != nil {
		return nil, err
	}

	cfg := workflow.Config{Vars: make(map[string]any, len(f.vars))}
	for key, value := range f.vars {
		cfg.Vars[key] = inspector.ParseValue(value)
	}

	notifier := workflow.NotifierFunc(func(_ context.Context, message string) {
		fmt.Fprintln(out, "!", message)
	})
	return rt.Instantiate(cmd.Context(), cfg, ui, data,
		workflow.WithScripts(source),
		workflow.WithNotifier(notifier),
	)
}

func loadScripts(path string) (string, error) {
	if strings.TrimSpace(path) == "" {
		return "", nil
	}
	info, err := os.Stat(path)
	if err != nil {
		return "", err
	}
	if info.IsDir() {
		return script.LoadFS(os.DirFS(path))
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	if _, err := script.Parse(string(raw)); err != nil {
		return "", fmt.Errorf("%s: %w", path, err)
	}
	return string(raw), nil
}
