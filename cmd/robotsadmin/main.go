package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sort"

	"github.com/spf13/cobra"

	"github.com/ts4z/robotstxt/assets"
	"github.com/ts4z/robotstxt/config"
	"github.com/ts4z/robotstxt/robots"
	"github.com/ts4z/robotstxt/state"
	"github.com/ts4z/robotstxt/urlpath"
)

const fallbackAppURL = "http://localhost"

type options struct {
	rulesFile string
	env       string
	appURL    string
	out       string
	force     bool
}

func (o *options) storage() *state.FileRulesStorage {
	if o.rulesFile == "" {
		o.rulesFile = config.RulesFile()
	}
	return state.NewFileRulesStorage(o.rulesFile)
}

func (o *options) fetchRules(ctx context.Context) (*robots.Configuration, error) {
	s := o.storage()
	defer s.Close()
	return s.FetchRules(ctx)
}

func render(o *options, w io.Writer) error {
	cfg, err := o.fetchRules(context.Background())
	if err != nil {
		return err
	}

	env := o.env
	if env == "" {
		env = config.AppEnv()
	}
	appURL := o.appURL
	if appURL == "" {
		appURL = config.AppURL()
	}
	if appURL == "" {
		appURL = fallbackAppURL
	}
	base, err := urlpath.NewBase(appURL)
	if err != nil {
		return fmt.Errorf("parsing app url %q: %w", appURL, err)
	}

	_, err = fmt.Fprintln(w, robots.Text(robots.Compile(cfg, env, cfg.Settings, base)))
	return err
}

func check(o *options, w io.Writer) error {
	s := o.storage()
	defer s.Close()

	// The storage quietly falls back to the built-in rules, which would
	// make a mistyped path look fine.
	if _, err := os.Stat(s.Path()); errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("%s: not found (built-in rules would apply)", s.Path())
	} else if err != nil {
		return fmt.Errorf("checking %s: %w", s.Path(), err)
	}

	cfg, err := s.FetchRules(context.Background())
	if err != nil {
		return err
	}

	fmt.Fprintf(w, "%s: ok\n", o.rulesFile)
	fmt.Fprintf(w, "use_app_host: %v\n", cfg.Settings.UseAppHost())

	names := cfg.EnvironmentNames()
	sort.Strings(names)
	if len(names) == 0 {
		fmt.Fprintln(w, "no environments; every environment disallows all")
	}
	for _, name := range names {
		rule := cfg.Environment(name)
		if rule == nil || len(rule.Paths) == 0 {
			fmt.Fprintf(w, "%s: no user agents, disallows all\n", name)
			continue
		}
		fmt.Fprintf(w, "%s: %d user agents, %d sitemaps\n", name, len(rule.Paths), len(rule.Sitemaps))
		for _, agent := range rule.Paths {
			fmt.Fprintf(w, "  %s: %d disallow, %d allow\n",
				agent.Name, len(agent.Directives.Disallow), len(agent.Directives.Allow))
		}
	}
	return nil
}

func publish(o *options, w io.Writer) error {
	out := o.out
	if out == "" {
		out = config.RulesFile()
	}

	if _, err := os.Stat(out); err == nil && !o.force {
		return fmt.Errorf("%s already exists (use --force to overwrite)", out)
	} else if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("checking %s: %w", out, err)
	}

	if dir := filepath.Dir(out); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("creating %s: %w", dir, err)
		}
	}
	if err := os.WriteFile(out, assets.DefaultRules, 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", out, err)
	}
	fmt.Fprintf(w, "published default rules to %s\n", out)
	return nil
}

func newRootCmd() *cobra.Command {
	o := &options{}

	rootCmd := &cobra.Command{
		Short:         "robots.txt administration tool",
		Use:           "robotsadmin",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			config.Init()
		},
	}
	rootCmd.PersistentFlags().StringVar(&o.rulesFile, "rules", "", "Rules file (default from rules_file setting)")

	renderCmd := &cobra.Command{
		Use:   "render",
		Short: "Print robots.txt as an environment would serve it",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return render(o, cmd.OutOrStdout())
		},
	}
	renderCmd.Flags().StringVar(&o.env, "env", "", "Environment (default from app.env setting)")
	renderCmd.Flags().StringVar(&o.appURL, "app-url", "", "Base URL for sitemaps (default from app_url setting, then "+fallbackAppURL+")")

	checkCmd := &cobra.Command{
		Use:   "check",
		Short: "Parse the rules file and summarize each environment",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return check(o, cmd.OutOrStdout())
		},
	}

	publishCmd := &cobra.Command{
		Use:   "publish",
		Short: "Write the default rules file so it can be edited",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return publish(o, cmd.OutOrStdout())
		},
	}
	publishCmd.Flags().StringVar(&o.out, "out", "", "Where to write (default from rules_file setting)")
	publishCmd.Flags().BoolVar(&o.force, "force", false, "Overwrite an existing file")

	rootCmd.AddCommand(renderCmd, checkCmd, publishCmd)
	return rootCmd
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}
