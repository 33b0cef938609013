package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"sort"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/frontdesk-lu/frontdesk/pkg/adapter"
	"github.com/frontdesk-lu/frontdesk/pkg/agents"
	"github.com/frontdesk-lu/frontdesk/pkg/assemble"
	"github.com/frontdesk-lu/frontdesk/pkg/cache"
	"github.com/frontdesk-lu/frontdesk/pkg/config"
	"github.com/frontdesk-lu/frontdesk/pkg/gate"
	"github.com/frontdesk-lu/frontdesk/pkg/pipeline"
	"github.com/frontdesk-lu/frontdesk/pkg/planner"
	"github.com/frontdesk-lu/frontdesk/pkg/retrieval"
	"github.com/frontdesk-lu/frontdesk/pkg/retrieval/sources"
	"github.com/frontdesk-lu/frontdesk/pkg/schema"
	"github.com/frontdesk-lu/frontdesk/pkg/synthesis"
)

var (
	configFile string
	verbose    bool
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "frontdesk",
		Short: "Multi-agent question answering for employment and administrative procedures in Luxembourg",
		Long: `Frontdesk answers employment and administrative questions by planning
	retrieval, consulting domain specialists (administrative procedure and
	labour law), and synthesizing their answers into one cited response.`,
	}

	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "path to pipeline config file")
	rootCmd.PersistentFlags().BoolVar(&verbose, "verbose", false, "enable debug logging")

	rootCmd.AddCommand(askCmd())
	rootCmd.AddCommand(agentsCmd())
	rootCmd.AddCommand(modelsCmd())
	rootCmd.AddCommand(validateCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func askCmd() *cobra.Command {
	var langFlag string
	var jsonFlag bool
	var runlogDir string

	cmd := &cobra.Command{
		Use:   "ask [question]",
		Short: "Answer a question about work and administrative procedures",
		Long: `Plans retrieval for the question, consults the relevant specialists
	and prints the synthesized, cited answer.

	Use --lang to force the answer language instead of detecting it.
	Use --json for the full structured response including evidence.
	Use --runlog to write per-run records for auditing.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			question := args[0]

			var lang schema.Language
			if langFlag != "" {
				parsed, ok := schema.ParseLanguage(langFlag)
				if !ok {
					return fmt.Errorf("unsupported language %q (want en, fr or de)", langFlag)
				}
				lang = parsed
			}

			cfg, err := loadConfig()
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}

			p, err := buildPipeline(cfg, runlogDir)
			if err != nil {
				return err
			}

			resp := p.ProcessQuestion(context.Background(), pipeline.Request{
				Question: question,
				Language: lang,
			})

			if jsonFlag {
				data, err := json.MarshalIndent(resp, "", "  ")
				if err != nil {
					return err
				}
				fmt.Println(string(data))
				return nil
			}

			printResponse(resp)
			return nil
		},
	}

	cmd.Flags().StringVar(&langFlag, "lang", "", "force answer language (en, fr, de)")
	cmd.Flags().BoolVar(&jsonFlag, "json", false, "print the full structured response as JSON")
	cmd.Flags().StringVar(&runlogDir, "runlog", "", "write run records under this directory")

	return cmd
}

func agentsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "agents",
		Short: "Show the specialist agents and their sources",
		RunE: func(cmd *cobra.Command, args []string) error {
			hostsByDomain := newSourceRegistry().AllowedHosts()

			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "AGENT\tDOMAIN\tALLOWED HOSTS")

			for _, agent := range schema.AllAgents {
				domain := schema.Domain(agent)
				hosts := append([]string(nil), hostsByDomain[domain]...)
				sort.Strings(hosts)
				fmt.Fprintf(w, "%s\t%s\t%s\n", agent, domain, formatList(hosts))
			}

			return w.Flush()
		},
	}
}

func modelsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "models",
		Short: "List providers and their key status",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "PROVIDER\tSTATUS\tUSED BY")

			usage := make(map[string][]string)
			usage[cfg.Pipeline.Planner.Adapter] = append(usage[cfg.Pipeline.Planner.Adapter], "planner")
			usage[cfg.Pipeline.Agents.Adapter] = append(usage[cfg.Pipeline.Agents.Adapter], "agents")
			usage[cfg.Pipeline.Synthesizer.Adapter] = append(usage[cfg.Pipeline.Synthesizer.Adapter], "synthesizer")

			for _, provider := range []string{"anthropic", "openai", "google", "mock"} {
				status := "no key"
				if cfg.HasAdapter(provider) {
					status = "ready"
				}
				fmt.Fprintf(w, "%s\t%s\t%s\n", provider, status, formatList(usage[provider]))
			}

			return w.Flush()
		},
	}
}

func validateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate [pipeline.yaml]",
		Short: "Validate a pipeline config file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.LoadPipelineConfig(args[0])
			if err != nil {
				return fmt.Errorf("invalid pipeline config: %w", err)
			}

			for stage, target := range map[string]config.StageTarget{
				"planner":     cfg.Planner,
				"agents":      cfg.Agents,
				"synthesizer": cfg.Synthesizer,
			} {
				if target.Adapter == "" || target.Model == "" {
					return fmt.Errorf("stage %q is missing an adapter or model", stage)
				}
			}
			if _, ok := schema.ParseLanguage(cfg.DefaultLanguage); !ok {
				return fmt.Errorf("default_language %q is not supported", cfg.DefaultLanguage)
			}

			fmt.Printf("%s is valid\n", args[0])
			return nil
		},
	}
}

func formatList(items []string) string {
	if len(items) == 0 {
		return "-"
	}
	out := ""
	for i, item := range items {
		if i > 0 {
			out += ", "
		}
		out += item
	}
	return out
}

func loadConfig() (*config.Config, error) {
	if configFile != "" {
		return config.LoadWithPipelineFile(configFile)
	}
	return config.Load()
}

func newLogger() *slog.Logger {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

func newSourceRegistry() *sources.Registry {
	registry := sources.NewRegistry()
	registry.Register(sources.NewGuichetSource())
	registry.Register(sources.NewLegalSource())
	return registry
}

// buildPipeline wires the full pipeline from configuration.
func buildPipeline(cfg *config.Config, runlogDir string) (*pipeline.Pipeline, error) {
	logger := newLogger()

	adapters, err := createAdapters(cfg)
	if err != nil {
		return nil, err
	}
	resolve := func(stage string, target config.StageTarget) (adapter.Adapter, error) {
		a, ok := adapters[target.Adapter]
		if !ok {
			return nil, fmt.Errorf("stage %q needs adapter %q, which has no configured key", stage, target.Adapter)
		}
		return a, nil
	}

	plannerAdapter, err := resolve("planner", cfg.Pipeline.Planner)
	if err != nil {
		return nil, err
	}
	agentAdapter, err := resolve("agents", cfg.Pipeline.Agents)
	if err != nil {
		return nil, err
	}
	synthAdapter, err := resolve("synthesizer", cfg.Pipeline.Synthesizer)
	if err != nil {
		return nil, err
	}

	registry := newSourceRegistry()
	store := cache.NewMemoryStore(cache.WithTTL(cfg.Pipeline.Retrieval.CacheTTL()))
	retriever := retrieval.New(registry, store,
		retrieval.WithMaxParallel(cfg.Pipeline.Retrieval.MaxParallel),
		retrieval.WithTimeout(cfg.Pipeline.Retrieval.FetchTimeout()),
		retrieval.WithLogger(logger),
	)

	responders := []agents.Responder{
		agents.NewGuichet(agentAdapter, cfg.Pipeline.Agents.Model, agents.WithLogger(logger)),
		agents.NewLegal(agentAdapter, cfg.Pipeline.Agents.Model, agents.WithLogger(logger)),
	}

	assembler := assemble.New(
		assemble.WithGates(gate.NewAllowlistGate(allowedHosts(cfg, registry))),
		assemble.WithLogger(logger),
	)

	opts := []pipeline.Option{pipeline.WithLogger(logger)}
	if runlogDir != "" {
		opts = append(opts, pipeline.WithRunlogDir(runlogDir))
	} else if cfg.Pipeline.RunlogDir != "" {
		opts = append(opts, pipeline.WithRunlogDir(cfg.Pipeline.RunlogDir))
	}

	return pipeline.New(
		planner.New(plannerAdapter, cfg.Pipeline.Planner.Model,
			planner.WithRepair(*cfg.Pipeline.EnableRepair),
			planner.WithLogger(logger)),
		retriever,
		responders,
		synthesis.New(synthAdapter, cfg.Pipeline.Synthesizer.Model, synthesis.WithLogger(logger)),
		assembler,
		opts...,
	), nil
}

// allowedHosts resolves the allowlist from config, falling back to the
// registered sources' own host lists.
func allowedHosts(cfg *config.Config, registry *sources.Registry) map[schema.Domain][]string {
	hosts := make(map[schema.Domain][]string)
	for domain, list := range cfg.Pipeline.Retrieval.AllowedHosts {
		hosts[schema.Domain(domain)] = list
	}
	for domain, list := range registry.AllowedHosts() {
		if len(hosts[domain]) == 0 {
			hosts[domain] = list
		}
	}
	return hosts
}

func createAdapters(cfg *config.Config) (map[string]adapter.Adapter, error) {
	adapters := make(map[string]adapter.Adapter)

	if cfg.AnthropicAPIKey != "" {
		a, err := adapter.NewAnthropicAdapter(cfg.AnthropicAPIKey)
		if err != nil {
			return nil, fmt.Errorf("failed to create anthropic adapter: %w", err)
		}
		adapters["anthropic"] = a
	}

	if cfg.OpenAIAPIKey != "" {
		a, err := adapter.NewOpenAIAdapter(cfg.OpenAIAPIKey)
		if err != nil {
			return nil, fmt.Errorf("failed to create openai adapter: %w", err)
		}
		adapters["openai"] = a
	}

	if cfg.GoogleAPIKey != "" {
		a, err := adapter.NewGoogleAdapter(cfg.GoogleAPIKey)
		if err != nil {
			return nil, fmt.Errorf("failed to create google adapter: %w", err)
		}
		adapters["google"] = a
	}

	adapters["mock"] = adapter.NewMockAdapter()

	return adapters, nil
}

func printResponse(resp *schema.Response) {
	fmt.Println(resp.Answer)

	if len(resp.Steps) > 0 {
		fmt.Println("\nSteps:")
		for i, step := range resp.Steps {
			fmt.Printf("  %d. %s\n", i+1, step)
		}
	}

	if len(resp.Citations) > 0 {
		fmt.Println("\nSources:")
		for _, c := range resp.Citations {
			fmt.Printf("  - %s — %s (%s, retrieved %s)\n", c.Title, c.Section, c.URL, c.RetrievedAt)
		}
	}

	if len(resp.Limitations) > 0 {
		fmt.Println("\nLimitations:")
		for _, lim := range resp.Limitations {
			fmt.Printf("  - %s\n", lim)
		}
	}

	if len(resp.SuggestedSearches) > 0 {
		fmt.Println("\nSuggested searches:")
		for _, s := range resp.SuggestedSearches {
			fmt.Printf("  - %s\n", s)
		}
	}

	fmt.Printf("\nConfidence: %s\n", resp.Confidence)
}
