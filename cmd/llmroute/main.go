// Command llmroute sends a one-shot LLM query, routing it to the right
// backend for the model and normalizing parameters on the way.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/avelier/llmroute/pkg/funcspec"
	"github.com/avelier/llmroute/pkg/router"
	"github.com/go-logr/logr"
	"github.com/go-logr/logr/funcr"
)

func main() {
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: llmroute -model <name> [flags]\n\nSend a single query to an LLM, routed by model name.\n\nFlags:\n")
		flag.PrintDefaults()
	}

	configPath := flag.String("config", "", "path to configuration file (optional; env vars used otherwise)")
	envFile := flag.String("env", ".env", "path to .env file (ignored if missing)")
	model := flag.String("model", "", "model identifier (e.g. \"gpt-4-turbo\", \"claude-sonnet-4\", \"o1-preview\")")
	system := flag.String("system", "", "system prompt, or @path to read it from a file")
	user := flag.String("user", "", "user prompt, or @path to read it from a file")
	temperature := flag.String("temperature", "", "sampling temperature (empty = model default)")
	maxTokens := flag.Int("max-tokens", -1, "maximum output tokens (-1 = model default)")
	reasoningEffort := flag.String("reasoning-effort", "", "reasoning effort for o1/o3/gpt-5 models (empty = family default)")
	funcSpecPath := flag.String("func-spec", "", "path to a JSON function spec; the result is the function call")
	render := flag.Bool("render", false, "render the completion as markdown in the terminal")
	verbose := flag.Bool("verbose", false, "log dispatch decisions to stderr")
	flag.Parse()

	if *model == "" {
		flag.Usage()
		os.Exit(2)
	}

	if err := loadDotEnv(*envFile); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}

	opts := cliOpts{
		configPath:      *configPath,
		model:           *model,
		system:          *system,
		user:            *user,
		temperature:     *temperature,
		maxTokens:       *maxTokens,
		reasoningEffort: *reasoningEffort,
		funcSpecPath:    *funcSpecPath,
		render:          *render,
		verbose:         *verbose,
	}

	if err := run(opts); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

type cliOpts struct {
	configPath      string
	model           string
	system          string
	user            string
	temperature     string
	maxTokens       int
	reasoningEffort string
	funcSpecPath    string
	render          bool
	verbose         bool
}

func run(o cliOpts) error {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	var cfg router.Config
	if o.configPath != "" {
		var err error
		cfg, err = router.LoadConfig(o.configPath)
		if err != nil {
			return err
		}
	}

	if err := cfg.Validate(); err != nil {
		return err
	}

	log := logr.Discard()
	if o.verbose {
		log = funcr.New(func(prefix, args string) {
			fmt.Fprintln(os.Stderr, prefix, args)
		}, funcr.Options{Verbosity: 1})
	}

	r := router.New(cfg, router.WithLogger(log))

	systemPrompt, err := readPrompt(o.system)
	if err != nil {
		return fmt.Errorf("system prompt: %w", err)
	}

	userPrompt, err := readPrompt(o.user)
	if err != nil {
		return fmt.Errorf("user prompt: %w", err)
	}

	queryOpts := router.Opts{ReasoningEffort: o.reasoningEffort}

	if o.temperature != "" {
		t, err := parseTemperature(o.temperature)
		if err != nil {
			return err
		}
		queryOpts.Temperature = &t
	}

	if o.maxTokens >= 0 {
		mt := o.maxTokens
		queryOpts.MaxTokens = &mt
	}

	if o.funcSpecPath != "" {
		spec, err := readFuncSpec(o.funcSpecPath)
		if err != nil {
			return err
		}
		queryOpts.FuncSpec = spec
	}

	out, err := r.Query(ctx, systemPrompt, userPrompt, o.model, queryOpts)
	if err != nil {
		return err
	}

	return printOutput(os.Stdout, out, o.render)
}

// readFuncSpec loads a funcspec.Spec from a JSON file with
// name/description/schema fields.
func readFuncSpec(path string) (*funcspec.Spec, error) {
	data, err := os.ReadFile(path) //nolint:gosec // path is caller-provided configuration, not user input
	if err != nil {
		return nil, fmt.Errorf("func spec: %w", err)
	}

	spec, err := parseFuncSpec(data)
	if err != nil {
		return nil, fmt.Errorf("func spec %s: %w", path, err)
	}

	return spec, nil
}
