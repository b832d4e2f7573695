package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/Sla0ui/multilookup/internal/console"
	"github.com/Sla0ui/multilookup/internal/metrics"
	"github.com/Sla0ui/multilookup/internal/models"
	"github.com/Sla0ui/multilookup/internal/pipeline"
	"github.com/Sla0ui/multilookup/internal/reporter"
	"github.com/Sla0ui/multilookup/internal/resolver"
	"github.com/fatih/color"
	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const (
	AppName    = "multilookup"
	AppVersion = "1.0.0"
	AppRepo    = "https://github.com/Sla0ui/multilookup"
)

var (
	green   = color.New(color.FgGreen).SprintFunc()
	red     = color.New(color.FgRed).SprintFunc()
	blue    = color.New(color.FgBlue).SprintFunc()
	magenta = color.New(color.FgMagenta).SprintFunc()
)

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "multilookup [flags] INPUT_FILE... OUTPUT_FILE",
		Short: "Resolve large hostname lists concurrently",
		Long: `multilookup reads whitespace separated hostnames from one or more input files,
resolves them with a fixed pool of resolver workers and writes one
"hostname,address" line per hostname to the output file. Hostnames that fail
to resolve are written with an empty address.

Examples:
  multilookup names1.txt names2.txt results.txt
  multilookup -r 20 -Q 100 names.txt results.txt
  multilookup --nameserver 1.1.1.1 --network ip4 names.txt results.txt
  multilookup stats results.txt
  multilookup report -f html,json results.txt`,
		Version:       AppVersion,
		Args:          cobra.MinimumNArgs(2),
		RunE:          runLookup,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().String("config", "", "Config file (yaml, json, toml)")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose logging")
	rootCmd.PersistentFlags().BoolP("quiet", "q", false, "Quiet mode - only diagnostics on stderr")
	rootCmd.PersistentFlags().BoolP("no-color", "n", false, "Disable colorized output")

	addLookupFlags(rootCmd.Flags())
	rootCmd.Flags().IntP("queue-size", "Q", models.DefaultQueueSize, "Capacity of the hostname queue")
	rootCmd.Flags().Int("max-name-length", models.DefaultMaxNameLength, "Longest accepted hostname token")
	rootCmd.Flags().IntP("resolvers", "r", models.DefaultResolvers, "Number of resolver workers")
	rootCmd.Flags().Bool("normalize", false, "Strip URL schemes and paths from input tokens")
	rootCmd.Flags().Bool("no-progress", false, "Disable progress indicator")
	rootCmd.Flags().String("metrics-addr", "", "Serve prometheus metrics on this address during the run")

	singleCmd := &cobra.Command{
		Use:   "single [flags] HOSTNAME",
		Short: "Resolve a single hostname",
		Long:  `Resolve one hostname with the configured backend and print its output record.`,
		Args:  cobra.ExactArgs(1),
		RunE:  runSingle,
	}
	addLookupFlags(singleCmd.Flags())
	rootCmd.AddCommand(singleCmd)

	statsCmd := &cobra.Command{
		Use:   "stats [flags] OUTPUT_FILE",
		Short: "Show results of a previous run",
		Long:  `Count or list resolved and failed hostnames of a finished output file.`,
		Args:  cobra.ExactArgs(1),
		RunE:  runStats,
	}
	statsCmd.Flags().StringP("type", "t", "all", "Type of records to list (resolved, failed, all)")
	statsCmd.Flags().BoolP("count", "c", false, "Only show counts")
	rootCmd.AddCommand(statsCmd)

	reportCmd := &cobra.Command{
		Use:   "report [flags] OUTPUT_FILE",
		Short: "Generate a report from an output file",
		Long:  `Generate a report of a finished output file in one or more formats.`,
		Args:  cobra.ExactArgs(1),
		RunE:  runReport,
	}
	reportCmd.Flags().StringP("format", "f", "html", "Report format(s) - comma separated (html, json, csv)")
	reportCmd.Flags().StringP("output", "o", "report", "Output file prefix")
	rootCmd.AddCommand(reportCmd)

	return rootCmd
}

func addLookupFlags(fs *pflag.FlagSet) {
	fs.StringSlice("nameserver", nil, "Query these nameservers directly instead of the system resolver")
	fs.String("network", "ip", "Address family to resolve (ip, ip4, ip6)")
}

func main() {
	if err := newRootCmd().ExecuteContext(context.Background()); err != nil {
		console.Default(false, false).Error("%v", err)
		os.Exit(1)
	}
}

// loadConfig layers flags over MULTILOOKUP_* environment variables over the
// optional config file over defaults.
func loadConfig(cmd *cobra.Command) (*models.Config, error) {
	v := viper.New()
	v.SetEnvPrefix("MULTILOOKUP")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	if err := v.BindPFlags(cmd.Flags()); err != nil {
		return nil, fmt.Errorf("failed to bind flags: %w", err)
	}

	if path := v.GetString("config"); path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	config := models.DefaultConfig()
	if v.IsSet("queue-size") {
		config.QueueSize = v.GetInt("queue-size")
	}
	if v.IsSet("resolvers") {
		config.Resolvers = v.GetInt("resolvers")
	}
	if v.IsSet("max-name-length") {
		config.MaxNameLength = v.GetInt("max-name-length")
	}
	config.Network = v.GetString("network")
	config.Nameservers = splitList(v.GetStringSlice("nameserver"))
	config.Normalize = v.GetBool("normalize")
	config.Verbose = v.GetBool("verbose")
	config.Quiet = v.GetBool("quiet")
	config.NoColor = v.GetBool("no-color")
	config.NoProgress = v.GetBool("no-progress")
	config.MetricsAddr = v.GetString("metrics-addr")

	if config.NoColor {
		color.NoColor = true
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return config, nil
}

// splitList accepts both repeated values and comma separated ones.
func splitList(values []string) []string {
	var out []string
	for _, v := range values {
		for _, part := range strings.Split(v, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}

func newResolver(config *models.Config) (resolver.Resolver, error) {
	if len(config.Nameservers) > 0 {
		return resolver.NewDNS(config.Nameservers, config.Network)
	}
	return resolver.NewSystem(config.Network), nil
}

func runLookup(cmd *cobra.Command, args []string) error {
	cmd.SilenceUsage = true
	config, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	log := console.New(cmd.OutOrStdout(), cmd.ErrOrStderr(), config.Quiet, config.Verbose)

	inputs, output := args[:len(args)-1], args[len(args)-1]

	r, err := newResolver(config)
	if err != nil {
		return err
	}

	sink, err := reporter.CreateSink(output)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigChan)
	go func() {
		select {
		case <-sigChan:
			log.Warn("Received termination signal. Shutting down gracefully...")
			cancel()
		case <-ctx.Done():
		}
	}()

	m := metrics.New()
	if config.MetricsAddr != "" {
		srv, err := metrics.Serve(config.MetricsAddr, m.Registry, log)
		if err != nil {
			sink.Close()
			return err
		}
		log.Info("Serving metrics on http://%s/metrics", srv.Addr())
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
			defer cancel()
			srv.Shutdown(shutdownCtx)
		}()
	}

	p, err := pipeline.New(config, r, sink, log, m)
	if err != nil {
		sink.Close()
		return err
	}

	var bar *progressbar.ProgressBar
	if !config.Quiet && !config.NoProgress {
		bar = progressbar.NewOptions(-1,
			progressbar.OptionSetWriter(cmd.ErrOrStderr()),
			progressbar.OptionEnableColorCodes(true),
			progressbar.OptionSetDescription("[cyan]Resolving hostnames[reset]"),
			progressbar.OptionShowCount(),
			progressbar.OptionSpinnerType(14),
		)
		p.OnRecord = func(models.Record) {
			bar.Add(1)
		}
	}

	backend := "system resolver"
	if len(config.Nameservers) > 0 {
		backend = strings.Join(config.Nameservers, ", ")
	}
	log.Info("Resolving hostnames from %s input files with %s resolvers (queue %d, %s)",
		magenta(len(inputs)), magenta(config.Resolvers), config.QueueSize, backend)

	summary, runErr := p.Run(ctx, inputs)

	if bar != nil {
		bar.Finish()
		fmt.Fprintln(cmd.ErrOrStderr())
	}
	if err := sink.Close(); err != nil && runErr == nil {
		runErr = err
	}
	if runErr != nil {
		return runErr
	}

	failed := sink.Failed()
	if !config.Quiet {
		fmt.Fprintf(cmd.OutOrStdout(), "\n%s Results: %s resolved, %s failed, %d rejected tokens, %d unreadable inputs\n",
			blue("SUMMARY:"),
			green(sink.Written()-failed),
			red(failed),
			summary.Rejected,
			summary.SourceErrors)
	}

	if summary.Sources > 0 && summary.SourceErrors == summary.Sources {
		return fmt.Errorf("no usable input file")
	}

	log.Success("Wrote %d records to %s", sink.Written(), output)
	return nil
}

func runSingle(cmd *cobra.Command, args []string) error {
	cmd.SilenceUsage = true
	config, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	r, err := newResolver(config)
	if err != nil {
		return err
	}

	hostname := args[0]
	addr, err := r.Resolve(cmd.Context(), hostname)
	if err == nil {
		addr, err = resolver.CheckAddress(addr)
	}
	rec := models.Record{Hostname: hostname, Address: addr}
	fmt.Fprint(cmd.OutOrStdout(), rec.Line())

	if err != nil {
		return fmt.Errorf("dnslookup error: %s: %w", hostname, err)
	}
	return nil
}

func runStats(cmd *cobra.Command, args []string) error {
	cmd.SilenceUsage = true
	listType, _ := cmd.Flags().GetString("type")
	countOnly, _ := cmd.Flags().GetBool("count")
	if noColor, _ := cmd.Flags().GetBool("no-color"); noColor {
		color.NoColor = true
	}

	records, err := reporter.Load(args[0])
	if err != nil {
		return err
	}
	rep := reporter.New(records)

	selected, err := rep.Filter(listType)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if countOnly {
		resolved, failed := rep.GetStats()
		if listType == "all" || listType == "resolved" {
			fmt.Fprintf(out, "Resolved hostnames: %s\n", green(resolved))
		}
		if listType == "all" || listType == "failed" {
			fmt.Fprintf(out, "Failed hostnames: %s\n", red(failed))
		}
		if listType == "all" {
			fmt.Fprintf(out, "Total hostnames: %s\n", magenta(len(records)))
			fmt.Fprintf(out, "Unique addresses: %s\n", magenta(len(rep.UniqueAddresses())))
		}
		return nil
	}

	fmt.Fprintf(out, "%s %s hostnames (%d):\n", blue("INFO:"), listType, len(selected))
	for _, rec := range selected {
		if rec.Resolved() {
			fmt.Fprintf(out, "  %s => %s\n", rec.Hostname, green(rec.Address))
		} else {
			fmt.Fprintf(out, "  %s => %s\n", rec.Hostname, red("unresolved"))
		}
	}
	return nil
}

func runReport(cmd *cobra.Command, args []string) error {
	cmd.SilenceUsage = true
	format, _ := cmd.Flags().GetString("format")
	output, _ := cmd.Flags().GetString("output")
	quiet, _ := cmd.Flags().GetBool("quiet")
	if noColor, _ := cmd.Flags().GetBool("no-color"); noColor {
		color.NoColor = true
	}
	log := console.New(cmd.OutOrStdout(), cmd.ErrOrStderr(), quiet, false)

	records, err := reporter.Load(args[0])
	if err != nil {
		return err
	}

	written, err := reporter.New(records).GenerateReport(output, format)
	if err != nil {
		return fmt.Errorf("failed to generate report: %w", err)
	}
	for _, path := range written {
		log.Success("Report written to %s", path)
	}
	return nil
}
