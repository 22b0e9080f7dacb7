package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"maps"
	"os"
	"os/signal"
	"slices"
	"strings"
	"time"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"gopkg.in/yaml.v3"

	"github.com/AndreyAkinshin/toolpin/internal/binder"
	"github.com/AndreyAkinshin/toolpin/internal/build"
	"github.com/AndreyAkinshin/toolpin/internal/errors"
	"github.com/AndreyAkinshin/toolpin/internal/logging"
	"github.com/AndreyAkinshin/toolpin/internal/output"
	"github.com/AndreyAkinshin/toolpin/internal/project"
	"github.com/AndreyAkinshin/toolpin/internal/property"
	"github.com/AndreyAkinshin/toolpin/internal/report"
	"github.com/AndreyAkinshin/toolpin/internal/taskgraph"
	"github.com/AndreyAkinshin/toolpin/internal/toolchain"
)

// out is the shared output writer for CLI commands.
var out = output.New()

// Help text alignment widths for consistent formatting.
const (
	helpFlagWidthShort = 10 // Width for short flags like "-h, --help"
	widthCommand       = 16
	widthFlagWithValue = 18
	widthEnvVar        = 24
)

var titleCaser = cases.Title(language.English)

// applyVerbosityToOutput configures the output writer based on verbosity settings.
func applyVerbosityToOutput(opts *GlobalOptions) {
	out.SetQuiet(opts.Quiet)
	out.SetVerbose(opts.Verbose)
}

// newLogger builds the diagnostic logger for a command. Diagnostics go to stderr.
func newLogger(opts *GlobalOptions) *slog.Logger {
	level := "warn"
	switch {
	case opts.Verbose:
		level = "debug"
	case opts.Quiet:
		level = "error"
	}
	return logging.New(level, opts.LogFormat, out.Stderr())
}

// loadProject loads the project configuration and handles errors uniformly.
// Returns the project and exit code 0 on success, or nil and appropriate exit code on failure.
func loadProject(opts *GlobalOptions) (*project.Project, int) {
	var (
		root string
		err  error
	)
	if opts.Dir != "" {
		root, err = project.FindRootFrom(opts.Dir)
	} else {
		root, err = project.FindRoot()
	}
	if err != nil {
		out.ErrorPrefix("%v", err)
		return nil, errors.ExitConfigError
	}

	proj, err := project.LoadProjectFrom(root, project.Options{Properties: opts.Properties})
	if err != nil {
		out.ErrorPrefix("%v", err)
		return nil, errors.GetExitCode(err)
	}
	return proj, 0
}

// configure loads the project and runs the configuration phase.
func configure(opts *GlobalOptions, logger *slog.Logger, sinks ...report.Sink) (*build.Build, *toolchain.LocalProvider, int) {
	proj, exitCode := loadProject(opts)
	if proj == nil {
		return nil, nil, exitCode
	}
	for _, w := range proj.Warnings {
		logger.Warn("configuration warning", "warning", w)
	}

	buildOpts, provider, err := build.FromProject(proj, logger, sinks...)
	if err != nil {
		out.ErrorPrefix("%v", err)
		return nil, nil, errors.GetExitCode(err)
	}
	buildOpts.Workers = opts.Jobs

	b, err := build.Configure(buildOpts)
	if err != nil {
		out.ErrorPrefix("%v", err)
		return nil, nil, errors.GetExitCode(err)
	}
	return b, provider, 0
}

// cmdResolve prints the effective versions and where each came from.
func cmdResolve(args []string, opts *GlobalOptions) int {
	if wantsHelp(args) {
		printResolveUsage()
		return 0
	}
	if len(args) > 0 {
		out.ErrorPrefix("resolve: unexpected argument %q", args[0])
		return errors.ExitConfigError
	}

	proj, exitCode := loadProject(opts)
	if proj == nil {
		return exitCode
	}

	res := toolchain.Resolve(proj.Properties)
	out.SummaryItem("Main", describeVersion(proj.Properties, res, toolchain.RoleMain))
	out.SummaryItem("Test", describeVersion(proj.Properties, res, toolchain.RoleTest))
	if vendor, layer, ok := proj.Properties.Origin(property.ToolchainVendor); ok {
		out.SummaryItem("Vendor", fmt.Sprintf("%s (%s)", strings.TrimSpace(vendor), layer))
	} else {
		out.SummaryItem("Vendor", "any")
	}

	gate := proj.Gate()
	for _, a := range gate.Activations() {
		state := "inactive"
		if a.Active {
			state = "active"
		}
		out.SummaryItem(titleCaser.String(a.Kind.String())+" front-end", fmt.Sprintf("%s (%s)", state, a.Source))
	}
	return 0
}

func describeVersion(chain property.Chain, res toolchain.Resolution, role toolchain.Role) string {
	spec := res.Spec(role)
	if res.Configured(role) {
		_, layer, _ := chain.Origin(role.PropertyName())
		return fmt.Sprintf("%s (%s)", spec.Version, layer)
	}
	if role == toolchain.RoleTest {
		return fmt.Sprintf("%s (inherited from main)", spec.Version)
	}
	return fmt.Sprintf("%s (baseline)", spec.Version)
}

// planDocument is the structured form of `toolpin plan`.
type planDocument struct {
	Main      string           `json:"main" yaml:"main"`
	Test      string           `json:"test" yaml:"test"`
	Frontends map[string]bool  `json:"frontends" yaml:"frontends"`
	Tasks     []binder.Binding `json:"tasks" yaml:"tasks"`
}

// cmdPlan configures the build and prints the per-task bindings.
func cmdPlan(args []string, opts *GlobalOptions) int {
	if wantsHelp(args) {
		printPlanUsage()
		return 0
	}

	format := "table"
	for _, arg := range args {
		switch {
		case strings.HasPrefix(arg, "--format="):
			format = strings.TrimPrefix(arg, "--format=")
		default:
			out.ErrorPrefix("plan: unexpected argument %q", arg)
			return errors.ExitConfigError
		}
	}
	switch format {
	case "table", "yaml", "json":
	default:
		out.ErrorPrefix("plan: invalid --format value %q (use table, yaml, or json)", format)
		return errors.ExitConfigError
	}

	b, _, exitCode := configure(opts, newLogger(opts))
	if b == nil {
		return exitCode
	}

	doc := planDocument{
		Main:      b.Resolution.Main.Version.String(),
		Test:      b.Resolution.Test.Version.String(),
		Frontends: make(map[string]bool),
		Tasks:     b.Plan.Bindings(),
	}
	for _, a := range b.Plan.Activations {
		doc.Frontends[a.Kind.String()] = a.Active
	}

	switch format {
	case "json":
		data, err := json.MarshalIndent(doc, "", "  ")
		if err != nil {
			out.ErrorPrefix("plan: %v", err)
			return errors.ExitRuntimeError
		}
		out.Println("%s", data)
	case "yaml":
		data, err := yaml.Marshal(doc)
		if err != nil {
			out.ErrorPrefix("plan: %v", err)
			return errors.ExitRuntimeError
		}
		out.Print("%s", data)
	default:
		printPlanTable(doc)
	}
	return 0
}

func printPlanTable(doc planDocument) {
	out.SummaryItem("Main", doc.Main)
	out.SummaryItem("Test", doc.Test)
	out.Println("")

	rows := make([][]string, 0, len(doc.Tasks))
	for _, b := range doc.Tasks {
		var tools []string
		if b.Compiler {
			tools = append(tools, "compiler")
		}
		if b.Launcher {
			tools = append(tools, "launcher")
		}
		target := b.Release
		if b.JVMTarget != "" {
			target = b.JVMTarget
		}
		var props []string
		for _, key := range slices.Sorted(maps.Keys(b.SystemProperties)) {
			props = append(props, key+"="+b.SystemProperties[key])
		}
		rows = append(rows, []string{
			b.Task, b.FrontEnd, b.Action, b.Toolchain, strings.Join(tools, ","), target, strings.Join(props, " "),
		})
	}
	out.Table([]string{"TASK", "FRONT-END", "ACTION", "TOOLCHAIN", "BOUND", "TARGET", "PROPERTIES"}, rows)
}

// cmdRun configures the build, runs the requested tasks and reports the toolchains.
func cmdRun(args []string, opts *GlobalOptions) int {
	if wantsHelp(args) {
		printRunUsage()
		return 0
	}
	for _, arg := range args {
		if strings.HasPrefix(arg, "-") {
			out.ErrorPrefix("run: unknown flag %q", arg)
			return errors.ExitConfigError
		}
	}

	logger := newLogger(opts)
	sinks := []report.Sink{report.NewWriterSink(out)}
	if opts.Verbose {
		sinks = append(sinks, report.LogSink{Logger: logger})
	}
	b, _, exitCode := configure(opts, logger, sinks...)
	if b == nil {
		return exitCode
	}

	out.Debug("configured %d tasks (main %s, test %s)", b.Graph.Len(), b.Resolution.Main.Version, b.Resolution.Test.Version)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	ctx = logging.WithLogger(ctx, logger)

	out.SummaryHeader("Toolchains")
	result, err := b.Run(ctx, args...)
	if result == nil {
		out.ErrorPrefix("%v", err)
		return errors.GetExitCode(err)
	}

	out.SummaryHeader("Tasks")
	for _, c := range result.Completions {
		switch c.State {
		case taskgraph.StateSucceeded:
			out.TaskSucceeded(c.Task.Name, c.Duration.Round(time.Millisecond).String())
		case taskgraph.StateFailed:
			out.TaskFailed(c.Task.Name, c.Err)
		default:
			reason := "dependency did not succeed"
			if c.Err != nil {
				reason = c.Err.Error()
			}
			out.TaskSkipped(c.Task.Name, reason)
		}
	}
	if err != nil {
		out.ErrorPrefix("%v", err)
		return errors.GetExitCode(err)
	}

	if runErr := build.ExitError(result); runErr != nil {
		out.FinalFailure("%d of %d tasks failed", result.Count(taskgraph.StateFailed), len(result.Completions))
		return errors.GetExitCode(runErr)
	}
	out.FinalSuccess("%d tasks succeeded", result.Count(taskgraph.StateSucceeded))
	return 0
}

// cmdToolchains lists the installations the provider can choose from.
func cmdToolchains(args []string, opts *GlobalOptions) int {
	if wantsHelp(args) {
		printToolchainsUsage()
		return 0
	}

	_, provider, exitCode := configure(opts, newLogger(opts))
	if provider == nil {
		return exitCode
	}

	installations := provider.Installations()
	if len(installations) == 0 {
		out.Info("No toolchains found.")
		out.Hint("Add directories with installations.paths or %s.", toolchain.InstallationsEnvVar)
		return 0
	}

	rows := make([][]string, 0, len(installations))
	for _, inst := range installations {
		rows = append(rows, []string{inst.Language.String(), inst.Version, inst.Vendor, inst.Source, inst.Path})
	}
	out.Table([]string{"VERSION", "FULL", "VENDOR", "SOURCE", "PATH"}, rows)
	return 0
}

func cmdConfig(args []string, opts *GlobalOptions) int {
	if len(args) == 0 {
		out.ErrorPrefix("config: subcommand required (validate)")
		return errors.ExitConfigError
	}

	switch args[0] {
	case "validate":
		return cmdConfigValidate(opts)
	case "-h", "--help":
		printConfigUsage()
		return 0
	default:
		out.ErrorPrefix("config: unknown subcommand %q", args[0])
		return errors.ExitConfigError
	}
}

func cmdConfigValidate(opts *GlobalOptions) int {
	proj, exitCode := loadProject(opts)
	if proj == nil {
		return exitCode
	}

	for _, w := range proj.Warnings {
		out.WarningSimple("%s", w)
	}

	if _, err := proj.DeclaredInstallations(); err != nil {
		out.ErrorPrefix("%v", err)
		return errors.ExitConfigError
	}
	tasks, err := build.Tasks(proj.Config.Tasks)
	if err != nil {
		out.ErrorPrefix("%v", err)
		return errors.ExitConfigError
	}

	out.ValidationSuccess("Configuration is valid.")
	out.SummaryItem("Project", proj.Config.Project.Name)
	if len(tasks) == 0 {
		out.SummaryItem("Tasks", "conventional")
	} else {
		out.SummaryItem("Tasks", fmt.Sprintf("%d declared", len(tasks)))
	}
	out.SummaryItem("Installations", fmt.Sprintf("%d declared", len(proj.Manifest.Installations)))
	if len(proj.Warnings) > 0 {
		out.SummaryItem("Warnings", fmt.Sprintf("%d", len(proj.Warnings)))
	}
	return 0
}

func printResolveUsage() {
	out.HelpTitle("toolpin resolve - show the effective toolchains")
	out.HelpSection("Usage:")
	out.HelpUsage("toolpin resolve")
	out.HelpSection("Options:")
	out.HelpFlag("-h, --help", "Show this help", helpFlagWidthShort)
	out.Println("")
}

func printPlanUsage() {
	out.HelpTitle("toolpin plan - show the toolchain bound to each task")
	out.HelpSection("Usage:")
	out.HelpUsage("toolpin plan [--format=<fmt>]")
	out.HelpSection("Options:")
	out.HelpFlag("--format=<fmt>", "Output format: table, yaml, or json", 14)
	out.HelpFlag("-h, --help", "Show this help", 14)
	out.HelpSection("Examples:")
	out.HelpExample("toolpin plan", "Show bindings as a table")
	out.HelpExample("toolpin -P testToolchain=21 plan --format=yaml", "Preview a test override")
	out.Println("")
}

func printRunUsage() {
	out.HelpTitle("toolpin run - run tasks with their bound toolchains")
	out.HelpSection("Usage:")
	out.HelpUsage("toolpin run [task...]")
	out.HelpSection("Arguments:")
	out.HelpFlag("<task>", "Task to run with its dependencies (default: all)", helpFlagWidthShort)
	out.HelpSection("Examples:")
	out.HelpExample("toolpin run", "Run every task")
	out.HelpExample("toolpin -j 2 run test", "Run tests with two workers")
	out.Println("")
}

func printToolchainsUsage() {
	out.HelpTitle("toolpin toolchains - list installed toolchains")
	out.HelpSection("Usage:")
	out.HelpUsage("toolpin toolchains")
	out.Println("")
}

// printConfigUsage prints the help text for the config command.
func printConfigUsage() {
	out.HelpTitle("toolpin config - configuration utilities")
	out.HelpSection("Usage:")
	out.HelpUsage("toolpin config <subcommand>")
	out.HelpSection("Subcommands:")
	out.HelpCommand("validate", "Validate the project configuration", helpFlagWidthShort)
	out.HelpSection("Options:")
	out.HelpFlag("-h, --help", "Show this help", helpFlagWidthShort)
	out.Println("")
}
