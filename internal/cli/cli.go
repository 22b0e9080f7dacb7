// Package cli provides command-line interface functionality for toolpin.
package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/AndreyAkinshin/toolpin/internal/errors"
	"github.com/AndreyAkinshin/toolpin/internal/output"
	"github.com/AndreyAkinshin/toolpin/internal/property"
)

// Version is set at build time.
var Version = "dev"

// wantsHelp returns true if args contain -h or --help before any -- separator.
func wantsHelp(args []string) bool {
	for _, arg := range args {
		if arg == "-h" || arg == "--help" {
			return true
		}
		if arg == "--" {
			return false
		}
	}
	return false
}

// Run executes the CLI with the given arguments and returns an exit code.
func Run(args []string) int {
	if len(args) == 0 {
		printUsage()
		return 0
	}

	switch args[0] {
	case "-h", "--help", "help":
		printUsage()
		return 0
	case "--version", "version":
		out.Println("toolpin %s", Version)
		return 0
	}

	opts, remaining, err := parseGlobalFlags(args)
	if err != nil {
		out.ErrorPrefix("%v", err)
		return errors.ExitConfigError
	}

	if len(remaining) == 0 {
		printUsage()
		return 0
	}
	cmd := remaining[0]
	cmdArgs := remaining[1:]

	switch cmd {
	case "resolve":
		return cmdResolve(cmdArgs, opts)
	case "plan":
		return cmdPlan(cmdArgs, opts)
	case "run":
		return cmdRun(cmdArgs, opts)
	case "toolchains":
		return cmdToolchains(cmdArgs, opts)
	case "config":
		return cmdConfig(cmdArgs, opts)
	case "help":
		printUsage()
		return 0
	case "version":
		out.Println("toolpin %s", Version)
		return 0
	default:
		out.ErrorPrefix("unknown command %q", cmd)
		out.Hint("Run 'toolpin help' for usage.")
		return errors.ExitConfigError
	}
}

// GlobalOptions holds parsed global flags.
type GlobalOptions struct {
	Properties property.Map
	Dir        string
	Quiet      bool
	Verbose    bool
	LogFormat  string
	Jobs       int
}

// parseGlobalFlags manually parses global flags from arguments.
//
// Manual parsing is used instead of stdlib flag package because flags can appear
// anywhere in the argument list and -P accepts both "-P key=value" and "-Pkey=value".
func parseGlobalFlags(args []string) (*GlobalOptions, []string, error) {
	opts := &GlobalOptions{Properties: property.Map{}, LogFormat: "text"}
	var remaining []string

	value := func(i int, flag string) (string, error) {
		if i+1 >= len(args) {
			return "", fmt.Errorf("%s requires a value", flag)
		}
		return args[i+1], nil
	}

	i := 0
	for i < len(args) {
		arg := args[i]

		switch {
		case arg == "-P":
			v, err := value(i, "-P")
			if err != nil {
				return nil, nil, err
			}
			if err := opts.setProperty(v); err != nil {
				return nil, nil, err
			}
			i += 2
		case strings.HasPrefix(arg, "-P"):
			if err := opts.setProperty(strings.TrimPrefix(arg, "-P")); err != nil {
				return nil, nil, err
			}
			i++
		case arg == "-C":
			v, err := value(i, "-C")
			if err != nil {
				return nil, nil, err
			}
			opts.Dir = v
			i += 2
		case arg == "-q" || arg == "--quiet":
			opts.Quiet = true
			i++
		case arg == "-v" || arg == "--verbose":
			opts.Verbose = true
			i++
		case arg == "--log-format":
			v, err := value(i, "--log-format")
			if err != nil {
				return nil, nil, err
			}
			opts.LogFormat = v
			i += 2
		case strings.HasPrefix(arg, "--log-format="):
			opts.LogFormat = strings.TrimPrefix(arg, "--log-format=")
			i++
		case arg == "-j" || arg == "--jobs":
			v, err := value(i, arg)
			if err != nil {
				return nil, nil, err
			}
			if err := opts.setJobs(v); err != nil {
				return nil, nil, err
			}
			i += 2
		case strings.HasPrefix(arg, "--jobs="):
			if err := opts.setJobs(strings.TrimPrefix(arg, "--jobs=")); err != nil {
				return nil, nil, err
			}
			i++
		case arg == "--":
			remaining = append(remaining, args[i:]...)
			i = len(args)
		default:
			remaining = append(remaining, arg)
			i++
		}
	}

	if err := validateGlobalOptions(opts); err != nil {
		return nil, nil, err
	}

	applyVerbosityToOutput(opts)

	return opts, remaining, nil
}

func (o *GlobalOptions) setProperty(assignment string) error {
	key, value, err := property.ParseAssignment(assignment)
	if err != nil {
		return fmt.Errorf("%w\n  example: toolpin -P %s=21 run", err, property.MainToolchain)
	}
	o.Properties[key] = value
	return nil
}

func (o *GlobalOptions) setJobs(s string) error {
	n, err := strconv.Atoi(s)
	if err != nil || n < 1 {
		return fmt.Errorf("invalid --jobs value %q: must be a positive integer", s)
	}
	o.Jobs = n
	return nil
}

// validateGlobalOptions checks that global options are valid.
func validateGlobalOptions(opts *GlobalOptions) error {
	if opts.Quiet && opts.Verbose {
		return fmt.Errorf("--quiet and --verbose are mutually exclusive")
	}
	switch opts.LogFormat {
	case "text", "json":
	default:
		return fmt.Errorf("invalid --log-format value %q\n  valid values: text, json", opts.LogFormat)
	}
	return nil
}

func printUsage() {
	w := out

	w.HelpTitle("toolpin - toolchain resolution for JVM builds")

	w.HelpSection("Usage:")
	w.HelpUsage("toolpin [flags] <command> [args]")

	w.HelpSection("Commands:")
	w.HelpCommand("resolve", "Show the effective main and test toolchains", widthCommand)
	w.HelpCommand("plan", "Show the toolchain bound to each task", widthCommand)
	w.HelpCommand("run [task...]", "Run tasks and report the toolchains used", widthCommand)
	w.HelpCommand("toolchains", "List installed toolchains", widthCommand)
	w.HelpCommand("config validate", "Validate project configuration", widthCommand)
	w.HelpCommand("version", "Show version information", widthCommand)

	printGlobalFlags(w)

	w.HelpSection("Examples:")
	w.HelpExample("toolpin resolve", "Show which versions will be used")
	w.HelpExample("toolpin -P mainToolchain=21 plan", "Preview bindings with a main override")
	w.HelpExample("toolpin -PtestToolchain=22 run test", "Run tests on a newer toolchain")
	w.Println("")
}

func printGlobalFlags(w *output.Writer) {
	w.HelpSection("Global Flags:")
	w.HelpFlag("-P <key>=<value>", "Set a property (mainToolchain, testToolchain, toolchainVendor)", widthFlagWithValue)
	w.HelpFlag("-C <dir>", "Run as if started in <dir>", widthFlagWithValue)
	w.HelpFlag("-j, --jobs <n>", "Maximum parallel tasks", widthFlagWithValue)
	w.HelpFlag("-q, --quiet", "Minimal output (errors only)", widthFlagWithValue)
	w.HelpFlag("-v, --verbose", "Maximum detail", widthFlagWithValue)
	w.HelpFlag("--log-format=<fmt>", "Diagnostic log format (text, json)", widthFlagWithValue)
	w.HelpFlag("-h, --help", "Show this help", widthFlagWithValue)
	w.HelpFlag("--version", "Show version", widthFlagWithValue)

	w.HelpSection("Environment:")
	w.HelpEnvVar(property.DefaultEnvPrefix+property.EnvName(property.MainToolchain), "Main toolchain version", widthEnvVar)
	w.HelpEnvVar(property.DefaultEnvPrefix+property.EnvName(property.TestToolchain), "Test toolchain version", widthEnvVar)
	w.HelpEnvVar(property.DefaultEnvPrefix+property.EnvName(property.ToolchainVendor), "Toolchain vendor constraint", widthEnvVar)
	w.HelpEnvVar("TOOLPIN_INSTALLATIONS", "Extra installation directories (path list)", widthEnvVar)
}
