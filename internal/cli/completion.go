package cli

import (
	"fmt"
	"io"
	"strings"
)

// FlagCompletion describes a CLI flag for shell completion generation.
// All shell completion functions generate from this registry, so adding
// a new flag only requires appending to flagRegistry.
type FlagCompletion struct {
	Long      string   // long flag name without "--" (e.g., "help")
	Short     string   // short flag without "-" (e.g., "h")
	Help      string   // description text
	Values    []string // suggested completion values (nil = boolean/no suggestions)
	ValueName string   // label for the value in zsh (e.g., "number", "duration")
}

// flagRegistry is the central list of all CLI flags for completion generation.
var flagRegistry = []FlagCompletion{
	{Long: "help", Short: "h", Help: "Show help message"},
	{Long: "version", Short: "V", Help: "Show version information"},
	{Long: "initial", Help: "Initial counter value", ValueName: "number"},
	{Long: "workers", Help: "Delta workers (name:+DxN,...)", ValueName: "spec"},
	{Long: "producers", Help: "Producers (queue=op:inputs;...)", ValueName: "spec"},
	{Long: "delay", Help: "Pause before each step", Values: []string{"0s", "10ms", "200ms", "1s"}, ValueName: "duration"},
	{Long: "timeout", Help: "Maximum execution time", Values: []string{"10s", "1m", "5m"}, ValueName: "duration"},
	{Long: "verbose", Short: "v", Help: "Log every worker step"},
	{Long: "quiet", Short: "q", Help: "Quiet mode for scripts"},
	{Long: "metrics-addr", Help: "Prometheus listen address", Values: []string{":9090", "127.0.0.1:9090"}, ValueName: "address"},
	{Long: "no-color", Help: "Disable colored output"},
	{Long: "completion", Help: "Generate completion script", Values: []string{"bash", "zsh", "fish"}, ValueName: "shell"},
}

// GenerateCompletion writes a completion script for shell. modes are the
// positional run modes offered as the first argument.
func GenerateCompletion(out io.Writer, shell string, modes []string) error {
	switch shell {
	case "bash":
		return generateBashCompletion(out, modes)
	case "zsh":
		return generateZshCompletion(out, modes)
	case "fish":
		return generateFishCompletion(out, modes)
	default:
		return fmt.Errorf("unsupported shell: %s (accepted values: bash, zsh, fish)", shell)
	}
}

func generateBashCompletion(out io.Writer, modes []string) error {
	var opts []string
	var cases strings.Builder
	for _, f := range flagRegistry {
		if f.Long != "" {
			opts = append(opts, "--"+f.Long)
		}
		if f.Short != "" {
			opts = append(opts, "-"+f.Short)
		}
		if len(f.Values) > 0 {
			fmt.Fprintf(&cases, "        --%s)\n            COMPREPLY=( $(compgen -W \"%s\" -- \"${cur}\") )\n            return 0\n            ;;\n",
				f.Long, strings.Join(f.Values, " "))
		}
	}

	script := fmt.Sprintf(`# Bash completion script for workerlab
# Add this to your ~/.bashrc or ~/.bash_completion

_workerlab_completions() {
    local cur prev opts modes
    COMPREPLY=()
    cur="${COMP_WORDS[COMP_CWORD]}"
    prev="${COMP_WORDS[COMP_CWORD-1]}"

    opts="%s"
    modes="%s"

    case "${prev}" in
%s    esac

    if [[ "${cur}" == -* ]]; then
        COMPREPLY=( $(compgen -W "${opts}" -- "${cur}") )
        return 0
    fi
    if [[ ${COMP_CWORD} -eq 1 ]]; then
        COMPREPLY=( $(compgen -W "${modes}" -- "${cur}") )
    fi
}

complete -F _workerlab_completions workerlab
`, strings.Join(opts, " "), strings.Join(modes, " "), cases.String())

	if _, err := fmt.Fprint(out, script); err != nil {
		return fmt.Errorf("completion bash generation failed: %w", err)
	}
	return nil
}

func generateZshCompletion(out io.Writer, modes []string) error {
	args := make([]string, 0, len(flagRegistry)+1)
	args = append(args, fmt.Sprintf("        '1:mode:(%s)'", strings.Join(modes, " ")))
	for _, f := range flagRegistry {
		args = append(args, zshArgEntry(f))
	}

	script := fmt.Sprintf(`#compdef workerlab

# Zsh completion script for workerlab
# Add this to your ~/.zshrc or place in $fpath

_workerlab() {
    _arguments -s \
%s
}

_workerlab "$@"
`, strings.Join(args, " \\\n"))

	if _, err := fmt.Fprint(out, script); err != nil {
		return fmt.Errorf("completion zsh generation failed: %w", err)
	}
	return nil
}

// zshArgEntry formats a single FlagCompletion as a zsh _arguments entry.
func zshArgEntry(f FlagCompletion) string {
	valueSuffix := ""
	if len(f.Values) > 0 {
		valueSuffix = fmt.Sprintf(":%s:(%s)", f.ValueName, strings.Join(f.Values, " "))
	} else if f.ValueName != "" {
		valueSuffix = fmt.Sprintf(":%s:", f.ValueName)
	}

	if f.Long != "" && f.Short != "" {
		return fmt.Sprintf("        '(-%s --%s)'{-%s,--%s}'[%s]%s'",
			f.Short, f.Long, f.Short, f.Long, f.Help, valueSuffix)
	}
	return fmt.Sprintf("        '--%s[%s]%s'", f.Long, f.Help, valueSuffix)
}

func generateFishCompletion(out io.Writer, modes []string) error {
	lines := []string{
		"# Fish completion script for workerlab",
		"# Add this to ~/.config/fish/completions/workerlab.fish",
		"",
		"# Disable file completion by default",
		"complete -c workerlab -f",
		"",
		"# Modes",
		fmt.Sprintf("complete -c workerlab -n '__fish_use_subcommand' -a '%s'", strings.Join(modes, " ")),
		"",
		"# Options",
	}
	for _, f := range flagRegistry {
		lines = append(lines, fishCompleteLine(f))
	}
	lines = append(lines, "")

	if _, err := fmt.Fprint(out, strings.Join(lines, "\n")); err != nil {
		return fmt.Errorf("completion fish generation failed: %w", err)
	}
	return nil
}

// fishCompleteLine formats a single FlagCompletion as a fish complete command.
func fishCompleteLine(f FlagCompletion) string {
	parts := []string{"complete -c workerlab"}
	if f.Short != "" {
		parts = append(parts, "-s "+f.Short)
	}
	if f.Long != "" {
		parts = append(parts, "-l "+f.Long)
	}
	parts = append(parts, fmt.Sprintf("-d '%s'", f.Help))

	if len(f.Values) > 0 {
		parts = append(parts, fmt.Sprintf("-xa '%s'", strings.Join(f.Values, " ")))
	} else if f.ValueName != "" {
		parts = append(parts, "-x")
	}
	return strings.Join(parts, " ")
}
