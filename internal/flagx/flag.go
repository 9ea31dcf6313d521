// Package flagx lets several configuration layers share os.Args without
// tripping over each other's flags.
package flagx

import (
	"flag"
	"io"
	"strings"
)

// FilterArgs returns the subset of args made of allowedFlags and their values.
//
// Supported formats:
//  1. Flag and value as separate arguments:  -c conf.json
//  2. Flag and value combined with '=':      -config=conf.json
//
// A value is only taken from the next argument when it does not itself start
// with '-'.
func FilterArgs(args []string, allowedFlags []string) []string {
	allowed := make(map[string]struct{}, len(allowedFlags))
	for _, f := range allowedFlags {
		allowed[f] = struct{}{}
	}

	filtered := make([]string, 0, len(args))

	for i := 0; i < len(args); i++ {
		arg := args[i]

		if strings.HasPrefix(arg, "-") && strings.Contains(arg, "=") {
			name := strings.SplitN(arg, "=", 2)[0]
			if _, ok := allowed[name]; ok {
				filtered = append(filtered, arg)
			}
			continue
		}

		if _, ok := allowed[arg]; ok {
			filtered = append(filtered, arg)
			if i+1 < len(args) && !strings.HasPrefix(args[i+1], "-") {
				filtered = append(filtered, args[i+1])
				i++
			}
		}
	}

	return filtered
}

// JSONConfigPath extracts the config file path given via -c or -config.
// Other arguments are ignored. Returns "" when neither flag is present.
func JSONConfigPath(args []string) string {
	return lookupString(args, "config", "c", "Path to JSON config file")
}

// EnvFilePath extracts the dotenv file path given via -env. Returns "" when absent.
func EnvFilePath(args []string) string {
	return lookupString(args, "env", "", "Path to .env file")
}

func lookupString(args []string, long, short, usage string) string {
	var v string

	names := []string{"-" + long}
	if short != "" {
		names = append(names, "-"+short)
	}

	fs := flag.NewFlagSet(long, flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	fs.StringVar(&v, long, "", usage)
	if short != "" {
		fs.StringVar(&v, short, "", usage+" (short)")
	}
	_ = fs.Parse(FilterArgs(args, names))

	return v
}
