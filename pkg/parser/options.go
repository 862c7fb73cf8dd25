package parser

import (
	"strings"

	"github.com/maestrohq/maestro/pkg/command"
)

// SplitOptions separates tokens into positional arguments and an option
// map. Long options accept --key=value or --key value; short options accept
// -k value. An option with no value is a boolean presence flag. Each token
// is consumed exactly once, left to right.
func SplitOptions(tokens []string) ([]string, map[string]command.OptionValue) {
	args := make([]string, 0, len(tokens))
	opts := make(map[string]command.OptionValue)

	for i := 0; i < len(tokens); i++ {
		token := tokens[i]
		switch {
		case strings.HasPrefix(token, "--"):
			key := token[2:]
			if eq := strings.Index(key, "="); eq >= 0 {
				// Values may themselves contain '='.
				name, value := key[:eq], key[eq+1:]
				if name != "" {
					opts[name] = command.StringOption(value)
				}
				continue
			}
			if key == "" {
				// Bare "--" carries no key; skip without consuming a value.
				continue
			}
			if i+1 < len(tokens) && !strings.HasPrefix(tokens[i+1], "-") {
				opts[key] = command.StringOption(tokens[i+1])
				i++
			} else {
				opts[key] = command.BoolOption(true)
			}
		case strings.HasPrefix(token, "-") && len(token) > 1:
			key := token[1:]
			if i+1 < len(tokens) && !strings.HasPrefix(tokens[i+1], "-") {
				opts[key] = command.StringOption(tokens[i+1])
				i++
			} else {
				opts[key] = command.BoolOption(true)
			}
		default:
			// A bare "-" falls through here and stays positional.
			args = append(args, token)
		}
	}

	return args, opts
}
