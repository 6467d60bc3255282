// Package interpolation expands environment variable references inside
// configuration strings, so script and asset paths can vary by machine
// without editing the config file.
package interpolation

import (
	"errors"
	"fmt"
	"os"
	"regexp"
)

// Pattern for ${VAR_NAME} and ${VAR_NAME:default} syntax - captures colon explicitly
var envVarPattern = regexp.MustCompile(`\$\{([A-Za-z_][A-Za-z0-9_]*)(:)?([^}]*)\}`)

// ExpandEnvVars expands environment variables in the format:
//
//	${VAR_NAME:default_value}
//
// If the environment variable is not set, it uses the default value if
// provided. If no default is provided and the variable is missing, it
// returns an error (joined, when several variables are missing).
func ExpandEnvVars(input string) (string, error) {
	if input == "" {
		return "", nil
	}

	var missingVars []error
	result := envVarPattern.ReplaceAllStringFunc(input, func(match string) string {
		submatches := envVarPattern.FindStringSubmatch(match)
		// submatches: [full_match, varName, colon, defaultValue]
		varName := submatches[1]
		colonIsPresent := submatches[2] == ":"
		defaultValue := submatches[3]

		if value, exists := os.LookupEnv(varName); exists {
			return value
		}

		// ${VAR:} is a valid empty default.
		if colonIsPresent {
			return defaultValue
		}

		missingVars = append(
			missingVars,
			fmt.Errorf("environment variable not defined: %s", varName),
		)
		return match
	})

	return result, errors.Join(missingVars...)
}
