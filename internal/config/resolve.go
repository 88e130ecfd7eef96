package config

import (
	"os"
	"strings"

	"github.com/spirit-dev/repo-ci/internal/faults"
)

// Resolve picks a value with fixed precedence: the explicit flag value when
// non-empty, then the config file value when non-empty, then the environment
// variable when set. An unset environment variable at the end of the chain is
// a hard failure naming every source consulted, never a silent default.
func Resolve(name, explicit, fileValue, envVar string) (string, error) {
	if explicit != "" {
		return explicit, nil
	}
	if fileValue != "" {
		return fileValue, nil
	}
	if v, ok := os.LookupEnv(envVar); ok && v != "" {
		return v, nil
	}
	return "", faults.Newf(faults.Configuration,
		"%s not set: pass the flag, set it in the config file, or export %s", name, envVar)
}

// ResolveEnv is Resolve for values that have no config file key.
func ResolveEnv(name, explicit, envVar string) (string, error) {
	return Resolve(name, explicit, "", envVar)
}

// ResolveBool picks a toggle with the same precedence. explicit is nil when
// neither the flag nor its --no- twin was passed; fileValue is nil when the
// config key is absent. Toggles have no environment source, so the chain ends
// at def.
func ResolveBool(explicit, fileValue *bool, def bool) bool {
	if explicit != nil {
		return *explicit
	}
	if fileValue != nil {
		return *fileValue
	}
	return def
}

// FirstEnv returns the value of the first set, non-empty environment
// variable in names, or an error naming all of them.
func FirstEnv(name string, names ...string) (string, error) {
	for _, env := range names {
		if v, ok := os.LookupEnv(env); ok && v != "" {
			return v, nil
		}
	}
	return "", faults.Newf(faults.Configuration,
		"%s not set: export one of %s", name, strings.Join(names, ", "))
}
