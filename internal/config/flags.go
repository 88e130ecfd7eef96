package config

import "github.com/spf13/pflag"

// AddBoolPair registers name and its no- twin on fs, so a toggle can be
// forced on, forced off, or left unset for the next source in the precedence
// chain.
func AddBoolPair(fs *pflag.FlagSet, name, usage string) {
	fs.Bool(name, false, usage)
	fs.Bool("no-"+name, false, "disable --"+name)
}

// BoolPair reports the state of a toggle registered with AddBoolPair: nil
// when neither flag was passed, the forced value otherwise. The no- twin wins
// when both are present.
func BoolPair(fs *pflag.FlagSet, name string) *bool {
	if fs.Changed("no-" + name) {
		v := false
		return &v
	}
	if fs.Changed(name) {
		v, _ := fs.GetBool(name)
		return &v
	}
	return nil
}
