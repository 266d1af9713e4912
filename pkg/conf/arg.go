// Copyright (c) 2017 Intel Corporation
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package conf

import (
	"strconv"
	"strings"

	"github.com/pkg/errors"
	"gopkg.in/alecthomas/kingpin.v2"
)

// definedArgs keeps positional arguments in definition order.
var definedArgs []*FloatArg

// FloatArg represents required positional argument with float value.
// Positional arguments are not read from environment; they are validated by ValidateArgs
// so that environment-only parsing (ParseEnv) does not fail on them.
type FloatArg struct {
	*kingpin.ArgClause
	name  string
	value *string
}

// NewFloatArg registers next positional argument.
func NewFloatArg(argName string, description string) *FloatArg {
	for _, arg := range definedArgs {
		if arg.name == argName {
			return arg
		}
	}

	arg := &FloatArg{
		ArgClause: app.Arg(argName, description),
		name:      argName,
	}
	arg.value = arg.String()
	definedArgs = append(definedArgs, arg)
	return arg
}

// Name returns name of the argument.
func (a FloatArg) Name() string {
	return a.name
}

// Value returns parsed value of the argument or error when it was not given or is not a number.
func (a FloatArg) Value() (float64, error) {
	if !isEnvParsed || *a.value == "" {
		return 0, errors.Errorf("required argument %q not provided", a.name)
	}

	value, err := strconv.ParseFloat(*a.value, 64)
	if err != nil {
		return 0, errors.Wrapf(err, "argument %q must be a number, got %q", a.name, *a.value)
	}
	return value, nil
}

// resetArgs clears values of the previous parse; kingpin keeps them for absent arguments.
func resetArgs() {
	for _, arg := range definedArgs {
		*arg.value = ""
	}
}

// ValidateArgs checks that every registered positional argument was provided and is a number.
func ValidateArgs() error {
	for _, arg := range definedArgs {
		if _, err := arg.Value(); err != nil {
			return err
		}
	}
	return nil
}

// separateNegativeArgs moves positional arguments behind "--" when any of them is a negative
// number, which kingpin would otherwise read as an unknown short flag.
// Arguments are returned unchanged when there is no such number.
func separateNegativeArgs(args []string) []string {
	var (
		flags      []string
		positional []string
		negative   bool
	)
	for i := 0; i < len(args); i++ {
		arg := args[i]
		switch {
		case arg == "--":
			positional = append(positional, args[i+1:]...)
			i = len(args)
		case isNegativeNumber(arg):
			negative = true
			positional = append(positional, arg)
		case strings.HasPrefix(arg, "-"):
			flags = append(flags, arg)
			if takesValue(arg) && i+1 < len(args) {
				i++
				flags = append(flags, args[i])
			}
		default:
			positional = append(positional, arg)
		}
	}

	if !negative {
		return args
	}
	return append(append(flags, "--"), positional...)
}

func isNegativeNumber(arg string) bool {
	if !strings.HasPrefix(arg, "-") {
		return false
	}
	_, err := strconv.ParseFloat(arg, 64)
	return err == nil
}

// takesValue tells whether long flag given without "=" consumes the next argument.
func takesValue(arg string) bool {
	if !strings.HasPrefix(arg, "--") || strings.Contains(arg, "=") {
		return false
	}
	flag := app.GetFlag(arg[2:])
	if flag == nil {
		return false
	}
	return !flag.Model().IsBoolFlag()
}
