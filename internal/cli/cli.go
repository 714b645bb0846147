// Package cli parses torat's command-line tokens and runs the selected
// action. Tokens are read left to right; every flag consumes exactly one
// following token and unrecognized tokens are ignored.
package cli

// HelpText is printed for `help` and `-h`.
const HelpText = `
torat - routing number analysis tool

Commands/Flags:
help    Display this help message.
-h      Display this help message.
-f      Change the output file.
-i      Change the input file.
-s      Change the state that we are filtering by.
-d      Change the database file we are referencing.
-l      Single lookup mode.

Examples:
torat -h
torat -f out.txt -i target.txt
torat -s NH -d data.csv
torat -d data.csv -l #########

Default input file: target.txt.
Default output file: out.txt.
Default state: ME.
Default database file: data.csv.
Defaults can be changed in torat.yaml or with TORAT_OUTPUT, TORAT_INPUT,
TORAT_STATE and TORAT_DATABASE.`

// Action is what an invocation asks torat to do.
type Action int

const (
	// ActionFilter cross-references the input file against the database.
	ActionFilter Action = iota
	// ActionHelp prints HelpText.
	ActionHelp
	// ActionLookup prints a single database record.
	ActionLookup
)

func (a Action) String() string {
	switch a {
	case ActionFilter:
		return "filter"
	case ActionHelp:
		return "help"
	case ActionLookup:
		return "lookup"
	default:
		return "unknown"
	}
}

// Settings are the file paths and target state a run works with.
type Settings struct {
	Output   string
	Input    string
	State    string
	Database string
}

// Invocation is the result of parsing the command line.
type Invocation struct {
	Action Action
	Settings

	// Number is the routing number for ActionLookup.
	Number string
}

// UsageError reports a flag given without its argument.
type UsageError struct {
	Flag    string
	Message string
}

func (e *UsageError) Error() string {
	return e.Message
}

// missingArg holds the message printed when a flag is the last token.
var missingArg = map[string]string{
	"-f": "Please supply path of output file after -f flag.",
	"-i": "Please supply path of input file after -i flag.",
	"-s": "Please supply the state to filter by after the -s flag.",
	"-d": "Please supply path of database file after -d flag.",
	"-l": "Please supply the routing number to look up after the -l flag.",
}

// Parse reads args (without the program name) on top of defaults.
//
// `help`, `-h` and `-l <number>` end parsing immediately, so later tokens
// are never looked at. A lookup uses whatever database was set by the
// tokens before it.
func Parse(args []string, defaults Settings) (Invocation, error) {
	inv := Invocation{Action: ActionFilter, Settings: defaults}

	for i := 0; i < len(args); i++ {
		tok := args[i]
		switch tok {
		case "help", "-h":
			inv.Action = ActionHelp
			return inv, nil
		case "-f", "-i", "-s", "-d", "-l":
		default:
			continue
		}

		if i+1 >= len(args) {
			return Invocation{}, &UsageError{Flag: tok, Message: missingArg[tok]}
		}
		i++
		val := args[i]

		switch tok {
		case "-f":
			inv.Output = val
		case "-i":
			inv.Input = val
		case "-s":
			inv.State = val
		case "-d":
			inv.Database = val
		case "-l":
			inv.Action = ActionLookup
			inv.Number = val
			return inv, nil
		}
	}

	return inv, nil
}
