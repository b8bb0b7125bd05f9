package main

import (
	"fmt"
	"io"
)

// printUsage prints the main usage message.
func printUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: mailsafe <command> [flags] [args]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Commands:")
	fmt.Fprintln(w, "  convert     Convert HTML or Markdown to email-safe HTML")
	fmt.Fprintln(w, "  check       Report email compatibility issues")
	fmt.Fprintln(w, "  send        Convert a source and send it to a recipient list")
	fmt.Fprintln(w, "  doctor      Check system configuration")
	fmt.Fprintln(w, "  completion  Generate shell completion script")
	fmt.Fprintln(w, "  version     Show version information")
	fmt.Fprintln(w, "  help        Show help for a command")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "A source path as first argument runs convert.")
	fmt.Fprintln(w, "Run 'mailsafe help <command>' for details on a specific command.")
}

// printCommonUsage prints flags shared by convert, check and send.
func printCommonUsage(w io.Writer) {
	fmt.Fprintln(w, "Configuration:")
	fmt.Fprintln(w, "  -c, --config <name>        Config file name or path")
	fmt.Fprintln(w, "      --env-file <path>      Environment file (default .env if present)")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Output Control:")
	fmt.Fprintln(w, "  -q, --quiet                Only show errors")
	fmt.Fprintln(w, "  -v, --verbose              Show detailed log on stderr")
	fmt.Fprintln(w, "      --log-format <s>       Verbose log format: text, json")
}

// printSettingsUsage prints the conversion settings flags.
func printSettingsUsage(w io.Writer) {
	fmt.Fprintln(w, "Conversion:")
	fmt.Fprintln(w, "      --charset <s>          Source encoding (default: sniff, then UTF-8)")
	fmt.Fprintln(w, "      --text-color <hex>     Default text color (#rgb or #rrggbb)")
	fmt.Fprintln(w, "      --image-width <px>     Cell width for floated images without a width")
	fmt.Fprintln(w, "      --min-font-size <px>   Font-size floor")
	fmt.Fprintln(w, "      --base-font-size <px>  Base font size")
	fmt.Fprintln(w, "      --font-family <s>      Wrapper font stack")
	fmt.Fprintln(w, "      --no-wrapper           Skip the outer presentation table")
}

// printSourceUsage prints the document, asset and signature flags.
func printSourceUsage(w io.Writer) {
	printSettingsUsage(w)
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Document:")
	fmt.Fprintln(w, "      --document             Wrap the result in a full email document")
	fmt.Fprintln(w, "      --no-document          Output the bare fragment")
	fmt.Fprintln(w, "      --title <s>            Document title (\"\" = auto from first heading)")
	fmt.Fprintln(w, "      --preheader <s>        Hidden inbox preview text")
	fmt.Fprintln(w, "      --lang <s>             Document language (BCP 47)")
	fmt.Fprintln(w, "      --no-signature         Disable signature block")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Assets:")
	fmt.Fprintln(w, "      --style <name>         Document stylesheet (default, dark)")
	fmt.Fprintln(w, "      --template <name>      Template set name")
	fmt.Fprintln(w, "      --asset-path <dir>     Custom styles/ and templates/ directory")
	fmt.Fprintln(w, "      --max-image-bytes <n>  Size cap for one inlined image")
}

// printConvertUsage prints usage for the convert command.
func printConvertUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: mailsafe convert <input> [flags]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Convert HTML or Markdown files to email-safe HTML (*.email.html).")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Arguments:")
	fmt.Fprintln(w, "  input    Source file or directory (optional if config has input.defaultDir)")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Input/Output:")
	fmt.Fprintln(w, "  -o, --output <path>        Output file or directory")
	fmt.Fprintln(w, "  -w, --workers <n>          Parallel workers (0 = auto)")
	fmt.Fprintln(w)
	printSourceUsage(w)
	fmt.Fprintln(w)
	fmt.Fprintln(w, "PDF Proof:")
	fmt.Fprintln(w, "      --pdf                  Also render a PDF proof")
	fmt.Fprintln(w, "  -p, --page-size <s>        Page size: letter, a4, legal")
	fmt.Fprintln(w, "      --orientation <s>      Orientation: portrait, landscape")
	fmt.Fprintln(w, "      --margin <f>           Margin in inches (0.25-3.0)")
	fmt.Fprintln(w, "  -t, --timeout <d>          Proof timeout (e.g., 30s, 2m)")
	fmt.Fprintln(w)
	printCommonUsage(w)
}

// printCheckUsage prints usage for the check command.
func printCheckUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: mailsafe check <input>... [flags]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Report constructs that email clients mishandle. Markdown sources are")
	fmt.Fprintln(w, "converted first. Exits 1 on errors, or on any issue with --strict.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Check:")
	fmt.Fprintln(w, "      --convert              Lint the converted result instead of the source")
	fmt.Fprintln(w, "      --strict               Fail on warnings too")
	fmt.Fprintln(w, "      --json                 Print issues as JSON")
	fmt.Fprintln(w)
	printSettingsUsage(w)
	fmt.Fprintln(w)
	printCommonUsage(w)
}

// printSendUsage prints usage for the send command.
func printSendUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: mailsafe send <input> --to <recipients> [flags]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Convert one source into an email document and send it through Postmark.")
	fmt.Fprintln(w, "Credentials come from MAILSAFE_POSTMARK_SERVER_TOKEN.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Delivery:")
	fmt.Fprintln(w, "      --to <path>            Recipients: email[,name] per line, or a .yaml list")
	fmt.Fprintln(w, "  -s, --subject <s>          Subject (\"\" = document title)")
	fmt.Fprintln(w, "      --from <email>         Sender address")
	fmt.Fprintln(w, "      --reply-to <email>     Reply-To address")
	fmt.Fprintln(w, "      --tag <s>              Message tag")
	fmt.Fprintln(w, "      --mode <s>             batch (50 per message) or individual")
	fmt.Fprintln(w, "      --send-workers <n>     Parallel sends in individual mode (0 = auto)")
	fmt.Fprintln(w, "      --dev-dir <dir>        Write messages to a directory instead")
	fmt.Fprintln(w, "      --dry-run              Convert and list recipients without sending")
	fmt.Fprintln(w)
	printSourceUsage(w)
	fmt.Fprintln(w)
	printCommonUsage(w)
}

// runHelp prints help for a specific command.
func runHelp(args []string, env *Environment) {
	if len(args) == 0 {
		printUsage(env.Stdout)
		return
	}

	switch args[0] {
	case "convert":
		printConvertUsage(env.Stdout)
	case "check":
		printCheckUsage(env.Stdout)
	case "send":
		printSendUsage(env.Stdout)
	case "doctor":
		fmt.Fprintln(env.Stdout, "Usage: mailsafe doctor [--json] [--env-file <path>] [--asset-path <dir>] [--style <name>] [--template <name>]")
		fmt.Fprintln(env.Stdout)
		fmt.Fprintln(env.Stdout, "Check Chrome, environment and delivery configuration.")
	case "completion":
		printCompletionUsage(env.Stdout)
	case "version":
		fmt.Fprintln(env.Stdout, "Usage: mailsafe version")
		fmt.Fprintln(env.Stdout)
		fmt.Fprintln(env.Stdout, "Show version information.")
	case "help":
		fmt.Fprintln(env.Stdout, "Usage: mailsafe help [command]")
		fmt.Fprintln(env.Stdout)
		fmt.Fprintln(env.Stdout, "Show help for a command.")
	default:
		fmt.Fprintf(env.Stderr, "Unknown command: %s\n", args[0])
		printUsage(env.Stderr)
	}
}
