package main

import (
	"os"

	flag "github.com/spf13/pflag"
)

// commonFlags holds flags shared across commands.
type commonFlags struct {
	config    string
	envFile   string
	quiet     bool
	verbose   bool
	logFormat string
}

// settingsFlags holds email-safe conversion settings.
type settingsFlags struct {
	textColor      string
	imageWidth     int
	minFontSize    float64
	baseFontSize   float64
	fontFamily     string
	disableWrapper bool
}

// documentFlags holds document shell flags.
type documentFlags struct {
	enabled   bool
	disabled  bool
	title     string
	preheader string
	lang      string
}

// assetFlags holds asset-related flags (styles, templates, images).
type assetFlags struct {
	style         string
	template      string
	assetPath     string
	maxImageBytes int64
}

// signatureFlags holds signature block flags.
type signatureFlags struct {
	disabled bool
}

// sourceFlags holds flags for reading and converting a source.
type sourceFlags struct {
	charset   string
	timeout   string
	settings  settingsFlags
	document  documentFlags
	assets    assetFlags
	signature signatureFlags
}

// pdfFlags holds PDF proof flags.
type pdfFlags struct {
	enabled     bool
	size        string
	orientation string
	margin      float64
}

// deliveryFlags holds send command flags.
type deliveryFlags struct {
	to      string
	subject string
	from    string
	replyTo string
	tag     string
	mode    string
	workers int
	devDir  string
	dryRun  bool
}

// convertFlags holds all flags for the convert command.
type convertFlags struct {
	common  commonFlags
	output  string
	workers int
	source  sourceFlags
	pdf     pdfFlags
}

// checkFlags holds all flags for the check command.
type checkFlags struct {
	common   commonFlags
	charset  string
	settings settingsFlags
	convert  bool
	strict   bool
	json     bool
}

// sendFlags holds all flags for the send command.
type sendFlags struct {
	common   commonFlags
	source   sourceFlags
	delivery deliveryFlags
}

// addCommonFlags adds common flags to a FlagSet.
func addCommonFlags(fs *flag.FlagSet, f *commonFlags) {
	fs.StringVarP(&f.config, "config", "c", "", "config file name or path")
	fs.StringVar(&f.envFile, "env-file", "", "load environment variables from file (default .env if present)")
	fs.BoolVarP(&f.quiet, "quiet", "q", false, "only show errors")
	fs.BoolVarP(&f.verbose, "verbose", "v", false, "show detailed log")
	fs.StringVar(&f.logFormat, "log-format", "", "verbose log format: text, json")
}

// addSettingsFlags adds conversion settings flags to a FlagSet.
func addSettingsFlags(fs *flag.FlagSet, f *settingsFlags) {
	fs.StringVar(&f.textColor, "text-color", "", "default text color (#rgb or #rrggbb)")
	fs.IntVar(&f.imageWidth, "image-width", 0, "cell width for floated images without a width (px)")
	fs.Float64Var(&f.minFontSize, "min-font-size", 0, "font-size floor (px)")
	fs.Float64Var(&f.baseFontSize, "base-font-size", 0, "base font size (px)")
	fs.StringVar(&f.fontFamily, "font-family", "", "wrapper font stack")
	fs.BoolVar(&f.disableWrapper, "no-wrapper", false, "skip the outer presentation table")
}

// addDocumentFlags adds document shell flags to a FlagSet.
func addDocumentFlags(fs *flag.FlagSet, f *documentFlags) {
	fs.BoolVar(&f.enabled, "document", false, "wrap the result in a full email document")
	fs.BoolVar(&f.disabled, "no-document", false, "output the bare fragment")
	fs.StringVar(&f.title, "title", "", "document title (\"\" = auto from first heading)")
	fs.StringVar(&f.preheader, "preheader", "", "hidden inbox preview text")
	fs.StringVar(&f.lang, "lang", "", "document language (BCP 47)")
}

// addAssetFlags adds asset-related flags to a FlagSet.
func addAssetFlags(fs *flag.FlagSet, f *assetFlags) {
	fs.StringVar(&f.style, "style", "", "document stylesheet name")
	fs.StringVar(&f.template, "template", "", "template set name")
	fs.StringVar(&f.assetPath, "asset-path", "", "custom asset directory")
	fs.Int64Var(&f.maxImageBytes, "max-image-bytes", 0, "size cap for one inlined image")
}

// addSignatureFlags adds signature block flags to a FlagSet.
func addSignatureFlags(fs *flag.FlagSet, f *signatureFlags) {
	fs.BoolVar(&f.disabled, "no-signature", false, "disable signature block")
}

// addSourceFlags adds every flag that shapes the conversion of a source.
func addSourceFlags(fs *flag.FlagSet, f *sourceFlags) {
	fs.StringVar(&f.charset, "charset", "", "source encoding (default: sniff, then UTF-8)")
	fs.StringVarP(&f.timeout, "timeout", "t", "", "PDF proof timeout (e.g., 30s, 2m)")
	addSettingsFlags(fs, &f.settings)
	addDocumentFlags(fs, &f.document)
	addAssetFlags(fs, &f.assets)
	addSignatureFlags(fs, &f.signature)
}

// addPDFFlags adds PDF proof flags to a FlagSet.
func addPDFFlags(fs *flag.FlagSet, f *pdfFlags) {
	fs.BoolVar(&f.enabled, "pdf", false, "also render a PDF proof")
	fs.StringVarP(&f.size, "page-size", "p", "", "proof page size: letter, a4, legal")
	fs.StringVar(&f.orientation, "orientation", "", "proof orientation: portrait, landscape")
	fs.Float64Var(&f.margin, "margin", 0, "proof margin in inches (0.25-3.0)")
}

// addDeliveryFlags adds send flags to a FlagSet.
func addDeliveryFlags(fs *flag.FlagSet, f *deliveryFlags) {
	fs.StringVar(&f.to, "to", "", "recipients file (.csv, .txt or .yaml)")
	fs.StringVarP(&f.subject, "subject", "s", "", "subject line (\"\" = document title)")
	fs.StringVar(&f.from, "from", "", "sender address")
	fs.StringVar(&f.replyTo, "reply-to", "", "reply-to address")
	fs.StringVar(&f.tag, "tag", "", "message tag for tracking")
	fs.StringVar(&f.mode, "mode", "", "delivery mode: batch, individual")
	fs.IntVar(&f.workers, "send-workers", 0, "parallel sends in individual mode (0 = auto)")
	fs.StringVar(&f.devDir, "dev-dir", "", "write messages to this directory instead of sending")
	fs.BoolVar(&f.dryRun, "dry-run", false, "convert and list recipients without sending")
}

// buildConvertFlagSet registers every convert flag on a new FlagSet.
func buildConvertFlagSet(f *convertFlags) *flag.FlagSet {
	fs := flag.NewFlagSet("convert", flag.ContinueOnError)
	fs.StringVarP(&f.output, "output", "o", "", "output file or directory")
	fs.IntVarP(&f.workers, "workers", "w", 0, "parallel workers (0 = auto)")
	addCommonFlags(fs, &f.common)
	addSourceFlags(fs, &f.source)
	addPDFFlags(fs, &f.pdf)
	return fs
}

// buildCheckFlagSet registers every check flag on a new FlagSet.
func buildCheckFlagSet(f *checkFlags) *flag.FlagSet {
	fs := flag.NewFlagSet("check", flag.ContinueOnError)
	addCommonFlags(fs, &f.common)
	fs.StringVar(&f.charset, "charset", "", "source encoding (default: sniff, then UTF-8)")
	addSettingsFlags(fs, &f.settings)
	fs.BoolVar(&f.convert, "convert", false, "lint the converted result instead of the source")
	fs.BoolVar(&f.strict, "strict", false, "fail on warnings too")
	fs.BoolVar(&f.json, "json", false, "print issues as JSON")
	return fs
}

// buildSendFlagSet registers every send flag on a new FlagSet.
func buildSendFlagSet(f *sendFlags) *flag.FlagSet {
	fs := flag.NewFlagSet("send", flag.ContinueOnError)
	addCommonFlags(fs, &f.common)
	addSourceFlags(fs, &f.source)
	addDeliveryFlags(fs, &f.delivery)
	return fs
}

// parseConvertFlags parses convert command flags and returns positional args.
func parseConvertFlags(args []string) (*convertFlags, []string, error) {
	f := &convertFlags{}
	fs := buildConvertFlagSet(f)
	fs.Usage = func() { printConvertUsage(os.Stderr) }
	if err := fs.Parse(args); err != nil {
		return nil, nil, err
	}
	return f, fs.Args(), nil
}

// parseCheckFlags parses check command flags and returns positional args.
func parseCheckFlags(args []string) (*checkFlags, []string, error) {
	f := &checkFlags{}
	fs := buildCheckFlagSet(f)
	fs.Usage = func() { printCheckUsage(os.Stderr) }
	if err := fs.Parse(args); err != nil {
		return nil, nil, err
	}
	return f, fs.Args(), nil
}

// parseSendFlags parses send command flags and returns positional args.
func parseSendFlags(args []string) (*sendFlags, []string, error) {
	f := &sendFlags{}
	fs := buildSendFlagSet(f)
	fs.Usage = func() { printSendUsage(os.Stderr) }
	if err := fs.Parse(args); err != nil {
		return nil, nil, err
	}
	return f, fs.Args(), nil
}
