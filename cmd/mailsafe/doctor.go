package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/go-rod/rod/lib/launcher"
	flag "github.com/spf13/pflag"

	"github.com/alnah/go-mailsafe/internal/assets"
)

// doctorResult holds all diagnostic information.
type doctorResult struct {
	Status   string       `json:"status"` // "ready", "warnings", "errors"
	Chrome   chromeInfo   `json:"chrome"`
	Env      envInfo      `json:"environment"`
	System   systemInfo   `json:"system"`
	Delivery deliveryInfo `json:"delivery"`
	Assets   assetsInfo   `json:"assets"`
	Warnings []string     `json:"warnings,omitempty"`
	Errors   []string     `json:"errors,omitempty"`
}

// chromeInfo holds Chrome/Chromium detection results.
type chromeInfo struct {
	Found   bool   `json:"found"`
	Path    string `json:"path,omitempty"`
	Version string `json:"version,omitempty"`
	Sandbox bool   `json:"sandbox"`
}

// envInfo holds environment detection results.
type envInfo struct {
	OS            string `json:"os"`
	Arch          string `json:"arch"`
	Container     bool   `json:"container"`
	ContainerHint string `json:"container_hint,omitempty"`
	CI            bool   `json:"ci"`
	NoSandbox     string `json:"rod_no_sandbox"`
	BrowserBin    string `json:"rod_browser_bin"`
}

// systemInfo holds system check results.
type systemInfo struct {
	TempWritable bool     `json:"temp_writable"`
	Styles       []string `json:"styles"`
}

// deliveryInfo reports whether sending is configured. Tokens are never printed.
type deliveryInfo struct {
	ServerToken bool   `json:"server_token"`
	From        string `json:"from,omitempty"`
	DevDir      string `json:"dev_dir,omitempty"`
}

// assetsInfo reports where the active style and template set come from.
type assetsInfo struct {
	AssetPath      string `json:"asset_path,omitempty"`
	Custom         bool   `json:"custom"`
	Style          string `json:"style"`
	StyleSource    string `json:"style_source,omitempty"`
	Template       string `json:"template"`
	TemplateSource string `json:"template_source,omitempty"`
}

// doctorFlags holds the doctor command flags.
type doctorFlags struct {
	json      bool
	envFile   string
	assetPath string
	style     string
	template  string
}

func buildDoctorFlagSet(f *doctorFlags) *flag.FlagSet {
	fs := flag.NewFlagSet("doctor", flag.ContinueOnError)
	fs.BoolVar(&f.json, "json", false, "print results as JSON")
	fs.StringVar(&f.envFile, "env-file", "", "load environment variables from file")
	fs.StringVar(&f.assetPath, "asset-path", "", "custom asset directory to check")
	fs.StringVar(&f.style, "style", "", "style to check (default: MAILSAFE_STYLE or default)")
	fs.StringVar(&f.template, "template", "", "template set to check (default: MAILSAFE_TEMPLATE or default)")
	return fs
}

// runDoctorCmd executes the doctor command and returns an exit code.
// Exit codes: 0 = OK (including warnings), 1 = errors found.
func runDoctorCmd(args []string, env *Environment) int {
	f := &doctorFlags{}
	fs := buildDoctorFlagSet(f)
	fs.SetOutput(env.Stderr)
	if err := fs.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return ExitSuccess
		}
		return ExitUsage
	}

	result := runDoctor(f)

	if f.json {
		enc := json.NewEncoder(env.Stdout)
		enc.SetIndent("", "  ")
		_ = enc.Encode(result)
	} else {
		printDoctorResult(env.Stdout, result)
	}

	if result.Status == "errors" {
		return ExitGeneral
	}
	return ExitSuccess
}

// runDoctor performs all diagnostic checks.
func runDoctor(f *doctorFlags) *doctorResult {
	result := &doctorResult{
		Status: "ready",
		Env: envInfo{
			OS:         runtime.GOOS,
			Arch:       runtime.GOARCH,
			NoSandbox:  os.Getenv("ROD_NO_SANDBOX"),
			BrowserBin: os.Getenv("ROD_BROWSER_BIN"),
		},
	}

	checkChrome(result)
	checkEnvironment(result)
	checkSystem(result)
	checkDelivery(result, f.envFile)
	checkAssets(result, f)

	if len(result.Errors) > 0 {
		result.Status = "errors"
	} else if len(result.Warnings) > 0 {
		result.Status = "warnings"
	}

	return result
}

// checkChrome detects Chrome/Chromium. Only PDF proofs need it, so a
// missing browser is a warning.
func checkChrome(result *doctorResult) {
	chromePath := result.Env.BrowserBin

	if chromePath == "" {
		var found bool
		chromePath, found = launcher.LookPath()
		if !found {
			result.Warnings = append(result.Warnings,
				"Chrome/Chromium not found: PDF proofs will download Chromium on first use or set ROD_BROWSER_BIN")
			return
		}
	}

	if _, err := os.Stat(chromePath); err != nil {
		result.Errors = append(result.Errors,
			fmt.Sprintf("Chrome not found at %s", chromePath))
		return
	}

	result.Chrome.Found = true
	result.Chrome.Path = chromePath

	cmd := exec.Command(chromePath, "--version") // #nosec G204 -- path from launcher or ROD_BROWSER_BIN
	out, err := cmd.Output()
	if err == nil {
		result.Chrome.Version = strings.TrimSpace(string(out))
	} else {
		result.Warnings = append(result.Warnings,
			fmt.Sprintf("Could not get Chrome version: %v", err))
	}

	result.Chrome.Sandbox = result.Env.NoSandbox != "1"
}

// checkEnvironment detects container and CI environments.
func checkEnvironment(result *doctorResult) {
	result.Env.Container, result.Env.ContainerHint = isContainer()

	ciVars := []string{"CI", "GITHUB_ACTIONS", "GITLAB_CI", "JENKINS_URL", "CIRCLECI"}
	for _, v := range ciVars {
		if os.Getenv(v) != "" {
			result.Env.CI = true
			break
		}
	}

	if (result.Env.Container || result.Env.CI) && result.Env.NoSandbox != "1" {
		result.Warnings = append(result.Warnings,
			"Container/CI detected but ROD_NO_SANDBOX not set. Set ROD_NO_SANDBOX=1 for PDF proofs")
	}
}

// isContainer detects if running in a container environment.
// Returns (isContainer, hint) where hint indicates which signal was detected.
func isContainer() (bool, string) {
	if os.Getenv("MAILSAFE_CONTAINER") == "1" {
		return true, "MAILSAFE_CONTAINER=1"
	}
	if _, err := os.Stat("/.dockerenv"); err == nil {
		return true, "/.dockerenv"
	}
	if v := os.Getenv("container"); v != "" {
		return true, "container=" + v
	}
	if os.Getenv("KUBERNETES_SERVICE_HOST") != "" {
		return true, "KUBERNETES_SERVICE_HOST"
	}
	return false, ""
}

// checkSystem verifies system requirements.
func checkSystem(result *doctorResult) {
	tmpDir := os.TempDir()
	testFile := filepath.Join(tmpDir, "mailsafe-doctor-test")
	if err := os.WriteFile(testFile, []byte("test"), 0o600); err != nil {
		result.Errors = append(result.Errors,
			fmt.Sprintf("Temp directory not writable: %s", tmpDir))
	} else {
		_ = os.Remove(testFile)
		result.System.TempWritable = true
	}

	result.System.Styles = assets.Styles()
}

// checkDelivery reports whether send can reach Postmark or a dev directory.
func checkDelivery(result *doctorResult, envFile string) {
	if err := loadDotEnv(envFile); err != nil {
		result.Errors = append(result.Errors, err.Error())
		return
	}
	e, err := loadEnvConfig()
	if err != nil {
		result.Errors = append(result.Errors, err.Error())
		return
	}

	result.Delivery.ServerToken = e.Delivery.PostmarkServerToken != ""
	result.Delivery.From = e.Delivery.From
	result.Delivery.DevDir = e.DevDir

	if !result.Delivery.ServerToken && e.DevDir == "" {
		result.Warnings = append(result.Warnings,
			"No MAILSAFE_POSTMARK_SERVER_TOKEN: send needs a token or --dev-dir")
	}
	if result.Delivery.ServerToken && e.Delivery.From == "" {
		result.Warnings = append(result.Warnings,
			"MAILSAFE_FROM not set: send needs --from or delivery.from in config")
	}
}

// checkAssets resolves the active style and template set and reports whether
// each comes from the custom directory or the embedded copy. Runs after
// checkDelivery so .env values are visible.
func checkAssets(result *doctorResult, f *doctorFlags) {
	style, template := f.style, f.template
	if e, err := loadEnvConfig(); err == nil {
		style = firstNonEmpty(style, e.Style)
		template = firstNonEmpty(template, e.Template)
	}
	info := assetsInfo{
		AssetPath: f.assetPath,
		Style:     firstNonEmpty(style, assets.DefaultStyleName),
		Template:  firstNonEmpty(template, assets.DefaultTemplateSetName),
	}
	result.Assets = info

	resolver, err := assets.NewAssetResolver(f.assetPath)
	if err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("Asset path: %v", err))
		return
	}
	result.Assets.Custom = resolver.HasCustomLoader()

	if _, err := resolver.LoadStyle(info.Style); err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("Style %q: %v", info.Style, err))
	} else {
		result.Assets.StyleSource = resolver.Source(info.Style)
	}
	if _, err := resolver.LoadTemplateSet(info.Template); err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("Template set %q: %v", info.Template, err))
	} else {
		result.Assets.TemplateSource = resolver.Source(info.Template)
	}
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

// printDoctorResult outputs human-readable diagnostic results.
func printDoctorResult(w io.Writer, r *doctorResult) {
	fmt.Fprintln(w, "mailsafe doctor")
	fmt.Fprintln(w)

	fmt.Fprintln(w, "Chrome/Chromium (PDF proofs)")
	if r.Chrome.Found {
		fmt.Fprintf(w, "  [OK] Found at %s\n", r.Chrome.Path)
		if r.Chrome.Version != "" {
			fmt.Fprintf(w, "  [OK] Version: %s\n", r.Chrome.Version)
		}
		if r.Chrome.Sandbox {
			fmt.Fprintln(w, "  [OK] Sandbox: enabled")
		} else {
			fmt.Fprintln(w, "  [OK] Sandbox: disabled (ROD_NO_SANDBOX=1)")
		}
	} else {
		fmt.Fprintln(w, "  [WARN] Not found")
	}
	fmt.Fprintln(w)

	fmt.Fprintln(w, "Environment")
	fmt.Fprintf(w, "  [OK] Platform: %s/%s\n", r.Env.OS, r.Env.Arch)
	if r.Env.Container {
		fmt.Fprintf(w, "  [OK] Container: detected (%s)\n", r.Env.ContainerHint)
	}
	if r.Env.CI {
		fmt.Fprintln(w, "  [OK] CI: detected")
	}
	fmt.Fprintln(w)

	fmt.Fprintln(w, "System")
	if r.System.TempWritable {
		fmt.Fprintln(w, "  [OK] Temp directory: writable")
	} else {
		fmt.Fprintln(w, "  [ERROR] Temp directory: not writable")
	}
	fmt.Fprintf(w, "  [OK] Styles: %s\n", strings.Join(r.System.Styles, ", "))
	fmt.Fprintln(w)

	fmt.Fprintln(w, "Delivery")
	switch {
	case r.Delivery.DevDir != "":
		fmt.Fprintf(w, "  [OK] Dev directory: %s\n", r.Delivery.DevDir)
	case r.Delivery.ServerToken:
		fmt.Fprintln(w, "  [OK] Postmark server token: set")
	default:
		fmt.Fprintln(w, "  [WARN] Postmark server token: not set")
	}
	if r.Delivery.From != "" {
		fmt.Fprintf(w, "  [OK] From: %s\n", r.Delivery.From)
	}
	fmt.Fprintln(w)

	fmt.Fprintln(w, "Assets")
	if r.Assets.Custom {
		fmt.Fprintf(w, "  [OK] Custom directory: %s\n", r.Assets.AssetPath)
	}
	if r.Assets.StyleSource != "" {
		fmt.Fprintf(w, "  [OK] Style: %s (%s)\n", r.Assets.Style, r.Assets.StyleSource)
	}
	if r.Assets.TemplateSource != "" {
		fmt.Fprintf(w, "  [OK] Template set: %s (%s)\n", r.Assets.Template, r.Assets.TemplateSource)
	}
	fmt.Fprintln(w)

	if len(r.Warnings) > 0 {
		fmt.Fprintln(w, "Warnings:")
		for _, warn := range r.Warnings {
			fmt.Fprintf(w, "  [WARN] %s\n", warn)
		}
		fmt.Fprintln(w)
	}

	if len(r.Errors) > 0 {
		fmt.Fprintln(w, "Errors:")
		for _, err := range r.Errors {
			fmt.Fprintf(w, "  [ERROR] %s\n", err)
		}
		fmt.Fprintln(w)
	}

	switch r.Status {
	case "ready":
		fmt.Fprintln(w, "Status: Ready")
	case "warnings":
		fmt.Fprintln(w, "Status: Ready with warnings")
	case "errors":
		fmt.Fprintln(w, "Status: Not ready (see errors above)")
	}
}
