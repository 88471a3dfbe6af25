package cli

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/pflag"

	"github.com/sokinpui/webrev/internal/render"
)

// TokenEnv holds the GitHub token used for the compare API.
const TokenEnv = "GITHUB_TOKEN"

// Config holds all the command-line flag values.
type Config struct {
	Repo       string
	Base       string
	Head       string
	GitHub     string
	Clipboard  bool
	View       string
	File       int
	Context    int
	Extensions []string
	Output     string
	Width      int
	NoTUI      bool
	NoColor    bool
	Verbose    bool

	// Token is read from the environment, never from a flag.
	Token string
}

// ParseFlags defines and parses command-line flags using pflag. It returns
// pflag.ErrHelp when help was requested.
func ParseFlags(args []string) (*Config, error) {
	cfg := &Config{}
	flags := pflag.NewFlagSet("webrev", pflag.ContinueOnError)

	flags.StringVarP(&cfg.Repo, "repo", "C", "", "Compare revisions of the git repository containing this directory (default: current directory).")
	flags.StringVar(&cfg.Base, "base", "", "Base revision (default: HEAD for git).")
	flags.StringVar(&cfg.Head, "head", "", "Head revision (default: the working tree for git).")
	flags.StringVar(&cfg.GitHub, "github", "", "Compare --base...--head of a GitHub repository (owner/name). Uses $"+TokenEnv+" if set.")
	flags.BoolVar(&cfg.Clipboard, "clipboard", false, "Read the patch from the clipboard.")
	flags.StringVarP(&cfg.View, "view", "v", string(render.ViewIndex), "View to print: "+viewNames()+".")
	flags.IntVarP(&cfg.File, "file", "f", -1, "Index of the file to show (default: all files).")
	flags.IntVarP(&cfg.Context, "context", "U", -1, "Lines of context around changes (default: per view).")
	flags.StringSliceVarP(&cfg.Extensions, "extension", "e", []string{}, "Only show files with these extensions (e.g., 'go', 'py').")
	flags.StringVarP(&cfg.Output, "output", "o", "", "Write every view of every file into this directory.")
	flags.IntVar(&cfg.Width, "width", 0, "Width of the two-column views (default: terminal width or 160).")
	flags.BoolVar(&cfg.NoTUI, "no-tui", false, "Print the view instead of starting the interactive viewer.")
	flags.BoolVar(&cfg.NoColor, "no-color", false, "Disable colored output.")
	flags.BoolVar(&cfg.Verbose, "verbose", false, "Print debug messages.")

	flags.Usage = func() {
		fmt.Println("Usage: webrev [flags]")
		fmt.Println("\nBrowse the changes between two versions of a set of files.")
		fmt.Println("\nThe comparison comes from a GitHub repository (--github), a patch on stdin")
		fmt.Println("or in the clipboard (--clipboard), or else the local git repository.")
		fmt.Println("\nExamples:")
		fmt.Println("  webrev --base main")
		fmt.Println("  git format-patch -1 --stdout | webrev -v sdiff --no-tui")
		fmt.Println("  webrev --github owner/repo --base v1.0 --head v1.1 -o review")
		fmt.Println("\nFlags:")
		flags.PrintDefaults()
	}

	if err := flags.Parse(args); err != nil {
		return nil, err
	}
	if flags.NArg() > 0 {
		return nil, fmt.Errorf("unexpected arguments: %s", strings.Join(flags.Args(), " "))
	}

	cfg.Token = os.Getenv(TokenEnv)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks flag combinations and normalizes extensions.
func (cfg *Config) Validate() error {
	if cfg.GitHub != "" && cfg.Clipboard {
		return errors.New("--github and --clipboard are mutually exclusive")
	}
	if (cfg.GitHub != "" || cfg.Clipboard) && cfg.Repo != "" {
		return errors.New("--repo cannot be combined with --github or --clipboard")
	}
	if cfg.GitHub != "" {
		if strings.Count(cfg.GitHub, "/") != 1 {
			return fmt.Errorf("--github wants owner/name, got %q", cfg.GitHub)
		}
		if cfg.Base == "" || cfg.Head == "" {
			return errors.New("--github needs both --base and --head")
		}
	}
	if _, err := render.ParseView(cfg.View); err != nil {
		return err
	}
	if cfg.Context < -1 {
		return fmt.Errorf("--context must not be negative, got %d", cfg.Context)
	}

	// Normalize extensions
	for i, ext := range cfg.Extensions {
		if len(ext) > 0 && ext[0] != '.' {
			cfg.Extensions[i] = "." + ext
		}
	}
	return nil
}

func viewNames() string {
	names := make([]string, len(render.AllViews))
	for i, v := range render.AllViews {
		names[i] = string(v)
	}
	return strings.Join(names, ", ")
}
