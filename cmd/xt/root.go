package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"golang.org/x/term"

	xt "github.com/mistergrinvalds/xt"
)

var (
	cfgFile   string
	debug     bool
	fromFlag  string
	toFlag    string
	outputOpt string
)

var rootCmd = &cobra.Command{
	Use:   "xt [flags] [file...]",
	Short: "Translate a serialized data stream between JSON, YAML, TOML, and MessagePack",
	Long: `xt reads one or more files (or standard input, if none are given) and
translates every document it finds into the requested output format.

The input format is auto-detected unless --from is given; the output format
is always required via --to.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          runTranslate,
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "",
		"config file (default is $HOME/.config/xt/config.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&debug, "debug", "d", false,
		"enable debug output")
	_ = viper.BindPFlag("debug", rootCmd.PersistentFlags().Lookup("debug"))

	rootCmd.Flags().StringVar(&fromFlag, "from", "",
		"input format: json, yaml, toml, or msgpack (auto-detected if omitted)")
	rootCmd.Flags().StringVar(&toFlag, "to", "",
		"output format: json, yaml, toml, or msgpack (required)")
	rootCmd.Flags().StringVarP(&outputOpt, "output", "o", "",
		"output file (default is standard output)")
	_ = viper.BindPFlag("to", rootCmd.Flags().Lookup("to"))
}

// initConfig reads in config file and ENV variables if set, mirroring the
// config discovery every other xt-family command uses.
func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "xt"))
		}
		viper.SetConfigName("config")
		viper.SetConfigType("yaml")
	}

	viper.SetEnvPrefix("XT")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		if debug {
			fmt.Fprintf(os.Stderr, "xt: no config file loaded: %v\n", err)
		}
	}

	if !debug && viper.GetBool("debug") {
		debug = true
	}
}

func runTranslate(cmd *cobra.Command, args []string) error {
	toName := toFlag
	if toName == "" {
		toName = viper.GetString("to")
	}
	to, ok := parseFormat(toName)
	if !ok {
		return fmt.Errorf("--to is required and must be one of json, yaml, toml, msgpack")
	}

	var from *xt.Format
	if fromFlag != "" {
		f, ok := parseFormat(fromFlag)
		if !ok {
			return fmt.Errorf("--from must be one of json, yaml, toml, msgpack")
		}
		from = &f
	}

	if len(args) > 1 && !to.AllowsMultipleDocuments() {
		return fmt.Errorf("--to %s accepts only one document; %d input files were given", to, len(args))
	}

	out, closeOut, err := openOutput(outputOpt)
	if err != nil {
		dieln("%v", err)
	}
	defer closeOut()

	translator := xt.NewTranslator(out, to)

	if len(args) == 0 {
		// With no files given, reading from a terminal would otherwise block
		// forever waiting for input the user never pipes in; print usage
		// instead, the same collaborator role the teacher gives
		// term.IsTerminal when deciding whether to wait on stdin.
		if term.IsTerminal(int(os.Stdin.Fd())) {
			return cmd.Usage()
		}
		translateReader(translator, os.Stdin, from, "<stdin>")
	} else {
		for _, path := range args {
			translateFile(translator, path, from)
		}
	}

	flush(translator)
	return nil
}

func openOutput(path string) (io.Writer, func(), error) {
	if path == "" {
		return os.Stdout, func() {}, nil
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, nil, fmt.Errorf("creating %s: %w", path, err)
	}
	return f, func() { _ = f.Close() }, nil
}

func translateFile(translator *xt.Translator, path string, from *xt.Format) {
	f, err := os.Open(path)
	if err != nil {
		dieInPath(path, "%v", err)
	}
	defer f.Close()
	translateReader(translator, f, from, path)
}

func translateReader(translator *xt.Translator, r io.Reader, from *xt.Format, label string) {
	if err := translator.TranslateReader(r, from); err != nil {
		dieInPath(label, "%v", err)
	}
}

func flush(translator *xt.Translator) {
	if err := translator.Flush(); err != nil {
		dieln("%v", err)
	}
}

func parseFormat(s string) (xt.Format, bool) {
	switch s {
	case "json":
		return xt.FormatJSON, true
	case "yaml", "yml":
		return xt.FormatYAML, true
	case "toml":
		return xt.FormatTOML, true
	case "msgpack", "messagepack", "mp":
		return xt.FormatMsgpack, true
	default:
		return 0, false
	}
}
