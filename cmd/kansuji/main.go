// Command kansuji converts Japanese kanji numerals to Arabic numerals in
// text and HTML files.
//
// Usage:
//
//	kansuji convert [files...]   Convert files, or stdin when none are given
//	kansuji matches [text]       List the numeral expressions found in text
//	kansuji watch <dir>...       Keep files under dirs converted as they change
//	kansuji version              Print version info
package main

import (
	"fmt"
	"os"

	"github.com/kansuji-go/kansuji"
	"github.com/kansuji-go/kansuji/internal/config"
	"github.com/kansuji-go/kansuji/internal/logging"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

const version = "0.3.0"

// app carries the state shared by every subcommand.
type app struct {
	verbose    bool
	configPath string

	cfg    *config.Config
	logger *zap.Logger
	conv   *kansuji.Converter
}

func newRootCmd() *cobra.Command {
	a := &app{logger: zap.NewNop()}

	root := &cobra.Command{
		Use:   "kansuji",
		Short: "Convert Japanese kanji numerals to Arabic numerals",
		Long: `kansuji rewrites numerals such as 二千二十四年, 三分の一 or 第三期
as 2,024年, 1/3 and 第3期, leaving every other character unchanged.

Only numerals qualified by a counter (円, 年, 人, 箇月, ...), a prefix
(第, 前, の) or a trailing 万 are converted.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.init()
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			_ = a.logger.Sync()
		},
	}

	root.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false, "Enable verbose logging")
	root.PersistentFlags().StringVarP(&a.configPath, "config", "c", "kansuji.yaml", "Path to the YAML config file")

	root.AddCommand(newConvertCmd(a))
	root.AddCommand(newMatchesCmd(a))
	root.AddCommand(newWatchCmd(a))
	root.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print version info",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "kansuji %s\n", version)
		},
	})
	return root
}

func (a *app) init() error {
	cfg, err := config.Load(a.configPath)
	if err != nil {
		return err
	}
	logger, err := logging.New(cfg.Logging, a.verbose)
	if err != nil {
		return err
	}
	tag, err := cfg.Language()
	if err != nil {
		return err
	}
	a.cfg = cfg
	a.logger = logger
	a.conv = kansuji.New(kansuji.WithLanguage(tag), kansuji.WithLogger(logger))
	return nil
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
