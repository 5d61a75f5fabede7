package main

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/kansuji-go/kansuji/internal/config"
	"github.com/kansuji-go/kansuji/internal/htmlhost"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/japanese"
	"golang.org/x/text/transform"
)

type convertOptions struct {
	html     bool
	write    bool
	encoding string
	jobs     int
}

func newConvertCmd(a *app) *cobra.Command {
	var opts convertOptions
	cmd := &cobra.Command{
		Use:   "convert [files...]",
		Short: "Convert numerals in files or stdin",
		Long: `Converts the numerals of each file and prints the result, in argument
order. With --write the files are rewritten in place instead. Without
files, stdin is converted to stdout.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !cmd.Flags().Changed("encoding") {
				opts.encoding = a.cfg.Convert.Encoding
			}
			if !cmd.Flags().Changed("jobs") {
				opts.jobs = a.cfg.Convert.Jobs
			}
			return a.runConvert(cmd, args, opts)
		},
	}
	cmd.Flags().BoolVar(&opts.html, "html", false, "Treat input as an HTML document")
	cmd.Flags().BoolVarP(&opts.write, "write", "w", false, "Rewrite files in place")
	cmd.Flags().StringVarP(&opts.encoding, "encoding", "e", "utf-8", "Input encoding: utf-8, shift_jis or euc-jp")
	cmd.Flags().IntVarP(&opts.jobs, "jobs", "j", 4, "Number of files converted at once")
	return cmd
}

func (a *app) runConvert(cmd *cobra.Command, args []string, opts convertOptions) error {
	enc, err := lookupEncoding(opts.encoding)
	if err != nil {
		return err
	}
	if opts.jobs < 1 {
		return fmt.Errorf("--jobs must be >= 1")
	}

	if len(args) == 0 {
		if opts.write {
			return fmt.Errorf("--write needs at least one file")
		}
		in, err := readAll(cmd.InOrStdin(), enc)
		if err != nil {
			return fmt.Errorf("read stdin: %w", err)
		}
		out, _, err := a.convertText(in, opts.html)
		if err != nil {
			return err
		}
		_, err = io.WriteString(cmd.OutOrStdout(), out)
		return err
	}

	outputs := make([]string, len(args))
	g := new(errgroup.Group)
	g.SetLimit(opts.jobs)
	for i, path := range args {
		g.Go(func() error {
			out, err := a.convertFile(path, enc, opts)
			if err != nil {
				return err
			}
			outputs[i] = out
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	if opts.write {
		return nil
	}
	for _, out := range outputs {
		if _, err := io.WriteString(cmd.OutOrStdout(), out); err != nil {
			return err
		}
	}
	return nil
}

func (a *app) convertFile(path string, enc encoding.Encoding, opts convertOptions) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	in, err := readAll(f, enc)
	f.Close()
	if err != nil {
		return "", fmt.Errorf("read %s: %w", path, err)
	}

	out, changed, err := a.convertText(in, opts.html)
	if err != nil {
		return "", fmt.Errorf("convert %s: %w", path, err)
	}
	a.logger.Debug("converted", zap.String("path", path), zap.Bool("changed", changed))

	if !opts.write || !changed {
		return out, nil
	}
	info, err := os.Stat(path)
	if err != nil {
		return "", err
	}
	data, err := enc.NewEncoder().Bytes([]byte(out))
	if err != nil {
		return "", fmt.Errorf("encode %s: %w", path, err)
	}
	if err := os.WriteFile(path, data, info.Mode().Perm()); err != nil {
		return "", fmt.Errorf("write %s: %w", path, err)
	}
	a.logger.Info("rewrote file", zap.String("path", path))
	return out, nil
}

// convertText converts plain text or, with html set, an HTML document.
func (a *app) convertText(in string, html bool) (string, bool, error) {
	if !html {
		out := a.conv.Convert(in)
		return out, out != in, nil
	}
	var buf bytes.Buffer
	st, err := htmlhost.ConvertDocument(a.conv, strings.NewReader(in), &buf)
	if err != nil {
		return "", false, err
	}
	if st.Converted == 0 {
		return in, false, nil
	}
	return buf.String(), true, nil
}

func lookupEncoding(name string) (encoding.Encoding, error) {
	canon, err := config.EncodingName(name)
	if err != nil {
		return nil, err
	}
	switch canon {
	case "shift_jis":
		return japanese.ShiftJIS, nil
	case "euc-jp":
		return japanese.EUCJP, nil
	}
	return encoding.Nop, nil
}

func readAll(r io.Reader, enc encoding.Encoding) (string, error) {
	data, err := io.ReadAll(transform.NewReader(r, enc.NewDecoder()))
	if err != nil {
		return "", err
	}
	return string(data), nil
}
