// OpenPDF-sub002 - a library for composing paginated PDF documents
// Copyright (C) 2025  The OpenPDF-sub002 Authors
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with this program.  If not, see <https://www.gnu.org/licenses/>.

// Pdfbook converts markdown files into paginated PDF books and prepares
// the resulting files for digital signatures.
//
// Usage:
//
//	pdfbook render [-c config.toml] [-o out.pdf] input.md
//	pdfbook reserve [-size n] [-reason text] [-o out.pdf] input.pdf
//	pdfbook digest file.pdf
//	pdfbook finalize -sig signature.der file.pdf
//	pdfbook inspect file.pdf
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/fatih/color"
	"golang.org/x/term"

	"github.com/justifiedsolutions/OpenPDF-sub002"
	"github.com/justifiedsolutions/OpenPDF-sub002/document"
)

var errUsage = errors.New("usage")

func main() {
	log.SetFlags(0)
	log.SetPrefix("pdfbook: ")

	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}

	var err error
	args := os.Args[2:]
	switch os.Args[1] {
	case "render":
		err = render(args)
	case "reserve":
		err = reserve(args)
	case "digest":
		err = digest(args)
	case "finalize":
		err = finalize(args)
	case "inspect":
		err = inspect(os.Stdout, args)
	case "help", "-h", "-help", "--help":
		usage()
		return
	default:
		err = fmt.Errorf("%w: unknown command %q", errUsage, os.Args[1])
	}

	if errors.Is(err, errUsage) {
		fmt.Fprintln(os.Stderr, err)
		usage()
		os.Exit(2)
	} else if err != nil {
		log.Fatal(color.RedString("%v", err))
	}
}

func usage() {
	fmt.Fprintln(os.Stderr, "usage: pdfbook render|reserve|digest|finalize|inspect [options] file")
}

func newLogger(verbose bool) *slog.Logger {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

// output opens the file to write to.  An empty name selects standard
// output, which must not be a terminal.
func output(name string) (io.WriteCloser, error) {
	if name != "" {
		return os.Create(name)
	}
	if term.IsTerminal(int(os.Stdout.Fd())) {
		return nil, errors.New("refusing to write PDF data to a terminal, use -o")
	}
	return nopCloser{os.Stdout}, nil
}

type nopCloser struct{ io.Writer }

func (nopCloser) Close() error { return nil }

func render(args []string) error {
	flags := flag.NewFlagSet("render", flag.ExitOnError)
	configFile := flags.String("c", "", "style configuration file (default $"+configEnv+")")
	outFile := flags.String("o", "", "output file")
	title := flags.String("title", "", "document title")
	verbose := flags.Bool("v", false, "print debug information")
	flags.Parse(args)
	if flags.NArg() != 1 {
		return fmt.Errorf("%w: render needs one input file", errUsage)
	}
	inFile := flags.Arg(0)
	logger := newLogger(*verbose)

	cfg, err := loadConfig(*configFile)
	if err != nil {
		return err
	}
	if *title != "" {
		cfg.Info.Title = *title
	}
	doc, err := cfg.document()
	if err != nil {
		return err
	}

	src, err := os.ReadFile(inFile)
	if err != nil {
		return err
	}
	images := newImageLoader(filepath.Dir(inFile), pdf.DefaultRegistry)
	err = convertMarkdown(src, doc, cfg, images)
	if err != nil {
		return fmt.Errorf("%s: %w", inFile, err)
	}

	out, err := output(*outFile)
	if err != nil {
		return err
	}
	stats, err := document.Write(doc, out, &document.Options{
		Metadata: cfg.Metadata,
		Logger:   logger,
	})
	if err != nil {
		out.Close()
		return err
	}
	err = out.Close()
	if err != nil {
		return err
	}
	logger.Info("document written",
		"pages", stats.Pages, "fonts", stats.Fonts, "images", stats.Images)
	return nil
}
