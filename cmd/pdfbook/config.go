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

package main

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/BurntSushi/toml"
	"golang.org/x/text/language"
	"seehuhn.de/go/geom/rect"

	"github.com/justifiedsolutions/OpenPDF-sub002/font"
	"github.com/justifiedsolutions/OpenPDF-sub002/model"
)

// configEnv names the environment variable which gives the default
// configuration file.
const configEnv = "PDFBOOK_CONFIG"

// config is the style configuration read from a TOML file.
type config struct {
	PageSize  string  `toml:"page_size"`
	Landscape bool    `toml:"landscape"`
	Margins   margins `toml:"margins"`

	Font        fontConfig `toml:"font"`
	Justify     bool       `toml:"justify"`
	NumberDepth int        `toml:"number_depth"`
	Indentation float64    `toml:"indentation"`

	Header marginalConfig `toml:"header"`
	Footer marginalConfig `toml:"footer"`

	Info     infoConfig `toml:"info"`
	Metadata bool       `toml:"metadata"`
}

type margins struct {
	Left   float64 `toml:"left"`
	Right  float64 `toml:"right"`
	Top    float64 `toml:"top"`
	Bottom float64 `toml:"bottom"`
}

type fontConfig struct {
	Family string  `toml:"family"`
	Size   float64 `toml:"size"`
}

type marginalConfig struct {
	Disabled  bool   `toml:"disabled"`
	Before    string `toml:"before"`
	After     string `toml:"after"`
	Numbered  bool   `toml:"numbered"`
	FirstPage bool   `toml:"first_page"`
	Align     string `toml:"align"`
	Border    string `toml:"border"`
}

type infoConfig struct {
	Title    string `toml:"title"`
	Author   string `toml:"author"`
	Subject  string `toml:"subject"`
	Keywords string `toml:"keywords"`
	Lang     string `toml:"lang"`
}

func defaultConfig() *config {
	return &config{
		PageSize: "A4",
		Margins:  margins{Left: 72, Right: 72, Top: 72, Bottom: 72},
		Font:     fontConfig{Family: "Times", Size: 11},
		Header:   marginalConfig{Disabled: true},
		Footer: marginalConfig{
			Numbered:  true,
			FirstPage: true,
			Align:     "center",
		},
	}
}

// loadConfig reads the configuration file with the given name.  If name
// is empty, the file named by $PDFBOOK_CONFIG is used, if any.
func loadConfig(name string) (*config, error) {
	if name == "" {
		name = os.Getenv(configEnv)
	}
	if name == "" {
		return defaultConfig(), nil
	}
	data, err := os.ReadFile(name)
	if err != nil {
		return nil, err
	}
	cfg, err := parseConfig(string(data))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}
	return cfg, nil
}

func parseConfig(data string) (*config, error) {
	cfg := defaultConfig()
	md, err := toml.Decode(data, cfg)
	if err != nil {
		return nil, err
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, key := range undecoded {
			keys[i] = key.String()
		}
		return nil, fmt.Errorf("unknown configuration keys: %s", strings.Join(keys, ", "))
	}
	return cfg, nil
}

var pageSizes = map[string]rect.Rect{
	"a4":     model.A4,
	"a5":     model.A5,
	"letter": model.Letter,
	"legal":  model.Legal,
}

var errConfig = errors.New("invalid configuration")

// document returns an empty document with the configured style.
func (cfg *config) document() (*model.Document, error) {
	size, ok := pageSizes[strings.ToLower(cfg.PageSize)]
	if !ok {
		return nil, fmt.Errorf("%w: unknown page size %q", errConfig, cfg.PageSize)
	}
	if cfg.Landscape {
		size = rect.Rect{URx: size.URy, URy: size.URx}
	}

	f, err := cfg.baseFont()
	if err != nil {
		return nil, err
	}

	doc := model.NewDocument(size)
	doc.Font = f
	doc.Margins = model.Margins{
		Left:   cfg.Margins.Left,
		Right:  cfg.Margins.Right,
		Top:    cfg.Margins.Top,
		Bottom: cfg.Margins.Bottom,
	}
	if doc.Margins.Left+doc.Margins.Right >= size.Dx() || doc.Margins.Top+doc.Margins.Bottom >= size.Dy() {
		return nil, fmt.Errorf("%w: margins leave no room for text", errConfig)
	}

	doc.Info.Title = cfg.Info.Title
	doc.Info.Author = cfg.Info.Author
	doc.Info.Subject = cfg.Info.Subject
	doc.Info.Keywords = cfg.Info.Keywords
	doc.Info.Creator = "pdfbook"
	if cfg.Info.Lang != "" {
		doc.Lang, err = language.Parse(cfg.Info.Lang)
		if err != nil {
			return nil, fmt.Errorf("%w: language %q: %w", errConfig, cfg.Info.Lang, err)
		}
	}

	for _, m := range []struct {
		cfg *marginalConfig
		pos model.Position
	}{
		{&cfg.Header, model.Header},
		{&cfg.Footer, model.Footer},
	} {
		if m.cfg.Disabled {
			continue
		}
		hf, err := m.cfg.marginal(f, m.pos)
		if err != nil {
			return nil, err
		}
		doc.AddMarginal(hf)
	}
	return doc, nil
}

func (cfg *config) baseFont() (*font.Font, error) {
	var family font.Family
	switch strings.ToLower(cfg.Font.Family) {
	case "helvetica", "sans":
		family = font.Helvetica
	case "times", "serif":
		family = font.Times
	case "courier", "mono":
		family = font.Courier
	default:
		return nil, fmt.Errorf("%w: unknown font family %q", errConfig, cfg.Font.Family)
	}
	if cfg.Font.Size <= 0 {
		return nil, fmt.Errorf("%w: font size %g", errConfig, cfg.Font.Size)
	}
	return font.New(family, cfg.Font.Size, font.Normal), nil
}

func (m *marginalConfig) marginal(f *font.Font, pos model.Position) (*model.HeaderFooter, error) {
	small := f.Clone()
	small.Size = f.Size * 0.8

	var after *model.Phrase
	if m.After != "" {
		after = model.NewPhrase(m.After, small)
	}
	hf := model.NewHeaderFooter(model.NewPhrase(m.Before, small), after, m.Numbered)
	hf.ValidForFirstPage = m.FirstPage
	hf.Pos = pos

	align, err := parseAlignment(m.Align)
	if err != nil {
		return nil, err
	}
	hf.Align = align

	switch strings.ToLower(m.Border) {
	case "", "none":
		hf.Border = model.BorderNone
	case "top":
		hf.Border = model.BorderTop
	case "bottom":
		hf.Border = model.BorderBottom
	case "both":
		hf.Border = model.BorderTop | model.BorderBottom
	default:
		return nil, fmt.Errorf("%w: unknown border %q", errConfig, m.Border)
	}
	return hf, nil
}

func parseAlignment(s string) (model.Alignment, error) {
	switch strings.ToLower(s) {
	case "", "left":
		return model.AlignLeft, nil
	case "center", "centre":
		return model.AlignCenter, nil
	case "right":
		return model.AlignRight, nil
	case "justify", "justified":
		return model.AlignJustified, nil
	}
	return model.AlignUndefined, fmt.Errorf("%w: unknown alignment %q", errConfig, s)
}
