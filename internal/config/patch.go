package config

import (
	"fmt"
	"time"
)

// Patch is a partial Model as read from a configuration file. Nil fields
// leave the corresponding Model setting untouched. The same struct is decoded
// by every loader, so the HCL, YAML and TOML spellings never drift apart.
type Patch struct {
	SourceDir *string `hcl:"source_dir,optional" yaml:"source_dir" toml:"source_dir"`
	OutputDir *string `hcl:"output_dir,optional" yaml:"output_dir" toml:"output_dir"`
	Workers   *int    `hcl:"workers,optional" yaml:"workers" toml:"workers"`

	Styles    *StylesPatch    `hcl:"styles,block" yaml:"styles" toml:"styles"`
	Scripts   *ScriptsPatch   `hcl:"scripts,block" yaml:"scripts" toml:"scripts"`
	Markup    *MarkupPatch    `hcl:"markup,block" yaml:"markup" toml:"markup"`
	Sprites   *SpritesPatch   `hcl:"sprites,block" yaml:"sprites" toml:"sprites"`
	Images    *ImagesPatch    `hcl:"images,block" yaml:"images" toml:"images"`
	Resources *ResourcesPatch `hcl:"resources,block" yaml:"resources" toml:"resources"`
	Server    *ServerPatch    `hcl:"server,block" yaml:"server" toml:"server"`
	Watch     *WatchPatch     `hcl:"watch,block" yaml:"watch" toml:"watch"`
}

type StylesPatch struct {
	Sources []string `hcl:"sources,optional" yaml:"sources" toml:"sources"`
	Output  *string  `hcl:"output,optional" yaml:"output" toml:"output"`
	Engines []string `hcl:"engines,optional" yaml:"engines" toml:"engines"`
}

type ScriptsPatch struct {
	Components []string `hcl:"components,optional" yaml:"components" toml:"components"`
	Entry      *string  `hcl:"entry,optional" yaml:"entry" toml:"entry"`
	Output     *string  `hcl:"output,optional" yaml:"output" toml:"output"`
	Target     *string  `hcl:"target,optional" yaml:"target" toml:"target"`
}

type MarkupPatch struct {
	Sources []string `hcl:"sources,optional" yaml:"sources" toml:"sources"`
}

type SpritesPatch struct {
	Sources []string `hcl:"sources,optional" yaml:"sources" toml:"sources"`
	Root    *string  `hcl:"root,optional" yaml:"root" toml:"root"`
	Output  *string  `hcl:"output,optional" yaml:"output" toml:"output"`
}

type ImagesPatch struct {
	Sources     []string `hcl:"sources,optional" yaml:"sources" toml:"sources"`
	Root        *string  `hcl:"root,optional" yaml:"root" toml:"root"`
	OutputDir   *string  `hcl:"output_dir,optional" yaml:"output_dir" toml:"output_dir"`
	JPEGQuality *int     `hcl:"jpeg_quality,optional" yaml:"jpeg_quality" toml:"jpeg_quality"`
}

type ResourcesPatch struct {
	Sources []string `hcl:"sources,optional" yaml:"sources" toml:"sources"`
	Root    *string  `hcl:"root,optional" yaml:"root" toml:"root"`
}

type ServerPatch struct {
	Host *string `hcl:"host,optional" yaml:"host" toml:"host"`
	Port *int    `hcl:"port,optional" yaml:"port" toml:"port"`
}

type WatchPatch struct {
	// Debounce is a Go duration string such as "150ms".
	Debounce *string `hcl:"debounce,optional" yaml:"debounce" toml:"debounce"`
}

// Apply returns a copy of base with every non-nil patch field applied.
func (p *Patch) Apply(base *Model) (*Model, error) {
	m := base.Clone()
	setString(&m.SourceDir, p.SourceDir)
	setString(&m.OutputDir, p.OutputDir)
	setInt(&m.Workers, p.Workers)

	if s := p.Styles; s != nil {
		setStrings(&m.Styles.Sources, s.Sources)
		setString(&m.Styles.Output, s.Output)
		setStrings(&m.Styles.Engines, s.Engines)
	}
	if s := p.Scripts; s != nil {
		setStrings(&m.Scripts.Components, s.Components)
		setString(&m.Scripts.Entry, s.Entry)
		setString(&m.Scripts.Output, s.Output)
		setString(&m.Scripts.Target, s.Target)
	}
	if s := p.Markup; s != nil {
		setStrings(&m.Markup.Sources, s.Sources)
	}
	if s := p.Sprites; s != nil {
		setStrings(&m.Sprites.Sources, s.Sources)
		setString(&m.Sprites.Root, s.Root)
		setString(&m.Sprites.Output, s.Output)
	}
	if s := p.Images; s != nil {
		setStrings(&m.Images.Sources, s.Sources)
		setString(&m.Images.Root, s.Root)
		setString(&m.Images.OutputDir, s.OutputDir)
		setInt(&m.Images.JPEGQuality, s.JPEGQuality)
	}
	if s := p.Resources; s != nil {
		setStrings(&m.Resources.Sources, s.Sources)
		setString(&m.Resources.Root, s.Root)
	}
	if s := p.Server; s != nil {
		setString(&m.Server.Host, s.Host)
		setInt(&m.Server.Port, s.Port)
	}
	if s := p.Watch; s != nil && s.Debounce != nil {
		d, err := time.ParseDuration(*s.Debounce)
		if err != nil {
			return nil, fmt.Errorf("invalid watch debounce %q: %w", *s.Debounce, err)
		}
		m.Watch.Debounce = d
	}
	return m, nil
}

func setString(dst *string, src *string) {
	if src != nil {
		*dst = *src
	}
}

func setInt(dst *int, src *int) {
	if src != nil {
		*dst = *src
	}
}

func setStrings(dst *[]string, src []string) {
	if src != nil {
		*dst = cloneStrings(src)
	}
}
