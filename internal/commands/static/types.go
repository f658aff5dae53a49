package staticcmd

import (
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/goliatone/go-sitegen/internal/generator"
)

const (
	buildSiteMessageType = "sitegen.static.build"
	cleanSiteMessageType = "sitegen.static.clean"
)

// ResultCallback receives build results produced by generator operations. The callback is optional
// and is invoked synchronously from the handler when a BuildResult is available.
type ResultCallback func(ResultEnvelope)

// ResultEnvelope captures the outcome of a static command execution that generated a BuildResult.
type ResultEnvelope struct {
	Result   *generator.BuildResult
	Metadata map[string]any
}

// Target identifies the site a command operates on.
type Target struct {
	SiteDir   string
	OutputDir string
	Local     bool
	Workers   int
}

// BuildSiteCommand builds the site found in SiteDir.
type BuildSiteCommand struct {
	SiteDir        string         `json:"site_dir"`
	OutputDir      string         `json:"output_dir,omitempty"`
	Local          bool           `json:"local,omitempty"`
	Workers        int            `json:"workers,omitempty"`
	DryRun         bool           `json:"dry_run,omitempty"`
	ResultCallback ResultCallback `json:"-"`
}

// Type implements command.Message.
func (BuildSiteCommand) Type() string { return buildSiteMessageType }

// Validate ensures the site directory is set and the worker count is usable.
func (m BuildSiteCommand) Validate() error {
	errs := validation.Errors{}
	if strings.TrimSpace(m.SiteDir) == "" {
		errs["site_dir"] = validation.NewError("sitegen.static.build.site_dir_required", "site_dir is required")
	}
	if err := validation.Validate(m.Workers, validation.Min(0)); err != nil {
		errs["workers"] = validation.NewError("sitegen.static.build.workers_invalid", "workers must not be negative")
	}
	if len(errs) > 0 {
		return errs
	}
	return nil
}

func (m BuildSiteCommand) target() Target {
	return Target{
		SiteDir:   strings.TrimSpace(m.SiteDir),
		OutputDir: strings.TrimSpace(m.OutputDir),
		Local:     m.Local,
		Workers:   m.Workers,
	}
}

// CleanSiteCommand removes the output directory of the site in SiteDir.
type CleanSiteCommand struct {
	SiteDir   string `json:"site_dir"`
	OutputDir string `json:"output_dir,omitempty"`
}

// Type implements command.Message.
func (CleanSiteCommand) Type() string { return cleanSiteMessageType }

// Validate ensures the site directory is set.
func (m CleanSiteCommand) Validate() error {
	return validation.Errors{
		"site_dir": validation.Validate(strings.TrimSpace(m.SiteDir), validation.Required),
	}.Filter()
}

func (m CleanSiteCommand) target() Target {
	return Target{
		SiteDir:   strings.TrimSpace(m.SiteDir),
		OutputDir: strings.TrimSpace(m.OutputDir),
	}
}
