package main

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/rotisserie/eris"
	"gopkg.in/yaml.v3"

	"github.com/sells-group/outreach-cli/internal/model"
)

// campaignFile is the YAML description of a campaign. Unset fields fall back
// to the campaign section of the app config.
type campaignFile struct {
	Name                string `yaml:"name"`
	Contacts            string `yaml:"contacts"`
	Template            string `yaml:"template"`
	Tone                string `yaml:"tone"`
	Language            string `yaml:"language"`
	RespectTimezones    *bool  `yaml:"respect_timezones"`
	RespectDoNotContact *bool  `yaml:"respect_do_not_contact"`
}

// loadCampaignFile reads a campaign file. A relative contacts path is
// resolved against the campaign file's directory.
func loadCampaignFile(path string) (*campaignFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, eris.Wrap(err, "campaign: read file")
	}

	var f campaignFile
	dec := yaml.NewDecoder(strings.NewReader(string(data)))
	dec.KnownFields(true)
	if err := dec.Decode(&f); err != nil {
		return nil, eris.Wrapf(err, "campaign: parse %s", path)
	}

	if f.Contacts != "" && !filepath.IsAbs(f.Contacts) {
		f.Contacts = filepath.Join(filepath.Dir(path), f.Contacts)
	}
	return &f, nil
}

func (f *campaignFile) outreachConfig(defaults model.OutreachConfig) (model.OutreachConfig, error) {
	return mergeConfig(defaults, f.Template, f.Tone, f.Language, f.RespectTimezones, f.RespectDoNotContact)
}

// mergeConfig overlays explicitly set campaign values on defaults and checks
// the result.
func mergeConfig(defaults model.OutreachConfig, template, tone, language string, respectTZ, respectDNC *bool) (model.OutreachConfig, error) {
	out := defaults
	out.Template = template
	if tone != "" {
		out.Tone = model.Tone(tone)
	}
	if language != "" {
		out.Language = language
	}
	if respectTZ != nil {
		out.RespectTimezones = *respectTZ
	}
	if respectDNC != nil {
		out.RespectDoNotContact = *respectDNC
	}

	if strings.TrimSpace(out.Template) == "" {
		return out, eris.New("campaign: template is required")
	}
	if !out.Tone.Valid() {
		return out, eris.Errorf("campaign: unknown tone %q (want sales, support, reminder or follow-up)", out.Tone)
	}
	return out, nil
}
