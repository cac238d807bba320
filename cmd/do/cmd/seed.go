package cmd

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"

	"github.com/lexdesk/lexdesk/internal/app"
	"github.com/lexdesk/lexdesk/internal/form"
	"github.com/lexdesk/lexdesk/internal/model"
	"github.com/lexdesk/lexdesk/internal/service"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

// SeedFile is the YAML document read by "do seed".
type SeedFile struct {
	Users []struct {
		Name  string `yaml:"name"`
		Email string `yaml:"email"`
	} `yaml:"users"`

	CustomFields []struct {
		Name      string `yaml:"name"`
		Slug      string `yaml:"slug"`
		Label     string `yaml:"label"`
		Target    string `yaml:"target"`
		FieldType string `yaml:"field_type"`
		Options   string `yaml:"options"`
		Required  bool   `yaml:"required"`
		HelpText  string `yaml:"help_text"`
		SortOrder *int   `yaml:"sort_order"`
		Visible   *bool  `yaml:"visible"`
	} `yaml:"custom_fields"`

	Templates []struct {
		Name    string `yaml:"name"`
		Format  string `yaml:"format"`
		Content string `yaml:"content"`
	} `yaml:"templates"`
}

func SeedCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "seed <file.yaml>",
		Short: "Create users, custom fields and templates from a YAML file",
		Long: `Seeding is idempotent: users are matched by email, custom fields by slug
and templates by name. Existing records are left unchanged.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := os.ReadFile(args[0])
			if err != nil {
				return err
			}

			var seed SeedFile
			err = yaml.Unmarshal(data, &seed)
			if err != nil {
				return fmt.Errorf("failed to parse %s: %w", args[0], err)
			}

			a, err := openApp()
			if err != nil {
				return err
			}
			defer a.Close()

			return runSeed(a, &seed)
		},
	}
}

func runSeed(a *app.App, seed *SeedFile) error {
	for _, u := range seed.Users {
		user, created, err := a.UserService.Ensure(u.Name, u.Email)
		if err != nil {
			return fmt.Errorf("user %s: %w", u.Email, err)
		}
		fmt.Printf("user %s %s\n", user.Email, status(created))
	}

	for _, cf := range seed.CustomFields {
		values := url.Values{
			"name":       {cf.Name},
			"slug":       {cf.Slug},
			"label":      {cf.Label},
			"target":     {cf.Target},
			"field_type": {cf.FieldType},
			"options":    {cf.Options},
			"help_text":  {cf.HelpText},
		}
		if values.Get("name") == "" {
			values.Set("name", cf.Slug)
		}
		if cf.Required {
			values.Set("required", "y")
		}
		if cf.Visible == nil || *cf.Visible {
			values.Set("visible", "y")
		}
		if cf.SortOrder != nil {
			values.Set("sort_order", strconv.Itoa(*cf.SortOrder))
		}

		f := service.DefinitionForm(nil)
		f.Bind(values)
		_, err := a.CustomFieldService.Create(f)
		if errors.Is(err, service.ErrDuplicateSlug) {
			fmt.Printf("custom field %s exists\n", cf.Slug)
			continue
		}
		if errors.Is(err, service.ErrValidation) {
			return fmt.Errorf("custom field %s: %s", cf.Slug, formErrors(f))
		}
		if err != nil {
			return fmt.Errorf("custom field %s: %w", cf.Slug, err)
		}
		fmt.Printf("custom field %s created\n", cf.Slug)
	}

	existing, err := a.TemplateService.Templates()
	if err != nil {
		return err
	}
	names := make(map[string]bool, len(existing))
	for _, t := range existing {
		names[t.Name] = true
	}

	for _, t := range seed.Templates {
		if names[t.Name] {
			fmt.Printf("template %q exists\n", t.Name)
			continue
		}
		format := t.Format
		if format == "" {
			format = model.TemplateFormatHTML
		}

		f := service.TemplateForm(nil)
		f.Bind(url.Values{"name": {t.Name}, "format": {format}, "content": {t.Content}})
		_, err := a.TemplateService.Create(f)
		if errors.Is(err, service.ErrValidation) {
			return fmt.Errorf("template %q: %s", t.Name, formErrors(f))
		}
		if err != nil {
			return fmt.Errorf("template %q: %w", t.Name, err)
		}
		names[t.Name] = true
		fmt.Printf("template %q created\n", t.Name)
	}

	return nil
}

func status(created bool) string {
	if created {
		return "created"
	}
	return "exists"
}

func formErrors(f *form.Form) string {
	var msgs []string
	msgs = append(msgs, f.Errors...)
	for _, field := range f.Fields {
		for _, e := range field.Errors {
			msgs = append(msgs, field.Name+": "+e)
		}
	}
	return strings.Join(msgs, "; ")
}
