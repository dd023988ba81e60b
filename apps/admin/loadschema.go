package main

import (
	"context"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/jaymarkubaran15-svg/memotrace/core/schema"
)

type (
	yamlShowWhen struct {
		Key    string `yaml:"key"`
		Equals string `yaml:"equals"`
	}

	yamlField struct {
		Key      string        `yaml:"key"`
		Label    string        `yaml:"label"`
		Type     string        `yaml:"type"`
		Required bool          `yaml:"required"`
		Options  []string      `yaml:"options"`
		ShowWhen *yamlShowWhen `yaml:"show_when"`
	}

	yamlSection struct {
		Title  string      `yaml:"title"`
		Fields []yamlField `yaml:"fields"`
	}

	yamlSchema struct {
		Sections []yamlSection `yaml:"sections"`
	}
)

// loadSchema seeds or replaces a form schema from a YAML definition file.
func (cli *commandLine) loadSchema(kindStr, path string) error {
	kind, err := schema.ParseKind(kindStr)
	if err != nil {
		return err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	var ys yamlSchema
	if err := yaml.Unmarshal(data, &ys); err != nil {
		return err
	}

	doc, err := buildDocument(ys)
	if err != nil {
		return err
	}

	doc, err = cli.schemaRepo.SaveSchema(context.Background(), kind, doc)
	if err != nil {
		return err
	}
	logger.Printf("loaded %s schema: %d sections, %d fields\n", kind, len(doc.Sections), doc.TotalFields())
	return nil
}

func buildDocument(ys yamlSchema) (schema.Document, error) {
	doc := schema.Document{Sections: make([]schema.Section, 0, len(ys.Sections))}
	for i, ysec := range ys.Sections {
		sec := schema.Section{Title: ysec.Title, Fields: make([]schema.Field, 0, len(ysec.Fields))}
		for j, yf := range ysec.Fields {
			if yf.Key == "" {
				return schema.Document{}, fmt.Errorf("section %d field %d: key is required", i, j)
			}
			ftype, err := schema.ParseFieldType(yf.Type)
			if err != nil {
				return schema.Document{}, fmt.Errorf("section %d field %q: %v", i, yf.Key, err)
			}
			f := schema.Field{
				Key:      yf.Key,
				Label:    yf.Label,
				Type:     ftype,
				Required: yf.Required,
				Options:  yf.Options,
			}
			if yf.ShowWhen != nil {
				f.ShowWhen = &schema.ShowWhen{Key: yf.ShowWhen.Key, Equals: yf.ShowWhen.Equals}
			}
			sec.Fields = append(sec.Fields, f)
		}
		doc.Sections = append(doc.Sections, sec)
	}
	doc.Normalize()
	return doc, nil
}
