package config_global

import (
	"os"
	"path/filepath"

	"github.com/AlexTransit/lcd44780/helpers"
	"github.com/AlexTransit/lcd44780/log2"
	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclsyntax"
	"github.com/hashicorp/hcl/v2/hclwrite"
	"github.com/juju/errors"
)

// WriteDefault dumps Default() as HCL, handy as a starting point.
func WriteDefault(fileName string) error {
	f := hclwrite.NewEmptyFile()
	gohcl.EncodeIntoBody(Default(), f.Body())
	return errors.Annotatef(os.WriteFile(fileName, f.Bytes(), 0o644), "write default config=%s", fileName)
}

type configLoad struct {
	log   *log2.Log
	seen  map[string]struct{}
	files []*Config
}

func (c *configLoad) readConfig(source IncludeStruct, dir string) error {
	fileName := source.Name
	if !filepath.IsAbs(fileName) {
		fileName = filepath.Join(dir, fileName)
	}
	fileName = filepath.Clean(fileName)
	if _, ok := c.seen[fileName]; ok {
		return errors.Errorf("config include loop file=%s", fileName)
	}
	c.seen[fileName] = struct{}{}

	src, err := os.ReadFile(fileName)
	if err != nil {
		if os.IsNotExist(err) && source.Optional {
			c.log.Debugf("config optional file=%s not found", fileName)
			return nil
		}
		return errors.Annotatef(err, "read config file=%s", fileName)
	}
	c.log.Debugf("config reading file=%s", fileName)
	file, diags := hclsyntax.ParseConfig(src, fileName, hcl.Pos{Line: 1, Column: 1})
	if diags.HasErrors() {
		return errors.Annotatef(diags, "parse config file=%s", fileName)
	}
	fc := new(Config)
	if diags := gohcl.DecodeBody(file.Body, nil, fc); diags.HasErrors() {
		return errors.Annotatef(diags, "decode config file=%s", fileName)
	}
	c.files = append(c.files, fc)
	for _, inc := range fc.Include {
		if err := c.readConfig(inc, filepath.Dir(fileName)); err != nil {
			return err
		}
	}
	return nil
}

// ReadConfig reads fileName and its includes (relative to including file).
// Values set later override earlier ones, unset values keep Default().
func ReadConfig(log *log2.Log, fileName string) (*Config, error) {
	cl := configLoad{log: log, seen: make(map[string]struct{})}
	if err := cl.readConfig(IncludeStruct{Name: fileName}, ""); err != nil {
		return nil, err
	}
	c := Default()
	for _, fc := range cl.files {
		helpers.OverrideStructure(c, fc)
	}
	c.Include = nil
	return c, nil
}
