// Copyright 2025 walteh LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package config

import (
	"context"
	"os"
	"strings"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/zclconf/go-cty/cty"
	"gitlab.com/tozd/go/errors"
)

func init() {
	Register(&HCLParser{})
}

// 🔧 HCLParser implements the Parser interface for HCL files. Expressions
// can read the environment through env.NAME.
type HCLParser struct{}

// 🔍 CanParse checks if this parser can handle the given file
func (p *HCLParser) CanParse(filename string) bool {
	return hasExt(filename, ".hcl")
}

type hclRemote struct {
	Disabled bool   `hcl:"disabled,optional"`
	Provider string `hcl:"provider,optional"`
	Repo     string `hcl:"repo,optional"`
	Ref      string `hcl:"ref,optional"`
	Path     string `hcl:"path,optional"`
}

type hclTables struct {
	Specified   string     `hcl:"specified,optional"`
	Custom      string     `hcl:"custom,optional"`
	BuiltinOnly bool       `hcl:"builtin_only,optional"`
	Remote      *hclRemote `hcl:"remote,block"`
}

type hclIssues struct {
	Provider string `hcl:"provider,optional"`
	Repo     string `hcl:"repo,optional"`
	TokenEnv string `hcl:"token_env,optional"`
}

type hclScan struct {
	Include     []string `hcl:"include,optional"`
	SkipXPath   []string `hcl:"skip_xpath,optional"`
	Concurrency int      `hcl:"concurrency,optional"`
}

type hclConfig struct {
	Workdir        string     `hcl:"workdir,optional"`
	NonInteractive bool       `hcl:"non_interactive,optional"`
	Tables         *hclTables `hcl:"tables,block"`
	Issues         *hclIssues `hcl:"issues,block"`
	Scan           *hclScan   `hcl:"scan,block"`
}

// 📝 Parse parses the config from HCL
func (p *HCLParser) Parse(ctx context.Context, data []byte) (*Config, error) {
	parser := hclparse.NewParser()
	hclFile, diags := parser.ParseHCL(data, "config.hcl")
	if diags.HasErrors() {
		return nil, errors.Errorf("parsing HCL: %s", diags.Error())
	}

	evalCtx := &hcl.EvalContext{
		Variables: map[string]cty.Value{
			"env": envObject(),
		},
	}

	var hclCfg hclConfig
	diags = gohcl.DecodeBody(hclFile.Body, evalCtx, &hclCfg)
	if diags.HasErrors() {
		return nil, errors.Errorf("decoding HCL: %s", diags.Error())
	}

	cfg := &Config{
		Workdir:        hclCfg.Workdir,
		NonInteractive: hclCfg.NonInteractive,
	}
	if t := hclCfg.Tables; t != nil {
		cfg.Tables = TablesArgs{
			Specified:   t.Specified,
			Custom:      t.Custom,
			BuiltinOnly: t.BuiltinOnly,
		}
		if r := t.Remote; r != nil {
			cfg.Tables.Remote = RemoteArgs(*r)
		}
	}
	if i := hclCfg.Issues; i != nil {
		cfg.Issues = IssuesArgs(*i)
	}
	if s := hclCfg.Scan; s != nil {
		cfg.Scan = ScanArgs(*s)
	}

	return cfg, nil
}

func envObject() cty.Value {
	vars := map[string]cty.Value{}
	for _, kv := range os.Environ() {
		if k, v, ok := strings.Cut(kv, "="); ok && k != "" {
			vars[k] = cty.StringVal(v)
		}
	}
	if len(vars) == 0 {
		return cty.EmptyObjectVal
	}
	return cty.ObjectVal(vars)
}
