package validator

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/kubev2v/pipeline-verifier/internal/models"
	srvErrors "github.com/kubev2v/pipeline-verifier/pkg/errors"
)

// ArtifactResult is the parse outcome of one configuration artifact.
// Err is a *ValidationError when the artifact is malformed.
type ArtifactResult struct {
	Path string
	Err  error
}

func (a ArtifactResult) Valid() bool {
	return a.Err == nil
}

// Validator checks the configuration artifacts of every role directory under root.
type Validator struct {
	root     string
	patterns []string
	log      *zap.SugaredLogger
}

func NewValidator(root string, patterns []string, logger *zap.Logger) *Validator {
	return &Validator{
		root:     root,
		patterns: patterns,
		log:      logger.Named("validator").Sugar(),
	}
}

// RoleDir returns the directory holding the artifacts of role.
func (v *Validator) RoleDir(role models.Role) string {
	return filepath.Join(v.root, string(role))
}

// Artifacts lists the files directly under the role directory matching the patterns, sorted.
func (v *Validator) Artifacts(role models.Role) ([]string, error) {
	dir := v.RoleDir(role)
	if _, err := os.Stat(dir); err != nil {
		return nil, srvErrors.NewInternalError("read role directory "+dir, err)
	}

	seen := make(map[string]struct{})
	var files []string
	for _, pattern := range v.patterns {
		matches, err := filepath.Glob(filepath.Join(dir, pattern))
		if err != nil {
			return nil, fmt.Errorf("invalid config pattern %q: %w", pattern, err)
		}
		for _, m := range matches {
			if _, ok := seen[m]; ok {
				continue
			}
			info, err := os.Stat(m)
			if err != nil || !info.Mode().IsRegular() {
				continue
			}
			seen[m] = struct{}{}
			files = append(files, m)
		}
	}
	sort.Strings(files)
	return files, nil
}

// Validate parses every artifact of role. The error is only set when the
// artifacts could not be enumerated; parse failures are reported per artifact.
func (v *Validator) Validate(role models.Role) ([]ArtifactResult, error) {
	files, err := v.Artifacts(role)
	if err != nil {
		return nil, err
	}

	results := make([]ArtifactResult, 0, len(files))
	for _, f := range files {
		v.log.Infow("validating configuration artifact", "role", role, "path", f)
		results = append(results, ArtifactResult{Path: f, Err: parse(f)})
	}
	return results, nil
}

// AllConfigsValid is true only if every artifact of role parses.
func (v *Validator) AllConfigsValid(role models.Role) bool {
	results, err := v.Validate(role)
	if err != nil {
		v.log.Errorw("failed to list configuration artifacts", "role", role, "error", err)
		return false
	}
	if len(results) == 0 {
		v.log.Warnw("no configuration artifacts found", "role", role, "dir", v.RoleDir(role))
	}

	valid := true
	for _, r := range results {
		if !r.Valid() {
			v.log.Errorw("malformed configuration artifact", "role", role, "path", r.Path, "error", r.Err)
			valid = false
		}
	}
	return valid
}

func parse(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return srvErrors.NewValidationError(path, err)
	}

	var doc any
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &doc)
	default:
		err = json.Unmarshal(data, &doc)
	}
	if err != nil {
		return srvErrors.NewValidationError(path, err)
	}
	return nil
}
