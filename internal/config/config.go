// Package config loads the per-repository YAML config file and resolves
// values across the flag > config file > environment precedence chain.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/spirit-dev/repo-ci/internal/faults"
)

// File is the per-repository YAML config document. It is decoded exactly
// once per run and treated as read-only afterwards. Boolean toggles are
// pointers so an absent key can be told apart from an explicit false.
type File struct {
	RepoLocalName      string   `yaml:"repo_local_name"`
	GitHubRepoName     string   `yaml:"github_repo_name"`
	GitLabSyncRepoName string   `yaml:"gitlab_sync_repo_name"`
	GitLabSyncRepoDesc string   `yaml:"gitlab_sync_repo_desc"`
	GitHubCreateRepo   *bool    `yaml:"github_create_repo"`
	GitLabCreateRepo   *bool    `yaml:"gitlab_create_repo"`
	GitLabCreateMirror *bool    `yaml:"gitlab_create_mirror"`
	ExclusionFiles     []string `yaml:"exclusion_files"`
}

// Load reads and decodes the config file at repoPath/name. repo_local_name
// is the only required key.
func Load(repoPath, name string) (*File, error) {
	path := filepath.Join(repoPath, name)
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, faults.New(faults.Configuration, fmt.Sprintf("reading config file %s", path), err)
	}
	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, faults.New(faults.Configuration, fmt.Sprintf("parsing config file %s", path), err)
	}
	if f.RepoLocalName == "" {
		return nil, faults.Newf(faults.Configuration, "config file %s: repo_local_name is required", path)
	}
	return &f, nil
}

// SyncRepoName returns gitlab_sync_repo_name, defaulting to repo_local_name
// when the key is absent.
func (f *File) SyncRepoName() string {
	if f.GitLabSyncRepoName != "" {
		return f.GitLabSyncRepoName
	}
	return f.RepoLocalName
}
