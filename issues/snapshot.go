// Copyright 2025 Poiesic Systems
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


package issues

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/poiesic/issuematch/core"
)

const (
	// FileSuffix ends every snapshot file name.
	FileSuffix = "_BigKinds_current_issues.json"

	fileTimeLayout  = "2006.01.02_15.04.05"
	crawlTimeLayout = "2006-01-02 15:04:05"

	defaultSource   = "bigkinds.or.kr"
	defaultCategory = "전체"
)

// Snapshot is the decoded content of a snapshot file.
type Snapshot struct {
	CrawledAt time.Time
	Source    string
	Category  string
	Issues    []core.Issue
}

type snapshotFile struct {
	CrawledAt   string       `json:"crawled_at"`
	TotalIssues int          `json:"total_issues"`
	Source      string       `json:"source,omitempty"`
	Category    string       `json:"category,omitempty"`
	Issues      []issueEntry `json:"issues"`
}

type issueEntry struct {
	Number  int    `json:"이슈번호"`
	Title   string `json:"제목"`
	Content string `json:"내용"`
}

// FileName returns the snapshot file name for a crawl at t.
func FileName(t time.Time) string {
	return t.Format(fileTimeLayout) + FileSuffix
}

// Save writes issues as a new snapshot in dir and returns the file path.
// dir is created when missing.
func Save(dir string, issues []core.Issue, now time.Time) (string, error) {
	for i := range issues {
		if err := core.ValidateIssue(&issues[i]); err != nil {
			return "", fmt.Errorf("issue %d: %w", issues[i].Number, err)
		}
	}

	file := snapshotFile{
		CrawledAt:   now.Format(crawlTimeLayout),
		TotalIssues: len(issues),
		Source:      defaultSource,
		Category:    defaultCategory,
		Issues:      make([]issueEntry, len(issues)),
	}
	for i, issue := range issues {
		file.Issues[i] = issueEntry{Number: issue.Number, Title: issue.Title, Content: issue.Content}
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(file); err != nil {
		return "", err
	}

	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", err
	}
	path := filepath.Join(dir, FileName(now))
	if err := os.WriteFile(path, buf.Bytes(), 0644); err != nil {
		return "", err
	}
	return path, nil
}

// Load reads a snapshot file. Every issue must have a title and content.
func Load(path string) (*Snapshot, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var file snapshotFile
	if err := json.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrInvalidSnapshot, path, err)
	}

	snapshot := &Snapshot{
		Source:   file.Source,
		Category: file.Category,
		Issues:   make([]core.Issue, len(file.Issues)),
	}
	if file.CrawledAt != "" {
		crawledAt, err := time.ParseInLocation(crawlTimeLayout, file.CrawledAt, time.Local)
		if err != nil {
			return nil, fmt.Errorf("%w: crawled_at: %w", ErrInvalidSnapshot, err)
		}
		snapshot.CrawledAt = crawledAt
	}

	for i, entry := range file.Issues {
		issue := core.Issue{Number: entry.Number, Title: entry.Title, Content: entry.Content}
		if err := core.ValidateIssue(&issue); err != nil {
			return nil, fmt.Errorf("%w: issue %d: %w", ErrInvalidSnapshot, i+1, err)
		}
		snapshot.Issues[i] = issue
	}
	return snapshot, nil
}

// Latest returns the path of the most recently modified snapshot in dir.
func Latest(dir string) (string, error) {
	paths, err := filepath.Glob(filepath.Join(dir, "*"+FileSuffix))
	if err != nil {
		return "", err
	}

	var latest string
	var latestMod time.Time
	for _, path := range paths {
		info, err := os.Stat(path)
		if err != nil || info.IsDir() {
			continue
		}
		// Equal times fall back to the later name, which sorts by crawl time.
		if latest == "" || info.ModTime().After(latestMod) ||
			(info.ModTime().Equal(latestMod) && path > latest) {
			latest = path
			latestMod = info.ModTime()
		}
	}

	if latest == "" {
		return "", fmt.Errorf("%w in %s", ErrNoSnapshot, dir)
	}
	return latest, nil
}
