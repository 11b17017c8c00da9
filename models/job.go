package models

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// Job is an immutable description of a single posting to apply to. It is
// produced by the (external) scraper and read-only inside the engine.
type Job struct {
	URL         string `json:"url"`
	ApplyURL    string `json:"apply_url"`
	Title       string `json:"title"`
	Company     string `json:"company"`
	Description string `json:"description,omitempty"`
	Source      string `json:"source,omitempty"`

	// Dir is the job folder the record was loaded from, when applicable.
	// Resume PDFs and audit artifacts live next to it.
	Dir string `json:"-"`
}

// ID derives the deduplication key for the job: a hash over the lowercased
// company and title plus the apply URL. Two scrapes of the same posting
// always map to the same ID.
func (j Job) ID() string {
	sum := sha256.Sum256([]byte(strings.ToLower(j.Company) + strings.ToLower(j.Title) + j.ApplyURL))
	return hex.EncodeToString(sum[:])[:16]
}

// ResumePath returns the first PDF found in the job folder, or "".
func (j Job) ResumePath() string {
	if j.Dir == "" {
		return ""
	}
	matches, _ := filepath.Glob(filepath.Join(j.Dir, "*.pdf"))
	if len(matches) == 0 {
		return ""
	}
	sort.Strings(matches)
	return matches[0]
}

// LoadJob reads a single job folder: meta.json for company/title plus an
// apply_url.txt holding the application link. Folders produced by the
// scraper always carry both; anything else is skipped by the caller.
func LoadJob(dir string) (*Job, error) {
	urlFile := filepath.Join(dir, "apply_url.txt")
	raw, err := os.ReadFile(urlFile)
	if err != nil {
		return nil, fmt.Errorf("job folder %s has no apply_url.txt: %w", filepath.Base(dir), err)
	}
	applyURL := strings.TrimSpace(string(raw))
	if applyURL == "" {
		return nil, fmt.Errorf("job folder %s has an empty apply URL", filepath.Base(dir))
	}

	job := &Job{ApplyURL: applyURL, URL: applyURL, Dir: dir}

	if metaRaw, err := os.ReadFile(filepath.Join(dir, "meta.json")); err == nil {
		var meta struct {
			URL     string `json:"url"`
			Title   string `json:"title"`
			Company string `json:"company"`
			Source  string `json:"source"`
		}
		if err := json.Unmarshal(metaRaw, &meta); err != nil {
			return nil, fmt.Errorf("malformed meta.json in %s: %w", filepath.Base(dir), err)
		}
		job.Title = meta.Title
		job.Company = meta.Company
		job.Source = meta.Source
		if meta.URL != "" {
			job.URL = meta.URL
		}
	}
	if job.Company == "" {
		job.Company = filepath.Base(dir)
	}
	if job.Title == "" {
		job.Title = "Unknown"
	}

	if jd, err := os.ReadFile(filepath.Join(dir, "JD.txt")); err == nil {
		job.Description = string(jd)
	}

	return job, nil
}

// LoadJobs walks a jobs directory and returns every loadable job folder.
// Hidden folders and folders already renamed with a _DONE suffix are skipped.
func LoadJobs(root string) ([]Job, error) {
	entries, err := os.ReadDir(root)
	if err != nil {
		return nil, fmt.Errorf("read jobs dir: %w", err)
	}

	var jobs []Job
	for _, e := range entries {
		if !e.IsDir() {
			continue
		}
		name := e.Name()
		if strings.HasPrefix(name, ".") || strings.HasPrefix(name, "_") || strings.HasSuffix(name, "_DONE") {
			continue
		}
		job, err := LoadJob(filepath.Join(root, name))
		if err != nil {
			// Malformed folders are skipped, not fatal
			continue
		}
		jobs = append(jobs, *job)
	}
	return jobs, nil
}
