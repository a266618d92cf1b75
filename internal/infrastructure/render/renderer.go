// Package render publishes the history as a static status page.
package render

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"html/template"
	"os"
	"path/filepath"
	"time"

	"github.com/doeshing/ronde/assets"
	"github.com/doeshing/ronde/internal/domain"
	"github.com/doeshing/ronde/internal/pkg/filesystem"
	"github.com/doeshing/ronde/internal/ports"
)

var indexTemplate = template.Must(template.New(domain.IndexFile).Parse(assets.IndexTemplate))

// SiteRenderer writes index.html, main.json and the static assets into a
// directory.
type SiteRenderer struct {
	outputDir string
	uid       *uint32
	gid       *uint32
	now       func() time.Time
}

// NewSiteRenderer creates a renderer targeting outputDir.
func NewSiteRenderer(outputDir string, uid, gid *uint32) *SiteRenderer {
	return &SiteRenderer{outputDir: outputDir, uid: uid, gid: gid, now: time.Now}
}

// Render implements ports.SnapshotRenderer.
func (r *SiteRenderer) Render(_ context.Context, site string, summary domain.Summary, history *domain.History) error {
	if err := os.MkdirAll(r.outputDir, domain.DirectoryPermissions); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}

	page, err := Page(site, summary, history, r.now())
	if err != nil {
		return err
	}
	if err := r.write(domain.IndexFile, page); err != nil {
		return err
	}

	doc, err := MainJSON(site, summary, history)
	if err != nil {
		return err
	}
	if err := r.write(domain.MainJSONFile, doc); err != nil {
		return err
	}

	if err := r.writeStatic(domain.StyleFile, assets.StyleCSS); err != nil {
		return err
	}
	return r.writeStatic(domain.ScriptFile, assets.MainJS)
}

func (r *SiteRenderer) write(name string, data []byte) error {
	path := filepath.Join(r.outputDir, name)
	if err := filesystem.WriteFileAtomic(path, data, domain.PublicFilePermissions); err != nil {
		return fmt.Errorf("write %s: %w", name, err)
	}
	if err := filesystem.Chown(path, r.uid, r.gid); err != nil {
		return fmt.Errorf("chown %s: %w", name, err)
	}
	return nil
}

// writeStatic leaves an existing file alone when its size already matches.
func (r *SiteRenderer) writeStatic(name string, data []byte) error {
	info, err := os.Stat(filepath.Join(r.outputDir, name))
	if err == nil && info.Size() == int64(len(data)) {
		return nil
	}
	return r.write(name, data)
}

type pageView struct {
	Site      string
	Summary   domain.Summary
	Probes    []probeView
	Generated string
}

type probeView struct {
	Name    string
	Entries []entryView
}

type entryView struct {
	ID       string
	Time     string
	Label    string
	TagKind  domain.TagKind
	Failed   bool
	Detailed bool
	Command  string
	Outcome  domain.Outcome
}

// Page renders index.html. Details are kept for failures and for the newest
// entry of each probe.
func Page(site string, summary domain.Summary, history *domain.History, generated time.Time) ([]byte, error) {
	view := pageView{
		Site:      site,
		Summary:   summary,
		Generated: generated.UTC().Format(domain.TimestampFormat),
	}
	for pi, p := range history.Probes {
		pv := probeView{Name: p.Name}
		for ei, e := range p.Entries {
			pv.Entries = append(pv.Entries, entryView{
				ID:       fmt.Sprintf("entry_%d_%d", pi, ei),
				Time:     e.Timestamp.UTC().Format(domain.TimestampFormat),
				Label:    e.Tag.Label(),
				TagKind:  e.Tag.Kind,
				Failed:   e.IsFailure(),
				Detailed: e.IsFailure() || ei == len(p.Entries)-1,
				Command:  e.Command,
				Outcome:  e.Outcome,
			})
		}
		view.Probes = append(view.Probes, pv)
	}

	var buf bytes.Buffer
	if err := indexTemplate.Execute(&buf, view); err != nil {
		return nil, fmt.Errorf("render page: %w", err)
	}
	return buf.Bytes(), nil
}

type mainDoc struct {
	Summary  domain.Summary `json:"s"`
	Commands []commandDoc   `json:"c"`
	Title    string         `json:"t"`
}

type commandDoc struct {
	Name    string     `json:"n"`
	Entries []entryDoc `json:"e"`
}

type entryDoc struct {
	Timestamp string `json:"t"`
	Value     string `json:"v"`
	Kind      string `json:"k"`
	Error     bool   `json:"e"`
}

// MainJSON renders the compact main.json document.
func MainJSON(site string, summary domain.Summary, history *domain.History) ([]byte, error) {
	doc := mainDoc{Summary: summary, Commands: []commandDoc{}, Title: site}
	for _, p := range history.Probes {
		c := commandDoc{Name: p.Name, Entries: []entryDoc{}}
		for _, e := range p.Entries {
			c.Entries = append(c.Entries, entryDoc{
				Timestamp: e.Timestamp.UTC().Format(domain.TimestampFormat),
				Value:     e.Tag.Label(),
				Kind:      e.Tag.ShortKind(),
				Error:     e.IsFailure(),
			})
		}
		doc.Commands = append(doc.Commands, c)
	}
	data, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("encode %s: %w", domain.MainJSONFile, err)
	}
	return data, nil
}

var _ ports.SnapshotRenderer = (*SiteRenderer)(nil)
