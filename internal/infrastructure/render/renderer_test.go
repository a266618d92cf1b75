package render

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/doeshing/ronde/assets"
	"github.com/doeshing/ronde/internal/domain"
)

func fixture() *domain.History {
	return &domain.History{Probes: []domain.ProbeHistory{
		{Name: "web <prod>", Entries: []domain.HistoryEntry{
			{
				Timestamp: time.Date(2024, 2, 5, 12, 0, 0, 0, time.UTC),
				Tag:       domain.DayTag(0),
				Command:   "curl -f http://localhost",
				Outcome:   domain.CommandFailure(22, "", "<refused>"),
			},
			{
				Timestamp: time.Date(2024, 2, 7, 9, 0, 0, 0, time.UTC),
				Tag:       domain.HourTag(9),
				Command:   "curl -f http://localhost",
				Outcome:   domain.Success(0, "fine", ""),
			},
			{
				Timestamp: time.Date(2024, 2, 7, 10, 5, 0, 0, time.UTC),
				Tag:       domain.MinuteTag(5),
				Command:   "curl -f http://localhost",
				Outcome:   domain.Success(0, "latest", ""),
			},
		}},
		{Name: "disk", Entries: []domain.HistoryEntry{{
			Timestamp: time.Date(2024, 2, 7, 10, 5, 0, 0, time.UTC),
			Tag:       domain.MinuteTag(5),
			Command:   "df /",
			Outcome:   domain.Timeout(30),
		}}},
	}}
}

func TestMainJSON(t *testing.T) {
	history := fixture()
	data, err := MainJSON("Ronde", history.SummaryFromLatest(), history)
	require.NoError(t, err)

	var doc map[string]interface{}
	require.NoError(t, json.Unmarshal(data, &doc))
	assert.Equal(t, "Ronde", doc["t"])
	assert.Equal(t, map[string]interface{}{"nb_ok": 1.0, "nb_err": 1.0}, doc["s"])

	commands := doc["c"].([]interface{})
	require.Len(t, commands, 2)
	web := commands[0].(map[string]interface{})
	assert.Equal(t, "web <prod>", web["n"])
	entries := web["e"].([]interface{})
	require.Len(t, entries, 3)
	assert.Equal(t, map[string]interface{}{
		"t": "Mon, 05 Feb 2024 12:00:00 +0000",
		"v": "Mo",
		"k": "d",
		"e": true,
	}, entries[0])
	assert.Equal(t, "09", entries[1].(map[string]interface{})["v"])
	assert.Equal(t, "m", entries[2].(map[string]interface{})["k"])
}

func TestPage(t *testing.T) {
	history := fixture()
	generated := time.Date(2024, 2, 7, 10, 6, 0, 0, time.UTC)
	page, err := Page("Ronde", history.SummaryFromLatest(), history, generated)
	require.NoError(t, err)
	html := string(page)

	assert.Contains(t, html, "1 command failed")
	assert.Contains(t, html, "web &lt;prod&gt;")
	assert.NotContains(t, html, "<refused>")
	assert.Contains(t, html, "&lt;refused&gt;")
	assert.Contains(t, html, "Timeout 30s")
	assert.Contains(t, html, `id="entry_0_0"`)
	assert.NotContains(t, html, `id="entry_0_1"`, "older successes carry no details")
	assert.Contains(t, html, `id="entry_0_2"`)
	assert.Contains(t, html, ">Mo</div>")
	assert.Contains(t, html, "Wed, 07 Feb 2024 10:06:00")
}

func TestPageHealthy(t *testing.T) {
	page, err := Page("Ronde", domain.Summary{OK: 2}, domain.NewHistory(), time.Now())
	require.NoError(t, err)
	assert.Contains(t, string(page), "All Systems Operational")
}

func TestRenderWritesSite(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "www")
	r := NewSiteRenderer(dir, nil, nil)
	history := fixture()
	require.NoError(t, r.Render(context.Background(), "Ronde", history.SummaryFromLatest(), history))

	for _, name := range []string{domain.IndexFile, domain.MainJSONFile, domain.StyleFile, domain.ScriptFile} {
		info, err := os.Stat(filepath.Join(dir, name))
		require.NoError(t, err, name)
		assert.Equal(t, os.FileMode(domain.PublicFilePermissions), info.Mode().Perm(), name)
	}
	css, err := os.ReadFile(filepath.Join(dir, domain.StyleFile))
	require.NoError(t, err)
	assert.Equal(t, assets.StyleCSS, css)
}

func TestStaticFilesKeptWhenSizeMatches(t *testing.T) {
	dir := t.TempDir()
	custom := strings.Repeat("x", len(assets.StyleCSS))
	require.NoError(t, os.WriteFile(filepath.Join(dir, domain.StyleFile), []byte(custom), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, domain.ScriptFile), []byte("short"), 0o644))

	r := NewSiteRenderer(dir, nil, nil)
	require.NoError(t, r.Render(context.Background(), "Ronde", domain.Summary{}, domain.NewHistory()))

	css, err := os.ReadFile(filepath.Join(dir, domain.StyleFile))
	require.NoError(t, err)
	assert.Equal(t, custom, string(css))

	js, err := os.ReadFile(filepath.Join(dir, domain.ScriptFile))
	require.NoError(t, err)
	assert.Equal(t, assets.MainJS, js)
}
