package changelog

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestInspect(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		markdown string
		want     Section
	}{
		"standard section": {
			markdown: testSection,
			want: Section{
				Version: "1.2.0",
				Date:    "2024-01-01",
				Categories: []Category{
					{Name: "Added", Entries: []string{"Add login"}},
					{Name: "Fixed", Entries: []string{"Fix null pointer on logout"}},
				},
			},
		},
		"bold breaking block": {
			markdown: "## [2.0.0] - 2025-02-03\n\n**BREAKING**\n- Drop v1 API\n- Rename `--out`\n\n### Changed\n- Faster startup\n",
			want: Section{
				Version:  "2.0.0",
				Date:     "2025-02-03",
				Breaking: []string{"Drop v1 API", "Rename --out"},
				Categories: []Category{
					{Name: "Changed", Entries: []string{"Faster startup"}},
				},
			},
		},
		"breaking heading and extended categories": {
			markdown: "## [0.9.0] - 2024-09-09\n\n### ⚠ BREAKING CHANGES\n- Config keys renamed\n\n### Performance\n- Cache tags\n\n### Build/CI\n- Use Go 1.25\n",
			want: Section{
				Version:  "0.9.0",
				Date:     "2024-09-09",
				Breaking: []string{"Config keys renamed"},
				Categories: []Category{
					{Name: "Performance", Entries: []string{"Cache tags"}},
					{Name: "Build/CI", Entries: []string{"Use Go 1.25"}},
				},
			},
		},
		"stops at the next version": {
			markdown: testSection + "\n\n## [1.1.0] - 2023-12-01\n\n### Removed\n- Old thing\n",
			want: Section{
				Version: "1.2.0",
				Date:    "2024-01-01",
				Categories: []Category{
					{Name: "Added", Entries: []string{"Add login"}},
					{Name: "Fixed", Entries: []string{"Fix null pointer on logout"}},
				},
			},
		},
		"title line ignored": {
			markdown: "# Changelog\n\n" + testSection,
			want: Section{
				Version: "1.2.0",
				Date:    "2024-01-01",
				Categories: []Category{
					{Name: "Added", Entries: []string{"Add login"}},
					{Name: "Fixed", Entries: []string{"Fix null pointer on logout"}},
				},
			},
		},
		"heading with link reference": {
			markdown: "## [1.0.0] - 2024-04-04\n\n### Added\n- First\n\n[1.0.0]: https://example.com/releases/v1.0.0\n",
			want: Section{
				Version:    "1.0.0",
				Date:       "2024-04-04",
				Categories: []Category{{Name: "Added", Entries: []string{"First"}}},
			},
		},
		"wrapped bullet": {
			markdown: "## [1.0.0] - 2024-04-04\n\n### Fixed\n- Fix a long\n  wrapped line\n",
			want: Section{
				Version:    "1.0.0",
				Date:       "2024-04-04",
				Categories: []Category{{Name: "Fixed", Entries: []string{"Fix a long wrapped line"}}},
			},
		},
		"unrecognized text": {
			markdown: "Sure! Here is your changelog.",
			want:     Section{},
		},
		"list without category": {
			markdown: "## [1.0.0] - 2024-04-04\n\n- orphan\n",
			want:     Section{Version: "1.0.0", Date: "2024-04-04"},
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, Inspect(tt.markdown))
		})
	}
}

func TestSection_Helpers(t *testing.T) {
	t.Parallel()

	s := Section{
		Version:  "1.0.0",
		Breaking: []string{"a"},
		Categories: []Category{
			{Name: "Added", Entries: []string{"b", "c"}},
			{Name: "Docs"},
		},
	}

	assert.True(t, s.HasHeading())
	assert.Equal(t, 3, s.Count())
	assert.False(t, s.IsEmpty())
	assert.Equal(t, []string{"Added"}, s.CategoryNames())
	assert.True(t, Section{}.IsEmpty())

	assert.True(t, IsKnownCategory("fixed"))
	assert.True(t, IsKnownCategory(" Build/CI "))
	assert.False(t, IsKnownCategory("Misc"))
}
