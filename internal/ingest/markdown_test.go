package ingest

import (
	"testing"
)

const sampleStatute = `# Building Lots and Buildings Transaction Business Act

Preamble text before any article is ignored.

## Article 3: License

A person who intends to operate a building lots and buildings
transaction business must obtain a license.

The license is valid for five years.

## Article 4 - Application

An application for a license must state the trade name and office
locations.

## Article 5

This article has a number but no title.

## Supplementary Provisions

Transitional measures apply to licenses issued before enforcement.

## Article 99: Empty Section
`

func TestArticleSplitter_Split(t *testing.T) {
	splitter := NewArticleSplitter()

	provisions, err := splitter.Split([]byte(sampleStatute), "statutes/building_act.md")
	if err != nil {
		t.Fatalf("Split() error = %v", err)
	}

	// Article 99 has no body and is dropped.
	if len(provisions) != 4 {
		t.Fatalf("Split() returned %d provisions, want 4: %+v", len(provisions), provisions)
	}

	first := provisions[0]
	if first.LawName != "Building Lots and Buildings Transaction Business Act" {
		t.Errorf("LawName = %q, want the H1 heading", first.LawName)
	}
	if first.Article != 3 || first.Title != "License" {
		t.Errorf("article/title = %d/%q, want 3/License", first.Article, first.Title)
	}
	if first.Filename != "building_act.md" {
		t.Errorf("Filename = %q, want base name", first.Filename)
	}
	if first.Content == "" {
		t.Error("Content is empty")
	}

	// Both paragraphs of Article 3 are joined into one provision body.
	if len(first.Content) < len("The license is valid for five years.") {
		t.Errorf("Content too short, second paragraph missing: %q", first.Content)
	}

	if provisions[1].Article != 4 || provisions[1].Title != "Application" {
		t.Errorf("provisions[1] = %+v, want article 4 with dash-separated title", provisions[1])
	}
	if provisions[2].Article != 5 || provisions[2].Title != "" {
		t.Errorf("provisions[2] = %+v, want article 5 without title", provisions[2])
	}

	// Non-article headings keep number 0 with the heading as the title.
	if provisions[3].Article != 0 || provisions[3].Title != "Supplementary Provisions" {
		t.Errorf("provisions[3] = %+v", provisions[3])
	}
}

func TestArticleSplitter_Split_NoH1(t *testing.T) {
	splitter := NewArticleSplitter()

	content := "## Article 1: Scope\n\nThis act applies to residential leases.\n"
	provisions, err := splitter.Split([]byte(content), "statutes/residential-lease_act.md")
	if err != nil {
		t.Fatalf("Split() error = %v", err)
	}
	if len(provisions) != 1 {
		t.Fatalf("Split() returned %d provisions, want 1", len(provisions))
	}
	if provisions[0].LawName != "Residential Lease Act" {
		t.Errorf("LawName = %q, want derived from filename", provisions[0].LawName)
	}
}

func TestArticleSplitter_Split_Empty(t *testing.T) {
	splitter := NewArticleSplitter()

	provisions, err := splitter.Split(nil, "empty.md")
	if err != nil {
		t.Fatalf("Split() error = %v", err)
	}
	if len(provisions) != 0 {
		t.Errorf("Split() returned %d provisions, want 0", len(provisions))
	}
}

func TestParseArticleHeading(t *testing.T) {
	tests := []struct {
		heading     string
		wantArticle int
		wantTitle   string
	}{
		{heading: "Article 5", wantArticle: 5, wantTitle: ""},
		{heading: "Article 5: License", wantArticle: 5, wantTitle: "License"},
		{heading: "Article 5 - License", wantArticle: 5, wantTitle: "License"},
		{heading: "  Article 12:  Spaced Title  ", wantArticle: 12, wantTitle: "Spaced Title"},
		{heading: "Supplementary Provisions", wantArticle: 0, wantTitle: "Supplementary Provisions"},
		{heading: "Article five", wantArticle: 0, wantTitle: "Article five"},
	}

	for _, tt := range tests {
		t.Run(tt.heading, func(t *testing.T) {
			article, title := parseArticleHeading(tt.heading)
			if article != tt.wantArticle || title != tt.wantTitle {
				t.Errorf("parseArticleHeading(%q) = %d, %q, want %d, %q",
					tt.heading, article, title, tt.wantArticle, tt.wantTitle)
			}
		})
	}
}

func TestLawNameFromFilename(t *testing.T) {
	tests := []struct {
		filename string
		want     string
	}{
		{filename: "civil_code.md", want: "Civil Code"},
		{filename: "statutes/building-act.md", want: "Building Act"},
		{filename: "landlord_tenant-law.markdown", want: "Landlord Tenant Law"},
	}

	for _, tt := range tests {
		t.Run(tt.filename, func(t *testing.T) {
			if got := lawNameFromFilename(tt.filename); got != tt.want {
				t.Errorf("lawNameFromFilename(%q) = %q, want %q", tt.filename, got, tt.want)
			}
		})
	}
}
