package ingest

import (
	"path/filepath"
	"regexp"
	"strconv"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/text"
)

// articleHeadingPattern matches headings like "Article 5", "Article 5: Title",
// or "Article 5 - Title".
var articleHeadingPattern = regexp.MustCompile(`^Article\s+(\d+)\s*(?:[:\-–]\s*(.+))?$`)

// ArticleSplitter splits a markdown statute file into per-article provisions
// using goldmark AST parsing. The first level-1 heading names the law; each
// level-2 heading starts an article whose paragraphs become the provision
// content.
type ArticleSplitter struct {
	parser goldmark.Markdown
}

// NewArticleSplitter creates a new ArticleSplitter.
func NewArticleSplitter() *ArticleSplitter {
	return &ArticleSplitter{
		parser: goldmark.New(
			goldmark.WithExtensions(extension.Table),
		),
	}
}

// Split parses the markdown content and returns one provision per article
// section. Sections without body text are dropped. The law name falls back
// to the filename when the document has no level-1 heading.
func (s *ArticleSplitter) Split(content []byte, filename string) ([]Provision, error) {
	if len(content) == 0 {
		return []Provision{}, nil
	}

	reader := text.NewReader(content)
	doc := s.parser.Parser().Parse(reader)

	lawName := lawNameFromFilename(filename)
	var provisions []Provision
	var current *Provision
	var body []string

	flush := func() {
		if current == nil {
			return
		}
		content := strings.TrimSpace(strings.Join(body, "\n\n"))
		if content != "" {
			current.Content = content
			provisions = append(provisions, *current)
		}
		current = nil
		body = nil
	}

	_ = ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}

		switch node := n.(type) {
		case *ast.Heading:
			headingText := extractTextFromNode(node, content)
			switch node.Level {
			case 1:
				lawName = headingText
			case 2:
				flush()
				article, title := parseArticleHeading(headingText)
				current = &Provision{
					LawName:  lawName,
					Article:  article,
					Title:    title,
					Filename: filepath.Base(filename),
				}
			}
			return ast.WalkSkipChildren, nil

		case *ast.Paragraph:
			if current != nil {
				if paragraph := extractTextFromNode(node, content); paragraph != "" {
					body = append(body, paragraph)
				}
			}
			return ast.WalkSkipChildren, nil
		}

		return ast.WalkContinue, nil
	})

	flush()

	return provisions, nil
}

// parseArticleHeading extracts the article number and optional title from a
// heading. Headings not matching the article pattern keep number 0 with the
// full heading as the title.
func parseArticleHeading(heading string) (int, string) {
	matches := articleHeadingPattern.FindStringSubmatch(strings.TrimSpace(heading))
	if matches == nil {
		return 0, strings.TrimSpace(heading)
	}

	article, err := strconv.Atoi(matches[1])
	if err != nil {
		return 0, strings.TrimSpace(heading)
	}

	return article, strings.TrimSpace(matches[2])
}

// lawNameFromFilename derives a law name from the filename: extension
// stripped, underscores and hyphens as spaces, words capitalized.
func lawNameFromFilename(filename string) string {
	name := filepath.Base(filename)
	name = strings.TrimSuffix(name, filepath.Ext(name))
	name = strings.NewReplacer("_", " ", "-", " ").Replace(name)

	words := strings.Fields(name)
	for i, word := range words {
		runes := []rune(word)
		if len(runes) > 0 {
			runes[0] = []rune(strings.ToUpper(string(runes[0])))[0]
			words[i] = string(runes)
		}
	}

	return strings.Join(words, " ")
}

// extractTextFromNode extracts the plain text content of a node.
func extractTextFromNode(n ast.Node, source []byte) string {
	var sb strings.Builder
	_ = ast.Walk(n, func(child ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		if textNode, ok := child.(*ast.Text); ok {
			sb.Write(textNode.Segment.Value(source))
			if textNode.SoftLineBreak() || textNode.HardLineBreak() {
				sb.WriteString("\n")
			}
		}
		return ast.WalkContinue, nil
	})
	return strings.TrimSpace(sb.String())
}
