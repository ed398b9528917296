// Package knowledge extracts question and answer pairs from HTML FAQ pages.
package knowledge

import (
	"fmt"
	"io"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/set-night/eduassist/internal/domain"
)

// ParseHTML reads <dl> definition lists (dt question, following dd answers) and
// <details> blocks (summary question, remaining text answer). Duplicate questions
// keep their first answer.
func ParseHTML(r io.Reader) ([]domain.KnowledgeEntry, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, fmt.Errorf("parse html: %w", err)
	}

	var entries []domain.KnowledgeEntry
	seen := make(map[string]struct{})
	add := func(question, answer string) {
		question, answer = collapse(question), collapse(answer)
		if question == "" || answer == "" {
			return
		}
		key := strings.ToLower(question)
		if _, ok := seen[key]; ok {
			return
		}
		seen[key] = struct{}{}
		entries = append(entries, domain.KnowledgeEntry{Question: question, Answer: answer})
	}

	doc.Find("dl > dt").Each(func(_ int, dt *goquery.Selection) {
		var answers []string
		dt.NextUntil("dt").Filter("dd").Each(func(_ int, dd *goquery.Selection) {
			answers = append(answers, dd.Text())
		})
		add(dt.Text(), strings.Join(answers, " "))
	})

	doc.Find("details").Each(func(_ int, details *goquery.Selection) {
		summary := details.ChildrenFiltered("summary").First()
		if summary.Length() == 0 {
			return
		}
		question := summary.Text()
		body := details.Clone()
		body.ChildrenFiltered("summary").Remove()
		add(question, body.Text())
	})

	return entries, nil
}

func collapse(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
