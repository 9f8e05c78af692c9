package index

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	logx "github.com/Nkromin/CustomerCareRAG/pkg/logger"
)

// policyDocument is the unit stored in the index: one chunk of policy text
// with the heading of the section it came from.
type policyDocument struct {
	Text    string `json:"text"`
	Section string `json:"section"`
}

// loadPolicyChunks reads every markdown file under dir and splits it into
// overlapping chunks, one section at a time so a chunk never straddles a
// heading boundary.
func loadPolicyChunks(dir string, chunkSize, chunkOverlap int) ([]policyDocument, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read policy directory %s: %w", dir, err)
	}

	var docs []policyDocument
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".md") {
			continue
		}

		path := filepath.Join(dir, entry.Name())
		content, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read policy file %s: %w", path, err)
		}

		fallback := strings.TrimSuffix(entry.Name(), ".md")
		for _, sec := range splitSections(string(content), fallback) {
			for _, text := range chunkText(sec.body, chunkSize, chunkOverlap) {
				docs = append(docs, policyDocument{Text: text, Section: sec.title})
			}
		}
	}

	logx.Debug().Int("chunks", len(docs)).Str("dir", dir).Msg("Policy documents loaded")
	return docs, nil
}

type section struct {
	title string
	body  string
}

// splitSections breaks markdown content on heading lines. Text before the
// first heading falls under the fallback title.
func splitSections(content, fallbackTitle string) []section {
	var sections []section
	current := section{title: fallbackTitle}
	var body strings.Builder

	flush := func() {
		text := strings.TrimSpace(body.String())
		if text != "" {
			current.body = text
			sections = append(sections, current)
		}
		body.Reset()
	}

	for _, line := range strings.Split(content, "\n") {
		trimmed := strings.TrimSpace(line)
		if strings.HasPrefix(trimmed, "#") {
			flush()
			current = section{title: strings.TrimSpace(strings.TrimLeft(trimmed, "#"))}
			continue
		}
		body.WriteString(line)
		body.WriteString("\n")
	}
	flush()

	return sections
}

// chunkText slices text into chunks of at most chunkSize runes with
// chunkOverlap runes of overlap between consecutive chunks.
func chunkText(text string, chunkSize, chunkOverlap int) []string {
	runes := []rune(text)
	if chunkSize <= 0 || len(runes) <= chunkSize {
		return []string{text}
	}

	step := chunkSize - chunkOverlap
	if step <= 0 {
		step = chunkSize
	}

	var chunks []string
	for start := 0; start < len(runes); start += step {
		end := start + chunkSize
		if end > len(runes) {
			end = len(runes)
		}
		chunk := strings.TrimSpace(string(runes[start:end]))
		if chunk != "" {
			chunks = append(chunks, chunk)
		}
		if end == len(runes) {
			break
		}
	}
	return chunks
}
