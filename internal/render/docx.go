package render

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"fmt"
	"html"
	"io"
	"path"
	"regexp"
	"strings"
	"text/template"

	"github.com/stemsi/historico-backend/internal/model"
)

// DocxContentType is the MIME type of the rendered document.
const DocxContentType = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"

var (
	// [[ ... ]] possibly split by Word into several runs.
	actionRe = regexp.MustCompile(`(?s)\[(?:<[^>]*>)*\[(.*?)\](?:<[^>]*>)*\]`)
	markupRe = regexp.MustCompile(`<[^>]*>`)

	// Opening tags only; a self-closing <w:p .../> has no </w:p> of its own.
	paragraphRe = regexp.MustCompile(`(?s)<w:p(?:\s[^>]*[^/>])?\s*>.*?</w:p>`)
	tableRowRe  = regexp.MustCompile(`(?s)<w:tr(?:\s[^>]*[^/>])?\s*>.*?</w:tr>`)
	controlRe   = regexp.MustCompile(`^\s*\[\[-?\s*(?:range|end|else)\b[^\]]*\]\]\s*$`)
	bareFieldRe = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*(?:\.[A-Za-z_][A-Za-z0-9_]*)*$`)

	quoteReplacer = strings.NewReplacer("“", `"`, "”", `"`, "‘", "'", "’", "'")
)

const lineBreak = `</w:t><w:br/><w:t xml:space="preserve">`

// DocxRenderer fills the Word template with a transcript.
//
// The template uses [[ ]] delimiters over the keys produced by
// FlattenTranscript. A paragraph or table row holding nothing but a
// [[range ...]], [[else]] or [[end]] tag is replaced by the tag itself, so
// loops repeat whole paragraphs and rows. Referencing a key that does not
// exist fails the render.
type DocxRenderer struct {
	templatePath string
}

// NewDocxRenderer creates a renderer for the template at templatePath.
func NewDocxRenderer(templatePath string) *DocxRenderer {
	return &DocxRenderer{templatePath: templatePath}
}

// Render produces the filled document. The output is assembled in memory and
// returned only when every part rendered; any failure wraps ErrRenderFailure.
func (r *DocxRenderer) Render(doc model.TranscriptDocument) ([]byte, error) {
	if doc.Transcript == nil {
		return nil, fmt.Errorf("%w: nil transcript", ErrRenderFailure)
	}

	zr, err := zip.OpenReader(r.templatePath)
	if err != nil {
		return nil, fmt.Errorf("%w: open template %s: %v", ErrRenderFailure, r.templatePath, err)
	}
	defer zr.Close()

	data := escapeValue(FlattenTranscript(doc))
	out, err := renderArchive(&zr.Reader, data)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrRenderFailure, r.templatePath, err)
	}
	return out, nil
}

func renderArchive(zr *zip.Reader, data any) ([]byte, error) {
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)

	found := false
	for _, f := range zr.File {
		if !isTemplatedPart(f.Name) {
			if err := zw.Copy(f); err != nil {
				return nil, fmt.Errorf("copy %s: %w", f.Name, err)
			}
			continue
		}
		if f.Name == "word/document.xml" {
			found = true
		}

		src, err := readPart(f)
		if err != nil {
			return nil, err
		}
		rendered, err := renderPart(f.Name, src, data)
		if err != nil {
			return nil, err
		}
		if err := checkWellFormed(rendered); err != nil {
			return nil, fmt.Errorf("%s is not well-formed after rendering: %w", f.Name, err)
		}

		w, err := zw.CreateHeader(&zip.FileHeader{
			Name:     f.Name,
			Method:   zip.Deflate,
			Modified: f.Modified,
		})
		if err != nil {
			return nil, fmt.Errorf("create %s: %w", f.Name, err)
		}
		if _, err := w.Write(rendered); err != nil {
			return nil, fmt.Errorf("write %s: %w", f.Name, err)
		}
	}
	if !found {
		return nil, fmt.Errorf("word/document.xml missing from template")
	}

	if err := zw.Close(); err != nil {
		return nil, fmt.Errorf("finalize archive: %w", err)
	}
	return buf.Bytes(), nil
}

// checkWellFormed reads every token of an XML part, failing on unbalanced
// or malformed markup.
func checkWellFormed(part []byte) error {
	dec := xml.NewDecoder(bytes.NewReader(part))
	for {
		_, err := dec.Token()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return err
		}
	}
}

func isTemplatedPart(name string) bool {
	if name == "word/document.xml" {
		return true
	}
	dir, file := path.Split(name)
	if dir != "word/" || path.Ext(file) != ".xml" {
		return false
	}
	return strings.HasPrefix(file, "header") || strings.HasPrefix(file, "footer")
}

func readPart(f *zip.File) ([]byte, error) {
	rc, err := f.Open()
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", f.Name, err)
	}
	defer rc.Close()

	b, err := io.ReadAll(rc)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", f.Name, err)
	}
	return b, nil
}

func renderPart(name string, src []byte, data any) ([]byte, error) {
	text := hoistControls(normalizeActions(string(src)))

	tmpl, err := template.New(name).
		Delims("[[", "]]").
		Option("missingkey=error").
		Parse(text)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", name, err)
	}

	var out bytes.Buffer
	if err := tmpl.Execute(&out, data); err != nil {
		return nil, fmt.Errorf("execute %s: %w", name, err)
	}
	return out.Bytes(), nil
}

// normalizeActions rewrites every [[ ... ]] so its body is plain template
// text: run markup Word inserted inside the tag is dropped, entities are
// decoded and typographic quotes are straightened. A bare key such as
// [[aluno_nome]] or [[aluno.nome]] becomes a field reference.
func normalizeActions(s string) string {
	return actionRe.ReplaceAllStringFunc(s, func(m string) string {
		body := actionRe.FindStringSubmatch(m)[1]
		body = markupRe.ReplaceAllString(body, "")
		body = strings.TrimSpace(quoteReplacer.Replace(html.UnescapeString(body)))
		if bareFieldRe.MatchString(body) && !templateKeywords[body] {
			body = "." + body
		}
		return "[[" + body + "]]"
	})
}

var templateKeywords = map[string]bool{
	"end": true, "else": true, "break": true, "continue": true,
	"nil": true, "true": true, "false": true,
}

// hoistControls replaces table rows, then paragraphs, whose only text is a
// loop control tag with the bare tag.
func hoistControls(s string) string {
	hoist := func(m string) string {
		text := markupRe.ReplaceAllString(m, "")
		if controlRe.MatchString(text) {
			return strings.TrimSpace(text)
		}
		return m
	}
	s = tableRowRe.ReplaceAllStringFunc(s, hoist)
	return paragraphRe.ReplaceAllStringFunc(s, hoist)
}

// escapeValue returns a copy of v with every string XML-escaped and line
// breaks turned into Word breaks. Maps and slices are copied, never modified.
func escapeValue(v any) any {
	switch x := v.(type) {
	case string:
		var b strings.Builder
		_ = xml.EscapeText(&b, []byte(x))
		// EscapeText encodes newlines as &#xA;.
		return strings.ReplaceAll(b.String(), "&#xA;", lineBreak)
	case map[string]any:
		out := make(map[string]any, len(x))
		for k, e := range x {
			out[k] = escapeValue(e)
		}
		return out
	case []map[string]any:
		out := make([]map[string]any, len(x))
		for i, e := range x {
			out[i] = escapeValue(e).(map[string]any)
		}
		return out
	case []any:
		out := make([]any, len(x))
		for i, e := range x {
			out[i] = escapeValue(e)
		}
		return out
	default:
		return v
	}
}
