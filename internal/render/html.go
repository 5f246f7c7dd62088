package render

import (
	"bytes"
	_ "embed"
	"fmt"
	"html/template"
	"strings"

	"github.com/stemsi/historico-backend/internal/format"
	"github.com/stemsi/historico-backend/internal/model"
)

//go:embed templates/historico.html.tmpl
var htmlTemplateSource string

// HTMLRenderer renders the transcript as a self-contained HTML page that is
// also laid out for A4 printing.
type HTMLRenderer struct {
	tmpl *template.Template
}

// NewHTMLRenderer parses the embedded page template.
func NewHTMLRenderer() *HTMLRenderer {
	return &HTMLRenderer{
		tmpl: template.Must(template.New("historico").Parse(htmlTemplateSource)),
	}
}

type htmlStudent struct {
	ID        string
	Name      string
	Document  string
	BirthDate string
}

type htmlRow struct {
	Name     string
	Hours    string
	Score    string
	Absences string
	Note     string
}

type htmlBlock struct {
	Heading    string
	Section    string
	Shift      string
	Rows       []htmlRow
	Attendance string
	Result     string
	TotalHours string
}

type htmlView struct {
	Student               htmlStudent
	Digest                string
	Alerts                []string
	Blocks                []htmlBlock
	City                  string
	IssueDate             string
	DirectorName          string
	DirectorRegistration  string
	SecretaryName         string
	SecretaryRegistration string
	VerificationURL       string
	// Data URLs are produced in-process and trusted as image sources.
	LetterheadDataURL template.URL
	CodeDataURL       template.URL
}

// Render produces the HTML document. Absent optional values print the
// placeholder glyph, never a zero.
func (r *HTMLRenderer) Render(doc model.TranscriptDocument) (string, error) {
	if doc.Transcript == nil {
		return "", fmt.Errorf("%w: nil transcript", ErrRenderFailure)
	}

	var buf bytes.Buffer
	if err := r.tmpl.Execute(&buf, newHTMLView(doc)); err != nil {
		return "", fmt.Errorf("%w: execute html template: %v", ErrRenderFailure, err)
	}
	return buf.String(), nil
}

func newHTMLView(doc model.TranscriptDocument) htmlView {
	t := doc.Transcript
	inst := doc.Institution

	v := htmlView{
		Student: htmlStudent{
			ID:        t.Student.ID.String(),
			Name:      format.OrPlaceholder(t.Student.Name),
			Document:  format.StringOrPlaceholder(t.Student.Document),
			BirthDate: format.Date(t.Student.BirthDate),
		},
		Digest:                doc.Digest,
		Alerts:                t.Alerts,
		Blocks:                make([]htmlBlock, 0, len(t.Blocks)),
		City:                  format.OrPlaceholder(inst.City),
		IssueDate:             format.Date(&inst.IssuedAt),
		DirectorName:          format.OrPlaceholder(inst.DirectorName),
		DirectorRegistration:  format.OrPlaceholder(inst.DirectorRegistration),
		SecretaryName:         format.OrPlaceholder(inst.SecretaryName),
		SecretaryRegistration: format.OrPlaceholder(inst.SecretaryRegistration),
		VerificationURL:       doc.Verification.URL,
	}
	if isImageDataURL(inst.LetterheadDataURL) {
		v.LetterheadDataURL = template.URL(inst.LetterheadDataURL)
	}
	if isImageDataURL(doc.Verification.CodeDataURL) {
		v.CodeDataURL = template.URL(doc.Verification.CodeDataURL)
	}

	for _, b := range t.Blocks {
		hb := htmlBlock{
			Heading:    blockHeading(b),
			Section:    format.OrPlaceholder(b.Section),
			Shift:      format.OrPlaceholder(b.Shift),
			Rows:       make([]htmlRow, 0, len(b.Subjects)),
			Attendance: format.Percent(b.AttendanceRate),
			Result:     resultLabel(b.FinalResult),
			TotalHours: format.Int(b.TotalHours),
		}
		for _, s := range b.Subjects {
			hb.Rows = append(hb.Rows, htmlRow{
				Name:     format.OrPlaceholder(s.Name),
				Hours:    format.Int(s.AnnualHours),
				Score:    format.Score(s.FinalScore),
				Absences: format.Int(s.Absences),
				Note:     format.StringOrPlaceholder(s.Note),
			})
		}
		v.Blocks = append(v.Blocks, hb)
	}
	return v
}

// blockHeading joins year and stage as "2024 — 9º ano".
func blockHeading(b model.TranscriptBlock) string {
	return fmt.Sprintf("%d — %s", b.Year, format.OrPlaceholder(b.Stage))
}

// classLabel joins section and shift as "A / Manhã".
func classLabel(b model.TranscriptBlock) string {
	return format.OrPlaceholder(b.Section) + " / " + format.OrPlaceholder(b.Shift)
}

func resultLabel(r *model.FinalResult) string {
	if r == nil {
		return format.Placeholder
	}
	return format.OrPlaceholder(r.Label())
}

func isImageDataURL(s string) bool {
	return strings.HasPrefix(s, "data:image/")
}
