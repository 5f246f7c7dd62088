package render

import (
	"math"
	"strconv"

	"github.com/stemsi/historico-backend/internal/format"
	"github.com/stemsi/historico-backend/internal/model"
)

// FlattenTranscript projects a transcript document onto the flat data the
// DOCX template consumes. Every nested path the template may reference
// (aluno.nome, resumo.mediaFinal, class.schoolYear.anoLetivo, subject.nome,
// assinaturas.diretor_nome) has a flat twin (aluno_nome, resumo_mediaFinal,
// class_schoolYear_anoLetivo, subject_nome, diretor_nome) holding the same
// value. Derived values are computed here because the template language has
// no arithmetic. The input is never modified.
func FlattenTranscript(doc model.TranscriptDocument) map[string]any {
	t := doc.Transcript
	inst := doc.Institution

	aluno := map[string]any{
		"nome":       format.OrPlaceholder(t.Student.Name),
		"documento":  format.StringOrPlaceholder(t.Student.Document),
		"nascimento": format.Date(t.Student.BirthDate),
		"id":         t.Student.ID.String(),
	}
	assinaturas := map[string]any{
		"diretor_nome":         format.OrPlaceholder(inst.DirectorName),
		"diretor_matricula":    format.OrPlaceholder(inst.DirectorRegistration),
		"secretario_nome":      format.OrPlaceholder(inst.SecretaryName),
		"secretario_matricula": format.OrPlaceholder(inst.SecretaryRegistration),
	}

	enrollments := make([]map[string]any, 0, len(t.Blocks))
	for i, b := range t.Blocks {
		enrollments = append(enrollments, flattenBlock(i+1, b))
	}

	data := map[string]any{
		"aluno":           aluno,
		"assinaturas":     assinaturas,
		"enrollments":     enrollments,
		"app_url":         format.OrPlaceholder(doc.BaseURL),
		"verificacao_url": format.OrPlaceholder(doc.Verification.URL),
		"documento_hash":  format.OrPlaceholder(doc.Digest),
		"cidade":          format.OrPlaceholder(inst.City),
		"data_emissao":    format.Date(&inst.IssuedAt),
	}
	flattenInto(data, "aluno", aluno)
	for k, v := range assinaturas {
		data[k] = v
	}
	return data
}

func flattenBlock(idx int, b model.TranscriptBlock) map[string]any {
	schoolYear := map[string]any{
		"anoLetivo": strconv.Itoa(b.Year),
		"etapa":     format.OrPlaceholder(b.Stage),
	}
	class := map[string]any{
		"turma":      format.OrPlaceholder(b.Section),
		"turno":      format.OrPlaceholder(b.Shift),
		"schoolYear": schoolYear,
	}
	resumo := map[string]any{
		"cargaHorariaTotal": format.Int(b.TotalHours),
		"mediaFinal":        format.Score(BlockAverage(b)),
		"frequenciaFinal":   format.WholeNumber(b.AttendanceRate),
		"resultadoFinal":    resultLabel(b.FinalResult),
	}

	grades := make([]map[string]any, 0, len(b.Subjects))
	for _, s := range b.Subjects {
		subject := map[string]any{
			"nome":              format.OrPlaceholder(s.Name),
			"cargaHorariaAnual": format.Int(s.AnnualHours),
		}
		g := map[string]any{
			"subject":   subject,
			"notaFinal": format.Score(s.FinalScore),
			"faltas":    format.Int(s.Absences),
			"parecer":   format.StringOrPlaceholder(s.Note),
		}
		flattenInto(g, "subject", subject)
		grades = append(grades, g)
	}

	e := map[string]any{
		"idx":        strconv.Itoa(idx),
		"class":      class,
		"resumo":     resumo,
		"grades":     grades,
		"anoLetivo":  schoolYear["anoLetivo"],
		"etapa":      schoolYear["etapa"],
		"turma":      class["turma"],
		"turno":      class["turno"],
		"anoEtapa":   blockHeading(b),
		"turmaTurno": classLabel(b),
	}
	flattenInto(e, "class", class)
	flattenInto(e, "resumo", resumo)
	return e
}

// flattenInto copies every leaf of nested into dst under prefix_key,
// descending into nested maps (class.schoolYear.etapa -> class_schoolYear_etapa).
func flattenInto(dst map[string]any, prefix string, nested map[string]any) {
	for k, v := range nested {
		key := prefix + "_" + k
		if m, ok := v.(map[string]any); ok {
			flattenInto(dst, key, m)
			continue
		}
		dst[key] = v
	}
}

// BlockAverage is the mean of the block's recorded scores, or nil when no
// subject has a score.
func BlockAverage(b model.TranscriptBlock) *float64 {
	var sum float64
	n := 0
	for _, s := range b.Subjects {
		if s.FinalScore == nil || math.IsNaN(*s.FinalScore) || math.IsInf(*s.FinalScore, 0) {
			continue
		}
		sum += *s.FinalScore
		n++
	}
	if n == 0 {
		return nil
	}
	avg := sum / float64(n)
	return &avg
}
