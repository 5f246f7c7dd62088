package render

import (
	"math"
	"testing"

	"github.com/stemsi/historico-backend/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFlattenTranscript_Aliases(t *testing.T) {
	data := FlattenTranscript(sampleDocument())

	aluno := data["aluno"].(map[string]any)
	assert.Equal(t, "Ana Souza", data["aluno_nome"])
	assert.Equal(t, aluno["nome"], data["aluno_nome"])
	assert.Equal(t, aluno["documento"], data["aluno_documento"])
	assert.Equal(t, "07/03/2010", data["aluno_nascimento"])
	assert.Equal(t, studentID.String(), data["aluno_id"])

	assinaturas := data["assinaturas"].(map[string]any)
	assert.Equal(t, "Carla Lima", data["diretor_nome"])
	assert.Equal(t, assinaturas["diretor_nome"], data["diretor_nome"])
	assert.Equal(t, assinaturas["secretario_matricula"], data["secretario_matricula"])

	assert.Equal(t, "Recife", data["cidade"])
	assert.Equal(t, "12/12/2025", data["data_emissao"])
	assert.Equal(t, "https://escola.example", data["app_url"])
	assert.Equal(t, "0123456789abcdef0123456789abcdef", data["documento_hash"])

	enrollments := data["enrollments"].([]map[string]any)
	require.Len(t, enrollments, 2)

	first := enrollments[0]
	assert.Equal(t, "1", first["idx"])
	assert.Equal(t, "2", enrollments[1]["idx"])
	assert.Equal(t, "2024", first["anoLetivo"])
	assert.Equal(t, "9º ano", first["etapa"])
	assert.Equal(t, "2024 — 9º ano", first["anoEtapa"])
	assert.Equal(t, "A / Manhã", first["turmaTurno"])

	class := first["class"].(map[string]any)
	schoolYear := class["schoolYear"].(map[string]any)
	assert.Equal(t, schoolYear["anoLetivo"], first["class_schoolYear_anoLetivo"])
	assert.Equal(t, class["turma"], first["class_turma"])

	resumo := first["resumo"].(map[string]any)
	assert.Equal(t, "7,5", first["resumo_mediaFinal"])
	assert.Equal(t, resumo["mediaFinal"], first["resumo_mediaFinal"])
	assert.Equal(t, "95", first["resumo_frequenciaFinal"])
	assert.Equal(t, "1.200", first["resumo_cargaHorariaTotal"])
	assert.Equal(t, "Aprovado", first["resumo_resultadoFinal"])

	grades := first["grades"].([]map[string]any)
	require.Len(t, grades, 3)
	assert.Equal(t, "Matemática", grades[0]["subject_nome"])
	assert.Equal(t, grades[0]["subject"].(map[string]any)["nome"], grades[0]["subject_nome"])
	assert.Equal(t, "200", grades[0]["subject_cargaHorariaAnual"])
	assert.Equal(t, "8,5", grades[0]["notaFinal"])
	assert.Equal(t, "2", grades[0]["faltas"])
	assert.Equal(t, "—", grades[1]["notaFinal"])
	assert.Equal(t, "—", grades[1]["faltas"])
	assert.Equal(t, "0", grades[2]["faltas"])
}

func TestFlattenTranscript_DoesNotMutateModel(t *testing.T) {
	doc := sampleDocument()
	before := *doc.Transcript
	beforeBlocks := append([]model.TranscriptBlock(nil), doc.Transcript.Blocks...)

	_ = FlattenTranscript(doc)

	assert.Equal(t, before.Student, doc.Transcript.Student)
	assert.Equal(t, beforeBlocks, doc.Transcript.Blocks)
}

func TestFlattenTranscript_BlockWithoutScores(t *testing.T) {
	data := FlattenTranscript(sampleDocument())
	second := data["enrollments"].([]map[string]any)[1]

	assert.Equal(t, "—", second["resumo_mediaFinal"])
	assert.Equal(t, "—", second["resumo_frequenciaFinal"])
	assert.Equal(t, "—", second["resumo_resultadoFinal"])
	assert.Empty(t, second["grades"])
}

func TestBlockAverage(t *testing.T) {
	tests := []struct {
		name   string
		scores []*float64
		want   *float64
	}{
		{name: "no subjects", want: nil},
		{name: "no scores", scores: []*float64{nil, nil}, want: nil},
		{name: "ignores absent", scores: []*float64{ptr(8.0), nil, ptr(6.0)}, want: ptr(7.0)},
		{name: "ignores NaN", scores: []*float64{ptr(math.NaN()), ptr(5.0)}, want: ptr(5.0)},
		{name: "zero counts", scores: []*float64{ptr(0.0), ptr(10.0)}, want: ptr(5.0)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var b model.TranscriptBlock
			for _, s := range tt.scores {
				b.Subjects = append(b.Subjects, model.TranscriptSubject{FinalScore: s})
			}
			got := BlockAverage(b)
			if tt.want == nil {
				assert.Nil(t, got)
				return
			}
			require.NotNil(t, got)
			assert.InDelta(t, *tt.want, *got, 1e-9)
		})
	}
}
