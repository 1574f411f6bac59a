package domain

import (
	"errors"
	"fmt"
)

var ErrUnknownFormType = errors.New("unknown form type")

// FormType is the closed set of clinical form templates.
type FormType string

const (
	FormIntake              FormType = "intake"
	FormAnxietyInventory    FormType = "anxiety-inventory"
	FormDepressionInventory FormType = "depression-inventory"
	FormCBTWorksheet        FormType = "cbt-worksheet"
	FormPediatric           FormType = "pediatric"
)

type FieldKind string

const (
	FieldText     FieldKind = "text"
	FieldNumber   FieldKind = "number"
	FieldSelect   FieldKind = "select"
	FieldTextarea FieldKind = "textarea"
)

type FieldSpec struct {
	Name    string    `json:"name"`
	Label   string    `json:"label"`
	Kind    FieldKind `json:"type"`
	Options []string  `json:"options,omitempty"`
}

// FormSchema describes how a form type is rendered.
type FormSchema struct {
	Type   FormType    `json:"type"`
	Title  string      `json:"title"`
	Fields []FieldSpec `json:"fields"`
}

var baiOptions = []string{"0 - Absolutamente não", "1 - Levemente", "2 - Moderadamente", "3 - Gravemente"}

func baiField(name, label string) FieldSpec {
	return FieldSpec{Name: name, Label: label, Kind: FieldSelect, Options: baiOptions}
}

func textarea(name, label string) FieldSpec {
	return FieldSpec{Name: name, Label: label, Kind: FieldTextarea}
}

var schemas = []FormSchema{
	{
		Type:  FormIntake,
		Title: "Anamnese",
		Fields: []FieldSpec{
			{Name: "nomeCompleto", Label: "Nome Completo", Kind: FieldText},
			{Name: "idade", Label: "Idade", Kind: FieldNumber},
			{Name: "estadoCivil", Label: "Estado Civil", Kind: FieldSelect, Options: []string{"Solteiro(a)", "Casado(a)", "Divorciado(a)", "Viúvo(a)"}},
			{Name: "profissao", Label: "Profissão", Kind: FieldText},
			textarea("motivoConsulta", "Motivo da Consulta"),
			textarea("historiaProblema", "História do Problema Atual"),
			textarea("historicoFamiliar", "Histórico Familiar"),
			textarea("medicamentos", "Medicamentos em Uso"),
			textarea("expectativas", "Expectativas com o Tratamento"),
		},
	},
	{
		Type:  FormAnxietyInventory,
		Title: "BAI (Ansiedade)",
		Fields: []FieldSpec{
			baiField("dormencia", "Dormência ou formigamento"),
			baiField("sensacaoCalor", "Sensação de calor"),
			baiField("tremoresPernas", "Tremores nas pernas"),
			baiField("incapazRelaxar", "Incapaz de relaxar"),
			baiField("medoPiorAcontecer", "Medo de que o pior aconteça"),
			baiField("atordoado", "Atordoado ou tonto"),
			baiField("palpitacao", "Palpitação ou aceleração do coração"),
		},
	},
	{
		Type:  FormDepressionInventory,
		Title: "BDI (Depressão)",
		Fields: []FieldSpec{
			{Name: "tristeza", Label: "Tristeza", Kind: FieldSelect, Options: []string{"0 - Não me sinto triste", "1 - Eu me sinto triste", "2 - Estou sempre triste", "3 - Estou tão triste que não consigo suportar"}},
			{Name: "pessimismo", Label: "Pessimismo", Kind: FieldSelect, Options: []string{"0 - Não estou desanimado", "1 - Eu me sinto desanimado", "2 - Acho que nada tenho a esperar", "3 - Acho o futuro sem esperança"}},
			{Name: "sensacaoFracasso", Label: "Sensação de fracasso", Kind: FieldSelect, Options: []string{"0 - Não me sinto um fracasso", "1 - Acho que fracassei mais que a maioria", "2 - Sinto que cometi muitos fracassos", "3 - Acho que sou um completo fracasso"}},
			{Name: "faltaSatisfacao", Label: "Falta de satisfação", Kind: FieldSelect, Options: []string{"0 - Tenho satisfação em tudo como antes", "1 - Não sinto mais satisfação com as coisas", "2 - Não consigo sentir satisfação real", "3 - Estou insatisfeito ou aborrecido"}},
			{Name: "sensacaoCulpa", Label: "Sensação de culpa", Kind: FieldSelect, Options: []string{"0 - Não me sinto culpado", "1 - Eu me sinto culpado às vezes", "2 - Eu me sinto culpado na maior parte do tempo", "3 - Eu me sinto sempre culpado"}},
			{Name: "sensacaoPunicao", Label: "Sensação de punição", Kind: FieldSelect, Options: []string{"0 - Não acho que esteja sendo punido", "1 - Acho que posso ser punido", "2 - Creio que vou ser punido", "3 - Acho que estou sendo punido"}},
		},
	},
	{
		Type:  FormCBTWorksheet,
		Title: "TCC",
		Fields: []FieldSpec{
			textarea("situacaoProblema", "Situação/Problema"),
			textarea("pensamentosAutomaticos", "Pensamentos Automáticos"),
			textarea("emocoes", "Emoções (0-100)"),
			textarea("comportamentos", "Comportamentos"),
			textarea("sensacoesFisicas", "Sensações Físicas"),
			textarea("evidenciasContra", "Evidências Contra o Pensamento"),
			textarea("evidenciasA_favor", "Evidências a Favor do Pensamento"),
			textarea("pensamentoEquilibrado", "Pensamento Mais Equilibrado"),
			textarea("novaEmocao", "Nova Emoção (0-100)"),
		},
	},
	{
		Type:  FormPediatric,
		Title: "Infantil",
		Fields: []FieldSpec{
			{Name: "nomeCrianca", Label: "Nome da Criança", Kind: FieldText},
			{Name: "idadeCrianca", Label: "Idade", Kind: FieldNumber},
			{Name: "nomeResponsavel", Label: "Nome do Responsável", Kind: FieldText},
			{Name: "parentesco", Label: "Parentesco", Kind: FieldText},
			textarea("motivoConsulta", "Motivo da Consulta"),
			textarea("desenvolvimentoMotor", "Desenvolvimento Motor"),
			textarea("desenvolvimentoLinguagem", "Desenvolvimento da Linguagem"),
			textarea("comportamentoEscola", "Comportamento na Escola"),
			textarea("relacionamentoFamilia", "Relacionamento Familiar"),
			textarea("brincadeirasPreferidas", "Brincadeiras Preferidas"),
			textarea("medosPreocupacoes", "Medos e Preocupações"),
		},
	},
}

// FormSchemas returns every template in display order.
func FormSchemas() []FormSchema {
	out := make([]FormSchema, len(schemas))
	copy(out, schemas)
	return out
}

func SchemaFor(t FormType) (FormSchema, error) {
	for _, s := range schemas {
		if s.Type == t {
			return s, nil
		}
	}
	return FormSchema{}, fmt.Errorf("%w: %q", ErrUnknownFormType, t)
}

// checkChoices rejects select values outside the schema's option list. Empty is allowed.
func checkChoices(t FormType, values map[string]string) error {
	schema, err := SchemaFor(t)
	if err != nil {
		return err
	}
	for _, f := range schema.Fields {
		if f.Kind != FieldSelect {
			continue
		}
		v := values[f.Name]
		if v == "" {
			continue
		}
		if !contains(f.Options, v) {
			return fmt.Errorf("%s: %q is not one of the allowed options", f.Name, v)
		}
	}
	return nil
}

func contains(list []string, v string) bool {
	for _, s := range list {
		if s == v {
			return true
		}
	}
	return false
}
