package domain

import (
	"encoding/json"
	"fmt"
	"time"
)

// FormData is the typed payload of a clinical form. Each variant's JSON keys
// match the field names of its schema.
type FormData interface {
	FormType() FormType
	Validate() error
}

type IntakeForm struct {
	NomeCompleto      string `json:"nomeCompleto"`
	Idade             *int   `json:"idade,omitempty"`
	EstadoCivil       string `json:"estadoCivil"`
	Profissao         string `json:"profissao"`
	MotivoConsulta    string `json:"motivoConsulta"`
	HistoriaProblema  string `json:"historiaProblema"`
	HistoricoFamiliar string `json:"historicoFamiliar"`
	Medicamentos      string `json:"medicamentos"`
	Expectativas      string `json:"expectativas"`
}

func (IntakeForm) FormType() FormType { return FormIntake }

func (f IntakeForm) Validate() error {
	if f.Idade != nil && *f.Idade < 0 {
		return fmt.Errorf("idade: must not be negative")
	}
	return checkChoices(FormIntake, map[string]string{"estadoCivil": f.EstadoCivil})
}

// AnxietyInventory is the seven-item BAI excerpt.
type AnxietyInventory struct {
	Dormencia         string `json:"dormencia"`
	SensacaoCalor     string `json:"sensacaoCalor"`
	TremoresPernas    string `json:"tremoresPernas"`
	IncapazRelaxar    string `json:"incapazRelaxar"`
	MedoPiorAcontecer string `json:"medoPiorAcontecer"`
	Atordoado         string `json:"atordoado"`
	Palpitacao        string `json:"palpitacao"`
}

func (AnxietyInventory) FormType() FormType { return FormAnxietyInventory }

func (f AnxietyInventory) Validate() error {
	return checkChoices(FormAnxietyInventory, map[string]string{
		"dormencia":         f.Dormencia,
		"sensacaoCalor":     f.SensacaoCalor,
		"tremoresPernas":    f.TremoresPernas,
		"incapazRelaxar":    f.IncapazRelaxar,
		"medoPiorAcontecer": f.MedoPiorAcontecer,
		"atordoado":         f.Atordoado,
		"palpitacao":        f.Palpitacao,
	})
}

// DepressionInventory is the six-item BDI excerpt.
type DepressionInventory struct {
	Tristeza         string `json:"tristeza"`
	Pessimismo       string `json:"pessimismo"`
	SensacaoFracasso string `json:"sensacaoFracasso"`
	FaltaSatisfacao  string `json:"faltaSatisfacao"`
	SensacaoCulpa    string `json:"sensacaoCulpa"`
	SensacaoPunicao  string `json:"sensacaoPunicao"`
}

func (DepressionInventory) FormType() FormType { return FormDepressionInventory }

func (f DepressionInventory) Validate() error {
	return checkChoices(FormDepressionInventory, map[string]string{
		"tristeza":         f.Tristeza,
		"pessimismo":       f.Pessimismo,
		"sensacaoFracasso": f.SensacaoFracasso,
		"faltaSatisfacao":  f.FaltaSatisfacao,
		"sensacaoCulpa":    f.SensacaoCulpa,
		"sensacaoPunicao":  f.SensacaoPunicao,
	})
}

type CBTWorksheet struct {
	SituacaoProblema       string `json:"situacaoProblema"`
	PensamentosAutomaticos string `json:"pensamentosAutomaticos"`
	Emocoes                string `json:"emocoes"`
	Comportamentos         string `json:"comportamentos"`
	SensacoesFisicas       string `json:"sensacoesFisicas"`
	EvidenciasContra       string `json:"evidenciasContra"`
	EvidenciasAFavor       string `json:"evidenciasA_favor"`
	PensamentoEquilibrado  string `json:"pensamentoEquilibrado"`
	NovaEmocao             string `json:"novaEmocao"`
}

func (CBTWorksheet) FormType() FormType { return FormCBTWorksheet }

func (CBTWorksheet) Validate() error { return nil }

type PediatricForm struct {
	NomeCrianca              string `json:"nomeCrianca"`
	IdadeCrianca             *int   `json:"idadeCrianca,omitempty"`
	NomeResponsavel          string `json:"nomeResponsavel"`
	Parentesco               string `json:"parentesco"`
	MotivoConsulta           string `json:"motivoConsulta"`
	DesenvolvimentoMotor     string `json:"desenvolvimentoMotor"`
	DesenvolvimentoLinguagem string `json:"desenvolvimentoLinguagem"`
	ComportamentoEscola      string `json:"comportamentoEscola"`
	RelacionamentoFamilia    string `json:"relacionamentoFamilia"`
	BrincadeirasPreferidas   string `json:"brincadeirasPreferidas"`
	MedosPreocupacoes        string `json:"medosPreocupacoes"`
}

func (PediatricForm) FormType() FormType { return FormPediatric }

func (f PediatricForm) Validate() error {
	if f.IdadeCrianca != nil && *f.IdadeCrianca < 0 {
		return fmt.Errorf("idadeCrianca: must not be negative")
	}
	return nil
}

// NewFormData returns an empty variant for t.
func NewFormData(t FormType) (FormData, error) {
	switch t {
	case FormIntake:
		return &IntakeForm{}, nil
	case FormAnxietyInventory:
		return &AnxietyInventory{}, nil
	case FormDepressionInventory:
		return &DepressionInventory{}, nil
	case FormCBTWorksheet:
		return &CBTWorksheet{}, nil
	case FormPediatric:
		return &PediatricForm{}, nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownFormType, t)
}

// DecodeFormData decodes raw into the variant selected by t.
func DecodeFormData(t FormType, raw json.RawMessage) (FormData, error) {
	data, err := NewFormData(t)
	if err != nil {
		return nil, err
	}
	if len(raw) > 0 && string(raw) != "null" {
		if err := json.Unmarshal(raw, data); err != nil {
			return nil, fmt.Errorf("decode %s form: %w", t, err)
		}
	}
	return data, nil
}

// ClinicalForm is a filled-in template attached to a client.
type ClinicalForm struct {
	ID        string
	ClientID  string
	CreatedAt time.Time
	UpdatedAt time.Time
	Data      FormData
}

func (f ClinicalForm) Type() FormType {
	if f.Data == nil {
		return ""
	}
	return f.Data.FormType()
}

type clinicalFormJSON struct {
	ID        string          `json:"id"`
	ClientID  string          `json:"clientId"`
	Type      FormType        `json:"type"`
	CreatedAt time.Time       `json:"createdAt"`
	UpdatedAt time.Time       `json:"updatedAt"`
	Data      json.RawMessage `json:"data"`
}

func (f ClinicalForm) MarshalJSON() ([]byte, error) {
	data, err := json.Marshal(f.Data)
	if err != nil {
		return nil, err
	}
	return json.Marshal(clinicalFormJSON{
		ID:        f.ID,
		ClientID:  f.ClientID,
		Type:      f.Type(),
		CreatedAt: f.CreatedAt,
		UpdatedAt: f.UpdatedAt,
		Data:      data,
	})
}

func (f *ClinicalForm) UnmarshalJSON(b []byte) error {
	var raw clinicalFormJSON
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	data, err := DecodeFormData(raw.Type, raw.Data)
	if err != nil {
		return err
	}
	*f = ClinicalForm{
		ID:        raw.ID,
		ClientID:  raw.ClientID,
		CreatedAt: raw.CreatedAt,
		UpdatedAt: raw.UpdatedAt,
		Data:      data,
	}
	return nil
}
