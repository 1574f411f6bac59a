package domain

// Timezone is a selectable practice timezone.
type Timezone struct {
	ID    string `json:"id"`
	Value string `json:"value"`
	Label string `json:"label"`
}

var brazilTimezones = []Timezone{
	{ID: "sp", Value: "America/Sao_Paulo", Label: "São Paulo (GMT-3)"},
	{ID: "ac", Value: "America/Rio_Branco", Label: "Acre (GMT-5)"},
	{ID: "al", Value: "America/Maceio", Label: "Alagoas (GMT-3)"},
	{ID: "am", Value: "America/Manaus", Label: "Amazonas (GMT-4)"},
	{ID: "ba", Value: "America/Salvador", Label: "Bahia (GMT-3)"},
	{ID: "ce", Value: "America/Fortaleza", Label: "Ceará (GMT-3)"},
	{ID: "es", Value: "America/Sao_Paulo", Label: "Espírito Santo (GMT-3)"},
	{ID: "go", Value: "America/Sao_Paulo", Label: "Goiás (GMT-3)"},
	{ID: "ma", Value: "America/Fortaleza", Label: "Maranhão (GMT-3)"},
	{ID: "mt", Value: "America/Cuiaba", Label: "Mato Grosso (GMT-4)"},
	{ID: "ms", Value: "America/Campo_Grande", Label: "Mato Grosso do Sul (GMT-4)"},
	{ID: "mg", Value: "America/Sao_Paulo", Label: "Minas Gerais (GMT-3)"},
	{ID: "pa", Value: "America/Santarem", Label: "Pará (GMT-3)"},
	{ID: "pb", Value: "America/Fortaleza", Label: "Paraíba (GMT-3)"},
	{ID: "pr", Value: "America/Sao_Paulo", Label: "Paraná (GMT-3)"},
	{ID: "pe", Value: "America/Recife", Label: "Pernambuco (GMT-3)"},
	{ID: "pi", Value: "America/Fortaleza", Label: "Piauí (GMT-3)"},
	{ID: "rj", Value: "America/Sao_Paulo", Label: "Rio de Janeiro (GMT-3)"},
	{ID: "rn", Value: "America/Fortaleza", Label: "Rio Grande do Norte (GMT-3)"},
	{ID: "rs", Value: "America/Sao_Paulo", Label: "Rio Grande do Sul (GMT-3)"},
	{ID: "ro", Value: "America/Porto_Velho", Label: "Rondônia (GMT-4)"},
	{ID: "rr", Value: "America/Boa_Vista", Label: "Roraima (GMT-4)"},
	{ID: "sc", Value: "America/Sao_Paulo", Label: "Santa Catarina (GMT-3)"},
	{ID: "se", Value: "America/Maceio", Label: "Sergipe (GMT-3)"},
	{ID: "to", Value: "America/Araguaina", Label: "Tocantins (GMT-3)"},
	{ID: "df", Value: "America/Sao_Paulo", Label: "Distrito Federal (GMT-3)"},
}

func Timezones() []Timezone {
	out := make([]Timezone, len(brazilTimezones))
	copy(out, brazilTimezones)
	return out
}

// KnownTimezone reports whether value is one of the selectable IANA names.
func KnownTimezone(value string) bool {
	for _, tz := range brazilTimezones {
		if tz.Value == value {
			return true
		}
	}
	return false
}
