package domain

// Touchpoint é uma sessão anexada à jornada de uma conversão, já com o custo
// de mídia resolvido (0 quando a sessão não possui registro em session_costs)
type Touchpoint struct {
	SessionID             string
	ChannelName           string
	EventDate             string
	EventTime             string
	HolderEngagement      bool
	CloserEngagement      bool
	ImpressionInteraction bool
	Cost                  float64
}

// Journey é a jornada de cliente de uma conversão: a sequência de touchpoints
// do mesmo usuário, ordenada no tempo, todos anteriores ou iguais ao instante
// da conversão. Construída a cada execução do pipeline, nunca persistida.
//
// Uma conversão sem sessões qualificadas ainda gera uma jornada (vazia), para
// que a semântica de junção das etapas seguintes continue sendo outer join.
type Journey struct {
	ConvID      string
	UserID      string
	ConvDate    string
	ConvTime    string
	Revenue     float64
	Touchpoints []Touchpoint
}

// IsEmpty indica uma jornada sem sessões qualificadas
func (j *Journey) IsEmpty() bool {
	return len(j.Touchpoints) == 0
}
